package planner

import (
	"fmt"
	"strings"

	"github.com/backmassage/deckprep/internal/probe"
)

// Decide produces the conversion plan for a file with format af, given the
// caps maxRate and maxBits. force requests conversion of compliant files.
//
// Flow:
//  1. Needed = force || rate > maxRate || bits > maxBits
//  2. Target rate = min(rate, maxRate); never upsample
//  3. Target sample format from min(bits, maxBits) via the fixed mapping
func Decide(af probe.AudioFormat, maxRate, maxBits int, force bool) (*Plan, error) {
	plan := &Plan{
		TargetSampleRate: min(af.SampleRate, maxRate),
		TargetBitDepth:   af.BitDepth,
		Container:        af.Container,
	}

	var reasons []string
	if af.SampleRate > maxRate {
		reasons = append(reasons, fmt.Sprintf("sample rate %d > %d", af.SampleRate, maxRate))
	}
	if af.BitDepth > maxBits {
		reasons = append(reasons, fmt.Sprintf("bit depth %d > %d", af.BitDepth, maxBits))
	}
	if force && len(reasons) == 0 {
		reasons = append(reasons, "forced")
	}
	if len(reasons) == 0 {
		plan.TargetSampleRate = af.SampleRate
		return plan, nil
	}
	plan.Needed = true
	plan.Reason = strings.Join(reasons, ", ")

	sf, err := SampleFormatFor(min(af.BitDepth, maxBits))
	if err != nil {
		return nil, err
	}
	plan.SampleFormat = sf
	plan.TargetBitDepth = sf.Bits()
	return plan, nil
}

// SampleFormatFor maps an effective bit depth to its output sample format.
func SampleFormatFor(bits int) (SampleFormat, error) {
	switch bits {
	case 8:
		return SampleU8, nil
	case 16, 24:
		return SampleS16, nil
	case 32:
		return SampleS32, nil
	}
	return "", &UnsupportedConfigurationError{BitDepth: bits}
}
