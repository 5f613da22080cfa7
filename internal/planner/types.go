package planner

import "fmt"

// SampleFormat is the ffmpeg -sample_fmt name of the target sample layout.
type SampleFormat string

const (
	SampleU8  SampleFormat = "u8"
	SampleS16 SampleFormat = "s16"
	SampleS32 SampleFormat = "s32"
)

// Bits returns the sample width of f.
func (f SampleFormat) Bits() int {
	switch f {
	case SampleU8:
		return 8
	case SampleS16:
		return 16
	case SampleS32:
		return 32
	}
	return 0
}

// Description returns the human form, e.g. "signed 16-bit".
func (f SampleFormat) Description() string {
	switch f {
	case SampleU8:
		return "unsigned 8-bit"
	case SampleS16:
		return "signed 16-bit"
	case SampleS32:
		return "signed 32-bit"
	}
	return string(f)
}

// Plan is the conversion decision for one file. When Needed is false the
// target fields mirror the input and SampleFormat is empty.
type Plan struct {
	Needed           bool
	Reason           string // Why conversion is needed; empty when not.
	TargetSampleRate int
	TargetBitDepth   int
	SampleFormat     SampleFormat
	Container        string
}

// String renders e.g. "48000 Hz / signed 16-bit (aiff)".
func (p *Plan) String() string {
	if !p.Needed {
		return "no conversion"
	}
	return fmt.Sprintf("%d Hz / %s (%s)", p.TargetSampleRate, p.SampleFormat.Description(), p.Container)
}

// UnsupportedConfigurationError reports a bit depth with no target mapping.
type UnsupportedConfigurationError struct {
	BitDepth int
}

func (e *UnsupportedConfigurationError) Error() string {
	return fmt.Sprintf("unsupported bit depth %d (supported: 8, 16, 24, 32)", e.BitDepth)
}
