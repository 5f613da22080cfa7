package ffmpeg

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/backmassage/deckprep/internal/planner"
)

var codecs = map[string]map[planner.SampleFormat]string{
	"wav": {
		planner.SampleU8:  "pcm_u8",
		planner.SampleS16: "pcm_s16le",
		planner.SampleS32: "pcm_s32le",
	},
	"aiff": {
		planner.SampleU8:  "pcm_s8",
		planner.SampleS16: "pcm_s16be",
		planner.SampleS32: "pcm_s32be",
	},
}

// CodecFor returns the PCM encoder for a container and sample format.
// AIFF has no unsigned 8-bit PCM, so u8 maps to pcm_s8 there.
func CodecFor(container string, sf planner.SampleFormat) (string, error) {
	byFormat, ok := codecs[container]
	if !ok {
		return "", fmt.Errorf("no encoder for container %q", container)
	}
	c, ok := byFormat[sf]
	if !ok {
		return "", fmt.Errorf("no %s encoder for sample format %q", container, sf)
	}
	return c, nil
}

// Build constructs the complete ffmpeg argument slice, binary first:
//
//	ffmpeg -hide_banner -nostdin -loglevel error -y|-n -i IN
//	  [-map 0:a] [-map_metadata -1]
//	  -ar RATE -sample_fmt FMT -c:a CODEC [-write_id3v2 1] -f CONTAINER OUT
func Build(bin, input, output string, plan *planner.Plan, rs *RetryState, overwrite bool) ([]string, error) {
	codec, err := CodecFor(plan.Container, plan.SampleFormat)
	if err != nil {
		return nil, err
	}

	args := make([]string, 0, 24)
	args = append(args, bin, "-hide_banner", "-nostdin", "-loglevel", "error")
	if overwrite {
		args = append(args, "-y")
	} else {
		args = append(args, "-n")
	}
	args = append(args, "-i", input)

	if rs.AudioOnly {
		args = append(args, "-map", "0:a")
	}
	if rs.StripMetadata {
		args = append(args, "-map_metadata", "-1")
	}

	args = append(args,
		"-ar", strconv.Itoa(plan.TargetSampleRate),
		"-sample_fmt", string(plan.SampleFormat),
		"-c:a", codec,
	)
	if plan.Container == "aiff" {
		args = append(args, "-write_id3v2", "1")
	}
	args = append(args, "-f", plan.Container, output)
	return args, nil
}

// RequiredEncoders lists every PCM encoder Build can select, sorted.
func RequiredEncoders() []string {
	var out []string
	for _, byFormat := range codecs {
		for _, c := range byFormat {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}
