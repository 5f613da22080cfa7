package ffmpeg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/deckprep/internal/planner"
)

func aiffPlan() *planner.Plan {
	return &planner.Plan{
		Needed:           true,
		TargetSampleRate: 48000,
		TargetBitDepth:   16,
		SampleFormat:     planner.SampleS16,
		Container:        "aiff",
	}
}

func TestBuild_AIFF(t *testing.T) {
	args, err := Build("ffmpeg", "in.aiff", "in_CONVERTED.aiff", aiffPlan(), NewRetryState(false), false)
	require.NoError(t, err)

	want := "ffmpeg -hide_banner -nostdin -loglevel error -n -i in.aiff " +
		"-ar 48000 -sample_fmt s16 -c:a pcm_s16be -write_id3v2 1 -f aiff in_CONVERTED.aiff"
	assert.Equal(t, want, strings.Join(args, " "))
}

func TestBuild_WAVWithRetryFixes(t *testing.T) {
	plan := &planner.Plan{Needed: true, TargetSampleRate: 44100, TargetBitDepth: 32, SampleFormat: planner.SampleS32, Container: "wav"}
	rs := &RetryState{AudioOnly: true, StripMetadata: true}

	args, err := Build("/opt/ffmpeg", "a.wav", "b.wav", plan, rs, true)
	require.NoError(t, err)

	want := "/opt/ffmpeg -hide_banner -nostdin -loglevel error -y -i a.wav " +
		"-map 0:a -map_metadata -1 -ar 44100 -sample_fmt s32 -c:a pcm_s32le -f wav b.wav"
	assert.Equal(t, want, strings.Join(args, " "))
}

func TestCodecFor(t *testing.T) {
	tests := []struct {
		container string
		sf        planner.SampleFormat
		want      string
	}{
		{"wav", planner.SampleU8, "pcm_u8"},
		{"wav", planner.SampleS16, "pcm_s16le"},
		{"wav", planner.SampleS32, "pcm_s32le"},
		{"aiff", planner.SampleU8, "pcm_s8"},
		{"aiff", planner.SampleS16, "pcm_s16be"},
		{"aiff", planner.SampleS32, "pcm_s32be"},
	}
	for _, tt := range tests {
		got, err := CodecFor(tt.container, tt.sf)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s/%s", tt.container, tt.sf)
	}

	_, err := CodecFor("flac", planner.SampleS16)
	assert.Error(t, err)
	_, err = CodecFor("wav", "")
	assert.Error(t, err)
}

func TestRetryState_Advance(t *testing.T) {
	rs := NewRetryState(false)

	picture := "[aiff @ 0x1] Could not find tag for codec mjpeg in stream #1, codec not currently supported in container"
	assert.Equal(t, RetryAudioOnly, rs.Advance(picture))
	assert.True(t, rs.AudioOnly)

	// Same pattern again: fix already applied, metadata pattern does not match.
	rs2 := NewRetryState(false)
	rs2.Advance(picture)
	assert.Equal(t, RetryNone, rs2.Advance(picture))

	assert.Equal(t, RetryStripMetadata, rs.Advance("Error writing ID3v2 tag"))
	assert.Equal(t, RetryNone, rs.Advance(picture), "attempt limit reached")
}

func TestRetryState_MetadataAfterStreams(t *testing.T) {
	rs := NewRetryState(false)
	assert.Equal(t, RetryStripMetadata, rs.Advance("Failed to write ID3 frame"))
	assert.True(t, rs.StripMetadata)
	assert.False(t, rs.AudioOnly)
}

func TestRetryState_Strict(t *testing.T) {
	rs := NewRetryState(true)
	assert.Equal(t, RetryNone, rs.Advance("Could not find tag for codec png in stream #1"))
	assert.False(t, rs.AudioOnly)
}

func TestRetryState_Unclassified(t *testing.T) {
	rs := NewRetryState(false)
	assert.Equal(t, RetryNone, rs.Advance("in.wav: Invalid data found when processing input"))
}
