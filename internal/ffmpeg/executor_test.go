package ffmpeg

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/deckprep/internal/audiotest"
)

// fakeFFmpeg records invocations and plays back scripted results. A nil
// error in the script writes a valid AIFF at the requested format.
type fakeFFmpeg struct {
	t       *testing.T
	calls   [][]string
	results []ExecResult
	rate    int
	bits    int
}

func (f *fakeFFmpeg) run(ctx context.Context, args []string) ExecResult {
	f.calls = append(f.calls, args)
	out := args[len(args)-1]
	i := len(f.calls) - 1
	res := ExecResult{}
	if i < len(f.results) {
		res = f.results[i]
	}
	// ffmpeg leaves partial output behind on failure.
	if res.Err != nil {
		_ = os.WriteFile(out, []byte("partial"), 0o644)
		return res
	}
	audiotest.WriteAIFF(f.t, out, audiotest.Spec{SampleRate: f.rate, BitDepth: f.bits})
	return res
}

func newTestExecutor(f *fakeFFmpeg) *Executor {
	return &Executor{Bin: "ffmpeg", Timeout: time.Minute, Run: f.run}
}

func TestTranscode_Success(t *testing.T) {
	dir := t.TempDir()
	in, out := filepath.Join(dir, "a.aiff"), filepath.Join(dir, "a_CONVERTED.aiff")
	f := &fakeFFmpeg{t: t, rate: 48000, bits: 16}

	err := newTestExecutor(f).Transcode(context.Background(), in, out, aiffPlan(), false)
	require.NoError(t, err)
	assert.Len(t, f.calls, 1)
	assert.FileExists(t, out)
}

func TestTranscode_RetriesThenSucceeds(t *testing.T) {
	dir := t.TempDir()
	in, out := filepath.Join(dir, "a.aiff"), filepath.Join(dir, "a_CONVERTED.aiff")
	f := &fakeFFmpeg{t: t, rate: 48000, bits: 16, results: []ExecResult{
		{Stderr: "Could not find tag for codec mjpeg in stream #1", Err: errors.New("exit status 1")},
		{Stderr: "Error writing ID3v2 tag", Err: errors.New("exit status 1")},
	}}

	var retries []RetryAction
	e := newTestExecutor(f)
	e.OnRetry = func(_ string, attempt int, action RetryAction) { retries = append(retries, action) }

	require.NoError(t, e.Transcode(context.Background(), in, out, aiffPlan(), false))
	require.Len(t, f.calls, 3)
	assert.Equal(t, []RetryAction{RetryAudioOnly, RetryStripMetadata}, retries)

	third := strings.Join(f.calls[2], " ")
	assert.Contains(t, third, "-map 0:a")
	assert.Contains(t, third, "-map_metadata -1")
	assert.Contains(t, third, " -y ")
}

func TestTranscode_FailureRemovesOutput(t *testing.T) {
	dir := t.TempDir()
	in, out := filepath.Join(dir, "a.aiff"), filepath.Join(dir, "a_CONVERTED.aiff")
	f := &fakeFFmpeg{t: t, results: []ExecResult{
		{Stderr: "line one\nInvalid data found when processing input", Err: errors.New("exit status 1")},
	}}

	err := newTestExecutor(f).Transcode(context.Background(), in, out, aiffPlan(), false)
	var te *TranscodeError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 1, te.Attempts)
	assert.Contains(t, err.Error(), "Invalid data found")
	assert.NoFileExists(t, out)
}

func TestTranscode_StrictNoRetry(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "a_CONVERTED.aiff")
	f := &fakeFFmpeg{t: t, results: []ExecResult{
		{Stderr: "Could not find tag for codec mjpeg in stream #1", Err: errors.New("exit status 1")},
	}}
	e := newTestExecutor(f)
	e.Strict = true

	err := e.Transcode(context.Background(), filepath.Join(dir, "a.aiff"), out, aiffPlan(), false)
	require.Error(t, err)
	assert.Len(t, f.calls, 1)
	assert.NoFileExists(t, out)
}

func TestTranscode_RefusesExistingOutput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "a_CONVERTED.aiff")
	require.NoError(t, os.WriteFile(out, []byte("keep me"), 0o644))
	f := &fakeFFmpeg{t: t, rate: 48000, bits: 16}

	err := newTestExecutor(f).Transcode(context.Background(), filepath.Join(dir, "a.aiff"), out, aiffPlan(), false)
	assert.ErrorIs(t, err, ErrOutputExists)
	assert.Empty(t, f.calls)

	b, _ := os.ReadFile(out)
	assert.Equal(t, "keep me", string(b))

	require.NoError(t, newTestExecutor(f).Transcode(context.Background(), filepath.Join(dir, "a.aiff"), out, aiffPlan(), true))
}

func TestTranscode_VerificationMismatch(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "a_CONVERTED.aiff")
	f := &fakeFFmpeg{t: t, rate: 96000, bits: 24}

	err := newTestExecutor(f).Transcode(context.Background(), filepath.Join(dir, "a.aiff"), out, aiffPlan(), false)
	var te *TranscodeError
	require.ErrorAs(t, err, &te)
	assert.Contains(t, te.Err.Error(), "96000 Hz / 24-bit")
	assert.NoFileExists(t, out)
}

func TestTranscode_Timeout(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "a_CONVERTED.aiff")
	e := &Executor{
		Bin:     "ffmpeg",
		Timeout: 20 * time.Millisecond,
		Run: func(ctx context.Context, args []string) ExecResult {
			<-ctx.Done()
			return ExecResult{Stderr: "Could not find tag for codec mjpeg in stream #1", Err: errors.New("signal: killed")}
		},
	}

	err := e.Transcode(context.Background(), filepath.Join(dir, "a.aiff"), out, aiffPlan(), false)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	var te *TranscodeError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 1, te.Attempts, "timeouts are not retried")
}

func TestTranscode_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := &fakeFFmpeg{t: t, rate: 48000, bits: 16}
	dir := t.TempDir()

	err := newTestExecutor(f).Transcode(ctx, filepath.Join(dir, "a.aiff"), filepath.Join(dir, "b.aiff"), aiffPlan(), false)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.calls)
}
