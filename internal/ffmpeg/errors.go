package ffmpeg

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Pre-compiled regexes for classifying ffmpeg stderr output into retryable
// error categories. Checked in order by [RetryState.Advance]; the first
// matching pattern whose fix has not yet been applied wins.
var (
	reNonAudioStream = regexp.MustCompile(
		`(?i)Could not find tag for codec .* in stream|` +
			`does not support any stream of type (video|subtitle|data)|` +
			`Only audio streams are supported|` +
			`Error while opening encoder for output stream .*(video|mjpeg|png)|` +
			`Error initializing output stream .*(video|mjpeg|png)|` +
			`Unsupported (picture|attached pic)|` +
			`Invalid (picture|attached pic)`)

	reMetadataIssue = regexp.MustCompile(
		`(?i)ID3v2 .*(error|invalid|failed)|` +
			`Error writing (ID3|metadata|tag)|` +
			`invalid metadata|` +
			`Failed to write (ID3|metadata)|` +
			`Tag .* too (long|large)`)
)

// MatchNonAudioStream reports whether stderr shows a muxer rejecting a
// picture, video, subtitle or data stream.
func MatchNonAudioStream(stderr string) bool {
	return reNonAudioStream.MatchString(stderr)
}

// MatchMetadataIssue reports whether stderr shows a tag writing failure.
func MatchMetadataIssue(stderr string) bool {
	return reMetadataIssue.MatchString(stderr)
}

// ErrOutputExists is returned when the output path exists and overwriting
// was not requested.
var ErrOutputExists = errors.New("output already exists")

// TranscodeError reports a failed transcode. The output file has been
// removed by the time it is returned; the input is untouched.
type TranscodeError struct {
	Input    string
	Output   string
	Attempts int
	Stderr   string // Tail of the last attempt's stderr.
	Err      error
}

func (e *TranscodeError) Error() string {
	msg := fmt.Sprintf("transcode %s: %v", e.Input, e.Err)
	if e.Attempts > 1 {
		msg += fmt.Sprintf(" (after %d attempts)", e.Attempts)
	}
	if last := lastLine(e.Stderr); last != "" {
		msg += ": " + last
	}
	return msg
}

func (e *TranscodeError) Unwrap() error { return e.Err }

// stderrTail keeps the last n non-empty lines of s.
func stderrTail(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
