package ffmpeg

// RetryAction identifies which fix was applied (or none).
type RetryAction int

const (
	RetryNone          RetryAction = iota
	RetryAudioOnly                 // Map only audio streams.
	RetryStripMetadata             // Drop container metadata.
)

func (a RetryAction) String() string {
	switch a {
	case RetryAudioOnly:
		return "drop non-audio streams"
	case RetryStripMetadata:
		return "drop metadata"
	}
	return "none"
}

const maxAttempts = 3

// RetryState tracks which fallback fixes have been applied across ffmpeg
// attempts for a single file.
type RetryState struct {
	Attempt     int
	MaxAttempts int

	AudioOnly     bool
	StripMetadata bool
}

// NewRetryState returns the initial state. In strict mode the first failure
// is final.
func NewRetryState(strict bool) *RetryState {
	rs := &RetryState{MaxAttempts: maxAttempts}
	if strict {
		rs.MaxAttempts = 1
	}
	return rs
}

// Advance inspects stderr from a failed ffmpeg run, applies the first fix
// whose pattern matches and that has not been applied yet, and returns it.
// Returns RetryNone when nothing matches or the attempt limit is reached.
//
// Pattern evaluation order: non-audio stream → metadata.
func (s *RetryState) Advance(stderr string) RetryAction {
	s.Attempt++
	if s.Attempt >= s.MaxAttempts {
		return RetryNone
	}

	if !s.AudioOnly && MatchNonAudioStream(stderr) {
		s.AudioOnly = true
		return RetryAudioOnly
	}
	if !s.StripMetadata && MatchMetadataIssue(stderr) {
		s.StripMetadata = true
		return RetryStripMetadata
	}
	return RetryNone
}
