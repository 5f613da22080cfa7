package probe

import "fmt"

// Supported containers, keyed by lowercase extension without the dot.
const (
	ContainerWAV  = "wav"
	ContainerAIFF = "aiff"
)

// AudioFormat is a read-only snapshot of the header fields that drive the
// conversion decision. SampleRate and BitDepth are always positive.
type AudioFormat struct {
	Container  string // "wav" or "aiff".
	SampleRate int    // Hz.
	BitDepth   int    // Bits per sample.
	Channels   int
}

// String renders e.g. "aiff 96000 Hz / 24-bit / 2 ch".
func (f AudioFormat) String() string {
	return fmt.Sprintf("%s %d Hz / %d-bit / %d ch", f.Container, f.SampleRate, f.BitDepth, f.Channels)
}

// UnreadableMetadataError means the file's format could not be determined.
type UnreadableMetadataError struct {
	Path   string
	Reason string
	Err    error
}

func (e *UnreadableMetadataError) Error() string {
	msg := "unreadable metadata: " + e.Path + ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UnreadableMetadataError) Unwrap() error { return e.Err }
