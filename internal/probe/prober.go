package probe

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/backmassage/deckprep/internal/chunk"
)

// ContainerFromPath returns the lowercase extension of path without the dot.
func ContainerFromPath(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// IsSupported reports whether container is one the tool converts.
func IsSupported(container string) bool {
	return container == ContainerWAV || container == ContainerAIFF
}

// Inspect reads the audio format of the file at path.
func Inspect(path string) (AudioFormat, error) {
	container := ContainerFromPath(path)
	if !IsSupported(container) {
		return AudioFormat{}, &UnreadableMetadataError{Path: path, Reason: fmt.Sprintf("unsupported extension %q", container)}
	}

	f, err := os.Open(path)
	if err != nil {
		return AudioFormat{}, &UnreadableMetadataError{Path: path, Reason: "open", Err: err}
	}
	defer f.Close()

	layout, err := chunk.Scan(f)
	if err != nil {
		return AudioFormat{}, &UnreadableMetadataError{Path: path, Reason: "scan chunks", Err: err}
	}

	var af AudioFormat
	switch container {
	case ContainerWAV:
		af, err = readWAV(f, layout)
	case ContainerAIFF:
		af, err = readAIFF(f, layout)
	}
	if err != nil {
		return AudioFormat{}, &UnreadableMetadataError{Path: path, Reason: "parse header", Err: err}
	}
	af.Container = container

	if af.SampleRate <= 0 || af.BitDepth <= 0 {
		return AudioFormat{}, &UnreadableMetadataError{
			Path:   path,
			Reason: fmt.Sprintf("invalid header values (rate=%d, bits=%d)", af.SampleRate, af.BitDepth),
		}
	}
	return af, nil
}
