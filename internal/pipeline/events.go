package pipeline

import (
	"github.com/backmassage/deckprep/internal/planner"
	"github.com/backmassage/deckprep/internal/probe"
)

// EventKind identifies a pipeline event.
type EventKind int

const (
	RunStarted EventKind = iota
	FileStarted
	FileSkipped
	FileConverted
	FileWouldConvert // Dry run.
	FileFailed
	RunFinished
)

func (k EventKind) String() string {
	switch k {
	case RunStarted:
		return "run-started"
	case FileStarted:
		return "file-started"
	case FileSkipped:
		return "file-skipped"
	case FileConverted:
		return "file-converted"
	case FileWouldConvert:
		return "file-would-convert"
	case FileFailed:
		return "file-failed"
	case RunFinished:
		return "run-finished"
	}
	return "unknown"
}

// Event is one step of a run. Fields not relevant to Kind are zero.
type Event struct {
	Kind EventKind

	Index int // 1-based position of Path in the run.
	Total int // Number of candidate files.

	Path      string
	FinalPath string // Where the converted audio ended up.
	Format    probe.AudioFormat
	Plan      *planner.Plan
	Reason    string // Skip reason.
	Err       error  // FileFailed cause.
	Warnings  []error

	InputBytes  int64
	OutputBytes int64

	Stats *RunStats // RunStarted and RunFinished.
}

// Observer receives events synchronously, in order.
type Observer interface {
	Handle(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) Handle(e Event) { f(e) }

// Discard ignores every event.
var Discard Observer = ObserverFunc(func(Event) {})
