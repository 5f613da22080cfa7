package pipeline

import "time"

// RunStats tracks aggregate counters and byte totals across a batch run.
type RunStats struct {
	RunID            string
	Total            int
	Current          int
	Converted        int
	WouldConvert     int
	Skipped          int
	Failed           int
	Warnings         int
	TotalInputBytes  int64
	TotalOutputBytes int64
	Elapsed          time.Duration
}

// SpaceSaved returns the aggregate byte difference between inputs and outputs.
// Positive means outputs are smaller; negative means they grew.
func (s *RunStats) SpaceSaved() int64 {
	return s.TotalInputBytes - s.TotalOutputBytes
}

func (s *RunStats) record(e Event) {
	switch e.Kind {
	case FileSkipped:
		s.Skipped++
	case FileWouldConvert:
		s.WouldConvert++
	case FileFailed:
		s.Failed++
	case FileConverted:
		s.Converted++
		s.TotalInputBytes += e.InputBytes
		s.TotalOutputBytes += e.OutputBytes
	}
	s.Warnings += len(e.Warnings)
}
