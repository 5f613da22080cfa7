package main

import (
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/backmassage/deckprep/internal/config"
	"github.com/backmassage/deckprep/internal/display"
	"github.com/backmassage/deckprep/internal/logging"
	"github.com/backmassage/deckprep/internal/pipeline"
	"github.com/backmassage/deckprep/internal/term"
)

// reporter turns pipeline events into log lines, a progress bar and the
// final summary.
type reporter struct {
	cfg *config.Config
	log *logging.Logger
	out io.Writer
	bar *progressbar.ProgressBar
}

func newReporter(cfg *config.Config, log *logging.Logger, out io.Writer) *reporter {
	return &reporter{cfg: cfg, log: log, out: out}
}

func (r *reporter) short(path string) string {
	return display.ShortPath(r.cfg.RootDir, path)
}

func (r *reporter) Handle(e pipeline.Event) {
	switch e.Kind {
	case pipeline.RunStarted:
		r.runStarted(e)
	case pipeline.FileStarted:
		if r.bar != nil {
			r.bar.Describe("  " + r.short(e.Path))
		}
		r.log.Debug(r.log.Verbose(), "[%d/%d] %s", e.Index, e.Total, r.short(e.Path))
	case pipeline.FileSkipped:
		r.log.Debug(r.log.Verbose(), "Skip %s: %s", r.short(e.Path), e.Reason)
	case pipeline.FileWouldConvert:
		r.log.Info("Would convert %s: %s → %s", r.short(e.Path),
			display.FormatFormat(e.Format.SampleRate, e.Format.BitDepth), e.Plan)
	case pipeline.FileConverted:
		msg := display.FormatFormat(e.Format.SampleRate, e.Format.BitDepth) + " → " +
			display.FormatFormat(e.Plan.TargetSampleRate, e.Plan.TargetBitDepth)
		if e.FinalPath != e.Path {
			msg += " as " + r.short(e.FinalPath)
		}
		r.log.Success("%s: %s (%s)", r.short(e.Path), msg, display.FormatBytesWithSign(e.OutputBytes-e.InputBytes))
	case pipeline.FileFailed:
		r.log.Error("%s: %v", r.short(e.Path), e.Err)
	case pipeline.RunFinished:
		if r.bar != nil {
			_ = r.bar.Finish()
			r.log.SetBeforeWrite(nil)
			r.bar = nil
		}
		r.summary(e.Stats)
		return
	}

	for _, w := range e.Warnings {
		r.log.Warn("%v", w)
	}
	if r.bar != nil && e.Kind != pipeline.FileStarted {
		_ = r.bar.Add(1)
	}
}

func (r *reporter) runStarted(e pipeline.Event) {
	for _, w := range e.Warnings {
		r.log.Warn("%v", w)
	}
	if e.Total == 0 {
		r.log.Warn("No wav/aiff files found in %s", r.cfg.RootDir)
		return
	}
	r.log.Info("Found %d files (run %s)", e.Total, e.Stats.RunID)

	f, ok := r.out.(*os.File)
	if !r.cfg.ShowProgress || !ok || !term.IsTerminal(f) {
		return
	}
	bar := progressbar.NewOptions(e.Total,
		progressbar.OptionSetWriter(r.out),
		progressbar.OptionShowCount(),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionClearOnFinish(),
	)
	r.bar = bar
	r.log.SetBeforeWrite(func() { _ = bar.Clear() })
}

func (r *reporter) summary(s *pipeline.RunStats) {
	if s == nil {
		return
	}
	r.log.Info("")
	r.log.Info("=== Summary ===")
	r.log.Info("Files:     %d", s.Total)
	if s.Current < s.Total {
		r.log.Warn("Stopped:   after %d of %d files", s.Current, s.Total)
	}
	if r.cfg.DryRun {
		r.log.Info("Would convert: %d", s.WouldConvert)
	} else {
		r.log.Success("Converted: %d", s.Converted)
	}
	r.log.Info("Skipped:   %d", s.Skipped)
	if s.Failed > 0 {
		r.log.Error("Failed:    %d", s.Failed)
	}
	if s.Warnings > 0 {
		r.log.Warn("Warnings:  %d", s.Warnings)
	}
	if s.Converted > 0 {
		r.log.Info("Space:     %s → %s (saved %s)",
			display.FormatBytes(s.TotalInputBytes),
			display.FormatBytes(s.TotalOutputBytes),
			display.FormatBytesWithSign(s.SpaceSaved()))
	}
	r.log.Info("Elapsed:   %s", s.Elapsed.Round(10*time.Millisecond))
}
