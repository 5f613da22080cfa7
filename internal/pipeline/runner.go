package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/backmassage/deckprep/internal/config"
	"github.com/backmassage/deckprep/internal/naming"
	"github.com/backmassage/deckprep/internal/planner"
	"github.com/backmassage/deckprep/internal/probe"
	"github.com/backmassage/deckprep/internal/reconcile"
	"github.com/backmassage/deckprep/internal/tags"
)

// Transcoder produces a converted file. *ffmpeg.Executor implements it.
type Transcoder interface {
	Transcode(ctx context.Context, input, output string, plan *planner.Plan, overwrite bool) error
}

// Run is the top-level batch entry point. It discovers files under
// cfg.RootDir, processes each sequentially and returns aggregate stats.
// The error is non-nil only when the root itself cannot be walked; a
// cancelled ctx stops the run between files.
func Run(ctx context.Context, cfg *config.Config, tc Transcoder, obs Observer) (RunStats, error) {
	if obs == nil {
		obs = Discard
	}
	stats := RunStats{RunID: uuid.NewString()}
	start := time.Now()

	var walkWarnings []error
	files, err := Discover(cfg.RootDir, func(path string, err error) {
		walkWarnings = append(walkWarnings, fmt.Errorf("skip %s: %w", path, err))
	})
	if err != nil {
		return stats, fmt.Errorf("discover %s: %w", cfg.RootDir, err)
	}

	stats.Total = len(files)
	stats.Warnings = len(walkWarnings)
	obs.Handle(Event{Kind: RunStarted, Total: stats.Total, Warnings: walkWarnings, Stats: &stats})

	r := &runner{cfg: cfg, tc: tc}
	for i, path := range files {
		if ctx.Err() != nil {
			break
		}
		stats.Current = i + 1
		obs.Handle(Event{Kind: FileStarted, Index: stats.Current, Total: stats.Total, Path: path})

		ev := r.processFile(ctx, path)
		ev.Index, ev.Total, ev.Path = stats.Current, stats.Total, path
		stats.record(ev)
		obs.Handle(ev)
	}

	stats.Elapsed = time.Since(start)
	obs.Handle(Event{Kind: RunFinished, Total: stats.Total, Stats: &stats})
	return stats, nil
}

type runner struct {
	cfg *config.Config
	tc  Transcoder
}

// processFile handles one file: inspect → decide → transcode → reconcile →
// place → shorten. The returned event is the file's outcome.
func (r *runner) processFile(ctx context.Context, path string) Event {
	cfg := r.cfg
	failed := func(ev Event, err error) Event {
		ev.Kind = FileFailed
		ev.Err = err
		return ev
	}
	var ev Event

	fi, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		// Consumed by an earlier file, e.g. an interrupted leftover output.
		ev.Kind = FileSkipped
		ev.Reason = "no longer exists"
		return ev
	}
	if err != nil {
		return failed(ev, err)
	}
	ev.InputBytes = fi.Size()

	// --- Leftover outputs of a previous run ---
	if naming.IsConvertedName(path, cfg.ConvertedSuffix) {
		if orig := originalOf(path, cfg.ConvertedSuffix); orig != "" {
			ev.Kind = FileSkipped
			ev.Reason = "converted copy of " + filepath.Base(orig)
			return ev
		}
	}

	// --- Inspect and decide ---
	af, err := probe.Inspect(path)
	if err != nil {
		return failed(ev, err)
	}
	ev.Format = af

	plan, err := planner.Decide(af, cfg.MaxSampleRate, cfg.MaxBitDepth, cfg.Force)
	if err != nil {
		return failed(ev, err)
	}
	ev.Plan = plan
	if !plan.Needed {
		ev.Kind = FileSkipped
		ev.Reason = "already compliant"
		return ev
	}

	task := naming.Task{
		InputPath:    path,
		OutputPath:   naming.ConvertedPath(path, cfg.ConvertedSuffix),
		InPlace:      cfg.InPlace,
		Force:        cfg.Force,
		ShortenPaths: cfg.ShortenPaths,
	}
	// A side-by-side output is written under its final, shortened name so
	// that the existence check below finds it on the next run.
	if task.ShortenPaths && !task.InPlace {
		if short, ok := naming.ShortenFilename(task.OutputPath, cfg.MaxPathLength, cfg.MinShortenedName); ok {
			task.OutputPath = short
		}
	}

	if cfg.DryRun {
		ev.Kind = FileWouldConvert
		ev.FinalPath = task.InputPath
		if !task.InPlace {
			ev.FinalPath = task.OutputPath
		}
		return ev
	}

	// A side-by-side output from an earlier run is kept unless forced. In
	// place mode any file at the output path is an interrupted leftover.
	if !task.InPlace && !task.Force {
		if _, err := os.Lstat(task.OutputPath); err == nil {
			ev.Kind = FileSkipped
			ev.Reason = "output exists: " + filepath.Base(task.OutputPath)
			return ev
		}
	}

	// --- Original tags (read before anything is written) ---
	var original tags.TagSet
	if af.Container == probe.ContainerAIFF {
		original, err = tags.Load(path)
		if err != nil {
			ev.Warnings = append(ev.Warnings, &reconcile.Warning{Path: path, Op: "read original tags", Err: err})
		}
	}

	// --- Transcode ---
	if err := r.tc.Transcode(ctx, path, task.OutputPath, plan, task.InPlace || task.Force); err != nil {
		return failed(ev, err)
	}

	// --- Reconcile ---
	ev.Warnings = append(ev.Warnings, reconcile.Reconcile(original, path, task.OutputPath, af.Container)...)

	// --- Place ---
	final, err := naming.Place(task, true)
	var left *naming.BackupLeftError
	switch {
	case errors.As(err, &left):
		ev.Warnings = append(ev.Warnings, err)
	case err != nil:
		os.Remove(task.OutputPath)
		return failed(ev, err)
	}

	if task.ShortenPaths {
		short, err := naming.Shorten(final, cfg.MaxPathLength, cfg.MinShortenedName)
		if err != nil {
			ev.Warnings = append(ev.Warnings, err)
		}
		final = short
	}

	ev.Kind = FileConverted
	ev.FinalPath = final
	if ofi, err := os.Stat(final); err == nil {
		ev.OutputBytes = ofi.Size()
	}
	return ev
}

// originalOf returns the path path was converted from, when that file
// exists next to it.
func originalOf(path, suffix string) string {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := base[:len(base)-len(ext)]
	orig := filepath.Join(dir, stem[:len(stem)-len(suffix)]+ext)
	if _, err := os.Stat(orig); err != nil {
		return ""
	}
	return orig
}
