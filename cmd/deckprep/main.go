// Command deckprep downsamples a music library in place so every WAV and
// AIFF file plays on CDJ-class hardware. Files above the sample rate cap
// (48 kHz) or bit depth cap (24 bits) are converted; converted files come
// out at 16 bits when their effective depth is 24. AIFF tags and sibling
// cover art are carried over to the converted file.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/backmassage/deckprep/internal/check"
	"github.com/backmassage/deckprep/internal/config"
	"github.com/backmassage/deckprep/internal/display"
	"github.com/backmassage/deckprep/internal/ffmpeg"
	"github.com/backmassage/deckprep/internal/logging"
	"github.com/backmassage/deckprep/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// Bootstrap: no logger yet, errors go straight to stderr.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, args, version); err != nil {
		fmt.Fprintf(os.Stderr, "deckprep: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "deckprep: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "deckprep: %v\n", err)
		return 1
	}
	defer log.Close()

	display.PrintBanner(os.Stdout, version)

	if cfg.CheckOnly {
		if !check.RunCheck(&cfg, log) {
			return 1
		}
		return 0
	}

	if fi, err := os.Stat(cfg.RootDir); err != nil || !fi.IsDir() {
		log.Error("Not a directory: %s", cfg.RootDir)
		return 1
	}

	// SIGINT/SIGTERM stop the run between files; the in-flight ffmpeg is
	// killed through its command context.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		if _, ok := <-sigCh; ok {
			log.Warn("Received interrupt, stopping after the current file…")
			cancel()
		}
	}()

	if cfg.AnalyzeOnly {
		if err := pipeline.Analyze(ctx, &cfg, log); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("%v", err)
			return 1
		}
		return 0
	}

	log.Info("=== deckprep v%s (%s) ===", version, commit)
	log.Info("Root:   %s", cfg.RootDir)
	log.Info("Limits: %s", display.FormatFormat(cfg.MaxSampleRate, cfg.MaxBitDepth))
	if cfg.DryRun {
		log.Warn("DRY RUN: no files will be written")
	} else if !cfg.InPlace {
		log.Info("Side-by-side: converted files keep the %q suffix", cfg.ConvertedSuffix)
	}
	log.Info("")

	if !cfg.DryRun {
		if err := check.CheckDeps(&cfg); err != nil {
			log.Error("%v", err)
			return 1
		}
	}

	tc := ffmpeg.NewExecutor(&cfg)
	tc.OnRetry = func(input string, attempt int, action ffmpeg.RetryAction) {
		log.Warn("%s: retrying (attempt %d, %s)", display.ShortPath(cfg.RootDir, input), attempt, action)
	}

	rep := newReporter(&cfg, log, os.Stdout)
	if _, err := pipeline.Run(ctx, &cfg, tc, rep); err != nil {
		log.Error("%v", err)
		return 1
	}
	return 0
}
