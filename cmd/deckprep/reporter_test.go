package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/deckprep/internal/config"
	"github.com/backmassage/deckprep/internal/logging"
	"github.com/backmassage/deckprep/internal/pipeline"
	"github.com/backmassage/deckprep/internal/planner"
	"github.com/backmassage/deckprep/internal/probe"
)

func newTestReporter(t *testing.T, mutate func(*config.Config)) (*reporter, *bytes.Buffer) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.RootDir = "/music"
	cfg.ColorMode = config.ColorNever
	if mutate != nil {
		mutate(&cfg)
	}
	log, err := logging.NewLogger(&cfg)
	require.NoError(t, err)
	var buf bytes.Buffer
	log.SetOutput(&buf)
	return newReporter(&cfg, log, &buf), &buf
}

func TestReporter_FileEvents(t *testing.T) {
	r, buf := newTestReporter(t, nil)
	plan := &planner.Plan{Needed: true, TargetSampleRate: 48000, TargetBitDepth: 16, SampleFormat: planner.SampleS16, Container: "wav"}
	format := probe.AudioFormat{Container: "wav", SampleRate: 96000, BitDepth: 24, Channels: 2}

	r.Handle(pipeline.Event{Kind: pipeline.RunStarted, Total: 3, Stats: &pipeline.RunStats{RunID: "run-1"}})
	r.Handle(pipeline.Event{Kind: pipeline.FileConverted, Path: "/music/A/hi.wav", FinalPath: "/music/A/hi.wav",
		Format: format, Plan: plan, InputBytes: 3000, OutputBytes: 1000})
	r.Handle(pipeline.Event{Kind: pipeline.FileFailed, Path: "/music/bad.wav", Err: errors.New("boom")})
	r.Handle(pipeline.Event{Kind: pipeline.FileSkipped, Path: "/music/ok.wav", Reason: "already compliant",
		Warnings: []error{errors.New("odd chunk")}})

	out := buf.String()
	assert.Contains(t, out, "Found 3 files (run run-1)")
	assert.Contains(t, out, "[SUCCESS] A/hi.wav: 96 kHz / 24-bit → 48 kHz / 16-bit")
	assert.Contains(t, out, "[ERROR] bad.wav: boom")
	assert.Contains(t, out, "[WARN] odd chunk")
	assert.NotContains(t, out, "already compliant", "skips are verbose-only")
}

func TestReporter_VerboseSkipAndDryRun(t *testing.T) {
	r, buf := newTestReporter(t, func(c *config.Config) { c.Verbose = true; c.DryRun = true })
	plan := &planner.Plan{Needed: true, TargetSampleRate: 48000, TargetBitDepth: 16, SampleFormat: planner.SampleS16, Container: "aiff"}

	r.Handle(pipeline.Event{Kind: pipeline.FileSkipped, Path: "/music/ok.aiff", Reason: "already compliant"})
	r.Handle(pipeline.Event{Kind: pipeline.FileWouldConvert, Path: "/music/hi.aiff",
		Format: probe.AudioFormat{SampleRate: 192000, BitDepth: 32}, Plan: plan})
	r.Handle(pipeline.Event{Kind: pipeline.RunFinished, Stats: &pipeline.RunStats{Total: 2, Current: 2, WouldConvert: 1, Skipped: 1}})

	out := buf.String()
	assert.Contains(t, out, "Skip ok.aiff: already compliant")
	assert.Contains(t, out, "Would convert hi.aiff: 192 kHz / 32-bit → 48000 Hz / signed 16-bit (aiff)")
	assert.Contains(t, out, "Would convert: 1")
	assert.NotContains(t, out, "Converted:")
}

func TestReporter_Summary(t *testing.T) {
	r, buf := newTestReporter(t, nil)
	r.Handle(pipeline.Event{Kind: pipeline.RunFinished, Stats: &pipeline.RunStats{
		Total: 5, Current: 3, Converted: 2, Skipped: 0, Failed: 1, Warnings: 2,
		TotalInputBytes: 4096, TotalOutputBytes: 1024,
	}})

	joined := buf.String()
	assert.Contains(t, joined, "Stopped:   after 3 of 5 files")
	assert.Contains(t, joined, "Converted: 2")
	assert.Contains(t, joined, "Failed:    1")
	assert.Contains(t, joined, "Warnings:  2")
	assert.Contains(t, joined, "saved + 3.0 KiB")
}

func TestReporter_NoFiles(t *testing.T) {
	r, buf := newTestReporter(t, nil)
	r.Handle(pipeline.Event{Kind: pipeline.RunStarted, Stats: &pipeline.RunStats{}})
	assert.Contains(t, buf.String(), "No wav/aiff files found in /music")
}
