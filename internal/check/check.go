// Package check provides system diagnostics (--check mode) and pre-pipeline
// dependency validation (CheckDeps) for ffmpeg and its PCM encoders.
package check

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/backmassage/deckprep/internal/config"
	"github.com/backmassage/deckprep/internal/ffmpeg"
)

// Sentinel errors returned by CheckDeps when a required tool or encoder is missing.
var (
	ErrFfmpegNotFound = errors.New("ffmpeg not found")
	ErrEncoderMissing = errors.New("ffmpeg lacks required PCM encoders")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

const probeTimeout = 15 * time.Second

// RunCheck runs the interactive --check flow: ffmpeg version, each required
// encoder, and a short test encode per container. It reports whether
// everything needed for conversion is available.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")

	path, err := exec.LookPath(cfg.FFmpegPath)
	if err != nil {
		log.Error("ffmpeg not found (%s): %v", cfg.FFmpegPath, err)
		return false
	}
	log.Debug(cfg.Verbose, "ffmpeg binary: %s", path)

	if v, err := output(path, "-version"); err != nil {
		log.Warn("ffmpeg found but -version failed: %v", err)
	} else {
		log.Success("ffmpeg: %s", firstLine(v))
	}

	ok := true
	list, err := output(path, "-hide_banner", "-encoders")
	if err != nil {
		log.Error("Could not list encoders: %v", err)
		return false
	}
	have := ParseEncoders(list)
	log.Info("PCM encoders:")
	for _, name := range ffmpeg.RequiredEncoders() {
		if have[name] {
			log.Success("  %s", name)
		} else {
			log.Error("  %s missing", name)
			ok = false
		}
	}

	for _, t := range []struct{ container, codec string }{
		{"wav", "pcm_s16le"},
		{"aiff", "pcm_s16be"},
	} {
		if runSilent(path, testEncodeArgs(t.container, t.codec)...) {
			log.Success("Test encode (%s) works", t.container)
		} else {
			log.Error("Test encode (%s) failed", t.container)
			ok = false
		}
	}
	return ok
}

// CheckDeps is the pre-pipeline validation: it verifies that the configured
// ffmpeg binary runs and provides every encoder the planner can select.
// Returns a sentinel error on failure.
func CheckDeps(cfg *config.Config) error {
	path, err := exec.LookPath(cfg.FFmpegPath)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrFfmpegNotFound, cfg.FFmpegPath)
	}
	list, err := output(path, "-hide_banner", "-encoders")
	if err != nil {
		return fmt.Errorf("%w: %s -encoders: %v", ErrFfmpegNotFound, path, err)
	}
	if missing := MissingEncoders(ParseEncoders(list)); len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrEncoderMissing, strings.Join(missing, ", "))
	}
	return nil
}

// ParseEncoders extracts encoder names from `ffmpeg -encoders` output.
// Entries follow the "------" separator as "<6 flag chars> <name> <desc>".
func ParseEncoders(out string) map[string]bool {
	names := make(map[string]bool)
	started := false
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if !started {
			started = strings.HasPrefix(line, "---")
			continue
		}
		fields := strings.Fields(line)
		if len(fields) >= 2 && len(fields[0]) == 6 {
			names[fields[1]] = true
		}
	}
	return names
}

// MissingEncoders returns the required encoders absent from have.
func MissingEncoders(have map[string]bool) []string {
	var missing []string
	for _, name := range ffmpeg.RequiredEncoders() {
		if !have[name] {
			missing = append(missing, name)
		}
	}
	return missing
}

// --- internal helpers ---

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "\n"); idx > 0 {
		return s[:idx]
	}
	return s
}

// testEncodeArgs returns the ffmpeg arguments for a 0.1 s sine encode.
func testEncodeArgs(container, codec string) []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "sine=frequency=1000:duration=0.1",
		"-ar", "44100", "-c:a", codec,
		"-f", container, "-",
	}
}

func output(name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, name, args...).Output()
	return string(out), err
}

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(name string, args ...string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	return exec.CommandContext(ctx, name, args...).Run() == nil
}
