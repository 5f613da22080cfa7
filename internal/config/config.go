// Package config holds runtime configuration: defaults, CLI flag parsing, and
// validation. Defaults match the original converter script: 48 kHz / 24-bit
// caps, in-place replacement, "_CONVERTED" temp suffix.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// EnvFFmpegPath overrides the ffmpeg binary when --ffmpeg is not given.
const EnvFFmpegPath = "DECKPREP_FFMPEG"

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then mutated by [ParseFlags] before being passed (by pointer) to packages
// that need it.
type Config struct {
	// Root directory to process (positional arg).
	RootDir string

	// Conversion limits.
	MaxSampleRate int // Default: 48000 Hz.
	MaxBitDepth   int // Default: 24 bits.

	// Behavior flags.
	InPlace      bool // Default: true. Replace the original with the converted file.
	ShortenPaths bool // Shorten overlong paths after conversion.
	Force        bool // Convert even compliant files; overwrite side-by-side outputs.
	DryRun       bool
	AnalyzeOnly  bool // Print a format report and exit.
	StrictMode   bool // Disable ffmpeg retry fallbacks.

	// Placement.
	ConvertedSuffix  string // Fixed default: "_CONVERTED".
	MaxPathLength    int    // Fixed default: 255.
	MinShortenedName int    // Fixed default: 8.

	// ffmpeg.
	FFmpegPath       string        // Default: "ffmpeg" or $DECKPREP_FFMPEG.
	TranscodeTimeout time.Duration // Default: 10m per attempt.

	// Display and logging.
	Verbose      bool
	ShowProgress bool      // Default: true. Cleared by --no-progress.
	ColorMode    ColorMode // Default: "auto".
	LogFile      string    // Optional log file path.
	CheckOnly    bool      // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with all defaults. Used as the base before
// [ParseFlags] applies CLI overrides.
func DefaultConfig() Config {
	ffmpegPath := "ffmpeg"
	if p := strings.TrimSpace(os.Getenv(EnvFFmpegPath)); p != "" {
		ffmpegPath = p
	}
	return Config{
		MaxSampleRate:    48000,
		MaxBitDepth:      24,
		InPlace:          true,
		ShortenPaths:     false,
		ConvertedSuffix:  "_CONVERTED",
		MaxPathLength:    255,
		MinShortenedName: 8,
		FFmpegPath:       ffmpegPath,
		TranscodeTimeout: 10 * time.Minute,
		ShowProgress:     true,
		ColorMode:        ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks numeric limits and the color mode. When not in CheckOnly
// mode, it also requires a root directory.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}
	if c.MaxSampleRate <= 0 {
		return fmt.Errorf("max sample rate must be positive (got %d)", c.MaxSampleRate)
	}
	if c.MaxBitDepth <= 0 {
		return fmt.Errorf("max bit depth must be positive (got %d)", c.MaxBitDepth)
	}
	if c.TranscodeTimeout <= 0 {
		return fmt.Errorf("transcode timeout must be positive (got %s)", c.TranscodeTimeout)
	}
	if strings.TrimSpace(c.ConvertedSuffix) == "" {
		return errors.New("converted suffix must not be empty")
	}
	if strings.ContainsAny(c.ConvertedSuffix, `/\`) {
		return fmt.Errorf("converted suffix %q must not contain path separators", c.ConvertedSuffix)
	}
	if c.FFmpegPath == "" {
		return errors.New("ffmpeg path must not be empty")
	}

	if c.CheckOnly {
		return nil
	}
	if c.RootDir == "" {
		return errors.New("need exactly one directory to process")
	}
	return nil
}
