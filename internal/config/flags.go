package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into conversion, placement, ffmpeg, display, and utility.
// Negated flags (e.g. --no-progress) are applied after Parse so Config defaults hold unless set.

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

// ParseFlags parses args (normally os.Args[1:]) into cfg. On --help or
// --version it prints and exits. On error it returns non-nil (e.g. unknown
// flag, missing positional arg).
func ParseFlags(cfg *Config, args []string, version string) error {
	fs := flag.NewFlagSet("deckprep", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { printUsage(version) }

	var negated negatedFlags

	defineConversionFlags(fs, cfg)
	definePlacementFlags(fs, cfg, &negated)
	defineFFmpegFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, &negated)
	defineUtilityFlags(fs, &negated)

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			printUsage(version)
			os.Exit(0)
		}
		return err
	}

	applyNegatedFlags(cfg, &negated)

	if negated.showHelp {
		printUsage(version)
		os.Exit(0)
	}
	if negated.showVersion {
		fmt.Fprintln(os.Stdout, "deckprep v"+version)
		os.Exit(0)
	}

	return parsePositionalArgs(fs, cfg)
}

// negatedFlags holds boolean flags that are applied after Parse.
type negatedFlags struct {
	noInPlace   bool
	noProgress  bool
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// defineConversionFlags registers --max-rate, --max-bits, -f/--force, -d/--dry-run, -a/--analyze.
func defineConversionFlags(fs *flag.FlagSet, cfg *Config) {
	fs.IntVar(&cfg.MaxSampleRate, "max-rate", cfg.MaxSampleRate, "Maximum sample rate in Hz")
	fs.IntVar(&cfg.MaxBitDepth, "max-bits", cfg.MaxBitDepth, "Maximum bit depth")
	fs.BoolVar(&cfg.Force, "force", false, "Convert compliant files too; overwrite side-by-side output")
	fs.BoolVar(&cfg.Force, "f", false, "Same as --force")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Preview only; do not convert")
	fs.BoolVar(&cfg.DryRun, "d", false, "Same as --dry-run")
	fs.BoolVar(&cfg.AnalyzeOnly, "analyze", false, "Print a format report and exit")
	fs.BoolVar(&cfg.AnalyzeOnly, "a", false, "Same as --analyze")
}

// definePlacementFlags registers --in-place, --no-in-place, --shorten-paths, --suffix.
func definePlacementFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.Var(&switchValue{&cfg.InPlace}, "in-place", "Modify files in place: 0 | 1")
	fs.BoolVar(&n.noInPlace, "no-in-place", false, "Same as --in-place 0")
	fs.BoolVar(&cfg.ShortenPaths, "shorten-paths", false, "Shorten file paths longer than 255 characters")
	fs.StringVar(&cfg.ConvertedSuffix, "suffix", cfg.ConvertedSuffix, "Suffix for converted files")
}

// defineFFmpegFlags registers --ffmpeg, --timeout, --strict.
func defineFFmpegFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.FFmpegPath, "ffmpeg", cfg.FFmpegPath, "Path to the ffmpeg binary")
	fs.DurationVar(&cfg.TranscodeTimeout, "timeout", cfg.TranscodeTimeout, "Per-file ffmpeg timeout")
	fs.BoolVar(&cfg.StrictMode, "strict", false, "Disable automatic ffmpeg retry fallbacks")
}

// defineDisplayFlags registers --color, --no-color, --no-progress, verbose, --check, --log.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&n.noProgress, "no-progress", false, "Disable the progress bar")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run system diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.StringVar(&cfg.LogFile, "log", "", "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", "", "Same as --log")
}

// defineUtilityFlags registers --version and --help (exit after printing).
func defineUtilityFlags(fs *flag.FlagSet, n *negatedFlags) {
	fs.BoolVar(&n.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&n.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&n.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&n.showHelp, "h", false, "Same as --help")
}

// applyNegatedFlags copies negated and override flag values into cfg.
func applyNegatedFlags(cfg *Config, n *negatedFlags) {
	if n.noInPlace {
		cfg.InPlace = false
	}
	if n.noProgress {
		cfg.ShowProgress = false
	}
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// parsePositionalArgs sets RootDir from the single positional arg when not in CheckOnly mode.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	if cfg.CheckOnly {
		return nil
	}
	if len(args) != 1 {
		return fmt.Errorf("need exactly one directory to process (got %d arguments)", len(args))
	}
	cfg.RootDir = NormalizeDirArg(args[0])
	return nil
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(version string) {
	const col1 = 28
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "deckprep v" + version + " - downsample WAV/AIFF libraries for DJ decks"},
		{"", ""},
		{"  deckprep [OPTIONS] <directory>", ""},
		{"", ""},
		{"Conversion", ""},
		{"  --max-rate <hz>", "Maximum sample rate (default: 48000)"},
		{"  --max-bits <n>", "Maximum bit depth (default: 24)"},
		{"  -f, --force", "Convert compliant files too"},
		{"  -d, --dry-run", "Preview only; do not convert"},
		{"  -a, --analyze", "Print a format report and exit"},
		{"", ""},
		{"Placement", ""},
		{"  --in-place <0|1>", "Replace originals (default: 1)"},
		{"  --no-in-place", "Keep originals, write name_CONVERTED.ext"},
		{"  --shorten-paths", "Shorten paths longer than 255 characters"},
		{"  --suffix <text>", "Converted file suffix (default: _CONVERTED)"},
		{"", ""},
		{"ffmpeg", ""},
		{"  --ffmpeg <path>", "ffmpeg binary (default: ffmpeg, env " + EnvFFmpegPath + ")"},
		{"  --timeout <dur>", "Per-file timeout (default: 10m)"},
		{"  --strict", "Disable automatic ffmpeg retry fallbacks"},
		{"", ""},
		{"Display", ""},
		{"  --no-progress", "Disable the progress bar"},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output"},
		{"", ""},
		{"Utility", ""},
		{"  -l, --log <path>", "Append logs to file"},
		{"  -c, --check", "System diagnostics (ffmpeg, PCM encoders)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// switchValue is a flag.Value for 0/1 style toggles (--in-place 0). It is
// deliberately not a bool flag so the value is always consumed.
type switchValue struct{ p *bool }

func (s *switchValue) String() string {
	if s.p == nil || !*s.p {
		return "0"
	}
	return "1"
}

func (s *switchValue) Set(v string) error {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		*s.p = true
	case "0", "false", "no", "off":
		*s.p = false
	default:
		return fmt.Errorf("invalid value %q (use 0 or 1)", v)
	}
	return nil
}
