package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/schollz/progressbar/v3"

	"github.com/backmassage/deckprep/internal/config"
	"github.com/backmassage/deckprep/internal/display"
	"github.com/backmassage/deckprep/internal/logging"
	"github.com/backmassage/deckprep/internal/planner"
	"github.com/backmassage/deckprep/internal/probe"
	"github.com/backmassage/deckprep/internal/term"
)

// fileRow holds the inspected per-file data for the analysis table.
type fileRow struct {
	Name   string
	Format string
	Action string
	class  string // "", "convert" or "error".
}

// Analyze discovers candidate files, inspects each one, and prints a table
// of formats and the planned action without changing anything.
func Analyze(ctx context.Context, cfg *config.Config, log *logging.Logger) error {
	files, err := Discover(cfg.RootDir, func(path string, err error) {
		log.Warn("Skip %s: %v", path, err)
	})
	if err != nil {
		return fmt.Errorf("discover %s: %w", cfg.RootDir, err)
	}
	if len(files) == 0 {
		log.Warn("No wav/aiff files found in %s", cfg.RootDir)
		return nil
	}

	total := len(files)
	log.Info("Analyzing %d files in %s …", total, cfg.RootDir)

	var bar *progressbar.ProgressBar
	if cfg.ShowProgress && term.IsTerminal(os.Stdout) {
		bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(os.Stdout),
			progressbar.OptionSetDescription("  Inspecting"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		log.SetBeforeWrite(func() { _ = bar.Clear() })
		defer log.SetBeforeWrite(nil)
	}

	rows := make([]fileRow, 0, total)
	for _, path := range files {
		if ctx.Err() != nil {
			log.Warn("Interrupted")
			return ctx.Err()
		}
		rows = append(rows, analyzeFile(cfg, cfg.RootDir, path))
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	printAnalysisTable(os.Stdout, rows)
	printAnalysisSummary(log, rows)
	return nil
}

func analyzeFile(cfg *config.Config, rootDir, path string) fileRow {
	row := fileRow{Name: display.ShortPath(rootDir, path)}

	af, err := probe.Inspect(path)
	if err != nil {
		row.Format = "?"
		row.Action = "unreadable"
		row.class = "error"
		var ume *probe.UnreadableMetadataError
		if errors.As(err, &ume) {
			row.Action = "unreadable: " + ume.Reason
		}
		return row
	}
	row.Format = af.Container + " " + display.FormatFormat(af.SampleRate, af.BitDepth)

	plan, err := planner.Decide(af, cfg.MaxSampleRate, cfg.MaxBitDepth, cfg.Force)
	switch {
	case err != nil:
		row.Action = err.Error()
		row.class = "error"
	case plan.Needed:
		row.Action = "→ " + display.FormatSampleRate(plan.TargetSampleRate) + " / " + plan.SampleFormat.Description()
		row.class = "convert"
	default:
		row.Action = "ok"
	}
	return row
}

func printAnalysisTable(w io.Writer, rows []fileRow) {
	nameW := len("File")
	fmtW := len("Format")
	actW := len("Action")
	for _, r := range rows {
		nameW = max(nameW, utf8.RuneCountInString(r.Name))
		fmtW = max(fmtW, utf8.RuneCountInString(r.Format))
		actW = max(actW, utf8.RuneCountInString(r.Action))
	}
	if nameW > 60 {
		nameW = 60
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s  %s  %s\n", pad("File", nameW), pad("Format", fmtW), "Action")
	fmt.Fprintln(w, "  "+strings.Repeat("─", nameW+fmtW+actW+4))

	for _, r := range rows {
		name := []rune(r.Name)
		if len(name) > nameW {
			name = append([]rune("…"), name[len(name)-nameW+1:]...)
		}
		// Pad the plain text first, then wrap in ANSI color.
		fmt.Fprintf(w, "  %s  %s  %s\n", pad(string(name), nameW), pad(r.Format, fmtW), colorAction(r))
	}
	fmt.Fprintln(w)
}

// pad right-pads s to width runes.
func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func colorAction(r fileRow) string {
	switch r.class {
	case "error":
		return term.Paint(term.Red, r.Action)
	case "convert":
		return term.Paint(term.Yellow, r.Action)
	default:
		return term.Paint(term.Green, r.Action)
	}
}

func printAnalysisSummary(log *logging.Logger, rows []fileRow) {
	var convert, errs int
	for _, r := range rows {
		switch r.class {
		case "convert":
			convert++
		case "error":
			errs++
		}
	}

	log.Info("Analyzed %d files", len(rows))
	if convert > 0 {
		log.Warn("  %d file(s) exceed the limits and would be converted", convert)
	}
	if errs > 0 {
		log.Error("  %d file(s) cannot be converted", errs)
	}
	if convert == 0 && errs == 0 {
		log.Success("  All files are compliant")
	}
}
