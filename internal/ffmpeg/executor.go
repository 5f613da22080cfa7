package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/backmassage/deckprep/internal/config"
	"github.com/backmassage/deckprep/internal/planner"
	"github.com/backmassage/deckprep/internal/probe"
)

// ExecResult holds the outcome of a single ffmpeg invocation.
type ExecResult struct {
	Stderr string
	Err    error
}

// Runner runs one command (args[0] is the binary).
type Runner func(ctx context.Context, args []string) ExecResult

// Executor runs transcodes for the pipeline.
type Executor struct {
	Bin     string
	Timeout time.Duration // Per attempt.
	Strict  bool

	// Tee receives ffmpeg's stderr as it is produced (verbose mode).
	Tee io.Writer

	// OnRetry is called before each retry attempt.
	OnRetry func(input string, attempt int, action RetryAction)

	// Run and Inspect default to exec and probe.Inspect; tests replace them.
	Run     Runner
	Inspect func(path string) (probe.AudioFormat, error)
}

// NewExecutor returns an Executor configured from cfg.
func NewExecutor(cfg *config.Config) *Executor {
	e := &Executor{
		Bin:     cfg.FFmpegPath,
		Timeout: cfg.TranscodeTimeout,
		Strict:  cfg.StrictMode,
	}
	if cfg.Verbose {
		e.Tee = os.Stderr
	}
	return e
}

// Transcode converts input to output according to plan. On any failure the
// output is removed and a *TranscodeError is returned.
func (e *Executor) Transcode(ctx context.Context, input, output string, plan *planner.Plan, overwrite bool) error {
	fail := func(attempts int, stderr string, err error) error {
		return &TranscodeError{Input: input, Output: output, Attempts: attempts, Stderr: stderrTail(stderr, 20), Err: err}
	}

	if !overwrite {
		if _, err := os.Lstat(output); err == nil {
			return fail(0, "", fmt.Errorf("%w: %s", ErrOutputExists, output))
		}
	}

	rs := NewRetryState(e.Strict)
	for {
		attempt := rs.Attempt + 1
		if err := ctx.Err(); err != nil {
			return fail(attempt-1, "", err)
		}

		args, err := Build(e.Bin, input, output, plan, rs, overwrite || attempt > 1)
		if err != nil {
			return fail(attempt, "", err)
		}

		res := e.attempt(ctx, args)
		if res.Err == nil {
			if err := e.verify(output, plan); err != nil {
				os.Remove(output)
				return fail(attempt, res.Stderr, err)
			}
			return nil
		}
		os.Remove(output)

		if ctx.Err() != nil {
			return fail(attempt, res.Stderr, ctx.Err())
		}
		if errors.Is(res.Err, context.DeadlineExceeded) {
			return fail(attempt, res.Stderr, res.Err)
		}

		action := rs.Advance(res.Stderr)
		if action == RetryNone {
			return fail(attempt, res.Stderr, res.Err)
		}
		if e.OnRetry != nil {
			e.OnRetry(input, rs.Attempt+1, action)
		}
	}
}

// attempt runs one ffmpeg process under the per-attempt timeout.
func (e *Executor) attempt(ctx context.Context, args []string) ExecResult {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}
	run := e.Run
	if run == nil {
		run = e.execute
	}
	res := run(ctx, args)
	if res.Err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		res.Err = fmt.Errorf("timed out after %s: %w", e.Timeout, context.DeadlineExceeded)
	}
	return res
}

// execute is the default Runner. stderr is captured for retry
// classification and tee'd when verbose.
func (e *Executor) execute(ctx context.Context, args []string) ExecResult {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stderrBuf bytes.Buffer
	if e.Tee != nil {
		cmd.Stderr = io.MultiWriter(&stderrBuf, e.Tee)
	} else {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()
	return ExecResult{
		Stderr: stderrBuf.String(),
		Err:    err,
	}
}

// verify re-inspects output and checks it against plan.
func (e *Executor) verify(output string, plan *planner.Plan) error {
	inspect := e.Inspect
	if inspect == nil {
		inspect = probe.Inspect
	}
	af, err := inspect(output)
	if err != nil {
		return fmt.Errorf("verify output: %w", err)
	}
	if af.SampleRate != plan.TargetSampleRate || af.BitDepth != plan.TargetBitDepth {
		return fmt.Errorf("verify output: got %d Hz / %d-bit, want %d Hz / %d-bit",
			af.SampleRate, af.BitDepth, plan.TargetSampleRate, plan.TargetBitDepth)
	}
	return nil
}
