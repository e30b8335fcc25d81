// Package process runs external tools and classifies their exit status.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/logging"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/messages"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/metrics"
)

// maxOutputTail bounds the output kept for error reports.
const maxOutputTail = 4 * 1024

// waitDelay bounds how long Run waits for output pipes after the process is killed.
var waitDelay = 2 * time.Second

// Command describes one external invocation.
type Command struct {
	// Tool is a short label used in errors, logs and metrics.
	Tool string
	Path string
	Args []string
	// Dir is the working directory; empty means the current directory.
	Dir string
}

// Runner runs external commands.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExternalToolFailure reports a tool that exited non-zero or never started.
type ExternalToolFailure struct {
	Tool string
	Args []string
	// ExitCode is -1 when the process could not be started.
	ExitCode int
	// Output is the tail of the combined stdout and stderr.
	Output string
	Err    error
}

func (e *ExternalToolFailure) Error() string {
	args := strings.Join(e.Args, " ")
	if e.ExitCode < 0 && e.Err != nil {
		return fmt.Sprintf(messages.ProcessStartFailedFmt, e.Tool, args, e.Err)
	}
	if out := lastLine(e.Output); out != "" {
		return fmt.Sprintf(messages.ProcessExitOutputFmt, e.Tool, args, e.ExitCode, out)
	}
	return fmt.Sprintf(messages.ProcessExitFmt, e.Tool, args, e.ExitCode)
}

func (e *ExternalToolFailure) Unwrap() error {
	return e.Err
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	Logger  *zerolog.Logger
	Metrics *metrics.Metrics
}

// Run starts cmd, waits for it and returns *ExternalToolFailure on a non-zero exit.
// Cancelling ctx kills the process.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) error {
	if cmd.Path == "" {
		return errors.New(messages.ProcessPathRequired)
	}
	logger := logging.OrGet(r.Logger, "process").With().Str("tool", cmd.Tool).Logger()
	logger.Debug().Str("command", cmd.Path).Strs("args", cmd.Args).Str("dir", cmd.Dir).Msg("Executing command")

	out := &outputWriter{logger: logger}
	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdout = out
	c.Stderr = out
	c.WaitDelay = waitDelay

	err := c.Run()
	out.flush()
	if err == nil {
		r.Metrics.ObserveTool(cmd.Tool, nil)
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		r.Metrics.ObserveTool(cmd.Tool, ctxErr)
		return fmt.Errorf(messages.ProcessCancelledFmt, cmd.Tool, strings.Join(cmd.Args, " "), ctxErr)
	}

	failure := &ExternalToolFailure{Tool: cmd.Tool, Args: append([]string(nil), cmd.Args...), ExitCode: -1, Output: out.tail()}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		failure.ExitCode = exitErr.ExitCode()
	} else {
		failure.Err = err
	}
	r.Metrics.ObserveTool(cmd.Tool, failure)
	logger.Debug().Int("exit_code", failure.ExitCode).Msg("Command failed")
	return failure
}

// outputWriter logs complete output lines and keeps a bounded tail.
type outputWriter struct {
	mu      sync.Mutex
	logger  zerolog.Logger
	partial []byte
	kept    []byte
}

func (w *outputWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.kept = append(w.kept, p...)
	if len(w.kept) > maxOutputTail {
		w.kept = w.kept[len(w.kept)-maxOutputTail:]
	}

	w.partial = append(w.partial, p...)
	for {
		idx := bytes.IndexByte(w.partial, '\n')
		if idx < 0 {
			break
		}
		w.logLine(w.partial[:idx])
		w.partial = w.partial[idx+1:]
	}
	return len(p), nil
}

func (w *outputWriter) flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.partial) > 0 {
		w.logLine(w.partial)
		w.partial = nil
	}
}

func (w *outputWriter) logLine(line []byte) {
	if text := strings.TrimRight(string(line), "\r"); text != "" {
		w.logger.Debug().Msg(text)
	}
}

func (w *outputWriter) tail() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return strings.TrimSpace(string(w.kept))
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.LastIndexByte(s, '\n'); idx >= 0 {
		return strings.TrimSpace(s[idx+1:])
	}
	return s
}
