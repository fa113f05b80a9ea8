// Package runner launches the cached executable with a scrubbed
// environment and translates process failures into typed errors.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/rs/zerolog"
)

// ErrSpawn indicates the process could not be started at all, as
// opposed to starting and exiting non-zero.
var ErrSpawn = errors.New("failed to start process")

// ExitError reports a process that ran to completion with a non-zero
// exit code.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("process exited with code %d", e.Code)
}

// Request describes one invocation of the executable.
type Request struct {
	// Bin is the absolute path to the executable.
	Bin string
	// Dir is the working directory; empty means the caller's.
	Dir string
	// Args is the argument vector, passed through without any shell
	// interpretation.
	Args []string
	// Stdout and Stderr receive the process output; nil means the
	// caller's own stdio.
	Stdout io.Writer
	Stderr io.Writer
	// Env holds extra KEY=VALUE pairs appended to the scrubbed base
	// environment.
	Env []string
}

// Runner executes external processes.
type Runner struct {
	log zerolog.Logger
}

// New creates a runner. A nil logger disables logging.
func New(log *zerolog.Logger) *Runner {
	l := zerolog.Nop()
	if log != nil {
		l = *log
	}
	return &Runner{log: l}
}

// Run starts the process and waits for it to finish. A launch failure
// wraps ErrSpawn; a non-zero exit surfaces as *ExitError. Cancelling
// ctx kills the child process before Run returns.
func (r *Runner) Run(ctx context.Context, req Request) error {
	cmd := exec.CommandContext(ctx, req.Bin, req.Args...)
	cmd.Dir = req.Dir
	cmd.Env = append(baseEnv(), req.Env...)

	cmd.Stdout = req.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = req.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	r.log.Debug().Str("bin", req.Bin).Strs("args", req.Args).Msg("running")

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %v", ErrSpawn, err)
	}

	if err := cmd.Wait(); err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) && ee.ExitCode() >= 0 {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return &ExitError{Code: ee.ExitCode()}
		}
		return fmt.Errorf("wait for process: %w", err)
	}

	return nil
}

// baseEnv builds the scrubbed environment passed to the child. Only
// variables the executable plausibly needs cross the boundary.
func baseEnv() []string {
	keep := []string{
		"HOME", "PATH", "USER", "LANG", "TMPDIR",
		"SYSTEMROOT", "TEMP", "TMP", // windows
		"NODE_ENV", "BROWSERSLIST", "BROWSERSLIST_CONFIG",
	}

	env := make([]string, 0, len(keep))
	for _, key := range keep {
		if value, ok := os.LookupEnv(key); ok {
			env = append(env, key+"="+value)
		}
	}
	return env
}
