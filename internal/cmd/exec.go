package cmd

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/raphi011/wtpr/internal/log"
)

// Error describes a command that exited unsuccessfully.
type Error struct {
	Name   string
	Args   []string
	Dir    string
	Stderr string // trimmed stderr output
	Err    error  // underlying *exec.ExitError or start failure
}

// Error returns the command's stderr if it wrote any, otherwise the
// underlying error.
func (e *Error) Error() string {
	if e.Stderr != "" {
		return e.Stderr
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CommandLine returns the command as it would be typed in a shell.
func (e *Error) CommandLine() string {
	return strings.TrimSpace(e.Name + " " + strings.Join(e.Args, " "))
}

// RunContext executes a command in dir (empty = current directory).
// Failures are returned as *Error with stderr attached; a cancelled
// context is returned as ctx.Err().
func RunContext(ctx context.Context, dir, name string, args ...string) error {
	_, err := run(ctx, dir, name, args...)
	return err
}

// OutputContext executes a command in dir and returns its stdout.
func OutputContext(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	return run(ctx, dir, name, args...)
}

func run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	done := log.FromContext(ctx).Command(dir, name, args...)
	start := time.Now()

	c := exec.CommandContext(ctx, name, args...)
	c.Dir = dir
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	done(time.Since(start))

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &Error{
			Name:   name,
			Args:   args,
			Dir:    dir,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}
	return stdout.Bytes(), nil
}
