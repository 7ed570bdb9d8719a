// Package runner spawns external commands and reports how they finished.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Command describes a process to spawn.
type Command struct {
	Name string
	Args []string
	// Env is the full environment of the child. Nil inherits the current process
	// environment. When Env carries PATH, Name is resolved against it.
	Env []string
	// Attach streams the child's stdio to the runner's terminal instead of capturing it.
	Attach bool
}

// String renders the command line for log output.
func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Result is how a finished process exited. Stdout and Stderr are empty for attached commands.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// OK reports whether the process exited with status zero.
func (r Result) OK() bool {
	return r.ExitCode == 0
}

// Runner abstracts command execution for testability.
//
// Run returns an error only when the process could not be started (for example the
// binary is not installed) or ctx was cancelled. A process that starts and exits
// non-zero yields a nil error and a non-zero Result.ExitCode.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecRunner implements Runner using os/exec.
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner returns a runner attached to the process's own stdio.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run executes cmd and waits for it to finish.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	path, err := resolve(cmd.Name, cmd.Env)
	if err != nil {
		return Result{ExitCode: -1}, &StartError{Command: cmd.String(), Err: err}
	}

	c := exec.CommandContext(ctx, path, cmd.Args...)
	c.Env = cmd.Env

	var outBuf, errBuf bytes.Buffer
	if cmd.Attach {
		c.Stdin = r.Stdin
		c.Stdout = r.Stdout
		c.Stderr = r.Stderr
	} else {
		c.Stdout = &outBuf
		c.Stderr = &errBuf
	}

	err = c.Run()
	res := Result{Stdout: outBuf.String(), Stderr: errBuf.String()}
	if err == nil {
		return res, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		res.ExitCode = -1
		return res, ctxErr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	res.ExitCode = -1
	return res, &StartError{Command: cmd.String(), Err: err}
}

// resolve finds name on the PATH carried by env, falling back to the process PATH.
// exec.Command alone always consults the process PATH, which misses directories
// added to the child environment during the run.
func resolve(name string, env []string) (string, error) {
	if strings.ContainsRune(name, filepath.Separator) {
		return name, nil
	}
	if pathList, ok := lookup(env, "PATH"); ok {
		for _, dir := range filepath.SplitList(pathList) {
			if dir == "" {
				continue
			}
			candidate := filepath.Join(dir, name)
			if p, err := exec.LookPath(candidate); err == nil {
				return p, nil
			}
		}
		return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
	}
	return exec.LookPath(name)
}

func lookup(env []string, key string) (string, bool) {
	for i := len(env) - 1; i >= 0; i-- {
		if k, v, ok := strings.Cut(env[i], "="); ok && k == key {
			return v, true
		}
	}
	return "", false
}

// StartError reports a command that could not be started, usually because it is not installed.
type StartError struct {
	Command string
	Err     error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("start '%s': %v", e.Command, e.Err)
}

func (e *StartError) Unwrap() error {
	return e.Err
}

// ExitError reports a command that started but exited non-zero.
type ExitError struct {
	Command string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("'%s' exited with status %d", e.Command, e.Code)
}

// Check runs cmd and turns a non-zero exit into an *ExitError.
func Check(ctx context.Context, r Runner, cmd Command) (Result, error) {
	res, err := r.Run(ctx, cmd)
	if err != nil {
		return res, err
	}
	if !res.OK() {
		return res, &ExitError{Command: cmd.String(), Code: res.ExitCode}
	}
	return res, nil
}

// IsCommandFailure reports whether err came from a command that failed to start or exited non-zero.
func IsCommandFailure(err error) bool {
	var startErr *StartError
	var exitErr *ExitError
	return errors.As(err, &startErr) || errors.As(err, &exitErr)
}
