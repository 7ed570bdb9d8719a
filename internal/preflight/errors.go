package preflight

import (
	"errors"
	"fmt"

	"setup-automate/internal/config"
	"setup-automate/internal/prompt"
)

// Failure kinds. Every one of them ends the run.
var (
	ErrToolMissing         = errors.New("required tool is missing")
	ErrInstallDeclined     = errors.New("installation declined")
	ErrUnsupportedPlatform = errors.New("automatic install is not supported on this platform")
	ErrFileMissing         = errors.New("required file is missing")
	ErrWrongDirectory      = errors.New("run from the wrong directory")
	ErrVersionMismatch     = errors.New("installed version does not satisfy the constraint")
	ErrSubprocessFailed    = errors.New("command failed")
	ErrInstallFailed       = errors.New("installation failed")
	// ErrInputClosed means stdin ended while a prompt was waiting for an answer.
	ErrInputClosed = prompt.ErrClosed
)

// Exit codes for the process.
const (
	ExitOK                  = 0
	ExitFailure             = 1
	ExitUsage               = 2
	ExitToolMissing         = 3
	ExitAborted             = 4
	ExitUnsupportedPlatform = 5
	ExitMissingFile         = 6
	ExitSubprocessFailed    = 7
)

// RequirementError ties a failure to the requirement that caused it.
type RequirementError struct {
	Name string
	Kind config.Kind
	Err  error
}

func (e *RequirementError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Name, e.Kind, e.Err)
}

func (e *RequirementError) Unwrap() error {
	return e.Err
}

func fail(req config.Requirement, err error) error {
	return &RequirementError{Name: req.Name, Kind: req.Kind, Err: err}
}

// failf wraps kind (one of the Err* values) with extra context.
func failf(req config.Requirement, kind error, format string, a ...any) error {
	return fail(req, fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, a...)))
}

// ExitCode maps an error returned by the checker to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrInstallDeclined), errors.Is(err, ErrInputClosed):
		return ExitAborted
	case errors.Is(err, ErrUnsupportedPlatform):
		return ExitUnsupportedPlatform
	case errors.Is(err, ErrFileMissing), errors.Is(err, ErrWrongDirectory):
		return ExitMissingFile
	case errors.Is(err, ErrSubprocessFailed), errors.Is(err, ErrInstallFailed):
		return ExitSubprocessFailed
	case errors.Is(err, ErrToolMissing), errors.Is(err, ErrVersionMismatch):
		return ExitToolMissing
	default:
		return ExitFailure
	}
}
