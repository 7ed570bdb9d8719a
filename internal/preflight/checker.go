// Package preflight checks the requirements of a run one at a time and remediates
// the ones it can: installing missing tools, prompting for missing values.
package preflight

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"setup-automate/internal/config"
	"setup-automate/internal/logger"
	"setup-automate/internal/runner"
)

// Prompter asks the operator for answers.
type Prompter interface {
	// Confirm asks a yes/no question until it gets a valid answer.
	Confirm(ctx context.Context, question string) (bool, error)
	// Ask prints label and returns one line of input, possibly empty.
	Ask(ctx context.Context, label string, secret bool) (string, error)
}

// Installer adds missing binaries to the machine.
type Installer interface {
	Supports(req config.Requirement) bool
	// Install returns the path of the installed binary when it knows it, or "".
	Install(ctx context.Context, req config.Requirement) (string, error)
}

// FileStater provides file system stat operations for testing.
type FileStater interface {
	Stat(name string) (fs.FileInfo, error)
}

// OSFileStater uses os.Stat.
type OSFileStater struct{}

func (OSFileStater) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

// Checker evaluates requirements against an explicit view of the machine.
// All process-wide state it depends on (environment, working and home directory)
// is passed in rather than read ad hoc.
type Checker struct {
	Runner    runner.Runner
	Prompter  Prompter
	Installer Installer
	Env       *config.Environment
	FS        FileStater
	WorkDir   string
	HomeDir   string
}

// Ensure returns nil when req is satisfied, remediating it first if it can.
// A non-nil error means the run must stop.
func (c *Checker) Ensure(ctx context.Context, req config.Requirement) error {
	_, err := c.ensure(ctx, req)
	return err
}

// ensure also reports whether a remediation was needed.
func (c *Checker) ensure(ctx context.Context, req config.Requirement) (bool, error) {
	logger.Debug("[DEBUG] Checking %s requirement %s\n", req.Kind, req.Name)
	if err := ctx.Err(); err != nil {
		return false, fail(req, err)
	}

	switch req.Kind {
	case config.KindBinary:
		return c.ensureBinary(ctx, req)
	case config.KindEnv:
		return c.ensureEnv(ctx, req)
	case config.KindFile:
		return false, c.ensureFile(req)
	case config.KindWorkDir:
		return false, c.ensureWorkDir(req)
	case config.KindCommand:
		return c.ensureCommand(ctx, req)
	default:
		return false, fail(req, fmt.Errorf("unknown requirement kind %q", req.Kind))
	}
}

func (c *Checker) ensureBinary(ctx context.Context, req config.Requirement) (bool, error) {
	res, present := c.probeBinary(ctx, req)
	if err := ctx.Err(); err != nil {
		return false, fail(req, err)
	}
	if present {
		if err := c.checkBinaryVersion(req, res); err != nil {
			return false, err
		}
		logger.Info("%s is installed on this system.\n", req.Name)
		return false, nil
	}

	if c.Installer == nil || !c.Installer.Supports(req) {
		logger.Error("Please install %s on this system.\n", req.Name)
		return false, fail(req, ErrUnsupportedPlatform)
	}

	ok, err := c.Prompter.Confirm(ctx, fmt.Sprintf("Would you like to install %s now?", req.Name))
	if err != nil {
		return false, fail(req, err)
	}
	if !ok {
		logger.Plain("Exiting...\n")
		return false, fail(req, ErrInstallDeclined)
	}

	installed, err := c.Installer.Install(ctx, req)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, fail(req, ctxErr)
	}
	if err != nil {
		logger.Error("Failed to install %s: %v\n", req.Name, err)
		if runner.IsCommandFailure(err) {
			return false, wrap(req, ErrSubprocessFailed, err)
		}
		return false, wrap(req, ErrInstallFailed, err)
	}
	if installed != "" && c.Env != nil {
		c.Env.PrependPath(filepath.Dir(installed))
	}

	res, present = c.probeBinary(ctx, req)
	if !present {
		logger.Error("%s is still not available after installing it.\n", req.Name)
		return false, fail(req, ErrToolMissing)
	}
	if err := c.checkBinaryVersion(req, res); err != nil {
		return false, err
	}
	logger.Info("%s is installed on this system.\n", req.Name)
	return true, nil
}

// probeBinary runs the binary with its version flag. It is present when the
// process starts and exits 0.
func (c *Checker) probeBinary(ctx context.Context, req config.Requirement) (runner.Result, bool) {
	args := req.VersionArgs
	if len(args) == 0 {
		args = []string{"--version"}
	}
	cmd := runner.Command{Name: req.Name, Args: args, Env: c.environ()}
	res, err := c.Runner.Run(ctx, cmd)
	if err != nil {
		logger.Debug("[DEBUG] %s: %v\n", cmd, err)
		return res, false
	}
	logger.Debug("[DEBUG] %s exited %d: %s\n", cmd, res.ExitCode, strings.TrimSpace(res.Stdout))
	return res, res.OK()
}

func (c *Checker) checkBinaryVersion(req config.Requirement, res runner.Result) error {
	if req.Version == "" {
		return nil
	}
	output := res.Stdout
	if strings.TrimSpace(output) == "" {
		output = res.Stderr
	}
	v, ok, err := checkVersion(output, req.Version)
	if err != nil {
		logger.Error("Could not determine the version of %s: %v\n", req.Name, err)
		return wrap(req, ErrVersionMismatch, err)
	}
	if !ok {
		logger.Error("%s %s is installed but %s is required.\n", req.Name, v, req.Version)
		return failf(req, ErrVersionMismatch, "%s does not satisfy %s", v, req.Version)
	}
	logger.Debug("[DEBUG] %s %s satisfies %s\n", req.Name, v, req.Version)
	return nil
}

func (c *Checker) ensureEnv(ctx context.Context, req config.Requirement) (bool, error) {
	logger.Plain("Checking for %s environment variable...\n", req.Name)
	for _, line := range req.Description {
		logger.Plain("%s\n", line)
	}

	if v, ok := c.Env.Lookup(req.Name); ok && v != "" {
		logger.Info("Found %s environment variable.\n", req.Name)
		return false, nil
	}
	logger.Warn("Did not find %s environment variable.\n", req.Name)

	for {
		value, err := c.Prompter.Ask(ctx, fmt.Sprintf("Please enter the %s environment variable: ", req.Name), req.Secret)
		if err != nil {
			return false, fail(req, err)
		}
		if value = strings.TrimSpace(value); value != "" {
			c.Env.Set(req.Name, value)
			return true, nil
		}
		logger.Warn("Value cannot be empty. Please try again.\n")
	}
}

// ensureFile never remediates: files are owner-provided secrets and licenses.
func (c *Checker) ensureFile(req config.Requirement) error {
	path := config.ExpandPath(req.Path, c.HomeDir, c.WorkDir)
	if _, err := c.FS.Stat(path); err != nil {
		msg := req.Message
		if msg == "" {
			msg = fmt.Sprintf("Please create %s.", path)
		}
		logger.Error("%s\n", msg)
		if errors.Is(err, fs.ErrNotExist) {
			return failf(req, ErrFileMissing, "%s", path)
		}
		return wrap(req, ErrFileMissing, err)
	}
	logger.Info("Found %s file in the %s directory.\n", filepath.Base(path), filepath.Dir(path))
	return nil
}

func (c *Checker) ensureWorkDir(req config.Requirement) error {
	location := filepath.ToSlash(req.Path)
	if !strings.Contains(filepath.ToSlash(c.WorkDir), location) {
		msg := req.Message
		if msg == "" {
			msg = fmt.Sprintf("Please run this script from the %s directory.", location)
		}
		logger.Error("%s\n", msg)
		return failf(req, ErrWrongDirectory, "%s is not inside %s", c.WorkDir, location)
	}
	logger.Info("Running this script from the %s directory.\n", location)
	return nil
}

func (c *Checker) ensureCommand(ctx context.Context, req config.Requirement) (bool, error) {
	if c.probeCommand(ctx, req) {
		logger.Info("%s is installed.\n", req.Name)
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, fail(req, err)
	}
	if len(req.Install) == 0 {
		logger.Error("%s is not installed.\n", req.Name)
		return false, fail(req, ErrToolMissing)
	}

	logger.Plain("Installing %s...\n", req.Name)
	for _, argv := range req.Install {
		cmd := runner.Command{Name: argv[0], Args: argv[1:], Env: c.environ(), Attach: true}
		if _, err := runner.Check(ctx, c.Runner, cmd); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return false, fail(req, ctxErr)
			}
			logger.Error("Error executing '%s'.\n", cmd)
			return false, wrap(req, ErrSubprocessFailed, err)
		}
	}

	if !c.probeCommand(ctx, req) {
		logger.Error("%s is still not installed.\n", req.Name)
		return false, fail(req, ErrToolMissing)
	}
	logger.Info("%s is installed.\n", req.Name)
	return true, nil
}

func (c *Checker) probeCommand(ctx context.Context, req config.Requirement) bool {
	cmd := runner.Command{Name: req.Probe[0], Args: req.Probe[1:], Env: c.environ()}
	res, err := c.Runner.Run(ctx, cmd)
	if err != nil || !res.OK() {
		logger.Debug("[DEBUG] probe %s failed: exit %d, err %v\n", cmd, res.ExitCode, err)
		return false
	}
	return req.Expect == "" || strings.Contains(res.Stdout, req.Expect)
}

// Launch runs the final command with the terminal attached.
func (c *Checker) Launch(ctx context.Context, launch config.Launch) error {
	if launch.Announce != "" {
		logger.Plain("%s\n", launch.Announce)
	}
	cmd := runner.Command{Name: launch.Command[0], Args: launch.Command[1:], Env: c.environ(), Attach: true}
	if _, err := runner.Check(ctx, c.Runner, cmd); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return &RequirementError{Name: cmd.String(), Kind: KindLaunch, Err: ctxErr}
		}
		logger.Error("Error executing '%s'.\n", cmd)
		return &RequirementError{Name: cmd.String(), Kind: KindLaunch, Err: fmt.Errorf("%w: %w", ErrSubprocessFailed, err)}
	}
	return nil
}

// KindLaunch labels failures of the launch step.
const KindLaunch config.Kind = "launch"

// environ is the child environment: the process snapshot plus anything set during the run.
func (c *Checker) environ() []string {
	if c.Env == nil {
		return nil
	}
	return c.Env.Environ()
}

func wrap(req config.Requirement, kind, err error) error {
	return fail(req, fmt.Errorf("%w: %w", kind, err))
}
