package installer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"path/filepath"

	"setup-automate/internal/config"
	"setup-automate/internal/logger"
	"setup-automate/internal/runner"
)

// ErrNoPackageManager is returned when no package manager is configured for the platform.
var ErrNoPackageManager = errors.New("no package manager configured for this platform")

// HTTPDoer is the part of *http.Client the installer needs.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Installer puts missing binaries on the machine, either through the platform
// package manager or from a downloaded release archive.
type Installer struct {
	Runner runner.Runner
	Env    *config.Environment
	HTTP   HTTPDoer
	// Managers maps GOOS to the command prefix that installs a package.
	Managers  map[string][]string
	GOOS      string
	GOARCH    string
	BinDir    string
	GitHubAPI string
}

// Supports reports whether req can be installed on this platform.
// Downloads work anywhere; package installs need a manager for GOOS.
func (i *Installer) Supports(req config.Requirement) bool {
	switch req.Source {
	case "", config.SourcePackage:
		m, ok := i.Managers[i.GOOS]
		return ok && len(m) > 0
	default:
		return true
	}
}

// Install installs req. For archive sources it returns the path of the installed
// binary; package manager installs return "".
func (i *Installer) Install(ctx context.Context, req config.Requirement) (string, error) {
	logger.Debug("[DEBUG] Installing %s from source %q\n", req.Name, req.Source)

	switch req.Source {
	case "", config.SourcePackage:
		return "", i.installPackage(ctx, req)
	case config.SourceGitHub:
		logger.Info("Installing %s from GitHub release of %s...\n", req.Name, req.Repo)
		return i.installFromGitHub(ctx, req)
	case config.SourceURL:
		logger.Info("Installing %s from %s...\n", req.Name, req.URL)
		return i.installFromURL(ctx, req)
	default:
		return "", fmt.Errorf("unknown install source %q for %s", req.Source, req.Name)
	}
}

func (i *Installer) installPackage(ctx context.Context, req config.Requirement) error {
	manager := i.Managers[i.GOOS]
	if len(manager) == 0 {
		return fmt.Errorf("%w: %s", ErrNoPackageManager, i.GOOS)
	}
	args := append(append([]string{}, manager[1:]...), req.PackageName())
	cmd := runner.Command{Name: manager[0], Args: args, Env: i.environ(), Attach: true}

	logger.Debug("[DEBUG] Running command: %s\n", cmd)
	_, err := runner.Check(ctx, i.Runner, cmd)
	return err
}

func (i *Installer) installFromURL(ctx context.Context, req config.Requirement) (string, error) {
	tmp, cleanup, err := tempDir()
	if err != nil {
		return "", err
	}
	defer cleanup()

	name := path.Base(req.URL)
	if name == "" || name == "/" || name == "." {
		name = req.Name
	}
	dst := filepath.Join(tmp, name)
	if err := i.downloadFile(ctx, req.URL, dst); err != nil {
		return "", err
	}

	if IsArchive(name) {
		return i.installArchive(dst, req.Name)
	}
	// A bare executable: install it under the requirement's name.
	target := filepath.Join(i.BinDir, executableName(req.Name, i.GOOS))
	if err := copyFile(dst, target, 0o755); err != nil {
		return "", fmt.Errorf("install %s: %w", req.Name, err)
	}
	return target, nil
}

func (i *Installer) environ() []string {
	if i.Env == nil {
		return nil
	}
	return i.Env.Environ()
}
