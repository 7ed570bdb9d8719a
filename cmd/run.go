package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"runtime"

	"setup-automate/internal/config"
	"setup-automate/internal/installer"
	"setup-automate/internal/logger"
	"setup-automate/internal/preflight"
	"setup-automate/internal/prompt"
	"setup-automate/internal/report"
	"setup-automate/internal/runlock"
	"setup-automate/internal/runner"
)

// runPlan loads the configuration, wires the checker to the real machine and
// walks through every section. The launch step runs only when launch is true.
func runPlan(ctx context.Context, o *options, launch bool) error {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return usage(err)
	}

	lock, err := runlock.Acquire(o.lockDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("%v\n", err)
		}
	}()

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("locate home directory: %w", err)
	}
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("locate working directory: %w", err)
	}

	// The config's env_file is optional; a file named on the command line must exist.
	envFile, required := cfg.EnvFile, false
	if o.envFile != "" {
		envFile, required = o.envFile, true
	}
	if envFile != "" {
		envFile = config.ExpandPath(envFile, home, wd)
	}
	env, err := config.LoadEnvironment(envFile, required)
	if err != nil {
		return usage(err)
	}

	// Attached children read o.in directly; the prompter never reads past an answer.
	r := runner.NewExecRunner()
	r.Stdin, r.Stdout = o.in, o.out
	checker := &preflight.Checker{
		Runner:   r,
		Prompter: prompt.New(o.in, o.out),
		Installer: &installer.Installer{
			Runner:    r,
			Env:       env,
			HTTP:      http.DefaultClient,
			Managers:  cfg.PackageManagers,
			GOOS:      runtime.GOOS,
			GOARCH:    runtime.GOARCH,
			BinDir:    config.ExpandPath(cfg.BinDir, home, wd),
			GitHubAPI: cfg.GitHubAPI,
		},
		Env:     env,
		FS:      preflight.OSFileStater{},
		WorkDir: wd,
		HomeDir: home,
	}
	logger.Debug("[DEBUG] Working directory %s, home %s, platform %s/%s\n", wd, home, runtime.GOOS, runtime.GOARCH)

	rep := report.New()
	err = preflight.Run(ctx, checker, cfg, preflight.RunOptions{Launch: launch, Report: rep})
	rep.Finish(exitCode(err), err)

	if o.reportPath != "" {
		if saveErr := report.Save(o.reportPath, rep); saveErr != nil {
			logger.Warn("Could not write report: %v\n", saveErr)
		}
	}
	return err
}
