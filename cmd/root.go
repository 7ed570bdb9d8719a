package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"setup-automate/internal/logger"
	"setup-automate/internal/preflight"
)

// options holds the persistent flags shared by every command.
type options struct {
	debug      bool
	noColor    bool
	configPath string
	envFile    string
	reportPath string
	// lockDir holds the lock that keeps runs from overlapping.
	lockDir string

	in  io.Reader
	out io.Writer
}

// usageError marks failures caused by how the tool was invoked: bad flags,
// unexpected arguments, or a config file that does not load.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usage(err error) error {
	return &usageError{err: err}
}

// newRootCmd builds the command tree. With no subcommand the root runs the whole
// setup: every requirement section and then the launch step.
func newRootCmd(o *options) *cobra.Command {
	root := &cobra.Command{
		Use:   "setup-automate",
		Short: "Check and prepare this machine, then bring up the Automate EC2 environment",
		Long: `setup-automate walks through the requirements of the Automate EC2 workflow:
required tools, environment variables and credential files. It offers to install
missing tools, asks for missing values, and finally runs "vagrant up".`,
		Args:          noArgs,
		SilenceErrors: true,
		SilenceUsage:  true,

		// PersistentPreRun runs before any subcommand and sets up logging.
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(o.debug, o.noColor)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd.Context(), o, true)
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVar(&o.debug, "debug", false, "Enable debug logging")
	flags.BoolVar(&o.noColor, "no-color", false, "Disable colored output")
	flags.StringVarP(&o.configPath, "config", "c", "", "Path to a configuration file (defaults to the built-in one)")
	flags.StringVar(&o.envFile, "env-file", "", "Dotenv file filling in unset environment variables")
	flags.StringVar(&o.reportPath, "report", "", "Write a JSON report of the run to this file")

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usage(err)
	})
	root.SetIn(o.in)
	root.SetOut(o.out)
	root.SetErr(o.out)

	root.AddCommand(newUpCmd(o))
	root.AddCommand(newCheckCmd(o))
	return root
}

func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return usage(err)
	}
	return nil
}

// Execute is the entry point for the CLI. It exits the process with the status of the run.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	go func() {
		// After the first interrupt a second one gets the default behavior and kills the process.
		<-ctx.Done()
		stop()
	}()
	code := Run(ctx, os.Args[1:], os.Stdin, logger.Output())
	stop()
	os.Exit(code)
}

// Run executes the CLI with args and returns the process exit status.
func Run(ctx context.Context, args []string, in io.Reader, out io.Writer) int {
	logger.SetOutput(out)
	o := &options{in: in, out: out, lockDir: os.TempDir()}
	root := newRootCmd(o)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return preflight.ExitOK
	}

	var reqErr *preflight.RequirementError
	switch {
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		logger.Plain("\n")
		logger.Warn("Interrupted.\n")
	case errors.As(err, &reqErr):
		// the failing check has already explained itself to the operator
		logger.Debug("[DEBUG] %v\n", err)
	default:
		logger.Error("Error: %v\n", err)
	}
	return exitCode(err)
}

func exitCode(err error) int {
	var ue *usageError
	if errors.As(err, &ue) {
		return preflight.ExitUsage
	}
	return preflight.ExitCode(err)
}
