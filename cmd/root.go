package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"csuite/internal/config"
	"csuite/internal/exec"
	"csuite/internal/orchestrator"
	"csuite/pkg/logging"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeFailed indicates a launch failed (missing marker, package left
	// installed) or a general error.
	ExitCodeFailed = 1
	// ExitCodeSetup indicates the run could not be set up, including
	// malformed configuration.
	ExitCodeSetup = 2
	// ExitCodeTool indicates an external tool (adb or the harness) failed.
	ExitCodeTool = 3
)

// newRunner creates the process runner used for adb and the harness.
// Tests replace it with a simulated device.
var newRunner = func() exec.Runner { return exec.NewOSRunner() }

// rootOptions holds the persistent flags and the configuration loaded from
// them before any subcommand runs.
type rootOptions struct {
	configPath string
	debug      bool
	cfg        config.CSuiteConfig
}

// rootCmd represents the base command for the csuite application.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "csuite",
		Short: "Test that Android apps launch on a device",
		Long: `csuite runs app launch compatibility tests. It generates test modules
for a list of packages and drives a device and the csuite test harness
through one launch per package, recording a report for every run.`,
		// Errors are printed by Execute together with tool output.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config-path", config.GetDefaultConfigPathOrPanic(), "Configuration directory")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newGenerateCmd(opts))
	cmd.AddCommand(newLaunchCmd(opts))
	cmd.AddCommand(newPackagesCmd(opts))
	cmd.AddCommand(newRunsCmd(opts))
	return cmd
}

// load reads config.yaml and initializes logging.
func (o *rootOptions) load(logOutput io.Writer) error {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return err
	}
	o.cfg = cfg

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	if o.debug {
		level = logging.LevelDebug
	}
	logging.InitForCLI(level, logOutput)
	return nil
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "csuite version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
		os.Exit(getExitCode(err))
	}
}

// printError writes err and, where available, the captured tool output or
// configuration details.
func printError(w io.Writer, err error) {
	var cfgErr config.ConfigurationError
	if errors.As(err, &cfgErr) {
		fmt.Fprintln(w, cfgErr.DetailedError())
		return
	}

	fmt.Fprintf(w, "Error: %v\n", err)

	var failed *exec.CommandFailedError
	if errors.As(err, &failed) {
		if out := failed.Output(); out != "" {
			fmt.Fprintln(w, out)
		}
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}

	var failed *exec.CommandFailedError
	if errors.As(err, &failed) {
		return ExitCodeTool
	}

	var setup *orchestrator.SetupError
	if errors.As(err, &setup) {
		return ExitCodeSetup
	}

	var outcome *orchestrator.OutcomeError
	if errors.As(err, &outcome) {
		return ExitCodeFailed
	}

	var cfgErr config.ConfigurationError
	if errors.As(err, &cfgErr) {
		return ExitCodeSetup
	}

	return ExitCodeFailed
}
