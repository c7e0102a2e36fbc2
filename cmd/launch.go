package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"csuite/internal/device"
	"csuite/internal/formatting"
	"csuite/internal/harness"
	"csuite/internal/orchestrator"
	"csuite/internal/runstore"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

type launchOptions struct {
	serial                string
	suiteZip              string
	packages              []string
	apks                  []string
	logTag                string
	marker                string
	output                string
	failOnHarnessFailures bool
	timeout               time.Duration
	quiet                 bool
	noColor               bool
}

func newLaunchCmd(root *rootOptions) *cobra.Command {
	opts := &launchOptions{}

	cmd := &cobra.Command{
		Use:   "launch",
		Short: "Launch packages on a device and report whether they started",
		Long: `Launch installs each package through the csuite harness, waits for the
launch, and checks the device log for the launch marker. The package must not
be installed before the run and is expected to be gone afterwards.

APK paths apply to the only package given. When several packages are
launched, prefix each path with its package: --apk <package>=<path>.

Exit codes:
  0  every launch passed
  1  a launch failed
  2  a run could not be set up
  3  adb or the harness failed

Examples:
  csuite launch --serial emulator-5554 --suite-zip android-csuite.zip \
      --package com.example.app --apk app.apk
  csuite launch --serial emulator-5554 --suite-zip android-csuite.zip \
      --package com.a --apk com.a=a.apk --package com.b --apk com.b=b.apk -o json`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return formatting.ValidateOutputFormat(opts.output)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLaunch(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.serial, "serial", "", "Device serial, required unless set in config")
	cmd.Flags().StringVar(&opts.suiteZip, "suite-zip", "", "Path to the standalone csuite harness archive")
	cmd.Flags().StringArrayVar(&opts.packages, "package", nil, "Package to launch (repeatable)")
	cmd.Flags().StringArrayVar(&opts.apks, "apk", nil, "APK file to install, optionally as <package>=<path> (repeatable)")
	cmd.Flags().StringVar(&opts.logTag, "log-tag", "", "Device log tag to collect (default: from config, else the package)")
	cmd.Flags().StringVar(&opts.marker, "marker", "", "Log text that proves the launch (default: from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "table", "Output format (table, json, yaml)")
	cmd.Flags().BoolVar(&opts.failOnHarnessFailures, "fail-on-harness-failures", false, "Also fail when the harness reports failed tests")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Bound for the whole run (default: from config)")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress the progress spinner")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored table output")
	_ = cmd.MarkFlagRequired("suite-zip")
	_ = cmd.MarkFlagRequired("package")
	return cmd
}

// buildRequests assigns the --apk values to the --package values.
func buildRequests(packages, apks []string) ([]orchestrator.Request, error) {
	reqs := make([]orchestrator.Request, len(packages))
	index := make(map[string]int, len(packages))
	for i, pkg := range packages {
		if _, dup := index[pkg]; dup {
			return nil, fmt.Errorf("package %s given twice", pkg)
		}
		index[pkg] = i
		reqs[i].Package = pkg
	}

	for _, apk := range apks {
		if name, path, ok := strings.Cut(apk, "="); ok {
			if i, known := index[name]; known {
				reqs[i].APKs = append(reqs[i].APKs, path)
				continue
			}
		}
		if len(packages) != 1 {
			return nil, fmt.Errorf("apk %s must be given as <package>=<path> when launching several packages", apk)
		}
		reqs[0].APKs = append(reqs[0].APKs, apk)
	}

	for _, req := range reqs {
		if len(req.APKs) == 0 {
			return nil, fmt.Errorf("no --apk given for package %s", req.Package)
		}
	}
	return reqs, nil
}

func runLaunch(cmd *cobra.Command, root *rootOptions, opts *launchOptions) error {
	reqs, err := buildRequests(opts.packages, opts.apks)
	if err != nil {
		return err
	}

	cfg := root.cfg
	flags := cmd.Flags()
	if flags.Changed("serial") {
		cfg.Device.Serial = opts.serial
	}
	if flags.Changed("log-tag") {
		cfg.Launch.LogTag = opts.logTag
	}
	if flags.Changed("marker") {
		cfg.Launch.LogMarker = opts.marker
	}
	if flags.Changed("fail-on-harness-failures") {
		cfg.Launch.FailOnHarnessFailures = opts.failOnHarnessFailures
	}
	if flags.Changed("timeout") {
		cfg.Launch.Timeout = opts.timeout
	}

	if cfg.Device.Serial == "" {
		return &orchestrator.SetupError{
			Phase: orchestrator.PhaseInit,
			Err:   fmt.Errorf("%w: pass --serial or set device.serial in config.yaml", orchestrator.ErrNoSerial),
		}
	}

	ctx := cmd.Context()
	if cfg.Launch.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Launch.Timeout)
		defer cancel()
	}

	runner := newRunner()
	dev := device.New(runner, device.Options{
		BinaryPath: cfg.Device.ADBPath,
		Serial:     cfg.Device.Serial,
	})

	suite, err := harness.Open(opts.suiteZip, harness.Options{
		Runner:   runner,
		Template: cfg.Module,
	})
	if err != nil {
		return &orchestrator.SetupError{Phase: orchestrator.PhaseInit, Err: err}
	}
	defer suite.Close()

	var spin *spinner.Spinner
	if !opts.quiet {
		spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
		spin.Suffix = " Starting..."
		spin.Start()
	}

	orchOpts := []orchestrator.Option{
		orchestrator.WithPhaseObserver(func(pkg string, phase orchestrator.Phase) {
			if spin != nil {
				spin.Lock()
				spin.Suffix = fmt.Sprintf(" %s: %s", pkg, phase)
				spin.Unlock()
			}
		}),
	}
	if cfg.Runs.Persist {
		orchOpts = append(orchOpts, orchestrator.WithReportStore(runstore.NewForConfig(cfg, root.configPath)))
	}

	orch := orchestrator.New(orchestrator.Config{
		LogMarker:             cfg.Launch.LogMarker,
		LogTag:                cfg.Launch.LogTag,
		HarnessCommand:        cfg.Launch.HarnessCommand,
		FailOnHarnessFailures: cfg.Launch.FailOnHarnessFailures,
	}, dev, suite, orchOpts...)

	reports, runErr := orch.RunAll(ctx, reqs)
	if spin != nil {
		spin.Stop()
	}

	formatter := formatting.New(formatting.Options{
		Format: formatting.OutputFormat(opts.output),
		Writer: cmd.OutOrStdout(),
		Color:  !opts.noColor,
	})
	if err := formatter.FormatReports(reports); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}
	return firstFailure(reports)
}

// firstFailure turns the first failed report of a batch into an error so the
// exit code reflects it.
func firstFailure(reports []*orchestrator.Report) error {
	for _, r := range reports {
		if r.Outcome != orchestrator.OutcomePassed {
			return fmt.Errorf("launch of %s failed: %s", r.Package, r.Error)
		}
	}
	return nil
}
