package cmd

import (
	"fmt"

	"csuite/internal/formatting"
	"csuite/internal/orchestrator"
	"csuite/internal/runstore"

	"github.com/spf13/cobra"
)

func newRunsCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect stored launch reports",
		Long: `Every launch stores its report below the runs directory
(default: <config-path>/runs). These commands list, show and remove them.

Examples:
  csuite runs list --package com.example.app --outcome FAILED
  csuite runs get 3f2c... -o json
  csuite runs prune --keep 20`,
	}

	store := func() *runstore.Store {
		return runstore.NewForConfig(root.cfg, root.configPath)
	}

	cmd.AddCommand(newRunsListCmd(store))
	cmd.AddCommand(newRunsGetCmd(store))
	cmd.AddCommand(newRunsDeleteCmd(store))
	cmd.AddCommand(newRunsPruneCmd(root, store))
	return cmd
}

func newRunsListCmd(store func() *runstore.Store) *cobra.Command {
	var (
		req     runstore.ListRequest
		outcome string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored runs, newest first",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			switch orchestrator.Outcome(outcome) {
			case "", orchestrator.OutcomePassed, orchestrator.OutcomeFailed, orchestrator.OutcomeErrored:
			default:
				return fmt.Errorf("unknown outcome %q (valid: PASSED, FAILED, ERROR)", outcome)
			}
			return formatting.ValidateOutputFormat(output)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Outcome = orchestrator.Outcome(outcome)
			resp, err := store().List(req)
			if err != nil {
				return err
			}
			return formatting.New(formatting.Options{
				Format: formatting.OutputFormat(output),
				Writer: cmd.OutOrStdout(),
			}).FormatRunList(resp)
		},
	}

	cmd.Flags().StringVar(&req.Package, "package", "", "Only runs of this package")
	cmd.Flags().StringVar(&outcome, "outcome", "", "Only runs with this outcome (PASSED, FAILED, ERROR)")
	cmd.Flags().IntVar(&req.Limit, "limit", 0, "Maximum number of runs to show (default 50)")
	cmd.Flags().IntVar(&req.Offset, "offset", 0, "Number of runs to skip")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format (table, json, yaml)")
	return cmd
}

func newRunsGetCmd(store func() *runstore.Store) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a stored run",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return formatting.ValidateOutputFormat(output)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := store().Get(args[0])
			if err != nil {
				return err
			}
			return formatting.New(formatting.Options{
				Format: formatting.OutputFormat(output),
				Writer: cmd.OutOrStdout(),
			}).FormatReports([]*orchestrator.Report{report})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format (table, json, yaml)")
	return cmd
}

func newRunsDeleteCmd(store func() *runstore.Store) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := store().Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", args[0])
			return nil
		},
	}
}

func newRunsPruneCmd(root *rootOptions, store func() *runstore.Store) *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("keep") {
				keep = root.cfg.Runs.Keep
			}
			if keep < 0 {
				return fmt.Errorf("--keep must not be negative")
			}
			removed, err := store().Prune(keep)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d run(s)\n", removed)
			return nil
		},
	}

	cmd.Flags().IntVar(&keep, "keep", 0, "Number of newest runs to keep (default: from config)")
	return cmd
}
