package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"csuite/internal/module"
	"csuite/internal/watch"

	"github.com/spf13/cobra"
)

type generateOptions struct {
	packageList string
	rootDir     string
	watch       bool
	debounce    time.Duration
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a launch test module for each package in a list",
		Long: `Generate writes one directory per package below the root directory,
each holding a build descriptor and a test descriptor. Modules generated by
an earlier run are removed first, so the tree always matches the list.
Hand-written descriptors are never touched.

Examples:
  csuite generate --package_list packages.txt --root_dir out/modules
  csuite generate --package_list packages.txt --root_dir out/modules --watch`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error { return opts.validate() },
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, module.NewGenerator(root.cfg.Module), opts)
		},
	}

	cmd.Flags().StringVar(&opts.packageList, "package_list", "", "File with one package name per line")
	cmd.Flags().StringVar(&opts.rootDir, "root_dir", "", "Directory to write the modules to")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Regenerate whenever the package list changes")
	cmd.Flags().DurationVar(&opts.debounce, "debounce", watch.DefaultDebounce, "Quiet period before regenerating in --watch mode")
	_ = cmd.MarkFlagRequired("package_list")
	_ = cmd.MarkFlagRequired("root_dir")
	return cmd
}

func (o *generateOptions) validate() error {
	info, err := os.Stat(o.packageList)
	if err != nil {
		return fmt.Errorf("invalid --package_list: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("invalid --package_list: %s is a directory", o.packageList)
	}

	info, err = os.Stat(o.rootDir)
	if err != nil {
		return fmt.Errorf("invalid --root_dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("invalid --root_dir: %s is not a directory", o.rootDir)
	}
	return nil
}

func runGenerate(cmd *cobra.Command, gen *module.Generator, opts *generateOptions) error {
	regenerate := func(context.Context) error {
		if err := gen.Generate(opts.packageList, opts.rootDir); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Generated modules in %s from %s\n", opts.rootDir, opts.packageList)
		return nil
	}

	if err := regenerate(cmd.Context()); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watch.New(opts.packageList, opts.debounce, regenerate).Run(ctx)
}
