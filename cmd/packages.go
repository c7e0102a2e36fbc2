package cmd

import (
	"fmt"
	"os"

	"csuite/internal/device"
	"csuite/internal/formatting"
	"csuite/internal/packagelist"

	"github.com/spf13/cobra"
)

func newPackagesCmd(root *rootOptions) *cobra.Command {
	var (
		serial string
		output string
		save   string
	)

	cmd := &cobra.Command{
		Use:   "packages",
		Short: "List the packages installed on a device",
		Long: `List the packages installed on a device, as reported by the package
manager. With --save the listing is also written as a package list that
generate accepts.

Examples:
  csuite packages --serial emulator-5554
  csuite packages -o json
  csuite packages --serial emulator-5554 --save packages.txt`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return formatting.ValidateOutputFormat(output)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := root.cfg
			if cmd.Flags().Changed("serial") {
				cfg.Device.Serial = serial
			}

			dev := device.New(newRunner(), device.Options{
				BinaryPath: cfg.Device.ADBPath,
				Serial:     cfg.Device.Serial,
			})
			pkgs, err := dev.ListPackages(cmd.Context())
			if err != nil {
				return err
			}

			if save != "" {
				if err := savePackageList(save, pkgs); err != nil {
					return err
				}
			}

			return formatting.New(formatting.Options{
				Format: formatting.OutputFormat(output),
				Writer: cmd.OutOrStdout(),
			}).FormatPackages(pkgs)
		},
	}

	cmd.Flags().StringVar(&serial, "serial", "", "Device serial (default: from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format (table, json, yaml)")
	cmd.Flags().StringVar(&save, "save", "", "Also write the packages to this file, one per line")
	return cmd
}

func savePackageList(path string, pkgs []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create package list: %w", err)
	}
	if err := packagelist.Write(f, pkgs); err != nil {
		f.Close()
		return fmt.Errorf("failed to write package list %s: %w", path, err)
	}
	return f.Close()
}
