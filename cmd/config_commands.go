package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MimeLyc/mkv-organizer/internal/config"
)

func newConfigCommand(flags *runFlags) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand(flags))
	configCmd.AddCommand(newConfigShowCommand(flags))

	return configCmd
}

func newConfigInitCommand(flags *runFlags) *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the default settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			target := flags.configPath
			if target == "" {
				target = config.DefaultConfigFile
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.WriteFile(target, config.Default()); err != nil {
				return fmt.Errorf("write config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote default configuration to %s\n", target)
			fmt.Fprintln(out, "Edit root_folder and output_root before the first run.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigShowCommand(flags *runFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			data, err := config.Encode(*cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
