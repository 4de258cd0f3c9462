package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fenilsonani/imgcheck/internal/config"
)

func newConfigCmd() *cobra.Command {
	var initFile bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Display current configuration",
		Long:  `Shows the configuration file path and the effective configuration.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfgPath := configPath
			if cfgPath == "" {
				var err error
				if cfgPath, err = config.GetConfigPath(); err != nil {
					return err
				}
			}

			if initFile {
				if err := config.EnsureConfigAt(cfgPath); err != nil {
					return fmt.Errorf("failed to create config: %w", err)
				}
				fmt.Fprintf(out, "Config file: %s\n", cfgPath)
				return nil
			}

			fmt.Fprintf(out, "Config file: %s\n", cfgPath)
			if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
				fmt.Fprintln(out, "Config file does not exist. Using default configuration.")
				fmt.Fprintln(out, "Run 'imgcheck config --init' to create one.")
			}

			cfg, err := loadConfig()
			if err != nil {
				return configFailure(fmt.Errorf("failed to load config: %w", err))
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			fmt.Fprintf(out, "\n%s", data)
			return nil
		},
	}

	cmd.Flags().BoolVar(&initFile, "init", false, "write a default config file if none exists")
	return cmd
}
