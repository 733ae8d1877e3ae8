package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thenoetrevino/labelschema/internal/config"
)

// configFileName is the name config.Load looks for
const configFileName = ".labelschema.yaml"

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	cmd.AddCommand(newConfigInitCommand())
	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var (
		path  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Long: `Write a config file holding the default settings plus any flags given.

Examples:
  # Write ~/.config/labelschema/.labelschema.yaml
  labelschema config init --update-url=https://labels.example.com/schema/update/

  # Write a project-local config
  labelschema config init --path=.labelschema.yaml
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.FromContext(cmd.Context())

			if path == "" {
				dir, err := config.UserConfigDir()
				if err != nil {
					return err
				}
				path = filepath.Join(dir, configFileName)
			}

			if err := cfg.Save(path, force); err != nil {
				return &CodedError{Code: ExitUsage, Err: err}
			}

			return formatter(cmd).Success(
				map[string]string{"path": path},
				fmt.Sprintf("✓ Config written to %s", path),
				path,
			)
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "where to write the file (default: user config directory)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := *config.FromContext(cmd.Context())
			if cfg.CSRFToken != "" {
				cfg.CSRFToken = "********"
			}

			f := formatter(cmd)
			if f.JSON {
				return f.Success(cfg, "", "")
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("encoding config: %w", err)
			}
			if cfg.ConfigFile != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", cfg.ConfigFile)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
