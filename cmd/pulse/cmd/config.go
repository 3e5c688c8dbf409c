package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/pulse/configs"
	"github.com/Aman-CERP/pulse/internal/config"
	"github.com/Aman-CERP/pulse/internal/output"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage pulse configuration",
		Long: `Manage pulse configuration.

Configuration is read in order of increasing precedence:
  1. Built-in defaults
  2. User config (~/.config/pulse/config.yaml)
  3. Project config (.pulse.yaml in the working directory)
  4. Environment variables (PULSE_*)
  5. Command-line flags`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd(a))
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force, user bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a commented config template",
		Long:        `Write the config template to .pulse.yaml, or to the user config with --user.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationSkipConfig: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := config.ProjectFileNames[0]
			if user {
				path = config.GetUserConfigPath()
			}
			return writeTemplate(cmd, path, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file (a backup is kept)")
	cmd.Flags().BoolVar(&user, "user", false, "Write the user config instead of .pulse.yaml")
	return cmd
}

func writeTemplate(cmd *cobra.Command, path string, force bool) error {
	out := output.New(cmd.OutOrStdout())

	if _, err := os.Stat(path); err == nil {
		if !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		backup, err := config.BackupFile(path)
		if err != nil {
			return err
		}
		out.Warningf("Backed up existing config to %s", backup)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configs.ConfigTemplate), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	out.Successf("Wrote %s", path)
	return nil
}

func newConfigShowCmd(a *app) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: a.wrap(func(cmd *cobra.Command, _ []string) error {
			if jsonOutput {
				return output.New(cmd.OutOrStdout()).JSON(a.cfg)
			}
			data, err := yaml.Marshal(a.cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}),
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
