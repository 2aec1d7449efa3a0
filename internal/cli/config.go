package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/piwi3910/RackPlan/internal/model"
	"github.com/piwi3910/RackPlan/internal/project"
)

func newConfigCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialise the configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd.OutOrStdout(), configFromContext(cmd.Context()))
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(opts.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", opts.configPath)
			}
			if err := project.SaveAppConfig(opts.configPath, model.DefaultAppConfig()); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Wrote %s", opts.configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)

	cmd.AddCommand(newConfigBackupCmd())
	cmd.AddCommand(newConfigRestoreCmd(opts))
	return cmd
}

func newConfigBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup FILE",
		Short: "Write the configuration, device library and templates to one file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromContext(cmd.Context())
			lib, _, err := project.LoadOrCreateLibrary(cfg)
			if err != nil {
				return err
			}
			store, err := project.LoadTemplates(project.TemplatePath(cfg))
			if err != nil {
				return err
			}
			if err := project.ExportAllData(args[0], cfg, lib.List(), store.Templates); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Backed up %d device types and %d templates to %s", lib.Len(), len(store.Templates), args[0])
			return nil
		},
	}
}

func newConfigRestoreCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "restore FILE",
		Short: "Restore a backup written by config backup",
		Long:  "Restore a backup. The configuration file, device library and template store are replaced.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			backup, err := project.ImportAllData(args[0])
			if err != nil {
				return err
			}
			logger.Debug("read backup", "created", backup.CreatedAt, "version", backup.Version)

			cfg := backup.Config
			if err := project.SaveLibrary(project.LibraryPath(cfg), backup.DeviceTypes); err != nil {
				return err
			}
			store := model.TemplateStore{Templates: backup.Templates}
			if err := project.SaveTemplates(project.TemplatePath(cfg), store); err != nil {
				return err
			}
			if err := project.SaveAppConfig(opts.configPath, cfg); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Restored %d device types and %d templates", len(backup.DeviceTypes), len(backup.Templates))
			return nil
		},
	}
}
