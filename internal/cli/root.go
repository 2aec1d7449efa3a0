package cli

import (
	"context"
	"fmt"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/RackPlan/internal/project"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// It is called by the main package with values injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	verbose    bool
	configPath string
	layoutPath string
}

// Execute runs the rackplan CLI and returns an error if any command fails.
//
// Logging:
//   - Default: the config's log level, or info (logs to stderr)
//   - With --verbose (-v): debug level
func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:          "rackplan",
		Short:        "RackPlan lays out devices in equipment racks",
		Long:         `RackPlan places, moves and resizes devices in a rack elevation while keeping every placement inside the rack and free of collisions on its mounting face.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := project.LoadAppConfig(opts.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			level := charmlog.InfoLevel
			if parsed, err := charmlog.ParseLevel(cfg.LogLevel); err == nil {
				level = parsed
			}
			if opts.verbose {
				level = charmlog.DebugLevel
			}

			ctx := withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level))
			ctx = withConfig(ctx, cfg)
			cmd.SetContext(ctx)
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("rackplan %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&opts.configPath, "config", project.DefaultConfigPath(), "config file")
	root.PersistentFlags().StringVarP(&opts.layoutPath, "file", "f", "", "layout file (defaults to the most recent layout)")

	root.AddCommand(newNewCmd(opts))
	root.AddCommand(newPlaceCmd(opts))
	root.AddCommand(newRemoveCmd(opts))
	root.AddCommand(newMoveCmd(opts))
	root.AddCommand(newNudgeCmd(opts))
	root.AddCommand(newResizeCmd(opts))
	root.AddCommand(newCheckResizeCmd(opts))
	root.AddCommand(newListCmd(opts))
	root.AddCommand(newValidateCmd(opts))
	root.AddCommand(newApplyCmd(opts))
	root.AddCommand(newCatalogCmd(opts))
	root.AddCommand(newTemplateCmd(opts))
	root.AddCommand(newExportCmd(opts))
	root.AddCommand(newConfigCmd(opts))

	return root
}
