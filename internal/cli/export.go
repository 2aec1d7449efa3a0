package cli

import (
	"github.com/spf13/cobra"

	"github.com/piwi3910/RackPlan/internal/export"
	"github.com/piwi3910/RackPlan/internal/model"
)

func newExportCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the rack to printable files",
	}

	cmd.AddCommand(newExportFileCmd(opts, "pdf", "Write a front and rear elevation drawing", export.ExportPDF))
	cmd.AddCommand(newExportFileCmd(opts, "labels", "Write QR-coded asset labels (Avery 5160)", export.ExportLabels))
	return cmd
}

// newExportFileCmd builds a subcommand that renders the current layout to
// the file named by its single argument.
func newExportFileCmd(opts *globalOptions, name, short string, render func(string, model.Layout) error) *cobra.Command {
	return &cobra.Command{
		Use:   name + " FILE",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.openSession(cmd.Context())
			if err != nil {
				return err
			}

			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)
			if err := render(args[0], *s.editor.Layout()); err != nil {
				return err
			}
			prog.done("Exported " + name)
			printSuccess(cmd.OutOrStdout(), "Wrote %s", args[0])
			return nil
		},
	}
}
