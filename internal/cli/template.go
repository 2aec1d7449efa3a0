package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/RackPlan/internal/model"
	"github.com/piwi3910/RackPlan/internal/project"
)

func newTemplateCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Manage reusable rack templates",
	}

	cmd.AddCommand(newTemplateSaveCmd(opts))
	cmd.AddCommand(newTemplateListCmd())
	cmd.AddCommand(newTemplateRemoveCmd())
	return cmd
}

// findTemplate loads the configured template store and looks up ref by id
// or name.
func findTemplate(cfg model.AppConfig, ref string) (model.RackTemplate, error) {
	store, err := project.LoadTemplates(project.TemplatePath(cfg))
	if err != nil {
		return model.RackTemplate{}, err
	}
	tmpl := store.Find(ref)
	if tmpl == nil {
		if names := store.Names(); len(names) > 0 {
			return model.RackTemplate{}, fmt.Errorf("template %q not found, saved templates: %s", ref, strings.Join(names, ", "))
		}
		return model.RackTemplate{}, fmt.Errorf("template %q not found", ref)
	}
	return *tmpl, nil
}

func newTemplateSaveCmd(opts *globalOptions) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "save NAME",
		Short: "Save the current layout as a template",
		Long:  "Save the current layout's rack, placements and device types as a template. A template with the same name is replaced.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFromContext(ctx)
			s, err := opts.openSession(ctx)
			if err != nil {
				return err
			}

			path := project.TemplatePath(cfg)
			store, err := project.LoadTemplates(path)
			if err != nil {
				return err
			}
			tmpl := model.NewRackTemplate(args[0], description, *s.editor.Layout())
			store.Add(tmpl)
			if err := project.SaveTemplates(path, store); err != nil {
				return err
			}
			loggerFromContext(ctx).Debug("saved template", "path", path, "templates", len(store.Templates))

			printSuccess(cmd.OutOrStdout(), "Saved template %q (%dU, %d devices)", args[0], tmpl.Rack.Height, len(tmpl.Rack.Devices))
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "template description")
	return cmd
}

func newTemplateListCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved templates",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromContext(cmd.Context())
			store, err := project.LoadTemplates(project.TemplatePath(cfg))
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(w, store.Templates)
			}
			if len(store.Templates) == 0 {
				printInfo(w, "No templates saved")
				return nil
			}
			tw := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tHEIGHT\tDEVICES\tDESCRIPTION")
			for _, t := range store.Templates {
				fmt.Fprintf(tw, "%s\t%s\t%dU\t%d\t%s\n", t.ID, t.Name, t.Rack.Height, len(t.Rack.Devices), t.Description)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print templates as JSON")
	return cmd
}

func newTemplateRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove NAME|ID",
		Aliases: []string{"rm"},
		Short:   "Delete a saved template",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromContext(cmd.Context())
			path := project.TemplatePath(cfg)
			store, err := project.LoadTemplates(path)
			if err != nil {
				return err
			}
			if !store.Remove(args[0]) {
				return fmt.Errorf("template %q not found", args[0])
			}
			if err := project.SaveTemplates(path, store); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Removed template %q", args[0])
			return nil
		},
	}
}
