package cli

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/RackPlan/internal/catalog"
	"github.com/piwi3910/RackPlan/internal/importer"
	"github.com/piwi3910/RackPlan/internal/model"
	"github.com/piwi3910/RackPlan/internal/project"
)

func newCatalogCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage device types",
	}

	cmd.AddCommand(newCatalogListCmd(opts))
	cmd.AddCommand(newCatalogImportCmd(opts))
	return cmd
}

func newCatalogListCmd(opts *globalOptions) *cobra.Command {
	var fromLayout, asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List device types in the library or a layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var types []model.DeviceType
			if fromLayout {
				s, err := opts.openSession(cmd.Context())
				if err != nil {
					return err
				}
				types = s.editor.Catalog().List()
			} else {
				lib, _, err := project.LoadOrCreateLibrary(configFromContext(cmd.Context()))
				if err != nil {
					return err
				}
				types = lib.List()
			}

			w := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(w, types)
			}
			writeTypeTable(w, types)
			return nil
		},
	}

	cmd.Flags().BoolVar(&fromLayout, "layout", false, "list the types embedded in the layout instead of the library")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func writeTypeTable(w io.Writer, types []model.DeviceType) {
	tw := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "SLUG\tHEIGHT\tDEPTH\tWIDTH\tCATEGORY\tNAME")
	for _, dt := range types {
		depth := "full"
		if !dt.FullDepth() {
			depth = "half"
		}
		width := "full"
		if dt.Width() == model.SlotWidthHalf {
			width = "half"
		}
		name := dt.DisplayName()
		if dt.IsContainer() {
			name += fmt.Sprintf(" [%d bays]", len(dt.Slots))
		}
		fmt.Fprintf(tw, "%s\t%gU\t%s\t%s\t%s\t%s\n", dt.Slug, dt.UHeight, depth, width, dt.Category, name)
	}
	tw.Flush()
}

func newCatalogImportCmd(opts *globalOptions) *cobra.Command {
	var intoLayout, replace bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import device types from CSV, Excel or a library JSON file",
		Long: `Import device types into the library (or the current layout with --layout).

CSV and Excel files are matched by header: slug, manufacturer, model,
height, depth, width, category and colour. Files without a header are read
in that column order. Use "-" to read CSV from stdin.

Types whose slug already exists are skipped. With --replace they overwrite
the library's definition instead; --replace does not apply to --layout
because placed devices depend on the embedded definitions.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			w := cmd.OutOrStdout()

			if intoLayout && replace {
				return fmt.Errorf("--replace cannot be combined with --layout")
			}
			types, err := readDeviceTypes(cmd.InOrStdin(), args[0], func(msg string) { logger.Warn(msg) })
			if err != nil {
				return err
			}

			if intoLayout {
				s, err := opts.openSession(ctx)
				if err != nil {
					return err
				}
				added, skipped := s.editor.Catalog().Merge(types)
				s.editor.Layout().DeviceTypes = s.editor.Catalog().List()
				if err := s.save(); err != nil {
					return err
				}
				reportMerge(w, added, skipped, s.path)
				return nil
			}

			cfg := configFromContext(ctx)
			lib, libPath, err := project.LoadOrCreateLibrary(cfg)
			if err != nil {
				return err
			}
			var replaced []string
			if replace {
				types, replaced = replaceExisting(lib, types)
			}
			added, skipped := lib.Merge(types)
			if err := project.SaveLibrary(libPath, lib.List()); err != nil {
				return err
			}
			reportMerge(w, added, skipped, libPath)
			for _, slug := range replaced {
				printDetail(w, "replaced %s", slug)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&intoLayout, "layout", false, "import into the layout instead of the library")
	cmd.Flags().BoolVar(&replace, "replace", false, "overwrite library types that share a slug with an imported type")
	return cmd
}

// replaceExisting updates every type lib already holds and returns the
// remaining types for Merge along with the replaced slugs. A type that fails
// validation is passed through so Merge reports it.
func replaceExisting(lib *catalog.Library, types []model.DeviceType) (rest []model.DeviceType, replaced []string) {
	for _, dt := range types {
		if lib.Has(dt.Slug) && lib.Update(dt) == nil {
			replaced = append(replaced, dt.Slug)
			continue
		}
		rest = append(rest, dt)
	}
	return rest, replaced
}

// readDeviceTypes loads types from a library JSON file, a CSV/Excel sheet,
// or CSV on stdin when path is "-". Row-level problems are passed to warn;
// the import fails only when nothing usable was read.
func readDeviceTypes(stdin io.Reader, path string, warn func(string)) ([]model.DeviceType, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return project.LoadLibrary(path)
	}

	var result importer.ImportResult
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		result = importer.ImportCSVFromReader(bytes.NewReader(data), importer.DetectCSVDelimiter(data))
	} else {
		result = importer.ImportFile(path)
	}
	for _, msg := range result.Warnings {
		warn(msg)
	}
	for _, msg := range result.Errors {
		warn(msg)
	}
	if len(result.DeviceTypes) == 0 {
		if len(result.Errors) > 0 {
			return nil, fmt.Errorf("import %s: %s", path, result.Errors[0])
		}
		return nil, fmt.Errorf("import %s: no device types found", path)
	}
	return result.DeviceTypes, nil
}

func reportMerge(w io.Writer, added int, skipped []string, dest string) {
	printSuccess(w, "Imported %d device types into %s", added, dest)
	for _, s := range skipped {
		printDetail(w, "skipped %s", s)
	}
}
