package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/RackPlan/internal/engine"
	"github.com/piwi3910/RackPlan/internal/model"
	"github.com/piwi3910/RackPlan/internal/project"
)

func newCheckResizeCmd(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "check-resize HEIGHT",
		Short: "Report which devices would block resizing the rack",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			height, err := strconv.Atoi(args[0])
			if err != nil || height < 1 {
				return fmt.Errorf("invalid height %q", args[0])
			}
			s, err := opts.openSession(cmd.Context())
			if err != nil {
				return err
			}

			layout := s.editor.Layout()
			check := engine.CanResizeRackTo(layout.Rack, height, s.editor.Catalog())
			w := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(w, check)
			}
			if check.Allowed {
				printSuccess(w, "Rack can be resized from %dU to %dU", layout.Rack.Height, height)
				return nil
			}
			printWarning(w, "%s", engine.FormatResizeConflicts(height, check.Conflicts))
			for _, c := range check.Conflicts {
				printDetail(w, "%s  %s  %s", c.Range, c.Device.ID, c.Name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func newListCmd(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List placed devices bottom-up",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.openSession(cmd.Context())
			if err != nil {
				return err
			}

			layout := s.editor.Layout()
			items := engine.Project(layout.Rack, s.editor.Catalog())
			occ := engine.FaceOccupancy(layout.Rack, s.editor.Catalog())
			w := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(w, struct {
					Rack      string              `json:"rack"`
					Height    int                 `json:"height"`
					Devices   []engine.RenderItem `json:"devices"`
					Occupancy engine.Occupancy    `json:"occupancy"`
				}{layout.Rack.Name, layout.Rack.Height, items, occ})
			}

			printTitle(w, "%s (%dU, starting at U%d)", layout.Rack.Name, layout.Rack.Height, layout.Rack.StartingUnit)
			if len(items) == 0 {
				printInfo(w, "No devices placed")
			} else {
				writeDeviceTable(w, items)
			}
			fmt.Fprintln(w)
			printDetail(w, "front %g/%dU  rear %g/%dU", occ.Front, occ.Total, occ.Rear, occ.Total)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the projection as JSON")
	return cmd
}

// writeDeviceTable renders the projection as an aligned table. Bay
// occupants are listed under their container.
func writeDeviceTable(w io.Writer, items []engine.RenderItem) {
	tw := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "RANGE\tFACE\tID\tTYPE\tNAME\tCOLOUR")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s %s\n",
			it.Range, it.Face, it.Device.ID, it.Device.DeviceType, displayName(it.Device, it.Type), swatch(it.Colour), it.Colour)
		for _, c := range it.Device.Children {
			fmt.Fprintf(tw, "  └ %s\t\t%s\t%s\t%s\t\n", c.SlotID, c.ID, c.DeviceType, c.Name)
		}
	}
	tw.Flush()
}

func displayName(d model.PlacedDevice, dt model.DeviceType) string {
	if d.Name != "" {
		return d.Name
	}
	return dt.DisplayName()
}

func newValidateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check a layout against the placement rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := opts.layoutFile(configFromContext(cmd.Context()))
			if err != nil {
				return err
			}
			layout, problems, err := project.LoadLayout(path)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(problems) == 0 {
				printSuccess(w, "%s: %d devices, no problems", path, len(layout.Rack.Devices))
				return nil
			}
			for _, p := range problems {
				printError(w, "%s", p)
			}
			return fmt.Errorf("%s: %d problems found", path, len(problems))
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
