package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/RackPlan/internal/editor"
	"github.com/piwi3910/RackPlan/internal/engine"
	"github.com/piwi3910/RackPlan/internal/model"
	"github.com/piwi3910/RackPlan/internal/project"
)

func newNewCmd(opts *globalOptions) *cobra.Command {
	var (
		height       int
		startingUnit int
		width        int
		force        bool
		fromTemplate string
	)

	cmd := &cobra.Command{
		Use:   "new NAME",
		Short: "Create an empty layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg := configFromContext(ctx)
			name := args[0]

			path := opts.layoutPath
			if path == "" {
				path = name + project.LayoutExt
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			var layout model.Layout
			if fromTemplate != "" {
				// Placements in a template are fixed to its rack numbering.
				if height > 0 || startingUnit > 0 {
					return fmt.Errorf("--height and --starting-unit cannot be combined with --template")
				}
				tmpl, err := findTemplate(cfg, fromTemplate)
				if err != nil {
					return err
				}
				layout = tmpl.ToLayout(name)
				logger.Debug("created from template", "template", tmpl.Name, "devices", len(layout.Rack.Devices))
			} else {
				layout = cfg.NewLayout(name, height)
				lib, libPath, err := project.LoadOrCreateLibrary(cfg)
				if err != nil {
					return fmt.Errorf("load device library: %w", err)
				}
				layout.DeviceTypes = lib.List()
				logger.Debug("seeded device types", "library", libPath, "types", lib.Len())
			}
			if startingUnit > 0 {
				layout.Rack.StartingUnit = startingUnit
			}
			if width > 0 {
				layout.Rack.Width = width
			}

			if err := project.SaveLayout(path, layout); err != nil {
				return err
			}
			opts.remember(ctx, path)

			printSuccess(cmd.OutOrStdout(), "Created %s: %dU rack, %d device types", path, layout.Rack.Height, len(layout.DeviceTypes))
			return nil
		},
	}

	cmd.Flags().IntVar(&height, "height", 0, "rack height in U (default from config)")
	cmd.Flags().IntVar(&startingUnit, "starting-unit", 0, "number of the bottom U (default from config)")
	cmd.Flags().IntVar(&width, "width", 0, "rack width in inches: 10, 19, 21 or 23 (default from config)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.Flags().StringVarP(&fromTemplate, "template", "t", "", "start from a saved rack template (name or id)")
	return cmd
}

func newPlaceCmd(opts *globalOptions) *cobra.Command {
	var face, name, colour string

	cmd := &cobra.Command{
		Use:   "place SLUG POSITION",
		Short: "Place a device at a position",
		Long: `Place a device of type SLUG with its bottom edge at POSITION.

POSITION is an absolute U number in the rack's own numbering, so a rack
starting at U10 accepts positions from 10 upwards. Half units (10.5) are
allowed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			position, err := parsePosition(args[1])
			if err != nil {
				return err
			}
			f, err := faceOrDefault(cmd, face)
			if err != nil {
				return err
			}

			c := editor.Command{Op: editor.OpPlace, Slug: args[0], Position: position, Face: f, Name: name, Colour: colour}
			return opts.runEdit(cmd, c, func(s *session, res engine.Result) string {
				d := res.Data.(model.PlacedDevice)
				return fmt.Sprintf("Placed %s at %s (%s), id %s", d.DeviceType, placementRange(s, d), d.Face, d.ID)
			})
		},
	}

	cmd.Flags().StringVar(&face, "face", "", "mounting face: front, rear or both (default from config)")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&colour, "colour", "", "colour override, e.g. #ff8800")
	return cmd
}

func newRemoveCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a placed device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := editor.Command{Op: editor.OpRemove, ID: args[0]}
			return opts.runEdit(cmd, c, func(_ *session, res engine.Result) string {
				d := res.Data.(model.PlacedDevice)
				return fmt.Sprintf("Removed %s (%s)", d.ID, d.DeviceType)
			})
		},
	}
}

func newMoveCmd(opts *globalOptions) *cobra.Command {
	var face string

	cmd := &cobra.Command{
		Use:   "move ID POSITION",
		Short: "Move a placed device to a new position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			position, err := parsePosition(args[1])
			if err != nil {
				return err
			}
			var f model.Face
			if face != "" {
				if f, err = model.ParseFace(strings.ToLower(face)); err != nil {
					return err
				}
			}

			c := editor.Command{Op: editor.OpMove, ID: args[0], Position: position, Face: f}
			return opts.runEdit(cmd, c, func(s *session, res engine.Result) string {
				d := res.Data.(model.PlacedDevice)
				return fmt.Sprintf("Moved %s to %s (%s)", d.ID, placementRange(s, d), d.Face)
			})
		},
	}

	cmd.Flags().StringVar(&face, "face", "", "new mounting face (default: keep)")
	return cmd
}

func newNudgeCmd(opts *globalOptions) *cobra.Command {
	var step float64

	cmd := &cobra.Command{
		Use:   "nudge ID up|down",
		Short: "Move a device to the next free position up or down",
		Long:  "Move a device one step up or down, jumping over blocking devices to the nearest free position. The step defaults to the device's own height.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			direction, err := parseDirection(args[1])
			if err != nil {
				return err
			}

			c := editor.Command{Op: editor.OpNudge, ID: args[0], Direction: direction, Step: step}
			return opts.runEdit(cmd, c, func(s *session, res engine.Result) string {
				d := res.Data.(model.PlacedDevice)
				return fmt.Sprintf("Moved %s to %s", d.ID, placementRange(s, d))
			})
		},
	}

	cmd.Flags().Float64Var(&step, "step", 0, "step size in U (default: device height)")
	return cmd
}

func newResizeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resize HEIGHT",
		Short: "Change the rack height",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			height, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid height %q", args[0])
			}

			c := editor.Command{Op: editor.OpResize, Height: height}
			return opts.runEdit(cmd, c, func(s *session, _ engine.Result) string {
				return fmt.Sprintf("Rack is now %dU", s.editor.Layout().Rack.Height)
			})
		},
	}
}

func parsePosition(s string) (float64, error) {
	p, err := strconv.ParseFloat(strings.TrimPrefix(strings.ToUpper(s), "U"), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid position %q", s)
	}
	return p, nil
}

func parseDirection(s string) (int, error) {
	switch strings.ToLower(s) {
	case "up", "u", "+":
		return engine.Up, nil
	case "down", "d", "-":
		return engine.Down, nil
	}
	return 0, fmt.Errorf("invalid direction %q: want up or down", s)
}

// faceOrDefault parses the --face flag, falling back to the configured
// default face.
func faceOrDefault(cmd *cobra.Command, face string) (model.Face, error) {
	if face == "" {
		f := configFromContext(cmd.Context()).DefaultFace
		if f == "" {
			f = model.FaceFront
		}
		return f, nil
	}
	return model.ParseFace(strings.ToLower(face))
}
