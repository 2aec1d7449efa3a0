package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/piwi3910/RackPlan/internal/editor"
	"github.com/piwi3910/RackPlan/internal/engine"
	"github.com/piwi3910/RackPlan/internal/model"
	"github.com/piwi3910/RackPlan/internal/project"
)

var errNoLayout = errors.New("no layout file: pass --file or create one with 'rackplan new'")

// layoutFile resolves the layout to work on: --file, then the most recently
// used layout from the config.
func (o *globalOptions) layoutFile(cfg model.AppConfig) (string, error) {
	if o.layoutPath != "" {
		return o.layoutPath, nil
	}
	if len(cfg.RecentLayouts) > 0 {
		return cfg.RecentLayouts[0], nil
	}
	return "", errNoLayout
}

// remember records path as the most recent layout. Failing to write the
// config is logged, not fatal.
func (o *globalOptions) remember(ctx context.Context, path string) {
	cfg := configFromContext(ctx)
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if len(cfg.RecentLayouts) > 0 && cfg.RecentLayouts[0] == path {
		return
	}
	cfg.AddRecent(path)
	if err := project.SaveAppConfig(o.configPath, cfg); err != nil {
		loggerFromContext(ctx).Warn("could not update recent layouts", "err", err)
	}
}

// session is an open layout file with an editor over it.
type session struct {
	path   string
	editor *editor.Editor
}

// openSession loads the layout and wraps it in an editor. Rule violations
// found on load are logged as warnings; the layout is still opened so it
// can be repaired.
func (o *globalOptions) openSession(ctx context.Context) (*session, error) {
	logger := loggerFromContext(ctx)
	path, err := o.layoutFile(configFromContext(ctx))
	if err != nil {
		return nil, err
	}

	layout, problems, err := project.LoadLayout(path)
	if err != nil {
		return nil, err
	}
	for _, p := range problems {
		if p.ID == "" && p.DeviceType != "" {
			logger.Warn("layout problem", "type", p.Index, "slug", p.DeviceType, "problem", p.Message)
			continue
		}
		logger.Warn("layout problem", "device", p.Index, "id", p.ID, "problem", p.Message)
	}
	logger.Debug("opened layout", "path", path, "devices", len(layout.Rack.Devices), "types", len(layout.DeviceTypes))

	ed := editor.New(&layout)
	ed.SetLogger(logger)
	return &session{path: path, editor: ed}, nil
}

func (s *session) save() error {
	return project.SaveLayout(s.path, *s.editor.Layout())
}

// runEdit opens the layout, applies one command and saves on success.
// describe renders the successful result for the user.
func (o *globalOptions) runEdit(cmd *cobra.Command, c editor.Command, describe func(*session, engine.Result) string) error {
	ctx := cmd.Context()
	s, err := o.openSession(ctx)
	if err != nil {
		return err
	}

	res := s.editor.Apply(c)
	if !res.Success {
		return res.Err()
	}
	if err := s.save(); err != nil {
		return err
	}
	o.remember(ctx, s.path)

	printSuccess(cmd.OutOrStdout(), "%s", describe(s, res))
	return nil
}

// placementRange formats where a placement sits, falling back to the bare
// position when its type is unknown.
func placementRange(s *session, d model.PlacedDevice) string {
	dt, err := s.editor.Catalog().Resolve(d.DeviceType)
	if err != nil {
		return fmt.Sprintf("U%g", d.Position)
	}
	return engine.FormatURange(d.Position, dt.UHeight)
}
