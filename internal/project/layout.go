package project

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/piwi3910/RackPlan/internal/catalog"
	"github.com/piwi3910/RackPlan/internal/engine"
	"github.com/piwi3910/RackPlan/internal/model"
)

// LayoutExt is the conventional file extension for saved layouts.
const LayoutExt = ".rackplan.json"

// SaveLayout writes a layout to path as indented JSON, stamping the current
// layout version.
func SaveLayout(path string, layout model.Layout) error {
	layout.Version = model.LayoutVersion
	if err := writeJSON(path, layout); err != nil {
		return fmt.Errorf("failed to save layout: %w", err)
	}
	return nil
}

// LoadLayout reads a layout from path and checks its embedded device types
// and its placements against the placement rules. A layout that parses but breaks the rules is still returned, along
// with the problems found, so callers can decide whether to repair it.
func LoadLayout(path string) (model.Layout, []engine.Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Layout{}, nil, fmt.Errorf("failed to read layout: %w", err)
	}
	var layout model.Layout
	if err := json.Unmarshal(data, &layout); err != nil {
		return model.Layout{}, nil, fmt.Errorf("failed to parse layout: %w", err)
	}
	if layout.Version == "" {
		return model.Layout{}, nil, fmt.Errorf("invalid layout file: missing version field")
	}
	if layout.Rack.Height < 1 {
		return model.Layout{}, nil, fmt.Errorf("invalid layout file: rack height %d", layout.Rack.Height)
	}
	if layout.Rack.Devices == nil {
		layout.Rack.Devices = []model.PlacedDevice{}
	}
	if layout.DeviceTypes == nil {
		layout.DeviceTypes = []model.DeviceType{}
	}
	if layout.Images == nil {
		layout.Images = map[string]string{}
	}

	problems := engine.ValidateTypes(layout.DeviceTypes)
	problems = append(problems, engine.Validate(layout.Rack, catalog.NewLibrary(layout.DeviceTypes))...)
	return layout, problems, nil
}
