package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Defaults applied to new layouts
	DefaultRackHeight   int    `json:"default_rack_height"`
	DefaultStartingUnit int    `json:"default_starting_unit"`
	DefaultRackWidth    int    `json:"default_rack_width"`
	DefaultFace         Face   `json:"default_face"`
	LibraryPath         string `json:"library_path"`  // Custom device types; empty = default location
	TemplatePath        string `json:"template_path"` // Rack templates; empty = default location

	// Application preferences
	LogLevel      string   `json:"log_level"` // "debug", "info", "warn", "error"
	RecentLayouts []string `json:"recent_layouts"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		DefaultRackHeight:   42,
		DefaultStartingUnit: 1,
		DefaultRackWidth:    RackWidth19,
		DefaultFace:         FaceFront,
		LogLevel:            "info",
		RecentLayouts:       []string{},
	}
}

// NewLayout creates an empty layout using the configured rack defaults.
// A non-positive height falls back to DefaultRackHeight.
func (c AppConfig) NewLayout(name string, height int) Layout {
	if height <= 0 {
		height = c.DefaultRackHeight
	}
	l := NewLayout(name, height)
	if c.DefaultStartingUnit > 0 {
		l.Rack.StartingUnit = c.DefaultStartingUnit
	}
	if c.DefaultRackWidth > 0 {
		l.Rack.Width = c.DefaultRackWidth
	}
	return l
}

// AddRecent records path as the most recently used layout, keeping at
// most maxRecentLayouts entries without duplicates.
func (c *AppConfig) AddRecent(path string) {
	recent := []string{path}
	for _, p := range c.RecentLayouts {
		if p != path && len(recent) < maxRecentLayouts {
			recent = append(recent, p)
		}
	}
	c.RecentLayouts = recent
}

const maxRecentLayouts = 10
