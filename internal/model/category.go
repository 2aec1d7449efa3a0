package model

// Category classifies device types for colouring and bay filtering.
type Category string

const (
	CategoryServer          Category = "server"
	CategorySwitch          Category = "switch"
	CategoryRouter          Category = "router"
	CategoryFirewall        Category = "firewall"
	CategoryStorage         Category = "storage"
	CategoryPatchPanel      Category = "patch-panel"
	CategoryPower           Category = "power"
	CategoryKVM             Category = "kvm"
	CategoryAVMedia         Category = "av-media"
	CategoryCooling         Category = "cooling"
	CategoryShelf           Category = "shelf"
	CategoryBlank           Category = "blank"
	CategoryCableManagement Category = "cable-management"
	CategoryOther           Category = "other"
)

// categoryColours mirrors the palette used by elevation renderers.
var categoryColours = map[Category]string{
	CategoryServer:          "#4A90D9",
	CategorySwitch:          "#7B68EE",
	CategoryRouter:          "#20B2AA",
	CategoryFirewall:        "#DC143C",
	CategoryStorage:         "#228B22",
	CategoryPatchPanel:      "#708090",
	CategoryPower:           "#FF8C00",
	CategoryKVM:             "#9370DB",
	CategoryAVMedia:         "#DB7093",
	CategoryCooling:         "#00CED1",
	CategoryShelf:           "#8B4513",
	CategoryBlank:           "#2F2F2F",
	CategoryCableManagement: "#696969",
	CategoryOther:           "#A9A9A9",
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := categoryColours[c]
	return ok
}

// Colour returns the default display colour for the category.
func (c Category) Colour() string {
	if col, ok := categoryColours[c]; ok {
		return col
	}
	return categoryColours[CategoryOther]
}

// ParseCategory matches s against the known categories. A few common
// spellings are accepted; anything else maps to CategoryOther with ok=false.
func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	if c.Valid() {
		return c, true
	}
	switch s {
	case "patch panel", "patchpanel", "patch_panel":
		return CategoryPatchPanel, true
	case "pdu", "ups":
		return CategoryPower, true
	case "cable management", "cable_management":
		return CategoryCableManagement, true
	case "av", "media":
		return CategoryAVMedia, true
	case "":
		return CategoryOther, true
	}
	return CategoryOther, false
}

// Categories returns all known categories in display order.
func Categories() []Category {
	return []Category{
		CategoryServer, CategorySwitch, CategoryRouter, CategoryFirewall,
		CategoryStorage, CategoryPatchPanel, CategoryPower, CategoryKVM,
		CategoryAVMedia, CategoryCooling, CategoryShelf, CategoryBlank,
		CategoryCableManagement, CategoryOther,
	}
}
