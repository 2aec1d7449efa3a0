package engine

import (
	"sort"

	"github.com/piwi3910/RackPlan/internal/catalog"
	"github.com/piwi3910/RackPlan/internal/model"
)

// RenderItem is the read-only view of a placement handed to renderers and
// exporters.
type RenderItem struct {
	Device model.PlacedDevice `json:"device"`
	Type   model.DeviceType   `json:"type"`
	Face   model.Face         `json:"face"` // Effective face
	Colour string             `json:"colour"`
	Range  string             `json:"range"`
}

// EffectiveColour picks the display colour: placement override, then the
// type's colour, then the category default.
func EffectiveColour(d model.PlacedDevice, dt model.DeviceType) string {
	switch {
	case d.ColourOverride != "":
		return d.ColourOverride
	case dt.Colour != "":
		return dt.Colour
	default:
		return dt.Category.Colour()
	}
}

// Project builds render items for every placement whose type resolves,
// ordered bottom-up and then by id so output is stable.
func Project(rack model.Rack, cat catalog.Catalog) []RenderItem {
	items := make([]RenderItem, 0, len(rack.Devices))
	for _, d := range rack.Devices {
		dt, err := cat.Resolve(d.DeviceType)
		if err != nil {
			continue
		}
		items = append(items, RenderItem{
			Device: d,
			Type:   dt,
			Face:   EffectiveFace(dt, d.Face),
			Colour: EffectiveColour(d, dt),
			Range:  FormatURange(d.Position, dt.UHeight),
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Device.Position != items[j].Device.Position {
			return items[i].Device.Position < items[j].Device.Position
		}
		return items[i].Device.ID < items[j].Device.ID
	})
	return items
}

// Occupancy summarises how much of each face is filled, in U.
type Occupancy struct {
	Front float64 `json:"front"`
	Rear  float64 `json:"rear"`
	Total int     `json:"total"`
}

// FaceOccupancy sums the U used on each face. Full-depth devices count
// toward both faces.
func FaceOccupancy(rack model.Rack, cat catalog.Catalog) Occupancy {
	occ := Occupancy{Total: rack.Height}
	for _, d := range rack.Devices {
		dt, err := cat.Resolve(d.DeviceType)
		if err != nil {
			continue
		}
		switch EffectiveFace(dt, d.Face) {
		case model.FaceFront:
			occ.Front += dt.UHeight
		case model.FaceRear:
			occ.Rear += dt.UHeight
		default:
			occ.Front += dt.UHeight
			occ.Rear += dt.UHeight
		}
	}
	return occ
}
