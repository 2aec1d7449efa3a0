package engine

import (
	"fmt"
	"strings"

	"github.com/piwi3910/RackPlan/internal/catalog"
	"github.com/piwi3910/RackPlan/internal/model"
)

// Candidate is a prospective footprint on the U-grid.
type Candidate struct {
	Position float64
	UHeight  float64
	Face     model.Face // Effective face; see EffectiveFace
}

// Blocker describes an existing placement that overlaps a candidate.
type Blocker struct {
	Index     int                `json:"index"`
	Device    model.PlacedDevice `json:"device"`
	Face      model.Face         `json:"face"` // Effective face of the blocker
	Start     float64            `json:"start"`
	End       float64            `json:"end"` // Exclusive
	TypeKnown bool               `json:"type_known"`
}

// FacesIntersect reports whether two effective faces share a mounting plane.
// Both intersects everything; front and rear only meet themselves and both.
func FacesIntersect(a, b model.Face) bool {
	if a == model.FaceBoth || b == model.FaceBoth {
		return true
	}
	return a == b
}

// EffectiveFace returns the faces a device actually occupies. Full-depth
// devices always occupy both faces regardless of their assigned face.
func EffectiveFace(dt model.DeviceType, assigned model.Face) model.Face {
	if dt.FullDepth() {
		return model.FaceBoth
	}
	return assigned
}

// Overlaps reports whether the half-open spans [s1,e1) and [s2,e2) share
// any height. For whole-U placements this is the same as comparing the
// closed ranges [p, p+h-1]; the half-open form keeps half-U spans exact.
func Overlaps(s1, e1, s2, e2 float64) bool {
	return max(s1, s2) < min(e1, e2)
}

// footprint resolves the span and effective face of an existing placement.
// Placements whose type cannot be resolved are treated as 1U full-depth so
// a missing catalog entry never hides a collision.
func footprint(cat catalog.Catalog, d model.PlacedDevice) (start, end float64, face model.Face, known bool) {
	dt, err := cat.Resolve(d.DeviceType)
	if err != nil {
		start, end = model.Interval(d.Position, 1)
		return start, end, model.FaceBoth, false
	}
	start, end = model.Interval(d.Position, dt.UHeight)
	return start, end, EffectiveFace(dt, d.Face), true
}

// FindCollisions returns every placement in rack that overlaps c on an
// intersecting face. The placement with id exclude is skipped, which is how
// move checks ignore the device being moved. The result is in rack order.
func FindCollisions(rack model.Rack, cat catalog.Catalog, c Candidate, exclude string) []Blocker {
	cs, ce := model.Interval(c.Position, c.UHeight)

	var blockers []Blocker
	for i, d := range rack.Devices {
		if exclude != "" && d.ID == exclude {
			continue
		}
		start, end, face, known := footprint(cat, d)
		if !FacesIntersect(c.Face, face) {
			continue
		}
		if Overlaps(cs, ce, start, end) {
			blockers = append(blockers, Blocker{
				Index:     i,
				Device:    d,
				Face:      face,
				Start:     start,
				End:       end,
				TypeKnown: known,
			})
		}
	}
	return blockers
}

// HasCollision is the boolean form of FindCollisions.
func HasCollision(rack model.Rack, cat catalog.Catalog, c Candidate, exclude string) bool {
	return len(FindCollisions(rack, cat, c, exclude)) > 0
}

// InBounds reports whether the candidate span fits inside the rack.
func InBounds(rack model.Rack, position, uHeight float64) bool {
	start, end := model.Interval(position, uHeight)
	return start >= rack.BaseUnit() && end <= rack.Limit()
}

// FormatCollision produces a human-readable summary of a blocking set.
func FormatCollision(blockers []Blocker) string {
	if len(blockers) == 0 {
		return "no collision"
	}
	parts := make([]string, 0, len(blockers))
	for _, b := range blockers {
		name := b.Device.Name
		if name == "" {
			name = b.Device.DeviceType
		}
		parts = append(parts, fmt.Sprintf("%s at %s (%s)", name, FormatURange(b.Start, b.End-b.Start), b.Face))
	}
	return "blocked by " + strings.Join(parts, ", ")
}
