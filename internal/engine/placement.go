package engine

import (
	"errors"
	"fmt"

	"github.com/piwi3910/RackPlan/internal/catalog"
	"github.com/piwi3910/RackPlan/internal/model"
)

// ImageStore receives release notifications for image overrides. Keys are
// "placement-{id}/{face}" for per-placement images and the slug for type
// images.
type ImageStore interface {
	Release(key string)
}

// NoImages is an ImageStore that ignores every release.
type NoImages struct{}

func (NoImages) Release(string) {}

// PlaceRequest describes a new placement with optional overrides.
type PlaceRequest struct {
	Slug     string
	Position float64
	Face     model.Face
	Name     string
	Colour   string
}

// Place mounts a device of type slug at position on face.
func Place(rack *model.Rack, cat catalog.Catalog, slug string, position float64, face model.Face) Result {
	return PlaceDevice(rack, cat, PlaceRequest{Slug: slug, Position: position, Face: face})
}

// PlaceDevice mounts a new device, appending it to rack.Devices on success.
// The result data is the new model.PlacedDevice, or the blocking set on
// collision.
func PlaceDevice(rack *model.Rack, cat catalog.Catalog, req PlaceRequest) Result {
	dt, err := cat.Resolve(req.Slug)
	if err != nil {
		return fail(ReasonNotFound, nil, "device type %q not found", req.Slug)
	}
	if res, bad := checkTarget(*rack, cat, dt, req.Position, req.Face, ""); bad {
		return res
	}

	d := model.NewPlacedDevice(dt.Slug, req.Position, req.Face)
	d.Name = req.Name
	d.ColourOverride = req.Colour
	rack.Devices = append(rack.Devices, d)
	return ok(ReasonOK, d)
}

// Reposition moves the placement with the given id to an absolute position
// and face. The moving device is excluded from its own collision check.
func Reposition(rack *model.Rack, cat catalog.Catalog, id string, position float64, face model.Face) Result {
	idx := rack.FindDevice(id)
	if idx < 0 {
		return fail(ReasonNotFound, nil, "placement %q not found", id)
	}
	d := rack.Devices[idx]
	dt, err := cat.Resolve(d.DeviceType)
	if err != nil {
		return fail(ReasonNotFound, nil, "device type %q not found", d.DeviceType)
	}
	if face == "" {
		face = d.Face
	}
	if res, bad := checkTarget(*rack, cat, dt, position, face, d.ID); bad {
		return res
	}

	rack.Devices[idx].Position = position
	rack.Devices[idx].Face = face
	return ok(ReasonMoved, rack.Devices[idx])
}

// checkTarget runs input, bounds and collision validation for a footprint
// of dt at position/face. It returns bad=true with the failure result.
func checkTarget(rack model.Rack, cat catalog.Catalog, dt model.DeviceType, position float64, face model.Face, exclude string) (Result, bool) {
	if !validHeight(dt) {
		return fail(ReasonInvalidInput, nil, "device type %s has invalid height %gU", dt.Slug, dt.UHeight), true
	}
	if !face.Valid() {
		return fail(ReasonInvalidInput, nil, "invalid face %q", face), true
	}
	if !model.IsHalfUnit(position) {
		return fail(ReasonInvalidInput, nil, "position %g is not a multiple of 0.5U", position), true
	}
	if !InBounds(rack, position, dt.UHeight) {
		return fail(ReasonOutOfBounds, nil, "%s at %s does not fit in a %dU rack",
			dt.Slug, FormatURange(position, dt.UHeight), rack.Height), true
	}
	c := Candidate{Position: position, UHeight: dt.UHeight, Face: EffectiveFace(dt, face)}
	if blockers := FindCollisions(rack, cat, c, exclude); len(blockers) > 0 {
		return fail(ReasonCollision, blockers, "%s", FormatCollision(blockers)), true
	}
	return Result{}, false
}

// RemoveByID removes the placement with the given id and releases its
// image overrides, and those of any bay occupants.
func RemoveByID(rack *model.Rack, id string, images ImageStore) Result {
	idx := rack.FindDevice(id)
	if idx < 0 {
		return fail(ReasonNotFound, nil, "placement %q not found", id)
	}
	return RemoveAt(rack, idx, images)
}

// RemoveAt removes the placement at index.
func RemoveAt(rack *model.Rack, index int, images ImageStore) Result {
	if index < 0 || index >= len(rack.Devices) {
		return fail(ReasonNotFound, nil, "no placement at index %d", index)
	}
	d := rack.Devices[index]
	rack.Devices = append(rack.Devices[:index:index], rack.Devices[index+1:]...)
	releasePlacement(d, images)
	return ok(ReasonOK, d)
}

func releasePlacement(d model.PlacedDevice, images ImageStore) {
	if images == nil {
		return
	}
	releaseID(d.ID, images)
	for _, c := range d.Children {
		releaseID(c.ID, images)
	}
}

func releaseID(id string, images ImageStore) {
	for _, key := range model.PlacementImageKeys(id) {
		images.Release(key)
	}
}

// RemoveDeviceType deletes slug from the library and cascades the deletion:
// every placement of that type and every bay occupant of that type is
// removed, their placement images are released, and finally the type's own
// image key is released. The result data is the number of placements and
// bay occupants removed.
func RemoveDeviceType(rack *model.Rack, lib *catalog.Library, slug string, images ImageStore) Result {
	if !lib.Has(slug) {
		return fail(ReasonNotFound, nil, "device type %q not found", slug)
	}
	if images == nil {
		images = NoImages{}
	}

	removed := 0
	kept := make([]model.PlacedDevice, 0, len(rack.Devices))
	for _, d := range rack.Devices {
		if d.DeviceType == slug {
			releasePlacement(d, images)
			removed++
			continue
		}
		if len(d.Children) > 0 {
			children := make([]model.ChildDevice, 0, len(d.Children))
			for _, c := range d.Children {
				if c.DeviceType == slug {
					releaseID(c.ID, images)
					removed++
					continue
				}
				children = append(children, c)
			}
			d.Children = children
		}
		kept = append(kept, d)
	}

	if _, err := lib.Delete(slug); err != nil {
		return fail(ReasonNotFound, nil, "%v", err)
	}
	rack.Devices = kept
	images.Release(slug)
	return ok(ReasonOK, removed)
}

// validHeight reports whether dt has a positive half-U height. Types that
// did not pass through catalog validation can carry anything.
func validHeight(dt model.DeviceType) bool {
	return dt.UHeight > 0 && model.IsHalfUnit(dt.UHeight)
}

// Problem is a single invariant violation found by Validate or
// ValidateTypes. Type problems carry DeviceType and leave ID empty.
type Problem struct {
	Index      int    `json:"index"`
	ID         string `json:"id,omitempty"`
	DeviceType string `json:"device_type,omitempty"`
	Message    string `json:"message"`
}

func (p Problem) String() string {
	if p.ID == "" && p.DeviceType != "" {
		return fmt.Sprintf("device type %d (%s): %s", p.Index, p.DeviceType, p.Message)
	}
	return fmt.Sprintf("device %d (%s): %s", p.Index, p.ID, p.Message)
}

// ValidateTypes audits device type definitions that bypassed the catalog,
// such as those embedded in a layout file. Later definitions of a slug are
// reported because catalog.NewLibrary keeps only the first.
func ValidateTypes(types []model.DeviceType) []Problem {
	var problems []Problem
	first := make(map[string]int, len(types))
	for i, dt := range types {
		if err := dt.Validate(); err != nil {
			problems = append(problems, Problem{Index: i, DeviceType: dt.Slug, Message: err.Error()})
		}
		if dt.Slug == "" {
			continue
		}
		if prev, dup := first[dt.Slug]; dup {
			problems = append(problems, Problem{Index: i, DeviceType: dt.Slug,
				Message: fmt.Sprintf("duplicate slug, already defined by device type %d", prev)})
			continue
		}
		first[dt.Slug] = i
	}
	return problems
}

// Validate audits a whole rack against the placement invariants: known
// types, valid faces, half-U positions, bounds, pairwise collisions and bay
// occupancy. It is used on layouts that did not come from the engine, such
// as files loaded from disk.
func Validate(rack model.Rack, cat catalog.Catalog) []Problem {
	var problems []Problem
	add := func(i int, d model.PlacedDevice, format string, args ...any) {
		problems = append(problems, Problem{Index: i, ID: d.ID, Message: fmt.Sprintf(format, args...)})
	}

	ids := make(map[string]int, len(rack.Devices))
	for i, d := range rack.Devices {
		if prev, dup := ids[d.ID]; dup {
			add(i, d, "duplicate id, also used by device %d", prev)
		}
		ids[d.ID] = i

		dt, err := cat.Resolve(d.DeviceType)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				add(i, d, "unknown device type %q", d.DeviceType)
			} else {
				add(i, d, "resolving %q: %v", d.DeviceType, err)
			}
			continue
		}
		if !validHeight(dt) {
			add(i, d, "device type %s has invalid height %gU", dt.Slug, dt.UHeight)
			continue
		}
		if !d.Face.Valid() {
			add(i, d, "invalid face %q", d.Face)
		}
		if !model.IsHalfUnit(d.Position) {
			add(i, d, "position %g is not a multiple of 0.5U", d.Position)
		}
		if !InBounds(rack, d.Position, dt.UHeight) {
			add(i, d, "%s is outside the rack", FormatURange(d.Position, dt.UHeight))
		}

		c := Candidate{Position: d.Position, UHeight: dt.UHeight, Face: EffectiveFace(dt, d.Face)}
		for _, b := range FindCollisions(rack, cat, c, d.ID) {
			// Report each pair once, from the later device.
			if b.Index < i {
				add(i, d, "overlaps device %d (%s)", b.Index, b.Device.ID)
			}
		}

		if len(d.Children) > 0 {
			for _, msg := range validateBays(d, dt, cat) {
				add(i, d, "%s", msg)
			}
		}
	}
	return problems
}
