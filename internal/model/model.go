package model

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Face represents the mounting plane a device occupies.
type Face string

const (
	FaceFront Face = "front"
	FaceRear  Face = "rear"
	FaceBoth  Face = "both"
)

// Valid reports whether f is one of the known faces.
func (f Face) Valid() bool {
	switch f {
	case FaceFront, FaceRear, FaceBoth:
		return true
	default:
		return false
	}
}

func (f Face) String() string {
	return string(f)
}

// ParseFace converts user input into a Face. Matching is exact on the
// lowercase names; "f", "r" and "b" are accepted as shorthands.
func ParseFace(s string) (Face, error) {
	switch s {
	case "front", "f":
		return FaceFront, nil
	case "rear", "r", "back":
		return FaceRear, nil
	case "both", "b":
		return FaceBoth, nil
	default:
		return "", fmt.Errorf("unknown face %q (want front, rear or both)", s)
	}
}

// SubdeviceRole marks a device type as a bay container or a bay occupant.
type SubdeviceRole string

const (
	RoleNone   SubdeviceRole = ""
	RoleParent SubdeviceRole = "parent"
	RoleChild  SubdeviceRole = "child"
)

// Slot widths, expressed the way rack vendors do: half or full rack width.
const (
	SlotWidthHalf = 1
	SlotWidthFull = 2
)

// SlotPosition locates a bay inside its container's grid.
type SlotPosition struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Slot defines a bay inside a parent container device.
type Slot struct {
	ID            string       `json:"id"`
	Position      SlotPosition `json:"position"`
	WidthFraction float64      `json:"width_fraction"`    // 0-1 of the container width; 0 means full
	HeightUnits   float64      `json:"height_units"`      // 0 means the container's own height
	Accepts       []Category   `json:"accepts,omitempty"` // Allow-list; empty accepts any category
}

// AcceptsCategory reports whether the slot's allow-list admits c.
func (s Slot) AcceptsCategory(c Category) bool {
	if len(s.Accepts) == 0 {
		return true
	}
	for _, a := range s.Accepts {
		if a == c {
			return true
		}
	}
	return false
}

// DeviceType is a catalog entry. Placements reference it by slug.
type DeviceType struct {
	Slug          string        `json:"slug"`
	Manufacturer  string        `json:"manufacturer,omitempty"`
	Model         string        `json:"model,omitempty"`
	UHeight       float64       `json:"u_height"`
	IsFullDepth   *bool         `json:"is_full_depth,omitempty"` // nil means full depth
	SlotWidth     int           `json:"slot_width,omitempty"`    // 1 = half, 2 = full; 0 means full
	Category      Category      `json:"category"`
	Colour        string        `json:"colour,omitempty"`
	Slots         []Slot        `json:"slots,omitempty"`
	SubdeviceRole SubdeviceRole `json:"subdevice_role,omitempty"`
}

// FullDepth reports whether the device spans both faces of the rack.
func (dt DeviceType) FullDepth() bool {
	return dt.IsFullDepth == nil || *dt.IsFullDepth
}

// Width returns the slot width, defaulting to full width.
func (dt DeviceType) Width() int {
	if dt.SlotWidth == 0 {
		return SlotWidthFull
	}
	return dt.SlotWidth
}

// IsContainer reports whether the type exposes bays for child devices.
func (dt DeviceType) IsContainer() bool {
	return dt.SubdeviceRole == RoleParent && len(dt.Slots) > 0
}

// FindSlot returns the slot with the given id, or nil.
func (dt *DeviceType) FindSlot(id string) *Slot {
	for i := range dt.Slots {
		if dt.Slots[i].ID == id {
			return &dt.Slots[i]
		}
	}
	return nil
}

// DisplayName returns "Manufacturer Model", falling back to the slug.
func (dt DeviceType) DisplayName() string {
	switch {
	case dt.Manufacturer != "" && dt.Model != "":
		return dt.Manufacturer + " " + dt.Model
	case dt.Model != "":
		return dt.Model
	default:
		return dt.Slug
	}
}

// Validate checks the structural rules a catalog entry must satisfy.
func (dt DeviceType) Validate() error {
	if dt.Slug == "" {
		return fmt.Errorf("device type: slug is required")
	}
	if dt.UHeight <= 0 || !IsHalfUnit(dt.UHeight) {
		return fmt.Errorf("device type %s: u_height %g must be a positive multiple of 0.5", dt.Slug, dt.UHeight)
	}
	if w := dt.Width(); w != SlotWidthHalf && w != SlotWidthFull {
		return fmt.Errorf("device type %s: slot_width %d must be 1 or 2", dt.Slug, dt.SlotWidth)
	}
	if dt.Category != "" && !dt.Category.Valid() {
		return fmt.Errorf("device type %s: unknown category %q", dt.Slug, dt.Category)
	}
	seen := make(map[string]bool, len(dt.Slots))
	for _, s := range dt.Slots {
		if s.ID == "" {
			return fmt.Errorf("device type %s: slot without id", dt.Slug)
		}
		if seen[s.ID] {
			return fmt.Errorf("device type %s: duplicate slot id %q", dt.Slug, s.ID)
		}
		seen[s.ID] = true
		if s.WidthFraction < 0 || s.WidthFraction > 1 {
			return fmt.Errorf("device type %s: slot %s width_fraction %g out of range", dt.Slug, s.ID, s.WidthFraction)
		}
		if s.HeightUnits < 0 || !IsHalfUnit(s.HeightUnits) {
			return fmt.Errorf("device type %s: slot %s height_units %g must be a multiple of 0.5", dt.Slug, s.ID, s.HeightUnits)
		}
	}
	return nil
}

// Bool returns a pointer to b, for optional fields like IsFullDepth.
func Bool(b bool) *bool {
	return &b
}

// CloneDeviceTypes creates a deep copy of a device type slice, including
// slot definitions and depth flags.
func CloneDeviceTypes(types []DeviceType) []DeviceType {
	if types == nil {
		return []DeviceType{}
	}
	cp := make([]DeviceType, len(types))
	for i, dt := range types {
		cp[i] = dt
		if dt.IsFullDepth != nil {
			cp[i].IsFullDepth = Bool(*dt.IsFullDepth)
		}
		if dt.Slots != nil {
			cp[i].Slots = make([]Slot, len(dt.Slots))
			for j, s := range dt.Slots {
				cp[i].Slots[j] = s
				if s.Accepts != nil {
					cp[i].Slots[j].Accepts = append([]Category(nil), s.Accepts...)
				}
			}
		}
	}
	return cp
}

// ChildDevice occupies one bay of a container placement.
type ChildDevice struct {
	ID         string `json:"id"`
	DeviceType string `json:"device_type"`
	SlotID     string `json:"slot_id"`
	Name       string `json:"name,omitempty"`
}

func NewChildDevice(slug, slotID string) ChildDevice {
	return ChildDevice{
		ID:         newID(),
		DeviceType: slug,
		SlotID:     slotID,
	}
}

// PlacedDevice is a device mounted in the rack.
type PlacedDevice struct {
	ID             string        `json:"id"`
	DeviceType     string        `json:"device_type"`
	Position       float64       `json:"position"` // Bottom U, 0.5 granularity
	Face           Face          `json:"face"`
	Name           string        `json:"name,omitempty"`
	ColourOverride string        `json:"colour_override,omitempty"`
	FrontImage     string        `json:"front_image,omitempty"`
	RearImage      string        `json:"rear_image,omitempty"`
	Children       []ChildDevice `json:"children,omitempty"`
}

func NewPlacedDevice(slug string, position float64, face Face) PlacedDevice {
	return PlacedDevice{
		ID:         newID(),
		DeviceType: slug,
		Position:   position,
		Face:       face,
	}
}

// ImageKey is the image-store key for the placement's override on face.
func (d PlacedDevice) ImageKey(face Face) string {
	return PlacementImageKey(d.ID, face)
}

// FindChild returns the index of the child with the given id, or -1.
func (d PlacedDevice) FindChild(id string) int {
	for i, c := range d.Children {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// ChildInSlot returns the child occupying slotID, or nil.
func (d *PlacedDevice) ChildInSlot(slotID string) *ChildDevice {
	for i := range d.Children {
		if d.Children[i].SlotID == slotID {
			return &d.Children[i]
		}
	}
	return nil
}

// PlacementImageKey builds the image-store key for one face of a placement.
// Front and rear overrides live under separate keys.
func PlacementImageKey(id string, face Face) string {
	return "placement-" + id + "/" + string(face)
}

// PlacementImageKeys lists every image-store key a placement may own.
func PlacementImageKeys(id string) []string {
	return []string{PlacementImageKey(id, FaceFront), PlacementImageKey(id, FaceRear)}
}

// Rack widths in inches.
const (
	RackWidth10 = 10
	RackWidth19 = 19
	RackWidth21 = 21
	RackWidth23 = 23
)

// Rack is a single elevation with its mounted devices.
type Rack struct {
	Name         string         `json:"name"`
	Height       int            `json:"height"`        // U count
	StartingUnit int            `json:"starting_unit"` // Number of the bottom U; numbering only
	Width        int            `json:"width"`         // Inches, cosmetic
	Devices      []PlacedDevice `json:"devices"`
}

func NewRack(name string, height int) Rack {
	return Rack{
		Name:         name,
		Height:       height,
		StartingUnit: 1,
		Width:        RackWidth19,
		Devices:      []PlacedDevice{},
	}
}

// BaseUnit returns the number of the bottom-most U.
func (r Rack) BaseUnit() float64 {
	if r.StartingUnit <= 0 {
		return 1
	}
	return float64(r.StartingUnit)
}

// Limit returns the exclusive upper edge of the rack in U coordinates:
// a device fits iff position >= BaseUnit() and position+height <= Limit().
func (r Rack) Limit() float64 {
	return r.BaseUnit() + float64(r.Height)
}

// FindDevice returns the index of the placement with the given id, or -1.
func (r Rack) FindDevice(id string) int {
	for i, d := range r.Devices {
		if d.ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the rack.
func (r Rack) Clone() Rack {
	cp := r
	if r.Devices != nil {
		cp.Devices = make([]PlacedDevice, len(r.Devices))
		for i, d := range r.Devices {
			cp.Devices[i] = d
			if d.Children != nil {
				cp.Devices[i].Children = make([]ChildDevice, len(d.Children))
				copy(cp.Devices[i].Children, d.Children)
			}
		}
	}
	return cp
}

// Layout ties a rack and its device library together for save/load.
type Layout struct {
	Version     string            `json:"version"`
	Name        string            `json:"name"`
	Rack        Rack              `json:"rack"`
	DeviceTypes []DeviceType      `json:"device_types"`
	Images      map[string]string `json:"images,omitempty"` // Image-store key -> file reference
}

// LayoutVersion is written into every saved layout.
const LayoutVersion = "1.0.0"

func NewLayout(name string, height int) Layout {
	return Layout{
		Version:     LayoutVersion,
		Name:        name,
		Rack:        NewRack(name, height),
		DeviceTypes: []DeviceType{},
		Images:      map[string]string{},
	}
}

// Release drops the image reference stored under key. It satisfies the
// engine's image-store collaborator.
func (l *Layout) Release(key string) {
	delete(l.Images, key)
}

// IsHalfUnit reports whether x is a whole multiple of 0.5.
func IsHalfUnit(x float64) bool {
	d := x * 2
	return !math.IsInf(d, 0) && !math.IsNaN(d) && d == math.Trunc(d)
}

// Interval returns the half-open U span [start, end) a device occupies.
func Interval(position, uHeight float64) (start, end float64) {
	return position, position + uHeight
}

func newID() string {
	return uuid.New().String()[:8]
}
