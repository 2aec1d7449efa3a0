package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/piwi3910/RackPlan/internal/catalog"
	"github.com/piwi3910/RackPlan/internal/model"
)

// ResizeConflict is a placement that would no longer fit after a shrink.
type ResizeConflict struct {
	Index  int                `json:"index"`
	Device model.PlacedDevice `json:"device"`
	Top    int                `json:"top"` // Highest rack-relative U the device touches
	Name   string             `json:"name"`
	Range  string             `json:"range"`
}

// ResizeCheck is the outcome of CanResizeRackTo.
type ResizeCheck struct {
	Allowed   bool             `json:"allowed"`
	Conflicts []ResizeConflict `json:"conflicts"`
}

// DeviceTop returns the highest rack-relative U (1 = bottom U) that a
// device at position with the given height touches. U number k covers the
// span [k, k+1), so a half-U device at 10.5 tops out at U10 while a 1U
// device at 10.5 reaches into U11.
func DeviceTop(rack model.Rack, position, uHeight float64) int {
	rel := position - rack.BaseUnit() + uHeight
	return int(math.Ceil(rel))
}

// CanResizeRackTo reports whether rack can be changed to newHeight without
// orphaning a placement. Growing is always allowed. When shrinking, every
// placement is checked and the complete conflict list is returned. Types
// missing from the catalog count as 1U.
func CanResizeRackTo(rack model.Rack, newHeight int, cat catalog.Catalog) ResizeCheck {
	if newHeight >= rack.Height {
		return ResizeCheck{Allowed: true}
	}

	var conflicts []ResizeConflict
	for i, d := range rack.Devices {
		uHeight := 1.0
		dt, err := cat.Resolve(d.DeviceType)
		known := err == nil
		if known {
			uHeight = dt.UHeight
		}
		top := DeviceTop(rack, d.Position, uHeight)
		if top > newHeight {
			conflicts = append(conflicts, ResizeConflict{
				Index:  i,
				Device: d,
				Top:    top,
				Name:   ConflictName(d, dt, known),
				Range:  FormatURange(d.Position, uHeight),
			})
		}
	}
	return ResizeCheck{Allowed: len(conflicts) == 0, Conflicts: conflicts}
}

// ResizeRack changes the rack height when CanResizeRackTo allows it.
// On refusal the result data is the []ResizeConflict list.
func ResizeRack(rack *model.Rack, newHeight int, cat catalog.Catalog) Result {
	if newHeight < 1 {
		return fail(ReasonInvalidInput, nil, "rack height must be at least 1U, got %d", newHeight)
	}
	check := CanResizeRackTo(*rack, newHeight, cat)
	if !check.Allowed {
		return fail(ReasonResizeConflict, check.Conflicts, "%s", FormatResizeConflicts(newHeight, check.Conflicts))
	}
	rack.Height = newHeight
	return ok(ReasonOK, newHeight)
}

// FormatURange renders a device span as "U15" for a single unit or
// "U10-11" for taller devices.
func FormatURange(position, uHeight float64) string {
	if uHeight <= 1 {
		return "U" + formatUnit(position)
	}
	return "U" + formatUnit(position) + "-" + formatUnit(position+uHeight-1)
}

func formatUnit(u float64) string {
	return strconv.FormatFloat(u, 'f', -1, 64)
}

// ConflictName picks the label shown for a device in conflict messages:
// custom name, then device model, then slug, then "Device".
func ConflictName(d model.PlacedDevice, dt model.DeviceType, known bool) string {
	switch {
	case d.Name != "":
		return d.Name
	case known && dt.Model != "":
		return dt.Model
	case d.DeviceType != "":
		return d.DeviceType
	default:
		return "Device"
	}
}

// FormatResizeConflicts builds the message shown when a shrink is refused.
func FormatResizeConflicts(newHeight int, conflicts []ResizeConflict) string {
	if len(conflicts) == 0 {
		return fmt.Sprintf("rack can be resized to %dU", newHeight)
	}
	noun := "device"
	if len(conflicts) > 1 {
		noun = "devices"
	}
	items := make([]string, len(conflicts))
	for i, c := range conflicts {
		items[i] = fmt.Sprintf("%s (%s)", c.Name, c.Range)
	}
	return fmt.Sprintf("cannot resize to %dU: %d %s would not fit: %s",
		newHeight, len(conflicts), noun, strings.Join(items, ", "))
}
