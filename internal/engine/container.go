package engine

import (
	"fmt"

	"github.com/piwi3910/RackPlan/internal/catalog"
	"github.com/piwi3910/RackPlan/internal/model"
)

// Bay occupancy lives on the container placement and is keyed by slot id.
// Nothing in this file looks at U positions: a container's outer footprint
// is checked by the ordinary U-grid code like any other device.

// CheckBayPlacement validates putting a childType device into slotID of
// the parent placement. It does not mutate parent.
func CheckBayPlacement(parent model.PlacedDevice, parentType, childType model.DeviceType, slotID string) Result {
	if !validHeight(childType) {
		return fail(ReasonInvalidInput, nil, "device type %s has invalid height %gU", childType.Slug, childType.UHeight)
	}
	if !parentType.IsContainer() {
		return fail(ReasonNotFound, nil, "%s has no bays", parentType.Slug)
	}
	slot := parentType.FindSlot(slotID)
	if slot == nil {
		return fail(ReasonNotFound, nil, "%s has no slot %q", parentType.Slug, slotID)
	}
	if msg := bayFit(*slot, parentType, childType); msg != "" {
		return fail(ReasonSlotIncompatible, nil, "%s", msg)
	}
	if occupant := parent.ChildInSlot(slotID); occupant != nil {
		return fail(ReasonCollision, *occupant, "slot %q is occupied by %s", slotID, occupant.DeviceType)
	}
	return ok(ReasonOK, nil)
}

// bayFit returns a reason the child type cannot go into slot, or "".
func bayFit(slot model.Slot, parentType, childType model.DeviceType) string {
	if childType.SubdeviceRole == model.RoleParent {
		return fmt.Sprintf("%s is a container and cannot be nested", childType.Slug)
	}
	height := slot.HeightUnits
	if height == 0 {
		height = parentType.UHeight
	}
	if childType.UHeight > height {
		return fmt.Sprintf("%s is %gU but slot %q holds %gU", childType.Slug, childType.UHeight, slot.ID, height)
	}
	if slot.WidthFraction > 0 && slot.WidthFraction < 1 && childType.Width() == model.SlotWidthFull {
		return fmt.Sprintf("%s is full width but slot %q is partial width", childType.Slug, slot.ID)
	}
	if !slot.AcceptsCategory(childType.Category) {
		return fmt.Sprintf("slot %q does not accept %s devices", slot.ID, childType.Category)
	}
	return ""
}

// PlaceInBay mounts a child device into a bay of the container placement
// parentID. The result data is the new model.ChildDevice.
func PlaceInBay(rack *model.Rack, cat catalog.Catalog, parentID, childSlug, slotID, name string) Result {
	idx := rack.FindDevice(parentID)
	if idx < 0 {
		return fail(ReasonNotFound, nil, "placement %q not found", parentID)
	}
	parent := rack.Devices[idx]
	parentType, err := cat.Resolve(parent.DeviceType)
	if err != nil {
		return fail(ReasonNotFound, nil, "device type %q not found", parent.DeviceType)
	}
	childType, err := cat.Resolve(childSlug)
	if err != nil {
		return fail(ReasonNotFound, nil, "device type %q not found", childSlug)
	}
	if res := CheckBayPlacement(parent, parentType, childType, slotID); !res.Success {
		return res
	}

	child := model.NewChildDevice(childType.Slug, slotID)
	child.Name = name
	children := make([]model.ChildDevice, len(parent.Children), len(parent.Children)+1)
	copy(children, parent.Children)
	rack.Devices[idx].Children = append(children, child)
	return ok(ReasonOK, child)
}

// RemoveFromBay removes the bay occupant childID from container parentID
// and releases its image overrides.
func RemoveFromBay(rack *model.Rack, parentID, childID string, images ImageStore) Result {
	idx := rack.FindDevice(parentID)
	if idx < 0 {
		return fail(ReasonNotFound, nil, "placement %q not found", parentID)
	}
	parent := rack.Devices[idx]
	ci := parent.FindChild(childID)
	if ci < 0 {
		return fail(ReasonNotFound, nil, "%s has no child %q", parentID, childID)
	}
	child := parent.Children[ci]
	rack.Devices[idx].Children = append(parent.Children[:ci:ci], parent.Children[ci+1:]...)
	if images != nil {
		releaseID(child.ID, images)
	}
	return ok(ReasonOK, child)
}

// validateBays audits the bay occupants of one container placement.
func validateBays(parent model.PlacedDevice, parentType model.DeviceType, cat catalog.Catalog) []string {
	var msgs []string
	if !parentType.IsContainer() {
		return []string{fmt.Sprintf("%s has children but no bays", parentType.Slug)}
	}
	occupied := make(map[string]string, len(parent.Children))
	for _, c := range parent.Children {
		slot := parentType.FindSlot(c.SlotID)
		if slot == nil {
			msgs = append(msgs, fmt.Sprintf("child %s is in unknown slot %q", c.ID, c.SlotID))
			continue
		}
		if other, taken := occupied[c.SlotID]; taken {
			msgs = append(msgs, fmt.Sprintf("children %s and %s share slot %q", other, c.ID, c.SlotID))
		}
		occupied[c.SlotID] = c.ID

		childType, err := cat.Resolve(c.DeviceType)
		if err != nil {
			msgs = append(msgs, fmt.Sprintf("child %s has unknown device type %q", c.ID, c.DeviceType))
			continue
		}
		if msg := bayFit(*slot, parentType, childType); msg != "" {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}
