package engine

import (
	"testing"

	"github.com/piwi3910/RackPlan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceInBay(t *testing.T) {
	cat := testCatalog()
	rack := rackWith(t, cat, 20, placeArgs{slug: "shelf", pos: 5})
	parentID := rack.Devices[0].ID

	res := PlaceInBay(&rack, cat, parentID, "child", "left", "edge-router")
	require.True(t, res.Success, res.Message)
	child := res.Data.(model.ChildDevice)
	assert.Equal(t, "left", child.SlotID)
	assert.Equal(t, "edge-router", child.Name)
	require.Len(t, rack.Devices[0].Children, 1)

	res = PlaceInBay(&rack, cat, parentID, "child", "right", "")
	require.True(t, res.Success, res.Message)
	assert.Len(t, rack.Devices[0].Children, 2)
}

func TestPlaceInBay_SlotOccupied(t *testing.T) {
	cat := testCatalog()
	rack := rackWith(t, cat, 20, placeArgs{slug: "shelf", pos: 5})
	parentID := rack.Devices[0].ID
	require.True(t, PlaceInBay(&rack, cat, parentID, "child", "left", "").Success)
	before := rack.Clone()

	res := PlaceInBay(&rack, cat, parentID, "child", "left", "")
	assert.Equal(t, ReasonCollision, res.Reason)
	assert.Equal(t, before, rack)
}

func TestPlaceInBay_Fit(t *testing.T) {
	cat := testCatalog()
	rack := rackWith(t, cat, 20, placeArgs{slug: "shelf", pos: 5})
	parentID := rack.Devices[0].ID

	cases := []struct {
		slug, slot string
		want       Reason
	}{
		{"tall-child", "right", ReasonSlotIncompatible}, // 2U into 1U bay
		{"tall-child", "left", ReasonOK},
		{"wide-child", "right", ReasonSlotIncompatible}, // full width into half bay
		{"nas-child", "right", ReasonSlotIncompatible},  // category filter
		{"shelf", "right", ReasonSlotIncompatible},      // nested container
		{"child", "middle", ReasonNotFound},
		{"missing", "right", ReasonNotFound},
	}
	for _, tc := range cases {
		r := rack.Clone()
		res := PlaceInBay(&r, cat, parentID, tc.slug, tc.slot, "")
		assert.Equal(t, tc.want, res.Reason, "%s into %s: %s", tc.slug, tc.slot, res.Message)
	}
}

func TestPlaceInBay_ParentNotContainer(t *testing.T) {
	cat := testCatalog()
	rack := rackWith(t, cat, 20, placeArgs{slug: "2u", pos: 5})

	res := PlaceInBay(&rack, cat, rack.Devices[0].ID, "child", "left", "")
	assert.Equal(t, ReasonNotFound, res.Reason)
	assert.Equal(t, ReasonNotFound, PlaceInBay(&rack, cat, "nope", "child", "left", "").Reason)
}

func TestBaysDoNotTouchUGrid(t *testing.T) {
	cat := testCatalog()
	rack := rackWith(t, cat, 20, placeArgs{slug: "shelf", pos: 5})
	parentID := rack.Devices[0].ID
	require.True(t, PlaceInBay(&rack, cat, parentID, "child", "left", "").Success)
	require.True(t, PlaceInBay(&rack, cat, parentID, "child", "right", "").Success)

	// Children add nothing to the U-grid: U7 just above the shelf is free,
	// and the shelf's own footprint still blocks U5-6.
	assert.True(t, Place(&rack, cat, "1u", 7, model.FaceFront).Success)
	assert.Equal(t, ReasonCollision, Place(&rack, cat, "1u", 6, model.FaceFront).Reason)

	// Moving the container carries its bays.
	res := Reposition(&rack, cat, parentID, 10, model.FaceFront)
	require.True(t, res.Success)
	assert.Len(t, rack.Devices[0].Children, 2)
}

func TestRemoveFromBay(t *testing.T) {
	cat := testCatalog()
	rack := rackWith(t, cat, 20, placeArgs{slug: "shelf", pos: 5})
	parentID := rack.Devices[0].ID
	res := PlaceInBay(&rack, cat, parentID, "child", "left", "")
	require.True(t, res.Success)
	childID := res.Data.(model.ChildDevice).ID
	snapshot := rack.Clone()

	images := &recorder{}
	res = RemoveFromBay(&rack, parentID, childID, images)
	require.True(t, res.Success)
	assert.Empty(t, rack.Devices[0].Children)
	assert.Equal(t, imageKeys(childID), images.keys)
	assert.Len(t, snapshot.Devices[0].Children, 1, "removal must not alias earlier snapshots")

	assert.Equal(t, ReasonNotFound, RemoveFromBay(&rack, parentID, childID, images).Reason)
	assert.Equal(t, ReasonNotFound, RemoveFromBay(&rack, "nope", childID, images).Reason)

	// Freed slot can be reused.
	assert.True(t, PlaceInBay(&rack, cat, parentID, "child", "left", "").Success)
}

func TestValidate_Bays(t *testing.T) {
	cat := testCatalog()
	rack := rackWith(t, cat, 20, placeArgs{slug: "shelf", pos: 5}, placeArgs{slug: "1u", pos: 1})
	rack.Devices[0].Children = []model.ChildDevice{
		{ID: "a", DeviceType: "child", SlotID: "left"},
		{ID: "b", DeviceType: "child", SlotID: "left"},
		{ID: "c", DeviceType: "child", SlotID: "attic"},
		{ID: "d", DeviceType: "nas-child", SlotID: "right"},
	}
	rack.Devices[1].Children = []model.ChildDevice{{ID: "e", DeviceType: "child", SlotID: "left"}}

	problems := Validate(rack, cat)
	assert.Len(t, problems, 4)
}
