package engine

import (
	"testing"

	"github.com/piwi3910/RackPlan/internal/catalog"
	"github.com/piwi3910/RackPlan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// badHeightCatalog holds types that skipped DeviceType.Validate, the way
// types embedded in a hand-edited layout file do.
func badHeightCatalog() *catalog.Library {
	return catalog.NewLibrary([]model.DeviceType{
		{Slug: "1u", UHeight: 1},
		{Slug: "ghost", UHeight: 0},
		{Slug: "odd", UHeight: 0.3},
		{Slug: "negative", UHeight: -1},
		{
			Slug:          "shelf",
			UHeight:       2,
			SubdeviceRole: model.RoleParent,
			Slots:         []model.Slot{{ID: "left", WidthFraction: 0.5}},
		},
		{Slug: "ghost-child", UHeight: 0, SlotWidth: model.SlotWidthHalf, SubdeviceRole: model.RoleChild},
	})
}

func TestPlace_RejectsInvalidTypeHeight(t *testing.T) {
	cat := badHeightCatalog()
	rack := model.NewRack("r", 10)

	for _, slug := range []string{"ghost", "odd", "negative"} {
		res := Place(&rack, cat, slug, 3, model.FaceFront)
		assert.Equal(t, ReasonInvalidInput, res.Reason, slug)
	}
	assert.Empty(t, rack.Devices)

	// A zero-height type must not let two devices share a unit.
	require.True(t, Place(&rack, cat, "1u", 3, model.FaceFront).Success)
	assert.Equal(t, ReasonInvalidInput, Place(&rack, cat, "ghost", 3, model.FaceFront).Reason)
	assert.Len(t, rack.Devices, 1)
}

func TestReposition_RejectsInvalidTypeHeight(t *testing.T) {
	cat := badHeightCatalog()
	rack := model.NewRack("r", 10)
	rack.Devices = append(rack.Devices, model.PlacedDevice{ID: "g", DeviceType: "odd", Position: 2, Face: model.FaceFront})

	res := Reposition(&rack, cat, "g", 5, "")
	assert.Equal(t, ReasonInvalidInput, res.Reason)
	assert.Equal(t, 2.0, rack.Devices[0].Position)
}

func TestFindNextValidPosition_RejectsInvalidTypeHeight(t *testing.T) {
	cat := badHeightCatalog()
	rack := model.NewRack("r", 10)
	rack.Devices = append(rack.Devices,
		model.PlacedDevice{ID: "g", DeviceType: "ghost", Position: 2, Face: model.FaceFront},
		model.PlacedDevice{ID: "o", DeviceType: "odd", Position: 5, Face: model.FaceFront},
	)

	assert.Equal(t, ReasonInvalidInput, FindNextValidPosition(rack, cat, 0, Up, 0).Reason)
	assert.Equal(t, ReasonInvalidInput, FindNextValidPosition(rack, cat, 1, Down, 0.5).Reason)
}

func TestPlaceInBay_RejectsInvalidChildHeight(t *testing.T) {
	cat := badHeightCatalog()
	rack := model.NewRack("r", 10)
	require.True(t, Place(&rack, cat, "shelf", 1, model.FaceFront).Success)

	res := PlaceInBay(&rack, cat, rack.Devices[0].ID, "ghost-child", "left", "")
	assert.Equal(t, ReasonInvalidInput, res.Reason)
	assert.Empty(t, rack.Devices[0].Children)
}

func TestValidateTypes(t *testing.T) {
	types := []model.DeviceType{
		{Slug: "1u", UHeight: 1},
		{Slug: "ghost", UHeight: 0},
		{Slug: "odd", UHeight: 0.3},
		{Slug: "1u", UHeight: 2},
	}
	problems := ValidateTypes(types)
	require.Len(t, problems, 3)

	assert.Equal(t, 1, problems[0].Index)
	assert.Equal(t, "ghost", problems[0].DeviceType)
	assert.Equal(t, 2, problems[1].Index)
	assert.Contains(t, problems[1].Message, "0.3")
	assert.Equal(t, 3, problems[2].Index)
	assert.Contains(t, problems[2].Message, "duplicate slug")
	assert.Contains(t, problems[2].String(), "device type 3 (1u)")

	assert.Empty(t, ValidateTypes([]model.DeviceType{{Slug: "a", UHeight: 0.5}, {Slug: "b", UHeight: 1}}))
}

func TestValidate_ReportsInvalidTypeHeight(t *testing.T) {
	cat := badHeightCatalog()
	rack := model.NewRack("r", 10)
	rack.Devices = append(rack.Devices,
		model.PlacedDevice{ID: "a", DeviceType: "1u", Position: 3, Face: model.FaceFront},
		model.PlacedDevice{ID: "g", DeviceType: "ghost", Position: 3, Face: model.FaceFront},
	)

	problems := Validate(rack, cat)
	require.Len(t, problems, 1)
	assert.Equal(t, "g", problems[0].ID)
	assert.Contains(t, problems[0].Message, "invalid height")
}
