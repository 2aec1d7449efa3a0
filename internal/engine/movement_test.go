package engine

import (
	"testing"

	"github.com/piwi3910/RackPlan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindNextValidPosition_SimpleMove(t *testing.T) {
	cat := testCatalog()
	rack := rackWith(t, cat, 20, placeArgs{slug: "1u", pos: 10})

	mr := FindNextValidPosition(rack, cat, 0, Up, 0)
	require.True(t, mr.Success)
	assert.Equal(t, ReasonMoved, mr.Reason)
	assert.Equal(t, 11.0, *mr.NewPosition)

	mr = FindNextValidPosition(rack, cat, 0, Down, 0)
	require.True(t, mr.Success)
	assert.Equal(t, 9.0, *mr.NewPosition)
}

func TestFindNextValidPosition_Leapfrog(t *testing.T) {
	cat := testCatalog()
	rack := rackWith(t, cat, 20,
		placeArgs{slug: "1u", pos: 10},
		placeArgs{slug: "1u", pos: 11},
		placeArgs{slug: "1u", pos: 12},
		placeArgs{slug: "1u", pos: 13},
	)

	mr := FindNextValidPosition(rack, cat, 0, Up, 0)
	require.True(t, mr.Success)
	assert.Equal(t, ReasonMoved, mr.Reason)
	assert.Equal(t, 14.0, *mr.NewPosition)
}

func TestFindNextValidPosition_LeapfrogDown(t *testing.T) {
	cat := testCatalog()
	rack := rackWith(t, cat, 20,
		placeArgs{slug: "2u", pos: 10},
		placeArgs{slug: "2u", pos: 8},
		placeArgs{slug: "1u", pos: 7},
	)

	// Step 2: 8 blocked, 6 overlaps the 1U at 7, 4 is clear.
	mr := FindNextValidPosition(rack, cat, 0, Down, 0)
	require.True(t, mr.Success)
	assert.Equal(t, 4.0, *mr.NewPosition)
}

func TestFindNextValidPosition_AtBoundary(t *testing.T) {
	cat := testCatalog()
	rack := rackWith(t, cat, 10, placeArgs{slug: "1u", pos: 10}, placeArgs{slug: "1u", pos: 1})

	mr := FindNextValidPosition(rack, cat, 0, Up, 0)
	assert.False(t, mr.Success)
	assert.Equal(t, ReasonAtBoundary, mr.Reason)
	assert.Nil(t, mr.NewPosition)

	mr = FindNextValidPosition(rack, cat, 1, Down, 0)
	assert.Equal(t, ReasonAtBoundary, mr.Reason)
	assert.Nil(t, mr.NewPosition)
}

func TestFindNextValidPosition_Exhaustion(t *testing.T) {
	cat := testCatalog()
	specs := []placeArgs{}
	for u := 5; u <= 10; u++ {
		specs = append(specs, placeArgs{slug: "1u", pos: float64(u)})
	}
	rack := rackWith(t, cat, 10, specs...)

	mr := FindNextValidPosition(rack, cat, 0, Up, 0)
	assert.False(t, mr.Success)
	assert.Equal(t, ReasonNoValidPosition, mr.Reason, "blocked all the way to the wall")
	assert.Nil(t, mr.NewPosition)
}

func TestFindNextValidPosition_DefaultStepOvershootsEdge(t *testing.T) {
	cat := testCatalog()
	rack := rackWith(t, cat, 10, placeArgs{slug: "2u", pos: 8})

	// 2U at 8 occupies 8-9; one full step would need 10-11.
	assert.Equal(t, ReasonAtBoundary, FindNextValidPosition(rack, cat, 0, Up, 0).Reason)

	// A fine step still gets it to the top.
	mr := FindNextValidPosition(rack, cat, 0, Up, 1)
	require.True(t, mr.Success)
	assert.Equal(t, 9.0, *mr.NewPosition)
}

func TestFindNextValidPosition_FaceIndependence(t *testing.T) {
	cat := testCatalog()
	rack := rackWith(t, cat, 20,
		placeArgs{slug: "1u-half", pos: 11, face: model.FaceFront},
		placeArgs{slug: "1u-half", pos: 10, face: model.FaceRear},
	)

	mr := FindNextValidPosition(rack, cat, 1, Up, 0)
	require.True(t, mr.Success)
	assert.Equal(t, 11.0, *mr.NewPosition, "front device does not block a rear device")
}

func TestFindNextValidPosition_FullDepthBlockedByRearOnly(t *testing.T) {
	cat := testCatalog()
	rack := rackWith(t, cat, 20,
		placeArgs{slug: "1u-half", pos: 11, face: model.FaceRear},
		placeArgs{slug: "1u", pos: 10, face: model.FaceFront},
	)

	mr := FindNextValidPosition(rack, cat, 1, Up, 0)
	require.True(t, mr.Success)
	assert.Equal(t, 12.0, *mr.NewPosition, "full depth device must skip the rear occupant")
}

func TestFindNextValidPosition_HalfStep(t *testing.T) {
	cat := testCatalog()
	rack := rackWith(t, cat, 20, placeArgs{slug: "half-u", pos: 10})

	mr := FindNextValidPosition(rack, cat, 0, Up, 0)
	require.True(t, mr.Success)
	assert.Equal(t, 10.5, *mr.NewPosition)

	res := Nudge(&rack, cat, 0, Up, 0)
	require.True(t, res.Success)
	assert.Equal(t, 10.5, rack.Devices[0].Position)
}

func TestFindNextValidPosition_ExplicitHalfStepForFullUnit(t *testing.T) {
	cat := testCatalog()
	rack := rackWith(t, cat, 20,
		placeArgs{slug: "1u", pos: 10},
		placeArgs{slug: "half-u-full", pos: 11},
	)

	// 10.5 and 11 both overlap the half-U blocker at 11-11.5; 11.5 is clear.
	mr := FindNextValidPosition(rack, cat, 0, Up, 0.5)
	require.True(t, mr.Success)
	assert.Equal(t, 11.5, *mr.NewPosition)
}

func TestFindNextValidPosition_Invalid(t *testing.T) {
	cat := testCatalog()
	rack := rackWith(t, cat, 20, placeArgs{slug: "1u", pos: 10})

	assert.Equal(t, ReasonInvalidInput, FindNextValidPosition(rack, cat, 0, 2, 0).Reason)
	assert.Equal(t, ReasonInvalidInput, FindNextValidPosition(rack, cat, 0, Up, 0.3).Reason)
	assert.Equal(t, ReasonNoValidPosition, FindNextValidPosition(rack, cat, 7, Up, 0).Reason)

	rack.Devices[0].DeviceType = "deleted"
	assert.Equal(t, ReasonNoValidPosition, FindNextValidPosition(rack, cat, 0, Up, 0).Reason)
}

func TestFindNextValidPosition_Idempotent(t *testing.T) {
	cat := testCatalog()
	rack := rackWith(t, cat, 20,
		placeArgs{slug: "1u", pos: 10},
		placeArgs{slug: "2u", pos: 11},
	)
	before := rack.Clone()

	first := FindNextValidPosition(rack, cat, 0, Up, 0)
	for i := 0; i < 5; i++ {
		again := FindNextValidPosition(rack, cat, 0, Up, 0)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, before, rack, "search must not mutate the rack")
}

func TestFindNextValidPosition_TerminatesOnDenseRack(t *testing.T) {
	cat := testCatalog()
	specs := []placeArgs{}
	for u := 0.5; u <= 100; u += 0.5 {
		specs = append(specs, placeArgs{slug: "half-u-full", pos: u + 0.5})
	}
	rack := rackWith(t, cat, 100, specs...)

	mr := FindNextValidPosition(rack, cat, 0, Up, 0.5)
	assert.Equal(t, ReasonNoValidPosition, mr.Reason)
}

func TestCanMoveUpDown(t *testing.T) {
	cat := testCatalog()
	rack := rackWith(t, cat, 10,
		placeArgs{slug: "1u", pos: 1},
		placeArgs{slug: "1u", pos: 10},
	)

	assert.True(t, CanMoveUp(rack, cat, 0))
	assert.False(t, CanMoveDown(rack, cat, 0))
	assert.False(t, CanMoveUp(rack, cat, 1))
	assert.True(t, CanMoveDown(rack, cat, 1))
}

func TestNudge(t *testing.T) {
	cat := testCatalog()
	rack := rackWith(t, cat, 10,
		placeArgs{slug: "1u", pos: 5},
		placeArgs{slug: "1u", pos: 6},
	)

	res := Nudge(&rack, cat, 0, Up, 0)
	require.True(t, res.Success)
	assert.Equal(t, ReasonMoved, res.Reason)
	assert.Equal(t, 7.0, rack.Devices[0].Position)
	assert.Equal(t, 7.0, res.Data.(model.PlacedDevice).Position)

	rack = rackWith(t, cat, 10, placeArgs{slug: "1u", pos: 10})
	res = Nudge(&rack, cat, 0, Up, 0)
	assert.Equal(t, ReasonAtBoundary, res.Reason)
	assert.ErrorIs(t, res.Err(), ErrAtBoundary)
	assert.Equal(t, 10.0, rack.Devices[0].Position)
}
