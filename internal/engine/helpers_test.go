package engine

import (
	"testing"

	"github.com/piwi3910/RackPlan/internal/catalog"
	"github.com/piwi3910/RackPlan/internal/model"
	"github.com/stretchr/testify/require"
)

func testCatalog() *catalog.Library {
	return catalog.NewLibrary([]model.DeviceType{
		{Slug: "1u", Model: "1U Server", UHeight: 1, Category: model.CategoryServer},
		{Slug: "2u", Model: "2U Server", UHeight: 2, Category: model.CategoryServer},
		{Slug: "4u", Model: "4U Storage", UHeight: 4, Category: model.CategoryStorage},
		{Slug: "1u-half", Model: "Half-Depth Switch", UHeight: 1, Category: model.CategorySwitch, IsFullDepth: model.Bool(false)},
		{Slug: "half-u", UHeight: 0.5, Category: model.CategoryCableManagement, IsFullDepth: model.Bool(false)},
		{Slug: "half-u-full", UHeight: 0.5, Category: model.CategoryBlank},
		{
			Slug:          "shelf",
			Model:         "2U Shelf",
			UHeight:       2,
			Category:      model.CategoryShelf,
			SubdeviceRole: model.RoleParent,
			Slots: []model.Slot{
				{ID: "left", WidthFraction: 0.5, HeightUnits: 2},
				{ID: "right", Position: model.SlotPosition{Col: 1}, WidthFraction: 0.5, HeightUnits: 1, Accepts: []model.Category{model.CategoryRouter}},
			},
		},
		{Slug: "child", Model: "Mini Router", UHeight: 1, SlotWidth: model.SlotWidthHalf, Category: model.CategoryRouter, SubdeviceRole: model.RoleChild},
		{Slug: "tall-child", UHeight: 2, SlotWidth: model.SlotWidthHalf, Category: model.CategoryRouter, SubdeviceRole: model.RoleChild},
		{Slug: "wide-child", UHeight: 1, Category: model.CategoryRouter, SubdeviceRole: model.RoleChild},
		{Slug: "nas-child", UHeight: 1, SlotWidth: model.SlotWidthHalf, Category: model.CategoryStorage, SubdeviceRole: model.RoleChild},
	})
}

// rackWith builds a rack and places each spec in order, failing the test if
// any placement is rejected.
func rackWith(t *testing.T, cat catalog.Catalog, height int, specs ...placeArgs) model.Rack {
	t.Helper()
	r := model.NewRack("test", height)
	for _, s := range specs {
		face := s.face
		if face == "" {
			face = model.FaceFront
		}
		res := Place(&r, cat, s.slug, s.pos, face)
		require.True(t, res.Success, "placing %s at %g: %s", s.slug, s.pos, res.Message)
	}
	return r
}

type placeArgs struct {
	slug string
	pos  float64
	face model.Face
}

// recorder collects image release keys.
type recorder struct {
	keys []string
}

func (r *recorder) Release(key string) {
	r.keys = append(r.keys, key)
}

// imageKeys lists the front and rear image keys of each placement id.
func imageKeys(ids ...string) []string {
	var keys []string
	for _, id := range ids {
		keys = append(keys, model.PlacementImageKeys(id)...)
	}
	return keys
}

// assertNoOverlaps checks the core invariant directly, without going
// through FindCollisions.
func assertNoOverlaps(t *testing.T, rack model.Rack, cat catalog.Catalog) {
	t.Helper()
	for i := 0; i < len(rack.Devices); i++ {
		a := rack.Devices[i]
		at, err := cat.Resolve(a.DeviceType)
		require.NoError(t, err)
		for j := i + 1; j < len(rack.Devices); j++ {
			b := rack.Devices[j]
			bt, err := cat.Resolve(b.DeviceType)
			require.NoError(t, err)
			if !FacesIntersect(EffectiveFace(at, a.Face), EffectiveFace(bt, b.Face)) {
				continue
			}
			if a.Position < b.Position+bt.UHeight && b.Position < a.Position+at.UHeight {
				t.Fatalf("devices %d (%s@%g) and %d (%s@%g) overlap", i, a.DeviceType, a.Position, j, b.DeviceType, b.Position)
			}
		}
	}
}
