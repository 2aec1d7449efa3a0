package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/RackPlan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLayout() model.Layout {
	l := model.NewLayout("lab", 12)
	l.DeviceTypes = model.StarterLibrary()
	shelf := model.NewPlacedDevice("2u-shelf", 5, model.FaceFront)
	shelf.Children = []model.ChildDevice{model.NewChildDevice("1u-half-width-appliance", "left")}
	l.Rack.Devices = append(l.Rack.Devices,
		model.NewPlacedDevice("1u-server", 1, model.FaceFront),
		shelf,
		model.NewPlacedDevice("0.5u-brush-panel", 8.5, model.FaceRear),
	)
	l.Images["1u-server"] = "server.png"
	return l
}

func TestSaveAndLoadLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lab"+LayoutExt)
	original := sampleLayout()
	original.Version = ""

	require.NoError(t, SaveLayout(path, original))

	loaded, problems, err := LoadLayout(path)
	require.NoError(t, err)
	assert.Empty(t, problems)
	assert.Equal(t, model.LayoutVersion, loaded.Version)
	assert.Equal(t, "lab", loaded.Name)
	assert.Equal(t, 12, loaded.Rack.Height)
	require.Len(t, loaded.Rack.Devices, 3)
	assert.Equal(t, 8.5, loaded.Rack.Devices[2].Position)
	assert.Equal(t, model.FaceRear, loaded.Rack.Devices[2].Face)
	require.Len(t, loaded.Rack.Devices[1].Children, 1)
	assert.Equal(t, "left", loaded.Rack.Devices[1].Children[0].SlotID)
	assert.Equal(t, "server.png", loaded.Images["1u-server"])
	assert.Len(t, loaded.DeviceTypes, len(model.StarterLibrary()))
}

func TestLoadLayoutReportsProblems(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken"+LayoutExt)
	l := sampleLayout()
	// Overlaps the server at U1 and sits past the top of the rack.
	l.Rack.Devices = append(l.Rack.Devices,
		model.NewPlacedDevice("1u-server", 1, model.FaceRear),
		model.NewPlacedDevice("2u-server", 12, model.FaceFront),
	)
	require.NoError(t, SaveLayout(path, l))

	loaded, problems, err := LoadLayout(path)
	require.NoError(t, err, "rule violations are not load errors")
	assert.Len(t, loaded.Rack.Devices, 5)
	assert.Len(t, problems, 2)
}

func TestLoadLayoutReportsInvalidDeviceTypes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "types"+LayoutExt)
	l := model.NewLayout("lab", 12)
	l.DeviceTypes = []model.DeviceType{
		{Slug: "s", UHeight: 1},
		{Slug: "ghost", UHeight: 0},
		{Slug: "odd", UHeight: 0.3},
		{Slug: "s", UHeight: 2},
	}
	l.Rack.Devices = append(l.Rack.Devices,
		model.NewPlacedDevice("s", 3, model.FaceFront),
		model.NewPlacedDevice("ghost", 3, model.FaceFront),
	)
	require.NoError(t, SaveLayout(path, l))

	_, problems, err := LoadLayout(path)
	require.NoError(t, err)

	var types, devices []string
	for _, p := range problems {
		if p.ID == "" {
			types = append(types, p.DeviceType)
		} else {
			devices = append(devices, p.ID)
		}
	}
	assert.Equal(t, []string{"ghost", "odd", "s"}, types)
	assert.Equal(t, []string{l.Rack.Devices[1].ID}, devices, "zero-height device flagged")
}

func TestLoadLayoutNilCollections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bare.json")
	data := []byte(`{"version":"1.0.0","name":"bare","rack":{"name":"bare","height":10,"starting_unit":1,"devices":null}}`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	loaded, problems, err := LoadLayout(path)
	require.NoError(t, err)
	assert.Empty(t, problems)
	assert.NotNil(t, loaded.Rack.Devices)
	assert.NotNil(t, loaded.DeviceTypes)
	assert.NotNil(t, loaded.Images)
}

func TestLoadLayoutErrors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := LoadLayout(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))
	_, _, err = LoadLayout(bad)
	assert.Error(t, err)

	noVersion := filepath.Join(dir, "noversion.json")
	require.NoError(t, os.WriteFile(noVersion, []byte(`{"rack":{"height":10}}`), 0644))
	_, _, err = LoadLayout(noVersion)
	assert.Error(t, err)

	noHeight := filepath.Join(dir, "noheight.json")
	require.NoError(t, os.WriteFile(noHeight, []byte(`{"version":"1.0.0","rack":{"height":0}}`), 0644))
	_, _, err = LoadLayout(noHeight)
	assert.Error(t, err)
}
