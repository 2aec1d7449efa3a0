package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/RackPlan/internal/model"
)

func TestExportLabels_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.pdf")

	if err := ExportLabels(path, buildTestLayout()); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("labels PDF was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("labels PDF is empty")
	}
}

func TestExportLabels_NoDevices(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none.pdf")

	if err := ExportLabels(path, model.NewLayout("empty", 10)); err == nil {
		t.Fatal("expected error for a rack without devices, got nil")
	}
}

func TestCollectLabelInfos(t *testing.T) {
	l := buildTestLayout()
	l.Rack.Devices = append(l.Rack.Devices, model.NewPlacedDevice("ghost", 11, model.FaceFront))

	labels := CollectLabelInfos(l)
	// 4 placements + 1 bay child; the unresolved type is skipped.
	if len(labels) != 5 {
		t.Fatalf("expected 5 labels, got %d", len(labels))
	}

	first := labels[0]
	if first.Name != "db-01" || first.Range != "U1-2" || first.Face != "both" {
		t.Errorf("unexpected first label: %+v", first)
	}
	if first.Rack != "Lab A" {
		t.Errorf("rack name = %q, want %q", first.Rack, "Lab A")
	}

	var child *LabelInfo
	for i := range labels {
		if labels[i].Bay != "" {
			child = &labels[i]
		}
	}
	if child == nil {
		t.Fatal("expected a label for the bay child")
	}
	if child.Name != "fw-01" || child.Bay != "left" || child.Range != "U5-6" {
		t.Errorf("unexpected child label: %+v", *child)
	}

	for _, lb := range labels {
		if lb.Type == "0.5u-brush-panel" && lb.Colour != "#112233" {
			t.Errorf("brush label colour = %q, want the placement override", lb.Colour)
		}
	}
}

func TestLabelInfo_QRPayload(t *testing.T) {
	info := LabelInfo{
		ID:     "abc",
		Rack:   "Lab A",
		Name:   "db-01",
		Type:   "2u-server",
		Range:  "U1-2",
		Face:   "both",
		Colour: "#ff0000",
	}

	data, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["id"] != "abc" || decoded["range"] != "U1-2" {
		t.Errorf("unexpected payload: %s", data)
	}
	if _, ok := decoded["Colour"]; ok {
		t.Error("colour is a rendering hint and should not be encoded")
	}
	if _, ok := decoded["bay"]; ok {
		t.Error("empty bay should be omitted")
	}

	png, err := encodeQR(info)
	if err != nil {
		t.Fatalf("encodeQR: %v", err)
	}
	if len(png) < 8 || string(png[1:4]) != "PNG" {
		t.Error("encodeQR did not return a PNG")
	}
}

func TestExportLabels_ManyDevices(t *testing.T) {
	path := filepath.Join(t.TempDir(), "many_labels.pdf")

	// 35 placements spill onto a second sheet.
	l := model.NewLayout("big", 42)
	l.DeviceTypes = model.StarterLibrary()
	for i := 0; i < 35; i++ {
		l.Rack.Devices = append(l.Rack.Devices, model.NewPlacedDevice("1u-server", float64(i+1), model.FaceFront))
	}

	if err := ExportLabels(path, l); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}
	if got := len(CollectLabelInfos(l)); got != 35 {
		t.Errorf("expected 35 labels, got %d", got)
	}
}
