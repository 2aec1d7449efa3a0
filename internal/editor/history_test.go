package editor

import (
	"testing"

	"github.com/piwi3910/RackPlan/internal/model"
)

func TestNewHistory(t *testing.T) {
	h := NewHistory()
	if h.maxDepth != defaultMaxDepth {
		t.Errorf("expected maxDepth %d, got %d", defaultMaxDepth, h.maxDepth)
	}
	if h.CanUndo() {
		t.Error("new history should not be undoable")
	}
	if h.CanRedo() {
		t.Error("new history should not be redoable")
	}
}

func TestPushClearsRedo(t *testing.T) {
	h := NewHistory()
	l := model.NewLayout("l", 10)

	h.Push(MakeSnapshot(&l, "one"))
	if _, ok := h.Undo(MakeSnapshot(&l, "current")); !ok {
		t.Fatal("undo should succeed")
	}
	if !h.CanRedo() {
		t.Fatal("redo should be available after undo")
	}

	h.Push(MakeSnapshot(&l, "two"))
	if h.CanRedo() {
		t.Error("push should clear the redo stack")
	}
}

func TestMaxDepth(t *testing.T) {
	h := NewHistory()
	l := model.NewLayout("l", 10)
	for i := 0; i < defaultMaxDepth+10; i++ {
		h.Push(MakeSnapshot(&l, "step"))
	}
	if len(h.undoStack) != defaultMaxDepth {
		t.Errorf("expected %d snapshots, got %d", defaultMaxDepth, len(h.undoStack))
	}
}

func TestMakeSnapshotIsDeep(t *testing.T) {
	l := model.NewLayout("l", 10)
	l.Rack.Devices = append(l.Rack.Devices, model.NewPlacedDevice("1u", 1, model.FaceFront))
	l.DeviceTypes = []model.DeviceType{{Slug: "1u", UHeight: 1}}
	l.Images["1u"] = "a.png"

	snap := MakeSnapshot(&l, "before")
	l.Rack.Devices[0].Position = 5
	l.DeviceTypes[0].UHeight = 2
	l.Images["1u"] = "b.png"

	if snap.Rack.Devices[0].Position != 1 {
		t.Errorf("snapshot rack changed: %g", snap.Rack.Devices[0].Position)
	}
	if snap.DeviceTypes[0].UHeight != 1 {
		t.Errorf("snapshot device types changed: %g", snap.DeviceTypes[0].UHeight)
	}
	if snap.Images["1u"] != "a.png" {
		t.Errorf("snapshot images changed: %s", snap.Images["1u"])
	}
}

func TestLabelsFollowUndoRedo(t *testing.T) {
	h := NewHistory()
	l := model.NewLayout("l", 10)
	if h.UndoLabel() != "" || h.RedoLabel() != "" {
		t.Fatal("empty history should have no labels")
	}

	h.Push(MakeSnapshot(&l, "place a"))
	h.Push(MakeSnapshot(&l, "move a"))
	if got := h.UndoLabel(); got != "move a" {
		t.Errorf("UndoLabel = %q, want %q", got, "move a")
	}

	snap, _ := h.Undo(MakeSnapshot(&l, ""))
	if snap.Label != "move a" {
		t.Errorf("undo returned %q", snap.Label)
	}
	if got := h.RedoLabel(); got != "move a" {
		t.Errorf("RedoLabel = %q, want %q", got, "move a")
	}

	snap, _ = h.Redo(MakeSnapshot(&l, ""))
	if snap.Label != "move a" || h.UndoLabel() != "move a" {
		t.Errorf("redo should keep the label, got %q / %q", snap.Label, h.UndoLabel())
	}
}
