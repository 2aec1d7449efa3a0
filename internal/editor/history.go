package editor

import "github.com/piwi3910/RackPlan/internal/model"

const defaultMaxDepth = 50

// Snapshot captures the rack and device library at a point in time.
type Snapshot struct {
	Rack        model.Rack
	DeviceTypes []model.DeviceType
	Images      map[string]string
	Label       string // Human-readable description (e.g. "place 1u-server")
}

// History keeps bounded undo and redo stacks of layout snapshots. Each
// snapshot holds the state before the command named by its Label.
type History struct {
	undoStack []Snapshot
	redoStack []Snapshot
	maxDepth  int
}

func NewHistory() *History {
	return &History{maxDepth: defaultMaxDepth}
}

// Push records the state before a committed command. Any redo branch is
// discarded and the oldest snapshots fall off past maxDepth.
func (h *History) Push(s Snapshot) {
	h.undoStack = append(h.undoStack, s)
	if over := len(h.undoStack) - h.maxDepth; over > 0 {
		h.undoStack = h.undoStack[over:]
	}
	h.redoStack = nil
}

// Undo returns the snapshot to restore and files current on the redo
// stack under the same label, so redo reports the command it re-applies.
func (h *History) Undo(current Snapshot) (Snapshot, bool) {
	return swap(&h.undoStack, &h.redoStack, current)
}

// Redo is the mirror of Undo.
func (h *History) Redo(current Snapshot) (Snapshot, bool) {
	return swap(&h.redoStack, &h.undoStack, current)
}

func swap(from, to *[]Snapshot, current Snapshot) (Snapshot, bool) {
	n := len(*from)
	if n == 0 {
		return Snapshot{}, false
	}
	top := (*from)[n-1]
	*from = (*from)[:n-1]
	current.Label = top.Label
	*to = append(*to, current)
	return top, true
}

func (h *History) CanUndo() bool { return len(h.undoStack) > 0 }

func (h *History) CanRedo() bool { return len(h.redoStack) > 0 }

// UndoLabel names the command the next Undo reverts, or "".
func (h *History) UndoLabel() string { return peekLabel(h.undoStack) }

// RedoLabel names the command the next Redo re-applies, or "".
func (h *History) RedoLabel() string { return peekLabel(h.redoStack) }

func peekLabel(stack []Snapshot) string {
	if len(stack) == 0 {
		return ""
	}
	return stack[len(stack)-1].Label
}

// MakeSnapshot creates a deep snapshot of the layout with a label.
func MakeSnapshot(l *model.Layout, label string) Snapshot {
	images := make(map[string]string, len(l.Images))
	for k, v := range l.Images {
		images[k] = v
	}
	return Snapshot{
		Rack:        l.Rack.Clone(),
		DeviceTypes: model.CloneDeviceTypes(l.DeviceTypes),
		Images:      images,
		Label:       label,
	}
}
