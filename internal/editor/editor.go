// Package editor is the command boundary in front of the placement engine.
//
// An Editor owns one layout. Callers send Commands and receive
// engine.Results; committed commands are recorded in an undo history of
// whole-layout snapshots. The layout's image map doubles as the image store
// that receives release notifications from the engine.
package editor

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/piwi3910/RackPlan/internal/catalog"
	"github.com/piwi3910/RackPlan/internal/engine"
	"github.com/piwi3910/RackPlan/internal/model"
)

// Op names a command.
type Op string

const (
	OpPlace       Op = "place"
	OpRemove      Op = "remove"
	OpMove        Op = "move"
	OpNudge       Op = "nudge"
	OpResize      Op = "resize"
	OpPlaceChild  Op = "place-child"
	OpRemoveChild Op = "remove-child"
	OpDeleteType  Op = "delete-type"
	OpSetImage    Op = "set-image"
	OpUndo        Op = "undo"
	OpRedo        Op = "redo"
)

// Command is a single editing request. Which fields matter depends on Op.
type Command struct {
	Op        Op         `json:"op" yaml:"op"`
	Slug      string     `json:"slug,omitempty" yaml:"slug,omitempty"`
	ID        string     `json:"id,omitempty" yaml:"id,omitempty"`
	Index     *int       `json:"index,omitempty" yaml:"index,omitempty"`
	Position  float64    `json:"position,omitempty" yaml:"position,omitempty"`
	Face      model.Face `json:"face,omitempty" yaml:"face,omitempty"`
	Direction int        `json:"direction,omitempty" yaml:"direction,omitempty"`
	Step      float64    `json:"step,omitempty" yaml:"step,omitempty"`
	Height    int        `json:"height,omitempty" yaml:"height,omitempty"`
	ParentID  string     `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
	SlotID    string     `json:"slot_id,omitempty" yaml:"slot_id,omitempty"`
	Name      string     `json:"name,omitempty" yaml:"name,omitempty"`
	Colour    string     `json:"colour,omitempty" yaml:"colour,omitempty"`
	Image     string     `json:"image,omitempty" yaml:"image,omitempty"`
}

// Editor applies commands to a layout.
type Editor struct {
	layout  *model.Layout
	lib     *catalog.Library
	history *History
	logger  *log.Logger
}

// New creates an editor over layout. The layout's device types become the
// editor's catalog.
func New(layout *model.Layout) *Editor {
	if layout.Images == nil {
		layout.Images = map[string]string{}
	}
	return &Editor{
		layout:  layout,
		lib:     catalog.NewLibrary(layout.DeviceTypes),
		history: NewHistory(),
		logger:  log.New(io.Discard),
	}
}

// SetLogger sets the logger for the editor.
func (e *Editor) SetLogger(l *log.Logger) {
	e.logger = l
}

// Layout returns the layout being edited.
func (e *Editor) Layout() *model.Layout {
	return e.layout
}

// Catalog returns the editor's device library.
func (e *Editor) Catalog() *catalog.Library {
	return e.lib
}

// History returns the undo history.
func (e *Editor) History() *History {
	return e.history
}

// Apply executes cmd. Failed commands leave the layout untouched and are
// not recorded in the history.
func (e *Editor) Apply(cmd Command) engine.Result {
	switch cmd.Op {
	case OpUndo:
		return e.undo()
	case OpRedo:
		return e.redo()
	}

	before := MakeSnapshot(e.layout, describe(cmd))
	res := e.dispatch(cmd)
	if res.Success {
		e.history.Push(before)
		e.layout.DeviceTypes = e.lib.List()
		e.logger.Debug("command applied", "op", cmd.Op, "reason", res.Reason)
	} else {
		e.logger.Warn("command rejected", "op", cmd.Op, "reason", res.Reason, "message", res.Message)
	}
	return res
}

func (e *Editor) dispatch(cmd Command) engine.Result {
	rack := &e.layout.Rack

	switch cmd.Op {
	case OpPlace:
		face := cmd.Face
		if face == "" {
			face = model.FaceFront
		}
		return engine.PlaceDevice(rack, e.lib, engine.PlaceRequest{
			Slug:     cmd.Slug,
			Position: cmd.Position,
			Face:     face,
			Name:     cmd.Name,
			Colour:   cmd.Colour,
		})

	case OpRemove:
		if cmd.ID != "" {
			return engine.RemoveByID(rack, cmd.ID, e.layout)
		}
		if cmd.Index != nil {
			return engine.RemoveAt(rack, *cmd.Index, e.layout)
		}
		return invalid("remove needs an id or index")

	case OpMove:
		return engine.Reposition(rack, e.lib, cmd.ID, cmd.Position, cmd.Face)

	case OpNudge:
		idx, res, found := e.deviceIndex(cmd)
		if !found {
			return res
		}
		return engine.Nudge(rack, e.lib, idx, cmd.Direction, cmd.Step)

	case OpResize:
		return engine.ResizeRack(rack, cmd.Height, e.lib)

	case OpPlaceChild:
		return engine.PlaceInBay(rack, e.lib, cmd.ParentID, cmd.Slug, cmd.SlotID, cmd.Name)

	case OpRemoveChild:
		return engine.RemoveFromBay(rack, cmd.ParentID, cmd.ID, e.layout)

	case OpDeleteType:
		return engine.RemoveDeviceType(rack, e.lib, cmd.Slug, e.layout)

	case OpSetImage:
		return e.setImage(cmd)

	default:
		return invalid(fmt.Sprintf("unknown op %q", cmd.Op))
	}
}

// deviceIndex resolves a command's target placement by id or index.
func (e *Editor) deviceIndex(cmd Command) (int, engine.Result, bool) {
	if cmd.ID != "" {
		idx := e.layout.Rack.FindDevice(cmd.ID)
		if idx < 0 {
			return -1, engine.Result{Reason: engine.ReasonNotFound, Message: fmt.Sprintf("placement %q not found", cmd.ID)}, false
		}
		return idx, engine.Result{}, true
	}
	if cmd.Index != nil {
		return *cmd.Index, engine.Result{}, true
	}
	return -1, invalid("command needs an id or index"), false
}

// setImage records an image override for a placement (by id) or a device
// type (by slug).
func (e *Editor) setImage(cmd Command) engine.Result {
	if cmd.Image == "" {
		return invalid("set-image needs an image reference")
	}
	switch {
	case cmd.ID != "":
		idx := e.layout.Rack.FindDevice(cmd.ID)
		if idx < 0 {
			return engine.Result{Reason: engine.ReasonNotFound, Message: fmt.Sprintf("placement %q not found", cmd.ID)}
		}
		d := &e.layout.Rack.Devices[idx]
		face := model.FaceFront
		if cmd.Face == model.FaceRear {
			face = model.FaceRear
			d.RearImage = cmd.Image
		} else {
			d.FrontImage = cmd.Image
		}
		e.layout.Images[d.ImageKey(face)] = cmd.Image
	case cmd.Slug != "":
		if !e.lib.Has(cmd.Slug) {
			return engine.Result{Reason: engine.ReasonNotFound, Message: fmt.Sprintf("device type %q not found", cmd.Slug)}
		}
		e.layout.Images[cmd.Slug] = cmd.Image
	default:
		return invalid("set-image needs an id or slug")
	}
	return engine.Result{Success: true, Reason: engine.ReasonOK, Data: cmd.Image}
}

func (e *Editor) undo() engine.Result {
	if !e.history.CanUndo() {
		return invalid("nothing to undo")
	}
	label := e.history.UndoLabel()
	snap, _ := e.history.Undo(MakeSnapshot(e.layout, ""))
	e.restore(snap)
	e.logger.Debug("undo", "label", label)
	return engine.Result{Success: true, Reason: engine.ReasonOK, Message: "undid " + label, Data: label}
}

func (e *Editor) redo() engine.Result {
	if !e.history.CanRedo() {
		return invalid("nothing to redo")
	}
	label := e.history.RedoLabel()
	snap, _ := e.history.Redo(MakeSnapshot(e.layout, ""))
	e.restore(snap)
	e.logger.Debug("redo", "label", label)
	return engine.Result{Success: true, Reason: engine.ReasonOK, Message: "redid " + label, Data: label}
}

func (e *Editor) restore(s Snapshot) {
	e.layout.Rack = s.Rack
	e.layout.DeviceTypes = s.DeviceTypes
	e.layout.Images = s.Images
	e.lib = catalog.NewLibrary(s.DeviceTypes)
}

func invalid(msg string) engine.Result {
	return engine.Result{Reason: engine.ReasonInvalidInput, Message: msg}
}

func describe(cmd Command) string {
	switch {
	case cmd.Slug != "":
		return fmt.Sprintf("%s %s", cmd.Op, cmd.Slug)
	case cmd.ID != "":
		return fmt.Sprintf("%s %s", cmd.Op, cmd.ID)
	case cmd.Op == OpResize:
		return fmt.Sprintf("resize %dU", cmd.Height)
	default:
		return string(cmd.Op)
	}
}
