// Package engine maintains a consistent, non-overlapping occupancy model of
// a rack across its front and rear faces.
//
// Every operation is synchronous and detect-before-mutate: it validates the
// request against the current rack and either commits the change or returns
// a failed Result with the rack untouched. Collision detection and resize
// validation are pure and safe to call speculatively.
//
// Container bays are a separate occupancy namespace keyed by slot id; see
// container.go. They never take part in U-grid collision checks.
package engine

import (
	"errors"
	"fmt"
)

// Reason is a machine-readable outcome code carried by every Result.
type Reason string

const (
	ReasonOK               Reason = "ok"
	ReasonMoved            Reason = "moved"
	ReasonNotFound         Reason = "not_found"
	ReasonOutOfBounds      Reason = "out_of_bounds"
	ReasonCollision        Reason = "collision"
	ReasonAtBoundary       Reason = "at_boundary"
	ReasonNoValidPosition  Reason = "no_valid_position"
	ReasonResizeConflict   Reason = "resize_conflict"
	ReasonSlotIncompatible Reason = "slot_incompatible"
	ReasonInvalidInput     Reason = "invalid_input"
)

// Sentinel errors, one per failure reason. Result.Err wraps these so
// callers can use errors.Is.
var (
	ErrNotFound         = errors.New("engine: not found")
	ErrOutOfBounds      = errors.New("engine: out of bounds")
	ErrCollision        = errors.New("engine: collision")
	ErrAtBoundary       = errors.New("engine: at boundary")
	ErrNoValidPosition  = errors.New("engine: no valid position")
	ErrResizeConflict   = errors.New("engine: resize conflict")
	ErrSlotIncompatible = errors.New("engine: slot incompatible")
	ErrInvalidInput     = errors.New("engine: invalid input")
)

var reasonErrors = map[Reason]error{
	ReasonNotFound:         ErrNotFound,
	ReasonOutOfBounds:      ErrOutOfBounds,
	ReasonCollision:        ErrCollision,
	ReasonAtBoundary:       ErrAtBoundary,
	ReasonNoValidPosition:  ErrNoValidPosition,
	ReasonResizeConflict:   ErrResizeConflict,
	ReasonSlotIncompatible: ErrSlotIncompatible,
	ReasonInvalidInput:     ErrInvalidInput,
}

// Result is the discriminated outcome of an engine operation.
//
// Data depends on the operation: the new or moved model.PlacedDevice on
// success, []Blocker on collision, []ResizeConflict on resize conflict,
// a model.ChildDevice for bay placements.
type Result struct {
	Success bool   `json:"success"`
	Reason  Reason `json:"reason"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Err converts a failed result into an error wrapping the reason's
// sentinel. It returns nil for successful results.
func (r Result) Err() error {
	if r.Success {
		return nil
	}
	base, ok := reasonErrors[r.Reason]
	if !ok {
		base = fmt.Errorf("engine: %s", r.Reason)
	}
	if r.Message == "" {
		return base
	}
	return fmt.Errorf("%w: %s", base, r.Message)
}

func ok(reason Reason, data any) Result {
	return Result{Success: true, Reason: reason, Data: data}
}

func fail(reason Reason, data any, format string, args ...any) Result {
	return Result{
		Success: false,
		Reason:  reason,
		Message: fmt.Sprintf(format, args...),
		Data:    data,
	}
}
