package engine

import (
	"math"

	"github.com/piwi3910/RackPlan/internal/catalog"
	"github.com/piwi3910/RackPlan/internal/model"
)

// Nudge directions.
const (
	Up   = 1
	Down = -1
)

// MoveResult is the outcome of a nudge search. NewPosition is nil unless
// Success is true.
type MoveResult struct {
	Success     bool     `json:"success"`
	Reason      Reason   `json:"reason"`
	NewPosition *float64 `json:"new_position"`
}

// FindNextValidPosition searches for the nearest clear position for the
// device at index, stepping in direction (Up or Down) by step units. A
// non-positive step defaults to the device's own height, which makes the
// device snap over whole neighbours.
//
// The search leapfrogs blocked candidates until it finds a clear, in-bounds
// position (ReasonMoved) or leaves the rack. Leaving the rack on the very
// first step reports ReasonAtBoundary; leaving it after one or more blocked
// candidates reports ReasonNoValidPosition. Lookup failures also report
// ReasonNoValidPosition. A bad direction or step, or a type whose height is
// not a positive half-U, reports ReasonInvalidInput.
//
// The loop is bounded by ceil(height/step)+1 iterations, which always
// carries the candidate past the rack edge. The function does not mutate
// rack.
func FindNextValidPosition(rack model.Rack, cat catalog.Catalog, index, direction int, step float64) MoveResult {
	if direction != Up && direction != Down {
		return MoveResult{Reason: ReasonInvalidInput}
	}
	if index < 0 || index >= len(rack.Devices) {
		return MoveResult{Reason: ReasonNoValidPosition}
	}
	d := rack.Devices[index]
	dt, err := cat.Resolve(d.DeviceType)
	if err != nil {
		return MoveResult{Reason: ReasonNoValidPosition}
	}
	if !validHeight(dt) {
		return MoveResult{Reason: ReasonInvalidInput}
	}
	if step <= 0 {
		step = dt.UHeight
	}
	if !model.IsHalfUnit(step) {
		return MoveResult{Reason: ReasonInvalidInput}
	}

	face := EffectiveFace(dt, d.Face)
	maxSteps := int(math.Ceil(float64(rack.Height)/step)) + 1
	delta := float64(direction) * step

	candidate := d.Position
	for i := 0; i < maxSteps; i++ {
		candidate += delta
		if !InBounds(rack, candidate, dt.UHeight) {
			if i == 0 {
				return MoveResult{Reason: ReasonAtBoundary}
			}
			return MoveResult{Reason: ReasonNoValidPosition}
		}
		c := Candidate{Position: candidate, UHeight: dt.UHeight, Face: face}
		if !HasCollision(rack, cat, c, d.ID) {
			pos := candidate
			return MoveResult{Success: true, Reason: ReasonMoved, NewPosition: &pos}
		}
	}
	return MoveResult{Reason: ReasonNoValidPosition}
}

// CanMoveUp reports whether a default-step nudge up would succeed.
func CanMoveUp(rack model.Rack, cat catalog.Catalog, index int) bool {
	return FindNextValidPosition(rack, cat, index, Up, 0).Success
}

// CanMoveDown reports whether a default-step nudge down would succeed.
func CanMoveDown(rack model.Rack, cat catalog.Catalog, index int) bool {
	return FindNextValidPosition(rack, cat, index, Down, 0).Success
}

// Nudge runs FindNextValidPosition and commits the new position on success.
// The result data is the moved model.PlacedDevice.
func Nudge(rack *model.Rack, cat catalog.Catalog, index, direction int, step float64) Result {
	mr := FindNextValidPosition(*rack, cat, index, direction, step)
	if !mr.Success {
		switch mr.Reason {
		case ReasonAtBoundary:
			return fail(mr.Reason, nil, "device is already at the %s of the rack", edgeName(direction))
		case ReasonInvalidInput:
			return fail(mr.Reason, nil, "direction must be +1 or -1, and step and device height multiples of 0.5U")
		default:
			return fail(mr.Reason, nil, "no free position %s", directionName(direction))
		}
	}
	rack.Devices[index].Position = *mr.NewPosition
	return ok(ReasonMoved, rack.Devices[index])
}

func edgeName(direction int) string {
	if direction == Up {
		return "top"
	}
	return "bottom"
}

func directionName(direction int) string {
	if direction == Up {
		return "above"
	}
	return "below"
}
