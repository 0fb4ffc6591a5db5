package tak

import (
	"errors"
	"fmt"
)

// Reason classifies why a move was rejected.
type Reason int

const (
	EmptyOrigin Reason = 1 + iota
	NotOwner
	ReserveExhausted
	OccupiedTarget
	BlockedByWallOrCapstone
	OffBoard
	OpeningRuleViolation
	BadCarry
	GameOver
)

func (r Reason) String() string {
	switch r {
	case EmptyOrigin:
		return "empty origin"
	case NotOwner:
		return "origin not controlled by mover"
	case ReserveExhausted:
		return "reserve exhausted"
	case OccupiedTarget:
		return "target occupied"
	case BlockedByWallOrCapstone:
		return "blocked by wall or capstone"
	case OffBoard:
		return "off board"
	case OpeningRuleViolation:
		return "opening rule violation"
	case BadCarry:
		return "bad carry"
	case GameOver:
		return "game over"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// IllegalMove is returned by Position.Move for any move the rules
// forbid. Each reason has a sentinel value for use with errors.Is.
type IllegalMove struct {
	Reason Reason
}

func (e *IllegalMove) Error() string {
	return "illegal move: " + e.Reason.String()
}

var (
	ErrEmptyOrigin             = &IllegalMove{EmptyOrigin}
	ErrNotOwner                = &IllegalMove{NotOwner}
	ErrReserveExhausted        = &IllegalMove{ReserveExhausted}
	ErrOccupiedTarget          = &IllegalMove{OccupiedTarget}
	ErrBlockedByWallOrCapstone = &IllegalMove{BlockedByWallOrCapstone}
	ErrOffBoard                = &IllegalMove{OffBoard}
	ErrOpeningRuleViolation    = &IllegalMove{OpeningRuleViolation}
	ErrBadCarry                = &IllegalMove{BadCarry}
	ErrGameOver                = &IllegalMove{GameOver}
)

var (
	ErrNoHistory   = errors.New("no move to undo")
	ErrBadMoveType = errors.New("bad move type")
	ErrBadKind     = errors.New("bad piece kind")
	ErrBadSize     = errors.New("unsupported board size")
)
