package ai

import (
	"errors"
	"time"

	"github.com/takumi-tak/takumi/tak"
)

// ErrSearchExhausted is returned when there is nothing to search: the
// game is over or the side to move has no legal move.
var ErrSearchExhausted = errors.New("no legal moves to search")

// Limits bounds a single search. Zero values mean no limit. The
// context deadline, if any, also applies.
type Limits struct {
	Time  time.Duration
	Nodes uint64

	// Progress, if set, is called on the searching goroutine after
	// each completed iteration.
	Progress func(Result)
}

// Result is the outcome of the deepest completed iteration. Score is
// from the point of view of the side to move.
type Result struct {
	Move    tak.Move
	Score   int64
	Depth   int
	Nodes   uint64
	PV      []tak.Move
	Elapsed time.Duration
}

// Mate reports whether the score is a forced win or loss.
func (r Result) Mate() bool {
	return r.Score > WinThreshold || r.Score < -WinThreshold
}
