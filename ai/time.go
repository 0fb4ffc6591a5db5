package ai

import "time"

const maxMoveTime = 30 * time.Second

// MoveTime turns a game clock into a budget for the move at ply. The
// first few moves get a short fixed budget; after that a share of the
// remaining time is spent on top of the increment.
func MoveTime(ply int, remaining, increment time.Duration) time.Duration {
	base := time.Second
	var bank time.Duration
	if ply >= 6 {
		base = 3 * time.Second
		moves := ply
		if moves < 20 {
			moves = 20
		}
		moves += ply / 3
		bank = remaining / time.Duration(moves)
	}
	t := base + bank + increment
	if t > maxMoveTime {
		t = maxMoveTime
	}
	return t
}
