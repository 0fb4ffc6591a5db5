package ptn

import (
	"fmt"

	"github.com/takumi-tak/takumi/tak"
)

// Iterator replays the moves of a PTN. Each call to Next yields the
// position before the next move, then the final position.
type Iterator struct {
	ptn *PTN
	i   int

	err  error
	over bool

	position *tak.Position
	ptnMove  int
	move     tak.Move
	pending  bool
}

func (p *PTN) Iterator() *Iterator {
	pos, err := p.InitialPosition()
	return &Iterator{
		ptn:      p,
		position: pos,
		err:      err,
	}
}

func (i *Iterator) Err() error {
	return i.err
}

func (i *Iterator) apply() bool {
	next, e := i.position.Move(i.move)
	if e != nil {
		i.err = fmt.Errorf("move %d (%s): %w", i.ptnMove, FormatMove(i.move), e)
		return false
	}
	i.position = next
	i.move = tak.Move{}
	i.pending = false
	return true
}

func (i *Iterator) Next() bool {
	if i.err != nil || i.over {
		return false
	}

	if i.pending {
		if !i.apply() {
			return false
		}
		if over, _ := i.position.GameOver(); over {
			i.over = true
			return true
		}
	}

	for i.i < len(i.ptn.Ops) {
		op := i.ptn.Ops[i.i]
		i.i++
		switch o := op.(type) {
		case *MoveNumber:
			i.ptnMove = o.Number
		case *Move:
			i.move = o.Move
			i.pending = true
			return true
		}
	}
	i.over = true
	return true
}

func (i *Iterator) Position() *tak.Position {
	return i.position
}

func (i *Iterator) PTNMove() int {
	return i.ptnMove
}

// PeekMove returns the move that the next call to Next will play.
func (i *Iterator) PeekMove() (tak.Move, bool) {
	return i.move, i.pending
}
