package tak

import "fmt"

type MoveType byte

const (
	Place MoveType = 1 + iota
	Spread
)

type Direction byte

const (
	Left Direction = 1 + iota
	Right
	Down
	Up
)

// directions is the order in which spreads are generated.
var directions = [4]Direction{Left, Right, Down, Up}

func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	case Down:
		return 0, -1
	case Up:
		return 0, 1
	}
	panic(fmt.Sprintf("bad direction: %d", d))
}

func (d Direction) Valid() bool {
	return d >= Left && d <= Up
}

// Move is either a placement of Kind at (X, Y) or a spread of the
// stack at (X, Y) in Dir, dropping Drops stones on each successive
// square. Flatten marks a spread whose capstone flattens a wall.
type Move struct {
	X, Y    int8
	Type    MoveType
	Kind    Kind
	Dir     Direction
	Drops   Slides
	Flatten bool
}

func MakePlace(x, y int, k Kind) Move {
	return Move{X: int8(x), Y: int8(y), Type: Place, Kind: k}
}

func MakeSpread(x, y int, d Direction, drops ...int) Move {
	return Move{X: int8(x), Y: int8(y), Type: Spread, Dir: d, Drops: MkSlides(drops...)}
}

// Equal compares moves ignoring the Flatten marker, which is implied
// by the position the move is played in.
func (m Move) Equal(rhs Move) bool {
	if m.X != rhs.X || m.Y != rhs.Y || m.Type != rhs.Type {
		return false
	}
	if m.Type == Place {
		return m.Kind == rhs.Kind
	}
	return m.Dir == rhs.Dir && m.Drops == rhs.Drops
}

func (m Move) IsSpread() bool {
	return m.Type == Spread
}

// Carry is the number of stones picked up by a spread.
func (m Move) Carry() int {
	return m.Drops.Sum()
}

// Dest is the last square a move touches.
func (m Move) Dest() (int8, int8) {
	switch m.Type {
	case Place:
		return m.X, m.Y
	case Spread:
		dx, dy := m.Dir.Delta()
		n := int8(m.Drops.Len())
		return m.X + int8(dx)*n, m.Y + int8(dy)*n
	}
	panic("bad type")
}

// Move plays m and returns the resulting position. The receiver is
// never modified; on error the returned position is nil.
func (p *Position) Move(m Move) (*Position, error) {
	if p.status.Over {
		return nil, ErrGameOver
	}
	if !p.onBoard(int(m.X), int(m.Y)) {
		return nil, ErrOffBoard
	}
	var next *Position
	var err error
	switch m.Type {
	case Place:
		next, err = p.place(m)
	case Spread:
		next, err = p.spread(m)
	default:
		return nil, ErrBadMoveType
	}
	if err != nil {
		return nil, err
	}
	m.Flatten = p.flattens(m)
	next.move++
	next.parent = p
	next.last = m
	next.analyze()
	return next, nil
}

func (p *Position) place(m Move) (*Position, error) {
	i := p.index(int(m.X), int(m.Y))
	if len(p.board[i]) != 0 {
		return nil, ErrOccupiedTarget
	}
	color := p.ToMove()
	if p.move < 2 {
		if m.Kind != Flat {
			return nil, ErrOpeningRuleViolation
		}
		color = color.Flip()
	}
	flats, caps := p.Reserves(color)
	switch m.Kind {
	case Flat, Wall:
		if flats == 0 {
			return nil, ErrReserveExhausted
		}
	case Capstone:
		if caps == 0 {
			return nil, ErrReserveExhausted
		}
	default:
		return nil, ErrBadKind
	}
	next := p.clone()
	switch {
	case m.Kind == Capstone && color == White:
		next.whiteCaps--
	case m.Kind == Capstone:
		next.blackCaps--
	case color == White:
		next.whiteFlats--
	default:
		next.blackFlats--
	}
	next.board[i] = Square{MakePiece(color, m.Kind)}
	return next, nil
}

func (p *Position) spread(m Move) (*Position, error) {
	if p.move < 2 {
		return nil, ErrOpeningRuleViolation
	}
	if !m.Dir.Valid() {
		return nil, ErrBadCarry
	}
	i := p.index(int(m.X), int(m.Y))
	stack := p.board[i]
	if len(stack) == 0 {
		return nil, ErrEmptyOrigin
	}
	if stack.Top().Color() != p.ToMove() {
		return nil, ErrNotOwner
	}
	carry := 0
	for it := m.Drops.Iterator(); it.Ok(); it = it.Next() {
		if it.Elem() == 0 {
			return nil, ErrBadCarry
		}
		carry += it.Elem()
	}
	if carry == 0 || carry > p.Size() || carry > len(stack) {
		return nil, ErrBadCarry
	}
	ex, ey := m.Dest()
	if !p.onBoard(int(ex), int(ey)) {
		return nil, ErrOffBoard
	}

	next := p.clone()
	hand := stack[len(stack)-carry:]
	next.board[i] = stack[: len(stack)-carry : len(stack)-carry]
	if len(next.board[i]) == 0 {
		next.board[i] = nil
	}
	dx, dy := m.Dir.Delta()
	x, y := int(m.X), int(m.Y)
	for it := m.Drops.Iterator(); it.Ok(); it = it.Next() {
		x, y = x+dx, y+dy
		j := p.index(x, y)
		dst := next.board[j]
		n := it.Elem()
		flatten := false
		switch dst.Top().Kind() {
		case Capstone:
			return nil, ErrBlockedByWallOrCapstone
		case Wall:
			if !it.Last() || n != 1 || hand[0].Kind() != Capstone {
				return nil, ErrBlockedByWallOrCapstone
			}
			flatten = true
		}
		sq := make(Square, len(dst)+n)
		copy(sq, dst)
		if flatten {
			sq[len(dst)-1] = MakePiece(dst.Top().Color(), Flat)
		}
		copy(sq[len(dst):], hand[:n])
		hand = hand[n:]
		next.board[j] = sq
	}
	return next, nil
}

// flattens reports whether a legal spread m flattens a wall.
func (p *Position) flattens(m Move) bool {
	if m.Type != Spread {
		return false
	}
	x, y := m.Dest()
	return p.Top(int(x), int(y)).Kind() == Wall
}
