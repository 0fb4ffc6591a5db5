// Package symmetry maps Tak positions and moves through the eight
// rotations and reflections of the square board.
package symmetry

import (
	"github.com/takumi-tak/takumi/ptn"
	"github.com/takumi-tak/takumi/tak"
)

// Symmetry is one of the eight elements of the board's dihedral group.
type Symmetry int

const (
	Identity Symmetry = iota
	FlipX
	FlipY
	FlipDiag1
	FlipDiag2
	Rotate180
	RotateCW
	RotateCCW
)

// All lists every symmetry, Identity first.
var All = [...]Symmetry{
	Identity, FlipX, FlipY, FlipDiag1, FlipDiag2, Rotate180, RotateCW, RotateCCW,
}

// Apply maps (x, y) on a board of the given size.
func (s Symmetry) Apply(size int, x, y int8) (int8, int8) {
	flip := func(i int8) int8 { return int8(size) - 1 - i }
	switch s {
	case Identity:
		return x, y
	case FlipX:
		return flip(x), y
	case FlipY:
		return x, flip(y)
	case FlipDiag1:
		return y, x
	case FlipDiag2:
		return flip(y), flip(x)
	case Rotate180:
		return flip(x), flip(y)
	case RotateCW:
		return y, flip(x)
	case RotateCCW:
		return flip(y), x
	}
	panic("bad symmetry")
}

// Inverse returns the symmetry that undoes s.
func (s Symmetry) Inverse() Symmetry {
	switch s {
	case RotateCW:
		return RotateCCW
	case RotateCCW:
		return RotateCW
	}
	return s
}

// TransformMove maps m onto the board transformed by s.
func TransformMove(size int, s Symmetry, m tak.Move) tak.Move {
	out := m
	out.X, out.Y = s.Apply(size, m.X, m.Y)
	if !m.IsSpread() {
		return out
	}

	dx, dy := m.Dir.Delta()
	nx, ny := s.Apply(size, m.X+int8(dx), m.Y+int8(dy))
	switch {
	case nx == out.X && ny > out.Y:
		out.Dir = tak.Up
	case nx == out.X && ny < out.Y:
		out.Dir = tak.Down
	case nx < out.X && ny == out.Y:
		out.Dir = tak.Left
	case nx > out.X && ny == out.Y:
		out.Dir = tak.Right
	default:
		panic("symmetry is not sane")
	}
	return out
}

// Transform returns p with its board mapped through s. The result
// keeps p's configuration and ply but has no history.
func Transform(p *tak.Position, s Symmetry) (*tak.Position, error) {
	size := p.Size()
	board := make([][]tak.Square, size)
	for y := range board {
		board[y] = make([]tak.Square, size)
	}
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			rx, ry := s.Apply(size, int8(x), int8(y))
			board[ry][rx] = p.At(x, y)
		}
	}
	return tak.FromSquares(p.Config(), board, p.MoveNumber())
}

type PositionAndSymmetry struct {
	P *tak.Position
	S Symmetry
}

// Symmetries returns the distinct images of p, identity first.
func Symmetries(p *tak.Position) ([]PositionAndSymmetry, error) {
	seen := make(map[uint64]struct{}, len(All))
	var out []PositionAndSymmetry
	for _, s := range All {
		sp, err := Transform(p, s)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[sp.Key()]; ok {
			continue
		}
		seen[sp.Key()] = struct{}{}
		out = append(out, PositionAndSymmetry{sp, s})
	}
	return out, nil
}

// Canonical picks the image of p whose TPS sorts first, so every
// member of a symmetry class yields the same TPS. It returns that
// TPS along with the symmetry that maps p onto it.
func Canonical(p *tak.Position) (string, Symmetry, error) {
	images, err := Symmetries(p)
	if err != nil {
		return "", Identity, err
	}
	best, bestSym := "", Identity
	for _, im := range images {
		tps := ptn.FormatTPS(im.P)
		if best == "" || tps < best {
			best, bestSym = tps, im.S
		}
	}
	return best, bestSym, nil
}
