package ai

import (
	"sort"

	"github.com/takumi-tak/takumi/bitboard"
	"github.com/takumi-tak/takumi/tak"
)

// moveGenerator yields the table move, then the principal variation
// move, then the remaining legal moves best first.
type moveGenerator struct {
	s     *searcher
	f     *frame
	ply   int
	depth int
	p     *tak.Position

	te *tableEntry
	pv []tak.Move

	ms []tak.Move
	i  int
}

type byScore struct {
	ms     []tak.Move
	scores []int
}

func (b byScore) Len() int           { return len(b.ms) }
func (b byScore) Less(i, j int) bool { return b.scores[i] > b.scores[j] }
func (b byScore) Swap(i, j int) {
	b.ms[i], b.ms[j] = b.ms[j], b.ms[i]
	b.scores[i], b.scores[j] = b.scores[j], b.scores[i]
}

func (mg *moveGenerator) Next() (m tak.Move, p *tak.Position) {
	for {
		var m tak.Move
		switch mg.i {
		case 0:
			mg.i++
			if mg.te != nil {
				m = mg.te.m
				break
			}
			fallthrough
		case 1:
			mg.i++
			if len(mg.pv) > 0 {
				m = mg.pv[0]
				if mg.te != nil && m.Equal(mg.te.m) {
					continue
				}
				break
			}
			fallthrough
		case 2:
			mg.i++
			mg.f.moves = mg.p.AllMoves(mg.f.moves[:0])
			mg.ms = mg.f.moves
			if !mg.s.ai.cfg.NoSort {
				mg.sort()
			}
			fallthrough
		default:
			mg.i++
			if len(mg.ms) == 0 {
				return tak.Move{}, nil
			}
			m = mg.ms[0]
			mg.ms = mg.ms[1:]
			if mg.te != nil && mg.te.m.Equal(m) {
				continue
			}
			if len(mg.pv) != 0 && mg.pv[0].Equal(m) {
				continue
			}
		}
		child, e := mg.p.Move(m)
		if e == nil {
			return m, child
		}
	}
}

func (mg *moveGenerator) sort() {
	scores := mg.f.scores[:0]
	for _, m := range mg.ms {
		scores = append(scores, mg.score(m))
	}
	mg.f.scores = scores
	sort.Stable(byScore{mg.ms, scores})
}

const (
	classThreat  = 3 << 20
	classCapture = 2 << 20
	classQuiet   = 1 << 20
	classWall    = 0
)

// score ranks moves cheaply: placements that extend our road groups
// and spreads that take over an enemy stack first, walls last, and
// the history heuristic within each class.
func (mg *moveGenerator) score(m tak.Move) int {
	h := mg.s.history[historyKey(m)]
	if h >= classQuiet {
		h = classQuiet - 1
	}
	p := mg.p
	a := p.Analysis()
	c := p.Constants()
	own := a.WhiteRoad
	if p.ToMove() == tak.Black {
		own = a.BlackRoad
	}
	if m.Type == tak.Place {
		if m.Kind == tak.Wall {
			return classWall + h
		}
		bit := uint64(1) << uint(int(m.Y)*p.Size()+int(m.X))
		if bitboard.Grow(c, c.Mask, bit)&own != 0 {
			return classThreat + h
		}
		return classQuiet + h
	}
	x, y := m.Dest()
	dst := p.Top(int(x), int(y))
	if dst != 0 && dst.Color() != p.ToMove() {
		return classCapture + h
	}
	return classQuiet + h
}

func historyKey(m tak.Move) tak.Move {
	m.Flatten = false
	return m
}
