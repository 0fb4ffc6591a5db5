package ai

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/takumi-tak/takumi/bitboard"
	"github.com/takumi-tak/takumi/tak"
)

type Weights struct {
	TopFlat  int `json:",omitempty"`
	Wall     int `json:",omitempty"`
	Capstone int `json:",omitempty"`

	Flat     int `json:",omitempty"`
	Captured int `json:",omitempty"`

	Liberties int `json:",omitempty"`

	Tempo int `json:",omitempty"`

	// Mobility is scored per legal move of difference between the
	// sides, counting at most MobilityCap moves of difference.
	Mobility    int `json:",omitempty"`
	MobilityCap int `json:",omitempty"`

	Center int `json:",omitempty"`

	// Scarcity scales the flat count lead as reserves run out.
	Scarcity int `json:",omitempty"`

	// Groups is indexed by the number of files or ranks a road
	// group covers.
	Groups []int `json:",omitempty"`
}

var DefaultWeights = Weights{
	TopFlat:  400,
	Wall:     200,
	Capstone: 300,

	Flat:     100,
	Captured: 25,

	Liberties: 20,

	Tempo: 150,

	Mobility:    5,
	MobilityCap: 40,

	Center: 30,

	Scarcity: 150,

	Groups: []int{
		0,    // 0
		0,    // 1
		0,    // 2
		100,  // 3
		300,  // 4
		500,  // 5
		700,  // 6
		900,  // 7
		1100, // 8
	},
}

type EvaluationFunc func(p *tak.Position) int64

func MakeEvaluator(w *Weights) EvaluationFunc {
	if w == nil {
		w = &DefaultWeights
	}
	return func(p *tak.Position) int64 {
		return Evaluate(w, p)
	}
}

var DefaultEvaluate = MakeEvaluator(&DefaultWeights)

type sideFeatures struct {
	topFlats  int
	walls     int
	caps      int
	flats     int
	captured  int
	liberties int
	mobility  int
	center    int
	groups    int
	reserve   int
}

func features(w *Weights, p *tak.Position) (white, black sideFeatures) {
	c := p.Constants()
	a := p.Analysis()
	side := func(col tak.Color) *sideFeatures {
		if col == tak.White {
			return &white
		}
		return &black
	}
	for y := 0; y < p.Size(); y++ {
		for x := 0; x < p.Size(); x++ {
			sq := p.At(x, y)
			if len(sq) == 0 {
				continue
			}
			top := sq.Top()
			f := side(top.Color())
			switch top.Kind() {
			case tak.Wall:
				f.walls++
			case tak.Flat:
				f.topFlats++
			case tak.Capstone:
				f.caps++
				f.center += bitboard.Ring(c, uint(x), uint(y))
			}
			for i, stone := range sq {
				if stone.Kind() == tak.Flat {
					side(stone.Color()).flats++
				}
				if i < len(sq)-1 && i >= len(sq)-p.Size() && stone.Color() != top.Color() {
					f.captured++
				}
			}
		}
	}
	white.groups = scoreGroups(c, a.WhiteGroups, w)
	black.groups = scoreGroups(c, a.BlackGroups, w)

	white.liberties = bitboard.Popcount(bitboard.Grow(c, ^a.Black, a.WhiteRoad) &^ a.WhiteRoad)
	black.liberties = bitboard.Popcount(bitboard.Grow(c, ^a.White, a.BlackRoad) &^ a.BlackRoad)

	white.mobility = p.MoveCount(tak.White)
	black.mobility = p.MoveCount(tak.Black)

	wf, wc := p.Reserves(tak.White)
	bf, bc := p.Reserves(tak.Black)
	white.reserve = wf + wc
	black.reserve = bf + bc
	return white, black
}

func scoreGroups(c *bitboard.Constants, gs []uint64, ws *Weights) int {
	sc := 0
	for _, g := range gs {
		w, h := bitboard.Dimensions(c, g)
		if w < len(ws.Groups) {
			sc += ws.Groups[w]
		}
		if h < len(ws.Groups) {
			sc += ws.Groups[h]
		}
	}
	return sc
}

func (f *sideFeatures) score(w *Weights) int {
	return f.topFlats*w.TopFlat +
		f.walls*w.Wall +
		f.caps*w.Capstone +
		f.flats*w.Flat +
		f.captured*w.Captured +
		f.liberties*w.Liberties +
		f.center*w.Center +
		f.groups
}

// Evaluate scores a position for the side to move. Finished games
// score just inside WinThreshold; the search scores them itself.
func Evaluate(w *Weights, p *tak.Position) int64 {
	if over, winner := p.GameOver(); over {
		switch winner {
		case tak.NoColor:
			return 0
		case p.ToMove():
			return WinThreshold - 1
		default:
			return -(WinThreshold - 1)
		}
	}
	white, black := features(w, p)
	v := white.score(w) - black.score(w)

	mobility := white.mobility - black.mobility
	if w.MobilityCap > 0 {
		if mobility > w.MobilityCap {
			mobility = w.MobilityCap
		} else if mobility < -w.MobilityCap {
			mobility = -w.MobilityCap
		}
	}
	v += mobility * w.Mobility

	full, _ := tak.DefaultReserves(p.Size())
	if cfg := p.Config(); cfg.Pieces > 0 {
		full = cfg.Pieces
	}
	low := white.reserve
	if black.reserve < low {
		low = black.reserve
	}
	if full > 0 && low < full {
		lead := white.topFlats + white.caps - black.topFlats - black.caps - p.Komi().Amount
		v += w.Scarcity * lead * (full - low) / full
	}

	if p.ToMove() == tak.Black {
		v = -v
	}
	v += w.Tempo
	return clamp(int64(v))
}

func clamp(v int64) int64 {
	if v >= WinThreshold {
		return WinThreshold - 1
	}
	if v <= -WinThreshold {
		return -(WinThreshold - 1)
	}
	return v
}

func ExplainScore(w *Weights, out io.Writer, p *tak.Position) {
	white, black := features(w, p)
	tw := tabwriter.NewWriter(out, 4, 8, 1, '\t', 0)
	fmt.Fprintf(tw, "\twhite\tblack\n")
	fmt.Fprintf(tw, "flats\t%d\t%d\n", white.topFlats, black.topFlats)
	fmt.Fprintf(tw, "walls\t%d\t%d\n", white.walls, black.walls)
	fmt.Fprintf(tw, "caps\t%d\t%d\n", white.caps, black.caps)
	fmt.Fprintf(tw, "captured\t%d\t%d\n", white.captured, black.captured)
	fmt.Fprintf(tw, "stones\t%d\t%d\n", white.flats, black.flats)
	fmt.Fprintf(tw, "liberties\t%d\t%d\n", white.liberties, black.liberties)
	fmt.Fprintf(tw, "mobility\t%d\t%d\n", white.mobility, black.mobility)
	fmt.Fprintf(tw, "center\t%d\t%d\n", white.center, black.center)
	fmt.Fprintf(tw, "groups\t%d\t%d\n", white.groups, black.groups)
	fmt.Fprintf(tw, "reserve\t%d\t%d\n", white.reserve, black.reserve)

	c := p.Constants()
	a := p.Analysis()
	for i, g := range a.WhiteGroups {
		gw, gh := bitboard.Dimensions(c, g)
		fmt.Fprintf(tw, "g%d\t%dx%d\n", i, gw, gh)
	}
	for i, g := range a.BlackGroups {
		gw, gh := bitboard.Dimensions(c, g)
		fmt.Fprintf(tw, "g%d\t\t%dx%d\n", i, gw, gh)
	}
	fmt.Fprintf(tw, "score\t%d\n", Evaluate(w, p))
	tw.Flush()
}
