package tak

import "github.com/takumi-tak/takumi/bitboard"

type WinReason int

const (
	RoadWin WinReason = 1 + iota
	FlatWin
	DefaultWin
)

func (r WinReason) String() string {
	switch r {
	case RoadWin:
		return "road"
	case FlatWin:
		return "flats"
	case DefaultWin:
		return "default"
	default:
		return "none"
	}
}

// Outcome describes whether and how a game has ended. A finished game
// with Winner == NoColor is a draw.
type Outcome struct {
	Over       bool
	Winner     Color
	Reason     WinReason
	WhiteFlats int
	BlackFlats int
}

func (p *Position) Status() Outcome {
	return p.status
}

func (p *Position) GameOver() (over bool, winner Color) {
	return p.status.Over, p.status.Winner
}

// FlatsWinner applies komi to a flat count.
func (k Komi) FlatsWinner(white, black int) Color {
	black += k.Amount
	switch {
	case white > black:
		return White
	case black > white:
		return Black
	case k.Half:
		return Black
	default:
		return NoColor
	}
}

func (p *Position) countFlats() (w, b int) {
	a := &p.analysis
	w = bitboard.Popcount(a.WhiteRoad)
	b = bitboard.Popcount(a.BlackRoad)
	return w, b
}

func (p *Position) hasRoad() (Color, bool) {
	white, black := false, false
	for _, g := range p.analysis.WhiteGroups {
		if bitboard.Spans(&p.cfg.c, g) {
			white = true
			break
		}
	}
	for _, g := range p.analysis.BlackGroups {
		if bitboard.Spans(&p.cfg.c, g) {
			black = true
			break
		}
	}
	switch {
	case white && black:
		// the player who just moved wins a double road
		return p.ToMove().Flip(), true
	case white:
		return White, true
	case black:
		return Black, true
	}
	return NoColor, false
}

func (p *Position) computeStatus() Outcome {
	var o Outcome
	o.WhiteFlats, o.BlackFlats = p.countFlats()
	if c, ok := p.hasRoad(); ok {
		o.Over, o.Winner, o.Reason = true, c, RoadWin
		return o
	}
	full := p.analysis.Occupied == p.cfg.c.Mask
	if full || p.whiteFlats+p.whiteCaps == 0 || p.blackFlats+p.blackCaps == 0 {
		o.Over, o.Reason = true, FlatWin
		o.Winner = p.cfg.Komi.FlatsWinner(o.WhiteFlats, o.BlackFlats)
		return o
	}
	if !p.hasMove() {
		o.Over, o.Winner, o.Reason = true, p.ToMove().Flip(), DefaultWin
	}
	return o
}
