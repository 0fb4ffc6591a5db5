// Package cli renders positions as text for the command-line tools.
package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/takumi-tak/takumi/tak"
)

type GlyphSet struct {
	Flat     string
	Wall     string
	Capstone string
}

type Glyphs struct {
	White, Black GlyphSet
}

var DefaultGlyphs = Glyphs{
	White: GlyphSet{
		Flat:     "W",
		Wall:     "WS",
		Capstone: "WC",
	},
	Black: GlyphSet{
		Flat:     "B",
		Wall:     "BS",
		Capstone: "BC",
	},
}

var UnicodeGlyphs = Glyphs{
	White: GlyphSet{
		Flat:     "□",
		Wall:     "║",
		Capstone: "♙",
	},
	Black: GlyphSet{
		Flat:     "▪",
		Wall:     "┃",
		Capstone: "♟",
	},
}

func (g *Glyphs) glyph(p tak.Piece) string {
	set := &g.White
	if p.Color() == tak.Black {
		set = &g.Black
	}
	switch p.Kind() {
	case tak.Flat:
		return set.Flat
	case tak.Wall:
		return set.Wall
	case tak.Capstone:
		return set.Capstone
	default:
		panic(fmt.Sprintf("bad stone %v", p))
	}
}

// RenderBoard draws p with stacks listed bottom first.
func RenderBoard(g *Glyphs, out io.Writer, p *tak.Position) {
	if g == nil {
		g = &DefaultGlyphs
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "[%s to play]\n", p.ToMove())
	w := tabwriter.NewWriter(out, 4, 8, 1, '\t', 0)
	for y := p.Size() - 1; y >= 0; y-- {
		fmt.Fprintf(w, "%c.\t", '1'+y)
		for x := 0; x < p.Size(); x++ {
			var stk []string
			for _, stone := range p.At(x, y) {
				stk = append(stk, g.glyph(stone))
			}
			fmt.Fprintf(w, "[%s]\t", strings.Join(stk, " "))
		}
		fmt.Fprintf(w, "\n")
	}
	fmt.Fprintf(w, "\t")
	for x := 0; x < p.Size(); x++ {
		fmt.Fprintf(w, "%c.\t", 'a'+x)
	}
	fmt.Fprintf(w, "\n")
	w.Flush()
	wf, wc := p.Reserves(tak.White)
	bf, bc := p.Reserves(tak.Black)
	fmt.Fprintf(out, "reserves: W:%d/%d B:%d/%d\n", wf, wc, bf, bc)
}

// FormatOutcome describes a finished game in a sentence.
func FormatOutcome(o tak.Outcome) string {
	if !o.Over {
		return "in progress"
	}
	var b strings.Builder
	if o.Winner == tak.NoColor {
		b.WriteString("draw")
	} else {
		fmt.Fprintf(&b, "%s wins by ", o.Winner)
		switch o.Reason {
		case tak.RoadWin:
			b.WriteString("building a road")
		case tak.FlatWin:
			b.WriteString("flats count")
		case tak.DefaultWin:
			b.WriteString("default")
		}
	}
	fmt.Fprintf(&b, " (flats: white=%d black=%d)", o.WhiteFlats, o.BlackFlats)
	return b.String()
}
