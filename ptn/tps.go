package ptn

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/takumi-tak/takumi/tak"
)

// ParseTPS parses a position with the default reserves and no komi.
func ParseTPS(tps string) (*tak.Position, error) {
	return ParseTPSConfig(tps, tak.Config{})
}

// ParseTPSConfig parses a position using cfg for reserves and komi.
// The board size always comes from the TPS string.
func ParseTPSConfig(tps string, cfg tak.Config) (*tak.Position, error) {
	var pieces [][]tak.Square
	words := strings.Fields(tps)
	if len(words) != 3 {
		return nil, malformed("TPS: wrong number of words")
	}
	turn, err := strconv.Atoi(words[1])
	if err != nil || (turn != 1 && turn != 2) {
		return nil, malformed("TPS: bad turn: %s", words[1])
	}
	move, err := strconv.Atoi(words[2])
	if err != nil || move < 1 {
		return nil, malformed("TPS: bad move: %s", words[2])
	}
	ply := 2*(move-1) + (turn - 1)

	rows := strings.Split(words[0], "/")
	for _, r := range rows {
		row, err := parseRow(r)
		if err != nil {
			return nil, err
		}
		pieces = append([][]tak.Square{row}, pieces...)
	}
	if len(pieces) < 3 || len(pieces) > 8 {
		return nil, malformed("TPS: bad size board: %d", len(pieces))
	}
	for i, r := range pieces {
		if len(r) != len(pieces) {
			return nil, malformed("TPS: row %d bad length: %d", i+1, len(r))
		}
	}
	cfg.Size = len(pieces)
	p, err := tak.FromSquares(cfg, pieces, ply)
	if err != nil {
		return nil, fmt.Errorf("TPS: %w", err)
	}
	return p, nil
}

func FormatTPS(p *tak.Position) string {
	var rows []string
	for i := p.Size() - 1; i >= 0; i-- {
		rows = append(rows, tpsRow(p, i))
	}
	toMove := "1"
	if p.ToMove() == tak.Black {
		toMove = "2"
	}
	return fmt.Sprintf("%s %s %d", strings.Join(rows, "/"), toMove, p.MoveNumber()/2+1)
}

func tpsRow(p *tak.Position, y int) string {
	var bits []string
	for x := 0; x < p.Size(); {
		var i int
		for i = 0; x+i < p.Size() && len(p.At(x+i, y)) == 0; i++ {
		}
		switch i {
		case 0:
			bits = append(bits, tpsSquare(p.At(x, y)))
			x++
		case 1:
			bits = append(bits, "x")
		default:
			bits = append(bits, fmt.Sprintf("x%d", i))
		}
		x += i
	}
	return strings.Join(bits, ",")
}

func tpsSquare(sq tak.Square) string {
	out := make([]byte, 0, len(sq)+1)
	for _, piece := range sq {
		if piece.Color() == tak.White {
			out = append(out, '1')
		} else {
			out = append(out, '2')
		}
	}
	switch sq.Top().Kind() {
	case tak.Wall:
		out = append(out, 'S')
	case tak.Capstone:
		out = append(out, 'C')
	}
	return string(out)
}

func parseRow(row string) ([]tak.Square, error) {
	var out []tak.Square
	for _, bit := range strings.Split(row, ",") {
		if bit == "" {
			return nil, malformed("TPS: empty square in %q", row)
		}
		if bit[0] == 'x' {
			count := 1
			if len(bit) > 1 {
				n, err := strconv.Atoi(bit[1:])
				if err != nil || n < 1 || n > 8 {
					return nil, malformed("TPS: bad run %q", bit)
				}
				count = n
			}
			for i := 0; i < count; i++ {
				out = append(out, nil)
			}
			continue
		}
		stack := make(tak.Square, 0, len(bit))
		for i, b := range bit {
			switch b {
			case '1':
				stack = append(stack, tak.MakePiece(tak.White, tak.Flat))
			case '2':
				stack = append(stack, tak.MakePiece(tak.Black, tak.Flat))
			case 'C', 'S':
				if i != len(bit)-1 || len(stack) == 0 {
					return nil, malformed("TPS: stone type not at top of stack: %s", bit)
				}
				kind := tak.Capstone
				if b == 'S' {
					kind = tak.Wall
				}
				stack[len(stack)-1] = tak.MakePiece(stack[len(stack)-1].Color(), kind)
			default:
				return nil, malformed("TPS: malformed stack: %s", bit)
			}
		}
		out = append(out, stack)
	}
	return out, nil
}
