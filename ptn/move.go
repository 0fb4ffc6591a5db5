package ptn

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/takumi-tak/takumi/tak"
)

// ErrMalformedNotation is wrapped by every error caused by text that
// is not valid notation, independent of whether the move is legal.
var ErrMalformedNotation = errors.New("malformed notation")

var moveRE = regexp.MustCompile(
	// [place] [carry] position [direction] [drops] [flatten]
	`^([CFS]?)([1-8]?)([a-h][1-8])([<>+-]?)([1-8]*)(\*?)$`,
)

func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedNotation, fmt.Sprintf(format, args...))
}

func ParseMove(move string) (tak.Move, error) {
	groups := moveRE.FindStringSubmatch(move)
	if groups == nil {
		return tak.Move{}, malformed("%q", move)
	}
	var (
		place     = groups[1]
		carry     = groups[2]
		position  = groups[3]
		direction = groups[4]
		drops     = groups[5]
		flatten   = groups[6]
	)
	m := tak.Move{X: int8(position[0] - 'a'), Y: int8(position[1] - '1')}
	if direction == "" {
		if carry != "" || drops != "" || flatten != "" {
			return tak.Move{}, malformed("%q: can't carry or drop without a direction", move)
		}
		m.Type = tak.Place
		switch place {
		case "F", "":
			m.Kind = tak.Flat
		case "S":
			m.Kind = tak.Wall
		case "C":
			m.Kind = tak.Capstone
		default:
			panic("parser error")
		}
		return m, nil
	}

	if place != "" {
		return tak.Move{}, malformed("%q: stone type on a spread", move)
	}
	m.Type = tak.Spread
	m.Flatten = flatten != ""
	stack := 1
	if carry != "" {
		stack = int(carry[0] - '0')
	}
	if drops == "" {
		m.Drops = tak.MkSlides(stack)
	} else {
		counts := make([]int, len(drops))
		sum := 0
		for i, d := range drops {
			counts[i] = int(d - '0')
			sum += counts[i]
		}
		if sum != stack {
			return tak.Move{}, malformed("%q: drops total %d, carried %d", move, sum, stack)
		}
		m.Drops = tak.MkSlides(counts...)
	}
	switch direction {
	case "<":
		m.Dir = tak.Left
	case ">":
		m.Dir = tak.Right
	case "+":
		m.Dir = tak.Up
	case "-":
		m.Dir = tak.Down
	default:
		panic("parser error")
	}
	return m, nil
}

func FormatMove(m tak.Move) string {
	var out []byte
	if m.Type == tak.Spread {
		if carry := m.Carry(); carry != 1 {
			out = append(out, byte('0'+carry))
		}
	} else {
		switch m.Kind {
		case tak.Capstone:
			out = append(out, 'C')
		case tak.Wall:
			out = append(out, 'S')
		}
	}
	out = append(out, byte('a'+m.X))
	out = append(out, byte('1'+m.Y))
	if m.Type != tak.Spread {
		return string(out)
	}
	switch m.Dir {
	case tak.Left:
		out = append(out, '<')
	case tak.Right:
		out = append(out, '>')
	case tak.Up:
		out = append(out, '+')
	case tak.Down:
		out = append(out, '-')
	}
	if m.Drops.Len() > 1 {
		for it := m.Drops.Iterator(); it.Ok(); it = it.Next() {
			out = append(out, byte('0'+it.Elem()))
		}
	}
	if m.Flatten {
		out = append(out, '*')
	}
	return string(out)
}
