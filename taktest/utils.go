// Package taktest holds helpers for building positions in tests.
package taktest

import (
	"strings"

	"github.com/takumi-tak/takumi/ptn"
	"github.com/takumi-tak/takumi/tak"
)

func Move(s string) tak.Move {
	m, e := ptn.ParseMove(s)
	if e != nil {
		panic(e)
	}
	return m
}

func Moves(s string) []tak.Move {
	if s == "" {
		return nil
	}
	var ms []tak.Move
	for _, b := range strings.Fields(s) {
		ms = append(ms, Move(b))
	}
	return ms
}

func FormatMoves(ms []tak.Move) string {
	var bits []string
	for _, o := range ms {
		bits = append(bits, ptn.FormatMove(o))
	}
	return strings.Join(bits, " ")
}

// Position plays the space-separated moves ms from the start of a
// game of the given size.
func Position(size int, ms string) *tak.Position {
	return Play(tak.New(tak.Config{Size: size}), ms)
}

// Play applies ms to p, panicking on any illegal move.
func Play(p *tak.Position, ms string) *tak.Position {
	var e error
	for _, m := range Moves(ms) {
		p, e = p.Move(m)
		if e != nil {
			panic(e)
		}
	}
	return p
}

// TPS parses a position, panicking on error.
func TPS(s string) *tak.Position {
	p, e := ptn.ParseTPS(s)
	if e != nil {
		panic(e)
	}
	return p
}
