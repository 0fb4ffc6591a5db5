package ptn

import (
	"errors"
	"reflect"
	"testing"

	"github.com/takumi-tak/takumi/tak"
)

const midgame = `x3,12,2S/x,22S,22C,11,21/121,212,12,1121C,1212S/21S,1,21,211S,12S/x,21S,2,x2 1 26`

func TestParseTPS(t *testing.T) {
	p, e := ParseTPS(midgame)
	if e != nil {
		t.Fatal("parse error", e)
	}
	if p.Size() != 5 {
		t.Error("size=", p.Size())
	}
	if p.MoveNumber() != 50 {
		t.Error("move=", p.MoveNumber())
	}
	if p.ToMove() != tak.White {
		t.Error("to move=", p.ToMove())
	}
	cases := []struct {
		x, y int
		sq   tak.Square
	}{
		{0, 0, nil},
		{1, 0, tak.Square{tak.MakePiece(tak.Black, tak.Flat), tak.MakePiece(tak.White, tak.Wall)}},
		{2, 0, tak.Square{tak.MakePiece(tak.Black, tak.Flat)}},
		{3, 2, tak.Square{
			tak.MakePiece(tak.White, tak.Flat),
			tak.MakePiece(tak.White, tak.Flat),
			tak.MakePiece(tak.Black, tak.Flat),
			tak.MakePiece(tak.White, tak.Capstone)}},
		{2, 3, tak.Square{tak.MakePiece(tak.Black, tak.Flat), tak.MakePiece(tak.Black, tak.Capstone)}},
		{4, 4, tak.Square{tak.MakePiece(tak.Black, tak.Wall)}},
	}
	for _, tc := range cases {
		if got := p.At(tc.x, tc.y); !reflect.DeepEqual(got, tc.sq) {
			t.Errorf("At(%d,%d) = %v want %v", tc.x, tc.y, got, tc.sq)
		}
	}
	if f, c := p.Reserves(tak.White); f != 2 || c != 0 {
		t.Errorf("white reserves %d/%d", f, c)
	}
}

func TestFormatTPS(t *testing.T) {
	cases := []string{
		midgame,
		"x5/x5/x5/x5/x5 1 1",
		"x3/x3/x3 2 1",
		"1,2,x/x3/x2,1 2 4",
		"x8/x8/x8/x8/x3,12121S,x4/x8/x8/x8 1 9",
	}
	for _, tc := range cases {
		p, err := ParseTPS(tc)
		if err != nil {
			t.Errorf("ParseTPS(%q): %v", tc, err)
			continue
		}
		if got := FormatTPS(p); got != tc {
			t.Errorf("FormatTPS(ParseTPS(%q)) = %q", tc, got)
		}
	}

	p := tak.New(tak.Config{Size: 6})
	if got := FormatTPS(p); got != "x6/x6/x6/x6/x6/x6 1 1" {
		t.Errorf("empty board: %q", got)
	}
}

func TestParseTPSErrors(t *testing.T) {
	bad := []string{
		"",
		"x5/x5/x5/x5/x5 1",
		"x5/x5/x5/x5/x5 3 1",
		"x5/x5/x5/x5/x5 1 0",
		"x2/x2 1 1",
		"x5/x5/x5/x5/x4 1 1",
		"x5/x5/x5/x5/x3,3,x 1 1",
		"x5/x5/x5/x5/x3,S1,x 1 1",
		"x5/x5/x5/x5/x3,,x 1 1",
		"x5/x5/x5/x5/x3,xx 1 1",
	}
	for _, tc := range bad {
		if _, err := ParseTPS(tc); !errors.Is(err, ErrMalformedNotation) {
			t.Errorf("ParseTPS(%q): err=%v", tc, err)
		}
	}

	if _, err := ParseTPS("1C,1C,x/x3/x3 1 3"); err == nil {
		t.Errorf("accepted capstones on a board without them")
	}
}

func TestParseTPSConfig(t *testing.T) {
	p, err := ParseTPSConfig("x4/x4/x4/x4 1 1", tak.Config{Pieces: 12, Capstones: 1, Komi: tak.Komi{Amount: 2}})
	if err != nil {
		t.Fatal(err)
	}
	if f, c := p.Reserves(tak.Black); f != 12 || c != 1 {
		t.Errorf("reserves %d/%d", f, c)
	}
	if p.Komi().Amount != 2 {
		t.Errorf("komi %+v", p.Komi())
	}
}
