package symmetry

import (
	"testing"

	"github.com/takumi-tak/takumi/ptn"
	"github.com/takumi-tak/takumi/tak"
	"github.com/takumi-tak/takumi/taktest"
)

func TestInverse(t *testing.T) {
	for _, s := range All {
		for x := int8(0); x < 5; x++ {
			for y := int8(0); y < 5; y++ {
				sx, sy := s.Apply(5, x, y)
				ix, iy := s.Inverse().Apply(5, sx, sy)
				if ix != x || iy != y {
					t.Errorf("sym %d: (%d,%d) -> (%d,%d) -> (%d,%d)", s, x, y, sx, sy, ix, iy)
				}
			}
		}
	}
}

func TestRotations(t *testing.T) {
	p := tak.New(tak.Config{Size: 6})
	ss, e := Symmetries(p)
	if e != nil {
		t.Fatal(e)
	}
	if len(ss) != 1 {
		t.Fatal("bad symmetries ", len(ss))
	}

	p, _ = p.Move(taktest.Move("a1"))
	ss, e = Symmetries(p)
	if e != nil {
		t.Fatal(e)
	}
	if len(ss) != 4 {
		t.Error("bad symmetries n=", len(ss))
	}
}

func TestTransformMove(t *testing.T) {
	p := taktest.Position(6, "a1 f6 d4 d3")
	for _, in := range []string{"c4", "Sb2", "d4-", "d4<"} {
		m := taktest.Move(in)
		want, err := p.Move(m)
		if err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		wantTPS, _, err := Canonical(want)
		if err != nil {
			t.Fatal(err)
		}
		for _, s := range All {
			sp, err := Transform(p, s)
			if err != nil {
				t.Fatal(err)
			}
			sm := TransformMove(6, s, m)
			next, err := sp.Move(sm)
			if err != nil {
				t.Errorf("%s sym %d: %s: %v", in, s, ptn.FormatMove(sm), err)
				continue
			}
			got, _, err := Canonical(next)
			if err != nil {
				t.Fatal(err)
			}
			if got != wantTPS {
				t.Errorf("%s sym %d: canonical %q != %q", in, s, got, wantTPS)
			}
			back := TransformMove(6, s.Inverse(), sm)
			if !back.Equal(m) {
				t.Errorf("%s sym %d: round trip gave %s", in, s, ptn.FormatMove(back))
			}
		}
	}
}

func TestCanonical(t *testing.T) {
	corners := []string{"a1", "a5", "e1", "e5"}
	var first string
	for _, c := range corners {
		p := taktest.Position(5, c)
		tps, s, err := Canonical(p)
		if err != nil {
			t.Fatal(err)
		}
		if first == "" {
			first = tps
		} else if tps != first {
			t.Errorf("%s: canonical %q != %q", c, tps, first)
		}
		sp, err := Transform(p, s)
		if err != nil {
			t.Fatal(err)
		}
		if ptn.FormatTPS(sp) != tps {
			t.Errorf("%s: symmetry %d does not reach the canonical board", c, s)
		}
	}
	other, _, err := Canonical(taktest.Position(5, "c3"))
	if err != nil {
		t.Fatal(err)
	}
	if other == first {
		t.Error("center placement shares a class with corners")
	}
}
