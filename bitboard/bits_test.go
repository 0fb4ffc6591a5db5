package bitboard

import (
	"strconv"
	"testing"
)

func TestPrecompute(t *testing.T) {
	c := Precompute(5)
	if c.Bottom != (1<<5)-1 {
		t.Error("c.Bottom(5):", strconv.FormatUint(c.Bottom, 2))
	}
	if c.Top != ((1<<5)-1)<<(4*5) {
		t.Error("c.Top(5):", strconv.FormatUint(c.Top, 2))
	}
	if c.Left != 0x0108421 {
		t.Error("c.Left(5):", strconv.FormatUint(c.Left, 2))
	}
	if c.Right != 0x1084210 {
		t.Error("c.Right(5):", strconv.FormatUint(c.Right, 2))
	}
	if c.Mask != 0x1ffffff {
		t.Error("c.Mask(5):", strconv.FormatUint(c.Mask, 2))
	}

	c = Precompute(8)
	if c.Bottom != (1<<8)-1 {
		t.Error("c.Bottom(8):", strconv.FormatUint(c.Bottom, 2))
	}
	if c.Top != ((1<<8)-1)<<(7*8) {
		t.Error("c.Top(8):", strconv.FormatUint(c.Top, 2))
	}
	if c.Left != 0x101010101010101 {
		t.Error("c.Left(8):", strconv.FormatUint(c.Left, 2))
	}
	if c.Right != 0x8080808080808080 {
		t.Error("c.Right(8):", strconv.FormatUint(c.Right, 2))
	}
	if c.Mask != ^uint64(0) {
		t.Error("c.Mask(8):", strconv.FormatUint(c.Mask, 2))
	}
}

func TestFlood(t *testing.T) {
	cases := []struct {
		size  uint
		bound uint64
		seed  uint64
		out   uint64
	}{
		// does not wrap from the last file onto the next rank
		{5, 0x108423c, 0x4, 0x108421c},
		{3, 0x1ff, 0x10, 0x1ff},
		// top rank of an 8x8 board does not overflow
		{8, 0xff00000000000000, 1 << 63, 0xff00000000000000},
	}
	for _, tc := range cases {
		c := Precompute(tc.size)
		got := Flood(&c, tc.bound, tc.seed)
		if got != tc.out {
			t.Errorf("Flood[%d](%s, %s)=%s !=%s",
				tc.size,
				strconv.FormatUint(tc.bound, 2),
				strconv.FormatUint(tc.seed, 2),
				strconv.FormatUint(got, 2),
				strconv.FormatUint(tc.out, 2))
		}
	}
}

func TestFloodGroups(t *testing.T) {
	c := Precompute(5)
	// two separate pairs and a singleton
	bits := uint64(0x3 | 0x3<<15 | 1<<23)
	gs := FloodGroups(&c, bits, nil)
	if len(gs) != 2 {
		t.Fatalf("groups=%d, want 2", len(gs))
	}
	if gs[0] != 0x3 || gs[1] != 0x3<<15 {
		t.Errorf("groups=%x", gs)
	}
}

func TestSpans(t *testing.T) {
	c := Precompute(5)
	cases := []struct {
		bits uint64
		ok   bool
	}{
		{c.Bottom, true},
		{c.Left, true},
		{0x108421c, true},
		{0x843800, false},
		{0, false},
	}
	for _, tc := range cases {
		if got := Spans(&c, tc.bits); got != tc.ok {
			t.Errorf("Spans(%x)=%v want %v", tc.bits, got, tc.ok)
		}
	}
}

func TestDimensions(t *testing.T) {
	cases := []struct {
		size uint
		bits uint64
		w    int
		h    int
	}{
		{5, 0x108421c, 3, 5},
		{5, 0, 0, 0},
		{5, 0x843800, 3, 3},
		{5, 0x08000, 1, 1},
	}
	for _, tc := range cases {
		c := Precompute(tc.size)
		w, h := Dimensions(&c, tc.bits)
		if w != tc.w || h != tc.h {
			t.Errorf("Dimensions(%d, %x) = (%d,%d) != (%d,%d)",
				tc.size, tc.bits, w, h, tc.w, tc.h,
			)
		}
	}
}

func TestRing(t *testing.T) {
	c := Precompute(5)
	cases := []struct {
		x, y uint
		ring int
	}{
		{0, 0, 0}, {4, 2, 0}, {1, 1, 1}, {2, 2, 2}, {3, 2, 1},
	}
	for _, tc := range cases {
		if got := Ring(&c, tc.x, tc.y); got != tc.ring {
			t.Errorf("Ring(%d,%d)=%d want %d", tc.x, tc.y, got, tc.ring)
		}
	}
}

func TestBitCoords(t *testing.T) {
	c := Precompute(6)
	x, y := BitCoords(&c, 1<<15)
	if x != 3 || y != 2 {
		t.Errorf("BitCoords(15)=(%d,%d)", x, y)
	}
}
