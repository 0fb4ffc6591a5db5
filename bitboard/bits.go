// Package bitboard implements the square-set arithmetic used by the
// rules engine and the evaluator. A board of size N is stored in the
// low N*N bits of a uint64; bit y*N+x is the square at file x, rank y.
package bitboard

import "math/bits"

type Constants struct {
	Size uint

	// Left is file a, Right the last file, Bottom rank 1 and Top
	// the last rank.
	Left, Right, Bottom, Top uint64

	Edge uint64
	Mask uint64
}

func Precompute(size uint) Constants {
	var c Constants
	c.Size = size
	for i := uint(0); i < size; i++ {
		c.Left |= 1 << (i * size)
	}
	c.Right = c.Left << (size - 1)
	c.Bottom = (1 << size) - 1
	c.Top = c.Bottom << (size * (size - 1))
	if size == 8 {
		c.Mask = ^uint64(0)
	} else {
		c.Mask = 1<<(size*size) - 1
	}
	c.Edge = c.Left | c.Right | c.Bottom | c.Top
	return c
}

// Grow extends seed by one step in each of the four orthogonal
// directions, clipped to within.
func Grow(c *Constants, within uint64, seed uint64) uint64 {
	next := seed
	next |= (seed << 1) &^ c.Left
	next |= (seed >> 1) &^ c.Right
	next |= (seed << c.Size) & c.Mask
	next |= seed >> c.Size
	return next & within & c.Mask
}

// Flood returns the 4-connected component of within that contains
// seed.
func Flood(c *Constants, within uint64, seed uint64) uint64 {
	for {
		next := Grow(c, within, seed)
		if next == seed {
			return next
		}
		seed = next
	}
}

// FloodGroups appends every connected component of bits with more
// than one square to out.
func FloodGroups(c *Constants, bits uint64, out []uint64) []uint64 {
	var seen uint64
	for bits != 0 {
		next := bits & (bits - 1)
		bit := bits &^ next

		if seen&bit == 0 {
			g := Flood(c, bits, bit)
			if g != bit {
				out = append(out, g)
			}
			seen |= g
		}

		bits = next
	}
	return out
}

// Spans reports whether g touches two opposite edges of the board.
func Spans(c *Constants, g uint64) bool {
	return (g&c.Left != 0 && g&c.Right != 0) ||
		(g&c.Bottom != 0 && g&c.Top != 0)
}

// Dimensions returns the number of files and ranks covered by bits.
func Dimensions(c *Constants, bits uint64) (w, h int) {
	if bits == 0 {
		return 0, 0
	}
	col := c.Left
	for i := uint(0); i < c.Size; i++ {
		if bits&col != 0 {
			w++
		}
		col <<= 1
	}
	row := c.Bottom
	for i := uint(0); i < c.Size; i++ {
		if bits&row != 0 {
			h++
		}
		row <<= c.Size
	}
	return w, h
}

// Ring is the distance from (x, y) to the nearest edge; edge squares
// are ring 0.
func Ring(c *Constants, x, y uint) int {
	r := x
	if y < r {
		r = y
	}
	if c.Size-1-x < r {
		r = c.Size - 1 - x
	}
	if c.Size-1-y < r {
		r = c.Size - 1 - y
	}
	return int(r)
}

func BitCoords(c *Constants, bits uint64) (x, y uint) {
	if bits == 0 || bits&(bits-1) != 0 {
		panic("BitCoords: non-singular")
	}
	n := TrailingZeros(bits)
	return n % c.Size, n / c.Size
}

func Popcount(x uint64) int {
	return bits.OnesCount64(x)
}

func TrailingZeros(x uint64) uint {
	return uint(bits.TrailingZeros64(x))
}
