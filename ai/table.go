package ai

import "github.com/takumi-tak/takumi/tak"

type boundType byte

const (
	lowerBound boundType = iota
	exactBound
	upperBound
)

type tableEntry struct {
	hash  uint64
	depth int
	value int64
	bound boundType
	m     tak.Move
}

// table is a transposition table of two-entry buckets. It belongs to
// a single search.
type table struct {
	buckets [][2]tableEntry
	mask    uint64
}

const defaultTableSize = 1 << 16

func newTable(size int) *table {
	if size <= 0 {
		size = defaultTableSize
	}
	n := 1
	for n < size {
		n <<= 1
	}
	return &table{
		buckets: make([][2]tableEntry, n),
		mask:    uint64(n - 1),
	}
}

func (t *table) get(h uint64) *tableEntry {
	b := &t.buckets[h&t.mask]
	for i := range b {
		if b[i].hash == h && b[i].depth > 0 {
			return &b[i]
		}
	}
	return nil
}

// put stores an entry. An existing entry for the same position is
// only replaced by one searched at least as deep; otherwise the
// shallower slot of the bucket is evicted.
func (t *table) put(e tableEntry) {
	b := &t.buckets[e.hash&t.mask]
	for i := range b {
		if b[i].hash == e.hash && b[i].depth > 0 {
			if e.depth >= b[i].depth {
				b[i] = e
			}
			return
		}
	}
	victim := 0
	if b[1].depth < b[0].depth {
		victim = 1
	}
	b[victim] = e
}

// Win and loss scores are stored relative to the node so that they
// remain correct when the position is reached at another ply.
func toTable(v int64, ply int) int64 {
	switch {
	case v > WinThreshold:
		return v + int64(ply)
	case v < -WinThreshold:
		return v - int64(ply)
	}
	return v
}

func fromTable(v int64, ply int) int64 {
	switch {
	case v > WinThreshold:
		return v - int64(ply)
	case v < -WinThreshold:
		return v + int64(ply)
	}
	return v
}
