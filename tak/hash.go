package tak

import "math/rand"

const (
	fnvBasis = 14695981039346656037
	fnvPrime = 1099511628211
)

var basis [64]uint64

func init() {
	r := rand.New(rand.NewSource(0x7a3))
	for i := 0; i < 64; i++ {
		basis[i] = uint64(r.Int63())
	}
}

func hash8(basis uint64, b byte) uint64 {
	return (basis ^ uint64(b)) * fnvPrime
}

func hashSquare(i int, sq Square) uint64 {
	h := hash8(basis[i], byte(len(sq)))
	for _, p := range sq {
		h = hash8(h, byte(p))
	}
	return h
}

func (p *Position) computeKey() uint64 {
	var h uint64 = fnvBasis
	for i, sq := range p.board {
		if len(sq) != 0 {
			h ^= hashSquare(i, sq)
		}
	}
	h = hash8(h, byte(p.cfg.Size))
	h = hash8(h, byte(p.whiteFlats))
	h = hash8(h, byte(p.whiteCaps))
	h = hash8(h, byte(p.blackFlats))
	h = hash8(h, byte(p.blackCaps))
	h = hash8(h, byte(p.ToMove()))
	if p.move < 2 {
		h = hash8(h, 1)
	}
	return h
}
