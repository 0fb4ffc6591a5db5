package tak

// AllMoves appends every legal move in p to moves and returns the
// extended slice. Moves are generated square by square in index
// order; placements come as Flat, Wall, Capstone and spreads by
// direction then by drop sequence. A finished game has no moves.
func (p *Position) AllMoves(moves []Move) []Move {
	if p.status.Over {
		return moves
	}
	return p.generate(moves)
}

func (p *Position) generate(moves []Move) []Move {
	size := p.Size()
	mover := p.ToMove()
	opening := p.move < 2
	placer := mover
	if opening {
		placer = mover.Flip()
	}
	flats, caps := p.Reserves(placer)

	for i, sq := range p.board {
		x, y := i%size, i/size
		if len(sq) == 0 {
			if opening {
				if flats > 0 {
					moves = append(moves, MakePlace(x, y, Flat))
				}
				continue
			}
			if flats > 0 {
				moves = append(moves, MakePlace(x, y, Flat), MakePlace(x, y, Wall))
			}
			if caps > 0 {
				moves = append(moves, MakePlace(x, y, Capstone))
			}
			continue
		}
		if opening || sq.Top().Color() != mover {
			continue
		}
		moves = p.spreads(moves, x, y, sq)
	}
	return moves
}

func (p *Position) spreads(moves []Move, x, y int, sq Square) []Move {
	carry := len(sq)
	if carry > p.Size() {
		carry = p.Size()
	}
	capTop := sq.Top().Kind() == Capstone
	for _, d := range directions {
		reach, flatten := p.reach(x, y, d, capTop)
		if reach == 0 && !flatten {
			continue
		}
		for _, s := range partitions[carry] {
			n := s.Len()
			m := Move{X: int8(x), Y: int8(y), Type: Spread, Dir: d, Drops: s}
			switch {
			case n <= reach:
			case flatten && n == reach+1 && s.Last() == 1:
				m.Flatten = true
			default:
				continue
			}
			moves = append(moves, m)
		}
	}
	return moves
}

// reach counts the open squares in direction d from (x, y). flatten
// is set when the square beyond them is a wall that a capstone could
// flatten.
func (p *Position) reach(x, y int, d Direction, capTop bool) (reach int, flatten bool) {
	dx, dy := d.Delta()
	for {
		x, y = x+dx, y+dy
		if !p.onBoard(x, y) {
			return reach, false
		}
		switch p.Top(x, y).Kind() {
		case Wall:
			return reach, capTop
		case Capstone:
			return reach, false
		}
		reach++
	}
}

// MoveCount is the number of legal moves c would have in p if it
// were c's turn.
func (p *Position) MoveCount(c Color) int {
	size := p.Size()
	placer := c
	opening := p.move < 2
	if opening {
		placer = c.Flip()
	}
	flats, caps := p.Reserves(placer)
	perEmpty := 0
	switch {
	case opening && flats > 0:
		perEmpty = 1
	case opening:
	default:
		if flats > 0 {
			perEmpty += 2
		}
		if caps > 0 {
			perEmpty++
		}
	}

	n := 0
	for i, sq := range p.board {
		if len(sq) == 0 {
			n += perEmpty
			continue
		}
		if opening || sq.Top().Color() != c {
			continue
		}
		carry := len(sq)
		if carry > size {
			carry = size
		}
		capTop := sq.Top().Kind() == Capstone
		for _, d := range directions {
			reach, flatten := p.reach(i%size, i/size, d, capTop)
			n += spreadCounts[carry][reach]
			if flatten {
				n += flattenCounts[carry][reach]
			}
		}
	}
	return n
}

// hasMove reports whether the side to move has any legal move,
// ignoring whether the game is already decided.
func (p *Position) hasMove() bool {
	placer := p.ToMove()
	if p.move < 2 {
		placer = placer.Flip()
	}
	flats, caps := p.Reserves(placer)
	if p.analysis.Occupied != p.cfg.c.Mask && (flats > 0 || (caps > 0 && p.move >= 2)) {
		return true
	}
	if p.move < 2 {
		return false
	}
	var buf [64]Move
	return len(p.generate(buf[:0])) > 0
}

// Perft counts the leaf positions depth plies below p.
func Perft(p *Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := p.AllMoves(nil)
	if depth == 1 {
		return uint64(len(moves))
	}
	var n uint64
	for _, m := range moves {
		child, err := p.Move(m)
		if err != nil {
			panic(err)
		}
		n += Perft(child, depth-1)
	}
	return n
}
