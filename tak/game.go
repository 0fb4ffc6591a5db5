package tak

import (
	"fmt"

	"github.com/takumi-tak/takumi/bitboard"
)

// Komi is added to Black's flat count when a game is decided on
// flats. Half breaks any remaining tie in Black's favour.
type Komi struct {
	Amount int
	Half   bool
}

type Config struct {
	Size      int
	Pieces    int
	Capstones int
	Komi      Komi

	c bitboard.Constants
}

var defaultPieces = []int{0, 0, 0, 10, 15, 21, 30, 40, 50}
var defaultCaps = []int{0, 0, 0, 0, 0, 1, 1, 2, 2}

// DefaultReserves returns the standard stone and capstone counts for
// a board size.
func DefaultReserves(size int) (flats, caps int) {
	if size < 0 || size >= len(defaultPieces) {
		return 0, 0
	}
	return defaultPieces[size], defaultCaps[size]
}

// Validate checks that the board size is supported and the reserves
// are usable.
func (g *Config) Validate() error {
	if g.Size < 3 || g.Size > 8 {
		return fmt.Errorf("%w: %d", ErrBadSize, g.Size)
	}
	if g.Pieces < 0 || g.Capstones < 0 {
		return fmt.Errorf("negative reserve: %d/%d", g.Pieces, g.Capstones)
	}
	return nil
}

// Constants returns the bitboard constants for the board size.
func (g *Config) Constants() *bitboard.Constants {
	return &g.c
}

// Analysis holds bitboards describing the tops of the board. It is
// computed once for every position.
type Analysis struct {
	White    uint64
	Black    uint64
	Walls    uint64
	Caps     uint64
	Occupied uint64

	WhiteRoad uint64
	BlackRoad uint64

	WhiteGroups []uint64
	BlackGroups []uint64
}

// Position is an immutable snapshot of a game. Move returns a new
// Position and never modifies its receiver, so a Position may be
// shared freely between goroutines.
type Position struct {
	cfg        *Config
	whiteFlats int
	whiteCaps  int
	blackFlats int
	blackCaps  int

	move  int
	board []Square

	parent *Position
	last   Move

	analysis Analysis
	key      uint64
	status   Outcome
}

func New(g Config) *Position {
	if err := g.Validate(); err != nil {
		panic(fmt.Sprintf("tak.New: %v", err))
	}
	if g.Pieces == 0 {
		g.Pieces = defaultPieces[g.Size]
	}
	if g.Capstones == 0 {
		g.Capstones = defaultCaps[g.Size]
	}
	g.c = bitboard.Precompute(uint(g.Size))
	p := &Position{
		cfg:        &g,
		whiteFlats: g.Pieces,
		whiteCaps:  g.Capstones,
		blackFlats: g.Pieces,
		blackCaps:  g.Capstones,
		move:       0,
		board:      make([]Square, g.Size*g.Size),
	}
	p.analyze()
	return p
}

// FromSquares builds a position from board[y][x] stacks (bottom
// piece first) with the given ply count. Reserves are derived from
// the pieces on the board.
func FromSquares(cfg Config, board [][]Square, move int) (*Position, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(board) != cfg.Size {
		return nil, fmt.Errorf("board has %d ranks, want %d", len(board), cfg.Size)
	}
	p := New(cfg)
	p.move = move
	for y := 0; y < p.Size(); y++ {
		if len(board[y]) != cfg.Size {
			return nil, fmt.Errorf("rank %d has %d squares, want %d", y+1, len(board[y]), cfg.Size)
		}
		for x := 0; x < p.Size(); x++ {
			sq := board[y][x]
			for _, piece := range sq {
				switch piece.Kind() {
				case Capstone:
					if piece.Color() == White {
						p.whiteCaps--
					} else {
						p.blackCaps--
					}
				case Flat, Wall:
					if piece.Color() == White {
						p.whiteFlats--
					} else {
						p.blackFlats--
					}
				default:
					return nil, fmt.Errorf("%w: %v", ErrBadKind, piece.Kind())
				}
				if piece.Color() != White && piece.Color() != Black {
					return nil, fmt.Errorf("bad piece color at %c%d", 'a'+x, y+1)
				}
			}
			if len(sq) > 0 {
				p.board[y*p.Size()+x] = append(Square(nil), sq...)
			}
		}
	}
	if p.whiteFlats < 0 || p.whiteCaps < 0 || p.blackFlats < 0 || p.blackCaps < 0 {
		return nil, fmt.Errorf("board holds more pieces than the reserves allow")
	}
	p.analyze()
	return p, nil
}

func (p *Position) Size() int {
	return p.cfg.Size
}

func (p *Position) Config() Config {
	return *p.cfg
}

func (p *Position) Constants() *bitboard.Constants {
	return &p.cfg.c
}

func (p *Position) Komi() Komi {
	return p.cfg.Komi
}

// At returns the stack at (x, y), bottom first. The caller must not
// modify it.
func (p *Position) At(x, y int) Square {
	return p.board[y*p.cfg.Size+x]
}

func (p *Position) Top(x, y int) Piece {
	return p.At(x, y).Top()
}

func (p *Position) Height(x, y int) int {
	return len(p.At(x, y))
}

func (p *Position) ToMove() Color {
	if p.move%2 == 0 {
		return White
	}
	return Black
}

// MoveNumber is the number of plies played to reach this position.
func (p *Position) MoveNumber() int {
	return p.move
}

// Reserves returns the flat stones and capstones c has left to place.
func (p *Position) Reserves(c Color) (flats, caps int) {
	if c == White {
		return p.whiteFlats, p.whiteCaps
	}
	return p.blackFlats, p.blackCaps
}

func (p *Position) Analysis() *Analysis {
	return &p.analysis
}

// Key is a hash of everything that determines the legal moves and
// outcome of the position. Transpositions share a key.
func (p *Position) Key() uint64 {
	return p.key
}

// LastMove returns the move that produced this position, with its
// Flatten flag reflecting what actually happened.
func (p *Position) LastMove() (Move, bool) {
	if p.parent == nil {
		return Move{}, false
	}
	return p.last, true
}

// History returns the moves played since the position the game was
// started from, oldest first.
func (p *Position) History() []Move {
	n := 0
	for q := p; q.parent != nil; q = q.parent {
		n++
	}
	out := make([]Move, n)
	for q := p; q.parent != nil; q = q.parent {
		n--
		out[n] = q.last
	}
	return out
}

// Root returns the position the game was started from.
func (p *Position) Root() *Position {
	q := p
	for q.parent != nil {
		q = q.parent
	}
	return q
}

// Undo returns the position before the last move.
func (p *Position) Undo() (*Position, error) {
	if p.parent == nil {
		return nil, ErrNoHistory
	}
	return p.parent, nil
}

func (p *Position) index(x, y int) int {
	return y*p.cfg.Size + x
}

func (p *Position) onBoard(x, y int) bool {
	return x >= 0 && y >= 0 && x < p.cfg.Size && y < p.cfg.Size
}

func (p *Position) clone() *Position {
	next := &Position{
		cfg:        p.cfg,
		whiteFlats: p.whiteFlats,
		whiteCaps:  p.whiteCaps,
		blackFlats: p.blackFlats,
		blackCaps:  p.blackCaps,
		move:       p.move,
		board:      make([]Square, len(p.board)),
	}
	copy(next.board, p.board)
	return next
}

func (p *Position) analyze() {
	a := &p.analysis
	*a = Analysis{}
	for i, sq := range p.board {
		if len(sq) == 0 {
			continue
		}
		bit := uint64(1) << uint(i)
		top := sq.Top()
		if top.Color() == White {
			a.White |= bit
		} else {
			a.Black |= bit
		}
		switch top.Kind() {
		case Wall:
			a.Walls |= bit
		case Capstone:
			a.Caps |= bit
		}
	}
	a.Occupied = a.White | a.Black
	a.WhiteRoad = a.White &^ a.Walls
	a.BlackRoad = a.Black &^ a.Walls
	a.WhiteGroups = bitboard.FloodGroups(&p.cfg.c, a.WhiteRoad, nil)
	a.BlackGroups = bitboard.FloodGroups(&p.cfg.c, a.BlackRoad, nil)
	p.key = p.computeKey()
	p.status = p.computeStatus()
}
