package tak

import (
	"errors"
	"testing"
)

func mustMove(t *testing.T, p *Position, ms ...Move) *Position {
	t.Helper()
	for _, m := range ms {
		next, err := p.Move(m)
		if err != nil {
			t.Fatalf("move %+v at ply %d: %v", m, p.MoveNumber(), err)
		}
		p = next
	}
	return p
}

func mustSquares(t *testing.T, cfg Config, move int, sqs map[[2]int]Square) *Position {
	t.Helper()
	board := make([][]Square, cfg.Size)
	for y := range board {
		board[y] = make([]Square, cfg.Size)
	}
	for at, sq := range sqs {
		board[at[1]][at[0]] = sq
	}
	p, err := FromSquares(cfg, board, move)
	if err != nil {
		t.Fatalf("FromSquares: %v", err)
	}
	return p
}

var (
	wf = MakePiece(White, Flat)
	ws = MakePiece(White, Wall)
	wc = MakePiece(White, Capstone)
	bf = MakePiece(Black, Flat)
	bs = MakePiece(Black, Wall)
	bc = MakePiece(Black, Capstone)
)

func TestReserves(t *testing.T) {
	cases := []struct {
		size, flats, caps int
	}{
		{3, 10, 0},
		{4, 15, 0},
		{5, 21, 1},
		{6, 30, 1},
		{7, 40, 2},
		{8, 50, 2},
	}
	for _, tc := range cases {
		p := New(Config{Size: tc.size})
		for _, c := range []Color{White, Black} {
			f, cp := p.Reserves(c)
			if f != tc.flats || cp != tc.caps {
				t.Errorf("size %d %v: reserves %d/%d want %d/%d",
					tc.size, c, f, cp, tc.flats, tc.caps)
			}
		}
		if p.ToMove() != White || p.MoveNumber() != 0 {
			t.Errorf("size %d: bad initial turn", tc.size)
		}
	}

	p := New(Config{Size: 4, Pieces: 7, Capstones: 1})
	if f, c := p.Reserves(Black); f != 7 || c != 1 {
		t.Errorf("custom reserves: %d/%d", f, c)
	}
}

func TestValidate(t *testing.T) {
	for _, size := range []int{0, 2, 9} {
		cfg := Config{Size: size}
		if err := cfg.Validate(); !errors.Is(err, ErrBadSize) {
			t.Errorf("size %d: err=%v", size, err)
		}
	}
}

func TestOpening(t *testing.T) {
	p := New(Config{Size: 5})
	moves := p.AllMoves(nil)
	if len(moves) != 25 {
		t.Fatalf("ply 0: %d moves", len(moves))
	}
	for _, m := range moves {
		if m.Type != Place || m.Kind != Flat {
			t.Fatalf("ply 0: non-flat move %+v", m)
		}
	}

	if _, err := p.Move(MakePlace(0, 0, Wall)); !errors.Is(err, ErrOpeningRuleViolation) {
		t.Errorf("wall on ply 0: %v", err)
	}
	if _, err := p.Move(MakePlace(0, 0, Capstone)); !errors.Is(err, ErrOpeningRuleViolation) {
		t.Errorf("cap on ply 0: %v", err)
	}

	p = mustMove(t, p, MakePlace(0, 0, Flat))
	if top := p.Top(0, 0); top != bf {
		t.Errorf("first placement: got %v want black flat", top)
	}
	if f, _ := p.Reserves(Black); f != 20 {
		t.Errorf("black reserve after first move: %d", f)
	}
	if f, _ := p.Reserves(White); f != 21 {
		t.Errorf("white reserve after first move: %d", f)
	}
	if n := len(p.AllMoves(nil)); n != 24 {
		t.Errorf("ply 1: %d moves", n)
	}
	if _, err := p.Move(MakeSpread(0, 0, Right, 1)); !errors.Is(err, ErrOpeningRuleViolation) {
		t.Errorf("spread on ply 1: %v", err)
	}

	p = mustMove(t, p, MakePlace(4, 4, Flat))
	if top := p.Top(4, 4); top != wf {
		t.Errorf("second placement: got %v want white flat", top)
	}
	if p.ToMove() != White {
		t.Errorf("ply 2 to move: %v", p.ToMove())
	}
}

func TestMoveErrors(t *testing.T) {
	p := mustSquares(t, Config{Size: 5}, 2, map[[2]int]Square{
		{0, 0}: {bf},
		{1, 0}: {wf, wf},
		{2, 0}: {bs},
		{4, 4}: {wf},
		{3, 4}: {bc},
		{2, 2}: {wc},
	})
	cases := []struct {
		name string
		m    Move
		err  error
	}{
		{"occupied", MakePlace(0, 0, Flat), ErrOccupiedTarget},
		{"empty origin", MakeSpread(3, 3, Up, 1), ErrEmptyOrigin},
		{"not owner", MakeSpread(0, 0, Up, 1), ErrNotOwner},
		{"place off board", MakePlace(5, 0, Flat), ErrOffBoard},
		{"spread off board", MakeSpread(4, 4, Up, 1), ErrOffBoard},
		{"carry above height", MakeSpread(1, 0, Up, 3), ErrBadCarry},
		{"no drops", Move{X: 1, Y: 0, Type: Spread, Dir: Up}, ErrBadCarry},
		{"onto wall", MakeSpread(1, 0, Right, 1), ErrBlockedByWallOrCapstone},
		{"onto capstone", MakeSpread(4, 4, Left, 1), ErrBlockedByWallOrCapstone},
		{"cap exhausted", MakePlace(3, 3, Capstone), ErrReserveExhausted},
	}
	for _, tc := range cases {
		_, err := p.Move(tc.m)
		if !errors.Is(err, tc.err) {
			t.Errorf("%s: got %v want %v", tc.name, err, tc.err)
		}
		var im *IllegalMove
		if !errors.As(err, &im) {
			t.Errorf("%s: %v is not an IllegalMove", tc.name, err)
		}
	}

	if _, err := p.Move(Move{X: 1, Y: 1, Type: 9}); !errors.Is(err, ErrBadMoveType) {
		t.Errorf("bad type: %v", err)
	}
}

func TestMoveImmutable(t *testing.T) {
	p := mustSquares(t, Config{Size: 5}, 2, map[[2]int]Square{
		{2, 2}: {bf, wf, wf},
		{3, 2}: {bf},
	})
	key := p.Key()
	n := mustMove(t, p, MakeSpread(2, 2, Right, 1, 1))
	if h := p.Height(2, 2); h != 3 {
		t.Errorf("origin height changed: %d", h)
	}
	if h := p.Height(3, 2); h != 1 {
		t.Errorf("destination changed: %d", h)
	}
	if p.Key() != key {
		t.Errorf("key changed")
	}
	if sq := n.At(2, 2); len(sq) != 1 || sq[0] != bf {
		t.Errorf("origin after spread: %v", sq)
	}
	if sq := n.At(3, 2); len(sq) != 2 || sq.Top() != wf {
		t.Errorf("first drop: %v", sq)
	}
	if sq := n.At(4, 2); len(sq) != 1 || sq.Top() != wf {
		t.Errorf("second drop: %v", sq)
	}
	if n.ToMove() != Black || n.MoveNumber() != 3 {
		t.Errorf("turn did not advance")
	}
}

func TestFlatten(t *testing.T) {
	p := mustSquares(t, Config{Size: 5}, 2, map[[2]int]Square{
		{2, 2}: {wf, wc},
		{4, 2}: {bs},
		{2, 4}: {bs},
		{0, 0}: {bf},
	})

	if _, err := p.Move(MakeSpread(2, 2, Right, 1, 1)); err != nil {
		t.Errorf("flatten with a single capstone drop: %v", err)
	}
	if _, err := p.Move(MakeSpread(2, 2, Up, 2)); err != nil {
		t.Errorf("carry two onto the open square: %v", err)
	}

	var flattening []Move
	for _, m := range p.AllMoves(nil) {
		if m.Flatten {
			flattening = append(flattening, m)
		}
	}
	if len(flattening) != 2 {
		t.Fatalf("flattening moves: %+v", flattening)
	}

	n := mustMove(t, p, MakeSpread(2, 2, Right, 1, 1))
	if sq := n.At(4, 2); len(sq) != 2 || sq[0] != bf || sq[1] != wc {
		t.Errorf("flattened square: %v", sq)
	}
	last, ok := n.LastMove()
	if !ok || !last.Flatten {
		t.Errorf("history does not record the flattening: %+v", last)
	}

	q := mustSquares(t, Config{Size: 5}, 2, map[[2]int]Square{
		{2, 2}: {wc, wf},
		{3, 2}: {bs},
	})
	if _, err := q.Move(MakeSpread(2, 2, Right, 2)); !errors.Is(err, ErrBlockedByWallOrCapstone) {
		t.Errorf("flat onto wall: %v", err)
	}
	r := mustSquares(t, Config{Size: 5}, 2, map[[2]int]Square{
		{2, 2}: {wf, wc},
		{3, 2}: {bs},
	})
	if _, err := r.Move(MakeSpread(2, 2, Right, 2)); !errors.Is(err, ErrBlockedByWallOrCapstone) {
		t.Errorf("two stones onto wall: %v", err)
	}
}

func TestUndo(t *testing.T) {
	p := New(Config{Size: 5})
	if _, err := p.Undo(); !errors.Is(err, ErrNoHistory) {
		t.Fatalf("undo on new game: %v", err)
	}
	moves := []Move{
		MakePlace(0, 0, Flat),
		MakePlace(4, 4, Flat),
		MakePlace(2, 2, Capstone),
		MakePlace(2, 3, Wall),
	}
	n := mustMove(t, p, moves...)
	hist := n.History()
	if len(hist) != len(moves) {
		t.Fatalf("history: %d moves", len(hist))
	}
	for i := range moves {
		if !hist[i].Equal(moves[i]) {
			t.Errorf("history[%d] = %+v want %+v", i, hist[i], moves[i])
		}
	}
	prev, err := n.Undo()
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if prev.MoveNumber() != 3 || prev.Height(2, 3) != 0 {
		t.Errorf("undo did not remove the wall")
	}
	if f, _ := prev.Reserves(Black); f != 20 {
		t.Errorf("undo did not restore the reserve: %d", f)
	}
	if n.Root() != p {
		t.Errorf("root is not the initial position")
	}
}
