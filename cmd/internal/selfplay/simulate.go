package selfplay

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/takumi-tak/takumi/ai"
	"github.com/takumi-tak/takumi/ptn"
	"github.com/takumi-tak/takumi/tak"
)

type Config struct {
	Games int

	Verbose bool

	Initial []*tak.Position

	P1, P2 *ai.MinimaxAI

	Debug int

	Swap    bool
	Threads int
	Seed    int64
	Cutoff  int

	// RandomPlies random moves are played from each opening so that
	// games between deterministic engines differ.
	RandomPlies int

	Limit     time.Duration
	Clock     time.Duration
	Increment time.Duration
}

type Stats struct {
	Players [2]struct {
		Wins      int
		WhiteWins int
		BlackWins int
		FlatWins  int
		RoadWins  int
		TimeWins  int
	}
	White, Black int
	Ties         int
	Cutoff       int
	Nodes        uint64

	Games []Result `json:"-"`
}

func (s *Stats) Count() int {
	return s.White + s.Black + s.Ties + s.Cutoff
}

type gameSpec struct {
	c       *Config
	opening *tak.Position
	oi      int
	i       int
	r       *rand.Rand
	p1color tak.Color
}

type Result struct {
	ID       string
	spec     gameSpec
	Initial  *tak.Position
	Position *tak.Position
	Winner   tak.Color
	TimeWin  bool
	Nodes    uint64
}

func (s *Stats) add(r *Result) {
	s.Nodes += r.Nodes
	over, _ := r.Position.GameOver()
	switch {
	case r.Winner == tak.White:
		s.White++
	case r.Winner == tak.Black:
		s.Black++
	case over:
		s.Ties++
	default:
		s.Cutoff++
	}
	if r.Winner != tak.NoColor {
		pst := &s.Players[0]
		if r.Winner == r.spec.p1color.Flip() {
			pst = &s.Players[1]
		}
		if r.Winner == tak.White {
			pst.WhiteWins++
		} else {
			pst.BlackWins++
		}
		pst.Wins++
		switch {
		case r.TimeWin:
			pst.TimeWins++
		case r.Position.Status().Reason == tak.FlatWin:
			pst.FlatWins++
		case r.Position.Status().Reason == tak.RoadWin:
			pst.RoadWins++
		}
	}
	s.Games = append(s.Games, *r)
}

func Simulate(ctx context.Context, c *Config) (Stats, error) {
	var st Stats
	grp, ctx := errgroup.WithContext(ctx)
	specs := make(chan gameSpec)
	results := make(chan Result)

	grp.Go(func() error {
		defer close(specs)
		return startGames(ctx, c, specs)
	})
	for i := 0; i < c.Threads; i++ {
		grp.Go(func() error {
			return worker(ctx, c, specs, results)
		})
	}
	go func() {
		grp.Wait()
		close(results)
	}()

	for r := range results {
		if c.Verbose {
			log.Printf("game id=%s n=%d/%d plies=%d p1=%s winner=%s",
				r.ID, r.spec.oi, r.spec.i, r.Position.MoveNumber(),
				r.spec.p1color,
				r.Winner,
			)
		}
		st.add(&r)
	}
	return st, grp.Wait()
}

func startGames(ctx context.Context, c *Config, specs chan<- gameSpec) error {
	r := rand.New(rand.NewSource(c.Seed))
	for pi, pos := range c.Initial {
		n := c.Games
		if c.Swap {
			n *= 2
		}
		for g := 0; g < n; g++ {
			p1color := tak.White
			if c.Swap && g%2 == 1 {
				p1color = tak.Black
			}
			spec := gameSpec{
				opening: pos,
				c:       c,
				oi:      pi,
				i:       g,
				p1color: p1color,
				r:       rand.New(rand.NewSource(r.Int63())),
			}
			select {
			case specs <- spec:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return nil
}

// randomize plays up to n random legal moves from p.
func randomize(p *tak.Position, n int, r *rand.Rand) *tak.Position {
	var buf []tak.Move
	for i := 0; i < n; i++ {
		if over, _ := p.GameOver(); over {
			break
		}
		buf = p.AllMoves(buf[:0])
		child, err := p.Move(buf[r.Intn(len(buf))])
		if err != nil {
			panic(fmt.Sprintf("generated illegal move: %v", err))
		}
		p = child
	}
	return p
}

func worker(ctx context.Context, c *Config, games <-chan gameSpec, out chan<- Result) error {
	for g := range games {
		res, err := play(ctx, &g)
		if err != nil {
			return err
		}
		select {
		case out <- res:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func play(ctx context.Context, g *gameSpec) (Result, error) {
	c := g.c
	white, black := c.P1, c.P2
	if g.p1color != tak.White {
		white, black = black, white
	}
	initial := randomize(g.opening, c.RandomPlies, g.r)
	res := Result{
		ID:      uuid.NewString(),
		spec:    *g,
		Initial: initial,
	}

	clock := [2]time.Duration{c.Clock, c.Clock}
	p := initial
	for i := 0; i < c.Cutoff; i++ {
		if over, w := p.GameOver(); over {
			res.Winner = w
			break
		}
		side, engine := 0, white
		if p.ToMove() == tak.Black {
			side, engine = 1, black
		}
		limits := ai.Limits{Time: c.Limit}
		if c.Clock != 0 {
			limits.Time = ai.MoveTime(p.MoveNumber(), clock[side], c.Increment)
			if limits.Time > clock[side] {
				limits.Time = clock[side]
			}
		}

		before := time.Now()
		r, err := engine.Analyze(ctx, p, limits)
		if err != nil {
			return res, fmt.Errorf("game %s ply %d: %w", res.ID, p.MoveNumber(), err)
		}
		res.Nodes += r.Nodes
		if c.Clock != 0 {
			clock[side] -= time.Since(before)
			if clock[side] <= time.Millisecond {
				res.Winner = p.ToMove().Flip()
				res.TimeWin = true
				break
			}
			clock[side] += c.Increment
		}

		next, err := p.Move(r.Move)
		if err != nil {
			return res, fmt.Errorf("game %s: illegal move %s: %w", res.ID, ptn.FormatMove(r.Move), err)
		}
		p = next
	}
	if over, w := p.GameOver(); over && !res.TimeWin {
		res.Winner = w
	}
	res.Position = p
	return res, nil
}
