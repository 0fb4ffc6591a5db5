package ai

import (
	"bytes"
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"github.com/takumi-tak/takumi/ptn"
	"github.com/takumi-tak/takumi/tak"
)

const (
	MaxEval      int64 = 1 << 30
	MinEval            = -MaxEval
	WinThreshold       = 1 << 29

	maxDepth = 15
)

type Stats struct {
	Depth     int
	Evaluated uint64
	Scout     uint64
	Terminal  uint64
	Visited   uint64

	CutNodes  uint64
	Cut0      uint64
	Cut1      uint64
	CutSearch uint64

	ReSearch uint64

	AllNodes uint64

	TTHits uint64
}

type MinimaxConfig struct {
	Depth int
	Debug int

	// TableSize is the number of transposition table buckets
	// allocated for each search.
	TableSize int

	NoSort  bool
	NoTable bool

	Evaluate EvaluationFunc
}

// MinimaxAI holds search configuration only. Every call to Analyze
// owns its own table and history, so one MinimaxAI may serve
// concurrent searches.
type MinimaxAI struct {
	cfg      MinimaxConfig
	evaluate EvaluationFunc
}

func NewMinimax(cfg MinimaxConfig) *MinimaxAI {
	m := &MinimaxAI{cfg: cfg}
	if m.cfg.Depth <= 0 || m.cfg.Depth > maxDepth {
		m.cfg.Depth = maxDepth
	}
	m.evaluate = cfg.Evaluate
	if m.evaluate == nil {
		m.evaluate = DefaultEvaluate
	}
	return m
}

func (m *MinimaxAI) Config() MinimaxConfig {
	return m.cfg
}

type frame struct {
	mg     moveGenerator
	moves  []tak.Move
	scores []int
	pv     [maxDepth + 1]tak.Move
	m      tak.Move
}

type searcher struct {
	ai     *MinimaxAI
	limits Limits

	start       time.Time
	deadline    time.Time
	hasDeadline bool

	table   *table
	history map[tak.Move]int

	st    Stats
	nodes uint64

	// budgets are ignored until the first iteration completes
	strict   bool
	stopped  bool
	canceled int32
	expired  int32

	stack [maxDepth + 1]frame
}

func formatpv(ms []tak.Move) string {
	var out bytes.Buffer
	out.WriteString("[")
	for i, m := range ms {
		if i != 0 {
			out.WriteString(" ")
		}
		out.WriteString(ptn.FormatMove(m))
	}
	out.WriteString("]")
	return out.String()
}

func (m *MinimaxAI) GetMove(ctx context.Context, p *tak.Position) tak.Move {
	r, err := m.Analyze(ctx, p, Limits{})
	if err != nil {
		return tak.Move{}
	}
	return r.Move
}

// Analyze searches p by iterative deepening. It returns the deepest
// completed iteration once the depth limit, a budget or the context
// deadline is reached. The first iteration always completes, so a
// legal move is returned unless ctx is canceled, in which case the
// result is discarded and context.Canceled returned.
func (m *MinimaxAI) Analyze(ctx context.Context, p *tak.Position, limits Limits) (Result, error) {
	if over, _ := p.GameOver(); over {
		return Result{}, ErrSearchExhausted
	}
	s := &searcher{
		ai:      m,
		limits:  limits,
		start:   time.Now(),
		history: make(map[tak.Move]int, p.Size()*p.Size()*p.Size()),
	}
	if !m.cfg.NoTable {
		s.table = newTable(m.cfg.TableSize)
	}
	if limits.Time > 0 {
		s.deadline = s.start.Add(limits.Time)
		s.hasDeadline = true
	}
	if d, ok := ctx.Deadline(); ok && (!s.hasDeadline || d.Before(s.deadline)) {
		s.deadline = d
		s.hasDeadline = true
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				atomic.StoreInt32(&s.canceled, 1)
			} else {
				atomic.StoreInt32(&s.expired, 1)
			}
		case <-done:
		}
	}()

	var best Result
	var prevEval, branchSum uint64
	for depth := 1; depth <= m.cfg.Depth; depth++ {
		s.strict = depth > 1
		s.st = Stats{Depth: depth}
		start := time.Now()
		pv, v := s.minimax(p, 0, depth, best.PV, MinEval-1, MaxEval+1)
		if s.stopped || len(pv) == 0 {
			break
		}
		best = Result{
			Move:    pv[0],
			Score:   v,
			Depth:   depth,
			Nodes:   s.nodes,
			PV:      append([]tak.Move(nil), pv...),
			Elapsed: time.Since(s.start),
		}
		timeMove := time.Since(start)
		if m.cfg.Debug > 0 {
			log.Printf("[minimax] deepen: depth=%d val=%d pv=%s time=%s total=%s evaluated=%d tt=%d branch=%d",
				depth, v, formatpv(best.PV),
				timeMove,
				best.Elapsed,
				s.st.Evaluated,
				s.st.TTHits,
				s.st.Evaluated/(prevEval+1),
			)
		}
		if m.cfg.Debug > 1 {
			log.Printf("[minimax]  stats: visited=%d scout=%d evaluated=%d cut=%d cut0=%d(%2.2f) cut1=%d(%2.2f) m/cut=%2.2f all=%d research=%d",
				s.st.Visited,
				s.st.Scout,
				s.st.Evaluated,
				s.st.CutNodes,
				s.st.Cut0,
				float64(s.st.Cut0)/float64(s.st.CutNodes+1),
				s.st.Cut1,
				float64(s.st.Cut0+s.st.Cut1)/float64(s.st.CutNodes+1),
				float64(s.st.CutSearch)/float64(s.st.CutNodes-s.st.Cut0-s.st.Cut1+1),
				s.st.AllNodes,
				s.st.ReSearch)
		}
		if limits.Progress != nil {
			limits.Progress(best)
		}
		if depth > 1 {
			branchSum += s.st.Evaluated / (prevEval + 1)
		}
		prevEval = s.st.Evaluated
		if v > WinThreshold || v < -WinThreshold {
			break
		}
		if s.spent() {
			break
		}
		if s.hasDeadline && depth != m.cfg.Depth {
			var branch uint64
			if depth > 2 {
				// conservatively multiply by 2 to
				// account for the bimodal branching
				// factor
				branch = 2 * branchSum / uint64(depth-1)
			} else {
				branch = 20
			}
			estimate := time.Now().Add(timeMove * time.Duration(branch))
			if estimate.After(s.deadline) {
				if m.cfg.Debug > 0 {
					log.Printf("[minimax] time cutoff: depth=%d used=%s estimate=%s",
						depth, time.Since(s.start), estimate.Sub(s.start))
				}
				break
			}
		}
	}
	if atomic.LoadInt32(&s.canceled) != 0 || errors.Is(ctx.Err(), context.Canceled) {
		return Result{}, context.Canceled
	}
	if best.Depth == 0 {
		return Result{}, ErrSearchExhausted
	}
	best.Nodes = s.nodes
	best.Elapsed = time.Since(s.start)
	return best, nil
}

// tick is called once per node and reports whether the search must
// stop.
func (s *searcher) tick() bool {
	if s.stopped {
		return true
	}
	s.nodes++
	if atomic.LoadInt32(&s.canceled) != 0 {
		s.stopped = true
		return true
	}
	if !s.strict {
		return false
	}
	if s.limits.Nodes > 0 && s.nodes > s.limits.Nodes {
		s.stopped = true
	} else if atomic.LoadInt32(&s.expired) != 0 {
		s.stopped = true
	} else if s.hasDeadline && s.nodes&0xff == 0 && !time.Now().Before(s.deadline) {
		s.stopped = true
	}
	return s.stopped
}

func (s *searcher) spent() bool {
	if s.limits.Nodes > 0 && s.nodes >= s.limits.Nodes {
		return true
	}
	if atomic.LoadInt32(&s.expired) != 0 {
		return true
	}
	return s.hasDeadline && !time.Now().Before(s.deadline)
}

func terminalScore(p *tak.Position, winner tak.Color, ply int) int64 {
	switch winner {
	case tak.NoColor:
		return 0
	case p.ToMove():
		return MaxEval - int64(ply)
	default:
		return -(MaxEval - int64(ply))
	}
}

func (s *searcher) minimax(
	p *tak.Position,
	ply, depth int,
	pv []tak.Move,
	α, β int64) ([]tak.Move, int64) {
	if s.tick() {
		return nil, 0
	}
	if over, winner := p.GameOver(); over {
		s.st.Evaluated++
		s.st.Terminal++
		return nil, terminalScore(p, winner, ply)
	}
	if depth == 0 {
		s.st.Evaluated++
		return nil, s.ai.evaluate(p)
	}

	s.st.Visited++
	if β == α+1 {
		s.st.Scout++
	}

	f := &s.stack[ply]
	var te *tableEntry
	if s.table != nil {
		te = s.table.get(p.Key())
	}
	if te != nil && ply > 0 {
		v := fromTable(te.value, ply)
		teSuffices := te.depth >= depth &&
			(te.bound == exactBound ||
				(te.bound == upperBound && v <= α) ||
				(te.bound == lowerBound && v >= β))
		if teSuffices {
			if _, e := p.Move(te.m); e == nil {
				s.st.TTHits++
				f.pv[0] = te.m
				return f.pv[:1], v
			}
			te = nil
		}
	}

	mg := &f.mg
	*mg = moveGenerator{
		s:     s,
		f:     f,
		ply:   ply,
		depth: depth,
		p:     p,
		te:    te,
		pv:    pv,
	}

	best := f.pv[:0]
	best = append(best, pv...)
	improved := false
	var i int
	for m, child := mg.Next(); child != nil; m, child = mg.Next() {
		i++
		var ms []tak.Move
		var newpv []tak.Move
		var v int64
		if len(best) != 0 {
			newpv = best[1:]
		}
		f.m = m
		if i > 1 {
			ms, v = s.minimax(child, ply+1, depth-1, newpv, -α-1, -α)
			if !s.stopped && -v > α && -v < β {
				s.st.ReSearch++
				ms, v = s.minimax(child, ply+1, depth-1, newpv, -β, -α)
			}
		} else {
			ms, v = s.minimax(child, ply+1, depth-1, newpv, -β, -α)
		}
		if s.stopped {
			return nil, 0
		}
		v = -v

		if i == 1 {
			best = append(best[:0], m)
			best = append(best, ms...)
		}
		if v > α {
			improved = true
			best = append(best[:0], m)
			best = append(best, ms...)
			α = v
			if α >= β {
				s.st.CutNodes++
				switch i {
				case 1:
					s.st.Cut0++
				case 2:
					s.st.Cut1++
				default:
					s.st.CutSearch += uint64(i + 1)
				}
				s.history[historyKey(m)] += 1 << uint(depth)
				if s.ai.cfg.Debug > 3 && i > 20 && depth >= 3 {
					var tm tak.Move
					td := 0
					if te != nil {
						tm = te.m
						td = te.depth
					}
					log.Printf("[minimax] late cutoff depth=%d m=%d pv=%s te=%d:%s killer=%s pos=%q",
						depth, i, formatpv(pv), td, ptn.FormatMove(tm), ptn.FormatMove(m), ptn.FormatTPS(p),
					)
				}
				break
			}
		}
	}
	if i == 0 {
		return nil, α
	}

	if s.table != nil {
		e := tableEntry{
			hash:  p.Key(),
			depth: depth,
			m:     best[0],
			value: toTable(α, ply),
		}
		if !improved {
			e.bound = upperBound
			s.st.AllNodes++
		} else if α >= β {
			e.bound = lowerBound
		} else {
			e.bound = exactBound
		}
		s.table.put(e)
	}

	return best, α
}
