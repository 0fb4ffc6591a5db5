// Package tei speaks the TEI engine protocol, a UCI-like line protocol
// for driving a Tak engine from a GUI or controller.
package tei

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/takumi-tak/takumi/ai"
	"github.com/takumi-tak/takumi/bridge"
	"github.com/takumi-tak/takumi/ptn"
	"github.com/takumi-tak/takumi/tak"
)

type Engine struct {
	Config ai.MinimaxConfig

	in *bufio.Reader

	mu  sync.Mutex
	out io.Writer

	size int
	komi tak.Komi
	pos  *tak.Position
	host *bridge.Host

	// searched maps running search IDs to their positions, for
	// answering a stop that comes before the first iteration.
	searchMu sync.Mutex
	searched map[string]*tak.Position
}

func NewEngine(in io.Reader, out io.Writer) *Engine {
	return &Engine{
		in:       bufio.NewReader(in),
		out:      out,
		size:     5,
		searched: make(map[string]*tak.Position),
	}
}

func (e *Engine) printf(format string, args ...interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fmt.Fprintf(e.out, format, args...)
}

// Run reads commands until quit or end of input. Searches run on a
// bridge.Host, so stop is handled while a search is in progress.
func (e *Engine) Run(ctx context.Context) error {
	e.host = bridge.New(ai.NewMinimax(e.Config))
	e.host.Debug = e.Config.Debug
	hostDone := make(chan error, 1)
	go func() { hostDone <- e.host.Run(ctx) }()
	reported := make(chan struct{})
	go func() {
		defer close(reported)
		e.report(e.host.Messages())
	}()
	defer func() {
		e.host.Close()
		<-reported
		<-hostDone
	}()

	for {
		line, err := e.in.ReadString('\n')
		if err == io.EOF && line == "" {
			return nil
		}
		if err != nil && err != io.EOF {
			return err
		}
		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}
		switch words[0] {
		case "tei":
			e.printf("id name takumi\n")
			e.printf("id author takumi developers\n")
			e.printf("teiok\n")
		case "quit":
			return nil
		case "teinewgame":
			if err := e.newGame(words[1:]); err != nil {
				log.Printf("teinewgame: %v", err)
			}
		case "setoption":
			if err := e.setOption(words[1:]); err != nil {
				log.Printf("setoption: %v", err)
			}
		case "position":
			pos, err := parsePosition(e.size, e.komi, words)
			if err != nil {
				log.Printf("error parsing position: %v", err)
				break
			}
			e.pos = pos
		case "go":
			if err := e.analyze(words[1:]); err != nil {
				log.Printf("error in go: %v", err)
			}
		case "stop":
			if err := e.host.Send(bridge.Cancel{}); err != nil {
				log.Printf("stop: %v", err)
			}
		case "isready":
			e.printf("readyok\n")
		default:
			log.Printf("unknown command: %q", strings.TrimSpace(line))
		}
	}
}

func (e *Engine) newGame(args []string) error {
	e.pos = nil
	e.size = 5
	e.komi = tak.Komi{}
	if len(args) == 0 {
		return nil
	}
	size, err := strconv.Atoi(args[0])
	if err != nil || size < 3 || size > 8 {
		return fmt.Errorf("bad size: %s", args[0])
	}
	e.size = size
	return nil
}

// setOption understands "name HalfKomi value N", with komi in half
// points.
func (e *Engine) setOption(args []string) error {
	if len(args) != 4 || args[0] != "name" || args[2] != "value" {
		return errors.New("expected name <option> value <v>")
	}
	switch args[1] {
	case "HalfKomi":
		n, err := strconv.Atoi(args[3])
		if err != nil || n < 0 {
			return fmt.Errorf("bad komi: %s", args[3])
		}
		e.komi = tak.Komi{Amount: n / 2, Half: n%2 == 1}
		return nil
	default:
		return fmt.Errorf("unknown option: %q", args[1])
	}
}

func parsePosition(size int, komi tak.Komi, words []string) (*tak.Position, error) {
	var pos *tak.Position
	cfg := tak.Config{Size: size, Komi: komi}
	words = words[1:]
	if len(words) == 0 {
		return nil, errors.New("not enough arguments")
	}
	switch words[0] {
	case "startpos":
		words = words[1:]
		pos = tak.New(cfg)
	case "tps":
		// tps A B C
		if len(words) < 4 {
			return nil, errors.New("position tps: not enough arguments")
		}
		var err error
		pos, err = ptn.ParseTPSConfig(strings.Join(words[1:4], " "), cfg)
		if err != nil {
			return nil, fmt.Errorf("parse TPS: %w", err)
		}
		words = words[4:]
		if pos.Size() != size {
			return nil, fmt.Errorf("tps has wrong size: got %d, configured for %d", pos.Size(), size)
		}
	default:
		return nil, fmt.Errorf("unknown initial position: %q", words[0])
	}
	if len(words) == 0 {
		return pos, nil
	}
	if words[0] != "moves" {
		return nil, errors.New("position: expected `moves'")
	}
	for _, w := range words[1:] {
		move, err := ptn.ParseMove(w)
		if err != nil {
			return nil, fmt.Errorf("parse move %q: %w", w, err)
		}
		pos, err = pos.Move(move)
		if err != nil {
			return nil, fmt.Errorf("move %q: %w", w, err)
		}
	}
	return pos, nil
}

// parseGo reads the arguments of a go command. Clock arguments are
// turned into a budget with ai.MoveTime unless movetime is given.
func parseGo(p *tak.Position, words []string) (ai.Limits, error) {
	var l ai.Limits
	var remaining, increment [2]time.Duration
	clock := false
	for i := 0; i < len(words); i++ {
		switch words[i] {
		case "infinite":
			continue
		case "movetime", "nodes", "wtime", "btime", "winc", "binc":
		default:
			return l, fmt.Errorf("unknown go argument: %q", words[i])
		}
		if i+1 >= len(words) {
			return l, fmt.Errorf("%s: missing value", words[i])
		}
		n, err := strconv.ParseUint(words[i+1], 10, 64)
		if err != nil {
			return l, fmt.Errorf("%s: bad value: %q", words[i], words[i+1])
		}
		ms := time.Duration(n) * time.Millisecond
		switch words[i] {
		case "movetime":
			l.Time = ms
		case "nodes":
			l.Nodes = n
		case "wtime":
			remaining[0], clock = ms, true
		case "btime":
			remaining[1], clock = ms, true
		case "winc":
			increment[0] = ms
		case "binc":
			increment[1] = ms
		}
		i++
	}
	if clock && l.Time == 0 {
		side := 0
		if p.ToMove() == tak.Black {
			side = 1
		}
		l.Time = ai.MoveTime(p.MoveNumber(), remaining[side], increment[side])
	}
	return l, nil
}

func (e *Engine) analyze(words []string) error {
	if e.pos == nil {
		return errors.New("no position provided")
	}
	limits, err := parseGo(e.pos, words)
	if err != nil {
		return err
	}
	id := uuid.NewString()
	e.searchMu.Lock()
	e.searched[id] = e.pos
	e.searchMu.Unlock()
	return e.host.Send(bridge.StartSearch{ID: id, Position: e.pos, Limits: limits})
}

func (e *Engine) position(id string) *tak.Position {
	e.searchMu.Lock()
	defer e.searchMu.Unlock()
	p := e.searched[id]
	delete(e.searched, id)
	return p
}

// fallback picks a move for a search stopped before it completed an
// iteration.
func (e *Engine) fallback(p *tak.Position) (tak.Move, error) {
	cfg := e.Config
	cfg.Depth = 1
	r, err := ai.NewMinimax(cfg).Analyze(context.Background(), p, ai.Limits{})
	return r.Move, err
}

// report prints bridge messages. A stopped search still answers with
// the best move of its last completed iteration, or of a depth 1
// search if it was stopped before finishing one.
func (e *Engine) report(msgs <-chan bridge.Message) {
	last := make(map[string]ai.Result)
	for m := range msgs {
		switch m := m.(type) {
		case bridge.Progress:
			last[m.ID] = m.Result
			e.info(m.Result)
		case bridge.Result:
			delete(last, m.ID)
			e.position(m.ID)
			e.printf("bestmove %s\n", ptn.FormatMove(m.Result.Move))
		case bridge.Aborted:
			p := e.position(m.ID)
			r, ok := last[m.ID]
			delete(last, m.ID)
			if ok {
				e.printf("bestmove %s\n", ptn.FormatMove(r.Move))
				break
			}
			if p == nil {
				break
			}
			mv, err := e.fallback(p)
			if err != nil {
				e.printf("info string %v\n", err)
				break
			}
			e.printf("bestmove %s\n", ptn.FormatMove(mv))
		case bridge.Failed:
			delete(last, m.ID)
			e.position(m.ID)
			log.Printf("search failed: %v", m.Err)
			e.printf("info string %v\n", m.Err)
		}
	}
}

func (e *Engine) info(r ai.Result) {
	var pvs strings.Builder
	for _, m := range r.PV {
		pvs.WriteString(" ")
		pvs.WriteString(ptn.FormatMove(m))
	}
	e.printf("info depth %d time %d nodes %d score cp %d pv%s\n",
		r.Depth,
		r.Elapsed/time.Millisecond,
		r.Nodes,
		r.Score,
		pvs.String(),
	)
}
