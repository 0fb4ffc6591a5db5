// Package bridge runs searches off the caller's goroutine. A Host
// accepts StartSearch and Cancel requests, runs one search at a time
// and reports on a message channel.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/takumi-tak/takumi/ai"
	"github.com/takumi-tak/takumi/tak"
)

var (
	ErrClosed     = errors.New("bridge: host closed")
	ErrNoPosition = errors.New("bridge: no position")
)

// Engine is the search a Host drives. *ai.MinimaxAI implements it.
type Engine interface {
	Analyze(ctx context.Context, p *tak.Position, limits ai.Limits) (ai.Result, error)
}

type Host struct {
	Debug int

	engine Engine

	mu     sync.Mutex
	inbox  []Request
	closed bool
	wake   chan struct{}

	out *outbox
}

func New(engine Engine) *Host {
	h := &Host{
		engine: engine,
		wake:   make(chan struct{}, 1),
		out:    newOutbox(),
	}
	go h.out.pump()
	return h
}

// Send queues a request. It never blocks.
func (h *Host) Send(r Request) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrClosed
	}
	h.inbox = append(h.inbox, r)
	h.mu.Unlock()
	h.notify()
	return nil
}

// Search sends a StartSearch under a fresh ID and returns the ID.
func (h *Host) Search(p *tak.Position, limits ai.Limits) (string, error) {
	id := uuid.NewString()
	if err := h.Send(StartSearch{ID: id, Position: p, Limits: limits}); err != nil {
		return "", err
	}
	return id, nil
}

// Messages returns the channel of emitted messages. It is closed once
// Run returns and every message has been read.
func (h *Host) Messages() <-chan Message {
	return h.out.ch
}

// Close stops the host. The running search and any queued ones are
// aborted.
func (h *Host) Close() {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
	h.notify()
}

func (h *Host) notify() {
	select {
	case h.wake <- struct{}{}:
	default:
	}
}

type search struct {
	req    StartSearch
	ctx    context.Context
	cancel context.CancelFunc
	limits ai.Limits

	aborted  bool
	launched bool
}

type finished struct {
	s   *search
	res ai.Result
	err error
}

// Run dispatches requests until ctx is done or Close is called. It
// returns nil after Close.
func (h *Host) Run(ctx context.Context) error {
	defer h.out.close()

	done := make(chan finished, 1)
	var cur *search
	var queue []StartSearch
	for {
		if cur == nil && len(queue) > 0 {
			cur = h.start(ctx, queue[0])
			queue = queue[1:]
		}

		h.mu.Lock()
		reqs := h.inbox
		h.inbox = nil
		closed := h.closed
		h.mu.Unlock()

		for _, r := range reqs {
			switch r := r.(type) {
			case StartSearch:
				if r.ID == "" {
					r.ID = uuid.NewString()
				}
				// Take it as current at once when idle so that a
				// Cancel later in the same batch applies to it.
				if cur == nil {
					cur = h.start(ctx, r)
				} else {
					queue = append(queue, r)
				}
			case Cancel:
				if cur != nil && (r.ID == "" || r.ID == cur.req.ID) {
					cur.abort()
				} else if r.ID != "" {
					queue = h.drop(queue, r.ID)
				}
			default:
				panic(fmt.Sprintf("bridge: bad request %T", r))
			}
		}
		if cur != nil && !cur.launched {
			h.launch(cur, done)
		}

		if closed || ctx.Err() != nil {
			if cur != nil {
				cur.abort()
				h.finish(<-done)
			}
			for _, q := range queue {
				h.out.push(Aborted{ID: q.ID})
			}
			if closed {
				return nil
			}
			return ctx.Err()
		}

		select {
		case <-h.wake:
		case f := <-done:
			h.finish(f)
			cur = nil
		case <-ctx.Done():
		}
	}
}

func (h *Host) start(ctx context.Context, req StartSearch) *search {
	sctx, cancel := context.WithCancel(ctx)
	s := &search{req: req, ctx: sctx, cancel: cancel}
	limits := req.Limits
	user := limits.Progress
	limits.Progress = func(r ai.Result) {
		if user != nil {
			user(r)
		}
		if sctx.Err() == nil {
			h.out.push(Progress{ID: req.ID, Result: r})
		}
	}
	s.limits = limits
	return s
}

// launch runs s on its own goroutine. A search aborted before launch
// never reaches the engine.
func (h *Host) launch(s *search, done chan<- finished) {
	s.launched = true
	if h.Debug > 0 {
		log.Printf("[bridge] start id=%s", s.req.ID)
	}
	go func() {
		f := finished{s: s}
		switch {
		case s.ctx.Err() != nil:
			f.err = s.ctx.Err()
		case s.req.Position == nil:
			f.err = ErrNoPosition
		default:
			f.res, f.err = h.engine.Analyze(s.ctx, s.req.Position, s.limits)
		}
		s.cancel()
		done <- f
	}()
}

func (s *search) abort() {
	s.aborted = true
	s.cancel()
}

func (h *Host) finish(f finished) {
	id := f.s.req.ID
	switch {
	case f.s.aborted || errors.Is(f.err, context.Canceled):
		h.out.push(Aborted{ID: id})
	case f.err != nil:
		if h.Debug > 0 {
			log.Printf("[bridge] search id=%s failed: %v", id, f.err)
		}
		h.out.push(Failed{ID: id, Err: f.err})
	default:
		if h.Debug > 0 {
			log.Printf("[bridge] done id=%s depth=%d nodes=%d", id, f.res.Depth, f.res.Nodes)
		}
		h.out.push(Result{ID: id, Result: f.res})
	}
}

func (h *Host) drop(queue []StartSearch, id string) []StartSearch {
	out := queue[:0]
	for _, q := range queue {
		if q.ID == id {
			h.out.push(Aborted{ID: id})
			continue
		}
		out = append(out, q)
	}
	return out
}
