package bridge

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/takumi-tak/takumi/ai"
	"github.com/takumi-tak/takumi/tak"
	"github.com/takumi-tak/takumi/taktest"
)

// stubEngine blocks until its search is canceled, or until released
// when ignoreCancel is set.
type stubEngine struct {
	started      chan *tak.Position
	release      chan struct{}
	ignoreCancel bool
}

func newStub() *stubEngine {
	return &stubEngine{
		started: make(chan *tak.Position, 10),
		release: make(chan struct{}),
	}
}

func (e *stubEngine) Analyze(ctx context.Context, p *tak.Position, l ai.Limits) (ai.Result, error) {
	e.started <- p
	if e.ignoreCancel {
		<-e.release
		return ai.Result{Depth: 1}, nil
	}
	<-ctx.Done()
	return ai.Result{}, ctx.Err()
}

func runHost(t *testing.T, e Engine) (*Host, <-chan error) {
	t.Helper()
	h := New(e)
	errc := make(chan error, 1)
	go func() { errc <- h.Run(context.Background()) }()
	t.Cleanup(h.Close)
	return h, errc
}

func next(t *testing.T, h *Host) Message {
	t.Helper()
	select {
	case m, ok := <-h.Messages():
		require.True(t, ok, "messages closed")
		return m
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for a message")
	}
	return nil
}

func waitStarted(t *testing.T, e *stubEngine) *tak.Position {
	t.Helper()
	select {
	case p := <-e.started:
		return p
	case <-time.After(10 * time.Second):
		t.Fatal("search never started")
	}
	return nil
}

func TestSearchResult(t *testing.T) {
	mm := ai.NewMinimax(ai.MinimaxConfig{Depth: 3})
	h, _ := runHost(t, mm)
	p := taktest.Position(5, "a1 e5 c3")
	id, err := h.Search(p, ai.Limits{})
	require.NoError(t, err)

	var depths []int
	for {
		m := next(t, h)
		assert.Equal(t, id, m.SearchID())
		if pr, ok := m.(Progress); ok {
			depths = append(depths, pr.Result.Depth)
			continue
		}
		res, ok := m.(Result)
		require.True(t, ok, "got %#v", m)
		assert.Equal(t, 3, res.Result.Depth)
		_, err := p.Move(res.Result.Move)
		assert.NoError(t, err)
		break
	}
	assert.Equal(t, []int{1, 2, 3}, depths)
}

func TestFIFO(t *testing.T) {
	mm := ai.NewMinimax(ai.MinimaxConfig{Depth: 2})
	h, _ := runHost(t, mm)
	var ids []string
	for _, ms := range []string{"a1 e5", "a1 e5 c3", "a1 e5 c3 c2"} {
		id, err := h.Search(taktest.Position(5, ms), ai.Limits{})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	var got []string
	for len(got) < len(ids) {
		if r, ok := next(t, h).(Result); ok {
			got = append(got, r.ID)
		}
	}
	assert.Equal(t, ids, got)
}

func TestCancelRunning(t *testing.T) {
	e := newStub()
	h, _ := runHost(t, e)
	id, err := h.Search(tak.New(tak.Config{Size: 5}), ai.Limits{})
	require.NoError(t, err)
	waitStarted(t, e)
	require.NoError(t, h.Send(Cancel{}))
	assert.Equal(t, Aborted{ID: id}, next(t, h))
}

func TestCancelSuppressesResult(t *testing.T) {
	e := newStub()
	e.ignoreCancel = true
	h, _ := runHost(t, e)
	id, err := h.Search(tak.New(tak.Config{Size: 5}), ai.Limits{})
	require.NoError(t, err)
	waitStarted(t, e)
	require.NoError(t, h.Send(Cancel{ID: id}))

	// let the dispatcher see the cancel before the engine returns
	time.Sleep(50 * time.Millisecond)
	close(e.release)
	assert.Equal(t, Aborted{ID: id}, next(t, h))

	id2, err := h.Search(tak.New(tak.Config{Size: 5}), ai.Limits{})
	require.NoError(t, err)
	waitStarted(t, e)
	assert.Equal(t, Result{ID: id2, Result: ai.Result{Depth: 1}}, next(t, h))
}

func TestCancelBeforeRun(t *testing.T) {
	mm := ai.NewMinimax(ai.MinimaxConfig{Depth: 3})
	h := New(mm)
	t.Cleanup(h.Close)
	id, err := h.Search(taktest.Position(5, "a1 e5 c3"), ai.Limits{})
	require.NoError(t, err)
	require.NoError(t, h.Send(Cancel{}))
	go h.Run(context.Background())

	assert.Equal(t, Aborted{ID: id}, next(t, h))

	id2, err := h.Search(taktest.Position(5, "a1 e5"), ai.Limits{})
	require.NoError(t, err)
	for {
		m := next(t, h)
		assert.Equal(t, id2, m.SearchID(), "got %#v", m)
		if _, ok := m.(Result); ok {
			break
		}
	}
}

func TestCancelQueued(t *testing.T) {
	e := newStub()
	h, _ := runHost(t, e)
	a, err := h.Search(tak.New(tak.Config{Size: 5}), ai.Limits{})
	require.NoError(t, err)
	b, err := h.Search(tak.New(tak.Config{Size: 6}), ai.Limits{})
	require.NoError(t, err)
	p := waitStarted(t, e)
	assert.Equal(t, 5, p.Size())

	require.NoError(t, h.Send(Cancel{ID: b}))
	assert.Equal(t, Aborted{ID: b}, next(t, h))
	require.NoError(t, h.Send(Cancel{ID: a}))
	assert.Equal(t, Aborted{ID: a}, next(t, h))

	select {
	case p := <-e.started:
		t.Fatalf("canceled search started: size %d", p.Size())
	case <-time.After(50 * time.Millisecond):
	}
}

func TestFailed(t *testing.T) {
	mm := ai.NewMinimax(ai.MinimaxConfig{Depth: 2})
	h, _ := runHost(t, mm)
	over := taktest.TPS("x5/x5/1,1,1,1,1/x5/2,x,2,x2 2 5")
	id, err := h.Search(over, ai.Limits{})
	require.NoError(t, err)
	m := next(t, h)
	f, ok := m.(Failed)
	require.True(t, ok, "got %#v", m)
	assert.Equal(t, id, f.ID)
	assert.True(t, errors.Is(f.Err, ai.ErrSearchExhausted))

	require.NoError(t, h.Send(StartSearch{ID: "nil"}))
	assert.Equal(t, Failed{ID: "nil", Err: ErrNoPosition}, next(t, h))
}

func TestClose(t *testing.T) {
	e := newStub()
	h := New(e)
	errc := make(chan error, 1)
	go func() { errc <- h.Run(context.Background()) }()

	a, err := h.Search(tak.New(tak.Config{Size: 5}), ai.Limits{})
	require.NoError(t, err)
	b, err := h.Search(tak.New(tak.Config{Size: 5}), ai.Limits{})
	require.NoError(t, err)
	waitStarted(t, e)
	h.Close()

	var got []Message
	for m := range h.Messages() {
		got = append(got, m)
	}
	assert.Equal(t, []Message{Aborted{ID: a}, Aborted{ID: b}}, got)
	assert.NoError(t, <-errc)
	assert.Equal(t, ErrClosed, h.Send(Cancel{}))
}

func TestRunContext(t *testing.T) {
	e := newStub()
	h := New(e)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- h.Run(ctx) }()

	id, err := h.Search(tak.New(tak.Config{Size: 5}), ai.Limits{})
	require.NoError(t, err)
	waitStarted(t, e)
	cancel()
	assert.Equal(t, Aborted{ID: id}, next(t, h))
	assert.Equal(t, context.Canceled, <-errc)
}
