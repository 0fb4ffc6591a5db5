package bridge

import "sync"

// outbox is an unbounded FIFO in front of a channel, so that the
// dispatcher never blocks on a slow reader.
type outbox struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []Message
	closed bool

	ch chan Message
}

func newOutbox() *outbox {
	o := &outbox{ch: make(chan Message)}
	o.cond = sync.NewCond(&o.mu)
	return o
}

func (o *outbox) push(m Message) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.items = append(o.items, m)
	o.cond.Signal()
}

func (o *outbox) close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	o.cond.Signal()
}

func (o *outbox) pump() {
	for {
		o.mu.Lock()
		for len(o.items) == 0 && !o.closed {
			o.cond.Wait()
		}
		if len(o.items) == 0 {
			o.mu.Unlock()
			close(o.ch)
			return
		}
		m := o.items[0]
		o.items[0] = nil
		o.items = o.items[1:]
		o.mu.Unlock()
		o.ch <- m
	}
}
