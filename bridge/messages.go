package bridge

import (
	"github.com/takumi-tak/takumi/ai"
	"github.com/takumi-tak/takumi/tak"
)

// A Request is sent to a Host with Send.
type Request interface {
	request()
}

// StartSearch queues a search of Position. Searches run one at a time
// in the order they were sent.
type StartSearch struct {
	ID       string
	Position *tak.Position
	Limits   ai.Limits
}

// Cancel aborts the search with the given ID, whether it is running or
// still queued. An empty ID aborts whichever search is running.
type Cancel struct {
	ID string
}

func (StartSearch) request() {}
func (Cancel) request()      {}

// A Message is emitted by a Host. Every search ends with exactly one
// Result, Aborted or Failed.
type Message interface {
	SearchID() string
}

// Progress reports a completed iteration of a running search.
type Progress struct {
	ID     string
	Result ai.Result
}

type Result struct {
	ID     string
	Result ai.Result
}

// Aborted is sent in place of a Result for a canceled search.
type Aborted struct {
	ID string
}

type Failed struct {
	ID  string
	Err error
}

func (m Progress) SearchID() string { return m.ID }
func (m Result) SearchID() string   { return m.ID }
func (m Aborted) SearchID() string  { return m.ID }
func (m Failed) SearchID() string   { return m.ID }
