package ai

import (
	"testing"

	"github.com/takumi-tak/takumi/tak"
)

func TestTableReplace(t *testing.T) {
	tt := newTable(4)
	if len(tt.buckets) != 4 {
		t.Fatalf("buckets: %d", len(tt.buckets))
	}
	a := tak.MakePlace(0, 0, tak.Flat)
	b := tak.MakePlace(1, 1, tak.Flat)

	tt.put(tableEntry{hash: 1, depth: 3, value: 10, m: a})
	if e := tt.get(1); e == nil || e.value != 10 {
		t.Fatalf("get after put: %+v", e)
	}
	tt.put(tableEntry{hash: 1, depth: 2, value: 20, m: b})
	if e := tt.get(1); e.value != 10 {
		t.Errorf("shallower entry replaced a deeper one")
	}
	tt.put(tableEntry{hash: 1, depth: 3, value: 30, m: b})
	if e := tt.get(1); e.value != 30 || !e.m.Equal(b) {
		t.Errorf("equal depth did not replace: %+v", e)
	}
	if e := tt.get(2); e != nil {
		t.Errorf("miss returned %+v", e)
	}
}

func TestTableEvict(t *testing.T) {
	tt := newTable(4)
	// 1, 5 and 9 share a bucket
	tt.put(tableEntry{hash: 1, depth: 5})
	tt.put(tableEntry{hash: 5, depth: 2})
	tt.put(tableEntry{hash: 9, depth: 3})
	if tt.get(1) == nil {
		t.Errorf("deep entry evicted")
	}
	if tt.get(5) != nil {
		t.Errorf("shallow entry kept")
	}
	if tt.get(9) == nil {
		t.Errorf("new entry dropped")
	}
}

func TestTableMateScores(t *testing.T) {
	win := MaxEval - 7
	stored := toTable(win, 3)
	if got := fromTable(stored, 3); got != win {
		t.Errorf("round trip at the same ply: %d", got)
	}
	// the same position found two plies deeper wins two plies later
	if got := fromTable(stored, 5); got != MaxEval-9 {
		t.Errorf("win at ply 5: %d", got)
	}
	loss := -(MaxEval - 4)
	if got := fromTable(toTable(loss, 1), 2); got != -(MaxEval - 5) {
		t.Errorf("loss at ply 2: %d", got)
	}
	if got := fromTable(toTable(123, 4), 9); got != 123 {
		t.Errorf("heuristic score changed: %d", got)
	}
}
