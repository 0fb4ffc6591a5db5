package ai

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/takumi-tak/takumi/tak"
	"github.com/takumi-tak/takumi/taktest"
)

func TestEvaluateSign(t *testing.T) {
	white := taktest.TPS("x5/x5/1,1,1,1,x/x5/2,x,2,x2 1 5")
	black := taktest.TPS("x5/x5/1,1,1,1,x/x5/2,x,2,x2 2 5")
	if v := Evaluate(&DefaultWeights, white); v <= 0 {
		t.Errorf("white ahead, white to move: %d", v)
	}
	if v := Evaluate(&DefaultWeights, black); v >= 0 {
		t.Errorf("white ahead, black to move: %d", v)
	}
}

func TestEvaluateBounded(t *testing.T) {
	for size := 3; size <= 8; size++ {
		p := tak.New(tak.Config{Size: size})
		for ply := 0; ply < 80; ply++ {
			v := Evaluate(&DefaultWeights, p)
			if v >= WinThreshold || v <= -WinThreshold {
				t.Fatalf("size %d ply %d: eval %d out of range", size, ply, v)
			}
			if again := Evaluate(&DefaultWeights, p); again != v {
				t.Fatalf("size %d ply %d: eval not deterministic", size, ply)
			}
			if over, _ := p.GameOver(); over {
				break
			}
			moves := p.AllMoves(nil)
			next, err := p.Move(moves[(ply*11+5)%len(moves)])
			if err != nil {
				t.Fatal(err)
			}
			p = next
		}
	}
}

func TestEvaluateMobilityCap(t *testing.T) {
	p := taktest.TPS("x5/x,1,x,1,x/x5/x,1,x,1,x/x5 2 3")
	diff := p.MoveCount(tak.White) - p.MoveCount(tak.Black)
	if diff <= 4 {
		t.Fatalf("white should out-move black, diff=%d", diff)
	}
	capped := DefaultWeights
	capped.MobilityCap = 4
	uncapped := DefaultWeights
	uncapped.MobilityCap = 0
	none := DefaultWeights
	none.Mobility = 0

	// black to move, so white's extra moves count against the mover
	if got, want := Evaluate(&uncapped, p)-Evaluate(&none, p), -int64(diff*DefaultWeights.Mobility); got != want {
		t.Errorf("uncapped mobility term %d, want %d", got, want)
	}
	if got, want := Evaluate(&capped, p)-Evaluate(&none, p), -int64(4*DefaultWeights.Mobility); got != want {
		t.Errorf("capped mobility term %d, want %d", got, want)
	}
}

func TestExplainScore(t *testing.T) {
	var buf bytes.Buffer
	p := taktest.TPS("x5/x5/1,1,1,1,x/x5/2,x,2,x2 1 5")
	ExplainScore(&DefaultWeights, &buf, p)
	out := buf.String()
	for _, want := range []string{"flats", "liberties", "score"} {
		if !strings.Contains(out, want) {
			t.Errorf("explanation lacks %q:\n%s", want, out)
		}
	}
	score := strconv.FormatInt(Evaluate(&DefaultWeights, p), 10)
	if !strings.Contains(out, score) {
		t.Errorf("explanation lacks the score %s:\n%s", score, out)
	}
}
