package opt

import (
	"flag"
	"log"
	"time"

	"github.com/takumi-tak/takumi/ai"
)

// Minimax holds the search flags shared by every command that runs
// the engine.
type Minimax struct {
	Debug     int
	Depth     int
	MaxNodes  uint64
	Sort      bool
	Table     bool
	TableSize int
	Weights   string
	Time      time.Duration
}

func (o *Minimax) AddFlags(flags *flag.FlagSet) {
	flags.IntVar(&o.Debug, "debug", 1, "debug level")
	flags.IntVar(&o.Depth, "depth", 0, "minimax depth")
	flags.Uint64Var(&o.MaxNodes, "max-nodes", 0, "limit the search by number of nodes visited")
	flags.BoolVar(&o.Sort, "sort", true, "sort moves via history heuristic")
	flags.BoolVar(&o.Table, "table", true, "use a transposition table")
	flags.IntVar(&o.TableSize, "table-size", 0, "transposition table buckets per search")
	flags.StringVar(&o.Weights, "weights", "", "JSON-encoded evaluation weights")
	flags.DurationVar(&o.Time, "time", 0, "limit the search by time")
}

// ParseWeights returns the -weights flag on top of the defaults.
func (o *Minimax) ParseWeights() *ai.Weights {
	w, e := ai.ParseWeights(o.Weights)
	if e != nil {
		log.Fatalf("parse weights: %v", e)
	}
	return w
}

func (o *Minimax) BuildConfig() ai.MinimaxConfig {
	w := o.ParseWeights()
	return ai.MinimaxConfig{
		Depth:     o.Depth,
		Debug:     o.Debug,
		TableSize: o.TableSize,
		NoSort:    !o.Sort,
		NoTable:   !o.Table,
		Evaluate:  ai.MakeEvaluator(w),
	}
}

func (o *Minimax) Limits() ai.Limits {
	return ai.Limits{Time: o.Time, Nodes: o.MaxNodes}
}
