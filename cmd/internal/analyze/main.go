package analyze

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/google/subcommands"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/takumi-tak/takumi/ai"
	"github.com/takumi-tak/takumi/cli"
	"github.com/takumi-tak/takumi/cmd/internal/opt"
	"github.com/takumi-tak/takumi/ptn"
	"github.com/takumi-tak/takumi/tak"
)

type Command struct {
	/* Global options / output options */
	tps        bool
	quiet      bool
	unicode    bool
	cpuProfile string

	/* Options to select which position(s) to analyze */
	position  string
	move      int
	all       bool
	black     bool
	white     bool
	variation string

	timeLimit time.Duration
	eval      bool
	explain   bool
	mmopt     opt.Minimax
}

func (*Command) Name() string     { return "analyze" }
func (*Command) Synopsis() string { return "Evaluate a position from a PTN file" }
func (*Command) Usage() string {
	return `analyze [options] FILE.ptn
analyze [options] -position TPS

Evaluate a position from a PTN file, or one given as TPS.

By default evaluates the final position in the file; Use -move and -white/-black
to select a different position, and -variation to play additional moves prior
to analysis.
`
}

func (c *Command) SetFlags(flags *flag.FlagSet) {
	flags.BoolVar(&c.tps, "tps", false, "render position in tps")
	flags.BoolVar(&c.quiet, "quiet", false, "don't print board diagrams")
	flags.BoolVar(&c.unicode, "unicode", false, "draw boards with unicode glyphs")
	flags.StringVar(&c.cpuProfile, "cpuprofile", "", "write CPU profile")

	flags.StringVar(&c.position, "position", "", "analyze this TPS instead of a PTN file")
	flags.IntVar(&c.move, "move", 0, "PTN move number to analyze")
	flags.BoolVar(&c.all, "all", false, "analyze all positions in the PTN")
	flags.BoolVar(&c.black, "black", false, "only analyze black's move")
	flags.BoolVar(&c.white, "white", false, "only analyze white's move")
	flags.StringVar(&c.variation, "variation", "", "apply the listed moves after the given position")

	flags.DurationVar(&c.timeLimit, "limit", time.Minute, "limit of how much time to use")
	flags.BoolVar(&c.eval, "evaluate", false, "only show static evaluation")
	flags.BoolVar(&c.explain, "explain", false, "explain scoring")

	c.mmopt.AddFlags(flags)
}

func parseFile(path string) (*ptn.PTN, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ptn.ParsePTN(f)
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	color := tak.NoColor
	switch {
	case c.white && c.black:
		log.Fatal("-white and -black are exclusive")
	case c.white:
		color = tak.White
	case c.black:
		color = tak.Black
	case c.move != 0:
		color = tak.White
	}

	if c.cpuProfile != "" {
		f, e := os.OpenFile(c.cpuProfile, os.O_WRONLY|os.O_CREATE, 0644)
		if e != nil {
			log.Fatalf("open cpu-profile: %s: %v", c.cpuProfile, e)
		}
		pprof.StartCPUProfile(f)
		defer f.Close()
		defer pprof.StopCPUProfile()
	}

	mm := ai.NewMinimax(c.mmopt.BuildConfig())

	if c.position != "" {
		p, e := ptn.ParseTPS(c.position)
		if e != nil {
			log.Fatal("-position: ", e)
		}
		c.analyzeVariation(ctx, mm, p)
		return subcommands.ExitSuccess
	}
	if flag.NArg() != 1 {
		log.Println("Must supply a PTN file or -position")
		return subcommands.ExitUsageError
	}
	parsed, e := parseFile(flag.Arg(0))
	if e != nil {
		log.Fatal("parse:", e)
	}

	if !c.all {
		p, e := parsed.PositionAtMove(c.move, color)
		if e != nil {
			log.Fatal("find move:", e)
		}
		c.analyzeVariation(ctx, mm, p)
		return subcommands.ExitSuccess
	}

	it := parsed.Iterator()
	for it.Next() {
		p := it.Position()
		m, ok := it.PeekMove()
		if !ok {
			break
		}
		switch {
		case p.ToMove() == tak.White && color != tak.Black:
			fmt.Printf("%d. %s\n", p.MoveNumber()/2+1, ptn.FormatMove(m))
			c.analyze(ctx, mm, p)
		case p.ToMove() == tak.Black && color != tak.White:
			fmt.Printf("%d. ... %s\n", p.MoveNumber()/2+1, ptn.FormatMove(m))
			c.analyze(ctx, mm, p)
		}
	}
	if e := it.Err(); e != nil {
		log.Fatalf("%d: %v", it.PTNMove(), e)
	}
	return subcommands.ExitSuccess
}

func (c *Command) analyzeVariation(ctx context.Context, mm *ai.MinimaxAI, p *tak.Position) {
	if c.variation != "" {
		var e error
		p, e = applyVariation(p, c.variation)
		if e != nil {
			log.Fatal("-variation:", e)
		}
	}
	c.analyze(ctx, mm, p)
}

func applyVariation(p *tak.Position, variant string) (*tak.Position, error) {
	for _, moveStr := range strings.Fields(variant) {
		m, e := ptn.ParseMove(moveStr)
		if e != nil {
			return nil, e
		}
		p, e = p.Move(m)
		if e != nil {
			return nil, fmt.Errorf("bad move `%s': %w", moveStr, e)
		}
	}
	return p, nil
}

func (c *Command) glyphs() *cli.Glyphs {
	if c.unicode {
		return &cli.UnicodeGlyphs
	}
	return &cli.DefaultGlyphs
}

func (c *Command) weights() *ai.Weights {
	if c.mmopt.Weights == "" {
		return &ai.DefaultWeights
	}
	w, e := ai.ParseWeights(c.mmopt.Weights)
	if e != nil {
		log.Fatalf("parse weights: %v", e)
	}
	return w
}

func (c *Command) analyze(ctx context.Context, mm *ai.MinimaxAI, p *tak.Position) {
	if c.timeLimit != 0 {
		var cancel func()
		ctx, cancel = context.WithTimeout(ctx, c.timeLimit)
		defer cancel()
	}
	if !c.quiet {
		cli.RenderBoard(c.glyphs(), os.Stdout, p)
		if c.explain {
			ai.ExplainScore(c.weights(), os.Stdout, p)
		}
	}
	if o := p.Status(); o.Over {
		fmt.Printf("Game over: %s\n", cli.FormatOutcome(o))
		return
	}
	if c.eval {
		fmt.Printf(" Val=%d\n", ai.Evaluate(c.weights(), p))
		return
	}

	res, err := mm.Analyze(ctx, p, c.mmopt.Limits())
	if err != nil {
		log.Fatalf("analyze: %v", err)
	}
	pr := message.NewPrinter(language.English)
	fmt.Printf("AI analysis:\n")
	fmt.Printf(" pv=")
	for _, m := range res.PV {
		fmt.Printf("%s ", ptn.FormatMove(m))
	}
	fmt.Printf("\n")
	fmt.Printf(" value=%d depth=%d\n", res.Score, res.Depth)
	nps := float64(res.Nodes) / (res.Elapsed.Seconds() + 1e-9)
	pr.Printf(" nodes=%d time=%s nps=%.0f\n", res.Nodes, res.Elapsed, nps)
	if c.tps {
		fmt.Printf("[TPS \"%s\"]\n", ptn.FormatTPS(p))
	}
	fmt.Println()
	if c.quiet {
		return
	}
	for _, m := range res.PV {
		n, e := p.Move(m)
		if e != nil {
			log.Printf("illegal move in pv: %s: %v", ptn.FormatMove(m), e)
			return
		}
		p = n
	}
	fmt.Println("Resulting position:")
	cli.RenderBoard(c.glyphs(), os.Stdout, p)
	if c.explain {
		ai.ExplainScore(c.weights(), os.Stdout, p)
	}
	fmt.Println()
	fmt.Println()
}
