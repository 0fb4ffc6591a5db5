package selfplay

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path"
	"runtime/pprof"
	"text/tabwriter"
	"time"

	"github.com/google/subcommands"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/takumi-tak/takumi/ai"
	"github.com/takumi-tak/takumi/logs"
	"github.com/takumi-tak/takumi/ptn"
	"github.com/takumi-tak/takumi/tak"
)

type Command struct {
	size int
	seed int64

	games       int
	cutoff      int
	swap        bool
	randomPlies int

	prefix   string
	openings string

	depth1, depth2 int
	w1, w2         string

	debug     int
	limit     time.Duration
	clock     time.Duration
	increment time.Duration

	threads int

	out     string
	summary string
	db      string
	verbose bool

	memProfile string
}

func (*Command) Name() string     { return "selfplay" }
func (*Command) Synopsis() string { return "Play two engine configurations against each other and report results" }
func (*Command) Usage() string {
	return `selfplay [flags]
`
}

func (c *Command) SetFlags(flags *flag.FlagSet) {
	flags.IntVar(&c.size, "size", 5, "board size")
	flags.IntVar(&c.depth1, "d1", 3, "player1 search depth")
	flags.IntVar(&c.depth2, "d2", 3, "player2 search depth")
	flags.StringVar(&c.w1, "w1", "", "player1 JSON-encoded evaluation weights")
	flags.StringVar(&c.w2, "w2", "", "player2 JSON-encoded evaluation weights")

	flags.Int64Var(&c.seed, "seed", 0, "starting random seed")
	flags.IntVar(&c.games, "games", 10, "number of games to play per opening/color")
	flags.IntVar(&c.cutoff, "cutoff", 80, "cut games off after how many plies")
	flags.BoolVar(&c.swap, "swap", true, "swap colors each game")
	flags.IntVar(&c.randomPlies, "random-plies", 2, "random moves to play from each opening")
	flags.StringVar(&c.prefix, "prefix", "", "ptn file to start games at the end of")
	flags.StringVar(&c.openings, "openings", "", "File of openings, 1/line in TPS")
	flags.IntVar(&c.debug, "debug", 0, "debug level")
	flags.DurationVar(&c.limit, "limit", 0, "amount of time to search each move")
	flags.DurationVar(&c.clock, "clock", 0, "game clock per player (overrides -limit)")
	flags.DurationVar(&c.increment, "inc", 0, "clock increment per move")
	flags.IntVar(&c.threads, "threads", 4, "number of parallel threads")
	flags.StringVar(&c.out, "out", "", "directory to write ptns to")
	flags.StringVar(&c.summary, "summary", "", "write summary JSON file")
	flags.StringVar(&c.db, "db", "", "sqlite database to log games to")
	flags.BoolVar(&c.verbose, "v", false, "verbose output")
	flags.StringVar(&c.memProfile, "mem-profile", "", "write memory profile")
}

func readOpenings(path string) ([]*tak.Position, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []*tak.Position
	r := bufio.NewScanner(f)
	for r.Scan() {
		line := r.Text()
		pos, err := ptn.ParseTPS(line)
		if err != nil {
			return nil, fmt.Errorf("parse TPS: %q: %w", line, err)
		}
		out = append(out, pos)
	}
	return out, r.Err()
}

func readPrefix(path string) (*tak.Position, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	pt, err := ptn.ParsePTN(f)
	if err != nil {
		return nil, err
	}
	return pt.PositionAtMove(0, tak.NoColor)
}

func (c *Command) engine(depth int, weights string) *ai.MinimaxAI {
	w := &ai.DefaultWeights
	if weights != "" {
		var err error
		if w, err = ai.ParseWeights(weights); err != nil {
			log.Fatal("weights:", err)
		}
	}
	return ai.NewMinimax(ai.MinimaxConfig{
		Depth:    depth,
		Debug:    c.debug,
		Evaluate: ai.MakeEvaluator(w),
	})
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.memProfile != "" {
		defer func() {
			f, e := os.OpenFile(c.memProfile,
				os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0644)
			if e != nil {
				log.Printf("open memory profile: %v", e)
				return
			}
			defer f.Close()
			pprof.Lookup("heap").WriteTo(f, 0)
		}()
	}

	if c.seed == 0 {
		c.seed = time.Now().Unix()
	}

	var openings []*tak.Position
	if c.prefix != "" {
		p, e := readPrefix(c.prefix)
		if e != nil {
			log.Fatalf("-prefix: %v", e)
		}
		openings = []*tak.Position{p}
	}
	if c.openings != "" {
		var e error
		openings, e = readOpenings(c.openings)
		if e != nil {
			log.Fatalf("-openings: %v", e)
		}
	}
	if len(openings) == 0 {
		openings = []*tak.Position{tak.New(tak.Config{Size: c.size})}
	}

	var repo *logs.Repository
	if c.db != "" {
		var e error
		if repo, e = logs.Open(c.db); e != nil {
			log.Fatalf("-db: %v", e)
		}
		defer repo.Close()
	}

	cfg := &Config{
		Debug:       c.debug,
		Swap:        c.swap,
		Games:       c.games,
		Threads:     c.threads,
		Seed:        c.seed,
		Cutoff:      c.cutoff,
		RandomPlies: c.randomPlies,
		Limit:       c.limit,
		Clock:       c.clock,
		Increment:   c.increment,
		Initial:     openings,
		Verbose:     c.verbose,
		P1:          c.engine(c.depth1, c.w1),
		P2:          c.engine(c.depth2, c.w2),
	}

	start := time.Now()
	st, err := Simulate(ctx, cfg)
	if err != nil {
		log.Printf("selfplay: %v", err)
		return subcommands.ExitFailure
	}

	if c.out != "" {
		if c.summary == "" {
			c.summary = path.Join(c.out, "summary.json")
		}
		for i := range st.Games {
			if err := writeGame(c.out, &st.Games[i]); err != nil {
				log.Printf("write game: %v", err)
			}
		}
	}
	if c.summary != "" {
		if err := c.writeSummary(c.summary, &st); err != nil {
			log.Println("writing summary: ", err.Error())
		}
	}
	if repo != nil {
		now := time.Now()
		var gs []*logs.Game
		for i := range st.Games {
			r := &st.Games[i]
			white, black := players(r)
			gs = append(gs, logs.FromPosition(r.ID, white, black, r.Position, now))
		}
		if err := repo.InsertGames(gs); err != nil {
			log.Printf("log games: %v", err)
		}
	}

	pr := message.NewPrinter(language.English)
	elapsed := time.Since(start)
	log.Print(pr.Sprintf("done games=%d seed=%d ties=%d cutoff=%d white=%d black=%d limit=%s",
		len(st.Games), c.seed, st.Ties, st.Cutoff, st.White, st.Black, c.limit))
	log.Print(pr.Sprintf("nodes=%d time=%s nps=%.0f",
		st.Nodes, elapsed, float64(st.Nodes)/(elapsed.Seconds()+1e-9)))
	log.Printf("p1.wins=%d (%d road/%d flat/%d time) p2.wins=%d (%d road/%d flat/%d time)",
		st.Players[0].Wins, st.Players[0].RoadWins, st.Players[0].FlatWins, st.Players[0].TimeWins,
		st.Players[1].Wins, st.Players[1].RoadWins, st.Players[1].FlatWins, st.Players[1].TimeWins)
	tw := tabwriter.NewWriter(os.Stderr, 2, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\twhite\tblack\tsum\n")
	fmt.Fprintf(tw, "p1\t%d\t%d\t%d\n", st.Players[0].WhiteWins, st.Players[0].BlackWins, st.Players[0].Wins)
	fmt.Fprintf(tw, "p2\t%d\t%d\t%d\n", st.Players[1].WhiteWins, st.Players[1].BlackWins, st.Players[1].Wins)
	fmt.Fprintf(tw, "sum\t%d\t%d\t%d\n",
		st.Players[0].WhiteWins+st.Players[1].WhiteWins,
		st.Players[0].BlackWins+st.Players[1].BlackWins,
		st.Players[0].Wins+st.Players[1].Wins,
	)
	tw.Flush()

	wins := st.Players[0].Wins + st.Players[1].Wins
	best := max(st.Players[0].Wins, st.Players[1].Wins)
	log.Printf("p[one-sided]=%f", binomTail(best, wins, 0.5))

	return subcommands.ExitSuccess
}

func players(r *Result) (white, black string) {
	if r.spec.p1color == tak.White {
		return "p1", "p2"
	}
	return "p2", "p1"
}

func writeGame(d string, r *Result) error {
	if err := os.MkdirAll(d, 0755); err != nil {
		return err
	}
	white, black := players(r)
	p := ptn.FromPosition(r.Position,
		ptn.Tag{Name: "Player1", Value: white},
		ptn.Tag{Name: "Player2", Value: black},
	)
	ptnPath := path.Join(d, r.ID+".ptn")
	return os.WriteFile(ptnPath, []byte(p.Render()), 0644)
}

type Summary struct {
	Cmdline []string
	Limit   time.Duration
	Clock   time.Duration
	Stats   *Stats
}

func (c *Command) writeSummary(path string, stats *Stats) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	summary := Summary{
		Cmdline: os.Args,
		Limit:   c.limit,
		Clock:   c.clock,
		Stats:   stats,
	}

	bs, err := json.MarshalIndent(&summary, "", "  ")
	if err != nil {
		return err
	}
	_, err = f.Write(bs)
	return err
}
