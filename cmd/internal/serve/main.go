package serve

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/subcommands"
	"golang.org/x/net/netutil"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/takumi-tak/takumi/ai"
	"github.com/takumi-tak/takumi/cache"
	"github.com/takumi-tak/takumi/cmd/internal/opt"
	"github.com/takumi-tak/takumi/rpc"
	"github.com/takumi-tak/takumi/wsbridge"
)

type Command struct {
	httpAddr string
	grpcAddr string
	cacheDir string
	noCache  bool
	maxConns int
	maxTime  time.Duration

	opt opt.Minimax
}

func (*Command) Name() string     { return "serve" }
func (*Command) Synopsis() string { return "Serve the engine over HTTP, WebSocket and gRPC" }
func (*Command) Usage() string {
	return `serve [flags]

Serve analysis over gRPC (service takumi.Takumi, JSON codec) and over
HTTP, with a WebSocket search bridge on /ws. Address and cache flags
default to TAKUMI_HTTP_ADDR, TAKUMI_GRPC_ADDR and TAKUMI_CACHE_DIR.
`
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func (c *Command) SetFlags(flags *flag.FlagSet) {
	flags.StringVar(&c.httpAddr, "http", getenv("TAKUMI_HTTP_ADDR", ":8080"), "HTTP listen address")
	flags.StringVar(&c.grpcAddr, "grpc", getenv("TAKUMI_GRPC_ADDR", ":55430"), "gRPC listen address")
	flags.StringVar(&c.cacheDir, "cache", getenv("TAKUMI_CACHE_DIR", ""), "analysis cache directory (in memory if empty)")
	flags.BoolVar(&c.noCache, "no-cache", false, "disable the analysis cache")
	flags.IntVar(&c.maxConns, "max-conns", getenvInt("TAKUMI_MAX_CONNS", 256), "maximum concurrent connections per listener")
	flags.DurationVar(&c.maxTime, "max-time", 30*time.Second, "maximum time for any one search")
	c.opt.AddFlags(flags)
}

func (c *Command) listen(addr string) (net.Listener, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	if c.maxConns > 0 {
		lis = netutil.LimitListener(lis, c.maxConns)
	}
	return lis, nil
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg := c.opt.BuildConfig()
	svc := &rpc.Server{Config: cfg, Weights: c.opt.ParseWeights(), MaxTime: c.maxTime}
	if !c.noCache {
		cc, err := cache.Open(c.cacheDir)
		if err != nil {
			log.Printf("serve: %v", err)
			return subcommands.ExitFailure
		}
		defer cc.Close()
		svc.Cache = cc
	}

	grpcLis, err := c.listen(c.grpcAddr)
	if err != nil {
		log.Printf("listen grpc: %v", err)
		return subcommands.ExitFailure
	}
	httpLis, err := c.listen(c.httpAddr)
	if err != nil {
		log.Printf("listen http: %v", err)
		return subcommands.ExitFailure
	}

	grpcServer := grpc.NewServer()
	rpc.RegisterTakumiServer(grpcServer, svc)

	if c.opt.Debug < 2 {
		gin.SetMode(gin.ReleaseMode)
	}
	ws := &wsbridge.Server{
		Service: svc,
		Engine:  ai.NewMinimax(cfg),
		MaxTime: c.maxTime,
		Debug:   c.opt.Debug,
	}
	httpServer := &http.Server{Handler: ws.Router()}

	grp, ctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		log.Printf("gRPC listening on %s", grpcLis.Addr())
		return grpcServer.Serve(grpcLis)
	})
	grp.Go(func() error {
		log.Printf("HTTP listening on %s", httpLis.Addr())
		if err := httpServer.Serve(httpLis); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	grp.Go(func() error {
		<-ctx.Done()
		grpcServer.GracefulStop()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdown)
	})
	if err := grp.Wait(); err != nil {
		log.Printf("serve: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
