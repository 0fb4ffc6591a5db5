package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/subcommands"

	"github.com/takumi-tak/takumi/cmd/internal/analyze"
	"github.com/takumi-tak/takumi/cmd/internal/selfplay"
	"github.com/takumi-tak/takumi/cmd/internal/serve"
	"github.com/takumi-tak/takumi/cmd/internal/tei"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")

	subcommands.Register(&analyze.Command{}, "")
	subcommands.Register(&tei.Command{}, "")
	subcommands.Register(&selfplay.Command{}, "")
	subcommands.Register(&serve.Command{}, "")

	flag.Parse()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	code := subcommands.Execute(ctx)
	stop()
	os.Exit(int(code))
}
