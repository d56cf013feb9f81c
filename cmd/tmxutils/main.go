package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/google/subcommands"
	_ "github.com/mattn/go-sqlite3"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(&filesCmd{}, "")
	subcommands.Register(&infoCmd{}, "")
	subcommands.Register(&recodeCmd{}, "")
	subcommands.Register(&exportCmd{}, "")

	verbose := flag.Bool("v", false, "Log debug messages")
	flag.Parse()
	if *verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
	os.Exit(int(subcommands.Execute(context.Background())))
}
