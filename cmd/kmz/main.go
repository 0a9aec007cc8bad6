package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:  "kmz",
		Usage: "Inspect, build, and unpack KMZ archives",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Commands: []*cli.Command{
			lsCommand,
			catCommand,
			packCommand,
			unpackCommand,
			checkCommand,
			infoCommand,
			versionCommand,
		},
		Before: func(ctx context.Context, command *cli.Command) (context.Context, error) {
			return withLogger(ctx, newLogger(command.Bool("verbose"))), nil
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "kmz:", err)
		os.Exit(1)
	}
}
