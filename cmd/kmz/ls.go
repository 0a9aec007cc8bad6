package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/meigma/kmz"
)

var lsCommand = &cli.Command{
	Name:  "ls",
	Usage: "List archive entries in container order",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name:      "archive",
			UsageText: "The archive to list",
		},
	},
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "long",
			Aliases: []string{"l"},
			Usage:   "Show entry sizes and timestamps",
		},
	},
	Action: func(ctx context.Context, command *cli.Command) error {
		path := command.StringArg("archive")
		if path == "" {
			return fmt.Errorf("no archive provided")
		}

		a, err := kmz.OpenFile(path, kmz.WithLogger(getLogger(ctx)))
		if err != nil {
			return err
		}

		long := command.Bool("long")
		for e := range a.Entries() {
			if long {
				fmt.Printf("%10d  %s  %s\n", len(e.Data), e.ModTime.Format("2006-01-02 15:04"), e.Path)
			} else {
				fmt.Println(e.Path)
			}
		}
		return nil
	},
}
