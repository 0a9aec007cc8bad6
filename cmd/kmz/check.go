package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/meigma/kmz"
)

var checkCommand = &cli.Command{
	Name:  "check",
	Usage: "Validate that a file is a readable archive",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name:      "archive",
			UsageText: "The file to check",
		},
	},
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "sniff",
			Usage: "Only check the container signature, without decoding",
		},
	},
	Action: func(ctx context.Context, command *cli.Command) error {
		path := command.StringArg("archive")
		if path == "" {
			return fmt.Errorf("no archive provided")
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		if command.Bool("sniff") {
			if !kmz.IsArchive(data) {
				return cli.Exit(fmt.Sprintf("%s: %s", path, color.RedString("no archive signature")), 1)
			}
			fmt.Printf("%s: %s\n", path, color.GreenString("signature ok"))
			return nil
		}

		a, err := kmz.Open(data, kmz.WithLogger(getLogger(ctx)))
		if err != nil {
			return cli.Exit(fmt.Sprintf("%s: %s: %v", path, color.RedString("invalid"), err), 1)
		}

		fmt.Printf("%s: %s (%d entries)\n", path, color.GreenString("valid"), a.Len())
		return nil
	},
}
