package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/meigma/kmz"
)

var infoCommand = &cli.Command{
	Name:  "info",
	Usage: "Summarize an archive",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name:      "archive",
			UsageText: "The archive to summarize",
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

		var total int
		for e := range a.Entries() {
			total += len(e.Data)
		}

		label := color.New(color.Bold).Sprint
		fmt.Printf("%s    %s\n", label("archive:"), path)
		fmt.Printf("%s  %d (container) / %d (unpacked)\n", label("bytes:"), len(a.Bytes()), total)
		fmt.Printf("%s  %d\n", label("entries:"), a.Len())
		if doc, ok := a.FirstWithSuffix(".kml"); ok {
			fmt.Printf("%s  %s (%d bytes)\n", label("document:"), doc.Path, len(doc.Data))
		} else {
			fmt.Printf("%s  %s\n", label("document:"), color.YellowString("none"))
		}
		return nil
	},
}
