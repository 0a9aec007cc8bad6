package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/meigma/kmz"
)

var catCommand = &cli.Command{
	Name:  "cat",
	Usage: "Write an entry's content to stdout",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name:      "archive",
			UsageText: "The archive to read",
		},
		&cli.StringArg{
			Name:      "entry",
			UsageText: "The entry path; defaults to the first .kml document",
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

		name := command.StringArg("entry")
		var e kmz.Entry
		var ok bool
		if name == "" {
			e, ok = a.FirstWithSuffix(".kml")
			if !ok {
				return fmt.Errorf("%s has no .kml document", path)
			}
		} else {
			e, ok = a.Entry(name)
			if !ok {
				return fmt.Errorf("entry %q not found in %s", name, path)
			}
		}

		_, err = os.Stdout.Write(e.Data)
		return err
	},
}
