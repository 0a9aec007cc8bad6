package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/meigma/kmz"
)

var unpackCommand = &cli.Command{
	Name:  "unpack",
	Usage: "Extract archive entries into a directory",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name:      "archive",
			UsageText: "The archive to extract",
		},
		&cli.StringArg{
			Name:      "dir",
			UsageText: "The destination directory",
		},
	},
	Action: func(ctx context.Context, command *cli.Command) error {
		path := command.StringArg("archive")
		dir := command.StringArg("dir")
		if path == "" || dir == "" {
			return fmt.Errorf("usage: kmz unpack <archive> <dir>")
		}
		logger := getLogger(ctx)

		a, err := kmz.OpenFile(path, kmz.WithLogger(logger))
		if err != nil {
			return err
		}
		if err := a.Unpack(dir); err != nil {
			return err
		}

		logger.Info("archive unpacked", "archive", path, "dir", dir, "entries", a.Len())
		return nil
	},
}
