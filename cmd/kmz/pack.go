package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"

	"github.com/meigma/kmz"
	"github.com/meigma/kmz/codec"
)

var packCommand = &cli.Command{
	Name:  "pack",
	Usage: "Build an archive from a directory",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name:      "dir",
			UsageText: "The directory to pack",
		},
		&cli.StringArg{
			Name:      "archive",
			UsageText: "The archive file to create",
		},
	},
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "compress-all",
			Usage: "Deflate every entry, including media that is already compressed",
		},
	},
	Action: func(ctx context.Context, command *cli.Command) error {
		dir := command.StringArg("dir")
		out := command.StringArg("archive")
		if dir == "" || out == "" {
			return fmt.Errorf("usage: kmz pack <dir> <archive>")
		}
		logger := getLogger(ctx)

		fsys := afero.NewOsFs()
		paths, err := collectFiles(fsys, dir)
		if err != nil {
			return fmt.Errorf("scan %s: %w", dir, err)
		}
		promoteDefaultDoc(paths)

		opts := []codec.ZipOption{}
		if !command.Bool("compress-all") {
			opts = append(opts, codec.ZipWithStored(codec.DefaultStored(0)))
		}

		w, err := kmz.Create(out, kmz.WithLogger(logger), kmz.WithCodec(codec.NewZip(opts...)))
		if err != nil {
			return err
		}

		if err := addFiles(w, fsys, dir, paths); err != nil {
			err = errors.Join(err, w.Close())
			_ = os.Remove(out) //nolint:errcheck // best-effort cleanup of the partial archive
			return err
		}
		if err := w.Close(); err != nil {
			return err
		}

		logger.Info("archive packed", "archive", out, "entries", len(paths))
		return nil
	},
}

func addFiles(w *kmz.Archive, fsys afero.Fs, dir string, paths []string) error {
	for _, rel := range paths {
		content, err := afero.ReadFile(fsys, filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			return fmt.Errorf("read %s: %w", rel, err)
		}
		if err := w.Add(rel, content); err != nil {
			return err
		}
	}
	return nil
}

// collectFiles walks root and returns the relative slash paths of every
// regular file, in lexical walk order.
func collectFiles(fsys afero.Fs, root string) ([]string, error) {
	var paths []string
	err := afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	return paths, err
}

// promoteDefaultDoc moves the root-level default document to the front so
// readers that take the first .kml entry find it without scanning. doc.kml
// is the conventional name; otherwise the first root-level .kml is promoted.
func promoteDefaultDoc(paths []string) {
	best := -1
	for i, p := range paths {
		if strings.Contains(p, "/") || !strings.HasSuffix(p, ".kml") {
			continue
		}
		if p == "doc.kml" {
			best = i
			break
		}
		if best == -1 {
			best = i
		}
	}
	if best > 0 {
		p := paths[best]
		copy(paths[1:best+1], paths[:best])
		paths[0] = p
	}
}
