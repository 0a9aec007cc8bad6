package kmz

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/meigma/kmz/internal/pathutil"
)

// Unpack writes the archive's entries beneath dir, creating it if needed.
//
// Entries are written in insertion order; when several entries share a path,
// only the first occurrence is written. Directory marker records become
// directories. An entry whose path is absolute or escapes dir fails the
// unpack with ErrInvalidPath before that entry touches anything outside dir.
func (a *Archive) Unpack(dir string) error {
	if err := a.fsys.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	count := 0
	for e := range a.table.FirstOccurrences() {
		if err := a.unpackEntry(dir, e); err != nil {
			return err
		}
		count++
	}
	a.log().Debug("archive unpacked", "dir", dir, "entries", count)
	return nil
}

func (a *Archive) unpackEntry(dir string, e Entry) error {
	if err := pathutil.CheckEntry(e.Path); err != nil {
		return fmt.Errorf("unpack %q: %w", e.Path, err)
	}

	target := filepath.Join(dir, filepath.FromSlash(e.Path))
	if !within(dir, target) {
		return fmt.Errorf("unpack %q: %w: resolves outside destination", e.Path, ErrInvalidPath)
	}

	if strings.HasSuffix(e.Path, "/") {
		if err := a.fsys.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("unpack %q: %w", e.Path, err)
		}
		return nil
	}

	if err := a.fsys.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("unpack %q: %w", e.Path, err)
	}
	if err := afero.WriteFile(a.fsys, target, e.Data, 0o644); err != nil {
		return fmt.Errorf("unpack %q: %w", e.Path, err)
	}
	if !e.ModTime.IsZero() {
		_ = a.fsys.Chtimes(target, e.ModTime, e.ModTime) //nolint:errcheck // best-effort timestamp restore
	}
	return nil
}

// within reports whether target stays at or below dir after cleaning.
func within(dir, target string) bool {
	rel, err := filepath.Rel(dir, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
