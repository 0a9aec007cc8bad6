// Package pathutil validates and manipulates slash-separated archive entry
// paths.
package pathutil

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPath reports an entry path an archive must not store: empty,
// absolute, or escaping the archive root.
var ErrInvalidPath = errors.New("kmz: invalid entry path")

// CheckEntry validates path for use as an archive entry path.
//
// Valid paths are non-empty, relative, backslash-free, and stay at or below
// the archive root at every step. ".." segments are allowed as long as the
// running depth never goes negative, so "a/../b.kml" passes while
// "a/../../b.kml" does not. A trailing slash (directory marker) is allowed.
func CheckEntry(path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	if strings.HasPrefix(path, "/") {
		return fmt.Errorf("%w: %q is absolute", ErrInvalidPath, path)
	}
	if strings.ContainsRune(path, '\\') {
		return fmt.Errorf("%w: %q contains a backslash", ErrInvalidPath, path)
	}

	depth := 0
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
		case "..":
			depth--
			if depth < 0 {
				return fmt.Errorf("%w: %q escapes the archive root", ErrInvalidPath, path)
			}
		default:
			depth++
		}
	}
	return nil
}

// Base returns the last element of a slash-separated path, ignoring a
// trailing slash. If path is empty or ".", it returns ".".
func Base(path string) string {
	if path == "" || path == "." {
		return "."
	}
	path = strings.TrimSuffix(path, "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// DirPrefix converts a directory name to the prefix its children share.
// For ".", returns "" (empty prefix matches all entries).
func DirPrefix(name string) string {
	if name == "." {
		return ""
	}
	return name + "/"
}

// Child extracts the immediate child name from a full entry path given a
// directory prefix, and reports whether the child is itself a directory
// (the path has more components below it, or ends in a directory marker
// slash). The path must carry the prefix; a path equal to the prefix yields
// an empty name the caller should skip.
func Child(path, prefix string) (name string, isSubDir bool) {
	rel := strings.TrimPrefix(path, prefix)
	if idx := strings.Index(rel, "/"); idx >= 0 {
		return rel[:idx], true
	}
	return rel, false
}
