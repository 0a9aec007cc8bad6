package kmz

import (
	"bytes"
	"io"
	"io/fs"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/meigma/kmz/internal/pathutil"
)

// Interface compliance.
var (
	_ fs.FS         = (*Archive)(nil)
	_ fs.StatFS     = (*Archive)(nil)
	_ fs.ReadFileFS = (*Archive)(nil)
	_ fs.ReadDirFS  = (*Archive)(nil)
)

// Open implements fs.FS.
//
// Entry paths are matched exactly. Directories are synthesized from entry
// path prefixes and from directory marker records; the root "." always
// exists. Duplicate paths resolve to their first occurrence.
func (a *Archive) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}

	if e, ok := a.lookupFile(name); ok {
		return newEntryFile(e, pathutil.Base(name)), nil
	}

	if a.isDir(name) {
		return &openDir{a: a, name: name}, nil
	}

	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

// Stat implements fs.StatFS.
//
// For directories (paths with entries beneath them), Stat returns synthetic
// directory info.
func (a *Archive) Stat(name string) (fs.FileInfo, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrInvalid}
	}

	if e, ok := a.lookupFile(name); ok {
		return newEntryInfo(e, pathutil.Base(name)), nil
	}

	if a.isDir(name) {
		return dirInfo{name: pathutil.Base(name)}, nil
	}

	return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
}

// ReadFile implements fs.ReadFileFS. The returned slice is a copy the
// caller owns.
func (a *Archive) ReadFile(name string) ([]byte, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: fs.ErrInvalid}
	}

	e, ok := a.lookupFile(name)
	if !ok {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: fs.ErrNotExist}
	}
	return bytes.Clone(e.Data), nil
}

// ReadDir implements fs.ReadDirFS.
//
// ReadDir returns directory entries for the named directory, sorted by name.
// Directories are synthesized from entry paths; the archive format does not
// require directory records.
func (a *Archive) ReadDir(name string) ([]fs.DirEntry, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrInvalid}
	}

	entries := a.children(name)
	if len(entries) == 0 && name != "." && !a.isDir(name) {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}
	return entries, nil
}

// lookupFile resolves name against the entry table for the fs methods. The
// root "." never resolves to a record: it is always the synthesized
// directory, even when a hostile container stores an entry under that name.
func (a *Archive) lookupFile(name string) (Entry, bool) {
	if name == "." {
		return Entry{}, false
	}
	return a.table.Lookup(name)
}

// isDir checks if name is a directory (has entries under it).
func (a *Archive) isDir(name string) bool {
	if name == "." {
		return true
	}
	prefix := name + "/"
	for e := range a.table.All() {
		if strings.HasPrefix(e.Path, prefix) {
			return true
		}
	}
	return false
}

// children synthesizes the sorted listing of the directory name.
//
// Each immediate child appears once. A child backed by an exact entry lists
// as a file even when deeper paths also use its name, matching how Open and
// Stat resolve the same name.
func (a *Archive) children(name string) []fs.DirEntry {
	prefix := pathutil.DirPrefix(name)

	type child struct {
		entry Entry
		isDir bool
	}
	seen := make(map[string]child)
	for e := range a.table.All() {
		if !strings.HasPrefix(e.Path, prefix) {
			continue
		}
		childName, isSubDir := pathutil.Child(e.Path, prefix)
		if childName == "" {
			// The directory's own marker record.
			continue
		}
		if childName == "." || childName == ".." {
			// Hostile containers can store these; they are never valid
			// fs names.
			continue
		}
		if prev, ok := seen[childName]; ok {
			if prev.isDir && !isSubDir {
				// An exact entry beats a synthesized directory.
				seen[childName] = child{entry: e, isDir: false}
			}
			continue
		}
		seen[childName] = child{entry: e, isDir: isSubDir}
	}

	names := slices.Sorted(maps.Keys(seen))
	entries := make([]fs.DirEntry, 0, len(names))
	for _, childName := range names {
		c := seen[childName]
		if c.isDir {
			entries = append(entries, dirEntry{info: dirInfo{name: childName}})
		} else {
			entries = append(entries, dirEntry{info: newEntryInfo(c.entry, childName)})
		}
	}
	return entries
}

// newEntryFile returns an fs.File reading the entry's content. The reader
// also supports Seek and ReadAt.
func newEntryFile(e Entry, name string) *entryFile {
	return &entryFile{
		Reader: bytes.NewReader(e.Data),
		info:   newEntryInfo(e, name),
	}
}

// entryFile implements fs.File over an entry's in-memory content.
type entryFile struct {
	*bytes.Reader
	info entryInfo
}

func (f *entryFile) Stat() (fs.FileInfo, error) { return f.info, nil }
func (f *entryFile) Close() error               { return nil }

// entryInfo implements fs.FileInfo for archive entries.
type entryInfo struct {
	name    string
	size    int64
	modTime time.Time
}

func newEntryInfo(e Entry, name string) entryInfo {
	return entryInfo{name: name, size: int64(len(e.Data)), modTime: e.ModTime}
}

func (fi entryInfo) Name() string       { return fi.name }
func (fi entryInfo) Size() int64        { return fi.size }
func (fi entryInfo) Mode() fs.FileMode  { return 0o444 }
func (fi entryInfo) ModTime() time.Time { return fi.modTime }
func (fi entryInfo) IsDir() bool        { return false }
func (fi entryInfo) Sys() any           { return nil }

// dirInfo implements fs.FileInfo for synthetic directories.
type dirInfo struct {
	name string
}

func (di dirInfo) Name() string       { return di.name }
func (di dirInfo) Size() int64        { return 0 }
func (di dirInfo) Mode() fs.FileMode  { return fs.ModeDir | 0o755 }
func (di dirInfo) ModTime() time.Time { return time.Time{} }
func (di dirInfo) IsDir() bool        { return true }
func (di dirInfo) Sys() any           { return nil }

// dirEntry implements fs.DirEntry by wrapping fs.FileInfo.
type dirEntry struct {
	info fs.FileInfo
}

func (de dirEntry) Name() string               { return de.info.Name() }
func (de dirEntry) IsDir() bool                { return de.info.IsDir() }
func (de dirEntry) Type() fs.FileMode          { return de.info.Mode().Type() }
func (de dirEntry) Info() (fs.FileInfo, error) { return de.info, nil }

// openDir implements fs.ReadDirFile for synthetic directories.
type openDir struct {
	a       *Archive
	name    string
	entries []fs.DirEntry
	offset  int
	loaded  bool
}

func (d *openDir) Read(_ []byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.name, Err: fs.ErrInvalid}
}

func (d *openDir) Stat() (fs.FileInfo, error) {
	return dirInfo{name: pathutil.Base(d.name)}, nil
}

func (d *openDir) Close() error {
	return nil
}

func (d *openDir) ReadDir(n int) ([]fs.DirEntry, error) {
	if !d.loaded {
		d.entries = d.a.children(d.name)
		d.loaded = true
	}

	rest := d.entries[d.offset:]
	if n <= 0 {
		d.offset = len(d.entries)
		return slices.Clone(rest), nil
	}
	if len(rest) == 0 {
		return nil, io.EOF
	}
	if n > len(rest) {
		n = len(rest)
	}
	d.offset += n
	return slices.Clone(rest[:n]), nil
}
