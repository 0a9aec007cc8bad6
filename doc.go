// Package kmz reads and writes KMZ archives: zip containers holding a KML
// document and the local resources it references.
//
// An [Archive] keeps entries in the order the container records them,
// duplicates included; when several entries share a path, lookups resolve to
// the first occurrence. Read archives decode eagerly, so a handle you get
// back is fully usable, and retain the original container bytes for
// round-tripping. Write archives collect entries in memory and serialize the
// container once on Close.
//
// # Quick Start
//
// Open an archive and find its default document:
//
//	archive, err := kmz.OpenFile("sites.kmz")
//	if err != nil {
//	    return err
//	}
//	doc, ok := archive.FirstWithSuffix(".kml")
//	if !ok {
//	    return errors.New("no KML document")
//	}
//	parse(doc.Data)
//
// Build a new archive:
//
//	w, err := kmz.Create("out.kmz")
//	if err != nil {
//	    return err
//	}
//	_ = w.Add("doc.kml", kmlBytes)
//	_ = w.Add("files/overlay.png", pngBytes)
//	if err := w.Close(); err != nil {
//	    return err
//	}
//
// # Filesystem Access
//
// A read archive implements [io/fs.FS], [io/fs.StatFS], [io/fs.ReadFileFS],
// and [io/fs.ReadDirFS], with directories synthesized from entry paths:
//
//	data, err := fs.ReadFile(archive, "files/overlay.png")
//
// # Containers
//
// The byte layout lives behind the [Codec] interface; the default is the
// standard zip codec from the [github.com/meigma/kmz/codec] subpackage,
// which also decompresses bzip2, Zstandard, and xz entries. Use [WithCodec]
// to substitute another container implementation.
package kmz
