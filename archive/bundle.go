// Package archive gives access to stylesheet descriptions packed into a zip
// archive (bundle). Files inside the bundle are addressed as if the archive
// was a directory, so imports between them resolve the usual way.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
)

// WalkFunc is called for every matching file in the bundle. The name argument
// is a file system path of the file (archive path joined with entry name)
// suitable for ReadFile.
type WalkFunc func(name string, file *zip.File) error

// Bundle is an opened zip archive.
type Bundle struct {
	path  string
	rc    *zip.ReadCloser
	files map[string]*zip.File
}

// Open opens archive and validates its entries. Entries with absolute paths
// or path traversal components make the whole archive unacceptable.
func Open(archive string) (*Bundle, error) {
	abs, err := filepath.Abs(archive)
	if err != nil {
		return nil, err
	}

	rc, err := zip.OpenReader(abs)
	if err != nil {
		return nil, err
	}

	b := &Bundle{path: abs, rc: rc, files: make(map[string]*zip.File, len(rc.File))}
	for _, f := range rc.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			rc.Close()
			return nil, fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if f.FileInfo().IsDir() {
			continue
		}
		b.files[path.Clean(name)] = f
	}
	return b, nil
}

func (b *Bundle) Close() error {
	return b.rc.Close()
}

// Path returns absolute path of the archive.
func (b *Bundle) Path() string {
	return b.path
}

// Walk calls walkFn for every file in archive order which satisfies match,
// match receives entry name inside archive. If an error is returned,
// processing stops.
func (b *Bundle) Walk(match func(entry string) bool, walkFn WalkFunc) error {
	for _, f := range b.rc.File {
		if f.FileInfo().IsDir() || !match(path.Clean(f.FileHeader.Name)) {
			continue
		}
		if err := walkFn(filepath.Join(b.path, filepath.FromSlash(path.Clean(f.FileHeader.Name))), f); err != nil {
			return err
		}
	}
	return nil
}

// ReadFile reads the file by its file system path. Paths outside of the
// archive are rejected.
func (b *Bundle) ReadFile(name string) ([]byte, error) {
	rel, err := filepath.Rel(b.path, name)
	if err != nil {
		return nil, err
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || !isSafePath(rel) {
		return nil, fmt.Errorf("%s: outside of archive %s: %w", name, b.path, fs.ErrNotExist)
	}

	f, ok := b.files[rel]
	if !ok {
		return nil, fmt.Errorf("%s: no such entry in archive %s: %w", rel, b.path, fs.ErrNotExist)
	}
	r, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}

// isSafePath returns false for paths that could escape the archive:
// absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for part := range strings.SplitSeq(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}

// IsBundle reports whether file name looks like a zip archive.
func IsBundle(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".zip")
}
