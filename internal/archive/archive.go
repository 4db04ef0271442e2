// Package archive opens ACMI recordings stored either as plain text or as a
// zip container holding one or more text entries.
package archive

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"
)

// ErrEmptyArchive is returned for a zip container with no file entries.
var ErrEmptyArchive = errors.New("archive has no entries")

var zipMagic = [][]byte{
	[]byte("PK\x03\x04"),
	[]byte("PK\x05\x06"),
}

// Source is one text stream inside an opened file.
type Source struct {
	Name string
	open func() (io.ReadCloser, error)
}

// Open returns a reader over the raw (undecoded) bytes of the source.
func (s Source) Open() (io.ReadCloser, error) {
	return s.open()
}

// Archive is an opened recording file. Close releases the underlying file.
type Archive struct {
	Sources []Source
	closer  io.Closer
}

// Close releases the underlying file handle, if any.
func (a *Archive) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// Open inspects the file at path. A zip container yields one Source per
// regular entry in directory order; anything else yields a single Source
// reading the file itself.
func Open(path string) (*Archive, error) {
	isZip, err := IsZip(path)
	if err != nil {
		return nil, err
	}
	if !isZip {
		return &Archive{
			Sources: []Source{{
				Name: filepath.Base(path),
				open: func() (io.ReadCloser, error) { return os.Open(path) },
			}},
		}, nil
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("error opening zip archive %s: %w", path, err)
	}

	a := &Archive{closer: zr}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		a.Sources = append(a.Sources, Source{Name: f.Name, open: f.Open})
	}
	if len(a.Sources) == 0 {
		zr.Close()
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyArchive)
	}
	return a, nil
}

// IsZip reports whether the file starts with a zip local file header or an
// empty-archive end record.
func IsZip(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head := make([]byte, 4)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("error reading %s: %w", path, err)
	}
	for _, magic := range zipMagic {
		if n == len(magic) && bytes.Equal(head, magic) {
			return true, nil
		}
	}
	return false, nil
}
