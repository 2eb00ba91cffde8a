package tags

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrEntryNotFound is returned by Archive.Get for a name the archive lacks.
var ErrEntryNotFound = errors.New("archive entry not found")

// Archive is an open tag archive.
type Archive interface {
	// Get returns the full contents of the named entry.
	Get(name string) ([]byte, error)
	Close() error
}

// OpenArchive opens path as a zip archive, or as an extracted directory
// when path is a directory.
func OpenArchive(path string) (Archive, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return &dirArchive{root: path}, nil
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	return &zipArchive{path: path, r: zr}, nil
}

type zipArchive struct {
	path string
	r    *zip.ReadCloser
}

func (a *zipArchive) Get(name string) ([]byte, error) {
	f, err := a.r.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s in %s: %w", name, a.path, ErrEntryNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s in %s: %w", name, a.path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s in %s: %w", name, a.path, err)
	}
	return data, nil
}

func (a *zipArchive) Close() error {
	if a.r == nil {
		return nil
	}
	err := a.r.Close()
	a.r = nil
	return err
}

type dirArchive struct {
	root string
}

func (a *dirArchive) Get(name string) ([]byte, error) {
	if !filepath.IsLocal(name) {
		return nil, fmt.Errorf("%s in %s: invalid entry name: %w", name, a.root, ErrEntryNotFound)
	}
	data, err := os.ReadFile(filepath.Join(a.root, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s in %s: %w", name, a.root, ErrEntryNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s in %s: %w", name, a.root, err)
	}
	return data, nil
}

func (a *dirArchive) Close() error { return nil }
