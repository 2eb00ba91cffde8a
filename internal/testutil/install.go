package testutil

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/roach88/gdlookup/internal/gddb"
	"github.com/roach88/gdlookup/internal/install"
	"github.com/roach88/gdlookup/internal/store"
)

// Install builds a fake game install under a temp directory.
//
//	root := testutil.NewInstall(t).
//		Store(0, img).
//		Tags(0, map[string]string{"tagA": "Alpha"}).
//		Root()
type Install struct {
	t    testing.TB
	root string
}

// NewInstall returns an empty install rooted in t.TempDir().
func NewInstall(t testing.TB) *Install {
	t.Helper()
	return &Install{t: t, root: t.TempDir()}
}

// Root returns the install root.
func (in *Install) Root() string {
	return in.root
}

// Path returns the absolute path of a root-relative slash path.
func (in *Install) Path(rel string) string {
	return filepath.Join(in.root, filepath.FromSlash(rel))
}

// Store writes img as pack's record store in SQLite format.
func (in *Install) Store(pack int, img *gddb.Image) *Install {
	in.t.Helper()
	path := in.prepare(in.pack(pack).Database)
	if err := store.WriteSQLite(context.Background(), path, img); err != nil {
		in.t.Fatalf("write sqlite store for pack %d: %v", pack, err)
	}
	return in
}

// BoltStore writes img as pack's record store in bbolt format.
func (in *Install) BoltStore(pack int, img *gddb.Image) *Install {
	in.t.Helper()
	path := in.prepare(in.pack(pack).Database)
	if err := store.WriteBolt(context.Background(), path, img); err != nil {
		in.t.Fatalf("write bolt store for pack %d: %v", pack, err)
	}
	return in
}

// Tags writes pack's tag archive as a zip holding its tag entry.
func (in *Install) Tags(pack int, entries map[string]string) *Install {
	in.t.Helper()
	return in.Archive(pack, map[string]string{in.pack(pack).TagEntry: TagText(entries)})
}

// Archive writes pack's tag archive as a zip with arbitrary entries.
func (in *Install) Archive(pack int, files map[string]string) *Install {
	in.t.Helper()
	path := in.prepare(in.pack(pack).Archive)

	f, err := os.Create(path)
	if err != nil {
		in.t.Fatalf("create archive: %v", err)
	}
	zw := zip.NewWriter(f)
	for _, name := range sortedKeys(files) {
		w, err := zw.Create(name)
		if err != nil {
			in.t.Fatalf("create entry %s: %v", name, err)
		}
		if _, err := w.Write([]byte(files[name])); err != nil {
			in.t.Fatalf("write entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		in.t.Fatalf("close zip: %v", err)
	}
	if err := f.Close(); err != nil {
		in.t.Fatalf("close archive: %v", err)
	}
	return in
}

// File writes raw bytes at a root-relative slash path.
func (in *Install) File(rel string, data []byte) *Install {
	in.t.Helper()
	if err := os.WriteFile(in.prepare(rel), data, 0o644); err != nil {
		in.t.Fatalf("write %s: %v", rel, err)
	}
	return in
}

func (in *Install) pack(i int) install.Pack {
	in.t.Helper()
	p, ok := install.PackByIndex(i)
	if !ok {
		in.t.Fatalf("no pack %d", i)
	}
	return p
}

func (in *Install) prepare(rel string) string {
	in.t.Helper()
	path := in.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		in.t.Fatalf("mkdir: %v", err)
	}
	return path
}

// TagText renders entries as key=value lines in key order.
func TagText(entries map[string]string) string {
	var b strings.Builder
	for _, k := range sortedKeys(entries) {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(entries[k])
		b.WriteByte('\n')
	}
	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
