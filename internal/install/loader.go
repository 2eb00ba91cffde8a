package install

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/roach88/gdlookup/internal/gddb"
	"github.com/roach88/gdlookup/internal/store"
	"github.com/roach88/gdlookup/internal/tags"
)

// OpenFunc opens a record store.
type OpenFunc func(path string) (gddb.Database, error)

// ArchiveFunc opens a tag archive.
type ArchiveFunc func(path string) (tags.Archive, error)

// Loader opens the stores and tag archives under one install root.
type Loader struct {
	Root        string
	Log         *slog.Logger
	OpenStore   OpenFunc
	OpenArchive ArchiveFunc
}

// NewLoader returns a Loader using the on-disk store and archive formats.
func NewLoader(root string, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{
		Root:        root,
		Log:         log,
		OpenStore:   store.Open,
		OpenArchive: tags.OpenArchive,
	}
}

// OpenSelection opens the record stores to query.
//
// With expansion nil every pack is tried; otherwise only that pack. Stores
// that fail to open are skipped: an expansion that is not installed is an
// expected absence. It is an error only when nothing opened at all.
func (l *Loader) OpenSelection(ctx context.Context, expansion *int) (*Selection, error) {
	packs := Packs[:]
	if expansion != nil {
		pack, ok := PackByIndex(*expansion)
		if !ok {
			return nil, &ConfigError{Message: "expansion must be 0, 1, 2, or 3"}
		}
		packs = []Pack{pack}
	}

	opened, err := openAll(ctx, l.Log, l.Root, packs,
		func(p Pack) string { return p.Database },
		l.OpenStore,
	)
	if err != nil {
		return nil, err
	}
	if len(opened) == 0 {
		return nil, &ConfigError{
			Message: "Could not read database files. Please verify install path: " + l.Root,
		}
	}

	sel := &Selection{Root: l.Root}
	for _, o := range opened {
		sel.Sources = append(sel.Sources, Source{Pack: o.pack, Path: o.path, DB: o.value})
	}
	l.Log.Debug("opened record stores", "count", sel.Len())
	return sel, nil
}

// LoadTags reads every pack's tag entry and merges them in ascending pack
// order, so later packs override earlier ones.
//
// A missing archive is skipped. An archive that opens but lacks its entry or
// holds unparseable text is a DataError.
func (l *Loader) LoadTags(ctx context.Context) (tags.Table, error) {
	opened, err := openAll(ctx, l.Log, l.Root, Packs[:],
		func(p Pack) string { return p.Archive },
		l.OpenArchive,
	)
	if err != nil {
		return nil, err
	}
	defer func() {
		for _, o := range opened {
			o.value.Close()
		}
	}()

	if len(opened) == 0 {
		return nil, &ConfigError{
			Message: "Could not read tag files. Please verify install path: " + l.Root,
		}
	}

	table := tags.Table{}
	for _, o := range opened {
		data, err := o.value.Get(o.pack.TagEntry)
		if err != nil {
			return nil, &DataError{Pack: o.pack, Path: o.path, Cause: err}
		}
		parsed, err := tags.Parse(data)
		if err != nil {
			return nil, &DataError{Pack: o.pack, Path: o.path, Cause: fmt.Errorf("%s: %w", o.pack.TagEntry, err)}
		}
		l.Log.Debug("loaded tags", "pack", o.pack.Name, "entries", len(parsed))
		table.Merge(parsed)
	}
	return table, nil
}

type opened[T any] struct {
	pack  Pack
	path  string
	value T
}

// openAll tries each pack's file in order and keeps the ones that open.
// Failures are logged at debug level and dropped. Only cancellation is an
// error; the caller decides whether an empty result is acceptable.
func openAll[T any](
	ctx context.Context,
	log *slog.Logger,
	root string,
	packs []Pack,
	pathOf func(Pack) string,
	open func(string) (T, error),
) ([]opened[T], error) {
	var out []opened[T]
	for _, pack := range packs {
		if err := ctx.Err(); err != nil {
			for _, o := range out {
				closeValue(o.value)
			}
			return nil, err
		}

		path := filepath.Join(root, filepath.FromSlash(pathOf(pack)))
		v, err := open(path)
		if err != nil {
			log.Debug("pack unavailable", "pack", pack.Name, "path", path, "error", err)
			continue
		}
		out = append(out, opened[T]{pack: pack, path: path, value: v})
	}
	return out, nil
}

func closeValue(v any) {
	if c, ok := v.(interface{ Close() error }); ok {
		c.Close()
	}
}
