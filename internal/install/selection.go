package install

import (
	"errors"

	"github.com/roach88/gdlookup/internal/gddb"
)

// Source is one opened record store.
type Source struct {
	Pack Pack
	Path string
	DB   gddb.Database
}

// Selection is the ordered, non-empty set of stores a command queries.
// Order is ascending pack index and is the order every scan visits.
type Selection struct {
	Root    string
	Sources []Source
}

// NewSelection wraps already-open databases, assigning packs in order.
// Used where stores do not come from an install root.
func NewSelection(dbs ...gddb.Database) *Selection {
	sel := &Selection{}
	for i, db := range dbs {
		pack, ok := PackByIndex(i)
		if !ok {
			pack = Pack{Index: i}
		}
		sel.Sources = append(sel.Sources, Source{Pack: pack, DB: db})
	}
	return sel
}

// Len returns the number of stores.
func (s *Selection) Len() int {
	return len(s.Sources)
}

// Close closes every store, returning all close errors joined.
func (s *Selection) Close() error {
	var errs []error
	for _, src := range s.Sources {
		if err := src.DB.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
