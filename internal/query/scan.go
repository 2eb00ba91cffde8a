package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/gdlookup/internal/gddb"
	"github.com/roach88/gdlookup/internal/install"
)

// Predicate selects records during a scan. It sees the identifier and the
// unresolved record, so filtering never pays for inheritance.
type Predicate func(id string, raw gddb.RawRecord) bool

// ScanError reports a store that failed mid-scan. Any such failure aborts
// the whole scan.
type ScanError struct {
	Store string
	Op    string
	Cause error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("Error parsing database records: %s: %s: %v", e.Store, e.Op, e.Cause)
}

func (e *ScanError) Unwrap() error {
	return e.Cause
}

// Scan returns the resolved form of every record pred accepts, across all
// stores in selection order. Records are not deduplicated across stores.
func Scan(ctx context.Context, sel *install.Selection, pred Predicate) ([]gddb.Record, error) {
	out := []gddb.Record{}
	err := walk(ctx, sel, func(src install.Source, id string, raw gddb.RawRecord) error {
		if !pred(id, raw) {
			return nil
		}
		rec, err := src.DB.Resolve(ctx, raw)
		if err != nil {
			return &ScanError{Store: sourceName(src), Op: "resolve " + id, Cause: err}
		}
		out = append(out, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ScanIDs returns every identifier across all stores in selection order,
// duplicates included.
func ScanIDs(ctx context.Context, sel *install.Selection) ([]string, error) {
	out := []string{}
	err := walk(ctx, sel, func(_ install.Source, id string, _ gddb.RawRecord) error {
		out = append(out, id)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// walk enumerates each store and derives every identifier before handing the
// record to visit.
func walk(ctx context.Context, sel *install.Selection, visit func(install.Source, string, gddb.RawRecord) error) error {
	for _, src := range sel.Sources {
		if err := ctx.Err(); err != nil {
			return err
		}

		raws, err := src.DB.Records(ctx)
		if err != nil {
			return &ScanError{Store: sourceName(src), Op: "enumerate", Cause: err}
		}

		for _, raw := range raws {
			if err := ctx.Err(); err != nil {
				return err
			}
			id, err := src.DB.RecordID(raw)
			if err != nil {
				return &ScanError{Store: sourceName(src), Op: fmt.Sprintf("identify record %d", raw.Seq), Cause: err}
			}
			if err := visit(src, id, raw); err != nil {
				return err
			}
		}
	}
	return nil
}

func sourceName(src install.Source) string {
	if src.Path != "" {
		return src.Path
	}
	return src.Pack.Name
}

// IDEquals matches one identifier exactly.
func IDEquals(want string) Predicate {
	return func(id string, _ gddb.RawRecord) bool { return id == want }
}

// IDHasPrefix matches identifiers starting with prefix. This is a plain
// string prefix, not a path-segment match.
func IDHasPrefix(prefix string) Predicate {
	return func(id string, _ gddb.RawRecord) bool { return strings.HasPrefix(id, prefix) }
}

// KindEquals matches records whose own kind is kind. Kinds inherited from a
// template are not visible before resolution.
func KindEquals(kind string) Predicate {
	return func(_ string, raw gddb.RawRecord) bool { return raw.Kind == kind }
}
