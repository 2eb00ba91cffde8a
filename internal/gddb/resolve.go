package gddb

import (
	"context"
	"fmt"
)

// LookupFunc fetches the raw record with the given identifier.
// It must return an error wrapping ErrNotFound when there is none.
type LookupFunc func(ctx context.Context, id string) (RawRecord, error)

// Resolver applies template inheritance. Backends supply the string table and
// a way to fetch parents by identifier.
type Resolver struct {
	Names  StringTable
	Lookup LookupFunc
}

// Resolve merges raw's parent chain root first, then raw's own fields.
// A dangling parent or an inheritance cycle is reported as ErrCorrupt.
func (r Resolver) Resolve(ctx context.Context, raw RawRecord) (Record, error) {
	id, err := r.Names.Lookup(raw.NameIndex)
	if err != nil {
		return Record{}, err
	}

	chain := []RawRecord{raw}
	seen := map[string]bool{id: true}
	cur := raw
	for cur.HasParent() {
		if err := ctx.Err(); err != nil {
			return Record{}, err
		}
		parentID, err := r.Names.Lookup(cur.Parent)
		if err != nil {
			return Record{}, fmt.Errorf("%w: record %s: parent: %w", ErrCorrupt, id, err)
		}
		if seen[parentID] {
			return Record{}, fmt.Errorf("%w: record %s: inheritance cycle at %s", ErrCorrupt, id, parentID)
		}
		seen[parentID] = true

		parent, err := r.Lookup(ctx, parentID)
		if err != nil {
			return Record{}, fmt.Errorf("%w: record %s: parent %s: %w", ErrCorrupt, id, parentID, err)
		}
		chain = append(chain, parent)
		cur = parent
	}

	root := chain[len(chain)-1]
	rec := Record{ID: id, Kind: root.Kind, Data: root.Fields.Clone()}
	for i := len(chain) - 2; i >= 0; i-- {
		link := chain[i]
		if link.Kind != "" {
			rec.Kind = link.Kind
		}
		for k, v := range link.Fields {
			rec.Data[k] = v
		}
	}
	return rec, nil
}
