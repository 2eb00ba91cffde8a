package testutil

import (
	"context"
	"fmt"

	"github.com/roach88/gdlookup/internal/gddb"
)

// MemDB is an in-memory gddb.Database over an Image.
//
// Error fields inject failures: RecordsErr fails enumeration, ResolveErr
// fails every Resolve and IDErr fails every RecordID.
type MemDB struct {
	Image *gddb.Image

	RecordsErr error
	ResolveErr error
	IDErr      error
	CloseErr   error

	// Closed counts Close calls.
	Closed int
	// Resolved counts successful Resolve calls.
	Resolved int
}

var _ gddb.Database = (*MemDB)(nil)

// NewMemDB returns a MemDB serving img.
func NewMemDB(img *gddb.Image) *MemDB {
	if img == nil {
		img = gddb.NewImage()
	}
	return &MemDB{Image: img}
}

func (m *MemDB) Records(ctx context.Context) ([]gddb.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.RecordsErr != nil {
		return nil, m.RecordsErr
	}
	out := make([]gddb.RawRecord, len(m.Image.Records))
	copy(out, m.Image.Records)
	return out, nil
}

func (m *MemDB) RecordID(raw gddb.RawRecord) (string, error) {
	if m.IDErr != nil {
		return "", m.IDErr
	}
	return m.Image.Strings.Lookup(raw.NameIndex)
}

func (m *MemDB) Resolve(ctx context.Context, raw gddb.RawRecord) (gddb.Record, error) {
	if m.ResolveErr != nil {
		return gddb.Record{}, m.ResolveErr
	}
	r := gddb.Resolver{Names: m.Image.Strings, Lookup: m.lookup}
	rec, err := r.Resolve(ctx, raw)
	if err == nil {
		m.Resolved++
	}
	return rec, err
}

func (m *MemDB) lookup(_ context.Context, id string) (gddb.RawRecord, error) {
	for i := len(m.Image.Records) - 1; i >= 0; i-- {
		raw := m.Image.Records[i]
		if name, err := m.Image.Strings.Lookup(raw.NameIndex); err == nil && name == id {
			return raw, nil
		}
	}
	return gddb.RawRecord{}, fmt.Errorf("record %s: %w", id, gddb.ErrNotFound)
}

func (m *MemDB) Close() error {
	m.Closed++
	return m.CloseErr
}

// Records builds an image holding one record per id, with no fields.
func Records(ids ...string) *gddb.Image {
	img := gddb.NewImage()
	for _, id := range ids {
		img.Add(id, "", "", nil)
	}
	return img
}
