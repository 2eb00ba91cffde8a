package gddb

import "context"

// Database is an open record store.
//
// Records enumerates every raw record in store order. RecordID derives a raw
// record's identifier without resolving it. Resolve applies inheritance and
// returns the merged record.
//
// Implementations are not safe for concurrent use.
type Database interface {
	Records(ctx context.Context) ([]RawRecord, error)
	RecordID(raw RawRecord) (string, error)
	Resolve(ctx context.Context, raw RawRecord) (Record, error)
	Close() error
}
