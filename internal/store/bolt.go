package store

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"go.etcd.io/bbolt"

	"github.com/roach88/gdlookup/internal/gddb"
)

var (
	bucketStrings = []byte("strings")
	bucketRecords = []byte("records")
)

// boltRecord is the JSON document stored per record.
type boltRecord struct {
	NameIndex int         `json:"name_idx"`
	Kind      string      `json:"kind,omitempty"`
	Parent    int         `json:"parent_idx"`
	Fields    gddb.Fields `json:"fields"`
}

// BoltStore is a read-only record store backed by a bbolt file.
type BoltStore struct {
	db     *bbolt.DB
	names  gddb.StringTable
	byName map[string]uint64 // identifier -> seq of its last record
}

var _ gddb.Database = (*BoltStore)(nil)

// OpenBolt opens the bbolt store at path read-only. It waits at most one
// second for a writer's lock.
func OpenBolt(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0o400, &bbolt.Options{ReadOnly: true, Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &BoltStore{db: db}
	err = db.View(func(tx *bbolt.Tx) error {
		strs := tx.Bucket(bucketStrings)
		recs := tx.Bucket(bucketRecords)
		if strs == nil || recs == nil {
			return fmt.Errorf("missing buckets: %w", gddb.ErrUnsupportedFormat)
		}

		s.names = gddb.StringTable{}
		if err := strs.ForEach(func(k, v []byte) error {
			if len(k) != 8 || binary.BigEndian.Uint64(k) != uint64(len(s.names)) {
				return fmt.Errorf("%w: string table gap at index %d", gddb.ErrCorrupt, len(s.names))
			}
			s.names = append(s.names, string(v))
			return nil
		}); err != nil {
			return err
		}

		s.byName = make(map[string]uint64)
		return recs.ForEach(func(k, v []byte) error {
			var rec boltRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				// Reported when the record is enumerated.
				return nil
			}
			if id, err := s.names.Lookup(rec.NameIndex); err == nil {
				s.byName[id] = binary.BigEndian.Uint64(k)
			}
			return nil
		})
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Close releases the file lock.
func (s *BoltStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Records returns every raw record in key order.
func (s *BoltStore) Records(ctx context.Context) ([]gddb.RawRecord, error) {
	records := []gddb.RawRecord{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketRecords).ForEach(func(k, v []byte) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			raw, err := decodeBoltRecord(k, v)
			if err != nil {
				return err
			}
			records = append(records, raw)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	return records, nil
}

// RecordID returns the identifier named by raw's string-table index.
func (s *BoltStore) RecordID(raw gddb.RawRecord) (string, error) {
	return s.names.Lookup(raw.NameIndex)
}

// Resolve applies raw's inheritance chain.
func (s *BoltStore) Resolve(ctx context.Context, raw gddb.RawRecord) (gddb.Record, error) {
	r := gddb.Resolver{Names: s.names, Lookup: s.lookup}
	return r.Resolve(ctx, raw)
}

func (s *BoltStore) lookup(_ context.Context, id string) (gddb.RawRecord, error) {
	seq, ok := s.byName[id]
	if !ok {
		return gddb.RawRecord{}, fmt.Errorf("record %s: %w", id, gddb.ErrNotFound)
	}

	var raw gddb.RawRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		key := seqKey(seq)
		v := tx.Bucket(bucketRecords).Get(key)
		if v == nil {
			return fmt.Errorf("record %s: %w", id, gddb.ErrNotFound)
		}
		var err error
		raw, err = decodeBoltRecord(key, v)
		return err
	})
	return raw, err
}

func decodeBoltRecord(k, v []byte) (gddb.RawRecord, error) {
	if len(k) != 8 {
		return gddb.RawRecord{}, fmt.Errorf("%w: record key length %d", gddb.ErrCorrupt, len(k))
	}
	seq := binary.BigEndian.Uint64(k)

	var rec boltRecord
	if err := json.Unmarshal(v, &rec); err != nil {
		return gddb.RawRecord{}, fmt.Errorf("%w: record seq %d: %w", gddb.ErrCorrupt, seq, err)
	}
	if rec.Fields == nil {
		rec.Fields = gddb.Fields{}
	}
	return gddb.RawRecord{
		Seq:       int64(seq),
		NameIndex: rec.NameIndex,
		Kind:      rec.Kind,
		Parent:    rec.Parent,
		Fields:    rec.Fields,
	}, nil
}

func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}

// WriteBolt writes img to a new bbolt store at path.
// The file must not already exist.
func WriteBolt(ctx context.Context, path string, img *gddb.Image) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("write store: %s already exists", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("write store: %w", err)
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	return db.Update(func(tx *bbolt.Tx) error {
		strs, err := tx.CreateBucket(bucketStrings)
		if err != nil {
			return err
		}
		recs, err := tx.CreateBucket(bucketRecords)
		if err != nil {
			return err
		}

		for i, s := range img.Strings {
			if err := strs.Put(seqKey(uint64(i)), []byte(s)); err != nil {
				return fmt.Errorf("write string %d: %w", i, err)
			}
		}
		for _, raw := range img.Records {
			data, err := json.Marshal(boltRecord{
				NameIndex: raw.NameIndex,
				Kind:      raw.Kind,
				Parent:    raw.Parent,
				Fields:    raw.Fields,
			})
			if err != nil {
				return fmt.Errorf("write record %d: %w", raw.Seq, err)
			}
			if err := recs.Put(seqKey(uint64(raw.Seq)), data); err != nil {
				return fmt.Errorf("write record %d: %w", raw.Seq, err)
			}
		}
		return nil
	})
}
