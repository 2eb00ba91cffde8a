package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/gdlookup/internal/gddb"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - strings + records tables, JSON fields
const currentSchemaVersion = 1

// SQLiteStore is a read-only record store backed by SQLite.
type SQLiteStore struct {
	db     *sql.DB
	names  gddb.StringTable
	byName map[string]int
}

var _ gddb.Database = (*SQLiteStore)(nil)

// OpenSQLite opens the SQLite store at path read-only.
//
// The connection is configured with:
//   - mode=ro so the file is never created or written
//   - query_only as a second guard on the single pooled connection
//
// The whole string table is loaded up front; records are read on demand.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Pragmas are per connection, so pin the pool to one.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db, "PRAGMA query_only = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := checkSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	names, err := loadStrings(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &SQLiteStore{db: db, names: names, byName: names.Index()}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Records returns every raw record ordered by seq.
// Returns an empty slice (not nil) for an empty store.
func (s *SQLiteStore) Records(ctx context.Context) ([]gddb.RawRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, name_idx, kind, parent_idx, fields
		FROM records
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	records := []gddb.RawRecord{}
	for rows.Next() {
		raw, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

// RecordID returns the identifier named by raw's string-table index.
func (s *SQLiteStore) RecordID(raw gddb.RawRecord) (string, error) {
	return s.names.Lookup(raw.NameIndex)
}

// Resolve applies raw's inheritance chain.
func (s *SQLiteStore) Resolve(ctx context.Context, raw gddb.RawRecord) (gddb.Record, error) {
	r := gddb.Resolver{Names: s.names, Lookup: s.lookup}
	return r.Resolve(ctx, raw)
}

// lookup fetches the raw record named id. The last record with that name
// wins, matching enumeration order.
func (s *SQLiteStore) lookup(ctx context.Context, id string) (gddb.RawRecord, error) {
	idx, ok := s.byName[id]
	if !ok {
		return gddb.RawRecord{}, fmt.Errorf("record %s: %w", id, gddb.ErrNotFound)
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT seq, name_idx, kind, parent_idx, fields
		FROM records
		WHERE name_idx = ?
		ORDER BY seq DESC
		LIMIT 1
	`, idx)

	raw, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return gddb.RawRecord{}, fmt.Errorf("record %s: %w", id, gddb.ErrNotFound)
	}
	return raw, err
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (gddb.RawRecord, error) {
	var (
		raw        gddb.RawRecord
		fieldsJSON string
	)
	if err := row.Scan(&raw.Seq, &raw.NameIndex, &raw.Kind, &raw.Parent, &fieldsJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return gddb.RawRecord{}, err
		}
		return gddb.RawRecord{}, fmt.Errorf("scan record: %w", err)
	}

	fields, err := unmarshalFields(fieldsJSON)
	if err != nil {
		return gddb.RawRecord{}, fmt.Errorf("record seq %d: %w", raw.Seq, err)
	}
	raw.Fields = fields
	return raw, nil
}

// applyPragmas executes each pragma in order.
func applyPragmas(db *sql.DB, pragmas ...string) error {
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// checkSchema rejects SQLite files that are not content databases.
func checkSchema(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version != currentSchemaVersion {
		return fmt.Errorf("schema version %d, want %d: %w", version, currentSchemaVersion, gddb.ErrUnsupportedFormat)
	}

	for _, table := range []string{"strings", "records"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table,
		).Scan(&name)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("missing table %s: %w", table, gddb.ErrUnsupportedFormat)
		}
		if err != nil {
			return fmt.Errorf("check table %s: %w", table, err)
		}
	}
	return nil
}

// loadStrings reads the string table. Indexes must run 0..n-1 without gaps.
func loadStrings(db *sql.DB) (gddb.StringTable, error) {
	rows, err := db.Query("SELECT idx, value FROM strings ORDER BY idx ASC")
	if err != nil {
		return nil, fmt.Errorf("query strings: %w", err)
	}
	defer rows.Close()

	table := gddb.StringTable{}
	for rows.Next() {
		var (
			idx   int
			value string
		)
		if err := rows.Scan(&idx, &value); err != nil {
			return nil, fmt.Errorf("scan string: %w", err)
		}
		if idx != len(table) {
			return nil, fmt.Errorf("%w: string table gap at index %d", gddb.ErrCorrupt, len(table))
		}
		table = append(table, value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate strings: %w", err)
	}
	return table, nil
}
