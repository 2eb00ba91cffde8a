package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/roach88/gdlookup/internal/gddb"
)

// WriteSQLite writes img to a new SQLite store at path.
// The file must not already exist.
func WriteSQLite(ctx context.Context, path string, img *gddb.Image) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("write store: %s already exists", path)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(1)

	if err := applyPragmas(db, "PRAGMA journal_mode = DELETE", "PRAGMA synchronous = NORMAL"); err != nil {
		return fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for i, s := range img.Strings {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO strings (idx, value) VALUES (?, ?)", i, s,
		); err != nil {
			return fmt.Errorf("write string %d: %w", i, err)
		}
	}

	for _, raw := range img.Records {
		fieldsJSON, err := marshalFields(raw.Fields)
		if err != nil {
			return fmt.Errorf("write record %d: %w", raw.Seq, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO records (seq, name_idx, kind, parent_idx, fields)
			VALUES (?, ?, ?, ?, ?)
		`,
			raw.Seq,
			raw.NameIndex,
			raw.Kind,
			raw.Parent,
			fieldsJSON,
		); err != nil {
			return fmt.Errorf("write record %d: %w", raw.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
