package gddb

import "errors"

var (
	// ErrNotFound is returned when a record or string-table entry does not exist.
	ErrNotFound = errors.New("not found")

	// ErrCorrupt marks structural damage: a dangling parent reference, an
	// inheritance cycle or an undecodable field blob.
	ErrCorrupt = errors.New("corrupt database")

	// ErrUnsupportedFormat is returned when a file is not a record store any
	// backend recognises.
	ErrUnsupportedFormat = errors.New("unsupported database format")

	// ErrNameIndex is returned when a record's name index falls outside the
	// string table.
	ErrNameIndex = errors.New("name index out of range")
)
