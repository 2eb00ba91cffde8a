package store

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/roach88/gdlookup/internal/gddb"
)

var sqliteHeader = []byte("SQLite format 3\x00")

// boltMagic is bbolt's meta page marker. It follows the 16-byte page header.
const (
	boltMagic       uint32 = 0xED0CDAED
	boltMagicOffset        = 16
)

// Format identifies an on-disk store format.
type Format string

const (
	FormatSQLite Format = "sqlite"
	FormatBolt   Format = "bolt"
)

// Detect reads the file header and reports which backend can open path.
// Returns an error wrapping gddb.ErrUnsupportedFormat when none can.
func Detect(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	header := make([]byte, 32)
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("%s: empty file: %w", path, gddb.ErrUnsupportedFormat)
		}
		return "", fmt.Errorf("read header %s: %w", path, err)
	}
	header = header[:n]

	if bytes.HasPrefix(header, sqliteHeader) {
		return FormatSQLite, nil
	}
	if len(header) >= boltMagicOffset+4 &&
		binary.LittleEndian.Uint32(header[boltMagicOffset:]) == boltMagic {
		return FormatBolt, nil
	}
	return "", fmt.Errorf("%s: %w", path, gddb.ErrUnsupportedFormat)
}

// Open opens the record store at path read-only, whichever format it is in.
func Open(path string) (gddb.Database, error) {
	format, err := Detect(path)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatSQLite:
		return OpenSQLite(path)
	case FormatBolt:
		return OpenBolt(path)
	default:
		return nil, fmt.Errorf("%s: %w", path, gddb.ErrUnsupportedFormat)
	}
}
