package tags

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrMalformed marks tag text that cannot be parsed.
var ErrMalformed = errors.New("malformed tag file")

// maxLineSize bounds a single line. Some descriptions run long.
const maxLineSize = 1 << 20

// Table maps tag keys to display strings.
type Table map[string]string

// Merge copies every entry of other into t, overwriting on collision.
func (t Table) Merge(other Table) {
	for k, v := range other {
		t[k] = v
	}
}

// Parse decodes a tag entry.
//
// The text may be UTF-8 or UTF-16 with a byte order mark. Each non-blank
// line that is not a comment ('#' or '//') must be key=value; the value is
// everything after the first '='. Keys and values are trimmed and values are
// NFC-normalised. Later duplicates win.
func Parse(data []byte) (Table, error) {
	decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrMalformed, err)
	}

	table := Table{}
	sc := bufio.NewScanner(bytes.NewReader(decoded))
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") || strings.HasPrefix(text, "//") {
			continue
		}

		key, value, ok := strings.Cut(text, "=")
		if !ok {
			return nil, fmt.Errorf("%w: line %d: missing '='", ErrMalformed, line)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("%w: line %d: empty key", ErrMalformed, line)
		}
		table[key] = norm.NFC.String(strings.TrimSpace(value))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: line %d: %w", ErrMalformed, line+1, err)
	}
	return table, nil
}
