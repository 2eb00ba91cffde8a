package gddb

import "fmt"

// StringTable holds a store's interned strings. Record identifiers and parent
// references are indexes into it.
type StringTable []string

// Lookup returns the string at idx.
func (t StringTable) Lookup(idx int) (string, error) {
	if idx < 0 || idx >= len(t) {
		return "", fmt.Errorf("%w: %d (table has %d entries)", ErrNameIndex, idx, len(t))
	}
	return t[idx], nil
}

// Index returns a map from string to its position. Later duplicates win.
func (t StringTable) Index() map[string]int {
	idx := make(map[string]int, len(t))
	for i, s := range t {
		idx[s] = i
	}
	return idx
}
