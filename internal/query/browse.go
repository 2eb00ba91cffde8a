package query

import (
	"context"
	"slices"
	"strings"

	"github.com/roach88/gdlookup/internal/install"
)

// ListChildren returns the distinct next path segments below prefix, sorted.
// Segments with further segments beneath them end in "/". An empty prefix
// lists the top level.
//
// Matching is by whole segments: "records" matches "records/items/a" but
// not "recordsX/a". Empty segments are ignored, so a trailing "/" on the
// prefix makes no difference.
func ListChildren(ctx context.Context, sel *install.Selection, prefix string) ([]string, error) {
	ids, err := ScanIDs(ctx, sel)
	if err != nil {
		return nil, err
	}
	return Children(ids, prefix), nil
}

// Children is ListChildren over an identifier list.
func Children(ids []string, prefix string) []string {
	want := segments(prefix)

	seen := make(map[string]bool)
	labels := []string{}
	for _, id := range ids {
		segs := segments(id)
		if len(segs) <= len(want) || !slices.Equal(segs[:len(want)], want) {
			continue
		}
		rest := segs[len(want):]
		label := rest[0]
		if len(rest) > 1 {
			label += "/"
		}
		if !seen[label] {
			seen[label] = true
			labels = append(labels, label)
		}
	}
	slices.Sort(labels)
	return labels
}

func segments(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
}
