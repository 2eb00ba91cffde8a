package query

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/gdlookup/internal/install"
	"github.com/roach88/gdlookup/internal/tags"
)

const (
	// ItemsPrefix is the namespace holding item records.
	ItemsPrefix = "records/items"

	// ItemNameTagField names the field holding an item's tag key.
	ItemNameTagField = "itemNameTag"
)

// Outcome classifies an item resolution.
type Outcome int

const (
	NoMatch Outcome = iota
	Unique
	Ambiguous
)

func (o Outcome) String() string {
	switch o {
	case NoMatch:
		return "no_match"
	case Unique:
		return "unique"
	case Ambiguous:
		return "ambiguous"
	default:
		return "unknown"
	}
}

// Resolution is the result of matching free text against a tag table.
// Tag and Name are set only for Unique; Candidates only for Ambiguous.
type Resolution struct {
	Outcome    Outcome
	Tag        string
	Name       string
	Candidates []string
}

// ResolveItem finds the tag whose display name the query describes.
//
// The query is split on ASCII whitespace and a tag is a candidate when every
// token occurs in its value (case-sensitive). One candidate is the answer.
// Among several, a value equal to the whole query wins. Otherwise the result
// is Ambiguous with the candidate values sorted ascending.
//
// Several tags can share the exact value (packs often repeat a display
// name). That case is still Unique: the smallest tag key is returned rather
// than reporting Ambiguous.
func ResolveItem(table tags.Table, query string) Resolution {
	query = norm.NFC.String(query)
	tokens := strings.FieldsFunc(query, isASCIISpace)

	type candidate struct{ tag, value string }
	var candidates []candidate
	for tag, value := range table {
		if containsAll(value, tokens) {
			candidates = append(candidates, candidate{tag, value})
		}
	}
	slices.SortFunc(candidates, func(a, b candidate) int {
		return cmp.Or(strings.Compare(a.value, b.value), strings.Compare(a.tag, b.tag))
	})

	switch len(candidates) {
	case 0:
		return Resolution{Outcome: NoMatch}
	case 1:
		return Resolution{Outcome: Unique, Tag: candidates[0].tag, Name: candidates[0].value}
	}

	// Sorted by value then tag, so the first exact value has the smallest tag.
	for _, c := range candidates {
		if c.value == query {
			return Resolution{Outcome: Unique, Tag: c.tag, Name: c.value}
		}
	}

	values := make([]string, len(candidates))
	for i, c := range candidates {
		values[i] = c.value
	}
	return Resolution{Outcome: Ambiguous, Candidates: values}
}

func containsAll(value string, tokens []string) bool {
	for _, tok := range tokens {
		if !strings.Contains(value, tok) {
			return false
		}
	}
	return true
}

// isASCIISpace matches space, tab, line feed, form feed and carriage return.
func isASCIISpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	}
	return false
}

// Suggest returns up to n display names that fuzzy-match query, best first.
// Used to hint at near misses when ResolveItem finds nothing.
func Suggest(table tags.Table, query string, n int) []string {
	if n <= 0 || strings.TrimSpace(query) == "" {
		return nil
	}

	seen := make(map[string]bool, len(table))
	values := make([]string, 0, len(table))
	for _, v := range table {
		if v != "" && !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	slices.Sort(values)

	matches := fuzzy.Find(norm.NFC.String(query), values)
	slices.SortStableFunc(matches, func(a, b fuzzy.Match) int {
		return cmp.Or(cmp.Compare(b.Score, a.Score), strings.Compare(a.Str, b.Str))
	})

	out := make([]string, 0, min(n, len(matches)))
	for _, m := range matches[:min(n, len(matches))] {
		out = append(out, m.Str)
	}
	return out
}

// FindReferences returns the identifiers of item records whose name tag is
// tag, sorted and without duplicates.
func FindReferences(ctx context.Context, sel *install.Selection, tag string) ([]string, error) {
	records, err := Scan(ctx, sel, IDHasPrefix(ItemsPrefix))
	if err != nil {
		return nil, err
	}

	ids := []string{}
	for _, rec := range records {
		if v, ok := rec.StringField(ItemNameTagField); ok && v == tag {
			ids = append(ids, rec.ID)
		}
	}
	slices.Sort(ids)
	return slices.Compact(ids), nil
}
