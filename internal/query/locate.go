package query

import (
	"context"

	"github.com/roach88/gdlookup/internal/gddb"
	"github.com/roach88/gdlookup/internal/install"
)

// LootRandomizerKind is the record kind of loot affix randomizers.
const LootRandomizerKind = "lootRandomizer"

// NotFoundError is returned when no store holds the requested identifier.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return "not found: " + e.ID
}

// Located is a record found by identifier. Matches counts how many stores
// held it; Record is the one from the last store in selection order.
type Located struct {
	Record  gddb.Record
	Matches int
}

// Duplicated reports whether more than one store held the identifier.
func (l Located) Duplicated() bool {
	return l.Matches > 1
}

// Locate finds the record with identifier id.
func Locate(ctx context.Context, sel *install.Selection, id string) (Located, error) {
	records, err := Scan(ctx, sel, IDEquals(id))
	if err != nil {
		return Located{}, err
	}
	if len(records) == 0 {
		return Located{}, &NotFoundError{ID: id}
	}
	return Located{Record: records[len(records)-1], Matches: len(records)}, nil
}

// LootTable is a located loot table together with the randomizer records
// its affixes would be drawn from.
type LootTable struct {
	Located
	Randomizers []gddb.Record
}

// LoadLootTable locates id and gathers every loot randomizer record.
func LoadLootTable(ctx context.Context, sel *install.Selection, id string) (LootTable, error) {
	loc, err := Locate(ctx, sel, id)
	if err != nil {
		return LootTable{}, err
	}
	randomizers, err := Scan(ctx, sel, KindEquals(LootRandomizerKind))
	if err != nil {
		return LootTable{}, err
	}
	return LootTable{Located: loc, Randomizers: randomizers}, nil
}
