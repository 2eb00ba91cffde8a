package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/gdlookup/internal/gddb"
)

// sampleImage builds a small store with a two-level template chain.
func sampleImage() *gddb.Image {
	return gddb.NewImage().
		Add("records/templates/relic.dbr", "ItemRelic", "", gddb.Fields{
			"levelRequirement": gddb.Int(10),
			"dropScale":        gddb.Float(1),
		}).
		Add("records/items/relics/a.dbr", "", "records/templates/relic.dbr", gddb.Fields{
			"itemNameTag":      gddb.String("tagRelicA"),
			"levelRequirement": gddb.Int(50),
		}).
		Add("records/items/loot/r1.dbr", "lootRandomizer", "", gddb.Fields{
			"randomizerName": gddb.Array{gddb.String("a"), gddb.String("b")},
			"enabled":        gddb.Bool(true),
		})
}

type backend struct {
	name  string
	write func(t *testing.T, img *gddb.Image) string
	open  func(path string) (gddb.Database, error)
}

var backends = []backend{
	{
		name:  "sqlite",
		write: writeTestSQLite,
		open:  func(p string) (gddb.Database, error) { return OpenSQLite(p) },
	},
	{
		name:  "bolt",
		write: writeTestBolt,
		open:  func(p string) (gddb.Database, error) { return OpenBolt(p) },
	},
}

// writeTestSQLite writes img to a fresh SQLite file in a temp dir.
func writeTestSQLite(t *testing.T, img *gddb.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.arz")
	require.NoError(t, WriteSQLite(context.Background(), path, img))
	return path
}

// writeTestBolt writes img to a fresh bbolt file in a temp dir.
func writeTestBolt(t *testing.T, img *gddb.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.arz")
	require.NoError(t, WriteBolt(context.Background(), path, img))
	return path
}

// openTest opens path through Open and closes it at cleanup.
func openTest(t *testing.T, path string) gddb.Database {
	t.Helper()
	db, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}
