package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/gdlookup/internal/gddb"
	"github.com/roach88/gdlookup/internal/testutil"
)

// isolate keeps the user's config file and environment out of a test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, key := range []string{"INSTALL_PATH", "XPAC", "FORMAT", "VERBOSE", "NO_COLOR", "SUGGESTIONS"} {
		t.Setenv("GDLOOKUP_"+key, "")
	}
}

// fixtureInstall builds a base game plus one expansion.
//
// records/items/a.dbr exists in both packs; b.dbr inherits from a template.
func fixtureInstall(t *testing.T) string {
	t.Helper()

	base := gddb.NewImage().
		Add("records/templates/relic.dbr", "ItemRelic", "", gddb.Fields{
			"itemClassification": gddb.String("Rare"),
			"levelRequirement":   gddb.Int(1),
			"cost":               gddb.Float(1.5),
			"bitmaps":            gddb.Array{gddb.String("a.tex"), gddb.String("b.tex")},
		}).
		Add("records/items/a.dbr", "ItemRelic", "", gddb.Fields{
			"itemNameTag":      gddb.String("tagRelicA"),
			"levelRequirement": gddb.Int(50),
		}).
		Add("records/items/b.dbr", "", "records/templates/relic.dbr", gddb.Fields{
			"itemNameTag":      gddb.String("tagRelicB"),
			"levelRequirement": gddb.Int(40),
		}).
		Add("records/creatures/boss.dbr", "Monster", "", gddb.Fields{
			"itemNameTag": gddb.String("tagRelicB"),
		})

	gdx1 := gddb.NewImage().
		Add("records/items/a.dbr", "ItemRelic", "", gddb.Fields{
			"itemNameTag":      gddb.String("tagRelicA"),
			"levelRequirement": gddb.Int(60),
		}).
		Add("records/items/c.dbr", "ItemRelic", "", gddb.Fields{
			"itemNameTag": gddb.String("tagRelicB"),
		}).
		Add("records/items/loottables/mixed.dbr", "LootItemTable_DynWeight", "", gddb.Fields{
			"tableName": gddb.String("Mixed Items"),
			"weight":    gddb.Int(100),
		}).
		Add("records/items/loot/rand_offense.dbr", "lootRandomizer", "", gddb.Fields{
			"offensivePhysicalMin": gddb.Int(4),
		})

	return testutil.NewInstall(t).
		Store(0, base).
		Tags(0, map[string]string{
			"tagRelicA": "Relic of the Ancients",
			"tagRelicB": "Relic of Fire",
		}).
		BoltStore(1, gdx1).
		Tags(1, map[string]string{
			"tagRelicC": "Ancient Relic Shard",
			"tagRelicD": "Relic of the Ancients (Empowered)",
		}).
		Root()
}

type result struct {
	stdout string
	stderr string
	err    error
}

func (r result) code() int {
	return GetExitCode(r.err)
}

// execute runs the root command with args.
func execute(t *testing.T, args ...string) result {
	t.Helper()
	return executeWithEnv(t, nil, args...)
}

// executeWithEnv runs the root command with args after setting env on top
// of an isolated environment.
func executeWithEnv(t *testing.T, env map[string]string, args ...string) result {
	t.Helper()
	isolate(t)
	for k, v := range env {
		t.Setenv(k, v)
	}

	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func assertGolden(t *testing.T, name, got string) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(got))
}
