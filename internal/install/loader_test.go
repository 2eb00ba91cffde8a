package install_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gdlookup/internal/gddb"
	"github.com/roach88/gdlookup/internal/install"
	"github.com/roach88/gdlookup/internal/tags"
	"github.com/roach88/gdlookup/internal/testutil"
)

func intPtr(i int) *int { return &i }

func newTestLoader(t *testing.T, root string) (*install.Loader, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return install.NewLoader(root, log), &logs
}

func TestOpenSelection_AllPacks(t *testing.T) {
	in := testutil.NewInstall(t).
		Store(0, testutil.Records("records/a.dbr")).
		BoltStore(2, testutil.Records("records/c.dbr"))

	l, logs := newTestLoader(t, in.Root())
	sel, err := l.OpenSelection(context.Background(), nil)
	require.NoError(t, err)
	defer sel.Close()

	require.Equal(t, 2, sel.Len())
	assert.Equal(t, 0, sel.Sources[0].Pack.Index)
	assert.Equal(t, 2, sel.Sources[1].Pack.Index)
	assert.Equal(t, in.Path("gdx2/database/GDX2.arz"), sel.Sources[1].Path)
	assert.Equal(t, in.Root(), sel.Root)

	// Absent packs are dropped quietly, at debug level only.
	assert.Contains(t, logs.String(), "pack unavailable")
	assert.Contains(t, logs.String(), "level=DEBUG")
	assert.NotContains(t, logs.String(), "level=WARN")
	assert.NotContains(t, logs.String(), "level=ERROR")
}

func TestOpenSelection_SingleExpansion(t *testing.T) {
	in := testutil.NewInstall(t).
		Store(0, testutil.Records("records/a.dbr")).
		Store(1, testutil.Records("records/b.dbr"))

	l, _ := newTestLoader(t, in.Root())
	sel, err := l.OpenSelection(context.Background(), intPtr(1))
	require.NoError(t, err)
	defer sel.Close()

	require.Equal(t, 1, sel.Len())
	assert.Equal(t, 1, sel.Sources[0].Pack.Index)
}

func TestOpenSelection_InvalidExpansion(t *testing.T) {
	l, _ := newTestLoader(t, t.TempDir())
	l.OpenStore = func(string) (gddb.Database, error) {
		t.Fatal("no store should be opened for an invalid index")
		return nil, nil
	}

	for _, idx := range []int{-1, 4, 42} {
		_, err := l.OpenSelection(context.Background(), intPtr(idx))
		var cfgErr *install.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "expansion must be 0, 1, 2, or 3", cfgErr.Message)
	}
}

func TestOpenSelection_NothingOpens(t *testing.T) {
	root := t.TempDir()
	l, _ := newTestLoader(t, root)

	_, err := l.OpenSelection(context.Background(), nil)
	var cfgErr *install.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "Could not read database files. Please verify install path: "+root, cfgErr.Error())
}

func TestOpenSelection_ExpansionNotInstalled(t *testing.T) {
	in := testutil.NewInstall(t).Store(0, testutil.Records("records/a.dbr"))

	l, _ := newTestLoader(t, in.Root())
	_, err := l.OpenSelection(context.Background(), intPtr(3))
	var cfgErr *install.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestOpenSelection_NeverEmpty(t *testing.T) {
	// Every subset of installed packs yields either an error or a
	// non-empty selection.
	for mask := 0; mask < 16; mask++ {
		in := testutil.NewInstall(t)
		for i := 0; i < 4; i++ {
			if mask&(1<<i) != 0 {
				in.Store(i, testutil.Records("records/x.dbr"))
			}
		}

		l, _ := newTestLoader(t, in.Root())
		sel, err := l.OpenSelection(context.Background(), nil)
		if mask == 0 {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err, "mask %04b", mask)
		assert.Positive(t, sel.Len())
		require.NoError(t, sel.Close())
	}
}

func TestOpenSelection_UnreadableStoreIsSkipped(t *testing.T) {
	in := testutil.NewInstall(t).
		File("database/database.arz", []byte("not a database, just some bytes")).
		Store(1, testutil.Records("records/b.dbr"))

	l, _ := newTestLoader(t, in.Root())
	sel, err := l.OpenSelection(context.Background(), nil)
	require.NoError(t, err)
	defer sel.Close()

	require.Equal(t, 1, sel.Len())
	assert.Equal(t, 1, sel.Sources[0].Pack.Index)
}

func TestOpenSelection_Cancelled(t *testing.T) {
	var dbs []*testutil.MemDB
	l, _ := newTestLoader(t, t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	l.OpenStore = func(string) (gddb.Database, error) {
		db := testutil.NewMemDB(nil)
		dbs = append(dbs, db)
		cancel()
		return db, nil
	}

	_, err := l.OpenSelection(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, dbs, 1)
	assert.Equal(t, 1, dbs[0].Closed)
}

func TestSelectionClose(t *testing.T) {
	a := testutil.NewMemDB(nil)
	b := testutil.NewMemDB(nil)
	b.CloseErr = errors.New("boom")

	sel := install.NewSelection(a, b)
	err := sel.Close()
	assert.ErrorContains(t, err, "boom")
	assert.Equal(t, 1, a.Closed)
	assert.Equal(t, 1, b.Closed)
}

func TestLoadTags_OverrideOrder(t *testing.T) {
	in := testutil.NewInstall(t).
		Tags(0, map[string]string{"tagShared": "base value", "tagBase": "Base"}).
		Tags(1, map[string]string{"tagShared": "gdx1 value", "tagOne": "One"}).
		Tags(3, map[string]string{"tagShared": "gdx3 value"})

	l, _ := newTestLoader(t, in.Root())
	table, err := l.LoadTags(context.Background())
	require.NoError(t, err)

	assert.Equal(t, tags.Table{
		"tagShared": "gdx3 value",
		"tagBase":   "Base",
		"tagOne":    "One",
	}, table)
}

func TestLoadTags_TwoPacks(t *testing.T) {
	in := testutil.NewInstall(t).
		Tags(0, map[string]string{"k": "v0"}).
		Tags(1, map[string]string{"k": "v1"})

	l, _ := newTestLoader(t, in.Root())
	table, err := l.LoadTags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v1", table["k"])
}

func TestLoadTags_NoArchives(t *testing.T) {
	root := t.TempDir()
	l, _ := newTestLoader(t, root)

	_, err := l.LoadTags(context.Background())
	var cfgErr *install.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "Could not read tag files. Please verify install path: "+root, cfgErr.Error())
}

func TestLoadTags_MissingEntry(t *testing.T) {
	in := testutil.NewInstall(t).
		Archive(0, map[string]string{"tags_skills.txt": "tagX=X\n"})

	l, _ := newTestLoader(t, in.Root())
	_, err := l.LoadTags(context.Background())

	var dataErr *install.DataError
	require.ErrorAs(t, err, &dataErr)
	assert.Equal(t, 0, dataErr.Pack.Index)
	assert.ErrorIs(t, err, tags.ErrEntryNotFound)
}

func TestLoadTags_MalformedEntry(t *testing.T) {
	in := testutil.NewInstall(t).
		Tags(0, map[string]string{"tagA": "Alpha"}).
		Archive(2, map[string]string{"tagsgdx2_items.txt": "tagA=ok\ngarbage line\n"})

	l, _ := newTestLoader(t, in.Root())
	_, err := l.LoadTags(context.Background())

	var dataErr *install.DataError
	require.ErrorAs(t, err, &dataErr)
	assert.Equal(t, 2, dataErr.Pack.Index)
	assert.ErrorIs(t, err, tags.ErrMalformed)
}

func TestPackByIndex(t *testing.T) {
	p, ok := install.PackByIndex(2)
	require.True(t, ok)
	assert.Equal(t, "gdx2/database/GDX2.arz", p.Database)
	assert.Equal(t, "tagsgdx2_items.txt", p.TagEntry)

	_, ok = install.PackByIndex(4)
	assert.False(t, ok)
}
