package query

import (
	"github.com/roach88/gdlookup/internal/gddb"
	"github.com/roach88/gdlookup/internal/install"
	"github.com/roach88/gdlookup/internal/testutil"
)

// selectionOf wraps images in MemDBs, one store per image, in order.
func selectionOf(imgs ...*gddb.Image) (*install.Selection, []*testutil.MemDB) {
	dbs := make([]gddb.Database, len(imgs))
	mems := make([]*testutil.MemDB, len(imgs))
	for i, img := range imgs {
		mems[i] = testutil.NewMemDB(img)
		dbs[i] = mems[i]
	}
	return install.NewSelection(dbs...), mems
}

func item(img *gddb.Image, id, tag string) *gddb.Image {
	return img.Add(id, "ItemRelic", "", gddb.Fields{ItemNameTagField: gddb.String(tag)})
}
