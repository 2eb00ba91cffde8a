package install

import "fmt"

// Pack is one installable content pack and where its files live relative to
// the install root.
type Pack struct {
	Index    int
	Name     string
	Database string
	Archive  string
	TagEntry string
}

// Packs lists every known pack in index order. Index 0 is the base game.
var Packs = [...]Pack{
	{
		Index:    0,
		Name:     "base",
		Database: "database/database.arz",
		Archive:  "resources/Text_EN.arc",
		TagEntry: "tags_items.txt",
	},
	{
		Index:    1,
		Name:     "gdx1",
		Database: "gdx1/database/GDX1.arz",
		Archive:  "gdx1/resources/Text_EN.arc",
		TagEntry: "tagsgdx1_items.txt",
	},
	{
		Index:    2,
		Name:     "gdx2",
		Database: "gdx2/database/GDX2.arz",
		Archive:  "gdx2/resources/Text_EN.arc",
		TagEntry: "tagsgdx2_items.txt",
	},
	{
		Index:    3,
		Name:     "gdx3",
		Database: "gdx3/database/GDX3.arz",
		Archive:  "gdx3/resources/Text_EN.arc",
		TagEntry: "tagsgdx3_items.txt",
	},
}

// PackByIndex returns the pack with the given index.
func PackByIndex(i int) (Pack, bool) {
	if i < 0 || i >= len(Packs) {
		return Pack{}, false
	}
	return Packs[i], true
}

func (p Pack) String() string {
	return fmt.Sprintf("%s (%d)", p.Name, p.Index)
}
