package gddb

// Image is the format-neutral content of a record store: a string table and
// raw records in store order. Store writers serialise it and MemDB serves it
// directly.
type Image struct {
	Strings StringTable
	Records []RawRecord

	index map[string]int
}

// NewImage returns an empty image.
func NewImage() *Image {
	return &Image{index: make(map[string]int)}
}

// Intern returns the string-table index for s, adding it if needed.
func (img *Image) Intern(s string) int {
	if img.index == nil {
		img.index = img.Strings.Index()
	}
	if idx, ok := img.index[s]; ok {
		return idx
	}
	img.Strings = append(img.Strings, s)
	img.index[s] = len(img.Strings) - 1
	return len(img.Strings) - 1
}

// Add appends a record named id. An empty parent means no inheritance.
func (img *Image) Add(id, kind, parent string, fields Fields) *Image {
	raw := RawRecord{
		Seq:       int64(len(img.Records)),
		NameIndex: img.Intern(id),
		Kind:      kind,
		Parent:    NoParent,
		Fields:    fields,
	}
	if parent != "" {
		raw.Parent = img.Intern(parent)
	}
	if raw.Fields == nil {
		raw.Fields = Fields{}
	}
	img.Records = append(img.Records, raw)
	return img
}

// AddRaw appends raw unchanged apart from its sequence number. Used to build
// deliberately broken images.
func (img *Image) AddRaw(raw RawRecord) *Image {
	raw.Seq = int64(len(img.Records))
	img.Records = append(img.Records, raw)
	return img
}
