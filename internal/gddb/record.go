package gddb

import (
	"strings"
)

// NoParent is the Parent value of a record that inherits nothing.
const NoParent = -1

// RawRecord is a record as stored, before inheritance is applied.
type RawRecord struct {
	// Seq is the record's position in its store. Enumeration follows Seq.
	Seq int64

	// NameIndex points into the store's string table at the identifier.
	NameIndex int

	// Kind is the record's class, e.g. "lootRandomizer". May be empty when
	// inherited from the parent.
	Kind string

	// Parent is the string-table index of the template this record
	// inherits from, or NoParent.
	Parent int

	// Fields holds only the record's own fields.
	Fields Fields
}

// HasParent reports whether the record inherits from a template.
func (r RawRecord) HasParent() bool {
	return r.Parent != NoParent
}

// Record is a fully resolved record.
type Record struct {
	ID   string
	Kind string
	Data Fields
}

// Field returns the named field value.
func (r Record) Field(name string) (Value, bool) {
	v, ok := r.Data[name]
	return v, ok
}

// StringField returns the named field when it holds a String.
func (r Record) StringField(name string) (string, bool) {
	v, ok := r.Data[name].(String)
	return string(v), ok
}

// String renders the record's display form: one "key,value," line per field
// in key order.
func (r Record) String() string {
	var b strings.Builder
	for _, k := range r.Data.SortedKeys() {
		b.WriteString(k)
		b.WriteByte(',')
		b.WriteString(r.Data[k].Format())
		b.WriteString(",\n")
	}
	return b.String()
}
