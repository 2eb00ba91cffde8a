// Package gddb defines the record model shared by every content database
// backend.
//
// A database is a flat collection of raw records. Each raw record carries an
// index into the database's string table naming it, a kind, an optional
// parent (another string-table index) and its own typed fields. Resolving a
// raw record merges the fields of its parent chain, root first, with the
// record's own fields taking precedence.
//
// Identifiers are slash-delimited paths such as
// "records/items/gearweapons/swords1h/a01_sword001.dbr". They are unique
// within one database but the same identifier may appear in several
// databases (one per installed expansion).
//
// This package imports nothing internal; store, tags, install and query all
// build on it.
package gddb
