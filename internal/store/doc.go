// Package store opens content databases for reading.
//
// Two on-disk formats are supported, chosen by sniffing the file header:
//
//   - SQLite: tables strings(idx, value) and records(seq, name_idx, kind,
//     parent_idx, fields), with fields held as JSON text.
//   - bbolt: buckets "strings" and "records" keyed by big-endian sequence
//     numbers, with records held as JSON documents.
//
// Both backends open read-only, enumerate records in seq order and resolve
// inheritance through gddb.Resolver. WriteSQLite and WriteBolt produce
// stores from a gddb.Image; they exist for fixtures and tooling, never for
// queries.
package store
