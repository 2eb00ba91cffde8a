// Package tags reads localized tag tables.
//
// A tag archive is either a zip container or a directory holding the
// extracted entries. Each pack's archive carries one tag entry of
// key=value lines mapping internal tag keys to display strings.
package tags
