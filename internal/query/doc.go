// Package query answers lookups against a store selection.
//
// Every operation is a full scan: stores are visited in selection order and
// no index outlives a call. Scan and ScanIDs are the primitives; the item
// resolver, reference finder, namespace browser and record locator are
// built on them.
package query
