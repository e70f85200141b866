// Package catalog models the menu offered on every channel: ordered categories, each
// embedding its items, captured as an immutable Snapshot.
//
// A Snapshot is built from a Payload (the wire shape of the canonical catalog) and is
// never mutated after construction, so it can be shared between goroutines and replaced
// wholesale by the catalog store.
package catalog
