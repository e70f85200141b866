// Package cart provides the Cart aggregate: transient, session-owned staging state for
// items before an order is submitted.
//
// Key business rules:
//   - Only the owning session may read or mutate a cart
//   - A line snapshots the item's price when it is added; later catalog changes do not
//     reach the line
//   - Subtotal and total are recomputed from the current lines on every read
//   - A closed cart rejects every mutation with ErrCartClosed
package cart
