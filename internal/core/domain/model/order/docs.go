// Package order provides the Order aggregate: the authoritative, durable record of a
// finalized purchase, tracked through its status lifecycle.
//
// The package includes:
//   - Order: identity, human-facing number, immutable item snapshot, totals and status
//   - Status: an explicit finite state machine with an allow-list of edges
//   - Type: dine_in, pickup or delivery, which decides the terminal success status
//   - Line: an immutable copy of a cart line taken at submission time
//
// Key business rules:
//   - The item snapshot, totals, type and table number never change after creation
//   - Only status, updated_at and delivery metadata mutate
//   - pending -> preparing -> ready -> delivered (delivery) | completed (pickup, dine_in)
//   - pending -> cancelled, and preparing -> cancelled when the cancellation policy allows
//   - A dine_in order requires a table number; other types must not carry one
package order
