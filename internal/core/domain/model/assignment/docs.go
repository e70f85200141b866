// Package assignment provides the DeliveryAssignment aggregate that tracks which driver
// carries a delivery order and how far the hand-off has progressed.
//
// State transitions:
//
//	Unassigned ──> Assigned ──> EnRoute ──> Delivered
//	                  │            │
//	                  └────────────┴──> Failed ──> Assigned (explicit reassignment)
//
// An assignment exists 1:1 with a delivery order and is identified by the order id.
package assignment
