// Package services provides domain services that coordinate rules spanning more than
// one aggregate.
//
// The package includes:
//   - DeliveryCoordinator: keeps a delivery order and its DeliveryAssignment consistent
//     while the order is handed to a driver and confirmed
package services
