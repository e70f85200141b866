// Package kernel provides the value objects shared by every aggregate of the order hub:
// UUID identifiers and Money amounts kept in integer minor currency units.
package kernel
