// Package core provides the domain model and the Garage aggregate of the parking lottery.
//
// This package contains the entities every other lottery component works on:
//
//   - Spot: a physical parking spot with a fixed identity and a mutable occupant
//   - Pair: one of the precomputed natural adjacent spot pairs eligible for double assignment
//   - Apartment: a participant in the draw with immutable category flags
//   - Layout: the physical spot enumeration and natural-pair list a Garage is built from
//   - Garage: the aggregate root owning spots, pairs and the reservation maps
//
// The Garage exposes read-only queries (FreeSpots, FreePairs, OccupancyOf,
// ReservationsSnapshot) and transactional mutators (OccupySpot,
// PreReserveDoublePairs, PreReserveExtendedSpots, ConsumeReservation).
// Callers that need snapshot semantics take a Clone before mutating and
// discard it to roll back.
//
// Example usage:
//
//	garage, err := core.NewGarage(layout)
//	if err != nil {
//	    return err
//	}
//	src := random.New(seed)
//	if err := garage.PreReserveDoublePairs([]string{"A1", "B4"}, extendedIDs, src); err != nil {
//	    return err // wraps core.ErrConfiguration
//	}
//	opts := garage.AvailableOptions("A1", core.CategoryDouble)
//
// The core package performs no I/O and holds no global state.
package core
