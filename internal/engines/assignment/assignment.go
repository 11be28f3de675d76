// Package assignment commits a validated selection to a garage snapshot.
package assignment

import (
	"fmt"
	"slices"

	"github.com/llm-d/parking-lottery/pkg/core"
)

// Result of an assignment. On failure Garage and Apartment are the inputs,
// untouched.
type Result struct {
	Success   bool
	Garage    *core.Garage
	Apartment core.Apartment
	Message   string
}

// Assigner commits selections.
type Assigner interface {
	AssignSpot(apartment core.Apartment, selection *core.Selection, garage *core.Garage) Result
}

// Service is the default copy-on-write Assigner.
type Service struct{}

// NewService creates a Service.
func NewService() *Service {
	return &Service{}
}

// AssignSpot clones garage and apartment, releases whatever the apartment held
// before (re-draw) and occupies the selected spots. A pair is committed as a
// whole: if its second half cannot be occupied the first one is released
// again and the call fails.
func (s *Service) AssignSpot(apartment core.Apartment, selection *core.Selection, garage *core.Garage) Result {
	fail := func(format string, args ...any) Result {
		return Result{Garage: garage, Apartment: apartment, Message: fmt.Sprintf(format, args...)}
	}
	if garage == nil {
		return Result{Apartment: apartment, Message: "no garage"}
	}
	if selection == nil || len(selection.SpotIDs) == 0 {
		return fail("empty selection for apartment %q", apartment.ID)
	}
	if selection.ApartmentID != apartment.ID {
		return fail("selection for %q cannot be assigned to %q", selection.ApartmentID, apartment.ID)
	}

	g := garage.Clone()
	a := apartment.Clone()

	// stale ids in AssignedSpotIDs may point at spots someone else holds now
	released := g.ReleaseApartment(a.ID)
	a.AssignedSpotIDs = a.AssignedSpotIDs[:0]

	occupied := make([]int, 0, len(selection.SpotIDs))
	for _, id := range selection.SpotIDs {
		if !g.OccupySpot(id, a.ID) {
			for _, done := range occupied {
				g.ReleaseSpot(done)
			}
			return fail("spot %d could not be occupied by %q", id, a.ID)
		}
		occupied = append(occupied, id)
	}
	a.AssignedSpotIDs = append(a.AssignedSpotIDs, occupied...)

	msg := fmt.Sprintf("apartment %s assigned spots %v", a.ID, occupied)
	if len(released) > 0 {
		slices.Sort(released)
		msg = fmt.Sprintf("%s (released %v)", msg, released)
	}
	return Result{Success: true, Garage: g, Apartment: a, Message: msg}
}
