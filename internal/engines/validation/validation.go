// Package validation re-checks a selection against the garage right before it
// is committed. It guards against state that changed between selection and
// assignment; it does not repeat the strategies' candidate search.
package validation

import (
	"fmt"

	"github.com/llm-d/parking-lottery/pkg/core"
)

// Result is the outcome of a validation. Reason is empty when Valid.
type Result struct {
	Valid  bool
	Reason string
}

// Validator checks a selection before commit.
type Validator interface {
	ValidateAssignment(apartment core.Apartment, selection *core.Selection, garage *core.Garage) Result
}

// Config holds validation settings.
type Config struct {
	// AllowSurplusExtended accepts a simple selection on an unreserved
	// extended spot when no normal candidate is left.
	AllowSurplusExtended bool
}

// Service is the default Validator.
type Service struct {
	config Config
}

// NewService creates a Service.
func NewService(config Config) *Service {
	return &Service{config: config}
}

func valid() Result {
	return Result{Valid: true}
}

func reject(format string, args ...any) Result {
	return Result{Valid: false, Reason: fmt.Sprintf(format, args...)}
}

// ValidateAssignment implements Validator.
func (s *Service) ValidateAssignment(apartment core.Apartment, selection *core.Selection, garage *core.Garage) Result {
	switch {
	case garage == nil:
		return reject("no garage to validate against")
	case selection == nil:
		return reject("no selection")
	case selection.ApartmentID != apartment.ID:
		return reject("selection belongs to apartment %q, not %q", selection.ApartmentID, apartment.ID)
	}

	spots := make([]core.Spot, 0, len(selection.SpotIDs))
	for _, id := range selection.SpotIDs {
		spot, ok := garage.FindSpot(id)
		if !ok {
			return reject("spot %d does not exist", id)
		}
		if !spot.IsFree() {
			if spot.Blocked {
				return reject("spot %d is blocked", id)
			}
			return reject("spot %d is already occupied by %q", id, spot.OccupantID)
		}
		spots = append(spots, spot)
	}

	switch selection.Category {
	case core.CategoryDouble:
		return s.validateDouble(apartment, selection, spots, garage)
	case core.CategoryExtended:
		return s.validateExtended(apartment, spots, garage)
	case core.CategorySimple:
		return s.validateSimple(apartment, spots, garage)
	default:
		return reject("unknown category %q", selection.Category)
	}
}

func (s *Service) validateDouble(apartment core.Apartment, selection *core.Selection, spots []core.Spot, garage *core.Garage) Result {
	if len(spots) != 2 {
		return reject("double selection needs 2 spots, got %d", len(spots))
	}
	pair, ok := garage.FindPair(selection.PairID)
	if !ok {
		return reject("pair %s is not a natural pair", selection.PairID)
	}
	if !pair.Contains(spots[0].ID) || !pair.Contains(spots[1].ID) || spots[0].ID == spots[1].ID {
		return reject("spots %v do not form pair %s", selection.SpotIDs, pair.ID)
	}
	for _, spot := range spots {
		if spot.IsExtended() {
			return reject("pair %s contains extended spot %d", pair.ID, spot.ID)
		}
	}
	if pair.ReservedFor != "" && pair.ReservedFor != apartment.ID {
		return reject("pair %s is reserved for apartment %q", pair.ID, pair.ReservedFor)
	}
	return valid()
}

func (s *Service) validateExtended(apartment core.Apartment, spots []core.Spot, garage *core.Garage) Result {
	if len(spots) != 1 {
		return reject("extended selection needs 1 spot, got %d", len(spots))
	}
	spot := spots[0]
	if !spot.IsExtended() {
		return reject("spot %d is not an extended spot", spot.ID)
	}
	if holder, ok := garage.ExtendedReservationHolder(spot.ID); ok && holder != apartment.ID {
		return reject("spot %d is reserved for apartment %q", spot.ID, holder)
	}
	return valid()
}

func (s *Service) validateSimple(apartment core.Apartment, spots []core.Spot, garage *core.Garage) Result {
	if len(spots) != 1 {
		return reject("simple selection needs 1 spot, got %d", len(spots))
	}
	spot := spots[0]
	if garage.IsProtected(spot.ID) {
		pair, _ := garage.PairOf(spot.ID)
		return reject("spot %d belongs to pair %s reserved for apartment %q", spot.ID, pair.ID, pair.ReservedFor)
	}
	if !spot.IsExtended() {
		return valid()
	}
	if !s.config.AllowSurplusExtended {
		return reject("spot %d is an extended spot", spot.ID)
	}
	if holder, ok := garage.ExtendedReservationHolder(spot.ID); ok {
		return reject("spot %d is reserved for apartment %q", spot.ID, holder)
	}
	if normal := garage.AvailableOptions(apartment.ID, core.CategorySimple).Spots; len(normal) > 0 {
		return reject("extended spot %d selected while %d normal spots are free", spot.ID, len(normal))
	}
	return valid()
}
