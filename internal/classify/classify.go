// Package classify determines the lottery category of an apartment. The
// extended-authorization predicate is injected so the same rules work for any
// building.
package classify

import (
	"fmt"
	"sort"

	"github.com/llm-d/parking-lottery/pkg/core"
)

// Predicate reports whether an apartment id is authorized for extended spots.
type Predicate func(apartmentID string) bool

// Classifier maps apartments to categories.
type Classifier interface {
	DetermineType(apartment core.Apartment) core.Category
	ValidateRoster(apartments []core.Apartment) error
}

// Service classifies apartments with the priority extended > double > simple.
type Service struct {
	isExtended Predicate
}

// New creates a Service from an extended-authorization predicate. A nil
// predicate authorizes nobody.
func New(isExtended Predicate) *Service {
	if isExtended == nil {
		isExtended = func(string) bool { return false }
	}
	return &Service{isExtended: isExtended}
}

// NewFromIDs creates a Service authorizing exactly the given apartment ids.
func NewFromIDs(extendedIDs []string) *Service {
	set := make(map[string]struct{}, len(extendedIDs))
	for _, id := range extendedIDs {
		set[id] = struct{}{}
	}
	return New(func(id string) bool {
		_, ok := set[id]
		return ok
	})
}

// IsExtendedApartment reports whether id is authorized for extended spots.
func (s *Service) IsExtendedApartment(id string) bool {
	return s.isExtended(id)
}

// DetermineType returns the category of apartment.
func (s *Service) DetermineType(apartment core.Apartment) core.Category {
	if s.isExtended(apartment.ID) {
		return core.CategoryExtended
	}
	if apartment.Double {
		return core.CategoryDouble
	}
	return core.CategorySimple
}

// ValidateRoster rejects rosters with duplicate or empty ids and apartments
// that are flagged double while also authorized for extended spots.
func (s *Service) ValidateRoster(apartments []core.Apartment) error {
	seen := make(map[string]struct{}, len(apartments))
	for _, a := range apartments {
		if a.ID == "" {
			return fmt.Errorf("%w: apartment with empty id", core.ErrConfiguration)
		}
		if _, dup := seen[a.ID]; dup {
			return fmt.Errorf("%w: duplicate apartment id %q", core.ErrConfiguration, a.ID)
		}
		seen[a.ID] = struct{}{}
		if a.Double && s.isExtended(a.ID) {
			return fmt.Errorf("%w: apartment %q is both double and extended", core.ErrConfiguration, a.ID)
		}
	}
	return nil
}

// Breakdown groups apartment ids by category, each list sorted.
func (s *Service) Breakdown(apartments []core.Apartment) map[core.Category][]string {
	out := map[core.Category][]string{
		core.CategorySimple:   {},
		core.CategoryDouble:   {},
		core.CategoryExtended: {},
	}
	for _, a := range apartments {
		c := s.DetermineType(a)
		out[c] = append(out[c], a.ID)
	}
	for _, ids := range out {
		sort.Strings(ids)
	}
	return out
}
