package selector

import (
	"fmt"

	"github.com/llm-d/parking-lottery/pkg/core"
	"github.com/llm-d/parking-lottery/pkg/random"
)

// SimpleStrategy picks one free normal spot outside every reserved pair.
type SimpleStrategy struct {
	config *Config
}

func (s *SimpleStrategy) Select(garage *core.Garage, apartment core.Apartment) (*core.Selection, error) {
	candidates := garage.AvailableOptions(apartment.ID, core.CategorySimple).Spots
	if len(candidates) == 0 && s.config.AllowSurplusExtended {
		candidates = garage.SurplusExtendedSpots()
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	if s.config.BalanceByGroup {
		candidates = leastOccupiedGroup(garage, candidates)
	}
	spot, _ := random.Pick(s.config.Source, candidates)
	return &core.Selection{
		ApartmentID: apartment.ID,
		Category:    core.CategorySimple,
		SpotIDs:     []int{spot.ID},
	}, nil
}

// leastOccupiedGroup keeps the candidates of the floor/side group with the
// fewest occupants. Ties go to the first group in floor/side order.
func leastOccupiedGroup(garage *core.Garage, candidates []core.Spot) []core.Spot {
	byGroup := make(map[core.GroupKey][]core.Spot)
	for _, c := range candidates {
		byGroup[c.Group()] = append(byGroup[c.Group()], c)
	}
	occupancy := garage.GroupOccupancy()
	var best []core.Spot
	bestCount := -1
	for _, key := range garage.Groups() {
		group, ok := byGroup[key]
		if !ok {
			continue
		}
		if n := occupancy[key]; bestCount < 0 || n < bestCount {
			bestCount = n
			best = group
		}
	}
	return best
}

// DoubleStrategy returns the apartment's reserved pair, or a free unreserved
// natural pair when it holds no reservation.
type DoubleStrategy struct {
	config *Config
}

func (s *DoubleStrategy) Select(garage *core.Garage, apartment core.Apartment) (*core.Selection, error) {
	opts := garage.AvailableOptions(apartment.ID, core.CategoryDouble)
	if len(opts.Pairs) == 0 {
		return nil, nil
	}
	pair, _ := random.Pick(s.config.Source, opts.Pairs)
	if opts.Reserved {
		res, err := garage.ConsumeReservation(apartment.ID)
		if err != nil {
			return nil, err
		}
		if res.PairID != pair.ID {
			return nil, fmt.Errorf("apartment %q: consumed reservation %s does not match pair %s", apartment.ID, res.PairID, pair.ID)
		}
	}
	return &core.Selection{
		ApartmentID:     apartment.ID,
		Category:        core.CategoryDouble,
		SpotIDs:         pair.SpotIDs(),
		PairID:          pair.ID,
		FromReservation: opts.Reserved,
	}, nil
}

// ExtendedStrategy returns the apartment's reserved extended spot, or a free
// unreserved extended spot when it holds no reservation.
type ExtendedStrategy struct {
	config *Config
}

func (s *ExtendedStrategy) Select(garage *core.Garage, apartment core.Apartment) (*core.Selection, error) {
	opts := garage.AvailableOptions(apartment.ID, core.CategoryExtended)
	if len(opts.Spots) == 0 {
		return nil, nil
	}
	spot, _ := random.Pick(s.config.Source, opts.Spots)
	if opts.Reserved {
		res, err := garage.ConsumeReservation(apartment.ID)
		if err != nil {
			return nil, err
		}
		if res.SpotID != spot.ID {
			return nil, fmt.Errorf("apartment %q: consumed reservation %d does not match spot %d", apartment.ID, res.SpotID, spot.ID)
		}
	}
	return &core.Selection{
		ApartmentID:     apartment.ID,
		Category:        core.CategoryExtended,
		SpotIDs:         []int{spot.ID},
		FromReservation: opts.Reserved,
	}, nil
}
