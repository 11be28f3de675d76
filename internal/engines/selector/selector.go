package selector

import (
	"fmt"

	"github.com/llm-d/parking-lottery/pkg/core"
	"github.com/llm-d/parking-lottery/pkg/random"
)

// Strategy produces a candidate spot or pair for an apartment of one category.
//
// A strategy may consume the apartment's personal reservation on garage, so
// callers pass a working snapshot they can discard if the draw is abandoned.
// A nil selection with a nil error means the candidate set is empty.
type Strategy interface {
	Select(garage *core.Garage, apartment core.Apartment) (*core.Selection, error)
}

// Config holds the settings shared by all strategies.
type Config struct {
	// Source drives every random pick. Required.
	Source random.Source
	// BalanceByGroup restricts simple picks to the floor/side group with the
	// fewest occupants among groups that still have candidates.
	BalanceByGroup bool
	// AllowSurplusExtended lets simple apartments take an unreserved extended
	// spot once no normal candidate is left.
	AllowSurplusExtended bool
}

// NewStrategy is a factory that creates the Strategy for category.
func NewStrategy(category core.Category, config *Config) (Strategy, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if config.Source == nil {
		return nil, fmt.Errorf("random source cannot be nil")
	}
	switch category {
	case core.CategorySimple:
		return &SimpleStrategy{config: config}, nil
	case core.CategoryDouble:
		return &DoubleStrategy{config: config}, nil
	case core.CategoryExtended:
		return &ExtendedStrategy{config: config}, nil
	default:
		return nil, fmt.Errorf("unsupported apartment category: %q", category)
	}
}

// Service dispatches spot selection to the strategy of each category.
type Service struct {
	strategies map[core.Category]Strategy
}

// NewService creates a Service with one strategy per category.
func NewService(config *Config) (*Service, error) {
	s := &Service{strategies: make(map[core.Category]Strategy, 3)}
	for _, c := range []core.Category{core.CategorySimple, core.CategoryDouble, core.CategoryExtended} {
		strategy, err := NewStrategy(c, config)
		if err != nil {
			return nil, err
		}
		s.strategies[c] = strategy
	}
	return s, nil
}

// SelectSpot returns a candidate for apartment, already classified as category.
func (s *Service) SelectSpot(garage *core.Garage, apartment core.Apartment, category core.Category) (*core.Selection, error) {
	if garage == nil {
		return nil, fmt.Errorf("garage cannot be nil")
	}
	strategy, ok := s.strategies[category]
	if !ok {
		return nil, fmt.Errorf("no strategy for category %q", category)
	}
	return strategy.Select(garage, apartment)
}
