package limiter

import (
	"context"
	"fmt"
)

// Limiter sizes the demand of a session against the free inventory of the
// garage before any reservation is made.
type Limiter interface {
	// Limit returns the plan for the given demand. It fails with
	// core.ErrConfiguration when double or extended apartments cannot all be
	// reserved for.
	Limit(ctx context.Context, demand Demand, inventory Inventory) (*Plan, error)
}

// LimiterStrategy is an enumeration of the ways simple apartments may be placed
type LimiterStrategy int

// enumeration of LimiterStrategy
const (
	// StrictStrategy keeps simple apartments on normal spots only.
	StrictStrategy LimiterStrategy = iota
	// SurplusStrategy lets simple apartments spill onto extended spots
	// nobody holds a reservation for.
	SurplusStrategy
)

// NewLimiter is a factory that creates a new Limiter based on the provided strategy
func NewLimiter(strategy LimiterStrategy) (Limiter, error) {
	switch strategy {
	case StrictStrategy:
		return NewStrictLimiter(&LimiterConfig{})
	case SurplusStrategy:
		return NewSurplusLimiter(&LimiterConfig{})
	default:
		return nil, fmt.Errorf("unsupported limiter strategy: %v", strategy)
	}
}

// LimiterConfig is shared by every strategy.
type LimiterConfig struct {
	// Name shows up in logs.
	Name string
}

// Demand counts pending apartments per category.
type Demand struct {
	Double   int
	Extended int
	Simple   int
}

// Total number of pending apartments.
func (d Demand) Total() int {
	return d.Double + d.Extended + d.Simple
}

// Inventory counts what is free and unreserved in a garage.
type Inventory struct {
	// Pairs are free natural pairs with no forbidden member.
	Pairs int
	// ExtendedSpots are free extended spots without a reservation.
	ExtendedSpots int
	// NormalSpots are free normal spots outside reserved pairs. Members of
	// free pairs are included.
	NormalSpots int
}

// Plan is the outcome of sizing a session.
type Plan struct {
	Demand    Demand
	Inventory Inventory
	// SimpleCapacity is the number of spots simple apartments can still be
	// placed on once every pair and extended spot in demand is reserved.
	SimpleCapacity int
	// SurplusExtended is the share of SimpleCapacity made of extended spots.
	SurplusExtended int
	// Unplaced simple apartments will end the session with a failed draw.
	Unplaced int
}

// Complete reports whether every pending apartment fits.
func (p *Plan) Complete() bool {
	return p.Unplaced == 0
}
