package limiter

import (
	"context"
	"fmt"

	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/llm-d/parking-lottery/internal/logging"
	"github.com/llm-d/parking-lottery/pkg/core"
)

const (
	// DefaultStrictLimiterName is used when the config leaves Name empty
	DefaultStrictLimiterName = "strict"
)

// StrictLimiter places simple apartments on normal spots only.
type StrictLimiter struct {
	config *LimiterConfig
}

// NewStrictLimiter creates a new StrictLimiter instance.
func NewStrictLimiter(config *LimiterConfig) (*StrictLimiter, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if config.Name == "" {
		config.Name = DefaultStrictLimiterName
	}
	return &StrictLimiter{
		config: config,
	}, nil
}

// Limit implements Limiter.
func (l *StrictLimiter) Limit(ctx context.Context, demand Demand, inventory Inventory) (*Plan, error) {
	plan, err := reservePlan(demand, inventory)
	if err != nil {
		return nil, err
	}
	plan.SimpleCapacity = max(inventory.NormalSpots-2*demand.Double, 0)
	plan.Unplaced = max(demand.Simple-plan.SimpleCapacity, 0)

	ctrl.LoggerFrom(ctx).V(logging.DEBUG).Info("Sized lottery session",
		"limiter", l.config.Name, "demand", demand.Total(),
		"simpleCapacity", plan.SimpleCapacity, "unplaced", plan.Unplaced)
	return plan, nil
}

// reservePlan checks the reservation-backed categories, which must always fit.
func reservePlan(demand Demand, inventory Inventory) (*Plan, error) {
	if demand.Double > inventory.Pairs {
		return nil, fmt.Errorf("%w: %d double apartments need a pair but only %d forbidden-free natural pairs are available",
			core.ErrConfiguration, demand.Double, inventory.Pairs)
	}
	if demand.Extended > inventory.ExtendedSpots {
		return nil, fmt.Errorf("%w: %d extended apartments need a spot but only %d extended spots are available",
			core.ErrConfiguration, demand.Extended, inventory.ExtendedSpots)
	}
	return &Plan{Demand: demand, Inventory: inventory}, nil
}
