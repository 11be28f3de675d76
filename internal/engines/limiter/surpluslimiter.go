package limiter

import (
	"context"
	"fmt"

	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/llm-d/parking-lottery/internal/logging"
)

const (
	// DefaultSurplusLimiterName is used when the config leaves Name empty
	DefaultSurplusLimiterName = "surplus"
)

// SurplusLimiter counts extended spots left over after extended reservations
// as simple capacity.
type SurplusLimiter struct {
	config *LimiterConfig
}

// NewSurplusLimiter creates a new SurplusLimiter instance.
func NewSurplusLimiter(config *LimiterConfig) (*SurplusLimiter, error) {
	if config == nil {
		return nil, fmt.Errorf("surplus limiter config cannot be nil")
	}
	if config.Name == "" {
		config.Name = DefaultSurplusLimiterName
	}
	return &SurplusLimiter{config: config}, nil
}

// Limit implements Limiter.
func (l *SurplusLimiter) Limit(ctx context.Context, demand Demand, inventory Inventory) (*Plan, error) {
	plan, err := reservePlan(demand, inventory)
	if err != nil {
		return nil, err
	}
	plan.SurplusExtended = inventory.ExtendedSpots - demand.Extended
	plan.SimpleCapacity = max(inventory.NormalSpots-2*demand.Double, 0) + plan.SurplusExtended
	plan.Unplaced = max(demand.Simple-plan.SimpleCapacity, 0)

	ctrl.LoggerFrom(ctx).V(logging.DEBUG).Info("Sized lottery session",
		"limiter", l.config.Name, "demand", demand.Total(),
		"simpleCapacity", plan.SimpleCapacity, "surplusExtended", plan.SurplusExtended, "unplaced", plan.Unplaced)
	return plan, nil
}
