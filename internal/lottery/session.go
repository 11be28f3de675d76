package lottery

import (
	"context"
	"fmt"
	"slices"

	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/llm-d/parking-lottery/internal/engines/limiter"
	"github.com/llm-d/parking-lottery/internal/engines/selection"
	"github.com/llm-d/parking-lottery/internal/logging"
	"github.com/llm-d/parking-lottery/internal/metrics"
	"github.com/llm-d/parking-lottery/pkg/core"
)

// ExecuteMultipleSortings runs a whole session on a copy of garage. It sizes
// demand against the free inventory, pre-reserves a pair for every pending
// double apartment (never touching extended spots) and an extended spot for
// every pending extended apartment, then draws until every apartment is
// sorted, a draw fails or maxDraws is reached. maxDraws <= 0 means one draw
// per apartment in the roster.
//
// Configuration problems (roster overlap, too few pairs or extended spots)
// are returned as errors wrapping core.ErrConfiguration; nothing is drawn
// then. Draw failures are reported in the summary.
func (o *Orchestrator) ExecuteMultipleSortings(ctx context.Context, apartments []core.Apartment, garage *core.Garage, maxDraws int) (*SessionSummary, error) {
	logger := ctrl.LoggerFrom(ctx)
	if garage == nil {
		return nil, fmt.Errorf("garage cannot be nil")
	}
	abort := func(err error) (*SessionSummary, error) {
		o.config.Recorder.RecordSession(metrics.SessionAborted, len(garage.FreeSpots()))
		logger.Error(err, "Lottery session aborted")
		return nil, err
	}
	if err := o.config.Classifier.ValidateRoster(apartments); err != nil {
		return abort(err)
	}

	working := garage.Clone()
	plan, err := o.sizeSession(ctx, apartments, working)
	if err != nil {
		return abort(err)
	}
	doubles, extended := o.pendingReservations(apartments, working)
	if err := working.PreReserveDoublePairs(doubles, working.ExtendedSpotIDs(), o.config.Source); err != nil {
		return abort(fmt.Errorf("double pre-reservation failed: %w", err))
	}
	if err := working.PreReserveExtendedSpots(extended, o.config.Source); err != nil {
		return abort(fmt.Errorf("extended pre-reservation failed: %w", err))
	}
	o.config.Recorder.RecordReservations(core.ReservationPair, len(doubles))
	o.config.Recorder.RecordReservations(core.ReservationSpot, len(extended))
	logger.Info("Pre-reservation completed", "pairs", len(doubles), "extendedSpots", len(extended))

	if maxDraws <= 0 {
		maxDraws = len(apartments)
	}
	summary := &SessionSummary{
		Plan:         plan,
		Reservations: working.ReservationsSnapshot(),
		Draws:        []DrawResult{},
	}
	current := slices.Clone(apartments)
	for summary.TotalDraws < maxDraws {
		out := o.ExecuteSorting(ctx, current, working)
		if out.Result.Reason.Terminal() {
			logger.V(logging.DEBUG).Info("No apartment left to draw", "reason", out.Result.Reason)
			break
		}
		summary.TotalDraws++
		summary.Draws = append(summary.Draws, out.Result)
		working, current = out.Garage, out.Apartments
		if !out.Result.Success {
			summary.FailedDraws++
			break
		}
		summary.SuccessfulDraws++
	}

	active, drawn := selection.Progress(current)
	summary.AllApartmentsSorted = active == drawn
	summary.MaxDrawsReached = summary.TotalDraws >= maxDraws && summary.FailedDraws == 0 && !summary.AllApartmentsSorted
	summary.FinalGarage = working
	summary.Apartments = current

	result := metrics.SessionIncomplete
	if summary.AllApartmentsSorted {
		result = metrics.SessionComplete
	}
	free := len(working.FreeSpots())
	o.config.Recorder.RecordSession(result, free)
	if summary.MaxDrawsReached {
		logger.Info("Draw limit reached before every apartment was sorted", "maxDraws", maxDraws, "pending", active-drawn)
	}
	logger.Info("Lottery session finished", "draws", summary.TotalDraws, "successful", summary.SuccessfulDraws,
		"failed", summary.FailedDraws, "allSorted", summary.AllApartmentsSorted, "freeSpots", free)
	return summary, nil
}

// sizeSession checks that every pending double and extended apartment can be
// reserved for, and warns when simple apartments will not all fit.
func (o *Orchestrator) sizeSession(ctx context.Context, apartments []core.Apartment, garage *core.Garage) (*limiter.Plan, error) {
	demand := limiter.CountDemand(apartments, garage, o.config.Classifier.DetermineType)
	inventory := limiter.GetAvailableInventory(garage, garage.ExtendedSpotIDs())
	plan, err := o.limiter.Limit(ctx, demand, inventory)
	if err != nil {
		return nil, err
	}
	if !plan.Complete() {
		ctrl.LoggerFrom(ctx).Info("Not every simple apartment can be placed",
			"simple", demand.Simple, "capacity", plan.SimpleCapacity, "unplaced", plan.Unplaced)
	}
	return plan, nil
}

// pendingReservations lists, in roster order, the pending double and extended
// apartments that hold no reservation yet.
func (o *Orchestrator) pendingReservations(apartments []core.Apartment, garage *core.Garage) (doubles, extended []string) {
	for _, a := range selection.Eligible(apartments) {
		switch o.config.Classifier.DetermineType(a) {
		case core.CategoryDouble:
			if _, ok := garage.DoubleReservation(a.ID); !ok {
				doubles = append(doubles, a.ID)
			}
		case core.CategoryExtended:
			if _, ok := garage.ExtendedReservation(a.ID); !ok {
				extended = append(extended, a.ID)
			}
		}
	}
	return doubles, extended
}
