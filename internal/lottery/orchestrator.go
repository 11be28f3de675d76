// Package lottery runs draws: pick an apartment, classify it, select a spot
// and commit the assignment. Every draw works on a snapshot and hands back a
// new one, so a failed draw leaves the caller's state untouched.
package lottery

import (
	"context"
	"fmt"
	"slices"

	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/llm-d/parking-lottery/internal/classify"
	"github.com/llm-d/parking-lottery/internal/engines/assignment"
	"github.com/llm-d/parking-lottery/internal/engines/limiter"
	"github.com/llm-d/parking-lottery/internal/engines/selection"
	"github.com/llm-d/parking-lottery/internal/engines/selector"
	"github.com/llm-d/parking-lottery/internal/engines/validation"
	"github.com/llm-d/parking-lottery/internal/logging"
	"github.com/llm-d/parking-lottery/internal/metrics"
	"github.com/llm-d/parking-lottery/pkg/core"
	"github.com/llm-d/parking-lottery/pkg/random"
)

// Config wires an Orchestrator.
type Config struct {
	// Source is the single random source of the session. Required.
	Source random.Source
	// Classifier is required.
	Classifier classify.Classifier
	// Recorder defaults to metrics.NoopRecorder.
	Recorder metrics.Recorder
	// BalanceSimpleByGroup spreads simple apartments over floor/side groups.
	BalanceSimpleByGroup bool
	// AllowSurplusExtended lets simple apartments take extended spots no
	// extended apartment needs once normal spots run out.
	AllowSurplusExtended bool
}

// Orchestrator drives draws for one session. It is not safe for concurrent
// use; distinct sessions need distinct orchestrators.
type Orchestrator struct {
	config     Config
	apartments selection.ApartmentSelector
	spots      *selector.Service
	validator  validation.Validator
	assigner   assignment.Assigner
	limiter    limiter.Limiter
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(config Config) (*Orchestrator, error) {
	if config.Classifier == nil {
		return nil, fmt.Errorf("classifier cannot be nil")
	}
	if config.Recorder == nil {
		config.Recorder = metrics.NoopRecorder{}
	}
	apartments, err := selection.NewService(config.Source)
	if err != nil {
		return nil, err
	}
	spots, err := selector.NewService(&selector.Config{
		Source:               config.Source,
		BalanceByGroup:       config.BalanceSimpleByGroup,
		AllowSurplusExtended: config.AllowSurplusExtended,
	})
	if err != nil {
		return nil, err
	}
	strategy := limiter.StrictStrategy
	if config.AllowSurplusExtended {
		strategy = limiter.SurplusStrategy
	}
	lim, err := limiter.NewLimiter(strategy)
	if err != nil {
		return nil, err
	}
	return &Orchestrator{
		config:     config,
		apartments: apartments,
		spots:      spots,
		validator:  validation.NewService(validation.Config{AllowSurplusExtended: config.AllowSurplusExtended}),
		assigner:   assignment.NewService(),
		limiter:    lim,
	}, nil
}

// ExecuteSorting performs one draw. It never panics; unexpected failures come
// back as a ReasonInternal result.
func (o *Orchestrator) ExecuteSorting(ctx context.Context, apartments []core.Apartment, garage *core.Garage) (out Outcome) {
	logger := ctrl.LoggerFrom(ctx)
	unchanged := func(result DrawResult) Outcome {
		return Outcome{Result: result, Garage: garage, Apartments: apartments}
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Error(fmt.Errorf("%v", r), "Draw panicked")
			out = unchanged(DrawResult{
				FailedStep:  out.Result.FailedStep,
				Reason:      ReasonInternal,
				ApartmentID: out.Result.ApartmentID,
				Message:     fmt.Sprintf("unexpected error: %v", r),
			})
		}
	}()
	if garage == nil {
		return unchanged(DrawResult{Reason: ReasonInternal, Message: "no garage"})
	}

	// Step 1: apartment
	apartment, ok := o.apartments.SelectRandomApartment(apartments)
	if !ok {
		active, drawn := selection.Progress(apartments)
		if active > 0 && active == drawn {
			return unchanged(DrawResult{
				FailedStep: StepSelectApartment,
				Reason:     ReasonLotteryComplete,
				Message:    fmt.Sprintf("all %d active apartments are drawn", active),
			})
		}
		return unchanged(DrawResult{
			FailedStep: StepSelectApartment,
			Reason:     ReasonNothingEligible,
			Message:    "no active apartment takes part in the lottery",
		})
	}
	out.Result.FailedStep = StepClassify
	out.Result.ApartmentID = apartment.ID

	// Step 2: category
	category := o.config.Classifier.DetermineType(apartment)
	logger.V(logging.TRACE).Info("Apartment drawn", "apartment", apartment.ID, "category", category)
	fail := func(step Step, reason Reason, format string, args ...any) Outcome {
		o.config.Recorder.RecordDraw(category, string(reason))
		result := DrawResult{
			FailedStep:  step,
			Reason:      reason,
			ApartmentID: apartment.ID,
			Category:    category,
			Message:     fmt.Sprintf(format, args...),
		}
		logger.Info("Draw failed", "apartment", apartment.ID, "step", step.String(), "reason", reason, "message", result.Message)
		return unchanged(result)
	}

	// Step 3: spot, on a working copy since reservations may be consumed
	out.Result.FailedStep = StepSelectSpot
	working := garage.Clone()
	sel, err := o.spots.SelectSpot(working, apartment, category)
	if err != nil {
		return fail(StepSelectSpot, ReasonInternal, "spot selection for %s failed: %v", apartment.ID, err)
	}
	if sel == nil {
		return fail(StepSelectSpot, ReasonSpotUnavailable, "no %s spot left for apartment %s", category, apartment.ID)
	}

	// Step 4: validate and commit
	out.Result.FailedStep = StepAssign
	if v := o.validator.ValidateAssignment(apartment, sel, working); !v.Valid {
		return fail(StepAssign, ReasonValidationRejected, "selection for %s rejected: %s", apartment.ID, v.Reason)
	}
	res := o.assigner.AssignSpot(apartment, sel, working)
	if !res.Success {
		return fail(StepAssign, ReasonAssignmentFailed, "%s", res.Message)
	}
	drawn := res.Apartment
	selection.MarkAsDrawn(&drawn)

	next := slices.Clone(apartments)
	if i := slices.IndexFunc(next, func(a core.Apartment) bool { return a.ID == drawn.ID }); i >= 0 {
		next[i] = drawn
	}

	o.config.Recorder.RecordDraw(category, metrics.OutcomeSuccess)
	logger.V(logging.DEBUG).Info("Draw succeeded", "apartment", drawn.ID, "category", category,
		"spots", sel.SpotIDs, "fromReservation", sel.FromReservation)
	return Outcome{
		Result: DrawResult{
			Success:         true,
			ApartmentID:     drawn.ID,
			Category:        category,
			AssignedSpotIDs: slices.Clone(sel.SpotIDs),
			PairID:          sel.PairID,
			FromReservation: sel.FromReservation,
			Message:         res.Message,
		},
		Garage:     res.Garage,
		Apartments: next,
	}
}
