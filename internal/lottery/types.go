package lottery

import (
	"github.com/llm-d/parking-lottery/internal/engines/limiter"
	"github.com/llm-d/parking-lottery/pkg/core"
)

// Step identifies a stage of a single draw.
type Step int

const (
	StepNone Step = iota
	StepSelectApartment
	StepClassify
	StepSelectSpot
	StepAssign
)

func (s Step) String() string {
	switch s {
	case StepSelectApartment:
		return "SelectApartment"
	case StepClassify:
		return "Classify"
	case StepSelectSpot:
		return "SelectSpot"
	case StepAssign:
		return "Assign"
	default:
		return "None"
	}
}

// Reason explains why a draw did not succeed.
type Reason string

const (
	// ReasonLotteryComplete means every active apartment is drawn.
	ReasonLotteryComplete Reason = "LotteryComplete"
	// ReasonNothingEligible means no apartment takes part at all.
	ReasonNothingEligible Reason = "NothingEligible"
	// ReasonSpotUnavailable means no candidate of the needed category is left.
	ReasonSpotUnavailable Reason = "SpotUnavailable"
	// ReasonValidationRejected means the selection went stale before commit.
	ReasonValidationRejected Reason = "ValidationRejected"
	// ReasonAssignmentFailed means a spot could not be occupied.
	ReasonAssignmentFailed Reason = "AssignmentFailed"
	// ReasonInternal covers unexpected errors and recovered panics.
	ReasonInternal Reason = "Internal"
)

// Terminal reports whether the reason ends a session without being a failure.
func (r Reason) Terminal() bool {
	return r == ReasonLotteryComplete || r == ReasonNothingEligible
}

// DrawResult is the record of one draw.
type DrawResult struct {
	Success bool
	// FailedStep is StepNone on success.
	FailedStep      Step
	Reason          Reason
	ApartmentID     string
	Category        core.Category
	AssignedSpotIDs []int
	PairID          core.PairID
	FromReservation bool
	Message         string
}

// Outcome carries a draw result and the snapshots to continue from. On
// failure Garage and Apartments are the inputs, unchanged.
type Outcome struct {
	Result     DrawResult
	Garage     *core.Garage
	Apartments []core.Apartment
}

// SessionSummary reports a full lottery session.
type SessionSummary struct {
	TotalDraws          int
	SuccessfulDraws     int
	FailedDraws         int
	AllApartmentsSorted bool
	// MaxDrawsReached is set when the draw limit stopped the session with
	// apartments still pending.
	MaxDrawsReached bool
	// Plan is the sizing made before pre-reservation.
	Plan *limiter.Plan
	// Reservations as they stood right after pre-reservation.
	Reservations core.ReservationsSnapshot
	Draws        []DrawResult
	FinalGarage  *core.Garage
	Apartments   []core.Apartment
}
