package lottery

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/llm-d/parking-lottery/internal/classify"
	"github.com/llm-d/parking-lottery/internal/metrics"
	"github.com/llm-d/parking-lottery/pkg/core"
	"github.com/llm-d/parking-lottery/pkg/random"
	"github.com/llm-d/parking-lottery/test/utils"
)

type panickingClassifier struct{}

func (panickingClassifier) DetermineType(core.Apartment) core.Category { panic("boom") }
func (panickingClassifier) ValidateRoster([]core.Apartment) error      { return nil }

type countingRecorder struct {
	draws        map[string]int
	reservations map[core.ReservationKind]int
	sessions     []string
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{draws: map[string]int{}, reservations: map[core.ReservationKind]int{}}
}

func (r *countingRecorder) RecordDraw(_ core.Category, outcome string) { r.draws[outcome]++ }
func (r *countingRecorder) RecordReservations(kind core.ReservationKind, count int) {
	r.reservations[kind] += count
}
func (r *countingRecorder) RecordSession(result string, _ int) { r.sessions = append(r.sessions, result) }

func newReferenceOrchestrator(seed int64, surplus bool, recorder metrics.Recorder) (*Orchestrator, []core.Apartment) {
	apartments, extended := utils.ReferenceRoster()
	o, err := NewOrchestrator(Config{
		Source:               random.New(seed),
		Classifier:           classify.NewFromIDs(extended),
		Recorder:             recorder,
		BalanceSimpleByGroup: true,
		AllowSurplusExtended: surplus,
	})
	Expect(err).NotTo(HaveOccurred())
	return o, apartments
}

var _ = Describe("Orchestrator", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("NewOrchestrator", func() {
		It("requires a classifier and a source", func() {
			_, err := NewOrchestrator(Config{Source: random.New(1)})
			Expect(err).To(HaveOccurred())
			_, err = NewOrchestrator(Config{Classifier: classify.New(nil)})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ExecuteSorting", func() {
		var o *Orchestrator

		BeforeEach(func() {
			var err error
			o, err = NewOrchestrator(Config{Source: random.New(utils.ReferenceSeed), Classifier: classify.NewFromIDs([]string{"apt-15"})})
			Expect(err).NotTo(HaveOccurred())
		})

		It("assigns a spot and returns new snapshots", func() {
			garage := utils.SmallGarage()
			apartments := []core.Apartment{core.NewApartment("apt-20", false, true)}

			out := o.ExecuteSorting(ctx, apartments, garage)
			Expect(out.Result.Success).To(BeTrue(), out.Result.Message)
			Expect(out.Result.FailedStep).To(Equal(StepNone))
			Expect(out.Result.ApartmentID).To(Equal("apt-20"))
			Expect(out.Result.Category).To(Equal(core.CategorySimple))
			Expect(out.Result.AssignedSpotIDs).To(HaveLen(1))
			Expect(out.Apartments[0].Drawn).To(BeTrue())
			Expect(out.Apartments[0].AssignedSpotIDs).To(Equal(out.Result.AssignedSpotIDs))
			Expect(out.Garage.SpotsOf("apt-20")).To(Equal(out.Result.AssignedSpotIDs))

			Expect(apartments[0].Drawn).To(BeFalse())
			Expect(garage.SpotsOf("apt-20")).To(BeEmpty())
		})

		It("reports a complete lottery at step 1", func() {
			a := core.NewApartment("apt-20", false, true)
			a.Drawn = true
			garage := utils.SmallGarage()
			out := o.ExecuteSorting(ctx, []core.Apartment{a}, garage)
			Expect(out.Result.Success).To(BeFalse())
			Expect(out.Result.FailedStep).To(Equal(StepSelectApartment))
			Expect(out.Result.Reason).To(Equal(ReasonLotteryComplete))
			Expect(out.Garage).To(BeIdenticalTo(garage))
		})

		It("reports nothing eligible when nobody takes part", func() {
			out := o.ExecuteSorting(ctx, []core.Apartment{core.NewApartment("apt-20", false, false)}, utils.SmallGarage())
			Expect(out.Result.FailedStep).To(Equal(StepSelectApartment))
			Expect(out.Result.Reason).To(Equal(ReasonNothingEligible))

			out = o.ExecuteSorting(ctx, nil, utils.SmallGarage())
			Expect(out.Result.Reason).To(Equal(ReasonNothingEligible))
		})

		It("fails at step 3 when no spot of the category is left", func() {
			garage := utils.SmallGarage()
			Expect(garage.OccupySpot(5, "apt-30")).To(BeTrue())
			out := o.ExecuteSorting(ctx, []core.Apartment{core.NewApartment("apt-15", false, true)}, garage)
			Expect(out.Result.Success).To(BeFalse())
			Expect(out.Result.FailedStep).To(Equal(StepSelectSpot))
			Expect(out.Result.Reason).To(Equal(ReasonSpotUnavailable))
			Expect(out.Result.Category).To(Equal(core.CategoryExtended))
		})

		It("keeps the reservation when the draw fails after consuming it", func() {
			garage := utils.SmallGarage()
			Expect(garage.PreReserveExtendedSpots([]string{"apt-15"}, random.New(1))).To(Succeed())
			// the reserved spot is taken behind the reservation's back
			Expect(garage.OccupySpot(5, "apt-30")).To(BeTrue())

			out := o.ExecuteSorting(ctx, []core.Apartment{core.NewApartment("apt-15", false, true)}, garage)
			Expect(out.Result.Reason).To(Equal(ReasonSpotUnavailable))
			_, ok := out.Garage.ExtendedReservation("apt-15")
			Expect(ok).To(BeTrue())
		})

		It("recovers from panics", func() {
			p, err := NewOrchestrator(Config{Source: random.New(1), Classifier: panickingClassifier{}})
			Expect(err).NotTo(HaveOccurred())
			garage := utils.SmallGarage()
			var out Outcome
			Expect(func() {
				out = p.ExecuteSorting(ctx, []core.Apartment{core.NewApartment("apt-20", false, true)}, garage)
			}).NotTo(Panic())
			Expect(out.Result.Success).To(BeFalse())
			Expect(out.Result.Reason).To(Equal(ReasonInternal))
			Expect(out.Result.ApartmentID).To(Equal("apt-20"))
			Expect(out.Garage).To(BeIdenticalTo(garage))
		})

		It("fails on a nil garage", func() {
			out := o.ExecuteSorting(ctx, []core.Apartment{core.NewApartment("apt-20", false, true)}, nil)
			Expect(out.Result.Reason).To(Equal(ReasonInternal))
		})
	})
})
