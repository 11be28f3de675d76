package lottery

import (
	"context"
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/llm-d/parking-lottery/internal/classify"
	"github.com/llm-d/parking-lottery/pkg/core"
	"github.com/llm-d/parking-lottery/pkg/random"
	"github.com/llm-d/parking-lottery/test/utils"
)

type drawKey struct {
	apartmentID string
	spots       string
}

func sequenceOf(summary *SessionSummary) []drawKey {
	out := make([]drawKey, 0, len(summary.Draws))
	for _, d := range summary.Draws {
		out = append(out, drawKey{apartmentID: d.ApartmentID, spots: fmt.Sprint(d.AssignedSpotIDs)})
	}
	return out
}

var _ = Describe("ExecuteMultipleSortings", func() {
	var (
		ctx      context.Context
		recorder *countingRecorder
	)

	BeforeEach(func() {
		ctx = context.Background()
		recorder = newCountingRecorder()
	})

	Context("reference building", func() {
		It("assigns all 42 spots without duplicates", func() {
			o, apartments := newReferenceOrchestrator(utils.ReferenceSeed, true, recorder)
			garage := utils.ReferenceGarage()

			summary, err := o.ExecuteMultipleSortings(ctx, apartments, garage, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.AllApartmentsSorted).To(BeTrue())
			Expect(summary.MaxDrawsReached).To(BeFalse())
			Expect(summary.TotalDraws).To(Equal(28))
			Expect(summary.SuccessfulDraws).To(Equal(28))
			Expect(summary.FailedDraws).To(BeZero())
			Expect(summary.Plan.Complete()).To(BeTrue())
			Expect(summary.Reservations.Double).To(HaveLen(utils.ReferenceDoubles))
			Expect(summary.Reservations.Extended).To(HaveLen(utils.ReferenceExtended))

			seen := map[int]string{}
			spotsByCategory := map[core.Category]int{}
			_, extendedIDs := utils.ReferenceRoster()
			classifier := classify.NewFromIDs(extendedIDs)
			surplus := 0
			for _, a := range summary.Apartments {
				Expect(a.Drawn).To(BeTrue())
				for _, id := range a.AssignedSpotIDs {
					Expect(seen).NotTo(HaveKey(id), "spot %d assigned twice", id)
					seen[id] = a.ID
				}
				category := classifier.DetermineType(a)
				spotsByCategory[category] += len(a.AssignedSpotIDs)

				switch category {
				case core.CategoryDouble:
					Expect(a.AssignedSpotIDs).To(HaveLen(2))
					pair, ok := summary.FinalGarage.FindPair(core.NewPairID(a.AssignedSpotIDs[0], a.AssignedSpotIDs[1]))
					Expect(ok).To(BeTrue(), "%v is not a natural pair", a.AssignedSpotIDs)
					for _, id := range pair.SpotIDs() {
						Expect(summary.FinalGarage.IsExtendedSpot(id)).To(BeFalse())
					}
				case core.CategoryExtended:
					Expect(a.AssignedSpotIDs).To(HaveLen(1))
					Expect(summary.FinalGarage.IsExtendedSpot(a.AssignedSpotIDs[0])).To(BeTrue())
				default:
					Expect(a.AssignedSpotIDs).To(HaveLen(1))
					if summary.FinalGarage.IsExtendedSpot(a.AssignedSpotIDs[0]) {
						surplus++
					}
				}
			}
			Expect(seen).To(HaveLen(42))
			Expect(spotsByCategory).To(Equal(map[core.Category]int{
				core.CategoryDouble:   2 * utils.ReferenceDoubles,
				core.CategoryExtended: utils.ReferenceExtended,
				core.CategorySimple:   utils.ReferenceSimples,
			}))
			Expect(surplus).To(Equal(1))
			Expect(summary.FinalGarage.FreeSpots()).To(BeEmpty())

			// the caller's garage is untouched
			Expect(garage.FreeSpots()).To(HaveLen(42))
			Expect(garage.ReservationsSnapshot().Double).To(BeEmpty())

			Expect(recorder.draws["success"]).To(Equal(28))
			Expect(recorder.reservations[core.ReservationPair]).To(Equal(14))
			Expect(recorder.reservations[core.ReservationSpot]).To(Equal(5))
			Expect(recorder.sessions).To(Equal([]string{"complete"}))
		})

		It("replays identically for the same seed", func() {
			o1, apartments := newReferenceOrchestrator(42, true, nil)
			first, err := o1.ExecuteMultipleSortings(ctx, apartments, utils.ReferenceGarage(), 0)
			Expect(err).NotTo(HaveOccurred())

			o2, apartments := newReferenceOrchestrator(42, true, nil)
			second, err := o2.ExecuteMultipleSortings(ctx, apartments, utils.ReferenceGarage(), 0)
			Expect(err).NotTo(HaveOccurred())

			Expect(sequenceOf(second)).To(Equal(sequenceOf(first)))
			Expect(second.Reservations).To(Equal(first.Reservations))

			o3, apartments := newReferenceOrchestrator(43, true, nil)
			third, err := o3.ExecuteMultipleSortings(ctx, apartments, utils.ReferenceGarage(), 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(sequenceOf(third)).NotTo(Equal(sequenceOf(first)))
		})

		It("never leaves a double apartment without a pair", func() {
			for seed := int64(1); seed <= 25; seed++ {
				o, apartments := newReferenceOrchestrator(seed, true, nil)
				summary, err := o.ExecuteMultipleSortings(ctx, apartments, utils.ReferenceGarage(), 0)
				Expect(err).NotTo(HaveOccurred())
				for _, d := range summary.Draws {
					if d.Category == core.CategoryDouble {
						Expect(d.Success).To(BeTrue(), "seed %d", seed)
						Expect(d.AssignedSpotIDs).To(HaveLen(2), "seed %d", seed)
						Expect(d.FromReservation).To(BeTrue(), "seed %d", seed)
					}
				}
				Expect(summary.AllApartmentsSorted).To(BeTrue(), "seed %d", seed)
			}
		})

		It("stops at the first failed draw when extended spots cannot absorb simple apartments", func() {
			o, apartments := newReferenceOrchestrator(utils.ReferenceSeed, false, recorder)
			summary, err := o.ExecuteMultipleSortings(ctx, apartments, utils.ReferenceGarage(), 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.Plan.Unplaced).To(Equal(1))
			Expect(summary.FailedDraws).To(Equal(1))
			Expect(summary.AllApartmentsSorted).To(BeFalse())
			Expect(summary.MaxDrawsReached).To(BeFalse())

			last := summary.Draws[len(summary.Draws)-1]
			Expect(last.FailedStep).To(Equal(StepSelectSpot))
			Expect(last.Reason).To(Equal(ReasonSpotUnavailable))
			Expect(last.Category).To(Equal(core.CategorySimple))
			Expect(recorder.sessions).To(Equal([]string{"incomplete"}))
		})

		It("honors the draw limit", func() {
			o, apartments := newReferenceOrchestrator(utils.ReferenceSeed, true, nil)
			summary, err := o.ExecuteMultipleSortings(ctx, apartments, utils.ReferenceGarage(), 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.TotalDraws).To(Equal(5))
			Expect(summary.SuccessfulDraws).To(Equal(5))
			Expect(summary.MaxDrawsReached).To(BeTrue())
			Expect(summary.AllApartmentsSorted).To(BeFalse())

			// the session can be resumed from its snapshots
			rest, err := o.ExecuteMultipleSortings(ctx, summary.Apartments, summary.FinalGarage, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(rest.SuccessfulDraws).To(Equal(23))
			Expect(rest.AllApartmentsSorted).To(BeTrue())
		})
	})

	Context("configuration errors", func() {
		It("rejects an apartment that is both double and extended", func() {
			apartments, extended := utils.ReferenceRoster()
			extended = append(extended, apartments[0].ID)
			o, err := NewOrchestrator(Config{Source: random.New(1), Classifier: classify.NewFromIDs(extended), Recorder: recorder})
			Expect(err).NotTo(HaveOccurred())

			summary, err := o.ExecuteMultipleSortings(ctx, apartments, utils.ReferenceGarage(), 0)
			Expect(summary).To(BeNil())
			Expect(errors.Is(err, core.ErrConfiguration)).To(BeTrue())
			Expect(recorder.sessions).To(Equal([]string{"aborted"}))
		})

		It("rejects more double apartments than natural pairs", func() {
			apartments := make([]core.Apartment, 0, 19)
			for i := 1; i <= 19; i++ {
				apartments = append(apartments, core.NewApartment(utils.ApartmentID(i), true, true))
			}
			o, err := NewOrchestrator(Config{Source: random.New(1), Classifier: classify.New(nil)})
			Expect(err).NotTo(HaveOccurred())

			garage := utils.ReferenceGarage()
			_, err = o.ExecuteMultipleSortings(ctx, apartments, garage, 0)
			Expect(errors.Is(err, core.ErrConfiguration)).To(BeTrue())
			Expect(garage.ReservationsSnapshot().Double).To(BeEmpty())
		})

		It("rejects more extended apartments than extended spots", func() {
			apartments := make([]core.Apartment, 0, 7)
			ids := make([]string, 0, 7)
			for i := 1; i <= 7; i++ {
				apartments = append(apartments, core.NewApartment(utils.ApartmentID(i), false, true))
				ids = append(ids, utils.ApartmentID(i))
			}
			o, err := NewOrchestrator(Config{Source: random.New(1), Classifier: classify.NewFromIDs(ids)})
			Expect(err).NotTo(HaveOccurred())

			_, err = o.ExecuteMultipleSortings(ctx, apartments, utils.ReferenceGarage(), 0)
			Expect(errors.Is(err, core.ErrConfiguration)).To(BeTrue())
		})

		It("rejects a nil garage", func() {
			o, apartments := newReferenceOrchestrator(1, true, nil)
			_, err := o.ExecuteMultipleSortings(ctx, apartments, nil, 0)
			Expect(err).To(HaveOccurred())
		})
	})
})
