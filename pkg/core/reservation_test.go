package core_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/llm-d/parking-lottery/pkg/core"
	"github.com/llm-d/parking-lottery/pkg/random"
	"github.com/llm-d/parking-lottery/test/utils"
)

func apartmentIDs(from, n int) []string {
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, utils.ApartmentID(from+i))
	}
	return ids
}

var _ = Describe("Reservations", func() {
	var (
		garage *core.Garage
		src    random.Source
	)

	BeforeEach(func() {
		garage = utils.ReferenceGarage()
		src = utils.ReferenceSource()
	})

	Context("PreReserveDoublePairs", func() {
		It("should claim one disjoint natural pair per apartment", func() {
			ids := apartmentIDs(1, utils.ReferenceDoubles)
			Expect(garage.PreReserveDoublePairs(ids, garage.ExtendedSpotIDs(), src)).To(Succeed())

			snapshot := garage.ReservationsSnapshot()
			Expect(snapshot.Double).To(HaveLen(utils.ReferenceDoubles))

			seenSpots := map[int]bool{}
			for _, id := range ids {
				pairID, ok := garage.DoubleReservation(id)
				Expect(ok).To(BeTrue())
				p, ok := garage.FindPair(pairID)
				Expect(ok).To(BeTrue())
				Expect(p.ReservedFor).To(Equal(id))
				for _, sid := range p.SpotIDs() {
					Expect(seenSpots[sid]).To(BeFalse(), "spot %d reserved twice", sid)
					seenSpots[sid] = true
				}
			}
		})

		It("should spread claims across floor/side groups", func() {
			ids := apartmentIDs(1, utils.ReferenceDoubles)
			Expect(garage.PreReserveDoublePairs(ids, nil, src)).To(Succeed())

			perGroup := map[core.GroupKey]int{}
			for _, p := range garage.Pairs() {
				if p.ReservedFor == "" {
					continue
				}
				s, _ := garage.FindSpot(p.SpotA)
				perGroup[s.Group()]++
			}
			Expect(perGroup).To(HaveLen(6))
			lowest, highest := 100, 0
			for _, n := range perGroup {
				lowest = min(lowest, n)
				highest = max(highest, n)
			}
			Expect(highest - lowest).To(BeNumerically("<=", 1))
		})

		It("should skip pairs with forbidden or occupied members", func() {
			Expect(garage.OccupySpot(1, "someone")).To(BeTrue())
			forbidden := []int{3, 5}
			ids := apartmentIDs(1, 15)
			Expect(garage.PreReserveDoublePairs(ids, forbidden, src)).To(Succeed())

			for _, id := range ids {
				pairID, _ := garage.DoubleReservation(id)
				p, _ := garage.FindPair(pairID)
				for _, bad := range []int{1, 3, 5} {
					Expect(p.Contains(bad)).To(BeFalse())
				}
			}
		})

		It("should fail without partial reservations when too few pairs are forbidden-free", func() {
			// Spots 1, 3, 5, 9 and 11 knock out five of the 18 natural pairs.
			forbidden := append([]int{1, 3, 5, 9, 11}, garage.ExtendedSpotIDs()...)
			err := garage.PreReserveDoublePairs(apartmentIDs(1, 15), forbidden, src)

			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, core.ErrConfiguration)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("only 13"))
			Expect(garage.ReservationsSnapshot().Double).To(BeEmpty())
			for _, p := range garage.Pairs() {
				Expect(p.ReservedFor).To(BeEmpty())
			}
		})

		It("should reject apartments that already hold a reservation", func() {
			Expect(garage.PreReserveDoublePairs([]string{"apt-01"}, nil, src)).To(Succeed())
			err := garage.PreReserveDoublePairs([]string{"apt-02", "apt-01"}, nil, src)
			Expect(errors.Is(err, core.ErrAlreadyReserved)).To(BeTrue())
			Expect(garage.ReservationsSnapshot().Double).To(HaveLen(1))
		})

		It("should be reproducible for a given seed", func() {
			other := utils.ReferenceGarage()
			ids := apartmentIDs(1, 10)
			Expect(garage.PreReserveDoublePairs(ids, nil, random.New(99))).To(Succeed())
			Expect(other.PreReserveDoublePairs(ids, nil, random.New(99))).To(Succeed())
			Expect(garage.ReservationsSnapshot()).To(Equal(other.ReservationsSnapshot()))
		})
	})

	Context("PreReserveExtendedSpots", func() {
		It("should claim distinct extended spots", func() {
			ids := apartmentIDs(15, utils.ReferenceExtended)
			Expect(garage.PreReserveExtendedSpots(ids, src)).To(Succeed())

			seen := map[int]bool{}
			for _, id := range ids {
				spotID, ok := garage.ExtendedReservation(id)
				Expect(ok).To(BeTrue())
				Expect(garage.IsExtendedSpot(spotID)).To(BeTrue())
				Expect(seen[spotID]).To(BeFalse())
				seen[spotID] = true
			}
			Expect(garage.SurplusExtendedSpots()).To(HaveLen(1))
		})

		It("should fail when there are not enough extended spots", func() {
			err := garage.PreReserveExtendedSpots(apartmentIDs(1, 7), src)
			Expect(core.IsConfigurationError(err)).To(BeTrue())
			Expect(garage.ReservationsSnapshot().Extended).To(BeEmpty())
		})
	})

	Context("ConsumeReservation", func() {
		It("should succeed once and fail on the second call", func() {
			Expect(garage.PreReserveDoublePairs([]string{"apt-01"}, nil, src)).To(Succeed())
			pairID, _ := garage.DoubleReservation("apt-01")

			res, err := garage.ConsumeReservation("apt-01")
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Kind).To(Equal(core.ReservationPair))
			Expect(res.PairID).To(Equal(pairID))
			p, _ := garage.FindPair(pairID)
			Expect(p.ReservedFor).To(BeEmpty())

			_, err = garage.ConsumeReservation("apt-01")
			Expect(errors.Is(err, core.ErrNoReservation)).To(BeTrue())
		})

		It("should pop extended reservations", func() {
			Expect(garage.PreReserveExtendedSpots([]string{"apt-20"}, src)).To(Succeed())
			spotID, _ := garage.ExtendedReservation("apt-20")

			res, err := garage.ConsumeReservation("apt-20")
			Expect(err).NotTo(HaveOccurred())
			Expect(res).To(Equal(core.Reservation{Kind: core.ReservationSpot, SpotID: spotID}))
			_, err = garage.ConsumeReservation("apt-20")
			Expect(err).To(MatchError(core.ErrNoReservation))
		})
	})

	Context("AvailableOptions", func() {
		It("should show a double apartment only its own reservation", func() {
			Expect(garage.PreReserveDoublePairs([]string{"apt-01", "apt-02"}, nil, src)).To(Succeed())
			own, _ := garage.DoubleReservation("apt-01")

			opts := garage.AvailableOptions("apt-01", core.CategoryDouble)
			Expect(opts.Reserved).To(BeTrue())
			Expect(opts.Pairs).To(HaveLen(1))
			Expect(opts.Pairs[0].ID).To(Equal(own))
		})

		It("should show an unreserved double apartment only unreserved free pairs", func() {
			Expect(garage.PreReserveDoublePairs([]string{"apt-01", "apt-02"}, nil, src)).To(Succeed())

			opts := garage.AvailableOptions("apt-03", core.CategoryDouble)
			Expect(opts.Reserved).To(BeFalse())
			Expect(opts.Pairs).To(HaveLen(16))
			for _, p := range opts.Pairs {
				Expect(p.ReservedFor).To(BeEmpty())
			}
		})

		It("should hide protected pair members and extended spots from simple apartments", func() {
			Expect(garage.PreReserveDoublePairs(apartmentIDs(1, 14), nil, src)).To(Succeed())

			opts := garage.AvailableOptions("apt-25", core.CategorySimple)
			Expect(opts.Spots).To(HaveLen(8))
			for _, s := range opts.Spots {
				Expect(s.IsExtended()).To(BeFalse())
				Expect(garage.IsProtected(s.ID)).To(BeFalse())
			}
		})

		It("should show an extended apartment its reservation or the unreserved extended spots", func() {
			Expect(garage.PreReserveExtendedSpots([]string{"apt-15"}, src)).To(Succeed())
			own, _ := garage.ExtendedReservation("apt-15")

			opts := garage.AvailableOptions("apt-15", core.CategoryExtended)
			Expect(opts.Reserved).To(BeTrue())
			Expect(opts.Spots).To(HaveLen(1))
			Expect(opts.Spots[0].ID).To(Equal(own))

			others := garage.AvailableOptions("apt-16", core.CategoryExtended)
			Expect(others.Spots).To(HaveLen(5))
			for _, s := range others.Spots {
				Expect(s.ID).NotTo(Equal(own))
			}
		})

		It("should return an empty reserved option once the reserved pair is taken", func() {
			Expect(garage.PreReserveDoublePairs([]string{"apt-01"}, nil, src)).To(Succeed())
			pairID, _ := garage.DoubleReservation("apt-01")
			p, _ := garage.FindPair(pairID)
			Expect(garage.OccupySpot(p.SpotA, "intruder")).To(BeTrue())

			opts := garage.AvailableOptions("apt-01", core.CategoryDouble)
			Expect(opts.Reserved).To(BeTrue())
			Expect(opts.Empty()).To(BeTrue())
		})
	})
})
