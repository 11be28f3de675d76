package classify

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/llm-d/parking-lottery/pkg/core"
)

var _ = Describe("DetermineType", func() {
	var svc *Service

	BeforeEach(func() {
		svc = NewFromIDs([]string{"apt-15", "apt-16"})
	})

	Context("with default priorities", func() {
		It("should classify authorized apartments as extended", func() {
			Expect(svc.DetermineType(core.NewApartment("apt-15", false, true))).To(Equal(core.CategoryExtended))
		})

		It("should classify double-flagged apartments as double", func() {
			Expect(svc.DetermineType(core.NewApartment("apt-01", true, true))).To(Equal(core.CategoryDouble))
		})

		It("should default to simple", func() {
			Expect(svc.DetermineType(core.NewApartment("apt-20", false, true))).To(Equal(core.CategorySimple))
		})

		It("should let extended win over double", func() {
			Expect(svc.DetermineType(core.NewApartment("apt-16", true, true))).To(Equal(core.CategoryExtended))
		})
	})

	Context("with a nil predicate", func() {
		It("should never classify as extended", func() {
			Expect(New(nil).DetermineType(core.NewApartment("apt-15", false, true))).To(Equal(core.CategorySimple))
			Expect(New(nil).IsExtendedApartment("apt-15")).To(BeFalse())
		})
	})

	Context("with a custom predicate", func() {
		It("should use the injected predicate", func() {
			custom := New(func(id string) bool { return id == "penthouse" })
			Expect(custom.DetermineType(core.NewApartment("penthouse", false, true))).To(Equal(core.CategoryExtended))
			Expect(custom.IsExtendedApartment("apt-15")).To(BeFalse())
		})
	})
})

var _ = Describe("ValidateRoster", func() {
	svc := NewFromIDs([]string{"apt-15"})

	It("should accept a consistent roster", func() {
		roster := []core.Apartment{
			core.NewApartment("apt-01", true, true),
			core.NewApartment("apt-15", false, true),
			core.NewApartment("apt-20", false, false),
		}
		Expect(svc.ValidateRoster(roster)).To(Succeed())
	})

	It("should reject an apartment that is both double and extended", func() {
		err := svc.ValidateRoster([]core.Apartment{core.NewApartment("apt-15", true, true)})
		Expect(err).To(MatchError(core.ErrConfiguration))
		Expect(err.Error()).To(ContainSubstring("both double and extended"))
	})

	It("should reject duplicate and empty ids", func() {
		Expect(svc.ValidateRoster([]core.Apartment{
			core.NewApartment("apt-01", false, true),
			core.NewApartment("apt-01", true, true),
		})).To(MatchError(core.ErrConfiguration))
		Expect(svc.ValidateRoster([]core.Apartment{core.NewApartment("", false, true)})).To(MatchError(core.ErrConfiguration))
	})
})

var _ = Describe("Breakdown", func() {
	It("should group ids by category", func() {
		svc := NewFromIDs([]string{"apt-15"})
		got := svc.Breakdown([]core.Apartment{
			core.NewApartment("apt-02", true, true),
			core.NewApartment("apt-01", true, true),
			core.NewApartment("apt-15", false, true),
		})
		Expect(got[core.CategoryDouble]).To(Equal([]string{"apt-01", "apt-02"}))
		Expect(got[core.CategoryExtended]).To(Equal([]string{"apt-15"}))
		Expect(got[core.CategorySimple]).To(BeEmpty())
	})
})
