// Package utils holds fixtures shared by the lottery test suites.
package utils

import (
	"fmt"

	"github.com/llm-d/parking-lottery/pkg/core"
	"github.com/llm-d/parking-lottery/pkg/random"
)

// ReferenceSeed is the seed used by tests that need a real PRNG.
const ReferenceSeed int64 = 20240601

// Reference building dimensions: 3 floors, sides A and B, 7 spots per side.
const (
	ReferenceFloors       = 3
	ReferenceSpotsPerSide = 7
	ReferenceDoubles      = 14
	ReferenceExtended     = 5
	ReferenceSimples      = 9
)

// ReferenceExtendedSpotIDs are the extended spots of the reference building.
var ReferenceExtendedSpotIDs = []int{7, 8, 21, 22, 35, 36}

// ReferenceLayout returns the 42-spot reference building. Spots are numbered
// floor by floor, side A then side B; side A ends and side B starts with an
// extended spot, which leaves three natural pairs per side (18 in total).
func ReferenceLayout() core.Layout {
	extended := make(map[int]bool, len(ReferenceExtendedSpotIDs))
	for _, id := range ReferenceExtendedSpotIDs {
		extended[id] = true
	}
	spots := make([]core.SpotSpec, 0, ReferenceFloors*2*ReferenceSpotsPerSide)
	id := 1
	for floor := 0; floor < ReferenceFloors; floor++ {
		for _, side := range []string{"A", "B"} {
			for pos := 1; pos <= ReferenceSpotsPerSide; pos++ {
				spots = append(spots, core.SpotSpec{
					ID:       id,
					Floor:    floor,
					Side:     side,
					Position: pos,
					Extended: extended[id],
				})
				id++
			}
		}
	}
	return core.Layout{Spots: spots}
}

// ReferenceGarage builds the reference building or panics.
func ReferenceGarage() *core.Garage {
	g, err := core.NewGarage(ReferenceLayout())
	if err != nil {
		panic(fmt.Sprintf("reference layout is invalid: %v", err))
	}
	return g
}

// ReferenceRoster returns 14 double, 5 extended and 9 simple apartments,
// all active, plus the ids authorized for extended spots.
func ReferenceRoster() ([]core.Apartment, []string) {
	apartments := make([]core.Apartment, 0, ReferenceDoubles+ReferenceExtended+ReferenceSimples)
	extended := make([]string, 0, ReferenceExtended)
	n := 1
	for i := 0; i < ReferenceDoubles; i++ {
		apartments = append(apartments, core.NewApartment(ApartmentID(n), true, true))
		n++
	}
	for i := 0; i < ReferenceExtended; i++ {
		id := ApartmentID(n)
		apartments = append(apartments, core.NewApartment(id, false, true))
		extended = append(extended, id)
		n++
	}
	for i := 0; i < ReferenceSimples; i++ {
		apartments = append(apartments, core.NewApartment(ApartmentID(n), false, true))
		n++
	}
	return apartments, extended
}

// ReferenceSource returns a fresh PRNG seeded with ReferenceSeed.
func ReferenceSource() random.Source {
	return random.New(ReferenceSeed)
}

// ApartmentID formats the n-th fixture apartment id.
func ApartmentID(n int) string {
	return fmt.Sprintf("apt-%02d", n)
}

// SmallLayout is a single side with two natural pairs (1-2, 3-4) and one
// extended spot (5).
func SmallLayout() core.Layout {
	return core.Layout{Spots: []core.SpotSpec{
		{ID: 1, Floor: 0, Side: "A", Position: 1},
		{ID: 2, Floor: 0, Side: "A", Position: 2},
		{ID: 3, Floor: 0, Side: "A", Position: 3},
		{ID: 4, Floor: 0, Side: "A", Position: 4},
		{ID: 5, Floor: 0, Side: "A", Position: 5, Extended: true},
	}}
}

// SmallGarage builds SmallLayout or panics.
func SmallGarage() *core.Garage {
	g, err := core.NewGarage(SmallLayout())
	if err != nil {
		panic(fmt.Sprintf("small layout is invalid: %v", err))
	}
	return g
}

// SequenceSource replays values in order, wrapping around. It satisfies
// random.Source and makes "which candidate is picked" predictable in tests.
type SequenceSource struct {
	Values []float64
	next   int
}

func (s *SequenceSource) Float64() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	v := s.Values[s.next%len(s.Values)]
	s.next++
	return v
}

// Calls returns how many values were drawn.
func (s *SequenceSource) Calls() int {
	return s.next
}
