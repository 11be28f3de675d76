package core

import (
	"fmt"
	"slices"
)

// Category is the lottery category of an apartment.
type Category string

const (
	// CategorySimple apartments receive exactly one normal spot.
	CategorySimple Category = "simple"
	// CategoryDouble apartments receive exactly one natural pair.
	CategoryDouble Category = "double"
	// CategoryExtended apartments receive exactly one extended spot.
	CategoryExtended Category = "extended"
)

// SpotCategory distinguishes normal spots from extended ones (e.g. for larger vehicles).
type SpotCategory string

const (
	SpotNormal   SpotCategory = "normal"
	SpotExtended SpotCategory = "extended"
)

// GroupKey identifies a floor/side group of spots.
type GroupKey struct {
	Floor int
	Side  string
}

func (g GroupKey) String() string {
	return fmt.Sprintf("%d/%s", g.Floor, g.Side)
}

// less orders groups by floor, then side.
func (g GroupKey) less(o GroupKey) bool {
	if g.Floor != o.Floor {
		return g.Floor < o.Floor
	}
	return g.Side < o.Side
}

// Spot is a physical parking spot. Only OccupantID changes during a session.
type Spot struct {
	ID       int
	Floor    int
	Side     string
	Position int
	Category SpotCategory
	// Blocked spots are out of service and can never be occupied.
	Blocked bool
	// OccupantID is the apartment holding the spot, empty when free.
	OccupantID string
}

// IsFree reports whether the spot can be occupied.
func (s Spot) IsFree() bool {
	return s.OccupantID == "" && !s.Blocked
}

// IsExtended reports whether the spot is an extended-category spot.
func (s Spot) IsExtended() bool {
	return s.Category == SpotExtended
}

// Group returns the floor/side group of the spot.
func (s Spot) Group() GroupKey {
	return GroupKey{Floor: s.Floor, Side: s.Side}
}

// PairID identifies a natural pair as "<low>-<high>".
type PairID string

// NewPairID builds the canonical id of the pair made of spots a and b.
func NewPairID(a, b int) PairID {
	if a > b {
		a, b = b, a
	}
	return PairID(fmt.Sprintf("%d-%d", a, b))
}

// Pair is a natural adjacent spot pair eligible for double assignment.
type Pair struct {
	ID    PairID
	SpotA int
	SpotB int
	// ReservedFor is the apartment holding a personal reservation on the pair.
	ReservedFor string
}

// SpotIDs returns both member ids, lower first.
func (p Pair) SpotIDs() []int {
	return []int{p.SpotA, p.SpotB}
}

// Contains reports whether spotID is a member of the pair.
func (p Pair) Contains(spotID int) bool {
	return p.SpotA == spotID || p.SpotB == spotID
}

// Apartment is a lottery participant. ID and Double never change after construction.
type Apartment struct {
	ID string
	// Double marks apartments entitled to a natural pair.
	Double bool
	// Active apartments take part in the draw.
	Active bool
	// Drawn apartments are never selected again.
	Drawn bool
	// AssignedSpotIDs lists the spots the apartment holds, in assignment order.
	AssignedSpotIDs []int
}

// NewApartment creates an undrawn apartment without assignments.
func NewApartment(id string, double, active bool) Apartment {
	return Apartment{ID: id, Double: double, Active: active}
}

// Clone returns a copy that shares no mutable state with a.
func (a Apartment) Clone() Apartment {
	out := a
	out.AssignedSpotIDs = slices.Clone(a.AssignedSpotIDs)
	return out
}

// ReservationKind tells which map a reservation came from.
type ReservationKind string

const (
	ReservationPair ReservationKind = "pair"
	ReservationSpot ReservationKind = "spot"
)

// Reservation is a consumed personal reservation.
type Reservation struct {
	Kind   ReservationKind
	PairID PairID
	SpotID int
}

// ReservationsSnapshot is a detached copy of the reservation maps.
type ReservationsSnapshot struct {
	// Double maps apartment id to reserved pair id.
	Double map[string]PairID
	// Extended maps apartment id to reserved extended spot id.
	Extended map[string]int
}

// Options is the candidate set an apartment may be assigned from.
type Options struct {
	Category Category
	Spots    []Spot
	Pairs    []Pair
	// Reserved is true when the candidates come from a personal reservation.
	Reserved bool
}

// Empty reports whether there is no candidate at all.
func (o Options) Empty() bool {
	return len(o.Spots) == 0 && len(o.Pairs) == 0
}

// Selection is a candidate assignment produced for one apartment and not yet
// committed.
type Selection struct {
	ApartmentID string
	Category    Category
	// SpotIDs holds one spot, or both members of PairID for double selections.
	SpotIDs []int
	PairID  PairID
	// FromReservation is true when the candidate was a consumed personal reservation.
	FromReservation bool
}
