package core

import (
	"maps"
	"slices"
	"sort"
)

// Garage is the aggregate root of a lottery session: spots, natural pairs and
// personal reservations. Spot and pair identities never change; occupancy and
// reservations do.
//
// A Garage is not safe for concurrent use. Sessions that need isolation work
// on a Clone.
type Garage struct {
	spots []Spot
	// identity data shared between clones
	index     map[int]int
	pairOrder []PairID
	spotPair  map[int]PairID

	pairs                map[PairID]Pair
	doubleReservations   map[string]PairID
	extendedReservations map[string]int
}

// Clone returns a snapshot that can be mutated without affecting g. Identity
// data (spot index, pair order, pair membership) is shared since it never
// changes.
func (g *Garage) Clone() *Garage {
	return &Garage{
		spots:                slices.Clone(g.spots),
		index:                g.index,
		pairOrder:            g.pairOrder,
		spotPair:             g.spotPair,
		pairs:                maps.Clone(g.pairs),
		doubleReservations:   maps.Clone(g.doubleReservations),
		extendedReservations: maps.Clone(g.extendedReservations),
	}
}

// Spots returns a copy of every spot ordered by id.
func (g *Garage) Spots() []Spot {
	return slices.Clone(g.spots)
}

// Pairs returns every natural pair in layout order.
func (g *Garage) Pairs() []Pair {
	out := make([]Pair, 0, len(g.pairOrder))
	for _, id := range g.pairOrder {
		out = append(out, g.pairs[id])
	}
	return out
}

// Capacity is the number of spots that can be assigned (blocked spots excluded).
func (g *Garage) Capacity() int {
	n := 0
	for _, s := range g.spots {
		if !s.Blocked {
			n++
		}
	}
	return n
}

// FindSpot looks a spot up by id.
func (g *Garage) FindSpot(id int) (Spot, bool) {
	i, ok := g.index[id]
	if !ok {
		return Spot{}, false
	}
	return g.spots[i], true
}

// FindPair looks a natural pair up by id.
func (g *Garage) FindPair(id PairID) (Pair, bool) {
	p, ok := g.pairs[id]
	return p, ok
}

// PairOf returns the natural pair spotID belongs to, if any.
func (g *Garage) PairOf(spotID int) (Pair, bool) {
	id, ok := g.spotPair[spotID]
	if !ok {
		return Pair{}, false
	}
	return g.pairs[id], true
}

// ExtendedSpotIDs returns the ids of every extended-category spot.
func (g *Garage) ExtendedSpotIDs() []int {
	ids := []int{}
	for _, s := range g.spots {
		if s.IsExtended() {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

// IsExtendedSpot reports whether id is a known extended spot.
func (g *Garage) IsExtendedSpot(id int) bool {
	s, ok := g.FindSpot(id)
	return ok && s.IsExtended()
}

// FreeSpots returns every unoccupied, unblocked spot ordered by id.
func (g *Garage) FreeSpots() []Spot {
	out := []Spot{}
	for _, s := range g.spots {
		if s.IsFree() {
			out = append(out, s)
		}
	}
	return out
}

// FreePairs returns the natural pairs whose members are both free and neither
// is extended.
func (g *Garage) FreePairs() []Pair {
	out := []Pair{}
	for _, id := range g.pairOrder {
		p := g.pairs[id]
		if g.pairIsFree(p) {
			out = append(out, p)
		}
	}
	return out
}

func (g *Garage) pairIsFree(p Pair) bool {
	a, okA := g.FindSpot(p.SpotA)
	b, okB := g.FindSpot(p.SpotB)
	return okA && okB && a.IsFree() && b.IsFree() && !a.IsExtended() && !b.IsExtended()
}

// OccupancyOf returns the apartment occupying spotID. The boolean is false
// when the spot is free or unknown.
func (g *Garage) OccupancyOf(spotID int) (string, bool) {
	s, ok := g.FindSpot(spotID)
	if !ok || s.OccupantID == "" {
		return "", false
	}
	return s.OccupantID, true
}

// SpotsOf returns the spots currently held by apartmentID, ordered by id.
func (g *Garage) SpotsOf(apartmentID string) []int {
	ids := []int{}
	for _, s := range g.spots {
		if s.OccupantID == apartmentID && apartmentID != "" {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

// OccupySpot marks spot id as held by apartmentID. It returns false if the
// spot is unknown, already occupied or blocked.
func (g *Garage) OccupySpot(id int, apartmentID string) bool {
	i, ok := g.index[id]
	if !ok || apartmentID == "" {
		return false
	}
	if !g.spots[i].IsFree() {
		return false
	}
	g.spots[i].OccupantID = apartmentID
	return true
}

// ReleaseSpot frees spot id. It returns false if the spot is unknown or
// already free.
func (g *Garage) ReleaseSpot(id int) bool {
	i, ok := g.index[id]
	if !ok || g.spots[i].OccupantID == "" {
		return false
	}
	g.spots[i].OccupantID = ""
	return true
}

// ReleaseApartment frees every spot held by apartmentID and returns their ids.
func (g *Garage) ReleaseApartment(apartmentID string) []int {
	released := g.SpotsOf(apartmentID)
	for _, id := range released {
		g.ReleaseSpot(id)
	}
	return released
}

// IsProtected reports whether spotID belongs to a pair that is still reserved
// for a pending double apartment. Simple draws must never take such a spot.
func (g *Garage) IsProtected(spotID int) bool {
	p, ok := g.PairOf(spotID)
	return ok && p.ReservedFor != ""
}

// ExtendedReservationHolder returns the apartment holding a personal
// reservation on spotID, if any.
func (g *Garage) ExtendedReservationHolder(spotID int) (string, bool) {
	for aptID, sid := range g.extendedReservations {
		if sid == spotID {
			return aptID, true
		}
	}
	return "", false
}

// Groups returns every floor/side group ordered by floor, then side.
func (g *Garage) Groups() []GroupKey {
	seen := make(map[GroupKey]struct{})
	for _, s := range g.spots {
		seen[s.Group()] = struct{}{}
	}
	return sortedGroups(seen)
}

// GroupOccupancy counts occupied spots per floor/side group. Every group is
// present, including empty ones.
func (g *Garage) GroupOccupancy() map[GroupKey]int {
	out := make(map[GroupKey]int)
	for _, s := range g.spots {
		key := s.Group()
		if _, ok := out[key]; !ok {
			out[key] = 0
		}
		if s.OccupantID != "" {
			out[key]++
		}
	}
	return out
}

func sortedGroups[V any](set map[GroupKey]V) []GroupKey {
	keys := make([]GroupKey, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })
	return keys
}
