package core

import (
	"fmt"
	"maps"
	"sort"

	"github.com/llm-d/parking-lottery/pkg/random"
)

// PreReserveDoublePairs claims one natural pair per apartment in apartmentIDs.
//
// A pair is eligible when it is not reserved yet, both members are free, and
// no member is extended or listed in forbiddenSpotIDs. Claims are spread over
// floor/side groups: each claim goes to the group with the fewest claims so
// far (ties broken by src), and the pair within that group is picked by src.
//
// If fewer eligible pairs exist than apartments, the call fails with
// ErrConfiguration and the garage is left untouched.
func (g *Garage) PreReserveDoublePairs(apartmentIDs []string, forbiddenSpotIDs []int, src random.Source) error {
	if len(apartmentIDs) == 0 {
		return nil
	}
	if err := g.checkReservable(apartmentIDs); err != nil {
		return err
	}
	forbidden := make(map[int]struct{}, len(forbiddenSpotIDs))
	for _, id := range forbiddenSpotIDs {
		forbidden[id] = struct{}{}
	}

	buckets := make(map[GroupKey][]PairID)
	claims := make(map[GroupKey]int)
	eligible := 0
	for _, id := range g.pairOrder {
		p := g.pairs[id]
		a, _ := g.FindSpot(p.SpotA)
		if p.ReservedFor != "" {
			claims[a.Group()]++
			continue
		}
		if !g.pairIsFree(p) {
			continue
		}
		if _, bad := forbidden[p.SpotA]; bad {
			continue
		}
		if _, bad := forbidden[p.SpotB]; bad {
			continue
		}
		buckets[a.Group()] = append(buckets[a.Group()], id)
		eligible++
	}
	if eligible < len(apartmentIDs) {
		return configErrorf("%d double apartments need a pair but only %d forbidden-free natural pairs are available",
			len(apartmentIDs), eligible)
	}

	picks := claimBalanced(src, buckets, claims, len(apartmentIDs))
	for i, aptID := range apartmentIDs {
		p := g.pairs[picks[i]]
		p.ReservedFor = aptID
		g.pairs[p.ID] = p
		g.doubleReservations[aptID] = p.ID
	}
	return nil
}

// PreReserveExtendedSpots claims one free extended spot per apartment in
// apartmentIDs, balanced over floor/side groups like PreReserveDoublePairs.
// It fails with ErrConfiguration, leaving the garage untouched, when there
// are not enough unreserved free extended spots.
func (g *Garage) PreReserveExtendedSpots(apartmentIDs []string, src random.Source) error {
	if len(apartmentIDs) == 0 {
		return nil
	}
	if err := g.checkReservable(apartmentIDs); err != nil {
		return err
	}
	reserved := g.reservedExtendedSpots()

	buckets := make(map[GroupKey][]int)
	claims := make(map[GroupKey]int)
	eligible := 0
	for _, s := range g.spots {
		if !s.IsExtended() {
			continue
		}
		if _, taken := reserved[s.ID]; taken {
			claims[s.Group()]++
			continue
		}
		if !s.IsFree() {
			continue
		}
		buckets[s.Group()] = append(buckets[s.Group()], s.ID)
		eligible++
	}
	if eligible < len(apartmentIDs) {
		return configErrorf("%d extended apartments need a spot but only %d extended spots are available",
			len(apartmentIDs), eligible)
	}

	picks := claimBalanced(src, buckets, claims, len(apartmentIDs))
	for i, aptID := range apartmentIDs {
		g.extendedReservations[aptID] = picks[i]
	}
	return nil
}

// checkReservable rejects duplicate apartment ids and apartments that already
// hold a reservation.
func (g *Garage) checkReservable(apartmentIDs []string) error {
	seen := make(map[string]struct{}, len(apartmentIDs))
	for _, id := range apartmentIDs {
		if _, dup := seen[id]; dup {
			return configErrorf("apartment %q listed twice for pre-reservation", id)
		}
		seen[id] = struct{}{}
		if _, ok := g.doubleReservations[id]; ok {
			return fmt.Errorf("apartment %q: %w", id, ErrAlreadyReserved)
		}
		if _, ok := g.extendedReservations[id]; ok {
			return fmt.Errorf("apartment %q: %w", id, ErrAlreadyReserved)
		}
	}
	return nil
}

// claimBalanced draws n items from buckets, always from the group with the
// fewest claims. buckets must hold at least n items in total; it is consumed.
func claimBalanced[T any](src random.Source, buckets map[GroupKey][]T, claims map[GroupKey]int, n int) []T {
	picks := make([]T, 0, n)
	for len(picks) < n {
		var candidates []GroupKey
		least := -1
		for _, key := range sortedGroups(buckets) {
			if len(buckets[key]) == 0 {
				continue
			}
			switch c := claims[key]; {
			case least < 0 || c < least:
				least = c
				candidates = []GroupKey{key}
			case c == least:
				candidates = append(candidates, key)
			}
		}
		key, _ := random.Pick(src, candidates)
		items := buckets[key]
		i := random.Intn(src, len(items))
		picks = append(picks, items[i])
		buckets[key] = append(items[:i:i], items[i+1:]...)
		claims[key]++
	}
	return picks
}

// ConsumeReservation removes and returns the personal reservation of
// apartmentID. A second call for the same apartment returns ErrNoReservation.
func (g *Garage) ConsumeReservation(apartmentID string) (Reservation, error) {
	if pairID, ok := g.doubleReservations[apartmentID]; ok {
		delete(g.doubleReservations, apartmentID)
		if p, ok := g.pairs[pairID]; ok {
			p.ReservedFor = ""
			g.pairs[pairID] = p
		}
		return Reservation{Kind: ReservationPair, PairID: pairID}, nil
	}
	if spotID, ok := g.extendedReservations[apartmentID]; ok {
		delete(g.extendedReservations, apartmentID)
		return Reservation{Kind: ReservationSpot, SpotID: spotID}, nil
	}
	return Reservation{}, fmt.Errorf("apartment %q: %w", apartmentID, ErrNoReservation)
}

// DoubleReservation returns the pair reserved for apartmentID.
func (g *Garage) DoubleReservation(apartmentID string) (PairID, bool) {
	id, ok := g.doubleReservations[apartmentID]
	return id, ok
}

// ExtendedReservation returns the extended spot reserved for apartmentID.
func (g *Garage) ExtendedReservation(apartmentID string) (int, bool) {
	id, ok := g.extendedReservations[apartmentID]
	return id, ok
}

// ReservationsSnapshot returns a detached copy of both reservation maps.
func (g *Garage) ReservationsSnapshot() ReservationsSnapshot {
	return ReservationsSnapshot{
		Double:   maps.Clone(g.doubleReservations),
		Extended: maps.Clone(g.extendedReservations),
	}
}

func (g *Garage) reservedExtendedSpots() map[int]string {
	out := make(map[int]string, len(g.extendedReservations))
	for aptID, spotID := range g.extendedReservations {
		out[spotID] = aptID
	}
	return out
}

// SurplusExtendedSpots returns free extended spots that no apartment holds a
// reservation for.
func (g *Garage) SurplusExtendedSpots() []Spot {
	reserved := g.reservedExtendedSpots()
	out := []Spot{}
	for _, s := range g.spots {
		if !s.IsExtended() || !s.IsFree() {
			continue
		}
		if _, taken := reserved[s.ID]; taken {
			continue
		}
		out = append(out, s)
	}
	return out
}

// AvailableOptions returns the candidates apartmentID may be assigned from,
// given its category:
//
//   - double: its personal pair reservation exclusively if it holds one,
//     otherwise every free natural pair not reserved for someone else
//   - extended: its personal spot reservation exclusively if it holds one,
//     otherwise every free extended spot not reserved for someone else
//   - simple: every free normal spot that is not a member of a reserved pair
func (g *Garage) AvailableOptions(apartmentID string, category Category) Options {
	opts := Options{Category: category}
	switch category {
	case CategoryDouble:
		if pairID, ok := g.doubleReservations[apartmentID]; ok {
			opts.Reserved = true
			if p, ok := g.pairs[pairID]; ok && g.pairIsFree(p) {
				opts.Pairs = []Pair{p}
			}
			return opts
		}
		for _, p := range g.FreePairs() {
			if p.ReservedFor == "" {
				opts.Pairs = append(opts.Pairs, p)
			}
		}
	case CategoryExtended:
		if spotID, ok := g.extendedReservations[apartmentID]; ok {
			opts.Reserved = true
			if s, ok := g.FindSpot(spotID); ok && s.IsFree() && s.IsExtended() {
				opts.Spots = []Spot{s}
			}
			return opts
		}
		opts.Spots = g.SurplusExtendedSpots()
	default:
		for _, s := range g.FreeSpots() {
			if s.IsExtended() || g.IsProtected(s.ID) {
				continue
			}
			opts.Spots = append(opts.Spots, s)
		}
	}
	sort.Slice(opts.Spots, func(i, j int) bool { return opts.Spots[i].ID < opts.Spots[j].ID })
	return opts
}
