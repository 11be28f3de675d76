package core

import (
	"sort"
)

// SpotSpec describes one physical spot of the building.
type SpotSpec struct {
	ID       int
	Floor    int
	Side     string
	Position int
	Extended bool
	Blocked  bool
}

// Layout is the fixed physical description a Garage is built from.
// When Pairs is nil the natural pairs are derived with DeriveNaturalPairs.
type Layout struct {
	Spots []SpotSpec
	Pairs [][2]int
}

// Validate checks spot identities and, if present, the explicit pair list.
func (l Layout) Validate() error {
	if len(l.Spots) == 0 {
		return configErrorf("layout has no spots")
	}
	byID := make(map[int]SpotSpec, len(l.Spots))
	positions := make(map[GroupKey]map[int]int)
	for _, s := range l.Spots {
		if s.ID <= 0 {
			return configErrorf("spot id must be positive, got %d", s.ID)
		}
		if _, dup := byID[s.ID]; dup {
			return configErrorf("duplicate spot id %d", s.ID)
		}
		byID[s.ID] = s
		g := GroupKey{Floor: s.Floor, Side: s.Side}
		if positions[g] == nil {
			positions[g] = make(map[int]int)
		}
		if other, dup := positions[g][s.Position]; dup {
			return configErrorf("spots %d and %d share position %d in group %s", other, s.ID, s.Position, g)
		}
		positions[g][s.Position] = s.ID
	}
	if l.Pairs == nil {
		return nil
	}
	return validatePairs(byID, l.Pairs)
}

func validatePairs(byID map[int]SpotSpec, pairs [][2]int) error {
	used := make(map[int]PairID)
	for _, p := range pairs {
		a, okA := byID[p[0]]
		b, okB := byID[p[1]]
		id := NewPairID(p[0], p[1])
		switch {
		case !okA || !okB:
			return configErrorf("pair %s references an unknown spot", id)
		case a.ID == b.ID:
			return configErrorf("pair %s uses the same spot twice", id)
		case a.Floor != b.Floor || a.Side != b.Side:
			return configErrorf("pair %s spans two floor/side groups", id)
		case abs(a.Position-b.Position) != 1:
			return configErrorf("pair %s members are not adjacent", id)
		case a.Extended || b.Extended:
			return configErrorf("pair %s contains an extended spot", id)
		}
		for _, sid := range []int{a.ID, b.ID} {
			if other, dup := used[sid]; dup {
				return configErrorf("spot %d belongs to pairs %s and %s", sid, other, id)
			}
			used[sid] = id
		}
	}
	return nil
}

// DeriveNaturalPairs pairs adjacent non-extended spots within each floor/side
// group, walking positions in ascending order: (1,2), (3,4), (5,6) on a side
// with no extended spots. An extended spot breaks the sequence and pairing
// restarts after it.
func DeriveNaturalPairs(spots []SpotSpec) [][2]int {
	groups := make(map[GroupKey][]SpotSpec)
	for _, s := range spots {
		g := GroupKey{Floor: s.Floor, Side: s.Side}
		groups[g] = append(groups[g], s)
	}
	keys := make([]GroupKey, 0, len(groups))
	for g := range groups {
		keys = append(keys, g)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })

	pairs := [][2]int{}
	for _, g := range keys {
		members := groups[g]
		sort.Slice(members, func(i, j int) bool { return members[i].Position < members[j].Position })
		for i := 0; i+1 < len(members); {
			a, b := members[i], members[i+1]
			if a.Extended {
				i++
				continue
			}
			if b.Extended || b.Position-a.Position != 1 {
				i++
				continue
			}
			pairs = append(pairs, [2]int{a.ID, b.ID})
			i += 2
		}
	}
	return pairs
}

// NewGarage validates the layout and builds a Garage with every spot free and
// no reservations.
func NewGarage(layout Layout) (*Garage, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	pairs := layout.Pairs
	if pairs == nil {
		pairs = DeriveNaturalPairs(layout.Spots)
	}

	specs := make([]SpotSpec, len(layout.Spots))
	copy(specs, layout.Spots)
	sort.Slice(specs, func(i, j int) bool { return specs[i].ID < specs[j].ID })

	g := &Garage{
		spots:                make([]Spot, len(specs)),
		index:                make(map[int]int, len(specs)),
		pairs:                make(map[PairID]Pair, len(pairs)),
		pairOrder:            make([]PairID, 0, len(pairs)),
		spotPair:             make(map[int]PairID, 2*len(pairs)),
		doubleReservations:   make(map[string]PairID),
		extendedReservations: make(map[string]int),
	}
	for i, s := range specs {
		category := SpotNormal
		if s.Extended {
			category = SpotExtended
		}
		g.spots[i] = Spot{
			ID:       s.ID,
			Floor:    s.Floor,
			Side:     s.Side,
			Position: s.Position,
			Category: category,
			Blocked:  s.Blocked,
		}
		g.index[s.ID] = i
	}
	for _, p := range pairs {
		a, b := p[0], p[1]
		if a > b {
			a, b = b, a
		}
		id := NewPairID(a, b)
		g.pairs[id] = Pair{ID: id, SpotA: a, SpotB: b}
		g.pairOrder = append(g.pairOrder, id)
		g.spotPair[a] = id
		g.spotPair[b] = id
	}
	return g, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
