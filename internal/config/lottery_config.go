package config

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/utils/ptr"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/llm-d/parking-lottery/internal/classify"
	"github.com/llm-d/parking-lottery/internal/logging"
	"github.com/llm-d/parking-lottery/pkg/core"
)

// Lottery configuration constants
const (
	// DefaultLotteryConfigMapName is the default name of the ConfigMap that
	// stores the garage layout and the apartment roster.
	DefaultLotteryConfigMapName = "parking-lottery-config"

	// LayoutKey holds a GarageLayoutConfig document.
	LayoutKey = "layout"
	// RosterKey holds a RosterConfig document.
	RosterKey = "roster"
	// ApartmentKeyPrefix marks keys holding a single ApartmentConfig.
	ApartmentKeyPrefix = "apartment."
)

// DefaultSides are used when a generated layout does not list its sides.
var DefaultSides = []string{"A", "B"}

// SpotConfig lists one spot explicitly.
type SpotConfig struct {
	ID       int    `yaml:"id" json:"id"`
	Floor    int    `yaml:"floor" json:"floor"`
	Side     string `yaml:"side" json:"side"`
	Position int    `yaml:"position" json:"position"`
	Extended bool   `yaml:"extended,omitempty" json:"extended,omitempty"`
	Blocked  bool   `yaml:"blocked,omitempty" json:"blocked,omitempty"`
}

// GarageLayoutConfig describes the building. Either the grid fields
// (Floors, Sides, SpotsPerSide) or Spots are set, not both. Grid spots are
// numbered from 1, floor by floor, side by side, position by position.
type GarageLayoutConfig struct {
	Floors       int      `yaml:"floors,omitempty" json:"floors,omitempty"`
	Sides        []string `yaml:"sides,omitempty" json:"sides,omitempty"`
	SpotsPerSide int      `yaml:"spotsPerSide,omitempty" json:"spotsPerSide,omitempty"`

	// ExtendedSpots and BlockedSpots are spot ids; they apply to grid and
	// explicit spots alike.
	ExtendedSpots []int `yaml:"extendedSpots,omitempty" json:"extendedSpots,omitempty"`
	BlockedSpots  []int `yaml:"blockedSpots,omitempty" json:"blockedSpots,omitempty"`

	Spots []SpotConfig `yaml:"spots,omitempty" json:"spots,omitempty"`

	// Pairs lists the natural pairs as [a, b] spot ids. Derived from
	// adjacency when empty.
	Pairs [][]int `yaml:"pairs,omitempty" json:"pairs,omitempty"`
}

// Validate checks for invalid configuration values. Spot-level consistency
// (duplicates, pair adjacency) is checked when the layout is built.
func (c *GarageLayoutConfig) Validate() error {
	grid := c.Floors != 0 || c.SpotsPerSide != 0 || len(c.Sides) != 0
	switch {
	case grid && len(c.Spots) > 0:
		return fmt.Errorf("layout must either generate a grid or list spots, not both")
	case !grid && len(c.Spots) == 0:
		return fmt.Errorf("layout has no spots")
	case grid && c.Floors <= 0:
		return fmt.Errorf("floors must be > 0, got %d", c.Floors)
	case grid && c.SpotsPerSide <= 0:
		return fmt.Errorf("spotsPerSide must be > 0, got %d", c.SpotsPerSide)
	}
	for _, side := range c.Sides {
		if strings.TrimSpace(side) == "" {
			return fmt.Errorf("side names cannot be empty")
		}
	}
	for i, p := range c.Pairs {
		if len(p) != 2 {
			return fmt.Errorf("pair %d must have exactly 2 spot ids, got %d", i, len(p))
		}
	}
	return nil
}

// Layout converts the configuration into a core.Layout.
func (c *GarageLayoutConfig) Layout() (core.Layout, error) {
	if err := c.Validate(); err != nil {
		return core.Layout{}, fmt.Errorf("%w: %w", core.ErrConfiguration, err)
	}
	var specs []core.SpotSpec
	if len(c.Spots) > 0 {
		specs = make([]core.SpotSpec, 0, len(c.Spots))
		for _, s := range c.Spots {
			specs = append(specs, core.SpotSpec{
				ID: s.ID, Floor: s.Floor, Side: s.Side, Position: s.Position,
				Extended: s.Extended, Blocked: s.Blocked,
			})
		}
	} else {
		sides := c.Sides
		if len(sides) == 0 {
			sides = DefaultSides
		}
		specs = make([]core.SpotSpec, 0, c.Floors*len(sides)*c.SpotsPerSide)
		id := 1
		for floor := 0; floor < c.Floors; floor++ {
			for _, side := range sides {
				for pos := 1; pos <= c.SpotsPerSide; pos++ {
					specs = append(specs, core.SpotSpec{ID: id, Floor: floor, Side: side, Position: pos})
					id++
				}
			}
		}
	}

	index := make(map[int]int, len(specs))
	for i, s := range specs {
		index[s.ID] = i
	}
	for _, id := range c.ExtendedSpots {
		i, ok := index[id]
		if !ok {
			return core.Layout{}, fmt.Errorf("%w: extended spot %d does not exist", core.ErrConfiguration, id)
		}
		specs[i].Extended = true
	}
	for _, id := range c.BlockedSpots {
		i, ok := index[id]
		if !ok {
			return core.Layout{}, fmt.Errorf("%w: blocked spot %d does not exist", core.ErrConfiguration, id)
		}
		specs[i].Blocked = true
	}

	layout := core.Layout{Spots: specs}
	if len(c.Pairs) > 0 {
		layout.Pairs = make([][2]int, 0, len(c.Pairs))
		for _, p := range c.Pairs {
			layout.Pairs = append(layout.Pairs, [2]int{p[0], p[1]})
		}
	}
	return layout, nil
}

// ApartmentConfig is one roster entry.
type ApartmentConfig struct {
	ID string `yaml:"id" json:"id"`
	// Double apartments are entitled to a natural pair.
	Double bool `yaml:"double,omitempty" json:"double,omitempty"`
	// Extended apartments are authorized for extended spots.
	Extended bool `yaml:"extended,omitempty" json:"extended,omitempty"`
	// Active defaults to true when omitted.
	Active *bool `yaml:"active,omitempty" json:"active,omitempty"`
}

// Validate checks for invalid configuration values.
func (c *ApartmentConfig) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("apartment id cannot be empty")
	}
	if c.Double && c.Extended {
		return fmt.Errorf("apartment %q cannot be both double and extended", c.ID)
	}
	return nil
}

// IsActive reports whether the apartment takes part in the lottery.
func (c *ApartmentConfig) IsActive() bool {
	return ptr.Deref(c.Active, true)
}

// RosterConfig lists the apartments of a lottery.
type RosterConfig struct {
	Apartments []ApartmentConfig `yaml:"apartments" json:"apartments"`
}

// Validate checks every entry and rejects duplicate ids.
func (c *RosterConfig) Validate() error {
	seen := make(map[string]struct{}, len(c.Apartments))
	for i := range c.Apartments {
		a := &c.Apartments[i]
		if err := a.Validate(); err != nil {
			return fmt.Errorf("apartment %d: %w", i, err)
		}
		if _, dup := seen[a.ID]; dup {
			return fmt.Errorf("duplicate apartment id %q", a.ID)
		}
		seen[a.ID] = struct{}{}
	}
	return nil
}

// LotteryConfig is the full input of a lottery session.
type LotteryConfig struct {
	Layout GarageLayoutConfig
	Roster RosterConfig
}

// ParseLotteryConfigMap parses lottery configuration from a ConfigMap's data.
// The ConfigMap format:
//   - "layout": GarageLayoutConfig (required)
//   - "roster": RosterConfig
//   - "apartment.<name>": a single ApartmentConfig appended to the roster
//
// Layout and roster errors are returned. Invalid or duplicate single
// apartment entries are skipped and logged; the first key wins.
func ParseLotteryConfigMap(data map[string]string) (*LotteryConfig, error) {
	layoutStr, ok := data[LayoutKey]
	if !ok {
		return nil, fmt.Errorf("%w: missing %q key", core.ErrConfiguration, LayoutKey)
	}
	out := &LotteryConfig{}
	if err := yaml.Unmarshal([]byte(layoutStr), &out.Layout); err != nil {
		return nil, fmt.Errorf("%w: failed to parse layout: %w", core.ErrConfiguration, err)
	}
	if err := out.Layout.Validate(); err != nil {
		return nil, fmt.Errorf("%w: invalid layout: %w", core.ErrConfiguration, err)
	}
	if rosterStr, ok := data[RosterKey]; ok {
		if err := yaml.Unmarshal([]byte(rosterStr), &out.Roster); err != nil {
			return nil, fmt.Errorf("%w: failed to parse roster: %w", core.ErrConfiguration, err)
		}
		if err := out.Roster.Validate(); err != nil {
			return nil, fmt.Errorf("%w: invalid roster: %w", core.ErrConfiguration, err)
		}
	}

	idToKey := make(map[string]string, len(out.Roster.Apartments))
	for _, a := range out.Roster.Apartments {
		idToKey[a.ID] = RosterKey
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if key == LayoutKey || key == RosterKey {
			continue
		}
		if !strings.HasPrefix(key, ApartmentKeyPrefix) {
			ctrl.Log.Info("Ignoring unknown lottery config key", "key", key)
			continue
		}

		var apt ApartmentConfig
		if err := yaml.Unmarshal([]byte(data[key]), &apt); err != nil {
			ctrl.Log.Info("Failed to parse apartment config entry, skipping",
				"key", key,
				"error", err)
			continue
		}
		if err := apt.Validate(); err != nil {
			ctrl.Log.Info("Invalid apartment config entry, skipping",
				"key", key,
				"error", err)
			continue
		}
		if winner, exists := idToKey[apt.ID]; exists {
			ctrl.Log.Info("Duplicate apartment id found in lottery ConfigMap - first key wins",
				"id", apt.ID,
				"winningKey", winner,
				"duplicateKey", key)
			continue
		}
		idToKey[apt.ID] = key
		out.Roster.Apartments = append(out.Roster.Apartments, apt)
	}

	ctrl.Log.V(logging.DEBUG).Info("Parsed lottery config",
		"apartmentCount", len(out.Roster.Apartments))

	return out, nil
}

// FromConfigMap parses a lottery ConfigMap.
func FromConfigMap(cm *corev1.ConfigMap) (*LotteryConfig, error) {
	if cm == nil {
		return nil, fmt.Errorf("configmap cannot be nil")
	}
	cfg, err := ParseLotteryConfigMap(cm.Data)
	if err != nil {
		return nil, fmt.Errorf("configmap %s/%s: %w", cm.Namespace, cm.Name, err)
	}
	return cfg, nil
}

// Build creates the garage, the roster and the classifier of a session.
func (c *LotteryConfig) Build() (*core.Garage, []core.Apartment, *classify.Service, error) {
	layout, err := c.Layout.Layout()
	if err != nil {
		return nil, nil, nil, err
	}
	garage, err := core.NewGarage(layout)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := c.Roster.Validate(); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %w", core.ErrConfiguration, err)
	}
	apartments := make([]core.Apartment, 0, len(c.Roster.Apartments))
	extended := []string{}
	for _, a := range c.Roster.Apartments {
		apartments = append(apartments, core.NewApartment(a.ID, a.Double, a.IsActive()))
		if a.Extended {
			extended = append(extended, a.ID)
		}
	}
	return garage, apartments, classify.NewFromIDs(extended), nil
}
