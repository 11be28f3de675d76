package limiter

import (
	"github.com/llm-d/parking-lottery/pkg/core"
)

// GetAvailableInventory counts the free, unreserved inventory of garage.
// Pairs with a member in forbiddenSpotIDs are left out.
func GetAvailableInventory(garage *core.Garage, forbiddenSpotIDs []int) Inventory {
	forbidden := make(map[int]struct{}, len(forbiddenSpotIDs))
	for _, id := range forbiddenSpotIDs {
		forbidden[id] = struct{}{}
	}

	var inv Inventory
	for _, p := range garage.FreePairs() {
		if p.ReservedFor != "" {
			continue
		}
		_, badA := forbidden[p.SpotA]
		_, badB := forbidden[p.SpotB]
		if badA || badB {
			continue
		}
		inv.Pairs++
	}
	inv.ExtendedSpots = len(garage.SurplusExtendedSpots())
	inv.NormalSpots = len(garage.AvailableOptions("", core.CategorySimple).Spots)
	return inv
}

// CountDemand counts the apartments still waiting for a draw, by category.
// Apartments that already hold a reservation in garage are not counted again.
func CountDemand(apartments []core.Apartment, garage *core.Garage, categorize func(core.Apartment) core.Category) Demand {
	var d Demand
	for _, a := range apartments {
		if !a.Active || a.Drawn {
			continue
		}
		switch categorize(a) {
		case core.CategoryDouble:
			if _, ok := garage.DoubleReservation(a.ID); !ok {
				d.Double++
			}
		case core.CategoryExtended:
			if _, ok := garage.ExtendedReservation(a.ID); !ok {
				d.Extended++
			}
		default:
			d.Simple++
		}
	}
	return d
}
