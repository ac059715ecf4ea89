package impact

import (
	"github.com/ecosort/ecosort/internal/store"
	"github.com/ecosort/ecosort/internal/waste"
)

// CategoryCapacity is the fleet-wide filled and remaining mass for one
// category.
type CategoryCapacity struct {
	FilledKg    float64 `json:"filled_kg"`
	AvailableKg float64 `json:"available_kg"`
}

// FleetCapacity aggregates per-bin fill percentages and declared capacities
// into absolute filled/available mass per category across the whole fleet.
// Fill levels over 100 produce negative available mass and are passed
// through unclamped. Categories missing from a bin's fill map contribute
// nothing for that bin.
func FleetCapacity(bins []store.Bin) map[waste.Category]CategoryCapacity {
	totals := make(map[waste.Category]CategoryCapacity)
	for _, b := range bins {
		for cat, fillPercent := range b.FillLevels {
			capacity := b.CapacityKg[cat]
			filled := capacity * fillPercent / 100
			cc := totals[cat]
			cc.FilledKg += filled
			cc.AvailableKg += capacity - filled
			totals[cat] = cc
		}
	}
	return totals
}
