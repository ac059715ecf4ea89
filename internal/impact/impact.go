package impact

import (
	"github.com/ecosort/ecosort/internal/store"
)

// CO2Saved returns the total kg of CO2 emissions avoided by the given
// contributions, using the per-category conversion factors. Empty input
// yields 0; the result is linear over concatenation of disjoint slices.
func CO2Saved(contribs []store.Contribution) float64 {
	var total float64
	for _, c := range contribs {
		total += c.WeightKg * c.Category.CO2PerKg()
	}
	return total
}

// WaterSaved returns the total liters of water saved by the given
// contributions.
func WaterSaved(contribs []store.Contribution) float64 {
	var total float64
	for _, c := range contribs {
		total += c.WeightKg * c.Category.WaterPerKg()
	}
	return total
}

// Badge classifies a user's cumulative sorted weight.
type Badge struct {
	Level      string `json:"level"`
	Percentile string `json:"percentile"`
	Color      string `json:"color"`
}

// BadgeTier returns the badge for a cumulative total, evaluated top-down
// with strictly exclusive thresholds: exactly 20.0 kg is Eco Champion,
// not Eco Master.
func BadgeTier(totalKg float64) Badge {
	switch {
	case totalKg > 20:
		return Badge{Level: "Eco Master", Percentile: "1%", Color: "#22c55e"}
	case totalKg > 15:
		return Badge{Level: "Eco Champion", Percentile: "5%", Color: "#10b981"}
	case totalKg > 10:
		return Badge{Level: "Eco Warrior", Percentile: "10%", Color: "#34d399"}
	case totalKg > 5:
		return Badge{Level: "Eco Enthusiast", Percentile: "25%", Color: "#6ee7b7"}
	default:
		return Badge{Level: "Eco Starter", Percentile: "50%", Color: "#a7f3d0"}
	}
}
