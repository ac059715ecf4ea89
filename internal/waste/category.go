// Package waste defines the fixed waste category enumeration and the
// per-category conversion factors used for environmental impact and reward
// calculations across the EcoSort backend.
package waste

import (
	"errors"
	"fmt"
)

// Category is one of the six fixed waste classifications.
type Category string

// The full, closed set of categories. New categories require a coordinated
// change to bin capacity declarations and the conversion table below.
const (
	Organic Category = "organic"
	Plastic Category = "plastic"
	Glass   Category = "glass"
	Metal   Category = "metal"
	Paper   Category = "paper"
	EWaste  Category = "ewaste"
)

// Categories lists all categories in display order.
var Categories = []Category{Organic, Plastic, Glass, Metal, Paper, EWaste}

// ErrInvalidCategory is returned when a category token from the outside
// world does not match any known category.
var ErrInvalidCategory = errors.New("invalid waste category")

// factors holds the per-kg conversion constants for one category.
type factors struct {
	co2PerKg    float64 // kg CO2 saved per kg of waste diverted
	waterPerKg  float64 // liters of water saved per kg
	rewardPerKg float64 // currency units credited per kg
}

// conversionTable is the behavioral contract for all derived metrics.
// The values must be reproduced exactly; they are not tunables.
var conversionTable = map[Category]factors{
	Organic: {co2PerKg: 0.5, waterPerKg: 1.0, rewardPerKg: 5},
	Plastic: {co2PerKg: 2.5, waterPerKg: 90.0, rewardPerKg: 10},
	Glass:   {co2PerKg: 0.3, waterPerKg: 50.0, rewardPerKg: 8},
	Metal:   {co2PerKg: 4.0, waterPerKg: 100.0, rewardPerKg: 15},
	Paper:   {co2PerKg: 1.0, waterPerKg: 60.0, rewardPerKg: 7},
	EWaste:  {co2PerKg: 20.0, waterPerKg: 200.0, rewardPerKg: 25},
}

// labels maps categories to their display names.
var labels = map[Category]string{
	Organic: "Organic",
	Plastic: "Plastic",
	Glass:   "Glass",
	Metal:   "Metal",
	Paper:   "Paper",
	EWaste:  "E-Waste",
}

// colors maps categories to the chart color tokens used by clients.
var colors = map[Category]string{
	Organic: "#4ade80",
	Plastic: "#38bdf8",
	Glass:   "#a78bfa",
	Metal:   "#94a3b8",
	Paper:   "#fbbf24",
	EWaste:  "#fb7185",
}

// Parse validates a category token. Unknown tokens fail loudly rather than
// silently producing zero-valued multipliers.
func Parse(token string) (Category, error) {
	c := Category(token)
	if _, ok := conversionTable[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, token)
	}
	return c, nil
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := conversionTable[c]
	return ok
}

// CO2PerKg returns the kg of CO2 saved per kg of waste in this category.
func (c Category) CO2PerKg() float64 {
	return conversionTable[c].co2PerKg
}

// WaterPerKg returns the liters of water saved per kg of waste in this category.
func (c Category) WaterPerKg() float64 {
	return conversionTable[c].waterPerKg
}

// RewardPerKg returns the currency units credited per kg of waste in this
// category. Used only at reward generation time; the resulting amount is
// stored on the reward, not recomputed.
func (c Category) RewardPerKg() float64 {
	return conversionTable[c].rewardPerKg
}

// Label returns the display name for the category.
func (c Category) Label() string {
	return labels[c]
}

// Color returns the chart color token for the category.
func (c Category) Color() string {
	return colors[c]
}
