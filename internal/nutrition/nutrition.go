// Package nutrition defines the additive macro-nutrient value type shared
// by the planner and meal-prep packages.
package nutrition

import "math"

// Profile is an additive macro profile. All values are assumed already
// normalized to the same serving; there is no unit conversion and no
// subtraction — removing a meal is always a structural removal from its
// container, never a nutrition subtraction.
type Profile struct {
	Kcal     float64 `json:"kcal"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// Zero returns the empty profile.
func Zero() Profile {
	return Profile{}
}

// Add returns the field-wise sum of a and b.
func Add(a, b Profile) Profile {
	return Profile{
		Kcal:     a.Kcal + b.Kcal,
		ProteinG: a.ProteinG + b.ProteinG,
		CarbsG:   a.CarbsG + b.CarbsG,
		FatG:     a.FatG + b.FatG,
	}
}

// Sum folds Add over profiles. An empty list yields Zero, never NaN.
func Sum(profiles []Profile) Profile {
	total := Zero()
	for _, p := range profiles {
		total = Add(total, p)
	}
	return total
}

// Scale returns the profile multiplied field-wise by factor.
func (p Profile) Scale(factor float64) Profile {
	return Profile{
		Kcal:     p.Kcal * factor,
		ProteinG: p.ProteinG * factor,
		CarbsG:   p.CarbsG * factor,
		FatG:     p.FatG * factor,
	}
}

// Rounded returns the profile with each field independently rounded to
// the nearest integer, for display-oriented callers. Rounding is applied
// last, after summation, never per meal.
func (p Profile) Rounded() Profile {
	return Profile{
		Kcal:     math.Round(p.Kcal),
		ProteinG: math.Round(p.ProteinG),
		CarbsG:   math.Round(p.CarbsG),
		FatG:     math.Round(p.FatG),
	}
}

// IsZero reports whether all fields are exactly zero.
func (p Profile) IsZero() bool {
	return p == Profile{}
}
