package mealpreps

import (
	"math"

	"github.com/plateful/server/internal/nutrition"
)

// DayNutrition sums the stored profiles of every meal in the plan day.
func DayNutrition(d PlanDay) nutrition.Profile {
	total := nutrition.Zero()
	for _, slot := range d.Slots {
		for _, m := range slot.Meals {
			total = nutrition.Add(total, m.Nutrition)
		}
	}
	return total
}

// PlanNutrition sums the day totals of the whole plan.
func PlanNutrition(p Plan) nutrition.Profile {
	total := nutrition.Zero()
	for _, d := range p.Days {
		total = nutrition.Add(total, DayNutrition(d))
	}
	return total
}

// PlanDailyAverage divides the plan total by the plan's declared day
// count, floored at 1. Unlike the calendar week average, empty plan days
// DO count: a three-day plan with meals on one day averages over three.
func PlanDailyAverage(p Plan) nutrition.Profile {
	divisor := len(p.Days)
	if divisor < 1 {
		divisor = 1
	}
	return PlanNutrition(p).Scale(1 / float64(divisor))
}

// Summarize builds the full rollup for a plan.
func Summarize(p Plan) PlanSummary {
	days := make([]DaySummary, len(p.Days))
	for i, d := range p.Days {
		days[i] = DaySummary{DayOffset: i, Total: DayNutrition(d)}
	}

	avg := PlanDailyAverage(p)
	return PlanSummary{
		PlanID:          p.ID,
		Total:           PlanNutrition(p),
		DailyAverage:    avg.Rounded(),
		DailyAverageRaw: avg,
		DayCount:        len(p.Days),
		Days:            days,
	}
}

// AggregateIngredients flattens every ingredient line of the plan into a
// shopping list. Lines are grouped by the exact (name, unit) pair — no
// unit conversion, no name folding — in order of first appearance, with
// quantities summed and rounded to one decimal.
func AggregateIngredients(p Plan) []ShoppingLine {
	type key struct {
		name string
		unit string
	}

	index := map[key]int{}
	lines := []ShoppingLine{}

	for _, day := range p.Days {
		for _, slot := range day.Slots {
			for _, meal := range slot.Meals {
				for _, ing := range meal.Ingredients {
					k := key{name: ing.Name, unit: ing.Unit}
					if i, ok := index[k]; ok {
						lines[i].Quantity += ing.Quantity
						continue
					}
					index[k] = len(lines)
					lines = append(lines, ShoppingLine{Name: ing.Name, Quantity: ing.Quantity, Unit: ing.Unit})
				}
			}
		}
	}

	for i := range lines {
		lines[i].Quantity = math.Round(lines[i].Quantity*10) / 10
	}
	return lines
}
