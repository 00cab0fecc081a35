package planner

import "github.com/plateful/server/internal/nutrition"

// Aggregation note: the per-entry serving multiplier is display metadata
// and is not applied here. Each stored profile already represents the
// full entry; callers wanting serving-scaled totals pre-multiply before
// storing.

// SlotNutrition sums the stored profiles of every meal in the slot.
func SlotNutrition(s Slot) nutrition.Profile {
	total := nutrition.Zero()
	for _, m := range s.Meals {
		total = nutrition.Add(total, m.Nutrition)
	}
	return total
}

// DayNutrition sums the four slot totals in SlotTypes order.
func DayNutrition(d Day) nutrition.Profile {
	total := nutrition.Zero()
	for _, t := range SlotTypes {
		if slot := d.Slot(t); slot != nil {
			total = nutrition.Add(total, SlotNutrition(*slot))
		}
	}
	return total
}

// WeekNutrition sums the seven day totals.
func WeekNutrition(w Week) nutrition.Profile {
	total := nutrition.Zero()
	for _, d := range w.Days {
		total = nutrition.Add(total, DayNutrition(d))
	}
	return total
}

// DaysWithMeals counts days with at least one meal in any slot.
func DaysWithMeals(w Week) int {
	n := 0
	for i := range w.Days {
		if w.Days[i].HasMeals() {
			n++
		}
	}
	return n
}

// WeekDailyAverage divides the week total by the number of days that
// actually received meals, floored at 1 so an all-empty week reports
// zero averages rather than NaN. Empty future days never drag the
// average down. The result is unrounded; use Rounded() for display.
func WeekDailyAverage(w Week) nutrition.Profile {
	divisor := DaysWithMeals(w)
	if divisor < 1 {
		divisor = 1
	}
	return WeekNutrition(w).Scale(1 / float64(divisor))
}

// Summarize builds the full rollup for a week.
func Summarize(w Week) WeekSummary {
	days := make([]DaySummary, len(w.Days))
	for i, d := range w.Days {
		days[i] = DaySummary{Date: d.Date, Total: DayNutrition(d)}
	}

	avg := WeekDailyAverage(w)
	return WeekSummary{
		StartDate:       w.StartDate,
		Total:           WeekNutrition(w),
		DailyAverage:    avg.Rounded(),
		DailyAverageRaw: avg,
		DaysWithMeals:   DaysWithMeals(w),
		Days:            days,
	}
}
