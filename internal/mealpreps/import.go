package mealpreps

import (
	"time"

	"github.com/plateful/server/internal/calendar"
	"github.com/plateful/server/internal/ids"
	"github.com/plateful/server/internal/planner"
)

// ImportPlanToWeek maps plan day i to anchor+i days and materializes the
// plan's meals as calendar entries. Only days landing inside the week
// containing the anchor are produced; the rest are counted as dropped.
// Every produced entry gets a fresh id, origin kind plan_import and the
// plan id as origin ref, so repeating an import duplicates meals instead
// of replacing them.
func ImportPlanToWeek(p Plan, anchor time.Time, gen ids.Generator) (days []planner.Day, dropped int) {
	weekStart := calendar.WeekStart(anchor)
	weekEnd := weekStart.AddDate(0, 0, 6)

	for i, planDay := range p.Days {
		date := anchor.AddDate(0, 0, i)
		if date.After(weekEnd) {
			dropped++
			continue
		}

		day := planner.NewDay(calendar.DateKey(date))
		for _, slot := range planDay.Slots {
			target := day.Slot(slot.Type)
			if target == nil {
				continue
			}
			for _, meal := range slot.Meals {
				target.Meals = append(target.Meals, planner.MealEntry{
					ID:         gen.NewID(),
					Name:       meal.Name,
					OriginRef:  p.ID,
					OriginKind: planner.OriginPlanImport,
					Servings:   meal.Servings,
					Nutrition:  meal.Nutrition,
				})
			}
		}
		days = append(days, day)
	}
	return days, dropped
}

// MergeDays appends the meals of days into week. Existing entries are
// never replaced or reordered; an empty imported slot leaves the target
// slot untouched. Days outside the week are ignored.
func MergeDays(week *planner.Week, days []planner.Day) {
	for _, day := range days {
		target := week.Day(day.Date)
		if target == nil {
			continue
		}
		for _, slot := range day.Slots {
			if len(slot.Meals) == 0 {
				continue
			}
			dst := target.Slot(slot.Type)
			if dst == nil {
				continue
			}
			dst.Meals = append(dst.Meals, slot.Meals...)
		}
	}
}
