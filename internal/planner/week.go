package planner

import (
	"fmt"
	"time"

	"github.com/plateful/server/internal/calendar"
)

// NewDay returns a day with all four slots present and empty.
func NewDay(dateKey string) Day {
	slots := make([]Slot, len(SlotTypes))
	for i, t := range SlotTypes {
		slots[i] = Slot{Type: t, Meals: []MealEntry{}}
	}
	return Day{Date: dateKey, Slots: slots}
}

// NewWeek builds an empty week for the week containing start. The start
// date is normalized to its Monday, so week.days[i].date == start + i days
// always holds.
func NewWeek(start time.Time) Week {
	monday := calendar.WeekStart(start)
	days := calendar.WeekDays(monday)

	week := Week{StartDate: calendar.DateKey(monday), Days: make([]Day, len(days))}
	for i, d := range days {
		week.Days[i] = NewDay(calendar.DateKey(d))
	}
	return week
}

// Slot returns the day's slot of the given type, or nil for an unknown type.
func (d *Day) Slot(t SlotType) *Slot {
	for i := range d.Slots {
		if d.Slots[i].Type == t {
			return &d.Slots[i]
		}
	}
	return nil
}

// Day returns the week's day with the given date key, or nil when the
// date falls outside the week's seven-day span.
func (w *Week) Day(dateKey string) *Day {
	for i := range w.Days {
		if w.Days[i].Date == dateKey {
			return &w.Days[i]
		}
	}
	return nil
}

// AddMeal appends entry to the (date, slot-type) coordinate. The date
// must be within the week; a week is never extended past its seven days.
func (w *Week) AddMeal(dateKey string, slotType SlotType, entry MealEntry) error {
	day := w.Day(dateKey)
	if day == nil {
		return fmt.Errorf("date %s is outside week starting %s", dateKey, w.StartDate)
	}

	slot := day.Slot(slotType)
	if slot == nil {
		return fmt.Errorf("unknown slot type %q", slotType)
	}

	slot.Meals = append(slot.Meals, entry)
	return nil
}

// RemoveMeal removes exactly the entry with the given id from the
// (date, slot-type) coordinate, leaving all others — including same-named
// duplicates with different ids — untouched. Returns false when no such
// entry exists.
func (w *Week) RemoveMeal(dateKey string, slotType SlotType, mealID string) bool {
	day := w.Day(dateKey)
	if day == nil {
		return false
	}

	slot := day.Slot(slotType)
	if slot == nil {
		return false
	}

	for i, m := range slot.Meals {
		if m.ID == mealID {
			slot.Meals = append(slot.Meals[:i], slot.Meals[i+1:]...)
			return true
		}
	}
	return false
}

// HasMeals reports whether at least one of the day's slots is non-empty.
func (d *Day) HasMeals() bool {
	for i := range d.Slots {
		if len(d.Slots[i].Meals) > 0 {
			return true
		}
	}
	return false
}
