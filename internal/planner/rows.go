package planner

import (
	"time"

	"github.com/plateful/server/internal/calendar"
	"github.com/plateful/server/internal/nutrition"
	"github.com/plateful/server/internal/storage"
)

// RowFromEntry converts a meal entry to its storage row at the given
// (date, slot, position) coordinate.
func RowFromEntry(ownerUserID, profileID, date string, slotType SlotType, position int, e MealEntry) storage.MealEntryRow {
	return storage.MealEntryRow{
		ID:          e.ID,
		OwnerUserID: ownerUserID,
		ProfileID:   profileID,
		Date:        date,
		SlotType:    string(slotType),
		Position:    position,
		Name:        e.Name,
		OriginRef:   e.OriginRef,
		OriginKind:  string(e.OriginKind),
		Servings:    e.Servings,
		Kcal:        e.Nutrition.Kcal,
		ProteinG:    e.Nutrition.ProteinG,
		CarbsG:      e.Nutrition.CarbsG,
		FatG:        e.Nutrition.FatG,
	}
}

// EntryFromRow converts a storage row back to a meal entry.
func EntryFromRow(row storage.MealEntryRow) MealEntry {
	return MealEntry{
		ID:         row.ID,
		Name:       row.Name,
		OriginRef:  row.OriginRef,
		OriginKind: OriginKind(row.OriginKind),
		Servings:   row.Servings,
		Nutrition: nutrition.Profile{
			Kcal:     row.Kcal,
			ProteinG: row.ProteinG,
			CarbsG:   row.CarbsG,
			FatG:     row.FatG,
		},
	}
}

// WeekFromRows assembles a week from entry rows. Rows must already be
// ordered by date, slot type and position; rows outside the week or with
// an unknown slot type are skipped.
func WeekFromRows(start time.Time, rows []storage.MealEntryRow) Week {
	week := NewWeek(start)
	for _, row := range rows {
		day := week.Day(row.Date)
		if day == nil {
			continue
		}
		slot := day.Slot(SlotType(row.SlotType))
		if slot == nil {
			continue
		}
		slot.Meals = append(slot.Meals, EntryFromRow(row))
	}
	return week
}

// WeekRange returns the first and last date keys of the week containing d.
func WeekRange(d time.Time) (from, to string) {
	monday := calendar.WeekStart(d)
	return calendar.DateKey(monday), calendar.DateKey(monday.AddDate(0, 0, 6))
}
