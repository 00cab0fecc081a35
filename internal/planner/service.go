package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/plateful/server/internal/calendar"
	"github.com/plateful/server/internal/ids"
	"github.com/plateful/server/internal/storage"
)

// Service handles planner week business logic.
type Service struct {
	storage storage.WeeksStorage
	ids     ids.Generator
}

// NewService creates a new planner service.
func NewService(storage storage.WeeksStorage, gen ids.Generator) *Service {
	return &Service{storage: storage, ids: gen}
}

// resolveAnchor parses an optional YYYY-MM-DD date, defaulting to today.
func resolveAnchor(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return time.Now().UTC(), nil
	}
	return calendar.ParseDateKey(dateStr)
}

// GetWeek returns the week containing the given date (today when empty)
// together with its nutrition summary. A week that was never written to
// comes back with seven empty days.
func (s *Service) GetWeek(ctx context.Context, ownerUserID, profileID, dateStr string) (Week, WeekSummary, error) {
	anchor, err := resolveAnchor(dateStr)
	if err != nil {
		return Week{}, WeekSummary{}, err
	}

	from, to := WeekRange(anchor)
	rows, err := s.storage.ListEntries(ctx, ownerUserID, profileID, from, to)
	if err != nil {
		return Week{}, WeekSummary{}, fmt.Errorf("list entries: %w", err)
	}

	week := WeekFromRows(anchor, rows)
	return week, Summarize(week), nil
}

// AddMeal validates and persists a new meal entry at the requested
// (date, slot-type) coordinate and returns the stored entry with its
// assigned id.
func (s *Service) AddMeal(ctx context.Context, ownerUserID string, req AddMealRequest) (MealEntry, error) {
	if err := req.Validate(); err != nil {
		return MealEntry{}, fmt.Errorf("validation failed: %w", err)
	}

	entry := MealEntry{
		ID:         s.ids.NewID(),
		Name:       req.Name,
		OriginRef:  req.OriginRef,
		OriginKind: req.OriginKind,
		Servings:   req.Servings,
		Nutrition:  req.Nutrition,
	}

	pos, err := s.storage.NextPosition(ctx, ownerUserID, req.ProfileID, req.Date, string(req.SlotType))
	if err != nil {
		return MealEntry{}, fmt.Errorf("next position: %w", err)
	}

	row := RowFromEntry(ownerUserID, req.ProfileID, req.Date, req.SlotType, pos, entry)
	if err := s.storage.AddEntries(ctx, []storage.MealEntryRow{row}); err != nil {
		return MealEntry{}, fmt.Errorf("add entry: %w", err)
	}

	return entry, nil
}

// RemoveMeal deletes exactly one entry by id. Same-named entries with
// different ids are left in place. Returns false when the id is unknown.
func (s *Service) RemoveMeal(ctx context.Context, ownerUserID, profileID, entryID string) (bool, error) {
	return s.storage.DeleteEntry(ctx, ownerUserID, profileID, entryID)
}

// Summary returns just the nutrition rollup for the week containing the
// given date.
func (s *Service) Summary(ctx context.Context, ownerUserID, profileID, dateStr string) (WeekSummary, error) {
	_, summary, err := s.GetWeek(ctx, ownerUserID, profileID, dateStr)
	return summary, err
}

// ImportDays appends the meals of pre-built days into storage. Days and
// slots arrive already filtered to the target week; existing entries are
// never touched, so repeating an import duplicates its meals.
func (s *Service) ImportDays(ctx context.Context, ownerUserID, profileID string, days []Day) (int, error) {
	var rows []storage.MealEntryRow
	for _, day := range days {
		for _, slot := range day.Slots {
			if len(slot.Meals) == 0 {
				continue
			}
			pos, err := s.storage.NextPosition(ctx, ownerUserID, profileID, day.Date, string(slot.Type))
			if err != nil {
				return 0, fmt.Errorf("next position: %w", err)
			}
			for _, m := range slot.Meals {
				rows = append(rows, RowFromEntry(ownerUserID, profileID, day.Date, slot.Type, pos, m))
				pos++
			}
		}
	}

	if len(rows) == 0 {
		return 0, nil
	}
	if err := s.storage.AddEntries(ctx, rows); err != nil {
		return 0, fmt.Errorf("add entries: %w", err)
	}
	return len(rows), nil
}
