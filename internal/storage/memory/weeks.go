package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/plateful/server/internal/storage"
)

type weeksStorage struct {
	mu      sync.RWMutex
	entries map[string]*storage.MealEntryRow // key: entry_id
}

func newWeeksStorage() *weeksStorage {
	return &weeksStorage{
		entries: make(map[string]*storage.MealEntryRow),
	}
}

func (s *weeksStorage) ListEntries(ctx context.Context, ownerUserID, profileID, from, to string) ([]storage.MealEntryRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []storage.MealEntryRow
	for _, e := range s.entries {
		if e.OwnerUserID == ownerUserID && e.ProfileID == profileID && e.Date >= from && e.Date <= to {
			result = append(result, *e)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date < result[j].Date
		}
		if result[i].SlotType != result[j].SlotType {
			return result[i].SlotType < result[j].SlotType
		}
		return result[i].Position < result[j].Position
	})
	return result, nil
}

func (s *weeksStorage) AddEntries(ctx context.Context, entries []storage.MealEntryRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	for _, e := range entries {
		row := e
		if row.CreatedAt.IsZero() {
			row.CreatedAt = now
		}
		s.entries[row.ID] = &row
	}
	return nil
}

func (s *weeksStorage) NextPosition(ctx context.Context, ownerUserID, profileID, date, slotType string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	next := 0
	for _, e := range s.entries {
		if e.OwnerUserID == ownerUserID && e.ProfileID == profileID && e.Date == date && e.SlotType == slotType && e.Position >= next {
			next = e.Position + 1
		}
	}
	return next, nil
}

func (s *weeksStorage) DeleteEntry(ctx context.Context, ownerUserID, profileID, entryID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[entryID]
	if !ok || e.OwnerUserID != ownerUserID || e.ProfileID != profileID {
		return false, nil
	}
	delete(s.entries, entryID)
	return true, nil
}
