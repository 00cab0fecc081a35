package memory

import (
	"context"

	"github.com/plateful/server/internal/storage"
)

// MemoryStorage — in-memory реализация всех storage интерфейсов.
// Used when DATABASE_URL is not configured; data lives for the process
// lifetime only.
type MemoryStorage struct {
	weeks   *weeksStorage
	plans   *plansStorage
	exports *exportsStorage
}

// New создаёт новый MemoryStorage.
func New() *MemoryStorage {
	return &MemoryStorage{
		weeks:   newWeeksStorage(),
		plans:   newPlansStorage(),
		exports: newExportsStorage(),
	}
}

func (m *MemoryStorage) Close() error {
	return nil
}

// === WeeksStorage delegation ===

func (m *MemoryStorage) ListEntries(ctx context.Context, ownerUserID, profileID, from, to string) ([]storage.MealEntryRow, error) {
	return m.weeks.ListEntries(ctx, ownerUserID, profileID, from, to)
}

func (m *MemoryStorage) AddEntries(ctx context.Context, entries []storage.MealEntryRow) error {
	return m.weeks.AddEntries(ctx, entries)
}

func (m *MemoryStorage) NextPosition(ctx context.Context, ownerUserID, profileID, date, slotType string) (int, error) {
	return m.weeks.NextPosition(ctx, ownerUserID, profileID, date, slotType)
}

func (m *MemoryStorage) DeleteEntry(ctx context.Context, ownerUserID, profileID, entryID string) (bool, error) {
	return m.weeks.DeleteEntry(ctx, ownerUserID, profileID, entryID)
}

// === PlansStorage delegation ===

func (m *MemoryStorage) CreatePlan(ctx context.Context, plan *storage.PrepPlan, items []storage.PrepPlanItem) error {
	return m.plans.CreatePlan(ctx, plan, items)
}

func (m *MemoryStorage) GetPlan(ctx context.Context, ownerUserID, planID string) (storage.PrepPlan, []storage.PrepPlanItem, bool, error) {
	return m.plans.GetPlan(ctx, ownerUserID, planID)
}

func (m *MemoryStorage) ListPlans(ctx context.Context, ownerUserID, profileID string) ([]storage.PrepPlan, error) {
	return m.plans.ListPlans(ctx, ownerUserID, profileID)
}

func (m *MemoryStorage) DeletePlan(ctx context.Context, ownerUserID, planID string) (bool, error) {
	return m.plans.DeletePlan(ctx, ownerUserID, planID)
}

// === ExportsStorage delegation ===

func (m *MemoryStorage) CreateExport(ctx context.Context, rec *storage.ExportRecord) error {
	return m.exports.CreateExport(ctx, rec)
}

func (m *MemoryStorage) GetExport(ctx context.Context, ownerUserID, id string) (storage.ExportRecord, bool, error) {
	return m.exports.GetExport(ctx, ownerUserID, id)
}

func (m *MemoryStorage) ListExports(ctx context.Context, ownerUserID, profileID string, limit int) ([]storage.ExportRecord, error) {
	return m.exports.ListExports(ctx, ownerUserID, profileID, limit)
}
