package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/plateful/server/internal/storage"
)

// PostgresStorage — Postgres реализация всех storage интерфейсов.
type PostgresStorage struct {
	pool    *pgxpool.Pool
	weeks   *weeksStorage
	plans   *plansStorage
	exports *exportsStorage
}

// New создаёт PostgresStorage и проверяет соединение.
func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	return &PostgresStorage{
		pool:    pool,
		weeks:   newWeeksStorage(pool),
		plans:   newPlansStorage(pool),
		exports: newExportsStorage(pool),
	}, nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

// === WeeksStorage delegation ===

func (p *PostgresStorage) ListEntries(ctx context.Context, ownerUserID, profileID, from, to string) ([]storage.MealEntryRow, error) {
	return p.weeks.ListEntries(ctx, ownerUserID, profileID, from, to)
}

func (p *PostgresStorage) AddEntries(ctx context.Context, entries []storage.MealEntryRow) error {
	return p.weeks.AddEntries(ctx, entries)
}

func (p *PostgresStorage) NextPosition(ctx context.Context, ownerUserID, profileID, date, slotType string) (int, error) {
	return p.weeks.NextPosition(ctx, ownerUserID, profileID, date, slotType)
}

func (p *PostgresStorage) DeleteEntry(ctx context.Context, ownerUserID, profileID, entryID string) (bool, error) {
	return p.weeks.DeleteEntry(ctx, ownerUserID, profileID, entryID)
}

// === PlansStorage delegation ===

func (p *PostgresStorage) CreatePlan(ctx context.Context, plan *storage.PrepPlan, items []storage.PrepPlanItem) error {
	return p.plans.CreatePlan(ctx, plan, items)
}

func (p *PostgresStorage) GetPlan(ctx context.Context, ownerUserID, planID string) (storage.PrepPlan, []storage.PrepPlanItem, bool, error) {
	return p.plans.GetPlan(ctx, ownerUserID, planID)
}

func (p *PostgresStorage) ListPlans(ctx context.Context, ownerUserID, profileID string) ([]storage.PrepPlan, error) {
	return p.plans.ListPlans(ctx, ownerUserID, profileID)
}

func (p *PostgresStorage) DeletePlan(ctx context.Context, ownerUserID, planID string) (bool, error) {
	return p.plans.DeletePlan(ctx, ownerUserID, planID)
}

// === ExportsStorage delegation ===

func (p *PostgresStorage) CreateExport(ctx context.Context, rec *storage.ExportRecord) error {
	return p.exports.CreateExport(ctx, rec)
}

func (p *PostgresStorage) GetExport(ctx context.Context, ownerUserID, id string) (storage.ExportRecord, bool, error) {
	return p.exports.GetExport(ctx, ownerUserID, id)
}

func (p *PostgresStorage) ListExports(ctx context.Context, ownerUserID, profileID string, limit int) ([]storage.ExportRecord, error) {
	return p.exports.ListExports(ctx, ownerUserID, profileID, limit)
}
