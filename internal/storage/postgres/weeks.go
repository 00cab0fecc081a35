package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/plateful/server/internal/storage"
)

type weeksStorage struct {
	pool *pgxpool.Pool
}

func newWeeksStorage(pool *pgxpool.Pool) *weeksStorage {
	return &weeksStorage{pool: pool}
}

func (s *weeksStorage) ListEntries(ctx context.Context, ownerUserID, profileID, from, to string) ([]storage.MealEntryRow, error) {
	query := `
		SELECT id, owner_user_id, profile_id, date, slot_type, position, name,
		       origin_ref, origin_kind, servings, kcal, protein_g, carbs_g, fat_g, created_at
		FROM meal_entries
		WHERE owner_user_id = $1 AND profile_id = $2 AND date >= $3 AND date <= $4
		ORDER BY date, slot_type, position
	`

	rows, err := s.pool.Query(ctx, query, ownerUserID, profileID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list meal entries: %w", err)
	}
	defer rows.Close()

	var entries []storage.MealEntryRow
	for rows.Next() {
		var e storage.MealEntryRow
		err := rows.Scan(
			&e.ID,
			&e.OwnerUserID,
			&e.ProfileID,
			&e.Date,
			&e.SlotType,
			&e.Position,
			&e.Name,
			&e.OriginRef,
			&e.OriginKind,
			&e.Servings,
			&e.Kcal,
			&e.ProteinG,
			&e.CarbsG,
			&e.FatG,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal entry: %w", err)
		}
		entries = append(entries, e)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating meal entries: %w", rows.Err())
	}
	return entries, nil
}

func (s *weeksStorage) AddEntries(ctx context.Context, entries []storage.MealEntryRow) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insertQuery := `
		INSERT INTO meal_entries (id, owner_user_id, profile_id, date, slot_type, position, name,
		                          origin_ref, origin_kind, servings, kcal, protein_g, carbs_g, fat_g, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, now())
	`

	for _, e := range entries {
		_, err = tx.Exec(ctx, insertQuery,
			e.ID, e.OwnerUserID, e.ProfileID, e.Date, e.SlotType, e.Position, e.Name,
			e.OriginRef, e.OriginKind, e.Servings, e.Kcal, e.ProteinG, e.CarbsG, e.FatG,
		)
		if err != nil {
			return fmt.Errorf("failed to insert meal entry: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit meal entries: %w", err)
	}
	return nil
}

func (s *weeksStorage) NextPosition(ctx context.Context, ownerUserID, profileID, date, slotType string) (int, error) {
	query := `
		SELECT COALESCE(MAX(position) + 1, 0)
		FROM meal_entries
		WHERE owner_user_id = $1 AND profile_id = $2 AND date = $3 AND slot_type = $4
	`

	var next int
	err := s.pool.QueryRow(ctx, query, ownerUserID, profileID, date, slotType).Scan(&next)
	if err != nil && err != pgx.ErrNoRows {
		return 0, fmt.Errorf("failed to get next position: %w", err)
	}
	return next, nil
}

func (s *weeksStorage) DeleteEntry(ctx context.Context, ownerUserID, profileID, entryID string) (bool, error) {
	query := `
		DELETE FROM meal_entries
		WHERE id = $1 AND owner_user_id = $2 AND profile_id = $3
	`

	tag, err := s.pool.Exec(ctx, query, entryID, ownerUserID, profileID)
	if err != nil {
		return false, fmt.Errorf("failed to delete meal entry: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
