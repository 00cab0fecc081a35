package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/plateful/server/internal/storage"
)

type exportsStorage struct {
	pool *pgxpool.Pool
}

func newExportsStorage(pool *pgxpool.Pool) *exportsStorage {
	return &exportsStorage{pool: pool}
}

func (s *exportsStorage) CreateExport(ctx context.Context, rec *storage.ExportRecord) error {
	// Data is never persisted in Postgres mode; the artifact lives in the
	// blob store under ObjectKey.
	query := `
		INSERT INTO shopping_exports (id, owner_user_id, profile_id, plan_id, format, object_key, size_bytes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		RETURNING created_at
	`

	err := s.pool.QueryRow(ctx, query,
		rec.ID, rec.OwnerUserID, rec.ProfileID, rec.PlanID, rec.Format, rec.ObjectKey, rec.SizeBytes,
	).Scan(&rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert export: %w", err)
	}
	return nil
}

func (s *exportsStorage) GetExport(ctx context.Context, ownerUserID, id string) (storage.ExportRecord, bool, error) {
	query := `
		SELECT id, owner_user_id, profile_id, plan_id, format, object_key, size_bytes, created_at
		FROM shopping_exports
		WHERE id = $1 AND owner_user_id = $2
	`

	var rec storage.ExportRecord
	err := s.pool.QueryRow(ctx, query, id, ownerUserID).Scan(
		&rec.ID,
		&rec.OwnerUserID,
		&rec.ProfileID,
		&rec.PlanID,
		&rec.Format,
		&rec.ObjectKey,
		&rec.SizeBytes,
		&rec.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return storage.ExportRecord{}, false, nil
	}
	if err != nil {
		return storage.ExportRecord{}, false, fmt.Errorf("failed to get export: %w", err)
	}
	return rec, true, nil
}

func (s *exportsStorage) ListExports(ctx context.Context, ownerUserID, profileID string, limit int) ([]storage.ExportRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, owner_user_id, profile_id, plan_id, format, object_key, size_bytes, created_at
		FROM shopping_exports
		WHERE owner_user_id = $1 AND profile_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := s.pool.Query(ctx, query, ownerUserID, profileID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}
	defer rows.Close()

	var recs []storage.ExportRecord
	for rows.Next() {
		var rec storage.ExportRecord
		err := rows.Scan(
			&rec.ID,
			&rec.OwnerUserID,
			&rec.ProfileID,
			&rec.PlanID,
			&rec.Format,
			&rec.ObjectKey,
			&rec.SizeBytes,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan export: %w", err)
		}
		recs = append(recs, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating exports: %w", rows.Err())
	}
	return recs, nil
}
