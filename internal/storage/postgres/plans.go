package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/plateful/server/internal/storage"
)

type plansStorage struct {
	pool *pgxpool.Pool
}

func newPlansStorage(pool *pgxpool.Pool) *plansStorage {
	return &plansStorage{pool: pool}
}

func (s *plansStorage) CreatePlan(ctx context.Context, plan *storage.PrepPlan, items []storage.PrepPlanItem) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	planQuery := `
		INSERT INTO prep_plans (id, owner_user_id, profile_id, name, day_count, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
		RETURNING created_at
	`
	err = tx.QueryRow(ctx, planQuery,
		plan.ID, plan.OwnerUserID, plan.ProfileID, plan.Name, plan.DayCount,
	).Scan(&plan.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert prep plan: %w", err)
	}

	itemQuery := `
		INSERT INTO prep_plan_items (id, plan_id, day_offset, slot_type, position, name,
		                             servings, kcal, protein_g, carbs_g, fat_g, ingredients, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now())
	`
	for _, item := range items {
		_, err = tx.Exec(ctx, itemQuery,
			item.ID, plan.ID, item.DayOffset, item.SlotType, item.Position, item.Name,
			item.Servings, item.Kcal, item.ProteinG, item.CarbsG, item.FatG, item.Ingredients,
		)
		if err != nil {
			return fmt.Errorf("failed to insert prep plan item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit prep plan: %w", err)
	}
	return nil
}

func (s *plansStorage) GetPlan(ctx context.Context, ownerUserID, planID string) (storage.PrepPlan, []storage.PrepPlanItem, bool, error) {
	planQuery := `
		SELECT id, owner_user_id, profile_id, name, day_count, created_at
		FROM prep_plans
		WHERE id = $1 AND owner_user_id = $2
	`

	var plan storage.PrepPlan
	err := s.pool.QueryRow(ctx, planQuery, planID, ownerUserID).Scan(
		&plan.ID,
		&plan.OwnerUserID,
		&plan.ProfileID,
		&plan.Name,
		&plan.DayCount,
		&plan.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return storage.PrepPlan{}, nil, false, nil
	}
	if err != nil {
		return storage.PrepPlan{}, nil, false, fmt.Errorf("failed to get prep plan: %w", err)
	}

	itemsQuery := `
		SELECT id, plan_id, day_offset, slot_type, position, name,
		       servings, kcal, protein_g, carbs_g, fat_g, ingredients, created_at
		FROM prep_plan_items
		WHERE plan_id = $1
		ORDER BY day_offset, slot_type, position
	`

	rows, err := s.pool.Query(ctx, itemsQuery, plan.ID)
	if err != nil {
		return storage.PrepPlan{}, nil, false, fmt.Errorf("failed to get prep plan items: %w", err)
	}
	defer rows.Close()

	var items []storage.PrepPlanItem
	for rows.Next() {
		var item storage.PrepPlanItem
		err := rows.Scan(
			&item.ID,
			&item.PlanID,
			&item.DayOffset,
			&item.SlotType,
			&item.Position,
			&item.Name,
			&item.Servings,
			&item.Kcal,
			&item.ProteinG,
			&item.CarbsG,
			&item.FatG,
			&item.Ingredients,
			&item.CreatedAt,
		)
		if err != nil {
			return storage.PrepPlan{}, nil, false, fmt.Errorf("failed to scan prep plan item: %w", err)
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return storage.PrepPlan{}, nil, false, fmt.Errorf("error iterating prep plan items: %w", rows.Err())
	}

	return plan, items, true, nil
}

func (s *plansStorage) ListPlans(ctx context.Context, ownerUserID, profileID string) ([]storage.PrepPlan, error) {
	query := `
		SELECT id, owner_user_id, profile_id, name, day_count, created_at
		FROM prep_plans
		WHERE owner_user_id = $1 AND profile_id = $2
		ORDER BY created_at DESC
	`

	rows, err := s.pool.Query(ctx, query, ownerUserID, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prep plans: %w", err)
	}
	defer rows.Close()

	var plans []storage.PrepPlan
	for rows.Next() {
		var plan storage.PrepPlan
		err := rows.Scan(
			&plan.ID,
			&plan.OwnerUserID,
			&plan.ProfileID,
			&plan.Name,
			&plan.DayCount,
			&plan.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prep plan: %w", err)
		}
		plans = append(plans, plan)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating prep plans: %w", rows.Err())
	}
	return plans, nil
}

func (s *plansStorage) DeletePlan(ctx context.Context, ownerUserID, planID string) (bool, error) {
	// items go via ON DELETE CASCADE
	query := `
		DELETE FROM prep_plans
		WHERE id = $1 AND owner_user_id = $2
	`

	tag, err := s.pool.Exec(ctx, query, planID, ownerUserID)
	if err != nil {
		return false, fmt.Errorf("failed to delete prep plan: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
