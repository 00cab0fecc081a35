package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/plateful/server/internal/storage"
)

type plansStorage struct {
	mu          sync.RWMutex
	plans       map[string]*storage.PrepPlan // key: plan_id
	itemsByPlan map[string][]storage.PrepPlanItem
}

func newPlansStorage() *plansStorage {
	return &plansStorage{
		plans:       make(map[string]*storage.PrepPlan),
		itemsByPlan: make(map[string][]storage.PrepPlanItem),
	}
}

func (s *plansStorage) CreatePlan(ctx context.Context, plan *storage.PrepPlan, items []storage.PrepPlanItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	plan.CreatedAt = now

	stored := *plan
	s.plans[stored.ID] = &stored

	copied := make([]storage.PrepPlanItem, len(items))
	for i, item := range items {
		item.CreatedAt = now
		copied[i] = item
	}
	s.itemsByPlan[stored.ID] = copied
	return nil
}

func (s *plansStorage) GetPlan(ctx context.Context, ownerUserID, planID string) (storage.PrepPlan, []storage.PrepPlanItem, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plan, ok := s.plans[planID]
	if !ok || plan.OwnerUserID != ownerUserID {
		return storage.PrepPlan{}, nil, false, nil
	}

	items := make([]storage.PrepPlanItem, len(s.itemsByPlan[planID]))
	copy(items, s.itemsByPlan[planID])
	sort.Slice(items, func(i, j int) bool {
		if items[i].DayOffset != items[j].DayOffset {
			return items[i].DayOffset < items[j].DayOffset
		}
		if items[i].SlotType != items[j].SlotType {
			return items[i].SlotType < items[j].SlotType
		}
		return items[i].Position < items[j].Position
	})

	return *plan, items, true, nil
}

func (s *plansStorage) ListPlans(ctx context.Context, ownerUserID, profileID string) ([]storage.PrepPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []storage.PrepPlan
	for _, p := range s.plans {
		if p.OwnerUserID == ownerUserID && p.ProfileID == profileID {
			result = append(result, *p)
		}
	}

	// newest first
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *plansStorage) DeletePlan(ctx context.Context, ownerUserID, planID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan, ok := s.plans[planID]
	if !ok || plan.OwnerUserID != ownerUserID {
		return false, nil
	}
	delete(s.plans, planID)
	delete(s.itemsByPlan, planID)
	return true, nil
}
