package mealpreps

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/plateful/server/internal/calendar"
	"github.com/plateful/server/internal/ids"
	"github.com/plateful/server/internal/nutrition"
	"github.com/plateful/server/internal/planner"
	"github.com/plateful/server/internal/storage"
)

// Service handles meal prep plan business logic.
type Service struct {
	storage storage.PlansStorage
	planner *planner.Service
	ids     ids.Generator
}

// NewService creates a new meal preps service.
func NewService(storage storage.PlansStorage, plannerService *planner.Service, gen ids.Generator) *Service {
	return &Service{storage: storage, planner: plannerService, ids: gen}
}

// PlanInfo is the list-view shape of a plan, without its days.
type PlanInfo struct {
	ID        string `json:"id"`
	ProfileID string `json:"profile_id"`
	Name      string `json:"name"`
	DayCount  int    `json:"day_count"`
	CreatedAt string `json:"created_at"`
}

// Create validates and persists a new plan and returns it with assigned ids.
func (s *Service) Create(ctx context.Context, ownerUserID string, req CreatePlanRequest) (Plan, error) {
	if err := req.Validate(); err != nil {
		return Plan{}, fmt.Errorf("validation failed: %w", err)
	}

	plan := Plan{
		ID:        s.ids.NewID(),
		ProfileID: req.ProfileID,
		Name:      req.Name,
		Days:      make([]PlanDay, len(req.Days)),
	}

	var items []storage.PrepPlanItem
	for di, reqDay := range req.Days {
		day := NewPlanDay()
		for _, reqSlot := range reqDay.Slots {
			slot := day.Slot(reqSlot.Type)
			for pos, reqMeal := range reqSlot.Meals {
				meal := PlanMeal{
					ID:          s.ids.NewID(),
					Name:        reqMeal.Name,
					Servings:    reqMeal.Servings,
					Nutrition:   reqMeal.Nutrition,
					Ingredients: reqMeal.Ingredients,
				}
				if meal.Ingredients == nil {
					meal.Ingredients = []IngredientLine{}
				}
				slot.Meals = append(slot.Meals, meal)

				item, err := itemFromMeal(plan.ID, di, reqSlot.Type, pos, meal)
				if err != nil {
					return Plan{}, err
				}
				items = append(items, item)
			}
		}
		plan.Days[di] = day
	}

	rec := storage.PrepPlan{
		ID:          plan.ID,
		OwnerUserID: ownerUserID,
		ProfileID:   plan.ProfileID,
		Name:        plan.Name,
		DayCount:    len(plan.Days),
	}
	if err := s.storage.CreatePlan(ctx, &rec, items); err != nil {
		return Plan{}, fmt.Errorf("create plan: %w", err)
	}

	plan.CreatedAt = rec.CreatedAt
	return plan, nil
}

// Get returns a plan with its full day structure. bool=false means not found.
func (s *Service) Get(ctx context.Context, ownerUserID, planID string) (Plan, bool, error) {
	rec, items, found, err := s.storage.GetPlan(ctx, ownerUserID, planID)
	if err != nil {
		return Plan{}, false, fmt.Errorf("get plan: %w", err)
	}
	if !found {
		return Plan{}, false, nil
	}

	plan, err := planFromRows(rec, items)
	if err != nil {
		return Plan{}, false, err
	}
	return plan, true, nil
}

// List returns the owner's plans for a profile, newest first.
func (s *Service) List(ctx context.Context, ownerUserID, profileID string) ([]PlanInfo, error) {
	recs, err := s.storage.ListPlans(ctx, ownerUserID, profileID)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}

	infos := make([]PlanInfo, len(recs))
	for i, rec := range recs {
		infos[i] = PlanInfo{
			ID:        rec.ID,
			ProfileID: rec.ProfileID,
			Name:      rec.Name,
			DayCount:  rec.DayCount,
			CreatedAt: rec.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		}
	}
	return infos, nil
}

// Delete removes a plan. Returns false when the id is unknown. Meals
// already imported from the plan stay on the calendar.
func (s *Service) Delete(ctx context.Context, ownerUserID, planID string) (bool, error) {
	return s.storage.DeletePlan(ctx, ownerUserID, planID)
}

// Summary returns the nutrition rollup for a plan.
func (s *Service) Summary(ctx context.Context, ownerUserID, planID string) (PlanSummary, bool, error) {
	plan, found, err := s.Get(ctx, ownerUserID, planID)
	if err != nil || !found {
		return PlanSummary{}, found, err
	}
	return Summarize(plan), true, nil
}

// ShoppingList returns the aggregated ingredient lines for a plan.
func (s *Service) ShoppingList(ctx context.Context, ownerUserID, planID string) ([]ShoppingLine, bool, error) {
	plan, found, err := s.Get(ctx, ownerUserID, planID)
	if err != nil || !found {
		return nil, found, err
	}
	return AggregateIngredients(plan), true, nil
}

// Import materializes a plan onto the calendar starting at the anchor
// date and merges it into the week containing that date. The merge is
// additive, so importing the same plan twice doubles its meals.
func (s *Service) Import(ctx context.Context, ownerUserID string, req ImportRequest) (ImportResponse, error) {
	if req.ProfileID == "" {
		return ImportResponse{}, fmt.Errorf("validation failed: profile_id is required")
	}
	if req.PlanID == "" {
		return ImportResponse{}, fmt.Errorf("validation failed: plan_id is required")
	}
	anchor, err := calendar.ParseDateKey(req.Date)
	if err != nil {
		return ImportResponse{}, fmt.Errorf("validation failed: date: %w", err)
	}

	plan, found, err := s.Get(ctx, ownerUserID, req.PlanID)
	if err != nil {
		return ImportResponse{}, err
	}
	if !found {
		return ImportResponse{}, fmt.Errorf("plan not found")
	}

	days, dropped := ImportPlanToWeek(plan, anchor, s.ids)
	imported, err := s.planner.ImportDays(ctx, ownerUserID, req.ProfileID, days)
	if err != nil {
		return ImportResponse{}, err
	}

	return ImportResponse{
		PlanID:        plan.ID,
		WeekStart:     calendar.DateKey(calendar.WeekStart(anchor)),
		AnchorDate:    req.Date,
		ImportedMeals: imported,
		DaysApplied:   len(days),
		DaysDropped:   dropped,
	}, nil
}

func itemFromMeal(planID string, dayOffset int, slotType planner.SlotType, position int, meal PlanMeal) (storage.PrepPlanItem, error) {
	ingredients, err := json.Marshal(meal.Ingredients)
	if err != nil {
		return storage.PrepPlanItem{}, fmt.Errorf("marshal ingredients: %w", err)
	}
	return storage.PrepPlanItem{
		ID:          meal.ID,
		PlanID:      planID,
		DayOffset:   dayOffset,
		SlotType:    string(slotType),
		Position:    position,
		Name:        meal.Name,
		Servings:    meal.Servings,
		Kcal:        meal.Nutrition.Kcal,
		ProteinG:    meal.Nutrition.ProteinG,
		CarbsG:      meal.Nutrition.CarbsG,
		FatG:        meal.Nutrition.FatG,
		Ingredients: ingredients,
	}, nil
}

func planFromRows(rec storage.PrepPlan, items []storage.PrepPlanItem) (Plan, error) {
	plan := Plan{
		ID:        rec.ID,
		ProfileID: rec.ProfileID,
		Name:      rec.Name,
		Days:      make([]PlanDay, rec.DayCount),
		CreatedAt: rec.CreatedAt,
	}
	for i := range plan.Days {
		plan.Days[i] = NewPlanDay()
	}

	for _, item := range items {
		if item.DayOffset < 0 || item.DayOffset >= len(plan.Days) {
			continue
		}
		slot := plan.Days[item.DayOffset].Slot(planner.SlotType(item.SlotType))
		if slot == nil {
			continue
		}

		var ingredients []IngredientLine
		if len(item.Ingredients) > 0 {
			if err := json.Unmarshal(item.Ingredients, &ingredients); err != nil {
				return Plan{}, fmt.Errorf("unmarshal ingredients for item %s: %w", item.ID, err)
			}
		}
		if ingredients == nil {
			ingredients = []IngredientLine{}
		}

		slot.Meals = append(slot.Meals, PlanMeal{
			ID:       item.ID,
			Name:     item.Name,
			Servings: item.Servings,
			Nutrition: nutrition.Profile{
				Kcal:     item.Kcal,
				ProteinG: item.ProteinG,
				CarbsG:   item.CarbsG,
				FatG:     item.FatG,
			},
			Ingredients: ingredients,
		})
	}
	return plan, nil
}
