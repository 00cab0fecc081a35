package mealpreps

import (
	"fmt"
	"time"

	"github.com/plateful/server/internal/nutrition"
	"github.com/plateful/server/internal/planner"
)

// MaxPlanDays caps a prep plan's length. Anything longer than two weeks
// cannot land inside a single planner week anyway.
const MaxPlanDays = 14

// IngredientLine is one ingredient of a plan meal. Quantity is expressed
// in Unit; units are opaque labels and never converted.
type IngredientLine struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// PlanMeal is one meal inside a prep plan day.
type PlanMeal struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Servings    float64           `json:"servings"`
	Nutrition   nutrition.Profile `json:"nutrition"`
	Ingredients []IngredientLine  `json:"ingredients"`
}

// PlanSlot holds the ordered meals of one slot type within a plan day.
type PlanSlot struct {
	Type  planner.SlotType `json:"type"`
	Meals []PlanMeal       `json:"meals"`
}

// PlanDay is one day of a plan. Days carry no calendar date; their
// position in the plan is their zero-based offset.
type PlanDay struct {
	Slots []PlanSlot `json:"slots"`
}

// Plan is a reusable, calendar-agnostic multi-day meal schedule.
type Plan struct {
	ID        string    `json:"id"`
	ProfileID string    `json:"profile_id"`
	Name      string    `json:"name"`
	Days      []PlanDay `json:"days"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPlanDay returns a plan day with all four slots present and empty.
func NewPlanDay() PlanDay {
	slots := make([]PlanSlot, len(planner.SlotTypes))
	for i, t := range planner.SlotTypes {
		slots[i] = PlanSlot{Type: t, Meals: []PlanMeal{}}
	}
	return PlanDay{Slots: slots}
}

// Slot returns the day's slot of the given type, or nil for an unknown type.
func (d *PlanDay) Slot(t planner.SlotType) *PlanSlot {
	for i := range d.Slots {
		if d.Slots[i].Type == t {
			return &d.Slots[i]
		}
	}
	return nil
}

// CreatePlanRequest is the inbound shape for authoring a plan.
type CreatePlanRequest struct {
	ProfileID string          `json:"profile_id"`
	Name      string          `json:"name"`
	Days      []CreatePlanDay `json:"days"`
}

// CreatePlanDay mirrors PlanDay for input; absent slots mean empty.
type CreatePlanDay struct {
	Slots []CreatePlanSlot `json:"slots"`
}

type CreatePlanSlot struct {
	Type  planner.SlotType `json:"type"`
	Meals []CreatePlanMeal `json:"meals"`
}

type CreatePlanMeal struct {
	Name        string            `json:"name"`
	Servings    float64           `json:"servings"`
	Nutrition   nutrition.Profile `json:"nutrition"`
	Ingredients []IngredientLine  `json:"ingredients"`
}

func (r *CreatePlanRequest) Validate() error {
	if r.ProfileID == "" {
		return fmt.Errorf("profile_id is required")
	}
	if len(r.Name) < 1 || len(r.Name) > 200 {
		return fmt.Errorf("name must be between 1 and 200 characters")
	}
	if len(r.Days) < 1 {
		return fmt.Errorf("plan must have at least one day")
	}
	if len(r.Days) > MaxPlanDays {
		return fmt.Errorf("plan cannot exceed %d days", MaxPlanDays)
	}

	for di, day := range r.Days {
		seen := map[planner.SlotType]bool{}
		for si, slot := range day.Slots {
			if !planner.ValidSlotType(slot.Type) {
				return fmt.Errorf("day %d slot %d: invalid slot type %q", di, si, slot.Type)
			}
			if seen[slot.Type] {
				return fmt.Errorf("day %d: duplicate slot type %q", di, slot.Type)
			}
			seen[slot.Type] = true

			for mi := range slot.Meals {
				meal := &slot.Meals[mi]
				if len(meal.Name) < 1 || len(meal.Name) > 200 {
					return fmt.Errorf("day %d %s meal %d: name must be between 1 and 200 characters", di, slot.Type, mi)
				}
				if meal.Servings == 0 {
					meal.Servings = 1
				}
				if meal.Servings < 0.5 {
					return fmt.Errorf("day %d %s meal %d: servings must be at least 0.5", di, slot.Type, mi)
				}
				for ii, ing := range meal.Ingredients {
					if ing.Name == "" {
						return fmt.Errorf("day %d %s meal %d ingredient %d: name is required", di, slot.Type, mi, ii)
					}
					if ing.Quantity < 0 {
						return fmt.Errorf("day %d %s meal %d ingredient %d: quantity cannot be negative", di, slot.Type, mi, ii)
					}
				}
			}
		}
	}
	return nil
}

// PlanSummary is the nutrition rollup for a plan.
type PlanSummary struct {
	PlanID          string            `json:"plan_id"`
	Total           nutrition.Profile `json:"total"`
	DailyAverage    nutrition.Profile `json:"daily_average"`
	DailyAverageRaw nutrition.Profile `json:"daily_average_raw"`
	DayCount        int               `json:"day_count"`
	Days            []DaySummary      `json:"days"`
}

// DaySummary is the per-day rollup inside a PlanSummary.
type DaySummary struct {
	DayOffset int               `json:"day_offset"`
	Total     nutrition.Profile `json:"total"`
}

// ShoppingLine is one aggregated ingredient line.
type ShoppingLine struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// ShoppingListResponse is the payload for the shopping list endpoint.
type ShoppingListResponse struct {
	PlanID string         `json:"plan_id"`
	Lines  []ShoppingLine `json:"lines"`
}

// ImportRequest is the inbound shape for importing a plan into the
// calendar at an anchor date.
type ImportRequest struct {
	ProfileID string `json:"profile_id"`
	PlanID    string `json:"plan_id"`
	Date      string `json:"date"`
}

// ImportResponse reports where the plan landed.
type ImportResponse struct {
	PlanID        string `json:"plan_id"`
	WeekStart     string `json:"week_start"`
	AnchorDate    string `json:"anchor_date"`
	ImportedMeals int    `json:"imported_meals"`
	DaysApplied   int    `json:"days_applied"`
	DaysDropped   int    `json:"days_dropped"`
}
