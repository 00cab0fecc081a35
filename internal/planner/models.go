package planner

import (
	"fmt"

	"github.com/plateful/server/internal/calendar"
	"github.com/plateful/server/internal/nutrition"
)

// SlotType is one of the four fixed meal categories within a day.
// A day holds exactly one slot per type, so the type is a key.
type SlotType string

const (
	SlotMorning      SlotType = "morning"
	SlotMidday       SlotType = "midday"
	SlotEvening      SlotType = "evening"
	SlotBetweenMeals SlotType = "between_meals"
)

// SlotTypes lists the slot types in display order. Aggregations iterate
// in this order so results are deterministic.
var SlotTypes = [4]SlotType{SlotMorning, SlotMidday, SlotEvening, SlotBetweenMeals}

// ValidSlotType reports whether t is one of the four known slot types.
func ValidSlotType(t SlotType) bool {
	for _, s := range SlotTypes {
		if s == t {
			return true
		}
	}
	return false
}

// OriginKind tags where a meal entry came from.
type OriginKind string

const (
	OriginRecipe     OriginKind = "recipe"
	OriginPlanImport OriginKind = "plan_import"
	OriginCustom     OriginKind = "custom"
)

// ValidOriginKind reports whether k is a known origin kind.
func ValidOriginKind(k OriginKind) bool {
	return k == OriginRecipe || k == OriginPlanImport || k == OriginCustom
}

// MealEntry is a single meal placed into a slot. It is owned exclusively
// by the slot that holds it; removing it from the slot destroys it.
type MealEntry struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	OriginRef  string            `json:"origin_ref,omitempty"`
	OriginKind OriginKind        `json:"origin_kind"`
	Servings   float64           `json:"servings"`
	Nutrition  nutrition.Profile `json:"nutrition"`
}

// Slot holds an ordered list of meals for one slot type. Insertion order
// is display order; duplicates by name are allowed and never merged.
type Slot struct {
	Type  SlotType    `json:"type"`
	Meals []MealEntry `json:"meals"`
}

// Day is one calendar day: a YYYY-MM-DD date key (the sole identity
// field) plus exactly the four slots, in SlotTypes order.
type Day struct {
	Date  string `json:"date"`
	Slots []Slot `json:"slots"`
}

// Week is seven consecutive days starting on a Monday.
type Week struct {
	StartDate string `json:"start_date"`
	Days      []Day  `json:"days"`
}

// AddMealRequest is the inbound shape for placing a meal at a
// (date, slot-type) coordinate.
type AddMealRequest struct {
	ProfileID  string            `json:"profile_id"`
	Date       string            `json:"date"`
	SlotType   SlotType          `json:"slot_type"`
	Name       string            `json:"name"`
	OriginRef  string            `json:"origin_ref"`
	OriginKind OriginKind        `json:"origin_kind"`
	Servings   float64           `json:"servings"`
	Nutrition  nutrition.Profile `json:"nutrition"`
}

func (r *AddMealRequest) Validate() error {
	if r.ProfileID == "" {
		return fmt.Errorf("profile_id is required")
	}
	if _, err := calendar.ParseDateKey(r.Date); err != nil {
		return fmt.Errorf("date: %w", err)
	}
	if !ValidSlotType(r.SlotType) {
		return fmt.Errorf("invalid slot_type %q", r.SlotType)
	}
	if len(r.Name) < 1 || len(r.Name) > 200 {
		return fmt.Errorf("name must be between 1 and 200 characters")
	}
	if r.OriginKind == "" {
		r.OriginKind = OriginCustom
	}
	if !ValidOriginKind(r.OriginKind) {
		return fmt.Errorf("invalid origin_kind %q", r.OriginKind)
	}
	if r.Servings < 0.5 {
		return fmt.Errorf("servings must be at least 0.5")
	}
	return nil
}

// WeekSummary is the nutrition rollup returned alongside a week.
type WeekSummary struct {
	StartDate       string            `json:"start_date"`
	Total           nutrition.Profile `json:"total"`
	DailyAverage    nutrition.Profile `json:"daily_average"`
	DailyAverageRaw nutrition.Profile `json:"daily_average_raw"`
	DaysWithMeals   int               `json:"days_with_meals"`
	Days            []DaySummary      `json:"days"`
}

// DaySummary is the per-day rollup inside a WeekSummary.
type DaySummary struct {
	Date  string            `json:"date"`
	Total nutrition.Profile `json:"total"`
}

// GetWeekResponse is the payload for GET /v1/planner/week.
type GetWeekResponse struct {
	Week    Week        `json:"week"`
	Summary WeekSummary `json:"summary"`
}
