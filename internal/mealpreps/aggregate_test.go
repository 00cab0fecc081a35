package mealpreps

import (
	"math"
	"testing"

	"github.com/plateful/server/internal/nutrition"
	"github.com/plateful/server/internal/planner"
)

func planWithMeals(t *testing.T, dayCount int, place func(days []PlanDay)) Plan {
	t.Helper()
	days := make([]PlanDay, dayCount)
	for i := range days {
		days[i] = NewPlanDay()
	}
	place(days)
	return Plan{ID: "plan1", ProfileID: "p1", Name: "Test plan", Days: days}
}

func TestPlanDailyAverageCountsDeclaredDays(t *testing.T) {
	// 600 kcal on day 0 of a three-day plan: the average divides by the
	// declared length, not by days that happen to hold meals.
	plan := planWithMeals(t, 3, func(days []PlanDay) {
		slot := days[0].Slot(planner.SlotMorning)
		slot.Meals = append(slot.Meals, PlanMeal{ID: "m1", Name: "Big breakfast", Servings: 1, Nutrition: nutrition.Profile{Kcal: 600}})
	})

	avg := PlanDailyAverage(plan)
	if avg.Kcal != 200 {
		t.Errorf("expected average 200 kcal, got %v", avg.Kcal)
	}
}

func TestPlanNutritionTotal(t *testing.T) {
	plan := planWithMeals(t, 2, func(days []PlanDay) {
		days[0].Slot(planner.SlotMorning).Meals = append(days[0].Slot(planner.SlotMorning).Meals,
			PlanMeal{ID: "m1", Servings: 1, Nutrition: nutrition.Profile{Kcal: 300, ProteinG: 20}})
		days[1].Slot(planner.SlotEvening).Meals = append(days[1].Slot(planner.SlotEvening).Meals,
			PlanMeal{ID: "m2", Servings: 1, Nutrition: nutrition.Profile{Kcal: 500, FatG: 15}})
	})

	total := PlanNutrition(plan)
	if total.Kcal != 800 || total.ProteinG != 20 || total.FatG != 15 {
		t.Errorf("unexpected total: %+v", total)
	}
}

func TestSummarizeRawAndRounded(t *testing.T) {
	plan := planWithMeals(t, 3, func(days []PlanDay) {
		days[0].Slot(planner.SlotMidday).Meals = append(days[0].Slot(planner.SlotMidday).Meals,
			PlanMeal{ID: "m1", Servings: 1, Nutrition: nutrition.Profile{Kcal: 100}})
	})

	summary := Summarize(plan)
	if summary.DayCount != 3 {
		t.Fatalf("expected day count 3, got %d", summary.DayCount)
	}
	if math.Abs(summary.DailyAverageRaw.Kcal-100.0/3.0) > 1e-9 {
		t.Errorf("raw average not preserved: %v", summary.DailyAverageRaw.Kcal)
	}
	if summary.DailyAverage.Kcal != 33 {
		t.Errorf("expected rounded average 33, got %v", summary.DailyAverage.Kcal)
	}
	if len(summary.Days) != 3 || summary.Days[0].Total.Kcal != 100 || !summary.Days[1].Total.IsZero() {
		t.Errorf("unexpected day summaries: %+v", summary.Days)
	}
}

func TestAggregateIngredientsSumsByNameAndUnit(t *testing.T) {
	plan := planWithMeals(t, 2, func(days []PlanDay) {
		days[0].Slot(planner.SlotMorning).Meals = append(days[0].Slot(planner.SlotMorning).Meals,
			PlanMeal{ID: "m1", Name: "Omelette", Servings: 1, Ingredients: []IngredientLine{
				{Name: "Eggs", Quantity: 3, Unit: "pieces"},
				{Name: "Butter", Quantity: 10, Unit: "g"},
			}})
		days[1].Slot(planner.SlotMorning).Meals = append(days[1].Slot(planner.SlotMorning).Meals,
			PlanMeal{ID: "m2", Name: "Scramble", Servings: 1, Ingredients: []IngredientLine{
				{Name: "Eggs", Quantity: 4, Unit: "pieces"},
			}})
	})

	lines := AggregateIngredients(plan)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %+v", len(lines), lines)
	}
	if lines[0].Name != "Eggs" || lines[0].Quantity != 7 || lines[0].Unit != "pieces" {
		t.Errorf("unexpected eggs line: %+v", lines[0])
	}
	if lines[1].Name != "Butter" || lines[1].Quantity != 10 {
		t.Errorf("unexpected butter line: %+v", lines[1])
	}
}

func TestAggregateIngredientsKeepsUnitsSeparate(t *testing.T) {
	plan := planWithMeals(t, 1, func(days []PlanDay) {
		days[0].Slot(planner.SlotMidday).Meals = append(days[0].Slot(planner.SlotMidday).Meals,
			PlanMeal{ID: "m1", Name: "Rice bowl", Servings: 1, Ingredients: []IngredientLine{
				{Name: "Rice", Quantity: 200, Unit: "g"},
				{Name: "Rice", Quantity: 1, Unit: "cups"},
			}})
	})

	lines := AggregateIngredients(plan)
	if len(lines) != 2 {
		t.Fatalf("same name in different units must not merge, got %+v", lines)
	}
}

func TestAggregateIngredientsRoundsToOneDecimal(t *testing.T) {
	plan := planWithMeals(t, 1, func(days []PlanDay) {
		days[0].Slot(planner.SlotEvening).Meals = append(days[0].Slot(planner.SlotEvening).Meals,
			PlanMeal{ID: "m1", Name: "Dressing", Servings: 1, Ingredients: []IngredientLine{
				{Name: "Olive oil", Quantity: 0.33, Unit: "tbsp"},
				{Name: "Olive oil", Quantity: 0.33, Unit: "tbsp"},
			}})
	})

	lines := AggregateIngredients(plan)
	if len(lines) != 1 || lines[0].Quantity != 0.7 {
		t.Errorf("expected 0.66 rounded to 0.7, got %+v", lines)
	}
}

func TestAggregateIngredientsEmptyPlan(t *testing.T) {
	plan := planWithMeals(t, 2, func(days []PlanDay) {})

	lines := AggregateIngredients(plan)
	if lines == nil || len(lines) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", lines)
	}
}
