package mealpreps

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/plateful/server/internal/ids"
	"github.com/plateful/server/internal/nutrition"
	"github.com/plateful/server/internal/planner"
	"github.com/plateful/server/internal/storage"
	"github.com/plateful/server/internal/userctx"
)

type mockPlansRepo struct {
	plans []storage.PrepPlan
	items []storage.PrepPlanItem
}

func (m *mockPlansRepo) CreatePlan(ctx context.Context, plan *storage.PrepPlan, items []storage.PrepPlanItem) error {
	plan.CreatedAt = time.Now()
	m.plans = append(m.plans, *plan)
	m.items = append(m.items, items...)
	return nil
}

func (m *mockPlansRepo) GetPlan(ctx context.Context, ownerUserID, planID string) (storage.PrepPlan, []storage.PrepPlanItem, bool, error) {
	for _, p := range m.plans {
		if p.OwnerUserID == ownerUserID && p.ID == planID {
			var items []storage.PrepPlanItem
			for _, item := range m.items {
				if item.PlanID == p.ID {
					items = append(items, item)
				}
			}
			return p, items, true, nil
		}
	}
	return storage.PrepPlan{}, nil, false, nil
}

func (m *mockPlansRepo) ListPlans(ctx context.Context, ownerUserID, profileID string) ([]storage.PrepPlan, error) {
	var result []storage.PrepPlan
	for _, p := range m.plans {
		if p.OwnerUserID == ownerUserID && p.ProfileID == profileID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockPlansRepo) DeletePlan(ctx context.Context, ownerUserID, planID string) (bool, error) {
	for i, p := range m.plans {
		if p.OwnerUserID == ownerUserID && p.ID == planID {
			m.plans = append(m.plans[:i], m.plans[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type mockWeeksRepo struct {
	entries []storage.MealEntryRow
}

func (m *mockWeeksRepo) ListEntries(ctx context.Context, ownerUserID, profileID, from, to string) ([]storage.MealEntryRow, error) {
	var result []storage.MealEntryRow
	for _, e := range m.entries {
		if e.OwnerUserID == ownerUserID && e.ProfileID == profileID && e.Date >= from && e.Date <= to {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *mockWeeksRepo) AddEntries(ctx context.Context, entries []storage.MealEntryRow) error {
	m.entries = append(m.entries, entries...)
	return nil
}

func (m *mockWeeksRepo) NextPosition(ctx context.Context, ownerUserID, profileID, date, slotType string) (int, error) {
	next := 0
	for _, e := range m.entries {
		if e.OwnerUserID == ownerUserID && e.ProfileID == profileID && e.Date == date && e.SlotType == slotType && e.Position >= next {
			next = e.Position + 1
		}
	}
	return next, nil
}

func (m *mockWeeksRepo) DeleteEntry(ctx context.Context, ownerUserID, profileID, entryID string) (bool, error) {
	for i, e := range m.entries {
		if e.OwnerUserID == ownerUserID && e.ProfileID == profileID && e.ID == entryID {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *mockWeeksRepo) Close() error { return nil }

func newTestHandler(plans *mockPlansRepo, weeks *mockWeeksRepo) *Handler {
	gen := ids.NewSequence("test")
	plannerSvc := planner.NewService(weeks, gen)
	return NewHandler(NewService(plans, plannerSvc, gen))
}

func authed(r *http.Request) *http.Request {
	return r.WithContext(userctx.WithUserID(r.Context(), "default"))
}

func createReq() CreatePlanRequest {
	return CreatePlanRequest{
		ProfileID: "p1",
		Name:      "Cut week",
		Days: []CreatePlanDay{
			{Slots: []CreatePlanSlot{
				{Type: planner.SlotMorning, Meals: []CreatePlanMeal{{
					Name:      "Oatmeal",
					Servings:  1,
					Nutrition: nutrition.Profile{Kcal: 300, ProteinG: 10},
					Ingredients: []IngredientLine{
						{Name: "Oats", Quantity: 80, Unit: "g"},
					},
				}}},
			}},
			{Slots: []CreatePlanSlot{
				{Type: planner.SlotEvening, Meals: []CreatePlanMeal{{
					Name:      "Salmon",
					Servings:  1,
					Nutrition: nutrition.Profile{Kcal: 400, ProteinG: 35},
					Ingredients: []IngredientLine{
						{Name: "Salmon fillet", Quantity: 200, Unit: "g"},
					},
				}}},
			}},
		},
	}
}

func TestHandleCreateAndGet(t *testing.T) {
	plans := &mockPlansRepo{}
	handler := newTestHandler(plans, &mockWeeksRepo{})

	body, _ := json.Marshal(createReq())
	req := authed(httptest.NewRequest("POST", "/v1/preps", bytes.NewReader(body)))
	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created Plan
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ID == "" || len(created.Days) != 2 {
		t.Fatalf("unexpected plan: %+v", created)
	}

	getReq := authed(httptest.NewRequest("GET", "/v1/preps/"+created.ID, nil))
	getReq.SetPathValue("id", created.ID)
	getRec := httptest.NewRecorder()
	handler.HandleGet(getRec, getReq)

	if getRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", getRec.Code)
	}

	var fetched Plan
	json.NewDecoder(getRec.Body).Decode(&fetched)
	if fetched.Name != "Cut week" {
		t.Errorf("expected name round trip, got %q", fetched.Name)
	}
	meals := fetched.Days[0].Slots[0].Meals
	if len(meals) != 1 || len(meals[0].Ingredients) != 1 || meals[0].Ingredients[0].Name != "Oats" {
		t.Errorf("ingredients did not survive storage: %+v", meals)
	}
}

func TestHandleCreateValidation(t *testing.T) {
	handler := newTestHandler(&mockPlansRepo{}, &mockWeeksRepo{})

	req := createReq()
	req.Days = nil
	body, _ := json.Marshal(req)

	httpReq := authed(httptest.NewRequest("POST", "/v1/preps", bytes.NewReader(body)))
	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, httpReq)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleShoppingList(t *testing.T) {
	plans := &mockPlansRepo{}
	handler := newTestHandler(plans, &mockWeeksRepo{})

	body, _ := json.Marshal(createReq())
	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, authed(httptest.NewRequest("POST", "/v1/preps", bytes.NewReader(body))))
	var created Plan
	json.NewDecoder(rec.Body).Decode(&created)

	req := authed(httptest.NewRequest("GET", "/v1/preps/"+created.ID+"/shopping-list", nil))
	req.SetPathValue("id", created.ID)
	listRec := httptest.NewRecorder()
	handler.HandleShoppingList(listRec, req)

	if listRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", listRec.Code)
	}

	var resp ShoppingListResponse
	json.NewDecoder(listRec.Body).Decode(&resp)
	if len(resp.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %+v", resp.Lines)
	}
	if resp.Lines[0].Name != "Oats" || resp.Lines[0].Quantity != 80 {
		t.Errorf("unexpected first line: %+v", resp.Lines[0])
	}
}

func TestHandleSummary(t *testing.T) {
	plans := &mockPlansRepo{}
	handler := newTestHandler(plans, &mockWeeksRepo{})

	body, _ := json.Marshal(createReq())
	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, authed(httptest.NewRequest("POST", "/v1/preps", bytes.NewReader(body))))
	var created Plan
	json.NewDecoder(rec.Body).Decode(&created)

	req := authed(httptest.NewRequest("GET", "/v1/preps/"+created.ID+"/summary", nil))
	req.SetPathValue("id", created.ID)
	sumRec := httptest.NewRecorder()
	handler.HandleSummary(sumRec, req)

	var summary PlanSummary
	json.NewDecoder(sumRec.Body).Decode(&summary)
	if summary.Total.Kcal != 700 || summary.DayCount != 2 {
		t.Errorf("unexpected summary: %+v", summary)
	}
	if summary.DailyAverage.Kcal != 350 {
		t.Errorf("expected average 350, got %v", summary.DailyAverage.Kcal)
	}
}

func TestHandleImportNotIdempotent(t *testing.T) {
	plans := &mockPlansRepo{}
	weeks := &mockWeeksRepo{}
	handler := newTestHandler(plans, weeks)

	body, _ := json.Marshal(createReq())
	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, authed(httptest.NewRequest("POST", "/v1/preps", bytes.NewReader(body))))
	var created Plan
	json.NewDecoder(rec.Body).Decode(&created)

	importBody, _ := json.Marshal(ImportRequest{ProfileID: "p1", PlanID: created.ID, Date: "2024-06-03"})

	for i := 0; i < 2; i++ {
		impRec := httptest.NewRecorder()
		handler.HandleImport(impRec, authed(httptest.NewRequest("POST", "/v1/preps/import", bytes.NewReader(importBody))))
		if impRec.Code != http.StatusOK {
			t.Fatalf("import %d: expected 200, got %d: %s", i, impRec.Code, impRec.Body.String())
		}

		var resp ImportResponse
		json.NewDecoder(impRec.Body).Decode(&resp)
		if resp.WeekStart != "2024-06-03" || resp.ImportedMeals != 2 || resp.DaysDropped != 0 {
			t.Errorf("import %d: unexpected response %+v", i, resp)
		}
	}

	// Two imports of a two-meal plan leave four entries.
	if len(weeks.entries) != 4 {
		t.Errorf("expected 4 entries after double import, got %d", len(weeks.entries))
	}
	for _, e := range weeks.entries {
		if e.OriginKind != string(planner.OriginPlanImport) {
			t.Errorf("expected plan_import origin, got %s", e.OriginKind)
		}
		if e.OriginRef != created.ID {
			t.Errorf("expected origin ref %s, got %s", created.ID, e.OriginRef)
		}
	}
}

func TestHandleImportOverflowWeek(t *testing.T) {
	plans := &mockPlansRepo{}
	weeks := &mockWeeksRepo{}
	handler := newTestHandler(plans, weeks)

	body, _ := json.Marshal(createReq())
	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, authed(httptest.NewRequest("POST", "/v1/preps", bytes.NewReader(body))))
	var created Plan
	json.NewDecoder(rec.Body).Decode(&created)

	// Sunday anchor: second plan day falls into the next week.
	importBody, _ := json.Marshal(ImportRequest{ProfileID: "p1", PlanID: created.ID, Date: "2024-06-09"})
	impRec := httptest.NewRecorder()
	handler.HandleImport(impRec, authed(httptest.NewRequest("POST", "/v1/preps/import", bytes.NewReader(importBody))))

	var resp ImportResponse
	json.NewDecoder(impRec.Body).Decode(&resp)
	if resp.DaysApplied != 1 || resp.DaysDropped != 1 || resp.ImportedMeals != 1 {
		t.Errorf("unexpected overflow handling: %+v", resp)
	}
}

func TestHandleImportUnknownPlan(t *testing.T) {
	handler := newTestHandler(&mockPlansRepo{}, &mockWeeksRepo{})

	importBody, _ := json.Marshal(ImportRequest{ProfileID: "p1", PlanID: "nope", Date: "2024-06-03"})
	rec := httptest.NewRecorder()
	handler.HandleImport(rec, authed(httptest.NewRequest("POST", "/v1/preps/import", bytes.NewReader(importBody))))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHandleListAndDelete(t *testing.T) {
	plans := &mockPlansRepo{}
	handler := newTestHandler(plans, &mockWeeksRepo{})

	body, _ := json.Marshal(createReq())
	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, authed(httptest.NewRequest("POST", "/v1/preps", bytes.NewReader(body))))
	var created Plan
	json.NewDecoder(rec.Body).Decode(&created)

	listRec := httptest.NewRecorder()
	handler.HandleList(listRec, authed(httptest.NewRequest("GET", "/v1/preps?profile_id=p1", nil)))
	var listResp struct {
		Plans []PlanInfo `json:"plans"`
	}
	json.NewDecoder(listRec.Body).Decode(&listResp)
	if len(listResp.Plans) != 1 || listResp.Plans[0].DayCount != 2 {
		t.Errorf("unexpected list: %+v", listResp.Plans)
	}

	delReq := authed(httptest.NewRequest("DELETE", "/v1/preps/"+created.ID, nil))
	delReq.SetPathValue("id", created.ID)
	delRec := httptest.NewRecorder()
	handler.HandleDelete(delRec, delReq)
	if delRec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", delRec.Code)
	}

	delRec2 := httptest.NewRecorder()
	delReq2 := authed(httptest.NewRequest("DELETE", "/v1/preps/"+created.ID, nil))
	delReq2.SetPathValue("id", created.ID)
	handler.HandleDelete(delRec2, delReq2)
	if delRec2.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", delRec2.Code)
	}
}
