package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

const (
	defaultAPIBase = "http://localhost:8080"
)

var (
	apiBase    string
	token      string
	profileID  string
	client     = &http.Client{Timeout: 30 * time.Second}
	testDate   string
	createdIDs = make(map[string]string) // track created resources for cleanup
)

func main() {
	fmt.Println("=== Plateful E2E Smoke Test ===")
	fmt.Println()

	// Load config from env
	apiBase = getEnv("API_BASE_URL", defaultAPIBase)
	token = getEnv("SMOKE_TOKEN", "")
	profileID = getEnv("SMOKE_PROFILE_ID", "smoke-profile")

	fmt.Printf("API Base: %s\n", apiBase)
	fmt.Printf("Token: %s\n", maskString(token))
	fmt.Printf("Profile ID: %s\n", profileID)
	fmt.Println()

	// Test date (today)
	testDate = time.Now().Format("2006-01-02")

	// Run smoke tests
	steps := []struct {
		name string
		fn   func() error
	}{
		{"Healthz", testHealthz},
		{"Add Meal", testAddMeal},
		{"Get Week", testGetWeek},
		{"Week Summary", testWeekSummary},
		{"Create Prep Plan", testCreatePrepPlan},
		{"List Prep Plans", testListPrepPlans},
		{"Plan Summary", testPlanSummary},
		{"Shopping List", testShoppingList},
		{"Import Plan", testImportPlan},
		{"Create Export (CSV)", testCreateExportCSV},
		{"List Exports", testListExports},
		{"Download Export", testDownloadExport},
		{"Remove Meal", testRemoveMeal},
		{"Delete Prep Plan", testDeletePrepPlan},
	}

	failed := false
	for i, step := range steps {
		fmt.Printf("[%d/%d] %s... ", i+1, len(steps), step.name)
		if err := step.fn(); err != nil {
			fmt.Printf("❌ FAILED\n")
			fmt.Printf("  Error: %v\n\n", err)
			failed = true
			break
		}
		fmt.Printf("✅ OK\n")
	}

	fmt.Println()
	if failed {
		fmt.Println("❌ SMOKE TEST FAILED")
		os.Exit(1)
	}

	fmt.Println("✅ ALL SMOKE TESTS PASSED")
}

func testHealthz() error {
	req, err := http.NewRequest("GET", apiBase+"/healthz", nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	return nil
}

func testAddMeal() error {
	payload := map[string]interface{}{
		"profile_id":  profileID,
		"date":        testDate,
		"slot_type":   "midday",
		"name":        "Smoke Test Bowl",
		"origin_kind": "custom",
		"servings":    1,
		"nutrition": map[string]interface{}{
			"kcal":      520,
			"protein_g": 32,
			"carbs_g":   55,
			"fat_g":     18,
		},
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := postJSON("/v1/planner/meals", payload, http.StatusCreated, &result); err != nil {
		return err
	}
	if result.ID == "" {
		return fmt.Errorf("no meal entry id in response")
	}

	createdIDs["meal"] = result.ID
	return nil
}

func testGetWeek() error {
	url := fmt.Sprintf("/v1/planner/week?profile_id=%s&date=%s", profileID, testDate)

	var result struct {
		Week struct {
			StartDate string `json:"start_date"`
			Days      []struct {
				Date  string `json:"date"`
				Slots []struct {
					Type  string `json:"type"`
					Meals []struct {
						ID string `json:"id"`
					} `json:"meals"`
				} `json:"slots"`
			} `json:"days"`
		} `json:"week"`
	}
	if err := getJSON(url, &result); err != nil {
		return err
	}

	if len(result.Week.Days) != 7 {
		return fmt.Errorf("expected 7 days, got %d", len(result.Week.Days))
	}

	// The meal added above must be somewhere in the week
	for _, day := range result.Week.Days {
		for _, slot := range day.Slots {
			for _, meal := range slot.Meals {
				if meal.ID == createdIDs["meal"] {
					return nil
				}
			}
		}
	}
	return fmt.Errorf("added meal %s not found in week", createdIDs["meal"])
}

func testWeekSummary() error {
	url := fmt.Sprintf("/v1/planner/week/summary?profile_id=%s&date=%s", profileID, testDate)

	var result struct {
		Total struct {
			Kcal float64 `json:"kcal"`
		} `json:"total"`
		DaysWithMeals int `json:"days_with_meals"`
	}
	if err := getJSON(url, &result); err != nil {
		return err
	}

	if result.Total.Kcal <= 0 {
		return fmt.Errorf("expected positive kcal total, got %v", result.Total.Kcal)
	}
	if result.DaysWithMeals < 1 {
		return fmt.Errorf("expected at least one day with meals")
	}
	return nil
}

func testCreatePrepPlan() error {
	payload := map[string]interface{}{
		"profile_id": profileID,
		"name":       "Smoke Prep",
		"days": []map[string]interface{}{
			{
				"slots": []map[string]interface{}{
					{
						"type": "morning",
						"meals": []map[string]interface{}{
							{
								"name":     "Oatmeal",
								"servings": 1,
								"nutrition": map[string]interface{}{
									"kcal": 350, "protein_g": 12, "carbs_g": 60, "fat_g": 7,
								},
								"ingredients": []map[string]interface{}{
									{"name": "Oats", "quantity": 80, "unit": "g"},
									{"name": "Milk", "quantity": 200, "unit": "ml"},
								},
							},
						},
					},
				},
			},
			{
				"slots": []map[string]interface{}{
					{
						"type": "evening",
						"meals": []map[string]interface{}{
							{
								"name":     "Stir Fry",
								"servings": 2,
								"nutrition": map[string]interface{}{
									"kcal": 640, "protein_g": 40, "carbs_g": 50, "fat_g": 28,
								},
								"ingredients": []map[string]interface{}{
									{"name": "Rice", "quantity": 150, "unit": "g"},
									{"name": "Milk", "quantity": 50, "unit": "ml"},
								},
							},
						},
					},
				},
			},
		},
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := postJSON("/v1/preps", payload, http.StatusCreated, &result); err != nil {
		return err
	}
	if result.ID == "" {
		return fmt.Errorf("no plan id in response")
	}

	createdIDs["plan"] = result.ID
	return nil
}

func testListPrepPlans() error {
	var result struct {
		Plans []struct {
			ID string `json:"id"`
		} `json:"plans"`
	}
	if err := getJSON("/v1/preps?profile_id="+profileID, &result); err != nil {
		return err
	}

	for _, p := range result.Plans {
		if p.ID == createdIDs["plan"] {
			return nil
		}
	}
	return fmt.Errorf("created plan %s not found in list", createdIDs["plan"])
}

func testPlanSummary() error {
	var result struct {
		DayCount int `json:"day_count"`
		Total    struct {
			Kcal float64 `json:"kcal"`
		} `json:"total"`
	}
	if err := getJSON("/v1/preps/"+createdIDs["plan"]+"/summary", &result); err != nil {
		return err
	}

	if result.DayCount != 2 {
		return fmt.Errorf("expected day_count=2, got %d", result.DayCount)
	}
	if result.Total.Kcal != 990 {
		return fmt.Errorf("expected total kcal 990, got %v", result.Total.Kcal)
	}
	return nil
}

func testShoppingList() error {
	var result struct {
		Lines []struct {
			Name     string  `json:"name"`
			Quantity float64 `json:"quantity"`
			Unit     string  `json:"unit"`
		} `json:"lines"`
	}
	if err := getJSON("/v1/preps/"+createdIDs["plan"]+"/shopping-list", &result); err != nil {
		return err
	}

	// Milk appears in both meals with the same unit and must be merged
	for _, line := range result.Lines {
		if line.Name == "Milk" && line.Unit == "ml" {
			if line.Quantity != 250 {
				return fmt.Errorf("expected Milk 250 ml, got %v", line.Quantity)
			}
			return nil
		}
	}
	return fmt.Errorf("merged Milk line not found in shopping list")
}

func testImportPlan() error {
	payload := map[string]interface{}{
		"profile_id": profileID,
		"plan_id":    createdIDs["plan"],
		"date":       testDate,
	}

	var result struct {
		ImportedMeals int `json:"imported_meals"`
		DaysApplied   int `json:"days_applied"`
	}
	if err := postJSON("/v1/preps/import", payload, http.StatusOK, &result); err != nil {
		return err
	}

	if result.ImportedMeals < 1 {
		return fmt.Errorf("expected imported meals, got %d", result.ImportedMeals)
	}
	return nil
}

func testCreateExportCSV() error {
	payload := map[string]interface{}{
		"profile_id": profileID,
		"plan_id":    createdIDs["plan"],
		"format":     "csv",
	}

	var result struct {
		ID          string `json:"id"`
		DownloadURL string `json:"download_url"`
	}
	if err := postJSON("/v1/shopping/exports", payload, http.StatusCreated, &result); err != nil {
		return err
	}
	if result.ID == "" {
		return fmt.Errorf("no export id in response")
	}

	createdIDs["export"] = result.ID
	return nil
}

func testListExports() error {
	var result struct {
		Exports []struct {
			ID string `json:"id"`
		} `json:"exports"`
	}
	if err := getJSON("/v1/shopping/exports?profile_id="+profileID, &result); err != nil {
		return err
	}

	for _, e := range result.Exports {
		if e.ID == createdIDs["export"] {
			return nil
		}
	}
	return fmt.Errorf("created export %s not found in list", createdIDs["export"])
}

func testDownloadExport() error {
	url := fmt.Sprintf("%s/v1/shopping/exports/%s/download", apiBase, createdIDs["export"])
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return err
	}
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if !strings.HasPrefix(string(body), "name,quantity,unit") {
		return fmt.Errorf("unexpected CSV content: %.60s", string(body))
	}
	return nil
}

func testRemoveMeal() error {
	mealID := createdIDs["meal"]
	if mealID == "" {
		return fmt.Errorf("no meal ID to delete")
	}

	url := fmt.Sprintf("%s/v1/planner/meals/%s?profile_id=%s", apiBase, mealID, profileID)
	req, err := http.NewRequest("DELETE", url, nil)
	if err != nil {
		return err
	}
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	return nil
}

func testDeletePrepPlan() error {
	planID := createdIDs["plan"]
	if planID == "" {
		return fmt.Errorf("no plan ID to delete")
	}

	url := fmt.Sprintf("%s/v1/preps/%s", apiBase, planID)
	req, err := http.NewRequest("DELETE", url, nil)
	if err != nil {
		return err
	}
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	return nil
}

// Helper functions

func postJSON(path string, payload interface{}, wantStatus int, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", apiBase+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode failed: %w", err)
		}
	}
	return nil
}

func getJSON(path string, out interface{}) error {
	req, err := http.NewRequest("GET", apiBase+path, nil)
	if err != nil {
		return err
	}
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode failed: %w", err)
		}
	}
	return nil
}

func addAuth(req *http.Request) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func maskString(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
