package planner

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/plateful/server/internal/userctx"
)

// Handler handles HTTP requests for planner weeks.
type Handler struct {
	service *Service
}

// NewHandler creates a new planner handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func ownerFromContext(r *http.Request) string {
	if userID, ok := userctx.GetUserID(r.Context()); ok {
		return userID
	}
	return "default"
}

// HandleGetWeek handles GET /v1/planner/week?profile_id=&date=YYYY-MM-DD
func (h *Handler) HandleGetWeek(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := ownerFromContext(r)

	profileID := r.URL.Query().Get("profile_id")
	if profileID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "profile_id is required")
		return
	}

	week, summary, err := h.service.GetWeek(ctx, ownerUserID, profileID, r.URL.Query().Get("date"))
	if err != nil {
		if strings.Contains(err.Error(), "invalid date format") {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid date format, expected YYYY-MM-DD")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to get week")
		return
	}

	writeJSON(w, http.StatusOK, GetWeekResponse{Week: week, Summary: summary})
}

// HandleGetSummary handles GET /v1/planner/week/summary?profile_id=&date=YYYY-MM-DD
func (h *Handler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := ownerFromContext(r)

	profileID := r.URL.Query().Get("profile_id")
	if profileID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "profile_id is required")
		return
	}

	summary, err := h.service.Summary(ctx, ownerUserID, profileID, r.URL.Query().Get("date"))
	if err != nil {
		if strings.Contains(err.Error(), "invalid date format") {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid date format, expected YYYY-MM-DD")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to get week summary")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// HandleAddMeal handles POST /v1/planner/meals
func (h *Handler) HandleAddMeal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := ownerFromContext(r)

	var req AddMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	entry, err := h.service.AddMeal(ctx, ownerUserID, req)
	if err != nil {
		errMsg := err.Error()
		if strings.HasPrefix(errMsg, "validation failed: ") {
			writeError(w, http.StatusBadRequest, "invalid_request", strings.TrimPrefix(errMsg, "validation failed: "))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to add meal")
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// HandleRemoveMeal handles DELETE /v1/planner/meals/{id}?profile_id=
func (h *Handler) HandleRemoveMeal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := ownerFromContext(r)

	profileID := r.URL.Query().Get("profile_id")
	if profileID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "profile_id is required")
		return
	}

	entryID := r.PathValue("id")
	if entryID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "meal id is required")
		return
	}

	removed, err := h.service.RemoveMeal(ctx, ownerUserID, profileID, entryID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to remove meal")
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "not_found", "Meal entry not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
