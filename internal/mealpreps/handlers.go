package mealpreps

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/plateful/server/internal/userctx"
)

// Handler handles HTTP requests for meal prep plans.
type Handler struct {
	service *Service
}

// NewHandler creates a new meal preps handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func ownerFromContext(r *http.Request) string {
	if userID, ok := userctx.GetUserID(r.Context()); ok {
		return userID
	}
	return "default"
}

// HandleCreate handles POST /v1/preps
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := ownerFromContext(r)

	var req CreatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	plan, err := h.service.Create(ctx, ownerUserID, req)
	if err != nil {
		if msg, ok := validationMessage(err); ok {
			writeError(w, http.StatusBadRequest, "invalid_request", msg)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to create plan")
		return
	}

	writeJSON(w, http.StatusCreated, plan)
}

// HandleList handles GET /v1/preps?profile_id=
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := ownerFromContext(r)

	profileID := r.URL.Query().Get("profile_id")
	if profileID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "profile_id is required")
		return
	}

	plans, err := h.service.List(ctx, ownerUserID, profileID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list plans")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"plans": plans})
}

// HandleGet handles GET /v1/preps/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := ownerFromContext(r)

	plan, found, err := h.service.Get(ctx, ownerUserID, r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to get plan")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "not_found", "Plan not found")
		return
	}

	writeJSON(w, http.StatusOK, plan)
}

// HandleDelete handles DELETE /v1/preps/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := ownerFromContext(r)

	deleted, err := h.service.Delete(ctx, ownerUserID, r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to delete plan")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "not_found", "Plan not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleSummary handles GET /v1/preps/{id}/summary
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := ownerFromContext(r)

	summary, found, err := h.service.Summary(ctx, ownerUserID, r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to get plan summary")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "not_found", "Plan not found")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// HandleShoppingList handles GET /v1/preps/{id}/shopping-list
func (h *Handler) HandleShoppingList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := ownerFromContext(r)

	planID := r.PathValue("id")
	lines, found, err := h.service.ShoppingList(ctx, ownerUserID, planID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to build shopping list")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "not_found", "Plan not found")
		return
	}

	writeJSON(w, http.StatusOK, ShoppingListResponse{PlanID: planID, Lines: lines})
}

// HandleImport handles POST /v1/preps/import
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := ownerFromContext(r)

	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	result, err := h.service.Import(ctx, ownerUserID, req)
	if err != nil {
		if msg, ok := validationMessage(err); ok {
			writeError(w, http.StatusBadRequest, "invalid_request", msg)
			return
		}
		if err.Error() == "plan not found" {
			writeError(w, http.StatusNotFound, "not_found", "Plan not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to import plan")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func validationMessage(err error) (string, bool) {
	msg := err.Error()
	if strings.HasPrefix(msg, "validation failed: ") {
		return strings.TrimPrefix(msg, "validation failed: "), true
	}
	return "", false
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
