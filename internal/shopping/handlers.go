package shopping

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/plateful/server/internal/userctx"
)

// Handlers handles HTTP requests for shopping-list exports.
type Handlers struct {
	service   *Service
	listLimit int
}

// NewHandlers creates new handlers.
func NewHandlers(service *Service, listLimit int) *Handlers {
	return &Handlers{service: service, listLimit: listLimit}
}

func ownerFromContext(r *http.Request) string {
	if userID, ok := userctx.GetUserID(r.Context()); ok {
		return userID
	}
	return "default"
}

// HandleCreate handles POST /v1/shopping/exports
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ownerUserID := ownerFromContext(r)

	var req CreateExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid JSON")
		return
	}

	export, err := h.service.CreateExport(r.Context(), ownerUserID, req)
	if err != nil {
		switch {
		case err == ErrInvalidFormat:
			writeError(w, http.StatusBadRequest, "invalid_format", "Format must be 'pdf' or 'csv'")
		case err == ErrPlanNotFound:
			writeError(w, http.StatusNotFound, "not_found", "Plan not found")
		case strings.HasPrefix(err.Error(), "validation failed: "):
			writeError(w, http.StatusBadRequest, "invalid_request", strings.TrimPrefix(err.Error(), "validation failed: "))
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to create export")
		}
		return
	}

	downloadURL, err := h.service.GetDownloadURL(r.Context(), ownerUserID, export.ID, getBaseURL(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to generate download URL")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(h.toDTO(export, downloadURL))
}

// HandleList handles GET /v1/shopping/exports?profile_id=&limit=
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	ownerUserID := ownerFromContext(r)

	profileID := r.URL.Query().Get("profile_id")
	if profileID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "profile_id is required")
		return
	}

	limit := h.listLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < limit {
			limit = l
		}
	}

	exports, err := h.service.ListExports(r.Context(), ownerUserID, profileID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list exports")
		return
	}

	baseURL := getBaseURL(r)
	dtos := make([]ExportDTO, len(exports))
	for i := range exports {
		downloadURL, _ := h.service.GetDownloadURL(r.Context(), ownerUserID, exports[i].ID, baseURL)
		dtos[i] = h.toDTO(&exports[i], downloadURL)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ExportsResponse{Exports: dtos})
}

// HandleDownload handles GET /v1/shopping/exports/{id}/download
func (h *Handlers) HandleDownload(w http.ResponseWriter, r *http.Request) {
	ownerUserID := ownerFromContext(r)
	exportID := r.PathValue("id")

	export, err := h.service.GetExport(r.Context(), ownerUserID, exportID)
	if err != nil {
		if err == ErrExportNotFound {
			writeError(w, http.StatusNotFound, "not_found", "Export not found")
		} else {
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to get export")
		}
		return
	}

	if h.service.localMode {
		data, contentType, err := h.service.GetExportData(r.Context(), ownerUserID, exportID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to read export data")
			return
		}

		filename := fmt.Sprintf("shopping_list_%s.%s", export.PlanID, export.Format)
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
		w.Header().Set("Content-Length", strconv.FormatInt(int64(len(data)), 10))
		w.Write(data)
		return
	}

	// S3 mode: redirect to presigned/public URL
	downloadURL, err := h.service.GetDownloadURL(r.Context(), ownerUserID, exportID, getBaseURL(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to generate download URL")
		return
	}
	http.Redirect(w, r, downloadURL, http.StatusFound)
}

func (h *Handlers) toDTO(e *Export, downloadURL string) ExportDTO {
	return ExportDTO{
		ID:          e.ID,
		ProfileID:   e.ProfileID,
		PlanID:      e.PlanID,
		Format:      e.Format,
		DownloadURL: downloadURL,
		SizeBytes:   e.SizeBytes,
		CreatedAt:   e.CreatedAt,
	}
}

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

func getBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, r.Host)
}
