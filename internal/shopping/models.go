package shopping

import (
	"errors"
	"time"
)

// Export represents a generated shopping-list artifact.
type Export struct {
	ID        string
	ProfileID string
	PlanID    string
	Format    string // "pdf" or "csv"
	ObjectKey *string
	SizeBytes int64
	CreatedAt time.Time
	Data      []byte // Only used in memory mode
}

// CreateExportRequest is the request to export a plan's shopping list.
type CreateExportRequest struct {
	ProfileID string `json:"profile_id"`
	PlanID    string `json:"plan_id"`
	Format    string `json:"format"` // "pdf" or "csv"
}

// ExportDTO is the response representation of an export.
type ExportDTO struct {
	ID          string    `json:"id"`
	ProfileID   string    `json:"profile_id"`
	PlanID      string    `json:"plan_id"`
	Format      string    `json:"format"`
	DownloadURL string    `json:"download_url"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

// ExportsResponse is the list response.
type ExportsResponse struct {
	Exports []ExportDTO `json:"exports"`
}

const (
	FormatPDF = "pdf"
	FormatCSV = "csv"
)

var (
	ErrInvalidFormat  = errors.New("invalid format, expected pdf or csv")
	ErrPlanNotFound   = errors.New("plan not found")
	ErrExportNotFound = errors.New("export not found")
)
