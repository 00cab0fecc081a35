package shopping

import (
	"context"
	"fmt"
	"strings"

	"github.com/plateful/server/internal/blob"
	"github.com/plateful/server/internal/ids"
	"github.com/plateful/server/internal/mealpreps"
	"github.com/plateful/server/internal/storage"
)

// Service handles shopping-list export business logic.
type Service struct {
	exportsStorage  storage.ExportsStorage
	preps           *mealpreps.Service
	generator       *Generator
	ids             ids.Generator
	blobStore       blob.Store
	presignTTL      int
	localMode       bool   // true if no S3 configured
	publicBaseURL   string // S3 public base URL (if prefer_public_url mode)
	preferPublicURL bool
}

// NewService creates a new shopping exports service.
func NewService(
	exportsStorage storage.ExportsStorage,
	preps *mealpreps.Service,
	gen ids.Generator,
	blobStore blob.Store,
	presignTTL int,
	publicBaseURL string,
	preferPublicURL bool,
) *Service {
	return &Service{
		exportsStorage:  exportsStorage,
		preps:           preps,
		generator:       NewGenerator(),
		ids:             gen,
		blobStore:       blobStore,
		presignTTL:      presignTTL,
		localMode:       blobStore == nil,
		publicBaseURL:   publicBaseURL,
		preferPublicURL: preferPublicURL,
	}
}

// CreateExport aggregates a plan's ingredients and renders the artifact.
func (s *Service) CreateExport(ctx context.Context, ownerUserID string, req CreateExportRequest) (*Export, error) {
	if req.Format != FormatPDF && req.Format != FormatCSV {
		return nil, ErrInvalidFormat
	}
	if req.ProfileID == "" || req.PlanID == "" {
		return nil, fmt.Errorf("validation failed: profile_id and plan_id are required")
	}

	plan, found, err := s.preps.Get(ctx, ownerUserID, req.PlanID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrPlanNotFound
	}

	data, err := s.generator.Generate(req.Format, plan.Name, mealpreps.AggregateIngredients(plan))
	if err != nil {
		return nil, fmt.Errorf("failed to generate export: %w", err)
	}

	rec := &storage.ExportRecord{
		ID:          s.ids.NewID(),
		OwnerUserID: ownerUserID,
		ProfileID:   req.ProfileID,
		PlanID:      req.PlanID,
		Format:      req.Format,
		SizeBytes:   int64(len(data)),
	}

	if s.localMode {
		rec.Data = data
	} else {
		objectKey := fmt.Sprintf("shopping/%s/%s_%s.%s", req.ProfileID, req.PlanID, rec.ID, req.Format)

		if _, err := s.blobStore.PutObject(ctx, objectKey, data, contentTypeFor(req.Format)); err != nil {
			return nil, fmt.Errorf("failed to upload to S3: %w", err)
		}
		rec.ObjectKey = &objectKey
	}

	if err := s.exportsStorage.CreateExport(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to save export metadata: %w", err)
	}

	return s.toExport(rec), nil
}

// GetExport retrieves export metadata by id.
func (s *Service) GetExport(ctx context.Context, ownerUserID, id string) (*Export, error) {
	rec, found, err := s.exportsStorage.GetExport(ctx, ownerUserID, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrExportNotFound
	}
	return s.toExport(&rec), nil
}

// ListExports lists the profile's exports, newest first.
func (s *Service) ListExports(ctx context.Context, ownerUserID, profileID string, limit int) ([]Export, error) {
	recs, err := s.exportsStorage.ListExports(ctx, ownerUserID, profileID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}

	exports := make([]Export, len(recs))
	for i := range recs {
		exports[i] = *s.toExport(&recs[i])
	}
	return exports, nil
}

// GetDownloadURL builds the download URL for an export. In local mode it
// points at the server's own download endpoint; in S3 mode it is a public
// or presigned object URL.
func (s *Service) GetDownloadURL(ctx context.Context, ownerUserID, id, baseURL string) (string, error) {
	rec, found, err := s.exportsStorage.GetExport(ctx, ownerUserID, id)
	if err != nil {
		return "", err
	}
	if !found {
		return "", ErrExportNotFound
	}

	if s.localMode {
		return fmt.Sprintf("%s/v1/shopping/exports/%s/download", strings.TrimSuffix(baseURL, "/"), rec.ID), nil
	}

	if rec.ObjectKey == nil {
		return "", fmt.Errorf("object key is missing")
	}

	if s.preferPublicURL && s.publicBaseURL != "" {
		return strings.TrimSuffix(s.publicBaseURL, "/") + "/" + *rec.ObjectKey, nil
	}

	presignedURL, err := s.blobStore.PresignGet(ctx, *rec.ObjectKey, s.presignTTL)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return presignedURL, nil
}

// GetExportData retrieves the raw artifact bytes (for local mode download).
func (s *Service) GetExportData(ctx context.Context, ownerUserID, id string) ([]byte, string, error) {
	rec, found, err := s.exportsStorage.GetExport(ctx, ownerUserID, id)
	if err != nil {
		return nil, "", err
	}
	if !found {
		return nil, "", ErrExportNotFound
	}

	contentType := contentTypeFor(rec.Format)

	if s.localMode {
		return rec.Data, contentType, nil
	}

	if rec.ObjectKey == nil {
		return nil, "", fmt.Errorf("object key is missing")
	}
	data, err := s.blobStore.GetObject(ctx, *rec.ObjectKey)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch object: %w", err)
	}
	return data, contentType, nil
}

func (s *Service) toExport(rec *storage.ExportRecord) *Export {
	return &Export{
		ID:        rec.ID,
		ProfileID: rec.ProfileID,
		PlanID:    rec.PlanID,
		Format:    rec.Format,
		ObjectKey: rec.ObjectKey,
		SizeBytes: rec.SizeBytes,
		CreatedAt: rec.CreatedAt,
		Data:      rec.Data,
	}
}

func contentTypeFor(format string) string {
	if format == FormatCSV {
		return "text/csv"
	}
	return "application/pdf"
}
