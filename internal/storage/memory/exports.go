package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/plateful/server/internal/storage"
)

type exportsStorage struct {
	mu      sync.RWMutex
	exports map[string]*storage.ExportRecord // key: export_id
}

func newExportsStorage() *exportsStorage {
	return &exportsStorage{
		exports: make(map[string]*storage.ExportRecord),
	}
}

func (s *exportsStorage) CreateExport(ctx context.Context, rec *storage.ExportRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.CreatedAt = time.Now().UTC()
	stored := *rec
	s.exports[stored.ID] = &stored
	return nil
}

func (s *exportsStorage) GetExport(ctx context.Context, ownerUserID, id string) (storage.ExportRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.exports[id]
	if !ok || rec.OwnerUserID != ownerUserID {
		return storage.ExportRecord{}, false, nil
	}
	return *rec, true, nil
}

func (s *exportsStorage) ListExports(ctx context.Context, ownerUserID, profileID string, limit int) ([]storage.ExportRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []storage.ExportRecord
	for _, rec := range s.exports {
		if rec.OwnerUserID == ownerUserID && rec.ProfileID == profileID {
			result = append(result, *rec)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
