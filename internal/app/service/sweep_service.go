package service

import (
	"context"
	"strings"
	"time"

	"github.com/vund-dev/moda-backend/internal/app/repository"
	"github.com/vund-dev/moda-backend/pkg/logger"
)

// SweepService reclaims media blobs with no database row. Orphans appear
// when an upload succeeds inside a transaction that later rolls back, or
// when an earlier delete lost the blob race.
type SweepService interface {
	SweepOrphanedBlobs(ctx context.Context, minAge time.Duration) (int, error)
}

type sweepService struct {
	imageRepo repository.ImageRepository
	blobs     BlobStore
}

func NewSweepService(imageRepo repository.ImageRepository, blobs BlobStore) SweepService {
	return &sweepService{
		imageRepo: imageRepo,
		blobs:     blobs,
	}
}

// SweepOrphanedBlobs deletes blobs under the media prefix that are both
// unreferenced and older than minAge. The age floor keeps in-flight
// uploads out of the sweep. Individual delete failures are logged and
// skipped; the next run retries them.
func (s *sweepService) SweepOrphanedBlobs(ctx context.Context, minAge time.Duration) (int, error) {
	objects, err := s.blobs.List(ctx, mediaPrefix)
	if err != nil {
		logger.Error("Failed to list media blobs", err, nil)
		return 0, err
	}

	paths, err := s.imageRepo.AllPaths()
	if err != nil {
		return 0, err
	}
	referenced := make(map[string]bool, len(paths))
	for _, p := range paths {
		referenced[p] = true
	}

	cutoff := time.Now().Add(-minAge)
	orphans := make([]string, 0)
	for _, obj := range objects {
		if referenced[obj.Key] {
			continue
		}
		if !strings.HasPrefix(obj.Key, mediaPrefix) {
			continue
		}
		if obj.LastModified.After(cutoff) {
			continue
		}
		orphans = append(orphans, obj.Key)
	}

	if len(orphans) == 0 {
		logger.Debug("No orphaned blobs found", map[string]interface{}{
			"scanned": len(objects),
		})
		return 0, nil
	}

	failed, err := s.blobs.DeleteMany(ctx, orphans)
	if err != nil {
		logger.Error("Failed to delete orphaned blobs", err, map[string]interface{}{
			"count": len(orphans),
		})
		return 0, err
	}

	removed := len(orphans) - len(failed)
	logger.Info("Orphaned blobs swept", map[string]interface{}{
		"scanned": len(objects),
		"removed": removed,
		"failed":  len(failed),
	})
	return removed, nil
}
