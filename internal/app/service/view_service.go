package service

import (
	"context"

	"github.com/vund-dev/moda-backend/internal/app/repository"
	"github.com/vund-dev/moda-backend/pkg/logger"
	"github.com/vund-dev/moda-backend/pkg/redis"
)

// ViewService buffers product view counts in Redis and flushes them to
// the database in batches so detail-page reads never write to Postgres.
type ViewService interface {
	RecordView(ctx context.Context, productID uint)
	FlushViewCounts(ctx context.Context) error
}

type viewService struct {
	productRepo repository.ProductRepository
}

func NewViewService(productRepo repository.ProductRepository) ViewService {
	return &viewService{productRepo: productRepo}
}

// RecordView is fire-and-forget; a Redis hiccup must not fail the request
func (s *viewService) RecordView(ctx context.Context, productID uint) {
	if err := redis.IncrementProductView(ctx, productID); err != nil {
		logger.Warn("Failed to record product view", map[string]interface{}{
			"product_id": productID,
			"error":      err.Error(),
		})
	}
}

func (s *viewService) FlushViewCounts(ctx context.Context) error {
	counts, err := redis.DrainProductViews(ctx)
	if err != nil {
		logger.Error("Failed to drain view counters", err, nil)
		return err
	}
	if len(counts) == 0 {
		return nil
	}

	flushed := 0
	for productID, delta := range counts {
		if err := s.productRepo.AddViewCount(productID, delta); err != nil {
			logger.Error("Failed to flush view count", err, map[string]interface{}{
				"product_id": productID,
				"delta":      delta,
			})
			continue
		}
		flushed++
	}

	logger.Info("View counters flushed", map[string]interface{}{
		"products": flushed,
	})
	return nil
}
