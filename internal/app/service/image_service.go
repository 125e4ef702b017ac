package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/vund-dev/moda-backend/internal/app/model"
	"github.com/vund-dev/moda-backend/internal/app/repository"
	"github.com/vund-dev/moda-backend/pkg/logger"
	"gorm.io/gorm"
)

// variantSignature is the canonical identity of an attribute combination:
// sorted, deduplicated IDs joined with "-" ("3-7-12").
func variantSignature(attributeValueIDs []uint) string {
	ids := dedupeIDs(attributeValueIDs)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, "-")
}

// ImageIndexError marks a media index referencing a position outside the
// uploaded file list. It aborts the whole operation.
type ImageIndexError struct {
	Index int
	Count int
}

func (e *ImageIndexError) Error() string {
	return fmt.Sprintf("media index %d is out of range for %d uploaded files", e.Index, e.Count)
}

// BlobDeleteError reports media rows whose backing blobs could not be
// removed. The surviving rows stay in the database so the blobs remain
// reachable for a later retry. It is a partial result, not a failure of
// the whole operation: the rows whose blobs did go away are already
// cleaned up by the time it is returned.
type BlobDeleteError struct {
	FailedIDs []uint
}

func (e *BlobDeleteError) Error() string {
	return fmt.Sprintf("failed to delete blobs for %d media records", len(e.FailedIDs))
}

// splitBlobFailure peels a partial blob-delete result off an error.
// Blob removal is irreversible, so a caller running inside a transaction
// must commit the row cleanup that matched it instead of rolling back;
// the failure accumulates into acc and is surfaced after the commit.
func splitBlobFailure(err error, acc **BlobDeleteError) error {
	var partial *BlobDeleteError
	if errors.As(err, &partial) {
		*acc = mergeBlobFailures(*acc, partial)
		return nil
	}
	return err
}

func mergeBlobFailures(a, b *BlobDeleteError) *BlobDeleteError {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	ids := make([]uint, 0, len(a.FailedIDs)+len(b.FailedIDs))
	ids = append(ids, a.FailedIDs...)
	ids = append(ids, b.FailedIDs...)
	return &BlobDeleteError{FailedIDs: ids}
}

// ThumbnailSelection names the media that should become the product
// thumbnail: either an existing row by ID or a fresh upload by index.
type ThumbnailSelection struct {
	ExistingImageID *uint
	NewImageIndex   *int
}

type ImageService interface {
	Store(ctx context.Context, tx *gorm.DB, file MediaFile, product *model.Product, variantID *uint) (*model.ProductImage, error)
	StoreMultiple(ctx context.Context, tx *gorm.DB, files []MediaFile, product *model.Product) ([]model.ProductImage, error)
	Assign(ctx context.Context, tx *gorm.DB, product *model.Product, files []MediaFile, variants []VariantPayload, thumbnail *ThumbnailSelection) error
	DeleteManyByIDs(ctx context.Context, tx *gorm.DB, ids []uint) error
	DeleteAllForProduct(ctx context.Context, tx *gorm.DB, productID uint) error
	DeleteAllForVariant(ctx context.Context, tx *gorm.DB, variantID uint) error
}

type imageService struct {
	imageRepo repository.ImageRepository
	blobs     BlobStore
}

func NewImageService(imageRepo repository.ImageRepository, blobs BlobStore) ImageService {
	return &imageService{
		imageRepo: imageRepo,
		blobs:     blobs,
	}
}

// Store uploads one file and records it. A nil variantID makes the media
// product-level.
func (s *imageService) Store(ctx context.Context, tx *gorm.DB, file MediaFile, product *model.Product, variantID *uint) (*model.ProductImage, error) {
	key := mediaKey(product, file.Filename)

	url, err := s.blobs.Upload(ctx, key, file.ContentType, file.Content)
	if err != nil {
		logger.Error("Failed to upload media blob", err, map[string]interface{}{
			"product_id": product.ID,
			"filename":   file.Filename,
			"key":        key,
		})
		return nil, err
	}

	image := &model.ProductImage{
		ProductID:        product.ID,
		ProductVariantID: variantID,
		Path:             key,
		URL:              url,
		MediaType:        mediaTypeOf(file.ContentType),
		AltText:          product.Name,
	}
	if err := s.imageRepo.WithTx(tx).Create(image); err != nil {
		return nil, err
	}

	logger.Info("Media stored", map[string]interface{}{
		"product_id": product.ID,
		"image_id":   image.ID,
		"variant_id": variantID,
		"media_type": image.MediaType,
	})
	return image, nil
}

func (s *imageService) StoreMultiple(ctx context.Context, tx *gorm.DB, files []MediaFile, product *model.Product) ([]model.ProductImage, error) {
	images := make([]model.ProductImage, 0, len(files))
	for _, file := range files {
		image, err := s.Store(ctx, tx, file, product, nil)
		if err != nil {
			return nil, err
		}
		images = append(images, *image)
	}
	return images, nil
}

// Assign distributes uploaded files and existing media across variants.
//
// Variants are matched by attribute signature against product.Variants,
// so the caller must pass a freshly reloaded product: payload IDs can be
// stale right after a sync (deleted then reinserted combinations).
// Files claimed by no variant become product-level media. Existing media
// referenced by a payload is rebound to that variant.
func (s *imageService) Assign(ctx context.Context, tx *gorm.DB, product *model.Product, files []MediaFile, variants []VariantPayload, thumbnail *ThumbnailSelection) error {
	logger.Debug("Assigning media to variants", map[string]interface{}{
		"product_id":    product.ID,
		"file_count":    len(files),
		"variant_count": len(variants),
	})

	imageRepo := s.imageRepo.WithTx(tx)

	bySignature := make(map[string]*model.ProductVariant, len(product.Variants))
	for i := range product.Variants {
		v := &product.Variants[i]
		bySignature[v.Signature] = v
	}

	claimed := make(map[int]bool, len(files))
	created := make(map[int]*model.ProductImage, len(files))

	for _, payload := range variants {
		indexes := payload.imageIndexes()
		if len(indexes) == 0 && len(payload.ExistingImageIDs) == 0 {
			continue
		}

		signature := variantSignature(payload.AttributeValueIDs)
		variant := bySignature[signature]
		if variant == nil {
			logger.Warn("No variant found for media assignment", map[string]interface{}{
				"product_id": product.ID,
				"signature":  signature,
			})
			continue
		}

		for _, idx := range indexes {
			if idx < 0 || idx >= len(files) {
				return &ImageIndexError{Index: idx, Count: len(files)}
			}
			if claimed[idx] {
				continue
			}
			image, err := s.Store(ctx, tx, files[idx], product, &variant.ID)
			if err != nil {
				return err
			}
			claimed[idx] = true
			created[idx] = image
		}

		if len(payload.ExistingImageIDs) > 0 {
			if err := imageRepo.AssignToVariant(payload.ExistingImageIDs, product.ID, &variant.ID); err != nil {
				return err
			}
		}
	}

	// Whatever no variant claimed lands at product level.
	for idx, file := range files {
		if claimed[idx] {
			continue
		}
		image, err := s.Store(ctx, tx, file, product, nil)
		if err != nil {
			return err
		}
		created[idx] = image
	}

	if thumbnail != nil {
		if err := s.applyThumbnail(tx, product, thumbnail, created, len(files)); err != nil {
			return err
		}
	}
	return nil
}

// applyThumbnail enforces the single-thumbnail invariant: every flag on
// the product is cleared before the chosen one is set.
func (s *imageService) applyThumbnail(tx *gorm.DB, product *model.Product, sel *ThumbnailSelection, created map[int]*model.ProductImage, fileCount int) error {
	var imageID uint

	switch {
	case sel.ExistingImageID != nil:
		imageID = *sel.ExistingImageID
	case sel.NewImageIndex != nil:
		idx := *sel.NewImageIndex
		image := created[idx]
		if image == nil {
			return &ImageIndexError{Index: idx, Count: fileCount}
		}
		imageID = image.ID
	default:
		return nil
	}

	imageRepo := s.imageRepo.WithTx(tx)
	if err := imageRepo.ClearThumbnails(product.ID); err != nil {
		return err
	}
	if err := imageRepo.SetThumbnail(imageID); err != nil {
		return err
	}

	logger.Info("Product thumbnail updated", map[string]interface{}{
		"product_id": product.ID,
		"image_id":   imageID,
	})
	return nil
}

// DeleteManyByIDs removes blobs first, then rows. Rows whose blob delete
// failed are kept and reported through BlobDeleteError so nothing becomes
// unreachable garbage.
func (s *imageService) DeleteManyByIDs(ctx context.Context, tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}

	imageRepo := s.imageRepo.WithTx(tx)

	images, err := imageRepo.FindByIDs(ids)
	if err != nil {
		return err
	}
	if len(images) == 0 {
		return nil
	}

	keys := make([]string, 0, len(images))
	idByKey := make(map[string]uint, len(images))
	for _, img := range images {
		keys = append(keys, img.Path)
		idByKey[img.Path] = img.ID
	}

	failedKeys, err := s.blobs.DeleteMany(ctx, keys)
	if err != nil {
		logger.Error("Failed to delete media blobs", err, map[string]interface{}{
			"image_ids": ids,
		})
		return err
	}

	failed := make(map[string]bool, len(failedKeys))
	for _, k := range failedKeys {
		failed[k] = true
	}

	deletable := make([]uint, 0, len(images))
	failedIDs := make([]uint, 0)
	for _, img := range images {
		if failed[img.Path] {
			failedIDs = append(failedIDs, img.ID)
			continue
		}
		deletable = append(deletable, img.ID)
	}

	if err := imageRepo.DeleteRows(deletable); err != nil {
		return err
	}

	if len(failedIDs) > 0 {
		logger.Warn("Some media blobs could not be deleted", map[string]interface{}{
			"failed_image_ids": failedIDs,
		})
		return &BlobDeleteError{FailedIDs: failedIDs}
	}

	logger.Info("Media deleted", map[string]interface{}{
		"count": len(deletable),
	})
	return nil
}

func (s *imageService) DeleteAllForProduct(ctx context.Context, tx *gorm.DB, productID uint) error {
	images, err := s.imageRepo.WithTx(tx).FindByProduct(productID)
	if err != nil {
		return err
	}
	err = s.DeleteManyByIDs(ctx, tx, imageIDs(images))
	return s.detachFailed(tx, err, productID)
}

func (s *imageService) DeleteAllForVariant(ctx context.Context, tx *gorm.DB, variantID uint) error {
	images, err := s.imageRepo.WithTx(tx).FindByVariant(variantID)
	if err != nil {
		return err
	}
	if len(images) == 0 {
		return nil
	}
	err = s.DeleteManyByIDs(ctx, tx, imageIDs(images))
	return s.detachFailed(tx, err, images[0].ProductID)
}

// detachFailed unbinds surviving rows from their variant after a partial
// blob failure. The caller is about to delete the variant rows, and a
// kept media row must not reference one of them.
func (s *imageService) detachFailed(tx *gorm.DB, err error, productID uint) error {
	var blobErr *BlobDeleteError
	if !errors.As(err, &blobErr) {
		return err
	}
	if derr := s.imageRepo.WithTx(tx).AssignToVariant(blobErr.FailedIDs, productID, nil); derr != nil {
		return derr
	}
	return err
}

func imageIDs(images []model.ProductImage) []uint {
	ids := make([]uint, len(images))
	for i, img := range images {
		ids[i] = img.ID
	}
	return ids
}
