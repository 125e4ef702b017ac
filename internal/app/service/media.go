package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/vund-dev/moda-backend/internal/app/model"
	"github.com/vund-dev/moda-backend/internal/storage"
)

// mediaPrefix is the blob-key folder for all product media
const mediaPrefix = "product_media/"

const maxUploadSize = 20 << 20 // 20MB

var (
	ErrFileTooLarge    = errors.New("file exceeds the maximum upload size")
	ErrInvalidFileType = errors.New("file type is not allowed")
	ErrTooManyVideos   = errors.New("at most one video is allowed per upload")
)

// BlobStore is the media storage backend (S3 in production, an in-memory
// fake in tests).
type BlobStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
	DeleteMany(ctx context.Context, keys []string) ([]string, error)
	List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error)
}

// MediaFile is an uploaded file decoupled from the HTTP layer
type MediaFile struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

var allowedContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"video/mp4":       true,
	"video/webm":      true,
	"video/quicktime": true,
}

// ValidateMediaFiles checks size, content type and the one-video rule
func ValidateMediaFiles(files []MediaFile) error {
	videos := 0
	for _, f := range files {
		if f.Size > maxUploadSize {
			return fmt.Errorf("%w: %s", ErrFileTooLarge, f.Filename)
		}
		if !allowedContentTypes[f.ContentType] {
			return fmt.Errorf("%w: %s (%s)", ErrInvalidFileType, f.Filename, f.ContentType)
		}
		if mediaTypeOf(f.ContentType) == model.MediaTypeVideo {
			videos++
		}
	}
	if videos > 1 {
		return ErrTooManyVideos
	}
	return nil
}

func mediaTypeOf(contentType string) model.MediaType {
	if strings.HasPrefix(contentType, "image") {
		return model.MediaTypeImage
	}
	return model.MediaTypeVideo
}

// mediaKey builds a product-slug-prefixed unique blob key
func mediaKey(product *model.Product, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s%s-%s%s", mediaPrefix, product.Slug, uuid.New().String(), ext)
}
