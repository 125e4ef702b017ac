package repository

import (
	"github.com/vund-dev/moda-backend/internal/app/model"
	"github.com/vund-dev/moda-backend/pkg/logger"
	"gorm.io/gorm"
)

type ImageRepository interface {
	WithTx(tx *gorm.DB) ImageRepository
	Create(image *model.ProductImage) error
	FindByID(id uint) (*model.ProductImage, error)
	FindByIDs(ids []uint) ([]model.ProductImage, error)
	FindByProduct(productID uint) ([]model.ProductImage, error)
	FindByVariant(variantID uint) ([]model.ProductImage, error)
	DeleteRows(ids []uint) error
	AssignToVariant(imageIDs []uint, productID uint, variantID *uint) error
	ClearThumbnails(productID uint) error
	SetThumbnail(imageID uint) error
	AllPaths() ([]string, error)
}

type imageRepository struct {
	db *gorm.DB
}

func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) WithTx(tx *gorm.DB) ImageRepository {
	return &imageRepository{db: tx}
}

func (r *imageRepository) Create(image *model.ProductImage) error {
	logger.Debug("Creating product image in database", map[string]interface{}{
		"product_id":         image.ProductID,
		"product_variant_id": image.ProductVariantID,
		"path":               image.Path,
		"media_type":         image.MediaType,
	})

	if err := r.db.Create(image).Error; err != nil {
		logger.Error("Failed to create product image in database", err, map[string]interface{}{
			"product_id": image.ProductID,
			"path":       image.Path,
		})
		return err
	}
	return nil
}

func (r *imageRepository) FindByID(id uint) (*model.ProductImage, error) {
	var image model.ProductImage
	if err := r.db.First(&image, id).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *imageRepository) FindByIDs(ids []uint) ([]model.ProductImage, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var images []model.ProductImage
	if err := r.db.Where("id IN ?", ids).Find(&images).Error; err != nil {
		logger.Error("Failed to find product images by IDs", err, map[string]interface{}{
			"image_ids": ids,
		})
		return nil, err
	}
	return images, nil
}

func (r *imageRepository) FindByProduct(productID uint) ([]model.ProductImage, error) {
	var images []model.ProductImage
	err := r.db.Where("product_id = ?", productID).
		Order("display_order ASC, id ASC").
		Find(&images).Error
	if err != nil {
		logger.Error("Failed to find product images", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}
	return images, nil
}

func (r *imageRepository) FindByVariant(variantID uint) ([]model.ProductImage, error) {
	var images []model.ProductImage
	err := r.db.Where("product_variant_id = ?", variantID).Find(&images).Error
	if err != nil {
		logger.Error("Failed to find variant images", err, map[string]interface{}{
			"variant_id": variantID,
		})
		return nil, err
	}
	return images, nil
}

func (r *imageRepository) DeleteRows(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.db.Delete(&model.ProductImage{}, ids).Error; err != nil {
		logger.Error("Failed to delete product image rows", err, map[string]interface{}{
			"image_ids": ids,
		})
		return err
	}
	return nil
}

// AssignToVariant rebinds existing images of a product to a variant.
// Images outside the product are left untouched.
func (r *imageRepository) AssignToVariant(imageIDs []uint, productID uint, variantID *uint) error {
	if len(imageIDs) == 0 {
		return nil
	}

	err := r.db.Model(&model.ProductImage{}).
		Where("id IN ? AND product_id = ?", imageIDs, productID).
		Update("product_variant_id", variantID).Error
	if err != nil {
		logger.Error("Failed to assign images to variant", err, map[string]interface{}{
			"image_ids":  imageIDs,
			"product_id": productID,
			"variant_id": variantID,
		})
		return err
	}
	return nil
}

func (r *imageRepository) ClearThumbnails(productID uint) error {
	err := r.db.Model(&model.ProductImage{}).
		Where("product_id = ? AND is_thumbnail = ?", productID, true).
		Update("is_thumbnail", false).Error
	if err != nil {
		logger.Error("Failed to clear product thumbnails", err, map[string]interface{}{
			"product_id": productID,
		})
		return err
	}
	return nil
}

func (r *imageRepository) SetThumbnail(imageID uint) error {
	err := r.db.Model(&model.ProductImage{}).
		Where("id = ?", imageID).
		Update("is_thumbnail", true).Error
	if err != nil {
		logger.Error("Failed to set product thumbnail", err, map[string]interface{}{
			"image_id": imageID,
		})
		return err
	}
	return nil
}

// AllPaths returns every stored blob path; used by the orphan sweep.
func (r *imageRepository) AllPaths() ([]string, error) {
	var paths []string
	if err := r.db.Model(&model.ProductImage{}).Pluck("path", &paths).Error; err != nil {
		logger.Error("Failed to list product image paths", err, nil)
		return nil, err
	}
	return paths, nil
}
