package repository

import (
	"github.com/vund-dev/moda-backend/internal/app/model"
	"github.com/vund-dev/moda-backend/pkg/logger"
	"gorm.io/gorm"
)

type VariantRepository interface {
	WithTx(tx *gorm.DB) VariantRepository
	FindByID(id uint) (*model.ProductVariant, error)
	FindByIDs(ids []uint) ([]model.ProductVariant, error)
	FindByProduct(productID uint) ([]model.ProductVariant, error)
	SKUExists(sku string) (bool, error)
	Create(variant *model.ProductVariant) error
	Update(variant *model.ProductVariant) error
	DeleteByIDs(ids []uint) error
	ReplaceAttributeValues(variant *model.ProductVariant, values []model.AttributeValue) error
}

type variantRepository struct {
	db *gorm.DB
}

func NewVariantRepository(db *gorm.DB) VariantRepository {
	return &variantRepository{db: db}
}

func (r *variantRepository) WithTx(tx *gorm.DB) VariantRepository {
	return &variantRepository{db: tx}
}

func (r *variantRepository) FindByID(id uint) (*model.ProductVariant, error) {
	var variant model.ProductVariant
	err := r.db.Preload("AttributeValues").Preload("Images").First(&variant, id).Error
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *variantRepository) FindByIDs(ids []uint) ([]model.ProductVariant, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var variants []model.ProductVariant
	err := r.db.Preload("AttributeValues").Preload("Images").
		Where("id IN ?", ids).Find(&variants).Error
	if err != nil {
		logger.Error("Failed to find variants by IDs", err, map[string]interface{}{
			"variant_ids": ids,
		})
		return nil, err
	}
	return variants, nil
}

func (r *variantRepository) FindByProduct(productID uint) ([]model.ProductVariant, error) {
	var variants []model.ProductVariant
	err := r.db.Preload("AttributeValues").Preload("Images").
		Where("product_id = ?", productID).
		Order("id ASC").
		Find(&variants).Error
	if err != nil {
		logger.Error("Failed to find variants for product", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}
	return variants, nil
}

func (r *variantRepository) SKUExists(sku string) (bool, error) {
	var count int64
	if err := r.db.Model(&model.ProductVariant{}).Where("sku = ?", sku).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *variantRepository) Create(variant *model.ProductVariant) error {
	logger.Debug("Creating variant in database", map[string]interface{}{
		"product_id": variant.ProductID,
		"sku":        variant.SKU,
		"signature":  variant.Signature,
	})

	// Association writes go through ReplaceAttributeValues; avoid gorm
	// upserting attribute values implicitly here.
	if err := r.db.Omit("AttributeValues", "Images").Create(variant).Error; err != nil {
		logger.Error("Failed to create variant in database", err, map[string]interface{}{
			"product_id": variant.ProductID,
			"sku":        variant.SKU,
		})
		return err
	}
	return nil
}

func (r *variantRepository) Update(variant *model.ProductVariant) error {
	logger.Debug("Updating variant in database", map[string]interface{}{
		"variant_id": variant.ID,
		"sku":        variant.SKU,
	})

	err := r.db.Omit("AttributeValues", "Images").
		Model(&model.ProductVariant{}).
		Where("id = ?", variant.ID).
		Select("SKU", "Signature", "SellingPrice", "OriginalPrice", "Quantity", "Weight", "Dimensions", "IsDefault").
		Updates(variant).Error
	if err != nil {
		logger.Error("Failed to update variant in database", err, map[string]interface{}{
			"variant_id": variant.ID,
			"sku":        variant.SKU,
		})
		return err
	}
	return nil
}

func (r *variantRepository) DeleteByIDs(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}

	logger.Debug("Deleting variants from database", map[string]interface{}{
		"variant_ids": ids,
	})

	// Clear join rows first so no stale attribute membership survives.
	if err := r.db.Exec("DELETE FROM attribute_product_variants WHERE product_variant_id IN ?", ids).Error; err != nil {
		logger.Error("Failed to clear variant attribute associations", err, map[string]interface{}{
			"variant_ids": ids,
		})
		return err
	}

	if err := r.db.Delete(&model.ProductVariant{}, ids).Error; err != nil {
		logger.Error("Failed to delete variants from database", err, map[string]interface{}{
			"variant_ids": ids,
		})
		return err
	}
	return nil
}

func (r *variantRepository) ReplaceAttributeValues(variant *model.ProductVariant, values []model.AttributeValue) error {
	refs := make([]model.AttributeValue, len(values))
	for i, v := range values {
		refs[i] = model.AttributeValue{ID: v.ID}
	}

	err := r.db.Model(variant).Association("AttributeValues").Replace(refs)
	if err != nil {
		logger.Error("Failed to replace variant attribute values", err, map[string]interface{}{
			"variant_id": variant.ID,
		})
		return err
	}
	return nil
}
