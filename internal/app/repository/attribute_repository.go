package repository

import (
	"github.com/vund-dev/moda-backend/internal/app/model"
	"github.com/vund-dev/moda-backend/pkg/logger"
	"gorm.io/gorm"
)

type AttributeRepository interface {
	WithTx(tx *gorm.DB) AttributeRepository

	CreateAttribute(attribute *model.ProductAttribute) error
	FindAllAttributes() ([]model.ProductAttribute, error)
	FindAttributeByID(id uint) (*model.ProductAttribute, error)
	UpdateAttribute(attribute *model.ProductAttribute) error
	DeleteAttribute(id uint) error

	CreateValue(value *model.AttributeValue) error
	FindValueByID(id uint) (*model.AttributeValue, error)
	FindValuesByIDs(ids []uint) ([]model.AttributeValue, error)
	FindValuesByIDsOrderedByCode(ids []uint) ([]model.AttributeValue, error)
	UpdateValue(value *model.AttributeValue) error
	DeleteValue(id uint) error
}

type attributeRepository struct {
	db *gorm.DB
}

func NewAttributeRepository(db *gorm.DB) AttributeRepository {
	return &attributeRepository{db: db}
}

func (r *attributeRepository) WithTx(tx *gorm.DB) AttributeRepository {
	return &attributeRepository{db: tx}
}

func (r *attributeRepository) CreateAttribute(attribute *model.ProductAttribute) error {
	if err := r.db.Create(attribute).Error; err != nil {
		logger.Error("Failed to create product attribute", err, map[string]interface{}{
			"name": attribute.Name,
		})
		return err
	}
	return nil
}

func (r *attributeRepository) FindAllAttributes() ([]model.ProductAttribute, error) {
	var attributes []model.ProductAttribute
	err := r.db.Preload("AttributeValues").Order("id ASC").Find(&attributes).Error
	if err != nil {
		logger.Error("Failed to list product attributes", err, nil)
		return nil, err
	}
	return attributes, nil
}

func (r *attributeRepository) FindAttributeByID(id uint) (*model.ProductAttribute, error) {
	var attribute model.ProductAttribute
	if err := r.db.Preload("AttributeValues").First(&attribute, id).Error; err != nil {
		return nil, err
	}
	return &attribute, nil
}

func (r *attributeRepository) UpdateAttribute(attribute *model.ProductAttribute) error {
	if err := r.db.Save(attribute).Error; err != nil {
		logger.Error("Failed to update product attribute", err, map[string]interface{}{
			"attribute_id": attribute.ID,
		})
		return err
	}
	return nil
}

func (r *attributeRepository) DeleteAttribute(id uint) error {
	if err := r.db.Delete(&model.ProductAttribute{}, id).Error; err != nil {
		logger.Error("Failed to delete product attribute", err, map[string]interface{}{
			"attribute_id": id,
		})
		return err
	}
	return nil
}

func (r *attributeRepository) CreateValue(value *model.AttributeValue) error {
	if err := r.db.Create(value).Error; err != nil {
		logger.Error("Failed to create attribute value", err, map[string]interface{}{
			"attribute_id": value.ProductAttributeID,
			"value":        value.Value,
			"code":         value.Code,
		})
		return err
	}
	return nil
}

func (r *attributeRepository) FindValueByID(id uint) (*model.AttributeValue, error) {
	var value model.AttributeValue
	if err := r.db.Preload("ProductAttribute").First(&value, id).Error; err != nil {
		return nil, err
	}
	return &value, nil
}

func (r *attributeRepository) FindValuesByIDs(ids []uint) ([]model.AttributeValue, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var values []model.AttributeValue
	if err := r.db.Where("id IN ?", ids).Find(&values).Error; err != nil {
		logger.Error("Failed to find attribute values by IDs", err, map[string]interface{}{
			"value_ids": ids,
		})
		return nil, err
	}
	return values, nil
}

// FindValuesByIDsOrderedByCode returns values sorted by code ascending,
// the order SKU suffixes are derived in.
func (r *attributeRepository) FindValuesByIDsOrderedByCode(ids []uint) ([]model.AttributeValue, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var values []model.AttributeValue
	err := r.db.Where("id IN ?", ids).Order("code ASC").Find(&values).Error
	if err != nil {
		logger.Error("Failed to find attribute values ordered by code", err, map[string]interface{}{
			"value_ids": ids,
		})
		return nil, err
	}
	return values, nil
}

func (r *attributeRepository) UpdateValue(value *model.AttributeValue) error {
	if err := r.db.Save(value).Error; err != nil {
		logger.Error("Failed to update attribute value", err, map[string]interface{}{
			"value_id": value.ID,
		})
		return err
	}
	return nil
}

func (r *attributeRepository) DeleteValue(id uint) error {
	if err := r.db.Delete(&model.AttributeValue{}, id).Error; err != nil {
		logger.Error("Failed to delete attribute value", err, map[string]interface{}{
			"value_id": id,
		})
		return err
	}
	return nil
}
