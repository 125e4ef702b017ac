package model

import (
	"time"

	"gorm.io/gorm"
)

// ProductAttribute is an axis of variation ("Color", "Size")
type ProductAttribute struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	AttributeValues []AttributeValue `gorm:"foreignKey:ProductAttributeID" json:"attribute_values,omitempty"`
}

func (ProductAttribute) TableName() string {
	return "product_attributes"
}

// AttributeValue is a concrete value on an attribute axis ("Red", "M").
// Code is the short form used for SKU suffixing.
type AttributeValue struct {
	ID                 uint           `gorm:"primarykey" json:"id"`
	ProductAttributeID uint           `gorm:"index;not null" json:"product_attribute_id"`
	Value              string         `gorm:"not null" json:"value"`
	Code               string         `gorm:"not null" json:"code"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`

	ProductAttribute *ProductAttribute `gorm:"foreignKey:ProductAttributeID" json:"product_attribute,omitempty"`
	Products         []Product         `gorm:"many2many:attribute_value_product" json:"-"`
	ProductVariants  []ProductVariant  `gorm:"many2many:attribute_product_variants" json:"-"`
}

func (AttributeValue) TableName() string {
	return "attribute_values"
}
