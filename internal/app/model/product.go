package model

import (
	"time"

	"gorm.io/gorm"
)

type ProductStatus string

const (
	StatusActive       ProductStatus = "active"
	StatusInactive     ProductStatus = "inactive"
	StatusOutOfStock   ProductStatus = "out_of_stock"
	StatusDiscontinued ProductStatus = "discontinued"
)

// Valid reports whether s is one of the known product statuses
func (s ProductStatus) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusOutOfStock, StatusDiscontinued:
		return true
	}
	return false
}

type Product struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	Name             string         `gorm:"not null" json:"name"`
	Slug             string         `gorm:"uniqueIndex;not null" json:"slug"`
	Description      string         `gorm:"type:text" json:"description"`
	ShortDescription string         `gorm:"size:400" json:"short_description"`
	Status           ProductStatus  `gorm:"type:varchar(20);default:'active'" json:"status"`
	BrandID          uint           `gorm:"index;not null" json:"brand_id"`
	CategoryID       uint           `gorm:"index;not null" json:"category_id"`
	ViewCount        int64          `gorm:"default:0" json:"view_count"`
	CreatedBy        *uint          `json:"created_by"`
	UpdatedBy        *uint          `json:"updated_by"`
	DeletedBy        *uint          `json:"deleted_by"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Brand           *Brand           `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
	Category        *Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Variants        []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
	Images          []ProductImage   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	AttributeValues []AttributeValue `gorm:"many2many:attribute_value_product" json:"attribute_values,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// DefaultVariant returns the variant flagged as default, or nil
func (p *Product) DefaultVariant() *ProductVariant {
	for i := range p.Variants {
		if p.Variants[i].IsDefault {
			return &p.Variants[i]
		}
	}
	return nil
}

// ThumbnailImage returns the image flagged as thumbnail, or nil
func (p *Product) ThumbnailImage() *ProductImage {
	for i := range p.Images {
		if p.Images[i].IsThumbnail {
			return &p.Images[i]
		}
	}
	return nil
}
