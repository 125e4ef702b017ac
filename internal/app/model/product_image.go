package model

import (
	"time"
)

type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// ProductImage is a media file in blob storage. A nil ProductVariantID
// means the media is product-level (shared across variants).
type ProductImage struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	ProductID        uint      `gorm:"index;not null" json:"product_id"`
	ProductVariantID *uint     `gorm:"index" json:"product_variant_id"`
	Path             string    `gorm:"not null" json:"path"`
	URL              string    `json:"url"`
	MediaType        MediaType `gorm:"type:varchar(10);default:'image'" json:"media_type"`
	AltText          string    `json:"alt_text"`
	DisplayOrder     int       `gorm:"default:0" json:"display_order"`
	IsThumbnail      bool      `gorm:"default:false" json:"is_thumbnail"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Product *Product        `gorm:"foreignKey:ProductID" json:"-"`
	Variant *ProductVariant `gorm:"foreignKey:ProductVariantID" json:"-"`
}

func (ProductImage) TableName() string {
	return "product_images"
}
