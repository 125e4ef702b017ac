package model

import (
	"time"
)

// ProductVariant is a concrete purchasable combination of attribute values.
// Signature is the sorted, deduplicated join of its attribute-value IDs
// ("3-7-12"); it is derived by the reconciler and unique per product.
//
// No soft delete here: a removed variant must free its signature and SKU
// for reuse, which the unique indexes would block if the row lingered.
type ProductVariant struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	ProductID     uint      `gorm:"not null;uniqueIndex:idx_variants_product_signature" json:"product_id"`
	SKU           string    `gorm:"uniqueIndex;not null" json:"sku"`
	Signature     string    `gorm:"size:255;not null;uniqueIndex:idx_variants_product_signature" json:"-"`
	SellingPrice  float64   `gorm:"not null" json:"selling_price"`
	OriginalPrice *float64  `json:"original_price"`
	Quantity      int       `gorm:"default:0" json:"quantity"`
	Weight        *float64  `json:"weight"`
	Dimensions    string    `json:"dimensions"`
	IsDefault     bool      `gorm:"default:false" json:"is_default"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Product         *Product         `gorm:"foreignKey:ProductID" json:"-"`
	AttributeValues []AttributeValue `gorm:"many2many:attribute_product_variants" json:"attribute_values,omitempty"`
	Images          []ProductImage   `gorm:"foreignKey:ProductVariantID" json:"images,omitempty"`
}

func (ProductVariant) TableName() string {
	return "product_variants"
}

// AttributeValueIDs returns the IDs of the loaded attribute values
func (v *ProductVariant) AttributeValueIDs() []uint {
	ids := make([]uint, 0, len(v.AttributeValues))
	for _, av := range v.AttributeValues {
		ids = append(ids, av.ID)
	}
	return ids
}
