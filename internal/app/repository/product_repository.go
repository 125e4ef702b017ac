package repository

import (
	"fmt"

	"github.com/vund-dev/moda-backend/internal/app/model"
	"github.com/vund-dev/moda-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductSort string

const (
	ProductSortName      ProductSort = "name"
	ProductSortCreatedAt ProductSort = "created_at"
	ProductSortViewCount ProductSort = "view_count"
)

type ProductFilter struct {
	CategoryID    *uint
	BrandID       *uint
	Status        *model.ProductStatus
	Search        string
	SortBy        ProductSort
	SortAscending bool
	Limit         int
	Offset        int
}

type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository
	Create(product *model.Product) error
	FindByID(id uint) (*model.Product, error)
	FindWithFilter(filter ProductFilter) ([]model.Product, int64, error)
	SlugExists(slug string, excludeID uint) (bool, error)
	Update(product *model.Product) error
	UpdateFields(id uint, fields map[string]interface{}) error
	Delete(id uint) error
	AddViewCount(id uint, delta int64) error
	ReplaceOptionValues(product *model.Product, valueIDs []uint) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepository{db: tx}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name":        product.Name,
		"slug":        product.Slug,
		"brand_id":    product.BrandID,
		"category_id": product.CategoryID,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name": product.Name,
			"slug": product.Slug,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return nil
}

func (r *productRepository) fullQuery() *gorm.DB {
	return r.db.Model(&model.Product{}).
		Preload("Brand").
		Preload("Category").
		Preload("Category.Parent").
		Preload("Images").
		Preload("Variants", func(q *gorm.DB) *gorm.DB {
			return q.Order("product_variants.id ASC")
		}).
		Preload("Variants.AttributeValues").
		Preload("Variants.AttributeValues.ProductAttribute").
		Preload("Variants.Images").
		Preload("AttributeValues").
		Preload("AttributeValues.ProductAttribute")
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	err := r.fullQuery().First(&product, id).Error
	if err != nil {
		logger.Error("Failed to find product by ID in database", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, int64, error) {
	logger.Debug("Finding products with filter", map[string]interface{}{
		"category_id": filter.CategoryID,
		"brand_id":    filter.BrandID,
		"status":      filter.Status,
		"search":      filter.Search,
		"sort_by":     filter.SortBy,
		"ascending":   filter.SortAscending,
		"limit":       filter.Limit,
		"offset":      filter.Offset,
	})

	query := r.db.Model(&model.Product{}).
		Preload("Brand").
		Preload("Category").
		Preload("Images", "is_thumbnail = ?", true).
		Preload("Variants", "is_default = ?", true).
		Preload("Variants.AttributeValues").
		Preload("Variants.AttributeValues.ProductAttribute")

	if filter.CategoryID != nil {
		query = query.Where("products.category_id = ?", *filter.CategoryID)
	}
	if filter.BrandID != nil {
		query = query.Where("products.brand_id = ?", *filter.BrandID)
	}
	if filter.Status != nil {
		query = query.Where("products.status = ?", *filter.Status)
	}
	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", filter.Search)
		query = query.Where("products.name LIKE ? OR products.description LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count products with filter", err, nil)
		return nil, 0, err
	}

	// Default ordering is explicit: newest first, ID as tie-break.
	switch filter.SortBy {
	case ProductSortName, ProductSortCreatedAt, ProductSortViewCount:
		direction := "DESC"
		if filter.SortAscending {
			direction = "ASC"
		}
		query = query.Order(fmt.Sprintf("products.%s %s", filter.SortBy, direction))
		query = query.Order("products.id DESC")
	default:
		query = query.Order("products.created_at DESC").Order("products.id DESC")
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []model.Product
	if err := query.Find(&products).Error; err != nil {
		logger.Error("Failed to find products with filter", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, 0, err
	}

	logger.Debug("Products found with filter", map[string]interface{}{
		"count": len(products),
		"total": total,
	})
	return products, total, nil
}

func (r *productRepository) SlugExists(slug string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.Model(&model.Product{}).Where("slug = ?", slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})

	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

func (r *productRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}

	if err := r.db.Model(&model.Product{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		logger.Error("Failed to update product fields in database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}
	return nil
}

func (r *productRepository) Delete(id uint) error {
	logger.Debug("Deleting product from database", map[string]interface{}{
		"product_id": id,
	})

	if err := r.db.Delete(&model.Product{}, id).Error; err != nil {
		logger.Error("Failed to delete product from database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}
	return nil
}

// ReplaceOptionValues swaps the product's option set wholesale. An empty
// valueIDs clears every option.
func (r *productRepository) ReplaceOptionValues(product *model.Product, valueIDs []uint) error {
	refs := make([]model.AttributeValue, len(valueIDs))
	for i, id := range valueIDs {
		refs[i] = model.AttributeValue{ID: id}
	}

	if err := r.db.Model(product).Association("AttributeValues").Replace(refs); err != nil {
		logger.Error("Failed to replace product option values", err, map[string]interface{}{
			"product_id": product.ID,
			"value_ids":  valueIDs,
		})
		return err
	}
	return nil
}

func (r *productRepository) AddViewCount(id uint, delta int64) error {
	if delta == 0 {
		return nil
	}

	if err := r.db.Model(&model.Product{}).Where("id = ?", id).
		Update("view_count", gorm.Expr("view_count + ?", delta)).Error; err != nil {
		logger.Error("Failed to add product view count in database", err, map[string]interface{}{
			"product_id": id,
			"delta":      delta,
		})
		return err
	}
	return nil
}
