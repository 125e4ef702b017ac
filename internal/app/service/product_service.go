package service

import (
	"context"
	"fmt"

	"github.com/vund-dev/moda-backend/internal/app/model"
	"github.com/vund-dev/moda-backend/internal/app/repository"
	"github.com/vund-dev/moda-backend/pkg/logger"
	"github.com/vund-dev/moda-backend/pkg/util"
	"gorm.io/gorm"
)

// CreateProductInput carries everything a product is born with. Variants,
// options and media are optional; a product can start bare.
type CreateProductInput struct {
	Name             string
	Description      string
	ShortDescription string
	Status           model.ProductStatus
	BrandID          uint
	CategoryID       uint

	Variants  []VariantPayload
	OptionIDs []uint
	Files     []MediaFile
	Thumbnail *ThumbnailSelection

	ActorID *uint
}

// UpdateProductInput uses presence flags for the collection fields:
// HasVariants false leaves the variant set untouched, HasVariants true
// with an empty slice deletes every variant. Same for options. Nil
// scalar pointers mean "keep".
type UpdateProductInput struct {
	Name             *string
	Description      *string
	ShortDescription *string
	Status           *model.ProductStatus
	BrandID          *uint
	CategoryID       *uint

	HasVariants bool
	Variants    []VariantPayload

	HasOptions bool
	OptionIDs  []uint

	DeletedImageIDs []uint
	Files           []MediaFile
	Thumbnail       *ThumbnailSelection

	ActorID *uint
}

type ProductService interface {
	List(filter repository.ProductFilter) ([]model.Product, int64, error)
	Get(id uint) (*model.Product, error)
	Create(ctx context.Context, input CreateProductInput) (*model.Product, error)
	Update(ctx context.Context, id uint, input UpdateProductInput) (*model.Product, error)
	Delete(ctx context.Context, id uint, actorID *uint) error
}

type productService struct {
	db          *gorm.DB
	productRepo repository.ProductRepository
	variantRepo repository.VariantRepository
	reconciler  VariantReconciler
	images      ImageService
}

func NewProductService(
	db *gorm.DB,
	productRepo repository.ProductRepository,
	variantRepo repository.VariantRepository,
	reconciler VariantReconciler,
	images ImageService,
) ProductService {
	return &productService{
		db:          db,
		productRepo: productRepo,
		variantRepo: variantRepo,
		reconciler:  reconciler,
		images:      images,
	}
}

func (s *productService) List(filter repository.ProductFilter) ([]model.Product, int64, error) {
	return s.productRepo.FindWithFilter(filter)
}

func (s *productService) Get(id uint) (*model.Product, error) {
	return s.productRepo.FindByID(id)
}

// Create builds the whole aggregate in one transaction: product row,
// options, variants, then media against the reloaded variant set.
func (s *productService) Create(ctx context.Context, input CreateProductInput) (*model.Product, error) {
	logger.Debug("Creating product", map[string]interface{}{
		"name":          input.Name,
		"brand_id":      input.BrandID,
		"category_id":   input.CategoryID,
		"variant_count": len(input.Variants),
		"file_count":    len(input.Files),
	})

	if len(input.Files) > 0 {
		if err := ValidateMediaFiles(input.Files); err != nil {
			return nil, err
		}
	}

	slug, err := s.uniqueSlug(input.Name, 0)
	if err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = model.StatusActive
	}

	product := &model.Product{
		Name:             input.Name,
		Slug:             slug,
		Description:      input.Description,
		ShortDescription: input.ShortDescription,
		Status:           status,
		BrandID:          input.BrandID,
		CategoryID:       input.CategoryID,
		CreatedBy:        input.ActorID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)

		if err := productRepo.Create(product); err != nil {
			return err
		}

		if len(input.OptionIDs) > 0 {
			if err := productRepo.ReplaceOptionValues(product, input.OptionIDs); err != nil {
				return err
			}
		}

		if len(input.Variants) > 0 {
			if err := s.reconciler.Sync(ctx, tx, product, input.Variants); err != nil {
				return err
			}
		}

		if len(input.Files) > 0 || thumbnailRequested(input.Thumbnail) {
			// Reload so media assignment sees the post-sync variant set.
			fresh, err := productRepo.FindByID(product.ID)
			if err != nil {
				return err
			}
			if err := s.images.Assign(ctx, tx, fresh, input.Files, input.Variants, input.Thumbnail); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to create product", err, map[string]interface{}{
			"name": input.Name,
		})
		return nil, err
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"slug":       product.Slug,
	})
	return s.productRepo.FindByID(product.ID)
}

// Update applies partial changes. Collection fields follow the presence
// flags documented on UpdateProductInput.
func (s *productService) Update(ctx context.Context, id uint, input UpdateProductInput) (*model.Product, error) {
	logger.Debug("Updating product", map[string]interface{}{
		"product_id":   id,
		"has_variants": input.HasVariants,
		"has_options":  input.HasOptions,
		"file_count":   len(input.Files),
	})

	if len(input.Files) > 0 {
		if err := ValidateMediaFiles(input.Files); err != nil {
			return nil, err
		}
	}

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	fields, err := s.scalarUpdates(product, input)
	if err != nil {
		return nil, err
	}

	// SKU generation reads the slug, so the in-memory product must carry
	// the renamed identity before the reconciler runs.
	if name, ok := fields["name"].(string); ok {
		product.Name = name
	}
	if slug, ok := fields["slug"].(string); ok {
		product.Slug = slug
	}

	var blobErr *BlobDeleteError
	err = s.db.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)

		if err := productRepo.UpdateFields(product.ID, fields); err != nil {
			return err
		}

		if input.HasOptions {
			if err := productRepo.ReplaceOptionValues(product, input.OptionIDs); err != nil {
				return err
			}
		}

		if len(input.DeletedImageIDs) > 0 {
			if err := s.images.DeleteManyByIDs(ctx, tx, input.DeletedImageIDs); err != nil {
				if err = splitBlobFailure(err, &blobErr); err != nil {
					return err
				}
			}
		}

		if input.HasVariants {
			if err := s.reconciler.Sync(ctx, tx, product, input.Variants); err != nil {
				if err = splitBlobFailure(err, &blobErr); err != nil {
					return err
				}
			}
		}

		if len(input.Files) > 0 || anyExistingImageRefs(input.Variants) || thumbnailRequested(input.Thumbnail) {
			fresh, err := productRepo.FindByID(product.ID)
			if err != nil {
				return err
			}
			if err := s.images.Assign(ctx, tx, fresh, input.Files, input.Variants, input.Thumbnail); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to update product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	logger.Info("Product updated", map[string]interface{}{
		"product_id": id,
	})

	updated, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if blobErr != nil {
		logger.Warn("Product update left media blobs behind", map[string]interface{}{
			"product_id":       id,
			"failed_image_ids": blobErr.FailedIDs,
		})
		return updated, blobErr
	}
	return updated, nil
}

// Delete removes media (blobs included) and variant rows before
// soft-deleting the product itself.
func (s *productService) Delete(ctx context.Context, id uint, actorID *uint) error {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return err
	}

	var blobErr *BlobDeleteError
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.images.DeleteAllForProduct(ctx, tx, product.ID); err != nil {
			if err = splitBlobFailure(err, &blobErr); err != nil {
				return err
			}
		}

		variantIDs := make([]uint, len(product.Variants))
		for i, v := range product.Variants {
			variantIDs[i] = v.ID
		}
		if err := s.variantRepo.WithTx(tx).DeleteByIDs(variantIDs); err != nil {
			return err
		}

		productRepo := s.productRepo.WithTx(tx)
		if actorID != nil {
			if err := productRepo.UpdateFields(product.ID, map[string]interface{}{"deleted_by": actorID}); err != nil {
				return err
			}
		}
		return productRepo.Delete(product.ID)
	})
	if err != nil {
		logger.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	logger.Info("Product deleted", map[string]interface{}{
		"product_id": id,
	})
	if blobErr != nil {
		logger.Warn("Product delete left media blobs behind", map[string]interface{}{
			"product_id":       id,
			"failed_image_ids": blobErr.FailedIDs,
		})
		return blobErr
	}
	return nil
}

func (s *productService) scalarUpdates(product *model.Product, input UpdateProductInput) (map[string]interface{}, error) {
	fields := make(map[string]interface{})

	if input.Name != nil && *input.Name != product.Name {
		slug, err := s.uniqueSlug(*input.Name, product.ID)
		if err != nil {
			return nil, err
		}
		fields["name"] = *input.Name
		fields["slug"] = slug
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.ShortDescription != nil {
		fields["short_description"] = *input.ShortDescription
	}
	if input.Status != nil {
		fields["status"] = *input.Status
	}
	if input.BrandID != nil {
		fields["brand_id"] = *input.BrandID
	}
	if input.CategoryID != nil {
		fields["category_id"] = *input.CategoryID
	}
	if input.ActorID != nil {
		fields["updated_by"] = *input.ActorID
	}
	return fields, nil
}

// uniqueSlug slugifies the name and appends -2, -3, ... until free
func (s *productService) uniqueSlug(name string, excludeID uint) (string, error) {
	base := util.Slugify(name)
	slug := base
	for i := 2; ; i++ {
		exists, err := s.productRepo.SlugExists(slug, excludeID)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func thumbnailRequested(sel *ThumbnailSelection) bool {
	return sel != nil && (sel.ExistingImageID != nil || sel.NewImageIndex != nil)
}

func anyExistingImageRefs(variants []VariantPayload) bool {
	for _, v := range variants {
		if len(v.ExistingImageIDs) > 0 {
			return true
		}
	}
	return false
}
