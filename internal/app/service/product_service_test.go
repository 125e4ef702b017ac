package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vund-dev/moda-backend/internal/app/model"
	"github.com/vund-dev/moda-backend/internal/app/repository"
)

func TestProductService_Create_FullAggregate(t *testing.T) {
	env := setupCatalogEnv(t)
	ctx := context.Background()

	thumbIdx := 0
	input := CreateProductInput{
		Name:       "Red T-Shirt",
		Status:     model.StatusActive,
		BrandID:    env.brand.ID,
		CategoryID: env.category.ID,
		Variants: []VariantPayload{
			{
				SellingPrice:      19.99,
				Quantity:          5,
				IsDefault:         true,
				AttributeValueIDs: []uint{env.values["RD"], env.values["M"]},
				NewImageIndexes:   []int{0},
			},
			{
				SellingPrice:      21.99,
				Quantity:          3,
				AttributeValueIDs: []uint{env.values["RD"], env.values["L"]},
			},
		},
		OptionIDs: []uint{env.values["RD"]},
		Files: []MediaFile{
			mediaFile("front.jpg", "image/jpeg", "front"),
			mediaFile("back.jpg", "image/jpeg", "back"),
		},
		Thumbnail: &ThumbnailSelection{NewImageIndex: &thumbIdx},
	}

	product, err := env.products.Create(ctx, input)
	require.NoError(t, err)

	assert.Equal(t, "red-t-shirt", product.Slug)
	require.Len(t, product.Variants, 2)
	assert.Equal(t, "RED-M-RD", product.Variants[0].SKU)
	assert.True(t, product.Variants[0].IsDefault)

	require.Len(t, product.Images, 2)
	thumbnail := product.ThumbnailImage()
	require.NotNil(t, thumbnail)
	require.NotNil(t, thumbnail.ProductVariantID)
	assert.Equal(t, product.Variants[0].ID, *thumbnail.ProductVariantID)

	require.Len(t, product.AttributeValues, 1)
	assert.Equal(t, env.values["RD"], product.AttributeValues[0].ID)

	assert.Equal(t, 2, env.blobs.count())
}

func TestProductService_Create_DuplicateNameGetsSuffixedSlug(t *testing.T) {
	env := setupCatalogEnv(t)
	ctx := context.Background()

	input := CreateProductInput{
		Name:       "Red T-Shirt",
		BrandID:    env.brand.ID,
		CategoryID: env.category.ID,
	}

	first, err := env.products.Create(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "red-t-shirt", first.Slug)

	second, err := env.products.Create(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "red-t-shirt-2", second.Slug)
}

func TestProductService_Update_OmittedVariantsUntouched(t *testing.T) {
	env := setupCatalogEnv(t)
	ctx := context.Background()

	product, err := env.products.Create(ctx, CreateProductInput{
		Name:       "Red T-Shirt",
		BrandID:    env.brand.ID,
		CategoryID: env.category.ID,
		Variants: []VariantPayload{
			{SellingPrice: 19.99, AttributeValueIDs: []uint{env.values["RD"], env.values["M"]}},
		},
	})
	require.NoError(t, err)
	require.Len(t, product.Variants, 1)

	name := "Crimson T-Shirt"
	updated, err := env.products.Update(ctx, product.ID, UpdateProductInput{
		Name: &name,
		// HasVariants stays false: the variant set must survive.
	})
	require.NoError(t, err)

	assert.Equal(t, "Crimson T-Shirt", updated.Name)
	assert.Equal(t, "crimson-t-shirt", updated.Slug)
	require.Len(t, updated.Variants, 1)
	assert.Equal(t, product.Variants[0].ID, updated.Variants[0].ID)
}

func TestProductService_Update_EmptyVariantsWipesAll(t *testing.T) {
	env := setupCatalogEnv(t)
	ctx := context.Background()

	product, err := env.products.Create(ctx, CreateProductInput{
		Name:       "Red T-Shirt",
		BrandID:    env.brand.ID,
		CategoryID: env.category.ID,
		Variants: []VariantPayload{
			{
				SellingPrice:      19.99,
				AttributeValueIDs: []uint{env.values["RD"], env.values["M"]},
				NewImageIndexes:   []int{0},
			},
		},
		Files: []MediaFile{mediaFile("v.jpg", "image/jpeg", "v")},
	})
	require.NoError(t, err)
	require.Len(t, product.Variants, 1)
	require.Len(t, product.Images, 1)

	updated, err := env.products.Update(ctx, product.ID, UpdateProductInput{
		HasVariants: true,
		Variants:    []VariantPayload{},
	})
	require.NoError(t, err)

	assert.Empty(t, updated.Variants)
	// The deleted variant's media went with it.
	assert.Empty(t, updated.Images)
	assert.Zero(t, env.blobs.count())
}

func TestProductService_Update_DeletedImages(t *testing.T) {
	env := setupCatalogEnv(t)
	ctx := context.Background()

	product, err := env.products.Create(ctx, CreateProductInput{
		Name:       "Red T-Shirt",
		BrandID:    env.brand.ID,
		CategoryID: env.category.ID,
		Files: []MediaFile{
			mediaFile("a.jpg", "image/jpeg", "a"),
			mediaFile("b.jpg", "image/jpeg", "b"),
		},
	})
	require.NoError(t, err)
	require.Len(t, product.Images, 2)

	updated, err := env.products.Update(ctx, product.ID, UpdateProductInput{
		DeletedImageIDs: []uint{product.Images[0].ID},
	})
	require.NoError(t, err)

	require.Len(t, updated.Images, 1)
	assert.Equal(t, product.Images[1].ID, updated.Images[0].ID)
	assert.Equal(t, 1, env.blobs.count())
}

func TestProductService_Delete_CleansAggregate(t *testing.T) {
	env := setupCatalogEnv(t)
	ctx := context.Background()

	product, err := env.products.Create(ctx, CreateProductInput{
		Name:       "Red T-Shirt",
		BrandID:    env.brand.ID,
		CategoryID: env.category.ID,
		Variants: []VariantPayload{
			{
				SellingPrice:      19.99,
				AttributeValueIDs: []uint{env.values["RD"], env.values["M"]},
				NewImageIndexes:   []int{0},
			},
		},
		Files: []MediaFile{mediaFile("v.jpg", "image/jpeg", "v")},
	})
	require.NoError(t, err)

	require.NoError(t, env.products.Delete(ctx, product.ID, nil))

	_, err = env.products.Get(product.ID)
	assert.Error(t, err, "soft-deleted product is invisible")

	variants, err := env.variantRepo.FindByProduct(product.ID)
	require.NoError(t, err)
	assert.Empty(t, variants)

	images, err := env.imageRepo.FindByProduct(product.ID)
	require.NoError(t, err)
	assert.Empty(t, images)
	assert.Zero(t, env.blobs.count())
}

func TestProductService_List_DefaultOrdering(t *testing.T) {
	env := setupCatalogEnv(t)
	ctx := context.Background()

	for _, name := range []string{"Alpha Shirt", "Beta Shirt", "Gamma Shirt"} {
		_, err := env.products.Create(ctx, CreateProductInput{
			Name:       name,
			BrandID:    env.brand.ID,
			CategoryID: env.category.ID,
		})
		require.NoError(t, err)
	}

	products, total, err := env.products.List(repository.ProductFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, products, 3)

	// Newest first, ID breaking created_at ties.
	assert.Equal(t, "Gamma Shirt", products[0].Name)
	assert.Equal(t, "Beta Shirt", products[1].Name)
	assert.Equal(t, "Alpha Shirt", products[2].Name)
}

func TestProductService_Update_PartialBlobFailureStillCommits(t *testing.T) {
	env := setupCatalogEnv(t)
	ctx := context.Background()

	product, err := env.products.Create(ctx, CreateProductInput{
		Name:       "Red T-Shirt",
		BrandID:    env.brand.ID,
		CategoryID: env.category.ID,
		Files: []MediaFile{
			mediaFile("a.jpg", "image/jpeg", "a"),
			mediaFile("b.jpg", "image/jpeg", "b"),
		},
	})
	require.NoError(t, err)
	require.Len(t, product.Images, 2)

	good, stuck := product.Images[0], product.Images[1]
	env.blobs.failKeys[stuck.Path] = true

	updated, err := env.products.Update(ctx, product.ID, UpdateProductInput{
		DeletedImageIDs: []uint{good.ID, stuck.ID},
	})
	var blobErr *BlobDeleteError
	require.ErrorAs(t, err, &blobErr)
	assert.Equal(t, []uint{stuck.ID}, blobErr.FailedIDs)
	require.NotNil(t, updated)

	// The blob delete already happened, so its row cleanup must survive
	// the transaction. Only the stuck row may remain.
	require.Len(t, updated.Images, 1)
	assert.Equal(t, stuck.ID, updated.Images[0].ID)
	assert.False(t, env.blobs.has(good.Path))
	assert.True(t, env.blobs.has(stuck.Path))
}

func TestProductService_Delete_PartialBlobFailure(t *testing.T) {
	env := setupCatalogEnv(t)
	ctx := context.Background()

	product, err := env.products.Create(ctx, CreateProductInput{
		Name:       "Red T-Shirt",
		BrandID:    env.brand.ID,
		CategoryID: env.category.ID,
		Variants: []VariantPayload{
			{
				SellingPrice:      19.99,
				AttributeValueIDs: []uint{env.values["RD"], env.values["M"]},
				NewImageIndexes:   []int{0},
			},
		},
		Files: []MediaFile{
			mediaFile("v.jpg", "image/jpeg", "v"),
			mediaFile("p.jpg", "image/jpeg", "p"),
		},
	})
	require.NoError(t, err)
	require.Len(t, product.Images, 2)

	var stuck model.ProductImage
	for _, img := range product.Images {
		if img.ProductVariantID != nil {
			stuck = img
		}
	}
	require.NotZero(t, stuck.ID)
	env.blobs.failKeys[stuck.Path] = true

	err = env.products.Delete(ctx, product.ID, nil)
	var blobErr *BlobDeleteError
	require.ErrorAs(t, err, &blobErr)
	assert.Equal(t, []uint{stuck.ID}, blobErr.FailedIDs)

	// The delete itself committed.
	_, err = env.products.Get(product.ID)
	assert.Error(t, err)
	variants, err := env.variantRepo.FindByProduct(product.ID)
	require.NoError(t, err)
	assert.Empty(t, variants)

	// The stuck row survives, detached from its deleted variant, with
	// its blob intact for a retry.
	rows, err := env.imageRepo.FindByProduct(product.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, stuck.ID, rows[0].ID)
	assert.Nil(t, rows[0].ProductVariantID)
	assert.True(t, env.blobs.has(stuck.Path))
	assert.Equal(t, 1, env.blobs.count())
}

func TestProductService_Update_RenameFlowsIntoNewSKUs(t *testing.T) {
	env := setupCatalogEnv(t)
	ctx := context.Background()

	product, err := env.products.Create(ctx, CreateProductInput{
		Name:       "Red T-Shirt",
		BrandID:    env.brand.ID,
		CategoryID: env.category.ID,
	})
	require.NoError(t, err)

	name := "Blue Polo"
	updated, err := env.products.Update(ctx, product.ID, UpdateProductInput{
		Name:        &name,
		HasVariants: true,
		Variants: []VariantPayload{
			{SellingPrice: 19.99, AttributeValueIDs: []uint{env.values["RD"], env.values["M"]}},
		},
	})
	require.NoError(t, err)

	// A variant created in the same request derives its SKU from the
	// renamed slug, not the one loaded before the update.
	assert.Equal(t, "blue-polo", updated.Slug)
	require.Len(t, updated.Variants, 1)
	assert.Equal(t, "BLU-M-RD", updated.Variants[0].SKU)
}

func TestProductService_Update_RejectsBadMedia(t *testing.T) {
	env := setupCatalogEnv(t)
	ctx := context.Background()

	product, err := env.products.Create(ctx, CreateProductInput{
		Name:       "Red T-Shirt",
		BrandID:    env.brand.ID,
		CategoryID: env.category.ID,
	})
	require.NoError(t, err)

	_, err = env.products.Update(ctx, product.ID, UpdateProductInput{
		Files: []MediaFile{
			mediaFile("a.mp4", "video/mp4", "a"),
			mediaFile("b.mp4", "video/mp4", "b"),
		},
	})
	assert.ErrorIs(t, err, ErrTooManyVideos)
}
