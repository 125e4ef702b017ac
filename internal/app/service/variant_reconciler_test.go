package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vund-dev/moda-backend/internal/app/model"
)

func TestVariantReconciler_Sync_CreatesVariants(t *testing.T) {
	env := setupCatalogEnv(t)
	product := env.newProduct(t, "Red T-Shirt", "red-t-shirt")

	desired := []VariantPayload{
		{
			SellingPrice:      19.99,
			Quantity:          5,
			AttributeValueIDs: []uint{env.values["RD"], env.values["M"]},
		},
		{
			SellingPrice:      21.99,
			Quantity:          3,
			AttributeValueIDs: []uint{env.values["RD"], env.values["L"]},
		},
	}

	require.NoError(t, env.reconciler.Sync(context.Background(), env.db, product, desired))

	variants, err := env.variantRepo.FindByProduct(product.ID)
	require.NoError(t, err)
	require.Len(t, variants, 2)

	assert.Equal(t, "RED-M-RD", variants[0].SKU)
	assert.Equal(t, "RED-L-RD", variants[1].SKU)
	assert.Equal(t, variantSignature([]uint{env.values["RD"], env.values["M"]}), variants[0].Signature)
	assert.ElementsMatch(t,
		[]uint{env.values["RD"], env.values["M"]},
		variants[0].AttributeValueIDs(),
	)

	// Nobody asked for a default, so the first variant is promoted.
	assert.True(t, variants[0].IsDefault)
	assert.False(t, variants[1].IsDefault)
}

func TestVariantReconciler_Sync_Idempotent(t *testing.T) {
	env := setupCatalogEnv(t)
	product := env.newProduct(t, "Red T-Shirt", "red-t-shirt")

	desired := []VariantPayload{
		{
			SellingPrice:      19.99,
			Quantity:          5,
			IsDefault:         true,
			AttributeValueIDs: []uint{env.values["RD"], env.values["M"]},
		},
		{
			SellingPrice:      21.99,
			Quantity:          3,
			AttributeValueIDs: []uint{env.values["RD"], env.values["L"]},
		},
	}
	require.NoError(t, env.reconciler.Sync(context.Background(), env.db, product, desired))

	first, err := env.variantRepo.FindByProduct(product.ID)
	require.NoError(t, err)
	require.Len(t, first, 2)

	// Echo the stored state back, IDs included.
	echo := make([]VariantPayload, len(first))
	for i := range first {
		v := first[i]
		echo[i] = VariantPayload{
			ID:                &v.ID,
			SKU:               v.SKU,
			SellingPrice:      v.SellingPrice,
			Quantity:          v.Quantity,
			IsDefault:         v.IsDefault,
			AttributeValueIDs: v.AttributeValueIDs(),
		}
	}
	require.NoError(t, env.reconciler.Sync(context.Background(), env.db, product, echo))

	second, err := env.variantRepo.FindByProduct(product.ID)
	require.NoError(t, err)
	require.Len(t, second, 2)

	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].SKU, second[i].SKU)
		assert.Equal(t, first[i].Signature, second[i].Signature)
		assert.Equal(t, first[i].IsDefault, second[i].IsDefault)
		assert.ElementsMatch(t, first[i].AttributeValueIDs(), second[i].AttributeValueIDs())
	}
}

func TestVariantReconciler_Sync_DeletesMissingWithMedia(t *testing.T) {
	env := setupCatalogEnv(t)
	ctx := context.Background()
	product := env.newProduct(t, "Red T-Shirt", "red-t-shirt")

	desired := []VariantPayload{
		{SellingPrice: 19.99, AttributeValueIDs: []uint{env.values["RD"], env.values["M"]}},
		{SellingPrice: 21.99, AttributeValueIDs: []uint{env.values["RD"], env.values["L"]}},
	}
	require.NoError(t, env.reconciler.Sync(ctx, env.db, product, desired))

	variants, err := env.variantRepo.FindByProduct(product.ID)
	require.NoError(t, err)
	require.Len(t, variants, 2)

	doomed := variants[1]
	image, err := env.images.Store(ctx, env.db, mediaFile("v.jpg", "image/jpeg", "img"), product, &doomed.ID)
	require.NoError(t, err)
	require.True(t, env.blobs.has(image.Path))

	keep := VariantPayload{
		ID:                &variants[0].ID,
		SKU:               variants[0].SKU,
		SellingPrice:      variants[0].SellingPrice,
		AttributeValueIDs: variants[0].AttributeValueIDs(),
	}
	require.NoError(t, env.reconciler.Sync(ctx, env.db, product, []VariantPayload{keep}))

	remaining, err := env.variantRepo.FindByProduct(product.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, variants[0].ID, remaining[0].ID)

	// The deleted variant's media is gone, rows and blob alike.
	rows, err := env.imageRepo.FindByVariant(doomed.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.False(t, env.blobs.has(image.Path))

	// Join rows of the deleted variant are cleaned up too.
	var joinCount int64
	require.NoError(t, env.db.Table("attribute_product_variants").
		Where("product_variant_id = ?", doomed.ID).
		Count(&joinCount).Error)
	assert.Zero(t, joinCount)
}

func TestVariantReconciler_Sync_EmptyWipesAll(t *testing.T) {
	env := setupCatalogEnv(t)
	ctx := context.Background()
	product := env.newProduct(t, "Red T-Shirt", "red-t-shirt")

	desired := []VariantPayload{
		{SellingPrice: 19.99, AttributeValueIDs: []uint{env.values["RD"], env.values["M"]}},
	}
	require.NoError(t, env.reconciler.Sync(ctx, env.db, product, desired))

	require.NoError(t, env.reconciler.Sync(ctx, env.db, product, []VariantPayload{}))

	remaining, err := env.variantRepo.FindByProduct(product.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestVariantReconciler_Sync_DuplicateSignatureRejected(t *testing.T) {
	env := setupCatalogEnv(t)
	product := env.newProduct(t, "Red T-Shirt", "red-t-shirt")

	desired := []VariantPayload{
		{SellingPrice: 19.99, AttributeValueIDs: []uint{env.values["RD"], env.values["M"]}},
		{SellingPrice: 24.99, AttributeValueIDs: []uint{env.values["M"], env.values["RD"]}},
	}

	err := env.reconciler.Sync(context.Background(), env.db, product, desired)
	var conflict *SignatureConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, variantSignature([]uint{env.values["RD"], env.values["M"]}), conflict.Signature)
}

func TestVariantReconciler_Sync_KeepsSKUOnUpdate(t *testing.T) {
	env := setupCatalogEnv(t)
	ctx := context.Background()
	product := env.newProduct(t, "Red T-Shirt", "red-t-shirt")

	require.NoError(t, env.reconciler.Sync(ctx, env.db, product, []VariantPayload{
		{SellingPrice: 19.99, AttributeValueIDs: []uint{env.values["RD"], env.values["M"]}},
	}))

	variants, err := env.variantRepo.FindByProduct(product.ID)
	require.NoError(t, err)
	require.Len(t, variants, 1)
	originalSKU := variants[0].SKU

	// Update without an SKU; the stored one must survive.
	require.NoError(t, env.reconciler.Sync(ctx, env.db, product, []VariantPayload{
		{
			ID:                &variants[0].ID,
			SellingPrice:      25.00,
			AttributeValueIDs: variants[0].AttributeValueIDs(),
		},
	}))

	updated, err := env.variantRepo.FindByProduct(product.ID)
	require.NoError(t, err)
	require.Len(t, updated, 1)
	assert.Equal(t, originalSKU, updated[0].SKU)
	assert.Equal(t, 25.00, updated[0].SellingPrice)
}

func TestVariantReconciler_Sync_SingleDefaultEnforced(t *testing.T) {
	env := setupCatalogEnv(t)
	product := env.newProduct(t, "Red T-Shirt", "red-t-shirt")

	desired := []VariantPayload{
		{SellingPrice: 19.99, IsDefault: true, AttributeValueIDs: []uint{env.values["RD"], env.values["M"]}},
		{SellingPrice: 21.99, IsDefault: true, AttributeValueIDs: []uint{env.values["RD"], env.values["L"]}},
	}
	require.NoError(t, env.reconciler.Sync(context.Background(), env.db, product, desired))

	variants, err := env.variantRepo.FindByProduct(product.ID)
	require.NoError(t, err)
	require.Len(t, variants, 2)

	defaults := 0
	for _, v := range variants {
		if v.IsDefault {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)
	assert.True(t, variants[0].IsDefault, "the first requested default wins")
}

func TestVariantReconciler_Sync_ReplacesAttributeMembership(t *testing.T) {
	env := setupCatalogEnv(t)
	ctx := context.Background()
	product := env.newProduct(t, "Red T-Shirt", "red-t-shirt")

	require.NoError(t, env.reconciler.Sync(ctx, env.db, product, []VariantPayload{
		{SellingPrice: 19.99, AttributeValueIDs: []uint{env.values["RD"], env.values["M"]}},
	}))

	variants, err := env.variantRepo.FindByProduct(product.ID)
	require.NoError(t, err)
	require.Len(t, variants, 1)

	// Change the combination on the same row.
	require.NoError(t, env.reconciler.Sync(ctx, env.db, product, []VariantPayload{
		{
			ID:                &variants[0].ID,
			SKU:               variants[0].SKU,
			SellingPrice:      19.99,
			AttributeValueIDs: []uint{env.values["BL"], env.values["L"]},
		},
	}))

	updated, err := env.variantRepo.FindByProduct(product.ID)
	require.NoError(t, err)
	require.Len(t, updated, 1)
	assert.ElementsMatch(t, []uint{env.values["BL"], env.values["L"]}, updated[0].AttributeValueIDs())
	assert.Equal(t, variantSignature([]uint{env.values["BL"], env.values["L"]}), updated[0].Signature)
}

func TestVariantReconciler_Sync_RejectsInvalidPayloads(t *testing.T) {
	env := setupCatalogEnv(t)
	product := env.newProduct(t, "Red T-Shirt", "red-t-shirt")

	undercut := 5.00
	tests := []struct {
		name    string
		payload VariantPayload
	}{
		{
			name:    "Missing attribute values",
			payload: VariantPayload{SellingPrice: 19.99},
		},
		{
			name: "Negative selling price",
			payload: VariantPayload{
				SellingPrice:      -5,
				AttributeValueIDs: []uint{env.values["RD"], env.values["M"]},
			},
		},
		{
			name: "Negative quantity",
			payload: VariantPayload{
				SellingPrice:      19.99,
				Quantity:          -3,
				AttributeValueIDs: []uint{env.values["RD"], env.values["M"]},
			},
		},
		{
			name: "Original price below selling price",
			payload: VariantPayload{
				SellingPrice:      19.99,
				OriginalPrice:     &undercut,
				AttributeValueIDs: []uint{env.values["RD"], env.values["M"]},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := env.reconciler.Sync(context.Background(), env.db, product, []VariantPayload{tt.payload})
			var invalid *VariantValidationError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, 0, invalid.Index)
		})
	}

	// Nothing reached the database.
	variants, err := env.variantRepo.FindByProduct(product.ID)
	require.NoError(t, err)
	assert.Empty(t, variants)
}

func TestVariantReconciler_Sync_DeletedVariantBlobFailure(t *testing.T) {
	env := setupCatalogEnv(t)
	ctx := context.Background()
	product := env.newProduct(t, "Red T-Shirt", "red-t-shirt")

	require.NoError(t, env.reconciler.Sync(ctx, env.db, product, []VariantPayload{
		{SellingPrice: 19.99, AttributeValueIDs: []uint{env.values["RD"], env.values["M"]}},
	}))
	variants, err := env.variantRepo.FindByProduct(product.ID)
	require.NoError(t, err)
	require.Len(t, variants, 1)

	image, err := env.images.Store(ctx, env.db, mediaFile("v.jpg", "image/jpeg", "img"), product, &variants[0].ID)
	require.NoError(t, err)
	env.blobs.failKeys[image.Path] = true

	err = env.reconciler.Sync(ctx, env.db, product, []VariantPayload{})
	var blobErr *BlobDeleteError
	require.ErrorAs(t, err, &blobErr)
	assert.Equal(t, []uint{image.ID}, blobErr.FailedIDs)

	// The variant row goes regardless of the stuck blob.
	remaining, err := env.variantRepo.FindByProduct(product.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	// The media row survives, detached, with its blob intact.
	row, err := env.imageRepo.FindByID(image.ID)
	require.NoError(t, err)
	assert.Nil(t, row.ProductVariantID)
	assert.True(t, env.blobs.has(image.Path))
}

func TestVariantSignature(t *testing.T) {
	assert.Equal(t, "3-7-12", variantSignature([]uint{12, 3, 7}))
	assert.Equal(t, "3-7-12", variantSignature([]uint{3, 7, 12, 7}))
	assert.Equal(t, "", variantSignature(nil))
}

func findVariant(t *testing.T, variants []model.ProductVariant, sku string) *model.ProductVariant {
	t.Helper()
	for i := range variants {
		if variants[i].SKU == sku {
			return &variants[i]
		}
	}
	t.Fatalf("variant %s not found", sku)
	return nil
}
