package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageService_Assign_BySignature(t *testing.T) {
	env := setupCatalogEnv(t)
	ctx := context.Background()
	product := env.newProduct(t, "Red T-Shirt", "red-t-shirt")

	desired := []VariantPayload{
		{
			SellingPrice:      19.99,
			AttributeValueIDs: []uint{env.values["RD"], env.values["M"]},
			NewImageIndexes:   []int{0},
		},
		{
			SellingPrice:      21.99,
			AttributeValueIDs: []uint{env.values["RD"], env.values["L"]},
			NewImageIndexes:   []int{1},
		},
	}
	require.NoError(t, env.reconciler.Sync(ctx, env.db, product, desired))

	files := []MediaFile{
		mediaFile("m.jpg", "image/jpeg", "medium"),
		mediaFile("l.jpg", "image/jpeg", "large"),
		mediaFile("shared.jpg", "image/jpeg", "shared"),
	}

	fresh := env.reload(t, product.ID)
	require.NoError(t, env.images.Assign(ctx, env.db, fresh, files, desired, nil))

	variants, err := env.variantRepo.FindByProduct(product.ID)
	require.NoError(t, err)
	mVariant := findVariant(t, variants, "RED-M-RD")
	lVariant := findVariant(t, variants, "RED-L-RD")

	mImages, err := env.imageRepo.FindByVariant(mVariant.ID)
	require.NoError(t, err)
	require.Len(t, mImages, 1)

	lImages, err := env.imageRepo.FindByVariant(lVariant.ID)
	require.NoError(t, err)
	require.Len(t, lImages, 1)

	// The file no variant claimed lands at product level.
	all, err := env.imageRepo.FindByProduct(product.ID)
	require.NoError(t, err)
	require.Len(t, all, 3)

	productLevel := 0
	for _, img := range all {
		if img.ProductVariantID == nil {
			productLevel++
		}
	}
	assert.Equal(t, 1, productLevel)
	assert.Equal(t, 3, env.blobs.count())
}

func TestImageService_Assign_AfterRecreatedVariant(t *testing.T) {
	env := setupCatalogEnv(t)
	ctx := context.Background()
	product := env.newProduct(t, "Red T-Shirt", "red-t-shirt")

	// First sync creates the variant, second sync (without the ID)
	// deletes and reinserts it under a new row ID. Assignment still
	// finds it by signature.
	payload := VariantPayload{
		SellingPrice:      19.99,
		AttributeValueIDs: []uint{env.values["RD"], env.values["M"]},
		NewImageIndexes:   []int{0},
	}
	require.NoError(t, env.reconciler.Sync(ctx, env.db, product, []VariantPayload{payload}))
	require.NoError(t, env.reconciler.Sync(ctx, env.db, product, []VariantPayload{payload}))

	files := []MediaFile{mediaFile("m.jpg", "image/jpeg", "medium")}
	fresh := env.reload(t, product.ID)
	require.NoError(t, env.images.Assign(ctx, env.db, fresh, files, []VariantPayload{payload}, nil))

	variants, err := env.variantRepo.FindByProduct(product.ID)
	require.NoError(t, err)
	require.Len(t, variants, 1)

	images, err := env.imageRepo.FindByVariant(variants[0].ID)
	require.NoError(t, err)
	assert.Len(t, images, 1)
}

func TestImageService_Assign_ExistingImagesRebound(t *testing.T) {
	env := setupCatalogEnv(t)
	ctx := context.Background()
	product := env.newProduct(t, "Red T-Shirt", "red-t-shirt")

	payload := VariantPayload{
		SellingPrice:      19.99,
		AttributeValueIDs: []uint{env.values["RD"], env.values["M"]},
	}
	require.NoError(t, env.reconciler.Sync(ctx, env.db, product, []VariantPayload{payload}))

	// A product-level image uploaded earlier.
	image, err := env.images.Store(ctx, env.db, mediaFile("old.jpg", "image/jpeg", "old"), product, nil)
	require.NoError(t, err)
	require.Nil(t, image.ProductVariantID)

	payload.ExistingImageIDs = []uint{image.ID}
	fresh := env.reload(t, product.ID)
	require.NoError(t, env.images.Assign(ctx, env.db, fresh, nil, []VariantPayload{payload}, nil))

	variants, err := env.variantRepo.FindByProduct(product.ID)
	require.NoError(t, err)
	require.Len(t, variants, 1)

	rebound, err := env.imageRepo.FindByID(image.ID)
	require.NoError(t, err)
	require.NotNil(t, rebound.ProductVariantID)
	assert.Equal(t, variants[0].ID, *rebound.ProductVariantID)
}

func TestImageService_Assign_IndexOutOfRange(t *testing.T) {
	env := setupCatalogEnv(t)
	ctx := context.Background()
	product := env.newProduct(t, "Red T-Shirt", "red-t-shirt")

	payload := VariantPayload{
		SellingPrice:      19.99,
		AttributeValueIDs: []uint{env.values["RD"], env.values["M"]},
		NewImageIndexes:   []int{5},
	}
	require.NoError(t, env.reconciler.Sync(ctx, env.db, product, []VariantPayload{payload}))

	files := []MediaFile{mediaFile("m.jpg", "image/jpeg", "medium")}
	fresh := env.reload(t, product.ID)

	err := env.images.Assign(ctx, env.db, fresh, files, []VariantPayload{payload}, nil)
	var indexErr *ImageIndexError
	require.ErrorAs(t, err, &indexErr)
	assert.Equal(t, 5, indexErr.Index)
}

func TestImageService_Assign_ThumbnailSingularity(t *testing.T) {
	env := setupCatalogEnv(t)
	ctx := context.Background()
	product := env.newProduct(t, "Red T-Shirt", "red-t-shirt")

	// Existing thumbnail from an earlier upload.
	first, err := env.images.Store(ctx, env.db, mediaFile("a.jpg", "image/jpeg", "a"), product, nil)
	require.NoError(t, err)
	require.NoError(t, env.imageRepo.SetThumbnail(first.ID))

	idx := 0
	files := []MediaFile{mediaFile("b.jpg", "image/jpeg", "b")}
	fresh := env.reload(t, product.ID)
	require.NoError(t, env.images.Assign(ctx, env.db, fresh, files, nil, &ThumbnailSelection{NewImageIndex: &idx}))

	all, err := env.imageRepo.FindByProduct(product.ID)
	require.NoError(t, err)
	require.Len(t, all, 2)

	thumbnails := 0
	for _, img := range all {
		if img.IsThumbnail {
			thumbnails++
			assert.NotEqual(t, first.ID, img.ID, "the old thumbnail flag is cleared")
		}
	}
	assert.Equal(t, 1, thumbnails)
}

func TestImageService_DeleteManyByIDs_PartialBlobFailure(t *testing.T) {
	env := setupCatalogEnv(t)
	ctx := context.Background()
	product := env.newProduct(t, "Red T-Shirt", "red-t-shirt")

	good, err := env.images.Store(ctx, env.db, mediaFile("a.jpg", "image/jpeg", "a"), product, nil)
	require.NoError(t, err)
	stuck, err := env.images.Store(ctx, env.db, mediaFile("b.jpg", "image/jpeg", "b"), product, nil)
	require.NoError(t, err)

	env.blobs.failKeys[stuck.Path] = true

	err = env.images.DeleteManyByIDs(ctx, env.db, []uint{good.ID, stuck.ID})
	var blobErr *BlobDeleteError
	require.ErrorAs(t, err, &blobErr)
	assert.Equal(t, []uint{stuck.ID}, blobErr.FailedIDs)

	// The failed row survives so its blob stays reachable for a retry.
	remaining, err := env.imageRepo.FindByProduct(product.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, stuck.ID, remaining[0].ID)
	assert.False(t, env.blobs.has(good.Path))
	assert.True(t, env.blobs.has(stuck.Path))
}

func TestValidateMediaFiles(t *testing.T) {
	tests := []struct {
		name    string
		files   []MediaFile
		wantErr error
	}{
		{
			name: "Images and one video pass",
			files: []MediaFile{
				mediaFile("a.jpg", "image/jpeg", "a"),
				mediaFile("b.mp4", "video/mp4", "b"),
			},
			wantErr: nil,
		},
		{
			name: "Two videos rejected",
			files: []MediaFile{
				mediaFile("a.mp4", "video/mp4", "a"),
				mediaFile("b.webm", "video/webm", "b"),
			},
			wantErr: ErrTooManyVideos,
		},
		{
			name: "Unknown content type rejected",
			files: []MediaFile{
				mediaFile("a.pdf", "application/pdf", "a"),
			},
			wantErr: ErrInvalidFileType,
		},
		{
			name: "Oversized file rejected",
			files: []MediaFile{
				{Filename: "big.jpg", ContentType: "image/jpeg", Size: maxUploadSize + 1},
			},
			wantErr: ErrFileTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMediaFiles(tt.files)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
