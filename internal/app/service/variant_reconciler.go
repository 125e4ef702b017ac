package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/vund-dev/moda-backend/internal/app/model"
	"github.com/vund-dev/moda-backend/internal/app/repository"
	"github.com/vund-dev/moda-backend/pkg/logger"
	"gorm.io/gorm"
)

// VariantPayload is one desired variant state inside a sync request.
// A nil ID means insert; a present ID means update that row. An empty
// SKU on insert triggers generation.
type VariantPayload struct {
	ID                *uint    `json:"id"`
	SKU               string   `json:"sku"`
	SellingPrice      float64  `json:"selling_price"`
	OriginalPrice     *float64 `json:"original_price"`
	Quantity          int      `json:"quantity"`
	Weight            *float64 `json:"weight"`
	Dimensions        string   `json:"dimensions"`
	IsDefault         bool     `json:"is_default"`
	AttributeValueIDs []uint   `json:"attribute_value_ids"`
	ImageIndexes      []int    `json:"image_indexes"`
	NewImageIndexes   []int    `json:"new_image_indexes"`
	ExistingImageIDs  []uint   `json:"existing_image_ids"`
}

// imageIndexes merges the create-path and update-path index fields;
// clients send one or the other, never both.
func (p VariantPayload) imageIndexes() []int {
	if len(p.NewImageIndexes) > 0 {
		return p.NewImageIndexes
	}
	return p.ImageIndexes
}

// Validate checks the fields every variant must get right, insert and
// update alike.
func (p VariantPayload) Validate() error {
	switch {
	case len(p.AttributeValueIDs) == 0:
		return errors.New("attribute_value_ids must not be empty")
	case p.SellingPrice < 0:
		return errors.New("selling_price must not be negative")
	case p.Quantity < 0:
		return errors.New("quantity must not be negative")
	case p.OriginalPrice != nil && *p.OriginalPrice < p.SellingPrice:
		return errors.New("original_price must not undercut selling_price")
	}
	return nil
}

// VariantValidationError rejects a payload violating the variant input
// contract before any row is touched.
type VariantValidationError struct {
	Index  int
	Reason string
}

func (e *VariantValidationError) Error() string {
	return fmt.Sprintf("variant %d: %s", e.Index, e.Reason)
}

// SignatureConflictError means two payloads in one request resolve to
// the same attribute combination.
type SignatureConflictError struct {
	Signature string
}

func (e *SignatureConflictError) Error() string {
	return fmt.Sprintf("duplicate attribute combination in request: %s", e.Signature)
}

// VariantReconciler makes the stored variant set of a product match a
// desired set in a single pass: variants absent from the request are
// deleted (media first), the rest are updated or inserted in request
// order, and attribute membership is replaced wholesale.
//
// An empty desired set deletes every variant. Callers that want
// "omitted means untouched" semantics must not call Sync at all.
type VariantReconciler interface {
	Sync(ctx context.Context, tx *gorm.DB, product *model.Product, desired []VariantPayload) error
}

type variantReconciler struct {
	variantRepo repository.VariantRepository
	skuGen      SKUGenerator
	images      ImageService
}

func NewVariantReconciler(variantRepo repository.VariantRepository, skuGen SKUGenerator, images ImageService) VariantReconciler {
	return &variantReconciler{
		variantRepo: variantRepo,
		skuGen:      skuGen,
		images:      images,
	}
}

func (r *variantReconciler) Sync(ctx context.Context, tx *gorm.DB, product *model.Product, desired []VariantPayload) error {
	logger.Debug("Syncing product variants", map[string]interface{}{
		"product_id":    product.ID,
		"desired_count": len(desired),
	})

	if err := validatePayloads(desired); err != nil {
		return err
	}
	if err := checkSignatureConflicts(desired); err != nil {
		return err
	}

	variantRepo := r.variantRepo.WithTx(tx)

	current, err := variantRepo.FindByProduct(product.ID)
	if err != nil {
		return err
	}
	currentByID := make(map[uint]*model.ProductVariant, len(current))
	for i := range current {
		currentByID[current[i].ID] = &current[i]
	}

	blobErr, err := r.deleteMissing(ctx, tx, current, desired)
	if err != nil {
		return err
	}

	processed := make([]*model.ProductVariant, 0, len(desired))
	for _, payload := range desired {
		variant, err := r.upsert(tx, product, payload, currentByID)
		if err != nil {
			return err
		}
		processed = append(processed, variant)
	}

	if err := r.repairDefault(tx, product, processed); err != nil {
		return err
	}

	logger.Info("Product variants synced", map[string]interface{}{
		"product_id": product.ID,
		"count":      len(processed),
	})
	if blobErr != nil {
		return blobErr
	}
	return nil
}

func validatePayloads(desired []VariantPayload) error {
	for i, payload := range desired {
		if err := payload.Validate(); err != nil {
			return &VariantValidationError{Index: i, Reason: err.Error()}
		}
	}
	return nil
}

func checkSignatureConflicts(desired []VariantPayload) error {
	seen := make(map[string]bool, len(desired))
	for _, payload := range desired {
		signature := variantSignature(payload.AttributeValueIDs)
		if seen[signature] {
			return &SignatureConflictError{Signature: signature}
		}
		seen[signature] = true
	}
	return nil
}

// deleteMissing removes variants whose IDs appear nowhere in the request,
// cleaning their media first so no blob outlives its row. Media whose
// blob refused deletion is reported as a partial failure; the variant
// rows still go, with the surviving media rows detached.
func (r *variantReconciler) deleteMissing(ctx context.Context, tx *gorm.DB, current []model.ProductVariant, desired []VariantPayload) (*BlobDeleteError, error) {
	keep := make(map[uint]bool, len(desired))
	for _, payload := range desired {
		if payload.ID != nil {
			keep[*payload.ID] = true
		}
	}

	toDelete := make([]uint, 0)
	for _, variant := range current {
		if !keep[variant.ID] {
			toDelete = append(toDelete, variant.ID)
		}
	}
	if len(toDelete) == 0 {
		return nil, nil
	}

	logger.Debug("Deleting variants absent from request", map[string]interface{}{
		"variant_ids": toDelete,
	})

	var blobErr *BlobDeleteError
	for _, id := range toDelete {
		if err := r.images.DeleteAllForVariant(ctx, tx, id); err != nil {
			if err = splitBlobFailure(err, &blobErr); err != nil {
				return nil, err
			}
		}
	}
	if err := r.variantRepo.WithTx(tx).DeleteByIDs(toDelete); err != nil {
		return nil, err
	}
	return blobErr, nil
}

func (r *variantReconciler) upsert(tx *gorm.DB, product *model.Product, payload VariantPayload, currentByID map[uint]*model.ProductVariant) (*model.ProductVariant, error) {
	variantRepo := r.variantRepo.WithTx(tx)
	signature := variantSignature(payload.AttributeValueIDs)

	var existing *model.ProductVariant
	if payload.ID != nil {
		existing = currentByID[*payload.ID]
	}

	sku := payload.SKU
	if sku == "" {
		if existing != nil {
			sku = existing.SKU
		} else {
			generated, err := r.skuGen.Generate(tx, product, payload.AttributeValueIDs)
			if err != nil {
				return nil, err
			}
			sku = generated
		}
	}

	variant := &model.ProductVariant{
		ProductID:     product.ID,
		SKU:           sku,
		Signature:     signature,
		SellingPrice:  payload.SellingPrice,
		OriginalPrice: payload.OriginalPrice,
		Quantity:      payload.Quantity,
		Weight:        payload.Weight,
		Dimensions:    payload.Dimensions,
		IsDefault:     payload.IsDefault,
	}

	if existing != nil {
		variant.ID = existing.ID
		if err := variantRepo.Update(variant); err != nil {
			return nil, err
		}
	} else {
		if err := variantRepo.Create(variant); err != nil {
			return nil, err
		}
	}

	values := make([]model.AttributeValue, len(payload.AttributeValueIDs))
	for i, id := range payload.AttributeValueIDs {
		values[i] = model.AttributeValue{ID: id}
	}
	if err := variantRepo.ReplaceAttributeValues(variant, values); err != nil {
		return nil, err
	}
	return variant, nil
}

// repairDefault guarantees exactly one default among the survivors: the
// first requested default wins, extras are cleared, and when nobody asked
// the first variant is promoted.
func (r *variantReconciler) repairDefault(tx *gorm.DB, product *model.Product, processed []*model.ProductVariant) error {
	if len(processed) == 0 {
		return nil
	}

	defaults := make([]*model.ProductVariant, 0, 1)
	for _, v := range processed {
		if v.IsDefault {
			defaults = append(defaults, v)
		}
	}

	switch {
	case len(defaults) == 1:
		return nil
	case len(defaults) == 0:
		promoted := processed[0]
		logger.Warn("No default variant requested, promoting first", map[string]interface{}{
			"product_id": product.ID,
			"variant_id": promoted.ID,
		})
		promoted.IsDefault = true
		return setDefaultFlag(tx, promoted.ID, true)
	default:
		logger.Warn("Multiple default variants requested, keeping first", map[string]interface{}{
			"product_id": product.ID,
			"variant_id": defaults[0].ID,
		})
		for _, v := range defaults[1:] {
			v.IsDefault = false
			if err := setDefaultFlag(tx, v.ID, false); err != nil {
				return err
			}
		}
		return nil
	}
}

func setDefaultFlag(tx *gorm.DB, variantID uint, isDefault bool) error {
	return tx.Model(&model.ProductVariant{}).
		Where("id = ?", variantID).
		Update("is_default", isDefault).Error
}
