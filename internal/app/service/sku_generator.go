package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vund-dev/moda-backend/internal/app/model"
	"github.com/vund-dev/moda-backend/internal/app/repository"
	"github.com/vund-dev/moda-backend/pkg/logger"
	"gorm.io/gorm"
)

// maxSKUAttempts caps collision-suffix retries before giving up
const maxSKUAttempts = 20

var ErrSKUSpaceExhausted = errors.New("could not derive a unique SKU within the attempt limit")

// SKUGenerator derives deterministic, collision-free SKUs for variants.
//
// The base form is PRODUCTCODE-CODE1-CODE2... where the product code is
// the first three characters of the slug uppercased and the value codes
// are sorted ascending and uppercased. On collision a numeric suffix is
// appended (-1, -2, ...).
type SKUGenerator interface {
	Generate(tx *gorm.DB, product *model.Product, attributeValueIDs []uint) (string, error)
}

type skuGenerator struct {
	attributeRepo repository.AttributeRepository
	variantRepo   repository.VariantRepository
}

func NewSKUGenerator(attributeRepo repository.AttributeRepository, variantRepo repository.VariantRepository) SKUGenerator {
	return &skuGenerator{
		attributeRepo: attributeRepo,
		variantRepo:   variantRepo,
	}
}

func (g *skuGenerator) Generate(tx *gorm.DB, product *model.Product, attributeValueIDs []uint) (string, error) {
	base, err := g.baseSKU(tx, product, attributeValueIDs)
	if err != nil {
		return "", err
	}

	variantRepo := g.variantRepo.WithTx(tx)

	sku := base
	for attempt := 1; ; attempt++ {
		exists, err := variantRepo.SKUExists(sku)
		if err != nil {
			return "", err
		}
		if !exists {
			if sku != base {
				logger.Debug("SKU collision resolved with suffix", map[string]interface{}{
					"product_id": product.ID,
					"base":       base,
					"sku":        sku,
				})
			}
			return sku, nil
		}
		if attempt > maxSKUAttempts {
			logger.Error("SKU attempt limit reached", ErrSKUSpaceExhausted, map[string]interface{}{
				"product_id": product.ID,
				"base":       base,
			})
			return "", ErrSKUSpaceExhausted
		}
		sku = fmt.Sprintf("%s-%d", base, attempt)
	}
}

func (g *skuGenerator) baseSKU(tx *gorm.DB, product *model.Product, attributeValueIDs []uint) (string, error) {
	code := productCode(product.Slug)

	if len(attributeValueIDs) == 0 {
		return code, nil
	}

	values, err := g.attributeRepo.WithTx(tx).FindValuesByIDsOrderedByCode(dedupeIDs(attributeValueIDs))
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(values)+1)
	parts = append(parts, code)
	for _, v := range values {
		parts = append(parts, strings.ToUpper(v.Code))
	}
	return strings.Join(parts, "-"), nil
}

// productCode is the first three characters of the slug uppercased
func productCode(slug string) string {
	code := slug
	if len(code) > 3 {
		code = code[:3]
	}
	return strings.ToUpper(code)
}

func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
