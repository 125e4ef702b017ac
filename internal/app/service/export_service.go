package service

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/vund-dev/moda-backend/internal/app/model"
	"github.com/vund-dev/moda-backend/internal/app/repository"
	"github.com/vund-dev/moda-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// ExportService produces the admin catalog spreadsheet: one row per
// variant, grouped under its product.
type ExportService interface {
	ExportCatalog(filter repository.ProductFilter) (*bytes.Buffer, error)
}

type exportService struct {
	productRepo repository.ProductRepository
}

func NewExportService(productRepo repository.ProductRepository) ExportService {
	return &exportService{productRepo: productRepo}
}

var catalogHeaders = []string{
	"Product ID", "Product", "Slug", "Status", "Brand", "Category",
	"SKU", "Attributes", "Selling Price", "Original Price", "Quantity", "Default",
}

func (s *exportService) ExportCatalog(filter repository.ProductFilter) (*bytes.Buffer, error) {
	// Export everything matching the filter, not one page of it.
	filter.Limit = 0
	filter.Offset = 0

	products, _, err := s.productRepo.FindWithFilter(filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Catalog"
	f.SetSheetName(f.GetSheetName(0), sheet)

	for col, header := range catalogHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	row := 2
	for i := range products {
		product := &products[i]

		variants, err := s.variantsFor(product)
		if err != nil {
			return nil, err
		}

		if len(variants) == 0 {
			s.writeRow(f, sheet, row, product, nil)
			row++
			continue
		}
		for j := range variants {
			s.writeRow(f, sheet, row, product, &variants[j])
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		logger.Error("Failed to build catalog workbook", err, nil)
		return nil, err
	}

	logger.Info("Catalog exported", map[string]interface{}{
		"products": len(products),
		"rows":     row - 2,
	})
	return buf, nil
}

// variantsFor reloads the full variant set; the filtered listing only
// preloads the default variant.
func (s *exportService) variantsFor(product *model.Product) ([]model.ProductVariant, error) {
	full, err := s.productRepo.FindByID(product.ID)
	if err != nil {
		return nil, err
	}
	return full.Variants, nil
}

func (s *exportService) writeRow(f *excelize.File, sheet string, row int, product *model.Product, variant *model.ProductVariant) {
	brand := ""
	if product.Brand != nil {
		brand = product.Brand.Name
	}
	category := ""
	if product.Category != nil {
		category = product.Category.Name
	}

	values := []interface{}{
		product.ID, product.Name, product.Slug, string(product.Status), brand, category,
	}
	if variant != nil {
		attrs := make([]string, 0, len(variant.AttributeValues))
		for _, av := range variant.AttributeValues {
			attrs = append(attrs, av.Value)
		}
		original := ""
		if variant.OriginalPrice != nil {
			original = fmt.Sprintf("%.2f", *variant.OriginalPrice)
		}
		values = append(values,
			variant.SKU,
			strings.Join(attrs, " / "),
			variant.SellingPrice,
			original,
			variant.Quantity,
			variant.IsDefault,
		)
	}

	for col, v := range values {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		f.SetCellValue(sheet, cell, v)
	}
}
