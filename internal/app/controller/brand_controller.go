package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vund-dev/moda-backend/internal/app/service"
	"github.com/vund-dev/moda-backend/internal/errors"
	"github.com/vund-dev/moda-backend/internal/middleware"
)

type BrandController struct {
	brandService service.BrandService
}

func NewBrandController(brandService service.BrandService) *BrandController {
	return &BrandController{brandService: brandService}
}

type BrandRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// ListBrands returns all brands
// GET /api/v1/brands
func (ctrl *BrandController) ListBrands(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	brands, err := ctrl.brandService.List()
	if err != nil {
		log.Error("Failed to list brands", err, nil)
		errors.ParseAndRespond(c, http.StatusInternalServerError, err, "brand")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"brands": brands,
		"count":  len(brands),
	})
}

// GetBrand returns a brand by ID
// GET /api/v1/brands/:id
func (ctrl *BrandController) GetBrand(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	brand, err := ctrl.brandService.Get(id)
	if err != nil {
		errors.ParseAndRespond(c, http.StatusNotFound, err, "brand")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"brand": brand,
	})
}

// CreateBrand creates a brand (staff or admin)
// POST /api/v1/brands
func (ctrl *BrandController) CreateBrand(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req BrandRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == nil || *req.Name == "" {
		errors.BadRequest(c, errors.ValidationRequired, "name is required")
		return
	}

	description := ""
	if req.Description != nil {
		description = *req.Description
	}

	brand, err := ctrl.brandService.Create(*req.Name, description)
	if err != nil {
		log.Error("Failed to create brand", err, map[string]interface{}{
			"name": *req.Name,
		})
		errors.ParseAndRespond(c, http.StatusInternalServerError, err, "brand")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"brand": brand,
	})
}

// UpdateBrand updates a brand (staff or admin)
// PUT /api/v1/brands/:id
func (ctrl *BrandController) UpdateBrand(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req BrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	brand, err := ctrl.brandService.Update(id, req.Name, req.Description)
	if err != nil {
		log.Error("Failed to update brand", err, map[string]interface{}{
			"brand_id": id,
		})
		errors.ParseAndRespond(c, http.StatusInternalServerError, err, "brand")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"brand": brand,
	})
}

// DeleteBrand deletes a brand (admin only)
// DELETE /api/v1/brands/:id
func (ctrl *BrandController) DeleteBrand(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.brandService.Delete(id); err != nil {
		log.Error("Failed to delete brand", err, map[string]interface{}{
			"brand_id": id,
		})
		errors.ParseAndRespond(c, http.StatusInternalServerError, err, "brand")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Brand deleted",
	})
}
