package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vund-dev/moda-backend/internal/app/service"
	"github.com/vund-dev/moda-backend/internal/errors"
	"github.com/vund-dev/moda-backend/internal/middleware"
)

type CategoryController struct {
	categoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

type CategoryRequest struct {
	Name     *string `json:"name"`
	ParentID *uint   `json:"parent_id"`
}

// ListCategories returns the category tree
// GET /api/v1/categories
func (ctrl *CategoryController) ListCategories(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	categories, err := ctrl.categoryService.List()
	if err != nil {
		log.Error("Failed to list categories", err, nil)
		errors.ParseAndRespond(c, http.StatusInternalServerError, err, "category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"count":      len(categories),
	})
}

// GetCategory returns a category by ID
// GET /api/v1/categories/:id
func (ctrl *CategoryController) GetCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	category, err := ctrl.categoryService.Get(id)
	if err != nil {
		errors.ParseAndRespond(c, http.StatusNotFound, err, "category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category": category,
	})
}

// CreateCategory creates a category (staff or admin)
// POST /api/v1/categories
func (ctrl *CategoryController) CreateCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == nil || *req.Name == "" {
		errors.BadRequest(c, errors.ValidationRequired, "name is required")
		return
	}

	category, err := ctrl.categoryService.Create(*req.Name, req.ParentID)
	if err != nil {
		log.Error("Failed to create category", err, map[string]interface{}{
			"name": *req.Name,
		})
		errors.ParseAndRespond(c, http.StatusInternalServerError, err, "category")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"category": category,
	})
}

// UpdateCategory updates a category (staff or admin)
// PUT /api/v1/categories/:id
func (ctrl *CategoryController) UpdateCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	category, err := ctrl.categoryService.Update(id, req.Name, req.ParentID)
	if err != nil {
		log.Error("Failed to update category", err, map[string]interface{}{
			"category_id": id,
		})
		errors.ParseAndRespond(c, http.StatusInternalServerError, err, "category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category": category,
	})
}

// DeleteCategory deletes a category (admin only)
// DELETE /api/v1/categories/:id
func (ctrl *CategoryController) DeleteCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.categoryService.Delete(id); err != nil {
		log.Error("Failed to delete category", err, map[string]interface{}{
			"category_id": id,
		})
		errors.ParseAndRespond(c, http.StatusInternalServerError, err, "category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Category deleted",
	})
}
