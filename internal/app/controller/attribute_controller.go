package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vund-dev/moda-backend/internal/app/service"
	"github.com/vund-dev/moda-backend/internal/errors"
	"github.com/vund-dev/moda-backend/internal/middleware"
)

type AttributeController struct {
	attributeService service.AttributeService
}

func NewAttributeController(attributeService service.AttributeService) *AttributeController {
	return &AttributeController{attributeService: attributeService}
}

type AttributeRequest struct {
	Name string `json:"name" binding:"required"`
}

type AttributeValueRequest struct {
	Value string `json:"value" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

type AttributeValueUpdateRequest struct {
	Value *string `json:"value"`
	Code  *string `json:"code"`
}

// ListAttributes returns every attribute with its values
// GET /api/v1/attributes
func (ctrl *AttributeController) ListAttributes(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	attributes, err := ctrl.attributeService.ListAttributes()
	if err != nil {
		log.Error("Failed to list attributes", err, nil)
		errors.ParseAndRespond(c, http.StatusInternalServerError, err, "attribute")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attributes": attributes,
		"count":      len(attributes),
	})
}

// GetAttribute returns an attribute by ID
// GET /api/v1/attributes/:id
func (ctrl *AttributeController) GetAttribute(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	attribute, err := ctrl.attributeService.GetAttribute(id)
	if err != nil {
		errors.ParseAndRespond(c, http.StatusNotFound, err, "attribute")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attribute": attribute,
	})
}

// CreateAttribute creates an attribute axis (staff or admin)
// POST /api/v1/attributes
func (ctrl *AttributeController) CreateAttribute(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AttributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationRequired, "name is required")
		return
	}

	attribute, err := ctrl.attributeService.CreateAttribute(req.Name)
	if err != nil {
		log.Error("Failed to create attribute", err, map[string]interface{}{
			"name": req.Name,
		})
		errors.ParseAndRespond(c, http.StatusInternalServerError, err, "attribute")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"attribute": attribute,
	})
}

// UpdateAttribute renames an attribute (staff or admin)
// PUT /api/v1/attributes/:id
func (ctrl *AttributeController) UpdateAttribute(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req AttributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationRequired, "name is required")
		return
	}

	attribute, err := ctrl.attributeService.UpdateAttribute(id, req.Name)
	if err != nil {
		log.Error("Failed to update attribute", err, map[string]interface{}{
			"attribute_id": id,
		})
		errors.ParseAndRespond(c, http.StatusInternalServerError, err, "attribute")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attribute": attribute,
	})
}

// DeleteAttribute deletes an attribute (admin only)
// DELETE /api/v1/attributes/:id
func (ctrl *AttributeController) DeleteAttribute(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.attributeService.DeleteAttribute(id); err != nil {
		log.Error("Failed to delete attribute", err, map[string]interface{}{
			"attribute_id": id,
		})
		errors.ParseAndRespond(c, http.StatusInternalServerError, err, "attribute")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Attribute deleted",
	})
}

// CreateAttributeValue adds a value to an attribute (staff or admin)
// POST /api/v1/attributes/:id/values
func (ctrl *AttributeController) CreateAttributeValue(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req AttributeValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationRequired, "value and code are required")
		return
	}

	value, err := ctrl.attributeService.CreateValue(id, req.Value, req.Code)
	if err != nil {
		log.Error("Failed to create attribute value", err, map[string]interface{}{
			"attribute_id": id,
			"code":         req.Code,
		})
		errors.ParseAndRespond(c, http.StatusInternalServerError, err, "attribute")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"attribute_value": value,
	})
}

// UpdateAttributeValue updates a value (staff or admin)
// PUT /api/v1/attribute-values/:id
func (ctrl *AttributeController) UpdateAttributeValue(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req AttributeValueUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	value, err := ctrl.attributeService.UpdateValue(id, req.Value, req.Code)
	if err != nil {
		log.Error("Failed to update attribute value", err, map[string]interface{}{
			"value_id": id,
		})
		errors.ParseAndRespond(c, http.StatusInternalServerError, err, "attribute")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attribute_value": value,
	})
}

// DeleteAttributeValue deletes a value (staff or admin)
// DELETE /api/v1/attribute-values/:id
func (ctrl *AttributeController) DeleteAttributeValue(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.attributeService.DeleteValue(id); err != nil {
		log.Error("Failed to delete attribute value", err, map[string]interface{}{
			"value_id": id,
		})
		errors.ParseAndRespond(c, http.StatusInternalServerError, err, "attribute")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Attribute value deleted",
	})
}
