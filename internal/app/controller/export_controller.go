package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vund-dev/moda-backend/internal/app/service"
	"github.com/vund-dev/moda-backend/internal/errors"
	"github.com/vund-dev/moda-backend/internal/middleware"
)

type ExportController struct {
	exportService service.ExportService
}

func NewExportController(exportService service.ExportService) *ExportController {
	return &ExportController{exportService: exportService}
}

// ExportCatalog streams the catalog as an xlsx workbook (admin only)
// GET /api/v1/admin/export/catalog
func (ctrl *ExportController) ExportCatalog(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter, err := parseProductFilter(c)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, err.Error())
		return
	}

	buf, err := ctrl.exportService.ExportCatalog(filter)
	if err != nil {
		log.Error("Failed to export catalog", err, nil)
		errors.InternalError(c, "Failed to export catalog")
		return
	}

	filename := fmt.Sprintf("catalog-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}
