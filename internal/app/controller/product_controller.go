package controller

import (
	"encoding/json"
	stderrors "errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vund-dev/moda-backend/internal/app/model"
	"github.com/vund-dev/moda-backend/internal/app/repository"
	"github.com/vund-dev/moda-backend/internal/app/service"
	"github.com/vund-dev/moda-backend/internal/errors"
	"github.com/vund-dev/moda-backend/internal/middleware"
)

var (
	errInvalidStatus     = stderrors.New("unknown product status")
	errInvalidPagination = stderrors.New("limit must be 1-100 and offset non-negative")
)

type ProductController struct {
	productService service.ProductService
	viewService    service.ViewService
}

func NewProductController(productService service.ProductService, viewService service.ViewService) *ProductController {
	return &ProductController{
		productService: productService,
		viewService:    viewService,
	}
}

// ListProducts returns a filtered, paginated product listing
// GET /api/v1/products
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter, err := parseProductFilter(c)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, err.Error())
		return
	}

	products, total, err := ctrl.productService.List(filter)
	if err != nil {
		log.Error("Failed to list products", err, nil)
		errors.ParseAndRespond(c, http.StatusInternalServerError, err, "product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"total":    total,
		"limit":    filter.Limit,
		"offset":   filter.Offset,
	})
}

// GetProduct returns a product aggregate and records the view
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	product, err := ctrl.productService.Get(id)
	if err != nil {
		log.Warn("Product not found", map[string]interface{}{
			"product_id": id,
		})
		errors.ParseAndRespond(c, http.StatusNotFound, err, "product")
		return
	}

	ctrl.viewService.RecordView(c.Request.Context(), product.ID)

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// CreateProduct creates a product aggregate from a multipart request.
// Scalar fields arrive as form values, "variants" and "option_ids" as
// JSON strings, media under "new_images".
// POST /api/v1/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	form, err := c.MultipartForm()
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidFormat, "Expected multipart form data")
		return
	}

	name := c.PostForm("name")
	if name == "" {
		errors.BadRequest(c, errors.ValidationRequired, "name is required")
		return
	}

	brandID, err := parseFormUint(c, "brand_id")
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "brand_id must be a positive integer")
		return
	}
	categoryID, err := parseFormUint(c, "category_id")
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "category_id must be a positive integer")
		return
	}

	status := model.ProductStatus(c.PostForm("status"))
	if status != "" && !status.Valid() {
		errors.BadRequest(c, errors.ValidationInvalidInput, "unknown product status")
		return
	}

	variants, _, err := parseVariantsField(c)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidFormat, "variants must be a JSON array")
		return
	}
	optionIDs, _, err := parseUintListField(c, "option_ids")
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidFormat, "option_ids must be a JSON array of IDs")
		return
	}

	files, closeFiles, err := openMediaFiles(form.File["new_images"])
	if err != nil {
		errors.BadRequest(c, errors.MediaUploadFailed, "could not read uploaded files")
		return
	}
	defer closeFiles()

	actorID := actorIDFrom(c)

	input := service.CreateProductInput{
		Name:             name,
		Description:      c.PostForm("description"),
		ShortDescription: c.PostForm("short_description"),
		Status:           status,
		BrandID:          brandID,
		CategoryID:       categoryID,
		Variants:         variants,
		OptionIDs:        optionIDs,
		Files:            files,
		Thumbnail:        parseThumbnailSelection(c),
		ActorID:          actorID,
	}

	product, err := ctrl.productService.Create(c.Request.Context(), input)
	if err != nil {
		log.Error("Failed to create product", err, map[string]interface{}{
			"name": name,
		})
		respondProductError(c, err)
		return
	}

	log.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"slug":       product.Slug,
	})
	c.JSON(http.StatusCreated, gin.H{
		"product": product,
	})
}

// UpdateProduct applies a partial update. Collection fields follow
// presence semantics: an absent "variants" field leaves the variant set
// untouched, an empty JSON array deletes every variant.
// PUT /api/v1/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidFormat, "Expected multipart form data")
		return
	}

	input := service.UpdateProductInput{
		ActorID: actorIDFrom(c),
	}

	if v, present := postFormValue(c, "name"); present {
		if v == "" {
			errors.BadRequest(c, errors.ValidationRequired, "name cannot be empty")
			return
		}
		input.Name = &v
	}
	if v, present := postFormValue(c, "description"); present {
		input.Description = &v
	}
	if v, present := postFormValue(c, "short_description"); present {
		input.ShortDescription = &v
	}
	if v, present := postFormValue(c, "status"); present {
		status := model.ProductStatus(v)
		if !status.Valid() {
			errors.BadRequest(c, errors.ValidationInvalidInput, "unknown product status")
			return
		}
		input.Status = &status
	}
	if _, present := postFormValue(c, "brand_id"); present {
		brandID, err := parseFormUint(c, "brand_id")
		if err != nil {
			errors.BadRequest(c, errors.ValidationInvalidID, "brand_id must be a positive integer")
			return
		}
		input.BrandID = &brandID
	}
	if _, present := postFormValue(c, "category_id"); present {
		categoryID, err := parseFormUint(c, "category_id")
		if err != nil {
			errors.BadRequest(c, errors.ValidationInvalidID, "category_id must be a positive integer")
			return
		}
		input.CategoryID = &categoryID
	}

	variants, hasVariants, err := parseVariantsField(c)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidFormat, "variants must be a JSON array")
		return
	}
	input.Variants = variants
	input.HasVariants = hasVariants

	optionIDs, hasOptions, err := parseUintListField(c, "option_ids")
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidFormat, "option_ids must be a JSON array of IDs")
		return
	}
	input.OptionIDs = optionIDs
	input.HasOptions = hasOptions

	deletedIDs, _, err := parseUintListField(c, "deleted_images")
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidFormat, "deleted_images must be a JSON array of IDs")
		return
	}
	input.DeletedImageIDs = deletedIDs

	files, closeFiles, err := openMediaFiles(form.File["new_images"])
	if err != nil {
		errors.BadRequest(c, errors.MediaUploadFailed, "could not read uploaded files")
		return
	}
	defer closeFiles()
	input.Files = files
	input.Thumbnail = parseThumbnailSelection(c)

	product, err := ctrl.productService.Update(c.Request.Context(), id, input)
	if err != nil {
		// A partial blob failure means the update itself committed; the
		// response carries the rows whose blobs still need a retry.
		var blobErr *service.BlobDeleteError
		if stderrors.As(err, &blobErr) && product != nil {
			log.Warn("Product updated but some media blobs were not removed", map[string]interface{}{
				"product_id":       id,
				"failed_image_ids": blobErr.FailedIDs,
			})
			c.JSON(http.StatusOK, gin.H{
				"product":          product,
				"failed_image_ids": blobErr.FailedIDs,
			})
			return
		}
		log.Error("Failed to update product", err, map[string]interface{}{
			"product_id": id,
		})
		respondProductError(c, err)
		return
	}

	log.Info("Product updated", map[string]interface{}{
		"product_id": id,
	})
	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// DeleteProduct removes a product aggregate, media included
// DELETE /api/v1/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.productService.Delete(c.Request.Context(), id, actorIDFrom(c)); err != nil {
		var blobErr *service.BlobDeleteError
		if stderrors.As(err, &blobErr) {
			log.Warn("Product deleted but some media blobs were not removed", map[string]interface{}{
				"product_id":       id,
				"failed_image_ids": blobErr.FailedIDs,
			})
			c.JSON(http.StatusOK, gin.H{
				"message":          "Product deleted",
				"failed_image_ids": blobErr.FailedIDs,
			})
			return
		}
		log.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		respondProductError(c, err)
		return
	}

	log.Info("Product deleted", map[string]interface{}{
		"product_id": id,
	})
	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted",
	})
}

// respondProductError maps domain errors to HTTP responses
func respondProductError(c *gin.Context, err error) {
	switch e := err.(type) {
	case *service.SignatureConflictError:
		errors.Conflict(c, errors.VariantSignatureConflict, e.Error())
		return
	case *service.ImageIndexError:
		errors.BadRequest(c, errors.MediaIndexOutOfRange, e.Error())
		return
	case *service.VariantValidationError:
		errors.BadRequest(c, errors.ValidationInvalidInput, e.Error())
		return
	case *service.BlobDeleteError:
		errors.RespondWithError(c, http.StatusInternalServerError, errors.MediaDeleteFailed, e.Error())
		return
	}

	switch err {
	case service.ErrSKUSpaceExhausted:
		errors.Conflict(c, errors.VariantSKUSpaceExhausted, err.Error())
	case service.ErrFileTooLarge, service.ErrInvalidFileType, service.ErrTooManyVideos:
		errors.BadRequest(c, errors.UploadInvalidFileType, err.Error())
	default:
		errors.ParseAndRespond(c, http.StatusInternalServerError, err, "product")
	}
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid ID")
		return 0, false
	}
	return uint(id), true
}

func parseFormUint(c *gin.Context, field string) (uint, error) {
	v, err := strconv.ParseUint(c.PostForm(field), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}

// postFormValue reports presence separately from the value so empty
// strings can be distinguished from absent fields.
func postFormValue(c *gin.Context, field string) (string, bool) {
	values, present := c.GetPostFormArray(field)
	if !present || len(values) == 0 {
		return "", present
	}
	return values[0], true
}

func parseVariantsField(c *gin.Context) ([]service.VariantPayload, bool, error) {
	raw, present := postFormValue(c, "variants")
	if !present {
		return nil, false, nil
	}
	var variants []service.VariantPayload
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &variants); err != nil {
			return nil, true, err
		}
	}
	if variants == nil {
		variants = []service.VariantPayload{}
	}
	return variants, true, nil
}

func parseUintListField(c *gin.Context, field string) ([]uint, bool, error) {
	raw, present := postFormValue(c, field)
	if !present {
		return nil, false, nil
	}
	var ids []uint
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &ids); err != nil {
			return nil, true, err
		}
	}
	if ids == nil {
		ids = []uint{}
	}
	return ids, true, nil
}

func parseThumbnailSelection(c *gin.Context) *service.ThumbnailSelection {
	sel := &service.ThumbnailSelection{}

	if raw, present := postFormValue(c, "existing_image_thumbnail_id"); present && raw != "" {
		if v, err := strconv.ParseUint(raw, 10, 32); err == nil {
			id := uint(v)
			sel.ExistingImageID = &id
		}
	}
	if raw, present := postFormValue(c, "thumbnail_image_index"); present && raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			sel.NewImageIndex = &v
		}
	}

	if sel.ExistingImageID == nil && sel.NewImageIndex == nil {
		return nil
	}
	return sel
}

// openMediaFiles opens every multipart file and returns a closer that
// releases them once the handler is done.
func openMediaFiles(headers []*multipart.FileHeader) ([]service.MediaFile, func(), error) {
	files := make([]service.MediaFile, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		opened = append(opened, f)
		files = append(files, service.MediaFile{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Content:     f,
		})
	}
	return files, closeAll, nil
}

func actorIDFrom(c *gin.Context) *uint {
	if userID, ok := middleware.GetUserID(c); ok {
		return &userID
	}
	return nil
}

func parseProductFilter(c *gin.Context) (repository.ProductFilter, error) {
	filter := repository.ProductFilter{
		Search: c.Query("search"),
		Limit:  20,
	}

	if v := c.Query("category_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return filter, err
		}
		categoryID := uint(id)
		filter.CategoryID = &categoryID
	}
	if v := c.Query("brand_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return filter, err
		}
		brandID := uint(id)
		filter.BrandID = &brandID
	}
	if v := c.Query("status"); v != "" {
		status := model.ProductStatus(v)
		if !status.Valid() {
			return filter, errInvalidStatus
		}
		filter.Status = &status
	}
	if v := c.Query("sort_by"); v != "" {
		filter.SortBy = repository.ProductSort(v)
	}
	filter.SortAscending = c.Query("sort_dir") == "asc"

	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || limit > 100 {
			return filter, errInvalidPagination
		}
		filter.Limit = limit
	}
	if v := c.Query("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			return filter, errInvalidPagination
		}
		filter.Offset = offset
	}
	return filter, nil
}
