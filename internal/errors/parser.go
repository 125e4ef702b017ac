package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is the parsed form of a storage or service error
type ErrorInfo struct {
	Code    string // error code (see codes.go)
	Message string // user-facing message
}

// ParseError converts an error into a code and a user-facing message.
// Sensitive details stay out of the message; the code carries enough for
// the frontend to react.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "An internal error occurred",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// 1. GORM base errors
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: notFoundMessage(context),
		}
	}

	// 2. PostgreSQL constraint errors

	// 2-1. Unique constraint violation (23505)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStr)
	}

	// 2-2. Foreign key constraint violation (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStr)
	}

	// 2-3. Not null constraint violation (23502)
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "A required field is missing",
		}
	}

	// 2-4. Check constraint violation (23514)
	if strings.Contains(errStrLower, "check constraint") {
		return ErrorInfo{
			Code:    ValidationInvalidInput,
			Message: "A field value is out of its allowed range",
		}
	}

	// 3. Connectivity errors
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "A backing service is unreachable. Please try again shortly",
		}
	}

	// 4. Fallback
	return ErrorInfo{
		Code:    InternalServerError,
		Message: defaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "sku") {
		return ErrorInfo{
			Code:    VariantSKUExists,
			Message: "A variant with this SKU already exists",
		}
	}

	if strings.Contains(errLower, "signature") {
		return ErrorInfo{
			Code:    VariantSignatureConflict,
			Message: "Another variant of this product already uses this attribute combination",
		}
	}

	if strings.Contains(errLower, "slug") {
		return ErrorInfo{
			Code:    ProductSlugExists,
			Message: "This slug is already in use",
		}
	}

	if strings.Contains(errLower, "email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "This email is already registered",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "This record already exists",
	}
}

func parseForeignKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "still referenced") || strings.Contains(errLower, "is still referenced by") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "This record is referenced by other data and cannot be deleted",
		}
	}

	if strings.Contains(errLower, "brand_id") {
		return ErrorInfo{
			Code:    ProductBrandNotFound,
			Message: "The referenced brand does not exist",
		}
	}
	if strings.Contains(errLower, "category_id") {
		return ErrorInfo{
			Code:    ProductCategoryNotFound,
			Message: "The referenced category does not exist",
		}
	}
	if strings.Contains(errLower, "attribute_value") {
		return ErrorInfo{
			Code:    VariantAttributeNotFound,
			Message: "A referenced attribute value does not exist",
		}
	}

	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "A referenced record does not exist",
	}
}

func notFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "variant"):
		return "Variant not found"
	case strings.Contains(contextLower, "product"):
		return "Product not found"
	case strings.Contains(contextLower, "brand"):
		return "Brand not found"
	case strings.Contains(contextLower, "category"):
		return "Category not found"
	case strings.Contains(contextLower, "attribute"):
		return "Attribute not found"
	case strings.Contains(contextLower, "image"), strings.Contains(contextLower, "media"):
		return "Image not found"
	case strings.Contains(contextLower, "user"):
		return "User not found"
	}

	return "The requested record was not found"
}

func defaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create"):
		return "An error occurred while creating the record. Please try again shortly"
	case strings.Contains(contextLower, "update"):
		return "An error occurred while updating the record. Please try again shortly"
	case strings.Contains(contextLower, "delete"):
		return "An error occurred while deleting the record. Please try again shortly"
	}

	return "An internal error occurred. Please try again shortly"
}
