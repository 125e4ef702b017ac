package errors

// Error code constants.
// Format: CATEGORY_SPECIFIC_DETAIL
// The frontend maps these codes to localized messages.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== Resource (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Product (PRODUCT_) ====================
	ProductNotFound         = "PRODUCT_NOT_FOUND"
	ProductSlugExists       = "PRODUCT_SLUG_EXISTS"
	ProductBrandNotFound    = "PRODUCT_BRAND_NOT_FOUND"
	ProductCategoryNotFound = "PRODUCT_CATEGORY_NOT_FOUND"

	// ==================== Variant (VARIANT_) ====================
	VariantNotFound          = "VARIANT_NOT_FOUND"
	VariantSKUExists         = "VARIANT_SKU_EXISTS"
	VariantSignatureConflict = "VARIANT_SIGNATURE_CONFLICT"
	VariantSKUSpaceExhausted = "VARIANT_SKU_SPACE_EXHAUSTED"
	VariantAttributeNotFound = "VARIANT_ATTRIBUTE_NOT_FOUND"

	// ==================== Media (MEDIA_) ====================
	MediaNotFound        = "MEDIA_NOT_FOUND"
	MediaIndexOutOfRange = "MEDIA_INDEX_OUT_OF_RANGE"
	MediaUploadFailed    = "MEDIA_UPLOAD_FAILED"
	MediaDeleteFailed    = "MEDIA_DELETE_FAILED"

	// ==================== Upload (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadTooManyVideos   = "UPLOAD_TOO_MANY_VIDEOS"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"
)
