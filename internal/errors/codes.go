package errors

// Error codes surfaced to the admin boundary.
// Format: CATEGORY_SPECIFIC_DETAIL

const (
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
	ResourceInUse         = "RESOURCE_IN_USE"

	// ==================== Catalog (CATALOG_) ====================
	AttributeNotFound    = "CATALOG_ATTRIBUTE_NOT_FOUND"
	CategoryNotFound     = "CATALOG_CATEGORY_NOT_FOUND"
	ProductNotFound      = "CATALOG_PRODUCT_NOT_FOUND"
	VariantNotFound      = "CATALOG_VARIANT_NOT_FOUND"
	AttributeSlugExists  = "CATALOG_ATTRIBUTE_SLUG_EXISTS"
	SkuVariantExists     = "CATALOG_SKU_VARIANT_EXISTS"
	AttributeValueFormat = "CATALOG_ATTRIBUTE_VALUE_FORMAT"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
)
