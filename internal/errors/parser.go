package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is the displayable form of a failure.
type ErrorInfo struct {
	Code    string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ParseError maps a service or storage error to a code and a message an
// admin can act on. Storage details are never echoed back.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "An unexpected error occurred",
		}
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		info := ErrorInfo{
			Code:    ValidationInvalidInput,
			Message: "Input is not valid",
		}
		if vErr.Field != "" {
			info.Fields = map[string]string{vErr.Field: vErr.Reason}
			if vErr.Field == "value" {
				info.Code = AttributeValueFormat
			}
		}
		return info
	}

	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return notFoundInfo(err, context)
	case errors.Is(err, ErrIntegrity):
		return ErrorInfo{
			Code:    ResourceInUse,
			Message: inUseMessage(context),
		}
	case errors.Is(err, ErrConflict), errors.Is(err, gorm.ErrDuplicatedKey):
		return conflictInfo(err, context)
	case errors.Is(err, ErrValidation):
		return ErrorInfo{
			Code:    ValidationInvalidInput,
			Message: "Input is not valid",
		}
	}

	errLower := strings.ToLower(err.Error())
	if strings.Contains(errLower, "duplicate key") ||
		strings.Contains(errLower, "unique constraint") ||
		strings.Contains(errLower, "duplicate entry") {
		return conflictInfo(err, context)
	}
	if strings.Contains(errLower, "foreign key constraint") {
		return ErrorInfo{
			Code:    ResourceInUse,
			Message: inUseMessage(context),
		}
	}
	if strings.Contains(errLower, "connection refused") || strings.Contains(errLower, "timeout") {
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: "The catalog database is unavailable. Please try again later",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: defaultMessage(context),
	}
}

func notFoundInfo(err error, context string) ErrorInfo {
	subject := strings.ToLower(err.Error() + " " + context)

	switch {
	case strings.Contains(subject, "attribute"):
		return ErrorInfo{Code: AttributeNotFound, Message: "Attribute not found"}
	case strings.Contains(subject, "category"):
		return ErrorInfo{Code: CategoryNotFound, Message: "Category not found"}
	case strings.Contains(subject, "variant"):
		return ErrorInfo{Code: VariantNotFound, Message: "Product variant not found"}
	case strings.Contains(subject, "product"):
		return ErrorInfo{Code: ProductNotFound, Message: "Product not found"}
	}
	return ErrorInfo{Code: ResourceNotFound, Message: "The requested record was not found"}
}

func conflictInfo(err error, context string) ErrorInfo {
	subject := strings.ToLower(err.Error() + " " + context)

	switch {
	case strings.Contains(subject, "sku"):
		return ErrorInfo{Code: SkuVariantExists, Message: "The variant SKU is already in use"}
	case strings.Contains(subject, "slug"):
		return ErrorInfo{Code: AttributeSlugExists, Message: "The attribute slug is already in use"}
	}
	return ErrorInfo{Code: ResourceConflict, Message: "The record already exists"}
}

func inUseMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "attribute") {
		return "The attribute is still used by categories or variants"
	}
	if strings.Contains(contextLower, "category") {
		return "The category still has attributes assigned"
	}
	if strings.Contains(contextLower, "variant") {
		return "The variant is still referenced by carts or orders"
	}
	return "The record is still referenced and cannot be deleted"
}

func defaultMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "create") {
		return "Failed to create the record. Please try again later"
	}
	if strings.Contains(contextLower, "update") {
		return "Failed to update the record. Please try again later"
	}
	if strings.Contains(contextLower, "delete") {
		return "Failed to delete the record. Please try again later"
	}
	return "An unexpected error occurred. Please try again later"
}
