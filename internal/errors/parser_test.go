package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		context  string
		wantCode string
	}{
		{"nil error", nil, "", InternalServerError},
		{"attribute not found", fmt.Errorf("%w: attribute", ErrNotFound), "set value", AttributeNotFound},
		{"variant not found", fmt.Errorf("%w: product variant", ErrNotFound), "", VariantNotFound},
		{"product not found via context", gorm.ErrRecordNotFound, "product lookup", ProductNotFound},
		{"bare not found", gorm.ErrRecordNotFound, "", ResourceNotFound},
		{"value validation", NewValidationError("value", "unsupported shape"), "", AttributeValueFormat},
		{"field validation", NewValidationError("name", "required"), "", ValidationInvalidInput},
		{"integrity", fmt.Errorf("%w: attribute referenced", ErrIntegrity), "delete attribute", ResourceInUse},
		{"sku conflict", fmt.Errorf("%w: sku_variant", ErrConflict), "", SkuVariantExists},
		{"slug conflict", gorm.ErrDuplicatedKey, "create attribute slug", AttributeSlugExists},
		{"raw duplicate", errors.New(`ERROR: duplicate key value violates unique constraint "x"`), "", ResourceConflict},
		{"connection", errors.New("dial tcp: connection refused"), "", InternalDatabaseError},
		{"unknown", errors.New("boom"), "update attribute", InternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseError(tt.err, tt.context)
			assert.Equal(t, tt.wantCode, info.Code)
			assert.NotEmpty(t, info.Message)
		})
	}
}

func TestParseError_ValidationFields(t *testing.T) {
	info := ParseError(fmt.Errorf("set attribute 4: %w", NewValidationError("value", "nil is not a storable value")), "")

	assert.Equal(t, map[string]string{"value": "nil is not a storable value"}, info.Fields)
}

func TestValidationError_Kind(t *testing.T) {
	err := NewValidationError("type", "must be one of text number")

	assert.True(t, IsValidation(err))
	assert.False(t, IsNotFound(err))
	assert.Equal(t, "validation failed: type: must be one of text number", err.Error())
}
