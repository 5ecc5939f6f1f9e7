package service

import (
	"context"
	"testing"

	"github.com/ikkim/catalog-backend/internal/app/model"
	"github.com/ikkim/catalog-backend/internal/app/repository"
	apperrors "github.com/ikkim/catalog-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttributeService_CreateAttribute_Validation(t *testing.T) {
	f := setupCatalogTest(t)

	tests := []struct {
		name      string
		input     AttributeInput
		wantField string
	}{
		{"missing name", AttributeInput{Type: model.AttributeTypeText}, "name"},
		{"unknown type", AttributeInput{Name: "Size", Type: "matrix"}, "type"},
		{"negative sort order", AttributeInput{Name: "Size", SortOrder: -1}, "sort_order"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attr, err := f.attributes.CreateAttribute(context.Background(), tt.input)
			require.Error(t, err)
			assert.Nil(t, attr)
			assert.True(t, apperrors.IsValidation(err))

			var vErr *apperrors.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

func TestAttributeService_CreateAttribute(t *testing.T) {
	f := setupCatalogTest(t)
	ctx := context.Background()

	attr, err := f.attributes.CreateAttribute(ctx, AttributeInput{
		Name:         "Shoe Size",
		Options:      []string{"40", "41", "42"},
		IsFilterable: true,
		SortOrder:    3,
	})
	require.NoError(t, err)
	assert.NotZero(t, attr.ID)
	assert.Equal(t, "shoe-size", attr.Slug)
	assert.Equal(t, model.AttributeTypeText, attr.Type)

	custom, err := f.attributes.CreateAttribute(ctx, AttributeInput{Name: "Colour", Slug: "Main Color", Type: model.AttributeTypeColor})
	require.NoError(t, err)
	assert.Equal(t, "main-color", custom.Slug)

	found, err := f.attributes.GetAttributeBySlug(ctx, "shoe-size")
	require.NoError(t, err)
	assert.Equal(t, []string{"40", "41", "42"}, []string(found.Options))
	assert.True(t, found.IsFilterable)
}

func TestAttributeService_CreateAttribute_SlugConflict(t *testing.T) {
	f := setupCatalogTest(t)
	ctx := context.Background()

	_, err := f.attributes.CreateAttribute(ctx, AttributeInput{Name: "Color", Slug: "color"})
	require.NoError(t, err)

	_, err = f.attributes.CreateAttribute(ctx, AttributeInput{Name: "Another Color", Slug: "color"})
	assert.ErrorIs(t, err, ErrSlugConflict)
	assert.True(t, apperrors.IsConflict(err))
}

func TestAttributeService_UpdateAttribute(t *testing.T) {
	f := setupCatalogTest(t)
	ctx := context.Background()

	attr := f.attribute(t, "Size", false)
	shoes := f.category(t, "Shoes", nil)
	shirts := f.category(t, "Shirts", nil)
	_, err := f.bindings.AssignAttributeToCategory(ctx, attr.ID, shoes.ID, false, 0)
	require.NoError(t, err)
	_, err = f.bindings.AssignAttributeToCategory(ctx, attr.ID, shirts.ID, false, 0)
	require.NoError(t, err)
	f.cache.invalidated = nil

	updated, err := f.attributes.UpdateAttribute(ctx, attr.ID, AttributeInput{
		Name:      "Clothing Size",
		Type:      model.AttributeTypeSelect,
		IsVariant: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Clothing Size", updated.Name)
	assert.Equal(t, "size", updated.Slug)
	assert.True(t, updated.IsVariant)
	assert.ElementsMatch(t, []uint{shoes.ID, shirts.ID}, f.cache.invalidated)

	_, err = f.attributes.UpdateAttribute(ctx, 9999, AttributeInput{Name: "Missing"})
	assert.ErrorIs(t, err, ErrAttributeNotFound)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAttributeService_ListAttributes(t *testing.T) {
	f := setupCatalogTest(t)
	ctx := context.Background()

	f.attribute(t, "Size", true)
	f.attribute(t, "Brand", false)

	variantOnly := true
	attrs, err := f.attributes.ListAttributes(ctx, repository.AttributeFilter{IsVariant: &variantOnly})
	require.NoError(t, err)
	require.Len(t, attrs, 1)
	assert.Equal(t, "Size", attrs[0].Name)
}

func TestAttributeService_DeleteAttribute_ReferencedByValue(t *testing.T) {
	f := setupCatalogTest(t)
	ctx := context.Background()

	attr := f.attribute(t, "Color", true)
	product := f.product(t, "ABC123")
	variant := f.variant(t, product.ID, VariantInput{Price: 10})
	_, err := f.values.SetAttributeValue(ctx, variant.ID, attr.ID, "Red")
	require.NoError(t, err)

	err = f.attributes.DeleteAttribute(ctx, attr.ID)
	assert.ErrorIs(t, err, ErrAttributeInUse)
	assert.True(t, apperrors.IsIntegrity(err))

	// Nothing was removed.
	_, err = f.attributes.GetAttribute(ctx, attr.ID)
	require.NoError(t, err)
	value, err := f.values.GetAttributeValue(ctx, variant.ID, attr.Slug)
	require.NoError(t, err)
	assert.Equal(t, "Red", value)
}

func TestAttributeService_DeleteAttribute(t *testing.T) {
	f := setupCatalogTest(t)
	ctx := context.Background()

	bound := f.attribute(t, "Size", false)
	free := f.attribute(t, "Weight", false)
	category := f.category(t, "Shoes", nil)
	_, err := f.bindings.AssignAttributeToCategory(ctx, bound.ID, category.ID, false, 0)
	require.NoError(t, err)

	tests := []struct {
		name    string
		id      uint
		wantErr error
	}{
		{"bound to category", bound.ID, ErrAttributeInUse},
		{"unreferenced", free.ID, nil},
		{"missing", 9999, ErrAttributeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.attributes.DeleteAttribute(ctx, tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			_, err = f.attributes.GetAttribute(ctx, tt.id)
			assert.ErrorIs(t, err, ErrAttributeNotFound)
		})
	}
}
