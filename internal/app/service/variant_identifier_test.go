package service

import (
	"testing"

	"github.com/ikkim/catalog-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
)

func valueRow(id uint, name string, isVariant bool, value string, valueType model.ValueType) model.VariantAttributeValue {
	return model.VariantAttributeValue{
		AttributeID: id,
		Value:       value,
		ValueType:   valueType,
		Attribute:   model.AttributeDefinition{ID: id, Name: name, IsVariant: isVariant},
	}
}

func TestBuildVariantIdentifier(t *testing.T) {
	tests := []struct {
		name   string
		values []model.VariantAttributeValue
		color  string
		want   string
	}{
		{
			name: "ordered by attribute name",
			values: []model.VariantAttributeValue{
				valueRow(1, "Size", true, "Large", model.ValueTypeString),
				valueRow(2, "Color", true, "Red", model.ValueTypeString),
			},
			want: "Red / Large",
		},
		{
			name: "name order ignores case",
			values: []model.VariantAttributeValue{
				valueRow(1, "material", true, "Wool", model.ValueTypeString),
				valueRow(2, "Length", true, "Long", model.ValueTypeString),
			},
			want: "Long / Wool",
		},
		{
			name: "non variant attributes skipped",
			values: []model.VariantAttributeValue{
				valueRow(1, "Brand", false, "Acme", model.ValueTypeString),
				valueRow(2, "Size", true, "M", model.ValueTypeString),
			},
			color: "Blue",
			want:  "M",
		},
		{
			name: "lists joined with comma",
			values: []model.VariantAttributeValue{
				valueRow(1, "Colors", true, `["Red","Blue"]`, model.ValueTypeArray),
				valueRow(2, "Size", true, "42", model.ValueTypeInteger),
			},
			want: "Red, Blue / 42",
		},
		{
			name: "empty values skipped",
			values: []model.VariantAttributeValue{
				valueRow(1, "Color", true, "  ", model.ValueTypeString),
				valueRow(2, "Pattern", true, `[]`, model.ValueTypeArray),
				valueRow(3, "Size", true, "S", model.ValueTypeString),
			},
			want: "S",
		},
		{
			name: "boolean false is kept",
			values: []model.VariantAttributeValue{
				valueRow(1, "Gift Wrap", true, "false", model.ValueTypeBoolean),
			},
			want: "false",
		},
		{
			name:  "fallback to legacy color",
			color: "Blue",
			want:  "Blue",
		},
		{
			name: "fallback when only empty values",
			values: []model.VariantAttributeValue{
				valueRow(1, "Size", true, "", model.ValueTypeString),
			},
			color: "Green",
			want:  "Green",
		},
		{
			name: "nothing to show",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildVariantIdentifier(tt.values, tt.color))
		})
	}
}
