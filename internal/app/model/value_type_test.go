package model

import (
	"encoding/json"
	"testing"

	apperrors "github.com/ikkim/catalog-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyValue(t *testing.T) {
	tests := []struct {
		name      string
		raw       interface{}
		wantValue string
		wantType  ValueType
	}{
		{"string", "Red", "Red", ValueTypeString},
		{"empty string", "", "", ValueTypeString},
		{"int", 42, "42", ValueTypeInteger},
		{"int64 negative", int64(-7), "-7", ValueTypeInteger},
		{"uint", uint(9), "9", ValueTypeInteger},
		{"float", 12.5, "12.5", ValueTypeFloat},
		{"integral float stays float", float64(3), "3", ValueTypeFloat},
		{"bool true", true, "true", ValueTypeBoolean},
		{"bool false", false, "false", ValueTypeBoolean},
		{"json number int", json.Number("15"), "15", ValueTypeInteger},
		{"json number float", json.Number("1.25"), "1.25", ValueTypeFloat},
		{"int slice", []int{1, 2, 3}, "[1,2,3]", ValueTypeArray},
		{"string slice", []string{"S", "M"}, `["S","M"]`, ValueTypeArray},
		{"nil slice", []string(nil), "[]", ValueTypeArray},
		{"map", map[string]interface{}{"w": 10}, `{"w":10}`, ValueTypeArray},
		{"array", [2]string{"a", "b"}, `["a","b"]`, ValueTypeArray},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, valueType, err := ClassifyValue(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.wantValue, value)
			assert.Equal(t, tt.wantType, valueType)
		})
	}
}

func TestClassifyValue_Rejected(t *testing.T) {
	type dimensions struct{ W, H int }
	ptr := "x"

	tests := []struct {
		name string
		raw  interface{}
	}{
		{"nil", nil},
		{"struct", dimensions{W: 1, H: 2}},
		{"pointer", &ptr},
		{"func", func() {}},
		{"channel", make(chan int)},
		{"bad json number", json.Number("abc")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ClassifyValue(tt.raw)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))

			var vErr *apperrors.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, "value", vErr.Field)
		})
	}
}

func TestCoerceValue(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		valueType ValueType
		want      interface{}
	}{
		{"array of ints", "[1,2,3]", ValueTypeArray, []interface{}{int64(1), int64(2), int64(3)}},
		{"json alias", `["a","b"]`, valueTypeJSON, []interface{}{"a", "b"}},
		{"object", `{"w":1.5}`, ValueTypeArray, map[string]interface{}{"w": 1.5}},
		{"broken json", "[1,", ValueTypeArray, nil},
		{"integer", "42", ValueTypeInteger, int64(42)},
		{"integer from float text", "42.9", ValueTypeInteger, int64(42)},
		{"integer garbage", "abc", ValueTypeInteger, int64(0)},
		{"float", "12.5", ValueTypeFloat, 12.5},
		{"double alias", "0.25", valueTypeDouble, 0.25},
		{"float garbage", "x", ValueTypeFloat, float64(0)},
		{"boolean true", "true", ValueTypeBoolean, true},
		{"boolean one", "1", ValueTypeBoolean, true},
		{"boolean empty", "", ValueTypeBoolean, false},
		{"boolean false", "false", ValueTypeBoolean, false},
		{"boolean zero", "0", ValueTypeBoolean, false},
		{"string", "Red", ValueTypeString, "Red"},
		{"unknown tag passthrough", "Red", ValueType("NULL"), "Red"},
		{"uppercase tag", "7", ValueType("INTEGER"), int64(7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CoerceValue(tt.raw, tt.valueType))
		})
	}
}

func TestClassifyThenCoerce_RoundTrip(t *testing.T) {
	inputs := []interface{}{[]int{1, 2, 3}, true, false, 15, 2.5, "Large"}
	want := []interface{}{[]interface{}{int64(1), int64(2), int64(3)}, true, false, int64(15), 2.5, "Large"}

	for i, in := range inputs {
		stored, tag, err := ClassifyValue(in)
		require.NoError(t, err)
		assert.Equal(t, want[i], CoerceValue(stored, tag))
	}
}

func TestIsEmptyValue(t *testing.T) {
	assert.True(t, IsEmptyValue(nil))
	assert.True(t, IsEmptyValue(""))
	assert.True(t, IsEmptyValue("   "))
	assert.True(t, IsEmptyValue([]interface{}{}))
	assert.True(t, IsEmptyValue(map[string]interface{}{}))
	assert.False(t, IsEmptyValue(false))
	assert.False(t, IsEmptyValue(int64(0)))
	assert.False(t, IsEmptyValue("Red"))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "Red", FormatValue("Red"))
	assert.Equal(t, "S, M, L", FormatValue([]interface{}{"S", "M", "L"}))
	assert.Equal(t, "1, 2", FormatValue([]interface{}{int64(1), int64(2)}))
	assert.Equal(t, "12.5", FormatValue(12.5))
	assert.Equal(t, "true", FormatValue(true))
	assert.Equal(t, "", FormatValue(nil))
}
