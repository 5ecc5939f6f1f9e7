package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	apperrors "github.com/ikkim/catalog-backend/internal/errors"
)

// ValueType tags how a stored attribute value is read back.
type ValueType string

const (
	ValueTypeString  ValueType = "string"
	ValueTypeInteger ValueType = "integer"
	ValueTypeFloat   ValueType = "float"
	ValueTypeBoolean ValueType = "boolean"
	ValueTypeArray   ValueType = "array"

	// Accepted on read only.
	valueTypeDouble ValueType = "double"
	valueTypeJSON   ValueType = "json"
)

// ClassifyValue decides the storage form of an incoming value: lists and
// maps are JSON-encoded and tagged "array", primitives are stored as text
// under their primitive tag. Other shapes are rejected.
func ClassifyValue(raw interface{}) (string, ValueType, error) {
	switch v := raw.(type) {
	case nil:
		return "", "", apperrors.NewValidationError("value", "nil is not a storable value")
	case string:
		return v, ValueTypeString, nil
	case bool:
		return strconv.FormatBool(v), ValueTypeBoolean, nil
	case json.Number:
		if _, err := v.Int64(); err == nil {
			return v.String(), ValueTypeInteger, nil
		}
		if _, err := v.Float64(); err == nil {
			return v.String(), ValueTypeFloat, nil
		}
		return "", "", apperrors.NewValidationError("value", fmt.Sprintf("%q is not a number", v.String()))
	}

	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), ValueTypeInteger, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), ValueTypeInteger, nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "", "", apperrors.NewValidationError("value", "non-finite numbers are not storable")
		}
		return strconv.FormatFloat(f, 'f', -1, 64), ValueTypeFloat, nil
	case reflect.Slice, reflect.Array, reflect.Map:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return "[]", ValueTypeArray, nil
		}
		encoded, err := json.Marshal(raw)
		if err != nil {
			return "", "", apperrors.NewValidationError("value", err.Error())
		}
		return string(encoded), ValueTypeArray, nil
	}

	return "", "", apperrors.NewValidationError("value", fmt.Sprintf("unsupported value of type %T", raw))
}

type coerceFunc func(raw string) interface{}

var coercers = map[ValueType]coerceFunc{
	ValueTypeArray:   coerceJSON,
	valueTypeJSON:    coerceJSON,
	ValueTypeInteger: coerceInteger,
	ValueTypeFloat:   coerceFloat,
	valueTypeDouble:  coerceFloat,
	ValueTypeBoolean: coerceBoolean,
}

// CoerceValue converts stored text back to a typed value. Unknown tags pass
// the raw text through.
func CoerceValue(raw string, valueType ValueType) interface{} {
	if fn, ok := coercers[ValueType(strings.ToLower(string(valueType)))]; ok {
		return fn(raw)
	}
	return raw
}

func coerceJSON(raw string) interface{} {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()

	var decoded interface{}
	if err := dec.Decode(&decoded); err != nil {
		return nil
	}
	return normalizeNumbers(decoded)
}

func normalizeNumbers(v interface{}) interface{} {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	case []interface{}:
		for i := range t {
			t[i] = normalizeNumbers(t[i])
		}
		return t
	case map[string]interface{}:
		for k := range t {
			t[k] = normalizeNumbers(t[k])
		}
		return t
	}
	return v
}

func coerceInteger(raw string) interface{} {
	s := strings.TrimSpace(raw)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return int64(0)
}

func coerceFloat(raw string) interface{} {
	if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
		return f
	}
	return float64(0)
}

func coerceBoolean(raw string) interface{} {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "0", "false", "off", "no":
		return false
	}
	return true
}

// IsEmptyValue reports whether a coerced value contributes nothing to a
// display label.
func IsEmptyValue(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []interface{}:
		return len(t) == 0
	case map[string]interface{}:
		return len(t) == 0
	}
	return false
}

// FormatValue renders a coerced value for labels; lists are joined with ", ".
func FormatValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []interface{}:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := FormatValue(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case map[string]interface{}:
		encoded, _ := json.Marshal(t)
		return string(encoded)
	}
	return fmt.Sprint(v)
}
