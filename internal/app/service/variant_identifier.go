package service

import (
	"sort"
	"strings"

	"github.com/ikkim/catalog-backend/internal/app/model"
)

const (
	identifierSeparator = " / "
)

// BuildVariantIdentifier renders the display label of a variant from its
// attribute values, for example "Red / Large". Only attributes flagged
// is_variant take part, ordered by attribute name. Empty values are skipped.
// Without any part the legacy color is used, and failing that "".
func BuildVariantIdentifier(values []model.VariantAttributeValue, legacyColor string) string {
	rows := make([]model.VariantAttributeValue, 0, len(values))
	for _, v := range values {
		if v.Attribute.IsVariant {
			rows = append(rows, v)
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Attribute, rows[j].Attribute
		al, bl := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if al != bl {
			return al < bl
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})

	parts := make([]string, 0, len(rows))
	for _, row := range rows {
		value := row.TypedValue()
		if model.IsEmptyValue(value) {
			continue
		}
		if text := model.FormatValue(value); text != "" {
			parts = append(parts, text)
		}
	}

	if len(parts) > 0 {
		return strings.Join(parts, identifierSeparator)
	}
	if strings.TrimSpace(legacyColor) != "" {
		return legacyColor
	}
	return ""
}
