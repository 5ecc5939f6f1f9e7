package model

import "time"

// VariantAttributeValue stores one attribute value of a variant as text plus
// the tag used to coerce it on read. At most one row per (variant, attribute).
type VariantAttributeValue struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	ProductDetailID uint      `gorm:"not null;uniqueIndex:idx_variant_attribute" json:"product_detail_id"`
	AttributeID     uint      `gorm:"not null;uniqueIndex:idx_variant_attribute;index" json:"attribute_id"`
	Value           string    `gorm:"type:text" json:"value"`
	ValueType       ValueType `gorm:"type:varchar(20);not null" json:"value_type"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Attribute AttributeDefinition `gorm:"foreignKey:AttributeID" json:"attribute,omitempty"`
}

func (VariantAttributeValue) TableName() string {
	return "product_detail_attribute_values"
}

// TypedValue returns the stored value coerced by its type tag.
func (v *VariantAttributeValue) TypedValue() interface{} {
	return CoerceValue(v.Value, v.ValueType)
}

// AttributeValueView pairs attribute metadata with a coerced value.
type AttributeValueView struct {
	Attribute AttributeDefinition `json:"attribute"`
	Value     interface{}         `json:"value"`
	ValueType ValueType           `json:"value_type"`
}
