package model

import (
	"time"

	"gorm.io/gorm"
)

// ProductDetail is one purchasable variant of a product. Size and Color are
// legacy columns kept next to the generic attribute values.
type ProductDetail struct {
	ID                uint           `gorm:"primarykey" json:"id"`
	ProductID         uint           `gorm:"index;not null" json:"product_id"`
	Size              string         `gorm:"type:varchar(100)" json:"size"`
	Color             string         `gorm:"type:varchar(100)" json:"color"`
	Price             float64        `gorm:"not null;default:0" json:"price"`
	Discount          float64        `gorm:"default:0" json:"discount"`
	Stock             int            `gorm:"default:0" json:"stock"`
	MinStockAlert     int            `gorm:"default:0" json:"min_stock_alert"`
	SkuVariant        string         `gorm:"type:varchar(150);uniqueIndex;not null" json:"sku_variant"`
	VariantIdentifier string         `gorm:"type:varchar(255)" json:"variant_identifier"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	Product         Product                 `gorm:"foreignKey:ProductID" json:"-"`
	AttributeValues []VariantAttributeValue `gorm:"foreignKey:ProductDetailID" json:"attribute_values,omitempty"`
}

func (ProductDetail) TableName() string {
	return "product_details"
}

func (d *ProductDetail) FinalPrice() float64 {
	return d.Price - d.Discount
}

// DiscountPercentage is 0 for non-positive prices.
func (d *ProductDetail) DiscountPercentage() float64 {
	if d.Price <= 0 {
		return 0
	}
	return d.Discount / d.Price * 100
}

func (d *ProductDetail) IsInStock() bool {
	return d.Stock > 0
}

func (d *ProductDetail) IsLowStock() bool {
	return d.Stock <= d.MinStockAlert
}
