package model

import (
	"time"

	"gorm.io/gorm"
)

// Product owns variants and belongs to one or more categories. The attribute
// core only reads products.
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Sku         string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"sku"`
	Description string         `gorm:"type:text" json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Categories []Category      `gorm:"many2many:product_categories;" json:"categories,omitempty"`
	Variants   []ProductDetail `gorm:"foreignKey:ProductID" json:"variants,omitempty"`
}

func (Product) TableName() string {
	return "products"
}
