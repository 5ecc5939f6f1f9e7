package model

import "time"

type CartItem struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	UserID          uint      `gorm:"not null;index" json:"user_id"`
	ProductDetailID uint      `gorm:"not null;index" json:"product_detail_id"`
	Quantity        int       `gorm:"not null;default:1" json:"quantity"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
