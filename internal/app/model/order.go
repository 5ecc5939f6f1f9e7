package model

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipping  OrderStatus = "shipping"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// OrderItem is owned by the order subsystem; the catalog only checks whether
// a variant is still referenced before a hard delete.
type OrderItem struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	OrderID         uint           `gorm:"not null;index" json:"order_id"`
	ProductDetailID uint           `gorm:"not null;index" json:"product_detail_id"`
	Quantity        int            `gorm:"not null" json:"quantity"`
	Price           float64        `gorm:"not null" json:"price"`
	Status          OrderStatus    `gorm:"type:varchar(20);default:'pending'" json:"status"`
	CreatedAt       time.Time      `json:"created_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
