package model

import (
	"fmt"
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Category is a node in the category tree. Only the direct parent is
// consulted when resolving inherited attributes.
type Category struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Slug      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	ParentID  *uint     `gorm:"index" json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Parent   *Category  `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Children []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}

func (Category) TableName() string {
	return "categories"
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.Slug != "" {
		return nil
	}

	base := slug.Make(c.Name)
	if base == "" {
		base = "category"
	}

	candidate := base
	counter := 1
	for {
		var count int64
		if err := tx.Model(&Category{}).Where("slug = ?", candidate).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			break
		}
		counter++
		candidate = fmt.Sprintf("%s-%d", base, counter)
	}

	c.Slug = candidate
	return nil
}

// CategoryAttribute is the category/attribute pivot with per-category
// overrides of the attribute's required flag and display order.
type CategoryAttribute struct {
	CategoryID  uint      `gorm:"primaryKey;autoIncrement:false" json:"category_id"`
	AttributeID uint      `gorm:"primaryKey;autoIncrement:false;index" json:"attribute_id"`
	IsRequired  bool      `gorm:"not null" json:"is_required"`
	SortOrder   int       `gorm:"not null" json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Attribute AttributeDefinition `gorm:"foreignKey:AttributeID" json:"attribute,omitempty"`
}

func (CategoryAttribute) TableName() string {
	return "category_attributes"
}

// BoundAttribute is an attribute as seen through one category binding:
// IsRequired and SortOrder come from the binding, not the definition.
type BoundAttribute struct {
	Attribute  AttributeDefinition `json:"attribute"`
	CategoryID uint                `json:"category_id"`
	IsRequired bool                `json:"is_required"`
	SortOrder  int                 `json:"sort_order"`
}

func NewBoundAttribute(binding CategoryAttribute) BoundAttribute {
	return BoundAttribute{
		Attribute:  binding.Attribute,
		CategoryID: binding.CategoryID,
		IsRequired: binding.IsRequired,
		SortOrder:  binding.SortOrder,
	}
}
