package model

import (
	"fmt"
	"time"

	"github.com/gosimple/slug"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AttributeType string

const (
	AttributeTypeText        AttributeType = "text"
	AttributeTypeTextarea    AttributeType = "textarea"
	AttributeTypeNumber      AttributeType = "number"
	AttributeTypeBoolean     AttributeType = "boolean"
	AttributeTypeSelect      AttributeType = "select"
	AttributeTypeMultiselect AttributeType = "multiselect"
	AttributeTypeColor       AttributeType = "color"
	AttributeTypeDate        AttributeType = "date"
	AttributeTypeJSON        AttributeType = "json"
)

// AttributeDefinition is a reusable typed field that categories bind and
// variants carry values for. Type is a storage hint, not enforced on values.
type AttributeDefinition struct {
	ID                  uint                        `gorm:"primarykey" json:"id"`
	Name                string                      `gorm:"type:varchar(255);not null" json:"name"`
	Slug                string                      `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Type                AttributeType               `gorm:"type:varchar(30);not null;default:'text'" json:"type"`
	Options             datatypes.JSONSlice[string] `json:"options,omitempty"`
	IsRequired          bool                        `gorm:"default:false" json:"is_required"`
	IsFilterable        bool                        `gorm:"default:false" json:"is_filterable"`
	IsVariant           bool                        `gorm:"default:false;index" json:"is_variant"`
	IsVisibleOnFrontend bool                        `gorm:"default:false" json:"is_visible_on_frontend"`
	SortOrder           int                         `gorm:"default:0" json:"sort_order"`
	CreatedAt           time.Time                   `json:"created_at"`
	UpdatedAt           time.Time                   `json:"updated_at"`
}

func (AttributeDefinition) TableName() string {
	return "attributes"
}

// BeforeCreate derives a slug from the name when none was given and makes it
// unique with a numeric counter.
func (a *AttributeDefinition) BeforeCreate(tx *gorm.DB) error {
	if a.Slug != "" {
		return nil
	}

	base := slug.Make(a.Name)
	if base == "" {
		base = "attribute"
	}

	candidate := base
	counter := 1
	for {
		var count int64
		if err := tx.Model(&AttributeDefinition{}).Where("slug = ?", candidate).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			break
		}
		counter++
		candidate = fmt.Sprintf("%s-%d", base, counter)
	}

	a.Slug = candidate
	return nil
}
