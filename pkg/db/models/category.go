package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category groups products; categories nest through ParentID.
type Category struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Name        string     `gorm:"column:name;type:varchar(100);not null"`
	Slug        string     `gorm:"column:slug;type:varchar(100);not null;uniqueIndex"`
	Description *string    `gorm:"column:description"`
	ImageURL    *string    `gorm:"column:image_url;type:varchar(500)"`
	ParentID    *uuid.UUID `gorm:"column:parent_id;type:uuid;index"`
	IsActive    bool       `gorm:"column:is_active;not null"`
	SortOrder   int        `gorm:"column:sort_order;not null"`
	Parent      *Category  `gorm:"foreignKey:ParentID"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Category) TableName() string { return "categories" }

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
