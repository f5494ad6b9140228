package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Banner is a home-page banner slot, usually created from an existing content item
type Banner struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	ContentID   *string   `gorm:"type:varchar(36);index" json:"content_id,omitempty"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Image       string    `gorm:"type:text;not null" json:"image"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	Link        *string   `gorm:"type:text" json:"link,omitempty"`
	Order       int       `gorm:"column:display_order;not null;index" json:"order"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}

// TableName specifies the table name for Banner
func (Banner) TableName() string {
	return "banners"
}

// BeforeCreate assigns an identifier when none was set
func (b *Banner) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// Story is a story-circle entry
type Story struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	ContentID    *string   `gorm:"type:varchar(36);index" json:"content_id,omitempty"`
	Image        string    `gorm:"type:text;not null" json:"image"`
	ThumbnailURL *string   `gorm:"type:text" json:"thumbnail_url,omitempty"`
	Link         *string   `gorm:"type:text" json:"link,omitempty"`
	Order        int       `gorm:"column:display_order;not null;index" json:"order"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

// TableName specifies the table name for Story
func (Story) TableName() string {
	return "stories"
}

// BeforeCreate assigns an identifier when none was set
func (s *Story) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
