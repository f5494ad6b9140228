package models

import (
	"time"

	"gorm.io/datatypes"
)

// SettingsID is the fixed key of the singleton settings row
const SettingsID = "config"

// Settings is the singleton site configuration edited from the admin panel
type Settings struct {
	ID                string                      `gorm:"type:varchar(36);primaryKey" json:"-"`
	BotUsername       string                      `gorm:"type:varchar(255)" json:"bot_username"`
	ChannelLink       string                      `gorm:"type:text" json:"channel_link"`
	NoticeChannelLink *string                     `gorm:"type:text" json:"notice_channel_link,omitempty"`
	NoticeText        string                      `gorm:"type:text" json:"notice_text"`
	NoticeEnabled     bool                        `gorm:"not null" json:"notice_enabled"`
	Categories        datatypes.JSONSlice[string] `json:"categories"`
	UpdatedAt         time.Time                   `json:"updated_at"`
}

// TableName specifies the table name for Settings
func (Settings) TableName() string {
	return "settings"
}

// AdminUser is an account allowed to sign in to the admin surface
type AdminUser struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

// TableName specifies the table name for AdminUser
func (AdminUser) TableName() string {
	return "admin_users"
}
