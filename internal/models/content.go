package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Kind tags a content item as a single movie or an episodic series
type Kind string

const (
	KindMovie  Kind = "movie"
	KindSeries Kind = "series"
)

// Valid reports whether k is a known kind
func (k Kind) Valid() bool {
	return k == KindMovie || k == KindSeries
}

// Content is a catalog entry. Optional fields are nil when absent and are
// omitted from JSON rather than written as null or "".
type Content struct {
	ID        string  `gorm:"type:varchar(36);primaryKey" json:"id"`
	Kind      Kind    `gorm:"type:varchar(10);not null;index" json:"kind"`
	Title     string  `gorm:"type:varchar(255);not null" json:"title"`
	Thumbnail string  `gorm:"type:text;not null" json:"thumbnail"`
	Category  string  `gorm:"type:varchar(100);index" json:"category"`
	Rating    float64 `gorm:"not null;default:0" json:"rating"`
	Views     string  `gorm:"type:varchar(50);not null" json:"views"`

	Year          *string `gorm:"type:varchar(10)" json:"year,omitempty"`
	Description   *string `gorm:"type:text" json:"description,omitempty"`
	Duration      *string `gorm:"type:varchar(50)" json:"duration,omitempty"`
	AudioLanguage *string `gorm:"type:varchar(255)" json:"audio_language,omitempty"`
	Subtitles     *string `gorm:"type:varchar(255)" json:"subtitles,omitempty"`
	VideoQuality  *string `gorm:"type:varchar(100)" json:"video_quality,omitempty"`
	Quality       *string `gorm:"type:varchar(100)" json:"quality,omitempty"`
	DetailBanner  *string `gorm:"type:text" json:"detail_banner,omitempty"`
	ReleaseDate   *string `gorm:"type:varchar(50)" json:"release_date,omitempty"`

	// Movie variant
	WatchCode    *string `gorm:"type:varchar(255)" json:"watch_code,omitempty"`
	DownloadCode *string `gorm:"type:varchar(255)" json:"download_code,omitempty"`
	DownloadLink *string `gorm:"type:text" json:"download_link,omitempty"`

	// Series variant
	Episodes    datatypes.JSONSlice[Episode]    `json:"episodes,omitempty"`
	SeasonLocks datatypes.JSONSlice[SeasonLock] `json:"season_locks,omitempty"`

	Screenshots datatypes.JSONSlice[string] `json:"screenshots,omitempty"`
	IsExclusive bool                        `gorm:"not null;default:false" json:"is_exclusive,omitempty"`
	IsUpcoming  bool                        `gorm:"not null;default:false" json:"is_upcoming,omitempty"`

	IsTop10       bool `gorm:"not null;default:false;index" json:"is_top10,omitempty"`
	Top10Position *int `json:"top10_position,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// TableName specifies the table name for Content
func (Content) TableName() string {
	return "content"
}

// BeforeCreate assigns an identifier when none was set
func (c *Content) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// EffectiveKind returns the stored kind, inferring it from the episode list
// for rows written before the kind column existed.
func (c *Content) EffectiveKind() Kind {
	if c.Kind.Valid() {
		return c.Kind
	}
	if len(c.Episodes) > 0 {
		return KindSeries
	}
	return KindMovie
}

// IsSeries reports whether the item is episodic
func (c *Content) IsSeries() bool {
	return c.EffectiveKind() == KindSeries
}

// HasDownload reports whether a distinct download target was configured
func (c *Content) HasDownload() bool {
	return c.DownloadCode != nil || c.DownloadLink != nil
}
