// Package store is the catalog's persistence adapter. Every method is a
// single round trip; mutations are one all-or-nothing row write.
package store

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/glefebvre/cineflix/internal/errors"
	"github.com/glefebvre/cineflix/internal/metrics"
	"github.com/glefebvre/cineflix/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Catalog reads and writes content, banners, stories and settings
type Catalog struct {
	db       *gorm.DB
	defaults models.Settings
}

// New creates a catalog store. defaults is returned by GetSettings until
// settings have been saved once.
func New(db *gorm.DB, defaults models.Settings) *Catalog {
	defaults.ID = models.SettingsID
	return &Catalog{db: db, defaults: defaults}
}

// ListContent returns every content item, newest first
func (s *Catalog) ListContent(ctx context.Context) ([]models.Content, error) {
	var items []models.Content
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, apperrors.DatabaseError("failed to list content", err)
	}
	return items, nil
}

// GetContent returns one content item
func (s *Catalog) GetContent(ctx context.Context, id string) (*models.Content, error) {
	var item models.Content
	if err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundError("content", id)
		}
		return nil, apperrors.DatabaseError("failed to load content", err)
	}
	return &item, nil
}

// CreateContent inserts a new content item
func (s *Catalog) CreateContent(ctx context.Context, item *models.Content) error {
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return apperrors.DatabaseError("failed to create content", err)
	}
	metrics.RecordMutation("content", "create")
	return nil
}

// UpdateContent overwrites a stored content item with item, every column included.
// There is no concurrency token: the last write wins.
func (s *Catalog) UpdateContent(ctx context.Context, item *models.Content) error {
	res := s.db.WithContext(ctx).Model(&models.Content{}).
		Where("id = ?", item.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(item)
	if res.Error != nil {
		return apperrors.DatabaseError("failed to update content", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFoundError("content", item.ID)
	}
	metrics.RecordMutation("content", "update")
	return nil
}

// UpdateEpisodes replaces the embedded episode list of a series
func (s *Catalog) UpdateEpisodes(ctx context.Context, id string, episodes []models.Episode) error {
	item := models.Content{Episodes: episodes}
	return s.updateColumns(ctx, id, &item, "episodes")
}

// UpdateSeasonLocks replaces the locked-season list of a series
func (s *Catalog) UpdateSeasonLocks(ctx context.Context, id string, locks []models.SeasonLock) error {
	if locks == nil {
		locks = []models.SeasonLock{}
	}
	item := models.Content{SeasonLocks: locks}
	return s.updateColumns(ctx, id, &item, "season_locks")
}

// SetTop10 writes the ranking flag and position of one content item
func (s *Catalog) SetTop10(ctx context.Context, id string, ranked bool, position *int) error {
	item := models.Content{IsTop10: ranked, Top10Position: position}
	return s.updateColumns(ctx, id, &item, "is_top10", "top10_position")
}

// SetTop10Position writes only the stored position
func (s *Catalog) SetTop10Position(ctx context.Context, id string, position int) error {
	item := models.Content{Top10Position: &position}
	return s.updateColumns(ctx, id, &item, "top10_position")
}

func (s *Catalog) updateColumns(ctx context.Context, id string, item *models.Content, columns ...string) error {
	item.UpdatedAt = time.Now()
	res := s.db.WithContext(ctx).Model(&models.Content{}).
		Where("id = ?", id).
		Select(append(columns, "updated_at")).
		Updates(item)
	if res.Error != nil {
		return apperrors.DatabaseError("failed to update content", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFoundError("content", id)
	}
	metrics.RecordMutation("content", "update")
	return nil
}

// DeleteContent removes a content item
func (s *Catalog) DeleteContent(ctx context.Context, id string) error {
	return s.delete(ctx, &models.Content{}, "content", id)
}

// ListBanners returns banners in display order
func (s *Catalog) ListBanners(ctx context.Context) ([]models.Banner, error) {
	var banners []models.Banner
	if err := s.db.WithContext(ctx).Order("display_order ASC").Find(&banners).Error; err != nil {
		return nil, apperrors.DatabaseError("failed to list banners", err)
	}
	return banners, nil
}

// CreateBanner inserts a banner
func (s *Catalog) CreateBanner(ctx context.Context, banner *models.Banner) error {
	if err := s.db.WithContext(ctx).Create(banner).Error; err != nil {
		return apperrors.DatabaseError("failed to create banner", err)
	}
	metrics.RecordMutation("banners", "create")
	return nil
}

// DeleteBanner removes a banner
func (s *Catalog) DeleteBanner(ctx context.Context, id string) error {
	return s.delete(ctx, &models.Banner{}, "banners", id)
}

// ListStories returns stories in display order
func (s *Catalog) ListStories(ctx context.Context) ([]models.Story, error) {
	var stories []models.Story
	if err := s.db.WithContext(ctx).Order("display_order ASC").Find(&stories).Error; err != nil {
		return nil, apperrors.DatabaseError("failed to list stories", err)
	}
	return stories, nil
}

// CreateStory inserts a story
func (s *Catalog) CreateStory(ctx context.Context, story *models.Story) error {
	if err := s.db.WithContext(ctx).Create(story).Error; err != nil {
		return apperrors.DatabaseError("failed to create story", err)
	}
	metrics.RecordMutation("stories", "create")
	return nil
}

// DeleteStory removes a story
func (s *Catalog) DeleteStory(ctx context.Context, id string) error {
	return s.delete(ctx, &models.Story{}, "stories", id)
}

// GetSettings returns the singleton settings, or the defaults when never saved
func (s *Catalog) GetSettings(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	err := s.db.WithContext(ctx).First(&settings, "id = ?", models.SettingsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		d := s.defaults
		d.Categories = append([]string(nil), s.defaults.Categories...)
		return &d, nil
	}
	if err != nil {
		return nil, apperrors.DatabaseError("failed to load settings", err)
	}
	return &settings, nil
}

// SaveSettings upserts the singleton settings row
func (s *Catalog) SaveSettings(ctx context.Context, settings *models.Settings) error {
	settings.ID = models.SettingsID
	settings.UpdatedAt = time.Now()
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(settings).Error
	if err != nil {
		return apperrors.DatabaseError("failed to save settings", err)
	}
	metrics.RecordMutation("settings", "upsert")
	return nil
}

func (s *Catalog) delete(ctx context.Context, model interface{}, collection, id string) error {
	res := s.db.WithContext(ctx).Delete(model, "id = ?", id)
	if res.Error != nil {
		return apperrors.DatabaseError("failed to delete from "+collection, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFoundError(collection, id)
	}
	metrics.RecordMutation(collection, "delete")
	return nil
}
