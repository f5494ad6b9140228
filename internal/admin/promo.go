package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/glefebvre/cineflix/internal/errors"
	"github.com/glefebvre/cineflix/internal/models"
	"github.com/glefebvre/cineflix/internal/notify"
)

// PromoResult is returned by banner and story mutations
type PromoResult struct {
	Banners      []models.Banner `json:"banners,omitempty"`
	Stories      []models.Story  `json:"stories,omitempty"`
	Notification notify.Message  `json:"notification"`
}

// Banners lists banners in display order
func (s *Service) Banners(ctx context.Context) ([]models.Banner, error) {
	return s.store.ListBanners(ctx)
}

// AddBanner creates an active banner from a content item, copying its title
// and thumbnail and placing it last.
func (s *Service) AddBanner(ctx context.Context, contentID string) (*PromoResult, error) {
	item, err := s.store.GetContent(ctx, contentID)
	if err != nil {
		return nil, err
	}
	banners, err := s.store.ListBanners(ctx)
	if err != nil {
		return nil, err
	}

	id := item.ID
	banner := &models.Banner{
		ContentID:   &id,
		Title:       item.Title,
		Image:       item.Thumbnail,
		Description: item.Description,
		Order:       len(banners) + 1,
		IsActive:    true,
	}
	if err := s.store.CreateBanner(ctx, banner); err != nil {
		return nil, err
	}
	return s.refetchBanners(ctx, fmt.Sprintf("%q added to banners", item.Title))
}

// DeleteBanner removes a banner
func (s *Service) DeleteBanner(ctx context.Context, id string) (*PromoResult, error) {
	if err := s.store.DeleteBanner(ctx, id); err != nil {
		return nil, err
	}
	return s.refetchBanners(ctx, "Banner deleted")
}

func (s *Service) refetchBanners(ctx context.Context, message string) (*PromoResult, error) {
	banners, err := s.store.ListBanners(ctx)
	if err != nil {
		return nil, err
	}
	return &PromoResult{Banners: banners, Notification: s.notifier.Flash(message)}, nil
}

// Stories lists stories in display order
func (s *Service) Stories(ctx context.Context) ([]models.Story, error) {
	return s.store.ListStories(ctx)
}

// AddStory creates a story from a content item, placed last
func (s *Service) AddStory(ctx context.Context, contentID string) (*PromoResult, error) {
	item, err := s.store.GetContent(ctx, contentID)
	if err != nil {
		return nil, err
	}
	stories, err := s.store.ListStories(ctx)
	if err != nil {
		return nil, err
	}

	id := item.ID
	thumb := item.Thumbnail
	story := &models.Story{
		ContentID:    &id,
		Image:        item.Thumbnail,
		ThumbnailURL: &thumb,
		Order:        len(stories) + 1,
	}
	if err := s.store.CreateStory(ctx, story); err != nil {
		return nil, err
	}
	return s.refetchStories(ctx, fmt.Sprintf("%q added to stories", item.Title))
}

// DeleteStory removes a story
func (s *Service) DeleteStory(ctx context.Context, id string) (*PromoResult, error) {
	if err := s.store.DeleteStory(ctx, id); err != nil {
		return nil, err
	}
	return s.refetchStories(ctx, "Story deleted")
}

func (s *Service) refetchStories(ctx context.Context, message string) (*PromoResult, error) {
	stories, err := s.store.ListStories(ctx)
	if err != nil {
		return nil, err
	}
	return &PromoResult{Stories: stories, Notification: s.notifier.Flash(message)}, nil
}

// SettingsInput is the settings form
type SettingsInput struct {
	BotUsername       string   `json:"bot_username"`
	ChannelLink       string   `json:"channel_link"`
	NoticeChannelLink string   `json:"notice_channel_link"`
	NoticeText        string   `json:"notice_text"`
	NoticeEnabled     bool     `json:"notice_enabled"`
	Categories        []string `json:"categories"`
}

// Settings returns the stored settings or their defaults
func (s *Service) Settings(ctx context.Context) (*models.Settings, error) {
	return s.store.GetSettings(ctx)
}

// SaveSettings upserts the settings and pushes them to live subscribers
func (s *Service) SaveSettings(ctx context.Context, in SettingsInput) (*models.Settings, notify.Message, error) {
	bot := strings.TrimPrefix(strings.TrimSpace(in.BotUsername), "@")
	if strings.ContainsAny(bot, " /?") {
		return nil, notify.Message{}, errors.ValidationError("bot username must not contain spaces or URL characters")
	}

	settings := &models.Settings{
		BotUsername:   bot,
		ChannelLink:   strings.TrimSpace(in.ChannelLink),
		NoticeText:    strings.TrimSpace(in.NoticeText),
		NoticeEnabled: in.NoticeEnabled,
		Categories:    normalizeCategories(in.Categories, s.defaultCategories),
	}
	if link := strings.TrimSpace(in.NoticeChannelLink); link != "" {
		settings.NoticeChannelLink = &link
	}

	if err := s.store.SaveSettings(ctx, settings); err != nil {
		return nil, notify.Message{}, err
	}
	if s.hub != nil {
		s.hub.Publish(*settings)
	}
	s.log.InfoContext(ctx, "settings saved")
	return settings, s.notifier.Flash("Settings saved"), nil
}

func normalizeCategories(in, defaults []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, c := range in {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	if len(out) == 0 {
		return append(out, defaults...)
	}
	return out
}
