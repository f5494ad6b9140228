// Package admin orchestrates the admin panel: every mutation goes through
// the draft or organizer, is written in one round trip, then the full list is
// re-read and a transient notification is raised.
package admin

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/glefebvre/cineflix/internal/draft"
	"github.com/glefebvre/cineflix/internal/errors"
	"github.com/glefebvre/cineflix/internal/feed"
	"github.com/glefebvre/cineflix/internal/logger"
	"github.com/glefebvre/cineflix/internal/models"
	"github.com/glefebvre/cineflix/internal/notify"
	"github.com/glefebvre/cineflix/internal/ranking"
	"github.com/glefebvre/cineflix/internal/seasons"
	"github.com/glefebvre/cineflix/internal/store"
	"golang.org/x/text/cases"
)

// Result is returned by every content mutation
type Result struct {
	Item         *models.Content  `json:"item,omitempty"`
	Items        []models.Content `json:"items"`
	Notification notify.Message   `json:"notification"`

	// NextEpisode is the suggested number for the next episode after AddEpisode
	NextEpisode int `json:"next_episode,omitempty"`
}

// Service is the admin panel backend
type Service struct {
	store             *store.Catalog
	ranking           *ranking.Service
	notifier          *notify.Notifier
	hub               *feed.Hub
	defaultCategories []string
	log               *logger.Logger
}

// NewService wires the admin service
func NewService(catalog *store.Catalog, notifier *notify.Notifier, hub *feed.Hub, defaultCategories []string) *Service {
	return &Service{
		store:             catalog,
		ranking:           ranking.NewService(catalog),
		notifier:          notifier,
		hub:               hub,
		defaultCategories: defaultCategories,
		log:               logger.AppLogger().WithField("component", "admin"),
	}
}

func (s *Service) defaultCategory() string {
	if len(s.defaultCategories) > 0 {
		return s.defaultCategories[0]
	}
	return draft.DefaultCategory
}

// NewDraft returns an empty create-mode draft
func (s *Service) NewDraft() draft.Draft {
	return draft.New(s.defaultCategory())
}

// Edit loads a stored item into an edit-mode draft
func (s *Service) Edit(ctx context.Context, id string) (draft.Draft, error) {
	item, err := s.store.GetContent(ctx, id)
	if err != nil {
		return draft.Draft{}, err
	}
	return s.NewDraft().Load(item), nil
}

// Create publishes a new item built from fields
func (s *Service) Create(ctx context.Context, fields draft.Fields) (*Result, error) {
	return s.Submit(ctx, s.NewDraft().With(fields))
}

// Update replaces the editable fields of a stored item
func (s *Service) Update(ctx context.Context, id string, fields draft.Fields) (*Result, error) {
	d, err := s.Edit(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Submit(ctx, d.With(fields))
}

// Submit creates or updates depending on the draft's edit mode. Updates keep
// the creation time and the top-10 state of the stored item.
func (s *Service) Submit(ctx context.Context, d draft.Draft) (*Result, error) {
	item, err := d.Build()
	if err != nil {
		return nil, err
	}
	s.checkCategory(ctx, item)

	if d.IsEditing() {
		existing, err := s.store.GetContent(ctx, d.EditingID())
		if err != nil {
			return nil, err
		}
		item.CreatedAt = existing.CreatedAt
		item.IsTop10 = existing.IsTop10
		item.Top10Position = existing.Top10Position
		if err := s.store.UpdateContent(ctx, item); err != nil {
			return nil, err
		}
		return s.refetch(ctx, item, fmt.Sprintf("%q updated", item.Title))
	}

	if err := s.store.CreateContent(ctx, item); err != nil {
		return nil, err
	}
	s.log.WithFields(map[string]interface{}{"content_id": item.ID, "kind": item.Kind}).InfoContext(ctx, "content published")
	return s.refetch(ctx, item, fmt.Sprintf("%q published", item.Title))
}

// checkCategory warns about categories missing from settings. The category
// list is advisory; items are stored either way.
func (s *Service) checkCategory(ctx context.Context, item *models.Content) {
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return
	}
	if !slices.Contains(settings.Categories, item.Category) {
		s.log.WithField("category", item.Category).WarnContext(ctx, "content category is not in the configured category list")
	}
}

// Delete removes a content item
func (s *Service) Delete(ctx context.Context, id string) (*Result, error) {
	item, err := s.store.GetContent(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.DeleteContent(ctx, id); err != nil {
		return nil, err
	}
	return s.refetch(ctx, nil, fmt.Sprintf("%q deleted", item.Title))
}

// List returns every item, newest first, filtered by query when non-empty
func (s *Service) List(ctx context.Context, query string) ([]models.Content, error) {
	items, err := s.store.ListContent(ctx)
	if err != nil {
		return nil, err
	}
	return Search(items, query), nil
}

// Search keeps the items whose title or category contains query, ignoring case
func Search(items []models.Content, query string) []models.Content {
	query = strings.TrimSpace(query)
	if query == "" {
		return items
	}
	fold := cases.Fold()
	needle := fold.String(query)

	out := make([]models.Content, 0, len(items))
	for _, c := range items {
		if strings.Contains(fold.String(c.Title), needle) || strings.Contains(fold.String(c.Category), needle) {
			out = append(out, c)
		}
	}
	return out
}

// AddEpisode appends an episode to a stored series
func (s *Service) AddEpisode(ctx context.Context, contentID string, d seasons.EpisodeDraft) (*Result, error) {
	item, err := s.series(ctx, contentID)
	if err != nil {
		return nil, err
	}
	episodes, next, err := seasons.AddEpisode(item.Episodes, d)
	if err != nil {
		return nil, err
	}
	episodes = seasons.Sort(episodes)
	if err := s.store.UpdateEpisodes(ctx, contentID, episodes); err != nil {
		return nil, err
	}
	item.Episodes = episodes
	res, err := s.refetch(ctx, item, "Episode added")
	if err != nil {
		return nil, err
	}
	res.NextEpisode = next
	return res, nil
}

// LockSeason withholds a season of a stored series
func (s *Service) LockSeason(ctx context.Context, contentID string, season int, release seasons.Release) (*Result, error) {
	item, err := s.series(ctx, contentID)
	if err != nil {
		return nil, err
	}
	locks, err := seasons.Lock(item.SeasonLocks, season, release)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateSeasonLocks(ctx, contentID, locks); err != nil {
		return nil, err
	}
	item.SeasonLocks = locks
	return s.refetch(ctx, item, fmt.Sprintf("Season %d locked", season))
}

// UnlockSeason releases a season of a stored series and drops its release info
func (s *Service) UnlockSeason(ctx context.Context, contentID string, season int) (*Result, error) {
	item, err := s.series(ctx, contentID)
	if err != nil {
		return nil, err
	}
	locks := seasons.Unlock(item.SeasonLocks, season)
	if err := s.store.UpdateSeasonLocks(ctx, contentID, locks); err != nil {
		return nil, err
	}
	item.SeasonLocks = locks
	return s.refetch(ctx, item, fmt.Sprintf("Season %d unlocked", season))
}

func (s *Service) series(ctx context.Context, id string) (*models.Content, error) {
	item, err := s.store.GetContent(ctx, id)
	if err != nil {
		return nil, err
	}
	if !item.IsSeries() {
		return nil, errors.ValidationError("episodes and seasons only apply to a series")
	}
	return item, nil
}

// UpdateEpisode applies an inline edit to one episode of a stored series
func (s *Service) UpdateEpisode(ctx context.Context, contentID, episodeID string, patch seasons.EpisodePatch) (*Result, error) {
	item, err := s.store.GetContent(ctx, contentID)
	if err != nil {
		return nil, err
	}
	episodes, err := seasons.UpdateEpisode(item.Episodes, episodeID, patch)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateEpisodes(ctx, contentID, episodes); err != nil {
		return nil, err
	}
	item.Episodes = episodes
	return s.refetch(ctx, item, "Episode updated")
}

// DeleteEpisode removes one episode of a stored series. The last episode of a
// series cannot be removed.
func (s *Service) DeleteEpisode(ctx context.Context, contentID, episodeID string) (*Result, error) {
	item, err := s.store.GetContent(ctx, contentID)
	if err != nil {
		return nil, err
	}
	episodes, err := seasons.RemoveEpisode(item.Episodes, episodeID)
	if err != nil {
		return nil, err
	}
	if item.IsSeries() && len(episodes) == 0 {
		return nil, errors.ValidationError("a series needs at least one episode")
	}
	if err := s.store.UpdateEpisodes(ctx, contentID, episodes); err != nil {
		return nil, err
	}
	item.Episodes = episodes
	return s.refetch(ctx, item, "Episode deleted")
}

// Top10 returns the ranked items in display order
func (s *Service) Top10(ctx context.Context) ([]models.Content, error) {
	return s.ranking.List(ctx)
}

// AddToTop10 appends an item to the top-10
func (s *Service) AddToTop10(ctx context.Context, id string) (*Result, error) {
	pos, err := s.ranking.Add(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.refetchItem(ctx, id, fmt.Sprintf("Added to Top 10 at #%d", pos))
}

// RemoveFromTop10 clears an item's ranking
func (s *Service) RemoveFromTop10(ctx context.Context, id string) (*Result, error) {
	if err := s.ranking.Remove(ctx, id); err != nil {
		return nil, err
	}
	return s.refetchItem(ctx, id, "Removed from Top 10")
}

// SetTop10Position moves an item to position
func (s *Service) SetTop10Position(ctx context.Context, id string, position int) (*Result, error) {
	if err := s.ranking.SetPosition(ctx, id, position); err != nil {
		return nil, err
	}
	return s.refetchItem(ctx, id, fmt.Sprintf("Moved to #%d", position))
}

func (s *Service) refetchItem(ctx context.Context, id, message string) (*Result, error) {
	item, err := s.store.GetContent(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.refetch(ctx, item, message)
}

func (s *Service) refetch(ctx context.Context, item *models.Content, message string) (*Result, error) {
	items, err := s.store.ListContent(ctx)
	if err != nil {
		return nil, err
	}
	return &Result{Item: item, Items: items, Notification: s.notifier.Flash(message)}, nil
}

// Notification returns the live transient message
func (s *Service) Notification() (notify.Message, bool) {
	return s.notifier.Current()
}
