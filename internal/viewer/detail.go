package viewer

import (
	"fmt"

	"github.com/glefebvre/cineflix/internal/models"
	"github.com/glefebvre/cineflix/internal/seasons"
)

const (
	// DefaultQualityTag is shown when an item has no quality label
	DefaultQualityTag = "HD"
	// DownloadTag marks items with a distinct download target
	DownloadTag = "DOWNLOAD"
	// MaxScreenshots caps the gallery on the detail sheet
	MaxScreenshots = 8

	noDescription = "No description available for this content."
)

// DetailView is the detail sheet of one content item
type DetailView struct {
	ID          string      `json:"id"`
	Kind        models.Kind `json:"kind"`
	Title       string      `json:"title"`
	Backdrop    string      `json:"backdrop"`
	Tags        []string    `json:"tags"`
	Rating      float64     `json:"rating"`
	Views       string      `json:"views"`
	Metadata    Metadata    `json:"metadata"`
	Description string      `json:"description"`
	Exclusive   bool        `json:"exclusive,omitempty"`
	Upcoming    bool        `json:"upcoming,omitempty"`
	ChannelLink string      `json:"channel_link,omitempty"`
	Screenshots []string    `json:"screenshots,omitempty"`

	// Movie actions
	Watch    *Action `json:"watch,omitempty"`
	Download *Action `json:"download,omitempty"`

	// Series state
	Seasons        []int         `json:"seasons,omitempty"`
	SelectedSeason int           `json:"selected_season,omitempty"`
	SeasonLock     *LockView     `json:"season_lock,omitempty"`
	Episodes       []EpisodeView `json:"episodes,omitempty"`
	EmptyMessage   string        `json:"empty_message,omitempty"`
}

// Metadata is the optional metadata row
type Metadata struct {
	Year          *string `json:"year,omitempty"`
	Duration      *string `json:"duration,omitempty"`
	VideoQuality  *string `json:"video_quality,omitempty"`
	AudioLanguage *string `json:"audio_language,omitempty"`
	Subtitles     *string `json:"subtitles,omitempty"`
}

// LockView replaces the episode list of a locked season
type LockView struct {
	Season      int     `json:"season"`
	Title       string  `json:"title"`
	ReleaseDate *string `json:"release_date,omitempty"`
	Message     *string `json:"message,omitempty"`
}

// EpisodeView is one row of the episode list
type EpisodeView struct {
	ID            string  `json:"id"`
	Label         string  `json:"label"`
	Season        int     `json:"season"`
	Number        int     `json:"number"`
	Title         string  `json:"title"`
	Duration      string  `json:"duration"`
	Thumbnail     string  `json:"thumbnail"`
	Quality       *string `json:"quality,omitempty"`
	AudioLanguage *string `json:"audio_language,omitempty"`
	Subtitles     *string `json:"subtitles,omitempty"`
	Locked        bool    `json:"locked"`
	ReleaseDate   *string `json:"release_date,omitempty"`
	HasDownload   bool    `json:"has_download,omitempty"`
	Watch         *Action `json:"watch,omitempty"`
	Download      *Action `json:"download,omitempty"`
}

// Detail builds the detail sheet. season selects the displayed season of a
// series; zero selects the first available one.
func (l Links) Detail(c *models.Content, channelLink string, season int) DetailView {
	v := DetailView{
		ID:          c.ID,
		Kind:        c.EffectiveKind(),
		Title:       c.Title,
		Backdrop:    c.Thumbnail,
		Tags:        tags(c),
		Rating:      c.Rating,
		Views:       c.Views,
		Description: noDescription,
		Exclusive:   c.IsExclusive,
		Upcoming:    c.IsUpcoming,
		ChannelLink: channelLink,
		Metadata: Metadata{
			Year:          c.Year,
			Duration:      c.Duration,
			VideoQuality:  c.VideoQuality,
			AudioLanguage: c.AudioLanguage,
			Subtitles:     c.Subtitles,
		},
	}
	if c.DetailBanner != nil {
		v.Backdrop = *c.DetailBanner
	}
	if c.Description != nil {
		v.Description = *c.Description
	}
	v.Screenshots = c.Screenshots
	if len(v.Screenshots) > MaxScreenshots {
		v.Screenshots = v.Screenshots[:MaxScreenshots]
	}

	if !c.IsSeries() {
		codes := MovieCodes(c)
		if a, err := l.Watch(codes.WatchCode); err == nil {
			v.Watch = &a
		}
		if a, err := l.Download(codes); err == nil {
			v.Download = &a
		}
		return v
	}

	groups := seasons.GroupBySeason(c.Episodes)
	v.Seasons = seasons.Seasons(groups)
	v.SelectedSeason = season
	if v.SelectedSeason <= 0 {
		v.SelectedSeason = models.DefaultSeason
		if len(v.Seasons) > 0 {
			v.SelectedSeason = v.Seasons[0]
		}
	}

	if lock, ok := seasons.FindLock(c.SeasonLocks, v.SelectedSeason); ok {
		v.SeasonLock = &LockView{
			Season:      lock.Season,
			Title:       fmt.Sprintf("Season %d", lock.Season),
			ReleaseDate: lock.ReleaseDate,
			Message:     lock.Message,
		}
		return v
	}

	episodes := groups[v.SelectedSeason]
	if len(episodes) == 0 {
		v.EmptyMessage = fmt.Sprintf("No episodes available for Season %d", v.SelectedSeason)
		return v
	}
	v.Episodes = make([]EpisodeView, 0, len(episodes))
	for _, e := range episodes {
		v.Episodes = append(v.Episodes, l.episode(c, e))
	}
	return v
}

func (l Links) episode(c *models.Content, e models.Episode) EpisodeView {
	ev := EpisodeView{
		ID:            e.ID,
		Label:         fmt.Sprintf("S%d • E%d", e.SeasonNumber(), e.Number),
		Season:        e.SeasonNumber(),
		Number:        e.Number,
		Title:         e.Title,
		Duration:      e.Duration,
		Thumbnail:     c.Thumbnail,
		Quality:       e.Quality,
		AudioLanguage: e.AudioLanguage,
		Subtitles:     e.Subtitles,
		Locked:        e.Locked(),
		ReleaseDate:   e.ReleaseDate,
	}
	if e.Thumbnail != nil {
		ev.Thumbnail = *e.Thumbnail
	}
	if ev.Locked {
		return ev
	}

	ev.HasDownload = e.HasDownload()
	codes := EpisodeCodes(e)
	if a, err := l.Watch(codes.WatchCode); err == nil {
		ev.Watch = &a
	}
	if a, err := l.Download(codes); err == nil {
		ev.Download = &a
	}
	return ev
}

func tags(c *models.Content) []string {
	quality := DefaultQualityTag
	if c.Quality != nil {
		quality = *c.Quality
	}
	out := []string{c.Category, quality}
	if c.Year != nil {
		out = append(out, *c.Year)
	}
	if c.HasDownload() {
		out = append(out, DownloadTag)
	}
	return out
}

// HeroView is the home-page hero banner of one item
type HeroView struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Image         string   `json:"image"`
	Category      string   `json:"category"`
	VideoQuality  *string  `json:"video_quality,omitempty"`
	Rating        *float64 `json:"rating,omitempty"`
	Year          *string  `json:"year,omitempty"`
	Duration      *string  `json:"duration,omitempty"`
	AudioLanguage *string  `json:"audio_language,omitempty"`
	Subtitles     *string  `json:"subtitles,omitempty"`
	Description   *string  `json:"description,omitempty"`
}

// Hero builds the hero banner of an item
func Hero(c *models.Content) HeroView {
	h := HeroView{
		ID:            c.ID,
		Title:         c.Title,
		Image:         c.Thumbnail,
		Category:      c.Category,
		VideoQuality:  c.VideoQuality,
		Year:          c.Year,
		Duration:      c.Duration,
		AudioLanguage: c.AudioLanguage,
		Subtitles:     c.Subtitles,
		Description:   c.Description,
	}
	if c.Rating != 0 {
		r := c.Rating
		h.Rating = &r
	}
	return h
}
