// Package draft holds the content form as one immutable record. Every
// transition returns a new Draft; Build turns a valid draft into a document.
package draft

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/glefebvre/cineflix/internal/errors"
	"github.com/glefebvre/cineflix/internal/models"
	"github.com/glefebvre/cineflix/internal/seasons"
)

const (
	// MaxScreenshots is the largest screenshot gallery the form accepts
	MaxScreenshots = 8

	DefaultRating   = 9.0
	DefaultViews    = "0"
	DefaultYear     = "2024"
	DefaultCategory = "Exclusive"
)

// Fields is the editable state of the content form. Empty strings mean the
// field was left blank.
type Fields struct {
	Kind          models.Kind `json:"kind" yaml:"kind"`
	Title         string      `json:"title" yaml:"title"`
	Thumbnail     string      `json:"thumbnail" yaml:"thumbnail"`
	Category      string      `json:"category" yaml:"category,omitempty"`
	Rating        string      `json:"rating" yaml:"rating,omitempty"`
	Views         string      `json:"views" yaml:"views,omitempty"`
	Year          string      `json:"year" yaml:"year,omitempty"`
	Description   string      `json:"description" yaml:"description,omitempty"`
	Duration      string      `json:"duration" yaml:"duration,omitempty"`
	AudioLanguage string      `json:"audio_language" yaml:"audio_language,omitempty"`
	Subtitles     string      `json:"subtitles" yaml:"subtitles,omitempty"`
	VideoQuality  string      `json:"video_quality" yaml:"video_quality,omitempty"`
	Quality       string      `json:"quality" yaml:"quality,omitempty"`
	DetailBanner  string      `json:"detail_banner" yaml:"detail_banner,omitempty"`
	ReleaseDate   string      `json:"release_date" yaml:"release_date,omitempty"`
	IsExclusive   bool        `json:"is_exclusive" yaml:"is_exclusive,omitempty"`
	IsUpcoming    bool        `json:"is_upcoming" yaml:"is_upcoming,omitempty"`
	Screenshots   []string    `json:"screenshots" yaml:"screenshots,omitempty"`

	WatchCode    string `json:"watch_code" yaml:"watch_code,omitempty"`
	DownloadCode string `json:"download_code" yaml:"download_code,omitempty"`
	DownloadLink string `json:"download_link" yaml:"download_link,omitempty"`

	Episodes    []models.Episode    `json:"episodes" yaml:"episodes,omitempty"`
	SeasonLocks []models.SeasonLock `json:"season_locks" yaml:"season_locks,omitempty"`
}

// Draft is the content form together with the id of the item being edited
type Draft struct {
	fields          Fields
	editingID       string
	defaultCategory string
}

// New returns an empty create-mode draft
func New(defaultCategory string) Draft {
	if defaultCategory == "" {
		defaultCategory = DefaultCategory
	}
	return Draft{
		defaultCategory: defaultCategory,
		fields: Fields{
			Kind:     models.KindMovie,
			Category: defaultCategory,
			Rating:   strconv.FormatFloat(DefaultRating, 'f', 1, 64),
			Year:     DefaultYear,
		},
	}
}

// Reset discards every edit and leaves edit mode
func (d Draft) Reset() Draft {
	return New(d.defaultCategory)
}

// Load fills the draft from a stored item and switches to edit mode
func (d Draft) Load(c *models.Content) Draft {
	return Draft{
		defaultCategory: d.defaultCategory,
		editingID:       c.ID,
		fields: Fields{
			Kind:          c.EffectiveKind(),
			Title:         c.Title,
			Thumbnail:     c.Thumbnail,
			Category:      c.Category,
			Rating:        strconv.FormatFloat(c.Rating, 'f', -1, 64),
			Views:         c.Views,
			Year:          deref(c.Year),
			Description:   deref(c.Description),
			Duration:      deref(c.Duration),
			AudioLanguage: deref(c.AudioLanguage),
			Subtitles:     deref(c.Subtitles),
			VideoQuality:  deref(c.VideoQuality),
			Quality:       deref(c.Quality),
			DetailBanner:  deref(c.DetailBanner),
			ReleaseDate:   deref(c.ReleaseDate),
			IsExclusive:   c.IsExclusive,
			IsUpcoming:    c.IsUpcoming,
			Screenshots:   slices.Clone([]string(c.Screenshots)),
			WatchCode:     deref(c.WatchCode),
			DownloadCode:  deref(c.DownloadCode),
			DownloadLink:  deref(c.DownloadLink),
			Episodes:      slices.Clone([]models.Episode(c.Episodes)),
			SeasonLocks:   slices.Clone([]models.SeasonLock(c.SeasonLocks)),
		},
	}
}

// With replaces the form fields, keeping the edit target
func (d Draft) With(f Fields) Draft {
	f.Screenshots = slices.Clone(f.Screenshots)
	f.Episodes = slices.Clone(f.Episodes)
	f.SeasonLocks = slices.Clone(f.SeasonLocks)
	d.fields = f
	return d
}

// Fields returns a copy of the form state
func (d Draft) Fields() Fields {
	f := d.fields
	f.Screenshots = slices.Clone(f.Screenshots)
	f.Episodes = slices.Clone(f.Episodes)
	f.SeasonLocks = slices.Clone(f.SeasonLocks)
	return f
}

// IsEditing reports whether the draft updates an existing item
func (d Draft) IsEditing() bool {
	return d.editingID != ""
}

// EditingID is the id of the item being edited, empty in create mode
func (d Draft) EditingID() string {
	return d.editingID
}

// Kind returns the selected variant, inferring it from the episode list when unset
func (d Draft) Kind() models.Kind {
	if d.fields.Kind != "" {
		return d.fields.Kind
	}
	if len(d.fields.Episodes) > 0 {
		return models.KindSeries
	}
	return models.KindMovie
}

// WithKind switches variant. The fields of the other variant are cleared.
func (d Draft) WithKind(k models.Kind) Draft {
	f := d.Fields()
	f.Kind = k
	switch k {
	case models.KindMovie:
		f.Episodes = nil
		f.SeasonLocks = nil
	case models.KindSeries:
		f.WatchCode = ""
		f.DownloadCode = ""
		f.DownloadLink = ""
	}
	d.fields = f
	return d
}

// AddScreenshot appends a screenshot URL
func (d Draft) AddScreenshot(url string) (Draft, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return d, errors.ValidationError("screenshot URL is required")
	}
	if len(d.fields.Screenshots) >= MaxScreenshots {
		return d, errors.ValidationError(fmt.Sprintf("at most %d screenshots are allowed", MaxScreenshots))
	}
	f := d.Fields()
	f.Screenshots = append(f.Screenshots, url)
	d.fields = f
	return d, nil
}

// RemoveScreenshot drops the screenshot at index; out of range is a no-op
func (d Draft) RemoveScreenshot(index int) Draft {
	if index < 0 || index >= len(d.fields.Screenshots) {
		return d
	}
	f := d.Fields()
	f.Screenshots = slices.Delete(f.Screenshots, index, index+1)
	d.fields = f
	return d
}

// AddEpisode appends an episode and returns the suggested next episode number
func (d Draft) AddEpisode(e seasons.EpisodeDraft) (Draft, int, error) {
	episodes, next, err := seasons.AddEpisode(d.fields.Episodes, e)
	if err != nil {
		return d, next, err
	}
	f := d.Fields()
	f.Episodes = episodes
	d.fields = f
	return d, next, nil
}

// RemoveEpisode drops an episode from the form
func (d Draft) RemoveEpisode(id string) (Draft, error) {
	episodes, err := seasons.RemoveEpisode(d.fields.Episodes, id)
	if err != nil {
		return d, err
	}
	f := d.Fields()
	f.Episodes = episodes
	d.fields = f
	return d, nil
}

// LockSeason withholds a season with optional release info
func (d Draft) LockSeason(season int, release seasons.Release) (Draft, error) {
	locks, err := seasons.Lock(d.fields.SeasonLocks, season, release)
	if err != nil {
		return d, err
	}
	f := d.Fields()
	f.SeasonLocks = locks
	d.fields = f
	return d, nil
}

// UnlockSeason releases a season and its release info
func (d Draft) UnlockSeason(season int) Draft {
	f := d.Fields()
	f.SeasonLocks = seasons.Unlock(f.SeasonLocks, season)
	d.fields = f
	return d
}

// Validate checks the required fields of the selected variant
func (d Draft) Validate() error {
	f := d.fields
	if strings.TrimSpace(f.Title) == "" {
		return errors.ValidationError("title is required")
	}
	if strings.TrimSpace(f.Thumbnail) == "" {
		return errors.ValidationError("thumbnail is required")
	}
	if len(f.Screenshots) > MaxScreenshots {
		return errors.ValidationError(fmt.Sprintf("at most %d screenshots are allowed", MaxScreenshots))
	}

	switch d.Kind() {
	case models.KindMovie:
		if strings.TrimSpace(f.WatchCode) == "" {
			return errors.ValidationError("watch code is required for a movie")
		}
		if len(f.Episodes) > 0 {
			return errors.ValidationError("a movie cannot have episodes")
		}
	case models.KindSeries:
		if len(f.Episodes) == 0 {
			return errors.ValidationError("a series needs at least one episode")
		}
		if f.WatchCode != "" || f.DownloadCode != "" || f.DownloadLink != "" {
			return errors.ValidationError("watch and download codes are set per episode on a series")
		}
		seen := make(map[string]bool, len(f.Episodes))
		for _, e := range f.Episodes {
			if strings.TrimSpace(e.Title) == "" {
				return errors.ValidationError("episode title is required")
			}
			if strings.TrimSpace(e.WatchCode) == "" && !e.Locked() {
				return errors.ValidationError(fmt.Sprintf("episode %q needs a watch code unless it is coming soon", e.Title))
			}
			if e.ID != "" && seen[e.ID] {
				return errors.ValidationError(fmt.Sprintf("duplicate episode id %q", e.ID))
			}
			seen[e.ID] = true
		}
		if _, err := seasons.NormalizeLocks(f.SeasonLocks); err != nil {
			return err
		}
	default:
		return errors.ValidationError(fmt.Sprintf("unknown content kind %q", f.Kind))
	}
	return nil
}

// Build validates the draft and produces the document to store. Blank
// optional fields are left nil.
func (d Draft) Build() (*models.Content, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	f := d.fields

	category := strings.TrimSpace(f.Category)
	if category == "" {
		category = d.defaultCategory
	}
	views := strings.TrimSpace(f.Views)
	if views == "" {
		views = DefaultViews
	}

	c := &models.Content{
		ID:            d.editingID,
		Kind:          d.Kind(),
		Title:         strings.TrimSpace(f.Title),
		Thumbnail:     strings.TrimSpace(f.Thumbnail),
		Category:      category,
		Rating:        parseRating(f.Rating),
		Views:         views,
		Year:          optional(f.Year),
		Description:   optional(f.Description),
		Duration:      optional(f.Duration),
		AudioLanguage: optional(f.AudioLanguage),
		Subtitles:     optional(f.Subtitles),
		VideoQuality:  optional(f.VideoQuality),
		Quality:       optional(f.Quality),
		DetailBanner:  optional(f.DetailBanner),
		ReleaseDate:   optional(f.ReleaseDate),
		IsExclusive:   f.IsExclusive,
		IsUpcoming:    f.IsUpcoming,
	}

	var shots []string
	for _, s := range f.Screenshots {
		if s = strings.TrimSpace(s); s != "" {
			shots = append(shots, s)
		}
	}
	c.Screenshots = shots

	if c.Kind == models.KindSeries {
		episodes := make([]models.Episode, 0, len(f.Episodes))
		for _, e := range f.Episodes {
			n, err := seasons.Normalize(e)
			if err != nil {
				return nil, err
			}
			episodes = append(episodes, n)
		}
		c.Episodes = seasons.Sort(seasons.EnsureIDs(episodes))

		locks, err := seasons.NormalizeLocks(f.SeasonLocks)
		if err != nil {
			return nil, err
		}
		c.SeasonLocks = locks
	} else {
		c.WatchCode = optional(f.WatchCode)
		c.DownloadCode = optional(f.DownloadCode)
		c.DownloadLink = optional(f.DownloadLink)
	}
	return c, nil
}

func parseRating(raw string) float64 {
	r, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || r == 0 {
		return DefaultRating
	}
	return r
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
