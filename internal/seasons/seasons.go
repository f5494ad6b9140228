// Package seasons organizes the embedded episode list of a series: adding and
// editing episodes, grouping them by season and tracking locked seasons.
package seasons

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/glefebvre/cineflix/internal/errors"
	"github.com/glefebvre/cineflix/internal/models"
	"github.com/google/uuid"
)

const (
	// DefaultDuration is stored when an episode is added without one
	DefaultDuration = "45m"
	// PendingWatchCode marks a coming-soon episode that has no code yet
	PendingWatchCode = "TBA"
)

// EpisodeDraft is the episode sub-form. Empty strings mean "not set".
type EpisodeDraft struct {
	Season        int    `json:"season" yaml:"season"`
	Number        int    `json:"number" yaml:"number"`
	Title         string `json:"title" yaml:"title"`
	Duration      string `json:"duration" yaml:"duration,omitempty"`
	WatchCode     string `json:"watch_code" yaml:"watch_code,omitempty"`
	DownloadCode  string `json:"download_code" yaml:"download_code,omitempty"`
	DownloadLink  string `json:"download_link" yaml:"download_link,omitempty"`
	Thumbnail     string `json:"thumbnail" yaml:"thumbnail,omitempty"`
	Quality       string `json:"quality" yaml:"quality,omitempty"`
	AudioLanguage string `json:"audio_language" yaml:"audio_language,omitempty"`
	Subtitles     string `json:"subtitles" yaml:"subtitles,omitempty"`
	IsComingSoon  bool   `json:"is_coming_soon" yaml:"is_coming_soon,omitempty"`
	ReleaseDate   string `json:"release_date" yaml:"release_date,omitempty"`
}

// AddEpisode validates d and appends it with a fresh identifier. It returns the
// new list and the suggested number for the next episode.
func AddEpisode(list []models.Episode, d EpisodeDraft) ([]models.Episode, int, error) {
	ep, err := d.toEpisode()
	if err != nil {
		return list, d.Number, err
	}
	ep.ID = newEpisodeID(list)

	out := make([]models.Episode, 0, len(list)+1)
	out = append(out, list...)
	out = append(out, ep)
	return out, ep.Number + 1, nil
}

func (d EpisodeDraft) toEpisode() (models.Episode, error) {
	title := strings.TrimSpace(d.Title)
	watchCode := strings.TrimSpace(d.WatchCode)
	if title == "" {
		return models.Episode{}, errors.ValidationError("episode title is required")
	}
	if watchCode == "" && !d.IsComingSoon {
		return models.Episode{}, errors.ValidationError("episode watch code is required unless the episode is coming soon")
	}
	if watchCode == "" {
		watchCode = PendingWatchCode
	}

	season := d.Season
	if season <= 0 {
		season = models.DefaultSeason
	}
	number := d.Number
	if number <= 0 {
		number = 1
	}
	duration := strings.TrimSpace(d.Duration)
	if duration == "" {
		duration = DefaultDuration
	}

	return models.Episode{
		Season:        season,
		Number:        number,
		Title:         title,
		Duration:      duration,
		WatchCode:     watchCode,
		DownloadCode:  optional(d.DownloadCode),
		DownloadLink:  optional(d.DownloadLink),
		Thumbnail:     optional(d.Thumbnail),
		Quality:       optional(d.Quality),
		AudioLanguage: optional(d.AudioLanguage),
		Subtitles:     optional(d.Subtitles),
		IsComingSoon:  d.IsComingSoon,
		ReleaseDate:   optional(d.ReleaseDate),
	}, nil
}

// FromEpisode turns a stored episode back into its sub-form
func FromEpisode(e models.Episode) EpisodeDraft {
	return EpisodeDraft{
		Season:        e.SeasonNumber(),
		Number:        e.Number,
		Title:         e.Title,
		Duration:      e.Duration,
		WatchCode:     e.WatchCode,
		DownloadCode:  deref(e.DownloadCode),
		DownloadLink:  deref(e.DownloadLink),
		Thumbnail:     deref(e.Thumbnail),
		Quality:       deref(e.Quality),
		AudioLanguage: deref(e.AudioLanguage),
		Subtitles:     deref(e.Subtitles),
		IsComingSoon:  e.Locked(),
		ReleaseDate:   deref(e.ReleaseDate),
	}
}

// Normalize runs a stored or submitted episode through the sub-form rules:
// blank optional fields become nil and the season, number and duration
// defaults apply. The identifier and the legacy upcoming flag are kept.
func Normalize(e models.Episode) (models.Episode, error) {
	out, err := FromEpisode(e).toEpisode()
	if err != nil {
		return e, err
	}
	out.ID = strings.TrimSpace(e.ID)
	out.IsComingSoon = e.IsComingSoon
	out.IsUpcoming = e.IsUpcoming
	return out, nil
}

// NormalizeLocks rebuilds a submitted lock list through Lock. Non-positive
// seasons are rejected and a repeated season keeps its first entry.
func NormalizeLocks(locks []models.SeasonLock) ([]models.SeasonLock, error) {
	var out []models.SeasonLock
	for _, l := range locks {
		var err error
		out, err = Lock(out, l.Season, Release{ReleaseDate: deref(l.ReleaseDate), Message: deref(l.Message)})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func newEpisodeID(list []models.Episode) string {
	for {
		id := "ep_" + uuid.NewString()[:8]
		if _, ok := Find(list, id); !ok {
			return id
		}
	}
}

// EnsureIDs returns a copy of list where every episode has an identifier.
// Coming-soon episodes without a code get PendingWatchCode.
func EnsureIDs(list []models.Episode) []models.Episode {
	out := slices.Clone(list)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = newEpisodeID(out)
		}
		if out[i].WatchCode == "" && out[i].Locked() {
			out[i].WatchCode = PendingWatchCode
		}
	}
	return out
}

// EpisodePatch is an inline edit of a stored episode. Nil fields are left
// alone; an empty DownloadCode clears it.
type EpisodePatch struct {
	Title        *string `json:"title,omitempty"`
	WatchCode    *string `json:"watch_code,omitempty"`
	DownloadCode *string `json:"download_code,omitempty"`
}

// UpdateEpisode applies patch to the episode with the given id
func UpdateEpisode(list []models.Episode, id string, patch EpisodePatch) ([]models.Episode, error) {
	idx := slices.IndexFunc(list, func(e models.Episode) bool { return e.ID == id })
	if idx < 0 {
		return list, errors.NotFoundError("episode", id)
	}

	ep := list[idx]
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return list, errors.ValidationError("episode title is required")
		}
		ep.Title = title
	}
	if patch.WatchCode != nil {
		code := strings.TrimSpace(*patch.WatchCode)
		if code == "" && !ep.Locked() {
			return list, errors.ValidationError("episode watch code is required unless the episode is coming soon")
		}
		if code == "" {
			code = PendingWatchCode
		}
		ep.WatchCode = code
	}
	if patch.DownloadCode != nil {
		ep.DownloadCode = optional(*patch.DownloadCode)
	}

	out := slices.Clone(list)
	out[idx] = ep
	return out, nil
}

// RemoveEpisode drops the episode with the given id
func RemoveEpisode(list []models.Episode, id string) ([]models.Episode, error) {
	idx := slices.IndexFunc(list, func(e models.Episode) bool { return e.ID == id })
	if idx < 0 {
		return list, errors.NotFoundError("episode", id)
	}
	return slices.Delete(slices.Clone(list), idx, idx+1), nil
}

// Find returns the episode with the given id
func Find(list []models.Episode, id string) (models.Episode, bool) {
	for _, e := range list {
		if e.ID == id {
			return e, true
		}
	}
	return models.Episode{}, false
}

// Sort orders episodes by season then number, keeping input order for ties
func Sort(list []models.Episode) []models.Episode {
	out := slices.Clone(list)
	slices.SortStableFunc(out, func(a, b models.Episode) int {
		if c := cmp.Compare(a.SeasonNumber(), b.SeasonNumber()); c != 0 {
			return c
		}
		return cmp.Compare(a.Number, b.Number)
	})
	return out
}

// GroupBySeason partitions episodes by season number. Each group is sorted
// ascending by episode number; equal numbers keep their input order.
func GroupBySeason(episodes []models.Episode) map[int][]models.Episode {
	groups := make(map[int][]models.Episode)
	for _, e := range episodes {
		s := e.SeasonNumber()
		groups[s] = append(groups[s], e)
	}
	for _, g := range groups {
		slices.SortStableFunc(g, func(a, b models.Episode) int {
			return cmp.Compare(a.Number, b.Number)
		})
	}
	return groups
}

// Seasons returns the season numbers of groups in ascending order
func Seasons(groups map[int][]models.Episode) []int {
	out := make([]int, 0, len(groups))
	for s := range groups {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

// Release is the optional information shown for a locked season
type Release struct {
	ReleaseDate string `json:"release_date"`
	Message     string `json:"message"`
}

// ParseSeason reads a season number typed into the lock form
func ParseSeason(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, errors.ValidationError(fmt.Sprintf("invalid season number %q", raw))
	}
	if n <= 0 {
		return 0, errors.ValidationError(fmt.Sprintf("season number must be positive, got %d", n))
	}
	return n, nil
}

// Lock adds season to the locked set with its release info. Locking an
// already locked season returns the set unchanged.
func Lock(locks []models.SeasonLock, season int, release Release) ([]models.SeasonLock, error) {
	if season <= 0 {
		return locks, errors.ValidationError(fmt.Sprintf("season number must be positive, got %d", season))
	}
	if IsLocked(locks, season) {
		return locks, nil
	}

	out := make([]models.SeasonLock, 0, len(locks)+1)
	out = append(out, locks...)
	return append(out, models.SeasonLock{
		Season:      season,
		ReleaseDate: optional(release.ReleaseDate),
		Message:     optional(release.Message),
	}), nil
}

// Unlock removes season together with its release info
func Unlock(locks []models.SeasonLock, season int) []models.SeasonLock {
	out := make([]models.SeasonLock, 0, len(locks))
	for _, l := range locks {
		if l.Season != season {
			out = append(out, l)
		}
	}
	return out
}

// IsLocked reports whether season is in the locked set
func IsLocked(locks []models.SeasonLock, season int) bool {
	_, ok := FindLock(locks, season)
	return ok
}

// FindLock returns the lock entry for season
func FindLock(locks []models.SeasonLock, season int) (models.SeasonLock, bool) {
	for _, l := range locks {
		if l.Season == season {
			return l, true
		}
	}
	return models.SeasonLock{}, false
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
