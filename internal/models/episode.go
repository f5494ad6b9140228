package models

// DefaultSeason is used for episodes stored without a season number
const DefaultSeason = 1

// Episode is embedded in its parent series and never stored on its own
type Episode struct {
	ID           string  `json:"id" yaml:"id,omitempty"`
	Season       int     `json:"season" yaml:"season,omitempty"`
	Number       int     `json:"number" yaml:"number"`
	Title        string  `json:"title" yaml:"title"`
	Duration     string  `json:"duration" yaml:"duration,omitempty"`
	WatchCode    string  `json:"watch_code" yaml:"watch_code,omitempty"`
	DownloadCode *string `json:"download_code,omitempty" yaml:"download_code,omitempty"`
	DownloadLink *string `json:"download_link,omitempty" yaml:"download_link,omitempty"`

	Quality       *string `json:"quality,omitempty" yaml:"quality,omitempty"`
	AudioLanguage *string `json:"audio_language,omitempty" yaml:"audio_language,omitempty"`
	Subtitles     *string `json:"subtitles,omitempty" yaml:"subtitles,omitempty"`
	Thumbnail     *string `json:"thumbnail,omitempty" yaml:"thumbnail,omitempty"`

	IsComingSoon bool    `json:"is_coming_soon,omitempty" yaml:"is_coming_soon,omitempty"`
	ReleaseDate  *string `json:"release_date,omitempty" yaml:"release_date,omitempty"`
	// IsUpcoming is the older spelling of IsComingSoon, still honored on read
	IsUpcoming bool `json:"is_upcoming,omitempty" yaml:"is_upcoming,omitempty"`
}

// SeasonNumber returns the season, falling back to DefaultSeason
func (e Episode) SeasonNumber() int {
	if e.Season <= 0 {
		return DefaultSeason
	}
	return e.Season
}

// Locked reports whether playback is withheld for this episode
func (e Episode) Locked() bool {
	return e.IsComingSoon || e.IsUpcoming
}

// HasDownload reports whether a distinct download target was configured
func (e Episode) HasDownload() bool {
	return e.DownloadCode != nil || e.DownloadLink != nil
}

// SeasonLock withholds a whole season, with optional release information.
// The season number and its release info live in one record so they are
// added and removed together.
type SeasonLock struct {
	Season      int     `json:"season" yaml:"season"`
	ReleaseDate *string `json:"release_date,omitempty" yaml:"release_date,omitempty"`
	Message     *string `json:"message,omitempty" yaml:"message,omitempty"`
}
