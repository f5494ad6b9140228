package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableNames(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"content", Content{}.TableName(), "content"},
		{"banners", Banner{}.TableName(), "banners"},
		{"stories", Story{}.TableName(), "stories"},
		{"settings", Settings{}.TableName(), "settings"},
		{"admin users", AdminUser{}.TableName(), "admin_users"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.got)
		})
	}
}

func TestKind_Valid(t *testing.T) {
	assert.True(t, KindMovie.Valid())
	assert.True(t, KindSeries.Valid())
	assert.False(t, Kind("").Valid())
	assert.False(t, Kind("podcast").Valid())
}

func TestContent_EffectiveKind(t *testing.T) {
	tests := []struct {
		name     string
		content  Content
		expected Kind
	}{
		{"explicit movie", Content{Kind: KindMovie, Episodes: []Episode{{Number: 1}}}, KindMovie},
		{"explicit series", Content{Kind: KindSeries}, KindSeries},
		{"legacy row with episodes", Content{Episodes: []Episode{{Number: 1}}}, KindSeries},
		{"legacy row without episodes", Content{}, KindMovie},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.content.EffectiveKind())
			assert.Equal(t, tc.expected == KindSeries, tc.content.IsSeries())
		})
	}
}

func TestContent_HasDownload(t *testing.T) {
	link := "https://files.example.com/a.mp4"
	assert.False(t, (&Content{}).HasDownload())
	assert.True(t, (&Content{DownloadLink: &link}).HasDownload())
	assert.True(t, (&Content{DownloadCode: &link}).HasDownload())
}

func TestBeforeCreate_AssignsMissingIDs(t *testing.T) {
	c := &Content{}
	assert.NoError(t, c.BeforeCreate(nil))
	assert.Len(t, c.ID, 36)

	kept := &Content{ID: "fixed"}
	assert.NoError(t, kept.BeforeCreate(nil))
	assert.Equal(t, "fixed", kept.ID)

	b := &Banner{}
	assert.NoError(t, b.BeforeCreate(nil))
	assert.NotEmpty(t, b.ID)

	s := &Story{}
	assert.NoError(t, s.BeforeCreate(nil))
	assert.NotEmpty(t, s.ID)
}

func TestEpisode_Defaults(t *testing.T) {
	assert.Equal(t, DefaultSeason, Episode{}.SeasonNumber())
	assert.Equal(t, 3, Episode{Season: 3}.SeasonNumber())

	assert.False(t, Episode{}.Locked())
	assert.True(t, Episode{IsComingSoon: true}.Locked())
	assert.True(t, Episode{IsUpcoming: true}.Locked())

	code := "dl"
	assert.True(t, Episode{DownloadCode: &code}.HasDownload())
	assert.False(t, Episode{WatchCode: "w"}.HasDownload())
}
