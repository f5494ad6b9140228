package seasons

import (
	"testing"

	apperrors "github.com/glefebvre/cineflix/internal/errors"
	"github.com/glefebvre/cineflix/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ep(id string, season, number int) models.Episode {
	return models.Episode{ID: id, Season: season, Number: number, Title: id, WatchCode: "code_" + id}
}

func TestAddEpisode(t *testing.T) {
	list, next, err := AddEpisode(nil, EpisodeDraft{Season: 1, Number: 1, Title: "Pilot", WatchCode: "abc"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, next)
	assert.NotEmpty(t, list[0].ID)
	assert.Equal(t, DefaultDuration, list[0].Duration)
	assert.Nil(t, list[0].DownloadCode)

	list2, next, err := AddEpisode(list, EpisodeDraft{Season: 1, Number: 2, Title: "Second", WatchCode: "def", DownloadCode: "dl"})
	require.NoError(t, err)
	require.Len(t, list2, 2)
	assert.Len(t, list, 1, "input list is not modified")
	assert.Equal(t, 3, next)
	assert.NotEqual(t, list2[0].ID, list2[1].ID)
	require.NotNil(t, list2[1].DownloadCode)
	assert.Equal(t, "dl", *list2[1].DownloadCode)
}

func TestAddEpisode_Validation(t *testing.T) {
	tests := []struct {
		name  string
		draft EpisodeDraft
		valid bool
	}{
		{"missing title", EpisodeDraft{WatchCode: "x"}, false},
		{"blank title", EpisodeDraft{Title: "   ", WatchCode: "x"}, false},
		{"missing watch code", EpisodeDraft{Title: "Ep"}, false},
		{"coming soon without code", EpisodeDraft{Title: "Ep", IsComingSoon: true}, true},
		{"complete", EpisodeDraft{Title: "Ep", WatchCode: "x"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, _, err := AddEpisode(nil, tt.draft)
			if tt.valid {
				require.NoError(t, err)
				assert.Len(t, list, 1)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.IsValidationError(err))
			assert.Empty(t, list)
		})
	}
}

func TestAddEpisode_ComingSoonGetsPendingCode(t *testing.T) {
	list, _, err := AddEpisode(nil, EpisodeDraft{Title: "Finale", IsComingSoon: true, ReleaseDate: "2025-03-01"})
	require.NoError(t, err)
	assert.Equal(t, PendingWatchCode, list[0].WatchCode)
	assert.Equal(t, models.DefaultSeason, list[0].Season)
	assert.True(t, list[0].Locked())
	assert.Equal(t, "2025-03-01", *list[0].ReleaseDate)
}

func TestUpdateEpisode(t *testing.T) {
	dl := "old_dl"
	list := []models.Episode{ep("a", 1, 1), {ID: "b", Season: 1, Number: 2, Title: "b", WatchCode: "w", DownloadCode: &dl}}

	title := "Renamed"
	out, err := UpdateEpisode(list, "a", EpisodePatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", out[0].Title)
	assert.Equal(t, "a", list[0].Title, "input list is not modified")

	empty := ""
	out, err = UpdateEpisode(list, "b", EpisodePatch{DownloadCode: &empty})
	require.NoError(t, err)
	assert.Nil(t, out[1].DownloadCode)

	_, err = UpdateEpisode(list, "b", EpisodePatch{WatchCode: &empty})
	assert.True(t, apperrors.IsValidationError(err))

	_, err = UpdateEpisode(list, "zzz", EpisodePatch{Title: &title})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRemoveEpisode(t *testing.T) {
	list := []models.Episode{ep("a", 1, 1), ep("b", 1, 2), ep("c", 2, 1)}

	out, err := RemoveEpisode(list, "b")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "c", out[1].ID)
	assert.Len(t, list, 3)

	_, err = RemoveEpisode(list, "missing")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestGroupBySeason_PartitionsExactly(t *testing.T) {
	list := []models.Episode{
		ep("s2e2", 2, 2),
		ep("s1e3", 1, 3),
		ep("nos", 0, 2),
		ep("s2e1", 2, 1),
		ep("s1e1", 1, 1),
	}

	groups := GroupBySeason(list)
	assert.Equal(t, []int{1, 2}, Seasons(groups))

	total := 0
	seen := map[string]bool{}
	for season, g := range groups {
		total += len(g)
		for i, e := range g {
			assert.Equal(t, season, e.SeasonNumber())
			assert.False(t, seen[e.ID], "episode %s appears twice", e.ID)
			seen[e.ID] = true
			if i > 0 {
				assert.LessOrEqual(t, g[i-1].Number, e.Number)
			}
		}
	}
	assert.Equal(t, len(list), total)

	ids := func(g []models.Episode) []string {
		out := make([]string, len(g))
		for i, e := range g {
			out[i] = e.ID
		}
		return out
	}
	assert.Equal(t, []string{"s1e1", "nos", "s1e3"}, ids(groups[1]))
	assert.Equal(t, []string{"s2e1", "s2e2"}, ids(groups[2]))
}

func TestGroupBySeason_StableForEqualNumbers(t *testing.T) {
	list := []models.Episode{ep("first", 1, 1), ep("second", 1, 1), ep("third", 1, 1)}

	g := GroupBySeason(list)[1]
	require.Len(t, g, 3)
	assert.Equal(t, "first", g[0].ID)
	assert.Equal(t, "second", g[1].ID)
	assert.Equal(t, "third", g[2].ID)
}

func TestGroupBySeason_Empty(t *testing.T) {
	groups := GroupBySeason(nil)
	assert.Empty(t, groups)
	assert.Empty(t, Seasons(groups))
}

func TestSort(t *testing.T) {
	list := []models.Episode{ep("s2e1", 2, 1), ep("s1e2", 1, 2), ep("s1e1", 1, 1)}
	out := Sort(list)
	assert.Equal(t, "s1e1", out[0].ID)
	assert.Equal(t, "s1e2", out[1].ID)
	assert.Equal(t, "s2e1", out[2].ID)
	assert.Equal(t, "s2e1", list[0].ID)
}

func TestParseSeason(t *testing.T) {
	n, err := ParseSeason(" 3 ")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for _, raw := range []string{"", "abc", "0", "-1", "2.5"} {
		_, err := ParseSeason(raw)
		assert.True(t, apperrors.IsValidationError(err), "input %q", raw)
	}
}

func TestLock(t *testing.T) {
	locks, err := Lock(nil, 2, Release{ReleaseDate: "2025-06-01", Message: "Coming this summer"})
	require.NoError(t, err)
	require.Len(t, locks, 1)
	assert.True(t, IsLocked(locks, 2))
	assert.False(t, IsLocked(locks, 1))

	lock, ok := FindLock(locks, 2)
	require.True(t, ok)
	assert.Equal(t, "2025-06-01", *lock.ReleaseDate)
	assert.Equal(t, "Coming this summer", *lock.Message)

	again, err := Lock(locks, 2, Release{Message: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, locks, again)

	_, err = Lock(locks, 0, Release{})
	assert.True(t, apperrors.IsValidationError(err))
}

func TestLockWithoutReleaseInfo(t *testing.T) {
	locks, err := Lock(nil, 1, Release{})
	require.NoError(t, err)
	assert.Nil(t, locks[0].ReleaseDate)
	assert.Nil(t, locks[0].Message)
}

func TestLockUnlockAreInverses(t *testing.T) {
	before := []models.SeasonLock{{Season: 1}}
	for _, start := range [][]models.SeasonLock{nil, {}, before} {
		locked, err := Lock(start, 3, Release{ReleaseDate: "soon", Message: "wait"})
		require.NoError(t, err)
		assert.ElementsMatch(t, start, Unlock(locked, 3))
	}
}

func TestUnlock_RemovesReleaseInfoTogether(t *testing.T) {
	locks := []models.SeasonLock{{Season: 1}, {Season: 2}}
	locks, _ = Lock(locks, 3, Release{Message: "later"})

	out := Unlock(locks, 3)
	_, ok := FindLock(out, 3)
	assert.False(t, ok)
	for _, l := range out {
		assert.Nil(t, l.Message)
	}
	assert.Len(t, Unlock(out, 9), 2)
}

func TestFromEpisode(t *testing.T) {
	dl := "dl"
	d := FromEpisode(models.Episode{ID: "x", Number: 4, Title: "T", WatchCode: "w", DownloadCode: &dl, IsUpcoming: true})
	assert.Equal(t, models.DefaultSeason, d.Season)
	assert.Equal(t, "dl", d.DownloadCode)
	assert.True(t, d.IsComingSoon)
}

func TestNormalize_BlankOptionalsBecomeAbsent(t *testing.T) {
	blank := ""
	spaces := "  "
	in := models.Episode{
		ID:           "ep_keep",
		Title:        " Pilot ",
		WatchCode:    "s1e1",
		DownloadCode: &blank,
		DownloadLink: &spaces,
		Thumbnail:    &blank,
		Quality:      &blank,
	}

	out, err := Normalize(in)
	require.NoError(t, err)
	assert.Equal(t, "ep_keep", out.ID)
	assert.Equal(t, "Pilot", out.Title)
	assert.Equal(t, models.DefaultSeason, out.Season)
	assert.Equal(t, 1, out.Number)
	assert.Equal(t, DefaultDuration, out.Duration)
	assert.Nil(t, out.DownloadCode)
	assert.Nil(t, out.DownloadLink)
	assert.Nil(t, out.Thumbnail)
	assert.Nil(t, out.Quality)
	assert.False(t, out.HasDownload())
}

func TestNormalize_KeepsUpcomingFlagAndValues(t *testing.T) {
	link := "https://files.example.com/e2.mp4"
	out, err := Normalize(models.Episode{ID: "ep_2", Season: 2, Number: 4, Title: "Later", Duration: "50m", DownloadLink: &link, IsUpcoming: true})
	require.NoError(t, err)
	assert.True(t, out.IsUpcoming)
	assert.False(t, out.IsComingSoon)
	assert.Equal(t, PendingWatchCode, out.WatchCode)
	assert.Equal(t, 2, out.Season)
	assert.Equal(t, 4, out.Number)
	assert.Equal(t, "50m", out.Duration)
	require.NotNil(t, out.DownloadLink)
	assert.Equal(t, link, *out.DownloadLink)
}

func TestNormalize_RejectsMissingTitle(t *testing.T) {
	_, err := Normalize(models.Episode{ID: "ep_1", WatchCode: "x"})
	assert.True(t, apperrors.IsValidationError(err))
}

func TestNormalizeLocks(t *testing.T) {
	date := "2025-03-01"
	empty := ""
	locks, err := NormalizeLocks([]models.SeasonLock{
		{Season: 2, ReleaseDate: &date},
		{Season: 2},
		{Season: 3, Message: &empty},
	})
	require.NoError(t, err)
	require.Len(t, locks, 2)
	assert.Equal(t, 2, locks[0].Season)
	assert.Equal(t, date, *locks[0].ReleaseDate)
	assert.Equal(t, 3, locks[1].Season)
	assert.Nil(t, locks[1].Message)

	for _, season := range []int{0, -3} {
		_, err := NormalizeLocks([]models.SeasonLock{{Season: 2}, {Season: season}})
		assert.True(t, apperrors.IsValidationError(err), "season %d", season)
	}

	none, err := NormalizeLocks(nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}
