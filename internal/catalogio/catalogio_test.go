package catalogio

import (
	"bytes"
	"context"
	"strings"
	"testing"

	apperrors "github.com/glefebvre/cineflix/internal/errors"
	"github.com/glefebvre/cineflix/internal/models"
	"github.com/glefebvre/cineflix/internal/store"
	testutil "github.com/glefebvre/cineflix/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogYAML = `
content:
  - kind: movie
    title: Parasite
    thumbnail: https://img.example.com/parasite.jpg
    rating: 8.6
    year: "2019"
    watch_code: parasite
    download_link: https://dl.example.com/parasite
  - title: Missing thumbnail
    watch_code: nope
  - kind: series
    title: Signal
    thumbnail: https://img.example.com/signal.jpg
    category: Korean Drama
    episodes:
      - season: 1
        number: 2
        title: Second
        watch_code: sig_1_2
      - season: 1
        number: 1
        title: First
        watch_code: sig_1_1
      - season: 2
        number: 1
        title: Next season
        is_coming_soon: true
    season_locks:
      - season: 2
        message: Coming in spring
`

func newStore(t *testing.T) *store.Catalog {
	t.Helper()
	return store.New(testutil.TestDB(t), models.Settings{})
}

func TestImport(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	report, err := Import(ctx, s, strings.NewReader(catalogYAML), "Exclusive")
	require.NoError(t, err)
	assert.Len(t, report.Imported, 2)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, 1, report.Failed[0].Index)
	assert.Equal(t, "Missing thumbnail", report.Failed[0].Title)
	assert.True(t, apperrors.IsValidationError(report.Failed[0].Err))
	assert.Contains(t, report.Failed[0].Error(), "thumbnail is required")

	items, err := s.ListContent(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)

	byTitle := map[string]models.Content{}
	for _, c := range items {
		byTitle[c.Title] = c
	}

	parasite := byTitle["Parasite"]
	assert.Equal(t, 8.6, parasite.Rating)
	assert.Equal(t, "Exclusive", parasite.Category)
	assert.Equal(t, "https://dl.example.com/parasite", *parasite.DownloadLink)

	signal := byTitle["Signal"]
	assert.Equal(t, models.KindSeries, signal.Kind)
	require.Len(t, signal.Episodes, 3)
	assert.Equal(t, "First", signal.Episodes[0].Title)
	assert.Equal(t, "TBA", signal.Episodes[2].WatchCode)
	for _, e := range signal.Episodes {
		assert.NotEmpty(t, e.ID)
	}
	require.Len(t, signal.SeasonLocks, 1)
	assert.Equal(t, "Coming in spring", *signal.SeasonLocks[0].Message)
}

func TestImport_RejectsUnknownFields(t *testing.T) {
	_, err := Import(context.Background(), newStore(t), strings.NewReader("content:\n  - titel: typo\n"), "")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetErrorCode(err))
}

func TestImport_EmptyDocument(t *testing.T) {
	report, err := Import(context.Background(), newStore(t), strings.NewReader(""), "")
	require.NoError(t, err)
	assert.Empty(t, report.Imported)
}

func TestExportThenImport(t *testing.T) {
	source := newStore(t)
	ctx := context.Background()
	_, err := Import(ctx, source, strings.NewReader(catalogYAML), "Exclusive")
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := Export(ctx, source, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Contains(t, buf.String(), "title: Signal")
	assert.NotContains(t, buf.String(), "description:")

	target := newStore(t)
	report, err := Import(ctx, target, &buf, "Exclusive")
	require.NoError(t, err)
	assert.Len(t, report.Imported, 2)
	assert.Empty(t, report.Failed)

	items, err := target.ListContent(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}
