package feed

import (
	"sync"
	"testing"

	"github.com/glefebvre/cineflix/internal/logger"
	"github.com/glefebvre/cineflix/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublish_FansOut(t *testing.T) {
	h := NewHub(logger.Discard())
	a := h.Subscribe(1)
	b := h.Subscribe(1)

	h.Publish(models.Settings{NoticeText: "hello", Categories: []string{"Anime"}})

	for _, ch := range []<-chan models.Settings{a, b} {
		got := <-ch
		assert.Equal(t, "hello", got.NoticeText)
		assert.Equal(t, []string{"Anime"}, []string(got.Categories))
	}
}

func TestPublish_SnapshotsAreIndependent(t *testing.T) {
	h := NewHub(logger.Discard())
	a := h.Subscribe(1)
	b := h.Subscribe(1)

	h.Publish(models.Settings{Categories: []string{"Series"}})
	first := <-a
	first.Categories[0] = "mutated"
	second := <-b
	assert.Equal(t, "Series", second.Categories[0])
}

func TestPublish_DropsWhenFull(t *testing.T) {
	h := NewHub(logger.Discard())
	ch := h.Subscribe(1)

	h.Publish(models.Settings{NoticeText: "first"})
	h.Publish(models.Settings{NoticeText: "second"})

	assert.Equal(t, "first", (<-ch).NoticeText)
	select {
	case s := <-ch:
		t.Fatalf("unexpected snapshot %q", s.NoticeText)
	default:
	}
}

func TestUnsubscribe(t *testing.T) {
	h := NewHub(logger.Discard())
	ch := h.Subscribe(0)
	require.Equal(t, 1, h.Subscribers())

	h.Unsubscribe(ch)
	assert.Equal(t, 0, h.Subscribers())
	_, open := <-ch
	assert.False(t, open)

	h.Unsubscribe(ch)
}

func TestClose(t *testing.T) {
	h := NewHub(logger.Discard())
	ch := h.Subscribe(1)

	require.NoError(t, h.Close())
	require.NoError(t, h.Close())
	_, open := <-ch
	assert.False(t, open)

	h.Publish(models.Settings{})
	_, open = <-h.Subscribe(1)
	assert.False(t, open)
}

func TestConcurrentPublishAndSubscribe(t *testing.T) {
	h := NewHub(logger.Discard())
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			h.Publish(models.Settings{NoticeEnabled: true})
		}()
		go func() {
			defer wg.Done()
			h.Unsubscribe(h.Subscribe(1))
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, h.Subscribers())
	require.NoError(t, h.Close())
}
