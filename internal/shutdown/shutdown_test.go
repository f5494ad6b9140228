package shutdown

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glefebvre/cineflix/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler(t *testing.T, timeout time.Duration) *Handler {
	t.Helper()
	logger.SetAppLogger(logger.Discard())
	t.Cleanup(func() { logger.SetAppLogger(nil) })
	return New(timeout)
}

func TestShutdown_RunsHooksInReverseOrder(t *testing.T) {
	h := newHandler(t, 5*time.Second)

	var order []string
	for _, name := range []string{"database", "feed", "http"} {
		name := name
		h.Register(name, func(ctx context.Context) error {
			order = append(order, name)
			return nil
		})
	}

	require.NoError(t, h.Shutdown())
	assert.Equal(t, []string{"http", "feed", "database"}, order)
	assert.True(t, h.IsShuttingDown())
}

func TestShutdown_JoinsErrorsAndKeepsGoing(t *testing.T) {
	h := newHandler(t, 5*time.Second)

	dbErr := errors.New("close failed")
	httpErr := errors.New("listener busy")
	ran := 0
	h.Register("database", func(ctx context.Context) error { ran++; return dbErr })
	h.Register("http", func(ctx context.Context) error { ran++; return httpErr })

	err := h.Shutdown()
	require.Error(t, err)
	assert.ErrorIs(t, err, dbErr)
	assert.ErrorIs(t, err, httpErr)
	assert.Contains(t, err.Error(), "database: close failed")
	assert.Equal(t, 2, ran)
}

func TestShutdown_Timeout(t *testing.T) {
	h := newHandler(t, 50*time.Millisecond)

	h.Register("slow", func(ctx context.Context) error {
		time.Sleep(300 * time.Millisecond)
		return nil
	})

	assert.ErrorIs(t, h.Shutdown(), context.DeadlineExceeded)
}

func TestShutdown_Idempotent(t *testing.T) {
	h := newHandler(t, 5*time.Second)

	calls := 0
	h.Register("once", func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, h.Shutdown())
	require.NoError(t, h.Shutdown())
	assert.Equal(t, 1, calls)
}

func TestShutdownChan(t *testing.T) {
	h := newHandler(t, 5*time.Second)

	select {
	case <-h.ShutdownChan():
		t.Fatal("expected shutdown channel to be open")
	default:
	}

	require.NoError(t, h.Shutdown())

	select {
	case <-h.ShutdownChan():
	case <-time.After(100 * time.Millisecond):
		t.Fatal("expected shutdown channel to be closed")
	}
}

func TestTriggerShutdown(t *testing.T) {
	h := newHandler(t, 5*time.Second)

	done := make(chan error, 1)
	go func() {
		done <- h.Wait()
	}()

	// Wait may not have called signal.Notify yet; the buffered channel holds the signal either way
	h.TriggerShutdown()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("expected Wait to return after TriggerShutdown")
	}
}
