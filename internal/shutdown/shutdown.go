// Package shutdown stops the service in order when it receives SIGINT or
// SIGTERM: the HTTP server first, then live streams, then the database.
package shutdown

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/glefebvre/cineflix/internal/logger"
)

// Hook releases one resource
type Hook func(context.Context) error

type namedHook struct {
	name string
	fn   Hook
}

// Handler manages graceful shutdown of the application
type Handler struct {
	mu             sync.Mutex
	hooks          []namedHook
	timeout        time.Duration
	log            *logger.Logger
	signalChan     chan os.Signal
	shutdownChan   chan struct{}
	isShuttingDown bool
}

// New creates a new shutdown handler. Every hook shares one timeout.
func New(timeout time.Duration) *Handler {
	return &Handler{
		timeout:      timeout,
		log:          logger.AppLogger().WithField("component", "shutdown"),
		signalChan:   make(chan os.Signal, 1),
		shutdownChan: make(chan struct{}),
	}
}

// Register adds a hook. Hooks run one after the other in reverse order of
// registration, so register what must outlive the others first.
func (h *Handler) Register(name string, fn Hook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, namedHook{name: name, fn: fn})
}

// Wait blocks until a shutdown signal is received, then shuts down
func (h *Handler) Wait() error {
	signal.Notify(h.signalChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(h.signalChan)

	sig := <-h.signalChan
	h.log.WithField("signal", sig.String()).Info("shutdown signal received")
	return h.Shutdown()
}

// Shutdown runs every hook and returns their joined errors. A hook still
// running when the timeout expires makes Shutdown return the context error.
func (h *Handler) Shutdown() error {
	h.mu.Lock()
	if h.isShuttingDown {
		h.mu.Unlock()
		return nil
	}
	h.isShuttingDown = true
	hooks := append([]namedHook(nil), h.hooks...)
	h.mu.Unlock()

	close(h.shutdownChan)

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		var errs []error
		for i := len(hooks) - 1; i >= 0; i-- {
			hook := hooks[i]
			h.log.WithField("hook", hook.name).Debug("running shutdown hook")
			if err := hook.fn(ctx); err != nil {
				h.log.Error("shutdown hook failed: "+hook.name, err)
				errs = append(errs, fmt.Errorf("%s: %w", hook.name, err))
			}
		}
		done <- errors.Join(errs...)
	}()

	select {
	case err := <-done:
		if err == nil {
			h.log.Info("shutdown complete")
		}
		return err
	case <-ctx.Done():
		h.log.Warn("shutdown timed out")
		return ctx.Err()
	}
}

// IsShuttingDown returns true if shutdown has been initiated
func (h *Handler) IsShuttingDown() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.isShuttingDown
}

// ShutdownChan returns a channel that is closed when shutdown is initiated
func (h *Handler) ShutdownChan() <-chan struct{} {
	return h.shutdownChan
}

// TriggerShutdown makes Wait return as if SIGTERM had been received
func (h *Handler) TriggerShutdown() {
	select {
	case h.signalChan <- syscall.SIGTERM:
	default:
	}
}
