package main

import (
	"context"
	"time"

	"github.com/glefebvre/cineflix/internal/admin"
	"github.com/glefebvre/cineflix/internal/api"
	"github.com/glefebvre/cineflix/internal/auth"
	"github.com/glefebvre/cineflix/internal/config"
	"github.com/glefebvre/cineflix/internal/database"
	"github.com/glefebvre/cineflix/internal/feed"
	"github.com/glefebvre/cineflix/internal/logger"
	"github.com/glefebvre/cineflix/internal/models"
	"github.com/glefebvre/cineflix/internal/notify"
	"github.com/glefebvre/cineflix/internal/shutdown"
	"github.com/glefebvre/cineflix/internal/store"
	"github.com/glefebvre/cineflix/internal/viewer"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the viewer and admin HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if port, _ := cmd.Flags().GetInt("port"); port > 0 {
			cfg.API.Port = port
		}
		log := logger.AppLogger()

		if err := database.Initialize(); err != nil {
			log.Error("failed to initialize database", err)
			return err
		}
		db := database.Get()

		catalog := store.New(db, catalogDefaults(cfg))
		notifier := notify.New(time.Duration(cfg.Catalog.NotificationSeconds) * time.Second)
		hub := feed.NewHub(log)
		adminSvc := admin.NewService(catalog, notifier, hub, cfg.Catalog.DefaultCategories)
		authSvc := auth.NewService(db, time.Duration(cfg.Auth.SessionTTLMinutes)*time.Minute)

		server := api.NewServer(api.Dependencies{
			DB:        db,
			Catalog:   catalog,
			Admin:     adminSvc,
			Auth:      authSvc,
			Hub:       hub,
			BotDomain: cfg.Bot.Domain,
			Notice: viewer.NoticeDefaults{
				Text:        cfg.Catalog.DefaultNoticeText,
				RequestLink: cfg.Catalog.DefaultRequestLink,
			},
			CORSOrigins: cfg.API.CORSOrigins,
			Logger:      log,
		})

		handler := shutdown.New(30 * time.Second)
		handler.Register("database", func(ctx context.Context) error {
			return database.Close()
		})
		handler.Register("notice feed", func(ctx context.Context) error {
			return hub.Close()
		})
		handler.Register("http server", server.Shutdown)

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Run(cfg.API.Port)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				log.Error("API server stopped", err)
			}
			if shutdownErr := handler.Shutdown(); shutdownErr != nil && err == nil {
				err = shutdownErr
			}
			return err
		case <-waitForSignal(handler):
			return <-errCh
		}
	},
}

// waitForSignal shuts down on SIGINT or SIGTERM and reports completion
func waitForSignal(h *shutdown.Handler) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := h.Wait(); err != nil {
			logger.AppLogger().Error("graceful shutdown failed", err)
		}
	}()
	return done
}

func catalogDefaults(cfg *config.Config) models.Settings {
	return models.Settings{
		NoticeText:    cfg.Catalog.DefaultNoticeText,
		NoticeEnabled: true,
		Categories:    cfg.Catalog.DefaultCategories,
	}
}

func init() {
	serveCmd.Flags().Int("port", 0, "override api.port")
	rootCmd.AddCommand(serveCmd)
}
