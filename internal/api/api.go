package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/glefebvre/cineflix/internal/admin"
	"github.com/glefebvre/cineflix/internal/auth"
	"github.com/glefebvre/cineflix/internal/feed"
	"github.com/glefebvre/cineflix/internal/logger"
	"github.com/glefebvre/cineflix/internal/metrics"
	"github.com/glefebvre/cineflix/internal/store"
	"github.com/glefebvre/cineflix/internal/viewer"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"
)

// Dependencies are the services the API serves
type Dependencies struct {
	DB          *gorm.DB
	Catalog     *store.Catalog
	Admin       *admin.Service
	Auth        *auth.Service
	Hub         *feed.Hub
	BotDomain   string
	Notice      viewer.NoticeDefaults
	CORSOrigins []string
	Logger      *logger.Logger
}

// Server represents the API server
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	deps       Dependencies
	log        *logger.Logger
	upgrader   websocket.Upgrader
}

// NewServer creates a new API server instance
func NewServer(deps Dependencies) *Server {
	if deps.Logger == nil {
		deps.Logger = logger.AppLogger()
	}
	if deps.BotDomain == "" {
		deps.BotDomain = viewer.DefaultBotDomain
	}

	router := gin.New()

	s := &Server{
		router: router,
		deps:   deps,
		log:    deps.Logger.WithField("component", "api"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	router.Use(requestIDMiddleware())
	router.Use(errorHandlerMiddleware(s.log))
	router.Use(requestLoggerMiddleware(s.log))
	router.Use(metricsMiddleware())
	router.Use(corsMiddleware(deps.CORSOrigins))

	s.setupRoutes()

	return s
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", "X-Request-ID", "X-Client-Shell")
	cfg.ExposeHeaders = []string{"X-Request-ID"}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the API server on the specified port and blocks until it stops
func (s *Server) Run(port int) error {
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.WithField("port", port).Info("API server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := s.router.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		authGroup.POST("/login", s.login)
		authGroup.POST("/logout", s.logout)
		authGroup.GET("/session", s.requireSession(), s.currentSession)

		// Viewer endpoints
		v1.GET("/content", s.viewerListContent)
		v1.GET("/content/:id", s.viewerDetail)
		v1.GET("/content/:id/hero", s.viewerHero)
		v1.GET("/content/:id/watch", s.viewerWatch)
		v1.GET("/content/:id/download", s.viewerDownload)
		v1.GET("/content/:id/episodes/:episodeID/watch", s.viewerEpisodeWatch)
		v1.GET("/content/:id/episodes/:episodeID/download", s.viewerEpisodeDownload)
		v1.GET("/top10", s.viewerTop10)
		v1.GET("/banners", s.viewerBanners)
		v1.GET("/stories", s.viewerStories)
		v1.GET("/notice", s.viewerNotice)
		v1.GET("/notice/stream", s.noticeStream)

		// Admin endpoints
		adminGroup := v1.Group("/admin", s.requireSession())
		{
			adminGroup.GET("/content", s.adminListContent)
			adminGroup.POST("/content", s.adminCreateContent)
			adminGroup.GET("/content/:id", s.adminGetContent)
			adminGroup.PUT("/content/:id", s.adminUpdateContent)
			adminGroup.DELETE("/content/:id", s.adminDeleteContent)
			adminGroup.POST("/content/:id/episodes", s.adminAddEpisode)
			adminGroup.PUT("/content/:id/episodes/:episodeID", s.adminUpdateEpisode)
			adminGroup.DELETE("/content/:id/episodes/:episodeID", s.adminDeleteEpisode)
			adminGroup.POST("/content/:id/seasons/:season/lock", s.adminLockSeason)
			adminGroup.DELETE("/content/:id/seasons/:season/lock", s.adminUnlockSeason)
			adminGroup.POST("/content/:id/top10", s.adminAddTop10)
			adminGroup.DELETE("/content/:id/top10", s.adminRemoveTop10)
			adminGroup.PUT("/content/:id/top10/position", s.adminSetTop10Position)
			adminGroup.GET("/top10", s.adminTop10)

			adminGroup.GET("/banners", s.adminListBanners)
			adminGroup.POST("/banners", s.adminCreateBanner)
			adminGroup.DELETE("/banners/:id", s.adminDeleteBanner)
			adminGroup.GET("/stories", s.adminListStories)
			adminGroup.POST("/stories", s.adminCreateStory)
			adminGroup.DELETE("/stories/:id", s.adminDeleteStory)

			adminGroup.GET("/settings", s.adminGetSettings)
			adminGroup.PUT("/settings", s.adminSaveSettings)
			adminGroup.GET("/notification", s.adminNotification)
		}
	}
}
