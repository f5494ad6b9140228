package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/glefebvre/cineflix/internal/admin"
	apperrors "github.com/glefebvre/cineflix/internal/errors"
	"github.com/glefebvre/cineflix/internal/models"
	"github.com/glefebvre/cineflix/internal/seasons"
	"github.com/glefebvre/cineflix/internal/viewer"
)

const (
	openerInApp    = "in_app"
	openerExternal = "external"
)

func (s *Server) links(c *gin.Context) (viewer.Links, *models.Settings, error) {
	settings, err := s.deps.Catalog.GetSettings(c.Request.Context())
	if err != nil {
		return viewer.Links{}, nil, err
	}
	return viewer.Links{Domain: s.deps.BotDomain, Bot: settings.BotUsername}, settings, nil
}

func (s *Server) viewerListContent(c *gin.Context) {
	items, err := s.deps.Catalog.ListContent(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	if category := c.Query("category"); category != "" {
		filtered := items[:0]
		for _, item := range items {
			if strings.EqualFold(item.Category, category) {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}
	items = admin.Search(items, c.Query("q"))
	c.JSON(http.StatusOK, ContentListResponse{Data: items, Total: len(items)})
}

func (s *Server) viewerDetail(c *gin.Context) {
	var season int
	if raw := c.Query("season"); raw != "" {
		n, err := seasons.ParseSeason(raw)
		if err != nil {
			s.abortWithError(c, err)
			return
		}
		season = n
	}
	item, err := s.deps.Catalog.GetContent(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	links, settings, err := s.links(c)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, links.Detail(item, settings.ChannelLink, season))
}

func (s *Server) viewerHero(c *gin.Context) {
	item, err := s.deps.Catalog.GetContent(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewer.Hero(item))
}

func (s *Server) viewerWatch(c *gin.Context) {
	s.openMovie(c, func(l viewer.Links, codes viewer.Codes) (viewer.Action, error) {
		return l.Watch(codes.WatchCode)
	})
}

func (s *Server) viewerDownload(c *gin.Context) {
	s.openMovie(c, viewer.Links.Download)
}

func (s *Server) viewerEpisodeWatch(c *gin.Context) {
	s.openEpisode(c, func(l viewer.Links, codes viewer.Codes) (viewer.Action, error) {
		return l.Watch(codes.WatchCode)
	})
}

func (s *Server) viewerEpisodeDownload(c *gin.Context) {
	s.openEpisode(c, viewer.Links.Download)
}

type resolveFunc func(viewer.Links, viewer.Codes) (viewer.Action, error)

func (s *Server) openMovie(c *gin.Context, resolve resolveFunc) {
	item, err := s.deps.Catalog.GetContent(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	if item.EffectiveKind() != models.KindMovie {
		s.abortWithError(c, apperrors.ValidationError("series are watched per episode"))
		return
	}
	s.open(c, viewer.MovieCodes(item), resolve)
}

func (s *Server) openEpisode(c *gin.Context, resolve resolveFunc) {
	item, err := s.deps.Catalog.GetContent(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	episode, ok := seasons.Find(item.Episodes, c.Param("episodeID"))
	if !ok {
		s.abortWithError(c, apperrors.NotFoundError("episode", c.Param("episodeID")))
		return
	}
	if episode.Locked() || seasons.IsLocked(item.SeasonLocks, episode.SeasonNumber()) {
		s.abortWithError(c, apperrors.ValidationError("episode is not released yet"))
		return
	}
	s.open(c, viewer.EpisodeCodes(episode), resolve)
}

// open resolves an action and hands it to the client. In-app shells receive
// the action as JSON and open it themselves; browsers are redirected.
func (s *Server) open(c *gin.Context, codes viewer.Codes, resolve resolveFunc) {
	links, _, err := s.links(c)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	action, err := resolve(links, codes)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	d := viewer.Dispatcher{
		External: viewer.OpenerFunc(func(url string) error {
			c.Redirect(http.StatusFound, url)
			return nil
		}),
	}
	if inAppClient(c) {
		d.InApp = respondWith(c, openerInApp, action)
		d.External = respondWith(c, openerExternal, action)
	}
	if err := d.Dispatch(action); err != nil {
		s.abortWithError(c, err)
	}
}

func respondWith(c *gin.Context, opener string, action viewer.Action) viewer.Opener {
	return viewer.OpenerFunc(func(string) error {
		c.JSON(http.StatusOK, OpenResponse{Opener: opener, Action: action})
		return nil
	})
}

func inAppClient(c *gin.Context) bool {
	if c.GetHeader("X-Client-Shell") != "" {
		return true
	}
	switch strings.ToLower(c.Query("in_app")) {
	case "1", "true", "yes":
		return true
	}
	return false
}

func (s *Server) viewerTop10(c *gin.Context) {
	items, err := s.deps.Admin.Top10(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ContentListResponse{Data: items, Total: len(items)})
}

func (s *Server) viewerBanners(c *gin.Context) {
	banners, err := s.deps.Catalog.ListBanners(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	active := make([]models.Banner, 0, len(banners))
	for _, b := range banners {
		if b.IsActive {
			active = append(active, b)
		}
	}
	c.JSON(http.StatusOK, gin.H{"banners": active})
}

func (s *Server) viewerStories(c *gin.Context) {
	stories, err := s.deps.Catalog.ListStories(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stories": stories})
}

func (s *Server) viewerNotice(c *gin.Context) {
	settings, err := s.deps.Catalog.GetSettings(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewer.Notice(settings, c.Query("link"), s.deps.Notice))
}
