package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/glefebvre/cineflix/internal/admin"
	"github.com/glefebvre/cineflix/internal/draft"
	"github.com/glefebvre/cineflix/internal/seasons"
)

func (s *Server) adminListContent(c *gin.Context) {
	items, err := s.deps.Admin.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ContentListResponse{Data: items, Total: len(items)})
}

func (s *Server) adminGetContent(c *gin.Context) {
	d, err := s.deps.Admin.Edit(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":     d.EditingID(),
		"fields": d.Fields(),
	})
}

func (s *Server) adminCreateContent(c *gin.Context) {
	var fields draft.Fields
	if err := bindJSON(c, &fields); err != nil {
		s.abortWithError(c, err)
		return
	}
	res, err := s.deps.Admin.Create(c.Request.Context(), fields)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (s *Server) adminUpdateContent(c *gin.Context) {
	var fields draft.Fields
	if err := bindJSON(c, &fields); err != nil {
		s.abortWithError(c, err)
		return
	}
	res, err := s.deps.Admin.Update(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) adminDeleteContent(c *gin.Context) {
	res, err := s.deps.Admin.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) adminAddEpisode(c *gin.Context) {
	var d seasons.EpisodeDraft
	if err := bindJSON(c, &d); err != nil {
		s.abortWithError(c, err)
		return
	}
	res, err := s.deps.Admin.AddEpisode(c.Request.Context(), c.Param("id"), d)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// adminLockSeason accepts an optional release body
func (s *Server) adminLockSeason(c *gin.Context) {
	season, err := seasons.ParseSeason(c.Param("season"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	var release seasons.Release
	if c.Request.ContentLength != 0 {
		if err := bindJSON(c, &release); err != nil {
			s.abortWithError(c, err)
			return
		}
	}
	res, err := s.deps.Admin.LockSeason(c.Request.Context(), c.Param("id"), season, release)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) adminUnlockSeason(c *gin.Context) {
	season, err := seasons.ParseSeason(c.Param("season"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	res, err := s.deps.Admin.UnlockSeason(c.Request.Context(), c.Param("id"), season)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) adminUpdateEpisode(c *gin.Context) {
	var patch seasons.EpisodePatch
	if err := bindJSON(c, &patch); err != nil {
		s.abortWithError(c, err)
		return
	}
	res, err := s.deps.Admin.UpdateEpisode(c.Request.Context(), c.Param("id"), c.Param("episodeID"), patch)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) adminDeleteEpisode(c *gin.Context) {
	res, err := s.deps.Admin.DeleteEpisode(c.Request.Context(), c.Param("id"), c.Param("episodeID"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) adminTop10(c *gin.Context) {
	items, err := s.deps.Admin.Top10(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ContentListResponse{Data: items, Total: len(items)})
}

func (s *Server) adminAddTop10(c *gin.Context) {
	res, err := s.deps.Admin.AddToTop10(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) adminRemoveTop10(c *gin.Context) {
	res, err := s.deps.Admin.RemoveFromTop10(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) adminSetTop10Position(c *gin.Context) {
	var req PositionRequest
	if err := bindJSON(c, &req); err != nil {
		s.abortWithError(c, err)
		return
	}
	res, err := s.deps.Admin.SetTop10Position(c.Request.Context(), c.Param("id"), req.Position)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) adminListBanners(c *gin.Context) {
	banners, err := s.deps.Admin.Banners(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"banners": banners})
}

func (s *Server) adminCreateBanner(c *gin.Context) {
	var req PromoRequest
	if err := bindJSON(c, &req); err != nil {
		s.abortWithError(c, err)
		return
	}
	res, err := s.deps.Admin.AddBanner(c.Request.Context(), req.ContentID)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (s *Server) adminDeleteBanner(c *gin.Context) {
	res, err := s.deps.Admin.DeleteBanner(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) adminListStories(c *gin.Context) {
	stories, err := s.deps.Admin.Stories(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stories": stories})
}

func (s *Server) adminCreateStory(c *gin.Context) {
	var req PromoRequest
	if err := bindJSON(c, &req); err != nil {
		s.abortWithError(c, err)
		return
	}
	res, err := s.deps.Admin.AddStory(c.Request.Context(), req.ContentID)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (s *Server) adminDeleteStory(c *gin.Context) {
	res, err := s.deps.Admin.DeleteStory(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) adminGetSettings(c *gin.Context) {
	settings, err := s.deps.Admin.Settings(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (s *Server) adminSaveSettings(c *gin.Context) {
	var in admin.SettingsInput
	if err := bindJSON(c, &in); err != nil {
		s.abortWithError(c, err)
		return
	}
	settings, msg, err := s.deps.Admin.SaveSettings(c.Request.Context(), in)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings, "notification": msg})
}

func (s *Server) adminNotification(c *gin.Context) {
	msg, ok := s.deps.Admin.Notification()
	if !ok {
		c.JSON(http.StatusOK, NotificationResponse{Active: false})
		return
	}
	c.JSON(http.StatusOK, NotificationResponse{Active: true, Notification: &msg})
}
