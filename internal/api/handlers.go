package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/glefebvre/cineflix/internal/database"
	apperrors "github.com/glefebvre/cineflix/internal/errors"
)

func (s *Server) healthCheck(c *gin.Context) {
	if s.deps.DB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "database not initialized",
		})
		return
	}
	if err := database.Ping(s.deps.DB); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}

func (s *Server) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// malformed sign-in forms get the same answer as wrong credentials
		s.abortWithError(c, apperrors.InvalidCredentials())
		return
	}

	session, err := s.deps.Auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (s *Server) logout(c *gin.Context) {
	s.deps.Auth.SignOut(bearerToken(c))
	c.Status(http.StatusNoContent)
}

func (s *Server) currentSession(c *gin.Context) {
	session, _ := sessionFrom(c)
	c.JSON(http.StatusOK, session)
}

func bindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apperrors.Wrap(err, apperrors.CodeInvalidInput, "invalid request body: "+err.Error())
	}
	return nil
}
