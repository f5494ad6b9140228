package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glefebvre/cineflix/internal/auth"
	apperrors "github.com/glefebvre/cineflix/internal/errors"
	"github.com/glefebvre/cineflix/internal/logger"
	"github.com/glefebvre/cineflix/internal/metrics"
	"github.com/google/uuid"
)

const sessionKey = "session"

// requestIDMiddleware adds a unique request ID to each request
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}

// errorHandlerMiddleware handles panics
func errorHandlerMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.ErrorContext(c.Request.Context(), "panic while handling request", fmt.Errorf("%v", rec))
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Error:   string(apperrors.CodeInternal),
					Message: "an unexpected error occurred",
				})
			}
		}()
		c.Next()
	}
}

// requestLoggerMiddleware logs one line per finished request
func requestLoggerMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(map[string]interface{}{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"client_ip":   c.ClientIP(),
		})
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.WarnContext(c.Request.Context(), "request failed")
		default:
			entry.DebugContext(c.Request.Context(), "request handled")
		}
	}
}

// metricsMiddleware records request counts and latency per route
func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		metrics.ObserveRequest(c.FullPath(), c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}

// requireSession rejects requests without a live admin session
func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := s.deps.Auth.Validate(bearerToken(c))
		if err != nil {
			s.abortWithError(c, err)
			return
		}
		c.Set(sessionKey, session)
		c.Request = c.Request.WithContext(logger.ContextWithUserID(c.Request.Context(), session.UserID))
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func sessionFrom(c *gin.Context) (auth.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return auth.Session{}, false
	}
	session, ok := v.(auth.Session)
	return session, ok
}

// abortWithError writes err as an ErrorResponse with its mapped status
func (s *Server) abortWithError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.ErrorContext(c.Request.Context(), "request error", err)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:   string(apperrors.GetErrorCode(err)),
		Message: apperrors.Message(err),
	})
}
