package api

import (
	"github.com/glefebvre/cineflix/internal/models"
	"github.com/glefebvre/cineflix/internal/notify"
	"github.com/glefebvre/cineflix/internal/viewer"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// LoginRequest is the admin sign-in form
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ContentListResponse wraps a content list
type ContentListResponse struct {
	Data  []models.Content `json:"data"`
	Total int              `json:"total"`
}

// PromoRequest creates a banner or story from a content item
type PromoRequest struct {
	ContentID string `json:"content_id" binding:"required"`
}

// PositionRequest moves a ranked item
type PositionRequest struct {
	Position int `json:"position" binding:"required"`
}

// NotificationResponse is the live transient message, if any
type NotificationResponse struct {
	Active       bool            `json:"active"`
	Notification *notify.Message `json:"notification,omitempty"`
}

// OpenResponse tells an in-app client to open a URL itself
type OpenResponse struct {
	Opener string        `json:"opener"`
	Action viewer.Action `json:"action"`
}

// StreamMessage is pushed over the notice-bar websocket
type StreamMessage struct {
	Type      string             `json:"type"`
	Notice    *viewer.NoticeView `json:"notice,omitempty"`
	Timestamp int64              `json:"timestamp"`
}
