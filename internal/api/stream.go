package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glefebvre/cineflix/internal/metrics"
	"github.com/glefebvre/cineflix/internal/models"
	"github.com/glefebvre/cineflix/internal/viewer"
	"github.com/gorilla/websocket"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPingPeriod = 30 * time.Second

	messageNotice = "notice"
	messagePing   = "ping"
)

// noticeStream upgrades to a websocket and pushes the notice bar: once on
// connect, then after every settings change.
func (s *Server) noticeStream(c *gin.Context) {
	settings, err := s.deps.Catalog.GetSettings(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	override := c.Query("link")

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.WithField("error", err.Error()).WarnContext(c.Request.Context(), "websocket upgrade failed")
		return
	}
	defer conn.Close()

	updates := s.deps.Hub.Subscribe(0)
	defer s.deps.Hub.Unsubscribe(updates)
	metrics.StreamOpened()
	defer metrics.StreamClosed()

	// the reader only notices disconnects; clients never send anything useful
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(st *models.Settings) error {
		notice := viewer.Notice(st, override, s.deps.Notice)
		return s.writeStream(conn, StreamMessage{Type: messageNotice, Notice: &notice, Timestamp: time.Now().Unix()})
	}
	if err := send(settings); err != nil {
		return
	}

	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-gone:
			return
		case st, ok := <-updates:
			if !ok {
				return
			}
			if err := send(&st); err != nil {
				return
			}
		case <-ticker.C:
			if err := s.writeStream(conn, StreamMessage{Type: messagePing, Timestamp: time.Now().Unix()}); err != nil {
				return
			}
		}
	}
}

func (s *Server) writeStream(conn *websocket.Conn, msg StreamMessage) error {
	if err := conn.SetWriteDeadline(time.Now().Add(streamWriteWait)); err != nil {
		return err
	}
	if err := conn.WriteJSON(msg); err != nil {
		s.log.WithField("error", err.Error()).Debug("notice stream write failed")
		return err
	}
	return nil
}
