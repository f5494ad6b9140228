package viewer

import (
	"strings"

	"github.com/glefebvre/cineflix/internal/models"
)

const noticeSeparator = "     •     "

// NoticeDefaults apply until settings provide their own values
type NoticeDefaults struct {
	Text        string
	RequestLink string
}

// NoticeView is the scrolling notice bar
type NoticeView struct {
	Visible     bool   `json:"visible"`
	Text        string `json:"text,omitempty"`
	Marquee     string `json:"marquee,omitempty"`
	RequestLink string `json:"request_link,omitempty"`
}

// Notice builds the notice bar. The request link is the first non-empty of
// override, the notice channel, the main channel and the default.
func Notice(s *models.Settings, override string, d NoticeDefaults) NoticeView {
	if s != nil && !s.NoticeEnabled {
		return NoticeView{Visible: false}
	}

	text := d.Text
	link := d.RequestLink
	if s != nil {
		if t := strings.TrimSpace(s.NoticeText); t != "" {
			text = t
		}
		switch {
		case s.NoticeChannelLink != nil && *s.NoticeChannelLink != "":
			link = *s.NoticeChannelLink
		case s.ChannelLink != "":
			link = s.ChannelLink
		}
	}
	if override != "" {
		link = override
	}

	return NoticeView{
		Visible:     true,
		Text:        text,
		Marquee:     text + noticeSeparator + text + noticeSeparator,
		RequestLink: link,
	}
}
