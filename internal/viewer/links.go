// Package viewer builds the read-only view-models shown to viewers: the hero
// banner, the detail sheet and the notice bar, plus the bot deep links behind
// their watch and download actions.
package viewer

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/glefebvre/cineflix/internal/errors"
	"github.com/glefebvre/cineflix/internal/models"
)

// DefaultBotDomain hosts the messaging bot
const DefaultBotDomain = "t.me"

// Target says how an action URL must be opened
type Target string

const (
	// TargetBot is a bot deep link, opened in-app when possible
	TargetBot Target = "bot"
	// TargetExternal is a plain external URL
	TargetExternal Target = "external"
)

// Action is a resolved watch or download action
type Action struct {
	URL    string `json:"url"`
	Target Target `json:"target"`
	Code   string `json:"code,omitempty"`
}

// Links composes deep links for one bot
type Links struct {
	Domain string
	Bot    string
}

// BotLink composes https://<domain>/<bot>?start=<code>
func BotLink(domain, bot, code string) string {
	if domain == "" {
		domain = DefaultBotDomain
	}
	return fmt.Sprintf("https://%s/%s?start=%s", domain, strings.TrimPrefix(bot, "@"), url.QueryEscape(code))
}

// Codes are the playback references carried by a movie or an episode
type Codes struct {
	WatchCode    string
	DownloadCode string
	DownloadLink string
}

// MovieCodes extracts the codes of a movie
func MovieCodes(c *models.Content) Codes {
	return Codes{WatchCode: deref(c.WatchCode), DownloadCode: deref(c.DownloadCode), DownloadLink: deref(c.DownloadLink)}
}

// EpisodeCodes extracts the codes of an episode
func EpisodeCodes(e models.Episode) Codes {
	return Codes{WatchCode: e.WatchCode, DownloadCode: deref(e.DownloadCode), DownloadLink: deref(e.DownloadLink)}
}

// Watch resolves the watch action for a watch code
func (l Links) Watch(code string) (Action, error) {
	if code == "" {
		return Action{}, errors.New(errors.CodeInvalidInput, "no watch code is configured")
	}
	if l.Bot == "" {
		return Action{}, errors.ConfigError("bot username is not configured", nil)
	}
	return Action{URL: BotLink(l.Domain, l.Bot, code), Target: TargetBot, Code: code}, nil
}

// Download resolves the download action: external link, else download code,
// else the watch code.
func (l Links) Download(c Codes) (Action, error) {
	if c.DownloadLink != "" {
		return Action{URL: c.DownloadLink, Target: TargetExternal}, nil
	}
	if c.DownloadCode != "" {
		return l.Watch(c.DownloadCode)
	}
	return l.Watch(c.WatchCode)
}

// Opener opens a URL for the viewer
type Opener interface {
	Open(url string) error
}

// OpenerFunc adapts a function to Opener
type OpenerFunc func(url string) error

// Open calls f(url)
func (f OpenerFunc) Open(url string) error {
	return f(url)
}

// Dispatcher routes actions to the in-app opener of the bot's host shell
// when one is available, and to the external opener otherwise.
type Dispatcher struct {
	InApp    Opener
	External Opener
}

// Dispatch opens a resolved action
func (d Dispatcher) Dispatch(a Action) error {
	if a.Target == TargetBot && d.InApp != nil {
		return d.InApp.Open(a.URL)
	}
	if d.External == nil {
		return errors.New(errors.CodeInternal, "no external opener is available")
	}
	return d.External.Open(a.URL)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
