// Package auth signs admins in with email and password and tracks their
// sessions in an expiring in-memory cache.
package auth

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"time"

	"github.com/glefebvre/cineflix/internal/errors"
	"github.com/glefebvre/cineflix/internal/logger"
	"github.com/glefebvre/cineflix/internal/metrics"
	"github.com/glefebvre/cineflix/internal/models"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultSessionTTL is used when no TTL is configured
const DefaultSessionTTL = 12 * time.Hour

const minPasswordLength = 8

// Session is a signed-in admin
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// State is what session subscribers are told
type State struct {
	SignedIn bool
	Session  Session
}

// Service authenticates admins
type Service struct {
	db       *gorm.DB
	ttl      time.Duration
	sessions *cache.Cache
	log      *logger.Logger

	mu        sync.RWMutex
	listeners map[int]func(State)
	nextID    int
}

// NewService creates an auth service. Sessions expire after ttl.
func NewService(db *gorm.DB, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Service{
		db:        db,
		ttl:       ttl,
		sessions:  cache.New(ttl, 10*time.Minute),
		log:       logger.AppLogger().WithField("component", "auth"),
		listeners: make(map[int]func(State)),
	}
}

// CreateUser adds an admin account
func (s *Service) CreateUser(ctx context.Context, email, password string) (*models.AdminUser, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.ValidationError("a valid email is required")
	}
	if len(password) < minPasswordLength {
		return nil, errors.ValidationError("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to hash password")
	}

	user := &models.AdminUser{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, errors.DatabaseError("failed to create admin user", err)
	}
	return user, nil
}

// SignIn checks the credentials and opens a session. Every failure returns
// the same invalid-credentials error.
func (s *Service) SignIn(ctx context.Context, email, password string) (Session, error) {
	var user models.AdminUser
	err := s.db.WithContext(ctx).First(&user, "email = ?", normalizeEmail(email)).Error
	if err != nil {
		if !stderrors.Is(err, gorm.ErrRecordNotFound) {
			s.log.ErrorContext(ctx, "sign-in lookup failed", err)
		}
		metrics.RecordSignIn(false)
		return Session{}, errors.InvalidCredentials()
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.RecordSignIn(false)
		return Session{}, errors.InvalidCredentials()
	}

	session := Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	s.sessions.Set(session.Token, session, s.ttl)
	metrics.RecordSignIn(true)
	s.log.WithField("user_id", user.ID).InfoContext(ctx, "admin signed in")
	s.notify(State{SignedIn: true, Session: session})
	return session, nil
}

// SignOut closes a session. Unknown tokens are ignored.
func (s *Service) SignOut(token string) {
	v, ok := s.sessions.Get(token)
	if !ok {
		return
	}
	s.sessions.Delete(token)
	s.notify(State{SignedIn: false, Session: v.(Session)})
}

// Validate returns the live session for a token
func (s *Service) Validate(token string) (Session, error) {
	if token == "" {
		return Session{}, errors.Unauthorized("missing session token")
	}
	v, ok := s.sessions.Get(token)
	if !ok {
		return Session{}, errors.Unauthorized("session expired or unknown")
	}
	return v.(Session), nil
}

// Subscribe registers fn for sign-in and sign-out events. The returned
// function removes the subscription.
func (s *Service) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Service) notify(st State) {
	s.mu.RLock()
	fns := make([]func(State), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(st)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
