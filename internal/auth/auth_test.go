package auth

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/glefebvre/cineflix/internal/errors"
	testutil "github.com/glefebvre/cineflix/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, ttl time.Duration) *Service {
	t.Helper()
	s := NewService(testutil.TestDB(t), ttl)
	_, err := s.CreateUser(context.Background(), "Admin@Example.com", "correct-horse")
	require.NoError(t, err)
	return s
}

func TestCreateUser_Validation(t *testing.T) {
	s := NewService(testutil.TestDB(t), time.Hour)
	ctx := context.Background()

	_, err := s.CreateUser(ctx, "not-an-email", "long-enough")
	assert.True(t, apperrors.IsValidationError(err))

	_, err = s.CreateUser(ctx, "a@b.c", "short")
	assert.True(t, apperrors.IsValidationError(err))

	user, err := s.CreateUser(ctx, "a@b.c", "long-enough")
	require.NoError(t, err)
	assert.NotEqual(t, "long-enough", user.PasswordHash)

	_, err = s.CreateUser(ctx, "A@B.C", "long-enough")
	assert.Equal(t, apperrors.CodeDatabase, apperrors.GetErrorCode(err))
}

func TestSignIn(t *testing.T) {
	s := newService(t, time.Hour)

	session, err := s.SignIn(context.Background(), " admin@example.com ", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "admin@example.com", session.Email)

	got, err := s.Validate(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.UserID, got.UserID)
}

func TestSignIn_FailuresAreIndistinguishable(t *testing.T) {
	s := newService(t, time.Hour)
	ctx := context.Background()

	_, wrongPassword := s.SignIn(ctx, "admin@example.com", "wrong")
	_, unknownUser := s.SignIn(ctx, "nobody@example.com", "correct-horse")

	require.Error(t, wrongPassword)
	require.Error(t, unknownUser)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
	assert.Equal(t, "invalid credentials", apperrors.Message(wrongPassword))
	assert.Equal(t, apperrors.CodeInvalidCredentials, apperrors.GetErrorCode(unknownUser))
}

func TestSignOut(t *testing.T) {
	s := newService(t, time.Hour)
	session, err := s.SignIn(context.Background(), "admin@example.com", "correct-horse")
	require.NoError(t, err)

	s.SignOut(session.Token)
	_, err = s.Validate(session.Token)
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.GetErrorCode(err))

	s.SignOut("unknown")
}

func TestValidate_Expired(t *testing.T) {
	s := newService(t, 30*time.Millisecond)
	session, err := s.SignIn(context.Background(), "admin@example.com", "correct-horse")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		_, err := s.Validate(session.Token)
		return err != nil
	}, time.Second, 10*time.Millisecond)

	_, err = s.Validate("")
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.GetErrorCode(err))
}

func TestSubscribe(t *testing.T) {
	s := newService(t, time.Hour)
	var states []State
	unsubscribe := s.Subscribe(func(st State) { states = append(states, st) })

	session, err := s.SignIn(context.Background(), "admin@example.com", "correct-horse")
	require.NoError(t, err)
	s.SignOut(session.Token)

	require.Len(t, states, 2)
	assert.True(t, states[0].SignedIn)
	assert.False(t, states[1].SignedIn)
	assert.Equal(t, session.Token, states[1].Session.Token)

	unsubscribe()
	_, err = s.SignIn(context.Background(), "admin@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Len(t, states, 2)
}
