package store

import (
	"context"
	"testing"
	"time"

	"github.com/isdelr/account-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func newTestUser(email string) *models.User {
	return &models.User{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        email,
		PasswordHash: "$2a$10$hash",
		Age:          intPtr(36),
		Avatar:       models.DefaultAvatar,
		Gender:       models.DefaultGender,
	}
}

// runUserStoreContract exercises behaviour every UserStore must share.
func runUserStoreContract(t *testing.T, s UserStore) {
	ctx := context.Background()

	t.Run("create and find", func(t *testing.T) {
		u := newTestUser("ada@example.com")
		require.NoError(t, s.Create(ctx, u))
		require.NotEmpty(t, u.ID)

		byEmail, err := s.FindByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, *u, byEmail)

		byID, err := s.FindByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, *u, byID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		require.NoError(t, s.Create(ctx, newTestUser("dup@example.com")))
		err := s.Create(ctx, newTestUser("dup@example.com"))
		require.ErrorIs(t, err, ErrDuplicateEmail)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := s.FindByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, ErrNotFound)

		_, err = s.FindByID(ctx, "000000000000000000000000")
		require.ErrorIs(t, err, ErrNotFound)

		require.ErrorIs(t, s.UpdatePassword(ctx, "000000000000000000000000", "h"), ErrNotFound)
		require.ErrorIs(t, s.UpdateProfile(ctx, "000000000000000000000000", models.Profile{}), ErrNotFound)
	})

	t.Run("update password", func(t *testing.T) {
		u := newTestUser("pw@example.com")
		require.NoError(t, s.Create(ctx, u))

		require.NoError(t, s.UpdatePassword(ctx, u.ID, "$2a$10$other"))
		got, err := s.FindByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "$2a$10$other", got.PasswordHash)
	})

	t.Run("update profile overwrites with empty values", func(t *testing.T) {
		u := newTestUser("profile@example.com")
		require.NoError(t, s.Create(ctx, u))

		require.NoError(t, s.UpdateProfile(ctx, u.ID, models.Profile{FirstName: "Grace", LastName: "Hopper"}))
		got, err := s.FindByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "Grace", got.FirstName)
		assert.Equal(t, "Hopper", got.LastName)
		assert.Empty(t, got.Avatar)
		assert.Empty(t, got.Gender)
		assert.Nil(t, got.Age)
		assert.Equal(t, u.PasswordHash, got.PasswordHash)
	})
}

func runEventStoreContract(t *testing.T, s EventStore) {
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	for i, typ := range []string{models.EventSignUp, models.EventLogin, models.EventPasswordChange} {
		e := &models.Event{Type: typ, UserID: "u1", Message: typ, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, s.CreateEvent(ctx, e))
		assert.NotEmpty(t, e.ID)
	}
	require.NoError(t, s.CreateEvent(ctx, &models.Event{Type: models.EventLogin, UserID: "u2", Message: "other"}))

	events, err := s.RecentEvents(ctx, "u1", 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, models.EventPasswordChange, events[0].Type)
	assert.Equal(t, models.EventLogin, events[1].Type)
	assert.True(t, events[0].CreatedAt.Equal(base.Add(2*time.Minute)))

	none, err := s.RecentEvents(ctx, "nobody", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}
