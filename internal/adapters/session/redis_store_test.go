package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AchilleasB/school-portal/portal-service/internal/adapters/session"
	"github.com/AchilleasB/school-portal/portal-service/internal/core/domain"
	"github.com/AchilleasB/school-portal/portal-service/test/mocks"
)

func testSession(id string) *domain.Session {
	now := time.Now().UTC()
	return &domain.Session{
		ID:        id,
		Username:  "rivera",
		Role:      domain.RoleTeacher,
		Name:      "Ms. Rivera",
		ProfileID: "T1",
		Teacher:   &domain.TeacherProfile{TeacherID: "T1", Name: "Ms. Rivera"},
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
}

func TestRedisStore_CreateGetDelete(t *testing.T) {
	client := mocks.NewMockRedisClient()
	store := session.NewRedisStore(client)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, testSession("abc")))
	assert.True(t, client.HasKey("session:abc"))

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "rivera", got.Username)
	assert.Equal(t, domain.RoleTeacher, got.Role)
	require.NotNil(t, got.Teacher)
	assert.Equal(t, "T1", got.Teacher.TeacherID)

	require.NoError(t, store.Delete(ctx, "abc"))
	_, err = store.Get(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRedisStore_MissingAndExpired(t *testing.T) {
	store := session.NewRedisStore(mocks.NewMockRedisClient())
	ctx := context.Background()

	_, err := store.Get(ctx, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.Get(ctx, "unknown")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	expired := testSession("old")
	expired.ExpiresAt = time.Now().Add(-time.Second)
	assert.Error(t, store.Create(ctx, expired))
}

func TestRedisStore_ClientErrors(t *testing.T) {
	client := mocks.NewMockRedisClient()
	store := session.NewRedisStore(client)
	boom := errors.New("connection refused")

	client.PingError = boom
	assert.ErrorIs(t, store.Ping(context.Background()), boom)

	client.GetError = boom
	_, err := store.Get(context.Background(), "abc")
	assert.ErrorIs(t, err, boom)
}
