package auth

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "12",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return s
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)

	got, ok := TokenExpiry(signedToken(t, exp))
	require.True(t, ok)
	assert.True(t, exp.Equal(got))

	_, ok = TokenExpiry("17|Zx0pLaravelOpaqueToken")
	assert.False(t, ok)
}

func TestSessionExpiryUsesEarliest(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	soon := now.Add(30 * time.Minute)

	assert.Equal(t, now.Add(2*time.Hour), sessionExpiry("opaque", 2*time.Hour, now))
	assert.True(t, soon.Equal(sessionExpiry(signedToken(t, soon), 2*time.Hour, now)))
}

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemoryStore(time.Hour)
	s.now = func() time.Time { return now }

	sess, err := s.Create(ctx, "tok", &model.User{ID: 3, Name: "Amine"})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)

	got, err := s.Get(ctx, sess.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Amine", got.User.Name)

	got.User = &model.User{ID: 3, Name: "Amine B."}
	require.NoError(t, s.Save(ctx, got))
	got, _ = s.Get(ctx, sess.ID)
	assert.Equal(t, "Amine B.", got.User.Name)

	now = now.Add(61 * time.Minute)
	got, err = s.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, s.Save(ctx, sess), ErrSessionExpired)

	fresh, _ := s.Create(ctx, "tok2", nil)
	require.NoError(t, s.Delete(ctx, fresh.ID))
	got, _ = s.Get(ctx, fresh.ID)
	assert.Nil(t, got)
}

func (s *MemoryStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func TestMemoryStoreSweep(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemoryStore(time.Hour)
	s.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		_, err := s.Create(ctx, "abandoned", nil)
		require.NoError(t, err)
	}
	now = now.Add(30 * time.Minute)
	kept, err := s.Create(ctx, "active", nil)
	require.NoError(t, err)

	assert.Zero(t, s.Sweep())
	now = now.Add(31 * time.Minute)
	assert.Equal(t, 3, s.Sweep())
	assert.Equal(t, 1, s.count())

	got, err := s.Get(ctx, kept.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestMemoryStoreStartSweepsUntilCancelled(t *testing.T) {
	var mu sync.Mutex
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemoryStore(time.Minute)
	s.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	_, err := s.Create(context.Background(), "tok", nil)
	require.NoError(t, err)

	mu.Lock()
	now = now.Add(2 * time.Minute)
	mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return s.count() == 0 }, time.Second, 5*time.Millisecond)
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	rdb := redis.NewClient(opts)
	defer rdb.Close()

	ctx := context.Background()
	s := NewRedisStore(rdb, time.Minute)

	sess, err := s.Create(ctx, "tok", &model.User{ID: 9, Role: model.RoleAdmin})
	require.NoError(t, err)
	defer s.Delete(ctx, sess.ID)

	got, err := s.Get(ctx, sess.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.User.IsAdmin())

	ttl, err := rdb.TTL(ctx, sessionKeyPrefix+sess.ID).Result()
	require.NoError(t, err)
	assert.LessOrEqual(t, ttl, time.Minute)

	require.NoError(t, s.Delete(ctx, sess.ID))
	got, err = s.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
