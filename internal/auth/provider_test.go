package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]string)}
}

func (m *memStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memStore) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]string)
	return nil
}

func newTestProvider(store *memStore, ttl time.Duration) *Provider {
	return NewProvider(store, "test-secret", ttl)
}

func TestRegisterAndLogin(t *testing.T) {
	store := newMemStore()
	p := newTestProvider(store, time.Hour)
	ctx := context.Background()

	user, err := p.Register(ctx, "Anna@Example.com", "s3cret-pass", "Anna")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "anna@example.com", user.Email)
	assert.Equal(t, "Anna", user.DisplayName)

	// Duplicate registration is refused.
	_, err = p.Register(ctx, "anna@example.com", "other-pass-1", "Anna")
	assert.ErrorIs(t, err, ErrEmailTaken)

	// Login with the right password succeeds and keeps the identity.
	got, err := p.Login(ctx, "anna@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = p.Login(ctx, "anna@example.com", "wrong-pass!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = p.Login(ctx, "nobody@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	p := newTestProvider(newMemStore(), time.Hour)
	ctx := context.Background()

	_, err := p.Register(ctx, "not-an-email", "longenough", "x")
	assert.ErrorIs(t, err, ErrInvalidEmail)
	_, err = p.Register(ctx, "a@b.c", "short", "x")
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestCheckAuthStateRestoresSession(t *testing.T) {
	store := newMemStore()
	p := newTestProvider(store, time.Hour)
	ctx := context.Background()

	user, err := p.Register(ctx, "a@b.c", "s3cret-pass", "A")
	require.NoError(t, err)

	restored := p.CheckAuthState(ctx)
	require.NotNil(t, restored)
	assert.Equal(t, user.ID, restored.ID)
	assert.Equal(t, user.Email, restored.Email)
}

func TestCheckAuthStateNoToken(t *testing.T) {
	p := newTestProvider(newMemStore(), time.Hour)
	assert.Nil(t, p.CheckAuthState(context.Background()))
}

func TestCheckAuthStateExpiredTokenIsCleared(t *testing.T) {
	store := newMemStore()
	p := newTestProvider(store, -time.Minute) // already expired on issue
	ctx := context.Background()

	_, err := p.Register(ctx, "a@b.c", "s3cret-pass", "A")
	require.NoError(t, err)

	assert.Nil(t, p.CheckAuthState(ctx))
	_, ok, _ := store.Get(ctx, tokenKey)
	assert.False(t, ok, "expired token must be removed")
}

func TestCheckAuthStateGarbageToken(t *testing.T) {
	store := newMemStore()
	p := newTestProvider(store, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, tokenKey, "not-a-jwt"))
	assert.Nil(t, p.CheckAuthState(ctx))
}

func TestLogoutDropsToken(t *testing.T) {
	store := newMemStore()
	p := newTestProvider(store, time.Hour)
	ctx := context.Background()

	_, err := p.Register(ctx, "a@b.c", "s3cret-pass", "A")
	require.NoError(t, err)

	p.Logout(ctx)
	assert.Nil(t, p.CheckAuthState(ctx))
}
