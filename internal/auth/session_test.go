package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/isdelr/gymdiary/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestManager(t *testing.T) (*SessionManager, *MemorySessionStore, *fakeClock) {
	t.Helper()
	store := NewMemorySessionStore()
	m := NewSessionManager(store, SessionOptions{Secret: "test-secret", TTL: DefaultSessionTTL})
	clock := &fakeClock{now: time.Now().Truncate(time.Second)}
	m.now = clock.Now
	return m, store, clock
}

var testUser = models.User{ID: "user-1", Email: "a@b.com"}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	m, store, _ := newTestManager(t)

	state, err := m.Resolve(ctx, "")
	require.NoError(t, err)
	assert.False(t, state.Authenticated())

	token, err := m.Create(ctx, testUser)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, 1, store.Len())

	state, err = m.Resolve(ctx, token)
	require.NoError(t, err)
	assert.True(t, state.Authenticated())
	assert.Equal(t, "user-1", state.UserID)
	assert.Equal(t, "a@b.com", state.Email)

	require.NoError(t, m.Destroy(ctx, token))
	assert.Equal(t, 0, store.Len())

	state, err = m.Resolve(ctx, token)
	require.NoError(t, err)
	assert.False(t, state.Authenticated(), "destroyed session must never resolve again")
}

func TestSessionExpiresAfterFixedTTL(t *testing.T) {
	ctx := context.Background()
	m, store, clock := newTestManager(t)

	token, err := m.Create(ctx, testUser)
	require.NoError(t, err)

	// Activity does not extend the lifetime.
	clock.Advance(23 * time.Hour)
	state, err := m.Resolve(ctx, token)
	require.NoError(t, err)
	assert.True(t, state.Authenticated())

	clock.Advance(time.Hour + time.Second)
	state, err = m.Resolve(ctx, token)
	require.NoError(t, err)
	assert.False(t, state.Authenticated())

	removed, err := m.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, store.Len())
}

func TestSessionRejectsForgedTokens(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestManager(t)

	token, err := m.Create(ctx, testUser)
	require.NoError(t, err)

	other := NewSessionManager(NewMemorySessionStore(), SessionOptions{Secret: "other-secret"})
	state, err := other.Resolve(ctx, token)
	require.NoError(t, err)
	assert.False(t, state.Authenticated())

	state, err = m.Resolve(ctx, "not-a-token")
	require.NoError(t, err)
	assert.False(t, state.Authenticated())

	assert.NoError(t, m.Destroy(ctx, "not-a-token"))
}

func TestMultipleSessionsPerUser(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestManager(t)

	first, err := m.Create(ctx, testUser)
	require.NoError(t, err)
	second, err := m.Create(ctx, testUser)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	require.NoError(t, m.Destroy(ctx, first))

	state, err := m.Resolve(ctx, second)
	require.NoError(t, err)
	assert.True(t, state.Authenticated())
}

func TestSessionSweep(t *testing.T) {
	ctx := context.Background()
	m, store, clock := newTestManager(t)

	_, err := m.Create(ctx, testUser)
	require.NoError(t, err)
	clock.Advance(12 * time.Hour)
	_, err = m.Create(ctx, testUser)
	require.NoError(t, err)

	clock.Advance(13 * time.Hour)
	removed, err := m.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, store.Len())
}

func TestConcurrentResolve(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestManager(t)

	token, err := m.Create(ctx, testUser)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			state, err := m.Resolve(ctx, token)
			assert.NoError(t, err)
			assert.Equal(t, "user-1", state.UserID)
			assert.Equal(t, "a@b.com", state.Email)
		}()
	}
	wg.Wait()
}

type failingStore struct {
	*MemorySessionStore
}

func (f failingStore) Get(ctx context.Context, id string) (Session, error) {
	return Session{}, errors.New("store unavailable")
}

func (f failingStore) Delete(ctx context.Context, id string) error {
	return errors.New("store unavailable")
}

func TestSessionStoreFailures(t *testing.T) {
	ctx := context.Background()
	m := NewSessionManager(failingStore{NewMemorySessionStore()}, SessionOptions{Secret: "s"})

	token, err := m.Create(ctx, testUser)
	require.NoError(t, err)

	state, err := m.Resolve(ctx, token)
	assert.Error(t, err)
	assert.False(t, state.Authenticated())

	assert.Error(t, m.Destroy(ctx, token))
}

func TestSessionCookies(t *testing.T) {
	store := NewMemorySessionStore()
	m := NewSessionManager(store, SessionOptions{Secret: "s", CookieName: "sid", Secure: true})

	rec := httptest.NewRecorder()
	m.SetCookie(rec, "tok")
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, "sid", c.Name)
	assert.Equal(t, "tok", c.Value)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, int(DefaultSessionTTL.Seconds()), c.MaxAge)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	assert.Equal(t, "tok", m.TokenFromRequest(req))

	rec = httptest.NewRecorder()
	m.ClearCookie(rec)
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, "", cleared[0].Value)
	assert.True(t, cleared[0].MaxAge < 0)
}
