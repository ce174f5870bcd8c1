package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/gymdiary/internal/models"
	"github.com/rs/zerolog/log"
)

// DefaultSessionTTL is the fixed lifetime of a session from creation.
const DefaultSessionTTL = 24 * time.Hour

// Session is the server-side record behind a session cookie.
type Session struct {
	ID        string
	UserID    string
	Email     string
	Role      string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// SessionState is what a request sees after resolving its cookie. The zero
// value is the anonymous state.
type SessionState struct {
	SessionID string
	UserID    string
	Email     string
	Role      string
	ExpiresAt time.Time
}

// Authenticated reports whether a user is bound to the session.
func (s SessionState) Authenticated() bool {
	return s.UserID != ""
}

// SessionOptions configures a SessionManager.
type SessionOptions struct {
	Secret     string
	TTL        time.Duration
	CookieName string
	Secure     bool
}

// SessionManager issues, resolves and destroys cookie-bound sessions.
type SessionManager struct {
	store      SessionStore
	signer     tokenSigner
	ttl        time.Duration
	cookieName string
	secure     bool
	now        func() time.Time
}

// NewSessionManager creates a SessionManager backed by store.
func NewSessionManager(store SessionStore, opts SessionOptions) *SessionManager {
	if opts.TTL <= 0 {
		opts.TTL = DefaultSessionTTL
	}
	if opts.CookieName == "" {
		opts.CookieName = "gymdiary_session"
	}
	return &SessionManager{
		store:      store,
		signer:     tokenSigner{key: []byte(opts.Secret)},
		ttl:        opts.TTL,
		cookieName: opts.CookieName,
		secure:     opts.Secure,
		now:        time.Now,
	}
}

// Create binds user to a brand-new session and returns its cookie token.
// Callers must only invoke it after a verified login or a completed signup.
func (m *SessionManager) Create(ctx context.Context, user models.User) (string, error) {
	if user.ID == "" {
		return "", errors.New("cannot create a session without a user ID")
	}

	now := m.now()
	session := Session{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	token, err := m.signer.sign(session.ID, session.CreatedAt, session.ExpiresAt)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	if err := m.store.Save(ctx, session); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}
	return token, nil
}

// Resolve maps a cookie token to its session state. Missing, forged,
// expired and destroyed sessions all resolve to the anonymous state; an
// error is returned only when the store itself fails.
func (m *SessionManager) Resolve(ctx context.Context, token string) (SessionState, error) {
	if token == "" {
		return SessionState{}, nil
	}

	now := m.now()
	id, err := m.signer.parse(token, true, now)
	if err != nil {
		log.Debug().Err(err).Msg("Rejected session token")
		return SessionState{}, nil
	}

	session, err := m.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return SessionState{}, nil
		}
		return SessionState{}, fmt.Errorf("failed to load session: %w", err)
	}
	if !session.ExpiresAt.After(now) {
		if err := m.store.Delete(ctx, id); err != nil {
			log.Warn().Err(err).Str("session_id", id).Msg("Failed to delete expired session")
		}
		return SessionState{}, nil
	}

	return SessionState{
		SessionID: session.ID,
		UserID:    session.UserID,
		Email:     session.Email,
		Role:      session.Role,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// Destroy removes the session behind token. Tokens that carry no valid
// signature have nothing to destroy and return nil.
func (m *SessionManager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	id, err := m.signer.parse(token, false, m.now())
	if err != nil {
		return nil
	}
	if err := m.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Sweep deletes expired sessions and returns how many were removed.
func (m *SessionManager) Sweep(ctx context.Context) (int, error) {
	return m.store.DeleteExpired(ctx, m.now())
}

// TTL returns the fixed session lifetime.
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// TokenFromRequest returns the session token from the request cookie, or "".
func (m *SessionManager) TokenFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// SetCookie writes the session cookie with a fixed max-age equal to the TTL.
func (m *SessionManager) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		Expires:  m.now().Add(m.ttl),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie on the client.
func (m *SessionManager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
