package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/isdelr/gymdiary/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorize(t *testing.T) {
	anon := SessionState{}
	member := SessionState{UserID: "u1", Email: "m@x.com"}
	trainer := SessionState{UserID: "u2", Email: "t@x.com", Role: models.RoleTrainer}

	tests := []struct {
		name   string
		policy Policy
		state  SessionState
		want   Decision
	}{
		{"public anon", Public, anon, Decision{Allowed: true}},
		{"members anon", MembersOnly, anon, Decision{Reason: DenyLogin}},
		{"members member", MembersOnly, member, Decision{Allowed: true}},
		{"anonymous anon", AnonymousOnly, anon, Decision{Allowed: true}},
		{"anonymous member", AnonymousOnly, member, Decision{Reason: DenyDashboard}},
		{"trainer anon", RoleRequired(models.RoleTrainer), anon, Decision{Reason: DenyLogin}},
		{"trainer member", RoleRequired(models.RoleTrainer), member, Decision{Reason: DenyForbidden}},
		{"trainer trainer", RoleRequired(models.RoleTrainer), trainer, Decision{Allowed: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Authorize(tt.policy, tt.state))
		})
	}
}

func serveGuarded(policy Policy, state SessionState, accept string) *httptest.ResponseRecorder {
	h := Require(policy)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("protected data"))
	}))
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	req = req.WithContext(WithSessionState(req.Context(), state))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRequireMiddleware(t *testing.T) {
	rec := serveGuarded(MembersOnly, SessionState{}, "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.NotContains(t, rec.Body.String(), "protected data")

	rec = serveGuarded(MembersOnly, SessionState{}, "application/json")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Authentication required"}`, rec.Body.String())

	rec = serveGuarded(AnonymousOnly, SessionState{UserID: "u1"}, "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	rec = serveGuarded(RoleRequired(models.RoleTrainer), SessionState{UserID: "u1"}, "application/json")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"Access denied"}`, rec.Body.String())

	rec = serveGuarded(RoleRequired(models.RoleTrainer), SessionState{UserID: "u1"}, "text/html")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NotContains(t, rec.Body.String(), "protected data")

	rec = serveGuarded(MembersOnly, SessionState{UserID: "u1"}, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "protected data", rec.Body.String())
}

func TestLoadSession(t *testing.T) {
	m := NewSessionManager(NewMemorySessionStore(), SessionOptions{Secret: "s"})
	token, err := m.Create(context.Background(), testUser)
	require.NoError(t, err)

	var seen SessionState
	h := LoadSession(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = StateFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "gymdiary_session", Value: token})
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "user-1", seen.UserID)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.False(t, seen.Authenticated())
}
