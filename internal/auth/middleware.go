package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

type contextKey string

// SessionStateKey is the context key for the resolved SessionState.
const SessionStateKey = contextKey("sessionState")

// WithSessionState stores state in ctx.
func WithSessionState(ctx context.Context, state SessionState) context.Context {
	return context.WithValue(ctx, SessionStateKey, state)
}

// StateFromContext returns the SessionState attached by LoadSession, or the
// anonymous state.
func StateFromContext(ctx context.Context) SessionState {
	state, _ := ctx.Value(SessionStateKey).(SessionState)
	return state
}

// LoadSession resolves the session cookie on every request and passes the
// result down via context. Store failures are logged and the request
// continues as anonymous.
func LoadSession(m *SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state, err := m.Resolve(r.Context(), m.TokenFromRequest(r))
			if err != nil {
				log.Error().Err(err).Msg("Failed to resolve session")
			}
			next.ServeHTTP(w, r.WithContext(WithSessionState(r.Context(), state)))
		})
	}
}

// Require gates a route group behind policy.
func Require(policy Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state := StateFromContext(r.Context())
			decision := Authorize(policy, state)
			if decision.Allowed {
				next.ServeHTTP(w, r)
				return
			}

			switch decision.Reason {
			case DenyLogin:
				if wantsJSON(r) {
					writeJSONError(w, http.StatusUnauthorized, "Authentication required")
					return
				}
				http.Redirect(w, r, "/login", http.StatusSeeOther)
			case DenyDashboard:
				http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			case DenyForbidden:
				log.Warn().Str("user_id", state.UserID).Str("path", r.URL.Path).Msg("Role check failed")
				writeForbidden(w, r)
			}
		})
	}
}

// wantsJSON reports whether the client asked for JSON and not a page.
func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

func writeForbidden(w http.ResponseWriter, r *http.Request) {
	if strings.Contains(r.Header.Get("Accept"), "text/html") {
		http.Error(w, "Access denied", http.StatusForbidden)
		return
	}
	writeJSONError(w, http.StatusForbidden, "Access denied")
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
