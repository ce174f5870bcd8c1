package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/a-h/templ"
	"github.com/isdelr/gymdiary/internal/apperr"
	"github.com/isdelr/gymdiary/internal/auth"
	"github.com/isdelr/gymdiary/internal/models"
	"github.com/isdelr/gymdiary/internal/views"
	"github.com/rs/zerolog/log"
)

const msgGeneric = "Something went wrong, please try again"

// renderPage writes component as an HTML response with status.
func renderPage(w http.ResponseWriter, r *http.Request, status int, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := component.Render(r.Context(), w); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Failed to render page")
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// formStatus maps a service error to the status of a re-rendered form.
func formStatus(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return http.StatusUnprocessableEntity
	case apperr.KindAuth:
		return http.StatusUnauthorized
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindNotAuthorized:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// userMessage is the text shown for err; internal errors never reach the
// client.
func userMessage(err error) string {
	if apperr.KindOf(err) == apperr.KindUnknown {
		return msgGeneric
	}
	return apperr.MessageOf(err, msgGeneric)
}

func navFor(r *http.Request) views.Nav {
	state := auth.StateFromContext(r.Context())
	return views.Nav{
		Authenticated: state.Authenticated(),
		Name:          state.Email,
		Trainer:       state.Role == models.RoleTrainer,
	}
}
