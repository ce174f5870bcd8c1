package handlers

import (
	"net/http"

	"github.com/isdelr/gymdiary/internal/auth"
	"github.com/isdelr/gymdiary/internal/services"
	"github.com/isdelr/gymdiary/internal/views"
	"github.com/rs/zerolog/log"
)

// PageHandler serves the home page and the dashboard.
type PageHandler struct {
	users services.UserServiceProvider
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(users services.UserServiceProvider) *PageHandler {
	return &PageHandler{users: users}
}

// Home renders the landing page.
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, http.StatusOK, views.Home(navFor(r)))
}

// Dashboard greets the logged-in member by name.
func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	state := auth.StateFromContext(r.Context())
	user, err := h.users.GetUserByID(r.Context(), state.UserID)
	if err != nil {
		log.Error().Err(err).Str("user_id", state.UserID).Msg("Failed to load dashboard user")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	nav := navFor(r)
	nav.Name = user.FullName()
	renderPage(w, r, http.StatusOK, views.Dashboard(nav))
}

// NotFound renders the 404 page.
func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, http.StatusNotFound, views.NotFound(navFor(r), "The page"))
}
