package handlers

import (
	"net/http"

	"github.com/isdelr/gymdiary/internal/auth"
	"github.com/isdelr/gymdiary/internal/services"
	"github.com/rs/zerolog/log"
)

// UserHandler serves the current user's profile.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// GetMe retrieves the currently logged-in user.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	state := auth.StateFromContext(r.Context())

	user, err := h.service.GetUserByID(r.Context(), state.UserID)
	if err != nil {
		log.Error().Err(err).Str("user_id", state.UserID).Msg("Session user not found")
		writeJSONError(w, http.StatusNotFound, "User not found")
		return
	}

	// The service already strips the password hash.
	writeJSON(w, http.StatusOK, user)
}
