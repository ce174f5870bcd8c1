package handlers

import (
	"net/http"

	"github.com/isdelr/gymdiary/internal/auth"
	"github.com/isdelr/gymdiary/internal/models"
	"github.com/isdelr/gymdiary/internal/services"
	"github.com/isdelr/gymdiary/internal/views"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles signup, login and logout.
type AuthHandler struct {
	users    services.UserServiceProvider
	sessions *auth.SessionManager
	events   services.EventServiceProvider
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users services.UserServiceProvider, sessions *auth.SessionManager, events services.EventServiceProvider) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions, events: events}
}

// SignupForm renders the empty signup form.
func (h *AuthHandler) SignupForm(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, http.StatusOK, views.Signup(views.SignupForm{}, ""))
}

// Signup registers a user and logs them in.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		renderPage(w, r, http.StatusBadRequest, views.Signup(views.SignupForm{}, "Invalid form submission"))
		return
	}

	in := services.SignupInput{
		FirstName:       r.PostFormValue("firstname"),
		LastName:        r.PostFormValue("lastname"),
		Email:           r.PostFormValue("email"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirmPassword"),
	}
	form := views.SignupForm{FirstName: in.FirstName, LastName: in.LastName, Email: in.Email}

	user, err := h.users.Signup(r.Context(), in)
	if err != nil {
		status := formStatus(err)
		if status == http.StatusInternalServerError {
			log.Error().Err(err).Msg("Failed to register user")
		}
		renderPage(w, r, status, views.Signup(form, userMessage(err)))
		return
	}

	if !h.startSession(w, r, user, func() { renderPage(w, r, http.StatusInternalServerError, views.Signup(form, msgGeneric)) }) {
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// LoginForm renders the empty login form.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, http.StatusOK, views.Login("", ""))
}

// Login authenticates by email and password.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		renderPage(w, r, http.StatusBadRequest, views.Login("", "Invalid form submission"))
		return
	}
	in := services.LoginInput{Email: r.PostFormValue("email"), Password: r.PostFormValue("password")}

	user, err := h.users.Authenticate(r.Context(), in)
	if err != nil {
		status := formStatus(err)
		if status == http.StatusInternalServerError {
			log.Error().Err(err).Msg("Failed to authenticate user")
		}
		// The form is re-rendered blank so every failure looks the same.
		renderPage(w, r, status, views.Login("", userMessage(err)))
		return
	}

	if !h.startSession(w, r, user, func() { renderPage(w, r, http.StatusInternalServerError, views.Login(in.Email, msgGeneric)) }) {
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// startSession creates a session for user and sets its cookie. On failure
// it calls fail and reports false.
func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, user models.User, fail func()) bool {
	token, err := h.sessions.Create(r.Context(), user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to create session")
		fail()
		return false
	}
	h.sessions.SetCookie(w, token)
	return true
}

// Logout destroys the session and clears the cookie. When the session
// cannot be destroyed the user stays logged in and lands on the dashboard.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	state := auth.StateFromContext(r.Context())

	if err := h.sessions.Destroy(r.Context(), h.sessions.TokenFromRequest(r)); err != nil {
		log.Error().Err(err).Str("user_id", state.UserID).Msg("Failed to destroy session")
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	h.sessions.ClearCookie(w)
	if state.Authenticated() && h.events != nil {
		if err := h.events.CreateEvent(r.Context(), services.EventLogout, "info", "User logged out", &state.UserID); err != nil {
			log.Warn().Err(err).Msg("Failed to record logout event")
		}
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
