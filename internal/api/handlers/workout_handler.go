package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/gymdiary/internal/apperr"
	"github.com/isdelr/gymdiary/internal/auth"
	"github.com/isdelr/gymdiary/internal/services"
	"github.com/isdelr/gymdiary/internal/views"
	"github.com/rs/zerolog/log"
)

// WorkoutHandler serves the workout catalog and the trainer listing.
type WorkoutHandler struct {
	catalog  services.CatalogServiceProvider
	workouts services.WorkoutServiceProvider
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(catalog services.CatalogServiceProvider, workouts services.WorkoutServiceProvider) *WorkoutHandler {
	return &WorkoutHandler{catalog: catalog, workouts: workouts}
}

// List renders every workout category.
func (h *WorkoutHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.GetAllCategories(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list workout categories")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	renderPage(w, r, http.StatusOK, views.Categories(navFor(r), categories))
}

// Category renders one category and its exercises.
func (h *WorkoutHandler) Category(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "category")
	category, err := h.catalog.GetCategory(r.Context(), name)
	if err != nil {
		if errors.Is(err, services.ErrCategoryNotFound) {
			renderPage(w, r, http.StatusNotFound, views.NotFound(navFor(r), "The workout category"))
			return
		}
		log.Error().Err(err).Str("category", name).Msg("Failed to get workout category")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	renderPage(w, r, http.StatusOK, views.Category(navFor(r), category))
}

// All lists every member's workouts with the owner's email.
func (h *WorkoutHandler) All(w http.ResponseWriter, r *http.Request) {
	workouts, err := h.workouts.All(r.Context(), auth.StateFromContext(r.Context()).Role)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotAuthorized {
			writeJSONError(w, http.StatusForbidden, apperr.MessageOf(err, "Access denied"))
			return
		}
		log.Error().Err(err).Msg("Failed to list all workouts")
		writeJSONError(w, http.StatusInternalServerError, "Failed to fetch workouts")
		return
	}
	writeJSON(w, http.StatusOK, workouts)
}
