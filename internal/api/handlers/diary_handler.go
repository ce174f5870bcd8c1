package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/isdelr/gymdiary/internal/apperr"
	"github.com/isdelr/gymdiary/internal/auth"
	"github.com/isdelr/gymdiary/internal/models"
	"github.com/isdelr/gymdiary/internal/services"
	"github.com/isdelr/gymdiary/internal/views"
	ws "github.com/isdelr/gymdiary/internal/websocket"
	"github.com/rs/zerolog/log"
)

// DiaryHandler records workouts, answers diary queries and serves the live
// diary feed.
type DiaryHandler struct {
	workouts services.WorkoutServiceProvider
	catalog  services.CatalogServiceProvider
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

// NewDiaryHandler creates a new DiaryHandler. Feed connections are accepted
// from the app's own origin and from allowedOrigins.
func NewDiaryHandler(workouts services.WorkoutServiceProvider, catalog services.CatalogServiceProvider, hub *ws.Hub, allowedOrigins []string) *DiaryHandler {
	return &DiaryHandler{
		workouts: workouts,
		catalog:  catalog,
		hub:      hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(allowedOrigins),
		},
	}
}

// Form renders the diary entry form.
func (h *DiaryHandler) Form(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, views.DiaryForm{}, "")
}

// Create records a workout for the current user.
func (h *DiaryHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderForm(w, r, http.StatusBadRequest, views.DiaryForm{}, "Invalid form submission")
		return
	}
	form := views.DiaryForm{
		Category:    r.PostFormValue("category"),
		WorkoutName: r.PostFormValue("workoutName"),
		Sets:        r.PostFormValue("sets"),
		Reps:        r.PostFormValue("reps"),
		Weight:      r.PostFormValue("weight"),
	}

	in, err := parseWorkoutForm(form)
	if err != nil {
		h.renderForm(w, r, http.StatusUnprocessableEntity, form, userMessage(err))
		return
	}

	state := auth.StateFromContext(r.Context())
	if _, err := h.workouts.Record(r.Context(), state.UserID, in); err != nil {
		status := formStatus(err)
		if status == http.StatusInternalServerError {
			log.Error().Err(err).Str("user_id", state.UserID).Msg("Failed to record workout")
		}
		h.renderForm(w, r, status, form, userMessage(err))
		return
	}
	http.Redirect(w, r, "/diary", http.StatusSeeOther)
}

// ByDate returns the current user's workouts for a YYYY-MM-DD date.
func (h *DiaryHandler) ByDate(w http.ResponseWriter, r *http.Request) {
	state := auth.StateFromContext(r.Context())
	date := chi.URLParam(r, "date")

	workouts, err := h.workouts.ForDate(r.Context(), state.UserID, date)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindValidation {
			writeJSONError(w, http.StatusBadRequest, userMessage(err))
			return
		}
		log.Error().Err(err).Str("user_id", state.UserID).Str("date", date).Msg("Failed to fetch workouts")
		writeJSONError(w, http.StatusInternalServerError, "Failed to fetch workouts")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]models.Workout{"workouts": workouts})
}

// Feed upgrades to a websocket that receives every workout the current
// user records from now on.
func (h *DiaryHandler) Feed(w http.ResponseWriter, r *http.Request) {
	state := auth.StateFromContext(r.Context())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Str("user_id", state.UserID).Msg("Failed to upgrade websocket connection")
		return
	}

	client := ws.NewClient(h.hub, conn, state.UserID)
	if !h.hub.Subscribe(client) {
		conn.Close()
		return
	}

	go client.WritePump()
	go func() {
		client.ReadPump(handleFeedMessage)
		h.hub.Unsubscribe(client)
	}()
}

// handleFeedMessage answers the few actions a feed client may send.
func handleFeedMessage(client *ws.Client, message []byte) {
	var msg ws.Message
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Warn().Err(err).Str("user_id", client.UserID).Msg("Error decoding websocket message")
		client.Reply(ws.NewErrorMessage("Invalid message"))
		return
	}

	switch msg.Action {
	case "ping":
		client.Reply(ws.NewPongMessage())
	default:
		log.Warn().Str("action", msg.Action).Msg("Unknown websocket action received")
		client.Reply(ws.NewErrorMessage("Unknown action: "+msg.Action))
	}
}

func (h *DiaryHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, form views.DiaryForm, errMsg string) {
	categories, err := h.catalog.GetAllCategories(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list workout categories")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	renderPage(w, r, status, views.Diary(navFor(r), categories, form, errMsg))
}

// parseWorkoutForm converts the numeric form fields. Blank numbers count
// as zero.
func parseWorkoutForm(form views.DiaryForm) (services.WorkoutInput, error) {
	in := services.WorkoutInput{Category: form.Category, WorkoutName: form.WorkoutName}

	var err error
	if in.Sets, err = atoiOrZero(form.Sets); err != nil {
		return in, apperr.Validation("Sets must be a whole number")
	}
	if in.Reps, err = atoiOrZero(form.Reps); err != nil {
		return in, apperr.Validation("Reps must be a whole number")
	}
	if weight := strings.TrimSpace(form.Weight); weight != "" {
		if in.Weight, err = strconv.ParseFloat(weight, 64); err != nil {
			return in, apperr.Validation("Weight must be a number")
		}
	}
	return in, nil
}

func atoiOrZero(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// checkOrigin allows same-origin requests, requests without an Origin
// header and the configured origins.
func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || origin == "http://"+r.Host || origin == "https://"+r.Host {
			return true
		}
		for _, o := range allowed {
			if o == origin {
				return true
			}
		}
		return false
	}
}
