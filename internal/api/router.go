package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/gymdiary/internal/api/handlers"
	"github.com/isdelr/gymdiary/internal/auth"
	"github.com/isdelr/gymdiary/internal/models"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(app *App) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(auth.LoadSession(app.Sessions))

	// Initialize handlers
	pageHandler := handlers.NewPageHandler(app.Users)
	authHandler := handlers.NewAuthHandler(app.Users, app.Sessions, app.Events)
	workoutHandler := handlers.NewWorkoutHandler(app.Catalog, app.Workouts)
	diaryHandler := handlers.NewDiaryHandler(app.Workouts, app.Catalog, app.Hub, app.Config.AllowedOrigins)
	userHandler := handlers.NewUserHandler(app.Users)
	eventHandler := handlers.NewEventHandler(app.Events)

	r.NotFound(pageHandler.NotFound)

	r.Get("/", pageHandler.Home)
	r.Get("/healthz", handlers.Health(app.Store))
	r.Get("/logout", authHandler.Logout)
	r.Post("/process-payment", handlers.ProcessPayment)

	r.Group(func(r chi.Router) {
		r.Use(auth.Require(auth.AnonymousOnly))
		r.Get("/signup", authHandler.SignupForm)
		r.Post("/signup", authHandler.Signup)
		r.Get("/login", authHandler.LoginForm)
		r.Post("/login", authHandler.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.Require(auth.MembersOnly))
		r.Get("/dashboard", pageHandler.Dashboard)
		r.Get("/me", userHandler.GetMe)
		r.Get("/workouts", workoutHandler.List)
		r.Get("/workouts/{category}", workoutHandler.Category)
		r.Get("/diary", diaryHandler.Form)
		r.Post("/diary", diaryHandler.Create)
		r.Get("/diary/feed", diaryHandler.Feed)
		r.Get("/diary/{date}", diaryHandler.ByDate)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.Require(auth.RoleRequired(models.RoleTrainer)))
		r.Get("/workouts/all", workoutHandler.All)
		r.Get("/events", eventHandler.GetRecent)
	})

	return r
}
