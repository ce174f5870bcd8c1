package api

import (
	"github.com/isdelr/gymdiary/internal/auth"
	"github.com/isdelr/gymdiary/internal/config"
	"github.com/isdelr/gymdiary/internal/services"
	"github.com/isdelr/gymdiary/internal/store"
	"github.com/isdelr/gymdiary/internal/websocket"
)

// App is the composition root shared by the router and the background
// jobs. Each instance is independent, so tests build their own.
type App struct {
	Config   *config.Config
	Store    store.Store
	Sessions *auth.SessionManager
	Hub      *websocket.Hub

	Users    services.UserServiceProvider
	Workouts services.WorkoutServiceProvider
	Catalog  services.CatalogServiceProvider
	Events   services.EventServiceProvider
}

// NewApp wires the services on top of st. The hub's Run loop is started by
// the caller.
func NewApp(cfg *config.Config, st store.Store, hasher *auth.Hasher, hub *websocket.Hub) *App {
	events := services.NewEventService(st)

	var publisher services.WorkoutPublisher
	if hub != nil {
		publisher = hub
	}
	return &App{
		Config: cfg,
		Store:  st,
		Sessions: auth.NewSessionManager(auth.NewMemorySessionStore(), auth.SessionOptions{
			Secret:     cfg.SessionSecret,
			TTL:        cfg.SessionTTL,
			CookieName: cfg.SessionCookieName,
			Secure:     cfg.IsProduction(),
		}),
		Hub:      hub,
		Users:    services.NewUserService(st, hasher, events, cfg.TrainerEmails),
		Workouts: services.NewWorkoutService(st, publisher, events),
		Catalog:  services.NewCatalogService(st),
		Events:   events,
	}
}
