package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Ngassaki-chadrack-sidney/prise-de-note/internal/api/handlers"
	"github.com/Ngassaki-chadrack-sidney/prise-de-note/internal/auth"
	"github.com/Ngassaki-chadrack-sidney/prise-de-note/internal/monitoring"
	"github.com/Ngassaki-chadrack-sidney/prise-de-note/internal/services"
	"github.com/Ngassaki-chadrack-sidney/prise-de-note/internal/websocket"
)

// RouterDeps bundles everything the router needs.
type RouterDeps struct {
	Tokens         *auth.TokenManager
	UserService    services.UserServiceProvider
	NoteService    services.NoteServiceProvider
	EventService   services.EventServiceProvider
	SnapshotSvc    services.SnapshotServiceProvider
	Monitor        *monitoring.Monitor
	Hub            *websocket.Hub
	AllowedOrigins []string
	SecureCookies  bool
}

// NewRouter creates and configures a new Chi router.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(deps.UserService, deps.Tokens, deps.SecureCookies)
	noteHandler := handlers.NewNoteHandler(deps.NoteService)
	eventHandler := handlers.NewEventHandler(deps.EventService)
	snapshotHandler := handlers.NewSnapshotHandler(deps.SnapshotSvc)
	systemHandler := handlers.NewSystemHandler(deps.Monitor)
	wsHandler := handlers.NewWebSocketHandler(deps.Hub, deps.Tokens)

	requireAuth := deps.Tokens.RequireAuth()

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", systemHandler.Health)
		r.Get("/ws", wsHandler.Serve)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.Post("/forgot-password", authHandler.ForgotPassword)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/me", authHandler.Me)
				r.Delete("/del-account", authHandler.DeleteAccount)
			})
		})

		r.Route("/notes", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", noteHandler.List)
			r.Post("/", noteHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", noteHandler.Get)
				r.Patch("/", noteHandler.Update)
				r.Delete("/", noteHandler.Delete)
			})
		})

		r.Route("/events", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", eventHandler.List)
		})

		r.Route("/snapshots", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", snapshotHandler.List)
			r.Post("/", snapshotHandler.Create)
			r.Delete("/{id}", snapshotHandler.Delete)
		})
	})

	return r
}
