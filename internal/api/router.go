package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/account-api/internal/api/handlers"
	"github.com/isdelr/account-api/internal/auth"
	"github.com/isdelr/account-api/internal/services"
)

// MountPath is the prefix all account routes are served under.
const MountPath = "/User"

// NewRouter creates and configures a new Chi router.
func NewRouter(tokens auth.TokenManager, userService services.UserServiceProvider, eventService services.EventServiceProvider, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", auth.TokenHeader},
		ExposedHeaders: []string{auth.TokenHeader},
		MaxAge:         300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	eventHandler := handlers.NewEventHandler(eventService)

	r.Route(MountPath, func(r chi.Router) {
		r.Get("/", userHandler.Home)
		r.Post("/SignUp", userHandler.SignUp)
		r.Post("/Login", userHandler.Login)

		// Routes below require a valid auth-token header
		r.Group(func(r chi.Router) {
			r.Use(auth.TokenMiddleware(tokens))
			r.Post("/changePassword", userHandler.ChangePassword)
			r.Patch("/updateUser", userHandler.UpdateUser)
			r.Get("/events", eventHandler.GetRecent)
		})
	})

	return r
}
