package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/quadrahub/arena-system/handlers"
	"github.com/quadrahub/arena-system/middleware"
	"github.com/quadrahub/arena-system/models"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	Arena        *handlers.ArenaHandler
	Tournament   *handlers.TournamentHandler
	Registration *handlers.RegistrationHandler
	Payment      *handlers.PaymentHandler
	WebSocket    *handlers.WebSocketHandler
}

func SetupRoutes(h Handlers, jwtSecret []byte) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(jwtSecret)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Post("/auth/register", h.Auth.Register)
	r.Post("/auth/login", h.Auth.Login)

	// Live updates per tournament; auth is not required to watch.
	r.Get("/ws/tournaments/{tournamentID}", h.WebSocket.Subscribe)

	r.Route("/arenas/{arenaID}", func(r chi.Router) {
		r.Get("/", h.Arena.Get)
		r.Get("/tournaments", h.Tournament.List)
		r.Get("/tournaments/{tournamentID}", h.Tournament.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Put("/gateway", h.Arena.UpdateGatewayCredentials)
			r.Get("/payments/{paymentID}", h.Payment.Details)

			r.With(middleware.Authorize(models.RoleAdmin, models.RoleOrganizer)).
				Post("/tournaments", h.Tournament.Create)

			r.Route("/tournaments/{tournamentID}/participants", func(r chi.Router) {
				r.Post("/", h.Registration.Admit)
				r.Post("/{participantID}/payments", h.Payment.Pay)
				r.Post("/{participantID}/reconcile", h.Payment.Reconcile)
			})
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(authenticate)
		r.Get("/gateway/config", h.Arena.GatewayStatus)
		r.With(middleware.Authorize(models.RoleAdmin)).Post("/gateway/config", h.Arena.ConfigureGateway)
	})

	return r
}
