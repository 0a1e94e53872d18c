package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/Cienszki/automatic-tournament-sub001/handlers"
	"github.com/Cienszki/automatic-tournament-sub001/middleware"
)

func SetupRoutes(
	router *chi.Mux,
	playoffHandler *handlers.PlayoffHandler,
	webSocketHandler *handlers.WebSocketHandler,
	auth *middleware.Authenticator,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Route("/playoffs", func(r chi.Router) {
		// Public read surface: the aggregate is the read model.
		r.Get("/", playoffHandler.ListHandler)
		r.Get("/{playoffID}", playoffHandler.GetHandler)

		// Admin mutations.
		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.Authorize("admin"))
			r.Use(middleware.RateLimit(rate.Limit(5), 10))

			r.Post("/", playoffHandler.InitializeHandler)
			r.Post("/{playoffID}/slots/assign", playoffHandler.AssignTeamHandler)
			r.Patch("/{playoffID}/matches/{matchID}/format", playoffHandler.SetFormatHandler)
			r.Post("/{playoffID}/matches/{matchID}/live", playoffHandler.MarkLiveHandler)
			r.Post("/{playoffID}/matches/{matchID}/result", playoffHandler.ProcessResultHandler)
			r.Post("/{playoffID}/setup/complete", playoffHandler.CompleteSetupHandler)
			r.Post("/{playoffID}/reset", playoffHandler.ResetHandler)
		})
	})

	router.Get("/ws/playoffs/{playoffID}", webSocketHandler.ServeWs)
}
