// Package httpapi exposes the pet simulation over a small JSON API. It is
// a thin translation layer: business errors from the core map onto HTTP
// status codes, and no game logic lives here.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", h.healthz)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/pet", h.getPet)
		r.Get("/pet/status", h.getStatus)
		r.Post("/pet/feed", h.feed)
		r.Post("/pet/play", h.play)
		r.Post("/pet/sleep", h.sleep)
		r.Post("/pet/rename", h.rename)
		r.Post("/pet/evolve", h.evolve)

		r.Post("/reading/sessions", h.recordReading)

		r.Get("/shop", h.listShop)
		r.Post("/shop/buy", h.buyItem)
		r.Post("/items/use", h.useItem)

		r.Get("/minigames", h.listGames)
		r.Post("/minigames/{gameID}/start", h.startGame)
		r.Post("/minigames/sessions/{sessionID}/complete", h.completeGame)
		r.Get("/minigames/{gameID}/stats", h.gameStats)
	})

	return r
}
