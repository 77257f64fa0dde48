package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fjod/moment_cart/internal/cart"
)

// NewRouter wires the full REST surface over a cart service.
func NewRouter(svc *cart.Service, requestTimeout time.Duration) chi.Router {
	handler := NewCartHandler(svc)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", handler.GetCart)
			r.Delete("/", handler.ClearCart)
			r.Post("/events", handler.AddEvent)
			r.Delete("/items/{cart_item_id}", handler.RemoveItem)
			r.Patch("/items/{cart_item_id}", handler.UpdateItem)
			r.Put("/items/{cart_item_id}/moments", handler.ConfigureMoments)
			r.Post("/toggle", handler.ToggleCart)
			r.Post("/refresh", handler.RefreshCart)
			r.Get("/analytics", handler.GetAnalytics)
		})

		r.Route("/session", func(r chi.Router) {
			r.Get("/", handler.GetSession)
			r.Put("/editing", handler.SetEditingTarget)
			r.Put("/step", handler.SetCheckoutStep)
		})

		r.Route("/drafts", func(r chi.Router) {
			r.Get("/", handler.ListDrafts)
			r.Post("/", handler.SaveDraft)
			r.Post("/{draft_id}/load", handler.LoadDraft)
			r.Delete("/{draft_id}", handler.DeleteDraft)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/validate", handler.ValidateCheckout)
			r.Post("/", handler.ProcessCheckout)
		})
	})

	return r
}
