package router

import (
	"net/http"

	"furnistore/internal/handler"
	"furnistore/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// New creates the HTTP router with all routes and middleware configured.
// verifier may be nil, in which case every shopper is anonymous.
func New(
	productHandler *handler.ProductHandler,
	cartHandler *handler.CartHandler,
	checkoutHandler *handler.CheckoutHandler,
	apiKey string,
	verifier middleware.TokenVerifier,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Recovery -> Logging -> CORS -> APIKeyAuth -> Identity
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)
	r.Use(middleware.APIKeyAuth(apiKey, logger))
	r.Use(middleware.Identity(verifier, logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.GetAll)
			r.Get("/{id}", productHandler.GetByID)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.Get)
			r.Delete("/", cartHandler.Clear)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{productId}", cartHandler.SetQuantity)
			r.Delete("/items/{productId}", cartHandler.RemoveItem)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", checkoutHandler.Begin)
			r.Get("/", checkoutHandler.Get)
			r.Delete("/", checkoutHandler.Abandon)
			r.Put("/shipping", checkoutHandler.SetShipping)
			r.Put("/payment", checkoutHandler.SelectPayment)
			r.Post("/next", checkoutHandler.Next)
			r.Post("/back", checkoutHandler.Back)
			r.Post("/submit", checkoutHandler.Submit)
		})
	})

	return r
}
