package handler

import (
	"net/http"

	"furnistore/internal/cart"
	"furnistore/internal/model"
	"furnistore/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// CartHandler handles cart-related HTTP requests.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  *int   `json:"quantity"`
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

type pendingAddResponse struct {
	Status    string `json:"status"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	DelayMS   int64  `json:"delayMs"`
}

type cartResponse struct {
	cart.Summary
	Display displayTotals `json:"display"`
}

func newCartResponse(s cart.Summary) cartResponse {
	if s.Items == nil {
		s.Items = []model.LineItem{}
	}
	return cartResponse{Summary: s, Display: newDisplayTotals(s.Totals)}
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newCartResponse(h.service.Summary(r.Context())))
}

// AddItem handles POST /api/cart/items. With an add delay configured the
// add is queued and answered with 202; otherwise it is applied and the line
// is returned with 201.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidParameter, "productId is required", h.logger)
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	if delay := h.service.AddDelay(); delay > 0 {
		if err := h.service.QueueAddItem(r.Context(), req.ProductID, quantity); err != nil {
			writeServiceError(w, err, h.logger)
			return
		}
		writeJSON(w, http.StatusAccepted, pendingAddResponse{
			Status:    "pending",
			ProductID: req.ProductID,
			Quantity:  quantity,
			DelayMS:   delay.Milliseconds(),
		})
		return
	}

	item, err := h.service.AddItem(r.Context(), req.ProductID, quantity)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// SetQuantity handles PUT /api/cart/items/{productId}. A quantity below one
// removes the line and answers 204.
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req setQuantityRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	if req.Quantity == nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidParameter, "quantity is required", h.logger)
		return
	}

	item, err := h.service.SetQuantity(r.Context(), chi.URLParam(r, "productId"), *req.Quantity)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if item == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// RemoveItem handles DELETE /api/cart/items/{productId}. Removing an absent
// line is not an error.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.service.RemoveItem(r.Context(), chi.URLParam(r, "productId"))
	w.WriteHeader(http.StatusNoContent)
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.service.Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
