package handler

import (
	"context"
	"net/http"

	"furnistore/internal/checkout"
	"furnistore/internal/model"
	"furnistore/internal/service"

	"github.com/rs/zerolog"
)

// CheckoutHandler handles the checkout flow.
type CheckoutHandler struct {
	service service.CheckoutService
	logger  zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(service service.CheckoutService, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		logger:  logger.With().Str("handler", "checkout").Logger(),
	}
}

type checkoutResponse struct {
	checkout.View
	PaymentLabel string        `json:"paymentLabel"`
	Display      displayTotals `json:"display"`
}

func newCheckoutResponse(v checkout.View) checkoutResponse {
	if v.Items == nil {
		v.Items = []model.LineItem{}
	}
	return checkoutResponse{
		View:         v,
		PaymentLabel: v.Form.PaymentMethod.Label(),
		Display:      newDisplayTotals(v.Totals),
	}
}

type paymentRequest struct {
	Method model.PaymentMethod `json:"method"`
}

// Begin handles POST /api/checkout.
func (h *CheckoutHandler) Begin(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Begin(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, newCheckoutResponse(view))
}

// Get handles GET /api/checkout.
func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.service.Current)
}

// SetShipping handles PUT /api/checkout/shipping.
func (h *CheckoutHandler) SetShipping(w http.ResponseWriter, r *http.Request) {
	var details model.ShippingDetails
	if !decodeJSON(w, r, &details, h.logger) {
		return
	}
	h.respond(w, r, func(ctx context.Context) (checkout.View, error) {
		return h.service.SetShipping(ctx, details)
	})
}

// SelectPayment handles PUT /api/checkout/payment.
func (h *CheckoutHandler) SelectPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	h.respond(w, r, func(ctx context.Context) (checkout.View, error) {
		return h.service.SelectPayment(ctx, req.Method)
	})
}

// Next handles POST /api/checkout/next.
func (h *CheckoutHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.service.Next)
}

// Back handles POST /api/checkout/back.
func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.service.Back)
}

// Submit handles POST /api/checkout/submit.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.service.Submit)
}

// Abandon handles DELETE /api/checkout.
func (h *CheckoutHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Abandon(r.Context()); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CheckoutHandler) respond(w http.ResponseWriter, r *http.Request, op func(context.Context) (checkout.View, error)) {
	view, err := op(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, newCheckoutResponse(view))
}
