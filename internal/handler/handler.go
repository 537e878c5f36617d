package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"furnistore/internal/checkout"
	"furnistore/internal/model"
	"furnistore/internal/pricing"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Warn().Str("code", code).Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeServiceError maps an error from the service layer onto a response.
// Domain errors keep their code; anything else is a 500.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var verr *checkout.ValidationError
	if errors.As(err, &verr) {
		logger.Debug().Strs("fields", verr.Fields.Fields()).Msg("validation failed")
		writeJSON(w, http.StatusUnprocessableEntity, model.ErrorResponse{
			Error:   model.ErrCodeValidationFailed,
			Message: model.ErrValidationFailed.Message,
			Fields:  verr.Fields,
		})
		return
	}

	var derr *model.DomainError
	if errors.As(err, &derr) {
		writeError(w, statusFor(derr.Code), derr.Code, derr.Message, logger)
		return
	}

	logger.Error().Err(err).Msg("unexpected service error")
	writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
		Error:   model.ErrCodeInternalError,
		Message: "internal server error",
	})
}

func statusFor(code string) int {
	switch code {
	case model.ErrCodeInvalidQuantity, model.ErrCodeInvalidPaymentMethod, model.ErrCodeInvalidJSON, model.ErrCodeInvalidParameter:
		return http.StatusBadRequest
	case model.ErrCodeProductNotFound, model.ErrCodeNoCheckout:
		return http.StatusNotFound
	case model.ErrCodeEmptyCart, model.ErrCodeOutOfStock, model.ErrCodeInvalidTransition, model.ErrCodeFormLocked:
		return http.StatusConflict
	case model.ErrCodeValidationFailed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads the request body into v, answering 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}, logger zerolog.Logger) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", logger)
		return false
	}
	return true
}

// displayTotals are the totals formatted for shoppers, e.g. "Rp 1.715.000".
type displayTotals struct {
	Subtotal    string `json:"subtotal"`
	ShippingFee string `json:"shippingFee"`
	Tax         string `json:"tax"`
	GrandTotal  string `json:"grandTotal"`
	FreeShip    bool   `json:"freeShipping"`
}

func newDisplayTotals(t model.OrderTotals) displayTotals {
	return displayTotals{
		Subtotal:    pricing.FormatIDR(t.Subtotal),
		ShippingFee: pricing.FormatIDR(t.ShippingFee),
		Tax:         pricing.FormatIDR(t.Tax),
		GrandTotal:  pricing.FormatIDR(t.GrandTotal),
		FreeShip:    t.ShippingFee.IsZero() && t.Subtotal.IsPositive(),
	}
}
