package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON          = "INVALID_JSON"
	ErrCodeInvalidParameter     = "INVALID_PARAMETER"
	ErrCodeInvalidQuantity      = "INVALID_QUANTITY"
	ErrCodeOutOfStock           = "OUT_OF_STOCK"
	ErrCodeProductNotFound      = "PRODUCT_NOT_FOUND"
	ErrCodeEmptyCart            = "EMPTY_CART"
	ErrCodeInvalidTransition    = "INVALID_TRANSITION"
	ErrCodeInvalidPaymentMethod = "INVALID_PAYMENT_METHOD"
	ErrCodeFormLocked           = "FORM_LOCKED"
	ErrCodeValidationFailed     = "VALIDATION_FAILED"
	ErrCodeNoCheckout           = "NO_CHECKOUT"
	ErrCodeUnauthorised         = "UNAUTHORIZED"
	ErrCodeInternalError        = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrInvalidQuantity      = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be at least one")
	ErrOutOfStock           = NewDomainError(ErrCodeOutOfStock, "Product is out of stock")
	ErrProductNotFound      = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrEmptyCart            = NewDomainError(ErrCodeEmptyCart, "Cart is empty")
	ErrInvalidTransition    = NewDomainError(ErrCodeInvalidTransition, "Checkout step transition not allowed")
	ErrInvalidPaymentMethod = NewDomainError(ErrCodeInvalidPaymentMethod, "Unknown payment method")
	ErrFormLocked           = NewDomainError(ErrCodeFormLocked, "Shipping details can only be edited in the shipping step")
	ErrValidationFailed     = NewDomainError(ErrCodeValidationFailed, "Shipping details are incomplete or invalid")
	ErrNoCheckout           = NewDomainError(ErrCodeNoCheckout, "No checkout in progress")
)
