package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderTotals holds the money derived from a set of line items.
type OrderTotals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	ShippingFee decimal.Decimal `json:"shippingFee"`
	Tax         decimal.Decimal `json:"tax"`
	GrandTotal  decimal.Decimal `json:"grandTotal"`
}

// PaymentMethod enumerates the payment options offered at checkout.
type PaymentMethod string

const (
	PaymentCard           PaymentMethod = "card"
	PaymentBankTransfer   PaymentMethod = "bank-transfer"
	PaymentEWallet        PaymentMethod = "e-wallet"
	PaymentCashOnDelivery PaymentMethod = "cash-on-delivery"
)

// DefaultPaymentMethod is pre-selected when a checkout starts.
const DefaultPaymentMethod = PaymentCard

var paymentLabels = map[PaymentMethod]string{
	PaymentCard:           "Credit/Debit Card",
	PaymentBankTransfer:   "Bank Transfer",
	PaymentEWallet:        "E-Wallet",
	PaymentCashOnDelivery: "COD (Cash on Delivery)",
}

// Valid reports whether m is one of the known payment methods.
func (m PaymentMethod) Valid() bool {
	_, ok := paymentLabels[m]
	return ok
}

// Label returns the display name of the payment method.
func (m PaymentMethod) Label() string {
	return paymentLabels[m]
}

// ShippingDetails holds the contact and address fields collected in the
// first checkout step.
type ShippingDetails struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postalCode"`
	Notes      string `json:"notes,omitempty"`
}

// Order is the immutable confirmation record produced when checkout completes.
type Order struct {
	ID            uuid.UUID       `json:"id"`
	OrderNumber   string          `json:"orderNumber"`
	Items         []LineItem      `json:"items"`
	Totals        OrderTotals     `json:"totals"`
	Shipping      ShippingDetails `json:"shipping"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	PlacedAt      time.Time       `json:"placedAt"`
}
