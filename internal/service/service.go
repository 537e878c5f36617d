package service

import (
	"context"
	"time"

	"furnistore/internal/cart"
	"furnistore/internal/checkout"
	"furnistore/internal/model"
)

// ProductService defines read access to the catalog.
type ProductService interface {
	// GetAll retrieves products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product, or model.ErrProductNotFound.
	GetByID(ctx context.Context, id string) (*model.Product, error)
}

// CartService binds the cart store to the catalog.
type CartService interface {
	// AddItem looks the product up and adds it right away.
	AddItem(ctx context.Context, productID string, quantity int) (model.LineItem, error)

	// QueueAddItem looks the product up now and applies the add after the
	// configured delay. Errors found at apply time are only logged.
	QueueAddItem(ctx context.Context, productID string, quantity int) error

	// AddDelay is the delay QueueAddItem waits before applying.
	AddDelay() time.Duration

	// SetQuantity sets a line's quantity; below one removes the line.
	SetQuantity(ctx context.Context, productID string, quantity int) (*model.LineItem, error)

	RemoveItem(ctx context.Context, productID string)
	Clear(ctx context.Context)
	Summary(ctx context.Context) cart.Summary
}

// CheckoutService runs the single checkout session of the cart.
type CheckoutService interface {
	// Begin enters checkout. After an order is placed it keeps returning
	// the confirmation until the shopper puts something new in the cart;
	// otherwise it starts a fresh session or refuses with model.ErrEmptyCart.
	Begin(ctx context.Context) (checkout.View, error)

	// Current returns the active session, or model.ErrNoCheckout.
	Current(ctx context.Context) (checkout.View, error)

	SetShipping(ctx context.Context, details model.ShippingDetails) (checkout.View, error)
	SelectPayment(ctx context.Context, method model.PaymentMethod) (checkout.View, error)
	Next(ctx context.Context) (checkout.View, error)
	Back(ctx context.Context) (checkout.View, error)
	Submit(ctx context.Context) (checkout.View, error)

	// Abandon drops the active session. The cart is left alone.
	Abandon(ctx context.Context) error
}
