package service

import (
	"context"
	"errors"
	"testing"

	"furnistore/internal/cart"
	"furnistore/internal/checkout"
	"furnistore/internal/model"
	"furnistore/internal/session"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validShipping() model.ShippingDetails {
	return model.ShippingDetails{
		FullName:   "Sari Wulandari",
		Email:      "sari@example.com",
		Phone:      "081234567890",
		Address:    "Jl. Melati No. 12",
		City:       "Bandung",
		Province:   "Jawa Barat",
		PostalCode: "40115",
	}
}

func newCheckoutService(t *testing.T) (CheckoutService, *cart.Store, *manualTimers) {
	t.Helper()
	timers := &manualTimers{}
	store := cart.NewStore(zerolog.Nop())
	svc := NewCheckoutService(store, zerolog.Nop(), checkout.WithAfterFunc(timers.AfterFunc))
	return svc, store, timers
}

func fillCart(t *testing.T, store *cart.Store) {
	t.Helper()
	_, err := store.AddItem(*testProduct("SOFA", 1_500_000, 3), 1)
	require.NoError(t, err)
}

func TestCheckoutService_BeginEmptyCart(t *testing.T) {
	svc, _, _ := newCheckoutService(t)
	ctx := context.Background()

	_, err := svc.Begin(ctx)
	assert.Equal(t, model.ErrEmptyCart, err)

	_, err = svc.Current(ctx)
	assert.Equal(t, model.ErrNoCheckout, err)
}

func TestCheckoutService_NoSession(t *testing.T) {
	svc, _, _ := newCheckoutService(t)
	ctx := context.Background()

	_, err := svc.Next(ctx)
	assert.Equal(t, model.ErrNoCheckout, err)
	_, err = svc.SetShipping(ctx, validShipping())
	assert.Equal(t, model.ErrNoCheckout, err)
	assert.Equal(t, model.ErrNoCheckout, svc.Abandon(ctx))
}

func TestCheckoutService_BeginPrefillsFromIdentity(t *testing.T) {
	svc, store, _ := newCheckoutService(t)
	fillCart(t, store)

	id := &session.Identity{Subject: "cust-1", Name: "Budi Santoso", Email: "budi@example.com"}
	ctx := session.WithIdentity(context.Background(), id)

	view, err := svc.Begin(ctx)

	require.NoError(t, err)
	assert.Equal(t, checkout.StateShippingInfo, view.State)
	assert.Equal(t, 1, view.Step)
	assert.Equal(t, "Budi Santoso", view.Form.Shipping.FullName)
	assert.Equal(t, "budi@example.com", view.Form.Shipping.Email)
	assert.Len(t, view.Items, 1)
}

func TestCheckoutService_ValidationErrorKeepsView(t *testing.T) {
	svc, store, _ := newCheckoutService(t)
	fillCart(t, store)
	ctx := context.Background()
	_, err := svc.Begin(ctx)
	require.NoError(t, err)

	details := validShipping()
	details.Email = "not-an-email"
	_, err = svc.SetShipping(ctx, details)
	require.NoError(t, err)

	view, err := svc.Next(ctx)

	var verr *checkout.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, checkout.StateShippingInfo, view.State)
	assert.Equal(t, checkout.FieldErrors{checkout.FieldEmail: "Email is invalid"}, view.Errors)
}

func TestCheckoutService_FullFlow(t *testing.T) {
	svc, store, timers := newCheckoutService(t)
	fillCart(t, store)
	ctx := context.Background()

	_, err := svc.Begin(ctx)
	require.NoError(t, err)
	_, err = svc.SetShipping(ctx, validShipping())
	require.NoError(t, err)

	view, err := svc.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, checkout.StatePaymentMethod, view.State)

	view, err = svc.SelectPayment(ctx, model.PaymentCashOnDelivery)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCashOnDelivery, view.Form.PaymentMethod)

	view, err = svc.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, checkout.StateReview, view.State)

	view, err = svc.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, checkout.StateCompleted, view.State)
	require.NotNil(t, view.Order)
	assert.NotEmpty(t, view.Order.OrderNumber)
	assert.Equal(t, "1715000", view.Order.Totals.GrandTotal.String())

	// re-entering during the clear window shows the confirmation again
	again, err := svc.Begin(ctx)
	require.NoError(t, err)
	assert.Equal(t, view.Order.OrderNumber, again.Order.OrderNumber)

	timers.fireAll()
	assert.True(t, store.IsEmpty())

	current, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, checkout.StateCompleted, current.State)

	again, err = svc.Begin(ctx)
	require.NoError(t, err)
	assert.Equal(t, checkout.StateCompleted, again.State)
}

func TestCheckoutService_NewCartAfterOrderStartsFresh(t *testing.T) {
	svc, store, timers := newCheckoutService(t)
	fillCart(t, store)
	ctx := context.Background()

	_, err := svc.Begin(ctx)
	require.NoError(t, err)
	_, _ = svc.SetShipping(ctx, validShipping())
	_, _ = svc.Next(ctx)
	_, _ = svc.Next(ctx)
	first, err := svc.Submit(ctx)
	require.NoError(t, err)
	timers.fireAll()

	fillCart(t, store)
	view, err := svc.Begin(ctx)

	require.NoError(t, err)
	assert.Equal(t, checkout.StateShippingInfo, view.State)
	assert.Nil(t, view.Order)

	_, _ = svc.SetShipping(ctx, validShipping())
	_, _ = svc.Next(ctx)
	_, _ = svc.Next(ctx)
	second, err := svc.Submit(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first.Order.OrderNumber, second.Order.OrderNumber)
}

func TestCheckoutService_BeginRestartsActiveSession(t *testing.T) {
	svc, store, _ := newCheckoutService(t)
	fillCart(t, store)
	ctx := context.Background()

	_, err := svc.Begin(ctx)
	require.NoError(t, err)
	_, _ = svc.SetShipping(ctx, validShipping())
	_, err = svc.Next(ctx)
	require.NoError(t, err)

	view, err := svc.Begin(ctx)

	require.NoError(t, err)
	assert.Equal(t, checkout.StateShippingInfo, view.State)
	assert.Empty(t, view.Form.Shipping.City)
}

func TestCheckoutService_Abandon(t *testing.T) {
	svc, store, _ := newCheckoutService(t)
	fillCart(t, store)
	ctx := context.Background()

	_, err := svc.Begin(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.Abandon(ctx))

	_, err = svc.Current(ctx)
	assert.Equal(t, model.ErrNoCheckout, err)
	assert.False(t, store.IsEmpty())
}
