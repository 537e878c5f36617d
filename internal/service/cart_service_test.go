package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"furnistore/internal/cart"
	"furnistore/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualTimers struct {
	mu     sync.Mutex
	delays []time.Duration
	funcs  []func()
}

func (m *manualTimers) AfterFunc(d time.Duration, f func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delays = append(m.delays, d)
	m.funcs = append(m.funcs, f)
}

func (m *manualTimers) fireAll() {
	m.mu.Lock()
	funcs := m.funcs
	m.funcs = nil
	m.mu.Unlock()
	for _, f := range funcs {
		f()
	}
}

func newCartService(t *testing.T, c *MockCatalog, timers *manualTimers) (CartService, *cart.Store) {
	t.Helper()
	store := cart.NewStore(zerolog.Nop(), cart.WithAfterFunc(timers.AfterFunc))
	return NewCartService(store, c, 500*time.Millisecond, zerolog.Nop()), store
}

func TestCartService_AddItem(t *testing.T) {
	ctx := context.Background()
	c := new(MockCatalog)
	c.On("GetByID", ctx, "SOFA").Return(testProduct("SOFA", 1_500_000, 2), nil)
	svc, store := newCartService(t, c, &manualTimers{})

	item, err := svc.AddItem(ctx, "SOFA", 3)

	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, 1, store.Len())
	c.AssertExpectations(t)
}

func TestCartService_AddItem_Errors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		productID   string
		quantity    int
		product     *model.Product
		expectedErr error
	}{
		{"Unknown product", "NOPE", 1, nil, model.ErrProductNotFound},
		{"Out of stock", "GONE", 1, testProduct("GONE", 10_000, 0), model.ErrOutOfStock},
		{"Zero quantity", "SOFA", 0, testProduct("SOFA", 10_000, 5), model.ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := new(MockCatalog)
			c.On("GetByID", ctx, tt.productID).Return(tt.product, nil)
			svc, store := newCartService(t, c, &manualTimers{})

			_, err := svc.AddItem(ctx, tt.productID, tt.quantity)

			assert.Equal(t, tt.expectedErr, err)
			assert.True(t, store.IsEmpty())
		})
	}
}

func TestCartService_QueueAddItem(t *testing.T) {
	ctx := context.Background()
	c := new(MockCatalog)
	c.On("GetByID", ctx, "SOFA").Return(testProduct("SOFA", 1_500_000, 4), nil)
	timers := &manualTimers{}
	svc, store := newCartService(t, c, timers)

	require.NoError(t, svc.QueueAddItem(ctx, "SOFA", 1))

	assert.True(t, store.IsEmpty(), "add must wait for the delay")
	require.Len(t, timers.delays, 1)
	assert.Equal(t, 500*time.Millisecond, timers.delays[0])
	assert.Equal(t, 500*time.Millisecond, svc.AddDelay())

	timers.fireAll()

	item, ok := store.Get("SOFA")
	require.True(t, ok)
	assert.Equal(t, 1, item.Quantity)
}

func TestCartService_QueueAddItem_RefusedUpFront(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		productID   string
		quantity    int
		product     *model.Product
		lookup      bool
		expectedErr error
	}{
		{"Zero quantity", "SOFA", 0, nil, false, model.ErrInvalidQuantity},
		{"Unknown product", "NOPE", 1, nil, true, model.ErrProductNotFound},
		{"Out of stock", "GONE", 2, testProduct("GONE", 10_000, 0), true, model.ErrOutOfStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := new(MockCatalog)
			if tt.lookup {
				c.On("GetByID", ctx, tt.productID).Return(tt.product, nil)
			}
			timers := &manualTimers{}
			svc, _ := newCartService(t, c, timers)

			err := svc.QueueAddItem(ctx, tt.productID, tt.quantity)

			assert.Equal(t, tt.expectedErr, err)
			assert.Empty(t, timers.delays)
			c.AssertExpectations(t)
		})
	}
}

func TestCartService_SetQuantity(t *testing.T) {
	ctx := context.Background()
	c := new(MockCatalog)
	c.On("GetByID", ctx, "SOFA").Return(testProduct("SOFA", 1_500_000, 5), nil)
	svc, store := newCartService(t, c, &manualTimers{})
	_, err := svc.AddItem(ctx, "SOFA", 1)
	require.NoError(t, err)

	item, err := svc.SetQuantity(ctx, "SOFA", 9)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, 5, item.Quantity)

	item, err = svc.SetQuantity(ctx, "SOFA", 0)
	require.NoError(t, err)
	assert.Nil(t, item)
	assert.True(t, store.IsEmpty())

	item, err = svc.SetQuantity(ctx, "SOFA", 2)
	assert.Equal(t, model.ErrProductNotFound, err)
	assert.Nil(t, item)
}

func TestCartService_RemoveClearSummary(t *testing.T) {
	ctx := context.Background()
	c := new(MockCatalog)
	c.On("GetByID", ctx, "A").Return(testProduct("A", 1_000_000, 5), nil)
	c.On("GetByID", ctx, "B").Return(testProduct("B", 500_000, 5), nil)
	svc, _ := newCartService(t, c, &manualTimers{})

	_, err := svc.AddItem(ctx, "A", 2)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "B", 1)
	require.NoError(t, err)

	summary := svc.Summary(ctx)
	assert.Equal(t, 3, summary.ItemCount)
	assert.Equal(t, "2500000", summary.Totals.Subtotal.String())
	assert.Equal(t, "0", summary.Totals.ShippingFee.String())

	svc.RemoveItem(ctx, "A")
	svc.RemoveItem(ctx, "A")
	summary = svc.Summary(ctx)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, "B", summary.Items[0].ProductID)

	svc.Clear(ctx)
	assert.Equal(t, 0, svc.Summary(ctx).ItemCount)
}
