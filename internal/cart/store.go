// Package cart implements the cart store: an ordered collection of line
// items keyed by product, with merge-on-add and stock-bounded quantities.
package cart

import (
	"sync"
	"time"

	"furnistore/internal/model"
	"furnistore/internal/pricing"

	"github.com/rs/zerolog"
)

// AfterFunc schedules f to run once after d. It matches time.AfterFunc
// without the returned timer; delayed cart effects are never cancelled.
type AfterFunc func(d time.Duration, f func())

func realAfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// Summary is a consistent read of the cart's derived values.
type Summary struct {
	Items     []model.LineItem  `json:"items"`
	Totals    model.OrderTotals `json:"totals"`
	ItemCount int               `json:"itemCount"`
}

// Store is the single source of truth for the cart. It is shared by every
// reader that renders cart-derived state; all methods are safe to call from
// multiple goroutines and every read observes the latest completed mutation.
type Store struct {
	mu        sync.RWMutex
	items     []model.LineItem
	index     map[string]int
	afterFunc AfterFunc
	logger    zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithAfterFunc replaces the timer used for delayed adds.
func WithAfterFunc(fn AfterFunc) Option {
	return func(s *Store) {
		s.afterFunc = fn
	}
}

// NewStore creates an empty cart store.
func NewStore(logger zerolog.Logger, opts ...Option) *Store {
	s := &Store{
		index:     make(map[string]int),
		afterFunc: realAfterFunc,
		logger:    logger.With().Str("component", "cart-store").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddItem adds quantity units of product. An existing line for the product
// is incremented; the resulting quantity is clamped to the product's stock.
// A quantity below one is refused with model.ErrInvalidQuantity and a
// product with no stock with model.ErrOutOfStock.
func (s *Store) AddItem(product model.Product, quantity int) (model.LineItem, error) {
	if quantity < 1 {
		s.logger.Debug().
			Str("product_id", product.ID).
			Int("quantity", quantity).
			Msg("add refused: non-positive quantity")
		return model.LineItem{}, model.ErrInvalidQuantity
	}
	if product.Stock < 1 {
		s.logger.Debug().Str("product_id", product.ID).Msg("add refused: out of stock")
		return model.LineItem{}, model.ErrOutOfStock
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[product.ID]; ok {
		item := &s.items[i]
		item.StockLimit = product.Stock
		item.Quantity = s.clamp(product.ID, item.Quantity+quantity, item.StockLimit)

		s.logger.Debug().
			Str("product_id", product.ID).
			Int("quantity", item.Quantity).
			Msg("cart line incremented")
		return *item, nil
	}

	item := model.NewLineItem(product)
	item.Quantity = s.clamp(product.ID, quantity, item.StockLimit)

	s.index[product.ID] = len(s.items)
	s.items = append(s.items, item)

	s.logger.Debug().
		Str("product_id", product.ID).
		Int("quantity", item.Quantity).
		Msg("cart line created")
	return item, nil
}

// AddItemAsync applies AddItem after delay, against whatever the cart holds
// when the timer fires. done, if non-nil, receives the result. The call
// returns immediately.
func (s *Store) AddItemAsync(product model.Product, quantity int, delay time.Duration, done func(model.LineItem, error)) {
	s.afterFunc(delay, func() {
		item, err := s.AddItem(product, quantity)
		if done != nil {
			done(item, err)
		}
	})
}

// SetQuantity sets the quantity of an existing line, clamped to its stock
// limit. A quantity below one removes the line. The boolean result is false
// when no line remains for productID, including when it was never present.
func (s *Store) SetQuantity(productID string, quantity int) (model.LineItem, bool) {
	if quantity < 1 {
		s.RemoveItem(productID)
		return model.LineItem{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[productID]
	if !ok {
		return model.LineItem{}, false
	}

	item := &s.items[i]
	item.Quantity = s.clamp(productID, quantity, item.StockLimit)

	s.logger.Debug().
		Str("product_id", productID).
		Int("quantity", item.Quantity).
		Msg("cart line quantity set")
	return *item, true
}

// RemoveItem deletes the line for productID if present.
func (s *Store) RemoveItem(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[productID]
	if !ok {
		return
	}

	s.items = append(s.items[:i], s.items[i+1:]...)
	delete(s.index, productID)
	for j := i; j < len(s.items); j++ {
		s.index[s.items[j].ProductID] = j
	}

	s.logger.Debug().Str("product_id", productID).Msg("cart line removed")
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) == 0 {
		return
	}

	s.items = nil
	s.index = make(map[string]int)
	s.logger.Debug().Msg("cart cleared")
}

// Items returns a copy of the line items in the order they were first added.
func (s *Store) Items() []model.LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshot()
}

// Get returns the line for productID.
func (s *Store) Get(productID string) (model.LineItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[productID]
	if !ok {
		return model.LineItem{}, false
	}
	return s.items[i], true
}

// Len returns the number of distinct products in the cart.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}

// IsEmpty reports whether the cart holds no lines.
func (s *Store) IsEmpty() bool {
	return s.Len() == 0
}

// Totals derives the order totals of the current cart.
func (s *Store) Totals() model.OrderTotals {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return pricing.OrderTotals(s.items)
}

// ItemCount returns the total number of units in the cart.
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return pricing.ItemCount(s.items)
}

// Summary returns items, totals and item count from a single read.
func (s *Store) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Summary{
		Items:     s.snapshot(),
		Totals:    pricing.OrderTotals(s.items),
		ItemCount: pricing.ItemCount(s.items),
	}
}

func (s *Store) snapshot() []model.LineItem {
	items := make([]model.LineItem, len(s.items))
	copy(items, s.items)
	return items
}

// clamp bounds quantity to [1, limit]. limit is at least one because AddItem
// refuses products without stock.
func (s *Store) clamp(productID string, quantity, limit int) int {
	clamped := quantity
	if clamped > limit {
		clamped = limit
	}
	if clamped < 1 {
		clamped = 1
	}
	if clamped != quantity {
		s.logger.Debug().
			Str("product_id", productID).
			Int("requested", quantity).
			Int("applied", clamped).
			Msg("quantity clamped to stock")
	}
	return clamped
}
