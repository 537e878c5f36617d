package service

import (
	"context"
	"time"

	"furnistore/internal/cart"
	"furnistore/internal/catalog"
	"furnistore/internal/model"

	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	store    *cart.Store
	catalog  catalog.Catalog
	addDelay time.Duration
	logger   zerolog.Logger
}

// NewCartService creates a cart service. addDelay is how long a queued
// add waits before it reaches the store.
func NewCartService(store *cart.Store, c catalog.Catalog, addDelay time.Duration, logger zerolog.Logger) CartService {
	return &cartService{
		store:    store,
		catalog:  c,
		addDelay: addDelay,
		logger:   logger.With().Str("service", "cart").Logger(),
	}
}

func (s *cartService) AddItem(ctx context.Context, productID string, quantity int) (model.LineItem, error) {
	product, err := lookupProduct(ctx, s.catalog, productID, s.logger)
	if err != nil {
		return model.LineItem{}, err
	}

	return s.store.AddItem(*product, quantity)
}

func (s *cartService) QueueAddItem(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		return model.ErrInvalidQuantity
	}

	product, err := lookupProduct(ctx, s.catalog, productID, s.logger)
	if err != nil {
		return err
	}
	if product.Stock < 1 {
		return model.ErrOutOfStock
	}

	s.store.AddItemAsync(*product, quantity, s.addDelay, func(item model.LineItem, err error) {
		if err != nil {
			s.logger.Warn().Err(err).Str("product_id", productID).Msg("queued add failed")
			return
		}
		s.logger.Debug().
			Str("product_id", item.ProductID).
			Int("quantity", item.Quantity).
			Msg("queued add applied")
	})

	return nil
}

func (s *cartService) AddDelay() time.Duration {
	return s.addDelay
}

func (s *cartService) SetQuantity(ctx context.Context, productID string, quantity int) (*model.LineItem, error) {
	if _, ok := s.store.Get(productID); !ok {
		return nil, model.ErrProductNotFound
	}

	item, ok := s.store.SetQuantity(productID, quantity)
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (s *cartService) RemoveItem(ctx context.Context, productID string) {
	s.store.RemoveItem(productID)
}

func (s *cartService) Clear(ctx context.Context) {
	s.store.Clear()
}

func (s *cartService) Summary(ctx context.Context) cart.Summary {
	return s.store.Summary()
}
