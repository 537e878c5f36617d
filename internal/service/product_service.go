package service

import (
	"context"
	"fmt"

	"furnistore/internal/catalog"
	"furnistore/internal/model"

	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	catalog catalog.Catalog
	logger  zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(c catalog.Catalog, logger zerolog.Logger) ProductService {
	return &productService{
		catalog: c,
		logger:  logger.With().Str("service", "product").Logger(),
	}
}

// GetAll retrieves products with pagination.
func (s *productService) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	products, err := s.catalog.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to list products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	s.logger.Debug().
		Int("count", len(products)).
		Int("limit", limit).
		Int("offset", offset).
		Msg("retrieved products")

	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	return lookupProduct(ctx, s.catalog, id, s.logger)
}

func lookupProduct(ctx context.Context, c catalog.Catalog, id string, logger zerolog.Logger) (*model.Product, error) {
	if id == "" {
		logger.Warn().Msg("product ID is empty")
		return nil, model.ErrProductNotFound
	}

	product, err := c.GetByID(ctx, id)
	if err != nil {
		logger.Error().Err(err).Str("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}
