package catalog

import (
	"context"
	"fmt"
	"sort"

	"furnistore/internal/model"

	"github.com/rs/zerolog"
)

// memoryCatalog serves a fixed product list from memory, ordered by name.
type memoryCatalog struct {
	products []model.Product
	index    map[string]int
	logger   zerolog.Logger
}

// NewMemoryCatalog builds a catalog from products. When an id appears more
// than once the later entry wins.
func NewMemoryCatalog(products []model.Product, logger zerolog.Logger) Catalog {
	logger = logger.With().Str("component", "memory-catalog").Logger()

	byID := make(map[string]model.Product, len(products))
	for _, p := range products {
		if _, dup := byID[p.ID]; dup {
			logger.Warn().Str("product_id", p.ID).Msg("duplicate product id, keeping the later entry")
		}
		byID[p.ID] = p
	}

	sorted := make([]model.Product, 0, len(byID))
	for _, p := range byID {
		sorted = append(sorted, p)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].ID < sorted[j].ID
	})

	index := make(map[string]int, len(sorted))
	for i, p := range sorted {
		index[p.ID] = i
	}

	return &memoryCatalog{
		products: sorted,
		index:    index,
		logger:   logger,
	}
}

// LoadMemoryCatalog reads location with loader and serves the result from
// memory.
func LoadMemoryCatalog(ctx context.Context, loader Loader, location string, logger zerolog.Logger) (Catalog, error) {
	products, err := loader.Load(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return NewMemoryCatalog(products, logger), nil
}

func (c *memoryCatalog) GetByID(ctx context.Context, id string) (*model.Product, error) {
	i, ok := c.index[id]
	if !ok {
		c.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, nil
	}
	p := c.products[i]
	return &p, nil
}

func (c *memoryCatalog) List(ctx context.Context, limit, offset int) ([]model.Product, error) {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(c.products) {
		return []model.Product{}, nil
	}

	end := len(c.products)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	out := make([]model.Product, end-offset)
	copy(out, c.products[offset:end])
	return out, nil
}
