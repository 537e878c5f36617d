// Package catalog supplies the products shoppers can put in their cart.
package catalog

import (
	"context"

	"furnistore/internal/model"
)

// Catalog looks up products. GetByID returns (nil, nil) when the id is
// unknown; callers decide what a miss means.
type Catalog interface {
	GetByID(ctx context.Context, id string) (*model.Product, error)
	List(ctx context.Context, limit, offset int) ([]model.Product, error)
}

// Loader reads a product feed from a location such as a file path or an
// object key.
type Loader interface {
	Load(ctx context.Context, location string) ([]model.Product, error)
}
