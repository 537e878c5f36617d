package catalog

import (
	"context"
	"errors"
	"fmt"

	"furnistore/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Money columns are selected as text so no precision is lost on the way
// into decimal.Decimal.
const productColumns = `id, name, description, category, image,
	price::text, discount_price::text, stock, created_at`

// postgresCatalog implements Catalog on the products table.
type postgresCatalog struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgresCatalog creates a PostgreSQL-backed catalog.
func NewPostgresCatalog(pool *pgxpool.Pool, logger zerolog.Logger) Catalog {
	return &postgresCatalog{
		pool:   pool,
		logger: logger.With().Str("component", "postgres-catalog").Logger(),
	}
}

// List returns products ordered by name.
func (c *postgresCatalog) List(ctx context.Context, limit, offset int) ([]model.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products
		ORDER BY name, id
		LIMIT $1 OFFSET $2`

	rows, err := c.pool.Query(ctx, query, limit, offset)
	if err != nil {
		c.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			c.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		c.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product, or nil when there is none.
func (c *postgresCatalog) GetByID(ctx context.Context, id string) (*model.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products
		WHERE id = $1`

	p, err := scanProduct(c.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		c.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

func scanProduct(row pgx.Row) (model.Product, error) {
	var (
		p        model.Product
		price    string
		discount *string
	)
	if err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Category, &p.Image,
		&price, &discount, &p.Stock, &p.CreatedAt,
	); err != nil {
		return model.Product{}, err
	}

	var err error
	if p.Price, err = decimal.NewFromString(price); err != nil {
		return model.Product{}, fmt.Errorf("product %s: invalid price %q: %w", p.ID, price, err)
	}
	if discount != nil {
		d, err := decimal.NewFromString(*discount)
		if err != nil {
			return model.Product{}, fmt.Errorf("product %s: invalid discount price %q: %w", p.ID, *discount, err)
		}
		p.DiscountPrice = decimal.NewNullDecimal(d)
	}

	return p, nil
}
