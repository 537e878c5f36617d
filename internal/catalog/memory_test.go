package catalog

import (
	"context"
	"errors"
	"testing"

	"furnistore/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleProducts() []model.Product {
	return []model.Product{
		{ID: "TBL-01", Name: "Dining table", Price: decimal.NewFromInt(2_750_000), Stock: 2},
		{ID: "CHR-01", Name: "Armchair", Price: decimal.NewFromInt(1_200_000), Stock: 6},
		{ID: "BED-01", Name: "Bed frame", Price: decimal.NewFromInt(3_100_000), Stock: 1},
	}
}

func TestMemoryCatalog_GetByID(t *testing.T) {
	c := NewMemoryCatalog(sampleProducts(), zerolog.Nop())
	ctx := context.Background()

	p, err := c.GetByID(ctx, "CHR-01")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Armchair", p.Name)

	missing, err := c.GetByID(ctx, "NOPE")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemoryCatalog_GetByIDReturnsCopy(t *testing.T) {
	c := NewMemoryCatalog(sampleProducts(), zerolog.Nop())
	ctx := context.Background()

	p, err := c.GetByID(ctx, "BED-01")
	require.NoError(t, err)
	p.Stock = 99

	again, err := c.GetByID(ctx, "BED-01")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Stock)
}

func TestMemoryCatalog_DuplicateIDLaterWins(t *testing.T) {
	products := append(sampleProducts(), model.Product{ID: "CHR-01", Name: "Armchair v2", Stock: 3})
	c := NewMemoryCatalog(products, zerolog.Nop())

	p, err := c.GetByID(context.Background(), "CHR-01")
	require.NoError(t, err)
	assert.Equal(t, "Armchair v2", p.Name)

	all, err := c.List(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMemoryCatalog_List(t *testing.T) {
	c := NewMemoryCatalog(sampleProducts(), zerolog.Nop())

	tests := []struct {
		name     string
		limit    int
		offset   int
		expected []string
	}{
		{"All ordered by name", 10, 0, []string{"CHR-01", "BED-01", "TBL-01"}},
		{"No limit", 0, 0, []string{"CHR-01", "BED-01", "TBL-01"}},
		{"First page", 2, 0, []string{"CHR-01", "BED-01"}},
		{"Second page", 2, 2, []string{"TBL-01"}},
		{"Past the end", 2, 5, []string{}},
		{"Negative offset", 1, -4, []string{"CHR-01"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := c.List(context.Background(), tt.limit, tt.offset)
			require.NoError(t, err)

			ids := make([]string, 0, len(products))
			for _, p := range products {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestLoadMemoryCatalog(t *testing.T) {
	ctx := context.Background()

	loader := new(mockLoader)
	loader.On("Load", ctx, "products.jsonl.gz").Return(sampleProducts(), nil)

	c, err := LoadMemoryCatalog(ctx, loader, "products.jsonl.gz", zerolog.Nop())
	require.NoError(t, err)

	p, err := c.GetByID(ctx, "TBL-01")
	require.NoError(t, err)
	assert.Equal(t, "Dining table", p.Name)
}

func TestLoadMemoryCatalog_LoaderError(t *testing.T) {
	ctx := context.Background()

	loader := new(mockLoader)
	loader.On("Load", ctx, mock.Anything).Return(nil, errors.New("disk on fire"))

	c, err := LoadMemoryCatalog(ctx, loader, "products.jsonl.gz", zerolog.Nop())

	require.Error(t, err)
	assert.Nil(t, c)
	assert.Contains(t, err.Error(), "failed to load catalog")
}
