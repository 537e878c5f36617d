package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalogue entry as supplied by the catalog collaborator.
// Stock is read once when a product is added to the cart and becomes the
// line item's stock limit.
type Product struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Description   string              `json:"description,omitempty"`
	Category      string              `json:"category,omitempty"`
	Image         string              `json:"image,omitempty"`
	Price         decimal.Decimal     `json:"price"`
	DiscountPrice decimal.NullDecimal `json:"discountPrice"`
	Stock         int                 `json:"stock"`
	CreatedAt     time.Time           `json:"createdAt,omitempty"`
}

// LineItem is one product's presence in the cart.
type LineItem struct {
	ProductID         string              `json:"productId"`
	Name              string              `json:"name"`
	Image             string              `json:"image,omitempty"`
	Description       string              `json:"description,omitempty"`
	UnitPrice         decimal.Decimal     `json:"unitPrice"`
	DiscountUnitPrice decimal.NullDecimal `json:"discountUnitPrice"`
	Quantity          int                 `json:"quantity"`
	StockLimit        int                 `json:"stockLimit"`
}

// NewLineItem snapshots the display and price fields of a product.
// Quantity is left for the caller to set.
func NewLineItem(p Product) LineItem {
	return LineItem{
		ProductID:         p.ID,
		Name:              p.Name,
		Image:             p.Image,
		Description:       p.Description,
		UnitPrice:         p.Price,
		DiscountUnitPrice: p.DiscountPrice,
		StockLimit:        p.Stock,
	}
}
