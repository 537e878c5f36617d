// Package pricing holds the money rules of the storefront: what a unit
// costs, what a line costs and how a cart turns into order totals.
//
// All functions are pure. Inputs that break the line item invariants
// (non-positive prices, a discount that is not below the base price) are
// treated as "no discount" rather than reported.
package pricing

import (
	"furnistore/internal/model"

	"github.com/shopspring/decimal"
)

var (
	// FreeShippingThreshold is the subtotal above which shipping is waived.
	// A subtotal equal to the threshold still pays shipping.
	FreeShippingThreshold = decimal.NewFromInt(2_000_000)

	// FlatShippingFee is charged when the subtotal does not exceed the threshold.
	FlatShippingFee = decimal.NewFromInt(50_000)

	// TaxRate is applied to the subtotal only; shipping is not taxed.
	TaxRate = decimal.RequireFromString("0.11")
)

var hundred = decimal.NewFromInt(100)

// EffectivePrice returns the price charged per unit: the discount price when
// it is set and below the base price, otherwise the base price.
func EffectivePrice(item model.LineItem) decimal.Decimal {
	if hasDiscount(item.UnitPrice, item.DiscountUnitPrice) {
		return item.DiscountUnitPrice.Decimal
	}
	return item.UnitPrice
}

// DiscountPercentage returns round((base - discount) / base * 100), or 0 when
// there is no usable discount.
func DiscountPercentage(base decimal.Decimal, discount decimal.NullDecimal) int {
	if !hasDiscount(base, discount) {
		return 0
	}

	pct := base.Sub(discount.Decimal).Div(base).Mul(hundred).Round(0).IntPart()
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return int(pct)
}

// LineTotal returns EffectivePrice(item) * item.Quantity.
func LineTotal(item model.LineItem) decimal.Decimal {
	return EffectivePrice(item).Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// Subtotal sums the line totals of items.
func Subtotal(items []model.LineItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(LineTotal(item))
	}
	return subtotal
}

// ShippingFee returns the shipping charged for a given subtotal.
func ShippingFee(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(FreeShippingThreshold) {
		return decimal.Zero
	}
	return FlatShippingFee
}

// Tax returns the tax due on a subtotal. The result is exact, not rounded.
func Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(TaxRate)
}

// OrderTotals derives subtotal, shipping, tax and grand total from items.
func OrderTotals(items []model.LineItem) model.OrderTotals {
	subtotal := Subtotal(items)
	shipping := ShippingFee(subtotal)
	tax := Tax(subtotal)

	return model.OrderTotals{
		Subtotal:    subtotal,
		ShippingFee: shipping,
		Tax:         tax,
		GrandTotal:  subtotal.Add(shipping).Add(tax),
	}
}

// ItemCount sums the quantities of items.
func ItemCount(items []model.LineItem) int {
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count
}

func hasDiscount(base decimal.Decimal, discount decimal.NullDecimal) bool {
	return discount.Valid &&
		discount.Decimal.IsPositive() &&
		base.IsPositive() &&
		discount.Decimal.LessThan(base)
}
