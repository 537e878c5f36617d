package catalog

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"furnistore/internal/model"
)

// readProducts decodes one JSON product per line. Blank lines are skipped.
func readProducts(ctx context.Context, r io.Reader) ([]model.Product, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var products []model.Product
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%10_000 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var p model.Product
		if err := json.Unmarshal([]byte(line), &p); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if err := validateProduct(p); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		products = append(products, p)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func validateProduct(p model.Product) error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("product id is required")
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("product %s: price must not be negative", p.ID)
	}
	if p.DiscountPrice.Valid && p.DiscountPrice.Decimal.IsNegative() {
		return fmt.Errorf("product %s: discount price must not be negative", p.ID)
	}
	if p.Stock < 0 {
		return fmt.Errorf("product %s: stock must not be negative", p.ID)
	}
	return nil
}
