package main

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"furnistore/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type sampleProduct struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description,omitempty"`
	Category      string           `json:"category"`
	Image         string           `json:"image,omitempty"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discountPrice,omitempty"`
	Stock         int              `json:"stock"`
	CreatedAt     time.Time        `json:"createdAt"`
}

func idr(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func discounted(v int64) *decimal.Decimal {
	d := idr(v)
	return &d
}

// Writes a small furniture catalogue as gzipped JSON lines. With -database-url
// the same products are upserted into Postgres as well.
//
// Covers the interesting cart cases: a discounted item, a single-unit item,
// and one that is out of stock.
func main() {
	output := flag.String("output", "data/catalog/products.jsonl.gz", "catalog file to write")
	databaseURL := flag.String("database-url", "", "optional Postgres URL to seed")
	flag.Parse()

	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	products := []sampleProduct{
		{ID: "SOFA-01", Name: "Oslo 3-Seater Sofa", Description: "Linen upholstery, oak legs", Category: "living-room", Image: "/img/sofa-01.jpg", Price: idr(1500000), Stock: 4},
		{ID: "CHAIR-01", Name: "Bergen Dining Chair", Category: "dining", Image: "/img/chair-01.jpg", Price: idr(450000), DiscountPrice: discounted(399000), Stock: 12},
		{ID: "TABLE-01", Name: "Teak Dining Table", Description: "Seats six", Category: "dining", Image: "/img/table-01.jpg", Price: idr(3200000), Stock: 2},
		{ID: "LAMP-01", Name: "Arc Floor Lamp", Category: "lighting", Image: "/img/lamp-01.jpg", Price: idr(400000), DiscountPrice: discounted(300000), Stock: 10},
		{ID: "SHELF-01", Name: "Rattan Bookshelf", Category: "storage", Image: "/img/shelf-01.jpg", Price: idr(875000), Stock: 1},
		{ID: "RUG-01", Name: "Handwoven Jute Rug", Category: "living-room", Image: "/img/rug-01.jpg", Price: idr(650000), Stock: 0},
		{ID: "BED-01", Name: "Kayu Queen Bed Frame", Category: "bedroom", Image: "/img/bed-01.jpg", Price: idr(4100000), DiscountPrice: discounted(3690000), Stock: 3},
	}
	for i := range products {
		products[i].CreatedAt = created.Add(time.Duration(i) * time.Hour)
	}

	if err := os.MkdirAll(filepath.Dir(*output), 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	if err := writeCatalogFile(*output, products); err != nil {
		log.Fatalf("Failed to create %s: %v", *output, err)
	}
	fmt.Printf("Created %s with %d products\n", *output, len(products))

	if *databaseURL == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := seedDatabase(ctx, *databaseURL, products); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Printf("Seeded %d products into Postgres\n", len(products))
}

func writeCatalogFile(filePath string, products []sampleProduct) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	encoder := json.NewEncoder(gzipWriter)
	for _, p := range products {
		if err := encoder.Encode(p); err != nil {
			return fmt.Errorf("failed to write product %s: %w", p.ID, err)
		}
	}

	return nil
}

func seedDatabase(ctx context.Context, url string, products []sampleProduct) error {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return fmt.Errorf("unable to connect: %w", err)
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool); err != nil {
		return err
	}

	const upsert = `
		INSERT INTO products (id, name, description, category, image, price, discount_price, stock, created_at)
		VALUES ($1, $2, $3, $4, $5, $6::text::numeric, $7::text::numeric, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			image = EXCLUDED.image,
			price = EXCLUDED.price,
			discount_price = EXCLUDED.discount_price,
			stock = EXCLUDED.stock
	`

	for _, p := range products {
		var discount *string
		if p.DiscountPrice != nil {
			s := p.DiscountPrice.String()
			discount = &s
		}

		if _, err := pool.Exec(ctx, upsert,
			p.ID, p.Name, p.Description, p.Category, p.Image,
			p.Price.String(), discount, p.Stock, p.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to upsert %s: %w", p.ID, err)
		}
	}

	return nil
}
