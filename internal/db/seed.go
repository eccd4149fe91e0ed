package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/andreasstove999/storefront-backend/internal/catalog"
)

// Seed data for local development, tests and the /reset endpoint. Product
// ids are fixed so reseeding is stable across runs.
var seedProducts = []catalog.Product{
	{ID: "d3a2f1c0-5b1e-4f7a-9c3d-111111111111", Name: "Black and Gray Athletic Cotton Socks - 6 Pairs", Image: "images/products/athletic-cotton-socks-6-pairs.jpg", Stars: 4.5, RatingCount: 87, PriceCents: 1090, Keywords: []string{"socks", "sports", "apparel"}},
	{ID: "d3a2f1c0-5b1e-4f7a-9c3d-222222222222", Name: "Intermediate Size Basketball", Image: "images/products/intermediate-composite-basketball.jpg", Stars: 4.0, RatingCount: 127, PriceCents: 2095, Keywords: []string{"sports", "basketballs"}},
	{ID: "d3a2f1c0-5b1e-4f7a-9c3d-333333333333", Name: "Adults Plain Cotton T-Shirt - 2 Pack", Image: "images/products/adults-plain-cotton-tshirt-2-pack-teal.jpg", Stars: 4.5, RatingCount: 56, PriceCents: 799, Keywords: []string{"tshirts", "apparel", "mens"}},
	{ID: "d3a2f1c0-5b1e-4f7a-9c3d-444444444444", Name: "2 Slot Toaster - Black", Image: "images/products/black-2-slot-toaster.jpg", Stars: 5.0, RatingCount: 2197, PriceCents: 1899, Keywords: []string{"toaster", "kitchen", "appliances"}},
	{ID: "d3a2f1c0-5b1e-4f7a-9c3d-555555555555", Name: "6 Piece White Dinner Plate Set", Image: "images/products/6-piece-white-dinner-plate-set.jpg", Stars: 4.0, RatingCount: 37, PriceCents: 2067, Keywords: []string{"plates", "kitchen", "dining"}},
	{ID: "d3a2f1c0-5b1e-4f7a-9c3d-666666666666", Name: "Plain Hooded Fleece Sweatshirt", Image: "images/products/plain-hooded-fleece-sweatshirt-yellow.jpg", Stars: 4.5, RatingCount: 317, PriceCents: 2400, Keywords: []string{"hoodies", "sweaters", "apparel"}},
	{ID: "d3a2f1c0-5b1e-4f7a-9c3d-777777777777", Name: "Luxury Towel Set - Graphite Gray", Image: "images/products/luxury-tower-set-6-piece.jpg", Stars: 4.5, RatingCount: 175, PriceCents: 3599, Keywords: []string{"bathroom", "towels", "bath towels"}},
	{ID: "d3a2f1c0-5b1e-4f7a-9c3d-888888888888", Name: "Waterproof Knit Athletic Sneakers - Gray", Image: "images/products/knit-athletic-sneakers-gray.jpg", Stars: 4.0, RatingCount: 89, PriceCents: 3390, Keywords: []string{"shoes", "running shoes", "footwear"}},
}

var seedDeliveryOptions = []catalog.DeliveryOption{
	{ID: "1", DeliveryDays: 7, PriceCents: 0},
	{ID: "2", DeliveryDays: 3, PriceCents: 499},
	{ID: "3", DeliveryDays: 1, PriceCents: 999},
}

// Seed populates empty tables with the fixture catalog, a small cart and two
// historical orders. Each table is guarded by a count so reseeding a
// partially populated database never duplicates rows.
func Seed(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger) error {
	if err := seedProductsTable(ctx, pool, log); err != nil {
		return err
	}
	if err := seedDeliveryOptionsTable(ctx, pool, log); err != nil {
		return err
	}
	if err := seedCartItems(ctx, pool, log); err != nil {
		return err
	}
	return seedOrders(ctx, pool, log)
}

// Reset wipes all tables in one transaction and reseeds from scratch.
func Reset(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, table := range []string{"order_items", "orders", "cart_items", "delivery_options", "products"} {
		if _, err := tx.Exec(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return Seed(ctx, pool, log)
}

func seedProductsTable(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger) error {
	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		log.Debug().Msg("products already exist, skipping seeding")
		return nil
	}

	for _, p := range seedProducts {
		_, err := pool.Exec(ctx, `
			INSERT INTO products (id, name, image, stars, rating_count, price_cents, keywords)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO NOTHING`,
			p.ID, p.Name, p.Image, p.Stars, p.RatingCount, p.PriceCents, p.Keywords)
		if err != nil {
			return fmt.Errorf("seed product %s: %w", p.ID, err)
		}
	}
	log.Info().Int("count", len(seedProducts)).Msg("products seeded")
	return nil
}

func seedDeliveryOptionsTable(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger) error {
	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM delivery_options`).Scan(&count); err != nil {
		return fmt.Errorf("count delivery options: %w", err)
	}
	if count > 0 {
		log.Debug().Msg("delivery options already exist, skipping seeding")
		return nil
	}

	for _, o := range seedDeliveryOptions {
		_, err := pool.Exec(ctx, `
			INSERT INTO delivery_options (id, delivery_days, price_cents)
			VALUES ($1, $2, $3)
			ON CONFLICT (id) DO NOTHING`,
			o.ID, o.DeliveryDays, o.PriceCents)
		if err != nil {
			return fmt.Errorf("seed delivery option %s: %w", o.ID, err)
		}
	}
	log.Info().Int("count", len(seedDeliveryOptions)).Msg("delivery options seeded")
	return nil
}

func seedCartItems(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger) error {
	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM cart_items`).Scan(&count); err != nil {
		return fmt.Errorf("count cart items: %w", err)
	}
	if count > 0 {
		log.Debug().Msg("cart items already exist, skipping seeding")
		return nil
	}

	fixtures := []struct {
		productID        string
		quantity         int
		deliveryOptionID string
	}{
		{seedProducts[0].ID, 2, seedDeliveryOptions[0].ID},
		{seedProducts[1].ID, 1, seedDeliveryOptions[1].ID},
	}
	for _, f := range fixtures {
		_, err := pool.Exec(ctx, `
			INSERT INTO cart_items (id, product_id, quantity, delivery_option_id)
			VALUES ($1, $2, $3, $4)`,
			uuid.NewString(), f.productID, f.quantity, f.deliveryOptionID)
		if err != nil {
			return fmt.Errorf("seed cart item: %w", err)
		}
	}
	log.Info().Int("count", len(fixtures)).Msg("cart items seeded")
	return nil
}

func seedOrders(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger) error {
	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count); err != nil {
		return fmt.Errorf("count orders: %w", err)
	}
	if count > 0 {
		log.Debug().Msg("orders already exist, skipping seeding")
		return nil
	}

	type seedItem struct {
		productID string
		quantity  int
		etaMs     int64
	}
	orders := []struct {
		id          string
		orderTimeMs int64
		totalCents  int
		items       []seedItem
	}{
		{
			id:          "27cba69d-4c3d-4098-b42d-ac7fa62b7664",
			orderTimeMs: 1723456800000,
			totalCents:  3506,
			items: []seedItem{
				{seedProducts[0].ID, 1, 1723716000000},
				{seedProducts[2].ID, 2, 1723543200000},
			},
		},
		{
			id:          "b6b6c212-d30e-4d4a-805d-90b52ce6b37d",
			orderTimeMs: 1718013600000,
			totalCents:  4190,
			items: []seedItem{
				{seedProducts[1].ID, 2, 1718618400000},
			},
		},
	}

	for _, o := range orders {
		tx, err := pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO orders (id, order_time_ms, total_cost_cents) VALUES ($1, $2, $3)`,
			o.id, o.orderTimeMs, o.totalCents)
		if err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("seed order %s: %w", o.id, err)
		}
		for _, it := range o.items {
			_, err = tx.Exec(ctx, `
				INSERT INTO order_items (id, order_id, product_id, quantity, estimated_delivery_time_ms)
				VALUES ($1, $2, $3, $4, $5)`,
				uuid.NewString(), o.id, it.productID, it.quantity, it.etaMs)
			if err != nil {
				_ = tx.Rollback(ctx)
				return fmt.Errorf("seed order item: %w", err)
			}
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit: %w", err)
		}
	}
	log.Info().Int("count", len(orders)).Msg("orders seeded")
	return nil
}
