package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrNotFound = errors.New("not found")

// DBPool matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type Repository interface {
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, productID string) (Product, error)
	ProductsByIDs(ctx context.Context, ids []string) (map[string]Product, error)
	ListDeliveryOptions(ctx context.Context) ([]DeliveryOption, error)
	DeliveryOptionsByIDs(ctx context.Context, ids []string) (map[string]DeliveryOption, error)
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const productColumns = `id, name, image, stars, rating_count, price_cents, keywords`

func (r *PostgresRepository) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *PostgresRepository) GetProduct(ctx context.Context, productID string) (Product, error) {
	var p Product
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, productID)
	if err := row.Scan(&p.ID, &p.Name, &p.Image, &p.Stars, &p.RatingCount, &p.PriceCents, &p.Keywords); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("select product: %w", err)
	}
	return p, nil
}

// ProductsByIDs resolves a batch of product ids in a single query.
// Ids that do not exist are simply absent from the result map.
func (r *PostgresRepository) ProductsByIDs(ctx context.Context, ids []string) (map[string]Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("select products by ids: %w", err)
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}

func (r *PostgresRepository) ListDeliveryOptions(ctx context.Context) ([]DeliveryOption, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, delivery_days, price_cents FROM delivery_options ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select delivery options: %w", err)
	}
	defer rows.Close()

	var options []DeliveryOption
	for rows.Next() {
		var o DeliveryOption
		if err := rows.Scan(&o.ID, &o.DeliveryDays, &o.PriceCents); err != nil {
			return nil, fmt.Errorf("scan delivery option: %w", err)
		}
		options = append(options, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return options, nil
}

func (r *PostgresRepository) DeliveryOptionsByIDs(ctx context.Context, ids []string) (map[string]DeliveryOption, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, delivery_days, price_cents FROM delivery_options WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("select delivery options by ids: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]DeliveryOption)
	for rows.Next() {
		var o DeliveryOption
		if err := rows.Scan(&o.ID, &o.DeliveryDays, &o.PriceCents); err != nil {
			return nil, fmt.Errorf("scan delivery option: %w", err)
		}
		byID[o.ID] = o
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return byID, nil
}

func scanProducts(rows pgx.Rows) ([]Product, error) {
	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Image, &p.Stars, &p.RatingCount, &p.PriceCents, &p.Keywords); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return products, nil
}
