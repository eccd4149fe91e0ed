package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/andreasstove999/storefront-backend/internal/catalog"
)

var ErrNotFound = errors.New("not found")

// DBPool matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, orderID string, expand bool) (*Order, error)
	List(ctx context.Context, expand bool) ([]Order, error)
	Delete(ctx context.Context, orderID string) error
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create persists the order and all of its items in a single transaction.
// Either everything lands or nothing does; a partial order is never visible.
func (r *PostgresRepository) Create(ctx context.Context, o *Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO orders (id, order_time_ms, total_cost_cents) VALUES ($1, $2, $3)`,
		o.ID, o.OrderTimeMs, o.TotalCostCents)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, it := range o.Items {
		_, err = tx.Exec(ctx,
			`INSERT INTO order_items (id, order_id, product_id, quantity, estimated_delivery_time_ms)
			 VALUES ($1, $2, $3, $4, $5)`,
			uuid.NewString(), o.ID, it.ProductID, it.Quantity, it.EstimatedDeliveryTimeMs)
		if err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, orderID string, expand bool) (*Order, error) {
	var o Order
	row := r.pool.QueryRow(ctx,
		`SELECT id, order_time_ms, total_cost_cents FROM orders WHERE id=$1`, orderID)
	if err := row.Scan(&o.ID, &o.OrderTimeMs, &o.TotalCostCents); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	items, err := r.loadItems(ctx, o.ID, expand)
	if err != nil {
		return nil, err
	}
	o.Items = items

	return &o, nil
}

func (r *PostgresRepository) List(ctx context.Context, expand bool) ([]Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, order_time_ms, total_cost_cents FROM orders ORDER BY order_time_ms DESC`)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.OrderTimeMs, &o.TotalCostCents); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	for i := range orders {
		items, err := r.loadItems(ctx, orders[i].ID, expand)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}

	return orders, nil
}

// Delete removes the order; order_items go with it via ON DELETE CASCADE.
func (r *PostgresRepository) Delete(ctx context.Context, orderID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id=$1`, orderID)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) loadItems(ctx context.Context, orderID string, expand bool) ([]Item, error) {
	if !expand {
		rows, err := r.pool.Query(ctx,
			`SELECT product_id, quantity, estimated_delivery_time_ms
			 FROM order_items WHERE order_id=$1 ORDER BY id`, orderID)
		if err != nil {
			return nil, fmt.Errorf("select order_items: %w", err)
		}
		defer rows.Close()

		var items []Item
		for rows.Next() {
			var it Item
			if err := rows.Scan(&it.ProductID, &it.Quantity, &it.EstimatedDeliveryTimeMs); err != nil {
				return nil, fmt.Errorf("scan order_item: %w", err)
			}
			items = append(items, it)
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("rows: %w", err)
		}
		return items, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT oi.product_id, oi.quantity, oi.estimated_delivery_time_ms,
		       p.id, p.name, p.image, p.stars, p.rating_count, p.price_cents, p.keywords
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id=$1
		ORDER BY oi.id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("select order_items with products: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		var p catalog.Product
		if err := rows.Scan(&it.ProductID, &it.Quantity, &it.EstimatedDeliveryTimeMs,
			&p.ID, &p.Name, &p.Image, &p.Stars, &p.RatingCount, &p.PriceCents, &p.Keywords); err != nil {
			return nil, fmt.Errorf("scan order_item with product: %w", err)
		}
		it.Product = &p
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return items, nil
}
