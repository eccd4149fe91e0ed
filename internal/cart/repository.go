package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrNotFound = errors.New("not found")

// ForeignKeyError reports a cart item referencing a row that does not exist.
type ForeignKeyError struct {
	Field string
}

func (e *ForeignKeyError) Error() string {
	return fmt.Sprintf("%s references a missing row", e.Field)
}

// DBPool matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type Repository interface {
	List(ctx context.Context) ([]Item, error)
	FindByProduct(ctx context.Context, productID string) (*Item, error)
	Create(ctx context.Context, item *Item) error
	Update(ctx context.Context, id string, patch UpdatePatch) (Item, error)
	Delete(ctx context.Context, id string) error
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) List(ctx context.Context) ([]Item, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, product_id, quantity, delivery_option_id FROM cart_items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select cart items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.ProductID, &it.Quantity, &it.DeliveryOptionID); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return items, nil
}

func (r *PostgresRepository) FindByProduct(ctx context.Context, productID string) (*Item, error) {
	var it Item
	row := r.pool.QueryRow(ctx,
		`SELECT id, product_id, quantity, delivery_option_id FROM cart_items WHERE product_id=$1`, productID)
	if err := row.Scan(&it.ID, &it.ProductID, &it.Quantity, &it.DeliveryOptionID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select cart item by product: %w", err)
	}
	return &it, nil
}

func (r *PostgresRepository) Create(ctx context.Context, item *Item) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO cart_items (id, product_id, quantity, delivery_option_id) VALUES ($1, $2, $3, $4)`,
		item.ID, item.ProductID, item.Quantity, item.DeliveryOptionID)
	if err != nil {
		return fmt.Errorf("insert cart item: %w", asForeignKeyError(err))
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, patch UpdatePatch) (Item, error) {
	var it Item
	row := r.pool.QueryRow(ctx, `
		UPDATE cart_items
		SET quantity = COALESCE($2, quantity),
		    delivery_option_id = COALESCE($3, delivery_option_id)
		WHERE id = $1
		RETURNING id, product_id, quantity, delivery_option_id
	`, id, patch.Quantity, patch.DeliveryOptionID)
	if err := row.Scan(&it.ID, &it.ProductID, &it.Quantity, &it.DeliveryOptionID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, ErrNotFound
		}
		return Item{}, fmt.Errorf("update cart item: %w", asForeignKeyError(err))
	}
	return it, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// asForeignKeyError converts a Postgres foreign key violation (23503) into a
// *ForeignKeyError naming the offending field, so handlers can answer 400
// instead of 500. Other errors pass through unchanged.
func asForeignKeyError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23503" {
		return err
	}

	field := "reference"
	switch {
	case strings.Contains(pgErr.ConstraintName, "delivery_option"):
		field = "deliveryOptionId"
	case strings.Contains(pgErr.ConstraintName, "product"):
		field = "productId"
	}
	return &ForeignKeyError{Field: field}
}
