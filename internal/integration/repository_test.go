//go:build integration
// +build integration

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/andreasstove999/storefront-backend/internal/cart"
	"github.com/andreasstove999/storefront-backend/internal/db"
	"github.com/andreasstove999/storefront-backend/internal/order"
)

// startPostgres launches a temporary Postgres container, applies the
// migrations and seed fixtures, and returns a ready pool. Cleanup is
// registered with t.Cleanup.
func startPostgres(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16",
		Env:          map[string]string{"POSTGRES_USER": "postgres", "POSTGRES_PASSWORD": "postgres", "POSTGRES_DB": "storefront"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(30 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		terminateCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		require.NoError(t, container.Terminate(terminateCtx))
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://postgres:postgres@%s:%s/storefront?sslmode=disable", host, mappedPort.Port())

	require.NoError(t, db.RunMigrations(dsn, zerolog.Nop()))

	pool, err := db.NewPool(ctx, dsn, 4)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, db.Seed(ctx, pool, zerolog.Nop()))

	return pool
}

func anyProductID(ctx context.Context, t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()

	var id string
	require.NoError(t, pool.QueryRow(ctx, `SELECT id FROM products LIMIT 1`).Scan(&id))
	return id
}

func TestOrderRepository_DeleteLeavesNoOrphanItems(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool := startPostgres(ctx, t)
	repo := order.NewPostgresRepository(pool)

	productID := anyProductID(ctx, t, pool)
	orderTimeMs := time.Now().UnixMilli()

	o := &order.Order{
		OrderTimeMs:    orderTimeMs,
		TotalCostCents: 2398,
		Items: []order.Item{
			{ProductID: productID, Quantity: 1, EstimatedDeliveryTimeMs: orderTimeMs + 86_400_000},
			{ProductID: productID, Quantity: 2, EstimatedDeliveryTimeMs: orderTimeMs + 3*86_400_000},
		},
	}
	require.NoError(t, repo.Create(ctx, o))

	var count int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM order_items WHERE order_id=$1`, o.ID).Scan(&count))
	require.Equal(t, 2, count)

	require.NoError(t, repo.Delete(ctx, o.ID))

	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM order_items WHERE order_id=$1`, o.ID).Scan(&count))
	assert.Equal(t, 0, count)

	_, err := repo.GetByID(ctx, o.ID, false)
	assert.ErrorIs(t, err, order.ErrNotFound)
}

func TestCartRepository_TranslatesForeignKeyViolations(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool := startPostgres(ctx, t)
	repo := cart.NewPostgresRepository(pool)

	err := repo.Create(ctx, &cart.Item{ProductID: uuid.NewString(), Quantity: 1, DeliveryOptionID: "1"})
	var fkErr *cart.ForeignKeyError
	require.ErrorAs(t, err, &fkErr)
	assert.Equal(t, "productId", fkErr.Field)

	item := &cart.Item{ProductID: anyProductID(ctx, t, pool), Quantity: 1, DeliveryOptionID: "1"}
	require.NoError(t, repo.Create(ctx, item))

	missing := "no-such-option"
	_, err = repo.Update(ctx, item.ID, cart.UpdatePatch{DeliveryOptionID: &missing})
	fkErr = nil
	require.ErrorAs(t, err, &fkErr)
	assert.Equal(t, "deliveryOptionId", fkErr.Field)
}
