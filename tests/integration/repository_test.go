//go:build integration

package integration

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/calyxhq/calyx/internal/domain/fulfillment"
	"github.com/calyxhq/calyx/internal/domain/order"
	"github.com/calyxhq/calyx/internal/domain/product"
	"github.com/calyxhq/calyx/internal/storage/postgres"
)

var pool *pgxpool.Pool

func TestMain(m *testing.M) {
	os.Exit(testMain(m))
}

func testMain(m *testing.M) int {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "calyx",
				"POSTGRES_PASSWORD": "calyx",
				"POSTGRES_DB":       "calyx",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		log.Fatalf("start postgres container: %v", err)
	}
	defer func() {
		if err := container.Terminate(context.Background()); err != nil {
			log.Printf("terminate container: %v", err)
		}
	}()

	host, err := container.Host(ctx)
	if err != nil {
		log.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		log.Fatalf("mapped port: %v", err)
	}

	databaseURL := fmt.Sprintf("postgres://calyx:calyx@%s:%s/calyx?sslmode=disable", host, port.Port())

	pool, err = postgres.NewPool(ctx, databaseURL)
	if err != nil {
		log.Fatalf("create pool: %v", err)
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	return m.Run()
}

func TestOrderRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewOrderRepository(pool)

	src := &order.Order{
		ID:           "order_it_1",
		CurrencyCode: "usd",
		Items: []*order.LineItem{
			{
				ID:        "item_1",
				Title:     "Keyboard",
				UnitPrice: decimal.RequireFromString("49.99"),
				Quantity:  2,
				Detail:    order.LineItemDetail{Quantity: 2, FulfilledQuantity: 1},
			},
		},
		ShippingMethods: []*order.ShippingMethod{
			{ID: "sm_1", Name: "Express", ShippingOptionID: "so_1", Amount: decimal.RequireFromString("7.50")},
		},
		Summary: order.Summary{
			Subtotal:      decimal.RequireFromString("99.98"),
			ShippingTotal: decimal.RequireFromString("7.50"),
			ReturnTotal:   decimal.Zero,
			WriteOffTotal: decimal.Zero,
			Total:         decimal.RequireFromString("107.48"),
		},
	}

	require.NoError(t, repo.Create(ctx, src))

	got, err := repo.Get(ctx, src.ID)
	require.NoError(t, err)
	assert.Equal(t, src.CurrencyCode, got.CurrencyCode)
	require.Len(t, got.Items, 1)
	assert.Equal(t, src.Items[0].Detail, got.Items[0].Detail)
	assert.True(t, got.Items[0].UnitPrice.Equal(src.Items[0].UnitPrice))
	require.Len(t, got.ShippingMethods, 1)
	assert.True(t, got.Summary.Total.Equal(src.Summary.Total))
	assert.False(t, got.CreatedAt.IsZero())
}

func TestOrderUpdateStateAndSummary(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewOrderRepository(pool)

	src := &order.Order{
		ID:           "order_it_2",
		CurrencyCode: "usd",
		Items: []*order.LineItem{
			{ID: "item_1", UnitPrice: decimal.RequireFromString("10.00"), Quantity: 1, Detail: order.LineItemDetail{Quantity: 1}},
		},
	}
	require.NoError(t, repo.Create(ctx, src))

	// Apply a change to the projection and persist the processed state.
	proj := src.Project()
	p := order.NewProcessor(order.DefaultRegistry())
	_, err := p.ApplyActions(proj, []order.ChangeAction{
		{
			ReferenceID: "item_2",
			Action:      order.ActionItemAdd,
			Details: order.ActionDetails{
				Quantity:     3,
				UnitPrice:    decimal.RequireFromString("5.00"),
				HasUnitPrice: true,
			},
		},
	})
	require.NoError(t, err)
	summary := order.RecomputeSummary(proj)

	require.NoError(t, repo.UpdateState(ctx, proj))
	require.NoError(t, repo.UpdateSummary(ctx, proj.ID, summary))

	got, err := repo.Get(ctx, src.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)
	assert.True(t, got.Summary.Total.Equal(decimal.RequireFromString("25.00")))
}

func TestOrderChanges(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewOrderRepository(pool)

	require.NoError(t, repo.Create(ctx, &order.Order{ID: "order_it_3", CurrencyCode: "usd"}))

	first := &order.Change{
		ID:      "ordch_1",
		OrderID: "order_it_3",
		Actions: []order.ChangeAction{
			{
				ID:          "ordchact_1",
				ReferenceID: "item_1",
				Action:      order.ActionItemAdd,
				Details: order.ActionDetails{
					Quantity:     2,
					UnitPrice:    decimal.RequireFromString("12.50"),
					HasUnitPrice: true,
				},
			},
		},
	}
	second := &order.Change{
		ID:      "ordch_2",
		OrderID: "order_it_3",
		Actions: []order.ChangeAction{
			{
				ID:     "ordchact_2",
				Action: order.ActionFulfillItem,
				Details: order.ActionDetails{
					ReferenceID: "item_1",
					Quantity:    1,
				},
			},
		},
	}

	require.NoError(t, repo.CreateChange(ctx, first))
	require.NoError(t, repo.CreateChange(ctx, second))

	got, err := repo.GetChange(ctx, "ordch_1")
	require.NoError(t, err)
	require.Len(t, got.Actions, 1)
	assert.Equal(t, order.ActionItemAdd, got.Actions[0].Action)
	assert.True(t, got.Actions[0].Details.HasUnitPrice)
	assert.False(t, got.Actions[0].HasAmount)

	changes, err := repo.ListChanges(ctx, "order_it_3")
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, "ordch_1", changes[0].ID, "oldest first")
	assert.Equal(t, "ordch_2", changes[1].ID)
}

func TestProductCRUD(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewProductRepository(pool)

	p := &product.Product{
		ID:           "prod_it_1",
		Title:        "Calyx Tee",
		Handle:       "calyx-tee-it",
		SKU:          "IT-TEE-01",
		Price:        decimal.RequireFromString("19.50"),
		CurrencyCode: "usd",
	}
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Calyx Tee", got.Title)
	assert.True(t, got.Price.Equal(p.Price))

	got.Title = "Calyx Tee v2"
	require.NoError(t, repo.Update(ctx, got))

	require.NoError(t, repo.SoftDelete(ctx, p.ID))
	_, err = repo.Get(ctx, p.ID)
	assert.ErrorIs(t, err, product.ErrNotFound)

	require.NoError(t, repo.Restore(ctx, p.ID))
	got, err = repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Calyx Tee v2", got.Title)
}

func TestProductDuplicateHandle(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewProductRepository(pool)

	require.NoError(t, repo.Create(ctx, &product.Product{
		ID: "prod_it_2", Title: "A", Handle: "dup-handle-it",
	}))

	err := repo.Create(ctx, &product.Product{
		ID: "prod_it_3", Title: "B", Handle: "dup-handle-it",
	})
	require.Error(t, err)

	var constraint *postgres.ConstraintViolationError
	require.ErrorAs(t, err, &constraint)
	assert.Equal(t, "products_handle_key", constraint.Constraint)
}

func TestProductUpsertBySKU(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewProductRepository(pool)

	require.NoError(t, repo.UpsertBySKU(ctx, &product.Product{
		ID:    "prod_it_4",
		Title: "Feed Import v1",
		SKU:   "IT-FEED-01",
		Price: decimal.RequireFromString("10.00"),
	}))

	// Same SKU again: existing row wins the id, fields are overwritten.
	require.NoError(t, repo.UpsertBySKU(ctx, &product.Product{
		ID:    "prod_it_5",
		Title: "Feed Import v2",
		SKU:   "IT-FEED-01",
		Price: decimal.RequireFromString("12.00"),
	}))

	got, err := repo.Get(ctx, "prod_it_4")
	require.NoError(t, err)
	assert.Equal(t, "Feed Import v2", got.Title)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("12.00")))

	_, err = repo.Get(ctx, "prod_it_5")
	assert.ErrorIs(t, err, product.ErrNotFound, "conflicting insert must not create a second row")
}

func TestFulfillmentSetWithZones(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewFulfillmentRepository(pool)

	fs := &fulfillment.FulfillmentSet{
		ID:   "fset_it_1",
		Name: "European shipping IT",
		Type: "shipping",
		ServiceZones: []fulfillment.ServiceZone{
			{
				ID:               "serzo_it_1",
				FulfillmentSetID: "fset_it_1",
				Name:             "Benelux IT",
				GeoZones: []fulfillment.GeoZone{
					{Type: "country", CountryCode: "nl"},
					{Type: "country", CountryCode: "be"},
				},
			},
		},
	}
	require.NoError(t, repo.CreateSet(ctx, fs))

	got, err := repo.GetSet(ctx, fs.ID)
	require.NoError(t, err)
	require.Len(t, got.ServiceZones, 1)
	assert.Equal(t, "Benelux IT", got.ServiceZones[0].Name)
	assert.Len(t, got.ServiceZones[0].GeoZones, 2)
}

func TestServiceZoneDuplicateName(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewFulfillmentRepository(pool)

	require.NoError(t, repo.CreateSet(ctx, &fulfillment.FulfillmentSet{
		ID:   "fset_it_2",
		Name: "Pickup IT",
		Type: "pickup",
	}))

	z := &fulfillment.ServiceZone{
		ID:               "serzo_it_2",
		FulfillmentSetID: "fset_it_2",
		Name:             "Nordics IT",
	}
	require.NoError(t, repo.CreateServiceZone(ctx, z))

	dup := &fulfillment.ServiceZone{
		ID:               "serzo_it_3",
		FulfillmentSetID: "fset_it_2",
		Name:             "Nordics IT",
	}
	err := repo.CreateServiceZone(ctx, dup)
	require.Error(t, err)

	var constraint *postgres.ConstraintViolationError
	assert.ErrorAs(t, err, &constraint)
}
