package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/calyxhq/calyx/internal/domain/product"
	"github.com/calyxhq/calyx/internal/domain/saleschannel"
	"github.com/calyxhq/calyx/internal/domain/stocklocation"
	"github.com/calyxhq/calyx/internal/storage/postgres"
)

type seedFile struct {
	Products []struct {
		ID           string          `json:"id"`
		Title        string          `json:"title"`
		Handle       string          `json:"handle"`
		SKU          string          `json:"sku"`
		TypeID       string          `json:"type_id"`
		Price        decimal.Decimal `json:"price"`
		CurrencyCode string          `json:"currency_code"`
	} `json:"products"`
	SalesChannels []struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
	} `json:"sales_channels"`
	StockLocations []struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		City        string `json:"city"`
		CountryCode string `json:"country_code"`
	} `json:"stock_locations"`
}

func main() {
	var (
		databaseURL string
		seedPath    string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&seedPath, "seed-file", "db/seed/platform.json", "path to seed JSON file")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, seedPath); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, seedPath string) error {
	data, err := os.ReadFile(seedPath)
	if err != nil {
		return errors.Wrapf(err, "read %s", seedPath)
	}

	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return errors.Wrapf(err, "parse %s", seedPath)
	}

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	products := product.NewService(postgres.NewProductRepository(pool))
	for _, p := range seed.Products {
		if _, err := products.Create(ctx, product.Product{
			ID:           p.ID,
			Title:        p.Title,
			Handle:       p.Handle,
			SKU:          p.SKU,
			TypeID:       p.TypeID,
			Price:        p.Price,
			CurrencyCode: p.CurrencyCode,
		}); err != nil {
			return errors.Wrapf(err, "seed product %s", p.Title)
		}
	}
	slog.Info("products seeded", slog.Int("count", len(seed.Products)))

	channels := saleschannel.NewService(postgres.NewSalesChannelRepository(pool))
	for _, sc := range seed.SalesChannels {
		if _, err := channels.Create(ctx, saleschannel.SalesChannel{
			ID:          sc.ID,
			Name:        sc.Name,
			Description: sc.Description,
		}); err != nil {
			return errors.Wrapf(err, "seed sales channel %s", sc.Name)
		}
	}
	slog.Info("sales channels seeded", slog.Int("count", len(seed.SalesChannels)))

	locations := stocklocation.NewService(postgres.NewStockLocationRepository(pool))
	for _, l := range seed.StockLocations {
		if _, err := locations.Create(ctx, stocklocation.StockLocation{
			ID:   l.ID,
			Name: l.Name,
			Address: stocklocation.Address{
				City:        l.City,
				CountryCode: l.CountryCode,
			},
		}); err != nil {
			return errors.Wrapf(err, "seed stock location %s", l.Name)
		}
	}
	slog.Info("stock locations seeded", slog.Int("count", len(seed.StockLocations)))

	return nil
}
