package app

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/calyxhq/calyx/internal/domain/fulfillment"
	"github.com/calyxhq/calyx/internal/domain/order"
	"github.com/calyxhq/calyx/internal/domain/product"
	"github.com/calyxhq/calyx/internal/domain/saleschannel"
	"github.com/calyxhq/calyx/internal/domain/stocklocation"
	"github.com/calyxhq/calyx/internal/domain/tax"
	"github.com/calyxhq/calyx/internal/link"
	"github.com/calyxhq/calyx/internal/storage/postgres"
	"github.com/calyxhq/calyx/internal/workflow"
)

// Platform bundles the wired module services, the order change engine and
// the link registry. It is the composition root consumed by whatever
// transport or job runner fronts the platform.
type Platform struct {
	Orders         order.Repository
	Processor      *order.Processor
	Workflows      *workflow.Runner
	Products       *product.Service
	SalesChannels  *saleschannel.Service
	StockLocations *stocklocation.Service
	Fulfillment    *fulfillment.Service
	Links          *link.Registry
	TaxResolver    *tax.Resolver
}

// NewPlatform wires repositories and services on top of the pool. The tax
// provider is external; a nil provider leaves carts untaxed until one is
// plugged in.
func NewPlatform(pool *pgxpool.Pool, taxProvider tax.Provider, lg *zap.Logger) *Platform {
	orderRepo := postgres.NewOrderRepository(pool)

	p := &Platform{
		Orders:         orderRepo,
		Processor:      order.NewProcessor(order.DefaultRegistry()),
		Workflows:      workflow.NewRunner(lg.Named("workflow")),
		Products:       product.NewService(postgres.NewProductRepository(pool)),
		SalesChannels:  saleschannel.NewService(postgres.NewSalesChannelRepository(pool)),
		StockLocations: stocklocation.NewService(postgres.NewStockLocationRepository(pool)),
		Fulfillment:    fulfillment.NewService(postgres.NewFulfillmentRepository(pool)),
		Links:          link.DefaultRegistry(),
	}
	if taxProvider != nil {
		p.TaxResolver = tax.NewResolver(taxProvider)
	}
	return p
}
