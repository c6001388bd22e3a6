package link

// Definitions returns the canonical link set declared by the platform.
func Definitions() []Definition {
	return []Definition{
		{
			Left:  Endpoint{Module: ModuleProduct, Field: "variant_id"},
			Right: Endpoint{Module: ModuleInventory, Field: "inventory_item_id"},
		},
		{
			Left:  Endpoint{Module: ModuleProduct, Field: "variant_id"},
			Right: Endpoint{Module: ModulePricing, Field: "price_set_id"},
		},
		{
			Left:  Endpoint{Module: ModuleCart, Field: "cart_id"},
			Right: Endpoint{Module: ModulePayment, Field: "payment_collection_id"},
		},
		{
			Left:  Endpoint{Module: ModuleRegion, Field: "region_id"},
			Right: Endpoint{Module: ModulePayment, Field: "payment_provider_id"},
		},
		{
			Left:  Endpoint{Module: ModuleCart, Field: "cart_id"},
			Right: Endpoint{Module: ModulePromotion, Field: "promotion_id"},
		},
		{
			Left:  Endpoint{Module: ModuleSalesChannel, Field: "sales_channel_id"},
			Right: Endpoint{Module: ModuleStockLocation, Field: "location_id"},
		},
		{
			Left:  Endpoint{Module: ModuleProduct, Field: "variant_id"},
			Right: Endpoint{Module: ModuleFulfillment, Field: "shipping_profile_id"},
		},
		{
			Left:  Endpoint{Module: ModuleProduct, Field: "product_id"},
			Right: Endpoint{Module: ModuleSalesChannel, Field: "sales_channel_id"},
		},
		{
			Left:  Endpoint{Module: ModuleOrder, Field: "order_id"},
			Right: Endpoint{Module: ModuleSalesChannel, Field: "sales_channel_id"},
		},
		{
			Left:  Endpoint{Module: ModuleAPIKey, Field: "api_key_id"},
			Right: Endpoint{Module: ModuleSalesChannel, Field: "sales_channel_id"},
		},
	}
}

// DefaultRegistry builds the registry for the canonical link set. The
// declarations are fixed at compile time, so construction cannot fail.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(Definitions()...)
	if err != nil {
		panic(err)
	}
	return r
}
