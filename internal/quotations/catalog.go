package quotations

import (
	"context"

	"github.com/odyssey-erp/quotedesk/internal/catalog/products"
	"github.com/odyssey-erp/quotedesk/internal/catalog/spares"
)

// CatalogSource resolves the catalog records that line items are drawn from.
type CatalogSource interface {
	Product(ctx context.Context, id int64) (products.Product, error)
	Spare(ctx context.Context, id int64) (spares.Spare, error)
}

type ProductReader interface {
	Get(ctx context.Context, id int64) (products.Product, error)
}

type SpareReader interface {
	Get(ctx context.Context, id int64) (spares.Spare, error)
}

// Catalog joins the product and spare services into a CatalogSource.
type Catalog struct {
	Products ProductReader
	Spares   SpareReader
}

func (c Catalog) Product(ctx context.Context, id int64) (products.Product, error) {
	return c.Products.Get(ctx, id)
}

func (c Catalog) Spare(ctx context.Context, id int64) (spares.Spare, error) {
	return c.Spares.Get(ctx, id)
}
