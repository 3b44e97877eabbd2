package cart

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"

	dbgen "github.com/rentkart/backend-rentkart/internal/db/gen"
	"github.com/rentkart/backend-rentkart/internal/pricing"
)

// ProductPricer is the slice of the query layer needed to bill a line at the
// live product price.
type ProductPricer interface {
	GetProductByID(ctx context.Context, id pgtype.UUID) (dbgen.GetProductByIDRow, error)
}

// BillLine converts a stored cart item into a pricing line. The live product
// price is billed while the product is still active; a deleted or retired
// product falls back to the snapshot taken at add time. Cart previews and
// checkout both bill through here.
func BillLine(ctx context.Context, q ProductPricer, item dbgen.CartItem) pricing.Line {
	unitPrice := item.UnitPrice
	if product, err := q.GetProductByID(ctx, item.ProductID); err == nil && product.Active && product.UnitPrice >= 0 {
		unitPrice = product.UnitPrice
	}
	line := pricing.Line{
		Qty:       int64(item.Qty),
		UnitPrice: unitPrice,
		Unit:      pricing.ParseUnit(string(item.PricingUnit)),
	}
	if item.StartsAt.Valid {
		line.StartsAt = item.StartsAt.Time
	}
	if item.EndsAt.Valid {
		line.EndsAt = item.EndsAt.Time
	}
	return line
}
