package cart

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	dbgen "github.com/rentkart/backend-rentkart/internal/db/gen"
	"github.com/rentkart/backend-rentkart/internal/pricing"
)

// ItemView is a rendered cart line including its billing breakdown.
type ItemView struct {
	ID              string     `json:"id"`
	ProductID       string     `json:"productId"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Qty             int32      `json:"qty"`
	UnitPrice       int64      `json:"unitPrice"`
	PricingUnit     string     `json:"pricingUnit"`
	StartsAt        *time.Time `json:"startsAt,omitempty"`
	EndsAt          *time.Time `json:"endsAt,omitempty"`
	BillableUnits   int64      `json:"billableUnits"`
	IncompleteDates bool       `json:"incompleteDates"`
	LineTotal       int64      `json:"lineTotal"`
}

// SummaryView mirrors the pricing engine output in the API shape.
type SummaryView struct {
	Subtotal int64 `json:"subtotal"`
	Discount int64 `json:"discount"`
	Taxes    int64 `json:"taxes"`
	Delivery int64 `json:"delivery"`
	Total    int64 `json:"total"`
	Payable  int64 `json:"payable"`
}

// CartView is the full cart read model: lines plus engine totals.
type CartView struct {
	ID        string      `json:"id"`
	PriceList string      `json:"priceList"`
	PromoCode string      `json:"promoCode,omitempty"`
	ExpiresAt *time.Time  `json:"expiresAt,omitempty"`
	Items     []ItemView  `json:"items"`
	Summary   SummaryView `json:"summary"`
}

// View loads the cart and renders it through the pricing engine. A promotion
// attached to the cart is re-resolved best-effort: if it no longer qualifies
// the cart renders without a discount rather than failing.
func (s *Service) View(ctx context.Context, cartID string) (CartView, error) {
	if s == nil || s.Q == nil {
		return CartView{}, errors.New("cart service not configured")
	}
	cID, err := toUUID(cartID)
	if err != nil {
		return CartView{}, ErrNotFound
	}
	cart, err := s.Q.GetCartByID(ctx, cID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CartView{}, ErrNotFound
		}
		return CartView{}, err
	}
	if cart.ExpiresAt.Valid && cart.ExpiresAt.Time.Before(s.now()) {
		return CartView{}, ErrNotFound
	}

	base, err := s.buildView(ctx, cart, nil)
	if err != nil {
		return CartView{}, err
	}
	if !cart.AppliedPromoCode.Valid || cart.AppliedPromoCode.String == "" || s.Promo == nil {
		return base, nil
	}

	var userID *string
	if cart.UserID.Valid {
		id := uuidString(cart.UserID)
		userID = &id
	}
	resolution, err := s.Promo.Resolve(ctx, cart.AppliedPromoCode.String, userID, base.Summary.Total)
	if err != nil {
		return base, nil
	}
	discounted, err := s.buildView(ctx, cart, &resolution.Discount)
	if err != nil {
		return CartView{}, err
	}
	discounted.PromoCode = cart.AppliedPromoCode.String
	return discounted, nil
}

// buildView renders items and totals for the cart. When the live product still
// exists its current price is billed; a deleted product falls back to the
// snapshot taken at add time.
func (s *Service) buildView(ctx context.Context, cart dbgen.Cart, discount *pricing.Discount) (CartView, error) {
	items, err := s.Q.ListCartItems(ctx, cart.ID)
	if err != nil {
		return CartView{}, err
	}

	list := pricing.ParsePriceList(cart.PriceList)
	views := make([]ItemView, 0, len(items))
	lines := make([]pricing.Line, 0, len(items))
	for _, item := range items {
		line := BillLine(ctx, s.Q, item)
		units, incomplete := line.BillableUnits()
		lines = append(lines, line)
		views = append(views, ItemView{
			ID:              uuidString(item.ID),
			ProductID:       uuidString(item.ProductID),
			Title:           item.Title,
			Slug:            item.Slug,
			Qty:             item.Qty,
			UnitPrice:       line.UnitPrice,
			PricingUnit:     string(item.PricingUnit),
			StartsAt:        timePtr(item.StartsAt),
			EndsAt:          timePtr(item.EndsAt),
			BillableUnits:   units,
			IncompleteDates: incomplete,
			LineTotal:       pricing.LineTotal(line, list.MultiplierBps()),
		})
	}

	summary := pricing.Compute(lines, list, discount, s.TaxBps, s.DeliveryFee)
	return CartView{
		ID:        uuidString(cart.ID),
		PriceList: string(list),
		ExpiresAt: timePtr(cart.ExpiresAt),
		Items:     views,
		Summary: SummaryView{
			Subtotal: summary.Subtotal,
			Discount: summary.Discount,
			Taxes:    summary.Taxes,
			Delivery: summary.Delivery,
			Total:    summary.Total,
			Payable:  summary.Payable,
		},
	}, nil
}

func timePtr(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time
	return &t
}
