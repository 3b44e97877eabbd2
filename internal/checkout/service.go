package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rentkart/backend-rentkart/internal/cart"
	"github.com/rentkart/backend-rentkart/internal/common"
	dbgen "github.com/rentkart/backend-rentkart/internal/db/gen"
	"github.com/rentkart/backend-rentkart/internal/events"
	"github.com/rentkart/backend-rentkart/internal/obs"
	"github.com/rentkart/backend-rentkart/internal/payment"
	"github.com/rentkart/backend-rentkart/internal/pricing"
	"github.com/rentkart/backend-rentkart/internal/promo"
)

// Input is the checkout request payload.
type Input struct {
	CartID string  `json:"cartId"`
	Notes  *string `json:"notes"`
}

// Output describes the created rental and, when available, the payment intent
// the client should drive next.
type Output struct {
	RentalID string           `json:"rentalId"`
	Status   string           `json:"status"`
	Summary  cart.SummaryView `json:"summary"`
	Payment  struct {
		Provider    string `json:"provider,omitempty"`
		IntentToken string `json:"intentToken,omitempty"`
		RedirectURL string `json:"redirectUrl,omitempty"`
	} `json:"payment"`
}

// Service converts a cart into a pending rental inside one transaction: lines
// are re-read, the promotion re-evaluated, totals recomputed by the pricing
// engine, and stock reserved with an availability check.
type Service struct {
	Q           *dbgen.Queries
	Pool        *pgxpool.Pool
	Promo       *promo.Service
	Intents     *payment.Service
	TaxBps      int
	DeliveryFee int64
	Currency    string
	Events      *events.Bus
}

func (s *Service) Create(ctx context.Context, userID string, in Input) (Output, error) {
	if s == nil || s.Q == nil || s.Pool == nil {
		return Output{}, errors.New("checkout service not configured")
	}
	if userID == "" {
		return Output{}, &common.AppError{Code: "UNAUTHORIZED", Message: "user is required for checkout", HTTPStatus: http.StatusUnauthorized}
	}
	if in.CartID == "" {
		return Output{}, &common.AppError{Code: "BAD_REQUEST", Message: "cartId is required", HTTPStatus: http.StatusBadRequest}
	}
	cID, err := cart.ToUUID(in.CartID)
	if err != nil {
		return Output{}, &common.AppError{Code: "BAD_REQUEST", Message: "invalid cart id", HTTPStatus: http.StatusBadRequest, Err: err}
	}
	uID, err := cart.ToUUID(userID)
	if err != nil {
		return Output{}, &common.AppError{Code: "BAD_REQUEST", Message: "invalid user id", HTTPStatus: http.StatusBadRequest, Err: err}
	}

	result := "error"
	defer func() {
		if obs.CheckoutTotal != nil {
			obs.CheckoutTotal.WithLabelValues(result).Inc()
		}
	}()

	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Output{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()
	qtx := s.Q.WithTx(tx)

	cartRow, err := qtx.GetCartByID(ctx, cID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Output{}, &common.AppError{Code: "NOT_FOUND", Message: "cart not found", HTTPStatus: http.StatusNotFound}
		}
		return Output{}, err
	}
	if cartRow.UserID.Valid && cartRow.UserID != uID {
		return Output{}, &common.AppError{Code: "FORBIDDEN", Message: "cart does not belong to user", HTTPStatus: http.StatusForbidden}
	}
	items, err := qtx.ListCartItems(ctx, cID)
	if err != nil {
		return Output{}, err
	}
	if len(items) == 0 {
		return Output{}, &common.AppError{Code: "CART_EMPTY", Message: "cart is empty", HTTPStatus: http.StatusUnprocessableEntity}
	}

	// Bill through the same line builder the cart preview uses so the payable
	// frozen into the rental matches what the cart showed.
	list := pricing.ParsePriceList(cartRow.PriceList)
	lines := make([]pricing.Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, cart.BillLine(ctx, qtx, it))
	}

	// Re-evaluate the promotion against the pre-discount total. A code that no
	// longer qualifies is dropped rather than failing the checkout.
	base := pricing.Compute(lines, list, nil, s.TaxBps, s.DeliveryFee)
	var discount *pricing.Discount
	promoCode := pgtype.Text{}
	if cartRow.AppliedPromoCode.Valid && cartRow.AppliedPromoCode.String != "" && s.Promo != nil {
		resolution, err := s.Promo.Resolve(ctx, cartRow.AppliedPromoCode.String, &userID, base.Total)
		if err == nil {
			d := resolution.Discount
			discount = &d
			promoCode = pgtype.Text{String: resolution.Code, Valid: true}
		}
	}
	summary := pricing.Compute(lines, list, discount, s.TaxBps, s.DeliveryFee)

	rental, err := qtx.CreateRental(ctx, dbgen.CreateRentalParams{
		UserID:           uID,
		CartID:           cID,
		Currency:         s.currency(),
		PriceList:        string(list),
		PricingSubtotal:  summary.Subtotal,
		PricingDiscount:  summary.Discount,
		PricingTaxes:     summary.Taxes,
		PricingDelivery:  summary.Delivery,
		PricingTotal:     summary.Total,
		PricingPayable:   summary.Payable,
		AppliedPromoCode: promoCode,
		Notes:            toNullableText(in.Notes),
	})
	if err != nil {
		return Output{}, err
	}

	for i, it := range items {
		units, _ := lines[i].BillableUnits()
		if _, err := qtx.CreateRentalItem(ctx, dbgen.CreateRentalItemParams{
			RentalID:      rental.ID,
			ProductID:     it.ProductID,
			Title:         it.Title,
			Slug:          it.Slug,
			Qty:           it.Qty,
			UnitPrice:     lines[i].UnitPrice,
			PricingUnit:   it.PricingUnit,
			StartsAt:      it.StartsAt,
			EndsAt:        it.EndsAt,
			BillableUnits: units,
			LineTotal:     pricing.LineTotal(lines[i], list.MultiplierBps()),
		}); err != nil {
			return Output{}, err
		}
		if _, err := qtx.AdjustProductStock(ctx, dbgen.AdjustProductStockParams{ID: it.ProductID, Delta: -it.Qty}); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return Output{}, &common.AppError{
					Code:       "INSUFFICIENT_STOCK",
					Message:    fmt.Sprintf("not enough stock for %s", it.Slug),
					HTTPStatus: http.StatusConflict,
					Details:    map[string]any{"productId": cart.UUIDString(it.ProductID)},
				}
			}
			return Output{}, err
		}
		if _, err := qtx.InsertInventoryAdjustment(ctx, dbgen.InsertInventoryAdjustmentParams{
			ProductID: it.ProductID,
			Delta:     -it.Qty,
			Reason:    pgtype.Text{String: "rental reserved", Valid: true},
			ActorID:   uID,
		}); err != nil {
			return Output{}, err
		}
	}

	// The cart is consumed by checkout; its promotion goes with it.
	if err := qtx.ClearCart(ctx, cID); err != nil {
		return Output{}, err
	}
	if err := qtx.UpdateCartPromo(ctx, dbgen.UpdateCartPromoParams{ID: cID}); err != nil {
		return Output{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Output{}, err
	}
	result = "success"

	if s.Events != nil {
		payload := map[string]any{
			"rentalId": cart.UUIDString(rental.ID),
			"userId":   userID,
			"payable":  summary.Payable,
			"currency": rental.Currency,
		}
		_, _ = s.Events.Emit(ctx, events.TopicRentalCreated, rental.ID, payload)
	}

	var out Output
	out.RentalID = cart.UUIDString(rental.ID)
	out.Status = string(rental.Status)
	out.Summary = cart.SummaryView{
		Subtotal: summary.Subtotal,
		Discount: summary.Discount,
		Taxes:    summary.Taxes,
		Delivery: summary.Delivery,
		Total:    summary.Total,
		Payable:  summary.Payable,
	}
	if s.Intents != nil {
		if intent, err := s.Intents.CreateIntent(ctx, out.RentalID, 0); err == nil {
			if intent.Provider.Valid {
				out.Payment.Provider = intent.Provider.String
			}
			if intent.IntentToken.Valid {
				out.Payment.IntentToken = intent.IntentToken.String
			}
			if intent.RedirectUrl.Valid {
				out.Payment.RedirectURL = intent.RedirectUrl.String
			}
		}
	}
	return out, nil
}

func (s *Service) currency() string {
	if s != nil && s.Currency != "" {
		return s.Currency
	}
	return "INR"
}

func toNullableText(v *string) pgtype.Text {
	if v == nil || *v == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *v, Valid: true}
}
