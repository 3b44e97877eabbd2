package inventory

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/rentkart/backend-rentkart/internal/cart"
	"github.com/rentkart/backend-rentkart/internal/common"
	dbgen "github.com/rentkart/backend-rentkart/internal/db/gen"
)

// Querier captures the database methods used by the inventory service.
type Querier interface {
	AdjustProductStock(ctx context.Context, arg dbgen.AdjustProductStockParams) (dbgen.AdjustProductStockRow, error)
	InsertInventoryAdjustment(ctx context.Context, arg dbgen.InsertInventoryAdjustmentParams) (dbgen.InventoryAdjustment, error)
	ListInventoryAdjustments(ctx context.Context, arg dbgen.ListInventoryAdjustmentsParams) ([]dbgen.InventoryAdjustment, error)
	ListLowStockProducts(ctx context.Context, stock int32) ([]dbgen.ListLowStockProductsRow, error)
}

// Service maintains the stock ledger: every change to a product's stock level
// is paired with an adjustment row recording delta, reason and actor.
type Service struct {
	Q Querier
}

// Adjust applies a manual stock delta. Negative deltas that would take stock
// below zero are rejected.
func (s *Service) Adjust(ctx context.Context, productID string, delta int32, reason string, actorID pgtype.UUID) (dbgen.AdjustProductStockRow, error) {
	var zero dbgen.AdjustProductStockRow
	if s == nil || s.Q == nil {
		return zero, errors.New("inventory service not configured")
	}
	if delta == 0 {
		return zero, &common.AppError{Code: "BAD_REQUEST", Message: "delta must not be zero", HTTPStatus: http.StatusBadRequest}
	}
	pID, err := cart.ToUUID(productID)
	if err != nil {
		return zero, &common.AppError{Code: "BAD_REQUEST", Message: "invalid product id", HTTPStatus: http.StatusBadRequest, Err: err}
	}
	row, err := s.Q.AdjustProductStock(ctx, dbgen.AdjustProductStockParams{ID: pID, Delta: delta})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, &common.AppError{
				Code:       "STOCK_CONFLICT",
				Message:    "product missing or stock would go negative",
				HTTPStatus: http.StatusConflict,
			}
		}
		return zero, err
	}
	if _, err := s.Q.InsertInventoryAdjustment(ctx, dbgen.InsertInventoryAdjustmentParams{
		ProductID: pID,
		Delta:     delta,
		Reason:    nullableReason(reason),
		ActorID:   actorID,
	}); err != nil {
		return zero, err
	}
	return row, nil
}

// Adjustments returns the ledger for one product, newest first.
func (s *Service) Adjustments(ctx context.Context, productID string, limit, offset int32) ([]dbgen.InventoryAdjustment, error) {
	if s == nil || s.Q == nil {
		return nil, errors.New("inventory service not configured")
	}
	pID, err := cart.ToUUID(productID)
	if err != nil {
		return nil, &common.AppError{Code: "BAD_REQUEST", Message: "invalid product id", HTTPStatus: http.StatusBadRequest, Err: err}
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.Q.ListInventoryAdjustments(ctx, dbgen.ListInventoryAdjustmentsParams{ProductID: pID, Limit: limit, Offset: offset})
}

// LowStock lists active products at or below the threshold.
func (s *Service) LowStock(ctx context.Context, threshold int32) ([]dbgen.ListLowStockProductsRow, error) {
	if s == nil || s.Q == nil {
		return nil, errors.New("inventory service not configured")
	}
	if threshold < 0 {
		threshold = 0
	}
	return s.Q.ListLowStockProducts(ctx, threshold)
}

func nullableReason(reason string) pgtype.Text {
	trimmed := strings.TrimSpace(reason)
	if trimmed == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: trimmed, Valid: true}
}
