package rental

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
	"github.com/rentkart/backend-rentkart/internal/promo"
)

// ErrInvalidTransition is returned when a status change violates the rental
// state machine.
var ErrInvalidTransition = errors.New("invalid rental status transition")

// CanTransition reports whether a rental may move from one status to another.
// The forward path is PENDING_PAYMENT → PAID → ACTIVE → RETURNED; CANCELED and
// EXPIRED are terminal exits.
func CanTransition(from, to dbgen.RentalStatus) bool {
	switch from {
	case dbgen.RentalStatusPENDINGPAYMENT:
		return to == dbgen.RentalStatusPAID || to == dbgen.RentalStatusCANCELED || to == dbgen.RentalStatusEXPIRED
	case dbgen.RentalStatusPAID:
		return to == dbgen.RentalStatusACTIVE || to == dbgen.RentalStatusCANCELED
	case dbgen.RentalStatusACTIVE:
		return to == dbgen.RentalStatusRETURNED
	default:
		return false
	}
}

// Service owns rental lifecycle changes and their side effects: stock returns
// to the shelf and promotion usage is released when a rental dies.
type Service struct {
	Q      *dbgen.Queries
	Pool   *pgxpool.Pool
	Events *events.Bus
}

// Cancel cancels a rental on behalf of its owner. Only pending or paid rentals
// can be canceled; reserved stock is restored and any settled promotion usage
// released in the same transaction.
func (s *Service) Cancel(ctx context.Context, rentalID, userID string) (dbgen.Rental, error) {
	var zero dbgen.Rental
	if s == nil || s.Q == nil || s.Pool == nil {
		return zero, errors.New("rental service not configured")
	}
	rID, err := cart.ToUUID(rentalID)
	if err != nil {
		return zero, &common.AppError{Code: "BAD_REQUEST", Message: "invalid rental id", HTTPStatus: http.StatusBadRequest, Err: err}
	}
	uID, err := cart.ToUUID(userID)
	if err != nil {
		return zero, &common.AppError{Code: "BAD_REQUEST", Message: "invalid user id", HTTPStatus: http.StatusBadRequest, Err: err}
	}

	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return zero, err
	}
	defer func() { _ = tx.Rollback(ctx) }()
	qtx := s.Q.WithTx(tx)

	rental, err := qtx.GetRentalByIDForUser(ctx, dbgen.GetRentalByIDForUserParams{ID: rID, UserID: uID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, &common.AppError{Code: "NOT_FOUND", Message: "rental not found", HTTPStatus: http.StatusNotFound}
		}
		return zero, err
	}
	if !CanTransition(rental.Status, dbgen.RentalStatusCANCELED) {
		return zero, &common.AppError{
			Code:       "INVALID_STATE",
			Message:    fmt.Sprintf("rental in status %s cannot be canceled", rental.Status),
			HTTPStatus: http.StatusConflict,
			Err:        ErrInvalidTransition,
		}
	}

	updated, err := qtx.UpdateRentalStatus(ctx, dbgen.UpdateRentalStatusParams{ID: rental.ID, Status: dbgen.RentalStatusCANCELED})
	if err != nil {
		return zero, err
	}
	if err := unwind(ctx, qtx, rental, uID, "rental canceled"); err != nil {
		return zero, err
	}
	if err := tx.Commit(ctx); err != nil {
		return zero, err
	}

	if s.Events != nil {
		_, _ = s.Events.Emit(ctx, events.TopicRentalCanceled, rental.ID, map[string]any{
			"rentalId": cart.UUIDString(rental.ID),
			"userId":   userID,
		})
	}
	return updated, nil
}

// SetStatus applies an admin-driven status change with transition validation,
// running the cancellation side effects when the target is CANCELED.
func (s *Service) SetStatus(ctx context.Context, rentalID string, target dbgen.RentalStatus, actorID pgtype.UUID) (dbgen.Rental, error) {
	var zero dbgen.Rental
	if s == nil || s.Q == nil || s.Pool == nil {
		return zero, errors.New("rental service not configured")
	}
	rID, err := cart.ToUUID(rentalID)
	if err != nil {
		return zero, &common.AppError{Code: "BAD_REQUEST", Message: "invalid rental id", HTTPStatus: http.StatusBadRequest, Err: err}
	}

	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return zero, err
	}
	defer func() { _ = tx.Rollback(ctx) }()
	qtx := s.Q.WithTx(tx)

	rental, err := qtx.GetRentalByID(ctx, rID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, &common.AppError{Code: "NOT_FOUND", Message: "rental not found", HTTPStatus: http.StatusNotFound}
		}
		return zero, err
	}
	if !CanTransition(rental.Status, target) {
		return zero, &common.AppError{
			Code:       "INVALID_STATE",
			Message:    fmt.Sprintf("cannot move rental from %s to %s", rental.Status, target),
			HTTPStatus: http.StatusConflict,
			Err:        ErrInvalidTransition,
		}
	}

	updated, err := qtx.UpdateRentalStatus(ctx, dbgen.UpdateRentalStatusParams{ID: rental.ID, Status: target})
	if err != nil {
		return zero, err
	}
	if target == dbgen.RentalStatusCANCELED {
		if err := unwind(ctx, qtx, rental, actorID, "rental canceled"); err != nil {
			return zero, err
		}
	}
	if target == dbgen.RentalStatusRETURNED {
		if err := restoreStock(ctx, qtx, rental.ID, actorID, "rental returned"); err != nil {
			return zero, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return zero, err
	}

	if s.Events != nil {
		payload := map[string]any{"rentalId": cart.UUIDString(rental.ID)}
		if rental.UserID.Valid {
			payload["userId"] = cart.UUIDString(rental.UserID)
		}
		switch target {
		case dbgen.RentalStatusPAID:
			_, _ = s.Events.Emit(ctx, events.TopicRentalPaid, rental.ID, payload)
		case dbgen.RentalStatusACTIVE:
			_, _ = s.Events.Emit(ctx, events.TopicRentalActive, rental.ID, payload)
		case dbgen.RentalStatusRETURNED:
			_, _ = s.Events.Emit(ctx, events.TopicRentalReturned, rental.ID, payload)
		case dbgen.RentalStatusCANCELED:
			_, _ = s.Events.Emit(ctx, events.TopicRentalCanceled, rental.ID, payload)
		}
	}
	return updated, nil
}

// unwind restores reserved stock and releases settled promotion usage.
func unwind(ctx context.Context, q *dbgen.Queries, rental dbgen.Rental, actorID pgtype.UUID, reason string) error {
	if err := restoreStock(ctx, q, rental.ID, actorID, reason); err != nil {
		return err
	}
	if rental.AppliedPromoCode.Valid && rental.AppliedPromoCode.String != "" {
		settler := &promo.Service{Q: q}
		if err := settler.Release(ctx, rental.AppliedPromoCode.String, rental.ID); err != nil {
			return err
		}
	}
	return nil
}

func restoreStock(ctx context.Context, q *dbgen.Queries, rentalID, actorID pgtype.UUID, reason string) error {
	items, err := q.ListRentalItemsByRental(ctx, rentalID)
	if err != nil {
		return err
	}
	for _, item := range items {
		if _, err := q.AdjustProductStock(ctx, dbgen.AdjustProductStockParams{ID: item.ProductID, Delta: item.Qty}); err != nil {
			// The product may have been deleted since checkout; the ledger
			// entry below still records the return.
			if !errors.Is(err, pgx.ErrNoRows) {
				return err
			}
		}
		if _, err := q.InsertInventoryAdjustment(ctx, dbgen.InsertInventoryAdjustmentParams{
			ProductID: item.ProductID,
			Delta:     item.Qty,
			Reason:    pgtype.Text{String: reason, Valid: true},
			ActorID:   actorID,
		}); err != nil {
			return err
		}
	}
	return nil
}
