package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	dbgen "github.com/rentkart/backend-rentkart/internal/db/gen"
	"github.com/rentkart/backend-rentkart/internal/events"
	"github.com/rentkart/backend-rentkart/internal/lock"
)

const expiredRentalBatch = 100

// Sweeper runs the periodic maintenance tasks: dropping stale carts and
// expiring rentals whose payment intent lapsed.
type Sweeper struct {
	Q       *dbgen.Queries
	Bus     *events.Bus
	Locker  lock.Locker
	LockTTL time.Duration
	Log     zerolog.Logger
}

// HandleCartSweep deletes expired carts. The lock keeps concurrent workers
// from sweeping at the same time.
func (s Sweeper) HandleCartSweep(ctx context.Context, _ *asynq.Task) error {
	return s.withLock(ctx, "lock:sweep:carts", func(ctx context.Context) error {
		deleted, err := s.Q.DeleteExpiredCarts(ctx)
		if err != nil {
			return fmt.Errorf("cart sweep: %w", err)
		}
		if deleted > 0 {
			s.Log.Info().Int64("deleted", deleted).Msg("expired carts removed")
		}
		return nil
	})
}

// HandlePaymentSweep expires pending rentals with lapsed payment intents. For
// each rental it marks the payment and rental EXPIRED, returns reserved stock,
// releases any promotion usage and emits the expiry events.
func (s Sweeper) HandlePaymentSweep(ctx context.Context, _ *asynq.Task) error {
	return s.withLock(ctx, "lock:sweep:payments", func(ctx context.Context) error {
		rows, err := s.Q.ListExpiredPendingRentals(ctx, expiredRentalBatch)
		if err != nil {
			return fmt.Errorf("payment sweep: list: %w", err)
		}
		var joined error
		for _, row := range rows {
			if err := s.expireRental(ctx, row); err != nil {
				joined = errors.Join(joined, fmt.Errorf("expire rental %s: %w", uuidString(row.ID), err))
			}
		}
		return joined
	})
}

func (s Sweeper) expireRental(ctx context.Context, row dbgen.ListExpiredPendingRentalsRow) error {
	payment, err := s.Q.GetLatestPaymentByRental(ctx, row.ID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("load payment: %w", err)
	}
	if err == nil && payment.Status == dbgen.PaymentStatusPENDING {
		if _, err := s.Q.UpdatePaymentStatus(ctx, dbgen.UpdatePaymentStatusParams{
			ID:     payment.ID,
			Status: dbgen.PaymentStatusEXPIRED,
		}); err != nil {
			return fmt.Errorf("expire payment: %w", err)
		}
	}

	rental, err := s.Q.UpdateRentalStatus(ctx, dbgen.UpdateRentalStatusParams{
		ID:     row.ID,
		Status: dbgen.RentalStatusEXPIRED,
	})
	if err != nil {
		return fmt.Errorf("expire rental: %w", err)
	}

	if err := s.restoreStock(ctx, rental.ID); err != nil {
		s.Log.Error().Err(err).Str("rentalId", uuidString(rental.ID)).Msg("restore stock after expiry")
	}
	if row.AppliedPromoCode.Valid && row.AppliedPromoCode.String != "" {
		if err := s.releasePromotion(ctx, row.AppliedPromoCode.String, rental.ID); err != nil {
			s.Log.Error().Err(err).Str("rentalId", uuidString(rental.ID)).Msg("release promotion after expiry")
		}
	}

	payload := map[string]any{"rentalId": uuidString(rental.ID)}
	if row.UserID.Valid {
		payload["userId"] = uuidString(row.UserID)
	}
	if s.Bus != nil {
		if _, err := s.Bus.Emit(ctx, events.TopicRentalExpired, rental.ID, payload); err != nil {
			s.Log.Error().Err(err).Msg("emit rental.expired")
		}
		if payment.ID.Valid {
			if _, err := s.Bus.Emit(ctx, events.TopicPaymentExpired, payment.ID, payload); err != nil {
				s.Log.Error().Err(err).Msg("emit payment.expired")
			}
		}
	}
	s.Log.Info().Str("rentalId", uuidString(rental.ID)).Msg("rental expired")
	return nil
}

func (s Sweeper) restoreStock(ctx context.Context, rentalID pgtype.UUID) error {
	items, err := s.Q.ListRentalItemsByRental(ctx, rentalID)
	if err != nil {
		return err
	}
	var joined error
	for _, item := range items {
		if _, err := s.Q.AdjustProductStock(ctx, dbgen.AdjustProductStockParams{
			ID:    item.ProductID,
			Delta: item.Qty,
		}); err != nil {
			joined = errors.Join(joined, err)
			continue
		}
		if _, err := s.Q.InsertInventoryAdjustment(ctx, dbgen.InsertInventoryAdjustmentParams{
			ProductID: item.ProductID,
			Delta:     item.Qty,
			Reason:    pgtype.Text{String: "rental expired", Valid: true},
		}); err != nil {
			joined = errors.Join(joined, err)
		}
	}
	return joined
}

func (s Sweeper) releasePromotion(ctx context.Context, code string, rentalID pgtype.UUID) error {
	promo, err := s.Q.GetPromotionByCode(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}
	deleted, err := s.Q.DeletePromotionUsage(ctx, dbgen.DeletePromotionUsageParams{
		PromotionID: promo.ID,
		RentalID:    rentalID,
	})
	if err != nil {
		return err
	}
	if deleted > 0 {
		return s.Q.DecreasePromotionUsedCount(ctx, promo.ID)
	}
	return nil
}

func (s Sweeper) withLock(ctx context.Context, key string, fn func(context.Context) error) error {
	ttl := s.LockTTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	return s.Locker.WithLock(ctx, key, ttl, fn)
}

func uuidString(value pgtype.UUID) string {
	if !value.Valid {
		return ""
	}
	return uuid.UUID(value.Bytes).String()
}
