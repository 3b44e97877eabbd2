package payment

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	redis "github.com/redis/go-redis/v9"

	"github.com/rentkart/backend-rentkart/internal/cart"
	"github.com/rentkart/backend-rentkart/internal/common"
	dbgen "github.com/rentkart/backend-rentkart/internal/db/gen"
	"github.com/rentkart/backend-rentkart/internal/events"
	"github.com/rentkart/backend-rentkart/internal/obs"
)

// Webhook handles payment provider callbacks, including signature verification and settlement.
type Webhook struct {
	Q         *dbgen.Queries
	Pool      *pgxpool.Pool
	Providers map[string]Provider
	Replay    *redis.Client
	ReplayTTL time.Duration
	Promo     PromoSettler
	Events    *events.Bus
}

// PromoSettler records promotion usage as part of rental settlement.
type PromoSettler interface {
	Settle(ctx context.Context, code string, rentalID, userID pgtype.UUID, amount int64) error
}

// Handle processes webhook callbacks for the configured payment provider(s).
// Settlement marks the payment and rental paid in one transaction and records
// promotion usage; a replayed notification is rejected before it reaches the
// database.
func (h Webhook) Handle(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil || h.Providers == nil {
		common.JSONError(w, http.StatusInternalServerError, "PAYMENT_NOT_CONFIGURED", "webhook unavailable", nil)
		return
	}
	providerKey := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "provider")))
	provider, ok := h.Providers[providerKey]
	if !ok {
		common.JSONError(w, http.StatusNotFound, "PROVIDER_NOT_SUPPORTED", "unknown provider", nil)
		return
	}
	outcome := "error"
	defer func() {
		if obs.PaymentWebhookTotal != nil {
			obs.PaymentWebhookTotal.WithLabelValues(providerKey, outcome).Inc()
		}
	}()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "unable to read payload", nil)
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	result, err := provider.VerifyWebhook(r, body)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "WEBHOOK_INVALID", err.Error(), nil)
		return
	}
	if !result.Valid {
		outcome = "invalid_signature"
		common.JSONError(w, http.StatusUnauthorized, "INVALID_SIGNATURE", "signature verification failed", nil)
		return
	}
	if h.Replay != nil && h.ReplayTTL > 0 {
		key := fmt.Sprintf("wh:%s:%s", providerKey, common.Sha256Hex(string(body)))
		fresh, err := h.Replay.SetNX(r.Context(), key, "1", h.ReplayTTL).Result()
		if err != nil {
			common.JSONError(w, http.StatusInternalServerError, "REPLAY_STORE_ERROR", err.Error(), nil)
			return
		}
		if !fresh {
			outcome = "replay"
			common.JSONError(w, http.StatusConflict, "REPLAY", "duplicate webhook", nil)
			return
		}
	}
	if result.ProviderPayload == nil {
		result.ProviderPayload = body
	}

	ctx := r.Context()
	q := h.Q
	var tx pgx.Tx
	if h.Pool != nil {
		tx, err = h.Pool.BeginTx(ctx, pgx.TxOptions{})
		if err != nil {
			common.JSONError(w, http.StatusInternalServerError, "TX_ERROR", err.Error(), nil)
			return
		}
		defer func() { _ = tx.Rollback(ctx) }()
		q = h.Q.WithTx(tx)
	}

	payment, err := q.GetPaymentByIntentToken(ctx, pgtype.Text{String: result.IntentToken, Valid: true})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "PAYMENT_NOT_FOUND", "payment not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "PAYMENT_FETCH_ERROR", err.Error(), nil)
		return
	}
	if result.Amount > 0 && payment.Amount != result.Amount {
		common.JSONError(w, http.StatusBadRequest, "AMOUNT_MISMATCH", "provider amount mismatch", nil)
		return
	}
	newStatus := normaliseWebhookStatus(result.Status)
	shouldSettle := newStatus == dbgen.PaymentStatusPAID && payment.Status != dbgen.PaymentStatusPAID

	if _, err := q.UpdatePaymentStatus(ctx, dbgen.UpdatePaymentStatusParams{
		ID:              payment.ID,
		Status:          newStatus,
		ProviderPayload: result.ProviderPayload,
	}); err != nil {
		common.JSONError(w, http.StatusInternalServerError, "PAYMENT_UPDATE_ERROR", err.Error(), nil)
		return
	}

	rental, err := q.GetRentalByID(ctx, payment.RentalID)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "RENTAL_FETCH_ERROR", err.Error(), nil)
		return
	}
	if shouldSettle {
		if _, err := q.UpdateRentalStatus(ctx, dbgen.UpdateRentalStatusParams{ID: rental.ID, Status: dbgen.RentalStatusPAID}); err != nil {
			common.JSONError(w, http.StatusInternalServerError, "RENTAL_UPDATE_ERROR", err.Error(), nil)
			return
		}
		if h.Promo != nil && rental.AppliedPromoCode.Valid {
			code := strings.TrimSpace(rental.AppliedPromoCode.String)
			if code != "" {
				amount := rental.PricingDiscount
				if amount < 0 {
					amount = 0
				}
				if err := h.Promo.Settle(ctx, code, rental.ID, rental.UserID, amount); err != nil {
					common.JSONError(w, http.StatusInternalServerError, "PROMO_SETTLEMENT_FAILED", err.Error(), nil)
					return
				}
			}
		}
	}

	if tx != nil {
		if err := tx.Commit(ctx); err != nil {
			common.JSONError(w, http.StatusInternalServerError, "TX_COMMIT_ERROR", err.Error(), nil)
			return
		}
	}
	outcome = strings.ToLower(string(newStatus))

	if h.Events != nil {
		payload := map[string]any{
			"rentalId":  cart.UUIDString(rental.ID),
			"paymentId": cart.UUIDString(payment.ID),
			"status":    string(newStatus),
		}
		if rental.UserID.Valid {
			payload["userId"] = cart.UUIDString(rental.UserID)
		}
		switch newStatus {
		case dbgen.PaymentStatusPAID:
			if shouldSettle {
				_, _ = h.Events.Emit(ctx, events.TopicRentalPaid, rental.ID, payload)
			}
		case dbgen.PaymentStatusFAILED:
			_, _ = h.Events.Emit(ctx, events.TopicPaymentFailed, rental.ID, payload)
		case dbgen.PaymentStatusEXPIRED:
			_, _ = h.Events.Emit(ctx, events.TopicPaymentExpired, rental.ID, payload)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func normaliseWebhookStatus(status string) dbgen.PaymentStatus {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "PAID", "SUCCESS", "SETTLED", "CAPTURED":
		return dbgen.PaymentStatusPAID
	case "FAILED", "CANCELED", "DENY":
		return dbgen.PaymentStatusFAILED
	case "EXPIRED":
		return dbgen.PaymentStatusEXPIRED
	case "REFUNDED":
		return dbgen.PaymentStatusREFUNDED
	default:
		return dbgen.PaymentStatusPENDING
	}
}
