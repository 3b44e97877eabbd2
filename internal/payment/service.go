package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/rentkart/backend-rentkart/internal/cart"
	"github.com/rentkart/backend-rentkart/internal/common"
	dbgen "github.com/rentkart/backend-rentkart/internal/db/gen"
	"github.com/rentkart/backend-rentkart/internal/obs"
)

// Service coordinates payment intents and status retrieval.
type Service struct {
	Q         *dbgen.Queries
	Provider  Provider
	IntentTTL time.Duration
}

// CreateIntent creates (or reuses) a payment intent for the provided rental.
// The intent amount is always the rental's payable total; a non-zero amount
// argument is a client assertion that must match it.
func (s *Service) CreateIntent(ctx context.Context, rentalID string, amount int64) (dbgen.Payment, error) {
	var zero dbgen.Payment
	if s == nil || s.Q == nil || s.Provider == nil {
		return zero, errors.New("payment service not configured")
	}
	ctx, span := otel.Tracer("payment.Service").Start(ctx, "PaymentService.CreateIntent")
	defer span.End()

	start := time.Now()
	providerName := inferProviderName(s.Provider)
	result := "error"
	defer func() {
		span.SetAttributes(
			attribute.String("payment.provider", providerName),
			attribute.Float64("payment.intent.duration_ms", obs.DurationMillis(time.Since(start))),
			attribute.String("payment.intent.result", result),
		)
		if obs.PaymentIntentTotal != nil {
			obs.PaymentIntentTotal.WithLabelValues(providerName, result).Inc()
		}
	}()

	ttl := s.IntentTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	rentalUUID, err := cart.ToUUID(rentalID)
	if err != nil {
		return zero, &common.AppError{Code: "BAD_REQUEST", Message: "invalid rental id", HTTPStatus: http.StatusBadRequest, Err: err}
	}
	span.SetAttributes(attribute.String("rental.id", rentalID))
	rental, err := s.Q.GetRentalByID(ctx, rentalUUID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, &common.AppError{Code: "NOT_FOUND", Message: "rental not found", HTTPStatus: http.StatusNotFound}
		}
		return zero, err
	}
	if rental.Status != dbgen.RentalStatusPENDINGPAYMENT {
		return zero, &common.AppError{
			Code:       "INVALID_STATE",
			Message:    fmt.Sprintf("rental status %s does not allow new intents", rental.Status),
			HTTPStatus: http.StatusConflict,
		}
	}
	expectedAmount := rental.PricingPayable
	if amount > 0 && amount != expectedAmount {
		return zero, &common.AppError{
			Code:       "AMOUNT_MISMATCH",
			Message:    fmt.Sprintf("amount mismatch: got %d expected %d", amount, expectedAmount),
			HTTPStatus: http.StatusUnprocessableEntity,
		}
	}

	existing, err := s.Q.GetLatestPaymentByRental(ctx, rentalUUID)
	if err == nil {
		if existing.Status == dbgen.PaymentStatusPAID {
			return zero, &common.AppError{Code: "ALREADY_PAID", Message: "rental already paid", HTTPStatus: http.StatusConflict}
		}
		if existing.Status == dbgen.PaymentStatusPENDING {
			if !existing.ExpiresAt.Valid || existing.ExpiresAt.Time.After(time.Now()) {
				if existing.Provider.Valid {
					providerName = normaliseLabel(existing.Provider.String)
				}
				result = "reused"
				return existing, nil
			}
		}
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return zero, err
	}

	req := IntentRequest{
		RentalID:     rentalID,
		Amount:       expectedAmount,
		Currency:     rental.Currency,
		ExpiresAtSec: int(ttl.Seconds()),
	}
	resp, err := s.Provider.CreateIntent(ctx, req)
	if err != nil {
		span.RecordError(err)
		return zero, err
	}
	if resp.Provider != "" {
		providerName = normaliseLabel(resp.Provider)
	}
	result = "success"
	payload := toJSON(map[string]any{"request": req, "response": resp})
	expiresAt := pgtype.Timestamptz{Valid: true, Time: time.Now().Add(ttl)}
	if resp.ExpiresAt > 0 {
		expiresAt.Time = time.Unix(resp.ExpiresAt, 0)
	}
	return s.Q.CreatePayment(ctx, dbgen.CreatePaymentParams{
		RentalID:        rentalUUID,
		Provider:        pgtype.Text{String: providerName, Valid: providerName != ""},
		Amount:          expectedAmount,
		IntentToken:     pgtype.Text{String: resp.Token, Valid: strings.TrimSpace(resp.Token) != ""},
		RedirectUrl:     pgtype.Text{String: resp.RedirectURL, Valid: strings.TrimSpace(resp.RedirectURL) != ""},
		ProviderPayload: payload,
		ExpiresAt:       expiresAt,
	})
}

// ConsolidatedStatus returns the best-known payment status for a rental.
func (s *Service) ConsolidatedStatus(ctx context.Context, rentalID string) (string, error) {
	if s == nil || s.Q == nil {
		return "", errors.New("payment service not configured")
	}
	rentalUUID, err := cart.ToUUID(rentalID)
	if err != nil {
		return "", fmt.Errorf("invalid rental id: %w", err)
	}
	payment, err := s.Q.GetLatestPaymentByRental(ctx, rentalUUID)
	if err == nil {
		return string(payment.Status), nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}
	rental, err := s.Q.GetRentalByID(ctx, rentalUUID)
	if err != nil {
		return "", err
	}
	switch rental.Status {
	case dbgen.RentalStatusPAID, dbgen.RentalStatusACTIVE, dbgen.RentalStatusRETURNED:
		return "PAID", nil
	case dbgen.RentalStatusCANCELED:
		return "FAILED", nil
	case dbgen.RentalStatusEXPIRED:
		return "EXPIRED", nil
	default:
		return "PENDING", nil
	}
}

func inferProviderName(p Provider) string {
	switch p.(type) {
	case Razorpay:
		return "razorpay"
	default:
		return "unknown"
	}
}

func normaliseLabel(value string) string {
	trimmed := strings.TrimSpace(strings.ToLower(value))
	if trimmed == "" {
		return "unknown"
	}
	return trimmed
}

func toJSON(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}
