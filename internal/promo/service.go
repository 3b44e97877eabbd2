package promo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	dbgen "github.com/rentkart/backend-rentkart/internal/db/gen"
	"github.com/rentkart/backend-rentkart/internal/obs"
	"github.com/rentkart/backend-rentkart/internal/pricing"
)

// Querier captures the database methods required by the promotion service.
type Querier interface {
	GetPromotionByCode(ctx context.Context, code string) (dbgen.Promotion, error)
	CountPromotionUsageByUser(ctx context.Context, arg dbgen.CountPromotionUsageByUserParams) (int64, error)
	GetPromotionUsageByRental(ctx context.Context, arg dbgen.GetPromotionUsageByRentalParams) (dbgen.PromotionUsage, error)
	InsertPromotionUsage(ctx context.Context, arg dbgen.InsertPromotionUsageParams) (dbgen.PromotionUsage, error)
	IncreasePromotionUsedCount(ctx context.Context, id pgtype.UUID) (int32, error)
	DeletePromotionUsage(ctx context.Context, arg dbgen.DeletePromotionUsageParams) (int64, error)
	DecreasePromotionUsedCount(ctx context.Context, id pgtype.UUID) error
}

// Resolution is the outcome of evaluating a code against a cart total.
type Resolution struct {
	Code     string
	Rule     Rule
	Discount pricing.Discount
	Amount   int64
}

// Service evaluates promotion rules and settles usage at payment time.
type Service struct {
	Q   Querier
	Now func() time.Time
}

// Resolve validates the code against the cart total and the caller's usage
// history. A resolution failure is reported through the returned error; the
// sentinel errors in this package describe the reason.
func (s *Service) Resolve(ctx context.Context, code string, userID *string, cartTotal int64) (Resolution, error) {
	if s == nil || s.Q == nil {
		return Resolution{}, errors.New("promo service not configured")
	}
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return Resolution{}, fmt.Errorf("code is required: %w", ErrNotEligible)
	}
	promotion, err := s.Q.GetPromotionByCode(ctx, trimmed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Resolution{}, ErrNotEligible
		}
		return Resolution{}, err
	}
	rule := RuleFromModel(promotion)
	if userID != nil && *userID != "" && rule.PerUserLimit != nil && *rule.PerUserLimit > 0 {
		userUUID, err := parseUUID(*userID)
		if err != nil {
			return Resolution{}, fmt.Errorf("invalid user id: %w", err)
		}
		used, err := s.Q.CountPromotionUsageByUser(ctx, dbgen.CountPromotionUsageByUserParams{
			PromotionID: promotion.ID,
			UserID:      userUUID,
		})
		if err != nil {
			return Resolution{}, err
		}
		rule.PerUserUsed = int32(used)
	}
	if err := rule.Validate(s.now(), cartTotal); err != nil {
		if obs.PromoApplyTotal != nil {
			obs.PromoApplyTotal.WithLabelValues("rejected").Inc()
		}
		return Resolution{}, err
	}
	amount := Compute(cartTotal, rule)
	if amount <= 0 {
		if obs.PromoApplyTotal != nil {
			obs.PromoApplyTotal.WithLabelValues("rejected").Inc()
		}
		return Resolution{}, ErrNotEligible
	}
	if obs.PromoApplyTotal != nil {
		obs.PromoApplyTotal.WithLabelValues("applied").Inc()
	}
	return Resolution{Code: promotion.Code, Rule: rule, Discount: rule.Discount(), Amount: amount}, nil
}

// Settle records promotion usage when a rental is paid. It is idempotent per
// (promotion, rental): replays and double webhooks do not double-count.
func (s *Service) Settle(ctx context.Context, code string, rentalID, userID pgtype.UUID, amount int64) error {
	if s == nil || s.Q == nil {
		return errors.New("promo service not configured")
	}
	if strings.TrimSpace(code) == "" || !rentalID.Valid {
		return nil
	}
	if amount < 0 {
		amount = 0
	}
	promotion, err := s.Q.GetPromotionByCode(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}
	_, err = s.Q.GetPromotionUsageByRental(ctx, dbgen.GetPromotionUsageByRentalParams{
		PromotionID: promotion.ID,
		RentalID:    rentalID,
	})
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	params := dbgen.InsertPromotionUsageParams{
		PromotionID: promotion.ID,
		RentalID:    rentalID,
		Amount:      amount,
	}
	if userID.Valid {
		params.UserID = userID
	}
	if _, err := s.Q.InsertPromotionUsage(ctx, params); err != nil {
		return err
	}
	if _, err := s.Q.IncreasePromotionUsedCount(ctx, promotion.ID); err != nil {
		return err
	}
	return nil
}

// Release undoes a settled usage, e.g. when a paid rental is canceled or an
// expired pending rental held a usage row. Missing usage is not an error.
func (s *Service) Release(ctx context.Context, code string, rentalID pgtype.UUID) error {
	if s == nil || s.Q == nil {
		return errors.New("promo service not configured")
	}
	if strings.TrimSpace(code) == "" || !rentalID.Valid {
		return nil
	}
	promotion, err := s.Q.GetPromotionByCode(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}
	deleted, err := s.Q.DeletePromotionUsage(ctx, dbgen.DeletePromotionUsageParams{
		PromotionID: promotion.ID,
		RentalID:    rentalID,
	})
	if err != nil {
		return err
	}
	if deleted > 0 {
		return s.Q.DecreasePromotionUsedCount(ctx, promotion.ID)
	}
	return nil
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func parseUUID(value string) (pgtype.UUID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return pgtype.UUID{}, err
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}, nil
}
