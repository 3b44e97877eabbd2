package promo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	dbgen "github.com/rentkart/backend-rentkart/internal/db/gen"
	"github.com/rentkart/backend-rentkart/internal/promo"
)

type fakeQuerier struct {
	promotion dbgen.Promotion
	missing   bool

	userUsage   int64
	rentalUsage map[string]dbgen.PromotionUsage

	inserted  []dbgen.InsertPromotionUsageParams
	increased int
	deleted   int
	decreased int
}

func (f *fakeQuerier) GetPromotionByCode(_ context.Context, code string) (dbgen.Promotion, error) {
	if f.missing {
		return dbgen.Promotion{}, pgx.ErrNoRows
	}
	return f.promotion, nil
}

func (f *fakeQuerier) CountPromotionUsageByUser(context.Context, dbgen.CountPromotionUsageByUserParams) (int64, error) {
	return f.userUsage, nil
}

func (f *fakeQuerier) GetPromotionUsageByRental(_ context.Context, arg dbgen.GetPromotionUsageByRentalParams) (dbgen.PromotionUsage, error) {
	usage, ok := f.rentalUsage[uuid.UUID(arg.RentalID.Bytes).String()]
	if !ok {
		return dbgen.PromotionUsage{}, pgx.ErrNoRows
	}
	return usage, nil
}

func (f *fakeQuerier) InsertPromotionUsage(_ context.Context, arg dbgen.InsertPromotionUsageParams) (dbgen.PromotionUsage, error) {
	f.inserted = append(f.inserted, arg)
	if f.rentalUsage == nil {
		f.rentalUsage = map[string]dbgen.PromotionUsage{}
	}
	f.rentalUsage[uuid.UUID(arg.RentalID.Bytes).String()] = dbgen.PromotionUsage{
		PromotionID: arg.PromotionID,
		RentalID:    arg.RentalID,
		UserID:      arg.UserID,
		Amount:      arg.Amount,
	}
	return f.rentalUsage[uuid.UUID(arg.RentalID.Bytes).String()], nil
}

func (f *fakeQuerier) IncreasePromotionUsedCount(context.Context, pgtype.UUID) (int32, error) {
	f.increased++
	return f.promotion.UsedCount + int32(f.increased), nil
}

func (f *fakeQuerier) DeletePromotionUsage(_ context.Context, arg dbgen.DeletePromotionUsageParams) (int64, error) {
	key := uuid.UUID(arg.RentalID.Bytes).String()
	if _, ok := f.rentalUsage[key]; !ok {
		return 0, nil
	}
	delete(f.rentalUsage, key)
	f.deleted++
	return 1, nil
}

func (f *fakeQuerier) DecreasePromotionUsedCount(context.Context, pgtype.UUID) error {
	f.decreased++
	return nil
}

func fixedPromotion() dbgen.Promotion {
	return dbgen.Promotion{
		ID:       pgtype.UUID{Bytes: uuid.New(), Valid: true},
		Code:     "RENT50",
		Kind:     dbgen.DiscountKindFixed,
		Value:    5000,
		MinSpend: 10000,
		Active:   true,
	}
}

func TestResolveFixedDiscount(t *testing.T) {
	q := &fakeQuerier{promotion: fixedPromotion()}
	svc := &promo.Service{Q: q, Now: func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }}

	resolution, err := svc.Resolve(context.Background(), "rent50", nil, 25000)
	require.NoError(t, err)
	require.Equal(t, "RENT50", resolution.Code)
	require.Equal(t, int64(5000), resolution.Amount)
}

func TestResolveUnknownCode(t *testing.T) {
	svc := &promo.Service{Q: &fakeQuerier{missing: true}}
	_, err := svc.Resolve(context.Background(), "NOPE", nil, 25000)
	require.ErrorIs(t, err, promo.ErrNotEligible)
}

func TestResolvePerUserLimit(t *testing.T) {
	p := fixedPromotion()
	p.PerUserLimit = pgtype.Int4{Int32: 1, Valid: true}
	q := &fakeQuerier{promotion: p, userUsage: 1}
	svc := &promo.Service{Q: q}

	userID := uuid.NewString()
	_, err := svc.Resolve(context.Background(), "RENT50", &userID, 25000)
	require.ErrorIs(t, err, promo.ErrPerUserLimitReached)
}

func TestSettleIsIdempotentPerRental(t *testing.T) {
	q := &fakeQuerier{promotion: fixedPromotion()}
	svc := &promo.Service{Q: q}

	rentalID := pgtype.UUID{Bytes: uuid.New(), Valid: true}
	userID := pgtype.UUID{Bytes: uuid.New(), Valid: true}

	require.NoError(t, svc.Settle(context.Background(), "RENT50", rentalID, userID, 5000))
	require.NoError(t, svc.Settle(context.Background(), "RENT50", rentalID, userID, 5000))
	require.Len(t, q.inserted, 1)
	require.Equal(t, 1, q.increased)
}

func TestReleaseUndoesSettledUsage(t *testing.T) {
	q := &fakeQuerier{promotion: fixedPromotion()}
	svc := &promo.Service{Q: q}

	rentalID := pgtype.UUID{Bytes: uuid.New(), Valid: true}
	require.NoError(t, svc.Settle(context.Background(), "RENT50", rentalID, pgtype.UUID{}, 5000))
	require.NoError(t, svc.Release(context.Background(), "RENT50", rentalID))
	require.Equal(t, 1, q.deleted)
	require.Equal(t, 1, q.decreased)

	// releasing again is a no-op
	require.NoError(t, svc.Release(context.Background(), "RENT50", rentalID))
	require.Equal(t, 1, q.deleted)
}
