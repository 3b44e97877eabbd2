package promo_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	dbgen "github.com/rentkart/backend-rentkart/internal/db/gen"
	"github.com/rentkart/backend-rentkart/internal/promo"
)

func int32Ptr(v int32) *int32 { return &v }

func TestRuleValidate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	base := promo.Rule{Code: "WELCOME", Kind: dbgen.DiscountKindFixed, Value: 5000, Active: true}

	require.NoError(t, base.Validate(now, 10000))

	inactive := base
	inactive.Active = false
	require.ErrorIs(t, inactive.Validate(now, 10000), promo.ErrPromotionInactive)

	minSpend := base
	minSpend.MinSpend = 20000
	require.ErrorIs(t, minSpend.Validate(now, 10000), promo.ErrMinimumSpendUnmet)

	notYet := base
	notYet.ValidFrom = &future
	require.ErrorIs(t, notYet.Validate(now, 10000), promo.ErrPromotionInactive)

	expired := base
	expired.ValidTo = &past
	require.ErrorIs(t, expired.Validate(now, 10000), promo.ErrPromotionExpired)

	exhausted := base
	exhausted.UsageLimit = int32Ptr(10)
	exhausted.UsedCount = 10
	require.ErrorIs(t, exhausted.Validate(now, 10000), promo.ErrUsageLimitReached)

	perUser := base
	perUser.PerUserLimit = int32Ptr(1)
	perUser.PerUserUsed = 1
	require.ErrorIs(t, perUser.Validate(now, 10000), promo.ErrPerUserLimitReached)
}

func TestComputePercentageUsesBasisPoints(t *testing.T) {
	rule := promo.Rule{Kind: dbgen.DiscountKindPercentage, PercentBps: int32Ptr(1250), Active: true}
	// 12.5% of 80000 paise
	require.Equal(t, int64(10000), promo.Compute(80000, rule))
}

func TestComputeFixedCapsAtTotal(t *testing.T) {
	rule := promo.Rule{Kind: dbgen.DiscountKindFixed, Value: 50000, Active: true}
	require.Equal(t, int64(30000), promo.Compute(30000, rule))
	require.Equal(t, int64(0), promo.Compute(0, rule))
}

func TestComputePercentageWithoutBpsIsZero(t *testing.T) {
	rule := promo.Rule{Kind: dbgen.DiscountKindPercentage, Active: true}
	require.Equal(t, int64(0), promo.Compute(10000, rule))
}
