package promo

import (
	"errors"
	"time"

	dbgen "github.com/rentkart/backend-rentkart/internal/db/gen"
	"github.com/rentkart/backend-rentkart/internal/pricing"
)

var (
	// ErrNotEligible is returned when the code cannot be applied to the cart.
	ErrNotEligible = errors.New("promotion not eligible")
	// ErrUsageLimitReached indicates the promotion exhausted its global quota.
	ErrUsageLimitReached = errors.New("promotion usage limit reached")
	// ErrPerUserLimitReached indicates the caller exceeded the per-user allowance.
	ErrPerUserLimitReached = errors.New("promotion per-user usage limit reached")
	// ErrPromotionInactive is returned before the validity window opens or when
	// the promotion is disabled.
	ErrPromotionInactive = errors.New("promotion not active")
	// ErrPromotionExpired is returned after the validity window closes.
	ErrPromotionExpired = errors.New("promotion expired")
	// ErrMinimumSpendUnmet indicates the cart total did not meet the requirement.
	ErrMinimumSpendUnmet = errors.New("promotion minimum spend not met")
)

// Rule captures the runtime constraints of a promotion.
type Rule struct {
	Code         string
	Kind         dbgen.DiscountKind
	Value        int64
	PercentBps   *int32
	MinSpend     int64
	UsageLimit   *int32
	UsedCount    int32
	PerUserLimit *int32
	PerUserUsed  int32
	ValidFrom    *time.Time
	ValidTo      *time.Time
	Active       bool
}

// Validate ensures the rule can be applied at the provided instant and cart total.
func (r Rule) Validate(now time.Time, cartTotal int64) error {
	if !r.Active {
		return ErrPromotionInactive
	}
	if cartTotal < r.MinSpend {
		return ErrMinimumSpendUnmet
	}
	if r.ValidFrom != nil && now.Before(*r.ValidFrom) {
		return ErrPromotionInactive
	}
	if r.ValidTo != nil && now.After(*r.ValidTo) {
		return ErrPromotionExpired
	}
	if r.UsageLimit != nil && *r.UsageLimit >= 0 && r.UsedCount >= *r.UsageLimit {
		return ErrUsageLimitReached
	}
	if r.PerUserLimit != nil && *r.PerUserLimit > 0 && r.PerUserUsed >= *r.PerUserLimit {
		return ErrPerUserLimitReached
	}
	return nil
}

// Discount converts the rule into the pricing engine's discount shape.
func (r Rule) Discount() pricing.Discount {
	switch r.Kind {
	case dbgen.DiscountKindPercentage:
		var bps int64
		if r.PercentBps != nil {
			bps = int64(*r.PercentBps)
		}
		return pricing.Discount{Kind: pricing.DiscountPercentage, PercentBps: bps}
	default:
		return pricing.Discount{Kind: pricing.DiscountFixed, Amount: r.Value}
	}
}

// Compute determines the discount amount for the cart total, capped to the
// total so the payable amount never goes negative.
func Compute(total int64, r Rule) int64 {
	return r.Discount().Apply(total)
}

// RuleFromModel converts the generated sqlc model into an evaluation Rule.
func RuleFromModel(p dbgen.Promotion) Rule {
	rule := Rule{
		Code:      p.Code,
		Kind:      p.Kind,
		Value:     p.Value,
		MinSpend:  p.MinSpend,
		UsedCount: p.UsedCount,
		Active:    p.Active,
	}
	if p.PercentBps.Valid {
		v := p.PercentBps.Int32
		rule.PercentBps = &v
	}
	if p.UsageLimit.Valid {
		v := p.UsageLimit.Int32
		rule.UsageLimit = &v
	}
	if p.PerUserLimit.Valid {
		v := p.PerUserLimit.Int32
		rule.PerUserLimit = &v
	}
	if p.ValidFrom.Valid {
		rule.ValidFrom = &p.ValidFrom.Time
	}
	if p.ValidTo.Valid {
		rule.ValidTo = &p.ValidTo.Time
	}
	return rule
}
