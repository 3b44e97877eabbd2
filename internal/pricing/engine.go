package pricing

import "time"

// Money represents a monetary value stored in minor units (paise).
type Money = int64

// Line describes a rental cart line used for pricing calculation. UnitPrice is
// the snapshot taken at add-to-cart time.
type Line struct {
	Qty       int64
	UnitPrice Money
	Unit      Unit
	StartsAt  time.Time
	EndsAt    time.Time
}

// BillableUnits resolves the number of units the line bills for. A line with
// no dates bills a single unit so items can sit in the cart before dates are
// picked; a line with exactly one date also bills one unit and is reported as
// incomplete so the UI can warn.
func (l Line) BillableUnits() (units int64, incomplete bool) {
	hasStart := !l.StartsAt.IsZero()
	hasEnd := !l.EndsAt.IsZero()
	if hasStart != hasEnd {
		return 1, true
	}
	if !hasStart {
		return 1, false
	}
	units = DurationUnits(l.Unit, l.StartsAt, l.EndsAt)
	if units < 1 {
		units = 1
	}
	return units, false
}

// LineTotal computes unitPrice x tier multiplier x billable units x qty.
// Negative inputs coerce to zero so bad data never produces negative totals.
func LineTotal(line Line, multiplierBps int64) Money {
	if line.Qty <= 0 || line.UnitPrice <= 0 {
		return 0
	}
	if multiplierBps <= 0 {
		multiplierBps = 10000
	}
	units, _ := line.BillableUnits()
	unit := (line.UnitPrice * multiplierBps) / 10000
	return unit * units * line.Qty
}

// DiscountKind enumerates how a promotion reduces the cart total.
type DiscountKind string

// Supported discount kinds.
const (
	DiscountPercentage DiscountKind = "percentage"
	DiscountFixed      DiscountKind = "fixed"
)

// Discount describes a resolved promotion ready to be applied to a total.
// Percentage discounts carry basis points so the arithmetic stays integral.
type Discount struct {
	Kind       DiscountKind
	PercentBps int64
	Amount     Money
}

// Amount returns the discount value for the given total, capped to [0, total].
func (d Discount) Apply(total Money) Money {
	if total <= 0 {
		return 0
	}
	var amount Money
	switch d.Kind {
	case DiscountPercentage:
		if d.PercentBps <= 0 {
			return 0
		}
		amount = (total * d.PercentBps) / 10000
	case DiscountFixed:
		amount = d.Amount
	default:
		return 0
	}
	if amount > total {
		amount = total
	}
	if amount < 0 {
		amount = 0
	}
	return amount
}

// Summary aggregates computed pricing components for a cart or order.
type Summary struct {
	Subtotal Money
	Discount Money
	Taxes    Money
	Delivery Money
	Total    Money
	Payable  Money
}

// Compute calculates cart totals. It is the single source of truth for the
// payable amount: cart previews, checkout, and payment amount checks all
// consume its output. Taxes and delivery are zero under the current rule set
// but stay parameters so the shape holds when those rules arrive.
func Compute(lines []Line, list PriceList, discount *Discount, taxBps int, delivery Money) Summary {
	multiplier := list.MultiplierBps()
	var subtotal Money
	for _, line := range lines {
		subtotal += LineTotal(line, multiplier)
	}
	taxes := Money(0)
	if taxBps > 0 {
		taxes = (subtotal * Money(taxBps)) / 10000
	}
	if delivery < 0 {
		delivery = 0
	}
	total := subtotal + taxes + delivery
	var off Money
	if discount != nil {
		off = discount.Apply(total)
	}
	return Summary{
		Subtotal: subtotal,
		Discount: off,
		Taxes:    taxes,
		Delivery: delivery,
		Total:    total,
		Payable:  total - off,
	}
}
