package catalog

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	dbgen "github.com/rentkart/backend-rentkart/internal/db/gen"
	"github.com/rentkart/backend-rentkart/internal/pricing"
)

// NormalizedProduct is the canonical record produced from an upstream feed
// entry. Price is in paise per billing unit.
type NormalizedProduct struct {
	Key         string
	Title       string
	Slug        string
	Price       int64
	PricingUnit dbgen.PricingUnit
	Stock       int32
}

// Upstream feeds are not uniform; these are the aliases seen in practice.
var (
	identityAliases = []string{"id", "product_id", "productId", "uuid", "pk", "slug"}
	priceAliases    = []string{"price", "unit_price", "unitPrice", "base_price", "basePrice"}
	titleAliases    = []string{"title", "name", "product_name", "productName"}
	stockAliases    = []string{"stock", "quantity", "qty", "available"}
)

// NormalizeUpstream maps an arbitrary upstream product shape into the canonical
// record, so nothing downstream has to probe field names. Negative or
// non-numeric prices coerce to 0; a missing pricing unit defaults to day.
func NormalizeUpstream(raw map[string]any) (NormalizedProduct, error) {
	if len(raw) == 0 {
		return NormalizedProduct{}, errors.New("empty record")
	}
	key := firstString(raw, identityAliases)
	if key == "" {
		return NormalizedProduct{}, fmt.Errorf("no identity field (tried %s)", strings.Join(identityAliases, ", "))
	}
	title := firstString(raw, titleAliases)
	if title == "" {
		title = key
	}
	slug := Slugify(firstString(raw, []string{"slug"}))
	if slug == "" {
		slug = Slugify(key)
	}
	if slug == "" {
		return NormalizedProduct{}, errors.New("identity does not yield a usable slug")
	}

	price := int64(0)
	for _, alias := range priceAliases {
		if v, ok := raw[alias]; ok {
			price = coercePaise(v)
			break
		}
	}

	unit := dbgen.PricingUnitDay
	for _, alias := range []string{"pricing_unit", "pricingUnit", "unit"} {
		if v, ok := raw[alias]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				unit = normalizePricingUnit(s)
			}
			break
		}
	}

	stock := int32(0)
	for _, alias := range stockAliases {
		if v, ok := raw[alias]; ok {
			if n, valid := coerceInt(v); valid && n > 0 {
				if n > math.MaxInt32 {
					n = math.MaxInt32
				}
				stock = int32(n)
			}
			break
		}
	}

	return NormalizedProduct{
		Key:         key,
		Title:       strings.TrimSpace(title),
		Slug:        slug,
		Price:       price,
		PricingUnit: unit,
		Stock:       stock,
	}, nil
}

func normalizePricingUnit(value string) dbgen.PricingUnit {
	return dbgen.PricingUnit(pricing.ParseUnit(value))
}

func firstString(raw map[string]any, aliases []string) string {
	for _, alias := range aliases {
		v, ok := raw[alias]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case string:
			if trimmed := strings.TrimSpace(t); trimmed != "" {
				return trimmed
			}
		case float64:
			if t == math.Trunc(t) {
				return strconv.FormatInt(int64(t), 10)
			}
		case int:
			return strconv.Itoa(t)
		case int64:
			return strconv.FormatInt(t, 10)
		}
	}
	return ""
}

// coercePaise accepts numbers or numeric strings. Values are treated as paise
// already when integral; fractional values are rupee amounts and converted.
// Anything negative or unparseable coerces to 0.
func coercePaise(v any) int64 {
	switch t := v.(type) {
	case float64:
		if t < 0 || math.IsNaN(t) || math.IsInf(t, 0) {
			return 0
		}
		if t == math.Trunc(t) {
			return int64(t)
		}
		return int64(math.Round(t * 100))
	case int:
		if t < 0 {
			return 0
		}
		return int64(t)
	case int64:
		if t < 0 {
			return 0
		}
		return t
	case string:
		trimmed := strings.TrimSpace(t)
		if trimmed == "" {
			return 0
		}
		if parsed, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			if parsed < 0 {
				return 0
			}
			return parsed
		}
		if parsed, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return coercePaise(parsed)
		}
		return 0
	default:
		return 0
	}
}

func coerceInt(v any) (int64, bool) {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return int64(t), true
	case int:
		return int64(t), true
	case int64:
		return t, true
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}
