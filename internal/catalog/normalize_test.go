package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rentkart/backend-rentkart/internal/catalog"
	dbgen "github.com/rentkart/backend-rentkart/internal/db/gen"
)

func TestNormalizeUpstreamFieldAliases(t *testing.T) {
	cases := []struct {
		name string
		raw  map[string]any
		want catalog.NormalizedProduct
	}{
		{
			name: "canonical fields",
			raw: map[string]any{
				"id":           "prod-1",
				"title":        "Drill",
				"price":        float64(120000),
				"pricing_unit": "day",
				"stock":        float64(4),
			},
			want: catalog.NormalizedProduct{Key: "prod-1", Title: "Drill", Slug: "prod-1", Price: 120000, PricingUnit: dbgen.PricingUnitDay, Stock: 4},
		},
		{
			name: "product_id and unit_price aliases",
			raw: map[string]any{
				"product_id": float64(42),
				"name":       "Camera",
				"unit_price": "250000",
			},
			want: catalog.NormalizedProduct{Key: "42", Title: "Camera", Slug: "42", Price: 250000, PricingUnit: dbgen.PricingUnitDay},
		},
		{
			name: "slug identity with base_price and weekly unit",
			raw: map[string]any{
				"slug":        "Projector HD",
				"base_price":  float64(99999),
				"pricingUnit": "WEEKS",
			},
			want: catalog.NormalizedProduct{Key: "Projector HD", Title: "Projector HD", Slug: "projector-hd", Price: 99999, PricingUnit: dbgen.PricingUnitWeek},
		},
		{
			name: "fractional price is rupees",
			raw: map[string]any{
				"uuid":  "e9b1a0a2-9a9e-4f1c-9d7e-2b8a8f6f8a10",
				"price": 1499.50,
			},
			want: catalog.NormalizedProduct{
				Key:         "e9b1a0a2-9a9e-4f1c-9d7e-2b8a8f6f8a10",
				Title:       "e9b1a0a2-9a9e-4f1c-9d7e-2b8a8f6f8a10",
				Slug:        "e9b1a0a2-9a9e-4f1c-9d7e-2b8a8f6f8a10",
				Price:       149950,
				PricingUnit: dbgen.PricingUnitDay,
			},
		},
		{
			name: "negative and junk prices coerce to zero",
			raw: map[string]any{
				"pk":    "item-7",
				"price": "not-a-number",
			},
			want: catalog.NormalizedProduct{Key: "item-7", Title: "item-7", Slug: "item-7", PricingUnit: dbgen.PricingUnitDay},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := catalog.NormalizeUpstream(tc.raw)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeUpstreamRejectsUnidentifiable(t *testing.T) {
	_, err := catalog.NormalizeUpstream(map[string]any{"price": float64(100)})
	require.Error(t, err)

	_, err = catalog.NormalizeUpstream(nil)
	require.Error(t, err)
}

func TestNormalizeUpstreamUnknownUnitFallsBackToDay(t *testing.T) {
	got, err := catalog.NormalizeUpstream(map[string]any{
		"id":           "x",
		"price":        float64(100),
		"pricing_unit": "fortnight",
	})
	require.NoError(t, err)
	require.Equal(t, dbgen.PricingUnitDay, got.PricingUnit)
}
