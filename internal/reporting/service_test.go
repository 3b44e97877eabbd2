package reporting_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/redis/go-redis/v9"

	dbgen "github.com/rentkart/backend-rentkart/internal/db/gen"
	"github.com/rentkart/backend-rentkart/internal/reporting"
)

type stubQueries struct {
	kpiCalls int
}

func (s *stubQueries) GetRentalKPIs(ctx context.Context, arg dbgen.GetRentalKPIsParams) (dbgen.GetRentalKPIsRow, error) {
	s.kpiCalls++
	return dbgen.GetRentalKPIsRow{Rentals: 12, Revenue: 480000}, nil
}

func (s *stubQueries) GetTopRentedProducts(ctx context.Context, arg dbgen.GetTopRentedProductsParams) ([]dbgen.GetTopRentedProductsRow, error) {
	return []dbgen.GetTopRentedProductsRow{{
		ProductID: pgtype.UUID{Bytes: uuid.New(), Valid: true},
		Title:     "Sony A7 IV Mirrorless Camera",
		Slug:      "sony-a7-iv",
		QtyRented: 7,
		Revenue:   350000,
	}}, nil
}

func (s *stubQueries) GetTopRentedCategories(ctx context.Context, arg dbgen.GetTopRentedCategoriesParams) ([]dbgen.GetTopRentedCategoriesRow, error) {
	return []dbgen.GetTopRentedCategoriesRow{{
		CategoryID: pgtype.UUID{Bytes: uuid.New(), Valid: true},
		Name:       "Cameras & Lenses",
		Slug:       "cameras",
		QtyRented:  9,
		Revenue:    420000,
	}}, nil
}

func TestSummarizeShape(t *testing.T) {
	queries := &stubQueries{}
	svc := &reporting.Service{Q: queries, DefaultRange: 30}
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	from := to.AddDate(0, 0, -30)

	summary, err := svc.Summarize(context.Background(), from, to, 5)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if summary.KPI.Rentals != 12 || summary.KPI.Revenue != 480000 {
		t.Fatalf("unexpected kpi: %+v", summary.KPI)
	}
	if len(summary.TopProducts) != 1 || summary.TopProducts[0].Slug != "sony-a7-iv" {
		t.Fatalf("unexpected top products: %+v", summary.TopProducts)
	}
	if len(summary.TopCategories) != 1 || summary.TopCategories[0].Slug != "cameras" {
		t.Fatalf("unexpected top categories: %+v", summary.TopCategories)
	}
	if summary.TopProducts[0].ProductID == "" {
		t.Fatal("expected product id to render as a uuid string")
	}
}

func TestSummarizeCached(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	queries := &stubQueries{}
	svc := &reporting.Service{Q: queries, R: rdb, TTL: time.Minute, DefaultRange: 30}

	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	from := to.AddDate(0, 0, -30)
	if _, err := svc.Summarize(context.Background(), from, to, 5); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := svc.Summarize(context.Background(), from, to, 5); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if queries.kpiCalls != 1 {
		t.Fatalf("expected 1 DB call, got %d", queries.kpiCalls)
	}
}
