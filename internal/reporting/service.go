package reporting

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/redis/go-redis/v9"

	dbgen "github.com/rentkart/backend-rentkart/internal/db/gen"
)

// Querier defines the database access required for reporting queries.
type Querier interface {
	GetRentalKPIs(ctx context.Context, arg dbgen.GetRentalKPIsParams) (dbgen.GetRentalKPIsRow, error)
	GetTopRentedProducts(ctx context.Context, arg dbgen.GetTopRentedProductsParams) ([]dbgen.GetTopRentedProductsRow, error)
	GetTopRentedCategories(ctx context.Context, arg dbgen.GetTopRentedCategoriesParams) ([]dbgen.GetTopRentedCategoriesRow, error)
}

// KPI aggregates the headline numbers for a reporting window. Revenue counts
// paid-through rentals only; the rental count excludes canceled and expired.
type KPI struct {
	Rentals int64 `json:"rentals"`
	Revenue int64 `json:"revenue"`
}

// ProductRow is one entry of the top-products breakdown.
type ProductRow struct {
	ProductID string `json:"productId"`
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	QtyRented int64  `json:"qtyRented"`
	Revenue   int64  `json:"revenue"`
}

// CategoryRow is one entry of the top-categories breakdown.
type CategoryRow struct {
	CategoryID string `json:"categoryId"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	QtyRented  int64  `json:"qtyRented"`
	Revenue    int64  `json:"revenue"`
}

// Summary is the seller console reporting payload.
type Summary struct {
	From          time.Time     `json:"from"`
	To            time.Time     `json:"to"`
	KPI           KPI           `json:"kpi"`
	TopProducts   []ProductRow  `json:"top_products"`
	TopCategories []CategoryRow `json:"top_categories"`
}

// Service provides cached access to reporting aggregates.
type Service struct {
	Q            Querier
	R            *redis.Client
	TTL          time.Duration
	DefaultRange int
	Now          func() time.Time
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func cacheKey(parts ...any) string {
	formatted := make([]string, 0, len(parts))
	for _, part := range parts {
		formatted = append(formatted, fmt.Sprint(part))
	}
	return strings.Join(formatted, ":")
}

// Summarize returns KPIs plus top products and categories between the bounds,
// inclusive of from and exclusive of to.
func (s *Service) Summarize(ctx context.Context, from, to time.Time, limit int32) (Summary, error) {
	if s == nil || s.Q == nil {
		return Summary{}, fmt.Errorf("reporting service not configured")
	}
	if limit <= 0 {
		limit = 5
	}
	key := cacheKey("rp", "summary", from.Format("2006-01-02"), to.Format("2006-01-02"), limit)
	if summary, ok := s.getFromCache(ctx, key); ok {
		return summary, nil
	}

	startTs := pgtype.Timestamptz{Time: from, Valid: true}
	endTs := pgtype.Timestamptz{Time: to, Valid: true}
	kpi, err := s.Q.GetRentalKPIs(ctx, dbgen.GetRentalKPIsParams{StartTs: startTs, EndTs: endTs})
	if err != nil {
		return Summary{}, err
	}
	products, err := s.Q.GetTopRentedProducts(ctx, dbgen.GetTopRentedProductsParams{StartTs: startTs, EndTs: endTs, LimitCount: limit})
	if err != nil {
		return Summary{}, err
	}
	categories, err := s.Q.GetTopRentedCategories(ctx, dbgen.GetTopRentedCategoriesParams{StartTs: startTs, EndTs: endTs, LimitCount: limit})
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		From:          from,
		To:            to,
		KPI:           KPI{Rentals: kpi.Rentals, Revenue: kpi.Revenue},
		TopProducts:   make([]ProductRow, 0, len(products)),
		TopCategories: make([]CategoryRow, 0, len(categories)),
	}
	for _, p := range products {
		summary.TopProducts = append(summary.TopProducts, ProductRow{
			ProductID: uuidString(p.ProductID),
			Title:     p.Title,
			Slug:      p.Slug,
			QtyRented: p.QtyRented,
			Revenue:   p.Revenue,
		})
	}
	for _, c := range categories {
		summary.TopCategories = append(summary.TopCategories, CategoryRow{
			CategoryID: uuidString(c.CategoryID),
			Name:       c.Name,
			Slug:       c.Slug,
			QtyRented:  c.QtyRented,
			Revenue:    c.Revenue,
		})
	}
	s.store(ctx, key, summary)
	return summary, nil
}

func (s *Service) getFromCache(ctx context.Context, key string) (Summary, bool) {
	if s.R == nil || s.TTL <= 0 {
		return Summary{}, false
	}
	data, err := s.R.Get(ctx, key).Bytes()
	if err != nil {
		return Summary{}, false
	}
	var summary Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return Summary{}, false
	}
	return summary, true
}

func (s *Service) store(ctx context.Context, key string, value Summary) {
	if s.R == nil || s.TTL <= 0 {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = s.R.Set(ctx, key, data, s.TTL).Err()
}

func uuidString(id pgtype.UUID) string {
	if !id.Valid {
		return ""
	}
	return uuid.UUID(id.Bytes).String()
}
