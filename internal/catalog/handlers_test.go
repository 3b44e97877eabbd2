package catalog_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/rentkart/backend-rentkart/internal/catalog"
	dbgen "github.com/rentkart/backend-rentkart/internal/db/gen"
)

type fakeQueries struct {
	products   []dbgen.ListProductsPublicRow
	bySlug     map[string]dbgen.GetProductBySlugRow
	categories []dbgen.ListCategoriesRow

	listCalls int
	upserts   []dbgen.UpsertProductBySlugParams
	updated   []dbgen.UpdateProductParams
}

func (f *fakeQueries) ListCategories(context.Context) ([]dbgen.ListCategoriesRow, error) {
	return f.categories, nil
}

func (f *fakeQueries) CreateCategory(_ context.Context, arg dbgen.CreateCategoryParams) (dbgen.Category, error) {
	return dbgen.Category{ID: newUUID(), Name: arg.Name, Slug: arg.Slug, ParentID: arg.ParentID}, nil
}

func (f *fakeQueries) CountProductsPublic(_ context.Context, arg dbgen.CountProductsPublicParams) (int64, error) {
	return int64(len(f.filter(arg.Q, arg.CategorySlug, arg.MinPrice, arg.MaxPrice))), nil
}

func (f *fakeQueries) ListProductsPublic(_ context.Context, arg dbgen.ListProductsPublicParams) ([]dbgen.ListProductsPublicRow, error) {
	f.listCalls++
	rows := f.filter(arg.Q, arg.CategorySlug, arg.MinPrice, arg.MaxPrice)
	start := int(arg.OffsetValue)
	if start > len(rows) {
		start = len(rows)
	}
	end := start + int(arg.LimitValue)
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end], nil
}

func (f *fakeQueries) filter(q, category pgtype.Text, minPrice, maxPrice pgtype.Int8) []dbgen.ListProductsPublicRow {
	var out []dbgen.ListProductsPublicRow
	for _, row := range f.products {
		if q.Valid && !strings.Contains(strings.ToLower(row.Title), strings.ToLower(q.String)) {
			continue
		}
		if category.Valid && row.CategorySlug.String != category.String {
			continue
		}
		if minPrice.Valid && row.UnitPrice < minPrice.Int64 {
			continue
		}
		if maxPrice.Valid && row.UnitPrice > maxPrice.Int64 {
			continue
		}
		out = append(out, row)
	}
	return out
}

func (f *fakeQueries) GetProductBySlug(_ context.Context, slug string) (dbgen.GetProductBySlugRow, error) {
	row, ok := f.bySlug[slug]
	if !ok {
		return dbgen.GetProductBySlugRow{}, pgx.ErrNoRows
	}
	return row, nil
}

func (f *fakeQueries) GetProductByID(_ context.Context, id pgtype.UUID) (dbgen.GetProductByIDRow, error) {
	for _, row := range f.bySlug {
		if row.ID == id {
			return dbgen.GetProductByIDRow{
				ID: row.ID, Title: row.Title, Slug: row.Slug,
				UnitPrice: row.UnitPrice, PricingUnit: row.PricingUnit,
				Stock: row.Stock, Active: row.Active,
			}, nil
		}
	}
	return dbgen.GetProductByIDRow{}, pgx.ErrNoRows
}

func (f *fakeQueries) CreateProduct(_ context.Context, arg dbgen.CreateProductParams) (dbgen.Product, error) {
	return dbgen.Product{
		ID: newUUID(), Title: arg.Title, Slug: arg.Slug, CategoryID: arg.CategoryID,
		UnitPrice: arg.UnitPrice, PricingUnit: arg.PricingUnit, Stock: arg.Stock, Active: arg.Active,
	}, nil
}

func (f *fakeQueries) UpdateProduct(_ context.Context, arg dbgen.UpdateProductParams) (dbgen.Product, error) {
	f.updated = append(f.updated, arg)
	for slug, row := range f.bySlug {
		if row.ID == arg.ID {
			return dbgen.Product{ID: row.ID, Title: arg.Title, Slug: slug, UnitPrice: arg.UnitPrice, PricingUnit: arg.PricingUnit, Active: arg.Active}, nil
		}
	}
	return dbgen.Product{}, pgx.ErrNoRows
}

func (f *fakeQueries) SetProductActive(_ context.Context, arg dbgen.SetProductActiveParams) error {
	for slug, row := range f.bySlug {
		if row.ID == arg.ID {
			row.Active = arg.Active
			f.bySlug[slug] = row
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeQueries) UpsertProductBySlug(_ context.Context, arg dbgen.UpsertProductBySlugParams) (dbgen.Product, error) {
	f.upserts = append(f.upserts, arg)
	return dbgen.Product{ID: newUUID(), Title: arg.Title, Slug: arg.Slug, UnitPrice: arg.UnitPrice, PricingUnit: arg.PricingUnit, Stock: arg.Stock, Active: true}, nil
}

func newUUID() pgtype.UUID {
	return pgtype.UUID{Bytes: uuid.New(), Valid: true}
}

func seedQueries() *fakeQueries {
	drillID := newUUID()
	cameraID := newUUID()
	return &fakeQueries{
		categories: []dbgen.ListCategoriesRow{
			{ID: newUUID(), Name: "Tools", Slug: "tools"},
		},
		products: []dbgen.ListProductsPublicRow{
			{ID: drillID, Title: "Hammer Drill", Slug: "hammer-drill", UnitPrice: 50000, PricingUnit: dbgen.PricingUnitDay, Stock: 3, CategorySlug: pgtype.Text{String: "tools", Valid: true}},
			{ID: cameraID, Title: "DSLR Camera", Slug: "dslr-camera", UnitPrice: 150000, PricingUnit: dbgen.PricingUnitDay, Stock: 0, CategorySlug: pgtype.Text{String: "electronics", Valid: true}},
		},
		bySlug: map[string]dbgen.GetProductBySlugRow{
			"hammer-drill": {ID: drillID, Title: "Hammer Drill", Slug: "hammer-drill", UnitPrice: 50000, PricingUnit: dbgen.PricingUnitDay, Stock: 3, Active: true, CategorySlug: pgtype.Text{String: "tools", Valid: true}},
			"dslr-camera":  {ID: cameraID, Title: "DSLR Camera", Slug: "dslr-camera", UnitPrice: 150000, PricingUnit: dbgen.PricingUnitDay, Stock: 0, Active: false},
		},
	}
}

func newService(t *testing.T, queries *fakeQueries, cache *catalog.Cache) *catalog.Service {
	t.Helper()
	svc, err := catalog.NewService(catalog.ServiceConfig{
		Queries:      queries,
		Cache:        cache,
		DefaultPage:  1,
		DefaultLimit: 20,
		MaxLimit:     100,
	})
	require.NoError(t, err)
	return svc
}

func TestProductsListAndFilters(t *testing.T) {
	queries := seedQueries()
	handler := catalog.NewHandler(newService(t, queries, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rec := httptest.NewRecorder()
	handler.Products(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "2", rec.Header().Get("X-Total-Count"))

	var resp struct {
		Data []catalog.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	require.Equal(t, "Hammer Drill", resp.Data[0].Title)
	require.True(t, resp.Data[0].Available)
	require.False(t, resp.Data[1].Available)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/products?category=tools&maxPrice=60000", nil)
	rec = httptest.NewRecorder()
	handler.Products(rec, req)
	require.Equal(t, "1", rec.Header().Get("X-Total-Count"))
}

func TestProductsListRejectsBadParams(t *testing.T) {
	handler := catalog.NewHandler(newService(t, seedQueries(), nil))

	for _, target := range []string{
		"/api/v1/products?page=0",
		"/api/v1/products?limit=nope",
		"/api/v1/products?minPrice=200&maxPrice=100",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		handler.Products(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestProductDetail(t *testing.T) {
	handler := catalog.NewHandler(newService(t, seedQueries(), nil))

	router := chi.NewRouter()
	router.Get("/api/v1/products/{slug}", handler.ProductDetail)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products/hammer-drill", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data catalog.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, int64(50000), resp.Data.UnitPrice)
	require.Equal(t, "day", resp.Data.PricingUnit)

	// inactive products are hidden from the public surface
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products/dslr-camera", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products/missing", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListCachePopulatesAndInvalidates(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	queries := seedQueries()
	cache := catalog.NewCache(client, 5*time.Minute)
	svc := newService(t, queries, cache)
	ctx := context.Background()

	params, err := svc.ParseListParams(nil)
	require.NoError(t, err)

	_, err = svc.ListProducts(ctx, params)
	require.NoError(t, err)
	_, err = svc.ListProducts(ctx, params)
	require.NoError(t, err)
	require.Equal(t, 1, queries.listCalls, "second default listing should come from cache")

	// an admin write drops the cached listing
	drill := queries.bySlug["hammer-drill"]
	_, err = svc.UpdateProduct(ctx, uuid.UUID(drill.ID.Bytes).String(), catalog.ProductInput{
		Title:       "Hammer Drill Pro",
		UnitPrice:   60000,
		PricingUnit: "day",
	})
	require.NoError(t, err)

	_, err = svc.ListProducts(ctx, params)
	require.NoError(t, err)
	require.Equal(t, 2, queries.listCalls)
}

func TestImportProducts(t *testing.T) {
	queries := seedQueries()
	svc := newService(t, queries, nil)

	result, err := svc.ImportProducts(context.Background(), []map[string]any{
		{"product_id": "gen-1", "name": "Generator", "unit_price": float64(400000), "pricing_unit": "day", "stock": float64(2)},
		{"price": float64(100)}, // no identity, skipped
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.Imported)
	require.Equal(t, 1, result.Skipped)
	require.Len(t, queries.upserts, 1)
	require.Equal(t, "gen-1", queries.upserts[0].Slug)
	require.Equal(t, int64(400000), queries.upserts[0].UnitPrice)
}
