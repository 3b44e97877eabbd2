package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/rentkart/backend-rentkart/internal/common"
	dbgen "github.com/rentkart/backend-rentkart/internal/db/gen"
)

type queryProvider interface {
	ListCategories(ctx context.Context) ([]dbgen.ListCategoriesRow, error)
	CreateCategory(ctx context.Context, arg dbgen.CreateCategoryParams) (dbgen.Category, error)
	CountProductsPublic(ctx context.Context, arg dbgen.CountProductsPublicParams) (int64, error)
	ListProductsPublic(ctx context.Context, arg dbgen.ListProductsPublicParams) ([]dbgen.ListProductsPublicRow, error)
	GetProductBySlug(ctx context.Context, slug string) (dbgen.GetProductBySlugRow, error)
	GetProductByID(ctx context.Context, id pgtype.UUID) (dbgen.GetProductByIDRow, error)
	CreateProduct(ctx context.Context, arg dbgen.CreateProductParams) (dbgen.Product, error)
	UpdateProduct(ctx context.Context, arg dbgen.UpdateProductParams) (dbgen.Product, error)
	SetProductActive(ctx context.Context, arg dbgen.SetProductActiveParams) error
	UpsertProductBySlug(ctx context.Context, arg dbgen.UpsertProductBySlugParams) (dbgen.Product, error)
}

// Service orchestrates catalog queries, DTO assembly, and caching.
type Service struct {
	queries      queryProvider
	cache        *Cache
	defaultPage  int
	defaultLimit int
	maxLimit     int
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Queries      queryProvider
	Cache        *Cache
	DefaultPage  int
	DefaultLimit int
	MaxLimit     int
}

// ListParams captures filters for product listing.
type ListParams struct {
	Query    string
	Category string
	MinPrice *int64
	MaxPrice *int64
	Sort     string
	Page     int
	Limit    int
}

// Product is the public product payload. UnitPrice is in paise per billing unit.
type Product struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	UnitPrice   int64  `json:"unitPrice"`
	PricingUnit string `json:"pricingUnit"`
	Stock       int32  `json:"stock"`
	Available   bool   `json:"available"`
	Category    string `json:"category,omitempty"`
}

// Category represents the public category payload.
type Category struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Slug     string  `json:"slug"`
	ParentID *string `json:"parentId,omitempty"`
}

// ProductListResult contains list data and pagination metadata.
type ProductListResult struct {
	Items []Product
	Total int64
	Page  int
	Limit int
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Queries == nil {
		return nil, errors.New("catalog: queries provider is required")
	}
	defaultPage := cfg.DefaultPage
	if defaultPage < 1 {
		defaultPage = 1
	}
	defaultLimit := cfg.DefaultLimit
	if defaultLimit < 1 {
		defaultLimit = 20
	}
	maxLimit := cfg.MaxLimit
	if maxLimit < 1 {
		maxLimit = 100
	}
	if defaultLimit > maxLimit {
		defaultLimit = maxLimit
	}
	return &Service{
		queries:      cfg.Queries,
		cache:        cfg.Cache,
		defaultPage:  defaultPage,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}, nil
}

// ParseListParams normalises raw query values into strongly typed filters.
func (s *Service) ParseListParams(values url.Values) (ListParams, error) {
	params := ListParams{
		Page:  s.defaultPage,
		Limit: s.defaultLimit,
	}
	params.Query = strings.TrimSpace(values.Get("q"))
	params.Category = strings.TrimSpace(values.Get("category"))

	if v := strings.TrimSpace(values.Get("page")); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return params, badRequest("page", "page must be a positive integer", err)
		}
		params.Page = page
	}

	limit := s.defaultLimit
	if v := strings.TrimSpace(values.Get("limit")); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil || l < 1 {
			return params, badRequest("limit", "limit must be a positive integer", err)
		}
		limit = l
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	params.Limit = limit

	if v := strings.TrimSpace(values.Get("minPrice")); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return params, badRequest("minPrice", "minPrice must be a valid integer", err)
		}
		params.MinPrice = &parsed
	}
	if v := strings.TrimSpace(values.Get("maxPrice")); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return params, badRequest("maxPrice", "maxPrice must be a valid integer", err)
		}
		params.MaxPrice = &parsed
	}
	if params.MinPrice != nil && params.MaxPrice != nil && *params.MinPrice > *params.MaxPrice {
		return params, badRequest("price", "minPrice cannot be greater than maxPrice", fmt.Errorf("invalid price range"))
	}

	params.Sort = normalizeSort(values.Get("sort"))
	return params, nil
}

// ListCategories returns all categories with parent linkage.
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.queries.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	result := make([]Category, 0, len(rows))
	for _, row := range rows {
		cat := Category{
			ID:   uuidString(row.ID),
			Name: row.Name,
			Slug: row.Slug,
		}
		if row.ParentID.Valid {
			parent := uuidString(row.ParentID)
			cat.ParentID = &parent
		}
		result = append(result, cat)
	}
	return result, nil
}

// CreateCategory registers a category, optionally under a parent.
func (s *Service) CreateCategory(ctx context.Context, name, slug string, parentID *string) (Category, error) {
	name = strings.TrimSpace(name)
	slug = Slugify(slug)
	if slug == "" {
		slug = Slugify(name)
	}
	if name == "" || slug == "" {
		return Category{}, badRequest("name", "name is required", nil)
	}
	parent := pgtype.UUID{}
	if parentID != nil {
		parsed, err := uuid.Parse(*parentID)
		if err != nil {
			return Category{}, badRequest("parentId", "parentId must be a valid uuid", err)
		}
		parent = pgtype.UUID{Bytes: parsed, Valid: true}
	}
	row, err := s.queries.CreateCategory(ctx, dbgen.CreateCategoryParams{Name: name, Slug: slug, ParentID: parent})
	if err != nil {
		return Category{}, fmt.Errorf("create category: %w", err)
	}
	cat := Category{ID: uuidString(row.ID), Name: row.Name, Slug: row.Slug}
	if row.ParentID.Valid {
		p := uuidString(row.ParentID)
		cat.ParentID = &p
	}
	return cat, nil
}

// ListProducts returns the filtered product list with pagination metadata.
func (s *Service) ListProducts(ctx context.Context, params ListParams) (ProductListResult, error) {
	key, shouldUseCache := s.listCacheKey(params)
	if shouldUseCache && s.cache != nil {
		var cached cachedList
		ok, err := s.cache.GetJSON(ctx, key, &cached)
		if err == nil && ok {
			return ProductListResult{Items: cached.Items, Total: cached.Total, Page: params.Page, Limit: params.Limit}, nil
		}
	}

	countParams := dbgen.CountProductsPublicParams{
		Q:            optionalText(params.Query),
		CategorySlug: optionalText(params.Category),
		MinPrice:     optionalInt8(params.MinPrice),
		MaxPrice:     optionalInt8(params.MaxPrice),
	}
	total, err := s.queries.CountProductsPublic(ctx, countParams)
	if err != nil {
		return ProductListResult{}, fmt.Errorf("count products: %w", err)
	}
	offset := int32((params.Page - 1) * params.Limit)
	if offset < 0 {
		offset = 0
	}
	rows, err := s.queries.ListProductsPublic(ctx, dbgen.ListProductsPublicParams{
		Q:            countParams.Q,
		CategorySlug: countParams.CategorySlug,
		MinPrice:     countParams.MinPrice,
		MaxPrice:     countParams.MaxPrice,
		Sort:         optionalText(params.Sort),
		OffsetValue:  offset,
		LimitValue:   int32(params.Limit),
	})
	if err != nil {
		return ProductListResult{}, fmt.Errorf("list products: %w", err)
	}
	items := make([]Product, 0, len(rows))
	for _, row := range rows {
		items = append(items, Product{
			ID:          uuidString(row.ID),
			Title:       row.Title,
			Slug:        row.Slug,
			UnitPrice:   row.UnitPrice,
			PricingUnit: string(row.PricingUnit),
			Stock:       row.Stock,
			Available:   row.Stock > 0,
			Category:    row.CategorySlug.String,
		})
	}
	result := ProductListResult{Items: items, Total: total, Page: params.Page, Limit: params.Limit}
	if shouldUseCache && s.cache != nil {
		_ = s.cache.SetJSON(ctx, key, cachedList{Items: items, Total: total})
	}
	return result, nil
}

// GetProduct returns a single active product by slug.
func (s *Service) GetProduct(ctx context.Context, slug string) (Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return Product{}, badRequest("slug", "slug is required", nil)
	}
	cacheKey := detailCacheKey(slug)
	if s.cache != nil {
		var cached Product
		ok, err := s.cache.GetJSON(ctx, cacheKey, &cached)
		if err == nil && ok {
			return cached, nil
		}
	}
	row, err := s.queries.GetProductBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, &common.AppError{Code: "NOT_FOUND", Message: "product not found", HTTPStatus: http.StatusNotFound, Err: err}
		}
		return Product{}, fmt.Errorf("get product by slug: %w", err)
	}
	if !row.Active {
		return Product{}, &common.AppError{Code: "NOT_FOUND", Message: "product not found", HTTPStatus: http.StatusNotFound}
	}
	product := Product{
		ID:          uuidString(row.ID),
		Title:       row.Title,
		Slug:        row.Slug,
		UnitPrice:   row.UnitPrice,
		PricingUnit: string(row.PricingUnit),
		Stock:       row.Stock,
		Available:   row.Active && row.Stock > 0,
		Category:    row.CategorySlug.String,
	}
	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, cacheKey, product)
	}
	return product, nil
}

// ProductInput is the admin write payload for products.
type ProductInput struct {
	Title       string `json:"title" validate:"required,min=2"`
	Slug        string `json:"slug"`
	CategoryID  string `json:"categoryId"`
	UnitPrice   int64  `json:"unitPrice" validate:"gte=0"`
	PricingUnit string `json:"pricingUnit"`
	Stock       int32  `json:"stock" validate:"gte=0"`
	Active      *bool  `json:"active"`
}

// CreateProduct inserts a product and invalidates cached listings.
func (s *Service) CreateProduct(ctx context.Context, input ProductInput) (dbgen.Product, error) {
	params, err := s.productParams(input)
	if err != nil {
		return dbgen.Product{}, err
	}
	row, err := s.queries.CreateProduct(ctx, dbgen.CreateProductParams{
		Title:       params.Title,
		Slug:        params.Slug,
		CategoryID:  params.CategoryID,
		UnitPrice:   params.UnitPrice,
		PricingUnit: params.PricingUnit,
		Stock:       input.Stock,
		Active:      params.Active,
	})
	if err != nil {
		return dbgen.Product{}, fmt.Errorf("create product: %w", err)
	}
	s.invalidate(ctx, row.Slug)
	return row, nil
}

// UpdateProduct updates mutable product fields and invalidates caches.
func (s *Service) UpdateProduct(ctx context.Context, id string, input ProductInput) (dbgen.Product, error) {
	productID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return dbgen.Product{}, badRequest("id", "id must be a valid uuid", err)
	}
	params, err := s.productParams(input)
	if err != nil {
		return dbgen.Product{}, err
	}
	row, err := s.queries.UpdateProduct(ctx, dbgen.UpdateProductParams{
		ID:          pgtype.UUID{Bytes: productID, Valid: true},
		Title:       params.Title,
		CategoryID:  params.CategoryID,
		UnitPrice:   params.UnitPrice,
		PricingUnit: params.PricingUnit,
		Active:      params.Active,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dbgen.Product{}, &common.AppError{Code: "NOT_FOUND", Message: "product not found", HTTPStatus: http.StatusNotFound, Err: err}
		}
		return dbgen.Product{}, fmt.Errorf("update product: %w", err)
	}
	s.invalidate(ctx, row.Slug)
	return row, nil
}

// SetProductActive toggles product visibility.
func (s *Service) SetProductActive(ctx context.Context, id string, active bool) error {
	productID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return badRequest("id", "id must be a valid uuid", err)
	}
	pgID := pgtype.UUID{Bytes: productID, Valid: true}
	row, err := s.queries.GetProductByID(ctx, pgID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &common.AppError{Code: "NOT_FOUND", Message: "product not found", HTTPStatus: http.StatusNotFound, Err: err}
		}
		return fmt.Errorf("load product: %w", err)
	}
	if err := s.queries.SetProductActive(ctx, dbgen.SetProductActiveParams{ID: pgID, Active: active}); err != nil {
		return fmt.Errorf("set product active: %w", err)
	}
	s.invalidate(ctx, row.Slug)
	return nil
}

// ImportResult reports the outcome of a bulk import.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// ImportProducts normalises arbitrary upstream product records and upserts them
// by slug. Records that fail normalisation are skipped, not fatal.
func (s *Service) ImportProducts(ctx context.Context, records []map[string]any) (ImportResult, error) {
	result := ImportResult{}
	for i, raw := range records {
		normalized, err := NormalizeUpstream(raw)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("record %d: %v", i, err))
			continue
		}
		row, err := s.queries.UpsertProductBySlug(ctx, dbgen.UpsertProductBySlugParams{
			Title:       normalized.Title,
			Slug:        normalized.Slug,
			CategoryID:  pgtype.UUID{},
			UnitPrice:   normalized.Price,
			PricingUnit: normalized.PricingUnit,
			Stock:       normalized.Stock,
		})
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("record %d: %v", i, err))
			continue
		}
		result.Imported++
		s.invalidate(ctx, row.Slug)
	}
	return result, nil
}

type productParams struct {
	Title       string
	Slug        string
	CategoryID  pgtype.UUID
	UnitPrice   int64
	PricingUnit dbgen.PricingUnit
	Active      bool
}

func (s *Service) productParams(input ProductInput) (productParams, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return productParams{}, badRequest("title", "title is required", nil)
	}
	slug := Slugify(input.Slug)
	if slug == "" {
		slug = Slugify(title)
	}
	if slug == "" {
		return productParams{}, badRequest("slug", "slug could not be derived from title", nil)
	}
	if input.UnitPrice < 0 {
		return productParams{}, badRequest("unitPrice", "unitPrice must not be negative", nil)
	}
	category := pgtype.UUID{}
	if trimmed := strings.TrimSpace(input.CategoryID); trimmed != "" {
		parsed, err := uuid.Parse(trimmed)
		if err != nil {
			return productParams{}, badRequest("categoryId", "categoryId must be a valid uuid", err)
		}
		category = pgtype.UUID{Bytes: parsed, Valid: true}
	}
	active := true
	if input.Active != nil {
		active = *input.Active
	}
	return productParams{
		Title:       title,
		Slug:        slug,
		CategoryID:  category,
		UnitPrice:   input.UnitPrice,
		PricingUnit: normalizePricingUnit(input.PricingUnit),
		Active:      active,
	}, nil
}

func (s *Service) invalidate(ctx context.Context, slug string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, listCacheKeyPopular, detailCacheKey(slug))
}

type cachedList struct {
	Items []Product `json:"items"`
	Total int64     `json:"total"`
}

const listCacheKeyPopular = "catalog:products:list:popular"

func (s *Service) listCacheKey(params ListParams) (string, bool) {
	if params.Page != s.defaultPage {
		return "", false
	}
	if params.Limit != s.defaultLimit {
		return "", false
	}
	if params.Query != "" || params.Category != "" || params.MinPrice != nil || params.MaxPrice != nil || params.Sort != "" {
		return "", false
	}
	return listCacheKeyPopular, true
}

func detailCacheKey(slug string) string {
	return "catalog:products:detail:" + slug
}

func optionalText(value string) pgtype.Text {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: trimmed, Valid: true}
}

func optionalInt8(ptr *int64) pgtype.Int8 {
	if ptr == nil {
		return pgtype.Int8{}
	}
	return pgtype.Int8{Int64: *ptr, Valid: true}
}

func normalizeSort(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "price:asc", "price_asc":
		return "price_asc"
	case "price:desc", "price_desc":
		return "price_desc"
	default:
		return ""
	}
}

// Slugify lowercases a value and collapses anything non-alphanumeric to single
// hyphens.
func Slugify(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	var b strings.Builder
	lastHyphen := true
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func uuidString(id pgtype.UUID) string {
	if !id.Valid {
		return ""
	}
	u, err := uuid.FromBytes(id.Bytes[:])
	if err != nil {
		return ""
	}
	return u.String()
}

func badRequest(field, message string, err error) *common.AppError {
	return &common.AppError{
		Code:       "BAD_REQUEST",
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		Err:        err,
		Details: map[string]any{
			"field": field,
		},
	}
}
