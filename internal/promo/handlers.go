package promo

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/rentkart/backend-rentkart/internal/common"
	dbgen "github.com/rentkart/backend-rentkart/internal/db/gen"
)

// Handler exposes the public apply endpoint and administrative CRUD.
type Handler struct {
	Q        Querier
	Admin    AdminQuerier
	Svc      *Service
	Validate *validator.Validate
}

// AdminQuerier captures the management queries.
type AdminQuerier interface {
	CreatePromotion(ctx context.Context, arg dbgen.CreatePromotionParams) (dbgen.Promotion, error)
	UpdatePromotion(ctx context.Context, arg dbgen.UpdatePromotionParams) (dbgen.Promotion, error)
	GetPromotionByCode(ctx context.Context, code string) (dbgen.Promotion, error)
	ListPromotions(ctx context.Context, arg dbgen.ListPromotionsParams) ([]dbgen.Promotion, error)
	CountPromotions(ctx context.Context) (int64, error)
}

type applyRequest struct {
	Code      string `json:"code"`
	CartTotal int64  `json:"cart_total"`
}

type applyResponse struct {
	Code          string  `json:"code"`
	DiscountType  string  `json:"discount_type"`
	DiscountValue float64 `json:"discount_value"`
	Valid         bool    `json:"valid"`
	Discount      int64   `json:"discount"`
}

// Apply handles POST /api/v1/promotions/apply. An ineligible code answers 200
// with valid=false so cart rendering never hard-fails on promotion state.
func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "promo service not configured", nil)
		return
	}
	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "code is required", nil)
		return
	}
	if req.CartTotal < 0 {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "cart_total must not be negative", nil)
		return
	}
	var userID *string
	if id, ok := common.UserID(r.Context()); ok && id != "" {
		userID = &id
	}
	resolution, err := h.Svc.Resolve(r.Context(), req.Code, userID, req.CartTotal)
	if err != nil {
		if isEligibilityError(err) {
			common.JSON(w, http.StatusOK, map[string]any{"data": applyResponse{
				Code:  strings.TrimSpace(req.Code),
				Valid: false,
			}})
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to resolve promotion", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": applyResponse{
		Code:          resolution.Code,
		DiscountType:  string(resolution.Rule.Kind),
		DiscountValue: discountValue(resolution.Rule),
		Valid:         true,
		Discount:      resolution.Amount,
	}})
}

type promotionPayload struct {
	Code         string     `json:"code" validate:"required,min=2,max=64"`
	Kind         string     `json:"kind" validate:"required,oneof=percentage fixed"`
	Value        int64      `json:"value" validate:"gte=0"`
	PercentBps   *int32     `json:"percentBps" validate:"omitempty,gte=0,lte=10000"`
	MinSpend     int64      `json:"minSpend" validate:"gte=0"`
	UsageLimit   *int32     `json:"usageLimit" validate:"omitempty,gte=0"`
	PerUserLimit *int32     `json:"perUserLimit" validate:"omitempty,gte=0"`
	ValidFrom    *time.Time `json:"validFrom"`
	ValidTo      *time.Time `json:"validTo"`
	Active       *bool      `json:"active"`
}

// Create inserts a new promotion.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Admin == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "promo queries not configured", nil)
		return
	}
	payload, ok := h.decodePayload(w, r)
	if !ok {
		return
	}
	promotion, err := h.Admin.CreatePromotion(r.Context(), dbgen.CreatePromotionParams{
		Code:         strings.TrimSpace(payload.Code),
		Kind:         dbgen.DiscountKind(payload.Kind),
		Value:        payload.Value,
		PercentBps:   nullableInt4(payload.PercentBps),
		MinSpend:     payload.MinSpend,
		UsageLimit:   nullableInt4(payload.UsageLimit),
		PerUserLimit: nullableInt4(payload.PerUserLimit),
		ValidFrom:    nullableTime(payload.ValidFrom),
		ValidTo:      nullableTime(payload.ValidTo),
		Active:       payload.Active == nil || *payload.Active,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			common.JSONError(w, http.StatusConflict, "CONFLICT", "promotion code already exists", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to create promotion", nil)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": promotion})
}

// Update mutates an existing promotion identified by code.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	if h.Admin == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "promo queries not configured", nil)
		return
	}
	code := strings.TrimSpace(chi.URLParam(r, "code"))
	if code == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "code is required", nil)
		return
	}
	payload, ok := h.decodePayload(w, r)
	if !ok {
		return
	}
	existing, err := h.Admin.GetPromotionByCode(r.Context(), code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "promotion not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to load promotion", nil)
		return
	}
	promotion, err := h.Admin.UpdatePromotion(r.Context(), dbgen.UpdatePromotionParams{
		ID:           existing.ID,
		Kind:         dbgen.DiscountKind(payload.Kind),
		Value:        payload.Value,
		PercentBps:   nullableInt4(payload.PercentBps),
		MinSpend:     payload.MinSpend,
		UsageLimit:   nullableInt4(payload.UsageLimit),
		PerUserLimit: nullableInt4(payload.PerUserLimit),
		ValidFrom:    nullableTime(payload.ValidFrom),
		ValidTo:      nullableTime(payload.ValidTo),
		Active:       payload.Active == nil || *payload.Active,
	})
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to update promotion", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": promotion})
}

// List returns promotions for the admin console.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Admin == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "promo queries not configured", nil)
		return
	}
	limit := common.AtoiDefault(strings.TrimSpace(r.URL.Query().Get("limit")), 50)
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := common.AtoiDefault(strings.TrimSpace(r.URL.Query().Get("offset")), 0)
	if offset < 0 {
		offset = 0
	}
	rows, err := h.Admin.ListPromotions(r.Context(), dbgen.ListPromotionsParams{Limit: int32(limit), Offset: int32(offset)})
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to list promotions", nil)
		return
	}
	total, err := h.Admin.CountPromotions(r.Context())
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to count promotions", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": rows, "total": total})
}

func (h *Handler) decodePayload(w http.ResponseWriter, r *http.Request) (promotionPayload, bool) {
	var payload promotionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return payload, false
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(payload); err != nil {
			var fieldErrs validator.ValidationErrors
			details := map[string]string{}
			if errors.As(err, &fieldErrs) {
				for _, fe := range fieldErrs {
					details[fe.Field()] = fe.Tag()
				}
			}
			common.JSONError(w, http.StatusBadRequest, "VALIDATION", "invalid promotion payload", details)
			return payload, false
		}
	}
	if dbgen.DiscountKind(payload.Kind) == dbgen.DiscountKindPercentage && (payload.PercentBps == nil || *payload.PercentBps <= 0) {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "percentBps is required for percentage promotions", nil)
		return payload, false
	}
	return payload, true
}

func isEligibilityError(err error) bool {
	switch {
	case errors.Is(err, ErrNotEligible),
		errors.Is(err, ErrUsageLimitReached),
		errors.Is(err, ErrPerUserLimitReached),
		errors.Is(err, ErrPromotionInactive),
		errors.Is(err, ErrPromotionExpired),
		errors.Is(err, ErrMinimumSpendUnmet):
		return true
	}
	return false
}

func discountValue(rule Rule) float64 {
	if rule.Kind == dbgen.DiscountKindPercentage {
		if rule.PercentBps == nil {
			return 0
		}
		return float64(*rule.PercentBps) / 100
	}
	return float64(rule.Value)
}

func nullableInt4(v *int32) pgtype.Int4 {
	if v == nil {
		return pgtype.Int4{}
	}
	return pgtype.Int4{Int32: *v, Valid: true}
}

func nullableTime(v *time.Time) pgtype.Timestamptz {
	if v == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *v, Valid: true}
}
