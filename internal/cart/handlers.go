package cart

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/rentkart/backend-rentkart/internal/common"
	"github.com/rentkart/backend-rentkart/internal/promo"
)

// Handler wires cart services to HTTP.
type Handler struct {
	Svc *Service
}

// Create creates or returns the active cart for the caller. Guests are keyed
// by an anon id which is minted when absent.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	var payload struct {
		AnonID string `json:"anonId"`
	}
	_ = json.NewDecoder(r.Body).Decode(&payload)

	var userID *string
	if id, ok := common.UserID(r.Context()); ok && strings.TrimSpace(id) != "" {
		userID = &id
	}
	anonID := strings.TrimSpace(payload.AnonID)
	if userID == nil && anonID == "" {
		anonID = uuid.NewString()
	}
	var anon *string
	if anonID != "" {
		anon = &anonID
	}
	cart, err := h.Svc.EnsureCart(r.Context(), userID, anon)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{
		"data": map[string]any{
			"cartId":    uuidString(cart.ID),
			"anonId":    nullableText(cart.AnonID),
			"priceList": cart.PriceList,
		},
	})
}

// GetActive resolves the current active cart for the user or anon id.
func (h *Handler) GetActive(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	ctx := r.Context()

	var userID *string
	if id, ok := common.UserID(ctx); ok && strings.TrimSpace(id) != "" {
		userID = &id
	}
	var anonID *string
	if v := strings.TrimSpace(r.URL.Query().Get("anonId")); v != "" {
		anonID = &v
	}
	if userID == nil && anonID == nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "no cart identity provided", nil)
		return
	}
	cart, err := h.Svc.EnsureCart(ctx, userID, anonID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	view, err := h.Svc.View(ctx, uuidString(cart.ID))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}

// authorize rejects requests against a user-bound cart from anyone but that
// user. Anonymous carts pass; their id is the capability.
func (h *Handler) authorize(w http.ResponseWriter, r *http.Request, cartID string) bool {
	var userID *string
	if id, ok := common.UserID(r.Context()); ok && strings.TrimSpace(id) != "" {
		userID = &id
	}
	if err := h.Svc.Authorize(r.Context(), cartID, userID); err != nil {
		h.writeError(w, err)
		return false
	}
	return true
}

// Get returns cart contents with the full pricing breakdown.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	if !h.authorize(w, r, chi.URLParam(r, "id")) {
		return
	}
	view, err := h.Svc.View(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}

type addItemPayload struct {
	ProductID string     `json:"productId"`
	Qty       int        `json:"qty"`
	StartsAt  *time.Time `json:"startsAt"`
	EndsAt    *time.Time `json:"endsAt"`
}

// AddItem adds a rental line or increments an identical one.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	cartID := chi.URLParam(r, "id")
	if !h.authorize(w, r, cartID) {
		return
	}
	var payload addItemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if strings.TrimSpace(payload.ProductID) == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "productId is required", nil)
		return
	}
	if payload.Qty <= 0 {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "qty must be positive", nil)
		return
	}
	if _, err := h.Svc.AddItem(r.Context(), cartID, payload.ProductID, payload.Qty, payload.StartsAt, payload.EndsAt); err != nil {
		h.writeError(w, err)
		return
	}
	h.Get(w, r)
}

// UpdateItem updates the quantity for a cart line. Zero removes the line.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	cartID := chi.URLParam(r, "id")
	itemID := chi.URLParam(r, "itemId")
	if !h.authorize(w, r, cartID) {
		return
	}
	var payload struct {
		Qty int `json:"qty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if err := h.Svc.UpdateQty(r.Context(), cartID, itemID, payload.Qty); err != nil {
		h.writeError(w, err)
		return
	}
	h.Get(w, r)
}

// UpdateItemDates replaces the rental window for a cart line.
func (h *Handler) UpdateItemDates(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	cartID := chi.URLParam(r, "id")
	itemID := chi.URLParam(r, "itemId")
	if !h.authorize(w, r, cartID) {
		return
	}
	var payload struct {
		StartsAt *time.Time `json:"startsAt"`
		EndsAt   *time.Time `json:"endsAt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if err := h.Svc.UpdateDates(r.Context(), cartID, itemID, payload.StartsAt, payload.EndsAt); err != nil {
		h.writeError(w, err)
		return
	}
	h.Get(w, r)
}

// RemoveItem deletes a cart line.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	if !h.authorize(w, r, chi.URLParam(r, "id")) {
		return
	}
	if err := h.Svc.RemoveItem(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "itemId")); err != nil {
		h.writeError(w, err)
		return
	}
	h.Get(w, r)
}

// SetPriceList switches the cart's multiplier tier.
func (h *Handler) SetPriceList(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	cartID := chi.URLParam(r, "id")
	if !h.authorize(w, r, cartID) {
		return
	}
	var payload struct {
		PriceList string `json:"priceList"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if _, err := h.Svc.SetPriceList(r.Context(), cartID, payload.PriceList); err != nil {
		h.writeError(w, err)
		return
	}
	h.Get(w, r)
}

// ApplyPromo validates and attaches a promotion code to the cart.
func (h *Handler) ApplyPromo(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	cartID := chi.URLParam(r, "id")
	if !h.authorize(w, r, cartID) {
		return
	}
	var payload struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	payload.Code = strings.TrimSpace(payload.Code)
	if payload.Code == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "code is required", nil)
		return
	}
	if _, err := h.Svc.ApplyPromo(r.Context(), cartID, payload.Code); err != nil {
		h.writeError(w, err)
		return
	}
	h.Get(w, r)
}

// RemovePromo clears the applied promotion from the cart.
func (h *Handler) RemovePromo(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	if !h.authorize(w, r, chi.URLParam(r, "id")) {
		return
	}
	if err := h.Svc.RemovePromo(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	h.Get(w, r)
}

// Merge merges a guest cart into the authenticated user's cart.
func (h *Handler) Merge(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	userID, ok := common.UserID(r.Context())
	if !ok || userID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	var payload struct {
		CartID string `json:"cartId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	payload.CartID = strings.TrimSpace(payload.CartID)
	if payload.CartID == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "cartId is required", nil)
		return
	}
	mergedID, err := h.Svc.Merge(r.Context(), payload.CartID, userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{"cartId": mergedID}})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if err == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unknown error", nil)
		return
	}
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusBadRequest
		}
		code := appErr.Code
		if code == "" {
			code = "BAD_REQUEST"
		}
		common.JSONError(w, status, code, appErr.Message, appErr.Details)
		return
	}
	switch {
	case isPromoRejection(err):
		common.JSONError(w, http.StatusUnprocessableEntity, "PROMO_REJECTED", err.Error(), nil)
	case errors.Is(err, ErrForbidden):
		common.JSONError(w, http.StatusForbidden, "FORBIDDEN", err.Error(), nil)
	case errors.Is(err, ErrInvalidInput):
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
	}
}

func isPromoRejection(err error) bool {
	switch {
	case errors.Is(err, promo.ErrNotEligible),
		errors.Is(err, promo.ErrUsageLimitReached),
		errors.Is(err, promo.ErrPerUserLimitReached),
		errors.Is(err, promo.ErrPromotionInactive),
		errors.Is(err, promo.ErrPromotionExpired),
		errors.Is(err, promo.ErrMinimumSpendUnmet):
		return true
	}
	return false
}

func nullableText(v pgtype.Text) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
