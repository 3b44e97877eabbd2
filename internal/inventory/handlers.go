package inventory

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/rentkart/backend-rentkart/internal/cart"
	"github.com/rentkart/backend-rentkart/internal/common"
)

// Handler exposes the seller console inventory endpoints.
type Handler struct {
	Svc *Service
}

type adjustRequest struct {
	Delta  int32  `json:"delta"`
	Reason string `json:"reason"`
}

// Adjust applies a manual stock delta to a product.
func (h *Handler) Adjust(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "inventory service not configured", nil)
		return
	}
	productID := chi.URLParam(r, "productId")
	var req adjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	actorID := pgtype.UUID{}
	if id, ok := common.UserID(r.Context()); ok {
		if parsed, err := cart.ToUUID(id); err == nil {
			actorID = parsed
		}
	}
	row, err := h.Svc.Adjust(r.Context(), productID, req.Delta, req.Reason, actorID)
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"productId": cart.UUIDString(row.ID),
		"stock":     row.Stock,
	}})
}

// Adjustments lists the stock ledger for a product.
func (h *Handler) Adjustments(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "inventory service not configured", nil)
		return
	}
	productID := chi.URLParam(r, "productId")
	limit := parseInt32(r.URL.Query().Get("limit"), 50)
	offset := parseInt32(r.URL.Query().Get("offset"), 0)
	rows, err := h.Svc.Adjustments(r.Context(), productID, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	response := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		entry := map[string]any{
			"id":        cart.UUIDString(row.ID),
			"productId": cart.UUIDString(row.ProductID),
			"delta":     row.Delta,
			"createdAt": row.CreatedAt,
		}
		if row.Reason.Valid {
			entry["reason"] = row.Reason.String
		}
		if row.ActorID.Valid {
			entry["actorId"] = cart.UUIDString(row.ActorID)
		}
		response = append(response, entry)
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": response})
}

// LowStock lists products at or below the stock threshold.
func (h *Handler) LowStock(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "inventory service not configured", nil)
		return
	}
	threshold := parseInt32(r.URL.Query().Get("threshold"), 5)
	rows, err := h.Svc.LowStock(r.Context(), threshold)
	if err != nil {
		writeError(w, err)
		return
	}
	response := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		response = append(response, map[string]any{
			"id":    cart.UUIDString(row.ID),
			"title": row.Title,
			"slug":  row.Slug,
			"stock": row.Stock,
		})
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": response})
}

func writeError(w http.ResponseWriter, err error) {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusBadRequest
		}
		common.JSONError(w, status, appErr.Code, appErr.Message, appErr.Details)
		return
	}
	common.JSONError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
}

func parseInt32(value string, fallback int32) int32 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(trimmed, 10, 32)
	if err != nil {
		return fallback
	}
	return int32(parsed)
}
