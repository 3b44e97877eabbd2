package rental

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/rentkart/backend-rentkart/internal/cart"
	"github.com/rentkart/backend-rentkart/internal/common"
	dbgen "github.com/rentkart/backend-rentkart/internal/db/gen"
)

// AdminHandler provides administrative rental management endpoints.
type AdminHandler struct {
	Q   *dbgen.Queries
	Svc *Service
}

// List returns rentals across all users, optionally filtered by status.
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "rental queries not configured", nil)
		return
	}
	page, perPage := common.ParsePagination(r, 20)
	if perPage > 100 {
		perPage = 100
	}
	offset := int32((page - 1) * perPage)

	status := dbgen.NullRentalStatus{}
	if v := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status"))); v != "" {
		parsed := dbgen.RentalStatus(v)
		if !knownStatus(parsed) {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "unknown rental status", nil)
			return
		}
		status = dbgen.NullRentalStatus{RentalStatus: parsed, Valid: true}
	}

	total, err := h.Q.CountRentalsAdmin(r.Context(), status)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to count rentals", nil)
		return
	}
	rentals, err := h.Q.ListRentalsAdmin(r.Context(), dbgen.ListRentalsAdminParams{
		Status:      status,
		OffsetValue: offset,
		LimitValue:  int32(perPage),
	})
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to list rentals", nil)
		return
	}
	response := make([]map[string]any, 0, len(rentals))
	for _, rt := range rentals {
		response = append(response, map[string]any{
			"id":        cart.UUIDString(rt.ID),
			"userId":    cart.UUIDString(rt.UserID),
			"status":    rt.Status,
			"payable":   rt.PricingPayable,
			"currency":  rt.Currency,
			"priceList": rt.PriceList,
			"promoCode": nullableText(rt.AppliedPromoCode),
			"createdAt": rt.CreatedAt,
		})
	}
	w.Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
	common.JSON(w, http.StatusOK, map[string]any{
		"data": response,
		"pagination": common.Pagination{
			Page:       page,
			PerPage:    perPage,
			TotalItems: int(total),
		},
	})
}

func knownStatus(status dbgen.RentalStatus) bool {
	switch status {
	case dbgen.RentalStatusPENDINGPAYMENT, dbgen.RentalStatusPAID, dbgen.RentalStatusACTIVE,
		dbgen.RentalStatusRETURNED, dbgen.RentalStatusCANCELED, dbgen.RentalStatusEXPIRED:
		return true
	}
	return false
}

type patchStatusRequest struct {
	Status string `json:"status"`
}

// PatchStatus updates the rental status with state-machine validation.
func (h *AdminHandler) PatchStatus(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "rental service not configured", nil)
		return
	}
	var req patchStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	target := dbgen.RentalStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if !knownStatus(target) {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "unknown rental status", nil)
		return
	}
	actorID := pgtype.UUID{}
	if id, ok := common.UserID(r.Context()); ok {
		if parsed, err := cart.ToUUID(id); err == nil {
			actorID = parsed
		}
	}
	rental, err := h.Svc.SetStatus(r.Context(), chi.URLParam(r, "id"), target, actorID)
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"id":     cart.UUIDString(rental.ID),
		"status": rental.Status,
	}})
}
