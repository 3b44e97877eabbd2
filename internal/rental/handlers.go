package rental

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/rentkart/backend-rentkart/internal/cart"
	"github.com/rentkart/backend-rentkart/internal/common"
	dbgen "github.com/rentkart/backend-rentkart/internal/db/gen"
)

// Handler serves the customer-facing rental endpoints.
type Handler struct {
	Q   *dbgen.Queries
	Svc *Service
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "rental queries not configured", nil)
		return
	}
	userID, ok := common.UserID(r.Context())
	if !ok || userID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	page, perPage := common.ParsePagination(r, 20)
	if perPage > 100 {
		perPage = 100
	}
	offset := int32((page - 1) * perPage)
	uID, err := cart.ToUUID(userID)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid user id", nil)
		return
	}
	total, err := h.Q.CountRentalsForUser(r.Context(), uID)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to count rentals", nil)
		return
	}
	rentals, err := h.Q.ListRentalsForUser(r.Context(), dbgen.ListRentalsForUserParams{UserID: uID, Limit: int32(perPage), Offset: offset})
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to list rentals", nil)
		return
	}
	response := make([]map[string]any, 0, len(rentals))
	for _, rt := range rentals {
		response = append(response, map[string]any{
			"id":        cart.UUIDString(rt.ID),
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

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "rental queries not configured", nil)
		return
	}
	userID, ok := common.UserID(r.Context())
	if !ok || userID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	rID, err := cart.ToUUID(chi.URLParam(r, "rentalId"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid rental id", nil)
		return
	}
	uID, err := cart.ToUUID(userID)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid user id", nil)
		return
	}
	rental, err := h.Q.GetRentalByIDForUser(r.Context(), dbgen.GetRentalByIDForUserParams{ID: rID, UserID: uID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "rental not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to load rental", nil)
		return
	}
	items, err := h.Q.ListRentalItemsByRental(r.Context(), rental.ID)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to load rental items", nil)
		return
	}
	responseItems := make([]map[string]any, 0, len(items))
	for _, it := range items {
		responseItems = append(responseItems, map[string]any{
			"id":            cart.UUIDString(it.ID),
			"productId":     cart.UUIDString(it.ProductID),
			"title":         it.Title,
			"slug":          it.Slug,
			"qty":           it.Qty,
			"unitPrice":     it.UnitPrice,
			"pricingUnit":   it.PricingUnit,
			"startsAt":      nullableTime(it.StartsAt),
			"endsAt":        nullableTime(it.EndsAt),
			"billableUnits": it.BillableUnits,
			"lineTotal":     it.LineTotal,
		})
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"id":        cart.UUIDString(rental.ID),
			"status":    rental.Status,
			"currency":  rental.Currency,
			"priceList": rental.PriceList,
			"promoCode": nullableText(rental.AppliedPromoCode),
			"pricing": map[string]any{
				"subtotal": rental.PricingSubtotal,
				"discount": rental.PricingDiscount,
				"taxes":    rental.PricingTaxes,
				"delivery": rental.PricingDelivery,
				"total":    rental.PricingTotal,
				"payable":  rental.PricingPayable,
			},
			"items":     responseItems,
			"notes":     nullableText(rental.Notes),
			"createdAt": rental.CreatedAt,
		},
	})
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "rental service not configured", nil)
		return
	}
	userID, ok := common.UserID(r.Context())
	if !ok || userID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	rental, err := h.Svc.Cancel(r.Context(), chi.URLParam(r, "rentalId"), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{"status": rental.Status}})
}

func writeError(w http.ResponseWriter, err error) {
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
	common.JSONError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
}

func nullableText(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

func nullableTime(t pgtype.Timestamptz) any {
	if !t.Valid {
		return nil
	}
	return t.Time
}
