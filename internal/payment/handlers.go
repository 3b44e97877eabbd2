package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rentkart/backend-rentkart/internal/cart"
	"github.com/rentkart/backend-rentkart/internal/common"
	dbgen "github.com/rentkart/backend-rentkart/internal/db/gen"
)

// Handler exposes HTTP endpoints for payment intents and status polling.
type Handler struct {
	Svc *Service
	Q   *dbgen.Queries
}

type intentReq struct {
	RentalID string `json:"rentalId"`
	Amount   int64  `json:"amount"`
}

type intentResp struct {
	Provider    string     `json:"provider"`
	Token       string     `json:"token,omitempty"`
	RedirectURL string     `json:"redirectUrl,omitempty"`
	Amount      int64      `json:"amount"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
}

// Intent creates (or reuses) a payment intent for the authenticated user's rental.
func (h *Handler) Intent(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Svc == nil || h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "PAYMENT_NOT_CONFIGURED", "payment handler unavailable", nil)
		return
	}
	userID, ok := common.UserID(r.Context())
	if !ok || strings.TrimSpace(userID) == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "login required", nil)
		return
	}
	var req intentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid body", nil)
		return
	}
	req.RentalID = strings.TrimSpace(req.RentalID)
	if req.RentalID == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "rentalId is required", nil)
		return
	}
	if !h.ownsRental(w, r, req.RentalID, userID) {
		return
	}
	payment, err := h.Svc.CreateIntent(r.Context(), req.RentalID, req.Amount)
	if err != nil {
		var appErr *common.AppError
		if errors.As(err, &appErr) {
			status := appErr.HTTPStatus
			if status == 0 {
				status = http.StatusBadRequest
			}
			common.JSONError(w, status, appErr.Code, appErr.Message, appErr.Details)
			return
		}
		status := http.StatusBadRequest
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			status = http.StatusGatewayTimeout
		}
		common.JSONError(w, status, "INTENT_FAILED", err.Error(), nil)
		return
	}
	resp := intentResp{
		Provider:    payment.Provider.String,
		Token:       payment.IntentToken.String,
		RedirectURL: payment.RedirectUrl.String,
		Amount:      payment.Amount,
	}
	if payment.ExpiresAt.Valid {
		t := payment.ExpiresAt.Time
		resp.ExpiresAt = &t
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": resp})
}

// Status reports the consolidated payment status for a rental belonging to the authenticated user.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Svc == nil || h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "PAYMENT_NOT_CONFIGURED", "payment handler unavailable", nil)
		return
	}
	userID, ok := common.UserID(r.Context())
	if !ok || strings.TrimSpace(userID) == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "login required", nil)
		return
	}
	rentalID := strings.TrimSpace(chi.URLParam(r, "rentalId"))
	if rentalID == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "rentalId is required", nil)
		return
	}
	if !h.ownsRental(w, r, rentalID, userID) {
		return
	}
	status, err := h.Svc.ConsolidatedStatus(r.Context(), rentalID)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "STATUS_ERROR", err.Error(), nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]string{"status": status}})
}

func (h *Handler) ownsRental(w http.ResponseWriter, r *http.Request, rentalID, userID string) bool {
	rentalUUID, err := cart.ToUUID(rentalID)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid rentalId", nil)
		return false
	}
	userUUID, err := cart.ToUUID(userID)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid user", nil)
		return false
	}
	if _, err := h.Q.GetRentalByIDForUser(r.Context(), dbgen.GetRentalByIDForUserParams{ID: rentalUUID, UserID: userUUID}); err != nil {
		common.JSONError(w, http.StatusNotFound, "RENTAL_NOT_FOUND", "rental not found", nil)
		return false
	}
	return true
}
