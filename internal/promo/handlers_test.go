package promo_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rentkart/backend-rentkart/internal/promo"
)

func TestApplyUnknownCodeEchoesSubmittedCode(t *testing.T) {
	q := &fakeQuerier{missing: true}
	h := &promo.Handler{Q: q, Svc: &promo.Service{Q: q}}

	body := strings.NewReader(`{"code":" rent50 ","cart_total":25000}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/promotions/apply", body)
	rr := httptest.NewRecorder()
	h.Apply(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Data struct {
			Code  string `json:"code"`
			Valid bool   `json:"valid"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.False(t, resp.Data.Valid)
	// codes are case-sensitive; the echo keeps the casing as submitted
	require.Equal(t, "rent50", resp.Data.Code)
}

func TestApplyRejectsNegativeTotal(t *testing.T) {
	q := &fakeQuerier{promotion: fixedPromotion()}
	h := &promo.Handler{Q: q, Svc: &promo.Service{Q: q}}

	body := strings.NewReader(`{"code":"RENT50","cart_total":-1}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/promotions/apply", body)
	rr := httptest.NewRecorder()
	h.Apply(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}
