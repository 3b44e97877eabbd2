package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"

	"github.com/rentkart/backend-rentkart/internal/common"
)

// AdminHandler exposes seller console endpoints for catalog management.
type AdminHandler struct {
	Service  *Service
	Validate *validator.Validate
}

// CreateCategory handles POST /api/v1/admin/categories.
func (h *AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	var req struct {
		Name     string  `json:"name"`
		Slug     string  `json:"slug"`
		ParentID *string `json:"parentId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	category, err := h.Service.CreateCategory(r.Context(), req.Name, req.Slug, req.ParentID)
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": category})
}

// CreateProduct handles POST /api/v1/admin/products.
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	input, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}
	product, err := h.Service.CreateProduct(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": product})
}

// UpdateProduct handles PUT /api/v1/admin/products/{id}.
func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	input, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}
	product, err := h.Service.UpdateProduct(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": product})
}

// SetProductActive handles PATCH /api/v1/admin/products/{id}/active.
func (h *AdminHandler) SetProductActive(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	var req struct {
		Active *bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Active == nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "active is required", nil)
		return
	}
	if err := h.Service.SetProductActive(r.Context(), chi.URLParam(r, "id"), *req.Active); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ImportProducts handles POST /api/v1/admin/products/import. The body is a JSON
// array of upstream product records in whatever shape the seller feed uses.
func (h *AdminHandler) ImportProducts(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	var records []map[string]any
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "body must be a JSON array of product records", nil)
		return
	}
	if len(records) == 0 {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "no records to import", nil)
		return
	}
	result, err := h.Service.ImportProducts(r.Context(), records)
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": result})
}

func (h *AdminHandler) decodeProduct(w http.ResponseWriter, r *http.Request) (ProductInput, bool) {
	var input ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return input, false
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(input); err != nil {
			common.JSONError(w, http.StatusBadRequest, "VALIDATION", "invalid product payload", validationDetails(err))
			return input, false
		}
	}
	return input, true
}

func validationDetails(err error) any {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil
	}
	details := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[strings.ToLower(fe.Field()[:1])+fe.Field()[1:]] = fe.Tag()
	}
	return details
}
