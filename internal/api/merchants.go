package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	"github.com/garmenthq/stylebot/internal/model"
	"github.com/garmenthq/stylebot/internal/store"
)

// MerchantsHandler handles merchant account management (admin only).
type MerchantsHandler struct {
	DB *sql.DB
}

type createMerchantRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type updateMerchantRequest struct {
	Role string `json:"role"`
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

// List handles GET /api/merchants.
func (h *MerchantsHandler) List(w http.ResponseWriter, r *http.Request) {
	merchants, err := store.ListMerchants(r.Context(), h.DB)
	if err != nil {
		storeError(w, err)
		return
	}
	if merchants == nil {
		merchants = []model.Merchant{}
	}
	jsonResponse(w, http.StatusOK, merchants)
}

// Create handles POST /api/merchants.
func (h *MerchantsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMerchantRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" || req.Password == "" {
		jsonError(w, http.StatusBadRequest, "name and password required")
		return
	}
	if req.Role == "" {
		req.Role = model.RoleMerchant
	}
	if req.Role != model.RoleMerchant && req.Role != model.RoleAdmin {
		jsonError(w, http.StatusBadRequest, "invalid role")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	merchant, err := store.CreateMerchant(r.Context(), h.DB, req.Name, string(hash), req.Role)
	if err != nil {
		storeError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, merchant)
}

// Get handles GET /api/merchants/{id}.
func (h *MerchantsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid merchant id")
		return
	}

	merchant, err := store.GetMerchant(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, merchant)
}

// Update handles PUT /api/merchants/{id}.
func (h *MerchantsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid merchant id")
		return
	}

	var req updateMerchantRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Role != model.RoleMerchant && req.Role != model.RoleAdmin {
		jsonError(w, http.StatusBadRequest, "invalid role")
		return
	}

	if err := store.UpdateMerchantRole(r.Context(), h.DB, id, req.Role); err != nil {
		storeError(w, err)
		return
	}

	merchant, err := store.GetMerchant(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, merchant)
}

// ResetPassword handles PUT /api/merchants/{id}/password.
func (h *MerchantsHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid merchant id")
		return
	}

	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Password == "" {
		jsonError(w, http.StatusBadRequest, "password required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	if err := store.UpdateMerchantPassword(r.Context(), h.DB, id, string(hash)); err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "password updated"})
}

// Delete handles DELETE /api/merchants/{id}.
func (h *MerchantsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid merchant id")
		return
	}

	if err := store.DeleteMerchant(r.Context(), h.DB, id); err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "merchant deleted"})
}
