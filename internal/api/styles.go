package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/garmenthq/stylebot/internal/bot"
	"github.com/garmenthq/stylebot/internal/imaging"
	"github.com/garmenthq/stylebot/internal/metrics"
	"github.com/garmenthq/stylebot/internal/model"
	"github.com/garmenthq/stylebot/internal/store"
)

// StylesHandler handles style CRUD endpoints.
type StylesHandler struct {
	DB *sql.DB
	M  *metrics.Metrics
}

type createStyleRequest struct {
	Brand         string `json:"brand"`
	StyleNo       string `json:"style_no"`
	Garment       string `json:"garment"`
	CustomGarment string `json:"custom_garment"`
	Colour        string `json:"colour"`
}

type updateStageRequest struct {
	Stage string `json:"stage"`
}

type quantitiesRequest struct {
	Cut    *int `json:"cut_qty"`
	Stitch *int `json:"stitch_qty"`
	Finish *int `json:"finish_qty"`
	Pack   *int `json:"pack_qty"`
	Total  *int `json:"total_qty"`
}

type accessoriesRequest struct {
	Barcode  *string `json:"acc_barcode"`
	Trims    *string `json:"acc_trims"`
	Washcare *string `json:"acc_washcare"`
	Other    *string `json:"acc_other"`
}

// List handles GET /api/styles. The default scope is the caller's active
// styles; ?scope=all returns everything and requires admin.
func (h *StylesHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	switch r.URL.Query().Get("scope") {
	case "all":
		if !model.IsAdmin(claims.Role) {
			jsonError(w, http.StatusForbidden, "insufficient permissions")
			return
		}
		styles, err := store.ListAllStyles(r.Context(), h.DB)
		if err != nil {
			storeError(w, err)
			return
		}
		if styles == nil {
			styles = []model.Style{}
		}
		jsonResponse(w, http.StatusOK, styles)

	case "", "mine":
		styles, err := store.ListMerchantStyles(r.Context(), h.DB, claims.Merchant)
		if err != nil {
			storeError(w, err)
			return
		}
		if styles == nil {
			styles = []model.Style{}
		}
		jsonResponse(w, http.StatusOK, styles)

	default:
		jsonError(w, http.StatusBadRequest, "scope must be mine or all")
	}
}

// Create handles POST /api/styles.
func (h *StylesHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req createStyleRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	garment := bot.ResolveGarment(req.Garment, req.CustomGarment)
	style, err := store.CreateStyle(r.Context(), h.DB, claims.Merchant, req.Brand, req.StyleNo, garment, req.Colour)
	if err != nil {
		storeError(w, err)
		return
	}

	h.M.StylesCreatedTotal.Inc()
	jsonResponse(w, http.StatusCreated, style)
}

// Get handles GET /api/styles/{id}.
func (h *StylesHandler) Get(w http.ResponseWriter, r *http.Request) {
	style, ok := h.ownedStyle(w, r)
	if !ok {
		return
	}
	jsonResponse(w, http.StatusOK, style)
}

// UpdateStage handles PUT /api/styles/{id}/stage. The stage may be an index
// or a pipeline label.
func (h *StylesHandler) UpdateStage(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	style, ok := h.ownedStyle(w, r)
	if !ok {
		return
	}

	var req updateStageRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	stage, err := bot.ParseStage(req.Stage)
	if err != nil {
		storeError(w, err)
		return
	}

	updated, err := store.UpdateStyleStage(r.Context(), h.DB, style.ID, stage, &claims.MerchantID)
	if err != nil {
		storeError(w, err)
		return
	}

	h.M.StageUpdatesTotal.Inc()
	if updated.Stage == model.StageDispatch {
		h.M.StylesDispatchedTotal.Inc()
	}
	jsonResponse(w, http.StatusOK, updated)
}

// UpdateQuantities handles PUT /api/styles/{id}/quantities.
func (h *StylesHandler) UpdateQuantities(w http.ResponseWriter, r *http.Request) {
	style, ok := h.ownedStyle(w, r)
	if !ok {
		return
	}

	var req quantitiesRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := store.UpdateStyleQuantities(r.Context(), h.DB, style.ID, store.QuantityUpdate{
		Cut:    req.Cut,
		Stitch: req.Stitch,
		Finish: req.Finish,
		Pack:   req.Pack,
		Total:  req.Total,
	})
	if err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

// UpdateAccessories handles PUT /api/styles/{id}/accessories.
func (h *StylesHandler) UpdateAccessories(w http.ResponseWriter, r *http.Request) {
	style, ok := h.ownedStyle(w, r)
	if !ok {
		return
	}

	var req accessoriesRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := store.UpdateStyleAccessories(r.Context(), h.DB, style.ID, store.AccessoryUpdate{
		Barcode:  req.Barcode,
		Trims:    req.Trims,
		Washcare: req.Washcare,
		Other:    req.Other,
	})
	if err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

// Archive handles DELETE /api/styles/{id}. Styles are never physically
// deleted; archiving hides them from the working views.
func (h *StylesHandler) Archive(w http.ResponseWriter, r *http.Request) {
	style, ok := h.ownedStyle(w, r)
	if !ok {
		return
	}

	if err := store.ArchiveStyle(r.Context(), h.DB, style.ID); err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "style archived"})
}

// Restore handles POST /api/styles/{id}/restore.
func (h *StylesHandler) Restore(w http.ResponseWriter, r *http.Request) {
	style, ok := h.ownedStyle(w, r)
	if !ok {
		return
	}

	if err := store.RestoreStyle(r.Context(), h.DB, style.ID); err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "style restored"})
}

// UploadPhoto handles PUT /api/styles/{id}/photo.
func (h *StylesHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	style, ok := h.ownedStyle(w, r)
	if !ok {
		return
	}

	// Limit to 5 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "photo file required")
		return
	}
	defer file.Close()

	photo, err := imaging.Process(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SetStylePhoto(r.Context(), h.DB, style.ID, photo.Data, photo.Thumb, photo.MIME); err != nil {
		storeError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "photo uploaded"})
}

// GetPhoto handles GET /api/styles/{id}/photo.
func (h *StylesHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	style, ok := h.ownedStyle(w, r)
	if !ok {
		return
	}

	data, mime, err := store.GetStylePhoto(r.Context(), h.DB, style.ID)
	if err != nil {
		storeError(w, err)
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no photo")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}

// GetThumbnail handles GET /api/styles/{id}/thumbnail.
func (h *StylesHandler) GetThumbnail(w http.ResponseWriter, r *http.Request) {
	style, ok := h.ownedStyle(w, r)
	if !ok {
		return
	}

	data, mime, err := store.GetStyleThumb(r.Context(), h.DB, style.ID)
	if err != nil {
		storeError(w, err)
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no photo")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}

// GetHistory handles GET /api/styles/{id}/history.
func (h *StylesHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	style, ok := h.ownedStyle(w, r)
	if !ok {
		return
	}

	history, err := store.GetStyleHistory(r.Context(), h.DB, style.ID)
	if err != nil {
		storeError(w, err)
		return
	}
	if history == nil {
		history = []model.StageEvent{}
	}
	jsonResponse(w, http.StatusOK, history)
}

// ownedStyle loads the style from the path and checks the caller may touch
// it: merchants see only their own styles, admins see everything. Foreign
// styles are reported as not found rather than forbidden.
func (h *StylesHandler) ownedStyle(w http.ResponseWriter, r *http.Request) (*model.Style, bool) {
	claims := GetClaims(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid style id")
		return nil, false
	}

	style, err := store.GetStyle(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err)
		return nil, false
	}
	if style.Merchant != claims.Merchant && !model.IsAdmin(claims.Role) {
		jsonError(w, http.StatusNotFound, "style not found")
		return nil, false
	}
	return style, true
}
