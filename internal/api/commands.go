package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/garmenthq/stylebot/internal/bot"
	"github.com/garmenthq/stylebot/internal/metrics"
	"github.com/garmenthq/stylebot/internal/model"
)

// CommandsHandler is the bridge for the chat layer: each endpoint takes a
// structured form submission and returns a plain-text response to display.
type CommandsHandler struct {
	DB *sql.DB
	M  *metrics.Metrics
}

type commandResponse struct {
	Text string `json:"text"`
}

type updateStageCommand struct {
	StyleID int64  `json:"style_id"`
	Stage   string `json:"stage"`
}

type listStylesCommand struct {
	Scope string `json:"scope"`
}

type morningUpdateCommand struct {
	// Stage selections keyed by style ID. JSON object keys are strings.
	Updates map[string]int `json:"updates"`
}

func actorFromClaims(r *http.Request) bot.Actor {
	claims := GetClaims(r.Context())
	return bot.Actor{
		ID:       claims.MerchantID,
		Merchant: claims.Merchant,
		Admin:    model.IsAdmin(claims.Role),
	}
}

// AddStyle handles POST /api/commands/add-style.
func (h *CommandsHandler) AddStyle(w http.ResponseWriter, r *http.Request) {
	var form bot.AddStyleForm
	if err := decodeJSON(r, &form); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	text, err := bot.AddStyle(r.Context(), h.DB, actorFromClaims(r), form)
	if err != nil {
		storeError(w, err)
		return
	}

	h.M.StylesCreatedTotal.Inc()
	jsonResponse(w, http.StatusOK, commandResponse{Text: text})
}

// UpdateStage handles POST /api/commands/update-stage.
func (h *CommandsHandler) UpdateStage(w http.ResponseWriter, r *http.Request) {
	var cmd updateStageCommand
	if err := decodeJSON(r, &cmd); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	text, err := bot.UpdateStage(r.Context(), h.DB, actorFromClaims(r), cmd.StyleID, cmd.Stage)
	if err != nil {
		storeError(w, err)
		return
	}

	h.M.StageUpdatesTotal.Inc()
	jsonResponse(w, http.StatusOK, commandResponse{Text: text})
}

// ListStyles handles POST /api/commands/current-styles.
func (h *CommandsHandler) ListStyles(w http.ResponseWriter, r *http.Request) {
	var cmd listStylesCommand
	if err := decodeJSON(r, &cmd); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	text, err := bot.ListStyles(r.Context(), h.DB, actorFromClaims(r), bot.ListScope(cmd.Scope))
	if err != nil {
		storeError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, commandResponse{Text: text})
}

// MorningUpdate handles POST /api/commands/morning-update.
func (h *CommandsHandler) MorningUpdate(w http.ResponseWriter, r *http.Request) {
	var cmd morningUpdateCommand
	if err := decodeJSON(r, &cmd); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updates := make(map[int64]int, len(cmd.Updates))
	for key, stage := range cmd.Updates {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid style id "+key)
			return
		}
		updates[id] = stage
	}

	text, err := bot.MorningUpdate(r.Context(), h.DB, actorFromClaims(r), updates)
	if err != nil {
		storeError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, commandResponse{Text: text})
}

// Options handles GET /api/commands/options, returning the select options
// the chat layer needs to build its modals.
func (h *CommandsHandler) Options(w http.ResponseWriter, r *http.Request) {
	styles, err := bot.StyleOptions(r.Context(), h.DB, actorFromClaims(r))
	if err != nil {
		storeError(w, err)
		return
	}
	if styles == nil {
		styles = []bot.SelectOption{}
	}

	jsonResponse(w, http.StatusOK, map[string][]bot.SelectOption{
		"styles":   styles,
		"stages":   bot.StageOptions(),
		"garments": bot.GarmentOptions(),
	})
}
