package api

import (
	"database/sql"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/garmenthq/stylebot/internal/metrics"
	"github.com/garmenthq/stylebot/internal/store"
)

// BackupsHandler handles snapshot management (admin only).
type BackupsHandler struct {
	DB  *sql.DB
	Dir string
	M   *metrics.Metrics
}

// Create handles POST /api/backups, writing a point-in-time snapshot.
func (h *BackupsHandler) Create(w http.ResponseWriter, r *http.Request) {
	backup, err := store.Snapshot(r.Context(), h.DB, h.Dir)
	if err != nil {
		storeError(w, err)
		return
	}

	h.M.BackupsTotal.Inc()
	log.Info().Str("path", backup.Path).Int64("size", backup.Size).Msg("snapshot written")
	jsonResponse(w, http.StatusCreated, backup)
}

// List handles GET /api/backups, newest first.
func (h *BackupsHandler) List(w http.ResponseWriter, r *http.Request) {
	backups, err := store.ListBackups(h.Dir)
	if err != nil {
		storeError(w, err)
		return
	}
	if backups == nil {
		backups = []store.Backup{}
	}
	jsonResponse(w, http.StatusOK, backups)
}
