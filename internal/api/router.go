package api

import (
	"database/sql"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/garmenthq/stylebot/internal/metrics"
)

// RouterDeps carries the dependencies the routes need.
type RouterDeps struct {
	DB        *sql.DB
	JWTSecret string
	BackupDir string
	Metrics   *metrics.Metrics
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: deps.DB, JWTSecret: deps.JWTSecret}
	stylesHandler := &StylesHandler{DB: deps.DB, M: deps.Metrics}
	commandsHandler := &CommandsHandler{DB: deps.DB, M: deps.Metrics}
	merchantsHandler := &MerchantsHandler{DB: deps.DB}
	backupsHandler := &BackupsHandler{DB: deps.DB, Dir: deps.BackupDir, M: deps.Metrics}

	authMW := AuthMiddleware(deps.JWTSecret, deps.DB)

	// Public.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	// Authenticated.
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Chat command bridge.
	mux.Handle("POST /api/commands/add-style", authMW(http.HandlerFunc(commandsHandler.AddStyle)))
	mux.Handle("POST /api/commands/update-stage", authMW(http.HandlerFunc(commandsHandler.UpdateStage)))
	mux.Handle("POST /api/commands/current-styles", authMW(http.HandlerFunc(commandsHandler.ListStyles)))
	mux.Handle("POST /api/commands/morning-update", authMW(http.HandlerFunc(commandsHandler.MorningUpdate)))
	mux.Handle("GET /api/commands/options", authMW(http.HandlerFunc(commandsHandler.Options)))

	// Styles.
	mux.Handle("GET /api/styles", authMW(http.HandlerFunc(stylesHandler.List)))
	mux.Handle("POST /api/styles", authMW(http.HandlerFunc(stylesHandler.Create)))
	mux.Handle("GET /api/styles/{id}", authMW(http.HandlerFunc(stylesHandler.Get)))
	mux.Handle("PUT /api/styles/{id}/stage", authMW(http.HandlerFunc(stylesHandler.UpdateStage)))
	mux.Handle("PUT /api/styles/{id}/quantities", authMW(http.HandlerFunc(stylesHandler.UpdateQuantities)))
	mux.Handle("PUT /api/styles/{id}/accessories", authMW(http.HandlerFunc(stylesHandler.UpdateAccessories)))
	mux.Handle("DELETE /api/styles/{id}", authMW(http.HandlerFunc(stylesHandler.Archive)))
	mux.Handle("POST /api/styles/{id}/restore", authMW(http.HandlerFunc(stylesHandler.Restore)))
	mux.Handle("PUT /api/styles/{id}/photo", authMW(http.HandlerFunc(stylesHandler.UploadPhoto)))
	mux.Handle("GET /api/styles/{id}/photo", authMW(http.HandlerFunc(stylesHandler.GetPhoto)))
	mux.Handle("GET /api/styles/{id}/thumbnail", authMW(http.HandlerFunc(stylesHandler.GetThumbnail)))
	mux.Handle("GET /api/styles/{id}/history", authMW(http.HandlerFunc(stylesHandler.GetHistory)))

	// Merchants (admin only).
	mux.Handle("GET /api/merchants", authMW(RequireAdmin(http.HandlerFunc(merchantsHandler.List))))
	mux.Handle("POST /api/merchants", authMW(RequireAdmin(http.HandlerFunc(merchantsHandler.Create))))
	mux.Handle("GET /api/merchants/{id}", authMW(RequireAdmin(http.HandlerFunc(merchantsHandler.Get))))
	mux.Handle("PUT /api/merchants/{id}", authMW(RequireAdmin(http.HandlerFunc(merchantsHandler.Update))))
	mux.Handle("PUT /api/merchants/{id}/password", authMW(RequireAdmin(http.HandlerFunc(merchantsHandler.ResetPassword))))
	mux.Handle("DELETE /api/merchants/{id}", authMW(RequireAdmin(http.HandlerFunc(merchantsHandler.Delete))))

	// Backups (admin only).
	mux.Handle("POST /api/backups", authMW(RequireAdmin(http.HandlerFunc(backupsHandler.Create))))
	mux.Handle("GET /api/backups", authMW(RequireAdmin(http.HandlerFunc(backupsHandler.List))))

	return MetricsMiddleware(deps.Metrics)(LoggingMiddleware(mux))
}
