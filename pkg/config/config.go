// Package config loads application configuration from environment variables,
// with an optional .env file for local development.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config groups the application configuration.
type Config struct {
	App    AppConfig
	DB     DBConfig
	HTTP   HTTPConfig
	JWT    JWTConfig
	Backup BackupConfig
	Notify NotifyConfig
}

// AppConfig is general application configuration.
type AppConfig struct {
	Env  string // development or production
	Name string
}

// DBConfig locates the SQLite database file.
type DBConfig struct {
	Path string
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr returns the listen address (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// JWTConfig configures token signing. An empty Secret means the secret is
// loaded from (or generated into) the database settings table.
type JWTConfig struct {
	Secret string
}

// BackupConfig configures snapshots. Schedule is a cron expression; empty
// disables scheduled backups (manual snapshots stay available).
type BackupConfig struct {
	Dir      string
	Schedule string
}

// NotifyConfig configures the outbound reminder webhook. An empty WebhookURL
// disables reminders. Schedule is a cron expression evaluated in Timezone.
type NotifyConfig struct {
	WebhookURL string
	Schedule   string
	Timezone   string
}

// Load reads configuration from environment variables (STYLEBOT_DB_PATH,
// STYLEBOT_HTTP_PORT, ...) and an optional .env file. Env vars win.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // missing file is fine

	v.SetEnvPrefix("STYLEBOT")
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "stylebot")
	v.SetDefault("DB_PATH", "stylebot.sqlite3")
	v.SetDefault("HTTP_HOST", "0.0.0.0")
	v.SetDefault("HTTP_PORT", 8080)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("BACKUP_DIR", "backups")
	v.SetDefault("BACKUP_SCHEDULE", "0 2 * * *")
	v.SetDefault("NOTIFY_WEBHOOK_URL", "")
	v.SetDefault("NOTIFY_SCHEDULE", "30 9 * * *")
	v.SetDefault("NOTIFY_TIMEZONE", "Asia/Kolkata")

	cfg := &Config{
		App: AppConfig{
			Env:  v.GetString("APP_ENV"),
			Name: v.GetString("APP_NAME"),
		},
		DB: DBConfig{
			Path: v.GetString("DB_PATH"),
		},
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
		},
		Backup: BackupConfig{
			Dir:      v.GetString("BACKUP_DIR"),
			Schedule: v.GetString("BACKUP_SCHEDULE"),
		},
		Notify: NotifyConfig{
			WebhookURL: v.GetString("NOTIFY_WEBHOOK_URL"),
			Schedule:   v.GetString("NOTIFY_SCHEDULE"),
			Timezone:   v.GetString("NOTIFY_TIMEZONE"),
		},
	}

	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535 {
		return nil, fmt.Errorf("invalid HTTP port %d", cfg.HTTP.Port)
	}

	return cfg, nil
}
