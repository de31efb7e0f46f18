package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "stylebot.sqlite3", cfg.DB.Path)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Empty(t, cfg.JWT.Secret, "secret defaults to database-managed")
	assert.Equal(t, "backups", cfg.Backup.Dir)
	assert.NotEmpty(t, cfg.Backup.Schedule)
	assert.Empty(t, cfg.Notify.WebhookURL, "reminders disabled by default")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("STYLEBOT_DB_PATH", "/tmp/other.sqlite3")
	t.Setenv("STYLEBOT_HTTP_PORT", "9090")
	t.Setenv("STYLEBOT_NOTIFY_WEBHOOK_URL", "http://hooks.example/send")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/other.sqlite3", cfg.DB.Path)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "http://hooks.example/send", cfg.Notify.WebhookURL)
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("STYLEBOT_HTTP_PORT", "99999")

	_, err := Load()
	assert.Error(t, err)
}
