package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "5250", cfg.Port)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, "ptk_session", cfg.Session.CookieName)
	assert.Equal(t, 720*time.Hour, cfg.Session.TTL)
	assert.Empty(t, cfg.HTTP.CORSOrigins)
	assert.Equal(t, 32, cfg.Contact.QueueSize)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("API_BASE_URL", "http://localhost:8000/api/")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("CORS_ORIGINS", "https://a.example.com,https://b.example.com")
	t.Setenv("TELEGRAM_BOT_TOKEN", "bot")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://localhost:8000/api/", cfg.API.BaseURL)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, "bot", cfg.Telegram.BotToken)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		expectError bool
	}{
		{name: "Bad scheme", env: map[string]string{"API_BASE_URL": "ftp://example.com/api/"}, expectError: true},
		{name: "Zero timeout", env: map[string]string{"API_TIMEOUT": "0s"}, expectError: true},
		{name: "Negative ttl", env: map[string]string{"SESSION_TTL": "-1h"}, expectError: true},
		{name: "Zero burst", env: map[string]string{"RATE_LIMIT_BURST": "0"}, expectError: true},
		{name: "Queue size falls back", env: map[string]string{"CONTACT_QUEUE_SIZE": "0"}, expectError: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := LoadConfig()
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 32, cfg.Contact.QueueSize)
		})
	}
}
