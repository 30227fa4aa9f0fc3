package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "./data/maiya.db", cfg.DBPath)
	assert.Equal(t, "gpt-4o-mini", cfg.Provider.ChatModel)
	assert.Equal(t, "dall-e-3", cfg.Provider.ImageModel)
	assert.Equal(t, 30*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, 2, cfg.Provider.MaxRetries)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("PORT", "9000")
	t.Setenv("CHAT_MODEL", "gpt-4o")
	t.Setenv("PROVIDER_TIMEOUT", "10s")
	t.Setenv("PROVIDER_MAX_RETRIES", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "gpt-4o", cfg.Provider.ChatModel)
	assert.Equal(t, 10*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, 5, cfg.Provider.MaxRetries)
}

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestLoadBadDurationFallsBack(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("PROVIDER_TIMEOUT", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Provider.Timeout)
}

func TestIsDevelopment(t *testing.T) {
	cfg := &Config{FrontendURL: ""}
	assert.True(t, cfg.IsDevelopment())

	cfg.FrontendURL = "http://localhost:3000"
	assert.True(t, cfg.IsDevelopment())

	cfg.FrontendURL = "https://maiya.app"
	assert.False(t, cfg.IsDevelopment())
}
