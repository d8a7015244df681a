package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "LLM_MODEL", "LLM_TEMPERATURE", "LLM_FALLBACK_MODEL",
		"LLM_REASONING_PREFIXES", "RATE_LIMIT_MAX", "RATE_LIMIT_WINDOW", "AUDIT_ENABLED",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "3001", cfg.Server.Port)
	assert.Equal(t, "gpt-5-mini", cfg.LLM.Model)
	assert.Nil(t, cfg.LLM.Temperature)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.FallbackModel)
	assert.Equal(t, []string{"o1", "o3", "o4", "gpt-5"}, cfg.LLM.ReasoningPrefixes)
	assert.Equal(t, 5, cfg.RateLimit.Max)
	assert.Equal(t, time.Hour, cfg.RateLimit.Window)
	assert.Equal(t, 90*time.Second, cfg.LLM.CompletionTimeout)
	assert.False(t, cfg.Audit.Enabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("LLM_MODEL", "gemini-2.5-flash")
	t.Setenv("LLM_TEMPERATURE", "0.25")
	t.Setenv("LLM_REASONING_PREFIXES", " o1 , ,gemini-2.5-pro ")
	t.Setenv("FETCH_TIMEOUT", "3s")
	t.Setenv("RATE_LIMIT_MAX", "not-a-number")
	t.Setenv("AUDIT_ENABLED", "true")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.Model)
	require.NotNil(t, cfg.LLM.Temperature)
	assert.InDelta(t, 0.25, *cfg.LLM.Temperature, 0.0001)
	assert.Equal(t, []string{"o1", "gemini-2.5-pro"}, cfg.LLM.ReasoningPrefixes)
	assert.Equal(t, 3*time.Second, cfg.LLM.FetchTimeout)
	assert.Equal(t, 5, cfg.RateLimit.Max)
	assert.True(t, cfg.Audit.Enabled)
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: "5433", User: "u", Password: "p", DBName: "audit",
	}}

	assert.Equal(t, "host=db port=5433 user=u password=p dbname=audit sslmode=disable", cfg.GetDatabaseDSN())
}

func TestLoadRejectsNonPositiveDurations(t *testing.T) {
	t.Setenv("COMPLETION_TIMEOUT", "0s")
	t.Setenv("FETCH_TIMEOUT", "-5s")
	t.Setenv("RATE_LIMIT_WINDOW", "0")

	cfg := Load()

	assert.Equal(t, 90*time.Second, cfg.LLM.CompletionTimeout)
	assert.Equal(t, 15*time.Second, cfg.LLM.FetchTimeout)
	assert.Equal(t, time.Hour, cfg.RateLimit.Window)
}
