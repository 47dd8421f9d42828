package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "LOG_LEVEL", "CORS_ORIGINS", "EVENT_RATE", "EVENT_BURST",
		"EXPORT_ENABLED", "EXPORT_FILE", "DATABASE_URL", "AI_PROVIDER", "AI_MODEL", "OLLAMA_HOST"} {
		t.Setenv(k, "")
	}

	c := FromEnv()
	assert.Equal(t, "5000", c.Port)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, []string{"*"}, c.CORSOrigin)
	assert.True(t, c.AllowAllOrigins())
	assert.Equal(t, 20.0, c.EventRate)
	assert.Equal(t, 40, c.EventBurst)
	assert.False(t, c.ExportEnabled)
	assert.Equal(t, "./spellbee-results.txt", c.ExportFile)
	assert.Empty(t, c.DatabaseURL)
	assert.Equal(t, "openai", c.AIProvider)
	assert.Equal(t, "gpt-3.5-turbo", c.AIModel)
	assert.Equal(t, "http://localhost:11434", c.OllamaHost)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("EVENT_RATE", "2.5")
	t.Setenv("EVENT_BURST", "5")
	t.Setenv("EXPORT_ENABLED", "true")
	t.Setenv("DATABASE_URL", "postgres://localhost/spellbee")
	t.Setenv("AI_PROVIDER", "ollama")

	c := FromEnv()
	assert.Equal(t, "9000", c.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, c.CORSOrigin)
	assert.False(t, c.AllowAllOrigins())
	assert.Equal(t, 2.5, c.EventRate)
	assert.Equal(t, 5, c.EventBurst)
	assert.True(t, c.ExportEnabled)
	assert.Equal(t, "postgres://localhost/spellbee", c.DatabaseURL)
	assert.Equal(t, "ollama", c.AIProvider)
}

func TestGetenvIntInvalid(t *testing.T) {
	t.Setenv("EVENT_BURST", "lots")
	assert.Equal(t, 40, getenvInt("EVENT_BURST", 40))
	t.Setenv("EVENT_BURST", "-3")
	assert.Equal(t, 40, getenvInt("EVENT_BURST", 40))
}
