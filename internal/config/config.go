package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port       string
	LogLevel   string
	CORSOrigin []string

	EventRate  float64
	EventBurst int

	ExportEnabled bool
	ExportFile    string

	DatabaseURL string

	AIProvider    string
	AIModel       string
	OpenAIKey     string
	OpenAIBaseURL string
	OllamaHost    string
}

func FromEnv() Config {
	c := Config{}
	c.Port = getenv("PORT", "5000")
	c.LogLevel = getenv("LOG_LEVEL", "info")
	c.CORSOrigin = splitList(getenv("CORS_ORIGINS", "*"))
	c.EventRate = getenvFloat("EVENT_RATE", 20)
	c.EventBurst = getenvInt("EVENT_BURST", 40)
	c.ExportEnabled = getenv("EXPORT_ENABLED", "false") == "true"
	c.ExportFile = getenv("EXPORT_FILE", "./spellbee-results.txt")
	c.DatabaseURL = os.Getenv("DATABASE_URL")
	c.AIProvider = getenv("AI_PROVIDER", "openai")
	c.AIModel = getenv("AI_MODEL", "gpt-3.5-turbo")
	c.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	c.OpenAIBaseURL = os.Getenv("OPENAI_BASE_URL")
	c.OllamaHost = getenv("OLLAMA_HOST", "http://localhost:11434")
	return c
}

// AllowAllOrigins reports whether CORS_ORIGINS is the wildcard.
func (c Config) AllowAllOrigins() bool {
	return len(c.CORSOrigin) == 0 || (len(c.CORSOrigin) == 1 && c.CORSOrigin[0] == "*")
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			return i
		}
	}
	return def
}

func getenvFloat(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
