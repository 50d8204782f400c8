package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port           int
	APIKey         string
	LogLevel       string
	DatabaseURL    string
	NatsURL        string
	NatsToken      string
	CallbackURL    string
	AllowedOrigins []string
}

func Load() Config {
	return Config{
		Port:           envInt("DECOY_PORT", 8750),
		APIKey:         envStr("DECOY_API_KEY", ""),
		LogLevel:       envStr("LOG_LEVEL", "info"),
		DatabaseURL:    envStr("DATABASE_URL", ""),
		NatsURL:        envStr("NATS_URL", ""),
		NatsToken:      envStr("NATS_TOKEN", ""),
		CallbackURL:    envStr("CALLBACK_URL", ""),
		AllowedOrigins: envList("ALLOWED_ORIGINS", "*"),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envList(key, fallback string) []string {
	raw := envStr(key, fallback)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
