package config

import (
	"os"
	"strings"
)

// Config dibaca sekali di main dari environment (.env di-load godotenv).
type Config struct {
	Port           string
	StoreDriver    string // "file" atau "sqlite"
	DataDir        string
	AllowedOrigins []string
}

func Load() Config {
	cfg := Config{
		Port:           getenv("PORT", "8080"),
		StoreDriver:    getenv("STORE_DRIVER", "file"),
		DataDir:        getenv("DATA_DIR", "data"),
		AllowedOrigins: []string{"http://localhost:3000"},
	}

	// CORS_ORIGINS: daftar origin dipisah koma
	if raw := os.Getenv("CORS_ORIGINS"); raw != "" {
		origins := []string{}
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.AllowedOrigins = origins
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
