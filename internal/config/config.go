package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	DatabaseURL      string
	AllowedOrigins   string
	StaticDir        string
	MessagingEnabled bool
}

// Load reads .env when present, then resolves the environment. DATABASE_URL
// has no default: the service refuses to start without an explicit store.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	return &Config{
		Port:             getEnvOrDefault("PORT", "5000"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		AllowedOrigins:   getEnvOrDefault("ALLOWED_ORIGINS", "*"),
		StaticDir:        getEnvOrDefault("STATIC_DIR", "./web"),
		MessagingEnabled: getEnvOrDefault("MESSAGING_ENABLED", "false") == "true",
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
