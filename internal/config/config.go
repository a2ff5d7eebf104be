package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server struct {
		Host         string
		Port         string
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
		IdleTimeout  time.Duration
	}
	Gemini struct {
		APIKey    string
		ListModel string
		DiveModel string
	}
	Redis struct {
		URL string // empty disables the shared cache
	}
	Cache struct {
		TTL time.Duration
	}
	Subscribe struct {
		Delay time.Duration
	}
	WebRoot  string
	LogLevel string
}

func Load() *Config {
	// Local development reads a .env file; missing files are fine.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server configuration
	cfg.Server.Host = getEnv("SERVER_HOST", "0.0.0.0")
	cfg.Server.Port = getEnv("SERVER_PORT", "8080")
	cfg.Server.ReadTimeout = getEnvAsDuration("SERVER_READ_TIMEOUT", "10s")
	cfg.Server.WriteTimeout = getEnvAsDuration("SERVER_WRITE_TIMEOUT", "120s")
	cfg.Server.IdleTimeout = getEnvAsDuration("SERVER_IDLE_TIMEOUT", "60s")

	// Gemini configuration. The API key is the one required credential and
	// is checked at startup.
	cfg.Gemini.APIKey = getEnv("GEMINI_API_KEY", "")
	cfg.Gemini.ListModel = getEnv("GEMINI_LIST_MODEL", "gemini-3-flash-preview")
	cfg.Gemini.DiveModel = getEnv("GEMINI_DIVE_MODEL", "gemini-3-pro-preview")

	// Month cache
	cfg.Redis.URL = getEnv("REDIS_URL", "")
	cfg.Cache.TTL = getEnvAsDuration("CACHE_TTL", "10m")

	// Mock subscription flow
	cfg.Subscribe.Delay = getEnvAsDuration("SUBSCRIBE_DELAY", "1200ms")

	cfg.WebRoot = getEnv("WEB_ROOT", "./web")
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key, defaultValue string) time.Duration {
	val := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(val)
	if err != nil {
		return time.Duration(0)
	}
	return duration
}

func getEnvAsInt(key string, defaultValue int) int {
	val := getEnv(key, strconv.Itoa(defaultValue))
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return intVal
}
