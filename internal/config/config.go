package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Common
	Env      string
	LogLevel string
	// API
	Port string
	// Storage
	Storage     string
	OrdersDir   string
	DatabaseURL string
	// Provider
	Provider       string
	AtlasURL       string
	AuthToken      string
	Cookie         string
	RequestTimeout time.Duration
	// Batch
	Workers   int
	CSVFile   string
	FetchPace time.Duration
	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

// Load reads environment variables and applies defaults.
// URBANPIPER_AUTH_TOKEN / URBANPIPER_COOKIE keep the names the Atlas
// browser session uses, so credentials can be pasted straight from it.
func Load() Config {
	return Config{
		Env:            getEnv("ENV", "local"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Port:           getEnv("PORT", "8080"),
		Storage:        getEnv("STORAGE", "fs"),
		OrdersDir:      getEnv("ORDERS_DIR", "orders"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		Provider:       getEnv("PROVIDER", "atlas"),
		AtlasURL:       getEnv("ATLAS_API_URL", "https://atlas-server.urbanpiper.com/graphql"),
		AuthToken:      getEnv("URBANPIPER_AUTH_TOKEN", ""),
		Cookie:         getEnv("URBANPIPER_COOKIE", ""),
		RequestTimeout: time.Duration(atoiDef(getEnv("REQUEST_TIMEOUT_MS", "30000"), 30000)) * time.Millisecond,
		Workers:        atoiDef(getEnv("WORKERS", "5"), 5),
		CSVFile:        getEnv("CSV_FILE", "Order-transactions-32646829-2025-07-29.csv"),
		FetchPace:      time.Duration(atoiDef(getEnv("FETCH_PACE_MS", "100"), 100)) * time.Millisecond,
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        atoiDef(getEnv("REDIS_DB", "0"), 0),
	}
}
