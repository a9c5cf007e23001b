package config

import (
	"os"
	"strconv"
)

// Config holds application configuration
type Config struct {
	Port             string
	DBPath           string
	StacURL          string
	JWTSecret        string
	DownsampleFactor int // keep every Nth row/column in durable storage
	StoreRetries     int // attempts for durable writes on transient failures
}

// Load reads configuration from environment variables with defaults
func Load() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = ":8000"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./data/satellite/analyses.db"
	}

	stacURL := os.Getenv("STAC_URL")
	if stacURL == "" {
		stacURL = "https://earth-search.aws.element84.com/v1"
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "your-secret-key-change-in-production"
	}

	factor := envInt("DOWNSAMPLE_FACTOR", 10)
	if factor < 1 {
		factor = 1
	}

	retries := envInt("STORE_RETRY_ATTEMPTS", 3)
	if retries < 1 {
		retries = 1
	}

	return &Config{
		Port:             port,
		DBPath:           dbPath,
		StacURL:          stacURL,
		JWTSecret:        jwtSecret,
		DownsampleFactor: factor,
		StoreRetries:     retries,
	}
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
