package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	BackendRedis  = "redis"
	BackendMemory = "memory"

	DefaultStartingBalance = 1000.0
)

type Config struct {
	Port string
	Env  string

	StoreBackend string
	RedisURL     string
	RedisPass    string
	RedisDB      int

	StartingBalance    float64
	LogLevel           string
	RateLimitPerMinute int
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from the environment, after merging a .env file if
// one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getenv("PORT", "8080"),
		Env:          getenv("ENV", "development"),
		StoreBackend: strings.ToLower(getenv("STORE_BACKEND", BackendRedis)),
		RedisURL:     getenv("REDIS_URL", "localhost:6379"),
		RedisPass:    os.Getenv("REDIS_PASS"),
		LogLevel:     getenv("LOG_LEVEL", "info"),

		StartingBalance: DefaultStartingBalance,
	}

	var err error
	if cfg.RedisDB, err = getenvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMinute, err = getenvInt("RATE_LIMIT_PER_MINUTE", 0); err != nil {
		return nil, err
	}

	if v := os.Getenv("STARTING_BALANCE"); v != "" {
		cfg.StartingBalance, err = strconv.ParseFloat(v, 64)
		if err != nil || cfg.StartingBalance < 0 {
			return nil, fmt.Errorf("STARTING_BALANCE must be a non-negative number, got %q", v)
		}
	}

	switch cfg.StoreBackend {
	case BackendRedis, BackendMemory:
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}
