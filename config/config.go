package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Binance       Binance
	ProgressEvery time.Duration
}

type Binance struct {
	// Key and Secret are the API credentials. Never logged.
	Key    string
	Secret string

	BaseURL string

	// RequestDelay is the minimum pause enforced after every API call to
	// stay under the request budget.
	RequestDelay time.Duration
}

// Build loads configuration from the environment. A .env file is picked up
// when present for local use.
func Build() (*Config, error) {
	_ = godotenv.Load()

	key := os.Getenv("BINANCE_API_KEY")
	secret := os.Getenv("BINANCE_API_SECRET")
	if key == "" || secret == "" {
		return nil, errors.New("BINANCE_API_KEY and BINANCE_API_SECRET must be set")
	}

	return &Config{
		Binance: Binance{
			Key:          key,
			Secret:       secret,
			BaseURL:      getEnv("BINANCE_BASE_URL", "https://api.binance.com"),
			RequestDelay: time.Duration(getEnvInt("BINANCE_REQUEST_DELAY_MS", 500)) * time.Millisecond,
		},
		ProgressEvery: time.Duration(getEnvInt("PROGRESS_INTERVAL_SECONDS", 5)) * time.Second,
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
