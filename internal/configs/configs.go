/*
Package configs is responsible for loading and parsing the application's configuration settings.

It configures server parameters by reading operating system environment variables,
including the running environment, listen address, user directory file, market
data source credentials, and the offerings refresh cadence.
*/
package configs

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// AppConfig contains all configuration parameters required for the application to run.
// All configuration values are loaded from environment variables.
type AppConfig struct {
	// General Server Settings
	Environment string
	Host        string
	Port        int
	AdminPort   int

	// Persistence Settings
	UsersFile string

	// Market Data Settings
	CoinAPIKey      string
	RefreshInterval time.Duration

	// Connection Rate Limiting
	ConnRate  float64
	ConnBurst int
}

// LoadConfig reads and parses the application configuration from environment variables.
// It provides default values for each configuration item and performs necessary type
// conversions and validation. It returns a pointer to the AppConfig struct and any
// error encountered.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}

	// --- General Server Settings ---
	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	cfg.Host = os.Getenv("HOST")
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}

	port, err := intEnv("PORT", 5555)
	if err != nil {
		return nil, err
	}
	cfg.Port = port

	if cfg.Port < 1024 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", cfg.Port, 1024, 65535)
	}

	adminPort, err := intEnv("ADMIN_PORT", 8080)
	if err != nil {
		return nil, err
	}
	cfg.AdminPort = adminPort

	// --- Persistence Settings ---
	cfg.UsersFile = os.Getenv("USERS_FILE")
	if cfg.UsersFile == "" {
		cfg.UsersFile = "users.json"
	}

	// --- Market Data Settings ---
	cfg.CoinAPIKey = os.Getenv("COINAPI_KEY")
	if cfg.CoinAPIKey == "" && cfg.Environment != "development" {
		return nil, fmt.Errorf("COINAPI_KEY environment variable is required in %s environment", cfg.Environment)
	}

	refreshMinutes, err := intEnv("REFRESH_INTERVAL_MINUTES", 30)
	if err != nil {
		return nil, err
	}
	if refreshMinutes < 1 {
		return nil, fmt.Errorf("REFRESH_INTERVAL_MINUTES must be at least 1, got %d", refreshMinutes)
	}
	cfg.RefreshInterval = time.Duration(refreshMinutes) * time.Minute

	// --- Connection Rate Limiting ---
	rateStr := os.Getenv("CONN_RATE")
	if rateStr == "" {
		rateStr = "5"
	}
	connRate, err := strconv.ParseFloat(rateStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid CONN_RATE environment variable: %w", err)
	}
	cfg.ConnRate = connRate

	connBurst, err := intEnv("CONN_BURST", 10)
	if err != nil {
		return nil, err
	}
	cfg.ConnBurst = connBurst

	return cfg, nil
}

// intEnv reads an integer environment variable, falling back to def when unset.
func intEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return val, nil
}
