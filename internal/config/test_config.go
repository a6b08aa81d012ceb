package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadTestConfig loads the configuration from the .env file or environment variables for integration tests
// If TEST_DB_* variables are not set, returns a Config with an empty Database section
// so callers can detect that no test database is available
func LoadTestConfig() (*Config, error) {
	// Try loading from project root, then from the working directory
	_ = godotenv.Load("../../.env")
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.Logging.Level = "debug"
	cfg.Security.PasswordEncoder = "plain"

	dbHost := os.Getenv("TEST_DB_HOST")
	if dbHost == "" {
		return cfg, nil
	}

	dbPortStr := os.Getenv("TEST_DB_PORT")
	if dbPortStr == "" {
		dbPortStr = "3306"
	}
	dbPort, err := strconv.Atoi(dbPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid TEST_DB_PORT: %w", err)
	}

	dbName := os.Getenv("TEST_DB_NAME")
	if dbName == "" {
		dbName = "krishi_saarathi_test"
	}

	cfg.Database.Host = dbHost
	cfg.Database.Port = dbPort
	cfg.Database.User = os.Getenv("TEST_DB_USER")
	cfg.Database.Password = os.Getenv("TEST_DB_PASSWORD")
	cfg.Database.DBName = dbName
	cfg.Migrations.Path = os.Getenv("TEST_MIGRATIONS_PATH")

	return cfg, nil
}

// HasDatabase reports whether database settings are present
func (c *Config) HasDatabase() bool {
	return c.Database.Host != ""
}
