package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port         string `yaml:"port" env:"SERVER_PORT"`
		Mode         string `yaml:"mode" env:"SERVER_MODE"`
		ReadTimeout  string `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout string `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	} `yaml:"server"`

	Database struct {
		Host             string `yaml:"host" env:"DB_HOST"`
		Port             string `yaml:"port" env:"DB_PORT"`
		User             string `yaml:"user" env:"DB_USER"`
		Password         string `yaml:"password" env:"DB_PASSWORD"`
		DBName           string `yaml:"dbname" env:"DB_NAME"`
		SSLMode          string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns     int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns     int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime  string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir    string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
		TransactionLimit string `yaml:"transaction_timeout" env:"DB_TRANSACTION_TIMEOUT"`
	} `yaml:"database"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Admin struct {
		TreeLockTimeout string `yaml:"tree_lock_timeout" env:"ADMIN_TREE_LOCK_TIMEOUT"`
		DefaultRating   int    `yaml:"default_rating" env:"ADMIN_DEFAULT_RATING"`
		ListPageSize    int    `yaml:"list_page_size" env:"ADMIN_LIST_PAGE_SIZE"`
		SeedPassword    string `yaml:"seed_password" env:"ADMIN_SEED_PASSWORD"`
	} `yaml:"admin"`
}

// LoadConfig loads configuration from a .env file, a YAML file and environment variables, in that order
func LoadConfig(configPath string) (*Config, error) {
	// .env is optional; it only feeds the environment override step
	_ = godotenv.Load()

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.ReadTimeout = "10s"
	config.Server.WriteTimeout = "60s"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "judge"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"
	config.Database.TransactionLimit = "5m"

	config.JWT.AccessTokenExpiration = "12h"
	config.JWT.Issuer = "judgeadmin"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Admin.TreeLockTimeout = "10s"
	config.Admin.DefaultRating = 1200
	config.Admin.ListPageSize = 50
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	durations := map[string]string{
		"JWT access token expiration": config.JWT.AccessTokenExpiration,
		"server read timeout":         config.Server.ReadTimeout,
		"server write timeout":        config.Server.WriteTimeout,
		"database conn max lifetime":  config.Database.ConnMaxLifetime,
		"database transaction limit":  config.Database.TransactionLimit,
		"admin tree lock timeout":     config.Admin.TreeLockTimeout,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
	}

	if config.Admin.ListPageSize <= 0 {
		return fmt.Errorf("admin list page size must be positive")
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}
