// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like GATEWAY_BASE_URL
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment-specific overlay, ignored when absent.
	envConfigFile := fmt.Sprintf("config.%s", env)
	viper.SetConfigName(envConfigFile)
	_ = viper.MergeInConfig()

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile tries .env from likely locations relative to the binary's cwd.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up from cwd looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders in string config values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

// overrideEmptyConfig fills still-empty secrets straight from the environment.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Database.Postgres.User == "" {
		if val := os.Getenv("DB_USER"); val != "" {
			cfg.Database.Postgres.User = val
		}
	}
	if cfg.Database.Postgres.Password == "" {
		if val := os.Getenv("DB_PASSWORD"); val != "" {
			cfg.Database.Postgres.Password = val
		}
	}
	if cfg.Database.Redis.Password == "" {
		if val := os.Getenv("REDIS_PASSWORD"); val != "" {
			cfg.Database.Redis.Password = val
		}
	}
	if cfg.Gateway.BaseURL == "" {
		if val := os.Getenv("GATEWAY_BASE_URL"); val != "" {
			cfg.Gateway.BaseURL = val
		}
	}
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10000
	}

	// Database defaults
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}

	// Gateway defaults
	if cfg.Gateway.Timeout == 0 {
		cfg.Gateway.Timeout = 10000
	}

	// Dialog defaults
	if cfg.Dialog.PendingTTLMinutes == 0 {
		cfg.Dialog.PendingTTLMinutes = 30
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.Gateway.BaseURL == "" {
		return fmt.Errorf("gateway.base_url is required")
	}

	if cfg.Database.Postgres.Host == "" {
		return fmt.Errorf("database.postgres.host is required")
	}
	if cfg.Database.Postgres.Database == "" {
		return fmt.Errorf("database.postgres.database is required")
	}
	if cfg.Database.Postgres.User == "" {
		return fmt.Errorf("database.postgres.user is required")
	}

	if cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
