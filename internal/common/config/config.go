// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Gateway  GatewayConfig  `mapstructure:"gateway"`
	Dialog   DialogConfig   `mapstructure:"dialog"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// GatewayConfig holds settings for the loan calculation gateway client.
type GatewayConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

// DialogConfig holds settings for pending-request dialog state.
type DialogConfig struct {
	PendingTTLMinutes int `mapstructure:"pending_ttl_minutes"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
