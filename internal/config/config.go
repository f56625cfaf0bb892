package config

import (
	"fmt"
	"time"

	"north_staffing_backend/pkg/utils"

	"github.com/joho/godotenv"
)

// Store drivers selectable at startup.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// DatabaseConfig holds connection settings for the relational store.
type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string
	SQLitePath string
}

// DSN returns the lib/pq connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// Config is the process configuration assembled from the environment.
type Config struct {
	Port               string
	Database           DatabaseConfig
	JWTSecret          string
	JWTTTL             time.Duration
	CORSAllowedOrigins []string
	LogLevel           string
	LogPretty          bool
	ReminderInterval   time.Duration
	ReminderWindow     time.Duration
	SMTP               utils.EmailConfig
	AdminEmail         string
	AdminPassword      string
	LoginRateLimit     int
	EnquiryRateLimit   int
}

// LoadEnv loads a .env file when one exists. A missing file is not an error;
// production sets variables directly.
func LoadEnv() error {
	_ = godotenv.Load()
	return nil
}

// Load reads the configuration from the environment after LoadEnv.
func Load() (*Config, error) {
	if err := LoadEnv(); err != nil {
		return nil, err
	}

	cfg := &Config{
		Port: utils.Getenv("PORT", "8080"),
		Database: DatabaseConfig{
			Driver:     utils.Getenv("STORE_DRIVER", DriverPostgres),
			Host:       utils.Getenv("DB_HOST", "localhost"),
			Port:       utils.Getenv("DB_PORT", "5432"),
			User:       utils.Getenv("DB_USER", "staffing"),
			Password:   utils.Getenv("DB_PASSWORD", "staffing"),
			Name:       utils.Getenv("DB_NAME", "north_staffing"),
			SSLMode:    utils.Getenv("DB_SSLMODE", "disable"),
			SQLitePath: utils.Getenv("SQLITE_PATH", "north_staffing.db"),
		},
		JWTSecret:          utils.Getenv("JWT_SECRET", ""),
		JWTTTL:             utils.GetenvDuration("JWT_TTL", 24*time.Hour),
		CORSAllowedOrigins: utils.GetenvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		LogLevel:           utils.Getenv("LOG_LEVEL", "info"),
		LogPretty:          utils.GetenvBool("LOG_PRETTY", true),
		ReminderInterval:   utils.GetenvDuration("REMINDER_INTERVAL", time.Hour),
		ReminderWindow:     utils.GetenvDuration("REMINDER_WINDOW", 24*time.Hour),
		SMTP: utils.EmailConfig{
			Host:     utils.Getenv("SMTP_HOST", ""),
			Port:     utils.Getenv("SMTP_PORT", ""),
			Username: utils.Getenv("SMTP_USERNAME", ""),
			Password: utils.Getenv("SMTP_PASSWORD", ""),
			From:     utils.Getenv("SMTP_FROM", ""),
		},
		AdminEmail:       utils.Getenv("ADMIN_EMAIL", ""),
		AdminPassword:    utils.Getenv("ADMIN_PASSWORD", ""),
		LoginRateLimit:   utils.GetenvInt("LOGIN_RATE_LIMIT", 10),
		EnquiryRateLimit: utils.GetenvInt("ENQUIRY_RATE_LIMIT", 5),
	}

	if cfg.Database.Driver == DriverMemory && cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-only-memory-store-secret"
		utils.LogWarn("JWT_SECRET not set, using a development secret for the memory store")
	}

	return cfg, nil
}

// Validate checks that critical settings are present and coherent.
func (c *Config) Validate() error {
	var missing []string

	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q: expected %s, %s or %s",
			c.Database.Driver, DriverPostgres, DriverSQLite, DriverMemory)
	}

	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.Database.Driver == DriverPostgres && c.Database.Host == "" {
		missing = append(missing, "DB_HOST")
	}
	if len(missing) > 0 {
		return fmt.Errorf("critical environment variables not set: %v", missing)
	}

	if c.ReminderInterval <= 0 || c.ReminderWindow <= 0 {
		return fmt.Errorf("REMINDER_INTERVAL and REMINDER_WINDOW must be positive")
	}

	if !c.SMTP.Enabled() {
		utils.LogWarn("SMTP not configured - shift reminders will only be logged")
	}
	return nil
}
