// Package config handles loading and validation of application configuration
// from environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/formgate/formgate-backend/logger"
	"github.com/spf13/viper"
)

// Environment represents the application's running environment (development or production).
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Environment    Environment `mapstructure:"ENVIRONMENT"`
	Port           string      `mapstructure:"PORT"`
	AllowedOrigins []string    `mapstructure:"ALLOWED_ORIGINS"`
	Version        string      `mapstructure:"VERSION"`
}

// EmailConfig holds configuration for the outbound mail transport.
// Service selects the dispatch provider: "smtp" (default) or "resend".
type EmailConfig struct {
	Service      string `mapstructure:"SERVICE"`
	Host         string `mapstructure:"HOST"`
	Port         int    `mapstructure:"PORT"`
	Secure       bool   `mapstructure:"SECURE"`
	Username     string `mapstructure:"USER"`
	Password     string `mapstructure:"PASS"`
	FromName     string `mapstructure:"FROM_NAME"`
	AdminEmail   string `mapstructure:"ADMIN_EMAIL"`
	UserSubject  string `mapstructure:"USER_SUBJECT"`
	ResendAPIKey string `mapstructure:"RESEND_API_KEY"`
	// Transport pool limits. Callers queue on the pool when saturated.
	MaxConnections int `mapstructure:"MAX_CONNECTIONS"`
	MaxMessages    int `mapstructure:"MAX_MESSAGES"`
	// Minimum gap between outbound messages, in milliseconds.
	RateDeltaMillis int `mapstructure:"RATE_DELTA_MILLIS"`
	// Per-send timeout in seconds.
	SendTimeoutSeconds int `mapstructure:"SEND_TIMEOUT_SECONDS"`
}

// FromAddress returns the "Name <address>" form used on outbound mail.
func (c *EmailConfig) FromAddress() string {
	if c.FromName == "" {
		return c.Username
	}
	return fmt.Sprintf("%s <%s>", c.FromName, c.Username)
}

// RateLimitConfig holds configuration for the contact-form rate limiter.
type RateLimitConfig struct {
	// Maximum accepted requests per client address within the window
	ContactRequests int `mapstructure:"CONTACT_REQUESTS"`
	// Window duration in minutes
	WindowMinutes int `mapstructure:"WINDOW_MINUTES"`
}

// RetentionConfig holds configuration for the submission TTL sweep.
type RetentionConfig struct {
	// Age in hours after which a submission is removed
	TTLHours int `mapstructure:"TTL_HOURS"`
	// Cadence of the background sweep in minutes
	SweepIntervalMinutes int `mapstructure:"SWEEP_INTERVAL_MINUTES"`
}

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"SERVER"`
	Email     EmailConfig     `mapstructure:"EMAIL"`
	RateLimit RateLimitConfig `mapstructure:"RATE_LIMIT"`
	Retention RetentionConfig `mapstructure:"RETENTION"`
}

// IsDevelopment returns true if the application is running in development environment.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == EnvDevelopment
}

// IsProduction returns true if the application is running in production environment.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// bindEnvVars binds multiple environment variables to config keys.
// Format: []{configKey, envVar}
func bindEnvVars(v *viper.Viper, bindings [][2]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b[0], err)
		}
	}
	return nil
}

// LoadConfig loads configuration from environment variables using Viper,
// sets default values, binds environment variables to config struct fields,
// unmarshals the configuration, and validates it.
func LoadConfig() (*Config, error) {
	v := viper.New()
	log := logger.GetLogger()

	v.SetDefault("SERVER.ENVIRONMENT", EnvDevelopment)
	v.SetDefault("SERVER.PORT", "8080")
	v.SetDefault("SERVER.ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("EMAIL.SERVICE", "smtp")
	v.SetDefault("EMAIL.HOST", "smtp.gmail.com")
	v.SetDefault("EMAIL.PORT", 465)
	v.SetDefault("EMAIL.SECURE", true)
	v.SetDefault("EMAIL.USER_SUBJECT", "Thank you for contacting us")
	v.SetDefault("EMAIL.MAX_CONNECTIONS", 5)
	v.SetDefault("EMAIL.MAX_MESSAGES", 100)
	v.SetDefault("EMAIL.RATE_DELTA_MILLIS", 200)
	v.SetDefault("EMAIL.SEND_TIMEOUT_SECONDS", 30)
	v.SetDefault("RATE_LIMIT.CONTACT_REQUESTS", 5)
	v.SetDefault("RATE_LIMIT.WINDOW_MINUTES", 15)
	v.SetDefault("RETENTION.TTL_HOURS", 24)
	v.SetDefault("RETENTION.SWEEP_INTERVAL_MINUTES", 60)
	v.SetDefault("LOG_LEVEL", "info")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Bind environment variables
	envBindings := [][2]string{
		// Server config
		{"SERVER.ENVIRONMENT", "ENVIRONMENT"},
		{"SERVER.PORT", "PORT"},
		{"SERVER.ALLOWED_ORIGINS", "ALLOWED_ORIGINS"},
		{"SERVER.VERSION", "VERSION"},
		// Email config
		{"EMAIL.SERVICE", "EMAIL_SERVICE"},
		{"EMAIL.HOST", "EMAIL_HOST"},
		{"EMAIL.PORT", "EMAIL_PORT"},
		{"EMAIL.SECURE", "EMAIL_SECURE"},
		{"EMAIL.USER", "EMAIL_USER"},
		{"EMAIL.PASS", "EMAIL_PASS"},
		{"EMAIL.FROM_NAME", "EMAIL_FROM_NAME"},
		{"EMAIL.ADMIN_EMAIL", "ADMIN_EMAIL"},
		{"EMAIL.USER_SUBJECT", "USER_EMAIL_SUBJECT"},
		{"EMAIL.RESEND_API_KEY", "RESEND_API_KEY"},
		{"EMAIL.MAX_CONNECTIONS", "EMAIL_MAX_CONNECTIONS"},
		{"EMAIL.MAX_MESSAGES", "EMAIL_MAX_MESSAGES"},
		{"EMAIL.RATE_DELTA_MILLIS", "EMAIL_RATE_DELTA_MILLIS"},
		{"EMAIL.SEND_TIMEOUT_SECONDS", "EMAIL_SEND_TIMEOUT_SECONDS"},
		// Rate limit config
		{"RATE_LIMIT.CONTACT_REQUESTS", "RATE_LIMIT_CONTACT_REQUESTS"},
		{"RATE_LIMIT.WINDOW_MINUTES", "RATE_LIMIT_WINDOW_MINUTES"},
		// Retention config
		{"RETENTION.TTL_HOURS", "RETENTION_TTL_HOURS"},
		{"RETENTION.SWEEP_INTERVAL_MINUTES", "RETENTION_SWEEP_INTERVAL_MINUTES"},
	}

	if err := bindEnvVars(v, envBindings); err != nil {
		return nil, err
	}

	env := v.GetString("SERVER.ENVIRONMENT")
	log.Infow("Configuration loaded",
		"environment", env,
		"server_port", v.GetString("SERVER.PORT"),
		"email_service", v.GetString("EMAIL.SERVICE"),
		"email_host", v.GetString("EMAIL.HOST"),
		"email_user", logger.MaskEmail(v.GetString("EMAIL.USER")),
		"allowed_origins", v.GetString("SERVER.ALLOWED_ORIGINS"),
	)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal failed: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// validateConfig enforces the settings the service cannot run without.
// Mail credentials are checked here so a misconfigured deployment fails at
// startup instead of on the first submission.
func validateConfig(cfg *Config) error {
	if cfg.Server.Environment != EnvDevelopment && cfg.Server.Environment != EnvProduction {
		return fmt.Errorf("invalid environment: %s", cfg.Server.Environment)
	}
	if cfg.Email.AdminEmail == "" {
		return fmt.Errorf("ADMIN_EMAIL is required")
	}
	switch cfg.Email.Service {
	case "resend":
		if cfg.Email.ResendAPIKey == "" {
			return fmt.Errorf("RESEND_API_KEY is required when EMAIL_SERVICE=resend")
		}
		if cfg.Email.Username == "" {
			return fmt.Errorf("EMAIL_USER is required as the from address")
		}
	default:
		if cfg.Email.Username == "" || cfg.Email.Password == "" {
			return fmt.Errorf("EMAIL_USER and EMAIL_PASS are required")
		}
		if cfg.Email.Host == "" || cfg.Email.Port == 0 {
			return fmt.Errorf("EMAIL_HOST and EMAIL_PORT are required")
		}
	}
	if cfg.RateLimit.ContactRequests <= 0 || cfg.RateLimit.WindowMinutes <= 0 {
		return fmt.Errorf("rate limit settings must be positive")
	}
	if cfg.Retention.TTLHours <= 0 || cfg.Retention.SweepIntervalMinutes <= 0 {
		return fmt.Errorf("retention settings must be positive")
	}
	return nil
}
