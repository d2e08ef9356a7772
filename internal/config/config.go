package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers selectable with STORAGE_DRIVER.
const (
	DriverFirestore = "firestore"
	DriverMemory    = "memory"
)

// Config holds all configuration for the application.
type Config struct {
	Port                             string `mapstructure:"PORT"`
	GinMode                          string `mapstructure:"GIN_MODE"`
	ClientURL                        string `mapstructure:"CLIENT_URL"`
	StorageDriver                    string `mapstructure:"STORAGE_DRIVER"`
	FirebaseProjectID                string `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleApplicationCredentials     string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`
	DevAuthUID                       string `mapstructure:"DEV_AUTH_UID"` // Default UID of the development verifier

	TrialDays    int `mapstructure:"TRIAL_DAYS"`
	TrialChanges int `mapstructure:"TRIAL_CHANGES"`

	MessagingBaseURL string `mapstructure:"MESSAGING_BASE_URL"` // Empty disables WhatsApp links
	SweepSchedule    string `mapstructure:"SWEEP_SCHEDULE"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
	LogFile  string `mapstructure:"LOG_FILE"`

	SMTPHost   string `mapstructure:"SMTP_HOST"`
	SMTPPort   int    `mapstructure:"SMTP_PORT"`
	SMTPUser   string `mapstructure:"SMTP_USER"`
	SMTPPass   string `mapstructure:"SMTP_PASS"`
	MailFrom   string `mapstructure:"MAIL_FROM"`
	AdminEmail string `mapstructure:"ADMIN_EMAIL"`
}

var keys = []string{
	"PORT", "GIN_MODE", "CLIENT_URL", "STORAGE_DRIVER",
	"FIREBASE_PROJECT_ID", "GOOGLE_APPLICATION_CREDENTIALS", "FIREBASE_SERVICE_ACCOUNT_JSON_BASE64", "DEV_AUTH_UID",
	"TRIAL_DAYS", "TRIAL_CHANGES", "MESSAGING_BASE_URL", "SWEEP_SCHEDULE",
	"LOG_LEVEL", "LOG_FILE",
	"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASS", "MAIL_FROM", "ADMIN_EMAIL",
}

// LoadConfig loads configuration from environment variables using Viper.
// Values from a .env file in the working directory fill in unset variables.
func LoadConfig() (*Config, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("STORAGE_DRIVER", DriverFirestore)
	v.SetDefault("TRIAL_DAYS", 30)
	v.SetDefault("TRIAL_CHANGES", 10)
	v.SetDefault("MESSAGING_BASE_URL", "https://wa.me")
	v.SetDefault("SWEEP_SCHEDULE", "@hourly")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SMTP_PORT", 587)

	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required fields. Firebase credentials are only needed by the firestore driver.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case DriverFirestore:
		if c.FirebaseProjectID == "" {
			return errors.New("FIREBASE_PROJECT_ID is required")
		}
		if c.GoogleApplicationCredentials == "" && c.FirebaseServiceAccountJSONBase64 == "" {
			return errors.New("either GOOGLE_APPLICATION_CREDENTIALS or FIREBASE_SERVICE_ACCOUNT_JSON_BASE64 is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("STORAGE_DRIVER must be '%s' or '%s', got '%s'", DriverFirestore, DriverMemory, c.StorageDriver)
	}
	if c.TrialDays <= 0 {
		return errors.New("TRIAL_DAYS must be positive")
	}
	if c.TrialChanges < 0 {
		return errors.New("TRIAL_CHANGES cannot be negative")
	}
	if c.SweepSchedule == "" {
		return errors.New("SWEEP_SCHEDULE is required")
	}
	if c.SMTPHost != "" && c.MailFrom == "" {
		return errors.New("MAIL_FROM is required when SMTP_HOST is set")
	}
	return nil
}

// MailEnabled reports whether outgoing mail is configured.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.AdminEmail != ""
}
