package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_DRIVER", DriverMemory)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30, cfg.TrialDays)
	assert.Equal(t, 10, cfg.TrialChanges)
	assert.Equal(t, "https://wa.me", cfg.MessagingBaseURL)
	assert.Equal(t, "@hourly", cfg.SweepSchedule)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.False(t, cfg.MailEnabled())
}

func TestLoadConfigOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_DRIVER", DriverMemory)
	t.Setenv("PORT", "9090")
	t.Setenv("TRIAL_DAYS", "15")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("MAIL_FROM", "no-reply@example.com")
	t.Setenv("ADMIN_EMAIL", "admin@example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 15, cfg.TrialDays)
	assert.True(t, cfg.MailEnabled())
}

func TestLoadConfigFirestoreRequiresCredentials(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_DRIVER", DriverFirestore)

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "FIREBASE_PROJECT_ID")

	t.Setenv("FIREBASE_PROJECT_ID", "lubri-test")
	_, err = LoadConfig()
	assert.ErrorContains(t, err, "GOOGLE_APPLICATION_CREDENTIALS")

	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/tmp/sa.json")
	_, err = LoadConfig()
	assert.NoError(t, err)
}

func TestValidate(t *testing.T) {
	base := Config{StorageDriver: DriverMemory, TrialDays: 30, TrialChanges: 10, SweepSchedule: "@hourly"}
	require.NoError(t, base.Validate())

	tests := []struct {
		name string
		edit func(*Config)
	}{
		{name: "unknown driver", edit: func(c *Config) { c.StorageDriver = "mongo" }},
		{name: "zero trial days", edit: func(c *Config) { c.TrialDays = 0 }},
		{name: "negative trial changes", edit: func(c *Config) { c.TrialChanges = -1 }},
		{name: "no schedule", edit: func(c *Config) { c.SweepSchedule = "" }},
		{name: "smtp without sender", edit: func(c *Config) { c.SMTPHost = "smtp.example.com" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.edit(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
