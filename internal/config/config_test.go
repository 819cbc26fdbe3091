package config

import (
	"testing"
	"time"

	ierr "github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/errors"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaultConfig(t *testing.T) {
	cfg := GetDefaultConfig()

	assert.Equal(t, 7, cfg.Renewal.ExpiryDays)
	assert.Equal(t, 12, cfg.Renewal.DefaultTermMonths)
	assert.Equal(t, 10, cfg.Termination.DefaultCutoffDay)
	assert.Equal(t, 30, cfg.Termination.DefaultMinNoticeDays)
	assert.Equal(t, "Europe/Warsaw", cfg.Termination.DefaultTimezone)
	assert.Equal(t, 5*time.Minute, cfg.Sweeper.Interval)
	assert.Equal(t, types.NotificationBackendGoChannel, cfg.Notification.Backend)
	require.NoError(t, cfg.Validate())
}

func TestNewConfigEnvOverride(t *testing.T) {
	t.Setenv("RENTAL_RENEWAL_EXPIRY_DAYS", "3")
	t.Setenv("RENTAL_TERMINATION_DEFAULT_TIMEZONE", "UTC")

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Renewal.ExpiryDays)
	assert.Equal(t, "UTC", cfg.Termination.DefaultTimezone)
	assert.Equal(t, "lease_notifications", cfg.Notification.Topic)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Configuration)
	}{
		{"cutoff day zero", func(c *Configuration) { c.Termination.DefaultCutoffDay = 0 }},
		{"cutoff day past month", func(c *Configuration) { c.Termination.DefaultCutoffDay = 32 }},
		{"negative notice", func(c *Configuration) { c.Termination.DefaultMinNoticeDays = -1 }},
		{"unknown timezone", func(c *Configuration) { c.Termination.DefaultTimezone = "Mars/Olympus" }},
		{"zero expiry", func(c *Configuration) { c.Renewal.ExpiryDays = 0 }},
		{"max below default term", func(c *Configuration) { c.Renewal.MaxTermMonths = 6 }},
		{"unknown backend", func(c *Configuration) { c.Notification.Backend = "smtp" }},
		{"kafka without brokers", func(c *Configuration) { c.Notification.Backend = types.NotificationBackendKafka }},
		{"sweeper without interval", func(c *Configuration) { c.Sweeper.Interval = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, ierr.IsValidation(err), "expected validation error, got %v", err)
		})
	}
}

func TestGetDSN(t *testing.T) {
	cfg := PostgresConfig{Host: "db", Port: 5433, User: "u", Password: "p", DBName: "rental", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=rental sslmode=disable", cfg.GetDSN())
}
