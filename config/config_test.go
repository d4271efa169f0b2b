package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setSecrets(t *testing.T) {
	t.Setenv("USER_TOKEN_SECRET", "user-secret")
	t.Setenv("DOCTOR_TOKEN_SECRET", "doctor-secret")
	t.Setenv("ADMIN_TOKEN_SECRET", "admin-secret")
}

func TestLoadDefaults(t *testing.T) {
	setSecrets(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, DriverMongo, cfg.DBDriver)
	assert.Equal(t, DriverMemory, cfg.CacheDriver)
	assert.Equal(t, 2*time.Hour, cfg.DoctorTokenTTL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.False(t, cfg.MailEnabled())
}

func TestLoadOverrides(t *testing.T) {
	setSecrets(t)
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("DOCTOR_TOKEN_TTL", "30m")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("SMTP_HOST", "smtp.test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.DBDriver)
	assert.Equal(t, 30*time.Minute, cfg.DoctorTokenTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.True(t, cfg.MailEnabled())
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("USER_TOKEN_SECRET", "")
	t.Setenv("DOCTOR_TOKEN_SECRET", "doctor-secret")
	t.Setenv("ADMIN_TOKEN_SECRET", "admin-secret")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "USER_TOKEN_SECRET")
}

func TestLoadRejectsSharedSecrets(t *testing.T) {
	t.Setenv("USER_TOKEN_SECRET", "same")
	t.Setenv("DOCTOR_TOKEN_SECRET", "same")
	t.Setenv("ADMIN_TOKEN_SECRET", "admin-secret")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must differ")
}

func TestValidateUnknownDriver(t *testing.T) {
	cfg := Config{
		UserTokenSecret:   "a",
		DoctorTokenSecret: "b",
		AdminTokenSecret:  "c",
		DBDriver:          "postgres",
		CacheDriver:       DriverMemory,
		UserTokenTTL:      time.Hour,
		DoctorTokenTTL:    time.Hour,
		AdminTokenTTL:     time.Hour,
	}
	assert.ErrorContains(t, cfg.Validate(), "DB_DRIVER")
}
