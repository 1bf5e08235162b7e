package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, "host=localhost port=5432 user=postgres password=postgres dbname=abas sslmode=disable", cfg.DBConn)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "secret", cfg.JWTSecret)
	assert.Equal(t, 15*time.Minute, cfg.JWTExpires)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "@every 30s", cfg.HealthSchedule)
	assert.Equal(t, "587", cfg.SMTPPort)
	assert.False(t, cfg.MailEnabled())
}

func TestNewConfig_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE", "memory")
	t.Setenv("JWT_SECRET", "another")
	t.Setenv("JWT_EXPIRES", "1h")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SENDER_EMAIL", "noreply@example.com")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, "another", cfg.JWTSecret)
	assert.Equal(t, time.Hour, cfg.JWTExpires)
	assert.Equal(t, 4, cfg.BcryptCost)
	assert.True(t, cfg.MailEnabled())
}

func TestNewConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"unknown storage", map[string]string{"STORAGE": "mongo"}, "unsupported STORAGE"},
		{"empty secret", map[string]string{"JWT_SECRET": ""}, "JWT_SECRET is required"},
		{"empty dsn", map[string]string{"DB_CONN": ""}, "DB_CONN is required"},
		{"negative expiry", map[string]string{"JWT_EXPIRES": "-1m"}, "JWT_EXPIRES must be positive"},
		{"sender missing", map[string]string{"SMTP_HOST": "smtp.example.com"}, "SENDER_EMAIL is required"},
		{"bad duration", map[string]string{"JWT_EXPIRES": "soon"}, "failed to parse environment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := NewConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
