package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
[auth]
jwt_secret = "secret"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, "stacked", cfg.Pricing.DiscountPolicy)
	assert.Equal(t, "usd", cfg.Pricing.Currency)
	assert.Equal(t, 7*24, cfg.Auth.AccessTTLHours)
	assert.Equal(t, 30*24, cfg.Auth.RefreshTTLHours)
	assert.Equal(t, 10, cfg.Auth.LoginPerMinute)
	assert.Equal(t, "booking.events", cfg.RabbitMQ.Queue)
	assert.Equal(t, 30, cfg.Payments.SessionTTLMinutes)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
[auth]
jwt_secret = "from-file"

[database]
host = "db.local"
`)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DB_PORT", "6543")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "db.local", cfg.Database.Host)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing jwt secret", body: `[server]
http_port = 9000`},
		{name: "unknown discount policy", body: `[auth]
jwt_secret = "s"
[pricing]
discount_policy = "max"`},
		{name: "tax rate out of range", body: `[auth]
jwt_secret = "s"
[pricing]
tax_rate = 1.5`},
		{name: "email without api key", body: `[auth]
jwt_secret = "s"
[email]
enabled = true`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "")
			t.Setenv("SENDGRID_API_KEY", "")

			_, err := Load(writeConfig(t, tt.body))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}
