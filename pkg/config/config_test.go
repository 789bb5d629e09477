package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type triggerConfig struct {
	Brokers  []string      `env:"TEST_CFG_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	TTL      time.Duration `env:"TEST_CFG_TTL" envDefault:"24h"`
	Burst    int           `env:"TEST_CFG_BURST" envDefault:"40"`
	Token    string        `env:"TEST_CFG_TOKEN"`
	Provider string        `env:"TEST_CFG_PROVIDER" envDefault:"mock"`
}

func (c *triggerConfig) Validate() error {
	if c.Provider == "mercadopago" && c.Token == "" {
		return errors.New("mercadopago provider needs a token")
	}
	return nil
}

func TestLoad_Defaults(t *testing.T) {
	var cfg triggerConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, []string{"localhost:9092"}, cfg.Brokers)
	assert.Equal(t, 24*time.Hour, cfg.TTL)
	assert.Equal(t, 40, cfg.Burst)
	assert.Empty(t, cfg.Token)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TEST_CFG_BROKERS", "k1:9092,k2:9092")
	t.Setenv("TEST_CFG_TTL", "90m")
	t.Setenv("TEST_CFG_PROVIDER", "mercadopago")
	t.Setenv("TEST_CFG_TOKEN", "TEST-123")

	var cfg triggerConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Brokers)
	assert.Equal(t, 90*time.Minute, cfg.TTL)
	assert.Equal(t, "TEST-123", cfg.Token)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"bad int", map[string]string{"TEST_CFG_BURST": "lots"}, "parse config"},
		{"bad duration", map[string]string{"TEST_CFG_TTL": "a day"}, "parse config"},
		{"validate", map[string]string{"TEST_CFG_PROVIDER": "mercadopago"}, "validate config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			var cfg triggerConfig
			err := Load(&cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

type secretConfig struct {
	AccessToken string `env:"TEST_CFG_ACCESS_TOKEN,required"`
}

func TestLoad_Required(t *testing.T) {
	var cfg secretConfig
	err := Load(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")

	t.Setenv("TEST_CFG_ACCESS_TOKEN", "APP_USR-1")
	require.NoError(t, Load(&cfg))
	assert.Equal(t, "APP_USR-1", cfg.AccessToken)
}
