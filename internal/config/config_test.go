package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validProdConfig() *Config {
	return &Config{
		Env:        "production",
		Port:       "8480",
		JWTSecret:  "secure-secret-at-least-32-chars-long",
		DBPassword: "secure-password",
		DBSSLMode:  "require",
	}
}

func TestConfigValidateProduction(t *testing.T) {
	t.Run("valid config passes", func(t *testing.T) {
		assert.NoError(t, validProdConfig().Validate())
	})

	t.Run("default jwt secret rejected", func(t *testing.T) {
		c := validProdConfig()
		c.JWTSecret = "your-secret-key-change-in-production"
		assert.Error(t, c.Validate())
	})

	t.Run("short jwt secret rejected", func(t *testing.T) {
		c := validProdConfig()
		c.JWTSecret = "short"
		assert.Error(t, c.Validate())
	})

	t.Run("weak db password rejected", func(t *testing.T) {
		c := validProdConfig()
		c.DBPassword = "password"
		assert.Error(t, c.Validate())
	})

	t.Run("missing port rejected", func(t *testing.T) {
		c := validProdConfig()
		c.Port = ""
		assert.Error(t, c.Validate())
	})
}

func TestConfigValidateDevelopment(t *testing.T) {
	c := &Config{
		Env:       "development",
		Port:      "8480",
		JWTSecret: "dev-secret",
	}
	assert.NoError(t, c.Validate(), "development tolerates weak local settings")
}
