package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/test")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_ACCESS_EXPIRES_MIN", "not-a-number")
	t.Setenv("UPLOAD_DRIVER", "Cloudinary")

	cfg := Load()
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, 60, cfg.JWTAccessExpiresMin)
	assert.Equal(t, 10080, cfg.JWTRefreshExpiresMin)
	assert.Equal(t, 1440, cfg.ResetCodeTTLMin)
	assert.Equal(t, "cloudinary", cfg.UploadDriver)
	assert.False(t, cfg.GoogleEnabled())
}

func TestLoad_MissingSecretPanics(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/test")
	t.Setenv("JWT_SECRET", "")
	assert.PanicsWithValue(t, "missing env: JWT_SECRET", func() { Load() })
}
