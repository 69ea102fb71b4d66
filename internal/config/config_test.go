package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "MAIN", cfg.Branch.Code)
	assert.Equal(t, "DC", cfg.Receipt.Prefix)
	assert.Equal(t, time.Hour, cfg.WizardSessionTTL)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.S3.Enabled())
}

func TestLoadFromOverrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"BRANCH_CODE":        "kyiv1",
		"RECEIPT_PREFIX":     "aksi",
		"WIZARD_SESSION_TTL": "30m",
		"S3_BUCKET":          "photos",
	})
	require.NoError(t, err)

	assert.Equal(t, "KYIV1", cfg.Branch.Code)
	assert.Equal(t, "AKSI", cfg.Receipt.Prefix)
	assert.Equal(t, 30*time.Minute, cfg.WizardSessionTTL)
	assert.True(t, cfg.S3.Enabled())
}

func TestProdRequiresRealSecrets(t *testing.T) {
	_, err := LoadFrom(map[string]string{"APP_ENV": "production"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	_, err = LoadFrom(map[string]string{
		"APP_ENV":      "prod",
		"JWT_SECRET":   "0123456789abcdef0123456789abcdef",
		"DATABASE_URL": "postgres://shop:shop@db:5432/shop",
	})
	assert.NoError(t, err)
}

func TestRejectsUnknownLocale(t *testing.T) {
	_, err := LoadFrom(map[string]string{"RECEIPT_LOCALE": "fr"})
	assert.Error(t, err)
}
