package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 10, cfg.Validation.OrphanDistance)
	assert.InDelta(t, 0.85, cfg.Validation.DuplicateSimilarity, 1e-9)
	assert.Equal(t, int64(10<<20), cfg.Server.MaxUploadBytes)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Server.AuthSecret)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ORPHAN_DISTANCE", "4")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("DB_NAME", "claims")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Validation.OrphanDistance)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "postgres://postgres:@localhost:5432/claims?sslmode=disable", cfg.ConnectionString())
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("ORPHAN_DISTANCE", "ten")

	_, err := config.Load()
	assert.Error(t, err)
}
