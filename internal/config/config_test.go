package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, StockPolicyAllowNegative, cfg.Workshop.StockPolicy)
	assert.Equal(t, 5, cfg.Workshop.LowStockThreshold)
	assert.Equal(t, 2*time.Hour, cfg.JWT.AccessTokenExpire)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := chdirTemp(t)
	yaml := []byte(`
server:
  port: 9090
database:
  driver: sqlite
  path: /tmp/vsm-test.db
workshop:
  stock_policy: clamp
  low_stock_threshold: 3
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644))
	t.Setenv("WORKSHOP_STOCK_POLICY", "reject")
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 3, cfg.Workshop.LowStockThreshold)
	assert.Equal(t, StockPolicyReject, cfg.Workshop.StockPolicy)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Driver: "postgres"},
		Workshop: WorkshopConfig{StockPolicy: "backorder"},
	}
	assert.Error(t, cfg.Validate())

	cfg.Workshop.StockPolicy = StockPolicyClamp
	assert.NoError(t, cfg.Validate())

	cfg.Server.Mode = "release"
	assert.Error(t, cfg.Validate(), "release mode needs a jwt secret")

	cfg.JWT.Secret = "s3cret"
	cfg.Database.Driver = "mysql"
	assert.Error(t, cfg.Validate())
}
