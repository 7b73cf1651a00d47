package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OONA_CONFIG", "")
	t.Setenv("PORT", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "menu-images", cfg.Minio.Bucket)
	assert.Equal(t, 100*time.Millisecond, cfg.Dashboard.SettleDelay)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "oona.toml")
	content := `
[server]
port = "9090"
timezone = "Asia/Kolkata"

[minio]
bucket = "dishes"

[dashboard]
settle_delay = "250ms"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("MENU_IMAGE_BUCKET", "from-env")
	t.Setenv("PORT", "")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "Asia/Kolkata", cfg.Server.TimeZone)
	assert.Equal(t, "from-env", cfg.Minio.Bucket)
	assert.Equal(t, 250*time.Millisecond, cfg.Dashboard.SettleDelay)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("DASHBOARD_SETTLE_DELAY", "soon")
	_, err := Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := defaults()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET is required")

	cfg.Auth.JWTSecret = "0123456789abcdef0123456789abcdef"
	assert.NoError(t, cfg.Validate())

	cfg.Server.TimeZone = "Mars/Olympus"
	assert.Error(t, cfg.Validate())
}
