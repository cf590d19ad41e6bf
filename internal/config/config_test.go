package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
api:
  port: "8080"
  jwt_signing_key: "secret"
  token_ttl: 2h
  allowed_cors_domains:
    - "https://church.example.com"
storage:
  driver: sqlite
sqlite:
  path: ":memory:"
`)

	conf, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "8080", conf.API.Port)
	assert.Equal(t, "secret", conf.API.JWTSigningKey)
	assert.Equal(t, 2*time.Hour, conf.API.TokenTTL)
	assert.Equal(t, []string{"https://church.example.com"}, conf.API.AllowedCORSDomains)
	assert.Equal(t, DriverSQLite, conf.Storage.Driver)
	assert.Equal(t, ":memory:", conf.SQLite.Path)

	// Defaults fill the rest.
	assert.Equal(t, "info", conf.API.LogLevel)
	assert.False(t, conf.API.AllowAdminSignup)
	assert.Equal(t, 10*time.Second, conf.API.ShutdownTimeout)
	assert.Equal(t, "5432", conf.Postgres.Port)
	assert.NotNil(t, conf.Discord)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
api:
  jwt_signing_key: "from-file"
`)
	t.Setenv("API_JWT_SIGNING_KEY", "from-env")
	t.Setenv("API_ALLOW_ADMIN_SIGNUP", "true")
	t.Setenv("STORAGE_DRIVER", "mongo")

	conf, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", conf.API.JWTSigningKey)
	assert.True(t, conf.API.AllowAdminSignup)
	assert.Equal(t, DriverMongo, conf.Storage.Driver)
}

func TestLoad_RequiresSigningKey(t *testing.T) {
	path := writeConfig(t, `
api:
  port: "8080"
`)

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrMissingSigningKey)
}

func TestLoad_UnknownDriver(t *testing.T) {
	path := writeConfig(t, `
api:
  jwt_signing_key: "secret"
storage:
  driver: cassandra
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
