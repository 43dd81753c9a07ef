package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
api:
  environment: test
  port: "8080"
  jwt_signing_key: 0123456789abcdef0123
  allowed_cors_domains:
    - http://localhost:5173
gin:
  mode: test
mecalink:
  base_url: https://api.mecalink.test
  diagnostic_url: https://diag.mecalink.test/diagnostic
session:
  secret: fedcba9876543210fedcba
database:
  driver: sqlite
sqlite:
  path: ":memory:"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	conf, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "8080", conf.API.Port)
	assert.Equal(t, []string{"http://localhost:5173"}, conf.API.AllowedCORSDomains)
	assert.Equal(t, "info", conf.API.LogLevel)
	assert.Equal(t, "https://api.mecalink.test", conf.MecaLink.BaseURL)
	assert.Equal(t, 12*time.Hour, conf.Session.TTL)
	assert.Equal(t, DriverSQLite, conf.Database.Driver)
	assert.Equal(t, ":memory:", conf.SQLite.Path)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("MECALINK_BASE_URL", "https://staging.mecalink.test")

	conf, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "9090", conf.API.Port)
	assert.Equal(t, "https://staging.mecalink.test", conf.MecaLink.BaseURL)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(writeConfig(t, `
api:
  port: "8080"
  jwt_signing_key: short
gin:
  mode: test
mecalink:
  base_url: https://api.mecalink.test
  diagnostic_url: https://diag.mecalink.test
session:
  secret: fedcba9876543210fedcba
database:
  driver: mysql
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWTSigningKey")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestPostgresConfig_DSN(t *testing.T) {
	c := PostgresConfig{Host: "db", Port: "5432", User: "u", Password: "p", DB: "gateway", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=gateway sslmode=disable", c.DSN())
}
