package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("CACHE_KIND", "")
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":3000", c.Server.Addr)
	assert.Equal(t, "mongo", c.Storage.Driver)
	assert.Equal(t, "memory", c.Cache.Kind)
	assert.Equal(t, "pipeline", c.Logs.Strategy)
	assert.Equal(t, 500, c.Logs.DefaultLimit)
	assert.Equal(t, 5, c.Storage.ConnectRetries)
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "info", c.Log.Level)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
server:
  addr: ":9000"
storage:
  driver: postgres
  postgres:
    dsn: postgres://file
logs:
  strategy: filter
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	t.Setenv("POSTGRES_DSN", "postgres://env")
	t.Setenv("LOGS_DEFAULT_LIMIT", "25")
	t.Setenv("SERVER_CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", c.Server.Addr)
	assert.Equal(t, "postgres", c.Storage.Driver)
	assert.Equal(t, "postgres://env", c.Storage.Postgres.DSN)
	assert.Equal(t, "filter", c.Logs.Strategy)
	assert.Equal(t, 25, c.Logs.DefaultLimit)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, c.Server.CORSAllowedOrigins)
	require.NoError(t, c.Validate())
}

func TestPortAndServerAddr(t *testing.T) {
	t.Setenv("PORT", "8081")
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8081", c.Server.Addr)

	t.Setenv("SERVER_ADDR", "127.0.0.1:7000")
	c, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", c.Server.Addr)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o600))
	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	t.Setenv("STORAGE_DRIVER", "")
	c, err := Load("")
	require.NoError(t, err)

	// mongo sin URI
	require.ErrorContains(t, c.Validate(), "MONGO_URI")

	c.Storage.Driver = "memory"
	require.NoError(t, c.Validate())

	c.Storage.Driver = "sqlite"
	c.Cache.Kind = "redis"
	c.Logs.Strategy = "magic"
	c.Rate.Window = "soon"
	err = c.Validate()
	require.Error(t, err)
	for _, want := range []string{"sqlite", "REDIS_ADDR", "magic", "rate.window"} {
		assert.ErrorContains(t, err, want)
	}
}

func TestDur(t *testing.T) {
	assert.Equal(t, 2*time.Minute, Dur("2m", time.Second))
	assert.Equal(t, time.Second, Dur("bogus", time.Second))
	assert.Equal(t, time.Second, Dur("-1s", time.Second))
}

func TestExampleConfigIsValid(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("MONGO_URI", "")
	t.Setenv("CACHE_KIND", "")

	c, err := Load(filepath.Join("..", "..", "configs", "config.example.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "mongodb://localhost:27017", c.Storage.Mongo.URI)
	assert.Equal(t, "exercisetracker:", c.Cache.Redis.Prefix)
	require.NoError(t, c.Validate())
}
