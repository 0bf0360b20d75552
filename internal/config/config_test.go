package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir is t.Chdir (Go 1.24+), reimplemented for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Errorf("restoring working directory: %v", err)
		}
	})
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sota-service", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "Sota", cfg.MongoDB.Database)
	assert.Equal(t, "SportDetail", cfg.Collections.SportDetail)
	assert.Equal(t, "Keys", cfg.Collections.Keys)
	assert.Equal(t, 30*time.Second, cfg.Redis.CacheTTL)
	assert.Equal(t, "sota.medals.updated", cfg.Kafka.MedalTopic)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Kafka.Enabled)
}

func TestLoadEnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SOTA_SERVER_PORT", "9090")
	t.Setenv("SOTA_MONGODB_DATABASE", "SotaStaging")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "SotaStaging", cfg.MongoDB.Database)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:  ServerConfig{Port: 8080},
			MongoDB: MongoDBConfig{URI: "mongodb://localhost:27017", Database: "Sota"},
		}
	}

	t.Run("valid config", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("bad port", func(t *testing.T) {
		cfg := valid()
		cfg.Server.Port = -1
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing mongodb uri", func(t *testing.T) {
		cfg := valid()
		cfg.MongoDB.URI = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("vault enabled without address", func(t *testing.T) {
		cfg := valid()
		cfg.MongoDB.UseVault = true
		assert.Error(t, cfg.Validate())
	})

	t.Run("kafka enabled without brokers", func(t *testing.T) {
		cfg := valid()
		cfg.Kafka.Enabled = true
		assert.Error(t, cfg.Validate())
	})
}
