package configs

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv_Defaults(t *testing.T) {
	t.Setenv("RAILWAY_ENVIRONMENT", "test")

	cfg, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, StorePostgres, cfg.StoreDriver)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "5432", cfg.DB.Port)
	assert.Equal(t, 256, cfg.AuditQueueSize)
	assert.Equal(t, 180, cfg.ActivityLogRetentionDays)
	assert.Equal(t, "30 3 * * *", cfg.ActivityLogCleanupCron)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowOrigins)
	assert.True(t, cfg.MetricsEnabled)
	assert.False(t, cfg.IsProduction())
}

func TestLoadEnv_Overrides(t *testing.T) {
	t.Setenv("RAILWAY_ENVIRONMENT", "test")
	t.Setenv("APP_ENV", "Production")
	t.Setenv("STORE_DRIVER", " MEMORY ")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("RATE_LIMIT_MAX", "20")

	cfg, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowOrigins)
	assert.Equal(t, 20, cfg.RateLimitMax)
	assert.Contains(t, cfg.DSN(), "@db.internal:6543/")
}

func TestLoadEnv_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("RAILWAY_ENVIRONMENT", "test")
	t.Setenv("STORE_DRIVER", "mongo")

	_, err := LoadEnv()
	assert.ErrorContains(t, err, "STORE_DRIVER")
}

func TestInitLogger(t *testing.T) {
	log := InitLogger(Config{AppEnv: "production", LogLevel: "debug"})
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	_, isJSON := log.Formatter.(*logrus.JSONFormatter)
	assert.True(t, isJSON)

	log = InitLogger(Config{AppEnv: "development", LogLevel: "nonsense"})
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}
