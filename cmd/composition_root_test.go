package cmd

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() Config {
	return Config{
		Storage:                   StorageMemory,
		NotifyBroker:              BrokerLog,
		JWTSecret:                 "root-secret",
		LockWait:                  time.Second,
		ShipperAssignmentSchedule: "*/5 * * * * *",
		ReconciliationSchedule:    "0 */10 * * * *",
	}
}

func TestLoadConfig_DefaultsAndOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORAGE", "memory")
	t.Setenv("LOCK_WAIT", "500ms")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, BrokerLog, cfg.NotifyBroker)
	assert.Equal(t, 500*time.Millisecond, cfg.LockWait)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoadConfig_RejectsUnknownBroker(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("NOTIFY_BROKER", "carrier-pigeon")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))

	assert.ErrorContains(t, err, "NOTIFY_BROKER")
}

func TestLoadConfig_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))

	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestConfig_DSNAndBrokers(t *testing.T) {
	cfg := Config{
		DBHost: "db", DBPort: "5432", DBUser: "app", DBPassword: "pw", DBName: "shop", DBSslMode: "disable",
		KafkaHost: "k1:9092,k2:9092",
	}

	assert.Equal(t, "host=db port=5432 user=app password=pw dbname=shop sslmode=disable", cfg.DSN())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers())
}

func TestCompositionRoot_MemoryStorageServesRequests(t *testing.T) {
	app, err := NewCompositionRoot(memoryConfig(), slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	e := echo.New()
	app.CreateServer().RegisterRoutes(e)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotNil(t, app.CreateJobManager())
}

func TestCompositionRoot_RequiresSecret(t *testing.T) {
	cfg := memoryConfig()
	cfg.JWTSecret = ""

	_, err := NewCompositionRoot(cfg, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	assert.Error(t, err)
}
