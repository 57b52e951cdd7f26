package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

var knownKeys = []string{
	"APP_ENV", "HTTP_ADDR", "MONGO_URI", "MONGO_DB", "REDIS_ADDR", "REDIS_DB",
	"BLOB_BACKEND", "DOC_BACKEND", "EVENT_BROKER", "KAFKA_BROKERS", "RETRY_BACKOFF",
	"SESSION_TTL", "OUTBOX_POLL_INTERVAL", "S3_USE_SSL", "MASTER_EMAIL", "MASTER_PASSWORD",
	"CONFIG_FILE",
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t, knownKeys...)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, BackendMemory, cfg.BlobBackend)
	assert.Equal(t, BackendMemory, cfg.DocBackend)
	assert.Equal(t, BrokerLog, cfg.EventBroker)
	assert.Equal(t, []time.Duration{time.Second, 5 * time.Second, 30 * time.Second}, cfg.RetryBackoff)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.UsesMongo())
	assert.False(t, cfg.UsesRedis())
}

func TestLoadOverlayAndEnvPrecedence(t *testing.T) {
	clearEnv(t, knownKeys...)
	path := filepath.Join(t.TempDir(), "staycal.yaml")
	body := []byte("http_addr: \":9090\"\nREDIS_DB: 2\nKAFKA_BROKERS:\n  - a:9092\n  - b:9092\nEVENT_BROKER: kafka\nSESSION_TTL: 2h\n")
	require.NoError(t, os.WriteFile(path, body, 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SESSION_TTL", "30m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad backend", env: map[string]string{"BLOB_BACKEND": "disk"}},
		{name: "mongo without uri", env: map[string]string{"DOC_BACKEND": "mongo"}},
		{name: "kafka without brokers", env: map[string]string{"EVENT_BROKER": "kafka"}},
		{name: "bad duration", env: map[string]string{"SESSION_TTL": "soon"}},
		{name: "bad retry", env: map[string]string{"RETRY_BACKOFF": "1s,x"}},
		{name: "bad bool", env: map[string]string{"S3_USE_SSL": "maybe"}},
		{name: "half master", env: map[string]string{"MASTER_EMAIL": "m@example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t, knownKeys...)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
