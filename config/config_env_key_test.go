package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"postgres": map[string]any{
			"sslMode": "disable",
			"master": map[string]any{
				"userName": "user",
			},
		},
		"benchmark": map[string]any{
			"parallelBackends": false,
			"report": map[string]any{
				"url": "",
			},
		},
		"drivers": map[string]any{
			"wideColumn": "memory",
		},
		"mongo": map[string]any{
			"serverSelectionTimeout": "5s",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "POSTGRES_SSLMODE", want: "postgres.sslMode"},
		{envKey: "POSTGRES_MASTER_USERNAME", want: "postgres.master.userName"},
		{envKey: "BENCHMARK_PARALLELBACKENDS", want: "benchmark.parallelBackends"},
		{envKey: "BENCHMARK_REPORT_URL", want: "benchmark.report.url"},
		{envKey: "DRIVERS_WIDECOLUMN", want: "drivers.wideColumn"},
		{envKey: "MONGO_SERVERSELECTIONTIMEOUT", want: "mongo.serverSelectionTimeout"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, 10, cfg.Benchmark.Runs)
	assert.Equal(t, 100, cfg.Benchmark.ResultLimit)
	assert.Equal(t, "text", cfg.Benchmark.Report.Format)
	assert.Equal(t, []string{"wide_column", "document", "relational"}, cfg.Benchmark.Backends)
	assert.Equal(t, "memory", cfg.Drivers.WideColumn)
	assert.Equal(t, "memory", cfg.Drivers.Document)
	assert.Equal(t, "sqlite", cfg.Drivers.Relational)
	assert.Equal(t, 10, cfg.Connect.MaxAttempts)
	assert.Equal(t, 5*time.Second, cfg.Connect.RetryDelay)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Benchmark.Runs = 3
	cfg.Drivers.Relational = "postgres"
	applyDefaults(cfg)

	assert.Equal(t, 3, cfg.Benchmark.Runs)
	assert.Equal(t, "postgres", cfg.Drivers.Relational)
}

func TestLoadWithEnv_OverridesFromEnvironment(t *testing.T) {
	t.Setenv("BENCHMARK_RUNS", "4")
	t.Setenv("DRIVERS_RELATIONAL", "postgres")
	t.Setenv("CONNECT_RETRYDELAY", "250ms")

	cfg, err := LoadWithEnv[Config]("config")
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Benchmark.Runs)
	assert.Equal(t, "postgres", cfg.Drivers.Relational)
	assert.Equal(t, 250*time.Millisecond, cfg.Connect.RetryDelay)
	assert.Equal(t, "techmarket_ks", cfg.Cassandra.Keyspace)
	assert.Equal(t, []string{"localhost"}, cfg.Cassandra.Hosts)
}

func TestReferenceTime(t *testing.T) {
	cfg := &Config{}
	ref, err := cfg.ReferenceTime()
	require.NoError(t, err)
	assert.True(t, ref.IsZero())

	cfg.Dataset.ReferenceTime = "2025-06-01T12:00:00Z"
	ref, err = cfg.ReferenceTime()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), ref)

	cfg.Dataset.ReferenceTime = "yesterday"
	_, err = cfg.ReferenceTime()
	assert.Error(t, err)
}
