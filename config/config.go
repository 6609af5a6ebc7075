package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/slighter12/go-lib/database/postgres"
)

const (
	defaultPath = "."

	defaultRuns          = 10
	defaultResultLimit   = 100
	defaultLoadBatchSize = 500
	defaultMaxAttempts   = 10
	defaultRetryDelay    = 5 * time.Second
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	Dataset DatasetConfig `json:"dataset" yaml:"dataset"`

	Benchmark BenchmarkConfig `json:"benchmark" yaml:"benchmark"`

	// Drivers selects the engine serving each backend kind
	Drivers DriversConfig `json:"drivers" yaml:"drivers"`

	Connect ConnectConfig `json:"connect" yaml:"connect"`

	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	SQLite SQLiteConfig `json:"sqlite" yaml:"sqlite"`

	Cassandra CassandraConfig `json:"cassandra" yaml:"cassandra"`

	Mongo MongoConfig `json:"mongo" yaml:"mongo"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// DatasetConfig sizes the generated dataset
type DatasetConfig struct {
	Customers int   `json:"customers" yaml:"customers" validate:"gte=0"`
	Products  int   `json:"products" yaml:"products" validate:"gte=0"`
	Orders    int   `json:"orders" yaml:"orders" validate:"gte=0"`
	Seed      int64 `json:"seed" yaml:"seed"`

	// ReferenceTime anchors generated timestamps; empty means the current hour.
	ReferenceTime string `json:"referenceTime" yaml:"referenceTime"`

	// MaxUniqueAttempts bounds retries when drawing unique emails and national IDs
	MaxUniqueAttempts int `json:"maxUniqueAttempts" yaml:"maxUniqueAttempts" validate:"gte=0"`
}

// BenchmarkConfig controls the query runs
type BenchmarkConfig struct {
	Runs             int          `json:"runs" yaml:"runs" validate:"gte=1"`
	Backends         []string     `json:"backends" yaml:"backends" validate:"dive,oneof=wide_column document relational"`
	ResultLimit      int          `json:"resultLimit" yaml:"resultLimit" validate:"gte=0"`
	ParallelBackends bool         `json:"parallelBackends" yaml:"parallelBackends"`
	LoadBatchSize    int          `json:"loadBatchSize" yaml:"loadBatchSize" validate:"gte=1"`
	Report           ReportConfig `json:"report" yaml:"report"`
}

// ReportConfig controls where the report goes
type ReportConfig struct {
	Format string `json:"format" yaml:"format" validate:"oneof=text json"`

	// URL is an optional gocloud blob URL, e.g. file:///tmp/reports or mem://
	URL string `json:"url" yaml:"url"`

	// Key is the object name inside the bucket; empty derives one from the time.
	Key string `json:"key" yaml:"key"`
}

// DriversConfig maps each backend kind to an engine
type DriversConfig struct {
	WideColumn string `json:"wideColumn" yaml:"wideColumn" validate:"oneof=cassandra memory"`
	Document   string `json:"document" yaml:"document" validate:"oneof=mongo memory"`
	Relational string `json:"relational" yaml:"relational" validate:"oneof=postgres sqlite"`
}

// ConnectConfig bounds connection retries
type ConnectConfig struct {
	MaxAttempts int           `json:"maxAttempts" yaml:"maxAttempts" validate:"gte=1"`
	RetryDelay  time.Duration `json:"retryDelay" yaml:"retryDelay" validate:"gte=0"`
}

// SQLiteConfig configures the embedded relational store
type SQLiteConfig struct {
	DSN string `json:"dsn" yaml:"dsn"`
}

// CassandraConfig configures the wide-column cluster
type CassandraConfig struct {
	Hosts             []string      `json:"hosts" yaml:"hosts"`
	Port              int           `json:"port" yaml:"port"`
	Keyspace          string        `json:"keyspace" yaml:"keyspace"`
	Username          string        `json:"username" yaml:"username"`
	Password          string        `json:"password" yaml:"password"`
	ConnectTimeout    time.Duration `json:"connectTimeout" yaml:"connectTimeout"`
	Timeout           time.Duration `json:"timeout" yaml:"timeout"`
	NumConns          int           `json:"numConns" yaml:"numConns"`
	ReplicationFactor int           `json:"replicationFactor" yaml:"replicationFactor"`
}

// MongoConfig configures the document store
type MongoConfig struct {
	URI                    string        `json:"uri" yaml:"uri"`
	Database               string        `json:"database" yaml:"database"`
	ServerSelectionTimeout time.Duration `json:"serverSelectionTimeout" yaml:"serverSelectionTimeout"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			if !filepath.IsAbs(path) {
				path = filepath.Join(pwd, path)
			}
			searchPaths = append(searchPaths, path)
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to path and align each segment with existing YAML keys.
			// Example: POSTGRES_SSLMODE -> postgres.sslMode (not postgres.sslmode)
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	// Unmarshal into the config struct (case-insensitive to match env vars)
	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	return Load("")
}

// Load reads the config from path, or from config.yaml in the usual
// search locations when path is empty.
func Load(path string) (*Config, error) {
	var (
		cfg *Config
		err error
	)
	if path == "" {
		cfg, err = LoadWithEnv[Config]("config", "config", "../config", "../../config")
	} else {
		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		cfg, err = LoadWithEnv[Config](stem, filepath.Dir(path))
	}
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	// Build replicas from environment variables (POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, etc.)
	if cfg.Postgres != nil {
		cfg.Postgres.Replicas = buildReplicasFromEnv()
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Benchmark.Runs == 0 {
		cfg.Benchmark.Runs = defaultRuns
	}
	if cfg.Benchmark.ResultLimit == 0 {
		cfg.Benchmark.ResultLimit = defaultResultLimit
	}
	if cfg.Benchmark.LoadBatchSize == 0 {
		cfg.Benchmark.LoadBatchSize = defaultLoadBatchSize
	}
	if strings.TrimSpace(cfg.Benchmark.Report.Format) == "" {
		cfg.Benchmark.Report.Format = "text"
	}
	if len(cfg.Benchmark.Backends) == 0 {
		cfg.Benchmark.Backends = []string{"wide_column", "document", "relational"}
	}
	if cfg.Drivers.WideColumn == "" {
		cfg.Drivers.WideColumn = "memory"
	}
	if cfg.Drivers.Document == "" {
		cfg.Drivers.Document = "memory"
	}
	if cfg.Drivers.Relational == "" {
		cfg.Drivers.Relational = "sqlite"
	}
	if cfg.Connect.MaxAttempts == 0 {
		cfg.Connect.MaxAttempts = defaultMaxAttempts
	}
	if cfg.Connect.RetryDelay == 0 {
		cfg.Connect.RetryDelay = defaultRetryDelay
	}
}

// ReferenceTime parses Dataset.ReferenceTime, returning the zero time when unset.
func (c *Config) ReferenceTime() (time.Time, error) {
	raw := strings.TrimSpace(c.Dataset.ReferenceTime)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, errors.Wrap(err, "dataset.referenceTime")
	}

	return t.UTC(), nil
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}

// buildReplicasFromEnv builds the replicas slice from environment variables.
// Environment variable format: POSTGRES_REPLICAS_{index}_{field}
// Example: POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, POSTGRES_REPLICAS_0_USERNAME, POSTGRES_REPLICAS_0_PASSWORD
func buildReplicasFromEnv() []postgres.ConnectionConfig {
	var replicas []postgres.ConnectionConfig

	for i := 0; ; i++ {
		prefix := "POSTGRES_REPLICAS_" + strconv.Itoa(i) + "_"

		host := os.Getenv(prefix + "HOST")
		port := os.Getenv(prefix + "PORT")
		if host == "" || port == "" {
			// No more replicas or incomplete configuration.
			break
		}

		replica := postgres.ConnectionConfig{
			Host:     host,
			Port:     port,
			UserName: os.Getenv(prefix + "USERNAME"),
			Password: os.Getenv(prefix + "PASSWORD"),
		}

		replicas = append(replicas, replica)
	}

	return replicas
}
