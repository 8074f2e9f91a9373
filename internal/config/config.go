package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed defaults.yaml
var defaults []byte

// ---- Root ----

type Config struct {
	HTTP       HTTPConfig      `mapstructure:"http"`
	Log        LogConfig       `mapstructure:"log"`
	Store      StoreConfig     `mapstructure:"store"`
	MySQL      DatabaseConfig  `mapstructure:"mysql"`
	ClickHouse DatabaseConfig  `mapstructure:"clickhouse"`
	Redis      RedisConfig     `mapstructure:"redis"`
	Kafka      KafkaConfig     `mapstructure:"kafka"`
	RateLimit  RateLimitConfig `mapstructure:"rate_limit"`
	Admins     []AdminConfig   `mapstructure:"admins"`
	Preview    PreviewConfig   `mapstructure:"preview"`
	AuditSink  AuditSinkConfig `mapstructure:"audit_sink"`
}

// ---- Leaf structs ----

type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Store backends.
const (
	BackendMemory = "memory"
	BackendSQL    = "sql" // MySQL + ClickHouse
)

type StoreConfig struct {
	Backend string        `mapstructure:"backend"`
	Latency time.Duration `mapstructure:"latency"` // memory backend only
}

type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idletime"`
	PingTimeout     time.Duration `mapstructure:"ping_timeout"`
}

type RedisConfig struct {
	Addr        string        `mapstructure:"addr"` // empty disables rate limiting
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

type KafkaConfig struct {
	Brokers        []string      `mapstructure:"brokers"` // empty disables activity publishing
	Topic          string        `mapstructure:"topic"`
	GroupID        string        `mapstructure:"group_id"`
	MinBytes       int           `mapstructure:"min_bytes"`
	MaxBytes       int           `mapstructure:"max_bytes"`
	CommitInterval int           `mapstructure:"commit_interval_ms"`
	BatchTimeout   time.Duration `mapstructure:"batch_timeout"`
	Breaker        BreakerConfig `mapstructure:"breaker"`
}

type BreakerConfig struct {
	FailThreshold int `mapstructure:"fail_threshold" yaml:"fail_threshold"`
	OpenForMs     int `mapstructure:"open_for_ms"    yaml:"open_for_ms"`
}

type RateLimitConfig struct {
	RPS int `mapstructure:"rps"`
}

// AdminConfig is one dashboard operator. The API key authenticates
// requests; ID and Name are written into audit entries.
type AdminConfig struct {
	ID     string `mapstructure:"id"`
	Name   string `mapstructure:"name"`
	APIKey string `mapstructure:"api_key"`
	RPS    int    `mapstructure:"rps"` // 0 = rate_limit.rps
}

type PreviewConfig struct {
	// Variables override individual sample values used by previews.
	Variables map[string]string `mapstructure:"variables"`
}

type AuditSinkConfig struct {
	BatchSize int           `mapstructure:"batch_size"`
	BatchWait time.Duration `mapstructure:"batch_wait"`
}

// Validate reports configuration that cannot work at runtime.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory:
	case BackendSQL:
		if c.MySQL.DSN == "" || c.ClickHouse.DSN == "" {
			return errors.New("sql backend requires mysql.dsn and clickhouse.dsn")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}

	seen := make(map[string]bool, len(c.Admins))
	for i, a := range c.Admins {
		if a.ID == "" || a.APIKey == "" {
			return fmt.Errorf("admins[%d]: id and api_key are required", i)
		}
		if seen[a.APIKey] {
			return fmt.Errorf("admins[%d]: duplicate api_key", i)
		}
		seen[a.APIKey] = true
	}
	return nil
}

// Load reads embedded defaults, merges user YAML (if provided), and applies env overrides (SMSADMIN_*).
func Load(path string) (Config, error) {
	v := viper.New()

	// embedded defaults
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return Config{}, err
	}

	if path != "" {
		v.SetConfigFile(path)
		_ = v.MergeInConfig()
	}

	// env override (SMSADMIN_*), nested keys use "_": SMSADMIN_STORE_BACKEND
	v.SetEnvPrefix("SMSADMIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
