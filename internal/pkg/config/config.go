package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Building sources.
const (
	SourceEmbedded  = "embedded"
	SourceFile      = "file"
	SourceShapefile = "shapefile"
	SourcePostgres  = "postgres"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Temporal  TemporalConfig  `mapstructure:"temporal"`
	Buildings BuildingsConfig `mapstructure:"buildings"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	RateLimit    int    `mapstructure:"rate_limit"`
	CORSOrigins  string `mapstructure:"cors_origins"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxConns int32  `mapstructure:"max_conns"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// NATSConfig configures the shuttle feed broker. An empty URL disables it.
type NATSConfig struct {
	URL string `mapstructure:"url"`
}

// ValkeyConfig configures the cache. An empty Addr disables caching.
type ValkeyConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type TelemetryConfig struct {
	ServiceName  string  `mapstructure:"service_name"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	Enabled      bool    `mapstructure:"enabled"`
}

type TemporalConfig struct {
	HostPort  string `mapstructure:"host_port"`
	Namespace string `mapstructure:"namespace"`
	TaskQueue string `mapstructure:"task_queue"`
}

// BuildingsConfig selects the polygon store.
type BuildingsConfig struct {
	Source string `mapstructure:"source"`
	Path   string `mapstructure:"path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from .env, file and environment variables.
func Load(service string) (*Config, error) {
	// .env is optional and never overrides the real environment.
	_ = godotenv.Load(".env")

	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.rate_limit", 200)
	v.SetDefault("server.cors_origins", "*")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "campusnav")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "campusnav")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("valkey.password", "")
	v.SetDefault("valkey.db", 0)
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.otlp_endpoint", "localhost:4317")
	v.SetDefault("telemetry.sample_ratio", 0.1)
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.task_queue", "campusnav-import")
	v.SetDefault("buildings.source", SourceEmbedded)
	v.SetDefault("buildings.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: CAMPUSNAV_DATABASE_HOST → database.host
	v.SetEnvPrefix("CAMPUSNAV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, "server.rate_limit must not be negative")
	}

	switch c.Buildings.Source {
	case SourceEmbedded:
	case SourceFile, SourceShapefile:
		if c.Buildings.Path == "" {
			errs = append(errs, fmt.Sprintf("buildings.path is required for source %q", c.Buildings.Source))
		}
	case SourcePostgres:
		errs = append(errs, c.Database.validate()...)
	default:
		errs = append(errs, fmt.Sprintf("buildings.source must be one of embedded, file, shapefile, postgres; got %q", c.Buildings.Source))
	}

	if c.Telemetry.Enabled && c.Telemetry.OTLPEndpoint == "" {
		errs = append(errs, "telemetry.otlp_endpoint is required when telemetry is enabled")
	}
	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		errs = append(errs, fmt.Sprintf("telemetry.sample_ratio must be 0-1, got %g", c.Telemetry.SampleRatio))
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level must be debug, info, warn or error; got %q", c.Log.Level))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func (d DatabaseConfig) validate() []string {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host is required")
	}
	if d.Port <= 0 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user is required")
	}
	if d.DBName == "" {
		errs = append(errs, "database.dbname is required")
	}
	return errs
}

// RequireDatabase validates the database section for commands that always
// need Postgres regardless of the building source.
func (c *Config) RequireDatabase() error {
	if errs := c.Database.validate(); len(errs) > 0 {
		return fmt.Errorf("database config:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
