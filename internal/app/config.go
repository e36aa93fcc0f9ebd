package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/yungbote/simple-explain/internal/domain/explain"
	"github.com/yungbote/simple-explain/internal/platform/kv"
)

// Config is the root application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	OpenAI  OpenAIConfig  `yaml:"openai"`
	Explain ExplainConfig `yaml:"explain"`
	Storage StorageConfig `yaml:"storage"`
	Otel    OtelConfig    `yaml:"otel"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"PORT"                    env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"120s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	// CORSOrigins is a comma-separated allow list; "*" allows any origin.
	CORSOrigins string `yaml:"cors_origins" env:"CORS_ALLOWED_ORIGINS"`
}

type LogConfig struct {
	Mode     string `yaml:"mode"      env:"LOG_MODE"              env-default:"development"`
	Redact   bool   `yaml:"redact"    env:"LOG_REDACTION_ENABLED" env-default:"true"`
	HashSalt string `yaml:"hash_salt" env:"LOG_HASH_SALT"`
}

type OpenAIConfig struct {
	APIKey          string        `yaml:"api_key"           env:"OPENAI_API_KEY"`
	BaseURL         string        `yaml:"base_url"          env:"OPENAI_BASE_URL"          env-default:"https://api.openai.com"`
	Model           string        `yaml:"model"             env:"OPENAI_MODEL"             env-default:"gpt-4o-mini"`
	Temperature     float64       `yaml:"temperature"       env:"OPENAI_TEMPERATURE"       env-default:"0.7"`
	MaxOutputTokens int           `yaml:"max_output_tokens" env:"OPENAI_MAX_OUTPUT_TOKENS" env-default:"1500"`
	Timeout         time.Duration `yaml:"timeout"           env:"OPENAI_TIMEOUT"           env-default:"90s"`
	MaxRetries      int           `yaml:"max_retries"       env:"OPENAI_MAX_RETRIES"       env-default:"2"`
}

type ExplainConfig struct {
	Variant         string        `yaml:"variant"          env:"EXPLAIN_VARIANT"          env-default:"lesson"`
	GenerateTimeout time.Duration `yaml:"generate_timeout" env:"EXPLAIN_GENERATE_TIMEOUT" env-default:"60s"`
}

type StorageConfig struct {
	Driver        string `yaml:"driver"         env:"STORAGE_DRIVER"  env-default:"memory"`
	Path          string `yaml:"path"           env:"STORAGE_PATH"    env-default:"./data"`
	DSN           string `yaml:"dsn"            env:"STORAGE_DSN"`
	RedisAddr     string `yaml:"redis_addr"     env:"REDIS_ADDR"`
	RedisPassword string `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db"       env:"REDIS_DB"        env-default:"0"`
	RedisPrefix   string `yaml:"redis_prefix"   env:"REDIS_PREFIX"    env-default:"simple-explain:"`
}

type OtelConfig struct {
	Enabled     bool    `yaml:"enabled"      env:"OTEL_ENABLED"                env-default:"false"`
	ServiceName string  `yaml:"service_name" env:"OTEL_SERVICE_NAME"           env-default:"simple-explain"`
	Environment string  `yaml:"environment"  env:"OTEL_ENVIRONMENT"            env-default:"development"`
	Endpoint    string  `yaml:"endpoint"     env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Headers     string  `yaml:"headers"      env:"OTEL_EXPORTER_OTLP_HEADERS"`
	Insecure    bool    `yaml:"insecure"     env:"OTEL_EXPORTER_OTLP_INSECURE" env-default:"false"`
	SampleRatio float64 `yaml:"sample_ratio" env:"OTEL_SAMPLE_RATIO"           env-default:"1"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled" env:"METRICS_ENABLED" env-default:"true"`
}

// LoadConfig reads configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults. The file is CONFIG_PATH, falling back to
// ./config.yaml; a missing default file means ENV + defaults only.
func LoadConfig() (*Config, error) {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	explicitPath := path != ""
	if !explicitPath {
		path = "./config.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Validate checks values cleanenv cannot. A missing OpenAI key is allowed;
// generation then reports not_configured.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range (got %d)", c.Server.Port)
	}
	switch strings.ToLower(c.Log.Mode) {
	case "development", "production", "test":
	default:
		return fmt.Errorf("log.mode must be development, production or test (got %q)", c.Log.Mode)
	}
	if !explain.Variant(c.Explain.Variant).Valid() {
		return fmt.Errorf("explain.variant must be lesson or essay (got %q)", c.Explain.Variant)
	}
	if c.Explain.GenerateTimeout <= 0 {
		return fmt.Errorf("explain.generate_timeout must be > 0")
	}
	if c.OpenAI.Temperature < 0 || c.OpenAI.Temperature > 2 {
		return fmt.Errorf("openai.temperature must be within [0, 2] (got %v)", c.OpenAI.Temperature)
	}
	if c.OpenAI.MaxOutputTokens <= 0 {
		return fmt.Errorf("openai.max_output_tokens must be > 0")
	}
	if c.Otel.SampleRatio < 0 || c.Otel.SampleRatio > 1 {
		return fmt.Errorf("otel.sample_ratio must be within [0, 1] (got %v)", c.Otel.SampleRatio)
	}

	switch strings.ToLower(c.Storage.Driver) {
	case kv.DriverMemory, kv.DriverFile, kv.DriverSQLite:
	case kv.DriverPostgres:
		if strings.TrimSpace(c.Storage.DSN) == "" {
			return fmt.Errorf("storage.dsn is required for the postgres driver")
		}
	case kv.DriverRedis:
		if strings.TrimSpace(c.Storage.RedisAddr) == "" {
			return fmt.Errorf("storage.redis_addr is required for the redis driver")
		}
	default:
		return fmt.Errorf("storage.driver %q is not supported", c.Storage.Driver)
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// CORSOrigins splits the configured allow list.
func (c *Config) CORSOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.Server.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
