package config

import (
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for every environment override, e.g.
// RESUMEPARSER_SERVER_PORT or RESUMEPARSER_EXTRACTION_BLOBLINETHRESHOLD.
const EnvPrefix = "RESUMEPARSER"

// Config holds all application configuration.
// Precedence, highest first: Vault secrets, config file, environment, defaults.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Extraction    ExtractionConfig    `mapstructure:"extraction"`
	Document      DocumentConfig      `mapstructure:"document"`
	Session       SessionConfig       `mapstructure:"session"`
	Server        ServerConfig        `mapstructure:"server"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
	MaxFileSize      int64    `mapstructure:"maxFileSize"`
}

// ExtractionConfig tunes the resume extractor.
type ExtractionConfig struct {
	BlobLineThreshold        int           `mapstructure:"blobLineThreshold"`
	SkillSupplementThreshold int           `mapstructure:"skillSupplementThreshold"`
	VocabularyFile           string        `mapstructure:"vocabularyFile"`
	WatchVocabulary          bool          `mapstructure:"watchVocabulary"`
	WatchDebounce            time.Duration `mapstructure:"watchDebounce"`
}

// DocumentConfig controls how binary documents are turned into text.
type DocumentConfig struct {
	Tika TikaConfig `mapstructure:"tika"`
}

// TikaConfig points at an Apache Tika server used for formats the local
// extractor cannot read.
type TikaConfig struct {
	Enabled        bool                 `mapstructure:"enabled"`
	URL            string               `mapstructure:"url"`
	Timeout        time.Duration        `mapstructure:"timeout"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // allowed while half-open
	Interval         time.Duration `mapstructure:"interval"`         // window for clearing counts
	Timeout          time.Duration `mapstructure:"timeout"`          // open -> half-open
	MinRequests      uint32        `mapstructure:"minRequests"`      // before tripping is considered
	FailureThreshold float64       `mapstructure:"failureThreshold"` // 0.0-1.0
}

// SessionConfig selects where the last uploaded resume is kept.
type SessionConfig struct {
	Backend string      `mapstructure:"backend"` // memory, redis
	Redis   RedisConfig `mapstructure:"redis"`
}

// RedisConfig holds the Redis session backend settings
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Key      string        `mapstructure:"key"`
	TTL      time.Duration `mapstructure:"ttl"`
	Tracing  bool          `mapstructure:"tracing"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string          `mapstructure:"host"`
	Port           string          `mapstructure:"port"`
	ReadTimeout    time.Duration   `mapstructure:"readTimeout"`
	WriteTimeout   time.Duration   `mapstructure:"writeTimeout"`
	IdleTimeout    time.Duration   `mapstructure:"idleTimeout"`
	MaxRequestSize int64           `mapstructure:"maxRequestSize"`
	APIKeys        []string        `mapstructure:"apiKeys"`
	RateLimit      RateLimitConfig `mapstructure:"rateLimit"`
	TLS            TLSConfig       `mapstructure:"tls"`
}

// TLSConfig holds TLS/mTLS configuration
type TLSConfig struct {
	Mode             string `mapstructure:"mode"` // disabled, server, mutual
	CertFile         string `mapstructure:"certFile"`
	KeyFile          string `mapstructure:"keyFile"`
	CAFile           string `mapstructure:"caFile"` // required for mutual
	MinVersion       string `mapstructure:"minVersion"`
	ClientAuthPolicy string `mapstructure:"clientAuthPolicy"` // require, request, verify
}

// RateLimitConfig holds rate limiting configuration. RequestsPerMin and
// BurstCapacity meter the text endpoints; the Upload pair meters
// /upload-resume and falls back to the text budget when zero.
type RateLimitConfig struct {
	Enabled              bool `mapstructure:"enabled"`
	RequestsPerMin       int  `mapstructure:"requestsPerMin"`
	BurstCapacity        int  `mapstructure:"burstCapacity"`
	UploadRequestsPerMin int  `mapstructure:"uploadRequestsPerMin"`
	UploadBurstCapacity  int  `mapstructure:"uploadBurstCapacity"`
	ByIP                 bool `mapstructure:"byIP"`
	ByAPIKey             bool `mapstructure:"byAPIKey"`
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled         bool             `mapstructure:"enabled"`
	ServiceName     string           `mapstructure:"serviceName"`
	ServiceVersion  string           `mapstructure:"serviceVersion"`
	ServiceInstance string           `mapstructure:"serviceInstance"`
	SampleRate      float64          `mapstructure:"sampleRate"`
	Tracing         TracingConfig    `mapstructure:"tracing"`
	Metrics         MetricsConfig    `mapstructure:"metrics"`
	Console         ConsoleConfig    `mapstructure:"console"`
	Prometheus      PrometheusConfig `mapstructure:"prometheus"`
	OTLP            OTLPConfig       `mapstructure:"otlp"`
}

// TracingConfig holds tracing configuration
type TracingConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	CollectionInterval time.Duration `mapstructure:"collectionInterval"`
}

// ConsoleConfig holds console exporter configuration
type ConsoleConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	PrettyPrint bool `mapstructure:"prettyPrint"`
}

// PrometheusConfig holds Prometheus configuration
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig holds OTLP exporter configuration
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// LoadConfig loads configuration from the config file, the environment and
// the built-in defaults.
func LoadConfig() (*Config, error) {
	return load(viper.New())
}

// LoadFile loads configuration from an explicit file path.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/resumeparser/")
		v.AddConfigPath("$HOME/.resumeparser")
		v.AddConfigPath(".")
	}

	configFileUsed := ""
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Println("[CONFIG] No config file found, using defaults and environment variables")
	} else {
		configFileUsed = v.ConfigFileUsed()
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyFallbacks()
	config.logConfigurationSources(configFileUsed)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if !slices.Contains(c.App.SupportedFormats, c.App.DefaultFormat) {
		return fmt.Errorf("invalid default format: %s", c.App.DefaultFormat)
	}

	if c.App.MaxFileSize <= 0 {
		return fmt.Errorf("app.maxFileSize must be positive")
	}

	if c.Extraction.BlobLineThreshold < 1 {
		return fmt.Errorf("extraction.blobLineThreshold must be at least 1")
	}
	if c.Extraction.SkillSupplementThreshold < 0 {
		return fmt.Errorf("extraction.skillSupplementThreshold must not be negative")
	}

	switch c.Session.Backend {
	case "memory":
	case "redis":
		if c.Session.Redis.Addr == "" {
			return fmt.Errorf("session.redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("invalid session backend: %s (must be 'memory' or 'redis')", c.Session.Backend)
	}

	if c.Document.Tika.Enabled {
		if c.Document.Tika.URL == "" {
			return fmt.Errorf("document.tika.url is required when Tika is enabled")
		}
		cb := c.Document.Tika.CircuitBreaker
		if cb.FailureThreshold < 0 || cb.FailureThreshold > 1 {
			return fmt.Errorf("document.tika.circuitBreaker.failureThreshold must be between 0 and 1")
		}
	}

	if err := c.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("TLS configuration error: %w", err)
	}
	return nil
}
