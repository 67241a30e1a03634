// Package config loads the service configuration from YAML with
// environment variable overrides.
//
// Usage:
//
//	cfg, err := config.NewLoader().
//	    WithConfigPath("config.yaml").
//	    WithEnvPrefix("CHATFLOW").
//	    Load()
//
// Precedence: defaults, then YAML file, then environment.
package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full service configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" env:"SERVER"`
	Workflow  WorkflowConfig  `yaml:"workflow" env:"WORKFLOW"`
	Session   SessionConfig   `yaml:"session" env:"SESSION"`
	Catalog   CatalogConfig   `yaml:"catalog" env:"CATALOG"`
	LLM       LLMConfig       `yaml:"llm" env:"LLM"`
	Calendar  CalendarConfig  `yaml:"calendar" env:"CALENDAR"`
	SMS       SMSConfig       `yaml:"sms" env:"SMS"`
	Log       LogConfig       `yaml:"log" env:"LOG"`
	Telemetry TelemetryConfig `yaml:"telemetry" env:"TELEMETRY"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	HTTPPort        int           `yaml:"http_port" env:"HTTP_PORT"`
	MetricsPort     int           `yaml:"metrics_port" env:"METRICS_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
	RateLimitRPS    int           `yaml:"rate_limit_rps" env:"RATE_LIMIT_RPS"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" env:"RATE_LIMIT_BURST"`
	CORSOrigins     []string      `yaml:"cors_origins" env:"CORS_ORIGINS"`
}

// WorkflowConfig bounds a single conversational run.
type WorkflowConfig struct {
	IntentModel         string        `yaml:"intent_model" env:"INTENT_MODEL"`
	ResponseModel       string        `yaml:"response_model" env:"RESPONSE_MODEL"`
	EnableSMS           bool          `yaml:"enable_sms" env:"ENABLE_SMS"`
	SlotDurationMinutes int           `yaml:"slot_duration_minutes" env:"SLOT_DURATION_MINUTES"`
	MaxResearchLoops    int           `yaml:"max_research_loops" env:"MAX_RESEARCH_LOOPS"`
	MaxSearchIterations int           `yaml:"max_search_iterations" env:"MAX_SEARCH_ITERATIONS"`
	RecursionLimit      int           `yaml:"recursion_limit" env:"RECURSION_LIMIT"`
	NodeTimeout         time.Duration `yaml:"node_timeout" env:"NODE_TIMEOUT"`
	RunTimeout          time.Duration `yaml:"run_timeout" env:"RUN_TIMEOUT"`
}

// SessionConfig holds the Redis session store settings.
type SessionConfig struct {
	Addr         string        `yaml:"addr" env:"ADDR"`
	Password     string        `yaml:"password" env:"PASSWORD"`
	DB           int           `yaml:"db" env:"DB"`
	TTL          time.Duration `yaml:"ttl" env:"TTL"`
	PoolSize     int           `yaml:"pool_size" env:"POOL_SIZE"`
	MinIdleConns int           `yaml:"min_idle_conns" env:"MIN_IDLE_CONNS"`
	HistoryLimit int           `yaml:"history_limit" env:"HISTORY_LIMIT"`
}

// CatalogConfig holds the property database settings.
type CatalogConfig struct {
	Path string `yaml:"path" env:"PATH"`
	Seed bool   `yaml:"seed" env:"SEED"`
}

// LLMConfig holds the generation backend settings.
type LLMConfig struct {
	APIKey  string        `yaml:"api_key" env:"API_KEY"`
	BaseURL string        `yaml:"base_url" env:"BASE_URL"`
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// CalendarConfig holds the calendar backend settings.
type CalendarConfig struct {
	BaseURL  string        `yaml:"base_url" env:"BASE_URL"`
	APIKey   string        `yaml:"api_key" env:"API_KEY"`
	TimeZone string        `yaml:"time_zone" env:"TIME_ZONE"`
	Timeout  time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// SMSConfig holds the SMS provider settings.
type SMSConfig struct {
	AccountSID string  `yaml:"account_sid" env:"ACCOUNT_SID"`
	AuthToken  string  `yaml:"auth_token" env:"AUTH_TOKEN"`
	FromNumber string  `yaml:"from_number" env:"FROM_NUMBER"`
	RatePerSec float64 `yaml:"rate_per_sec" env:"RATE_PER_SEC"`
}

// LogConfig holds the zap logger settings.
type LogConfig struct {
	Level            string   `yaml:"level" env:"LEVEL"`
	Format           string   `yaml:"format" env:"FORMAT"`
	OutputPaths      []string `yaml:"output_paths" env:"OUTPUT_PATHS"`
	EnableCaller     bool     `yaml:"enable_caller" env:"ENABLE_CALLER"`
	EnableStacktrace bool     `yaml:"enable_stacktrace" env:"ENABLE_STACKTRACE"`
}

// TelemetryConfig holds the OTel settings.
type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled" env:"ENABLED"`
	OTLPEndpoint string  `yaml:"otlp_endpoint" env:"OTLP_ENDPOINT"`
	ServiceName  string  `yaml:"service_name" env:"SERVICE_NAME"`
	SampleRate   float64 `yaml:"sample_rate" env:"SAMPLE_RATE"`
}

// Loader loads configuration with builder-style options.
type Loader struct {
	configPath string
	envPrefix  string
	validators []func(*Config) error
}

// NewLoader creates a loader with the default env prefix.
func NewLoader() *Loader {
	return &Loader{
		envPrefix:  "CHATFLOW",
		validators: make([]func(*Config) error, 0),
	}
}

// WithConfigPath sets the YAML file path.
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// WithEnvPrefix sets the environment variable prefix.
func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// WithValidator adds a validation step run after loading.
func (l *Loader) WithValidator(v func(*Config) error) *Loader {
	l.validators = append(l.validators, v)
	return l
}

// Load resolves the configuration. A missing file is not an error; the
// defaults plus environment apply.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	if l.configPath != "" {
		if err := l.loadFromFile(cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := l.loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	for _, v := range l.validators {
		if err := v(cfg); err != nil {
			return nil, fmt.Errorf("config validation failed: %w", err)
		}
	}

	return cfg, nil
}

func (l *Loader) loadFromFile(cfg *Config) error {
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func (l *Loader) loadFromEnv(cfg *Config) error {
	return l.setFieldsFromEnv(reflect.ValueOf(cfg).Elem(), l.envPrefix)
}

func (l *Loader) setFieldsFromEnv(v reflect.Value, prefix string) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		envTag := fieldType.Tag.Get("env")
		if envTag == "" || envTag == "-" {
			continue
		}
		envKey := prefix + "_" + envTag

		if field.Kind() == reflect.Struct && field.Type() != reflect.TypeOf(time.Duration(0)) {
			if err := l.setFieldsFromEnv(field, envKey); err != nil {
				return err
			}
			continue
		}

		envValue := os.Getenv(envKey)
		if envValue == "" {
			continue
		}
		if err := setFieldValue(field, envValue); err != nil {
			return fmt.Errorf("failed to set %s: %w", envKey, err)
		}
	}

	return nil
}

func setFieldValue(field reflect.Value, value string) error {
	if !field.CanSet() {
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			field.SetInt(int64(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return err
			}
			field.SetInt(i)
		}

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() == reflect.String {
			parts := strings.Split(value, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			field.Set(reflect.ValueOf(parts))
		}
	}

	return nil
}

// MustLoad loads configuration from path and panics on failure.
func MustLoad(path string) *Config {
	cfg, err := NewLoader().WithConfigPath(path).Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// Validate checks the configuration for obvious misconfiguration.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		errs = append(errs, "invalid HTTP port")
	}
	if c.Workflow.RecursionLimit <= 0 {
		errs = append(errs, "recursion_limit must be positive")
	}
	if c.Workflow.MaxSearchIterations <= 0 {
		errs = append(errs, "max_search_iterations must be positive")
	}
	if c.Workflow.RunTimeout <= 0 {
		errs = append(errs, "run_timeout must be positive")
	}
	if c.Session.HistoryLimit <= 0 {
		errs = append(errs, "history_limit must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors: %s", strings.Join(errs, "; "))
	}
	return nil
}
