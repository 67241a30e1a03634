package config

import "time"

// DefaultConfig returns the full default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server:    DefaultServerConfig(),
		Workflow:  DefaultWorkflowConfig(),
		Session:   DefaultSessionConfig(),
		Catalog:   DefaultCatalogConfig(),
		LLM:       DefaultLLMConfig(),
		Calendar:  DefaultCalendarConfig(),
		SMS:       DefaultSMSConfig(),
		Log:       DefaultLogConfig(),
		Telemetry: DefaultTelemetryConfig(),
	}
}

// DefaultServerConfig returns the default HTTP server settings.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		HTTPPort:        8080,
		MetricsPort:     9091,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 15 * time.Second,
		RateLimitRPS:    100,
		RateLimitBurst:  200,
	}
}

// DefaultWorkflowConfig returns the default run bounds.
func DefaultWorkflowConfig() WorkflowConfig {
	return WorkflowConfig{
		IntentModel:         "gpt-4o-mini",
		ResponseModel:       "gpt-4o-mini",
		EnableSMS:           true,
		SlotDurationMinutes: 60,
		MaxResearchLoops:    1,
		MaxSearchIterations: 3,
		RecursionLimit:      10,
		NodeTimeout:         30 * time.Second,
		RunTimeout:          120 * time.Second,
	}
}

// DefaultSessionConfig returns the default Redis session settings.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Addr:         "localhost:6379",
		Password:     "",
		DB:           0,
		TTL:          24 * time.Hour,
		PoolSize:     10,
		MinIdleConns: 2,
		HistoryLimit: 40,
	}
}

// DefaultCatalogConfig returns the default property database settings.
func DefaultCatalogConfig() CatalogConfig {
	return CatalogConfig{
		Path: "chatflow.db",
		Seed: true,
	}
}

// DefaultLLMConfig returns the default generation backend settings.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		APIKey:  "",
		BaseURL: "",
		Timeout: 2 * time.Minute,
	}
}

// DefaultCalendarConfig returns the default calendar settings.
func DefaultCalendarConfig() CalendarConfig {
	return CalendarConfig{
		BaseURL:  "",
		APIKey:   "",
		TimeZone: "America/Chicago",
		Timeout:  15 * time.Second,
	}
}

// DefaultSMSConfig returns the default SMS settings.
func DefaultSMSConfig() SMSConfig {
	return SMSConfig{
		RatePerSec: 1,
	}
}

// DefaultLogConfig returns the default logger settings.
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:            "info",
		Format:           "json",
		OutputPaths:      []string{"stdout"},
		EnableCaller:     true,
		EnableStacktrace: false,
	}
}

// DefaultTelemetryConfig returns the default OTel settings.
func DefaultTelemetryConfig() TelemetryConfig {
	return TelemetryConfig{
		Enabled:      false,
		OTLPEndpoint: "localhost:4317",
		ServiceName:  "chatflow",
		SampleRate:   0.1,
	}
}
