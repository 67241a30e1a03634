/*
Package main provides the chatflow server entry point.

cmd/chatflow is the executable for the property leasing chat service. It
serves the chat API, health probes and a Prometheus metrics port, with
YAML configuration, environment overrides and structured zap logging.

# Core types

  - Server         — composes the chat pipeline and both HTTP listeners
  - Middleware     — HTTP middleware signature func(http.Handler) http.Handler
  - responseWriter — wraps http.ResponseWriter to capture the status code

# Capabilities

  - Subcommands: serve, version, health
  - Middleware chain: Recovery, RequestID, SecurityHeaders, RequestLogger,
    MetricsMiddleware, OTelTracing (when telemetry is enabled), CORS,
    RateLimiter (per IP)
  - Metrics server: /metrics on a separate port
  - Graceful shutdown: signal → HTTP → metrics → session store → telemetry
  - Build injection: Version, BuildTime, GitCommit via ldflags
*/
package main
