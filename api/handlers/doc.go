/*
Package handlers implements the HTTP request handlers for the chatflow API.

# Core types

  - ChatHandler   — processes conversational turns (POST /chat)
  - HealthHandler — liveness and readiness probes (/health, /healthz, /ready, /readyz)
  - Response      — uniform JSON envelope (success + data + error + timestamp)
  - HealthCheck   — pluggable readiness check interface (redis, catalog)

All handlers follow the standard net/http interface. Error responses use
the WriteError helper so clients see a consistent shape regardless of
which handler failed.
*/
package handlers
