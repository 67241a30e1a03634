// Package telemetry wraps OpenTelemetry SDK initialization and provides
// the execution tracker the workflow driver reports into. When telemetry
// is disabled, noop implementations are used and no external service is
// contacted.
package telemetry
