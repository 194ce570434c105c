// Package logger builds slog loggers with request-scoped attribute
// injection. Context extractors let packages such as tenant and requestid
// contribute their identifiers to every log record without the call sites
// knowing about them.
package logger
