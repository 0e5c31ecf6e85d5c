// Package log is the structured logging layer shared by the gateway client
// and its binaries.
//
// Everything revolves around the Logger interface: leveled methods taking a
// message plus alternating key-value pairs, and derivation methods (WithKV,
// WithName, AddCallerSkip) returning enriched copies. Three implementations
// exist:
//
//   - ZapLogger, the production logger on top of Uber's zap with console,
//     logfmt, and json encoders selected through Config (LOG_FORMAT,
//     LOG_LEVEL, LOG_OUTPUT environment variables)
//   - NoopLogger, the silent default for tests and optional dependencies
//   - SpanLogger, a decorator that mirrors entries onto an OpenTelemetry
//     span through a SpanEventRecorder
//
// Loggers travel through contexts rather than globals:
//
//	ctx = log.SetContextLogger(ctx, logger)
//	log.FromContext(ctx).Info("connected", "endpoint", url)
//
// SetContextLogger notices an active span on the context and transparently
// upgrades the stored logger to a SpanLogger, so trace correlation costs the
// call sites nothing.
//
// Helpers that log on behalf of their caller should derive with
// AddCallerSkip(1) so the reported source line is the application's, not the
// helper's.
package log
