// Package log provides the leveled logging interface used across this
// module.
//
// # Log Levels
//
// Five levels, in order of increasing severity:
//
//   - LogLevelDebug: detailed debugging information for development
//   - LogLevelInfo: general informational messages about normal operation
//   - LogLevelWarn: warning messages for potentially problematic situations
//   - LogLevelError: error messages for failures that need attention
//   - LogLevelNone: disables all logging output
//
// # Example Usage
//
//	logger := log.NewDefaultLogger(log.LogLevelInfo)
//
//	logger.Info("server starting on %s", addr)
//	logger.Debug("request payload: %v", payload)
//	logger.Error("request failed: %v", err)
//
// Messages below the configured level are filtered out. Use NewCustomLogger
// to direct output somewhere other than stderr.
//
// # golog Integration
//
// For callers that prefer github.com/kataras/golog, NewGologLogger wraps an
// existing golog.Logger behind the same interface:
//
//	glogger := golog.New()
//	glogger.SetPrefix("[myapp] ")
//	logger := log.NewGologLogger(glogger)
//	logger.Info("application started")
//
// # Package-Level Logger
//
// A package-level default logger backs the top-level Debug/Info/Warn/Error
// functions. SetDefaultLogger or SetLogLevel adjust it globally; libraries in
// this module log through it so applications control verbosity in one place.
//
// The DefaultLogger is safe for concurrent use; the standard library logger
// underneath handles synchronization.
package log
