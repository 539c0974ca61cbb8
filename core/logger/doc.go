// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments (development vs production)
// and writes either to the standard streams or appends to a log file.
//
// # Context Awareness
//
// The sync runner derives child loggers carrying run_id and query fields, and the status API
// uses WithRayID to attach the request id from a Fiber context.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: json (production) or console (development)
//   - Output: stdout, stderr or a file path
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Run started")
package logger
