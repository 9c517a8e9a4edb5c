// Package logging provides structured logging using uber/zap.
//
// Logs always go to stderr so that command output on stdout stays machine
// readable. Two modes:
//   - Production: JSON lines
//   - Development: colored console output
//
// Example Usage:
//
//	logger := logging.NewDefault().Named("source")
//	logger.Info("document loaded", zap.String("ref", path))
package logging
