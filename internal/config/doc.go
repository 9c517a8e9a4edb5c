// Package config provides 12-factor configuration for the soupsavvy CLI.
//
// Configuration is loaded from environment variables with sensible defaults.
// Command flags override individual values.
//
// Configuration Sections:
//   - Logging: log level and output format
//   - Source: size limit, timeout, retries and rate for document loading
//   - Output: JSON rendering
//   - Server: listen address, CORS origins and body limit for serve
//   - RateLimit: per-client rate limiting for serve
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	loader := source.NewLoader(source.OptionsFrom(cfg.Source), logger)
//
// Environment Variables:
//   - LOG_LEVEL, LOG_DEV
//   - SOURCE_MAX_BYTES, SOURCE_TIMEOUT, SOURCE_RETRIES, SOURCE_RPS, SOURCE_USER_AGENT
//   - OUTPUT_PRETTY
//   - SERVER_ADDR, SERVER_CORS_ORIGINS, SERVER_MAX_BODY, SERVER_ALLOW_FETCH
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
package config
