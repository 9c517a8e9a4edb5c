// Package main is the soupsavvy command line tool.
//
// It selects elements from HTML documents and extracts structured records
// with declarative schemas. Documents come from files, directories, globs,
// URLs or stdin.
//
// Commands:
//   - select: run one selector and print matches as HTML or text
//   - extract: run a YAML, TOML or JSON schema and print records
//   - serve: expose both over HTTP
//
// Configuration:
//   - Environment variables (12-factor, see internal/config)
//   - CLI flags (override env vars)
//
// Usage:
//
//	soupsavvy select --css "article h2" --text pages/
//	soupsavvy select --tag a --first --strict https://example.com/
//	soupsavvy extract --schema product.yaml 'shop/**/*.html'
//	curl -s https://example.com/ | soupsavvy select --xpath //title --text
//	soupsavvy serve --addr :8080
//
// Output is one JSON document per input on stdout; logs go to stderr.
//
// Signals:
//   - SIGINT, SIGTERM: cancel loading, graceful server shutdown
package main
