// Package server exposes selection and extraction over HTTP for the serve
// command.
//
// Routes:
//   - GET  /health: liveness
//   - GET  /metrics: prometheus exposition
//   - POST /v1/select: run a query.Query against inline html or a url
//   - POST /v1/extract: run a declarative schema and return ordered records
//
// Middleware stack: recovery, request ids, zap access log, metrics, CORS,
// body limit and per-client rate limiting on /v1.
//
// Fetching remote documents is off unless SERVER_ALLOW_FETCH is set, and
// only http(s) urls are ever loaded on behalf of a client.
//
// Example Usage:
//
//	srv := server.New(server.ConfigFrom(cfg), loader, logger, nil)
//	if err := srv.Run(ctx); err != nil {
//	    logger.Fatal("server stopped", zap.Error(err))
//	}
package server
