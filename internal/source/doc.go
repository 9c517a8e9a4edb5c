// Package source loads HTML documents from files, directories, globs and URLs.
//
// Features:
//   - doublestar globs (`pages/**/*.html`) and fastwalk directory walks
//   - transparent `.gz` inputs
//   - size limits and MIME sniffing before parsing
//   - HTTP fetches through resty over a retrying transport, with a shared
//     rate limiter and a circuit kept per host
//   - optional prometheus counters
//
// Example Usage:
//
//	loader := source.NewLoader(source.DefaultOptions(), logger)
//	docs, err := loader.LoadAll(ctx, "pages/", "https://example.com/")
package source
