// Package query runs a single declarative selector over a document and
// renders the matches as HTML, text or sanitized HTML.
package query
