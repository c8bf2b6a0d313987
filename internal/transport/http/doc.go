// Package http contains the HTTP handlers of the analytics API. Handlers
// are thin: they validate input, delegate to the service layer and render
// JSON responses, with failures expressed as RFC 7807 problem documents.
package http
