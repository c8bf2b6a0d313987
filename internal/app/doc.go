// Package app wires the analytics server together: configuration, logging,
// OpenTelemetry, the session store, the websocket hub, the service layer
// and the chi router. The cmd/web binary is a thin shell around
// NewApplication and Run.
package app
