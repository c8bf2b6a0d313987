// Package services implements the business logic layer between the HTTP
// handlers and the data pipeline. It owns the upload-to-dashboard flow:
// loading and sanitizing workbooks, placing them in sessions, applying
// filters and assembling the per-section dashboard payloads.
//
// Services follow these architectural principles:
//
//	1. Context propagation for cancellation and tracing
//	2. Dependency injection for loose coupling
//	3. Structured logging and metrics as cross-cutting concerns
//	4. Error transformation into the API error taxonomy
//
// Handlers never touch the pipeline packages directly; everything goes
// through DataService or HealthService.
package services
