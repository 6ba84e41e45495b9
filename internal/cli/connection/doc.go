// Package connection provides the HTTP transport to the contacts API.
//
//   - http.go: JSON-over-HTTP client with bearer auth, request IDs,
//     client-side rate limiting, custom CA bundles and latency metrics
//
// The client is stateless apart from its configuration; the bearer token
// is read from a TokenSource on every request so a login or logout takes
// effect immediately.
package connection
