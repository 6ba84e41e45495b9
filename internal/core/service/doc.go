// Package service provides the session and navigation services of
// contacts-cli.
//
// This package contains:
//
//   - SessionStore: the single authoritative session, mirrored to durable
//     storage; Restore at startup, Login and Logout as the only mutators
//   - Guard: the pure authentication check applied to every navigation
//   - Navigator: route table, guard evaluation, navigation history and
//     view dispatch
//
// Services depend on ports (storage.KV, Authenticator, SessionState) and
// never perform navigation on their own: Login and Logout return the
// location the caller should navigate to.
package service
