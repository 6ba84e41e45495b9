// Package domain defines the core domain models for contacts-cli.
//
// Domain models are pure value objects without any IO dependencies or
// framework coupling. This package contains:
//
//   - Session: the authenticated identity held by the session store
//   - Route, Location: the static route table and navigation targets
//   - Contact, User: records exchanged with the remote contacts API
//   - Errors: domain-specific error definitions
package domain
