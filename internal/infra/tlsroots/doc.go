// Package tlsroots builds the trust store used to reach the contacts API.
//
// The system pool is extended with an optional CA bundle so the client can
// talk to an API served with a private certificate.
package tlsroots
