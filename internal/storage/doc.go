// Package storage provides the durable key/value port used by the session
// store, plus its backends.
//
// Backends:
//
//   - MemoryKV: process-local map, used in tests and with --storage memory
//   - BadgerKV: embedded Badger database under the client's state directory
//   - RedisKV: shared Redis instance, keys namespaced by a prefix
//   - SealedKV: decorator encrypting values at rest
//
// Open selects and assembles a backend from Config.
package storage
