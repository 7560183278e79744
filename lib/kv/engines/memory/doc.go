// Package memory provides a concurrent in-memory implementation of the
// kv.Driver interface.
//
// The driver stores values in an xsync.MapOf keyed by the relative key
// string. Values are copied on write and on read, so callers can never
// corrupt stored data by mutating a slice they passed in or got back.
//
// Feature support:
//   - Has, Get, Keys, Set, Remove, Clear, Dispose
//   - Watch: native - registered callbacks are invoked synchronously on
//     every successful Set, Remove and Clear
//   - Meta: not supported, the mounting layer falls back to shadow keys
//
// The driver holds no external resources; Dispose simply drops all entries
// and listeners. It is intended as the default root store of a storage
// facade and as the workhorse for tests.
package memory
