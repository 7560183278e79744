// Package fs provides a filesystem implementation of the kv.Driver
// interface. Every key is persisted as a file below a root directory, with
// the key separator mapping directly to the path separator.
//
// Feature support:
//   - Has, Get, Keys, Set, Remove, Clear, Dispose
//   - Meta: native - file attributes (mtime, size) are reported as the
//     driver metadata record
//   - Watch: native - backed by fsnotify; the watcher is started lazily on
//     the first Watch call and follows directories as they are created
//
// Keys containing parent-directory segments are rejected so values can
// never be read or written outside the root directory.
//
// Durability and ordering guarantees are those of the underlying
// filesystem, the driver performs no additional syncing.
package fs
