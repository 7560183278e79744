// Package storage provides a unified key-value facade that multiplexes
// operations across heterogeneous backing stores mounted at key prefixes,
// similar in spirit to a virtual filesystem.
//
// The package focuses on:
//   - Longest-prefix routing of every key to exactly one mounted driver
//   - Fan-out of prefix-scoped operations (Keys, Clear) across all mounts
//     whose key spaces overlap the requested base
//   - A metadata side-channel per key, backed by driver-native metadata
//     where available and shadow keys (key + "$") everywhere else
//   - Aggregation of change notifications from drivers with heterogeneous
//     watch capabilities into one unified event stream
//
// Key Components:
//
//   - IStorage Interface: The public facade. All operations normalize their
//     key/base argument, resolve the responsible mount(s) and delegate to
//     the drivers, translating relative keys back to absolute keys in
//     results.
//
//   - Mount Table: An ordered set of (base prefix, driver) pairs, always
//     containing a root mount at the empty prefix. Resolution scans
//     mountpoints longest-prefix-first, so the root guarantees that every
//     key resolves.
//
//   - Watch Aggregation: Watching activates on the first listener and stays
//     active. Drivers with native watch support feed the stream through a
//     key-translating subscription; for all other drivers the facade
//     synthesizes events on its own write and remove paths.
//
//   - Snapshot/Restore: Free functions bulk-exporting all keys under a base
//     to a flat mapping and writing such a mapping back.
//
// Shadowing hazard: when mounts overlap, a key stored in an outer driver
// under an inner mountpoint's prefix is unreachable through the facade -
// resolution always prefers the longest mountpoint. This is deliberate,
// documented behavior; the facade offers no consistency guarantee between
// the two copies.
//
// The facade adds no locking beyond the consistency of its own mount table
// and listener list: drivers are the only locking boundary, there is no
// atomicity between observing state and acting on it, and fan-out
// operations join concurrent suboperations without any transactional
// guarantee.
package storage
