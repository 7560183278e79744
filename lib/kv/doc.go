// Package kv defines the capability contract for storage drivers.
// It specifies the Driver interface that all backing stores must satisfy
// to be mounted into a storage facade, together with the feature flags
// drivers use to advertise optional capabilities.
//
// The package focuses on:
//   - A unified interface for key-value operations against one backend
//   - Feature discovery through capability flags
//   - A common change-notification callback contract
//
// Key Components:
//
//   - Driver Interface: The core interface every backing store implements.
//     Has, Get and Keys are mandatory; writes (Set, Remove, Clear), native
//     metadata (Meta), native change notifications (Watch) and resource
//     cleanup (Dispose) are optional. Missing capabilities degrade
//     gracefully at the mounting layer: a store without write support is
//     simply read-only, a store without Watch support still produces change
//     events because the mounting layer synthesizes them on mutation.
//
//   - Feature Flags: The Feature type defines capability flags that
//     implementations advertise through the SupportsFeature method. Callers
//     must check a feature before invoking the corresponding operation.
//
//   - Change Events: EventType and WatchFunc define the notification
//     contract shared by native driver watchers and synthesized events.
//     Keys reported through WatchFunc are always driver-relative.
//
// Implementations:
//
//	The package ships two drivers under lib/kv/engines:
//
//	- Memory (engines/memory): A concurrent in-memory driver backed by
//	  xsync.MapOf with the full feature set including native watch.
//
//	- Filesystem (engines/fs): A driver persisting each key as a file below
//	  a root directory, with native metadata from file attributes and
//	  native watch backed by fsnotify.
//
// The lib/kv/testing package provides a reusable conformance test suite for
// driver implementations and a feature-restriction wrapper used to exercise
// degraded-capability code paths.
package kv
