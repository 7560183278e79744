// Package testing provides a reusable conformance test suite for kv.Driver
// implementations and a feature-restriction wrapper.
//
// RunDriverTests exercises every driver operation through subtests; tests
// for optional features are skipped when the driver does not advertise
// them, so one suite covers full-featured and degraded drivers alike.
//
// Restrict wraps an existing driver and masks its advertised features.
// This is how the storage facade tests exercise read-only stores, stores
// without native clear, and stores without native watch support without
// needing separate driver implementations.
package testing
