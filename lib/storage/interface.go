package storage

import (
	"fmt"

	"github.com/ValentinKolb/uKV/lib/kv"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// Meta is the per-key metadata record. The well-known fields "atime" and
// "mtime" hold time.Time values, everything else is caller-defined.
type Meta map[string]interface{}

// MountInfo describes one active mountpoint.
type MountInfo struct {
	Base   string        `json:"base"`
	Driver kv.DriverInfo `json:"driver"`
}

// IStorage is the unified key-value facade. It multiplexes all operations
// across the drivers mounted at key prefixes and presents a single flat key
// space to callers.
//
// All operations normalize their key/base argument first. Key resolution
// always prefers the longest matching mountpoint; a key an outer driver
// happens to hold under an inner mountpoint's prefix is unreachable through
// the facade (see the package documentation).
//
// Write operations return only an error (nil on success), read operations
// return the requested data along with an error. Driver-originated failures
// are propagated unchanged; the facade performs no retry and no translation.
type IStorage interface {
	// Has reports whether a value exists for the key.
	Has(key string) (loaded bool, err error)
	// Get reads and deserializes the value for a key.
	// A missing key yields (nil, nil).
	Get(key string) (value interface{}, err error)
	// Set serializes and writes a value. A nil value behaves like
	// Remove(key, true). Writing to a read-only driver is a silent no-op.
	Set(key string, value interface{}) (err error)
	// Remove deletes the value for a key and, when removeMeta is set, also
	// its shadow metadata record (best-effort). Removing from a read-only
	// driver is a silent no-op.
	Remove(key string, removeMeta bool) (err error)
	// Meta returns the merged metadata record for a key: driver-native
	// metadata first, overlaid with the shadow record unless nativeOnly.
	Meta(key string, nativeOnly bool) (meta Meta, err error)
	// SetMeta writes the shadow metadata record for a key.
	SetMeta(key string, meta Meta) (err error)
	// RemoveMeta deletes the shadow metadata record for a key.
	RemoveMeta(key string) (err error)
	// Keys lists all absolute keys under the base prefix across all
	// overlapping mounts. Shadow metadata keys are never included.
	Keys(base string) (keys []string, err error)
	// Clear removes all keys under the base prefix across all overlapping
	// mounts. Drivers without native clear fall back to key-wise removal,
	// fully read-only drivers are skipped.
	Clear(base string) (err error)
	// Watch registers a listener for change events on the whole key space.
	// Watching activates on the first call and stays active.
	Watch(fn kv.WatchFunc) (err error)
	// Mount binds a driver to a base prefix. Mounting an already used base
	// fails with RetCMountConflict.
	Mount(base string, driver kv.Driver) (err error)
	// Unmount releases a mountpoint, optionally disposing its driver first.
	// Unmounting the root or an unknown base is a silent no-op.
	Unmount(base string, disposeDriver bool) (err error)
	// Mounts lists all active mountpoints, most specific first.
	Mounts() (mounts []MountInfo)
	// Dispose disposes every mounted driver. Failures are collected and
	// reported together, one failing driver never aborts the others.
	Dispose() (err error)
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	errorCode := ""
	switch e.Code {
	case RetCInternalError:
		errorCode = "InternalError"
	case RetCMountConflict:
		errorCode = "MountConflict"
	case RetCDisposeFailed:
		errorCode = "DisposeFailed"
	default:
		errorCode = "Unknown"
	}

	return fmt.Sprintf("StorageError (code %s): %s", errorCode, e.Msg)
}

// NewError creates a new storage Error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess       RetCode = iota // 0: Operation executed successfully.
	RetCInternalError                // 1: Operation failed due to an internal error.
	RetCMountConflict                // 2: The mountpoint is already in use.
	RetCDisposeFailed                // 3: One or more drivers failed to dispose.
)
