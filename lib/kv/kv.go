package kv

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

type Implementation string

const (
	ImplMemory Implementation = "memory"
	ImplFS     Implementation = "fs"
)

// Feature represents driver capabilities as bit flags
type Feature uint64

const (
	FeatureHas     Feature = 1 << iota // Support for Has operations (mandatory)
	FeatureGet                         // Support for Get operations (mandatory)
	FeatureKeys                        // Support for Keys operations (mandatory)
	FeatureSet                         // Support for Set operations
	FeatureRemove                      // Support for Remove operations
	FeatureClear                       // Support for Clear operations
	FeatureMeta                        // Support for native metadata
	FeatureWatch                       // Support for native change notifications
	FeatureDispose                     // Support for Dispose operations
)

func (f Feature) String() string {
	switch f {
	case FeatureHas:
		return "Has"
	case FeatureGet:
		return "Get"
	case FeatureKeys:
		return "Keys"
	case FeatureSet:
		return "Set"
	case FeatureRemove:
		return "Remove"
	case FeatureClear:
		return "Clear"
	case FeatureMeta:
		return "Meta"
	case FeatureWatch:
		return "Watch"
	case FeatureDispose:
		return "Dispose"
	default:
		return "Unknown"
	}
}

// FeatureReadOnly is the minimal feature set every driver must support.
const FeatureReadOnly = FeatureHas | FeatureGet | FeatureKeys

// --------------------------------------------------------------------------
// Change Events
// --------------------------------------------------------------------------

// EventType signals the kind of change a watch callback reports
type EventType int

const (
	EventUpdate EventType = iota
	EventRemove
)

func (e EventType) String() string {
	switch e {
	case EventUpdate:
		return "update"
	case EventRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// WatchFunc is the callback signature for change notifications.
// The key is always relative to the driver's own key space.
type WatchFunc func(event EventType, key string)

// --------------------------------------------------------------------------
// Driver Info
// --------------------------------------------------------------------------

type DriverInfo struct {
	Name              Implementation `json:"name"`
	SupportedFeatures []Feature      `json:"supported_features"`
	Metadata          interface{}    `json:"metadata"`
}

// --------------------------------------------------------------------------
// Driver Interface
// --------------------------------------------------------------------------

// Driver defines the contract a backing store must satisfy to be mounted.
// Has, Get and Keys are mandatory. All other operations are optional and
// advertised through SupportsFeature - callers must never invoke an
// operation the driver does not support. A driver without FeatureSet and
// FeatureRemove is a read-only store, a driver without FeatureWatch relies
// on the mounting layer to synthesize change events.
//
// Values are opaque byte slices. Implementations must be byte-transparent:
// Get returns exactly the bytes previously passed to Set for the same key.
type Driver interface {

	// --------------------------------------------------------------------------
	// Query Operations (mandatory)
	// --------------------------------------------------------------------------

	// Has checks whether a key exists in the store.
	Has(key string) (loaded bool, err error)

	// Get retrieves the raw value for an exact key.
	// The boolean return value indicates whether a value for the key was found.
	Get(key string) (value []byte, loaded bool, err error)

	// Keys lists all keys under the given base prefix ("" = whole key space).
	// Returned keys are relative to the driver's key space, order is
	// implementation defined.
	Keys(base string) (keys []string, err error)

	// --------------------------------------------------------------------------
	// Write Operations (optional)
	// --------------------------------------------------------------------------

	// Set inserts or updates a key-value pair.
	Set(key string, value []byte) (err error)

	// Remove deletes a key-value pair. Removing an absent key is not an error.
	Remove(key string) (err error)

	// Clear bulk-deletes all keys under the given base prefix ("" = everything).
	Clear(base string) (err error)

	// --------------------------------------------------------------------------
	// Metadata and Notifications (optional)
	// --------------------------------------------------------------------------

	// Meta returns the driver-native metadata record for a key.
	// An absent key yields an empty record, not an error.
	Meta(key string) (meta map[string]interface{}, err error)

	// Watch registers a callback for native change notifications.
	// Multiple callbacks may be registered, each is invoked for every change.
	Watch(fn WatchFunc) (err error)

	// --------------------------------------------------------------------------
	// Lifecycle and Feature Support
	// --------------------------------------------------------------------------

	// Dispose releases all resources held by the driver.
	Dispose() (err error)

	// SupportsFeature checks if the driver supports the specified feature.
	// Multiple features can be checked at once using bitwise OR (|).
	SupportsFeature(feature Feature) (ok bool)

	// GetInfo returns information about the driver.
	GetInfo() (info DriverInfo)
}
