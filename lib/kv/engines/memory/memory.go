package memory

import (
	"strings"
	"sync"

	"github.com/ValentinKolb/uKV/lib/kv"
	"github.com/puzpuzpuz/xsync/v3"
)

// --------------------------------------------------------------------------
// Core memory driver structure
// --------------------------------------------------------------------------

// memoryImpl implements an in-memory driver backed by a concurrent map
type memoryImpl struct {
	data *xsync.MapOf[string, []byte]

	// native watch support
	watchMu   sync.RWMutex
	listeners []kv.WatchFunc
}

// NewMemoryDriver creates a new in-memory driver.
// The driver supports the full feature set including native watch.
//
// Thread-safety: The returned driver is safe for concurrent use.
func NewMemoryDriver() kv.Driver {
	return &memoryImpl{
		data: xsync.NewMapOf[string, []byte](),
	}
}

// --------------------------------------------------------------------------
// Query Operations
// --------------------------------------------------------------------------

func (m *memoryImpl) Has(key string) (bool, error) {
	_, ok := m.data.Load(key)
	return ok, nil
}

// Get retrieves a value for a key.
// The returned value is a copy of the stored data and therefore safe to use
// and modify.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (m *memoryImpl) Get(key string) ([]byte, bool, error) {
	value, ok := m.data.Load(key)
	if !ok {
		return nil, false, nil
	}

	// Copy value to prevent memory corruption
	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)
	return valueCopy, true, nil
}

func (m *memoryImpl) Keys(base string) ([]string, error) {
	var keys []string
	m.data.Range(func(key string, _ []byte) bool {
		if base == "" || strings.HasPrefix(key, base) {
			keys = append(keys, key)
		}
		return true
	})
	return keys, nil
}

// --------------------------------------------------------------------------
// Write Operations
// --------------------------------------------------------------------------

func (m *memoryImpl) Set(key string, value []byte) error {
	// Copy value to prevent memory corruption
	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	m.data.Store(key, valueCopy)
	m.notify(kv.EventUpdate, key)
	return nil
}

func (m *memoryImpl) Remove(key string) error {
	if _, loaded := m.data.LoadAndDelete(key); loaded {
		m.notify(kv.EventRemove, key)
	}
	return nil
}

func (m *memoryImpl) Clear(base string) error {
	var removed []string
	m.data.Range(func(key string, _ []byte) bool {
		if base == "" || strings.HasPrefix(key, base) {
			removed = append(removed, key)
		}
		return true
	})

	for _, key := range removed {
		if _, loaded := m.data.LoadAndDelete(key); loaded {
			m.notify(kv.EventRemove, key)
		}
	}
	return nil
}

// --------------------------------------------------------------------------
// Metadata and Notifications
// --------------------------------------------------------------------------

// Meta is not supported, the driver does not advertise kv.FeatureMeta.
func (m *memoryImpl) Meta(_ string) (map[string]interface{}, error) {
	return map[string]interface{}{}, nil
}

func (m *memoryImpl) Watch(fn kv.WatchFunc) error {
	m.watchMu.Lock()
	defer m.watchMu.Unlock()
	m.listeners = append(m.listeners, fn)
	return nil
}

// notify invokes all registered watch callbacks in registration order
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (m *memoryImpl) notify(event kv.EventType, key string) {
	m.watchMu.RLock()
	defer m.watchMu.RUnlock()
	for _, fn := range m.listeners {
		fn(event, key)
	}
}

// --------------------------------------------------------------------------
// Lifecycle and Feature Support
// --------------------------------------------------------------------------

func (m *memoryImpl) Dispose() error {
	m.data.Clear()

	m.watchMu.Lock()
	defer m.watchMu.Unlock()
	m.listeners = nil
	return nil
}

// SupportsFeature checks if this implementation supports a specific feature
func (m *memoryImpl) SupportsFeature(feature kv.Feature) bool {
	supportedFeatures := kv.FeatureHas |
		kv.FeatureGet |
		kv.FeatureKeys |
		kv.FeatureSet |
		kv.FeatureRemove |
		kv.FeatureClear |
		kv.FeatureWatch |
		kv.FeatureDispose
	return supportedFeatures&feature == feature
}

// GetInfo returns information about the driver
func (m *memoryImpl) GetInfo() kv.DriverInfo {
	return kv.DriverInfo{
		Name: kv.ImplMemory,
		SupportedFeatures: []kv.Feature{
			kv.FeatureHas, kv.FeatureGet, kv.FeatureKeys,
			kv.FeatureSet, kv.FeatureRemove, kv.FeatureClear,
			kv.FeatureWatch, kv.FeatureDispose,
		},
		Metadata: &struct {
			Size int `json:"size"`
		}{
			Size: m.data.Size(),
		},
	}
}
