package storage

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ValentinKolb/uKV/lib/kv"
	"github.com/ValentinKolb/uKV/lib/kv/engines/memory"
	"github.com/ValentinKolb/uKV/lib/logger"
	"github.com/ValentinKolb/uKV/lib/serializer"
	"github.com/hashicorp/go-multierror"
)

var log = logger.GetLogger("storage")

// --------------------------------------------------------------------------
// Initialization and Setup
// --------------------------------------------------------------------------

// Options configures a storage facade during initialization
type Options struct {
	Driver     kv.Driver                  // Root driver (nil = in-memory)
	Serializer serializer.IValueSerializer // Value codec (nil = json)
}

// storageImpl implements the IStorage facade
type storageImpl struct {
	mounts *mountTable
	ser    serializer.IValueSerializer
	watch  *watchState
}

// New creates a new storage facade with the specified options (optional).
// The root mountpoint always exists: without an explicit root driver an
// in-memory driver is used.
//
// Thread-safety: The returned facade is safe for concurrent use, but it
// adds no atomicity of its own - observing state (Has) and acting on it
// (Set) are two independent operations, and mounts must not be
// reconfigured concurrently with in-flight operations on affected prefixes.
func New(opts *Options) IStorage {
	if opts == nil {
		opts = &Options{}
	}

	root := opts.Driver
	if root == nil {
		root = memory.NewMemoryDriver()
	}
	ser := opts.Serializer
	if ser == nil {
		ser = serializer.NewJSONSerializer()
	}

	return &storageImpl{
		mounts: newMountTable(root),
		ser:    ser,
		watch:  newWatchState(),
	}
}

// --------------------------------------------------------------------------
// Interface Methods - Single-Key Operations (docu see interface.go)
// --------------------------------------------------------------------------

func (s *storageImpl) Has(key string) (bool, error) {
	key = NormalizeKey(key)
	driver, relKey := s.mounts.resolve(key)
	return driver.Has(relKey)
}

func (s *storageImpl) Get(key string) (interface{}, error) {
	key = NormalizeKey(key)
	driver, relKey := s.mounts.resolve(key)

	raw, loaded, err := driver.Get(relKey)
	if err != nil {
		return nil, err
	}
	if !loaded {
		return nil, nil
	}
	return s.ser.Deserialize(raw)
}

func (s *storageImpl) Set(key string, value interface{}) error {
	if value == nil {
		return s.Remove(key, true)
	}

	key = NormalizeKey(key)
	driver, relKey := s.mounts.resolve(key)

	// read-only driver: silent no-op
	if !driver.SupportsFeature(kv.FeatureSet) {
		return nil
	}

	raw, err := s.ser.Serialize(value)
	if err != nil {
		return err
	}
	if err := driver.Set(relKey, raw); err != nil {
		return err
	}

	// synthesize the change event for drivers without native watch
	if !driver.SupportsFeature(kv.FeatureWatch) {
		s.watch.notify(kv.EventUpdate, key)
	}
	return nil
}

func (s *storageImpl) Remove(key string, removeMeta bool) error {
	key = NormalizeKey(key)
	driver, relKey := s.mounts.resolve(key)

	// read-only driver: silent no-op
	if !driver.SupportsFeature(kv.FeatureRemove) {
		return nil
	}

	if err := driver.Remove(relKey); err != nil {
		return err
	}
	if removeMeta {
		// best-effort, an absent shadow record is not an error
		_ = driver.Remove(relKey + MetaSuffix)
	}

	if !driver.SupportsFeature(kv.FeatureWatch) {
		s.watch.notify(kv.EventRemove, key)
	}
	return nil
}

// --------------------------------------------------------------------------
// Interface Methods - Metadata (docu see interface.go)
// --------------------------------------------------------------------------

func (s *storageImpl) Meta(key string, nativeOnly bool) (Meta, error) {
	key = NormalizeKey(key)
	driver, relKey := s.mounts.resolve(key)

	meta := Meta{}

	if driver.SupportsFeature(kv.FeatureMeta) {
		native, err := driver.Meta(relKey)
		if err != nil {
			return nil, err
		}
		for field, value := range native {
			meta[field] = value
		}
	}

	if nativeOnly {
		return meta, nil
	}

	// the shadow record takes precedence over native metadata on conflict
	raw, loaded, err := driver.Get(relKey + MetaSuffix)
	if err != nil {
		return nil, err
	}
	if loaded {
		value, err := s.ser.Deserialize(raw)
		if err != nil {
			return nil, err
		}
		if shadow, ok := value.(map[string]interface{}); ok {
			for field, v := range shadow {
				meta[field] = reviveMetaValue(field, v)
			}
		}
	}
	return meta, nil
}

func (s *storageImpl) SetMeta(key string, meta Meta) error {
	if meta == nil {
		return s.RemoveMeta(key)
	}
	return s.Set(NormalizeKey(key)+MetaSuffix, map[string]interface{}(meta))
}

func (s *storageImpl) RemoveMeta(key string) error {
	return s.Remove(NormalizeKey(key)+MetaSuffix, false)
}

// --------------------------------------------------------------------------
// Interface Methods - Base-Scoped Operations (docu see interface.go)
// --------------------------------------------------------------------------

func (s *storageImpl) Keys(base string) ([]string, error) {
	base = NormalizeBase(base)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		keys []string
		errs *multierror.Error
	)

	for _, mount := range s.mounts.resolveOverlapping(base) {
		wg.Add(1)
		go func(mount overlappingMount) {
			defer wg.Done()

			relKeys, err := mount.driver.Keys(mount.relBase)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				errs = multierror.Append(errs, err)
				return
			}
			for _, relKey := range relKeys {
				absKey := mount.base + relKey

				// shadow metadata keys stay internal; a descendant mount may
				// also report keys outside the requested intersection
				if isMetaKey(absKey) || !strings.HasPrefix(absKey, base) {
					continue
				}
				keys = append(keys, absKey)
			}
		}(mount)
	}
	wg.Wait()

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return keys, nil
}

func (s *storageImpl) Clear(base string) error {
	base = NormalizeBase(base)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs *multierror.Error
	)

	for _, mount := range s.mounts.resolveOverlapping(base) {
		wg.Add(1)
		go func(mount overlappingMount) {
			defer wg.Done()

			err := s.clearMount(mount)

			if err != nil {
				mu.Lock()
				errs = multierror.Append(errs, err)
				mu.Unlock()
			}
		}(mount)
	}
	wg.Wait()

	return errs.ErrorOrNil()
}

// clearMount clears one mount's share of a base prefix: native clear when
// the driver has one, key-wise removal as fallback, no-op for fully
// read-only drivers. The fallback is best-effort - a partial failure leaves
// partial state.
func (s *storageImpl) clearMount(mount overlappingMount) error {
	driver := mount.driver

	if driver.SupportsFeature(kv.FeatureClear) {
		return driver.Clear(mount.relBase)
	}

	if !driver.SupportsFeature(kv.FeatureRemove) {
		return nil
	}

	relKeys, err := driver.Keys(mount.relBase)
	if err != nil {
		return err
	}
	var errs *multierror.Error
	for _, relKey := range relKeys {
		if err := driver.Remove(relKey); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}

// --------------------------------------------------------------------------
// Interface Methods - Watching (docu see interface.go)
// --------------------------------------------------------------------------

func (s *storageImpl) Watch(fn kv.WatchFunc) error {
	return s.watch.register(fn, s.mounts.all())
}

// --------------------------------------------------------------------------
// Interface Methods - Mount Management (docu see interface.go)
// --------------------------------------------------------------------------

func (s *storageImpl) Mount(base string, driver kv.Driver) error {
	base = NormalizeBase(base)

	if err := s.mounts.add(base, driver); err != nil {
		return err
	}

	// the mount already committed - a failing late watch subscription is
	// reported, not returned
	if err := s.watch.subscribe(base, driver); err != nil {
		log.Warnf("failed to subscribe driver mounted at %q for watching: %v", base, err)
	}
	return nil
}

func (s *storageImpl) Unmount(base string, disposeDriver bool) error {
	base = NormalizeBase(base)
	if base == "" {
		return nil
	}

	driver, loaded := s.mounts.get(base)
	if !loaded {
		return nil
	}

	if disposeDriver && driver.SupportsFeature(kv.FeatureDispose) {
		if err := driver.Dispose(); err != nil {
			return err
		}
	}
	s.mounts.remove(base)
	return nil
}

func (s *storageImpl) Mounts() []MountInfo {
	entries := s.mounts.all()
	mounts := make([]MountInfo, 0, len(entries))
	for _, entry := range entries {
		mounts = append(mounts, MountInfo{
			Base:   entry.base,
			Driver: entry.driver.GetInfo(),
		})
	}
	return mounts
}

func (s *storageImpl) Dispose() error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs *multierror.Error
	)

	// every driver gets its disposal attempt, failures never short-circuit
	for _, entry := range s.mounts.all() {
		wg.Add(1)
		go func(entry mountEntry) {
			defer wg.Done()

			if !entry.driver.SupportsFeature(kv.FeatureDispose) {
				return
			}
			if err := entry.driver.Dispose(); err != nil {
				mu.Lock()
				errs = multierror.Append(errs, fmt.Errorf("dispose of mount %q failed: %w", entry.base, err))
				mu.Unlock()
			}
		}(entry)
	}
	wg.Wait()

	if err := errs.ErrorOrNil(); err != nil {
		return NewError(RetCDisposeFailed, err.Error())
	}
	return nil
}
