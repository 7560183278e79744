package testing

import (
	"fmt"

	"github.com/ValentinKolb/uKV/lib/kv"
)

// --------------------------------------------------------------------------
// Feature Restriction Wrapper
// --------------------------------------------------------------------------

// Restrict wraps a driver and masks its advertised features down to the
// given set. Calls to a masked optional operation fail loudly instead of
// reaching the inner driver, which makes capability-gating bugs in callers
// visible in tests. The mandatory query operations always pass through.
//
// Typical use: Restrict(memory.NewMemoryDriver(), kv.FeatureReadOnly) to
// exercise read-only handling, or masking kv.FeatureWatch to force a
// mounting layer onto its synthetic event path.
func Restrict(driver kv.Driver, features kv.Feature) kv.Driver {
	return &restrictedImpl{
		inner:    driver,
		features: features | kv.FeatureReadOnly,
	}
}

// restrictedImpl implements kv.Driver by delegation with a feature mask
type restrictedImpl struct {
	inner    kv.Driver
	features kv.Feature
}

func (r *restrictedImpl) guard(feature kv.Feature) error {
	if !r.SupportsFeature(feature) {
		return fmt.Errorf("operation %s is not supported by this driver", feature)
	}
	return nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see kv.Driver)
// --------------------------------------------------------------------------

func (r *restrictedImpl) Has(key string) (bool, error) {
	return r.inner.Has(key)
}

func (r *restrictedImpl) Get(key string) ([]byte, bool, error) {
	return r.inner.Get(key)
}

func (r *restrictedImpl) Keys(base string) ([]string, error) {
	return r.inner.Keys(base)
}

func (r *restrictedImpl) Set(key string, value []byte) error {
	if err := r.guard(kv.FeatureSet); err != nil {
		return err
	}
	return r.inner.Set(key, value)
}

func (r *restrictedImpl) Remove(key string) error {
	if err := r.guard(kv.FeatureRemove); err != nil {
		return err
	}
	return r.inner.Remove(key)
}

func (r *restrictedImpl) Clear(base string) error {
	if err := r.guard(kv.FeatureClear); err != nil {
		return err
	}
	return r.inner.Clear(base)
}

func (r *restrictedImpl) Meta(key string) (map[string]interface{}, error) {
	if err := r.guard(kv.FeatureMeta); err != nil {
		return nil, err
	}
	return r.inner.Meta(key)
}

func (r *restrictedImpl) Watch(fn kv.WatchFunc) error {
	if err := r.guard(kv.FeatureWatch); err != nil {
		return err
	}
	return r.inner.Watch(fn)
}

func (r *restrictedImpl) Dispose() error {
	if err := r.guard(kv.FeatureDispose); err != nil {
		return err
	}
	return r.inner.Dispose()
}

func (r *restrictedImpl) SupportsFeature(feature kv.Feature) bool {
	masked := r.features & feature
	return masked == feature && r.inner.SupportsFeature(feature)
}

func (r *restrictedImpl) GetInfo() kv.DriverInfo {
	info := r.inner.GetInfo()

	var features []kv.Feature
	for _, feature := range info.SupportedFeatures {
		if r.SupportsFeature(feature) {
			features = append(features, feature)
		}
	}
	info.SupportedFeatures = features
	return info
}
