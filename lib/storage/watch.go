package storage

import (
	"sync"

	"github.com/ValentinKolb/uKV/lib/kv"
	"github.com/hashicorp/go-multierror"
)

// --------------------------------------------------------------------------
// Watch State
// --------------------------------------------------------------------------

// watchState aggregates change notifications from all mounted drivers into
// one unified event stream. It has two states: idle (initial) and watching.
// The transition to watching happens on the first listener registration and
// is one-way - there is no deactivation path.
//
// Drivers with native watch support are subscribed with a translator that
// rewrites their driver-relative keys to absolute keys. Drivers without
// native watch rely on the router emitting synthetic events on mutation.
type watchState struct {
	mu        sync.RWMutex
	watching  bool
	listeners []kv.WatchFunc
}

func newWatchState() *watchState {
	return &watchState{}
}

// --------------------------------------------------------------------------
// Event Delivery
// --------------------------------------------------------------------------

// notify multicasts an event to all listeners in registration order.
// It is a no-op while idle, which makes it safe to call unconditionally
// from mutation paths.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (w *watchState) notify(event kv.EventType, key string) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if !w.watching {
		return
	}
	for _, fn := range w.listeners {
		fn(event, key)
	}
}

// translator builds the per-mount callback that rewrites driver-relative
// keys to absolute keys before forwarding.
func (w *watchState) translator(base string) kv.WatchFunc {
	return func(event kv.EventType, key string) {
		w.notify(event, base+key)
	}
}

// --------------------------------------------------------------------------
// Activation and Subscription
// --------------------------------------------------------------------------

// register adds a listener. The first registration activates watching and
// subscribes every already mounted driver with native watch support.
// Subscription errors are aggregated and returned, but the state stays
// watching and the listener stays registered either way.
func (w *watchState) register(fn kv.WatchFunc, entries []mountEntry) error {
	w.mu.Lock()
	w.listeners = append(w.listeners, fn)
	first := !w.watching
	w.watching = true
	w.mu.Unlock()

	if !first {
		return nil
	}

	// subscribe outside the lock: a driver may deliver events synchronously
	// from inside Watch
	var errs *multierror.Error
	for _, entry := range entries {
		if !entry.driver.SupportsFeature(kv.FeatureWatch) {
			continue
		}
		if err := entry.driver.Watch(w.translator(entry.base)); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}

// subscribe attaches a late-mounted driver to the event stream. It is a
// no-op while idle or when the driver has no native watch support.
func (w *watchState) subscribe(base string, driver kv.Driver) error {
	w.mu.RLock()
	watching := w.watching
	w.mu.RUnlock()

	if !watching || !driver.SupportsFeature(kv.FeatureWatch) {
		return nil
	}
	return driver.Watch(w.translator(base))
}
