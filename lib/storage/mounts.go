package storage

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ValentinKolb/uKV/lib/kv"
)

// --------------------------------------------------------------------------
// Mount Table Types
// --------------------------------------------------------------------------

// mountEntry binds one base prefix to one driver
type mountEntry struct {
	base   string
	driver kv.Driver
}

// overlappingMount is one mount whose key space intersects a base prefix.
// relBase is the base translated into the mount's own key space; it is only
// non-empty when the base descends below the mountpoint.
type overlappingMount struct {
	base    string
	driver  kv.Driver
	relBase string
}

// mountTable holds all active mounts ordered by descending base length
// (longest prefix first, insertion order preserved for equal lengths).
// The root mount at the empty base always exists, so key resolution is
// total and the table is never empty.
//
// Thread-safety: All methods are safe for concurrent use. Note that the
// table gives no atomicity between a resolve and the operation issued on
// its result - callers must not reconfigure mounts concurrently with
// in-flight operations on affected prefixes.
type mountTable struct {
	mu      sync.RWMutex
	entries []mountEntry
}

// newMountTable creates a mount table with the given root driver
func newMountTable(root kv.Driver) *mountTable {
	return &mountTable{
		entries: []mountEntry{{base: "", driver: root}},
	}
}

// --------------------------------------------------------------------------
// Resolution
// --------------------------------------------------------------------------

// resolve returns the driver responsible for a key and the key relative to
// its mountpoint. The root mount is a prefix of every key, so resolution
// never fails.
func (t *mountTable) resolve(key string) (kv.Driver, string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, entry := range t.entries {
		if strings.HasPrefix(key, entry.base) {
			return entry.driver, key[len(entry.base):]
		}
	}

	// unreachable: the root entry matches everything
	panic(fmt.Sprintf("mount table lost its root entry while resolving %q", key))
}

// resolveOverlapping returns every mount whose key space could contain keys
// under the given base: ancestors of the base and descendants of it.
func (t *mountTable) resolveOverlapping(base string) []overlappingMount {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var mounts []overlappingMount
	for _, entry := range t.entries {
		if !strings.HasPrefix(base, entry.base) && !strings.HasPrefix(entry.base, base) {
			continue
		}

		relBase := ""
		if len(base) > len(entry.base) {
			relBase = base[len(entry.base):]
		}
		mounts = append(mounts, overlappingMount{
			base:    entry.base,
			driver:  entry.driver,
			relBase: relBase,
		})
	}
	return mounts
}

// --------------------------------------------------------------------------
// Mutation
// --------------------------------------------------------------------------

// add registers a new mountpoint. The base must be normalized. Registering
// an already used base fails (the root base is always in use).
func (t *mountTable) add(base string, driver kv.Driver) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, entry := range t.entries {
		if entry.base == base {
			return NewError(RetCMountConflict, fmt.Sprintf("base %q is already mounted", base))
		}
	}

	// insert before the first shorter entry: keeps the longest-prefix-first
	// order and places equal-length entries in insertion order
	pos := len(t.entries)
	for i, entry := range t.entries {
		if len(entry.base) < len(base) {
			pos = i
			break
		}
	}

	t.entries = append(t.entries, mountEntry{})
	copy(t.entries[pos+1:], t.entries[pos:])
	t.entries[pos] = mountEntry{base: base, driver: driver}
	return nil
}

// remove drops a mountpoint. Removing the root or an unknown base is a
// silent no-op.
func (t *mountTable) remove(base string) {
	if base == "" {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for i, entry := range t.entries {
		if entry.base == base {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			return
		}
	}
}

// --------------------------------------------------------------------------
// Queries
// --------------------------------------------------------------------------

// get returns the driver mounted at exactly the given base
func (t *mountTable) get(base string) (kv.Driver, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, entry := range t.entries {
		if entry.base == base {
			return entry.driver, true
		}
	}
	return nil, false
}

// all returns a copy of all entries, longest prefix first
func (t *mountTable) all() []mountEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	entries := make([]mountEntry, len(t.entries))
	copy(entries, t.entries)
	return entries
}
