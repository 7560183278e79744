package storage

import (
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// --------------------------------------------------------------------------
// Snapshot / Restore
// --------------------------------------------------------------------------

// Snapshot bulk-exports all keys under a base into a flat mapping from
// base-relative key to value. All reads are issued concurrently. The export
// is not atomic: concurrent mutations may or may not be reflected.
func Snapshot(s IStorage, base string) (map[string]interface{}, error) {
	base = NormalizeBase(base)

	keys, err := s.Keys(base)
	if err != nil {
		return nil, err
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		snap = make(map[string]interface{}, len(keys))
		errs *multierror.Error
	)

	for _, key := range keys {
		wg.Add(1)
		go func(key string) {
			defer wg.Done()

			value, err := s.Get(key)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				errs = multierror.Append(errs, err)
				return
			}
			snap[strings.TrimPrefix(key, base)] = value
		}(key)
	}
	wg.Wait()

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return snap, nil
}

// RestoreSnapshot bulk-imports a flat mapping, re-prefixing every key with
// the base. All writes are issued concurrently. Not atomic: a failure
// partway leaves a partial result.
func RestoreSnapshot(s IStorage, snap map[string]interface{}, base string) error {
	base = NormalizeBase(base)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs *multierror.Error
	)

	for key, value := range snap {
		wg.Add(1)
		go func(key string, value interface{}) {
			defer wg.Done()

			if err := s.Set(base+key, value); err != nil {
				mu.Lock()
				errs = multierror.Append(errs, err)
				mu.Unlock()
			}
		}(key, value)
	}
	wg.Wait()

	return errs.ErrorOrNil()
}
