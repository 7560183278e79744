package testing

import (
	"bytes"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/ValentinKolb/uKV/lib/kv"
)

// DriverFactory is a function that creates a new instance of a driver implementation
type DriverFactory func() kv.Driver

// RunDriverTests runs a comprehensive conformance suite for a kv.Driver
// implementation. Tests for optional features are skipped when the driver
// does not advertise them.
func RunDriverTests(t *testing.T, name string, factory DriverFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Set&Get", func(t *testing.T) {
			testSetGet(t, factory())
		})

		t.Run("Has", func(t *testing.T) {
			testHas(t, factory())
		})

		t.Run("Remove", func(t *testing.T) {
			testRemove(t, factory())
		})

		t.Run("Keys", func(t *testing.T) {
			testKeys(t, factory())
		})

		t.Run("Clear", func(t *testing.T) {
			testClear(t, factory())
		})

		t.Run("Watch", func(t *testing.T) {
			testWatch(t, factory())
		})

		t.Run("EdgeCases", func(t *testing.T) {
			testEdgeCases(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// Checks if the driver supports the specified feature
// Skip the test if it is not supported
func requireFeature(t testing.TB, driver kv.Driver, feature kv.Feature) {
	if !driver.SupportsFeature(feature) {
		t.Skip()
	}
}

func dispose(driver kv.Driver) {
	if driver.SupportsFeature(kv.FeatureDispose) {
		_ = driver.Dispose()
	}
}

func sortedEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	ac := append([]string(nil), a...)
	bc := append([]string(nil), b...)
	sort.Strings(ac)
	sort.Strings(bc)
	for i := range ac {
		if ac[i] != bc[i] {
			return false
		}
	}
	return true
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testSetGet(t *testing.T, driver kv.Driver) {
	defer dispose(driver)

	requireFeature(t, driver, kv.FeatureSet)

	testKey := "test-key"
	testValue1 := []byte("test-value1")
	testValue2 := []byte("test-value2")

	if err := driver.Set(testKey, testValue1); err != nil {
		t.Fatalf("Unexpected error during Set: %v", err)
	}

	result, loaded, err := driver.Get(testKey)
	if err != nil {
		t.Fatalf("Unexpected error during Get: %v", err)
	}
	if !loaded {
		t.Errorf("Expected key %s to exist after Set", testKey)
	}
	if !bytes.Equal(result, testValue1) {
		t.Errorf("Expected value %s, got %s", testValue1, result)
	}

	if err := driver.Set(testKey, testValue2); err != nil {
		t.Fatalf("Unexpected error during Set: %v", err)
	}

	result, loaded, _ = driver.Get(testKey)
	if !loaded {
		t.Errorf("Expected key %s to exist after update", testKey)
	}
	if !bytes.Equal(result, testValue2) {
		t.Errorf("Expected value %s, got %s", testValue2, result)
	}

	_, loaded, err = driver.Get("nonexistent-key")
	if err != nil {
		t.Fatalf("Unexpected error during Get: %v", err)
	}
	if loaded {
		t.Errorf("Expected nonexistent key to return loaded=false")
	}

	// byte transparency: mutating a returned value must not affect the store
	retrieved, _, _ := driver.Get(testKey)
	if len(retrieved) > 0 {
		retrieved[0] = 'X'
		original, _, _ := driver.Get(testKey)
		if bytes.Equal(retrieved, original) {
			t.Errorf("Get should return a copy, not a reference to the stored value")
		}
	}
}

func testHas(t *testing.T, driver kv.Driver) {
	defer dispose(driver)

	requireFeature(t, driver, kv.FeatureSet)

	testKey := "has-test-key"

	loaded, err := driver.Has(testKey)
	if err != nil {
		t.Fatalf("Unexpected error during Has: %v", err)
	}
	if loaded {
		t.Errorf("Expected Has to return false for nonexistent key")
	}

	if err := driver.Set(testKey, []byte("has-test-value")); err != nil {
		t.Fatalf("Unexpected error during Set: %v", err)
	}

	loaded, _ = driver.Has(testKey)
	if !loaded {
		t.Errorf("Expected Has to return true after Set")
	}
}

func testRemove(t *testing.T, driver kv.Driver) {
	defer dispose(driver)

	requireFeature(t, driver, kv.FeatureSet)
	requireFeature(t, driver, kv.FeatureRemove)

	testKey := "remove-test-key"

	if err := driver.Set(testKey, []byte("remove-test-value")); err != nil {
		t.Fatalf("Unexpected error during Set: %v", err)
	}

	if err := driver.Remove(testKey); err != nil {
		t.Fatalf("Unexpected error during Remove: %v", err)
	}

	loaded, _ := driver.Has(testKey)
	if loaded {
		t.Errorf("Expected key %s to not exist after Remove", testKey)
	}

	// removing an absent key is not an error
	if err := driver.Remove("nonexistent-key"); err != nil {
		t.Errorf("Unexpected error removing nonexistent key: %v", err)
	}
}

func testKeys(t *testing.T, driver kv.Driver) {
	defer dispose(driver)

	requireFeature(t, driver, kv.FeatureSet)

	entries := map[string][]byte{
		"a/x":   []byte("1"),
		"a/y":   []byte("2"),
		"a/b/z": []byte("3"),
		"c":     []byte("4"),
	}
	for key, value := range entries {
		if err := driver.Set(key, value); err != nil {
			t.Fatalf("Unexpected error during Set: %v", err)
		}
	}

	keys, err := driver.Keys("")
	if err != nil {
		t.Fatalf("Unexpected error during Keys: %v", err)
	}
	if !sortedEqual(keys, []string{"a/x", "a/y", "a/b/z", "c"}) {
		t.Errorf("Expected all keys, got %v", keys)
	}

	keys, err = driver.Keys("a/")
	if err != nil {
		t.Fatalf("Unexpected error during Keys: %v", err)
	}
	if !sortedEqual(keys, []string{"a/x", "a/y", "a/b/z"}) {
		t.Errorf("Expected keys under a/, got %v", keys)
	}
}

func testClear(t *testing.T, driver kv.Driver) {
	defer dispose(driver)

	requireFeature(t, driver, kv.FeatureSet)
	requireFeature(t, driver, kv.FeatureClear)

	for i := 0; i < 10; i++ {
		key := fmt.Sprintf("x/key-%d", i)
		if err := driver.Set(key, []byte("v")); err != nil {
			t.Fatalf("Unexpected error during Set: %v", err)
		}
	}
	if err := driver.Set("outside", []byte("v")); err != nil {
		t.Fatalf("Unexpected error during Set: %v", err)
	}

	if err := driver.Clear("x/"); err != nil {
		t.Fatalf("Unexpected error during Clear: %v", err)
	}

	keys, err := driver.Keys("")
	if err != nil {
		t.Fatalf("Unexpected error during Keys: %v", err)
	}
	if !sortedEqual(keys, []string{"outside"}) {
		t.Errorf("Expected only keys outside x/ to survive, got %v", keys)
	}
}

func testWatch(t *testing.T, driver kv.Driver) {
	defer dispose(driver)

	requireFeature(t, driver, kv.FeatureSet)
	requireFeature(t, driver, kv.FeatureRemove)
	requireFeature(t, driver, kv.FeatureWatch)

	type event struct {
		typ kv.EventType
		key string
	}
	events := make(chan event, 16)

	err := driver.Watch(func(e kv.EventType, key string) {
		events <- event{e, key}
	})
	if err != nil {
		t.Fatalf("Unexpected error during Watch: %v", err)
	}

	if err := driver.Set("watched-key", []byte("v")); err != nil {
		t.Fatalf("Unexpected error during Set: %v", err)
	}
	if err := driver.Remove("watched-key"); err != nil {
		t.Fatalf("Unexpected error during Remove: %v", err)
	}

	// native watchers may deliver asynchronously
	var (
		sawUpdate bool
		sawRemove bool
		deadline  = time.After(2 * time.Second)
	)
	for !(sawUpdate && sawRemove) {
		select {
		case e := <-events:
			if e.key != "watched-key" {
				continue
			}
			switch e.typ {
			case kv.EventUpdate:
				sawUpdate = true
			case kv.EventRemove:
				sawRemove = true
			}
		case <-deadline:
			t.Fatalf("Timed out waiting for watch events (update=%v remove=%v)", sawUpdate, sawRemove)
		}
	}
}

func testEdgeCases(t *testing.T, driver kv.Driver) {
	defer dispose(driver)

	requireFeature(t, driver, kv.FeatureSet)

	emptyValueKey := "empty-value-key"
	if err := driver.Set(emptyValueKey, []byte{}); err != nil {
		t.Fatalf("Unexpected error during Set: %v", err)
	}

	result, loaded, err := driver.Get(emptyValueKey)
	if err != nil {
		t.Fatalf("Unexpected error during Get: %v", err)
	}
	if !loaded {
		t.Errorf("Key for empty value not found after Set")
	} else if len(result) != 0 {
		t.Errorf("Empty value resulted in non-empty value: %v", result)
	}

	largeValueKey := "large-value-key"
	largeValue := make([]byte, 1024*1024)
	for i := range largeValue {
		largeValue[i] = byte(i % 256)
	}

	if err := driver.Set(largeValueKey, largeValue); err != nil {
		t.Fatalf("Unexpected error during Set: %v", err)
	}

	result, loaded, _ = driver.Get(largeValueKey)
	if !loaded {
		t.Errorf("Key for large value not found after Set")
	} else if !bytes.Equal(result, largeValue) {
		t.Errorf("Large value mismatch: size %d vs %d", len(result), len(largeValue))
	}
}
