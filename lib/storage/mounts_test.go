package storage

import (
	"testing"

	"github.com/ValentinKolb/uKV/lib/kv/engines/memory"
)

// TestResolveAlwaysSucceeds tests that the root mount makes resolution total
func TestResolveAlwaysSucceeds(t *testing.T) {
	table := newMountTable(memory.NewMemoryDriver())

	for _, key := range []string{"", "a", "a/b/c", "deeply/nested/key"} {
		driver, relKey := table.resolve(key)
		if driver == nil {
			t.Fatalf("resolve(%q) returned no driver", key)
		}
		if relKey != key {
			t.Errorf("resolve(%q) against root should keep the key, got %q", key, relKey)
		}
	}
}

// TestResolveLongestPrefix tests that the most specific mountpoint wins
func TestResolveLongestPrefix(t *testing.T) {
	root := memory.NewMemoryDriver()
	outer := memory.NewMemoryDriver()
	inner := memory.NewMemoryDriver()

	table := newMountTable(root)
	if err := table.add("a/", outer); err != nil {
		t.Fatalf("Unexpected error during add: %v", err)
	}
	if err := table.add("a/b/", inner); err != nil {
		t.Fatalf("Unexpected error during add: %v", err)
	}

	driver, relKey := table.resolve("a/b/c")
	if driver != inner {
		t.Errorf("Expected the a/b/ driver to resolve a/b/c")
	}
	if relKey != "c" {
		t.Errorf("Expected relative key %q, got %q", "c", relKey)
	}

	driver, relKey = table.resolve("a/x")
	if driver != outer {
		t.Errorf("Expected the a/ driver to resolve a/x")
	}
	if relKey != "x" {
		t.Errorf("Expected relative key %q, got %q", "x", relKey)
	}

	driver, _ = table.resolve("unrelated")
	if driver != root {
		t.Errorf("Expected the root driver to resolve unrelated keys")
	}
}

// TestAddConflict tests that a used base can not be mounted twice
func TestAddConflict(t *testing.T) {
	table := newMountTable(memory.NewMemoryDriver())

	if err := table.add("a/", memory.NewMemoryDriver()); err != nil {
		t.Fatalf("Unexpected error during add: %v", err)
	}

	err := table.add("a/", memory.NewMemoryDriver())
	if err == nil {
		t.Fatalf("Expected conflict error for duplicate base")
	}
	storageErr, ok := err.(*Error)
	if !ok || storageErr.Code != RetCMountConflict {
		t.Errorf("Expected RetCMountConflict, got %v", err)
	}

	// the root base is always in use
	if err := table.add("", memory.NewMemoryDriver()); err == nil {
		t.Errorf("Expected conflict error for root re-mount")
	}
}

// TestRemoveIgnoresRootAndUnknown tests the silent no-op contract
func TestRemoveIgnoresRootAndUnknown(t *testing.T) {
	table := newMountTable(memory.NewMemoryDriver())
	if err := table.add("a/", memory.NewMemoryDriver()); err != nil {
		t.Fatalf("Unexpected error during add: %v", err)
	}

	table.remove("")
	table.remove("unknown/")
	if len(table.all()) != 2 {
		t.Errorf("Expected both entries to survive, got %d", len(table.all()))
	}

	table.remove("a/")
	if len(table.all()) != 1 {
		t.Errorf("Expected only the root entry to survive, got %d", len(table.all()))
	}
}

// TestResolveOverlapping tests ancestor and descendant matching
func TestResolveOverlapping(t *testing.T) {
	root := memory.NewMemoryDriver()
	docs := memory.NewMemoryDriver()
	archive := memory.NewMemoryDriver()
	other := memory.NewMemoryDriver()

	table := newMountTable(root)
	if err := table.add("docs/", docs); err != nil {
		t.Fatalf("Unexpected error during add: %v", err)
	}
	if err := table.add("docs/archive/", archive); err != nil {
		t.Fatalf("Unexpected error during add: %v", err)
	}
	if err := table.add("other/", other); err != nil {
		t.Fatalf("Unexpected error during add: %v", err)
	}

	mounts := table.resolveOverlapping("docs/")

	found := map[string]string{}
	for _, mount := range mounts {
		found[mount.base] = mount.relBase
	}

	if len(found) != 3 {
		t.Fatalf("Expected root, docs/ and docs/archive/ to overlap docs/, got %v", found)
	}
	if relBase, ok := found[""]; !ok || relBase != "docs/" {
		t.Errorf("Expected root mount with relative base docs/, got %q", relBase)
	}
	if relBase, ok := found["docs/"]; !ok || relBase != "" {
		t.Errorf("Expected docs/ mount with empty relative base, got %q", relBase)
	}
	if relBase, ok := found["docs/archive/"]; !ok || relBase != "" {
		t.Errorf("Expected docs/archive/ mount with empty relative base, got %q", relBase)
	}
	if _, ok := found["other/"]; ok {
		t.Errorf("Expected other/ to not overlap docs/")
	}
}
