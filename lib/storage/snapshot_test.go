package storage

import (
	"testing"

	"github.com/ValentinKolb/uKV/lib/kv/engines/memory"
	"github.com/google/go-cmp/cmp"
)

// TestSnapshotRestore tests a full snapshot/restore round trip across
// storage instances
func TestSnapshotRestore(t *testing.T) {
	source := New(nil)

	values := map[string]interface{}{
		"config/name":  "ukv",
		"config/debug": true,
		"data/count":   float64(7),
	}
	for key, value := range values {
		if err := source.Set(key, value); err != nil {
			t.Fatalf("Unexpected error during Set: %v", err)
		}
	}

	snap, err := Snapshot(source, "")
	if err != nil {
		t.Fatalf("Unexpected error during Snapshot: %v", err)
	}
	if diff := cmp.Diff(values, snap); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}

	target := New(nil)
	if err := RestoreSnapshot(target, snap, ""); err != nil {
		t.Fatalf("Unexpected error during RestoreSnapshot: %v", err)
	}

	for key, expected := range values {
		got, err := target.Get(key)
		if err != nil {
			t.Fatalf("Unexpected error during Get: %v", err)
		}
		if diff := cmp.Diff(expected, got); diff != "" {
			t.Errorf("restored value mismatch for %s (-want +got):\n%s", key, diff)
		}
	}
}

// TestSnapshotBase tests that the base prefix scopes and strips keys
func TestSnapshotBase(t *testing.T) {
	s := New(nil)

	for key, value := range map[string]interface{}{
		"docs/a":  "1",
		"docs/b":  "2",
		"other/c": "3",
	} {
		if err := s.Set(key, value); err != nil {
			t.Fatalf("Unexpected error during Set: %v", err)
		}
	}

	snap, err := Snapshot(s, "docs/")
	if err != nil {
		t.Fatalf("Unexpected error during Snapshot: %v", err)
	}

	expected := map[string]interface{}{"a": "1", "b": "2"}
	if diff := cmp.Diff(expected, snap); diff != "" {
		t.Errorf("scoped snapshot mismatch (-want +got):\n%s", diff)
	}
}

// TestRestoreBase tests that restored keys are re-prefixed under the base
func TestRestoreBase(t *testing.T) {
	s := New(nil)

	snap := map[string]interface{}{"a": "1", "b": "2"}
	if err := RestoreSnapshot(s, snap, "restored/"); err != nil {
		t.Fatalf("Unexpected error during RestoreSnapshot: %v", err)
	}

	keys, err := s.Keys("restored/")
	if err != nil {
		t.Fatalf("Unexpected error during Keys: %v", err)
	}
	if !sortedEqual(keys, []string{"restored/a", "restored/b"}) {
		t.Errorf("Expected restored keys under restored/, got %v", keys)
	}
}

// TestSnapshotAcrossMounts tests that a snapshot spans mounted drivers
func TestSnapshotAcrossMounts(t *testing.T) {
	s := New(nil)

	sub := memory.NewMemoryDriver()
	if err := s.Mount("sub/", sub); err != nil {
		t.Fatalf("Unexpected error during Mount: %v", err)
	}

	if err := s.Set("root-key", "r"); err != nil {
		t.Fatalf("Unexpected error during Set: %v", err)
	}
	if err := s.Set("sub/key", "s"); err != nil {
		t.Fatalf("Unexpected error during Set: %v", err)
	}

	snap, err := Snapshot(s, "")
	if err != nil {
		t.Fatalf("Unexpected error during Snapshot: %v", err)
	}

	expected := map[string]interface{}{"root-key": "r", "sub/key": "s"}
	if diff := cmp.Diff(expected, snap); diff != "" {
		t.Errorf("cross-mount snapshot mismatch (-want +got):\n%s", diff)
	}
}
