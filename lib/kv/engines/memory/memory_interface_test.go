package memory

import (
	gotesting "testing"

	"github.com/ValentinKolb/uKV/lib/kv"
	"github.com/ValentinKolb/uKV/lib/kv/testing"
)

// TestMemoryDriver runs the generic driver conformance suite
func TestMemoryDriver(t *gotesting.T) {
	testing.RunDriverTests(t, "Memory", func() kv.Driver {
		return NewMemoryDriver()
	})
}

// TestMemoryDriverRestricted runs the suite against a feature-masked
// driver to make sure the wrapper and the skip logic line up
func TestMemoryDriverRestricted(t *gotesting.T) {
	testing.RunDriverTests(t, "MemoryReadOnly", func() kv.Driver {
		return testing.Restrict(NewMemoryDriver(), kv.FeatureReadOnly)
	})
}
