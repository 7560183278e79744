package storage

import (
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Key Normalization
// --------------------------------------------------------------------------

const (
	// Separator is the canonical key separator.
	Separator = "/"

	// MetaSuffix marks shadow metadata keys. Keys ending in this suffix are
	// implementation-internal and never surfaced by Keys.
	MetaSuffix = "$"
)

// NormalizeKey converts an arbitrary key string into canonical form:
// backslashes become the canonical separator, duplicate separators collapse
// and leading/trailing separators are stripped. Pure and idempotent.
func NormalizeKey(key string) string {
	key = strings.ReplaceAll(key, "\\", Separator)
	for strings.Contains(key, Separator+Separator) {
		key = strings.ReplaceAll(key, Separator+Separator, Separator)
	}
	return strings.Trim(key, Separator)
}

// NormalizeBase normalizes like NormalizeKey and additionally ensures a
// trailing separator unless the result is empty (the root base).
func NormalizeBase(base string) string {
	base = NormalizeKey(base)
	if base == "" {
		return ""
	}
	return base + Separator
}

// isMetaKey reports whether a key is a shadow metadata key
func isMetaKey(key string) bool {
	return strings.HasSuffix(key, MetaSuffix)
}

// --------------------------------------------------------------------------
// Metadata Helpers
// --------------------------------------------------------------------------

// reviveMetaValue reconstitutes timestamp-shaped string fields of a shadow
// metadata record into time values. Only the recognized field names are
// touched, everything else passes through unchanged.
func reviveMetaValue(field string, value interface{}) interface{} {
	if field != "atime" && field != "mtime" {
		return value
	}
	s, ok := value.(string)
	if !ok {
		return value
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	return value
}
