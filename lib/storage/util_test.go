package storage

import "testing"

// TestNormalizeKey tests canonicalization of arbitrary key strings
func TestNormalizeKey(t *testing.T) {
	cases := map[string]string{
		"":              "",
		"/":             "",
		"foo":           "foo",
		"/foo/":         "foo",
		"foo//bar":      "foo/bar",
		"///foo///bar/": "foo/bar",
		"foo\\bar":      "foo/bar",
		"Foo/Bar":       "Foo/Bar", // case is preserved
	}

	for input, expected := range cases {
		if got := NormalizeKey(input); got != expected {
			t.Errorf("NormalizeKey(%q) = %q, expected %q", input, got, expected)
		}
	}
}

// TestNormalizeBase tests canonicalization of base prefixes
func TestNormalizeBase(t *testing.T) {
	cases := map[string]string{
		"":         "",
		"/":        "",
		"foo":      "foo/",
		"foo/":     "foo/",
		"/foo/bar": "foo/bar/",
	}

	for input, expected := range cases {
		if got := NormalizeBase(input); got != expected {
			t.Errorf("NormalizeBase(%q) = %q, expected %q", input, got, expected)
		}
	}
}

// TestNormalizeIdempotent tests that normalizing twice is a no-op
func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"", "/", "foo", "/a//b\\c/", "a/b/c"}

	for _, input := range inputs {
		key := NormalizeKey(input)
		if got := NormalizeKey(key); got != key {
			t.Errorf("NormalizeKey not idempotent: %q -> %q", key, got)
		}

		base := NormalizeBase(input)
		if got := NormalizeBase(base); got != base {
			t.Errorf("NormalizeBase not idempotent: %q -> %q", base, got)
		}
	}
}
