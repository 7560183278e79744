package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/ValentinKolb/uKV/lib/storage"
)

func newTestServer(t *testing.T) (*httptest.Server, storage.IStorage) {
	t.Helper()
	s := storage.New(nil)
	srv := httptest.NewServer(NewServer(s, Config{Endpoint: "test"}).Handler())
	t.Cleanup(srv.Close)
	return srv, s
}

func doRequest(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("Unexpected error creating request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Unexpected error during %s %s: %v", method, url, err)
	}
	return resp
}

// TestPutGetRoundTrip tests that values survive a PUT/GET cycle verbatim
func TestPutGetRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doRequest(t, http.MethodPut, srv.URL+"/kv/docs/readme", "hello world")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("Expected 204 for PUT, got %d", resp.StatusCode)
	}

	resp = doRequest(t, http.MethodGet, srv.URL+"/kv/docs/readme", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 for GET, got %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("Unexpected error reading response body: %v", err)
	}
	if string(body) != "hello world" {
		t.Errorf("Expected verbatim body, got %q", string(body))
	}
}

// TestGetMissing tests the 404 contract
func TestGetMissing(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/kv/missing", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for missing key, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

// TestHead tests existence checks without a body
func TestHead(t *testing.T) {
	srv, s := newTestServer(t)

	if err := s.Set("key", "value"); err != nil {
		t.Fatalf("Unexpected error during Set: %v", err)
	}

	resp := doRequest(t, http.MethodHead, srv.URL+"/kv/key", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("Expected 204 for existing key, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doRequest(t, http.MethodHead, srv.URL+"/kv/missing", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for missing key, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

// TestKeyList tests the trailing slash listing
func TestKeyList(t *testing.T) {
	srv, s := newTestServer(t)

	for _, key := range []string{"docs/a", "docs/b", "other/c"} {
		if err := s.Set(key, "v"); err != nil {
			t.Fatalf("Unexpected error during Set: %v", err)
		}
	}

	resp := doRequest(t, http.MethodGet, srv.URL+"/kv/docs/", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 for key list, got %d", resp.StatusCode)
	}
	var keys []string
	if err := json.NewDecoder(resp.Body).Decode(&keys); err != nil {
		t.Fatalf("Unexpected error decoding key list: %v", err)
	}
	resp.Body.Close()

	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "docs/a" || keys[1] != "docs/b" {
		t.Errorf("Expected {docs/a, docs/b}, got %v", keys)
	}
}

// TestDelete tests single key removal and base clearing
func TestDelete(t *testing.T) {
	srv, s := newTestServer(t)

	for _, key := range []string{"docs/a", "docs/b", "other/c"} {
		if err := s.Set(key, "v"); err != nil {
			t.Fatalf("Unexpected error during Set: %v", err)
		}
	}

	resp := doRequest(t, http.MethodDelete, srv.URL+"/kv/docs/a", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("Expected 204 for DELETE, got %d", resp.StatusCode)
	}
	resp.Body.Close()
	if loaded, _ := s.Has("docs/a"); loaded {
		t.Errorf("Expected docs/a to be removed")
	}

	resp = doRequest(t, http.MethodDelete, srv.URL+"/kv/docs/", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("Expected 204 for DELETE of base, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	keys, err := s.Keys("")
	if err != nil {
		t.Fatalf("Unexpected error during Keys: %v", err)
	}
	if len(keys) != 1 || keys[0] != "other/c" {
		t.Errorf("Expected only other/c to survive, got %v", keys)
	}
}

// TestMetricsEndpoint tests the Prometheus export
func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	// at least one counted request
	resp := doRequest(t, http.MethodGet, srv.URL+"/kv/missing", "")
	resp.Body.Close()

	resp = doRequest(t, http.MethodGet, srv.URL+"/metrics", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 for metrics, got %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("Unexpected error reading metrics body: %v", err)
	}

	if !strings.Contains(string(body), "ukv_http_requests_total") {
		t.Errorf("Expected request counters in metrics export")
	}
}
