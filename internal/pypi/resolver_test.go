package pypi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pyforge-dev/pyforge/internal/project"
)

// countingHandler records every request path and delegates to serve.
type countingHandler struct {
	mu    sync.Mutex
	paths []string
	serve http.HandlerFunc
}

func (h *countingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	h.paths = append(h.paths, r.URL.Path)
	h.mu.Unlock()
	h.serve(w, r)
}

func (h *countingHandler) requests() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.paths...)
}

func testConfig() *project.Config {
	return &project.Config{
		Dependencies: map[string]*project.PackageSpec{
			"pytest":               {Name: "pytest", Group: project.GroupDev, Constraint: project.ConstraintPinned, Version: "8.4.1"},
			"mkdocstrings[python]": {Name: "mkdocstrings[python]", Group: project.GroupDocs, Constraint: project.ConstraintPinned, Version: "0.30.0"},
		},
	}
}

func newTestResolver(t *testing.T, handler http.Handler, opts ...ResolverOption) *Resolver {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	return NewResolver(client, opts...)
}

func TestResolveSkip(t *testing.T) {
	handler := &countingHandler{serve: func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, metadataJSON("9.9.9", false))
	}}
	resolver := newTestResolver(t, handler)
	cfg := testConfig()

	fallbacks := resolver.Resolve(context.Background(), cfg, true)
	if fallbacks != nil {
		t.Errorf("fallbacks = %v, want none", fallbacks)
	}
	if n := len(handler.requests()); n != 0 {
		t.Errorf("made %d requests, want 0", n)
	}
	if cfg.Dependencies["pytest"].Version != "8.4.1" {
		t.Error("skip must keep the default versions")
	}
}

func TestResolveUpdatesVersions(t *testing.T) {
	handler := &countingHandler{serve: func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, metadataJSON("9.9.9", false))
	}}
	resolver := newTestResolver(t, handler)
	cfg := testConfig()

	fallbacks := resolver.Resolve(context.Background(), cfg, false)
	if len(fallbacks) != 0 {
		t.Fatalf("fallbacks = %v, want none", fallbacks)
	}
	for name, spec := range cfg.Dependencies {
		if spec.Version != "9.9.9" {
			t.Errorf("%s version = %q, want 9.9.9", name, spec.Version)
		}
	}

	// Extras are stripped before asking the index.
	sawBare := false
	for _, path := range handler.requests() {
		if strings.Contains(path, "[") {
			t.Errorf("request path %q still carries an extras suffix", path)
		}
		if path == "/mkdocstrings/json" {
			sawBare = true
		}
	}
	if !sawBare {
		t.Error("no request for the bare mkdocstrings distribution")
	}
}

func TestResolveFallbackAfterRetries(t *testing.T) {
	handler := &countingHandler{serve: func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}}
	resolver := newTestResolver(t, handler, WithAttempts(3), WithBackoff(time.Millisecond))
	cfg := testConfig()

	fallbacks := resolver.Resolve(context.Background(), cfg, false)
	if len(fallbacks) != 2 {
		t.Fatalf("fallbacks = %v, want both packages", fallbacks)
	}
	// Sorted by package name.
	if fallbacks[0].Name != "mkdocstrings[python]" || fallbacks[1].Name != "pytest" {
		t.Errorf("fallback order = %v, want sorted by name", fallbacks)
	}
	for _, fb := range fallbacks {
		if fb.Err == nil {
			t.Errorf("fallback %s carries no error", fb.Name)
		}
	}
	if cfg.Dependencies["pytest"].Version != "8.4.1" {
		t.Error("a failed lookup must keep the default version")
	}

	perPackage := make(map[string]int)
	for _, path := range handler.requests() {
		perPackage[path]++
	}
	for path, n := range perPackage {
		if n != 3 {
			t.Errorf("%s fetched %d times, want 3 attempts", path, n)
		}
	}
}

func TestResolveDoesNotRetryNotFound(t *testing.T) {
	handler := &countingHandler{serve: func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}}
	resolver := newTestResolver(t, handler, WithAttempts(3), WithBackoff(time.Millisecond))
	cfg := testConfig()

	fallbacks := resolver.Resolve(context.Background(), cfg, false)
	if len(fallbacks) != 2 {
		t.Fatalf("fallbacks = %v, want both packages", fallbacks)
	}
	perPackage := make(map[string]int)
	for _, path := range handler.requests() {
		perPackage[path]++
	}
	for path, n := range perPackage {
		if n != 1 {
			t.Errorf("%s fetched %d times, want a single attempt for a 404", path, n)
		}
	}
}

func TestResolveRetriesThenSucceeds(t *testing.T) {
	var mu sync.Mutex
	failures := 2
	handler := &countingHandler{serve: func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		fail := failures > 0
		if fail {
			failures--
		}
		mu.Unlock()
		if fail {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, metadataJSON("9.9.9", false))
	}}
	resolver := newTestResolver(t, handler, WithAttempts(3), WithBackoff(time.Millisecond), WithWorkers(1))
	cfg := &project.Config{
		Dependencies: map[string]*project.PackageSpec{
			"pytest": {Name: "pytest", Group: project.GroupDev, Constraint: project.ConstraintPinned, Version: "8.4.1"},
		},
	}

	fallbacks := resolver.Resolve(context.Background(), cfg, false)
	if len(fallbacks) != 0 {
		t.Fatalf("fallbacks = %v, want none after a successful retry", fallbacks)
	}
	if cfg.Dependencies["pytest"].Version != "9.9.9" {
		t.Errorf("version = %q, want 9.9.9", cfg.Dependencies["pytest"].Version)
	}
	if n := len(handler.requests()); n != 3 {
		t.Errorf("made %d requests, want 3", n)
	}
}

func TestResolveEmptyDependencies(t *testing.T) {
	resolver := NewResolver(NewClient())
	cfg := &project.Config{}
	if fallbacks := resolver.Resolve(context.Background(), cfg, false); fallbacks != nil {
		t.Errorf("fallbacks = %v, want none for an empty dependency map", fallbacks)
	}
}
