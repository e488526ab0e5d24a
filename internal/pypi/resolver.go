package pypi

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pyforge-dev/pyforge/internal/project"
)

// Fallback records a package whose live lookup failed after all retries and
// which therefore keeps its compiled-in default version.
type Fallback struct {
	Name string
	Err  error
}

// Resolver fills in the latest stable versions for a configuration's
// dependency map using a bounded worker pool.
type Resolver struct {
	client   *Client
	workers  int
	attempts int
	backoff  time.Duration
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithWorkers caps the number of concurrent lookups.
func WithWorkers(n int) ResolverOption {
	return func(r *Resolver) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithAttempts sets the per-package attempt ceiling.
func WithAttempts(n int) ResolverOption {
	return func(r *Resolver) {
		if n > 0 {
			r.attempts = n
		}
	}
}

// WithBackoff sets the initial retry delay. The delay doubles after each
// failed attempt.
func WithBackoff(d time.Duration) ResolverOption {
	return func(r *Resolver) {
		if d > 0 {
			r.backoff = d
		}
	}
}

// NewResolver creates a Resolver for the given client.
func NewResolver(client *Client, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		client:   client,
		workers:  8,
		attempts: 3,
		backoff:  500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve replaces the default version of every dependency in cfg with the
// latest stable release from the index. With skip set, no network calls are
// made and every default is kept. A package whose lookup fails after all
// retries keeps its default and is reported in the returned fallback list;
// Resolve itself never fails.
func (r *Resolver) Resolve(ctx context.Context, cfg *project.Config, skip bool) []Fallback {
	if skip || len(cfg.Dependencies) == 0 {
		return nil
	}

	names := make([]string, 0, len(cfg.Dependencies))
	for name := range cfg.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	var mu sync.Mutex
	var fallbacks []Fallback

	g := new(errgroup.Group)
	g.SetLimit(r.workers)
	for _, name := range names {
		spec := cfg.Dependencies[name]
		g.Go(func() error {
			version, err := r.lookup(ctx, indexName(name))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				fallbacks = append(fallbacks, Fallback{Name: name, Err: err})
				return nil
			}
			spec.Version = version
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(fallbacks, func(i, j int) bool { return fallbacks[i].Name < fallbacks[j].Name })
	return fallbacks
}

// lookup fetches one package's latest version, retrying transient failures
// with exponential backoff up to the attempt ceiling.
func (r *Resolver) lookup(ctx context.Context, name string) (string, error) {
	delay := r.backoff
	var lastErr error
	for attempt := 0; attempt < r.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		version, err := r.client.LatestVersion(ctx, name)
		if err == nil {
			return version, nil
		}
		lastErr = err
		if !IsRetryable(err) {
			break
		}
	}
	return "", lastErr
}

// indexName strips a PEP 508 extras suffix, e.g. "mkdocstrings[python]" ->
// "mkdocstrings". The index only knows the bare distribution name.
func indexName(name string) string {
	if i := strings.IndexByte(name, '['); i >= 0 {
		return name[:i]
	}
	return name
}
