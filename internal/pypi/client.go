package pypi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Masterminds/semver/v3"
)

const defaultBaseURL = "https://pypi.org/pypi"

// Client fetches package metadata from a PyPI-compatible JSON API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL points the client at a different package index (useful for
// testing against a fake server).
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUserAgent sets the User-Agent header sent with each request.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a Client with a per-request timeout baked into its HTTP
// client and the given options applied.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		userAgent:  "pyforge",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StatusError is a non-2xx response from the package index.
type StatusError struct {
	Package    string
	StatusCode int
}

func (e *StatusError) Error() string {
	if e.StatusCode == http.StatusNotFound {
		return fmt.Sprintf("package %q not found on the index", e.Package)
	}
	return fmt.Sprintf("index returned status %d for package %q", e.StatusCode, e.Package)
}

// VersionError means the index answered but its latest release is unusable
// (yanked, prerelease-only, or unparseable). Retrying will not help.
type VersionError struct {
	Package string
	Version string
	Reason  string
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("package %q version %q: %s", e.Package, e.Version, e.Reason)
}

// IsRetryable reports whether a lookup failure is worth retrying: transport
// errors and 5xx responses are, everything the index answered definitively is
// not.
func IsRetryable(err error) bool {
	var ve *VersionError
	if errors.As(err, &ve) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= 500
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	return true
}

type packageMetadata struct {
	Info struct {
		Name    string `json:"name"`
		Version string `json:"version"`
		Yanked  bool   `json:"yanked"`
	} `json:"info"`
}

// LatestVersion returns the latest stable release of a package. Yanked,
// prerelease, and unparseable versions are errors; the caller decides how to
// fall back.
func (c *Client) LatestVersion(ctx context.Context, name string) (string, error) {
	url := fmt.Sprintf("%s/%s/json", c.baseURL, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request for %q: %w", name, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching metadata for %q: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{Package: name, StatusCode: resp.StatusCode}
	}

	var meta packageMetadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return "", fmt.Errorf("parsing metadata for %q: %w", name, err)
	}

	if meta.Info.Yanked {
		return "", &VersionError{Package: name, Version: meta.Info.Version, Reason: "latest release is yanked"}
	}

	v, err := semver.NewVersion(meta.Info.Version)
	if err != nil {
		return "", &VersionError{Package: name, Version: meta.Info.Version, Reason: "not a parseable version"}
	}
	if v.Prerelease() != "" {
		return "", &VersionError{Package: name, Version: meta.Info.Version, Reason: "latest release is a prerelease"}
	}

	return meta.Info.Version, nil
}
