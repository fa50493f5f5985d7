// Package fetch retrieves legislative source pages over HTTP with layered
// caching, per-host rate limiting, robots.txt compliance, and charset
// normalization for the latin-1 pages planalto.gov.br still serves.
package fetch

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/time/rate"
)

// defaultUserAgent identifies the portal's fetcher to source sites.
const defaultUserAgent = "lexbr/0.1 (+https://github.com/portaldeleis/lexbr)"

// Result is one completed page fetch. Body is always UTF-8 regardless of
// the encoding the source served.
type Result struct {
	URL        string    `json:"url"`
	StatusCode int       `json:"status_code"`
	Body       string    `json:"body"`
	FetchedAt  time.Time `json:"fetched_at"`
}

// Fetcher retrieves pages with memory and disk caching in front of the
// network and politeness controls (per-host rate limits, robots.txt) behind
// them.
type Fetcher struct {
	client    *http.Client
	userAgent string

	mem  *MemoryCache
	disk *DiskCache

	robots   *RobotsChecker
	noRobots bool

	mu         sync.Mutex
	limiters   map[string]*rate.Limiter
	perHostRPS rate.Limit
	burst      int
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithDiskCache adds a persistent cache layer rooted at dir with the given
// TTL.
func WithDiskCache(dir string, ttl time.Duration) Option {
	return func(f *Fetcher) {
		disk, err := NewDiskCache(dir, ttl)
		if err == nil {
			f.disk = disk
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithRateLimit sets the per-host request rate and burst.
func WithRateLimit(requestsPerSecond float64, burst int) Option {
	return func(f *Fetcher) {
		f.perHostRPS = rate.Limit(requestsPerSecond)
		if burst > 0 {
			f.burst = burst
		}
	}
}

// WithoutRobots disables robots.txt checking, for offline mirrors and
// tests.
func WithoutRobots() Option {
	return func(f *Fetcher) {
		f.noRobots = true
	}
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// New creates a Fetcher with an in-memory cache, robots.txt checking, and a
// conservative default of one request per second per host.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:     &http.Client{Timeout: 30 * time.Second},
		userAgent:  defaultUserAgent,
		mem:        NewMemoryCache(1*time.Hour, 10*time.Minute),
		limiters:   make(map[string]*rate.Limiter),
		perHostRPS: rate.Limit(1),
		burst:      2,
	}

	for _, opt := range opts {
		opt(f)
	}

	// The robots checker must evaluate rules for the same agent the
	// requests will carry, so it is built after the options settle the
	// user agent and client.
	if !f.noRobots {
		f.robots = NewRobotsChecker(f.userAgent, f.client)
	}
	return f
}

// Fetch retrieves rawURL, consulting the memory and disk caches first. On a
// miss it checks robots.txt, waits for rate-limit clearance, performs the
// request, transcodes the body to UTF-8, and populates both cache layers.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Result, error) {
	if result, ok := f.mem.Get(rawURL); ok {
		return result, nil
	}
	if f.disk != nil {
		if result, ok := f.disk.Get(rawURL); ok {
			f.mem.Set(rawURL, result)
			return result, nil
		}
	}

	if f.robots != nil {
		allowed, err := f.robots.Allowed(ctx, rawURL)
		if err != nil {
			return Result{}, fmt.Errorf("robots check for %s: %w", rawURL, err)
		}
		if !allowed {
			return Result{}, fmt.Errorf("robots.txt disallows fetching %s", rawURL)
		}
	}

	if err := f.wait(ctx, rawURL); err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Result{}, fmt.Errorf("building request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("reading body of %s: %w", rawURL, err)
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("fetching %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	result := Result{
		URL:        rawURL,
		StatusCode: resp.StatusCode,
		Body:       decodeBody(raw, resp.Header.Get("Content-Type")),
		FetchedAt:  time.Now().UTC(),
	}

	f.mem.Set(rawURL, result)
	if f.disk != nil {
		// Best effort, like the read path: a cache write failure must not
		// discard a fetched page.
		_ = f.disk.Set(rawURL, result)
	}
	return result, nil
}

// wait blocks until the per-host rate limiter clears the request.
func (f *Fetcher) wait(ctx context.Context, rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse URL: %w", err)
	}

	f.mu.Lock()
	limiter, ok := f.limiters[parsed.Host]
	if !ok {
		limiter = rate.NewLimiter(f.perHostRPS, f.burst)
		f.limiters[parsed.Host] = limiter
	}
	f.mu.Unlock()

	return limiter.Wait(ctx)
}

// decodeBody converts a response body to UTF-8. The declared charset wins;
// without one, bodies that are not valid UTF-8 are assumed latin-1, the
// historical encoding of the planalto pages.
func decodeBody(raw []byte, contentType string) string {
	charset := ""
	if contentType != "" {
		if _, params, err := mime.ParseMediaType(contentType); err == nil {
			charset = strings.ToLower(params["charset"])
		}
	}

	switch charset {
	case "iso-8859-1", "latin1", "latin-1":
		return decodeLatin1(raw)
	case "windows-1252", "cp1252":
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
		if err == nil {
			return string(decoded)
		}
		return decodeLatin1(raw)
	case "utf-8", "utf8":
		return string(raw)
	}

	if utf8.Valid(raw) {
		return string(raw)
	}
	return decodeLatin1(raw)
}

// decodeLatin1 transcodes ISO-8859-1 bytes to UTF-8; the decoder is total
// over byte input, so the error path is unreachable.
func decodeLatin1(raw []byte) string {
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}
