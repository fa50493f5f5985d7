package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/encoding/charmap"
)

func TestFetch_CachesInMemory(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<p>Art. 1º</p>"))
	}))
	defer server.Close()

	fetcher := New(WithoutRobots(), WithRateLimit(1000, 10), WithHTTPClient(server.Client()))

	first, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	second, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("second Fetch failed: %v", err)
	}

	if hits != 1 {
		t.Errorf("server hits: got %d, want 1", hits)
	}
	if first.Body != second.Body {
		t.Errorf("cached body differs: %q vs %q", first.Body, second.Body)
	}
	if !strings.Contains(first.Body, "Art. 1º") {
		t.Errorf("Body: got %q", first.Body)
	}
}

func TestFetch_DiskCacheSurvivesNewFetcher(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte("corpo da lei"))
	}))
	defer server.Close()

	cacheDir := t.TempDir()

	first := New(WithoutRobots(), WithRateLimit(1000, 10), WithHTTPClient(server.Client()), WithDiskCache(cacheDir, time.Hour))
	if _, err := first.Fetch(context.Background(), server.URL); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	second := New(WithoutRobots(), WithRateLimit(1000, 10), WithHTTPClient(server.Client()), WithDiskCache(cacheDir, time.Hour))
	result, err := second.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch from disk cache failed: %v", err)
	}

	if hits != 1 {
		t.Errorf("server hits: got %d, want 1", hits)
	}
	if result.Body != "corpo da lei" {
		t.Errorf("Body: got %q", result.Body)
	}
}

func TestFetch_TranscodesLatin1(t *testing.T) {
	// "Constituição" encoded as ISO-8859-1.
	encoded, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte("Constituição"))
	if err != nil {
		t.Fatalf("encoding fixture failed: %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		_, _ = w.Write(encoded)
	}))
	defer server.Close()

	fetcher := New(WithoutRobots(), WithRateLimit(1000, 10), WithHTTPClient(server.Client()))
	result, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if result.Body != "Constituição" {
		t.Errorf("Body: got %q, want %q", result.Body, "Constituição")
	}
}

func TestFetch_UndeclaredLatin1Fallback(t *testing.T) {
	encoded, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte("Seção II"))
	if err != nil {
		t.Fatalf("encoding fixture failed: %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// No charset declared; the body is not valid UTF-8.
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write(encoded)
	}))
	defer server.Close()

	fetcher := New(WithoutRobots(), WithRateLimit(1000, 10), WithHTTPClient(server.Client()))
	result, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if result.Body != "Seção II" {
		t.Errorf("Body: got %q, want %q", result.Body, "Seção II")
	}
}

func TestFetch_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	fetcher := New(WithoutRobots(), WithRateLimit(1000, 10), WithHTTPClient(server.Client()))
	if _, err := fetcher.Fetch(context.Background(), server.URL); err == nil {
		t.Fatal("Fetch accepted a 404 response")
	}
}

func TestFetch_RobotsDisallow(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /privado/\n"))
	})
	mux.HandleFunc("/privado/lei", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("não deveria ser buscado"))
	})
	mux.HandleFunc("/publico/lei", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("texto público"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	fetcher := New(WithRateLimit(1000, 10), WithHTTPClient(server.Client()))

	if _, err := fetcher.Fetch(context.Background(), server.URL+"/privado/lei"); err == nil {
		t.Error("Fetch ignored robots.txt disallow")
	}

	result, err := fetcher.Fetch(context.Background(), server.URL+"/publico/lei")
	if err != nil {
		t.Fatalf("Fetch of allowed path failed: %v", err)
	}
	if result.Body != "texto público" {
		t.Errorf("Body: got %q", result.Body)
	}
}

func TestFetch_RobotsUsesConfiguredAgent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("User-agent: lexbot\nDisallow: /\n\nUser-agent: *\nDisallow:\n"))
	})
	mux.HandleFunc("/lei", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("texto da lei"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	blocked := New(WithUserAgent("lexbot"), WithRateLimit(1000, 10), WithHTTPClient(server.Client()))
	if _, err := blocked.Fetch(context.Background(), server.URL+"/lei"); err == nil {
		t.Error("Fetch ignored the robots.txt rules for the configured agent")
	}

	allowed := New(WithRateLimit(1000, 10), WithHTTPClient(server.Client()))
	result, err := allowed.Fetch(context.Background(), server.URL+"/lei")
	if err != nil {
		t.Fatalf("Fetch with default agent failed: %v", err)
	}
	if result.Body != "texto da lei" {
		t.Errorf("Body: got %q", result.Body)
	}
}

func TestFetch_DiskCacheWriteFailureKeepsResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("corpo da lei"))
	}))
	defer server.Close()

	cacheDir := filepath.Join(t.TempDir(), "cache")
	fetcher := New(WithoutRobots(), WithRateLimit(1000, 10), WithHTTPClient(server.Client()), WithDiskCache(cacheDir, time.Hour))

	// Replace the cache directory with a file so every cache write fails.
	if err := os.RemoveAll(cacheDir); err != nil {
		t.Fatalf("removing cache dir: %v", err)
	}
	if err := os.WriteFile(cacheDir, []byte("x"), 0o644); err != nil {
		t.Fatalf("blocking cache dir: %v", err)
	}

	result, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed on a cache write problem: %v", err)
	}
	if result.Body != "corpo da lei" {
		t.Errorf("Body: got %q", result.Body)
	}
}

func TestFetch_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte("lento"))
	}))
	defer server.Close()

	fetcher := New(WithoutRobots(), WithRateLimit(1000, 10), WithHTTPClient(server.Client()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := fetcher.Fetch(ctx, server.URL); err == nil {
		t.Fatal("Fetch ignored context cancellation")
	}
}
