package opml

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFetchURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "newsriver-test" {
			t.Errorf("Expected custom user agent, got %q", r.Header.Get("User-Agent"))
		}
		w.Write([]byte(`<opml><body><outline title="T" xmlUrl="https://e.com/f"/></body></opml>`))
	}))
	defer server.Close()

	fetcher := NewFetcher(5*time.Second, "newsriver-test")
	data, err := fetcher.Run(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(data) == 0 {
		t.Error("Expected response body")
	}
}

func TestFetchURLNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewFetcher(5*time.Second, "")
	_, err := fetcher.Run(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected error for 404 response")
	}

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected *FetchError, got %T", err)
	}
	if fetchErr.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404 in error, got %d", fetchErr.StatusCode)
	}
}

func TestFetchLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subs.opml")
	if err := os.WriteFile(path, []byte("<opml/>"), 0644); err != nil {
		t.Fatal(err)
	}

	fetcher := NewFetcher(0, "")
	data, err := fetcher.Run(context.Background(), path)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if string(data) != "<opml/>" {
		t.Errorf("Unexpected file contents: %q", data)
	}
}

func TestFetchMissingFile(t *testing.T) {
	fetcher := NewFetcher(0, "")
	_, err := fetcher.Run(context.Background(), filepath.Join(t.TempDir(), "absent.opml"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected *FetchError, got %T", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mappings.yml")
	content := `mappings:
  - raw: EMAIL
    internal: owner_email
  - raw: FeedUrl
remove:
  - RATING
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	attrs := DefaultAttributeMap()
	if err := attrs.LoadOverrides(path); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if attrs["EMAIL"] != "owner_email" {
		t.Errorf("Expected EMAIL -> owner_email, got %q", attrs["EMAIL"])
	}
	if attrs["FEEDURL"] != "feedurl" {
		t.Errorf("Expected derived FEEDURL -> feedurl, got %q", attrs["FEEDURL"])
	}
	if _, ok := attrs["RATING"]; ok {
		t.Error("Expected RATING to be removed")
	}
}

func TestLoadOverridesInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mappings.yml")
	if err := os.WriteFile(path, []byte("mappings: [broken"), 0644); err != nil {
		t.Fatal(err)
	}

	attrs := DefaultAttributeMap()
	if err := attrs.LoadOverrides(path); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}
