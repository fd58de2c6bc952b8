package opml

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"
)

const maxRedirects = 10

// Fetcher retrieves OPML documents from HTTP(S) URLs or local paths.
// Network retrieval is bounded: the connect and total timeouts both
// default to 120 seconds, certificate verification stays on, and
// redirects are followed for at most ten hops.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: timeout,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		userAgent: userAgent,
	}
}

// Run fetches the document at location, which is treated as a URL when
// it carries an http or https scheme and as a local file path otherwise.
// All retrieval failures are reported as *FetchError.
func (f *Fetcher) Run(ctx context.Context, location string) ([]byte, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return f.fetchURL(ctx, location)
	}

	data, err := os.ReadFile(location)
	if err != nil {
		return nil, &FetchError{Location: location, Err: err}
	}
	return data, nil
}

func (f *Fetcher) fetchURL(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Location: url, Err: err}
	}

	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{Location: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{Location: url, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Location: url, Err: err}
	}

	return data, nil
}
