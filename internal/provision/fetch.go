// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const (
	// maxScriptBytes is the upper bound on provisioning script size (10 MB).
	// Anything larger is almost certainly not a shell script.
	maxScriptBytes = 10 << 20

	// userAgent identifies fetches in operators' access logs.
	userAgent = "igniter"
)

var (
	// ErrEmptyScript is returned when the server answered 2xx with an empty
	// body. Executing nothing would mask a misconfigured URL, so it is fatal.
	ErrEmptyScript = errors.New("provisioning script is empty")

	// ErrScriptTooLarge is returned when the response exceeds maxScriptBytes.
	ErrScriptTooLarge = errors.New("provisioning script too large")
)

type (
	// Fetcher downloads provisioning scripts fully into memory.
	Fetcher struct {
		httpClient *http.Client
	}

	// FetcherOption configures a Fetcher during construction.
	FetcherOption func(*Fetcher)

	// StatusError is returned for non-2xx responses.
	StatusError struct {
		URL        string
		StatusCode int
	}
)

// Error formats the failed request for operators debugging an instance template.
func (e *StatusError) Error() string {
	return fmt.Sprintf("fetching %s: unexpected status %d", e.URL, e.StatusCode)
}

// WithHTTPClient sets a custom HTTP client, useful for tests or proxies.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.httpClient = c
	}
}

// NewFetcher creates a Fetcher. The overall fetch deadline comes from the
// caller's context rather than a client timeout.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads the script at rawURL and returns its full contents.
// Any outcome other than a complete, non-empty 2xx body is an error: the
// caller must never see a partial script.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxScriptBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rawURL, err)
	}
	if len(body) > maxScriptBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrScriptTooLarge, rawURL, maxScriptBytes)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyScript, rawURL)
	}

	// Guard against a connection that closed mid-body without an error.
	if resp.ContentLength >= 0 && int64(len(body)) != resp.ContentLength {
		return nil, fmt.Errorf("fetching %s: got %d of %d bytes", rawURL, len(body), resp.ContentLength)
	}

	return body, nil
}
