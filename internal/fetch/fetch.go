// Package fetch holds the shared outbound HTTP plumbing used by every
// provider client in this service.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultTimeout = 10 * time.Second

// StatusError reports a non-2xx response from an upstream provider.
// Handlers use it to separate upstream faults from client input errors.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s returned status %d", e.URL, e.StatusCode)
}

// TransportError reports that an upstream provider could not be reached at
// all (DNS failure, refused connection, timeout).
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("GET %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// NewHTTPClient returns an http.Client with the default provider timeout.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultTimeout}
}

// Get performs a GET request and decodes the JSON response into dst.
// Non-2xx responses become *StatusError; transport failures are wrapped.
func Get(ctx context.Context, client *http.Client, rawURL string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating request for %s: %w", rawURL, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return &TransportError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding response from %s: %w", rawURL, err)
	}

	return nil
}
