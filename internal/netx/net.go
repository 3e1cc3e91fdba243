// Package netx contains small HTTP helpers shared by the collaborators.
package netx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrTooLarge is returned when a download exceeds the caller's limit.
var ErrTooLarge = errors.New("response body too large")

// BasicAuth holds optional credentials for Download. Empty user disables auth.
type BasicAuth struct {
	User     string
	Password string
}

// Download GETs url and returns the body together with its Content-Type.
// Non-2xx responses are errors. When maxBytes > 0 a larger body fails with
// ErrTooLarge instead of being truncated.
func Download(ctx context.Context, client *http.Client, url string, auth BasicAuth, maxBytes int64) ([]byte, string, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	if auth.User != "" {
		req.SetBasicAuth(auth.User, auth.Password)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, "", fmt.Errorf("download failed: %s; body: %s", resp.Status, string(b))
	}

	var r io.Reader = resp.Body
	if maxBytes > 0 {
		r = io.LimitReader(resp.Body, maxBytes+1)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, "", err
	}
	if maxBytes > 0 && int64(len(body)) > maxBytes {
		return nil, "", ErrTooLarge
	}

	return body, resp.Header.Get("Content-Type"), nil
}
