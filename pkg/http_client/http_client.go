package http_client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

type HTTPClient struct {
	Client *http.Client
}

// NewHTTPClient returns a client with the given overall timeout; 0 means no timeout.
func NewHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{Client: &http.Client{
		Timeout: timeout,
	}}
}

func (h *HTTPClient) CreateImageRequest(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "image/*")
	return req, nil
}

func (h *HTTPClient) DoRequest(req *http.Request) ([]byte, int, error) {
	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, 500, err
	}
	defer resp.Body.Close()
	dat, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 500, err
	}
	return dat, resp.StatusCode, nil
}

// FetchImage downloads url and fails on any non-2xx status.
func (h *HTTPClient) FetchImage(ctx context.Context, url string) ([]byte, error) {
	req, err := h.CreateImageRequest(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	data, code, err := h.DoRequest(req)
	if err != nil {
		return nil, fmt.Errorf("failed to do request: %w", err)
	}
	if code < 200 || code > 299 {
		return nil, fmt.Errorf("unexpected status fetching %s: %d", url, code)
	}
	return data, nil
}
