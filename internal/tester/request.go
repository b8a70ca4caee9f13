package tester

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const userAgent = "relcheck/1.0"

// RequestBuilder builds JSON HTTP requests relative to a base URL
type RequestBuilder struct {
	baseURL string
}

// NewRequestBuilder creates a new request builder
func NewRequestBuilder(baseURL string) *RequestBuilder {
	return &RequestBuilder{
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// BaseURL returns the base URL requests are built against
func (rb *RequestBuilder) BaseURL() string {
	return rb.baseURL
}

// BuildRequest builds an HTTP request for method and path. A non-nil body is
// encoded as JSON.
func (rb *RequestBuilder) BuildRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	fullURL := rb.baseURL + path

	var reader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set default headers
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// Func returns a RequestFunc that builds the request when invoked
func (rb *RequestBuilder) Func(method, path string, body any) RequestFunc {
	return func(ctx context.Context) (*http.Request, error) {
		return rb.BuildRequest(ctx, method, path, body)
	}
}
