// Package http provides a JSON client for the remote APIs bricksmith
// provisions against.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	retryablehttp "github.com/hashicorp/go-retryablehttp"
	"github.com/hoistlabs/bricksmith/internal"
	"golang.org/x/oauth2"
)

type (
	Client struct {
		baseURL *url.URL
		source  oauth2.TokenSource
		http    *retryablehttp.Client
	}

	// Config provides configuration details to the API client.
	Config struct {
		// Base URL of the API.
		BaseURL string
		// Source of bearer tokens for authenticating requests.
		TokenSource oauth2.TokenSource
		// Override default http transport.
		Transport http.RoundTripper
		// Bound on each request. Zero means the transport default.
		Timeout time.Duration
	}
)

func NewClient(cfg Config) (*Client, error) {
	if cfg.TokenSource == nil {
		return nil, fmt.Errorf("missing token source")
	}
	if cfg.Transport == nil {
		cfg.Transport = http.DefaultTransport
	}

	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("invalid base url: %s", cfg.BaseURL)
	}
	if !strings.HasSuffix(baseURL.Path, "/") {
		baseURL.Path += "/"
	}

	client := &Client{
		baseURL: baseURL,
		source:  cfg.TokenSource,
	}
	client.http = &retryablehttp.Client{
		ErrorHandler: retryablehttp.PassthroughErrorHandler,
		HTTPClient:   &http.Client{Transport: cfg.Transport, Timeout: cfg.Timeout},
		// every call is a single attempt; nothing is retried
		CheckRetry: func(_ context.Context, _ *http.Response, err error) (bool, error) {
			return false, err
		},
	}
	return client, nil
}

// Hostname returns the API host:port.
func (c *Client) Hostname() string {
	return c.baseURL.Host
}

// NewRequest creates an API request with proper headers and serialization.
//
// A relative URL path should be provided without a preceding slash, in which
// case it is resolved relative to the baseURL of the Client.
//
// If v is supplied it is JSON encoded and included as the request body.
func (c *Client) NewRequest(method, path string, v any) (*retryablehttp.Request, error) {
	u, err := c.baseURL.Parse(path)
	if err != nil {
		return nil, err
	}

	var body any
	if v != nil {
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(encoded)
	}

	req, err := retryablehttp.NewRequest(method, u.String(), body)
	if err != nil {
		return nil, err
	}
	if v != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// Do sends an API request and returns the API response. A 2xx response is
// JSON decoded into the value pointed to by v when v is non-nil; any other
// response is returned as an *internal.HTTPError carrying the status code
// and body.
//
// The provided ctx must be non-nil. If it is canceled or times out, ctx.Err()
// will be returned.
func (c *Client) Do(ctx context.Context, req *retryablehttp.Request, v any) error {
	req = req.WithContext(ctx)

	token, err := c.source.Token()
	if err != nil {
		return fmt.Errorf("%w: %w", internal.ErrCredential, err)
	}
	token.SetAuthHeader(req.Request)

	resp, err := c.http.Do(req)
	if err != nil {
		// If we got an error, and the context has been canceled,
		// the context's error is probably more useful.
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return &internal.HTTPError{Status: resp.StatusCode, Body: string(body)}
	}

	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("unmarshalling response: %w", err)
	}
	return nil
}
