// Package transport performs the JSON HTTP exchanges of the lines client.
// It knows nothing about commands or stores: any status code is a completed
// exchange and only network or encoding faults are returned as errors.
package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout bounds a single exchange when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// Response is a completed exchange.
type Response struct {
	// Status is the HTTP status code.
	Status int
	// Body is the full response body, possibly empty.
	Body []byte
}

// Client sends JSON requests with the headers every endpoint expects.
type Client struct {
	HTTP   *http.Client
	Logger *zap.Logger
}

// New returns a Client over hc. A nil hc gets a plain client with DefaultTimeout,
// a nil logger discards.
func New(hc *http.Client, log *zap.Logger) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{HTTP: hc, Logger: log}
}

// Do sends method url with body encoded as JSON when non-nil. A non-empty token
// is sent as a bearer credential.
func (c *Client) Do(ctx context.Context, method, url string, body any, token string) (*Response, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.Logger.Debug("request failed",
			zap.String("method", method),
			zap.String("url", url),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	c.Logger.Debug("request completed",
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)
	return &Response{Status: resp.StatusCode, Body: data}, nil
}

// NewHTTPClient builds the HTTP client used against the lines service.
// With a non-empty caFile the client trusts only that CA, which is how the
// development server's self-signed certificate is accepted.
func NewHTTPClient(caFile string, timeout time.Duration) (*http.Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if caFile == "" {
		return &http.Client{Timeout: timeout}, nil
	}

	caCert, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA cert: %w", err)
	}
	caPool := x509.NewCertPool()
	if !caPool.AppendCertsFromPEM(caCert) {
		return nil, errors.New("failed to parse CA cert")
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			RootCAs:    caPool,
			MinVersion: tls.VersionTLS12,
		},
	}
	return &http.Client{Transport: transport, Timeout: timeout}, nil
}
