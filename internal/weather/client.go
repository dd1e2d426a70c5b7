package weather

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rajnandniparmar/Event-Finder/internal/apperrors"
	"github.com/rajnandniparmar/Event-Finder/internal/metrics"
)

// maxBodyBytes bounds how much of a response is read.
const maxBodyBytes = 1 << 20

// Client fetches weather descriptors from the remote weather endpoint.
// It neither retries nor caches.
type Client struct {
	baseURL    string
	code       string
	httpClient *http.Client
	metrics    *metrics.Metrics
}

type response struct {
	Weather json.RawMessage `json:"weather"`
}

// NewClient creates a client for baseURL. A zero timeout leaves the HTTP
// client without a deadline. m may be nil.
func NewClient(baseURL, code string, timeout time.Duration, m *metrics.Metrics) *Client {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 60 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return NewClientWithHTTP(baseURL, code, &http.Client{Timeout: timeout, Transport: tr}, m)
}

// NewClientWithHTTP allows overriding the HTTP client (used for tests).
func NewClientWithHTTP(baseURL, code string, httpClient *http.Client, m *metrics.Metrics) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimSpace(baseURL),
		code:       code,
		httpClient: httpClient,
		metrics:    m,
	}
}

// Lookup returns the weather payload for city on date, exactly as the
// endpoint reported it. Every failure is a LOOKUP AppError.
func (c *Client) Lookup(ctx context.Context, city, date string) (json.RawMessage, error) {
	start := time.Now()
	payload, err := c.lookup(ctx, city, date)

	if c.metrics != nil {
		c.metrics.WeatherDuration.Observe(time.Since(start).Seconds())
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		c.metrics.WeatherLookups.WithLabelValues(outcome).Inc()
	}
	return payload, err
}

func (c *Client) lookup(ctx context.Context, city, date string) (json.RawMessage, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, apperrors.NewLookupError("invalid weather URL", err)
	}
	q := u.Query()
	q.Set("code", c.code)
	q.Set("city", city)
	q.Set("date", date)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, apperrors.NewLookupError("build weather request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewLookupError("weather request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, apperrors.NewLookupError("read weather response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.NewLookupError(
			fmt.Sprintf("weather endpoint returned %d", resp.StatusCode),
			fmt.Errorf("body: %s", truncate(body, 200)),
		)
	}

	var out response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, apperrors.NewLookupError("decode weather response", err)
	}
	if len(out.Weather) == 0 || bytes.Equal(out.Weather, []byte("null")) {
		return nil, apperrors.NewLookupError("weather response has no weather field", nil)
	}
	return out.Weather, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
