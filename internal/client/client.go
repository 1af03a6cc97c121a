// Package client talks to the fermentation monitor REST backend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fermentation_dashboard/internal/models"
)

// Backend endpoints.
const (
	EndpointCurrentStatus = "/api/current-status"
	EndpointSensorData    = "/api/sensor-data"
	EndpointImageMetrics  = "/api/image-metrics"
	EndpointSessions      = "/api/sessions"
)

const maxErrorBody = 1 << 10

// Client is a thin JSON client for the backend. It never retries: the
// next refresh pass is the recovery path.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds each request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New builds a client for the backend rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("backend url %q: scheme must be http or https", baseURL)
	}
	c := &Client{
		baseURL: u,
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// GetCurrentStatus fetches the instantaneous readings.
func (c *Client) GetCurrentStatus(ctx context.Context) (models.StatusSnapshot, error) {
	var out models.StatusSnapshot
	if err := c.getJSON(ctx, EndpointCurrentStatus, nil, &out); err != nil {
		return models.StatusSnapshot{}, err
	}
	return out, nil
}

// GetSensorData fetches temperature/humidity samples of the last hours,
// newest first.
func (c *Client) GetSensorData(ctx context.Context, hours int) ([]models.TimeSeriesPoint, error) {
	return c.getSeries(ctx, EndpointSensorData, hours)
}

// GetImageMetrics fetches image-derived samples of the last hours, newest
// first.
func (c *Client) GetImageMetrics(ctx context.Context, hours int) ([]models.TimeSeriesPoint, error) {
	return c.getSeries(ctx, EndpointImageMetrics, hours)
}

// ListSessions fetches the active sessions in backend order.
func (c *Client) ListSessions(ctx context.Context) ([]models.Session, error) {
	var out []models.Session
	if err := c.getJSON(ctx, EndpointSessions, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSession posts a new session. The response body is decoded whatever
// the HTTP status; callers decide success from the reported status field.
func (c *Client) CreateSession(ctx context.Context, in models.CreateSessionRequest) (models.CreateSessionResponse, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return models.CreateSessionResponse{}, fmt.Errorf("encode session: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, EndpointSessions, nil, bytes.NewReader(body))
	if err != nil {
		return models.CreateSessionResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return models.CreateSessionResponse{}, &RequestError{Method: http.MethodPost, Endpoint: EndpointSessions, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	var out models.CreateSessionResponse
	if err := decode(resp.Body, &out); err != nil {
		return models.CreateSessionResponse{}, &DecodeError{Endpoint: EndpointSessions, Err: err}
	}
	return out, nil
}

func (c *Client) getSeries(ctx context.Context, endpoint string, hours int) ([]models.TimeSeriesPoint, error) {
	q := url.Values{}
	q.Set("hours", strconv.Itoa(hours))

	var out []models.TimeSeriesPoint
	if err := c.getJSON(ctx, endpoint, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, query url.Values, dst any) error {
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, query, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &RequestError{Method: http.MethodGet, Endpoint: endpoint, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}
	if err := decode(resp.Body, dst); err != nil {
		return &DecodeError{Endpoint: endpoint, Err: err}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, query url.Values, body io.Reader) (*http.Request, error) {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + endpoint
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return req, nil
}

// decode reads exactly one JSON value from r into dst.
func decode(r io.Reader, dst any) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty body")
		}
		return err
	}
	return nil
}
