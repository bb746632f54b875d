// Package diseasesh is a thin client for the disease.sh COVID-19 API.
// Every call issues exactly one GET; nothing is retried or cached.
package diseasesh

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"covidtracker/internal/metrics"
	"covidtracker/internal/models"
)

const (
	DefaultBaseURL = "https://disease.sh/v3/covid-19"

	endpointAll        = "all"
	endpointCountries  = "countries"
	endpointCountry    = "countries/{code}"
	endpointHistorical = "historical/all"

	maxBodyBytes = 8 << 20
)

type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
	metrics *metrics.Metrics
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New builds a client for baseURL. A zero timeout leaves requests bounded
// only by the caller's context.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) FetchGlobalSummary(ctx context.Context) (models.Summary, error) {
	var rec models.CountryRecord
	if err := c.get(ctx, endpointAll, "/all", &rec); err != nil {
		return models.Summary{}, err
	}
	rec.Country = ""
	return rec.Summary(), nil
}

func (c *Client) FetchCountryList(ctx context.Context) ([]models.CountryRecord, error) {
	var recs []models.CountryRecord
	if err := c.get(ctx, endpointCountries, "/countries", &recs); err != nil {
		return nil, err
	}
	if recs == nil {
		return nil, c.parseFailed(endpointCountries, errors.New("expected a list of countries, got null"))
	}
	return recs, nil
}

func (c *Client) FetchCountrySummary(ctx context.Context, code string) (models.Summary, error) {
	if code == "" || code == models.WorldwideCode {
		return models.Summary{}, fmt.Errorf("invalid country code %q", code)
	}

	var rec models.CountryRecord
	if err := c.get(ctx, endpointCountry, "/countries/"+url.PathEscape(code), &rec); err != nil {
		return models.Summary{}, err
	}
	if rec.Country == "" {
		return models.Summary{}, c.parseFailed(endpointCountry, errors.New("response has no country name"))
	}
	return rec.Summary(), nil
}

// FetchHistorical returns the worldwide running totals for the last days.
func (c *Client) FetchHistorical(ctx context.Context, days int) (models.Timeline, error) {
	var tl models.Timeline
	path := "/historical/all?lastdays=" + strconv.Itoa(days)
	if err := c.get(ctx, endpointHistorical, path, &tl); err != nil {
		return models.Timeline{}, err
	}
	return tl, nil
}

func (c *Client) get(ctx context.Context, endpoint, path string, out interface{}) error {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return c.networkFailed(endpoint, 0, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return c.networkFailed(endpoint, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return c.networkFailed(endpoint, resp.StatusCode, fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return c.networkFailed(endpoint, resp.StatusCode, fmt.Errorf("failed to read body: %w", err))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return c.parseFailed(endpoint, err)
	}

	c.metrics.ObserveFetch(endpoint, metrics.OutcomeOK)
	c.log.Debug("fetched",
		zap.String("endpoint", endpoint),
		zap.Int("bytes", len(body)),
		zap.Duration("took", time.Since(start)))
	return nil
}

func (c *Client) networkFailed(endpoint string, status int, err error) error {
	c.metrics.ObserveFetch(endpoint, metrics.OutcomeNetworkError)
	c.log.Warn("fetch failed", zap.String("endpoint", endpoint), zap.Int("status", status), zap.Error(err))
	return &NetworkError{Endpoint: endpoint, StatusCode: status, Err: err}
}

func (c *Client) parseFailed(endpoint string, err error) error {
	c.metrics.ObserveFetch(endpoint, metrics.OutcomeParseError)
	c.log.Warn("decode failed", zap.String("endpoint", endpoint), zap.Error(err))
	return &ParseError{Endpoint: endpoint, Err: err}
}
