// Package congress provides a resilient client for the Congress.gov v3 API
package congress

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	perr "congresswatch/internal/platform/errors"
	"congresswatch/internal/platform/logger"
)

const (
	baseURLDefault   = "https://api.congress.gov/v3"
	defaultTimeout   = 15 * time.Second
	defaultUA        = "congresswatch"
	defaultMaxRetry  = 4
	defaultRetryBase = 500 * time.Millisecond

	// bodySampleBytes caps how much of an error body makes it into diagnostics
	bodySampleBytes = 2048
)

// Options configures the Client
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration

	// APIKey is required; every request carries it as a query parameter
	APIKey string

	// Retry config for transient and rate limited responses
	MaxRetries int
	RetryBase  time.Duration
}

// Client is a minimal Congress.gov REST client with retry and rate limit handling
type Client struct {
	http  *http.Client
	opts  Options
	log   logger.Logger
	now   func() time.Time
	sleep func(time.Duration)
}

// NewClient creates a new Client with sane defaults.
// Panics when the API key is missing since every endpoint requires it
func NewClient(o Options) *Client {
	if strings.TrimSpace(o.APIKey) == "" {
		panic("congress: API key is required")
	}
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	return &Client{
		http:  &http.Client{Timeout: o.Timeout},
		opts:  o,
		log:   *logger.Named("congress"),
		now:   time.Now,
		sleep: time.Sleep,
	}
}

// Do issues a GET with the api key, retries, and rate limit handling.
// pathOrURL is either a path under the base URL or an absolute URL as returned
// in upstream "url" fields. q may be nil
func (c *Client) Do(ctx context.Context, pathOrURL string, q url.Values) (*http.Response, error) {
	target, err := c.buildURL(pathOrURL, q)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "congress bad url")
	}

	attempts := 0
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "congress new request failed")
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Cache-Control", "no-store")

		start := c.now()
		resp, err := c.http.Do(req)
		lat := c.now().Sub(start)

		if err != nil {
			if !c.shouldRetry(attempts) {
				return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "congress do failed")
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Int("attempt", attempts).Msg("congress transport error retrying")
			c.sleep(back)
			attempts++
			continue
		}

		retryAfter := atoi(resp.Header.Get("Retry-After"))
		c.log.Debug().
			Str("path", pathOrURL).
			Int("status", resp.StatusCode).
			Int("attempt", attempts).
			Dur("latency", lat).
			Int("retry_after_s", retryAfter).
			Msg("congress http response")

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return resp, nil
		case resp.StatusCode == http.StatusTooManyRequests:
			wait := time.Duration(retryAfter) * time.Second
			if wait <= 0 {
				wait = c.backoff(attempts)
			}
			if !c.shouldRetry(attempts) {
				_ = drainAndClose(resp.Body)
				return nil, perr.UpstreamStatusf(resp.StatusCode, "rate limited")
			}
			c.log.Warn().Dur("sleep", wait).Msg("congress rate limited backing off")
			_ = drainAndClose(resp.Body)
			c.sleep(wait)
			attempts++
			continue
		case resp.StatusCode == http.StatusBadGateway,
			resp.StatusCode == http.StatusServiceUnavailable,
			resp.StatusCode == http.StatusGatewayTimeout:
			if !c.shouldRetry(attempts) {
				_ = drainAndClose(resp.Body)
				return nil, perr.UpstreamStatusf(resp.StatusCode, "transient server error")
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Int("attempt", attempts).Msg("congress transient error retrying")
			_ = drainAndClose(resp.Body)
			c.sleep(back)
			attempts++
			continue
		default:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, bodySampleBytes))
			_ = resp.Body.Close()
			return nil, perr.UpstreamStatusf(resp.StatusCode, string(body))
		}
	}
}

// buildURL resolves pathOrURL against the base and stamps required params
func (c *Client) buildURL(pathOrURL string, q url.Values) (string, error) {
	raw := pathOrURL
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = c.opts.BaseURL + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	merged := u.Query()
	for k, vs := range q {
		for _, v := range vs {
			merged.Set(k, v)
		}
	}
	merged.Set("api_key", c.opts.APIKey)
	merged.Set("format", "json")
	u.RawQuery = merged.Encode()
	return u.String(), nil
}

func (c *Client) backoff(attempt int) time.Duration {
	d := c.opts.RetryBase
	ms := int64(d / time.Millisecond)
	ms = ms << uint(attempt)
	max := int64(30 * time.Second / time.Millisecond)
	if ms > max {
		ms = max
	}
	return time.Duration(ms) * time.Millisecond
}

func (c *Client) shouldRetry(attempt int) bool {
	return attempt < c.opts.MaxRetries
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	i, _ := strconv.Atoi(s)
	return i
}

func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 512))
	return rc.Close()
}
