package ephemeris

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"jyotish-lab/internal/domain"
)

// Default configuration values.
const (
	DefaultTimeout     = 30 * time.Second
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = 1 * time.Second
	DefaultMaxDelay    = 10 * time.Second
	DefaultBackoffMult = 2.0
)

// HTTPClient is a Provider backed by a remote JSON-RPC 2.0 ephemeris service.
//
// The service answers getLongitude with params [body, RFC 3339 moment] and a
// result of the form {"longitude": <degrees>}.
type HTTPClient struct {
	endpoint    string
	client      *http.Client
	maxRetries  int
	retryDelay  time.Duration
	maxDelay    time.Duration
	backoffMult float64
	requestID   atomic.Uint64
	logger      zerolog.Logger
}

// ClientOption configures HTTPClient.
type ClientOption func(*HTTPClient)

// WithHTTPTimeout sets HTTP client timeout.
func WithHTTPTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts.
func WithMaxRetries(n int) ClientOption {
	return func(c *HTTPClient) {
		c.maxRetries = n
	}
}

// WithRetryDelay sets initial retry delay.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.retryDelay = d
	}
}

// WithMaxDelay sets maximum retry delay.
func WithMaxDelay(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.maxDelay = d
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.client = client
	}
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(l zerolog.Logger) ClientOption {
	return func(c *HTTPClient) {
		c.logger = l
	}
}

// NewHTTPClient creates a new ephemeris RPC HTTP client.
func NewHTTPClient(endpoint string, opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		endpoint:    endpoint,
		client:      &http.Client{Timeout: DefaultTimeout},
		maxRetries:  DefaultMaxRetries,
		retryDelay:  DefaultRetryDelay,
		maxDelay:    DefaultMaxDelay,
		backoffMult: DefaultBackoffMult,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ Provider = (*HTTPClient)(nil)

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params,omitempty"`
}

type rpcResponse struct {
	ID     uint64          `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *rpcError       `json:"error,omitempty"`
}

// rpcError is a JSON-RPC error object. It is final: the call is not retried.
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

type longitudeResult struct {
	Longitude *float64 `json:"longitude"`
}

// Name implements Provider.
func (c *HTTPClient) Name() string { return "rpc" }

// LongitudeOf implements Provider.
func (c *HTTPClient) LongitudeOf(ctx context.Context, body domain.Body, moment time.Time) (float64, error) {
	var res longitudeResult
	err := c.call(ctx, "getLongitude", []any{string(body), moment.UTC().Format(time.RFC3339)}, &res)
	if err == nil && res.Longitude == nil {
		err = errors.New("empty result")
	}
	if err != nil {
		return 0, unavailable(c.Name(), body, moment, err)
	}
	return *res.Longitude, nil
}

// call sends one JSON-RPC request, retrying transport failures, non-200
// statuses and rate limiting with capped exponential backoff.
func (c *HTTPClient) call(ctx context.Context, method string, params []any, result any) error {
	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      c.requestID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := c.backoff(attempt, lastErr)
			c.logger.Debug().Err(lastErr).Int("attempt", attempt).Dur("wait", wait).Str("method", method).Msg("Retrying rpc call")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		raw, err := c.post(ctx, payload)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			continue
		}

		var resp rpcResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			lastErr = fmt.Errorf("unmarshal response: %w", err)
			continue
		}
		if resp.Error != nil {
			return resp.Error
		}
		if result == nil || resp.Result == nil {
			return nil
		}
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return fmt.Errorf("unmarshal result: %w", err)
		}
		return nil
	}
	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// statusError is a non-200 HTTP answer. RetryAfter is set from the
// Retry-After header of a 429.
type statusError struct {
	Code       int
	Body       string
	RetryAfter time.Duration
}

func (e *statusError) Error() string {
	if e.Code == http.StatusTooManyRequests {
		return "rate limited (429)"
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// post performs one HTTP round trip and returns the response body.
func (c *HTTPClient) post(ctx context.Context, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		se := &statusError{Code: resp.StatusCode, Body: string(raw)}
		if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
			se.RetryAfter = time.Duration(secs) * time.Second
		}
		return nil, se
	}
	return raw, nil
}

// backoff returns the wait before retry number attempt (1-based): the
// server's Retry-After when given, else retryDelay*backoffMult^(attempt-1).
// Both are capped at maxDelay.
func (c *HTTPClient) backoff(attempt int, cause error) time.Duration {
	var se *statusError
	if errors.As(cause, &se) && se.RetryAfter > 0 {
		return min(se.RetryAfter, c.maxDelay)
	}
	d := float64(c.retryDelay) * math.Pow(c.backoffMult, float64(attempt-1))
	return min(time.Duration(d), c.maxDelay)
}
