package postgrest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"ktrend_api/pkg/logger"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const defaultTimeout = 30 * time.Second

// Response is a decoded PostgREST reply. Total is -1 when the server sent no count.
type Response struct {
	Status int
	Body   []byte
	Total  int
}

// APIError carries the upstream status and its own message text.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("postgrest: status %d: %s", e.Status, e.Message)
}

type BaseClient struct {
	ApiURL  string
	auth    AuthEngine
	limiter *rate.Limiter
	log     logger.Logger
	client  *http.Client
}

type Option func(*BaseClient)

func WithHTTPClient(c *http.Client) Option {
	return func(b *BaseClient) { b.client = c }
}

// WithRateLimit caps outgoing requests; rps <= 0 disables the limiter.
func WithRateLimit(rps float64, burst int) Option {
	return func(b *BaseClient) {
		if rps <= 0 {
			b.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		b.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func NewBaseClient(apiURL string, auth AuthEngine, log logger.Logger, opts ...Option) *BaseClient {
	c := &BaseClient{
		ApiURL: strings.TrimRight(apiURL, "/"),
		auth:   auth,
		log:    logger.OrNop(log),
		client: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get reads /rest/v1/<table>?<params>. countExact asks for the total in Content-Range,
// head skips the body.
func (c *BaseClient) Get(ctx context.Context, table string, params url.Values, countExact, head bool) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.ApiURL, url.PathEscape(table))
	if encoded := params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	method := http.MethodGet
	if head {
		method = http.MethodHead
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if countExact {
		req.Header.Set("Prefer", "count=exact")
	}
	if c.auth != nil {
		c.auth.SetApiKey(req)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("request was cancelled: %w", ctx.Err())
		default:
			return nil, fmt.Errorf("failed to execute request: %w", err)
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: upstreamMessage(body, resp.Status)}
		c.log.Log("GET %s: %v", table, apiErr)
		return nil, apiErr
	}

	return &Response{
		Status: resp.StatusCode,
		Body:   body,
		Total:  parseContentRange(resp.Header.Get("Content-Range")),
	}, nil
}

// parseContentRange reads the total from "0-24/3573" or "*/0"; -1 if unknown.
func parseContentRange(header string) int {
	i := strings.LastIndexByte(header, '/')
	if i < 0 {
		return -1
	}
	total, err := strconv.Atoi(header[i+1:])
	if err != nil {
		return -1
	}
	return total
}

func upstreamMessage(body []byte, status string) string {
	var payload struct {
		Message string `json:"message"`
		Details string `json:"details"`
		Hint    string `json:"hint"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return status
}
