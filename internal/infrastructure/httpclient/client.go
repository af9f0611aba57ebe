package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Gourab-ghosh21/digital-spark/internal/logger"
	pkgctx "github.com/Gourab-ghosh21/digital-spark/internal/pkg/context"
)

var (
	ErrTimeout     = errors.New("downstream_timeout")
	ErrUnavailable = errors.New("downstream_unavailable")
)

// StatusError is a non-2xx answer from a downstream service.
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("downstream error [%d] %s: %s", e.StatusCode, e.Code, e.Message)
}

type Config struct {
	// ReadTimeout applies to GET and HEAD.
	ReadTimeout time.Duration
	// WriteTimeout applies to every other method.
	WriteTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{ReadTimeout: 2 * time.Second, WriteTimeout: 5 * time.Second}
}

// Client calls downstream JSON APIs with per-method timeouts, X-Request-ID
// propagation and OpenTelemetry client spans.
type Client struct {
	base    *http.Client
	baseURL string
	cfg     Config
}

func New(baseURL string, cfg Config) *Client {
	def := DefaultConfig()
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = def.ReadTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	return &Client{
		base: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport,
				otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
					return "HTTP " + r.Method + " " + r.URL.Path
				}),
			),
		},
		baseURL: baseURL,
		cfg:     cfg,
	}
}

// DoJSON sends body (if non-nil) as JSON and decodes a 2xx response's "data" field into out.
func (c *Client) DoJSON(ctx context.Context, method, path string, headers map[string]string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	timeout := c.cfg.ReadTimeout
	if isWriteMethod(method) {
		timeout = c.cfg.WriteTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if reqID := pkgctx.GetRequestID(ctx); reqID != "" {
		req.Header.Set("X-Request-ID", reqID)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	log := logger.Ctx(ctx).With().Str("method", method).Str("path", path).Logger()
	start := time.Now()

	resp, err := c.base.Do(req)
	if err != nil {
		log.Warn().Err(err).Dur("duration", time.Since(start)).Msg("downstream_request_failed")
		return mapError(err)
	}
	defer resp.Body.Close()

	log.Debug().Int("status", resp.StatusCode).Dur("duration", time.Since(start)).Msg("downstream_request_completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(env.Data) == 0 {
		return fmt.Errorf("decode response: missing data")
	}
	return json.Unmarshal(env.Data, out)
}

func decodeError(resp *http.Response) error {
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error.Code != "" {
		return &StatusError{StatusCode: resp.StatusCode, Code: body.Error.Code, Message: body.Error.Message}
	}
	return &StatusError{
		StatusCode: resp.StatusCode,
		Code:       "downstream_error",
		Message:    fmt.Sprintf("unexpected status: %d", resp.StatusCode),
	}
}

func mapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func isWriteMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead:
		return false
	default:
		return true
	}
}
