package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zenseeker0/jobscraps-frontend/internal/board/domain"
)

// Config holds PostgREST connection configuration
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client is a thin HTTP client for a PostgREST API. It knows the PostgREST
// query grammar and the Content-Range row-count convention; it knows nothing
// about the job board schema.
type Client struct {
	http   *http.Client
	config *Config
	logger *slog.Logger
}

// UpsertResult reports how a patch-or-create resolved. Created is true when
// the patch matched zero rows and a create was issued instead.
type UpsertResult struct {
	Created bool
}

// NewClient creates a new PostgREST client
func NewClient(config *Config, logger *slog.Logger) (*Client, error) {
	base, err := url.Parse(config.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid PostgREST base URL %q", config.BaseURL)
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	logger.Info("PostgREST client configured",
		slog.String("base_url", config.BaseURL),
		slog.Duration("timeout", timeout),
	)

	return &Client{
		http:   &http.Client{Timeout: timeout},
		config: config,
		logger: logger,
	}, nil
}

// Get issues a read against a resource and decodes the JSON array response
// into dest. A non-2xx status or a non-array body yields a TransportError;
// an expired deadline yields a TimeoutError.
func (c *Client) Get(ctx context.Context, q *Query, dest any) error {
	op := "GET " + q.Resource()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(q), nil)
	if err != nil {
		return &domain.TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return &domain.TimeoutError{Op: op, Timeout: c.deadline(ctx)}
		}
		return &domain.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(ctx, err) {
			return &domain.TimeoutError{Op: op, Timeout: c.deadline(ctx)}
		}
		return &domain.TransportError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &domain.TransportError{Op: op, StatusCode: resp.StatusCode}
	}

	if err := json.Unmarshal(body, dest); err != nil {
		c.logger.Error("PostgREST response is not the expected JSON shape",
			slog.String("op", op),
			slog.Int("body_size", len(body)),
			slog.String("error", err.Error()),
		)
		return &domain.TransportError{Op: op, Err: fmt.Errorf("invalid JSON response: %w", err)}
	}

	return nil
}

// Upsert merge-patches the rows of resource matching keyColumn=keyValue,
// falling back to a create when the patch touched zero rows. The two calls
// are one logical operation; callers see a single UpsertResult.
func (c *Client) Upsert(ctx context.Context, resource, keyColumn, keyValue string, patch, create any) (UpsertResult, error) {
	q := NewQuery(resource).Eq(keyColumn, keyValue)

	status, contentRange, err := c.write(ctx, http.MethodPatch, c.endpoint(q), patch)
	if err != nil {
		return UpsertResult{}, err
	}

	noRows := status == http.StatusNotFound || contentRange == "*/*" || contentRange == "*/0"
	if !noRows {
		if status < 200 || status >= 300 {
			return UpsertResult{}, &domain.TransportError{Op: "PATCH " + resource, StatusCode: status}
		}
		return UpsertResult{Created: false}, nil
	}

	c.logger.Debug("Patch matched zero rows, creating record",
		slog.String("resource", resource),
		slog.String("key", keyValue),
	)

	status, _, err = c.write(ctx, http.MethodPost, c.endpoint(NewQuery(resource)), create)
	if err != nil {
		return UpsertResult{}, err
	}
	if status < 200 || status >= 300 {
		return UpsertResult{}, &domain.TransportError{Op: "POST " + resource, StatusCode: status}
	}

	return UpsertResult{Created: true}, nil
}

// write performs a mutating request and returns the HTTP status and the
// Content-Range header, which PostgREST uses to report affected rows.
func (c *Client) write(ctx context.Context, method, endpoint string, payload any) (int, string, error) {
	op := method + " " + endpoint

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, "", &domain.TransportError{Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, "", &domain.TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return 0, "", &domain.TimeoutError{Op: op, Timeout: c.deadline(ctx)}
		}
		return 0, "", &domain.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, resp.Header.Get("Content-Range"), nil
}

func (c *Client) endpoint(q *Query) string {
	return strings.TrimRight(c.config.BaseURL, "/") + "/" + q.Resource() + q.QueryString()
}

func (c *Client) deadline(ctx context.Context) string {
	if d, ok := ctx.Deadline(); ok {
		return time.Until(d).Round(time.Millisecond).String()
	}
	return c.http.Timeout.String()
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
		return true
	}
	var uerr *url.Error
	return errors.As(err, &uerr) && uerr.Timeout()
}
