package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"boardbot/types"
)

const gameOverSuffix = "/game_over"

// HTTPConfig holds the transport settings for HTTPClient.
type HTTPConfig struct {
	BaseURL string
	// Timeout bounds a single attempt.
	Timeout time.Duration
	// MaxRetries is the number of extra attempts after a retryable failure.
	MaxRetries int
	// RetryWait is the first backoff interval.
	RetryWait time.Duration
}

// HTTPClient implements Oracle over JSON POST requests.
type HTTPClient struct {
	baseURL    string
	client     *http.Client
	maxRetries int
	retryWait  time.Duration
	log        *zap.SugaredLogger
}

// NewHTTPClient creates a client for the service rooted at cfg.BaseURL.
func NewHTTPClient(cfg HTTPConfig, log *zap.SugaredLogger) *HTTPClient {
	retryWait := cfg.RetryWait
	if retryWait <= 0 {
		retryWait = 250 * time.Millisecond
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		client:     &http.Client{Timeout: cfg.Timeout},
		maxRetries: cfg.MaxRetries,
		retryWait:  retryWait,
		log:        log,
	}
}

// RequestMachineMove posts the board to the variant's move endpoint.
func (c *HTTPClient) RequestMachineMove(ctx context.Context, v types.Variant, b types.Board, depth int) (Move, error) {
	var resp MoveResponse
	if err := c.post(ctx, v.Path, NewMoveRequest(b, depth), &resp); err != nil {
		return Move{}, err
	}
	return NormalizeMove(v, b, resp)
}

// RequestOutcome posts the board to the variant's game_over endpoint.
func (c *HTTPClient) RequestOutcome(ctx context.Context, v types.Variant, b types.Board) (Outcome, error) {
	var resp OutcomeResponse
	if err := c.post(ctx, v.Path+gameOverSuffix, NewOutcomeRequest(b), &resp); err != nil {
		return Outcome{}, err
	}
	return NormalizeOutcome(v, resp)
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	if e.body == "" {
		return fmt.Sprintf("HTTP %d", e.code)
	}
	return fmt.Sprintf("HTTP %d: %s", e.code, e.body)
}

// post sends in as JSON and decodes the reply into out.
// Network errors and 5xx replies are retried with exponential backoff; every
// attempt carries the same X-Request-ID.
func (c *HTTPClient) post(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrRequestFailure, path, err)
	}
	url := c.baseURL + "/" + path
	requestID := uuid.NewString()
	attempt := 0

	op := func() error {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Request-ID", requestID)

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			serr := &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(msg))}
			if resp.StatusCode >= 500 {
				return serr
			}
			return backoff.Permanent(serr)
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode response: %w", err))
		}
		return nil
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = c.retryWait
	eb.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(c.maxRetries)), ctx)

	start := time.Now()
	err = backoff.RetryNotify(op, policy, func(err error, wait time.Duration) {
		c.log.Warnw("oracle request failed, retrying",
			"path", path, "request_id", requestID, "attempt", attempt, "wait", wait, "error", err)
	})
	if err != nil {
		c.log.Errorw("oracle request failed",
			"path", path, "request_id", requestID, "attempts", attempt, "error", err)
		return fmt.Errorf("%w: %s: %w", ErrRequestFailure, path, err)
	}
	c.log.Debugw("oracle request done",
		"path", path, "request_id", requestID, "attempts", attempt, "elapsed", time.Since(start))
	return nil
}
