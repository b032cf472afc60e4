package notifysink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// GatewayClient talks to the notification delivery gateway over HTTP.
// Schedule retries with exponential backoff; cancellation paths do not,
// since a failed cancel is always retried by the next full reschedule.
type GatewayClient struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int

	probeOnce sync.Once
	available bool
}

func NewGatewayClient(baseURL string, maxRetries int) *GatewayClient {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &GatewayClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries: maxRetries,
	}
}

type countResponse struct {
	Count int `json:"count"`
}

type cancelByPrefixResponse struct {
	Removed int `json:"removed"`
}

func (c *GatewayClient) Schedule(ctx context.Context, entry *Entry) error {
	body, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal sink entry: %w", err)
	}

	endpoint := c.baseURL + "/api/v1/notifications"

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * 100 * time.Millisecond
			slog.Debug("retrying sink schedule",
				slog.String("entry_id", entry.ID),
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		err := c.doSchedule(ctx, endpoint, body, entry.ID)
		if err == nil {
			return nil
		}
		// A capacity rejection is a definitive answer, not a transient
		// failure; retrying would only hammer a full queue.
		if errors.Is(err, ErrCapacityExceeded) {
			return err
		}
		lastErr = err
	}

	slog.Error("all retries exhausted for sink schedule",
		slog.String("entry_id", entry.ID),
		slog.Int("max_retries", c.maxRetries),
		slog.String("error", lastErr.Error()),
	)
	return fmt.Errorf("failed to schedule entry after %d retries: %w", c.maxRetries, lastErr)
}

func (c *GatewayClient) doSchedule(ctx context.Context, endpoint string, body []byte, entryID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("failed to send schedule request to notification gateway",
			slog.String("entry_id", entryID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrCapacityExceeded
	default:
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
}

func (c *GatewayClient) Cancel(ctx context.Context, id string) error {
	endpoint := fmt.Sprintf("%s/api/v1/notifications/%s", c.baseURL, url.PathEscape(id))

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return ErrEntryNotFound
	default:
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
}

func (c *GatewayClient) CancelByPrefix(ctx context.Context, prefix string) (int, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return 0, fmt.Errorf("failed to parse base URL: %w", err)
	}
	u.Path = "/api/v1/notifications"
	q := u.Query()
	q.Set("prefix", prefix)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u.String(), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response body: %w", err)
	}

	var parsed cancelByPrefixResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}

	return parsed.Removed, nil
}

func (c *GatewayClient) CountPending(ctx context.Context) (int, error) {
	endpoint := c.baseURL + "/api/v1/notifications/count"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response body: %w", err)
	}

	var parsed countResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}

	return parsed.Count, nil
}

// IsAvailable probes the gateway capability endpoint once and caches the
// answer for the lifetime of the process.
func (c *GatewayClient) IsAvailable(ctx context.Context) bool {
	c.probeOnce.Do(func() {
		endpoint := c.baseURL + "/api/v1/capabilities/local-notifications"

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			slog.Warn("notification gateway capability probe failed",
				slog.String("error", err.Error()),
			)
			return
		}
		defer resp.Body.Close()

		c.available = resp.StatusCode == http.StatusOK

		slog.Info("notification gateway capability resolved",
			slog.Bool("available", c.available),
		)
	})

	return c.available
}
