package api_client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/contextkeys"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/port"
)

// Config - настройки клиента REST API бэкенда.
type Config struct {
	BaseURL string // Например, "http://backend:8080"
	Timeout time.Duration
	// MaxRetries - сколько раз повторять GET после первой попытки.
	MaxRetries int
	// RetryInitialInterval - первая пауза между повторами, дальше растет экспоненциально.
	RetryInitialInterval time.Duration
}

// Client - тонкая обертка над net/http: запрос, распаковка data, лог и проброс ошибки.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	initial    time.Duration
}

func NewClient(cfg Config) *Client {
	if cfg.RetryInitialInterval <= 0 {
		cfg.RetryInitialInterval = 300 * time.Millisecond
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		maxRetries: cfg.MaxRetries,
		initial:    cfg.RetryInitialInterval,
	}
}

// BaseURL нужен прокси /api/*.
func (c *Client) BaseURL() string { return c.baseURL }

// doJSON выполняет запрос и декодирует поле data ответа (или весь ответ) в out.
// out может быть nil, если тело ответа не нужно.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "ApiClient",
		"http_method": method,
		"api_path":    path,
	})

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			logger.Error("Failed to marshal request body", err, nil)
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	attempts := 0
	operation := func() ([]byte, error) {
		attempts++
		respBody, err := c.send(ctx, method, target, path, payload)
		if err == nil {
			return respBody, nil
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.Retryable() {
			return nil, backoff.Permanent(err)
		}
		if ctx.Err() != nil {
			return nil, backoff.Permanent(err)
		}
		if attempts <= c.maxRetries && method == http.MethodGet {
			logger.Warn("Request failed, will retry", port.Fields{"attempt": attempts, "error": err.Error()})
		}
		return nil, err
	}

	var (
		respBody []byte
		err      error
	)
	if method == http.MethodGet {
		policy := backoff.NewExponentialBackOff()
		policy.InitialInterval = c.initial
		respBody, err = backoff.Retry(ctx, operation,
			backoff.WithBackOff(policy),
			backoff.WithMaxTries(uint(c.maxRetries+1)),
		)
	} else {
		respBody, err = operation()
	}
	if err != nil {
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			err = permanent.Unwrap()
		}
		logger.Error("Request to backend failed", err, port.Fields{"attempts": attempts})
		return err
	}

	if out == nil {
		return nil
	}
	if err := unwrapData(respBody, out); err != nil {
		logger.Error("Failed to decode response from backend", err, nil)
		return fmt.Errorf("failed to decode response from %s %s: %w", method, path, err)
	}
	logger.Debug("Request to backend succeeded", port.Fields{"attempts": attempts})
	return nil
}

// send - одна попытка запроса. Тело запроса создается заново на каждую попытку.
func (c *Client) send(ctx context.Context, method, target, path string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		req.Header.Set("X-Trace-ID", traceID)
	}
	if token := contextkeys.AccessTokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body of %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.StatusCode, respBody),
		}
	}
	return respBody, nil
}

// unwrapData декодирует {"data": X} в out, а если поля data нет - весь ответ.
func unwrapData(body []byte, out any) error {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil
	}
	if body[0] == '{' {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(body, &envelope); err != nil {
			return err
		}
		if data, ok := envelope["data"]; ok {
			if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
				return nil
			}
			return json.Unmarshal(data, out)
		}
	}
	return json.Unmarshal(body, out)
}
