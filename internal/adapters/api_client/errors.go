package api_client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/domain"
)

const maxErrorBodyLen = 512

// APIError - ответ бэкенда с кодом вне диапазона 2xx.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: backend returned %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// Unwrap позволяет проверять ошибку через errors.Is(err, domain.ErrNotFound) и т.п.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusForbidden:
		return domain.ErrForbidden
	}
	return nil
}

// Retryable - повторять имеет смысл только ошибки сервера.
func (e *APIError) Retryable() bool {
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// errorMessage достает текст ошибки из тела ответа: {"message": ...}, {"error": ...} или сырой текст.
func errorMessage(statusCode int, body []byte) string {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		if parsed.Error != "" {
			return parsed.Error
		}
	}
	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBodyLen {
		text = text[:maxErrorBodyLen]
	}
	if text == "" {
		text = http.StatusText(statusCode)
	}
	return text
}
