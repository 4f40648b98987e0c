package api_client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/domain"
)

// AuthClient - клиент /api/auth/*.
type AuthClient struct {
	client *Client
}

func NewAuthClient(client *Client) *AuthClient {
	return &AuthClient{client: client}
}

// Бэкенд отдает токен то в token, то в access_token.
type loginResponse struct {
	Token       string       `json:"token"`
	AccessToken string       `json:"access_token"`
	User        *domain.User `json:"user"`
}

// Login обрабатывает POST /api/auth/login. Пользователь nil, если бэкенд
// вернул только токен: профиль тогда берется из /api/auth/me.
func (c *AuthClient) Login(ctx context.Context, credentials domain.Credentials) (string, *domain.User, error) {
	var resp loginResponse
	if err := c.client.doJSON(ctx, http.MethodPost, "/api/auth/login", nil, credentials, &resp); err != nil {
		return "", nil, err
	}

	token := resp.Token
	if token == "" {
		token = resp.AccessToken
	}
	if token == "" {
		return "", nil, fmt.Errorf("login response does not contain a token")
	}
	if resp.User == nil || resp.User.ID == 0 {
		return token, nil, nil
	}
	if resp.User.Email == "" {
		resp.User.Email = credentials.Email
	}
	return token, resp.User, nil
}

// CurrentUser обрабатывает GET /api/auth/me
func (c *AuthClient) CurrentUser(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := c.client.doJSON(ctx, http.MethodGet, "/api/auth/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
