package contextkeys

import (
	"context"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/domain"
)

type sessionKeyType struct{}

var sessionKey = sessionKeyType{}

// ContextWithSession помещает текущую сессию в контекст запроса.
func ContextWithSession(ctx context.Context, session *domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// SessionFromContext возвращает сессию или nil для анонимного запроса.
func SessionFromContext(ctx context.Context) *domain.Session {
	if session, ok := ctx.Value(sessionKey).(*domain.Session); ok {
		return session
	}
	return nil
}

// AccessTokenFromContext - bearer-токен бэкенда для исходящих запросов.
func AccessTokenFromContext(ctx context.Context) string {
	if session := SessionFromContext(ctx); session != nil {
		return session.AccessToken
	}
	return ""
}
