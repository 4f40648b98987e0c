package contextkeys

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/domain"
)

func TestContextValues(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, TraceIDFromContext(ctx))
	assert.Empty(t, AccessTokenFromContext(ctx))
	assert.Nil(t, SessionFromContext(ctx))
	assert.NotNil(t, LoggerFromContext(ctx))

	ctx = ContextWithTraceID(ctx, "trace-1")
	ctx = ContextWithSession(ctx, &domain.Session{ID: "s1", AccessToken: "tok"})

	assert.Equal(t, "trace-1", TraceIDFromContext(ctx))
	assert.Equal(t, "tok", AccessTokenFromContext(ctx))
	assert.Equal(t, "s1", SessionFromContext(ctx).ID)
}
