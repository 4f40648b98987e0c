package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/contextkeys"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/domain"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/port"
)

type LoginUseCase struct {
	auth     port.AuthAPIPort
	sessions port.SessionStorePort
	ttl      time.Duration
	now      func() time.Time
}

func NewLoginUseCase(auth port.AuthAPIPort, sessions port.SessionStorePort, ttl time.Duration) *LoginUseCase {
	return &LoginUseCase{auth: auth, sessions: sessions, ttl: ttl, now: time.Now}
}

func (uc *LoginUseCase) Execute(ctx context.Context, email, password string) (*domain.Session, error) {
	email = strings.TrimSpace(email)
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "Login",
		"email":    email,
	})
	ucLogger.Info("Use case started: attempting to login user", nil)

	if email == "" || password == "" {
		verr := domain.NewValidationError()
		if email == "" {
			verr.Add("email", "form.required")
		}
		if password == "" {
			verr.Add("password", "form.required")
		}
		return nil, verr
	}

	token, user, err := uc.auth.Login(ctx, domain.Credentials{Email: email, Password: password})
	if err != nil {
		ucLogger.Warn("Login rejected by API", port.Fields{"error": err.Error()})
		return nil, err
	}

	now := uc.now()
	session := &domain.Session{
		ID:          uuid.NewString(),
		AccessToken: token,
		CreatedAt:   now,
		ExpiresAt:   now.Add(uc.ttl),
	}

	// ответ логина без профиля - догружаем его уже с новым токеном
	if user == nil {
		user, err = uc.auth.CurrentUser(contextkeys.ContextWithSession(ctx, session))
		if err != nil {
			ucLogger.Error("Failed to load user profile", err, nil)
			return nil, fmt.Errorf("failed to load user profile: %w", err)
		}
	}
	session.User = *user
	if err := uc.sessions.Save(ctx, session); err != nil {
		ucLogger.Error("Failed to save session", err, nil)
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	ucLogger.Info("Use case finished: user logged in", port.Fields{"user_id": user.ID, "role": user.Role})
	return session, nil
}

type LogoutUseCase struct {
	sessions port.SessionStorePort
}

func NewLogoutUseCase(sessions port.SessionStorePort) *LogoutUseCase {
	return &LogoutUseCase{sessions: sessions}
}

func (uc *LogoutUseCase) Execute(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := uc.sessions.Delete(ctx, sessionID); err != nil {
		contextkeys.LoggerFromContext(ctx).Error("Failed to delete session", err, port.Fields{"use_case": "Logout"})
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

type ResolveSessionUseCase struct {
	sessions port.SessionStorePort
	now      func() time.Time
}

func NewResolveSessionUseCase(sessions port.SessionStorePort) *ResolveSessionUseCase {
	return &ResolveSessionUseCase{sessions: sessions, now: time.Now}
}

// Execute возвращает живую сессию. Отсутствующая или истекшая сессия - ErrUnauthorized.
func (uc *ResolveSessionUseCase) Execute(ctx context.Context, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		return nil, domain.ErrUnauthorized
	}

	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if session.Expired(uc.now()) {
		if err := uc.sessions.Delete(ctx, sessionID); err != nil {
			contextkeys.LoggerFromContext(ctx).Warn("Failed to delete expired session", port.Fields{"error": err.Error()})
		}
		return nil, domain.ErrUnauthorized
	}
	return session, nil
}
