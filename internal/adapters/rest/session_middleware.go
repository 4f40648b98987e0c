package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/contextkeys"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/domain"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/port"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/port/usecases_port"
)

const sessionCookieName = "sid"

func setSessionCookie(w http.ResponseWriter, session *domain.Session, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.ID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(time.Until(session.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionMiddleware кладет в контекст сессию из cookie, если она жива.
func SessionMiddleware(resolve usecases_port.ResolveSessionUseCasePort, secure bool) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			session, err := resolve.Execute(r.Context(), cookie.Value)
			if err != nil {
				if !errors.Is(err, domain.ErrUnauthorized) {
					contextkeys.LoggerFromContext(r.Context()).Warn("Session lookup failed", port.Fields{"error": err.Error()})
				}
				clearSessionCookie(w, secure)
				next.ServeHTTP(w, r)
				return
			}

			ctx := contextkeys.ContextWithSession(r.Context(), session)
			ctx = contextkeys.ContextWithLogger(ctx, contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
				"user_id": session.User.ID,
			}))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin пускает дальше только администратора.
func (v *views) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := contextkeys.SessionFromContext(r.Context())
		if session == nil {
			http.Redirect(w, r, loginURL(r), http.StatusSeeOther)
			return
		}
		if !session.User.IsAdmin() {
			contextkeys.LoggerFromContext(r.Context()).Warn("Admin area denied", port.Fields{"role": session.User.Role})
			v.renderError(w, r, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
