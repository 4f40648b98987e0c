package rest

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/contextkeys"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/domain"
)

type errorView struct {
	Status  int
	Heading string
	Body    string
}

// handleError переводит ошибку use case в ответ. 401 от бэкенда завершает
// сессию и отправляет на страницу входа.
func (v *views) handleError(w http.ResponseWriter, r *http.Request, err error) {
	logger := contextkeys.LoggerFromContext(r.Context())

	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		logger.Warn("Backend rejected the session, signing out", nil)
		v.endSession(w, r)
		setFlash(w, toastError, "toast.session_expired")
		http.Redirect(w, r, loginURL(r), http.StatusSeeOther)
	case errors.Is(err, domain.ErrForbidden):
		v.renderError(w, r, http.StatusForbidden)
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidID):
		v.renderError(w, r, http.StatusNotFound)
	default:
		logger.Error("Request failed", err, nil)
		v.renderError(w, r, http.StatusBadGateway)
	}
}

func (v *views) renderError(w http.ResponseWriter, r *http.Request, status int) {
	var key string
	switch status {
	case http.StatusNotFound:
		key = "error.not_found"
	case http.StatusForbidden:
		key = "error.forbidden"
	default:
		key = "error.generic"
	}
	vd := v.page(w, r, key+".title", nil)
	vd.Data = errorView{
		Status:  status,
		Heading: vd.T.T(key + ".title"),
		Body:    vd.T.T(key + ".body"),
	}
	v.render(w, r, status, "error", vd)
}

// endSession удаляет серверную сессию и cookie браузера.
func (v *views) endSession(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && v.logout != nil {
		if err := v.logout(r, cookie.Value); err != nil {
			contextkeys.LoggerFromContext(r.Context()).Warn("Failed to delete session", nil)
		}
	}
	clearSessionCookie(w, v.cookieSecure)
}

func loginURL(r *http.Request) string {
	if r.Method != http.MethodGet {
		return "/login"
	}
	return "/login?next=" + url.QueryEscape(r.URL.RequestURI())
}
