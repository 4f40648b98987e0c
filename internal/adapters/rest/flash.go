package rest

import (
	"net/http"
	"net/url"
	"strings"
)

const (
	flashCookieName = "flash"

	toastSuccess = "success"
	toastError   = "error"
)

// toast - одноразовое уведомление. Message уже переведено.
type toast struct {
	Kind    string
	Message string
}

// setFlash сохраняет уведомление до следующей страницы.
func setFlash(w http.ResponseWriter, kind, messageKey string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(kind + ":" + messageKey),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash читает уведомление и сразу удаляет cookie.
func popFlash(w http.ResponseWriter, r *http.Request) (kind, messageKey string, ok bool) {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return "", "", false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	raw, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return "", "", false
	}
	kind, messageKey, found := strings.Cut(raw, ":")
	if !found || messageKey == "" || (kind != toastSuccess && kind != toastError) {
		return "", "", false
	}
	return kind, messageKey, true
}
