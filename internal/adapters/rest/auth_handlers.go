package rest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/contextkeys"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/domain"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/port/usecases_port"
)

type AuthHandler struct {
	*views
	loginUC usecases_port.LoginUseCasePort
}

func NewAuthHandler(v *views, loginUC usecases_port.LoginUseCasePort) *AuthHandler {
	return &AuthHandler{views: v, loginUC: loginUC}
}

type loginView struct {
	Email  string
	Next   string
	Errors map[string]string
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if contextkeys.SessionFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	vd := h.page(w, r, "login.title", loginView{Next: r.URL.Query().Get("next")})
	h.render(w, r, http.StatusOK, "login", vd)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.PostForm.Get("email"))
	next := r.PostForm.Get("next")

	session, err := h.loginUC.Execute(r.Context(), email, r.PostForm.Get("password"))
	if err != nil {
		view := loginView{Email: email, Next: next, Errors: map[string]string{}}
		vd := h.page(w, r, "login.title", nil)

		status := http.StatusUnauthorized
		var verr *domain.ValidationError
		switch {
		case errors.As(err, &verr):
			status = http.StatusUnprocessableEntity
			for field, key := range verr.Fields {
				view.Errors[field] = vd.T.T(key)
			}
		case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrForbidden):
			vd.Toast = &toast{Kind: toastError, Message: vd.T.T("toast.login_failed")}
		default:
			status = http.StatusBadGateway
			vd.Toast = &toast{Kind: toastError, Message: vd.T.T("toast.generic_error")}
		}
		vd.Data = view
		h.render(w, r, status, "login", vd)
		return
	}

	setSessionCookie(w, session, h.cookieSecure)
	setFlash(w, toastSuccess, "toast.login_success")

	fallback := "/"
	if session.User.IsAdmin() {
		fallback = "/admin"
	}
	http.Redirect(w, r, safeRedirect(next, fallback), http.StatusSeeOther)
}

// Logout удаляет сессию через views.logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.endSession(w, r)
	setFlash(w, toastSuccess, "toast.logged_out")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
