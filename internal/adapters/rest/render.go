package rest

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/constants"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/contextkeys"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/domain"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/i18n"
)

//go:embed web/templates/*.html web/static/*
var webFS embed.FS

// cardView - данные шаблона listing_card.
type cardView struct {
	T       *i18n.Translator
	Listing domain.RealEstate
}

var templateFuncs = template.FuncMap{
	"hasPrefix": strings.HasPrefix,
	"cardData": func(t *i18n.Translator, l domain.RealEstate) cardView {
		return cardView{T: t, Listing: l}
	},
}

// renderer - набор страниц, каждая собрана из layout.html и своего файла.
type renderer struct {
	pages map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	layout, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(webFS, "web/templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	files, err := fs.Glob(webFS, "web/templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob templates: %w", err)
	}

	r := &renderer{pages: make(map[string]*template.Template)}
	for _, file := range files {
		name := strings.TrimSuffix(path.Base(file), ".html")
		if name == "layout" {
			continue
		}
		page, err := template.Must(layout.Clone()).ParseFS(webFS, file)
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		r.pages[name] = page
	}
	return r, nil
}

// viewData - общие данные каждой страницы.
type viewData struct {
	T         *i18n.Translator
	Session   *domain.Session
	Toast     *toast
	Title     string
	Path      string
	Resources []string
	Data      any
}

func (v viewData) IsAdmin() bool {
	return v.Session != nil && v.Session.User.IsAdmin()
}

// views - общие зависимости всех обработчиков страниц.
type views struct {
	renderer     *renderer
	bundle       *i18n.Bundle
	cookieSecure bool
	logout       func(r *http.Request, sessionID string) error
}

func (v *views) page(w http.ResponseWriter, r *http.Request, titleKey string, data any) viewData {
	t := translatorFrom(r, v.bundle)
	vd := viewData{
		T:         t,
		Session:   contextkeys.SessionFromContext(r.Context()),
		Title:     t.T(titleKey),
		Path:      r.URL.Path,
		Resources: constants.AllResources,
		Data:      data,
	}
	if kind, key, ok := popFlash(w, r); ok {
		vd.Toast = &toast{Kind: kind, Message: t.T(key)}
	}
	return vd
}

// render рендерит страницу целиком в буфер, чтобы ошибка шаблона не оставила
// полуотправленный ответ.
func (v *views) render(w http.ResponseWriter, r *http.Request, status int, name string, vd viewData) {
	tmpl, ok := v.renderer.pages[name]
	if !ok {
		contextkeys.LoggerFromContext(r.Context()).Error("Unknown page template", fmt.Errorf("template %q not found", name), nil)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", vd); err != nil {
		contextkeys.LoggerFromContext(r.Context()).Error("Failed to render page", err, nil)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func staticFS() http.FileSystem {
	sub, err := fs.Sub(webFS, "web/static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
