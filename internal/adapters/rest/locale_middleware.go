package rest

import (
	"context"
	"net/http"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/i18n"
)

type translatorKeyType struct{}

var translatorKey = translatorKeyType{}

// LocaleMiddleware выбирает язык запроса и кладет переводчик в контекст.
func LocaleMiddleware(bundle *i18n.Bundle) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tag, persist := bundle.ResolveTag(r)
			if persist {
				i18n.SetLanguageCookie(w, tag)
			}
			ctx := context.WithValue(r.Context(), translatorKey, bundle.Translator(tag))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func translatorFrom(r *http.Request, bundle *i18n.Bundle) *i18n.Translator {
	if t, ok := r.Context().Value(translatorKey).(*i18n.Translator); ok {
		return t
	}
	return bundle.Translator(bundle.Default())
}
