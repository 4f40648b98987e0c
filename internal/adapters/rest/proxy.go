package rest

import (
	"context"
	"net/http"
	"net/http/httputil"
	"net/url"
	"slices"
	"strings"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/constants"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/contextkeys"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/port"
)

// CacheInvalidator сбрасывает закэшированные ответы ресурсов.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, resources ...string)
}

// NewAPIProxy проксирует /api/* в бэкенд и подставляет токен сессии.
// Токен в браузер не попадает, виджеты на странице ходят через этот прокси.
// Успешная мутация ресурса сбрасывает его кэш, как и мутация из админки. cache может быть nil.
func NewAPIProxy(target *url.URL, cache CacheInvalidator) http.Handler {
	proxy := httputil.NewSingleHostReverseProxy(target)
	basePath := strings.TrimRight(target.Path, "/")

	proxy.Director = func(req *http.Request) {
		req.URL.Scheme = target.Scheme
		req.URL.Host = target.Host
		req.Host = target.Host
		req.URL.Path = basePath + req.URL.Path
		req.URL.RawPath = ""

		// cookie сайта бэкенду не нужны
		req.Header.Del("Cookie")
		req.Header.Del("Authorization")
		if token := contextkeys.AccessTokenFromContext(req.Context()); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		if traceID := contextkeys.TraceIDFromContext(req.Context()); traceID != "" {
			req.Header.Set("X-Trace-ID", traceID)
		}
	}

	proxy.ModifyResponse = func(resp *http.Response) error {
		req := resp.Request
		if cache == nil || !isMutation(req.Method) || resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil
		}
		resource := proxiedResource(strings.TrimPrefix(req.URL.Path, basePath))
		if resource == "" {
			return nil
		}
		cache.Invalidate(req.Context(), constants.InvalidationScope(resource)...)
		return nil
	}

	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		contextkeys.LoggerFromContext(r.Context()).Error("API proxy request failed", err, port.Fields{
			"upstream": target.Host,
		})
		WriteJSONError(w, http.StatusBadGateway, "upstream unavailable")
	}

	return proxy
}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// proxiedResource - ресурс каталога из пути /api/{resource}[/...], иначе "".
func proxiedResource(path string) string {
	rest, ok := strings.CutPrefix(path, "/api/")
	if !ok {
		return ""
	}
	resource, _, _ := strings.Cut(rest, "/")
	if !slices.Contains(constants.AllResources, resource) {
		return ""
	}
	return resource
}
