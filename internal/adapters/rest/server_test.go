package rest

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/domain"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/port"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/i18n"
)

type nopLogger struct{}

func (nopLogger) Info(string, port.Fields)             {}
func (nopLogger) Warn(string, port.Fields)             {}
func (nopLogger) Error(string, error, port.Fields)     {}
func (nopLogger) Debug(string, port.Fields)            {}
func (l nopLogger) WithFields(port.Fields) port.LoggerPort { return l }

type testEnv struct {
	handler       http.Handler
	browse        *fakeBrowse
	details       *fakeDetails
	stats         *fakeStats
	login         *fakeLogin
	logout        *fakeLogout
	cities        *fakeCatalog[domain.City]
	neighborhoods *fakeCatalog[domain.Neighborhood]
	upstream      chan *http.Request
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	upstream := make(chan *http.Request, 1)
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstream <- r.Clone(r.Context())
		RespondWithJSON(w, http.StatusOK, map[string]any{"data": []any{}})
	}))
	t.Cleanup(backend.Close)

	bundle, err := i18n.NewBundle("en")
	require.NoError(t, err)

	expires := time.Now().Add(time.Hour)
	resolve := &fakeResolve{sessions: map[string]*domain.Session{
		"admin-sid": {ID: "admin-sid", AccessToken: "tok-admin", ExpiresAt: expires,
			User: domain.User{ID: 1, Name: "Admin", Role: domain.RoleAdmin}},
		"user-sid": {ID: "user-sid", AccessToken: "tok-user", ExpiresAt: expires,
			User: domain.User{ID: 2, Name: "User", Role: domain.RoleUser}},
	}}

	catalogs, cities, neighborhoods := newFakeCatalogs()
	env := &testEnv{
		browse:        &fakeBrowse{},
		details:       &fakeDetails{},
		stats:         &fakeStats{stats: &domain.DashboardStats{Counts: map[string]int{"cities": 2}}},
		login:         &fakeLogin{},
		logout:        &fakeLogout{},
		cities:        cities,
		neighborhoods: neighborhoods,
		upstream:      upstream,
	}

	srv, err := NewServer(ServerConfig{
		Port:               "0",
		CORSAllowedOrigins: []string{"http://widgets.test"},
		APIBaseURL:         backend.URL,
	}, Dependencies{
		Bundle:           bundle,
		BrowseListings:   env.browse,
		ListingDetails:   env.details,
		BuildingOverview: &fakeOverview{err: domain.ErrNotFound},
		DashboardStats:   env.stats,
		Login:            env.login,
		Logout:           env.logout,
		ResolveSession:   resolve,
		Catalogs:         catalogs,
	}, nopLogger{})
	require.NoError(t, err)
	env.handler = srv.Handler()
	return env
}

func (e *testEnv) do(req *http.Request, sid string) *httptest.ResponseRecorder {
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: sid})
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/healthz", nil), "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Trace-ID"))
}

func TestListingsPage(t *testing.T) {
	env := newTestEnv(t)
	env.browse.result = &domain.ListingSearchResult{
		Filter: domain.ListingFilter{CityID: 3, Page: 2, PerPage: 12},
		Page: domain.ListingPage{
			Items:      []domain.RealEstate{{ID: 7, Title: "Sea view flat", Price: 1500}},
			Total:      30,
			Page:       2,
			PerPage:    12,
			TotalPages: 3,
		},
		Dictionaries: domain.Dictionaries{Cities: []domain.City{{ID: 3, Name: "Latakia"}}},
	}

	rec := env.do(httptest.NewRequest(http.MethodGet, "/listings?city_id=3&page=2&min_price=abc", nil), "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3), env.browse.last.CityID)
	assert.Equal(t, 2, env.browse.last.Page)
	assert.Zero(t, env.browse.last.MinPrice)

	body := rec.Body.String()
	assert.Contains(t, body, "Sea view flat")
	assert.Contains(t, body, "/listings/7")
	assert.Contains(t, body, "Latakia")
	assert.Contains(t, body, "Page 2 of 3")
	assert.Contains(t, body, "page=1")
	assert.Contains(t, body, "page=3")
}

func TestListingDetailsNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/listings/abc", nil), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")

	env.details.err = domain.ErrNotFound
	rec = env.do(httptest.NewRequest(http.MethodGet, "/listings/5", nil), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListingDetailsPage(t *testing.T) {
	env := newTestEnv(t)
	env.details.details = &domain.ListingDetails{
		Listing:  domain.RealEstate{ID: 5, Title: "Old town house", Latitude: coord(33.51), Longitude: coord(36.27)},
		CityName: "Damascus",
		Nearby:   []domain.RealEstate{{ID: 6, Title: "Next door"}},
	}

	rec := env.do(httptest.NewRequest(http.MethodGet, "/listings/5", nil), "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Old town house")
	assert.Contains(t, body, "Damascus")
	assert.Contains(t, body, "Next door")
	assert.Contains(t, body, "openstreetmap.org")
}

func TestUnknownRouteRendersNotFoundPage(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/no/such/page", nil), "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")
}

func TestBackendFailureShowsGenericError(t *testing.T) {
	env := newTestEnv(t)
	env.browse.err = assert.AnError

	rec := env.do(httptest.NewRequest(http.MethodGet, "/", nil), "")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Something went wrong")
}

func TestLanguageFromQuery(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/?lang=ar", nil), "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `dir="rtl"`)
	cookie := findCookie(rec, i18n.LangCookieName)
	require.NotNil(t, cookie)
	assert.Equal(t, "ar", cookie.Value)
}

func TestFlashIsShownOnce(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: flashCookieName, Value: url.QueryEscape("success:toast.created")})

	rec := env.do(req, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Created successfully.")
	cookie := findCookie(rec, flashCookieName)
	require.NotNil(t, cookie)
	assert.Negative(t, cookie.MaxAge)
}

func TestAdminRequiresSession(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/admin/cities", nil), "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?next=%2Fadmin%2Fcities", rec.Header().Get("Location"))

	rec = env.do(httptest.NewRequest(http.MethodGet, "/admin/cities", nil), "user-sid")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Access denied")
}

func TestUnknownSessionCookieIsCleared(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/", nil), "stale")

	assert.Equal(t, http.StatusOK, rec.Code)
	cookie := findCookie(rec, sessionCookieName)
	require.NotNil(t, cookie)
	assert.Negative(t, cookie.MaxAge)
}

func TestAdminDashboardAndList(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/admin", nil), "admin-sid")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(httptest.NewRequest(http.MethodGet, "/admin/cities", nil), "admin-sid")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Damascus")
	assert.Contains(t, rec.Body.String(), "/admin/cities/1/edit")

	// ссылка city_id показывается названием города
	rec = env.do(httptest.NewRequest(http.MethodGet, "/admin/neighborhoods", nil), "admin-sid")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Mezzeh")
	assert.Contains(t, rec.Body.String(), "Damascus")
}

func TestAdminEditForm(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/admin/neighborhoods/4/edit", nil), "admin-sid")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="Mezzeh"`)
	assert.Contains(t, rec.Body.String(), `<option value="1" selected>Damascus</option>`)

	rec = env.do(httptest.NewRequest(http.MethodGet, "/admin/neighborhoods/99/edit", nil), "admin-sid")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminCreateSuccess(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(postForm("/admin/cities", url.Values{"name": {" Homs "}}), "admin-sid")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/cities", rec.Header().Get("Location"))
	require.Len(t, env.cities.payloads, 1)
	assert.Equal(t, map[string]any{"name": "Homs"}, env.cities.payloads[0])

	flash := findCookie(rec, flashCookieName)
	require.NotNil(t, flash)
	assert.Equal(t, url.QueryEscape("success:toast.created"), flash.Value)
}

func TestAdminCreateValidationError(t *testing.T) {
	env := newTestEnv(t)
	verr := domain.NewValidationError()
	verr.Add("name", "form.required")
	env.cities.mutErr = verr

	rec := env.do(postForm("/admin/cities", url.Values{"name": {""}}), "admin-sid")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "This field is required.")
	assert.Contains(t, rec.Body.String(), "Please fix the highlighted fields.")
}

func TestAdminCreateInvalidNumberSkipsBackend(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(postForm("/admin/neighborhoods", url.Values{"name": {"Malki"}, "city_id": {"abc"}}), "admin-sid")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Enter a valid number.")
	assert.Contains(t, rec.Body.String(), `value="Malki"`)
	assert.Empty(t, env.neighborhoods.payloads)
}

func TestAdminUpdateBackendFailureKeepsForm(t *testing.T) {
	env := newTestEnv(t)
	env.cities.mutErr = assert.AnError

	rec := env.do(postForm("/admin/cities/1", url.Values{"name": {"Aleppo"}}), "admin-sid")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Something went wrong. Please try again.")
	assert.Contains(t, rec.Body.String(), `value="Aleppo"`)
	assert.Equal(t, int64(1), env.cities.updatedID)
}

func TestAdminUnauthorizedEndsSession(t *testing.T) {
	env := newTestEnv(t)
	env.cities.mutErr = domain.ErrUnauthorized

	rec := env.do(postForm("/admin/cities/1", url.Values{"name": {"Aleppo"}}), "admin-sid")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.Equal(t, []string{"admin-sid"}, env.logout.deleted)

	cookie := findCookie(rec, sessionCookieName)
	require.NotNil(t, cookie)
	assert.Negative(t, cookie.MaxAge)
}

func TestAdminDelete(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(postForm("/admin/cities/1/delete", url.Values{"return_to": {"/admin/cities?x=1"}}), "admin-sid")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/cities?x=1", rec.Header().Get("Location"))
	assert.Equal(t, int64(1), env.cities.deletedID)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.login.session = &domain.Session{
		ID:        "new-sid",
		ExpiresAt: time.Now().Add(time.Hour),
		User:      domain.User{ID: 1, Role: domain.RoleAdmin},
	}

	rec := env.do(postForm("/login", url.Values{
		"email": {"admin@example.com"}, "password": {"secret"}, "next": {"/admin/cities"},
	}), "")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/cities", rec.Header().Get("Location"))
	cookie := findCookie(rec, sessionCookieName)
	require.NotNil(t, cookie)
	assert.Equal(t, "new-sid", cookie.Value)
	assert.True(t, cookie.HttpOnly)

	rec = env.do(postForm("/login", url.Values{
		"email": {"admin@example.com"}, "password": {"secret"}, "next": {"//evil.example"},
	}), "")
	assert.Equal(t, "/admin", rec.Header().Get("Location"))
}

func TestLoginFailure(t *testing.T) {
	env := newTestEnv(t)

	env.login.err = domain.ErrUnauthorized
	rec := env.do(postForm("/login", url.Values{"email": {"a@b.c"}, "password": {"x"}}), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Wrong email or password.")
	assert.Nil(t, findCookie(rec, sessionCookieName))

	verr := domain.NewValidationError()
	verr.Add("password", "form.required")
	env.login.err = verr
	rec = env.do(postForm("/login", url.Values{"email": {"a@b.c"}}), "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "This field is required.")
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(postForm("/logout", nil), "admin-sid")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, []string{"admin-sid"}, env.logout.deleted)
}

func TestAPIProxyInjectsSessionToken(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/api/cities?page=2", nil)
	req.Header.Set("Authorization", "Bearer forged")

	rec := env.do(req, "admin-sid")

	require.Equal(t, http.StatusOK, rec.Code)
	got := <-env.upstream
	assert.Equal(t, "/api/cities", got.URL.Path)
	assert.Equal(t, "2", got.URL.Query().Get("page"))
	assert.Equal(t, "Bearer tok-admin", got.Header.Get("Authorization"))
	assert.Empty(t, got.Header.Get("Cookie"))
	assert.NotEmpty(t, got.Header.Get("X-Trace-ID"))

	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/cities", nil), "")
	require.Equal(t, http.StatusOK, rec.Code)
	got = <-env.upstream
	assert.Empty(t, got.Header.Get("Authorization"))
}

func TestAPIProxyCORSPreflight(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/cities", nil)
	req.Header.Set("Origin", "http://widgets.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)

	rec := env.do(req, "")

	assert.Equal(t, "http://widgets.test", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}
