package api_client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/constants"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/contextkeys"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL:              srv.URL,
		Timeout:              2 * time.Second,
		MaxRetries:           2,
		RetryInitialInterval: time.Millisecond,
	})
}

func TestListUnwrapsDataEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/cities", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("page"))
		w.Write([]byte(`{"data":[{"id":1,"name":"Damascus"},{"id":2,"name":"Aleppo"}],"total":2}`))
	})

	cities, err := NewResourceClient[domain.City](client, constants.ResourceCities).
		List(context.Background(), url.Values{"page": {"3"}})
	require.NoError(t, err)
	assert.Equal(t, []domain.City{{ID: 1, Name: "Damascus"}, {ID: 2, Name: "Aleppo"}}, cities)
}

func TestGetAcceptsBareBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/units/7", r.URL.Path)
		w.Write([]byte(`{"id":7,"building_id":3,"unit_number":"A-12","floor":4,"status":"available"}`))
	})

	unit, err := NewResourceClient[domain.Unit](client, constants.ResourceUnits).Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "A-12", unit.UnitNumber)
	assert.Equal(t, int64(3), unit.BuildingID)
}

func TestEmptyListIsNotNil(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":null}`))
	})

	items, err := NewResourceClient[domain.Company](client, constants.ResourceCompanies).List(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestRequestCarriesBearerAndTraceHeaders(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		assert.Equal(t, "trace-42", r.Header.Get("X-Trace-ID"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body domain.City
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Homs", body.Name)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"id":11,"name":"Homs"}}`))
	})

	ctx := contextkeys.ContextWithTraceID(context.Background(), "trace-42")
	ctx = contextkeys.ContextWithSession(ctx, &domain.Session{AccessToken: "secret-token"})

	created, err := NewResourceClient[domain.City](client, constants.ResourceCities).Create(ctx, domain.City{Name: "Homs"})
	require.NoError(t, err)
	assert.Equal(t, int64(11), created.ID)
}

func TestCreateWithoutResponseBodyReturnsSentEntity(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	created, err := NewResourceClient[domain.City](client, constants.ResourceCities).Create(context.Background(), domain.City{Name: "Latakia"})
	require.NoError(t, err)
	assert.Equal(t, "Latakia", created.Name)
}

func TestErrorResponseBecomesAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Building not found"}`))
	})

	_, err := NewResourceClient[domain.Building](client, constants.ResourceBuildings).Get(context.Background(), 5)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Building not found", apiErr.Message)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestGetIsRetriedOnServerError(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[{"id":1,"name":"Villa"}]`))
	})

	types, err := NewResourceClient[domain.MainType](client, constants.ResourceMainTypes).List(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, types, 1)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGetGivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := NewResourceClient[domain.MainType](client, constants.ResourceMainTypes).List(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"token expired"}`))
	})

	_, err := NewResourceClient[domain.City](client, constants.ResourceCities).List(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestMutationsAreNotRetried(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := NewResourceClient[domain.Unit](client, constants.ResourceUnits).Delete(context.Background(), 4)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.MethodDelete, apiErr.Method)
	assert.Equal(t, "/api/units/4", apiErr.Path)
}

func TestInvalidIDIsRejectedLocally(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected request to %s", r.URL.Path)
	})

	_, err := NewResourceClient[domain.Unit](client, constants.ResourceUnits).Get(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestUpdateUsesPut(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/companies/9", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		w.Write(body)
	})

	updated, err := NewResourceClient[domain.Company](client, constants.ResourceCompanies).
		Update(context.Background(), 9, domain.Company{ID: 9, Name: "Sham Build"})
	require.NoError(t, err)
	assert.Equal(t, "Sham Build", updated.Name)
}

func TestUpdateSendsClearedOptionalFields(t *testing.T) {
	var sent map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		w.WriteHeader(http.StatusNoContent)
	})

	zero := 0.0
	_, err := NewResourceClient[domain.RealEstate](client, constants.ResourceRealEstate).
		Update(context.Background(), 3, domain.RealEstate{ID: 3, Title: "Flat", Latitude: &zero})
	require.NoError(t, err)

	for _, key := range []string{"description", "building_item_id", "furnishing", "longitude", "cover_image", "images"} {
		assert.Contains(t, sent, key)
	}
	assert.Nil(t, sent["building_item_id"])
	assert.Nil(t, sent["longitude"])
	assert.Equal(t, "", sent["description"])
	assert.Equal(t, 0.0, sent["latitude"])
	assert.NotContains(t, sent, "created_at")
}

func TestLogin(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		var creds domain.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "admin@example.com", creds.Email)
		w.Write([]byte(`{"access_token":"jwt-1","user":{"id":1,"name":"Admin","role":"admin"}}`))
	})

	token, user, err := NewAuthClient(client).Login(context.Background(), domain.Credentials{Email: "admin@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "jwt-1", token)
	assert.True(t, user.IsAdmin())
	assert.Equal(t, "admin@example.com", user.Email)
}

func TestLoginWithTokenOnlyReturnsNoUser(t *testing.T) {
	for name, body := range map[string]string{
		"no user":    `{"token":"jwt-2"}`,
		"null user":  `{"token":"jwt-2","user":null}`,
		"empty user": `{"token":"jwt-2","user":{}}`,
	} {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			})

			token, user, err := NewAuthClient(client).Login(context.Background(), domain.Credentials{Email: "a@b.c", Password: "pw"})
			require.NoError(t, err)
			assert.Equal(t, "jwt-2", token)
			assert.Nil(t, user)
		})
	}
}

func TestCurrentUserSendsSessionToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/me", r.URL.Path)
		assert.Equal(t, "Bearer jwt-3", r.Header.Get("Authorization"))
		w.Write([]byte(`{"data":{"id":5,"email":"a@b.c","role":"admin"}}`))
	})

	ctx := contextkeys.ContextWithSession(context.Background(), &domain.Session{AccessToken: "jwt-3"})
	user, err := NewAuthClient(client).CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), user.ID)
	assert.True(t, user.IsAdmin())
}

func TestLoginWithoutTokenFails(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"user":{"id":1}}`))
	})

	_, _, err := NewAuthClient(client).Login(context.Background(), domain.Credentials{Email: "a@b.c"})
	assert.Error(t, err)
}

func TestErrorMessageFallbacks(t *testing.T) {
	assert.Equal(t, "boom", errorMessage(500, []byte(`{"message":"boom"}`)))
	assert.Equal(t, "plain text", errorMessage(500, []byte("  plain text ")))
	assert.Equal(t, "Bad Gateway", errorMessage(502, nil))
}
