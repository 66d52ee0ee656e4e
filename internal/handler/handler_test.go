package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Dan9191/grocery-store/internal/auth"
	"github.com/Dan9191/grocery-store/internal/metrics"
	"github.com/Dan9191/grocery-store/internal/repository"
	"github.com/Dan9191/grocery-store/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticHealth bool

func (s staticHealth) Healthy() bool { return bool(s) }

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Token   string          `json:"token"`
}

func newTestServer(t *testing.T) (http.Handler, *repository.Memory) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	store := repository.NewMemory()
	authSvc := service.NewAuthService(store, auth.NewTokenManager("test-secret", time.Hour), nil, log)
	catalogSvc := service.NewCatalogService(store, log)
	h := NewHandler(authSvc, catalogSvc, staticHealth(true), log, 5*time.Second)
	return NewRouter(h, metrics.New(), []string{"*"}), store
}

func do(t *testing.T, srv http.Handler, method, path, body string, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func TestRegisterLoginFlow(t *testing.T) {
	srv, store := newTestServer(t)

	rec, env := do(t, srv, http.MethodPost, "/api/v1/register", `{"name":"A","email":"a@x.com","password":"p"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "User registered successfully", env.Message)
	assert.NotContains(t, rec.Body.String(), "password")

	rec, env = do(t, srv, http.MethodPost, "/api/v1/register", `{"name":"A","email":"a@x.com","password":"p"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "User already exists", env.Message)
	assert.Equal(t, 1, store.UserCount())

	rec, env = do(t, srv, http.MethodPost, "/api/v1/login", `{"email":"a@x.com","password":"p"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.Token)

	rec, _ = do(t, srv, http.MethodPost, "/api/v1/login", `{"email":"a@x.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_FailureResponsesMatch(t *testing.T) {
	srv, _ := newTestServer(t)
	do(t, srv, http.MethodPost, "/api/v1/register", `{"name":"A","email":"a@x.com","password":"p"}`)

	wrongPassword, _ := do(t, srv, http.MethodPost, "/api/v1/login", `{"email":"a@x.com","password":"wrong"}`)
	unknownEmail, _ := do(t, srv, http.MethodPost, "/api/v1/login", `{"email":"nobody@x.com","password":"p"}`)

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, wrongPassword.Code, unknownEmail.Code)
	assert.JSONEq(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestRegister_BadRequests(t *testing.T) {
	srv, store := newTestServer(t)

	for _, body := range []string{"", "{", `{"email":""}`, `[1,2]`, `{"email":"a@x.com"} {}`} {
		rec, env := do(t, srv, http.MethodPost, "/api/v1/register", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
		assert.False(t, env.Success)
	}
	assert.Equal(t, 0, store.UserCount())
}

func TestMe(t *testing.T) {
	srv, _ := newTestServer(t)
	do(t, srv, http.MethodPost, "/api/v1/register", `{"name":"A","email":"a@x.com","password":"p"}`)
	_, login := do(t, srv, http.MethodPost, "/api/v1/login", `{"email":"a@x.com","password":"p"}`)

	rec, env := do(t, srv, http.MethodGet, "/api/v1/me", "", "Authorization", "Bearer "+login.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	var profile ProfileResponse
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "a@x.com", profile.Email)

	rec, _ = do(t, srv, http.MethodGet, "/api/v1/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCatalogCreateAndList(t *testing.T) {
	srv, _ := newTestServer(t)

	routes := []struct {
		create, list, createMsg, listMsg string
	}{
		{"/flash-sale", "/flash-sale", "New Flash sale Added successfully!", "Flash sale are retrieved successfully!"},
		{"/category", "/categories", "New Category Added successfully!", "Category are retrieved successfully!"},
		{"/product", "/fish", "New Product Added successfully!", "Products are retrieved successfully!"},
	}
	for _, rt := range routes {
		t.Run(rt.create, func(t *testing.T) {
			rec, env := do(t, srv, http.MethodPost, rt.create, `{"title":"x","price":12,"discount":0.5,"tags":["a"]}`)
			require.Equal(t, http.StatusCreated, rec.Code)
			assert.Equal(t, rt.createMsg, env.Message)

			var res struct {
				Acknowledged bool   `json:"acknowledged"`
				InsertedID   string `json:"insertedId"`
			}
			require.NoError(t, json.Unmarshal(env.Data, &res))
			assert.True(t, res.Acknowledged)
			assert.Len(t, res.InsertedID, 24)

			rec, env = do(t, srv, http.MethodGet, rt.list, "")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, rt.listMsg, env.Message)

			var docs []map[string]any
			require.NoError(t, json.Unmarshal(env.Data, &docs))
			require.Len(t, docs, 1)
			assert.Equal(t, res.InsertedID, docs[0]["_id"])
			assert.Equal(t, "x", docs[0]["title"])
			assert.Equal(t, 12.0, docs[0]["price"])
			assert.Equal(t, 0.5, docs[0]["discount"])
		})
	}
}

func TestCreate_EmptyBodyInsertsEmptyDocument(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, _ := do(t, srv, http.MethodPost, "/category", "")
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = do(t, srv, http.MethodPost, "/category", `"just a string"`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListEmptyCollection(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, env := do(t, srv, http.MethodGet, "/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestPopularProductsSortedByRating(t *testing.T) {
	srv, _ := newTestServer(t)
	for _, body := range []string{`{"n":"a","ratings":3}`, `{"n":"b","ratings":4.8}`, `{"n":"c","ratings":1}`, `{"n":"d","ratings":5}`} {
		rec, _ := do(t, srv, http.MethodPost, "/product", body)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, env := do(t, srv, http.MethodGet, "/products", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var docs []struct {
		N       string  `json:"n"`
		Ratings float64 `json:"ratings"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &docs))
	require.Len(t, docs, 4)
	assert.Equal(t, "d", docs[0].N)
	for i := 1; i < len(docs); i++ {
		assert.GreaterOrEqual(t, docs[i-1].Ratings, docs[i].Ratings)
	}
}

func TestProductsByCategory(t *testing.T) {
	srv, _ := newTestServer(t)
	for _, body := range []string{`{"category":"Salmon"}`, `{"category":"salmon"}`, `{"category":"Tuna"}`, `{"category":"Salmonella"}`} {
		do(t, srv, http.MethodPost, "/product", body)
	}

	_, upper := do(t, srv, http.MethodGet, "/fish/Salmon", "")
	_, lower := do(t, srv, http.MethodGet, "/fish/salmon", "")

	var a, b []map[string]any
	require.NoError(t, json.Unmarshal(upper.Data, &a))
	require.NoError(t, json.Unmarshal(lower.Data, &b))
	assert.Len(t, a, 2)
	assert.ElementsMatch(t, a, b)
}

func TestGetProduct(t *testing.T) {
	srv, _ := newTestServer(t)
	_, created := do(t, srv, http.MethodPost, "/product", `{"name":"Salmon","ratings":4}`)
	var res struct {
		InsertedID string `json:"insertedId"`
	}
	require.NoError(t, json.Unmarshal(created.Data, &res))

	rec, env := do(t, srv, http.MethodGet, "/single-fish/"+res.InsertedID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Product is retrieved successfully!", env.Message)
	assert.JSONEq(t, `{"_id":"`+res.InsertedID+`","name":"Salmon","ratings":4}`, string(env.Data))

	rec, env = do(t, srv, http.MethodGet, "/single-fish/not-an-id", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)

	rec, _ = do(t, srv, http.MethodGet, "/single-fish/0123456789abcdef01234567", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLiveness(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LivenessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Server is running smoothly", resp.Message)
	assert.Equal(t, "up", resp.Store)
	assert.WithinDuration(t, time.Now(), resp.Timestamp, time.Minute)
}

func TestUnknownRouteAndMethod(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, env := do(t, srv, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)

	rec, _ = do(t, srv, http.MethodDelete, "/products", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/product", nil)
	req.Header.Set("Origin", "http://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	do(t, srv, http.MethodGet, "/fish", "")

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.Contains(rec.Body.Bytes(), []byte(`route="/fish"`)))
}
