package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/pet-house-api/app"
	"github.com/upb/pet-house-api/config"
	"github.com/upb/pet-house-api/internal/auth"
	"github.com/upb/pet-house-api/models"
	"github.com/upb/pet-house-api/repositories/memory"
	"github.com/upb/pet-house-api/token"
	"github.com/upb/pet-house-api/utils"
	"go.uber.org/zap/zaptest"
)

const (
	testSecret = "routes-test-secret-that-is-long-enough"
	adminEmail = "admin@pethouse.test"
	ownerEmail = "owner@pethouse.test"
	otherEmail = "other@pethouse.test"
)

type testServer struct {
	t     *testing.T
	srv   *httptest.Server
	deps  *app.Dependencies
	store *memory.Store
}

func newTestServer(t *testing.T, mutate ...func(*config.Config)) *testServer {
	t.Helper()

	cfg := &config.Config{
		Environment: "test",
		Store:       config.StoreConfig{Driver: config.StoreDriverMemory},
		Auth:        config.AuthConfig{TokenSecret: testSecret},
		CORS:        config.CORSConfig{AllowedOrigins: []string{"*"}},
		Observability: config.ObservabilityConfig{
			LogLevel:  "debug",
			LogFormat: "json",
		},
	}
	for _, m := range mutate {
		m(cfg)
	}

	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.InsertOne(ctx, models.UsersCollection, "u-admin",
		&models.User{ID: "u-admin", Email: adminEmail, Role: auth.RoleAdmin}))
	require.NoError(t, store.InsertOne(ctx, models.UsersCollection, "u-owner",
		&models.User{ID: "u-owner", Email: ownerEmail, Role: auth.RoleUser}))

	deps, err := app.NewDependenciesWithStore(cfg, store, zaptest.NewLogger(t))
	require.NoError(t, err)

	srv := httptest.NewServer(SetupRoutes(deps))
	t.Cleanup(srv.Close)

	return &testServer{t: t, srv: srv, deps: deps, store: store}
}

func (s *testServer) tokenFor(email string) string {
	s.t.Helper()
	signed, err := s.deps.Tokens.Issue(context.Background(), auth.Identity{Email: email})
	require.NoError(s.t, err)
	return signed
}

// do sends a request; authorization is sent verbatim when non-empty
func (s *testServer) do(method, path, body, authorization string) (*http.Response, string) {
	s.t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, s.srv.URL+path, reader)
	require.NoError(s.t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	return resp, string(data)
}

func (s *testServer) bearer(email string) string {
	return "Bearer " + s.tokenFor(email)
}

func message(t *testing.T, body string) string {
	t.Helper()
	var response utils.ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(body), &response))
	return response.Message
}

func TestPublicEndpoints(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"pet-house api is running"}`, body)

	resp, _ = s.do(http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = s.do(http.MethodGet, "/readyz", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = s.do(http.MethodGet, "/nowhere", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "endpoint not found", message(t, body))
	assert.NotEmpty(t, resp.Header.Get("Content-Type"))
}

func TestTokenIssuance(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(http.MethodPost, "/jwt", `{"email":"`+adminEmail+`"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var issued struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &issued))
	require.NotEmpty(t, issued.Token)

	resp, _ = s.do(http.MethodGet, "/users", "", "Bearer "+issued.Token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthenticationGuard(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name          string
		authorization string
		status        int
		message       string
	}{
		{"missing header", "", http.StatusUnauthorized, "unauthorized access"},
		{"wrong scheme", "Token abc", http.StatusUnauthorized, "no access"},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized, "no access"},
		{"non admin", s.bearer(ownerEmail), http.StatusForbidden, "forbidden access"},
		{"unknown user", s.bearer("ghost@pethouse.test"), http.StatusForbidden, "forbidden access"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := s.do(http.MethodGet, "/users", "", tt.authorization)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.message, message(t, body))
		})
	}
}

func TestExpiredTokenIsRejected(t *testing.T) {
	s := newTestServer(t)

	past, err := token.NewService(token.Config{Secret: testSecret},
		token.WithClock(func() time.Time { return time.Now().Add(-token.TokenLifetime - time.Hour) }))
	require.NoError(t, err)
	expired, err := past.Issue(context.Background(), auth.Identity{Email: adminEmail})
	require.NoError(t, err)

	resp, body := s.do(http.MethodGet, "/users", "", "Bearer "+expired)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "no access", message(t, body))
}

func TestUserLifecycle(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(http.MethodPost, "/users", `{"name":"New","email":"new@pethouse.test","role":"admin"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var created struct {
		Acknowledged bool    `json:"acknowledged"`
		InsertedID   *string `json:"insertedId"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &created))
	assert.True(t, created.Acknowledged)
	require.NotNil(t, created.InsertedID)

	resp, body = s.do(http.MethodPost, "/users", `{"email":"new@pethouse.test"}`, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"user already exist","insertedId":null}`, body)

	newUser := s.bearer("new@pethouse.test")

	resp, body = s.do(http.MethodGet, "/users/admin/new@pethouse.test", "", newUser)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"admin":false}`, body)

	resp, body = s.do(http.MethodGet, "/users/admin/"+adminEmail, "", newUser)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "forbidden access", message(t, body))

	resp, _ = s.do(http.MethodPatch, "/users/admin/"+*created.InsertedID, "", newUser)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = s.do(http.MethodPatch, "/users/admin/"+*created.InsertedID, "", s.bearer(adminEmail))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"acknowledged":true,"matchedCount":1,"modifiedCount":1,"upsertedId":null}`, body)

	resp, body = s.do(http.MethodGet, "/users/admin/new@pethouse.test", "", newUser)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"admin":true}`, body)

	resp, body = s.do(http.MethodPatch, "/users/admin/ghost", "", s.bearer(adminEmail))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "user not found", message(t, body))

	resp, body = s.do(http.MethodDelete, "/users/"+*created.InsertedID, "", s.bearer(adminEmail))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"acknowledged":true,"deletedCount":1}`, body)
}

func TestCheckAdminWithEncodedEmail(t *testing.T) {
	s := newTestServer(t)
	owner := s.bearer(ownerEmail)

	resp, body := s.do(http.MethodGet, "/users/admin/owner%40pethouse.test", "", owner)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"admin":false}`, body)

	resp, body = s.do(http.MethodGet, "/users/admin/admin%40pethouse.test", "", owner)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "forbidden access", message(t, body))
}

func TestUnknownBodyFieldsAreRejected(t *testing.T) {
	s := newTestServer(t)
	owner := s.bearer(ownerEmail)

	resp, body := s.do(http.MethodPost, "/pets", `{"_id":"p1","name":"x","age":1,"breed":"lab","email":"a@b.co"}`, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, message(t, body), `unknown field "breed"`)

	resp, _ = s.do(http.MethodGet, "/pets/p1", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = s.do(http.MethodPost, "/pets", `{"_id":"p1","name":"x","age":1}`, owner)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = s.do(http.MethodPut, "/pets/p1", `{"name":"x","breed":"lab"}`, owner)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, message(t, body), `unknown field "breed"`)
}

func TestOwnedResourceScoping(t *testing.T) {
	s := newTestServer(t)
	owner := s.bearer(ownerEmail)
	other := s.bearer(otherEmail)
	admin := s.bearer(adminEmail)

	resp, body := s.do(http.MethodPost, "/pets", `{"_id":"p1","name":"Milo","age":2}`, owner)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"acknowledged":true,"insertedId":"p1"}`, body)

	resp, body = s.do(http.MethodGet, "/pets?email="+ownerEmail, "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"p1"`)

	t.Run("mutations need a token", func(t *testing.T) {
		resp, body := s.do(http.MethodPut, "/pets/p1", `{"name":"x"}`, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "unauthorized access", message(t, body))

		resp, _ = s.do(http.MethodDelete, "/campaigns/c1", "", "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("non owner cannot replace or delete", func(t *testing.T) {
		resp, body := s.do(http.MethodPut, "/pets/p1", `{"name":"Stolen"}`, other)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "Pet not found or unauthorized", message(t, body))

		resp, body = s.do(http.MethodDelete, "/pets/p1", "", other)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "Pet not found or unauthorized", message(t, body))
	})

	t.Run("owner replace is idempotent", func(t *testing.T) {
		resp, body := s.do(http.MethodPut, "/pets/p1", `{"name":"Milo","age":3}`, owner)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"acknowledged":true,"matchedCount":1,"modifiedCount":1,"upsertedId":null}`, body)

		resp, body = s.do(http.MethodPut, "/pets/p1", `{"name":"Milo","age":3}`, owner)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"acknowledged":true,"matchedCount":1,"modifiedCount":0,"upsertedId":null}`, body)
	})

	t.Run("admin may delete any record", func(t *testing.T) {
		resp, body := s.do(http.MethodDelete, "/pets/p1", "", admin)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"acknowledged":true,"deletedCount":1}`, body)

		resp, _ = s.do(http.MethodGet, "/pets/p1", "", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("campaign and adoption use their own owner fields", func(t *testing.T) {
		resp, _ := s.do(http.MethodPost, "/campaigns", `{"_id":"c1","petName":"Milo","maxDonation":100}`, owner)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, body := s.do(http.MethodGet, "/campaigns/c1", "", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, `"createdBy":"`+ownerEmail+`"`)

		resp, _ = s.do(http.MethodPost, "/adoptions", `{"_id":"a1","petId":"p2"}`, other)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, body = s.do(http.MethodGet, "/adoptions?email="+otherEmail, "", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, `"userEmail":"`+otherEmail+`"`)

		resp, _ = s.do(http.MethodDelete, "/adoptions/a1", "", owner)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp, _ = s.do(http.MethodDelete, "/adoptions/a1", "", other)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestCreatePolicy(t *testing.T) {
	t.Run("anonymous create allowed by default", func(t *testing.T) {
		s := newTestServer(t)

		resp, _ := s.do(http.MethodPost, "/pets", `{"name":"Stray","email":"finder@pethouse.test"}`, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("anonymous create refused when required", func(t *testing.T) {
		s := newTestServer(t, func(cfg *config.Config) { cfg.Policy.RequireAuthOnCreate = true })

		resp, body := s.do(http.MethodPost, "/pets", `{"name":"Stray"}`, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "unauthorized access", message(t, body))

		resp, _ = s.do(http.MethodPost, "/pets", `{"name":"Stray"}`, s.bearer(ownerEmail))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("invalid token on optional route is still rejected", func(t *testing.T) {
		s := newTestServer(t)

		resp, body := s.do(http.MethodPost, "/pets", `{"name":"Stray"}`, "Bearer broken")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "no access", message(t, body))
	})
}

func TestCatalogRoutes(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.store.InsertOne(context.Background(), models.CategoriesCollection, "dog",
		&models.Category{ID: "dog", Name: "Dog"}))

	resp, body := s.do(http.MethodGet, "/categories", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"Dog"`)

	resp, _ = s.do(http.MethodGet, "/categories/dog", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = s.do(http.MethodGet, "/reviews", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, body)
}
