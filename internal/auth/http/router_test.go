package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/logind/internal/auth/domain"
	authhttp "github.com/aussiebroadwan/logind/internal/auth/http"
	"github.com/aussiebroadwan/logind/internal/auth/service"
	"github.com/aussiebroadwan/logind/internal/auth/store"
	"github.com/aussiebroadwan/logind/internal/auth/store/drivers/memory"
	"github.com/aussiebroadwan/logind/pkg/cryptox"
	"github.com/aussiebroadwan/logind/pkg/jwtx"
	"github.com/aussiebroadwan/logind/pkg/slogx"
	"github.com/stretchr/testify/require"
)

const testSecret = "http-test-secret"

type testEnv struct {
	router *authhttp.Router
	store  *memory.Store
	now    time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{store: memory.NewStore(), now: time.Now()}
	clock := func() time.Time { return env.now }

	env.router = authhttp.NewRouter("test", env.store, slogx.Discard())
	env.router.AuthService = &service.AuthService{
		Store:         env.store,
		Signer:        jwtx.NewSignerHS256(testSecret),
		RefreshTokens: &service.RefreshTokenManager{Store: env.store, TTL: jwtx.DefaultRefreshTokenTTL, Now: clock},
		AccessTTL:     jwtx.DefaultAccessTokenTTL,
		Now:           clock,
	}
	env.router.ApplyRoutes()

	hash, err := cryptox.HashPasswordWith(cryptox.AlgArgon2id, "secret123")
	require.NoError(t, err)
	_, err = env.store.Users().CreateUser(context.Background(), domain.User{Username: "alice", PasswordHash: hash})
	require.NoError(t, err)
	return env
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestLoginRefreshLogoutFlow(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/login", `{"user_name":"alice","password":"secret123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	require.NotEmpty(t, rec.Header().Get(slogx.RequestIDHeader))

	pair := decode[map[string]string](t, rec)
	require.Len(t, pair, 2)
	require.Regexp(t, `^[0-9a-f]{32}$`, pair["refresh_token"])

	claims, err := jwtx.NewVerifierHS256(testSecret).Verify(pair["access_token"])
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Username)

	refreshBody := `{"refresh_token":"` + pair["refresh_token"] + `"}`

	rec = env.do(t, http.MethodPost, "/auth/refresh", refreshBody)
	require.Equal(t, http.StatusOK, rec.Code)
	access := decode[map[string]string](t, rec)
	require.Len(t, access, 1)
	require.NotEmpty(t, access["access_token"])

	rec = env.do(t, http.MethodPost, "/auth/logout", refreshBody)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"message":"successfully logout"}`, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/auth/refresh", refreshBody)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.JSONEq(t, `{"error":"Invalid user"}`, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/auth/logout", refreshBody)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"message":"successfully logout"}`, rec.Body.String())
}

func TestLoginRejections(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		body string
	}{
		{"wrong password", `{"user_name":"alice","password":"nope"}`},
		{"unknown user", `{"user_name":"mallory","password":"secret123"}`},
		{"wrong case", `{"user_name":"ALICE","password":"secret123"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/auth/login", tc.body)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.JSONEq(t, `{"error":"Invalid user"}`, rec.Body.String())
		})
	}
}

func TestMalformedBodies(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		path string
		body string
	}{
		{"login not json", "/auth/login", `user_name=alice`},
		{"login missing password", "/auth/login", `{"user_name":"alice"}`},
		{"login missing user", "/auth/login", `{"password":"secret123"}`},
		{"refresh empty object", "/auth/refresh", `{}`},
		{"refresh wrong type", "/auth/refresh", `{"refresh_token":42}`},
		{"logout truncated", "/auth/logout", `{"refresh_token":`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, tc.path, tc.body)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			require.JSONEq(t, `{"error":"invalid request body"}`, rec.Body.String())
		})
	}
}

func TestRefreshUnknownAndExpired(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/refresh", `{"refresh_token":"deadbeefdeadbeefdeadbeefdeadbeef"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/auth/login", `{"user_name":"alice","password":"secret123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	pair := decode[map[string]string](t, rec)

	env.now = env.now.Add(7*24*time.Hour + time.Second)

	rec = env.do(t, http.MethodPost, "/auth/refresh", `{"refresh_token":"`+pair["refresh_token"]+`"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.JSONEq(t, `{"error":"Invalid user"}`, rec.Body.String())
}

func TestLogoutUnknownToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/logout", `{"refresh_token":"never-issued"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"message":"successfully logout"}`, rec.Body.String())
}

func TestConcurrentLogout(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/login", `{"user_name":"alice","password":"secret123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	pair := decode[map[string]string](t, rec)
	body := `{"refresh_token":"` + pair["refresh_token"] + `"}`

	var wg sync.WaitGroup
	codes := make([]int, 2)
	for i := range codes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/auth/logout", strings.NewReader(body))
			w := httptest.NewRecorder()
			env.router.ServeHTTP(w, req)
			codes[i] = w.Code
		}()
	}
	wg.Wait()
	require.Equal(t, []int{http.StatusOK, http.StatusOK}, codes)

	rt, err := env.store.RefreshTokens().GetRefreshTokenByToken(context.Background(), pair["refresh_token"])
	require.NoError(t, err)
	require.True(t, rt.Revoked)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMethodNotAllowed(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/auth/login", "")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

// brokenStore fails every call.
type brokenStore struct {
	store.Store
}

var errDown = errors.New("store down")

func (brokenStore) Ping(context.Context) error { return errDown }
func (brokenStore) Users() store.Users         { return brokenUsers{} }
func (brokenStore) RefreshTokens() store.RefreshTokens {
	return brokenTokens{}
}

type brokenUsers struct{ store.Users }

func (brokenUsers) GetUserByUsername(context.Context, string) (domain.User, error) {
	return domain.User{}, errDown
}

type brokenTokens struct{ store.RefreshTokens }

func (brokenTokens) RevokeRefreshToken(context.Context, string) (bool, error) { return false, errDown }

func TestStoreFailures(t *testing.T) {
	st := brokenStore{}
	router := authhttp.NewRouter("test", st, slogx.Discard())
	router.AuthService = &service.AuthService{
		Store:         st,
		Signer:        jwtx.NewSignerHS256(testSecret),
		RefreshTokens: &service.RefreshTokenManager{Store: st},
	}
	router.ApplyRoutes()

	serve := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	t.Run("login becomes 500", func(t *testing.T) {
		rec := serve(http.MethodPost, "/auth/login", `{"user_name":"alice","password":"x"}`)
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
	})

	t.Run("logout still succeeds", func(t *testing.T) {
		rec := serve(http.MethodPost, "/auth/logout", `{"refresh_token":"abc"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `{"message":"successfully logout"}`, rec.Body.String())
	})

	t.Run("readyz reports degraded", func(t *testing.T) {
		rec := serve(http.MethodGet, "/readyz", "")
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var body struct {
			Status string `json:"status"`
			Checks struct {
				Database string `json:"database"`
			} `json:"checks"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "degraded", body.Status)
		require.Equal(t, "error", body.Checks.Database)
	})
}

func TestReadyz(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/readyz", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "ok", body["status"])
	require.Equal(t, "test", body["version"])
	require.Equal(t, map[string]any{"database": "ok"}, body["checks"])
}

func TestSwaggerUI(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/swagger/doc.json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "/auth/login")
}
