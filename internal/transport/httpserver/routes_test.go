package httpserver

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"giapha-go/internal/config"
	accountdomain "giapha-go/internal/domain/account"
	"giapha-go/internal/transport/httpserver/handler"
	"giapha-go/internal/transport/httpserver/middleware"
	"giapha-go/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenTable map[string]accountdomain.Principal

func (t tokenTable) Authenticate(_ context.Context, token string) (accountdomain.Principal, error) {
	principal, ok := t[token]
	if !ok {
		return accountdomain.Principal{}, accountdomain.ErrInvalidToken
	}
	return principal, nil
}

func newTestRouter() http.Handler {
	cfg := config.Config{
		CORSOrigins: []string{"https://giapha.example"},
		Storage:     config.StorageConfig{MaxUploadSize: 1 << 20},
	}
	tokens := tokenTable{
		"viewer": {AccountID: "v1", Username: "viewer", Role: accountdomain.RoleViewer},
		"editor": {AccountID: "e1", Username: "editor", Role: accountdomain.RoleEditor},
	}
	return NewRouter(cfg, handler.New(handler.Services{}, logger.NewNop()), tokens, middleware.NewMetrics(), logger.NewNop())
}

func serve(router http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRouterPermissions(t *testing.T) {
	router := newTestRouter()

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{name: "health is public", method: http.MethodGet, path: "/api/health", status: http.StatusOK},
		{name: "member write needs token", method: http.MethodPost, path: "/api/members", status: http.StatusUnauthorized},
		{name: "viewer cannot write members", method: http.MethodPost, path: "/api/members", token: "viewer", status: http.StatusForbidden},
		{name: "bad token on public read", method: http.MethodGet, path: "/api/tree", token: "forged", status: http.StatusUnauthorized},
		{name: "editor cannot read fund", method: http.MethodGet, path: "/api/fund", token: "editor", status: http.StatusForbidden},
		{name: "editor cannot export members", method: http.MethodGet, path: "/api/members/export", token: "editor", status: http.StatusForbidden},
		{name: "editor cannot list accounts", method: http.MethodGet, path: "/api/accounts", token: "editor", status: http.StatusForbidden},
		{name: "editor cannot write settings", method: http.MethodPut, path: "/api/settings", token: "editor", status: http.StatusForbidden},
		{name: "me needs token", method: http.MethodGet, path: "/api/auth/me", status: http.StatusUnauthorized},
		{name: "unknown route", method: http.MethodGet, path: "/api/nope", status: http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(router, tc.method, tc.path, tc.token)
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
		})
	}
}

func TestRouterPreflight(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/members", nil)
	req.Header.Set("Origin", "https://giapha.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://giapha.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouterExposesMetrics(t *testing.T) {
	router := newTestRouter()
	serve(router, http.MethodGet, "/api/health", "")

	rec := serve(router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `giapha_http_requests_total{method="GET",route="/api/health",status_code="200"} 1`), string(body))
}
