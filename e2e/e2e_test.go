//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"giapha-go/internal/app"
	"giapha-go/internal/config"
	"giapha-go/internal/db"
	"giapha-go/pkg/logger"
	"gorm.io/gorm"
)

const (
	adminUsername = "truongtoc"
	adminPassword = "e2e-password"
)

type testEnv struct {
	server *httptest.Server
	app    *app.App
}

func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("E2E_DB_DSN")
	if dsn == "" {
		t.Skip("E2E_DB_DSN not set; skipping e2e tests")
	}

	log := logger.NewNop()
	cfg := config.Config{
		HTTPPort:    "0",
		CORSOrigins: []string{"http://localhost:5173"},
		TreeCache:   config.TreeCacheConfig{TTL: time.Minute},
		DB:          config.DBConfig{DSN: dsn, AutoMigrate: true},
		Auth: config.AuthConfig{
			JWTSecret:     "e2e-secret",
			TokenTTL:      time.Hour,
			Issuer:        "giapha",
			MaxAttempts:   5,
			LockoutWindow: time.Minute,
			BcryptCost:    4,
			AdminUsername: adminUsername,
			AdminPassword: adminPassword,
		},
		Storage: config.StorageConfig{MaxUploadSize: 1 << 20},
	}

	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}
	if _, err := db.Migrate(dbConn, log); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := cleanDB(dbConn); err != nil {
		t.Fatalf("clean db: %v", err)
	}
	if sqlDB, err := dbConn.DB(); err == nil {
		_ = sqlDB.Close()
	}

	application, err := app.New(context.Background(), cfg, log)
	if err != nil {
		t.Fatalf("app init: %v", err)
	}

	server := httptest.NewServer(application.HTTPServer().Handler)
	return &testEnv{server: server, app: application}
}

func (e *testEnv) Close() {
	e.server.Close()
	_ = e.app.Close()
}

func cleanDB(dbConn *gorm.DB) error {
	return dbConn.Exec(
		"TRUNCATE TABLE photos, albums, news_posts, condolences, incense_logs, memorial_counters, fund_entries, accounts, members RESTART IDENTITY CASCADE",
	).Error
}

func requestJSON(t *testing.T, client *http.Client, method, url, token string, payload interface{}) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	return resp, respBody
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *errorBody      `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func decodeData(t *testing.T, body []byte, dst interface{}) {
	t.Helper()

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, body)
	}
	if !env.Success {
		t.Fatalf("expected success envelope, got %s", body)
	}
	if dst == nil {
		return
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data: %v (%s)", err, env.Data)
	}
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, body)
	}
	if env.Error == nil {
		t.Fatalf("expected error envelope, got %s", body)
	}
	return env.Error.Code
}

type memberResponse struct {
	ID         string  `json:"id"`
	FullName   string  `json:"full_name"`
	Generation int     `json:"generation"`
	ParentID   *string `json:"parent_id"`
	IsDeceased bool    `json:"is_deceased"`
}

type treeNode struct {
	Name       string `json:"name"`
	Attributes struct {
		ID         string `json:"id"`
		Generation int    `json:"generation"`
		BirthYear  *int   `json:"birth_year"`
	} `json:"attributes"`
	Children []treeNode `json:"children"`
}

func login(t *testing.T, env *testEnv, client *http.Client) string {
	t.Helper()

	resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/auth/login", "", map[string]string{
		"username": adminUsername,
		"password": adminPassword,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%s)", resp.StatusCode, body)
	}

	var result struct {
		Token string `json:"token"`
	}
	decodeData(t, body, &result)
	if result.Token == "" {
		t.Fatalf("login: empty token")
	}
	return result.Token
}

func TestE2EHealthAndAuth(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}

	resp, body := requestJSON(t, client, http.MethodGet, env.server.URL+"/api/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", resp.StatusCode)
	}
	decodeData(t, body, nil)

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/auth/login", "", map[string]string{
		"username": adminUsername,
		"password": "wrong-password",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad login: expected 401, got %d", resp.StatusCode)
	}
	if code := errorCode(t, body); code != "invalid_credentials" {
		t.Fatalf("bad login: unexpected code %q", code)
	}

	token := login(t, env, client)

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/auth/me", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me: expected 200, got %d", resp.StatusCode)
	}
	var me struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	decodeData(t, body, &me)
	if me.Username != adminUsername || me.Role != "admin" {
		t.Fatalf("me: unexpected account %+v", me)
	}

	resp, _ = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/auth/me", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("me without token: expected 401, got %d", resp.StatusCode)
	}
}

func TestE2EMembersAndTree(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}

	resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/members", "", map[string]interface{}{
		"full_name": "Nguyễn Văn Tổ",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous create: expected 401, got %d (%s)", resp.StatusCode, body)
	}

	token := login(t, env, client)

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/tree", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("empty tree: expected 200, got %d", resp.StatusCode)
	}
	var empty *treeNode
	decodeData(t, body, &empty)
	if empty != nil {
		t.Fatalf("empty tree: expected null, got %+v", empty)
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/members", token, map[string]interface{}{
		"full_name":  "Nguyễn Văn Tổ",
		"gender":     "male",
		"birth_date": "1890-03-12",
		"death_date": "1960-08-01",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create root: expected 201, got %d (%s)", resp.StatusCode, body)
	}
	var root memberResponse
	decodeData(t, body, &root)
	if root.Generation != 1 || !root.IsDeceased {
		t.Fatalf("create root: unexpected member %+v", root)
	}

	names := []string{"Nguyễn Văn Nhất", "Nguyễn Thị Nhì"}
	children := make([]memberResponse, 0, len(names))
	for i, name := range names {
		resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/members", token, map[string]interface{}{
			"full_name":   name,
			"parent_id":   root.ID,
			"birth_order": i + 1,
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create child: expected 201, got %d (%s)", resp.StatusCode, body)
		}
		var child memberResponse
		decodeData(t, body, &child)
		if child.Generation != 2 {
			t.Fatalf("create child: expected generation 2, got %d", child.Generation)
		}
		children = append(children, child)
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/tree", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("tree: expected 200, got %d", resp.StatusCode)
	}
	var tree treeNode
	decodeData(t, body, &tree)
	if tree.Name != "Nguyễn Văn Tổ" || tree.Attributes.BirthYear == nil || *tree.Attributes.BirthYear != 1890 {
		t.Fatalf("tree: unexpected root %+v", tree)
	}
	if len(tree.Children) != 2 || tree.Children[0].Name != names[0] || tree.Children[1].Name != names[1] {
		t.Fatalf("tree: unexpected children %+v", tree.Children)
	}

	resp, body = requestJSON(t, client, http.MethodPut, env.server.URL+"/api/members/"+root.ID, token, map[string]interface{}{
		"full_name": "Nguyễn Văn Tổ",
		"gender":    "male",
		"parent_id": children[0].ID,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("cycle: expected 400, got %d", resp.StatusCode)
	}
	if code := errorCode(t, body); code != "parent_cycle" {
		t.Fatalf("cycle: unexpected code %q", code)
	}

	resp, body = requestJSON(t, client, http.MethodDelete, env.server.URL+"/api/members/"+root.ID, token, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("delete root: expected 409, got %d (%s)", resp.StatusCode, body)
	}

	resp, _ = requestJSON(t, client, http.MethodDelete, env.server.URL+"/api/members/"+children[1].ID, token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete child: expected 204, got %d", resp.StatusCode)
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/tree/"+root.ID, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("subtree: expected 200, got %d", resp.StatusCode)
	}
	var subtree treeNode
	decodeData(t, body, &subtree)
	if len(subtree.Children) != 1 {
		t.Fatalf("subtree: expected 1 child after delete, got %d", len(subtree.Children))
	}
}

func TestE2EMemorialFundAndSettings(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	token := login(t, env, client)

	resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/members", token, map[string]interface{}{
		"full_name":   "Nguyễn Văn Tổ",
		"is_deceased": true,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create member: expected 201, got %d (%s)", resp.StatusCode, body)
	}
	var member memberResponse
	decodeData(t, body, &member)

	for i := 0; i < 2; i++ {
		resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/memorials/"+member.ID+"/incense", "", map[string]string{
			"visitor_name": "Cháu",
		})
		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
			t.Fatalf("incense: unexpected status %d (%s)", resp.StatusCode, body)
		}
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/memorials/"+member.ID, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("memorial: expected 200, got %d", resp.StatusCode)
	}
	var page struct {
		IncenseCount int64 `json:"incense_count"`
	}
	decodeData(t, body, &page)
	if page.IncenseCount != 2 {
		t.Fatalf("memorial: expected 2 incense, got %d", page.IncenseCount)
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/fund", token, map[string]interface{}{
		"kind":           "income",
		"amount":         500000,
		"occurred_on":    "2026-01-15",
		"contributor_id": member.ID,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("fund create: expected 201, got %d (%s)", resp.StatusCode, body)
	}
	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/fund", token, map[string]interface{}{
		"kind":        "expense",
		"amount":      200000,
		"occurred_on": "2026-02-01",
		"description": "Giỗ tổ",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("fund create: expected 201, got %d (%s)", resp.StatusCode, body)
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/fund/summary", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("fund summary: expected 200, got %d", resp.StatusCode)
	}
	var summary struct {
		Income  int64 `json:"income"`
		Expense int64 `json:"expense"`
		Balance int64 `json:"balance"`
	}
	decodeData(t, body, &summary)
	if summary.Income != 500000 || summary.Expense != 200000 || summary.Balance != 300000 {
		t.Fatalf("fund summary: unexpected %+v", summary)
	}

	resp, _ = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/fund/summary", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous fund: expected 401, got %d", resp.StatusCode)
	}

	resp, body = requestJSON(t, client, http.MethodPut, env.server.URL+"/api/settings", token, map[string]string{
		"clan_name": "Họ Nguyễn",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("settings put: expected 200, got %d (%s)", resp.StatusCode, body)
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/settings", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("settings get: expected 200, got %d", resp.StatusCode)
	}
	var settings map[string]string
	decodeData(t, body, &settings)
	if settings["clan_name"] != "Họ Nguyễn" {
		t.Fatalf("settings: unexpected clan_name %q", settings["clan_name"])
	}
}
