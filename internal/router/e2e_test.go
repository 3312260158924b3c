package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/writespace/internal/config"
	"github.com/writespace/internal/db"
	"github.com/writespace/internal/handler"
	"github.com/writespace/internal/model"
	"github.com/writespace/internal/service"
	"github.com/writespace/internal/store"
	"golang.org/x/crypto/bcrypt"
)

const e2eBaseURL = "http://writespace.test"

// localClient 直接调用 handler，并用 cookie jar 保持会话。
type localClient struct {
	handler http.Handler
	jar     http.CookieJar
}

func newLocalClient(t *testing.T, h http.Handler) *localClient {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &localClient{handler: h, jar: jar}
}

func (c *localClient) Do(req *http.Request) (*http.Response, error) {
	for _, cookie := range c.jar.Cookies(req.URL) {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	resp := w.Result()
	c.jar.SetCookies(req.URL, resp.Cookies())
	return resp, nil
}

func (c *localClient) call(t *testing.T, method, path string, body interface{}, dst interface{}) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequest(method, e2eBaseURL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if dst != nil {
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func newSQLiteRouter(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := db.Open(fmt.Sprintf("file:e2e-%d?mode=memory&cache=shared", time.Now().UnixNano()))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	api := handler.NewAPI(
		store.NewSQLStore(gdb),
		service.NewTokenService("e2e-secret", time.Hour),
		service.NewAISuggestionService(service.AISettings{}),
	)
	api.Auth().WithCost(bcrypt.MinCost)
	api.SetStorageDriver(config.StorageSQLite)

	return SetupRouter(config.AppConfig{SessionSecret: "e2e-secret"}, api)
}

func TestE2E_SessionFlowOnSQLite(t *testing.T) {
	client := newLocalClient(t, newSQLiteRouter(t))

	if code := client.call(t, http.MethodPost, "/api/auth/signup", gin.H{"name": "Ada", "email": "ada@example.com", "password": "secret"}, nil); code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d", code)
	}

	var me model.User
	if code := client.call(t, http.MethodGet, "/api/auth/me", nil, &me); code != http.StatusOK || me.Email != "ada@example.com" {
		t.Fatalf("me: %d %+v", code, me)
	}

	var draft model.Post
	if code := client.call(t, http.MethodPost, "/api/posts", gin.H{"title": "Draft", "content": "words here"}, &draft); code != http.StatusCreated {
		t.Fatalf("create draft: %d", code)
	}
	if draft.Category != model.DefaultCategory || len(draft.Tags) != 0 {
		t.Fatalf("unexpected draft defaults %+v", draft)
	}

	var published model.Post
	if code := client.call(t, http.MethodPost, "/api/posts", gin.H{
		"title": "Live", "content": "hello world", "category": "travel", "tags": []string{"x"}, "status": "published",
	}, &published); code != http.StatusCreated {
		t.Fatalf("create published: %d", code)
	}

	var list []model.Post
	client.call(t, http.MethodGet, "/api/posts", nil, &list)
	if len(list) != 1 || list[0].ID != published.ID {
		t.Fatalf("public list should only contain the published post: %+v", list)
	}

	for want := 1; want <= 2; want++ {
		var post model.Post
		client.call(t, http.MethodGet, fmt.Sprintf("/api/posts/%d", published.ID), nil, &post)
		if post.Views != want {
			t.Fatalf("expected views %d, got %d", want, post.Views)
		}
		if !post.UpdatedAt.Equal(published.UpdatedAt) {
			t.Fatalf("view accrual must not touch updatedAt")
		}
	}

	var drafted model.Post
	client.call(t, http.MethodGet, fmt.Sprintf("/api/posts/%d", draft.ID), nil, &drafted)
	if drafted.Views != 0 {
		t.Fatalf("draft views should stay 0, got %d", drafted.Views)
	}

	var stats service.AuthorStats
	client.call(t, http.MethodGet, "/api/me/stats", nil, &stats)
	if stats != (service.AuthorStats{Total: 2, Published: 1, Drafts: 1, TotalViews: 2}) {
		t.Fatalf("unexpected stats %+v", stats)
	}

	if code := client.call(t, http.MethodPost, "/api/auth/logout", nil, nil); code != http.StatusNoContent {
		t.Fatalf("logout: expected 204, got %d", code)
	}
	if code := client.call(t, http.MethodGet, "/api/auth/me", nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", code)
	}
	if code := client.call(t, http.MethodDelete, fmt.Sprintf("/api/posts/%d", draft.ID), nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous delete, got %d", code)
	}

	if code := client.call(t, http.MethodPost, "/api/auth/login", gin.H{"email": "ada@example.com", "password": "secret"}, nil); code != http.StatusOK {
		t.Fatalf("login: %d", code)
	}
	if code := client.call(t, http.MethodDelete, fmt.Sprintf("/api/posts/%d", draft.ID), nil, nil); code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", code)
	}
	if code := client.call(t, http.MethodGet, fmt.Sprintf("/api/posts/%d", draft.ID), nil, nil); code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", code)
	}
}
