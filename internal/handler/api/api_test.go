// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/folio/internal/cache"
	"github.com/olegiv/folio/internal/handler"
	"github.com/olegiv/folio/internal/middleware"
	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/service"
	"github.com/olegiv/folio/internal/session"
	"github.com/olegiv/folio/internal/testutil"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "correct-horse-battery"
)

type testEnv struct {
	srv     *httptest.Server
	client  *http.Client
	content *service.ContentService
}

type envOption func(*Deps, *RouterConfig)

func withContactLimit(burst int) envOption {
	return func(_ *Deps, c *RouterConfig) {
		c.ContactLimit = middleware.NewRateLimiter("contact", 0.001, burst, "Too many messages")
	}
}

func withSiteURL(url string) envOption {
	return func(d *Deps, _ *RouterConfig) {
		d.SiteURL = url
	}
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	db := testutil.TestDB(t)
	logger := testutil.DiscardLogger()

	users := service.NewUserService(db)
	_, err := users.Create(context.Background(), "Admin", adminEmail, adminPassword)
	require.NoError(t, err)

	sessions := session.New(db, session.Options{})
	t.Cleanup(sessions.Close)

	listCache := cache.NewListCache(cache.NewMemoryStore(time.Minute, 100), time.Minute, logger)
	content := service.NewContentService(db, service.WithListCache(listCache), service.WithLogger(logger))

	deps := Deps{
		Content:   content,
		Contacts:  service.NewContactService(db, nil, nil),
		Users:     users,
		Events:    service.NewEventService(db),
		Dashboard: service.NewDashboardService(db),
		Sessions:  sessions,
		Cache:     listCache,
		Logger:    logger,
	}
	cfg := RouterConfig{
		CSRFKey:    bytes.Repeat([]byte("k"), 32),
		Security:   middleware.DefaultSecurityHeadersConfig(true),
		Health:     handler.NewHealthHandler(db, t.TempDir(), "test", nil),
		UploadsDir: t.TempDir(),
	}
	for _, opt := range opts {
		opt(&deps, &cfg)
	}

	srv := httptest.NewServer(NewRouter(New(deps), cfg))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &testEnv{srv: srv, client: &http.Client{Jar: jar}, content: content}
}

type envelope struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    json.RawMessage        `json:"data"`
	Errors  model.ValidationErrors `json:"errors"`
	Count   *int                   `json:"count"`
	Total   *int64                 `json:"total"`
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (*http.Response, envelope) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, rdr)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.send(t, req)
}

func (e *testEnv) send(t *testing.T, req *http.Request) (*http.Response, envelope) {
	t.Helper()
	resp, err := e.client.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), "body: %s", raw)
	}
	return resp, env
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()
	resp, env := e.do(t, http.MethodPost, "/api/auth/login", model.Credentials{Email: adminEmail, Password: adminPassword})
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
}

func validProject(title string) map[string]any {
	return map[string]any{
		"title":        title,
		"description":  "A project used in tests",
		"technologies": []string{"Go", "SQLite"},
		"category":     model.ProjectCategoryWeb,
		"year":         "2024",
		"status":       model.ProjectStatusCompleted,
	}
}

func validPost(title string, published bool) map[string]any {
	return map[string]any{
		"title":     title,
		"excerpt":   "Short summary",
		"content":   "# Heading\n\nBody text.",
		"category":  model.BlogCategoryTechnical,
		"readTime":  "5 min read",
		"tags":      []string{"go"},
		"published": published,
	}
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, body.Success)
	assert.Equal(t, "Route not found", body.Message)
}

func TestWelcome(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.client.Get(env.srv.URL + "/")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var doc welcomeDoc
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/api/portfolio", doc.Endpoints["portfolio"])
}

func TestAdminRequiresSession(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/api/admin/dashboard", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, body.Success)

	resp, _ = env.do(t, http.MethodPost, "/api/admin/projects", validProject("Nope"))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminRejectsCrossOrigin(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	b, _ := json.Marshal(validProject("Cross"))
	req, err := http.NewRequest(http.MethodPost, env.srv.URL+"/api/admin/projects", bytes.NewReader(b))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	req.Header.Set("Origin", "https://evil.example")

	resp, _ := env.send(t, req)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/api/auth/login", model.Credentials{Email: adminEmail, Password: "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid email or password", body.Message)

	resp, body = env.do(t, http.MethodPost, "/api/auth/login", model.Credentials{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Len(t, body.Errors, 2)

	resp, _ = env.do(t, http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	env.login(t)

	resp, body = env.do(t, http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me model.User
	require.NoError(t, json.Unmarshal(body.Data, &me))
	assert.Equal(t, adminEmail, me.Email)
	assert.Equal(t, model.RoleAdmin, me.Role)

	resp, _ = env.do(t, http.MethodPost, "/api/auth/logout", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/admin/dashboard", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProjectLifecycle(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	resp, body := env.do(t, http.MethodPost, "/api/admin/projects", map[string]any{"title": ""})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Validation failed", body.Message)
	assert.True(t, body.Errors.Has("title"))
	assert.True(t, body.Errors.Has("technologies"))

	resp, body = env.do(t, http.MethodPost, "/api/admin/projects", validProject("Railway Reservation System"))
	require.Equal(t, http.StatusCreated, resp.StatusCode, body.Message)
	assert.Equal(t, "Project created successfully", body.Message)
	var created model.Project
	require.NoError(t, json.Unmarshal(body.Data, &created))
	require.NotZero(t, created.ID)

	path := "/api/admin/projects/" + itoa(created.ID)
	resp, body = env.do(t, http.MethodPut, path, map[string]any{"featured": true})
	require.Equal(t, http.StatusOK, resp.StatusCode, body.Message)
	var updated model.Project
	require.NoError(t, json.Unmarshal(body.Data, &updated))
	assert.True(t, updated.Featured)
	assert.Equal(t, created.Title, updated.Title)

	resp, body = env.do(t, http.MethodGet, "/api/portfolio/projects?featured=true", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, body.Total)
	assert.EqualValues(t, 1, *body.Total)

	resp, _ = env.do(t, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = env.do(t, http.MethodGet, "/api/portfolio/projects/"+itoa(created.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Project not found", body.Message)

	resp, body = env.do(t, http.MethodGet, "/api/portfolio/projects/abc", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Project not found", body.Message)
}

func TestCreateProjectMultipart(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := map[string]string{
		"title":        "E-governance Platform",
		"description":  "Citizen services portal",
		"technologies": "React, Node.js ,MongoDB",
		"category":     model.ProjectCategoryFullStack,
		"year":         "2023",
		"status":       model.ProjectStatusInProgress,
		"featured":     "on",
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, env.srv.URL+"/api/admin/projects", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, body := env.send(t, req)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body.Message)
	var p model.Project
	require.NoError(t, json.Unmarshal(body.Data, &p))
	assert.Equal(t, []string{"React", "Node.js", "MongoDB"}, p.Technologies)
	assert.True(t, p.Featured)
	assert.Nil(t, p.Image)
}

func TestCreateProjectRejectsNonImageUpload(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range validProject("With file") {
		if s, ok := v.(string); ok {
			require.NoError(t, mw.WriteField(k, s))
		}
	}
	require.NoError(t, mw.WriteField("technologies", "Go"))
	fw, err := mw.CreateFormFile("image", "notes.txt")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("plain text"))
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, env.srv.URL+"/api/admin/projects", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, body := env.send(t, req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.True(t, body.Errors.Has("image"))
}

func TestBlogPublicAndAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	resp, body := env.do(t, http.MethodPost, "/api/admin/blog", validPost("Hello, World! 2024", true))
	require.Equal(t, http.StatusCreated, resp.StatusCode, body.Message)
	assert.Equal(t, "Blog post created successfully", body.Message)
	var post model.BlogPost
	require.NoError(t, json.Unmarshal(body.Data, &post))
	require.NotNil(t, post.Slug)
	assert.Equal(t, "hello-world-2024", *post.Slug)

	resp, body = env.do(t, http.MethodPost, "/api/admin/blog", validPost("Hello World 2024", false))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.True(t, body.Errors.Has("slug"))

	resp, _ = env.do(t, http.MethodPost, "/api/admin/blog", validPost("Draft notes", false))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body = env.do(t, http.MethodGet, "/api/portfolio/blog", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, *body.Total)

	resp, body = env.do(t, http.MethodGet, "/api/portfolio/blog?published=false", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, *body.Total)

	resp, body = env.do(t, http.MethodGet, "/api/admin/blog", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 2, *body.Total)

	for range 2 {
		resp, _ = env.do(t, http.MethodGet, "/api/portfolio/blog/hello-world-2024", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp, body = env.do(t, http.MethodGet, "/api/admin/blog/"+itoa(post.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched model.BlogPost
	require.NoError(t, json.Unmarshal(body.Data, &fetched))
	assert.EqualValues(t, 2, fetched.Views)

	resp, body = env.do(t, http.MethodPost, "/api/portfolio/blog/hello-world-2024/like", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"likes":1}`, string(body.Data))

	resp, body = env.do(t, http.MethodGet, "/api/portfolio/blog/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Blog post not found", body.Message)
}

func TestContactFlow(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/api/contact", map[string]string{"email": "not-an-email"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	for _, f := range []string{"name", "email", "subject", "message"} {
		assert.True(t, body.Errors.Has(f), f)
	}

	resp, body = env.do(t, http.MethodPost, "/api/contact", model.ContactInput{
		Name:    "Jane",
		Email:   "jane@example.com",
		Subject: "Hello",
		Message: "I liked your portfolio.",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body.Message)
	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &created))
	require.NotZero(t, created.ID)

	env.login(t)

	resp, body = env.do(t, http.MethodGet, "/api/admin/contacts?status=new", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, *body.Total)

	path := "/api/admin/contacts/" + itoa(created.ID)
	resp, body = env.do(t, http.MethodPut, path+"/status", map[string]string{"status": "bogus"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.True(t, body.Errors.Has("status"))

	resp, body = env.do(t, http.MethodPut, path+"/status", map[string]string{"status": model.ContactStatusRead})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Contact status updated successfully", body.Message)

	resp, _ = env.do(t, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = env.do(t, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Contact not found", body.Message)
}

func TestContactRateLimited(t *testing.T) {
	env := newTestEnv(t, withContactLimit(1))
	in := model.ContactInput{Name: "Jane", Email: "jane@example.com", Subject: "Hi", Message: "Hello there"}

	resp, _ := env.do(t, http.MethodPost, "/api/contact", in)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := env.do(t, http.MethodPost, "/api/contact", in)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "Too many messages", body.Message)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
}

func TestProfileEndpoints(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/api/portfolio/skills", "/api/portfolio/experience", "/api/portfolio/info", "/api/portfolio/stats"} {
		resp, body := env.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.True(t, body.Success, path)
		assert.NotEmpty(t, body.Data, path)
	}
}

func TestDashboardAndCache(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	resp, _ := env.do(t, http.MethodPost, "/api/admin/projects", validProject("Cached"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := env.do(t, http.MethodGet, "/api/admin/dashboard", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var d service.Dashboard
	require.NoError(t, json.Unmarshal(body.Data, &d))
	assert.EqualValues(t, 1, d.Stats.Projects)
	assert.EqualValues(t, 1, d.Stats.Users)

	// Populate the list cache.
	resp, _ = env.do(t, http.MethodGet, "/api/portfolio/projects", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = env.do(t, http.MethodGet, "/api/portfolio/projects", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = env.do(t, http.MethodGet, "/api/admin/cache/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats cache.Stats
	require.NoError(t, json.Unmarshal(body.Data, &stats))
	assert.Positive(t, stats.Hits)

	resp, _ = env.do(t, http.MethodPost, "/api/admin/cache/clear", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = env.do(t, http.MethodGet, "/api/admin/events?level=ERROR", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 0, *body.Total)
}

func TestMalformedJSON(t *testing.T) {
	env := newTestEnv(t)

	req, err := http.NewRequest(http.MethodPost, env.srv.URL+"/api/contact", bytes.NewBufferString("{not json"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, body := env.send(t, req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, body.Success)
}

func TestHealthRoutes(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/health", "/health/live", "/health/ready"} {
		resp, err := env.client.Get(env.srv.URL + path)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestRobots(t *testing.T) {
	env := newTestEnv(t, withSiteURL("https://example.com"))

	resp, err := env.client.Get(env.srv.URL + "/robots.txt")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")
	assert.Contains(t, string(raw), "Disallow: /api/admin")
	assert.Contains(t, string(raw), "Sitemap: https://example.com/sitemap.xml")
}

func TestSitemap(t *testing.T) {
	t.Run("disabled without site url", func(t *testing.T) {
		env := newTestEnv(t)
		resp, _ := env.do(t, http.MethodGet, "/sitemap.xml", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("lists published content", func(t *testing.T) {
		env := newTestEnv(t, withSiteURL("https://example.com/"))
		env.login(t)

		resp, body := env.do(t, http.MethodPost, "/api/admin/blog", validPost("Visible Post", true))
		require.Equal(t, http.StatusCreated, resp.StatusCode, body.Message)
		resp, body = env.do(t, http.MethodPost, "/api/admin/blog", validPost("Draft Post", false))
		require.Equal(t, http.StatusCreated, resp.StatusCode, body.Message)
		resp, body = env.do(t, http.MethodPost, "/api/admin/projects", validProject("Mapped"))
		require.Equal(t, http.StatusCreated, resp.StatusCode, body.Message)
		var proj model.Project
		require.NoError(t, json.Unmarshal(body.Data, &proj))

		resp, err := env.client.Get(env.srv.URL + "/sitemap.xml")
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "application/xml")
		out := string(raw)
		assert.Contains(t, out, "https://example.com/blog/visible-post")
		assert.NotContains(t, out, "draft-post")
		assert.Contains(t, out, "https://example.com/projects/"+itoa(proj.ID))
	})
}
