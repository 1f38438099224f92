package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"

	"github.com/spigell/jobmatch/internal/apperr"
	"github.com/spigell/jobmatch/internal/auth"
	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/matching"
	"github.com/spigell/jobmatch/internal/resume"
	"github.com/spigell/jobmatch/internal/store/memory"
	"github.com/spigell/jobmatch/internal/users"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubPresigner struct{}

func (stubPresigner) PresignPut(_ context.Context, key, _ string, _ map[string]string, _ time.Duration) (string, error) {
	return "https://bucket.example/put/" + key, nil
}

func (stubPresigner) PresignGet(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	return "https://bucket.example/get/" + key, nil
}

type stubExtractor struct {
	skills []string
	err    error
}

func (s stubExtractor) ExtractSkills(_ context.Context, _ string) ([]string, error) {
	return s.skills, s.err
}

func newTestHandler(t *testing.T, mutate ...func(*Deps)) http.Handler {
	t.Helper()

	accounts := memory.NewUsers()
	deps := Deps{
		Jobs:      jobs.NewService(memory.NewJobs(nil), accounts, nil),
		Users:     users.NewService(accounts, nil, users.WithHashCost(bcrypt.MinCost)),
		Sessions:  auth.NewSessions(auth.NewMemoryStore(), time.Hour, nil),
		Resumes:   resume.NewService(stubPresigner{}, accounts, nil),
		Extractor: stubExtractor{skills: []string{"Go", "SQL"}},
	}
	for _, m := range mutate {
		m(&deps)
	}
	return New(Config{}, deps).Handler()
}

type request struct {
	method string
	path   string
	body   any
	token  string
	cookie *http.Cookie
}

func do(t *testing.T, h http.Handler, r request) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if r.body != nil {
		if err := json.NewEncoder(&body).Encode(r.body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(r.method, r.path, &body)
	req.Header.Set("Content-Type", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	if r.cookie != nil {
		req.AddCookie(r.cookie)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected status %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, kind apperr.Kind) {
	t.Helper()
	expectStatus(t, rec, status)
	body := decode[struct {
		Error errorBody `json:"error"`
	}](t, rec)
	if body.Error.Kind != kind || body.Error.Message == "" {
		t.Fatalf("expected %s error, got %+v", kind, body.Error)
	}
}

type account struct {
	id    string
	token string
}

func register(t *testing.T, h http.Handler, email, role string) account {
	t.Helper()

	rec := do(t, h, request{method: http.MethodPost, path: "/api/v1/auth/signup", body: map[string]string{
		"email": email, "password": "secret123", "name": "Test User", "userType": role,
	}})
	expectStatus(t, rec, http.StatusCreated)

	rec = do(t, h, request{method: http.MethodPost, path: "/api/v1/auth/login", body: map[string]string{
		"email": email, "password": "secret123",
	}})
	expectStatus(t, rec, http.StatusOK)

	login := decode[struct {
		Token string     `json:"token"`
		User  users.User `json:"user"`
	}](t, rec)
	return account{id: login.User.ID, token: login.Token}
}

func createJob(t *testing.T, h http.Handler, token string, body map[string]any) *jobs.Job {
	t.Helper()
	rec := do(t, h, request{method: http.MethodPost, path: "/api/v1/jobs", body: body, token: token})
	expectStatus(t, rec, http.StatusCreated)
	return decode[*jobs.Job](t, rec)
}

func jobBody(title, jobType, field string, skillList ...string) map[string]any {
	return map[string]any{
		"title":       title,
		"description": "A long enough description of " + title,
		"field":       field,
		"type":        jobType,
		"skills":      skillList,
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	rec := do(t, newTestHandler(t), request{method: http.MethodGet, path: "/health"})
	expectStatus(t, rec, http.StatusOK)
	if got := decode[map[string]string](t, rec)["status"]; got != "healthy" {
		t.Fatalf("unexpected status %q", got)
	}
}

func TestAuthFlow(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	signup := map[string]string{"email": "Ada@Example.com", "password": "secret123", "name": "Ada Lovelace", "userType": "employer"}

	rec := do(t, h, request{method: http.MethodPost, path: "/api/v1/auth/signup", body: signup})
	expectStatus(t, rec, http.StatusCreated)
	if strings.Contains(rec.Body.String(), "secret123") || strings.Contains(rec.Body.String(), "$2a$") {
		t.Fatalf("signup response leaks credentials: %s", rec.Body.String())
	}

	rec = do(t, h, request{method: http.MethodPost, path: "/api/v1/auth/signup", body: signup})
	expectError(t, rec, http.StatusConflict, apperr.KindConflict)

	rec = do(t, h, request{method: http.MethodPost, path: "/api/v1/auth/signup", body: map[string]string{"email": "x@example.com"}})
	expectError(t, rec, http.StatusBadRequest, apperr.KindValidation)

	rec = do(t, h, request{method: http.MethodPost, path: "/api/v1/auth/login", body: map[string]string{"email": "ada@example.com", "password": "wrong-pass"}})
	expectError(t, rec, http.StatusUnauthorized, apperr.KindUnauthenticated)

	rec = do(t, h, request{method: http.MethodPost, path: "/api/v1/auth/login", body: map[string]string{"email": " ADA@example.com ", "password": "secret123"}})
	expectStatus(t, rec, http.StatusOK)

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookie {
			cookie = c
		}
	}
	if cookie == nil || !cookie.HttpOnly || cookie.Value == "" {
		t.Fatalf("expected http-only session cookie, got %+v", cookie)
	}
	token := decode[loginResponse](t, rec).Token
	if token != cookie.Value {
		t.Fatalf("token and cookie differ")
	}

	rec = do(t, h, request{method: http.MethodGet, path: "/api/v1/auth/me", token: token})
	expectStatus(t, rec, http.StatusOK)
	if me := decode[users.User](t, rec); me.Email != "ada@example.com" || me.Role != users.RoleEmployer {
		t.Fatalf("unexpected me: %+v", me)
	}

	rec = do(t, h, request{method: http.MethodGet, path: "/api/v1/auth/me", cookie: &http.Cookie{Name: SessionCookie, Value: token}})
	expectStatus(t, rec, http.StatusOK)

	rec = do(t, h, request{method: http.MethodPost, path: "/api/v1/auth/logout", token: token})
	expectStatus(t, rec, http.StatusOK)

	rec = do(t, h, request{method: http.MethodGet, path: "/api/v1/auth/me", token: token})
	expectError(t, rec, http.StatusUnauthorized, apperr.KindUnauthenticated)

	rec = do(t, h, request{method: http.MethodGet, path: "/api/v1/auth/me"})
	expectError(t, rec, http.StatusUnauthorized, apperr.KindUnauthenticated)
}

func TestGetUserHidesPrivateFields(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	acc := register(t, h, "grace@example.com", "seeker")

	rec := do(t, h, request{method: http.MethodGet, path: "/api/v1/users/" + acc.id})
	expectStatus(t, rec, http.StatusOK)
	if strings.Contains(rec.Body.String(), "grace@example.com") {
		t.Fatalf("public user view leaks email: %s", rec.Body.String())
	}

	rec = do(t, h, request{method: http.MethodGet, path: "/api/v1/users/missing"})
	expectError(t, rec, http.StatusNotFound, apperr.KindNotFound)
}

func TestJobLifecycle(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	owner := register(t, h, "owner@example.com", "employer")
	rival := register(t, h, "rival@example.com", "employer")
	seeker := register(t, h, "seeker@example.com", "seeker")

	rec := do(t, h, request{method: http.MethodPost, path: "/api/v1/jobs", body: jobBody("Go Developer", "contract", "Engineering", "Go")})
	expectError(t, rec, http.StatusUnauthorized, apperr.KindUnauthenticated)

	rec = do(t, h, request{method: http.MethodPost, path: "/api/v1/jobs", body: jobBody("Go Developer", "contract", "Engineering", "Go"), token: seeker.token})
	expectError(t, rec, http.StatusForbidden, apperr.KindAuthorization)

	job := createJob(t, h, owner.token, jobBody("Go Developer", "contract", "Engineering", "Go"))
	if job.EmployerID != owner.id || !job.Active || job.Type != jobs.TypeContract {
		t.Fatalf("unexpected job: %+v", job)
	}

	patch := map[string]any{"field": "Platform"}
	rec = do(t, h, request{method: http.MethodPatch, path: "/api/v1/jobs/" + job.ID, body: patch, token: rival.token})
	expectError(t, rec, http.StatusForbidden, apperr.KindAuthorization)

	rec = do(t, h, request{method: http.MethodPatch, path: "/api/v1/jobs/" + job.ID, body: patch, token: owner.token})
	expectStatus(t, rec, http.StatusOK)

	rec = do(t, h, request{method: http.MethodGet, path: "/api/v1/jobs?field=Engineering"})
	expectStatus(t, rec, http.StatusOK)
	if got := decode[[]*jobs.Job](t, rec); len(got) != 0 {
		t.Fatalf("old field still indexed: %+v", got)
	}
	rec = do(t, h, request{method: http.MethodGet, path: "/api/v1/jobs?field=Platform"})
	if got := decode[[]*jobs.Job](t, rec); len(got) != 1 || got[0].ID != job.ID {
		t.Fatalf("expected job under new field, got %+v", got)
	}

	rec = do(t, h, request{method: http.MethodDelete, path: "/api/v1/jobs/" + job.ID, token: rival.token})
	expectError(t, rec, http.StatusForbidden, apperr.KindAuthorization)

	rec = do(t, h, request{method: http.MethodDelete, path: "/api/v1/jobs/" + job.ID, token: owner.token})
	expectStatus(t, rec, http.StatusOK)

	rec = do(t, h, request{method: http.MethodGet, path: "/api/v1/jobs/" + job.ID})
	expectError(t, rec, http.StatusNotFound, apperr.KindNotFound)
}

func TestListJobsQuery(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	boss := register(t, h, "boss@example.com", "employer")
	other := register(t, h, "other@example.com", "employer")

	createJob(t, h, boss.token, jobBody("React Engineer", "full-time", "Engineering", "React.js", "CSS"))
	createJob(t, h, boss.token, jobBody("Data Analyst", "part-time", "Data", "SQL", "Python"))
	createJob(t, h, other.token, jobBody("Go Intern", "internship", "Engineering", "Go"))

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{name: "no facets", query: "", want: 3},
		{name: "empty facets are absent", query: "?type=&field=&employerId=&q=&location=&skills=", want: 3},
		{name: "type", query: "?type=part-time", want: 1},
		{name: "type ignores case", query: "?type=Internship", want: 1},
		{name: "field", query: "?field=Engineering", want: 2},
		{name: "employer", query: "?employerId=" + other.id, want: 1},
		{name: "employer and field", query: "?employerId=" + boss.id + "&field=Engineering", want: 1},
		{name: "skills overlap", query: "?skills=react", want: 1},
		{name: "skills all required", query: "?skills=sql,python", want: 1},
		{name: "repeated skills", query: "?skills=sql&skills=go", want: 0},
		{name: "search", query: "?q=analyst", want: 1},
		{name: "active", query: "?active=true", want: 3},
		{name: "inactive", query: "?active=false", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, request{method: http.MethodGet, path: "/api/v1/jobs" + tt.query})
			expectStatus(t, rec, http.StatusOK)
			if got := decode[[]*jobs.Job](t, rec); len(got) != tt.want {
				t.Fatalf("expected %d jobs, got %d", tt.want, len(got))
			}
		})
	}

	rec := do(t, h, request{method: http.MethodGet, path: "/api/v1/jobs?active=maybe"})
	expectError(t, rec, http.StatusBadRequest, apperr.KindValidation)

	rec = do(t, h, request{method: http.MethodGet, path: "/api/v1/jobs?type=freelance"})
	expectError(t, rec, http.StatusBadRequest, apperr.KindValidation)

	rec = do(t, h, request{method: http.MethodGet, path: "/api/v1/jobs?type=freelance"})
	if !strings.HasPrefix(strings.TrimSpace(rec.Body.String()), `{"error":`) {
		t.Fatalf("unexpected error body %s", rec.Body.String())
	}
}

func TestEmptyQueryReturnsArray(t *testing.T) {
	t.Parallel()

	rec := do(t, newTestHandler(t), request{method: http.MethodGet, path: "/api/v1/jobs?field=Nothing"})
	expectStatus(t, rec, http.StatusOK)
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}
}

func TestGetJobIDs(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)

	rec := do(t, h, request{method: http.MethodGet, path: "/api/v1/jobs/not-an-id"})
	expectError(t, rec, http.StatusBadRequest, apperr.KindValidation)

	rec = do(t, h, request{method: http.MethodGet, path: "/api/v1/jobs/7d3f0f4e-1b7a-4c1e-9a55-0c1d2b3e4f50"})
	expectError(t, rec, http.StatusNotFound, apperr.KindNotFound)
}

func TestMatch(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	boss := register(t, h, "boss@example.com", "employer")

	createJob(t, h, boss.token, jobBody("Half Match", "full-time", "Engineering", "Go", "Kafka"))
	createJob(t, h, boss.token, jobBody("Full Match", "contract", "Engineering", "Go"))
	createJob(t, h, boss.token, jobBody("No Match", "full-time", "Design", "Figma"))

	rec := do(t, h, request{method: http.MethodPost, path: "/api/v1/match", body: map[string]any{
		"skills":  []string{"go", "Docker"},
		"filters": map[string]any{"type": "", "field": "Engineering"},
	}})
	expectStatus(t, rec, http.StatusOK)

	got := decode[[]matching.Match](t, rec)
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if got[0].Title != "Full Match" || got[0].MatchScore != 100 {
		t.Fatalf("unexpected first match: %+v", got[0])
	}
	if got[1].Title != "Half Match" || got[1].MatchScore != 50 {
		t.Fatalf("unexpected second match: %+v", got[1])
	}
	if len(got[1].MatchedSkills) != 1 || got[1].MatchedSkills[0] != "go" {
		t.Fatalf("unexpected matched skills: %v", got[1].MatchedSkills)
	}

	rec = do(t, h, request{method: http.MethodPost, path: "/api/v1/match", body: map[string]any{
		"skills": []string{"go"}, "filters": map[string]any{"type": "gig"},
	}})
	expectError(t, rec, http.StatusBadRequest, apperr.KindValidation)
}

func TestExtractSkills(t *testing.T) {
	t.Parallel()

	body := map[string]string{"text": "Five years of Go and SQL"}

	h := newTestHandler(t)
	seeker := register(t, h, "seeker@example.com", "seeker")

	rec := do(t, h, request{method: http.MethodPost, path: "/api/v1/skills/extract", body: body})
	expectError(t, rec, http.StatusUnauthorized, apperr.KindUnauthenticated)

	rec = do(t, h, request{method: http.MethodPost, path: "/api/v1/skills/extract", body: body, token: seeker.token})
	expectStatus(t, rec, http.StatusOK)
	if got := decode[map[string][]string](t, rec)["skills"]; len(got) != 2 || got[0] != "Go" {
		t.Fatalf("unexpected skills %v", got)
	}

	failing := newTestHandler(t, func(d *Deps) {
		d.Extractor = stubExtractor{err: apperr.Dependency(errors.New("quota"), "extraction failed")}
	})
	seeker = register(t, failing, "seeker@example.com", "seeker")
	rec = do(t, failing, request{method: http.MethodPost, path: "/api/v1/skills/extract", body: body, token: seeker.token})
	expectError(t, rec, http.StatusBadGateway, apperr.KindDependency)

	unconfigured := newTestHandler(t, func(d *Deps) { d.Extractor = nil })
	seeker = register(t, unconfigured, "seeker@example.com", "seeker")
	rec = do(t, unconfigured, request{method: http.MethodPost, path: "/api/v1/skills/extract", body: body, token: seeker.token})
	expectError(t, rec, http.StatusBadGateway, apperr.KindDependency)
}

func TestResumeRoutes(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	seeker := register(t, h, "seeker@example.com", "seeker")

	rec := do(t, h, request{method: http.MethodGet, path: "/api/v1/resume/download-url", token: seeker.token})
	expectError(t, rec, http.StatusNotFound, apperr.KindNotFound)

	rec = do(t, h, request{method: http.MethodPost, path: "/api/v1/resume/presign-upload", token: seeker.token, body: map[string]any{
		"filename": "cv.png", "contentType": "image/png",
	}})
	expectError(t, rec, http.StatusBadRequest, apperr.KindValidation)

	rec = do(t, h, request{method: http.MethodPost, path: "/api/v1/resume/presign-upload", token: seeker.token, body: map[string]any{
		"filename": "cv.pdf", "contentType": "application/pdf", "size": 2048,
	}})
	expectStatus(t, rec, http.StatusOK)
	upload := decode[resume.Upload](t, rec)
	if !strings.HasPrefix(upload.Key, "resumes/"+seeker.id+"/") || upload.ExpiresIn != 300 {
		t.Fatalf("unexpected upload: %+v", upload)
	}

	rec = do(t, h, request{method: http.MethodGet, path: "/api/v1/resume/download-url", token: seeker.token})
	expectStatus(t, rec, http.StatusOK)
	if got := decode[resume.Download](t, rec); !strings.HasSuffix(got.DownloadURL, upload.Key) {
		t.Fatalf("download url does not point at stored key: %+v", got)
	}
}

func TestRequestLogging(t *testing.T) {
	t.Parallel()

	core, observed := observer.New(zapcore.InfoLevel)
	h := newTestHandler(t, func(d *Deps) { d.Logger = zap.New(core) })

	do(t, h, request{method: http.MethodGet, path: "/api/v1/jobs/missing-id"})

	entries := observed.FilterMessage("http request").All()
	if len(entries) != 1 {
		t.Fatalf("expected one request log entry, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["method"] != http.MethodGet || ctx["path"] != "/api/v1/jobs/missing-id" || ctx["status"] != int64(http.StatusBadRequest) {
		t.Fatalf("unexpected log context: %v", ctx)
	}
}

func TestCORS(t *testing.T) {
	t.Parallel()

	h := New(Config{CORSOrigins: []string{"https://app.example"}}, Deps{
		Sessions: auth.NewSessions(auth.NewMemoryStore(), 0, nil),
	}).Handler()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/jobs", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example" {
		t.Fatalf("unexpected allow origin %q", got)
	}
	if rec.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Fatalf("expected credentials to be allowed")
	}
}
