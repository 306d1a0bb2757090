package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashishjsharda/aviation-compliance-checker/internal/compliance"
	"github.com/ashishjsharda/aviation-compliance-checker/internal/rules"
	"github.com/ashishjsharda/aviation-compliance-checker/internal/security"
	"github.com/ashishjsharda/aviation-compliance-checker/internal/storage"
)

type stubStore struct {
	runs    map[string]compliance.Report
	latest  string
	waivers []storage.Waiver
	nextID  int64
	revoked []int64
}

func (s *stubStore) ListRuns(limit, offset int) ([]storage.RunRow, error) {
	var out []storage.RunRow
	for id, r := range s.runs {
		out = append(out, storage.RunRow{ID: id, GeneratedAt: r.GeneratedAt, Violations: r.TotalViolations})
	}
	return out, nil
}

func (s *stubStore) LoadRun(id string) (compliance.Report, error) {
	r, ok := s.runs[id]
	if !ok {
		return compliance.Report{}, errors.New("not found")
	}
	return r, nil
}

func (s *stubStore) LoadLatestRun() (compliance.Report, error) {
	return s.LoadRun(s.latest)
}

func (s *stubStore) ListViolations(runID string, min compliance.Severity) ([]storage.ViolationRow, error) {
	r, ok := s.runs[runID]
	if !ok {
		return nil, nil
	}
	var out []storage.ViolationRow
	for _, f := range r.Files {
		for _, v := range f.Violations {
			if v.Severity.Rank() < min.Rank() {
				continue
			}
			out = append(out, storage.ViolationRow{Filename: f.Filename, RuleID: v.RuleID, Severity: v.Severity, Message: v.Message})
		}
	}
	return out, nil
}

func (s *stubStore) ListWaivers(activeOnly bool) ([]storage.Waiver, error) { return s.waivers, nil }

func (s *stubStore) CreateWaiver(ruleID, filename, pattern, reason, createdBy string, expires time.Time) (int64, error) {
	s.nextID++
	s.waivers = append(s.waivers, storage.Waiver{ID: s.nextID, RuleID: ruleID, Reason: reason, CreatedBy: createdBy, ExpiresAt: expires})
	return s.nextID, nil
}

func (s *stubStore) RevokeWaiver(id int64, by string) error {
	s.revoked = append(s.revoked, id)
	return nil
}

type stubUsers struct {
	users    map[string]storage.User
	hashes   map[string]string
	sessions map[string]storage.User
}

func (s *stubUsers) GetUserByUsername(name string) (storage.User, string, error) {
	u, ok := s.users[name]
	if !ok {
		return storage.User{}, "", errors.New("no user")
	}
	return u, s.hashes[name], nil
}

func (s *stubUsers) CreateSession(userID int64, token string, exp time.Time) error {
	for _, u := range s.users {
		if u.ID == userID {
			s.sessions[token] = u
			return nil
		}
	}
	return errors.New("no user")
}

func (s *stubUsers) GetSession(token string) (storage.User, error) {
	u, ok := s.sessions[token]
	if !ok {
		return storage.User{}, errors.New("no session")
	}
	return u, nil
}

func (s *stubUsers) DeleteSession(token string) error {
	delete(s.sessions, token)
	return nil
}

func (s *stubUsers) LogAudit(username, action, resource string, meta map[string]any) error { return nil }

func testServer(t *testing.T) (*Server, *stubStore, *stubUsers) {
	t.Helper()
	adminHash, err := security.HashPassword("admin-pw")
	require.NoError(t, err)
	viewerHash, err := security.HashPassword("viewer-pw")
	require.NoError(t, err)

	store := &stubStore{
		runs: map[string]compliance.Report{
			"run-1": {
				ID:              "run-1",
				GeneratedAt:     time.Date(2026, 8, 23, 9, 0, 0, 0, time.UTC),
				TotalViolations: 2,
				Files: []compliance.FileResult{{
					Filename: "bad.md",
					Violations: []compliance.Violation{
						{RuleID: "MAINT-001", Severity: compliance.SeverityError, Message: "missing date"},
						{RuleID: "PILOT-002", Severity: compliance.SeverityWarning, Message: "no night time"},
					},
					Status: compliance.StatusFail,
				}},
			},
		},
		latest: "run-1",
	}
	users := &stubUsers{
		users: map[string]storage.User{
			"admin":  {ID: 1, Username: "admin", Role: "admin"},
			"viewer": {ID: 2, Username: "viewer", Role: "viewer"},
		},
		hashes:   map[string]string{"admin": adminHash, "viewer": viewerHash},
		sessions: map[string]storage.User{},
	}
	srv := &Server{
		DB:              store,
		UserStore:       users,
		Rules:           rules.All(),
		Logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		SessionDuration: time.Hour,
	}
	return srv, store, users
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, h http.Handler, username, password string) *http.Cookie {
	t.Helper()
	w := doJSON(t, h, http.MethodPost, "/api/v1/auth/login", map[string]string{"username": username, "password": password}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestHealth(t *testing.T) {
	srv, _, _ := testServer(t)
	w := doJSON(t, srv.Routes(), http.MethodGet, "/api/v1/health", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":true`)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestGetRun(t *testing.T) {
	srv, _, _ := testServer(t)
	h := srv.Routes()

	w := doJSON(t, h, http.MethodGet, "/api/v1/runs/run-1", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rep compliance.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rep))
	assert.Equal(t, "run-1", rep.ID)
	assert.Equal(t, 2, rep.TotalViolations)

	w = doJSON(t, h, http.MethodGet, "/api/v1/runs/run-404", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetLatestRun(t *testing.T) {
	srv, store, _ := testServer(t)
	w := doJSON(t, srv.Routes(), http.MethodGet, "/api/v1/runs/latest", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	store.latest = "gone"
	w = doJSON(t, srv.Routes(), http.MethodGet, "/api/v1/runs/latest", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListViolationsMinSeverityParam(t *testing.T) {
	srv, _, _ := testServer(t)
	h := srv.Routes()

	w := doJSON(t, h, http.MethodGet, "/api/v1/runs/run-1/violations", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		MinSeverity string                 `json:"min_severity"`
		Items       []storage.ViolationRow `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "info", resp.MinSeverity, "defaults to info")
	assert.Len(t, resp.Items, 2)

	w = doJSON(t, h, http.MethodGet, "/api/v1/runs/run-1/violations?min_severity=error", nil, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Items, 1)
}

func TestRulesInventory(t *testing.T) {
	srv, _, _ := testServer(t)
	w := doJSON(t, srv.Routes(), http.MethodGet, "/api/v1/rules", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, len(rules.All()), resp.Count)
}

func TestLoginAndMe(t *testing.T) {
	srv, _, _ := testServer(t)
	h := srv.Routes()

	w := doJSON(t, h, http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "admin", "password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	cookie := login(t, h, "admin", "admin-pw")

	w = doJSON(t, h, http.MethodGet, "/api/v1/me", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"admin"`)

	w = doJSON(t, h, http.MethodGet, "/api/v1/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	srv, _, users := testServer(t)
	h := srv.Routes()

	cookie := login(t, h, "viewer", "viewer-pw")
	require.Len(t, users.sessions, 1)

	w := doJSON(t, h, http.MethodPost, "/api/v1/auth/logout", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, users.sessions)
}

func TestWaiversRequireAuthAndRole(t *testing.T) {
	srv, store, _ := testServer(t)
	h := srv.Routes()

	w := doJSON(t, h, http.MethodGet, "/api/v1/waivers", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	viewer := login(t, h, "viewer", "viewer-pw")
	w = doJSON(t, h, http.MethodGet, "/api/v1/waivers", nil, viewer)
	assert.Equal(t, http.StatusOK, w.Code)

	create := map[string]string{
		"rule_id":    "MAINT-001",
		"reason":     "aircraft sold",
		"expires_at": time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	}
	w = doJSON(t, h, http.MethodPost, "/api/v1/waivers", create, viewer)
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := login(t, h, "admin", "admin-pw")
	w = doJSON(t, h, http.MethodPost, "/api/v1/waivers", create, admin)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, store.waivers, 1)
	assert.Equal(t, "admin", store.waivers[0].CreatedBy)

	w = doJSON(t, h, http.MethodPost, "/api/v1/waivers/1/revoke", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int64{1}, store.revoked)

	w = doJSON(t, h, http.MethodPost, "/api/v1/waivers/zero/revoke", nil, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateWaiverValidation(t *testing.T) {
	srv, _, _ := testServer(t)
	h := srv.Routes()
	admin := login(t, h, "admin", "admin-pw")

	w := doJSON(t, h, http.MethodPost, "/api/v1/waivers", map[string]string{"rule_id": "X"}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, h, http.MethodPost, "/api/v1/waivers", map[string]string{
		"rule_id": "X", "reason": "r", "expires_at": "next tuesday",
	}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	srv, _, _ := testServer(t)
	w := doJSON(t, srv.Routes(), http.MethodOptions, "/api/v1/health", nil, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
