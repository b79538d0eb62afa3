package httphandler_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httphandler "github.com/ericfisherdev/servicehub/internal/adapter/driving/http"
	"github.com/ericfisherdev/servicehub/internal/application"
	"github.com/ericfisherdev/servicehub/internal/domain/model"
	"github.com/ericfisherdev/servicehub/internal/domain/port/driven"
)

// --- Mock implementations ---

type mockDocumentStore struct {
	mu         sync.Mutex
	services   []model.Service
	categories []model.Category
	writes     int
	err        error
}

func (m *mockDocumentStore) Services(_ context.Context) ([]model.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Service(nil), m.services...), m.err
}

func (m *mockDocumentStore) Categories(_ context.Context) ([]model.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Category(nil), m.categories...), m.err
}

func (m *mockDocumentStore) Update(_ context.Context, fn func(tx driven.DocumentTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(mockTx{m: m})
}

type mockTx struct{ m *mockDocumentStore }

func (t mockTx) Services(_ context.Context) ([]model.Service, error) {
	return append([]model.Service(nil), t.m.services...), t.m.err
}

func (t mockTx) Categories(_ context.Context) ([]model.Category, error) {
	return append([]model.Category(nil), t.m.categories...), t.m.err
}

func (t mockTx) SaveServices(_ context.Context, services []model.Service) error {
	t.m.services = append([]model.Service(nil), services...)
	t.m.writes++
	return nil
}

func (t mockTx) SaveCategories(_ context.Context, categories []model.Category) error {
	t.m.categories = append([]model.Category(nil), categories...)
	t.m.writes++
	return nil
}

type mockProber struct {
	status model.ProbeStatus
	code   int
}

func (m *mockProber) Probe(_ context.Context, rawURL string) model.ProbeResult {
	return model.ProbeResult{
		URL:        rawURL,
		Status:     m.status,
		StatusCode: m.code,
		StatusText: http.StatusText(m.code),
		CheckedAt:  time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC),
	}
}

// --- Test helpers ---

type testEnv struct {
	store  *mockDocumentStore
	status *application.StatusService
	mux    http.Handler
}

func setupMux(store *mockDocumentStore, prober *mockProber) *testEnv {
	if prober == nil {
		prober = &mockProber{status: model.ProbeStatusOnline, code: http.StatusOK}
	}
	statusSvc := application.NewStatusService(prober, store, application.StatusOptions{Interval: time.Hour})
	h := httphandler.NewHandler(
		application.NewCategoryService(store),
		application.NewServiceCatalog(store),
		statusSvc,
		slog.Default(),
	)
	return &testEnv{store: store, status: statusSvc, mux: httphandler.NewServeMux(h, slog.Default())}
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	err := json.NewDecoder(rec.Body).Decode(v)
	require.NoError(t, err)
}

var (
	catDefault = model.Category{ID: "default", Name: "Uncategorized"}
	catJira    = model.Category{ID: "jira", Name: "Jira Server"}
)

// --- Tests ---

func TestListCategories(t *testing.T) {
	tests := []struct {
		name       string
		store      *mockDocumentStore
		wantStatus int
		wantLen    int
	}{
		{name: "empty list", store: &mockDocumentStore{}, wantStatus: http.StatusOK, wantLen: 0},
		{
			name:       "two categories",
			store:      &mockDocumentStore{categories: []model.Category{catDefault, catJira}},
			wantStatus: http.StatusOK,
			wantLen:    2,
		},
		{
			name:       "storage failure",
			store:      &mockDocumentStore{err: errors.New("unexpected end of JSON input")},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := setupMux(tt.store, nil).do(http.MethodGet, "/api/categories", "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				var body map[string]string
				decodeJSON(t, rec, &body)
				assert.Equal(t, "internal server error", body["error"])
				return
			}

			var body []map[string]any
			decodeJSON(t, rec, &body)
			assert.NotNil(t, body)
			assert.Len(t, body, tt.wantLen)
		})
	}
}

func TestReplaceCategories(t *testing.T) {
	env := setupMux(&mockDocumentStore{categories: []model.Category{catJira}}, nil)

	rec := env.do(http.MethodPost, "/api/categories", `[{"id":"wiki","name":"Confluence"}]`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []model.Category{{ID: "wiki", Name: "Confluence"}}, env.store.categories)
}

func TestReplaceCategories_BadBody(t *testing.T) {
	for _, body := range []string{`{"id":"wiki"}`, `not json`, `null`} {
		env := setupMux(&mockDocumentStore{categories: []model.Category{catJira}}, nil)

		rec := env.do(http.MethodPost, "/api/categories", body)

		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, 0, env.store.writes, body)
	}
}

func TestAddCategory(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
		wantWrites int
	}{
		{name: "created", body: `{"id":"wiki","name":"Confluence"}`, wantStatus: http.StatusOK, wantWrites: 1},
		{name: "duplicate", body: `{"id":"jira","name":"Other"}`, wantStatus: http.StatusBadRequest, wantError: "category already exists"},
		{name: "missing id", body: `{"name":"Nameless"}`, wantStatus: http.StatusBadRequest, wantError: "category id is required"},
		{name: "malformed", body: `{"id":`, wantStatus: http.StatusBadRequest, wantError: "invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupMux(&mockDocumentStore{categories: []model.Category{catDefault, catJira}}, nil)

			rec := env.do(http.MethodPost, "/api/categories/add", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantWrites, env.store.writes)
			if tt.wantError != "" {
				var body map[string]string
				decodeJSON(t, rec, &body)
				assert.Equal(t, tt.wantError, body["error"])
				return
			}

			var body map[string]string
			decodeJSON(t, rec, &body)
			assert.Equal(t, "wiki", body["id"])
			assert.Equal(t, "Confluence", body["name"])
		})
	}
}

func TestUpdateCategory(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
	}{
		{name: "rename", path: "/api/categories/jira", body: `{"id":"jira","name":"Issues"}`, wantStatus: http.StatusOK},
		{name: "not found", path: "/api/categories/ghost", body: `{"id":"ghost","name":"Ghost"}`, wantStatus: http.StatusNotFound},
		{name: "id collision", path: "/api/categories/jira", body: `{"id":"default","name":"Clash"}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupMux(&mockDocumentStore{categories: []model.Category{catDefault, catJira}}, nil)

			rec := env.do(http.MethodPut, tt.path, tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestDeleteCategory(t *testing.T) {
	env := setupMux(&mockDocumentStore{
		services:   []model.Service{{ID: "1", Name: "JIRA", URL: "http://x", Category: "jira"}},
		categories: []model.Category{catDefault, catJira},
	}, nil)

	rec := env.do(http.MethodDelete, "/api/categories/jira", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	decodeJSON(t, rec, &body)
	assert.Equal(t, float64(1), body["movedServices"])
	assert.NotEmpty(t, body["message"])
	assert.Equal(t, "default", env.store.services[0].Category)
	assert.Equal(t, []model.Category{catDefault}, env.store.categories)
}

func TestDeleteCategory_Errors(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{name: "default is protected", path: "/api/categories/default", wantStatus: http.StatusBadRequest},
		{name: "unknown id", path: "/api/categories/ghost", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupMux(&mockDocumentStore{categories: []model.Category{catDefault, catJira}}, nil)

			rec := env.do(http.MethodDelete, tt.path, "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, 0, env.store.writes)
		})
	}
}

func TestRepairCategories(t *testing.T) {
	env := setupMux(&mockDocumentStore{
		services: []model.Service{
			{ID: "1", Name: "A", URL: "http://a"},
			{ID: "2", Name: "B", URL: "http://b", Category: "ghost"},
			{ID: "3", Name: "C", URL: "http://c", Category: "jira"},
		},
		categories: []model.Category{catJira},
	}, nil)

	rec := env.do(http.MethodPost, "/api/fix-undefined-categories", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Message       string   `json:"message"`
		FixedServices int      `json:"fixedServices"`
		Services      []string `json:"services"`
	}
	decodeJSON(t, rec, &body)
	assert.Equal(t, 2, body.FixedServices)
	assert.Equal(t, []string{"A", "B"}, body.Services)

	// A second run finds nothing and still returns an empty array.
	rec = env.do(http.MethodPost, "/api/fix-undefined-categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var raw map[string]any
	decodeJSON(t, rec, &raw)
	assert.Equal(t, []any{}, raw["services"])
	assert.Equal(t, float64(0), raw["fixedServices"])
}

func TestReplaceServices_AssignsIDs(t *testing.T) {
	env := setupMux(&mockDocumentStore{}, nil)

	rec := env.do(http.MethodPost, "/api/services",
		`[{"name":"JIRA","url":"http://jira","category":"nowhere","displayUrl":"jira"}]`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body []map[string]any
	decodeJSON(t, rec, &body)
	require.Len(t, body, 1)
	assert.NotEmpty(t, body[0]["id"])
	assert.Equal(t, "jira", body[0]["displayUrl"])
	assert.Equal(t, "nowhere", env.store.services[0].Category, "service writes never validate categories")
}

func TestServiceCRUD(t *testing.T) {
	env := setupMux(&mockDocumentStore{
		services: []model.Service{{ID: "svc-1", Name: "JIRA", URL: "http://jira", Category: "jira"}},
	}, nil)

	rec := env.do(http.MethodGet, "/api/services/svc-1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodPost, "/api/services/add", `{"name":"Wiki","url":"http://wiki"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created map[string]any
	decodeJSON(t, rec, &created)
	assert.NotEmpty(t, created["id"])

	rec = env.do(http.MethodPut, "/api/services/svc-1", `{"name":"JIRA 2","url":"http://jira2"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "JIRA 2", env.store.services[0].Name)
	assert.Equal(t, "svc-1", env.store.services[0].ID)

	rec = env.do(http.MethodDelete, "/api/services/svc-1", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Len(t, env.store.services, 1)

	rec = env.do(http.MethodGet, "/api/services/svc-1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodPost, "/api/services/add", `{"name":"No URL"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckStatus(t *testing.T) {
	env := setupMux(&mockDocumentStore{}, &mockProber{status: model.ProbeStatusOnline, code: http.StatusNotFound})

	rec := env.do(http.MethodPost, "/api/check-status", `{"url":"http://jira"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	decodeJSON(t, rec, &body)
	assert.Equal(t, "http://jira", body["url"])
	assert.Equal(t, "online", body["status"])
	assert.Equal(t, float64(404), body["statusCode"])
	assert.Equal(t, "Not Found", body["statusText"])
}

func TestCheckStatus_Offline(t *testing.T) {
	env := setupMux(&mockDocumentStore{}, &mockProber{status: model.ProbeStatusOffline})

	rec := env.do(http.MethodPost, "/api/check-status", `{"url":"http://down"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	decodeJSON(t, rec, &body)
	assert.Equal(t, "offline", body["status"])
	_, hasCode := body["statusCode"]
	assert.False(t, hasCode)
}

func TestCheckStatus_MissingURL(t *testing.T) {
	env := setupMux(&mockDocumentStore{}, nil)

	for _, body := range []string{`{}`, `{"url":"  "}`, ``} {
		rec := env.do(http.MethodPost, "/api/check-status", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestStatusEndpoints(t *testing.T) {
	env := setupMux(&mockDocumentStore{
		services: []model.Service{
			{ID: "1", Name: "A", URL: "http://a", Category: "ops"},
			{ID: "2", Name: "Dev", URL: "http://dev", Category: "ops"},
		},
	}, &mockProber{status: model.ProbeStatusOffline})

	// Before the first cycle the snapshot is empty but well-formed.
	rec := env.do(http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var empty map[string]any
	decodeJSON(t, rec, &empty)
	assert.Equal(t, []any{}, empty["services"])

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		env.status.Start(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()
	require.NoError(t, env.status.Refresh(ctx))

	rec = env.do(http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		CheckedAt string `json:"checkedAt"`
		Offline   int    `json:"offline"`
		Services  []struct {
			ServiceID string `json:"serviceId"`
			Status    string `json:"status"`
		} `json:"services"`
	}
	decodeJSON(t, rec, &body)
	assert.NotEmpty(t, body.CheckedAt)
	assert.Equal(t, 2, body.Offline)
	require.Len(t, body.Services, 2)
	assert.Equal(t, "1", body.Services[0].ServiceID)

	rec = env.do(http.MethodGet, "/api/status/offline", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var offline []map[string]any
	decodeJSON(t, rec, &offline)
	assert.Len(t, offline, 2)

	rec = env.do(http.MethodPost, "/api/status/refresh", "")
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestRefreshStatus_Wait(t *testing.T) {
	env := setupMux(&mockDocumentStore{
		services: []model.Service{{ID: "1", Name: "A", URL: "http://a", Category: "ops"}},
	}, &mockProber{status: model.ProbeStatusOnline, code: http.StatusOK})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		env.status.Start(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	rec := env.do(http.MethodPost, "/api/status/refresh?wait=1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		CheckedAt string `json:"checkedAt"`
		Online    int    `json:"online"`
		Services  []struct {
			ServiceID string `json:"serviceId"`
			Status    string `json:"status"`
		} `json:"services"`
	}
	decodeJSON(t, rec, &body)
	assert.NotEmpty(t, body.CheckedAt)
	assert.Equal(t, 1, body.Online)
	require.Len(t, body.Services, 1)
	assert.Equal(t, "online", body.Services[0].Status)
}

func TestRefreshStatus_WaitCanceled(t *testing.T) {
	// Start is never called, so the refresh can only end by cancellation.
	env := setupMux(&mockDocumentStore{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/status/refresh?wait=1", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	env.mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body map[string]string
	decodeJSON(t, rec, &body)
	assert.Equal(t, "status refresh did not complete", body["error"])
}

func TestHealth(t *testing.T) {
	rec := setupMux(&mockDocumentStore{}, nil).do(http.MethodGet, "/api/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	decodeJSON(t, rec, &body)
	assert.Equal(t, "ok", body["status"])
	_, err := time.Parse(time.RFC3339, body["time"])
	assert.NoError(t, err)
}

func TestMethodNotAllowed(t *testing.T) {
	rec := setupMux(&mockDocumentStore{}, nil).do(http.MethodPatch, "/api/categories", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
