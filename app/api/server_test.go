package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lysyi3m/roadmap-sync/app/database"
	"github.com/lysyi3m/roadmap-sync/app/tasks"
)

type fakeScheduler struct {
	err   error
	syncs int
}

func (f *fakeScheduler) Start() {}
func (f *fakeScheduler) Stop()  {}

func (f *fakeScheduler) EnqueueTask(tasks.TaskInterface) error {
	return f.err
}

func (f *fakeScheduler) EnqueueSync() ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.syncs++
	return []string{"sync-id", "activity-id"}, nil
}

func newTestHistory(t *testing.T) *database.RunStore {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := database.NewRunStore(db)

	run, err := store.StartRun(database.RunKindSync)
	require.NoError(t, err)
	run.Initiatives = 2
	require.NoError(t, store.AddInitiatives(run.ID, []database.RunInitiative{
		{Repo: "org/infra", Number: 1, Title: "Storage quotas", Status: "P&S Initiatives in flight", Filename: "issue-org-infra-1"},
		{Repo: "org/infra", Number: 4, Title: "Single sign-on", Status: "Done", Filename: "issue-org-infra-4"},
	}))
	require.NoError(t, store.FinishRun(run, nil))

	failed, err := store.StartRun(database.RunKindActivityLog)
	require.NoError(t, err)
	require.NoError(t, store.FinishRun(failed, errors.New("gh not authenticated")))

	return store
}

func serve(engine http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestServer_RootAndHealth(t *testing.T) {
	docsDir := t.TempDir()
	engine := NewServer(NewHandler(newTestHistory(t), nil, docsDir, "1.2.3"), "")

	w := serve(engine, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "1.2.3", body["version"])
	assert.NotContains(t, body["endpoints"], "sync")

	w = serve(engine, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, true, body["docs_present"])
	assert.Equal(t, float64(2), body["runs"])
}

func TestServer_StaticDocs(t *testing.T) {
	docsDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(docsDir, "data"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(docsDir, "data", "roadmap-table.md"), []byte("| Status |"), 0644))

	engine := NewServer(NewHandler(nil, nil, docsDir, "dev"), "")

	w := serve(engine, http.MethodGet, "/docs/data/roadmap-table.md", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "| Status |", w.Body.String())

	w = serve(engine, http.MethodGet, "/docs/data/missing.md", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_Runs(t *testing.T) {
	engine := NewServer(NewHandler(newTestHistory(t), nil, t.TempDir(), "dev"), "")

	w := serve(engine, http.MethodGet, "/api/runs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(2), body["total"])

	w = serve(engine, http.MethodGet, "/api/runs?limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["total"])

	w = serve(engine, http.MethodGet, "/api/runs?limit=zero", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_LatestRun(t *testing.T) {
	engine := NewServer(NewHandler(newTestHistory(t), nil, t.TempDir(), "dev"), "")

	w := serve(engine, http.MethodGet, "/api/runs/latest", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, database.RunKindSync, body["kind"])
	assert.Equal(t, database.RunStatusSuccess, body["status"])
	assert.Equal(t, float64(2), body["initiatives"])
	assert.NotEmpty(t, body["duration"])

	// The only activity-log run failed.
	w = serve(engine, http.MethodGet, "/api/runs/latest?kind=activity-log", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(engine, http.MethodGet, "/api/runs/latest?kind=deploy", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_Initiatives(t *testing.T) {
	engine := NewServer(NewHandler(newTestHistory(t), nil, t.TempDir(), "dev"), "")

	w := serve(engine, http.MethodGet, "/api/initiatives", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response initiativesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 2, response.Total)
	require.Len(t, response.Initiatives, 2)
	assert.Equal(t, "Storage quotas", response.Initiatives[0].Title)
	assert.Equal(t, database.RunKindSync, response.Run.Kind)

	w = serve(engine, http.MethodGet, "/api/initiatives?status=Done", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Initiatives, 1)
	assert.Equal(t, 4, response.Initiatives[0].Number)
}

func TestServer_HistoryDisabled(t *testing.T) {
	engine := NewServer(NewHandler(nil, nil, t.TempDir(), "dev"), "")

	for _, path := range []string{"/api/runs", "/api/runs/latest", "/api/initiatives"} {
		w := serve(engine, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, path)
	}
}

func TestServer_TriggerSync(t *testing.T) {
	scheduler := &fakeScheduler{}
	engine := NewServer(NewHandler(nil, scheduler, t.TempDir(), "dev"), "secret")

	w := serve(engine, http.MethodPost, "/api/sync", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "API key required", decode(t, w)["error"])

	w = serve(engine, http.MethodPost, "/api/sync", map[string]string{"X-API-Key": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid API key", decode(t, w)["error"])

	w = serve(engine, http.MethodPost, "/api/sync", map[string]string{"X-API-Key": "secret"})
	require.Equal(t, http.StatusAccepted, w.Code)
	body := decode(t, w)
	assert.Equal(t, "queued", body["status"])
	assert.Equal(t, []interface{}{"sync-id", "activity-id"}, body["tasks"])

	w = serve(engine, http.MethodPost, "/api/sync", map[string]string{"Authorization": "Bearer secret"})
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, 2, scheduler.syncs)

	scheduler.err = errors.New("task queue is full")
	w = serve(engine, http.MethodPost, "/api/sync", map[string]string{"X-API-Key": "secret"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "task queue is full", decode(t, w)["message"])
}

func TestServer_SyncDisabledWithoutKey(t *testing.T) {
	engine := NewServer(NewHandler(nil, &fakeScheduler{}, t.TempDir(), "dev"), "")

	w := serve(engine, http.MethodPost, "/api/sync", map[string]string{"X-API-Key": "anything"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_CORSPreflight(t *testing.T) {
	engine := NewServer(NewHandler(nil, nil, t.TempDir(), "dev"), "")

	w := serve(engine, http.MethodOptions, "/api/runs", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
