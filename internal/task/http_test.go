package task

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weeklytrack/internal/model"
	"weeklytrack/internal/storage"
)

func newTestHandler(t *testing.T) (*Handler, http.Handler) {
	t.Helper()

	blobs, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	s := NewStore(blobs, nil)
	s.SetNow(func() time.Time { return testNow })

	h := NewHandler(s)
	h.SetNow(func() time.Time { return testNow })

	mux := http.NewServeMux()
	mux.HandleFunc("/api/tasks", h.TasksRoot)
	mux.HandleFunc("/api/tasks/order", h.TasksOrder)
	mux.HandleFunc("/api/tasks/export", h.TasksExport)
	mux.HandleFunc("/api/tasks/", h.TasksSub)
	return h, mux
}

func jsonReq(t *testing.T, mux http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var r *http.Request
	if body == nil {
		r = httptest.NewRequest(method, path, nil)
	} else {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = httptest.NewRequest(method, path, bytes.NewReader(b))
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	return w
}

func decodeTask(t *testing.T, w *httptest.ResponseRecorder) model.Task {
	t.Helper()
	var out model.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHTTP_CreateAndList(t *testing.T) {
	_, mux := newTestHandler(t)

	w := jsonReq(t, mux, http.MethodPost, "/api/tasks", map[string]any{"name": "water plants", "interval": 3})
	require.Equal(t, 201, w.Code)
	created := decodeTask(t, w)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "water plants", created.Name)
	assert.Equal(t, 3, created.Interval)

	w = jsonReq(t, mux, http.MethodGet, "/api/tasks", nil)
	require.Equal(t, 200, w.Code)
	var list []model.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
}

func TestHTTP_CreateRejectsEmptyName(t *testing.T) {
	_, mux := newTestHandler(t)

	w := jsonReq(t, mux, http.MethodPost, "/api/tasks", map[string]any{"name": "  "})
	assert.Equal(t, 400, w.Code)
}

func TestHTTP_CreateRejectsBadJSON(t *testing.T) {
	_, mux := newTestHandler(t)

	r := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader("{nope"))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	assert.Equal(t, 400, w.Code)
}

func TestHTTP_CollectionMethodNotAllowed(t *testing.T) {
	_, mux := newTestHandler(t)

	w := jsonReq(t, mux, http.MethodDelete, "/api/tasks", nil)
	assert.Equal(t, 405, w.Code)
}

func TestHTTP_GetPatchDelete(t *testing.T) {
	_, mux := newTestHandler(t)

	created := decodeTask(t, jsonReq(t, mux, http.MethodPost, "/api/tasks", map[string]any{"name": "run"}))
	path := "/api/tasks/" + string(created.ID)

	w := jsonReq(t, mux, http.MethodGet, path, nil)
	require.Equal(t, 200, w.Code)
	assert.Equal(t, "run", decodeTask(t, w).Name)

	w = jsonReq(t, mux, http.MethodPatch, path, map[string]any{"name": "run far", "interval": 2})
	require.Equal(t, 200, w.Code)
	patched := decodeTask(t, w)
	assert.Equal(t, "run far", patched.Name)
	assert.Equal(t, 2, patched.Interval)

	// A patch with only one field leaves the other alone.
	w = jsonReq(t, mux, http.MethodPatch, path, map[string]any{"interval": 0})
	require.Equal(t, 200, w.Code)
	patched = decodeTask(t, w)
	assert.Equal(t, "run far", patched.Name)
	assert.Zero(t, patched.Interval)

	w = jsonReq(t, mux, http.MethodDelete, path, nil)
	require.Equal(t, 200, w.Code)

	w = jsonReq(t, mux, http.MethodGet, path, nil)
	assert.Equal(t, 404, w.Code)
}

func TestHTTP_PatchEmptyNameRejected(t *testing.T) {
	_, mux := newTestHandler(t)
	created := decodeTask(t, jsonReq(t, mux, http.MethodPost, "/api/tasks", map[string]any{"name": "x"}))

	w := jsonReq(t, mux, http.MethodPatch, "/api/tasks/"+string(created.ID), map[string]any{"name": ""})
	assert.Equal(t, 400, w.Code)
}

func TestHTTP_UnknownTaskIs404(t *testing.T) {
	_, mux := newTestHandler(t)

	assert.Equal(t, 404, jsonReq(t, mux, http.MethodGet, "/api/tasks/nope", nil).Code)
	assert.Equal(t, 404, jsonReq(t, mux, http.MethodDelete, "/api/tasks/nope", nil).Code)
	assert.Equal(t, 404, jsonReq(t, mux, http.MethodPost, "/api/tasks/nope/toggle", map[string]any{"date": "2026-03-16"}).Code)
}

func TestHTTP_Toggle(t *testing.T) {
	_, mux := newTestHandler(t)
	created := decodeTask(t, jsonReq(t, mux, http.MethodPost, "/api/tasks", map[string]any{"name": "stretch"}))
	path := "/api/tasks/" + string(created.ID) + "/toggle"

	w := jsonReq(t, mux, http.MethodPost, path, map[string]any{"date": "2026-03-16"})
	require.Equal(t, 200, w.Code)
	assert.Equal(t, 1, decodeTask(t, w).Completions["2026-03-16"])

	w = jsonReq(t, mux, http.MethodPost, path, map[string]any{"date": "2026-03-16"})
	require.Equal(t, 200, w.Code)
	assert.NotContains(t, decodeTask(t, w).Completions, "2026-03-16")

	w = jsonReq(t, mux, http.MethodPost, path, map[string]any{"date": "March 16"})
	assert.Equal(t, 400, w.Code)

	assert.Equal(t, 405, jsonReq(t, mux, http.MethodGet, path, nil).Code)
}

func TestHTTP_Count(t *testing.T) {
	_, mux := newTestHandler(t)
	created := decodeTask(t, jsonReq(t, mux, http.MethodPost, "/api/tasks", map[string]any{"name": "pushups"}))
	path := "/api/tasks/" + string(created.ID) + "/count"

	w := jsonReq(t, mux, http.MethodPost, path, map[string]any{"date": "2026-03-16", "op": "increment"})
	require.Equal(t, 200, w.Code)
	assert.Equal(t, 1, decodeTask(t, w).Completions["2026-03-16"])

	w = jsonReq(t, mux, http.MethodPost, path, map[string]any{"date": "2026-03-16", "op": "set", "n": 4})
	require.Equal(t, 200, w.Code)
	assert.Equal(t, 4, decodeTask(t, w).Completions["2026-03-16"])

	w = jsonReq(t, mux, http.MethodPost, path, map[string]any{"date": "2026-03-16", "op": "reset"})
	require.Equal(t, 200, w.Code)
	assert.NotContains(t, decodeTask(t, w).Completions, "2026-03-16")

	w = jsonReq(t, mux, http.MethodPost, path, map[string]any{"date": "2026-03-16", "op": "double"})
	assert.Equal(t, 400, w.Code)
}

func TestHTTP_ReorderByIndex(t *testing.T) {
	_, mux := newTestHandler(t)
	for _, n := range []string{"a", "b", "c"} {
		require.Equal(t, 201, jsonReq(t, mux, http.MethodPost, "/api/tasks", map[string]any{"name": n}).Code)
	}

	w := jsonReq(t, mux, http.MethodPut, "/api/tasks/order", map[string]any{"from": 0, "to": 2})
	require.Equal(t, 200, w.Code)
	var list []model.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, []string{"b", "c", "a"}, names(list))

	w = jsonReq(t, mux, http.MethodPut, "/api/tasks/order", map[string]any{"from": 0, "to": 9})
	assert.Equal(t, 400, w.Code)
}

func TestHTTP_ReorderByIDs(t *testing.T) {
	_, mux := newTestHandler(t)
	var ids []string
	for _, n := range []string{"a", "b", "c"} {
		created := decodeTask(t, jsonReq(t, mux, http.MethodPost, "/api/tasks", map[string]any{"name": n}))
		ids = append(ids, string(created.ID))
	}

	w := jsonReq(t, mux, http.MethodPut, "/api/tasks/order", map[string]any{"ids": []string{ids[2], ids[1], ids[0]}})
	require.Equal(t, 200, w.Code)
	var list []model.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, []string{"c", "b", "a"}, names(list))
}

func TestHTTP_Export(t *testing.T) {
	_, mux := newTestHandler(t)
	created := decodeTask(t, jsonReq(t, mux, http.MethodPost, "/api/tasks", map[string]any{"name": "water plants", "interval": 3}))
	require.Equal(t, 200, jsonReq(t, mux, http.MethodPost, "/api/tasks/"+string(created.ID)+"/toggle", map[string]any{"date": "2026-03-16"}).Code)

	w := jsonReq(t, mux, http.MethodGet, "/api/tasks/export", nil)
	require.Equal(t, 200, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "weekly-tasks-export-2026-03-18.csv")

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Task Name")
	assert.Contains(t, lines[1], "water plants")
	assert.Contains(t, lines[1], "2026-03-16")

	assert.Equal(t, 405, jsonReq(t, mux, http.MethodPost, "/api/tasks/export", nil).Code)
}

func TestHTTP_TrailingSlashOnCollectionIs404(t *testing.T) {
	_, mux := newTestHandler(t)
	assert.Equal(t, 404, jsonReq(t, mux, http.MethodGet, "/api/tasks/", nil).Code)
}
