package task

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskd/internal/kv"
	"taskd/internal/model"
)

func newTestMux(t *testing.T) (*http.ServeMux, *List) {
	t.Helper()
	list, err := NewList(context.Background(), NewStore(kv.NewMemory(), ""))
	require.NoError(t, err)

	mux := http.NewServeMux()
	NewHandler(list).Register(mux)
	return mux, list
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHTTP_AddAndList(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/api/tasks", `{"title":"Buy milk","description":""}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created model.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Buy milk", created.Title)
	assert.Nil(t, created.Description)

	rec = doJSON(t, mux, http.MethodGet, "/api/tasks", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []model.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
}

func TestHTTP_AddBlankTitle(t *testing.T) {
	mux, list := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/api/tasks", `{"title":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, list.Tasks())
}

func TestHTTP_ListFilterAndQuery(t *testing.T) {
	mux, list := newTestMux(t)
	ctx := context.Background()

	done, err := list.Add(ctx, "Buy milk", "")
	require.NoError(t, err)
	_, err = list.Add(ctx, "Call Bob", "")
	require.NoError(t, err)
	_, err = list.Toggle(ctx, done.ID)
	require.NoError(t, err)

	rec := doJSON(t, mux, http.MethodGet, "/api/tasks?filter=completed", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got []model.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Buy milk", got[0].Title)

	rec = doJSON(t, mux, http.MethodGet, "/api/tasks?filter=active&q=call", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Call Bob", got[0].Title)
}

func TestHTTP_EditToggleRemove(t *testing.T) {
	mux, list := newTestMux(t)

	task, err := list.Add(context.Background(), "draft", "")
	require.NoError(t, err)

	rec := doJSON(t, mux, http.MethodPatch, "/api/tasks/"+task.ID, `{"title":"final"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, mux, http.MethodPost, "/api/tasks/"+task.ID+"/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var toggled model.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &toggled))
	assert.Equal(t, "final", toggled.Title)
	assert.True(t, toggled.Completed)

	rec = doJSON(t, mux, http.MethodDelete, "/api/tasks/"+task.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// Deleting again is still a success.
	rec = doJSON(t, mux, http.MethodDelete, "/api/tasks/"+task.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHTTP_UnknownID(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPatch, "/api/tasks/nope", `{"title":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, mux, http.MethodPost, "/api/tasks/nope/toggle", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHTTP_Reorder(t *testing.T) {
	mux, list := newTestMux(t)
	seed(t, list, "A", "B", "C", "D")

	rec := doJSON(t, mux, http.MethodPost, "/api/tasks/reorder", `{"from":0,"to":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"B", "C", "A", "D"}, titles(list.Tasks()))

	rec = doJSON(t, mux, http.MethodPost, "/api/tasks/reorder", `{"from":9,"to":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
