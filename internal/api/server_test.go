package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/pbaille/journal/internal/domain"
	"github.com/pbaille/journal/internal/journal"
	"github.com/pbaille/journal/internal/logging"
	"github.com/pbaille/journal/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	journal *journal.Journal
	handler http.Handler
	logs    *bytes.Buffer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	s, err := store.Open(ctx, filepath.Join(t.TempDir(), "journal.db"), logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	j, err := journal.New(ctx, s, logging.Discard())
	require.NoError(t, err)

	var logs bytes.Buffer
	log, err := logging.New(&logs, "info")
	require.NoError(t, err)

	return &testServer{journal: j, handler: New(j, log, ":0").Handler(), logs: &logs}
}

func (ts *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, r)
	return w
}

func (ts *testServer) seed(t *testing.T, title string, tags ...string) domain.Entry {
	t.Helper()
	e, err := ts.journal.CreateEntry(context.Background(), title, "body of "+title, tags)
	require.NoError(t, err)
	return e
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRequestID(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/health", "")
	id := w.Header().Get("X-Request-ID")
	assert.Len(t, id, 36)
	assert.Contains(t, ts.logs.String(), "request_id="+id)
	assert.Contains(t, ts.logs.String(), "status=200")

	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.Header.Set("X-Request-ID", "3f1c5a52-8c4e-4c55-9b0c-4a7c8a1a6c11")
	w = httptest.NewRecorder()
	ts.handler.ServeHTTP(w, r)
	assert.Equal(t, "3f1c5a52-8c4e-4c55-9b0c-4a7c8a1a6c11", w.Header().Get("X-Request-ID"))
}

func TestListEntries(t *testing.T) {
	ts := newTestServer(t)
	ts.seed(t, "first", "a")
	ts.seed(t, "second")

	w := ts.do(t, http.MethodGet, "/entries", "")
	require.Equal(t, http.StatusOK, w.Code)

	got := decode[struct {
		Entries []domain.Entry `json:"entries"`
		Count   int            `json:"count"`
	}](t, w)
	assert.Equal(t, 2, got.Count)
	require.Len(t, got.Entries, 2)
	assert.Equal(t, "second", got.Entries[0].Title)
}

func TestGetEntry(t *testing.T) {
	ts := newTestServer(t)
	e := ts.seed(t, "first", "a", "b")

	w := ts.do(t, http.MethodGet, "/entries/"+itoa(e.ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[domain.Entry](t, w)
	assert.Equal(t, "first", got.Title)
	assert.Equal(t, []string{"a", "b"}, got.TagNames())

	w = ts.do(t, http.MethodGet, "/entries/999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"entry not found"}`, w.Body.String())

	w = ts.do(t, http.MethodGet, "/entries/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateEntry(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/entries", `{"title":"Trip","content":"Lisbon","tags":["travel"," food ","travel"]}`)
	require.Equal(t, http.StatusCreated, w.Code)
	got := decode[domain.Entry](t, w)
	assert.NotZero(t, got.ID)
	assert.Equal(t, []string{"travel", "food"}, got.TagNames())

	_, ok := ts.journal.GetEntryByID(got.ID)
	assert.True(t, ok)
}

func TestCreateEntry_DefaultTitle(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/entries", `{"content":"no title"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, strings.HasSuffix(decode[domain.Entry](t, w).Title, " Entry"))
}

func TestCreateEntry_BadBody(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/entries", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, ts.journal.ListEntries())
}

func TestEditEntry(t *testing.T) {
	ts := newTestServer(t)
	e := ts.seed(t, "meal", "Turkey", "Cheese")

	t.Run("absent tags are kept", func(t *testing.T) {
		w := ts.do(t, http.MethodPut, "/entries/"+itoa(e.ID), `{"title":"lunch"}`)
		require.Equal(t, http.StatusOK, w.Code)
		got := decode[domain.Entry](t, w)
		assert.Equal(t, "lunch", got.Title)
		assert.Equal(t, "body of meal", got.Content)
		assert.Equal(t, []string{"Turkey", "Cheese"}, got.TagNames())
	})

	t.Run("tags are replaced", func(t *testing.T) {
		w := ts.do(t, http.MethodPut, "/entries/"+itoa(e.ID), `{"tags":["chicken","salad"]}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"chicken", "salad"}, decode[domain.Entry](t, w).TagNames())
	})

	t.Run("empty tags clear", func(t *testing.T) {
		w := ts.do(t, http.MethodPut, "/entries/"+itoa(e.ID), `{"tags":[]}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decode[domain.Entry](t, w).Tags)
	})

	t.Run("empty title rejected", func(t *testing.T) {
		w := ts.do(t, http.MethodPut, "/entries/"+itoa(e.ID), `{"title":"  "}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		w := ts.do(t, http.MethodPut, "/entries/999", `{"title":"x"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestEditEntry_ConcurrentPartialUpdates(t *testing.T) {
	ts := newTestServer(t)
	e := ts.seed(t, "meal", "Turkey")

	bodies := []string{`{"title":"lunch"}`, `{"content":"soup"}`, `{"tags":["chicken"]}`}
	codes := make([]int, len(bodies))

	var wg sync.WaitGroup
	for i, body := range bodies {
		i, body := i, body
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := httptest.NewRequest(http.MethodPut, "/entries/"+itoa(e.ID), strings.NewReader(body))
			w := httptest.NewRecorder()
			ts.handler.ServeHTTP(w, r)
			codes[i] = w.Code
		}()
	}
	wg.Wait()

	for _, code := range codes {
		assert.Equal(t, http.StatusOK, code)
	}
	got, ok := ts.journal.GetEntryByID(e.ID)
	require.True(t, ok)
	assert.Equal(t, "lunch", got.Title)
	assert.Equal(t, "soup", got.Content)
	assert.Equal(t, []string{"chicken"}, got.TagNames())
}

func TestDeleteEntry(t *testing.T) {
	ts := newTestServer(t)
	e := ts.seed(t, "gone", "solo")

	w := ts.do(t, http.MethodDelete, "/entries/"+itoa(e.ID), "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, ts.journal.ListEntries())

	w = ts.do(t, http.MethodDelete, "/entries/"+itoa(e.ID), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListTags(t *testing.T) {
	ts := newTestServer(t)
	ts.seed(t, "one", "shared", "a")
	ts.seed(t, "two", "shared")

	w := ts.do(t, http.MethodGet, "/tags", "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[struct {
		Tags  []domain.TagCount `json:"tags"`
		Count int               `json:"count"`
	}](t, w)
	assert.Equal(t, 2, got.Count)

	counts := map[string]int{}
	for _, tc := range got.Tags {
		counts[tc.Name] = tc.Entries
	}
	assert.Equal(t, map[string]int{"shared": 2, "a": 1}, counts)
}

func TestSearch(t *testing.T) {
	ts := newTestServer(t)
	ts.seed(t, "Morning run", "sport")
	ts.seed(t, "Groceries")

	w := ts.do(t, http.MethodGet, "/search?q=sport", "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[struct {
		Results []domain.Entry `json:"results"`
		Count   int            `json:"count"`
	}](t, w)
	assert.Equal(t, 1, got.Count)
	assert.Equal(t, "Morning run", got.Results[0].Title)

	w = ts.do(t, http.MethodGet, "/search?q=zzz", "")
	assert.JSONEq(t, `{"query":"zzz","results":[],"count":0}`, w.Body.String())

	w = ts.do(t, http.MethodGet, "/search", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodOptions, "/entries", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
