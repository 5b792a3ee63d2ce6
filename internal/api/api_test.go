package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	config "github.com/samanvaya/samanvaya/internal/config/server"
	"github.com/samanvaya/samanvaya/pkg/bootstrap"
	"github.com/samanvaya/samanvaya/pkg/db/models"
	"github.com/samanvaya/samanvaya/pkg/db/store"
	"github.com/samanvaya/samanvaya/pkg/log"
	"github.com/samanvaya/samanvaya/pkg/lookup"
	"github.com/samanvaya/samanvaya/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router *gin.Engine
	store  *store.SQLiteStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	s, err := store.NewSQLiteStore(store.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Connect(ctx))
	require.NoError(t, s.Migrate(ctx))
	t.Cleanup(func() {
		_ = s.Close()
	})

	logger := log.NewLoggerServiceWithWriter("api", config.LogServerConfig{Level: "error"}, io.Discard)
	err = bootstrap.New(s, config.BootstrapServerConfig{
		Users: []config.BootstrapUserConfig{
			{Username: "admin", Password: "admin-pw", Role: "admin"},
			{Username: "curator", Password: "curator-pw", Role: "curator"},
			{Username: "reader", Password: "reader-pw", Role: "user"},
		},
		TagInformation: true,
	}, logger).Run(ctx)
	require.NoError(t, err)

	return &testServer{
		router: NewRouter(gin.TestMode, s, lookup.New(s, 4), logger),
		store:  s,
	}
}

func (ts *testServer) do(t *testing.T, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.SetBasicAuth(user, user+"-pw")
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestPublicOverview(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/list/tags", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	summaries := decode[[]lookup.CategorySummary](t, w)
	assert.Len(t, summaries, len(registry.Catalogue()))
}

func TestAuthentication(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/list/languages", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Basic")

	req := httptest.NewRequest(http.MethodGet, "/api/list/languages", nil)
	req.SetBasicAuth("reader", "wrong")
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	w = ts.do(t, http.MethodGet, "/api/list/languages", "reader", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTagLifecycle(t *testing.T) {
	ts := newTestServer(t)
	base := "/api/admin/" + registry.PartsOfSpeech + "/tags"
	noun := map[string]any{"code": "N", "tag": "noun", "name": "संज्ञा"}

	w := ts.do(t, http.MethodPost, base, "reader", noun)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(t, http.MethodPost, base, "curator", noun)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[models.Tag](t, w)
	assert.NotZero(t, created.ID)

	w = ts.do(t, http.MethodGet, fmt.Sprintf("/api/get/%s/%d", registry.PartsOfSpeech, created.ID), "reader", nil)
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[map[string]any](t, w)
	tags := view["tags"].([]any)
	require.Len(t, tags, 1)
	entry := tags[0].(map[string]any)
	assert.Equal(t, "N", entry["tag"].(map[string]any)["code"])
	assert.Equal(t, []any{}, entry["data"])

	w = ts.do(t, http.MethodPut, fmt.Sprintf("%s/%d", base, created.ID), "curator",
		map[string]any{"code": "N", "tag": "noun", "name": "संज्ञा", "extra": map[string]string{"bis_tag": "N_NN"}})
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodDelete, fmt.Sprintf("%s/%d", base, created.ID), "curator", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = ts.do(t, http.MethodDelete, fmt.Sprintf("%s/%d", base, created.ID), "curator", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestErrorTranslation(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/list/noun_tag", "reader", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, http.MethodPost, "/api/admin/"+registry.PartsOfSpeech+"/tags", "curator",
		map[string]any{"code": "N", "tag": "noun", "name": "N", "extra": map[string]string{"bogus": "x"}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "extra.bogus", decode[ErrorResponse](t, w).Field)

	w = ts.do(t, http.MethodPut, "/api/admin/languages/abc", "admin", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodDelete, "/api/admin/languages/1", "curator", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminDeniesBeforeReadingRequest(t *testing.T) {
	ts := newTestServer(t)
	noun := map[string]any{"code": "N", "tag": "noun", "name": "N"}

	// anonymous callers are challenged whether or not the category exists
	for _, path := range []string{"/api/admin/bogus/tags", "/api/admin/" + registry.PartsOfSpeech + "/tags"} {
		w := ts.do(t, http.MethodPost, path, "", noun)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w := ts.do(t, http.MethodPost, "/api/admin/bogus/tags", "reader", noun)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = ts.do(t, http.MethodDelete, "/api/admin/bogus/data/1", "reader", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// neither the id nor the body is looked at
	w = ts.do(t, http.MethodPut, "/api/admin/languages/abc", "curator", map[string]any{})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = ts.do(t, http.MethodPost, "/api/admin/users", "curator", map[string]any{})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// allowed callers still see the unknown category
	w = ts.do(t, http.MethodPost, "/api/admin/bogus/tags", "curator", noun)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUsersAndChangeLog(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/admin/users", "admin",
		map[string]any{"username": "meera", "password": "secret", "role": "curator"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "secret")
	assert.NotContains(t, w.Body.String(), "password")

	w = ts.do(t, http.MethodGet, "/api/admin/changelog?tablename=user", "curator", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(t, http.MethodGet, "/api/admin/changelog?tablename=user", "admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	entries := decode[[]models.ChangeLog](t, w)
	// three bootstrap accounts plus meera
	assert.Len(t, entries, 4)

	w = ts.do(t, http.MethodGet, "/api/admin/changelog?format=tsv", "admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/tab-separated-values", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "id\tuser_id\ttablename"))

	w = ts.do(t, http.MethodGet, "/api/admin/changelog?format=xml", "admin", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestComments(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/comments", "reader",
		map[string]any{"tablename": registry.Voice, "action": "generic", "comment": "missing passive example"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = ts.do(t, http.MethodGet, "/api/admin/comments", "reader", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(t, http.MethodGet, "/api/admin/comments", "curator", nil)
	require.Equal(t, http.StatusOK, w.Code)
	comments := decode[[]models.Comment](t, w)
	require.Len(t, comments, 1)
	assert.Equal(t, "missing passive example", comments[0].Comment)
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "samanvaya_mutations_total")
}
