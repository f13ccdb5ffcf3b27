package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Anujyadav911/TaskWeave/internal/loader"
	"github.com/Anujyadav911/TaskWeave/internal/metrics"
	"github.com/Anujyadav911/TaskWeave/internal/pool"
	"github.com/Anujyadav911/TaskWeave/internal/registry"
	"github.com/Anujyadav911/TaskWeave/internal/scheduler"
	"github.com/Anujyadav911/TaskWeave/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	reg := registry.New()
	m := metrics.New()
	sched := scheduler.New(scheduler.RoundRobin)
	p := pool.New(1, sched, reg, m, zap.NewNop())
	ld := loader.New(nil, task.NewCatalog(nil))

	return New(Config{
		Port:           0,
		CORSOrigin:     "*",
		MaxRequestSize: 1024,
		DashboardPath:  "",
	}, reg, p, m, ld, zap.NewNop())
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNotFoundFallsThroughToCatchAll(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOptionsPreflightIsAlwaysOK(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/tasks", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSubmitTaskThenGetByID(t *testing.T) {
	s := newTestServer(t)

	body := `{"tasks":[{"id":1,"name":"t1","priority":"HIGH","type":"print","params":{"message":"hi"}}]}`
	req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(body))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	req2 := httptest.NewRequest(http.MethodGet, "/tasks/1", nil)
	w2 := httptest.NewRecorder()
	s.router.ServeHTTP(w2, req2)
	assert.Equal(t, http.StatusOK, w2.Code)
}

func TestSubmitDuplicateIDReturnsConflict(t *testing.T) {
	s := newTestServer(t)
	body := `{"tasks":[{"id":1,"type":"print"}]}`

	req1 := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(body))
	w1 := httptest.NewRecorder()
	s.router.ServeHTTP(w1, req1)
	require.Equal(t, http.StatusOK, w1.Code)

	req2 := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(body))
	w2 := httptest.NewRecorder()
	s.router.ServeHTTP(w2, req2)
	assert.Equal(t, http.StatusConflict, w2.Code)
}

func TestSubmitInvalidJSONReturnsBadRequest(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitOversizedBodyReturnsTooLarge(t *testing.T) {
	s := newTestServer(t)
	huge := strings.Repeat("a", 2048)
	body := `{"tasks":[{"id":1,"type":"print","params":{"pad":"` + huge + `"}}]}`

	req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(body))
	req.ContentLength = int64(len(body))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestGetUnknownTaskReturnsNotFound(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/tasks/999", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetTaskInvalidIDReturnsBadRequest(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/tasks/not-a-number", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsAndAPIMetricsReturnSamePayload(t *testing.T) {
	s := newTestServer(t)

	req1 := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w1 := httptest.NewRecorder()
	s.router.ServeHTTP(w1, req1)

	req2 := httptest.NewRequest(http.MethodGet, "/api/metrics", nil)
	w2 := httptest.NewRecorder()
	s.router.ServeHTTP(w2, req2)

	assert.Equal(t, http.StatusOK, w1.Code)
	assert.Equal(t, http.StatusOK, w2.Code)
	assert.JSONEq(t, w1.Body.String(), w2.Body.String())
}
