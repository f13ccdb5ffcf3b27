// Package httpapi is the REST control plane described in spec §4.7: health,
// metrics, task CRUD-lite, and a static dashboard, routed with
// github.com/go-chi/chi/v5 in place of the original C++ implementation's
// hand-rolled httplib route table.
package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/Anujyadav911/TaskWeave/internal/loader"
	"github.com/Anujyadav911/TaskWeave/internal/metrics"
	"github.com/Anujyadav911/TaskWeave/internal/pool"
	"github.com/Anujyadav911/TaskWeave/internal/registry"
	"github.com/Anujyadav911/TaskWeave/internal/task"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Server is the configured-but-not-yet-listening HTTP control plane.
type Server struct {
	router         chi.Router
	httpServer     *http.Server
	registry       *registry.Registry
	pool           *pool.Pool
	metrics        *metrics.Metrics
	loader         *loader.Loader
	logger         *zap.Logger
	corsOrigin     string
	maxRequestSize int64
	dashboardPath  string
	startedAt      time.Time
}

// Config carries the subset of engine configuration the HTTP layer needs.
type Config struct {
	Port           int
	CORSOrigin     string
	MaxRequestSize int64
	DashboardPath  string
}

// New constructs a Server wired to the given collaborators. It does not
// bind a socket — call ListenAndServe.
func New(cfg Config, reg *registry.Registry, p *pool.Pool, m *metrics.Metrics, ld *loader.Loader, logger *zap.Logger) *Server {
	s := &Server{
		registry:       reg,
		pool:           p,
		metrics:        m,
		loader:         ld,
		logger:         logger,
		corsOrigin:     cfg.CORSOrigin,
		maxRequestSize: cfg.MaxRequestSize,
		dashboardPath:  cfg.DashboardPath,
		startedAt:      time.Now(),
	}

	r := chi.NewRouter()
	r.Use(s.requestIDMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodyLimitMiddleware)

	r.Get("/", s.handleDashboard)
	r.Get("/dashboard", s.handleDashboard)
	r.Get("/dashboard.html", s.handleDashboard)

	r.Get("/health", s.handleHealth)
	r.Get("/metrics", s.handleMetrics)
	r.Get("/api/metrics", s.handleMetrics)

	r.Get("/tasks", s.handleListTasks)
	r.Get("/tasks/{id}", s.handleGetTask)
	r.Post("/tasks", s.handleSubmitTask)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})

	s.router = r
	s.httpServer = &http.Server{
		Addr:    addrFromPort(cfg.Port),
		Handler: r,
	}
	return s
}

func addrFromPort(port int) string {
	return "0.0.0.0:" + strconv.Itoa(port)
}

type requestIDKey struct{}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// ListenAndServe starts the blocking HTTP server. It should be run in its
// own goroutine; the engine coordinates its lifecycle with the pool's.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http control plane starting", zap.String("addr", s.httpServer.Addr))
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop gracefully shuts down the HTTP server, letting in-flight requests
// finish before closing listeners. It should be called before the pool is
// shut down, per spec §4.7's lifecycle ordering.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// requestIDMiddleware stamps every request with a fresh trace id, echoed
// back in the response headers and attached to any log line the handler
// emits for that request.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		w.Header().Set("X-Request-Id", reqID)
		next.ServeHTTP(w, r.WithContext(withRequestID(r.Context(), reqID)))
	})
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) bodyLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > s.maxRequestSize {
			writeError(w, http.StatusRequestEntityTooLarge, "Request entity too large")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, s.maxRequestSize)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(s.dashboardPath)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html")
	_, _ = w.Write(data)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"engine":    "running",
		"timestamp": time.Now().Unix(),
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	tasks := s.registry.All()
	var pending, running, completed, failed int
	for _, t := range tasks {
		switch t.State() {
		case task.Created, task.Ready, task.Retrying:
			pending++
		case task.Running:
			running++
		case task.Completed:
			completed++
		case task.Failed:
			failed++
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total_tasks":      len(tasks),
		"pending":          pending,
		"running":          running,
		"completed":        completed,
		"failed":           failed,
		"uptime_seconds":   int(time.Since(s.startedAt).Seconds()),
		"thread_pool_size": s.pool.Size(),
	})
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks := s.registry.All()
	out := make([]map[string]any, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskSummary(t))
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": out})
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := parsePositiveInt(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task ID")
		return
	}

	t := s.registry.Get(id)
	if t == nil {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	writeJSON(w, http.StatusOK, taskSummary(t))
}

func (s *Server) handleSubmitTask(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "Request entity too large")
		return
	}

	defs, err := s.loader.LoadString(string(body))
	if err != nil {
		s.logger.Warn("invalid task document in POST /tasks", zap.Error(err))
		writeError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}
	if len(defs) == 0 {
		writeError(w, http.StatusBadRequest, "Invalid task format")
		return
	}

	def := defs[0]
	if s.registry.Get(def.ID) != nil {
		writeError(w, http.StatusConflict, "Task ID already exists")
		return
	}

	t := s.loader.BuildTask(def)
	if err := s.registry.Register(t); err != nil {
		writeError(w, http.StatusConflict, "Task ID already exists")
		return
	}
	s.pool.Submit(t)

	s.logger.Info("task submitted", zap.Int("task_id", def.ID), zap.String("request_id", requestIDFromContext(r.Context())))
	writeJSON(w, http.StatusOK, map[string]any{"status": "submitted", "task_id": def.ID})
}

func taskSummary(t *task.Task) map[string]any {
	snap := t.Snapshot()
	return map[string]any{
		"id":          snap.ID,
		"name":        snap.Name,
		"priority":    snap.Priority.String(),
		"state":       int(snap.State),
		"retry_count": snap.RetryCount,
		"max_retries": snap.MaxRetries,
	}
}

func parsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, &strconv.NumError{Func: "parsePositiveInt", Num: s, Err: strconv.ErrRange}
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
