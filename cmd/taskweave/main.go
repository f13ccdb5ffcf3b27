// Command taskweave is the CLI entrypoint: loads config, builds the
// engine, and runs until an interrupt signal, mirroring the teacher's
// cmd/scheduler/main.go flag-parse -> construct -> start -> wait-for-signal
// -> stop shape.
package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Anujyadav911/TaskWeave/internal/config"
	"github.com/Anujyadav911/TaskWeave/internal/engine"
	"github.com/Anujyadav911/TaskWeave/internal/loader"
	"github.com/Anujyadav911/TaskWeave/internal/logging"
	"github.com/Anujyadav911/TaskWeave/internal/task"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load("", os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	logger, err := logging.New(logging.Options{Level: "info", JSON: true})
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger error:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	switch cfg.Mode {
	case "submit":
		runSubmit(cfg, logger)
	default:
		runEngine(cfg, logger)
	}
}

func runEngine(cfg config.Config, logger *zap.Logger) {
	eng, err := engine.New(cfg, logger, "web/dashboard.html", cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to build engine", zap.Error(err))
	}

	eng.Start()

	if cfg.Mode == "demo" {
		seedDemoTasks(eng, logger)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down taskweave...")
	eng.Shutdown()
}

// seedDemoTasks submits a small illustrative batch so "demo" mode has
// something to show without an HTTP client, matching the original's
// Phase-0 main.cpp behavior of executing a couple of hardcoded tasks.
func seedDemoTasks(eng *engine.Engine, logger *zap.Logger) {
	demo := []loader.Definition{
		{ID: 1, Name: "low-priority-print", Priority: "LOW", Type: "print", Params: map[string]string{"message": "hello from task 1"}},
		{ID: 2, Name: "high-priority-print", Priority: "HIGH", Type: "print", Params: map[string]string{"message": "hello from task 2"}},
		{ID: 3, Name: "sleep-task", Priority: "MEDIUM", Type: "sleep", Params: map[string]string{"duration_ms": "50"}},
	}
	for _, def := range demo {
		if _, err := eng.SubmitDefinition(def); err != nil {
			logger.Warn("failed to submit demo task", zap.Int("id", def.ID), zap.Error(err))
		}
	}
}

// runSubmit is a one-shot client mode: POST a fixed single-task document
// (id 1, MEDIUM priority, a print payload) to a running engine's HTTP
// control plane on the --api-port port, mirroring the teacher's
// cmd/client/main.go.
func runSubmit(cfg config.Config, logger *zap.Logger) {
	url := fmt.Sprintf("http://127.0.0.1:%d/tasks", cfg.APIPort)
	body := fmt.Sprintf(`{"tasks":[{"id":1,"name":"cli-submitted","priority":%q,"type":"print","params":{"message":"submitted via taskweave submit"}}]}`,
		task.Medium.String())

	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		logger.Fatal("submit failed", zap.Error(err))
	}
	defer resp.Body.Close()

	logger.Info("submit response", zap.Int("status", resp.StatusCode))
}
