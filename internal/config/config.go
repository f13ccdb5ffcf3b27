// Package config loads TaskWeave's configuration from defaults, an
// optional file, environment variables, and command-line flags, in that
// ascending precedence, per spec §6.
package config

import (
	"encoding/json"
	"os"

	"github.com/caarlos0/env/v11"
	flag "github.com/spf13/pflag"
)

// Config holds every value the config layer binds, matching
// original_source/utils/Config.h's field set.
type Config struct {
	Threads           int    `env:"TASKWEAVE_THREADS" json:"threads"`
	Scheduler         string `env:"TASKWEAVE_SCHEDULER" json:"scheduler"`
	MaxRetries        int    `env:"TASKWEAVE_MAX_RETRIES" json:"max_retries"`
	APIPort           int    `env:"TASKWEAVE_API_PORT" json:"api_port"`
	Mode              string `env:"TASKWEAVE_MODE" json:"mode"`
	MaxRequestSize    int    `env:"TASKWEAVE_MAX_REQUEST_SIZE" json:"max_request_size"`
	MaxConnections    int    `json:"max_connections"`
	CORSOrigin        string `env:"TASKWEAVE_CORS_ORIGIN" json:"cors_origin"`
	ValidationEnabled bool   `json:"validation_enabled"`
	DBPath            string `env:"TASKWEAVE_DB_PATH" json:"db_path"`
}

// Defaults returns the compiled-in baseline, the lowest precedence layer.
func Defaults() Config {
	return Config{
		Threads:           2,
		Scheduler:         "roundrobin",
		MaxRetries:        0,
		APIPort:           8080,
		Mode:              "demo",
		MaxRequestSize:    1024 * 1024,
		MaxConnections:    100,
		CORSOrigin:        "*",
		ValidationEnabled: true,
		DBPath:            "",
	}
}

// LoadFile overlays JSON file contents onto cfg. A missing file is not an
// error — the file layer is optional.
func LoadFile(cfg Config, path string) (Config, error) {
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadEnv overlays TASKWEAVE_* environment variables onto cfg.
func LoadEnv(cfg Config) (Config, error) {
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Flags binds --threads, --scheduler, --max-retries, --api-port, --mode,
// --max-request-size, --cors-origin, and --db-path onto fs, with defaults
// seeded from cfg, the highest-precedence layer. Each flag writes straight
// into the matching cfg field, so after the caller runs fs.Parse on the
// process arguments cfg holds the final values.
func Flags(fs *flag.FlagSet, cfg *Config) {
	fs.IntVar(&cfg.Threads, "threads", cfg.Threads, "number of worker threads")
	fs.StringVar(&cfg.Scheduler, "scheduler", cfg.Scheduler, "scheduling discipline: priority|roundrobin")
	fs.IntVar(&cfg.MaxRetries, "max-retries", cfg.MaxRetries, "max retries setting stored in Config; task definitions without max_retries still get 0")
	fs.IntVar(&cfg.APIPort, "api-port", cfg.APIPort, "HTTP control plane port")
	fs.StringVar(&cfg.Mode, "mode", cfg.Mode, "demo|api|submit")
	fs.IntVar(&cfg.MaxRequestSize, "max-request-size", cfg.MaxRequestSize, "maximum POST /tasks body size in bytes")
	fs.StringVar(&cfg.CORSOrigin, "cors-origin", cfg.CORSOrigin, "Access-Control-Allow-Origin value")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "optional sqlite path for the persistence collaborator; empty disables it")
}

// Load runs the full defaults -> file -> env -> flags precedence chain.
// filePath may be empty to skip the file layer; args are the CLI argument
// slice to parse flags from (typically os.Args[1:]).
func Load(filePath string, args []string) (Config, error) {
	cfg := Defaults()

	cfg, err := LoadFile(cfg, filePath)
	if err != nil {
		return cfg, err
	}

	cfg, err = LoadEnv(cfg)
	if err != nil {
		return cfg, err
	}

	fs := flag.NewFlagSet("taskweave", flag.ContinueOnError)
	Flags(fs, &cfg)
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	return cfg, nil
}
