package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates the runtime settings of the app. Everything has a
// default so the binary boots with no environment at all.
type Config struct {
	Storage   StorageConfig
	Scheduler SchedulerConfig
	Logger    LoggerConfig
}

type StorageConfig struct {
	DatabasePath string // sqlite file holding tasks and settings
	StatePath    string // bbolt file holding notified de-dup state
	LegacyImport string // old JSON export, imported once into an empty db
}

type SchedulerConfig struct {
	PollInterval time.Duration
	FiringWindow time.Duration
	OverdueDelay time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
	Path     string // log file; the TUI owns stdout
}

// Load reads configuration from environment variables (optionally .env) and
// applies defaults rooted in the user data directory.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	dataDir := getEnv("TASKFLOW_DATA_DIR", defaultDataDir())

	cfg := &Config{
		Storage: StorageConfig{
			DatabasePath: getEnv("TASKFLOW_DB_PATH", filepath.Join(dataDir, "taskflow.db")),
			StatePath:    getEnv("TASKFLOW_STATE_PATH", filepath.Join(dataDir, "notified.db")),
			LegacyImport: getEnv("TASKFLOW_LEGACY_IMPORT", filepath.Join(dataDir, "taskflow_tasks.json")),
		},
		Scheduler: SchedulerConfig{
			PollInterval: getEnvDuration("TASKFLOW_POLL_INTERVAL", 10*time.Second),
			FiringWindow: getEnvDuration("TASKFLOW_FIRING_WINDOW", time.Minute),
			OverdueDelay: getEnvDuration("TASKFLOW_OVERDUE_DELAY", 30*time.Minute),
		},
		Logger: LoggerConfig{
			Level:    getEnv("TASKFLOW_LOG_LEVEL", "info"),
			Encoding: getEnv("TASKFLOW_LOG_ENCODING", "json"),
			Path:     getEnv("TASKFLOW_LOG_PATH", filepath.Join(dataDir, "taskflow.log")),
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Scheduler.PollInterval <= 0 {
		return fmt.Errorf("config: poll interval must be positive, got %s", c.Scheduler.PollInterval)
	}
	if c.Scheduler.FiringWindow <= 0 {
		return fmt.Errorf("config: firing window must be positive, got %s", c.Scheduler.FiringWindow)
	}
	if c.Scheduler.PollInterval > c.Scheduler.FiringWindow {
		return fmt.Errorf("config: poll interval %s exceeds firing window %s; crossings would be missed",
			c.Scheduler.PollInterval, c.Scheduler.FiringWindow)
	}
	if c.Scheduler.OverdueDelay < 0 {
		return fmt.Errorf("config: overdue delay must not be negative, got %s", c.Scheduler.OverdueDelay)
	}
	return nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taskflow"
	}
	return filepath.Join(home, ".taskflow")
}

func getEnv(name, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	if v, err := time.ParseDuration(raw); err == nil {
		return v
	}
	// Bare numbers are read as seconds.
	if v, err := strconv.Atoi(raw); err == nil && v > 0 {
		return time.Duration(v) * time.Second
	}
	return fallback
}
