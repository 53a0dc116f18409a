package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/taskflow/taskflow/internal/config"
	"github.com/taskflow/taskflow/internal/notify"
	"github.com/taskflow/taskflow/internal/scheduler"
	"github.com/taskflow/taskflow/internal/service"
	"github.com/taskflow/taskflow/internal/storage"
	"github.com/taskflow/taskflow/internal/update"
	"github.com/taskflow/taskflow/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "taskflow failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		Path:     cfg.Logger.Path,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DatabasePath), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	repo, err := storage.OpenSQLite(cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer repo.Close()
	if err := storage.MigrateUp(repo.DB()); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	ctx := context.Background()
	if n, err := storage.ImportLegacyFile(ctx, repo, cfg.Storage.LegacyImport, time.Now()); err != nil {
		log.Warn("legacy import failed", zap.Error(err))
	} else if n > 0 {
		log.Info("imported legacy tasks", zap.Int("count", n))
	}

	state, err := notify.OpenState(cfg.Storage.StatePath)
	if err != nil {
		return fmt.Errorf("open notification state: %w", err)
	}
	defer state.Close()

	tasks := service.NewTaskService(repo, log, service.Config{})
	tasks.Load(ctx)
	settings := service.NewSettingsService(repo, log)
	settings.Load(ctx)

	var sender notify.Notifier = notify.LogNotifier{Log: log}
	if settings.Settings().Enabled {
		desktop := notify.DesktopNotifier{}
		if desktop.RequestPermission() {
			sender = desktop
		} else {
			log.Warn("desktop notifications unavailable, logging instead")
		}
	}

	checker := notify.NewChecker(state, sender, log, notify.CheckerConfig{
		Window:       cfg.Scheduler.FiringWindow,
		OverdueDelay: cfg.Scheduler.OverdueDelay,
	})

	sched, err := scheduler.New(checker, tasks.Tasks, settings.Settings, cfg.Scheduler.PollInterval, log)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	if err := sched.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer sched.Stop()

	program := tea.NewProgram(
		update.NewModel(tasks, settings, checker, sched, log),
		tea.WithAltScreen(),
		tea.WithReportFocus(),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
