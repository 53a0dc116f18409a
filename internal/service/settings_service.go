package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/taskflow/taskflow/internal/model"
	"github.com/taskflow/taskflow/internal/storage"
)

// SettingsService holds the single notification settings instance and writes
// it through on every change.
type SettingsService struct {
	mu       sync.Mutex
	repo     storage.Repository
	log      *zap.Logger
	settings model.Settings
}

func NewSettingsService(repo storage.Repository, log *zap.Logger) *SettingsService {
	return &SettingsService{
		repo:     repo,
		log:      log,
		settings: model.DefaultSettings(),
	}
}

// Load reads persisted settings. Missing or unreadable state falls back to
// the defaults (everything on).
func (s *SettingsService) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, err := s.repo.GetSettings(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Warn("load settings, using defaults", zap.Error(err))
		}
		s.settings = model.DefaultSettings()
		return
	}
	s.settings = model.Settings{
		Enabled:      row.Enabled,
		Reminders:    row.Reminders,
		OverdueTasks: row.OverdueTasks,
		Sound:        row.Sound,
	}
}

func (s *SettingsService) Settings() model.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// SettingsPatch sets only the toggles it names.
type SettingsPatch struct {
	Enabled      *bool
	Reminders    *bool
	OverdueTasks *bool
	Sound        *bool
}

func (s *SettingsService) Update(ctx context.Context, patch SettingsPatch) (model.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.settings
	if patch.Enabled != nil {
		next.Enabled = *patch.Enabled
	}
	if patch.Reminders != nil {
		next.Reminders = *patch.Reminders
	}
	if patch.OverdueTasks != nil {
		next.OverdueTasks = *patch.OverdueTasks
	}
	if patch.Sound != nil {
		next.Sound = *patch.Sound
	}
	if err := s.repo.SaveSettings(ctx, storage.Settings{
		Enabled:      next.Enabled,
		Reminders:    next.Reminders,
		OverdueTasks: next.OverdueTasks,
		Sound:        next.Sound,
	}); err != nil {
		return s.settings, fmt.Errorf("persist settings: %w", err)
	}
	s.settings = next
	return next, nil
}
