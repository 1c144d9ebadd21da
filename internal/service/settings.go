package service

import (
	"context"
	"fmt"

	"github.com/studyboosters/backend/internal/model"
	"github.com/studyboosters/backend/internal/store"
)

type SettingsService struct {
	settings *store.Value[model.Settings]
	activity *ActivityLogService
}

func NewSettingsService(adapter *store.Adapter, activity *ActivityLogService) *SettingsService {
	return &SettingsService{
		settings: store.NewValue[model.Settings](adapter, "settings"),
		activity: activity,
	}
}

// Get returns the stored settings, or the defaults when none are stored.
// Defaults are not written back.
func (s *SettingsService) Get(ctx context.Context) (model.Settings, error) {
	settings, ok, err := s.settings.Get(ctx)
	if err != nil {
		return model.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	if !ok {
		return model.DefaultSettings(), nil
	}
	return settings, nil
}

func (s *SettingsService) IsManualReviewEnabled(ctx context.Context) (bool, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return false, err
	}
	return settings.ManualReviewEnabled(), nil
}

// Update overwrites the stored settings with the given value.
func (s *SettingsService) Update(ctx context.Context, settings model.Settings) (model.Settings, error) {
	err := s.settings.Set(ctx, settings)
	if err != nil {
		return model.Settings{}, fmt.Errorf("failed to update settings: %w", err)
	}

	s.activity.Record(ctx, "Settings Update", "Admin updated system configuration")
	return settings, nil
}

// ToggleManualReview flips the manual review flag atomically and returns the new settings.
func (s *SettingsService) ToggleManualReview(ctx context.Context) (model.Settings, error) {
	settings, err := s.settings.Transact(ctx, func(current *model.Settings, exists bool) error {
		if !exists {
			*current = model.DefaultSettings()
		}
		enabled := !current.ManualReviewEnabled()
		current.ManualReview = &enabled
		return nil
	})
	if err != nil {
		return model.Settings{}, fmt.Errorf("failed to toggle manual review: %w", err)
	}

	state := "OFF"
	if settings.ManualReviewEnabled() {
		state = "ON"
	}
	s.activity.Record(ctx, "Mode Change", "Manual Review set to "+state)
	return settings, nil
}
