package port

import (
	"context"

	"github.com/rl1809/savdo-pos/internal/core/domain"
)

// SettingsRepository persists terminal-local settings across restarts.
type SettingsRepository interface {
	// Load returns stored settings, or defaults when none are stored yet
	Load(ctx context.Context) (domain.AppSettings, error)

	// Save replaces the stored settings
	Save(ctx context.Context, s domain.AppSettings) error
}
