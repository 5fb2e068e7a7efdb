package ports

import "go.keyframe.sh/onion/internal/core/domain"

// SettingsStore loads onion-skin settings from configuration.
//
//go:generate mockgen -source=settings_store.go -destination=mocks/mock_settings_store.go -package=mocks
type SettingsStore interface {
	// Load reads settings from path. A missing file yields defaults, not
	// an error; a malformed file is an error.
	Load(path string) (domain.Settings, error)
}
